package ruoyi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruoyi-fastapi/ruoyi-go/pkg/api"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/constants"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
)

// fakeServer is a routed stand-in for the RuoYi backend.
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()

	reply := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	r := chi.NewRouter()
	r.Route("/notify/channel", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if req.Header.Get("Authorization") != "Bearer secret" {
					reply(w, map[string]any{"code": 401, "msg": "用户未登录"})
					return
				}
				next.ServeHTTP(w, req)
			})
		})
		r.Get("/list", func(w http.ResponseWriter, req *http.Request) {
			reply(w, map[string]any{
				"code":  200,
				"rows":  []map[string]any{{"channelId": 1, "channelName": req.URL.Query().Get("channelName")}},
				"total": 1,
			})
		})
		r.Delete("/{ids}", func(w http.ResponseWriter, req *http.Request) {
			reply(w, map[string]any{"code": 200, "msg": "删除 " + chi.URLParam(req, "ids")})
		})
		r.Post("/test/{id}", func(w http.ResponseWriter, req *http.Request) {
			reply(w, map[string]any{"code": 500, "msg": "HTTP 404: not found"})
		})
	})
	r.Get("/notify/send/{key}/{content}", func(w http.ResponseWriter, req *http.Request) {
		reply(w, map[string]any{
			"code": 200,
			"data": map[string]any{"success": true, "total": 1, "success_count": 1, "results": []any{}},
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func TestNewDefaults(t *testing.T) {
	client, err := New()
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultBaseURL, client.BaseURL())
	assert.NotNil(t, client.Channels)
	assert.NotNil(t, client.Send)
}

func TestNewOptionErrors(t *testing.T) {
	_, err := New(WithBaseURL(" "))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(WithTimeout(-time.Second))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(WithBaseURL("localhost:9099"))
	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestClientAgainstFakeServer(t *testing.T) {
	server := fakeServer(t)
	ctx := context.Background()

	client, err := New(WithBaseURL(server.URL), WithToken("Bearer secret"), WithTimeout(5*time.Second))
	require.NoError(t, err)

	page, err := client.Channels.List(ctx, &api.NotifyChannelQuery{ChannelName: "ops"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "ops", page.Rows[0].ChannelName)

	result, err := client.Channels.Delete(ctx, "1", "2")
	require.NoError(t, err)
	assert.Equal(t, "删除 1,2", result.Message)

	_, err = client.Channels.Test(ctx, "1")
	require.Error(t, err)
	assert.True(t, errors.IsApplication(err))

	sent, err := client.Send.SendText(ctx, "sk-1", "build ok")
	require.NoError(t, err)
	assert.True(t, sent.Success)
}

func TestClientWithoutToken(t *testing.T) {
	server := fakeServer(t)

	client, err := New(WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Channels.List(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))
}

func TestWithDispatcher(t *testing.T) {
	var got []*Descriptor
	d := DispatcherFunc(func(_ context.Context, desc *Descriptor) (*Response, error) {
		got = append(got, desc)
		return nil, errors.NewTransportError(string(desc.Method), desc.Path, context.Canceled)
	})

	client, err := New(WithDispatcher(d))
	require.NoError(t, err)
	assert.Empty(t, client.BaseURL())

	_, err = client.Students.Get(context.Background(), "42")
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))

	require.Len(t, got, 1)
	assert.Equal(t, "/student/info/42", got[0].Path)
	assert.Nil(t, got[0].Body)
	assert.Nil(t, got[0].Query)
}
