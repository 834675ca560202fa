package notify

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruoyi-fastapi/ruoyi-go"
	"github.com/ruoyi-fastapi/ruoyi-go/cmd/application"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	reply := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	r := chi.NewRouter()
	r.Post("/notify/channel/test/{id}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "id") == "9" {
			reply(w, map[string]any{"code": 500, "msg": "webhook returned 404"})
			return
		}
		reply(w, map[string]any{"code": 200, "msg": "测试消息发送成功"})
	})
	r.Post("/notify/key/reset/{id}", func(w http.ResponseWriter, req *http.Request) {
		reply(w, map[string]any{"code": 200, "msg": "操作成功", "data": map[string]any{"api_key": "sk-rotated-" + chi.URLParam(req, "id")}})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newApp(baseURL, format string) *application.Mock {
	return &application.Mock{
		ClientFunc: func() (*ruoyi.Client, error) {
			return ruoyi.New(ruoyi.WithBaseURL(baseURL), ruoyi.WithToken("t"))
		},
		OutputFormatFunc: func() string { return format },
	}
}

func execute(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestChannelTest(t *testing.T) {
	srv := newServer(t)

	out, err := execute(NewChannelsCommand(newApp(srv.URL, "table")), "test", "1")
	require.NoError(t, err)
	assert.Equal(t, "测试消息发送成功\n", out)

	_, err = execute(NewChannelsCommand(newApp(srv.URL, "table")), "test", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook returned 404")
}

func TestKeyReset(t *testing.T) {
	srv := newServer(t)

	out, err := execute(NewKeysCommand(newApp(srv.URL, "table")), "reset", "4")
	require.NoError(t, err)
	assert.Equal(t, "sk-rotated-4\n", out)

	out, err = execute(NewKeysCommand(newApp(srv.URL, "json")), "reset", "4")
	require.NoError(t, err)
	assert.JSONEq(t, `{"api_key":"sk-rotated-4"}`, out)
}

func TestJoinInts(t *testing.T) {
	assert.Equal(t, "", joinInts(nil))
	assert.Equal(t, "1", joinInts([]int64{1}))
	assert.Equal(t, "1,22,333", joinInts([]int64{1, 22, 333}))
}
