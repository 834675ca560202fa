package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/logging"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/metrics"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(server.URL, opts...)
	require.NoError(t, err)
	return client
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	tests := []string{"", "localhost:9099", "ftp://example.com", "http://", "://bad"}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := New(raw)
			require.Error(t, err)
			var cfgErr *errors.ConfigError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestSendListDecodesPage(t *testing.T) {
	var gotQuery, gotAuth, gotRequestID, gotAccept string
	r := chi.NewRouter()
	r.Get("/notify/channel/list", func(w http.ResponseWriter, req *http.Request) {
		gotQuery = req.URL.RawQuery
		gotAuth = req.Header.Get("Authorization")
		gotRequestID = req.Header.Get("X-Request-Id")
		gotAccept = req.Header.Get("Accept")
		writeJSON(w, http.StatusOK, map[string]any{
			"code":     200,
			"msg":      "操作成功",
			"success":  true,
			"rows":     []map[string]any{{"channelId": 1}, {"channelId": 2}},
			"total":    12,
			"pageNum":  1,
			"pageSize": 2,
			"hasNext":  true,
		})
	})

	client := newTestClient(t, r,
		WithAuthenticator(BearerAuth{Token: "tok"}),
		WithRequestIDFunc(func() string { return "req-1" }),
	)

	resp, err := client.Send(context.Background(), &Descriptor{
		Resource: "notify.channel",
		Path:     "/notify/channel/list",
		Method:   MethodGet,
		Query:    Query{"pageNum": 1, "pageSize": 2, "channelName": "mail"},
	})
	require.NoError(t, err)

	assert.Equal(t, "channelName=mail&pageNum=1&pageSize=2", gotQuery)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "req-1", gotRequestID)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "操作成功", resp.Message())

	var rows []struct {
		ChannelID int `json:"channelId"`
	}
	total, err := resp.DecodeRows(&rows)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[1].ChannelID)
	assert.True(t, resp.Envelope.HasNext)
}

func TestSendPostsJSONBody(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	r := chi.NewRouter()
	r.Post("/system/demo", func(w http.ResponseWriter, req *http.Request) {
		gotContentType = req.Header.Get("Content-Type")
		_ = json.NewDecoder(req.Body).Decode(&gotBody)
		writeJSON(w, http.StatusOK, map[string]any{"code": 200, "msg": "新增成功"})
	})

	client := newTestClient(t, r)
	resp, err := client.Send(context.Background(), &Descriptor{
		Resource: "system.demo",
		Path:     "/system/demo",
		Method:   MethodPost,
		Body:     map[string]any{"demoName": "x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "新增成功", resp.Message())
	assert.Equal(t, "application/json;charset=utf-8", gotContentType)
	assert.Equal(t, "x", gotBody["demoName"])
}

func TestSendDecodeData(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/system/book/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"code": 200,
			"data": map[string]any{"bookId": chi.URLParam(req, "id"), "bookName": "Go"},
		})
	})

	client := newTestClient(t, r)
	resp, err := client.Send(context.Background(), &Descriptor{
		Path:   JoinPath("/system/book", "42"),
		Method: MethodGet,
	})
	require.NoError(t, err)

	var book struct {
		BookID   string `json:"bookId"`
		BookName string `json:"bookName"`
	}
	require.NoError(t, resp.DecodeData(&book))
	assert.Equal(t, "42", book.BookID)
	assert.Equal(t, "Go", book.BookName)
}

func TestSendBareArrayBody(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/system/audio/voices/list", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"name": "zh-CN-XiaoxiaoNeural"}})
	})

	client := newTestClient(t, r)
	resp, err := client.Send(context.Background(), &Descriptor{Path: "/system/audio/voices/list", Method: MethodGet})
	require.NoError(t, err)

	var voices []map[string]string
	require.NoError(t, resp.DecodeData(&voices))
	require.Len(t, voices, 1)
	assert.Equal(t, "zh-CN-XiaoxiaoNeural", voices[0]["name"])
}

func TestSendBinaryDownload(t *testing.T) {
	payload := []byte{0x49, 0x44, 0x33, 0x00, 0xff}
	var gotAccept string
	r := chi.NewRouter()
	r.Get("/system/audio/download/{id}", func(w http.ResponseWriter, req *http.Request) {
		gotAccept = req.Header.Get("Accept")
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Content-Disposition", `attachment; filename="7.mp3"`)
		_, _ = w.Write(payload)
	})

	client := newTestClient(t, r)
	resp, err := client.Send(context.Background(), &Descriptor{
		Path:         JoinPath("/system/audio/download", "7"),
		Method:       MethodGet,
		ResponseType: ResponseTypeBinary,
	})
	require.NoError(t, err)
	assert.Equal(t, "*/*", gotAccept)
	assert.Equal(t, payload, resp.Body)
	assert.Nil(t, resp.Envelope)
	assert.Equal(t, "audio/mpeg", resp.ContentType())
	assert.Equal(t, "7.mp3", resp.Filename())
}

func TestSendBinaryFailureEnvelope(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/system/book/export", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"code": 500, "msg": "导出失败"})
	})

	client := newTestClient(t, r)
	_, err := client.Send(context.Background(), &Descriptor{
		Path:         "/system/book/export",
		Method:       MethodPost,
		ResponseType: ResponseTypeBinary,
	})
	require.Error(t, err)
	assert.True(t, errors.IsApplication(err))

	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Code)
	assert.Equal(t, "导出失败", apiErr.Message)
}

func TestSendFailureEnvelopeKeepsData(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/notify/send/{key}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"code": 500, "msg": "发送失败", "success": false,
			"data": map[string]any{"success": false, "total": 2, "fail_count": 2},
		})
	})

	client := newTestClient(t, r)
	_, err := client.Send(context.Background(), &Descriptor{Path: "/notify/send/sk-1", Method: MethodPost, Body: map[string]any{}})
	require.Error(t, err)

	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Code)
	assert.JSONEq(t, `{"success":false,"total":2,"fail_count":2}`, string(apiErr.Data))
}

func TestEnvelopeOK(t *testing.T) {
	code := func(c int) *int { return &c }
	flag := func(b bool) *bool { return &b }

	tests := []struct {
		name string
		env  Envelope
		want bool
	}{
		{name: "no code or flag", env: Envelope{}, want: true},
		{name: "success code", env: Envelope{Code: code(200)}, want: true},
		{name: "failure code", env: Envelope{Code: code(500)}, want: false},
		{name: "code wins over flag", env: Envelope{Code: code(200), Success: flag(false)}, want: true},
		{name: "failure flag without code", env: Envelope{Success: flag(false)}, want: false},
		{name: "success flag without code", env: Envelope{Success: flag(true)}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.env.OK())
		})
	}
}

func TestSendErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		check      func(t *testing.T, err error)
		wantStatus int
		wantCode   int
		wantMsg    string
	}{
		{
			name: "envelope failure code on 200",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"code": 601, "msg": "渠道名称已存在"})
			},
			wantStatus: 200,
			wantCode:   601,
			wantMsg:    "渠道名称已存在",
		},
		{
			name: "expired token",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"code": 401, "msg": "登录信息已过期"})
			},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsUnauthorized(err))
			},
			wantStatus: 200,
			wantCode:   401,
			wantMsg:    "登录信息已过期",
		},
		{
			name: "non-2xx with envelope",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusNotFound, map[string]any{"code": 404, "msg": "not found"})
			},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsNotFound(err))
			},
			wantStatus: 404,
			wantCode:   404,
			wantMsg:    "not found",
		},
		{
			name: "fastapi validation detail",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "bad id"})
			},
			wantStatus: 422,
			wantMsg:    "bad id",
		},
		{
			name: "plain text 502",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = io.WriteString(w, "upstream down\n")
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errors.ErrServerUnavailable)
			},
			wantStatus: 502,
			wantMsg:    "upstream down",
		},
		{
			name: "empty 500",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantStatus: 500,
			wantMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			resp, err := client.Send(context.Background(), &Descriptor{Path: "/notify/channel", Method: MethodPost, Body: map[string]any{}})
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, errors.IsApplication(err))
			assert.False(t, errors.IsTransport(err))

			var apiErr *errors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestSendMalformedJSON(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"code": 200, "rows": [`)
	}))

	_, err := client.Send(context.Background(), &Descriptor{Path: "/notify/log/list", Method: MethodGet})
	require.Error(t, err)
	assert.True(t, errors.IsDecode(err))
	assert.False(t, errors.IsApplication(err))

	var decodeErr *errors.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "envelope", decodeErr.Target)
}

func TestDecodeRowsTypeMismatch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"code": 200, "rows": []string{"a"}, "total": 1})
	}))

	resp, err := client.Send(context.Background(), &Descriptor{Path: "/notify/log/list", Method: MethodGet})
	require.NoError(t, err)

	var rows []struct {
		LogID int `json:"logId"`
	}
	_, err = resp.DecodeRows(&rows)
	require.Error(t, err)
	assert.True(t, errors.IsDecode(err))
}

func TestSendEmptyBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	resp, err := client.Send(context.Background(), &Descriptor{Path: "/system/demo/1", Method: MethodDelete})
	require.NoError(t, err)
	require.NotNil(t, resp.Envelope)
	assert.True(t, resp.Envelope.OK())
}

func TestSendTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := New(baseURL)
	require.NoError(t, err)

	_, err = client.Send(context.Background(), &Descriptor{Path: "/notify/key/list", Method: MethodGet})
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
	assert.False(t, errors.IsApplication(err))
	assert.False(t, errors.IsTimeout(err))
}

func TestSendTimeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-release:
		case <-req.Context().Done():
		}
	}), WithTimeout(50*time.Millisecond))
	defer close(release)

	_, err := client.Send(context.Background(), &Descriptor{Path: "/system/audio/generate", Method: MethodPost})
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
	assert.True(t, errors.IsTimeout(err))
}

func TestSendBinaryHonoursLongerCallerDeadline(t *testing.T) {
	slow := func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("PK"))
	}
	r := chi.NewRouter()
	r.Get("/system/audio/download/{id}", slow)
	r.Get("/system/audio/list", slow)
	client := newTestClient(t, r, WithTimeout(50*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.Send(ctx, &Descriptor{
		Path:         "/system/audio/download/7",
		Method:       MethodGet,
		ResponseType: ResponseTypeBinary,
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("PK"), resp.Body)

	// Without a caller deadline the client timeout still applies
	_, err = client.Send(context.Background(), &Descriptor{
		Path:         "/system/audio/download/7",
		Method:       MethodGet,
		ResponseType: ResponseTypeBinary,
	})
	assert.True(t, errors.IsTimeout(err))

	// JSON calls keep the client timeout regardless of the caller deadline
	_, err = client.Send(ctx, &Descriptor{Path: "/system/audio/list", Method: MethodGet})
	assert.True(t, errors.IsTimeout(err))
}

func TestSendCanceled(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"code": 200})
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Send(ctx, &Descriptor{Path: "/system/demo/list", Method: MethodGet})
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
	assert.True(t, errors.IsCanceled(err))
}

func TestSendInvalidDescriptorMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))

	_, err := client.Send(context.Background(), &Descriptor{Path: "", Method: MethodGet})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	_, err = client.Send(context.Background(), &Descriptor{Path: "/x", Method: MethodGet, Body: make(chan int)})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	assert.Equal(t, int32(0), hits.Load())
}

func TestSendOneRoundTripPerCall(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	d := &Descriptor{Path: "/notify/platform/list", Method: MethodGet}
	_, err := client.Send(context.Background(), d)
	require.Error(t, err)
	_, err = client.Send(context.Background(), d)
	require.Error(t, err)

	assert.Equal(t, int32(2), hits.Load())
}

func TestSendBasePathPrefix(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.EscapedPath()
		writeJSON(w, http.StatusOK, map[string]any{"code": 200})
	}))
	defer server.Close()

	client, err := New(server.URL + "/dev-api/")
	require.NoError(t, err)

	_, err = client.Send(context.Background(), &Descriptor{
		Path:   JoinPath("/notify/send", "key", "a/b c"),
		Method: MethodGet,
	})
	require.NoError(t, err)
	assert.Equal(t, "/dev-api/notify/send/key/a%2Fb%20c", gotPath)
}

func TestSendRecordsMetricsAndLogs(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder := metrics.NewManager(metrics.WithRegistry(reg))
	tl := logging.NewTestLogger(t)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"code": 200})
	}), WithRecorder(recorder), WithLogger(tl.Logger), WithRequestIDFunc(func() string { return "abc" }))

	_, err := client.Send(context.Background(), &Descriptor{Resource: "system.demo", Path: "/system/demo/list", Method: MethodGet})
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "ruoyi_client_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	tl.AssertContains(t, `"request_id":"abc"`)
	tl.AssertContains(t, `"resource":"system.demo"`)
	tl.AssertContains(t, "request finished")
}

func TestSendUsesContextRequestID(t *testing.T) {
	var got string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got = req.Header.Get("X-Request-Id")
		writeJSON(w, http.StatusOK, map[string]any{"code": 200})
	}), WithRequestIDFunc(func() string { return "generated" }))

	ctx := logging.WithRequestID(context.Background(), "from-ctx")
	_, err := client.Send(ctx, &Descriptor{Path: "/system/demo/list", Method: MethodGet})
	require.NoError(t, err)
	assert.Equal(t, "from-ctx", got)
}

func TestSendFormBody(t *testing.T) {
	var gotContentType, gotStatus, gotPageNum string
	r := chi.NewRouter()
	r.Post("/system/book/export", func(w http.ResponseWriter, req *http.Request) {
		gotContentType = req.Header.Get("Content-Type")
		require.NoError(t, req.ParseForm())
		gotStatus = req.PostForm.Get("status")
		gotPageNum = req.PostForm.Get("pageNum")
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("PK\x03\x04"))
	})

	client := newTestClient(t, r)
	resp, err := client.Send(context.Background(), &Descriptor{
		Path:         "/system/book/export",
		Method:       MethodPost,
		Form:         Query{"status": "0", "pageNum": 1},
		ResponseType: ResponseTypeBinary,
	})
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "0", gotStatus)
	assert.Equal(t, "1", gotPageNum)
	assert.Equal(t, []byte("PK\x03\x04"), resp.Body)
}
