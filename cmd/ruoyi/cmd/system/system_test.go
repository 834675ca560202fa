package system

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruoyi-fastapi/ruoyi-go"
	"github.com/ruoyi-fastapi/ruoyi-go/cmd/application"
)

func newAudioServer(t *testing.T, generated *string) *httptest.Server {
	t.Helper()

	reply := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	r := chi.NewRouter()
	r.Route("/system/audio", func(r chi.Router) {
		r.Post("/generate", func(w http.ResponseWriter, req *http.Request) {
			data, _ := io.ReadAll(req.Body)
			*generated = string(data)
			reply(w, map[string]any{"code": 200, "msg": "操作成功", "data": map[string]any{"audio_id": 7, "file_path": "/audio/7.mp3"}})
		})
		r.Get("/voices/list", func(w http.ResponseWriter, _ *http.Request) {
			reply(w, map[string]any{"code": 200, "data": []map[string]string{{"value": "alloy", "label": "Alloy"}}})
		})
		r.Get("/download/{id}", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "audio/mpeg")
			w.Header().Set("Content-Disposition", `attachment; filename="clip-`+chi.URLParam(req, "id")+`.mp3"`)
			_, _ = w.Write([]byte("ID3-audio"))
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func mockApp(t *testing.T, baseURL string) *application.Mock {
	t.Helper()
	return &application.Mock{
		ClientFunc: func() (*ruoyi.Client, error) {
			return ruoyi.New(ruoyi.WithBaseURL(baseURL), ruoyi.WithToken("t"))
		},
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

func TestAudioGenerate(t *testing.T) {
	var generated string
	srv := newAudioServer(t, &generated)

	out, err := execute(NewAudioCommand(mockApp(t, srv.URL)), "generate", "hello", "--voice", "alloy", "--speed", "1.5")
	require.NoError(t, err)

	assert.JSONEq(t, `{"audio_id":7,"file_path":"/audio/7.mp3"}`, out)
	assert.JSONEq(t, `{"inputText":"hello","voice":"alloy","speed":1.5}`, generated)
}

func TestAudioVoices(t *testing.T) {
	var generated string
	srv := newAudioServer(t, &generated)

	out, err := execute(NewAudioCommand(mockApp(t, srv.URL)), "voices")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"value":"alloy","label":"Alloy"}]`, out)
}

func TestAudioDownload(t *testing.T) {
	var generated string
	srv := newAudioServer(t, &generated)
	chdir(t, t.TempDir())

	// Server-provided name
	out, err := execute(NewAudioCommand(mockApp(t, srv.URL)), "download", "12")
	require.NoError(t, err)
	assert.Equal(t, "clip-12.mp3\n", out)

	data, err := os.ReadFile("clip-12.mp3")
	require.NoError(t, err)
	assert.Equal(t, "ID3-audio", string(data))

	// Explicit destination and stdout
	dest := filepath.Join(t.TempDir(), "a", "b.mp3")
	out, err = execute(NewAudioCommand(mockApp(t, srv.URL)), "download", "12", "--out", dest)
	require.NoError(t, err)
	assert.Equal(t, dest+"\n", out)

	out, err = execute(NewAudioCommand(mockApp(t, srv.URL)), "download", "12", "--out", "-")
	require.NoError(t, err)
	assert.Equal(t, "ID3-audio", out)
}

func TestExportOnlyWhereSupported(t *testing.T) {
	app := mockApp(t, "http://unused")

	names := func(cmd *cobra.Command) []string {
		var out []string
		for _, sub := range cmd.Commands() {
			out = append(out, sub.Name())
		}
		return out
	}

	assert.Contains(t, names(NewBooksCommand(app)), "export")
	assert.Contains(t, names(NewTTSConfigsCommand(app)), "export")
	assert.NotContains(t, names(NewDemosCommand(app)), "export")
	assert.ElementsMatch(t,
		[]string{"list", "get", "add", "update", "delete", "generate", "voices", "tts-configs", "download"},
		names(NewAudioCommand(app)))
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
