package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-bfhl/internal/config"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/bfhl" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		var alphabets, numbers []string
		for _, item := range r.MultipartForm.Value["data[]"] {
			if strings.ContainsAny(item, "0123456789") {
				numbers = append(numbers, item)
			} else {
				alphabets = append(alphabets, item)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"is_success":true,"alphabets":`+jsonList(alphabets)+`,"numbers":`+jsonList(numbers)+`}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func jsonList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, `"`+item+`"`)
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvAPIURL, "")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func tempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSubmit_PrintsFilteredResponse(t *testing.T) {
	backend := newBackend(t)

	out, err := execute(t, "submit",
		"--api", backend.URL,
		"--json", `{"data":["A","1","z"]}`,
		"--file", tempFile(t, "roll.txt", "hello"),
		"--filter", "Numbers",
		"--filter", "Alphabets",
	)
	require.NoError(t, err)

	want := "Filtered Response:\nNumbers:\n[\n  \"1\"\n]\nAlphabets:\n[\n  \"A\",\n  \"z\"\n]\n"
	assert.Equal(t, want, out)
}

func TestSubmit_ReadsJSONFileAndPrintsRaw(t *testing.T) {
	backend := newBackend(t)

	out, err := execute(t, "submit",
		"--api", backend.URL,
		"--json-file", tempFile(t, "input.json", `{"data":["7"]}`),
		"--file", tempFile(t, "roll.txt", "hello"),
		"--raw",
	)
	require.NoError(t, err)
	assert.Contains(t, out, `"numbers": [`)
	assert.Contains(t, out, `"is_success": true`)
}

func TestSubmit_ReportsUserMessages(t *testing.T) {
	backend := newBackend(t)
	file := tempFile(t, "roll.txt", "hello")
	absent := filepath.Join(t.TempDir(), "absent.txt")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "invalid json", args: []string{"--json", "{", "--file", file}, want: "Invalid JSON format"},
		{name: "missing file", args: []string{"--json", `{"data":[]}`}, want: "Please upload a file"},
		{name: "missing data", args: []string{"--json", `[1]`, "--file", file}, want: `JSON must contain a "data" array`},
		{name: "invalid json before unreadable file", args: []string{"--json", "not json", "--file", absent}, want: "Invalid JSON format"},
		{name: "missing data before unreadable file", args: []string{"--json", `{}`, "--file", absent}, want: `JSON must contain a "data" array`},
		{name: "unreadable file", args: []string{"--json", `{"data":[]}`, "--file", absent}, want: "Could not read the selected file: " + absent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"submit", "--api", backend.URL}, tt.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestSubmit_BackendFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer backend.Close()

	_, err := execute(t, "submit",
		"--api", backend.URL,
		"--json", `{"data":["A"]}`,
		"--file", tempFile(t, "roll.txt", "hello"),
	)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch data from the API", err.Error())
}

func TestContract_Summary(t *testing.T) {
	out, err := execute(t, "contract", "--summary")
	require.NoError(t, err)
	assert.Equal(t, "POST /api/bfhl\nrequest:  data[], file\nresponse: alphabets, highest_lowercase_alphabet, numbers\n", out)
}

func TestContract_PrintsDocument(t *testing.T) {
	out, err := execute(t, "contract")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "openapi: 3.0.3"))
}

func TestServe_RoutesAndGracefulShutdown(t *testing.T) {
	backend := newBackend(t)
	cfg := config.Default()
	cfg.API.BaseURL = backend.URL
	cfg.Server.ShutdownTimeout = "2s"

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, cfg, zap.NewNop()) }()

	get := func(path string) (*http.Response, string) {
		t.Helper()
		var res *http.Response
		require.Eventually(t, func() bool {
			var err error
			res, err = http.Get(base + path)
			return err == nil
		}, 2*time.Second, 20*time.Millisecond)
		defer res.Body.Close()
		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		return res, string(body)
	}

	res, body := get("/healthz")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", body)

	res, body = get("/openapi.yaml")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "/api/bfhl:")

	res, body = get("/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Submit Your Roll Number")

	res, _ = get("/missing")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestThemeConfig(t *testing.T) {
	assert.Nil(t, themeConfig(config.ThemeConfig{}))

	cfg := themeConfig(config.ThemeConfig{Name: "acme", AssetBase: "/static/"})
	require.NotNil(t, cfg)
	assert.Equal(t, "acme", cfg.Theme)
	require.NotNil(t, cfg.AssetURL)
	assert.Equal(t, "/static/bfhl.css", cfg.AssetURL("bfhl.css"))
}
