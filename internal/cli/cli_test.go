package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/routedoc/internal/config"
	"github.com/vitalvas/routedoc/muxhandlers"
	"github.com/vitalvas/routedoc/openapi"
)

// executeCommand runs a command and returns its stdout and error.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	stdout := new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

// inTempDir keeps config discovery away from the repository.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRootCommand(t *testing.T) {
	inTempDir(t)

	output, err := executeCommand(NewRootCmd(), "--help")
	require.NoError(t, err)

	for _, want := range []string{"routedoc", "generate", "serve", "routes", "version", "--config", "--log-level"} {
		assert.Contains(t, output, want)
	}

	_, err = executeCommand(NewRootCmd(), "nope")
	assert.Error(t, err)
}

func TestGenerateCommand(t *testing.T) {
	t.Run("json to stdout", func(t *testing.T) {
		inTempDir(t)

		output, err := executeCommand(NewRootCmd(), "generate")
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(output), &doc))
		assert.Equal(t, openapi.Version, doc["openapi"])
		assert.Equal(t, "API", doc["info"].(map[string]any)["title"])

		paths := doc["paths"].(map[string]any)
		assert.Contains(t, paths, "/hello")
		assert.Contains(t, paths, "/users/{id}")
		assert.NotContains(t, paths, "/static")
	})

	t.Run("yaml with filters", func(t *testing.T) {
		inTempDir(t)

		output, err := executeCommand(NewRootCmd(), "generate", "-f", "yaml", "--exclude", "/hello/**", "--exclude", "/hello")
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(output), &doc))

		paths := doc["paths"].(map[string]any)
		assert.NotContains(t, paths, "/hello")
		assert.NotContains(t, paths, "/hello/{id}")
		assert.Contains(t, paths, "/users")
	})

	t.Run("include", func(t *testing.T) {
		inTempDir(t)

		output, err := executeCommand(NewRootCmd(), "generate", "--include", "/users/**")
		require.NoError(t, err)

		var doc struct {
			Paths map[string]any `json:"paths"`
		}
		require.NoError(t, json.Unmarshal([]byte(output), &doc))
		assert.Contains(t, doc.Paths, "/users/{id}")
		assert.NotContains(t, doc.Paths, "/hello")
		assert.NotContains(t, doc.Paths, "/healthz")
	})

	t.Run("config file and output file", func(t *testing.T) {
		dir := inTempDir(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "routedoc.yaml"), []byte(`
output: out.yaml
format: yaml
openapi:
  info:
    title: Configured
    version: 9.9.9
  servers:
    - url: https://api.example.com
`), 0o644))

		output, err := executeCommand(NewRootCmd(), "generate")
		require.NoError(t, err)
		assert.Empty(t, output)

		data, err := os.ReadFile(filepath.Join(dir, "out.yaml"))
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, yaml.Unmarshal(data, &doc))
		assert.Equal(t, "Configured", doc["info"].(map[string]any)["title"])
		assert.Equal(t, "9.9.9", doc["info"].(map[string]any)["version"])
		assert.Len(t, doc["servers"], 1)
	})

	t.Run("flags override config", func(t *testing.T) {
		dir := inTempDir(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "routedoc.yaml"), []byte("format: yaml\n"), 0o644))

		output, err := executeCommand(NewRootCmd(), "generate", "--format", "json")
		require.NoError(t, err)
		assert.True(t, json.Valid([]byte(output)))
	})

	t.Run("invalid format", func(t *testing.T) {
		inTempDir(t)

		_, err := executeCommand(NewRootCmd(), "generate", "--format", "toml")
		assert.ErrorContains(t, err, "invalid configuration")
	})

	t.Run("invalid glob", func(t *testing.T) {
		inTempDir(t)

		_, err := executeCommand(NewRootCmd(), "generate", "--include", "/users/[")
		assert.ErrorContains(t, err, "invalid glob pattern")
	})

	t.Run("missing config file", func(t *testing.T) {
		inTempDir(t)

		_, err := executeCommand(NewRootCmd(), "generate", "--config", "nope.yaml")
		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestRoutesCommand(t *testing.T) {
	inTempDir(t)

	output, err := executeCommand(NewRootCmd(), "routes")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "METHOD"))

	assert.Regexp(t, `GET\s+/users/\{id:uuid\}\s+/users/\{id\}\s+getUser`, output)
	assert.Regexp(t, `GET\s+/healthz\s+/healthz\s+health`, output)
	assert.Regexp(t, `GET\s+/static/\*\*\s+-\s+-\s+hidden`, output)

	t.Run("match", func(t *testing.T) {
		output, err := executeCommand(NewRootCmd(), "routes", "--match", "/hello/*")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(output), "\n")
		assert.Len(t, lines, 2)
		assert.Contains(t, lines[1], "/hello/{id}")
	})

	t.Run("invalid match", func(t *testing.T) {
		_, err := executeCommand(NewRootCmd(), "routes", "--match", "[")
		assert.ErrorIs(t, err, openapi.ErrInvalidPathFilter)
	})
}

func TestVersionCommand(t *testing.T) {
	output, err := executeCommand(NewRootCmd(), "version")
	require.NoError(t, err)
	assert.Contains(t, output, "routedoc dev")
	assert.Contains(t, output, "OpenAPI 3.1.0")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])

	buf.Reset()
	logger, err = newLogger(config.LogConfig{Level: "debug", Format: "text"}, &buf)
	require.NoError(t, err)
	logger.Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")

	_, err = newLogger(config.LogConfig{Level: "chatty"}, &buf)
	assert.ErrorIs(t, err, config.ErrUnknownLogLevel)
}

func TestApp(t *testing.T) {
	a, err := newApp(config.Default(), discardLogger())
	require.NoError(t, err)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	t.Run("document", func(t *testing.T) {
		w := get("/docs/schema.json")
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(muxhandlers.DefaultRequestIDHeader))

		var doc struct {
			Paths map[string]any `json:"paths"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
		assert.Contains(t, doc.Paths, "/users")
		assert.NotContains(t, doc.Paths, "/docs/schema.json")
		assert.NotContains(t, doc.Paths, "/metrics")
	})

	t.Run("docs ui", func(t *testing.T) {
		w := get("/docs")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "swagger-ui")
	})

	t.Run("metrics", func(t *testing.T) {
		get("/hello/1")

		w := get("/metrics")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `routedoc_document_generations_total{status="success"}`)
		assert.Contains(t, body, `route="/hello/{id}"`)
	})

	t.Run("metrics disabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.Server.MetricsPath = "-"
		b, err := newApp(cfg, discardLogger())
		require.NoError(t, err)

		w := httptest.NewRecorder()
		b.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown ui", func(t *testing.T) {
		cfg := config.Default()
		cfg.Server.UI = "nope"
		_, err := newApp(cfg, discardLogger())
		assert.Error(t, err)
	})
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routedoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openapi:\n  info:\n    title: Before\n    version: 1.0.0\n"), 0o644))

	v, err := config.New(path)
	require.NoError(t, err)
	cfg, err := config.Decode(v)
	require.NoError(t, err)

	a, err := newApp(cfg, discardLogger())
	require.NoError(t, err)
	reload := a.reloadFunc(v)

	t.Run("applies metadata", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte(`
openapi:
  info:
    title: After
    version: 2.0.0
  servers:
    - url: https://api.example.com
`), 0o644))
		require.NoError(t, v.ReadInConfig())

		reload(fsnotify.Event{Name: path, Op: fsnotify.Write})

		assert.Equal(t, "After", a.spec.Info().Title)

		doc, err := a.spec.Build(context.Background(), a.router)
		require.NoError(t, err)
		assert.Equal(t, []openapi.Server{{URL: "https://api.example.com"}}, doc.Servers)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("format: toml\n"), 0o644))
		require.NoError(t, v.ReadInConfig())

		reload(fsnotify.Event{Name: path, Op: fsnotify.Write})

		assert.Equal(t, "After", a.spec.Info().Title)
	})
}

func TestServeUntilDone(t *testing.T) {
	a, err := newApp(config.Default(), discardLogger())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serveUntilDone(ctx, a.server(), ln, discardLogger())
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	assert.NoError(t, <-done)
}
