package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/worklens-org/worklens/schema"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newUpstream serves the fixture tables the way the dataset host lays them out.
func newUpstream(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	serve := func(path, body string) {
		mux.HandleFunc("/"+path, func(w http.ResponseWriter, r *http.Request) {
			if hits != nil {
				hits.Add(1)
			}
			w.Write([]byte(body))
		})
	}
	serve(pathTasks, taskCSV)
	serve(pathDesires, desireCSV)
	serve(pathCapabilities, capabilityCSV)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoaderRemote(t *testing.T) {
	srv := newUpstream(t, nil)
	loader := NewLoader(schema.Default(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	tables, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceRemote, tables.Source)
	assert.Len(t, tables.Tasks, 3)
	assert.Len(t, tables.Desires, 3) // two fixture rows carry unusable ratings
	assert.Len(t, tables.Capabilities, 2)
	assert.Len(t, tables.Version(), 64)
}

func TestLoaderSessionCache(t *testing.T) {
	var hits atomic.Int64
	srv := newUpstream(t, &hits)
	loader := NewLoader(schema.Default(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	first, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), hits.Load())

	second, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second, "a session returns the bundle it loaded")
	assert.Equal(t, int64(3), hits.Load(), "no silent re-fetch")

	loader.Reset()
	third, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(6), hits.Load(), "reset is the only path to a re-fetch")
	assert.Equal(t, first.Version(), third.Version())
}

func TestLoaderFallbackOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "over capacity", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	loader := NewLoader(schema.Default(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	tables, err := loader.Load(context.Background())
	require.NoError(t, err, "an unavailable source must not fail the load")

	assert.Equal(t, SourceSynthetic, tables.Source)
	assert.Len(t, tables.Tasks, DefaultSyntheticConfig().Tasks)
}

func TestLoaderFallbackOnRefusedConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	loader := NewLoader(schema.Default(),
		WithBaseURL(url),
		WithHTTPClient(&http.Client{Timeout: time.Second}))
	tables, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceSynthetic, tables.Source)
}

func TestLoaderFallbackOnNonconformingSource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/"+pathTasks, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(taskCSV))
	})
	mux.HandleFunc("/"+pathDesires, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Task ID,Worker ID\nT001,W0001\n")) // desire column gone
	})
	mux.HandleFunc("/"+pathCapabilities, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(capabilityCSV))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	loader := NewLoader(schema.Default(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	tables, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceSynthetic, tables.Source, "a misshapen source counts as unavailable")
}

func TestLoaderOffline(t *testing.T) {
	cfg := DefaultSyntheticConfig()
	cfg.Seed = 7
	cfg.Tasks = 30

	loader := NewLoader(schema.Default(),
		WithBaseURL("http://127.0.0.1:0"),
		WithOffline(true),
		WithSynthetic(cfg))

	tables, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceSynthetic, tables.Source)
	assert.Len(t, tables.Tasks, 30)
	assert.Equal(t, Synthesize(cfg, schema.DefaultScale()).Version(), tables.Version())
}

func TestLoaderLocalDir(t *testing.T) {
	t.Run("flat layout", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, schema.TableTasks+".csv"), taskCSV)
		writeFile(t, filepath.Join(dir, schema.TableDesires+".csv"), desireCSV)
		writeFile(t, filepath.Join(dir, schema.TableCapabilities+".csv"), capabilityCSV)

		loader := NewLoader(schema.Default(), WithDir(dir))
		tables, err := loader.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, SourceLocal, tables.Source)
		assert.Len(t, tables.Tasks, 3)
	})

	t.Run("upstream layout", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, filepath.FromSlash(pathTasks)), taskCSV)
		writeFile(t, filepath.Join(dir, filepath.FromSlash(pathDesires)), desireCSV)
		writeFile(t, filepath.Join(dir, filepath.FromSlash(pathCapabilities)), capabilityCSV)

		loader := NewLoader(schema.Default(), WithDir(dir))
		tables, err := loader.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, SourceLocal, tables.Source)
	})

	t.Run("missing file falls back", func(t *testing.T) {
		loader := NewLoader(schema.Default(), WithDir(t.TempDir()))
		tables, err := loader.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, SourceSynthetic, tables.Source)
	})
}

func TestLoaderContextCanceled(t *testing.T) {
	srv := newUpstream(t, nil)
	loader := NewLoader(schema.Default(), WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx)
	require.Error(t, err, "cancellation propagates instead of producing synthetic data")
	assert.ErrorIs(t, err, context.Canceled)
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}
