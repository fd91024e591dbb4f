package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/worklens-org/worklens/schema"
)

// ============================================================================
// LOADER — Fetch, decode, validate, fall back
// ============================================================================
// One Loader per session. The first Load fetches and decodes the three
// source tables; every later call returns the same bundle, so nothing
// re-fetches behind the caller's back. Any source failure (network, missing
// file, malformed or nonconforming body) downgrades to the synthetic
// generator with a warning, so Load only fails on cancellation or an
// unusable synthetic config.
// ============================================================================

// DefaultRevision is the upstream branch the loader pins by default.
const DefaultRevision = "main"

const upstreamRoot = "https://huggingface.co/datasets/SALT-NLP/WORKBank/resolve"

// DefaultBaseURL is the upstream dataset root at its default revision.
const DefaultBaseURL = upstreamRoot + "/" + DefaultRevision

// BaseURLForRevision pins the upstream root to a specific revision, so a run
// can be reproduced against the exact dataset snapshot it saw.
func BaseURLForRevision(rev string) string {
	if rev == "" {
		rev = DefaultRevision
	}
	return upstreamRoot + "/" + rev
}

// DefaultTimeout bounds each table fetch.
const DefaultTimeout = 15 * time.Second

// Upstream CSV paths relative to the dataset root.
const (
	pathTasks        = "task_data/task_statement_with_metadata.csv"
	pathDesires      = "worker_data/domain_worker_desires.csv"
	pathCapabilities = "expert_ratings/expert_rated_technological_capability.csv"
)

// Loader loads the source tables once per session.
type Loader struct {
	reg     *schema.Registry
	dec     Decoder
	client  *http.Client
	baseURL string
	dir     string
	offline bool
	synth   SyntheticConfig
	log     *zap.Logger
	session string

	mu     sync.Mutex
	cached *Tables
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithBaseURL overrides the upstream dataset root.
func WithBaseURL(u string) LoaderOption {
	return func(l *Loader) { l.baseURL = u }
}

// WithHTTPClient swaps the HTTP client (tests point it at a local server).
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// WithTimeout bounds each fetch.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) { l.client.Timeout = d }
}

// WithDir reads the tables from a local directory instead of the network.
// Files may mirror the upstream layout or sit flat as "<table name>.csv".
func WithDir(dir string) LoaderOption {
	return func(l *Loader) { l.dir = dir }
}

// WithOffline skips every source and goes straight to synthetic tables.
func WithOffline(offline bool) LoaderOption {
	return func(l *Loader) { l.offline = offline }
}

// WithSynthetic configures the fallback generator.
func WithSynthetic(cfg SyntheticConfig) LoaderOption {
	return func(l *Loader) { l.synth = cfg }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log *zap.Logger) LoaderOption {
	return func(l *Loader) { l.log = log }
}

// NewLoader builds a Loader against the registry's table shapes.
func NewLoader(reg *schema.Registry, opts ...LoaderOption) *Loader {
	l := &Loader{
		reg:     reg,
		dec:     NewDecoder(reg),
		client:  &http.Client{Timeout: DefaultTimeout},
		baseURL: DefaultBaseURL,
		synth:   DefaultSyntheticConfig(),
		log:     zap.NewNop(),
		session: uuid.New().String(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Session identifies this loader in logs.
func (l *Loader) Session() string { return l.session }

// Load returns the session's tables. The first call fetches (or falls back);
// later calls return the cached bundle unchanged.
func (l *Loader) Load(ctx context.Context) (*Tables, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil {
		return l.cached, nil
	}
	tables, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	l.cached = tables
	return tables, nil
}

// Reset drops the session cache so the next Load fetches again. Replacement
// is always this explicit; Load itself never refreshes.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

func (l *Loader) load(ctx context.Context) (*Tables, error) {
	if !l.offline {
		tables, err := l.loadSource(ctx)
		if err == nil {
			l.log.Info("source tables loaded",
				zap.String("session", l.session),
				zap.String("source", string(tables.Source)),
				zap.String("version", tables.Version()[:12]),
				zap.Int("tasks", len(tables.Tasks)),
				zap.Int("desires", len(tables.Desires)),
				zap.Int("capabilities", len(tables.Capabilities)))
			return tables, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		l.log.Warn("source unavailable, substituting synthetic tables",
			zap.String("session", l.session),
			zap.Error(err))
	}

	if err := l.synth.Validate(); err != nil {
		return nil, fmt.Errorf("synthetic fallback unusable: %w", err)
	}
	tables := Synthesize(l.synth, l.reg.Scale)
	l.log.Info("synthetic tables ready",
		zap.String("session", l.session),
		zap.String("version", tables.Version()[:12]),
		zap.Int64("seed", l.synth.Seed),
		zap.Int("tasks", len(tables.Tasks)))
	return tables, nil
}

// loadSource reads all three tables from the configured source. Partial
// success is not a thing: one bad table fails the whole bundle.
func (l *Loader) loadSource(ctx context.Context) (*Tables, error) {
	read := l.fetch
	source := SourceRemote
	if l.dir != "" {
		read = l.readFile
		source = SourceLocal
	}

	taskData, ref, err := read(ctx, pathTasks, schema.TableTasks)
	if err != nil {
		return nil, &SourceError{Table: schema.TableTasks, Ref: ref, Err: err}
	}
	tasks, err := l.dec.Tasks(taskData)
	if err != nil {
		return nil, &SourceError{Table: schema.TableTasks, Ref: ref, Err: err}
	}
	if len(tasks) == 0 {
		return nil, &SourceError{Table: schema.TableTasks, Ref: ref, Err: errors.New("no rows decoded")}
	}

	desireData, ref, err := read(ctx, pathDesires, schema.TableDesires)
	if err != nil {
		return nil, &SourceError{Table: schema.TableDesires, Ref: ref, Err: err}
	}
	desires, err := l.dec.Desires(desireData)
	if err != nil {
		return nil, &SourceError{Table: schema.TableDesires, Ref: ref, Err: err}
	}

	capData, ref, err := read(ctx, pathCapabilities, schema.TableCapabilities)
	if err != nil {
		return nil, &SourceError{Table: schema.TableCapabilities, Ref: ref, Err: err}
	}
	capabilities, err := l.dec.Capabilities(capData)
	if err != nil {
		return nil, &SourceError{Table: schema.TableCapabilities, Ref: ref, Err: err}
	}

	return NewTables(source, tasks, desires, capabilities), nil
}

// fetch GETs one table from the upstream host.
func (l *Loader) fetch(ctx context.Context, path, _ string) ([]byte, string, error) {
	url := l.baseURL + "/" + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, url, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, url, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, url, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, url, fmt.Errorf("upstream returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, url, nil
}

// readFile loads one table from the local directory, trying the upstream
// layout first and a flat "<table>.csv" second.
func (l *Loader) readFile(_ context.Context, path, table string) ([]byte, string, error) {
	nested := filepath.Join(l.dir, filepath.FromSlash(path))
	if data, err := os.ReadFile(nested); err == nil {
		return data, nested, nil
	}
	flat := filepath.Join(l.dir, table+".csv")
	data, err := os.ReadFile(flat)
	if err != nil {
		return nil, flat, err
	}
	return data, flat, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
