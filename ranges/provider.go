// Package ranges supplies the default range-allocation provider for the
// isbn package: a bundled snapshot of the International ISBN Agency's
// allocation tables, optionally kept fresh from a remote authority.
//
// Lookups read an immutable table map behind an atomic pointer. A refresh
// decodes a complete replacement map and swaps it in one publish, so
// concurrent readers always see either the old snapshot or the new one,
// never a partial table. A failed refresh is logged and leaves the previous
// snapshot in place.
package ranges

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/book-industry-toolkit/bookcode/isbn"
)

// Config controls the provider's remote refresh. The zero value disables
// remote fetching entirely and serves the bundled snapshot.
type Config struct {
	// URL of the remote range data (same JSON schema as the bundled file).
	// Empty disables Refresh and Start.
	URL string `envconfig:"RANGES_URL"`
	// RefreshInterval between background fetches.
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"24h"`
	// FetchTimeout bounds a single fetch.
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
}

// ConfigFromEnv reads Config from BOOKCODE_* environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("bookcode", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "reading range provider config")
	}
	return cfg, nil
}

// Provider resolves prefix keys ("978", "978-1", ...) to allocation tables.
// It implements isbn.RangeProvider and is safe for concurrent use,
// including concurrently with its own background refresh.
type Provider struct {
	cfg    Config
	log    zerolog.Logger
	client *http.Client

	tables atomic.Value // map[string]*isbn.RangeTable, replaced wholesale

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// Option adjusts a Provider at construction.
type Option func(*Provider)

// WithLogger sets the logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Provider) { p.log = log }
}

// WithHTTPClient sets the client used for remote fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.client = client }
}

// New returns a Provider serving the bundled allocation snapshot, ready for
// lookups immediately; cfg only matters once Refresh or Start is used.
func New(cfg Config, opts ...Option) (*Provider, error) {
	p := &Provider{
		cfg:  cfg,
		log:  zerolog.Nop(),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = &http.Client{Timeout: cfg.FetchTimeout}
	}

	tables, err := decodeTables(bytes.NewReader(bundledRanges))
	if err != nil {
		// the bundled data is compiled in; this means a broken build
		return nil, errors.Wrap(err, "decoding bundled range data")
	}
	p.tables.Store(tables)
	return p, nil
}

// Default returns a bundled-data-only Provider. It panics if the compiled-in
// snapshot cannot be decoded, which only a broken build can cause.
func Default() *Provider {
	p, err := New(Config{})
	if err != nil {
		panic(err)
	}
	return p
}

// GetRanges returns the table for the given prefix key, or nil when none is
// known. The returned table comes from an immutable snapshot and must not
// be modified.
func (p *Provider) GetRanges(key string) *isbn.RangeTable {
	tables, _ := p.tables.Load().(map[string]*isbn.RangeTable)
	return tables[key]
}

// Len returns the number of tables in the current snapshot.
func (p *Provider) Len() int {
	tables, _ := p.tables.Load().(map[string]*isbn.RangeTable)
	return len(tables)
}

// Refresh fetches the remote range data and atomically replaces the current
// snapshot. On any failure the previous snapshot stays in service.
func (p *Provider) Refresh(ctx context.Context) error {
	if p.cfg.URL == "" {
		return errors.New("no range data URL configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL, nil)
	if err != nil {
		return errors.Wrap(err, "building range data request")
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "fetching range data")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("range authority returned %s", resp.Status)
	}

	tables, err := decodeTables(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "decoding range data from %s", p.cfg.URL)
	}

	p.tables.Store(tables)
	p.log.Info().
		Str("url", p.cfg.URL).
		Int("tables", len(tables)).
		Msg("range tables refreshed")
	return nil
}

// Start launches the background refresh loop. It returns immediately and
// does nothing when no URL is configured. Stop it with Close or by
// cancelling ctx.
func (p *Provider) Start(ctx context.Context) {
	if p.cfg.URL == "" {
		return
	}
	interval := p.cfg.RefreshInterval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-p.done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := p.refreshOnce(ctx); err != nil {
					p.log.Warn().Err(err).
						Msg("range table refresh failed; keeping the previous snapshot")
				}
			}
		}
	}()
}

func (p *Provider) refreshOnce(ctx context.Context) error {
	if p.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.FetchTimeout)
		defer cancel()
	}
	return p.Refresh(ctx)
}

// Close stops the background refresh loop, if any, and waits for it.
func (p *Provider) Close() {
	p.closeOnce.Do(func() { close(p.done) })
	p.wg.Wait()
}

// decodeTables reads the persisted format: a JSON object mapping prefix
// keys to {"name": ..., "list": [{"start","end","length"}, ...]}. Every
// range is revalidated so a bad feed cannot smuggle an inverted interval
// into service.
func decodeTables(r io.Reader) (map[string]*isbn.RangeTable, error) {
	var raw map[string]*isbn.RangeTable
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "unmarshaling range tables")
	}
	if len(raw) == 0 {
		return nil, errors.New("range data holds no tables")
	}
	for key, table := range raw {
		if table == nil || len(table.Ranges) == 0 {
			return nil, errors.Errorf("table %q holds no ranges", key)
		}
		for i, r := range table.Ranges {
			if _, err := isbn.NewRange(r.Start, r.End, r.Length); err != nil {
				return nil, errors.Wrapf(err, "table %q, range %d", key, i)
			}
		}
	}
	return raw, nil
}
