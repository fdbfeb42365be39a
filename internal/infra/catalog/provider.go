package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"versa/internal/domain"
	"versa/internal/infra/telemetry"
)

// Update is broadcast after a successful reload.
type Update struct {
	Catalog  *Catalog
	Revision uint64
}

// WatchedProvider serves the current catalog and swaps it atomically when
// the backing file changes. A failed reload keeps the previous catalog.
type WatchedProvider struct {
	logger   *zap.Logger
	loader   *Loader
	path     string
	debounce time.Duration

	current  atomic.Pointer[Catalog]
	revision atomic.Uint64

	reloadMu sync.Mutex
	subsMu   sync.Mutex
	subs     map[chan Update]struct{}
	onReload func(*Catalog)
}

type ProviderOptions struct {
	Logger   *zap.Logger
	Debounce time.Duration
	// OnReload runs after every successful load, including the first.
	OnReload func(*Catalog)
}

// NewWatchedProvider loads path (or the embedded catalog when empty).
func NewWatchedProvider(ctx context.Context, path string, opts ProviderOptions) (*WatchedProvider, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = time.Duration(domain.DefaultCatalogReloadDebounceMillis) * time.Millisecond
	}
	p := &WatchedProvider{
		logger:   logger.Named("catalog_provider"),
		loader:   NewLoader(logger),
		path:     path,
		debounce: debounce,
		subs:     make(map[chan Update]struct{}),
		onReload: opts.OnReload,
	}
	if err := p.Reload(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Current returns the catalog in effect.
func (p *WatchedProvider) Current() *Catalog {
	return p.current.Load()
}

func (p *WatchedProvider) Revision() uint64 {
	return p.revision.Load()
}

func (p *WatchedProvider) GetToolByID(id string) (domain.ToolDefinition, bool) {
	return p.Current().GetToolByID(id)
}

func (p *WatchedProvider) ListCategories() []domain.Category {
	return p.Current().ListCategories()
}

func (p *WatchedProvider) SearchByText(query, locale string) []domain.ToolDefinition {
	return p.Current().SearchByText(query, locale)
}

// Reload loads the catalog again and publishes it on success.
func (p *WatchedProvider) Reload(ctx context.Context) error {
	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	next, err := p.loader.Load(ctx, p.path)
	if err != nil {
		return err
	}
	revision := p.revision.Add(1)
	p.current.Store(next)
	if p.onReload != nil {
		p.onReload(next)
	}
	p.logger.Info("catalog loaded",
		telemetry.EventField(telemetry.EventCatalogReload),
		zap.String("source", next.Source()),
		zap.Int("tools", next.Len()),
		zap.Uint64("revision", revision),
	)
	p.broadcast(Update{Catalog: next, Revision: revision})
	return nil
}

// Subscribe returns a channel receiving updates until ctx is done. Slow
// subscribers miss updates rather than blocking reloads.
func (p *WatchedProvider) Subscribe(ctx context.Context) <-chan Update {
	ch := make(chan Update, 1)
	p.subsMu.Lock()
	p.subs[ch] = struct{}{}
	p.subsMu.Unlock()

	go func() {
		<-ctx.Done()
		p.subsMu.Lock()
		delete(p.subs, ch)
		p.subsMu.Unlock()
	}()
	return ch
}

func (p *WatchedProvider) broadcast(update Update) {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	for ch := range p.subs {
		select {
		case ch <- update:
		default:
		}
	}
}

// Watch reloads on file changes until ctx is done. It returns immediately
// when the provider serves the embedded catalog.
func (p *WatchedProvider) Watch(ctx context.Context) error {
	if p.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Editors replace files on save, so watch the directory.
	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(p.path)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("catalog watcher error", zap.Error(err))
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(p.debounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(p.debounce)
		case <-timerChan(timer):
			timer = nil
			if err := p.Reload(ctx); err != nil {
				p.logger.Warn("catalog reload failed; keeping previous catalog", zap.Error(err))
			}
		}
	}
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}

var _ domain.ToolCatalog = (*WatchedProvider)(nil)
