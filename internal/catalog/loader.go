package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/octobees/house-price-estimator/internal/backend"
	"github.com/octobees/house-price-estimator/internal/logger"
)

// FailureHint is the only diagnostic shown to users when the catalog is
// unavailable, whatever the cause.
const FailureHint = "Failed to load locations. Check backend URL."

// Recorder observes load outcomes.
type Recorder interface {
	CatalogLoaded(size int)
	CatalogFailed(kind string)
}

// Loader fetches the catalog from the backend.
type Loader struct {
	backend  backend.Requester
	path     string
	logger   *zap.Logger
	recorder Recorder

	once  sync.Once
	avail Availability
}

// LoaderOption configures optional dependencies.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *zap.Logger) LoaderOption {
	return func(ld *Loader) {
		ld.logger = logger.OrNop(l)
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) LoaderOption {
	return func(ld *Loader) {
		ld.recorder = r
	}
}

// WithPath overrides the catalog endpoint path.
func WithPath(path string) LoaderOption {
	return func(ld *Loader) {
		if path != "" {
			ld.path = path
		}
	}
}

// NewLoader builds a loader reading from b.
func NewLoader(b backend.Requester, opts ...LoaderOption) *Loader {
	ld := &Loader{
		backend: b,
		path:    backend.LocationsPath,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load fetches and parses the catalog. Every failure is a *LoadError.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	resp, err := l.backend.GetJSON(ctx, l.path)
	if err != nil {
		return nil, &LoadError{Kind: LoadTransport, Err: err}
	}
	if !resp.OK() {
		return nil, &LoadError{Kind: LoadHTTPStatus, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	p, err := parseLocations(resp.Body)
	if err != nil {
		return nil, &LoadError{Kind: LoadEmptyOrMalformed, StatusCode: resp.StatusCode, Err: err}
	}

	l.logger.Debug("location list decoded", zap.Stringer("shape", p.shape), zap.Int("count", len(p.keys)))
	return New(p.keys), nil
}

// Boot runs Load once for the lifetime of the loader and reports the result
// as an Availability. Later calls return the first result without touching
// the backend, even when it failed.
func (l *Loader) Boot(ctx context.Context) Availability {
	l.once.Do(func() {
		cat, err := l.Load(ctx)
		if err != nil {
			l.logger.Error("failed to load locations", zap.Error(err), zap.Stringer("kind", KindOf(err)))
			if l.recorder != nil {
				l.recorder.CatalogFailed(KindOf(err).String())
			}
			l.avail = Failed(err)
			return
		}
		l.logger.Info("locations loaded", zap.Int("count", cat.Len()))
		if l.recorder != nil {
			l.recorder.CatalogLoaded(cat.Len())
		}
		l.avail = Loaded(cat)
	})
	return l.avail
}
