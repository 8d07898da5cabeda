package estimator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/octobees/house-price-estimator/internal/backend"
	"github.com/octobees/house-price-estimator/internal/catalog"
	"github.com/octobees/house-price-estimator/internal/dto"
	"github.com/octobees/house-price-estimator/internal/logger"
)

// Estimate is a successful prediction. The price is a currency-agnostic
// magnitude as returned by the model.
type Estimate struct {
	Price float64 `json:"estimated_price"`
}

// Recorder observes prediction traffic.
type Recorder interface {
	PredictionStarted()
	PredictionFinished(outcome string, elapsed time.Duration)
	PredictionRejected(reason string)
}

// TransitionFunc is called on every state change while the orchestrator
// holds its lock; it must not call back into the orchestrator.
type TransitionFunc func(from, to State)

// Orchestrator owns the request state for one form.
type Orchestrator struct {
	backend      backend.Requester
	path         string
	availability catalog.Availability
	logger       *zap.Logger
	recorder     Recorder
	onTransition TransitionFunc

	mu    sync.Mutex
	state State
	last  State
}

// Option configures optional dependencies.
type Option func(*Orchestrator)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger.OrNop(l)
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

// WithTransitionHook observes state changes.
func WithTransitionHook(fn TransitionFunc) Option {
	return func(o *Orchestrator) {
		o.onTransition = fn
	}
}

// WithPath overrides the prediction endpoint path.
func WithPath(path string) Option {
	return func(o *Orchestrator) {
		if path != "" {
			o.path = path
		}
	}
}

// New builds an orchestrator gated by availability.
func New(b backend.Requester, availability catalog.Availability, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backend:      b,
		path:         backend.PredictPath,
		availability: availability,
		logger:       zap.NewNop(),
		state:        Idle,
		last:         Idle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit validates in and, if it passes, requests a prediction. It returns
// ErrCatalogUnavailable or ErrBusy when the submission is not accepted, a
// *SubmitError for every failed cycle, or the estimate. The state is back to
// Idle when Submit returns, whatever the outcome.
func (o *Orchestrator) Submit(ctx context.Context, in FormInput) (Estimate, error) {
	if !o.availability.Ready() {
		o.reject("unavailable")
		return Estimate{}, ErrCatalogUnavailable
	}

	o.mu.Lock()
	if o.state != Idle {
		o.mu.Unlock()
		o.reject("busy")
		return Estimate{}, ErrBusy
	}
	if err := Validate(in, o.availability.Catalog()); err != nil {
		o.last = Failed
		o.mu.Unlock()
		o.reject("validation")
		o.logger.Debug("prediction input rejected", zap.Error(err))
		return Estimate{}, err
	}
	o.transition(Loading)
	o.mu.Unlock()

	started := time.Now()
	if o.recorder != nil {
		o.recorder.PredictionStarted()
	}

	outcome := Failed
	defer func() {
		o.mu.Lock()
		o.transition(outcome)
		o.last = outcome
		o.transition(Idle)
		o.mu.Unlock()
		if o.recorder != nil {
			o.recorder.PredictionFinished(outcome.String(), time.Since(started))
		}
	}()

	est, err := o.request(ctx, in)
	if err != nil {
		return Estimate{}, err
	}
	outcome = Succeeded
	return est, nil
}

// Status reports the current state and the UI affordances derived from it.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	state, last := o.state, o.last
	o.mu.Unlock()

	ready := o.availability.Ready()
	busy := state == Loading
	button := ButtonIdle
	if busy {
		button = ButtonBusy
	}
	return Status{
		State:          state,
		LastOutcome:    last,
		Busy:           busy,
		TriggerEnabled: ready && state == Idle,
		ButtonText:     button,
		CatalogReady:   ready,
		LocationCount:  o.availability.Count(),
		Hint:           o.availability.Hint(),
	}
}

// Availability returns the catalog gate this orchestrator was built with.
func (o *Orchestrator) Availability() catalog.Availability {
	return o.availability
}

func (o *Orchestrator) request(ctx context.Context, in FormInput) (Estimate, error) {
	payload := dto.PredictRequest{
		TotalSqft: in.Sqft,
		Location:  in.LocationKey,
		BHK:       int(in.BHK),
		Bath:      int(in.Bath),
	}

	resp, err := o.backend.PostJSON(ctx, o.path, payload)
	if err != nil {
		o.logger.Error("prediction request failed", zap.Error(err))
		return Estimate{}, &SubmitError{Kind: SubmitTransport, Message: MsgTransport, Err: err}
	}

	if !resp.OK() {
		msg := extractBackendError(resp)
		o.logger.Warn("prediction backend returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return Estimate{}, &SubmitError{
			Kind:       SubmitHTTPStatus,
			StatusCode: resp.StatusCode,
			Message:    msg,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	price, err := decodePrice(resp.Body)
	if err != nil {
		o.logger.Warn("prediction response rejected", zap.Error(err), zap.ByteString("body", truncate(resp.Body, 256)))
		return Estimate{}, &SubmitError{
			Kind:       SubmitMalformedResponse,
			StatusCode: resp.StatusCode,
			Message:    MsgInvalidResponse,
			Err:        err,
		}
	}
	return Estimate{Price: price}, nil
}

// transition must be called with o.mu held.
func (o *Orchestrator) transition(to State) {
	from := o.state
	o.state = to
	if o.onTransition != nil {
		o.onTransition(from, to)
	}
}

func (o *Orchestrator) reject(reason string) {
	if o.recorder != nil {
		o.recorder.PredictionRejected(reason)
	}
}

// extractBackendError prefers the payload's error string and falls back to
// the status code.
func extractBackendError(resp *backend.Response) string {
	var payload map[string]any
	if err := json.Unmarshal(resp.Body, &payload); err == nil {
		if msg, ok := payload["error"].(string); ok && msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

func decodePrice(body []byte) (float64, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("decode prediction: %w", err)
	}
	price, ok := payload["estimated_price"].(float64)
	if !ok {
		return 0, fmt.Errorf("estimated_price is %T, not a number", payload["estimated_price"])
	}
	return price, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
