package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/octobees/house-price-estimator/internal/backend"
	"github.com/octobees/house-price-estimator/internal/catalog"
	"github.com/octobees/house-price-estimator/internal/config"
	"github.com/octobees/house-price-estimator/internal/estimator"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := zap.New(core)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-123")

	err := Logging(l)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	entries := logs.FilterField(zap.String("request_id", "rid-123")).All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry with request id, got %d", len(entries))
	}

	// ensure errors are propagated and logged
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-456")
	expected := errors.New("boom")
	err = Logging(l)(func(c echo.Context) error {
		return expected
	})(c)
	if logs.FilterField(zap.String("request_id", "rid-456")).Len() != 1 {
		t.Fatalf("expected second log entry with new request id")
	}
	if !errors.Is(err, expected) {
		t.Fatalf("expected error to bubble up")
	}
}

func TestPredictRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{Requests: 1, Interval: time.Minute}
	mw := PredictRateLimiter(cfg, "/api/predict")

	e := echo.New()
	nextCalls := 0
	next := func(c echo.Context) error {
		nextCalls++
		return c.NoContent(http.StatusOK)
	}

	send := func(path, ip string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath(path)
		_ = mw(next)(c)
		return rec.Code
	}

	if code := send("/api/predict", "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := send("/api/predict", "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request rejected, got %d", code)
	}
	if code := send("/api/predict", "10.0.0.2"); code != http.StatusOK {
		t.Fatalf("expected other clients to have their own bucket, got %d", code)
	}
	if code := send("/api/locations", "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("expected unlimited path to pass, got %d", code)
	}

	// zero config should behave as passthrough
	mw = PredictRateLimiter(config.RateLimitConfig{}, "/api/predict")
	for i := 0; i < 3; i++ {
		if code := send("/api/predict", "10.0.0.1"); code != http.StatusOK {
			t.Fatalf("expected passthrough when limiter disabled, got %d", code)
		}
	}
	if nextCalls != 6 {
		t.Fatalf("expected 6 handler invocations, got %d", nextCalls)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	handler := RequestID()

	t.Run("reuse incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "incoming")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if RequestIDFromContext(c) != "incoming" {
				t.Fatalf("expected request id to be stored")
			}
			if backend.RequestIDFromContext(c.Request().Context()) != "incoming" {
				t.Fatalf("expected request id in request context")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get(HeaderRequestID) != "incoming" {
			t.Fatalf("expected response header to propagate request id")
		}
	})

	t.Run("generate when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if RequestIDFromContext(c) == "" {
				t.Fatalf("expected generated request id")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get(HeaderRequestID) == "" {
			t.Fatalf("expected response header set")
		}
	})
}

type resolverStub struct {
	orch  *estimator.Orchestrator
	seen  []string
	newID string
}

func (r *resolverStub) Resolve(id string) (string, *estimator.Orchestrator) {
	r.seen = append(r.seen, id)
	if id == "" {
		return r.newID, r.orch
	}
	return id, r.orch
}

func TestSessionMiddleware(t *testing.T) {
	e := echo.New()
	resolver := &resolverStub{orch: estimator.New(nil, catalog.Availability{}), newID: "sess-1"}
	mw := Session(resolver)

	t.Run("issues cookie for new session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := mw(func(c echo.Context) error {
			if OrchestratorFromContext(c) != resolver.orch {
				t.Fatalf("expected orchestrator in context")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cookies := rec.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Name != SessionCookie || cookies[0].Value != "sess-1" {
			t.Fatalf("expected session cookie, got %+v", cookies)
		}
	})

	t.Run("keeps existing session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sess-1"})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := mw(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Fatalf("expected no new cookie for a live session")
		}
		if resolver.seen[len(resolver.seen)-1] != "sess-1" {
			t.Fatalf("expected cookie value to be resolved")
		}
	})

	t.Run("missing orchestrator", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if OrchestratorFromContext(c) != nil {
			t.Fatalf("expected nil orchestrator")
		}
	})
}
