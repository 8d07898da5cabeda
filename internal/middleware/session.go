package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/house-price-estimator/internal/estimator"
)

// SessionCookie names the cookie that binds a browser to its orchestrator.
const SessionCookie = "estimator_session"

// SessionResolver hands out the orchestrator for a session id.
type SessionResolver interface {
	Resolve(id string) (string, *estimator.Orchestrator)
}

// Session attaches the caller's orchestrator to the context, issuing a
// session cookie when the caller has none or an expired one.
func Session(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var current string
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				current = cookie.Value
			}

			id, orch := resolver.Resolve(current)
			if id != current {
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(ContextKeySessionID, id)
			c.Set(ContextKeyOrchestrator, orch)
			return next(c)
		}
	}
}

// OrchestratorFromContext returns the orchestrator attached by Session.
func OrchestratorFromContext(c echo.Context) *estimator.Orchestrator {
	if orch, ok := c.Get(ContextKeyOrchestrator).(*estimator.Orchestrator); ok {
		return orch
	}
	return nil
}
