package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/projects_api/internal/guard"
	"github.com/Skotchmaster/projects_api/internal/logging"
	"github.com/Skotchmaster/projects_api/internal/metrics"
	"github.com/Skotchmaster/projects_api/internal/models"
)

const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgForbidden          = "You don't have permission to perform this action. Please contact your administrator."
)

type Middleware struct {
	Guard   *guard.Guard
	Metrics *metrics.Metrics
}

func New(g *guard.Guard, m *metrics.Metrics) *Middleware {
	return &Middleware{Guard: g, Metrics: m}
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, 0)
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, models.RoleAdmin)
}

func (m *Middleware) RequireRole(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return m.require(next, role)
	}
}

// require authenticates the caller and, when role is set, authorizes it.
func (m *Middleware) require(next echo.HandlerFunc, role models.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "auth")

		// the header carries the raw token, no scheme prefix is stripped
		raw := c.Request().Header.Get(echo.HeaderAuthorization)

		user, err := m.Guard.Authenticate(ctx, raw)
		if err != nil {
			switch {
			case errors.Is(err, guard.ErrUnauthenticated):
				m.Metrics.AuthOutcome(metrics.OutcomeUnauthenticated)
				l.Warn("auth_failed", "status", 401, "reason", err.Error())
				return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidCredentials)
			case errors.Is(err, guard.ErrIdentityNotFound):
				m.Metrics.AuthOutcome(metrics.OutcomeUnknownIdentity)
				l.Warn("auth_failed", "status", 401, "reason", err.Error())
				return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidCredentials)
			default:
				l.Error("auth_failed", "status", 500, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}
		}

		if role != 0 {
			if _, err := m.Guard.Authorize(user, role); err != nil {
				m.Metrics.AuthOutcome(metrics.OutcomeForbidden)
				l.Warn("auth_forbidden", "status", 403, "user_id", user.ID, "reason", err.Error())
				return echo.NewHTTPError(http.StatusForbidden, MsgForbidden)
			}
		}

		m.Metrics.AuthOutcome(metrics.OutcomeOK)
		setUserContext(c, user)
		return next(c)
	}
}
