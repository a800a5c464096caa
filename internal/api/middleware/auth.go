package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talentflow/auth-service/internal/api/metrics"
	"github.com/talentflow/auth-service/internal/core/domain"
)

// Context keys set by Auth.
const (
	ContextKeySubject = "subject"
	ContextKeyRole    = "role"
)

// TokenValidator turns a bearer token into the identity it asserts.
type TokenValidator interface {
	ValidateToken(token string) (domain.Identity, error)
}

// Auth validates the bearer token and injects its identity into the context.
func Auth(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenValidationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			identity, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenValidationsTotal.WithLabelValues("expired").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
			c.Set(ContextKeySubject, identity.Subject)
			c.Set(ContextKeyRole, identity.Role)

			return next(c)
		}
	}
}

// IdentityFrom returns the identity injected by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	subject, _ := c.Get(ContextKeySubject).(string)
	role, _ := c.Get(ContextKeyRole).(domain.Role)
	if subject == "" || !role.Valid() {
		return domain.Identity{}, false
	}
	return domain.Identity{Subject: subject, Role: role}, true
}
