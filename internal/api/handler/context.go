package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentflow/auth-service/internal/api/middleware"
	"github.com/talentflow/auth-service/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware. A
// missing identity means the route was mounted without the middleware.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
