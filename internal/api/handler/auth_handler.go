package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentflow/auth-service/internal/api/metrics"
	"github.com/talentflow/auth-service/internal/core/domain"
	"github.com/talentflow/auth-service/internal/core/ports"
)

// AuthHandler exposes registration and login over HTTP. Errors are returned
// to echo and rendered by the API error handler.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterFreelancer creates a freelancer account.
//
// @Summary      Register a freelancer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      freelancerRequest  true  "Freelancer profile"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register/freelancer [post]
func (h *AuthHandler) RegisterFreelancer(c echo.Context) error {
	var req freelancerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(domain.RoleFreelancer.String(), "invalid_input").Inc()
		return err
	}

	res, err := h.authService.RegisterFreelancer(c.Request().Context(), ports.FreelancerRegistration{
		ProfileInput: ports.ProfileInput{
			FullName:    req.FullName,
			Email:       req.Email,
			Password:    req.Password,
			PhoneNumber: req.PhoneNumber,
		},
		ProfessionalTitle: req.ProfessionalTitle,
		Skills:            req.Skills,
		PortfolioURL:      req.PortfolioURL,
		Bio:               req.Bio,
	})
	return h.registered(c, domain.RoleFreelancer, res, err)
}

// RegisterClient creates a client account.
//
// @Summary      Register a client
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      clientRequest  true  "Client profile"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register/client [post]
func (h *AuthHandler) RegisterClient(c echo.Context) error {
	var req clientRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(domain.RoleClient.String(), "invalid_input").Inc()
		return err
	}

	res, err := h.authService.RegisterClient(c.Request().Context(), ports.ClientRegistration{
		ProfileInput: ports.ProfileInput{
			FullName:    req.FullName,
			Email:       req.Email,
			Password:    req.Password,
			PhoneNumber: req.PhoneNumber,
		},
		CompanyName: req.CompanyName,
	})
	return h.registered(c, domain.RoleClient, res, err)
}

// RegisterAdmin creates an admin account when adminCode matches the
// configured registration code.
//
// @Summary      Register an admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      adminRequest  true  "Admin profile and registration code"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register/admin [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req adminRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(domain.RoleAdmin.String(), "invalid_input").Inc()
		return err
	}

	res, err := h.authService.RegisterAdmin(c.Request().Context(), ports.AdminRegistration{
		ProfileInput: ports.ProfileInput{
			FullName:    req.FullName,
			Email:       req.Email,
			Password:    req.Password,
			PhoneNumber: req.PhoneNumber,
		},
		AdminCode:  req.AdminCode,
		Department: req.Department,
	})
	return h.registered(c, domain.RoleAdmin, res, err)
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), ports.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: res.Token, Role: res.Role})
}

// Me returns the identity carried by the caller's bearer token.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Subject: identity.Subject, Role: identity.Role})
}

func (h *AuthHandler) registered(c echo.Context, role domain.Role, res ports.AuthResult, err error) error {
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(role.String(), registrationResult(err)).Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues(role.String(), "success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: res.Token, Role: res.Role})
}

func registrationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidAdminCode):
		return "invalid_admin_code"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}

// bindAndValidate decodes the JSON body into req and runs the registered
// validator. Both failures surface as 400.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
