package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estimate-service/internal/api/dto"
	"github.com/spec-kit/estimate-service/internal/auth"
	"github.com/spec-kit/estimate-service/internal/domain"
	"github.com/spec-kit/estimate-service/internal/service"
)

// AuthHandler exposes contractor authentication endpoints.
type AuthHandler struct {
	auth          *service.AuthService
	dashboardPath string
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, dashboardPath string) *AuthHandler {
	return &AuthHandler{auth: authService, dashboardPath: dashboardPath}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CompanyName == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "companyName, email, password required")
	}

	contractor, err := h.auth.Register(c.Context(), req.CompanyName, req.ContactName, req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if err := h.establishSession(c, contractor); err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.LoginResponse{
		Success:    true,
		User:       userSummary(contractor),
		RedirectTo: h.dashboardPath,
	})
}

// Login handles POST /api/auth/login. Bad credentials and unknown users
// both produce a 400 with an error string and no session cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	contractor, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	if err := h.establishSession(c, contractor); err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Success:    true,
		User:       userSummary(contractor),
		RedirectTo: h.dashboardPath,
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if refreshID := c.Cookies(auth.RefreshCookieName); refreshID != "" {
		if err := h.auth.DestroySession(c.Context(), refreshID); err != nil {
			return err
		}
	}
	auth.ClearSessionCookies(c)
	return c.JSON(fiber.Map{"success": true})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	contractor, ok := auth.ContractorFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(fiber.Map{"user": userSummary(contractor)})
}

func (h *AuthHandler) establishSession(c *fiber.Ctx, contractor *domain.Contractor) error {
	bundle, err := h.auth.CreateSession(c.Context(), contractor)
	if err != nil {
		return err
	}
	auth.SetSessionCookies(c, bundle.SessionToken, bundle.SessionExpiry, bundle.RefreshID, bundle.RefreshExpiry)
	return nil
}

func userSummary(contractor *domain.Contractor) dto.UserSummary {
	return dto.UserSummary{
		ID:          contractor.ID,
		CompanyName: contractor.CompanyName,
		ContactName: contractor.ContactName,
		Email:       contractor.Email,
	}
}
