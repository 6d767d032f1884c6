package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estimate-service/internal/api/dto"
	"github.com/spec-kit/estimate-service/internal/service"
	apperrors "github.com/spec-kit/estimate-service/pkg/util"
)

// PublicHandler serves the token-bearing unauthenticated routes. No
// session is consulted here; the token is the capability.
type PublicHandler struct {
	service *service.PublicService
}

// NewPublicHandler constructs handler.
func NewPublicHandler(publicService *service.PublicService) *PublicHandler {
	return &PublicHandler{service: publicService}
}

// View GET /api/public/:token and GET /view/:token.
func (h *PublicHandler) View(c *fiber.Ctx) error {
	view, err := h.service.ViewByToken(c.Context(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

// Sign POST /api/public/:token/sign.
func (h *PublicHandler) Sign(c *fiber.Ctx) error {
	var req dto.SignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.service.SignByToken(c.Context(), c.Params("token"), req.SignatureName)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

// Intake GET /api/intake/:token.
func (h *PublicHandler) Intake(c *fiber.Ctx) error {
	view, err := h.service.IntakeByToken(c.Context(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

// CompleteIntake PUT /api/intake/:token.
func (h *PublicHandler) CompleteIntake(c *fiber.Ctx) error {
	var req dto.IntakeCompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.service.CompleteIntakeByToken(c.Context(), c.Params("token"), service.IntakeInput{
		Phone:       req.Phone,
		AddressLine: req.AddressLine,
		City:        req.City,
		State:       req.State,
		Zip:         req.Zip,
		Notes:       req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}
