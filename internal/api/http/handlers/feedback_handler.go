package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estimate-service/internal/api/dto"
	"github.com/spec-kit/estimate-service/internal/domain"
	"github.com/spec-kit/estimate-service/internal/repository"
	apperrors "github.com/spec-kit/estimate-service/pkg/util"
)

// FeedbackHandler accepts product feedback and lists it for admins.
type FeedbackHandler struct {
	feedback repository.FeedbackRepository
}

// NewFeedbackHandler constructs handler.
func NewFeedbackHandler(feedback repository.FeedbackRepository) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Create POST /api/feedback. Public; no identity required.
func (h *FeedbackHandler) Create(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := map[string]any{}
	if strings.TrimSpace(req.Message) == "" {
		details["message"] = "required"
	}
	if req.Rating < 1 || req.Rating > 5 {
		details["rating"] = "must be 1-5"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("missing or invalid fields", details)
	}

	entry := &domain.Feedback{
		ProjectID:   req.ProjectID,
		AuthorEmail: req.AuthorEmail,
		Rating:      req.Rating,
		Message:     req.Message,
	}
	if err := h.feedback.Create(c.Context(), entry); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": entry.ID}})
}

// List GET /api/admin/feedback.
func (h *FeedbackHandler) List(c *fiber.Ctx) error {
	entries, err := h.feedback.List(c.Context(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}
