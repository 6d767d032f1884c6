package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estimate-service/internal/api/dto"
	"github.com/spec-kit/estimate-service/internal/auth"
	"github.com/spec-kit/estimate-service/internal/domain"
	"github.com/spec-kit/estimate-service/internal/service"
	apperrors "github.com/spec-kit/estimate-service/pkg/util"
)

// ProjectsHandler manages contractor-scoped estimate endpoints.
type ProjectsHandler struct {
	service *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projectService *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{service: projectService}
}

// Create POST /api/projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("contractor required")
	}
	var req dto.ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	project, err := h.service.Create(c.Context(), identity.ContractorID, projectInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": projectResponse(project)})
}

// List GET /api/projects.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("contractor required")
	}
	projects, err := h.service.List(c.Context(), identity.ContractorID, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, projectResponse(&projects[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/projects/:id.
func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("contractor required")
	}
	project, err := h.service.Get(c.Context(), identity.ContractorID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projectResponse(project)})
}

// Update PUT /api/projects/:id.
func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("contractor required")
	}
	var req dto.ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	project, err := h.service.Update(c.Context(), identity.ContractorID, c.Params("id"), projectInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projectResponse(project)})
}

// Delete DELETE /api/projects/:id.
func (h *ProjectsHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("contractor required")
	}
	if err := h.service.Delete(c.Context(), identity.ContractorID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// IssueShareLink POST /api/projects/:id/share. Idempotent: an existing
// token is returned as-is.
func (h *ProjectsHandler) IssueShareLink(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("contractor required")
	}
	link, err := h.service.IssueShareLink(c.Context(), identity.ContractorID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ShareLinkResponse{Token: link.Token, URL: link.URL})
}

func projectInput(req dto.ProjectRequest) service.ProjectInput {
	return service.ProjectInput{
		CustomerID:   req.CustomerID,
		Title:        req.Title,
		FlooringType: req.FlooringType,
		AreaSqFt:     req.AreaSqFt,
		MaterialCost: req.MaterialCost,
		LaborCost:    req.LaborCost,
		Notes:        req.Notes,
	}
}

func projectResponse(project *domain.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:            project.ID,
		CustomerID:    project.CustomerID,
		Title:         project.Title,
		FlooringType:  project.FlooringType,
		AreaSqFt:      project.AreaSqFt,
		MaterialCost:  project.MaterialCost,
		LaborCost:     project.LaborCost,
		TotalAmount:   project.TotalAmount,
		Notes:         project.Notes,
		Status:        string(project.Status),
		ShareToken:    project.ShareToken,
		ViewedAt:      project.ViewedAt,
		SignedAt:      project.SignedAt,
		SignatureName: project.SignatureName,
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
	}
}
