package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estimate-service/internal/repository"
)

// AdminHandler exposes the admin listing endpoints.
type AdminHandler struct {
	contractors repository.ContractorRepository
}

// NewAdminHandler constructs handler.
func NewAdminHandler(contractors repository.ContractorRepository) *AdminHandler {
	return &AdminHandler{contractors: contractors}
}

// ListContractors GET /api/admin/contractors.
func (h *AdminHandler) ListContractors(c *fiber.Ctx) error {
	stats, err := h.contractors.ListWithStats(c.Context(), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(stats))
	for _, s := range stats {
		items = append(items, fiber.Map{
			"id":            s.Contractor.ID,
			"companyName":   s.Contractor.CompanyName,
			"contactName":   s.Contractor.ContactName,
			"email":         s.Contractor.Email,
			"status":        s.Contractor.Status,
			"customerCount": s.CustomerCount,
			"projectCount":  s.ProjectCount,
			"createdAt":     s.Contractor.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
