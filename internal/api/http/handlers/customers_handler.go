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

// CustomersHandler manages contractor-scoped customer endpoints.
type CustomersHandler struct {
	service *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customerService *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{service: customerService}
}

// Create POST /api/customers.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("contractor required")
	}
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	customer, err := h.service.Create(c.Context(), identity.ContractorID, customerInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": customerResponse(customer)})
}

// List GET /api/customers.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("contractor required")
	}
	customers, err := h.service.List(c.Context(), identity.ContractorID, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, customerResponse(&customers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/customers/:id.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("contractor required")
	}
	customer, err := h.service.Get(c.Context(), identity.ContractorID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// Update PUT /api/customers/:id.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("contractor required")
	}
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	customer, err := h.service.Update(c.Context(), identity.ContractorID, c.Params("id"), customerInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customerResponse(customer)})
}

// Delete DELETE /api/customers/:id.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("contractor required")
	}
	if err := h.service.Delete(c.Context(), identity.ContractorID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// IssueIntakeLink POST /api/customers/:id/intake.
func (h *CustomersHandler) IssueIntakeLink(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("contractor required")
	}
	link, err := h.service.IssueIntakeLink(c.Context(), identity.ContractorID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ShareLinkResponse{Token: link.Token, URL: link.URL})
}

func customerInput(req dto.CustomerRequest) service.CustomerInput {
	return service.CustomerInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		AddressLine: req.AddressLine,
		City:        req.City,
		State:       req.State,
		Zip:         req.Zip,
		Notes:       req.Notes,
	}
}

func customerResponse(customer *domain.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:                customer.ID,
		Name:              customer.Name,
		Email:             customer.Email,
		Phone:             customer.Phone,
		AddressLine:       customer.AddressLine,
		City:              customer.City,
		State:             customer.State,
		Zip:               customer.Zip,
		Notes:             customer.Notes,
		IntakeCompletedAt: customer.IntakeCompletedAt,
		CreatedAt:         customer.CreatedAt,
		UpdatedAt:         customer.UpdatedAt,
	}
}
