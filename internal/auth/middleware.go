package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estimate-service/internal/domain"
	"github.com/spec-kit/estimate-service/internal/repository"
	apperrors "github.com/spec-kit/estimate-service/pkg/util"
)

const (
	identityKey   = "auth_identity"
	contractorKey = "auth_contractor"
)

// Middleware guards API routes with session-based authentication.
type Middleware struct {
	oracle      SessionOracle
	contractors repository.ContractorRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(oracle SessionOracle, contractors repository.ContractorRepository) *Middleware {
	return &Middleware{oracle: oracle, contractors: contractors}
}

// RequireContractor enforces an authenticated contractor on API routes.
// Unlike page routes there is no redirect; missing identity is a 401.
func (m *Middleware) RequireContractor(c *fiber.Ctx) error {
	identity, ok := m.oracle.Resolve(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	contractor, err := m.contractors.GetByID(c.Context(), identity.ContractorID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("account no longer exists")
		}
		return apperrors.MapError(err)
	}
	if contractor.Status != domain.ContractorStatusActive {
		return apperrors.NewUnauthorized("account suspended")
	}

	c.Locals(identityKey, identity)
	c.Locals(contractorKey, contractor)
	return c.Next()
}

// RequireAdmin gates admin routes. Must run after RequireContractor.
func (m *Middleware) RequireAdmin(c *fiber.Ctx) error {
	contractor, ok := ContractorFromContext(c)
	if !ok || !contractor.IsAdmin {
		return apperrors.NewForbidden("admin required")
	}
	return c.Next()
}

// IdentityFromContext retrieves the resolved identity.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}

// ContractorFromContext retrieves the authenticated contractor record.
func ContractorFromContext(c *fiber.Ctx) (*domain.Contractor, bool) {
	val := c.Locals(contractorKey)
	if val == nil {
		return nil, false
	}
	contractor, ok := val.(*domain.Contractor)
	return contractor, ok
}
