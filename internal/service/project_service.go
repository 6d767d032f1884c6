package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estimate-service/internal/domain"
	"github.com/spec-kit/estimate-service/internal/repository"
	"github.com/spec-kit/estimate-service/internal/sharetoken"
	apperrors "github.com/spec-kit/estimate-service/pkg/util"
)

// ProjectInput carries mutable estimate fields.
type ProjectInput struct {
	CustomerID   string
	Title        string
	FlooringType string
	AreaSqFt     float64
	MaterialCost float64
	LaborCost    float64
	Notes        *string
}

// ProjectService owns contractor-scoped estimate operations and share
// link issuance.
type ProjectService struct {
	projects  repository.ProjectRepository
	customers repository.CustomerRepository
	links     sharetoken.Links
}

// NewProjectService builds the service.
func NewProjectService(projects repository.ProjectRepository, customers repository.CustomerRepository, links sharetoken.Links) *ProjectService {
	return &ProjectService{projects: projects, customers: customers, links: links}
}

// Create validates and persists a new estimate. The referenced customer
// must belong to the same contractor.
func (s *ProjectService) Create(ctx context.Context, contractorID string, input ProjectInput) (*domain.Project, error) {
	if err := validateProjectInput(input); err != nil {
		return nil, err
	}
	if _, err := s.customers.GetByID(ctx, contractorID, input.CustomerID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, err
	}

	project := &domain.Project{
		ContractorID: contractorID,
		CustomerID:   input.CustomerID,
		Title:        strings.TrimSpace(input.Title),
		FlooringType: input.FlooringType,
		AreaSqFt:     input.AreaSqFt,
		MaterialCost: input.MaterialCost,
		LaborCost:    input.LaborCost,
		TotalAmount:  input.MaterialCost + input.LaborCost,
		Notes:        input.Notes,
		Status:       domain.ProjectStatusDraft,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Get fetches one estimate, owner-scoped. A project owned by another
// contractor is indistinguishable from a missing one.
func (s *ProjectService) Get(ctx context.Context, contractorID, id string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, contractorID, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("project", nil)
		}
		return nil, err
	}
	return project, nil
}

// List returns the contractor's estimates.
func (s *ProjectService) List(ctx context.Context, contractorID string, limit, offset int) ([]domain.Project, error) {
	return s.projects.ListByContractor(ctx, contractorID, limit, offset)
}

// Update applies mutable fields, owner-scoped. Signed projects are frozen.
func (s *ProjectService) Update(ctx context.Context, contractorID, id string, input ProjectInput) (*domain.Project, error) {
	if err := validateProjectInput(input); err != nil {
		return nil, err
	}
	project, err := s.Get(ctx, contractorID, id)
	if err != nil {
		return nil, err
	}
	if project.SignedAt != nil {
		return nil, apperrors.NewConflict("signed projects cannot be modified", nil)
	}
	if input.CustomerID != project.CustomerID {
		if _, err := s.customers.GetByID(ctx, contractorID, input.CustomerID); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("customer", nil)
			}
			return nil, err
		}
	}

	project.CustomerID = input.CustomerID
	project.Title = strings.TrimSpace(input.Title)
	project.FlooringType = input.FlooringType
	project.AreaSqFt = input.AreaSqFt
	project.MaterialCost = input.MaterialCost
	project.LaborCost = input.LaborCost
	project.TotalAmount = input.MaterialCost + input.LaborCost
	project.Notes = input.Notes

	if err := s.projects.Update(ctx, contractorID, project); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("project", nil)
		}
		return nil, err
	}
	return project, nil
}

// Delete removes an estimate, owner-scoped.
func (s *ProjectService) Delete(ctx context.Context, contractorID, id string) error {
	if err := s.projects.Delete(ctx, contractorID, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("project", nil)
		}
		return err
	}
	return nil
}

// IssueShareLink returns the public view link for an estimate, generating
// the token on first demand. Repeat calls return the same token; the
// concurrent first-issuance race resolves as last write wins.
func (s *ProjectService) IssueShareLink(ctx context.Context, contractorID, id string) (IssuedLink, error) {
	project, err := s.Get(ctx, contractorID, id)
	if err != nil {
		return IssuedLink{}, err
	}

	if project.ShareToken != nil && *project.ShareToken != "" {
		return IssuedLink{Token: *project.ShareToken, URL: s.links.ViewURL(*project.ShareToken)}, nil
	}

	token, err := sharetoken.Generate()
	if err != nil {
		return IssuedLink{}, err
	}
	if err := s.projects.SetShareToken(ctx, contractorID, id, token); err != nil {
		if err == pgx.ErrNoRows {
			return IssuedLink{}, apperrors.NewNotFound("project", nil)
		}
		return IssuedLink{}, err
	}
	return IssuedLink{Token: token, URL: s.links.ViewURL(token)}, nil
}

func validateProjectInput(input ProjectInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.CustomerID) == "" {
		details["customer_id"] = "required"
	}
	if strings.TrimSpace(input.Title) == "" {
		details["title"] = "required"
	}
	if strings.TrimSpace(input.FlooringType) == "" {
		details["flooring_type"] = "required"
	}
	if input.AreaSqFt < 0 {
		details["area_sqft"] = "must not be negative"
	}
	if input.MaterialCost < 0 {
		details["material_cost"] = "must not be negative"
	}
	if input.LaborCost < 0 {
		details["labor_cost"] = "must not be negative"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("missing or invalid fields", details)
	}
	return nil
}
