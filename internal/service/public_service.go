package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/estimate-service/internal/domain"
	"github.com/spec-kit/estimate-service/internal/events"
	"github.com/spec-kit/estimate-service/internal/repository"
	"github.com/spec-kit/estimate-service/internal/sharetoken"
	apperrors "github.com/spec-kit/estimate-service/pkg/util"
)

// PublicEstimateView is the allow-listed projection served to anonymous
// token holders. Owner-identifying ids and internal fields stay out.
type PublicEstimateView struct {
	Project    PublicProject    `json:"project"`
	Customer   PublicCustomer   `json:"customer"`
	Contractor PublicContractor `json:"contractor"`
}

// PublicProject projection.
type PublicProject struct {
	Title         string     `json:"title"`
	FlooringType  string     `json:"flooring_type"`
	AreaSqFt      float64    `json:"area_sqft"`
	MaterialCost  float64    `json:"material_cost"`
	LaborCost     float64    `json:"labor_cost"`
	TotalAmount   float64    `json:"total_amount"`
	Status        string     `json:"status"`
	ViewedAt      *time.Time `json:"viewed_at,omitempty"`
	SignedAt      *time.Time `json:"signed_at,omitempty"`
	SignatureName *string    `json:"signature_name,omitempty"`
}

// PublicCustomer projection: the job-site identity only. Contractor notes
// and contact details are not exposed.
type PublicCustomer struct {
	Name        string  `json:"name"`
	AddressLine *string `json:"address_line,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	Zip         *string `json:"zip,omitempty"`
}

// PublicContractor projection: the business card fields.
type PublicContractor struct {
	CompanyName string  `json:"company_name"`
	ContactName string  `json:"contact_name"`
	Phone       *string `json:"phone,omitempty"`
}

// IntakeView is what a customer sees of their own record via the intake
// token.
type IntakeView struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	AddressLine *string    `json:"address_line,omitempty"`
	City        *string    `json:"city,omitempty"`
	State       *string    `json:"state,omitempty"`
	Zip         *string    `json:"zip,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IntakeInput carries the profile fields a customer may complete.
type IntakeInput struct {
	Phone       *string
	AddressLine *string
	City        *string
	State       *string
	Zip         *string
	Notes       *string
}

// PublicService serves all token-bearing unauthenticated operations.
// Lookups go by token value only; the owner filter does not apply here.
type PublicService struct {
	projects    repository.ProjectRepository
	customers   repository.CustomerRepository
	contractors repository.ContractorRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewPublicService builds the service.
func NewPublicService(
	projects repository.ProjectRepository,
	customers repository.CustomerRepository,
	contractors repository.ContractorRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *PublicService {
	return &PublicService{
		projects:    projects,
		customers:   customers,
		contractors: contractors,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// ViewByToken resolves a share token to the public projection. The first
// successful view stamps viewed_at unless the estimate is already signed.
// Malformed tokens are rejected before any store access.
func (s *PublicService) ViewByToken(ctx context.Context, token string) (*PublicEstimateView, error) {
	project, err := s.projectByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if project.ViewedAt == nil && project.SignedAt == nil {
		if err := s.projects.MarkViewed(ctx, project.ID); err != nil {
			return nil, err
		}
		// re-read so the response carries the store's stamp, not a
		// second clock reading that every later view would contradict
		if project, err = s.projectByToken(ctx, token); err != nil {
			return nil, err
		}
	}

	return s.buildView(ctx, project)
}

// SignByToken records the customer's signature on an estimate and emits
// the contract-signed event. Signing twice is a conflict. Notification
// delivery failure does not fail the signing.
func (s *PublicService) SignByToken(ctx context.Context, token, signatureName string) (*PublicEstimateView, error) {
	signatureName = strings.TrimSpace(signatureName)
	if signatureName == "" {
		return nil, apperrors.NewValidationError("signature name required", map[string]any{"signature_name": "required"})
	}

	project, err := s.projectByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if project.SignedAt != nil {
		return nil, apperrors.NewConflict("estimate already signed", nil)
	}

	if err := s.projects.MarkSigned(ctx, project.ID, signatureName); err != nil {
		if err == pgx.ErrNoRows {
			// lost the race to another signer
			return nil, apperrors.NewConflict("estimate already signed", nil)
		}
		return nil, err
	}
	if project, err = s.projectByToken(ctx, token); err != nil {
		return nil, err
	}

	view, err := s.buildView(ctx, project)
	if err != nil {
		return nil, err
	}

	s.publishContractSigned(ctx, project, view)
	return view, nil
}

// IntakeByToken resolves an intake token to the customer's own projection.
func (s *PublicService) IntakeByToken(ctx context.Context, token string) (*IntakeView, error) {
	customer, err := s.customerByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return intakeView(customer), nil
}

// CompleteIntakeByToken writes the customer-supplied profile fields and
// stamps completion.
func (s *PublicService) CompleteIntakeByToken(ctx context.Context, token string, input IntakeInput) (*IntakeView, error) {
	customer, err := s.customerByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	profile := domain.Customer{
		Phone:       input.Phone,
		AddressLine: input.AddressLine,
		City:        input.City,
		State:       input.State,
		Zip:         input.Zip,
		Notes:       input.Notes,
	}
	if err := s.customers.CompleteIntake(ctx, customer.ID, profile); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("intake", nil)
		}
		return nil, err
	}

	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventIntakeCompleted,
		SubjectID: customer.ID,
		Timestamp: time.Now(),
		Payload: events.IntakeCompletedPayload{
			CustomerID:   customer.ID,
			ContractorID: customer.ContractorID,
			CustomerName: customer.Name,
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("intake notification failed", zap.String("customer_id", customer.ID), zap.Error(err))
	}

	updated, err := s.customerByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return intakeView(updated), nil
}

func (s *PublicService) projectByToken(ctx context.Context, token string) (*domain.Project, error) {
	if !sharetoken.IsValidFormat(token) {
		return nil, apperrors.NewInvalidToken("malformed token")
	}
	project, err := s.projects.GetByShareToken(ctx, strings.ToLower(token))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("estimate", nil)
		}
		return nil, err
	}
	return project, nil
}

func (s *PublicService) customerByToken(ctx context.Context, token string) (*domain.Customer, error) {
	if !sharetoken.IsValidFormat(token) {
		return nil, apperrors.NewInvalidToken("malformed token")
	}
	customer, err := s.customers.GetByIntakeToken(ctx, strings.ToLower(token))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("intake", nil)
		}
		return nil, err
	}
	return customer, nil
}

func (s *PublicService) buildView(ctx context.Context, project *domain.Project) (*PublicEstimateView, error) {
	customer, err := s.customers.GetByID(ctx, project.ContractorID, project.CustomerID)
	if err != nil {
		return nil, err
	}
	contractor, err := s.contractors.GetByID(ctx, project.ContractorID)
	if err != nil {
		return nil, err
	}

	return &PublicEstimateView{
		Project: PublicProject{
			Title:         project.Title,
			FlooringType:  project.FlooringType,
			AreaSqFt:      project.AreaSqFt,
			MaterialCost:  project.MaterialCost,
			LaborCost:     project.LaborCost,
			TotalAmount:   project.TotalAmount,
			Status:        string(project.Status),
			ViewedAt:      project.ViewedAt,
			SignedAt:      project.SignedAt,
			SignatureName: project.SignatureName,
		},
		Customer: PublicCustomer{
			Name:        customer.Name,
			AddressLine: customer.AddressLine,
			City:        customer.City,
			State:       customer.State,
			Zip:         customer.Zip,
		},
		Contractor: PublicContractor{
			CompanyName: contractor.CompanyName,
			ContactName: contractor.ContactName,
			Phone:       contractor.Phone,
		},
	}, nil
}

func (s *PublicService) publishContractSigned(ctx context.Context, project *domain.Project, view *PublicEstimateView) {
	contractor, err := s.contractors.GetByID(ctx, project.ContractorID)
	if err != nil {
		s.logger.Warn("contract signed but contractor lookup failed",
			zap.String("project_id", project.ID), zap.Error(err))
		return
	}

	signature := ""
	if project.SignatureName != nil {
		signature = *project.SignatureName
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventContractSigned,
		SubjectID: project.ID,
		Timestamp: time.Now(),
		Payload: events.ContractSignedPayload{
			ProjectID:       project.ID,
			ProjectTitle:    project.Title,
			ContractorID:    contractor.ID,
			ContractorEmail: contractor.Email,
			CustomerName:    view.Customer.Name,
			SignatureName:   signature,
			TotalAmount:     project.TotalAmount,
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("contract signed notification failed",
			zap.String("project_id", project.ID), zap.Error(err))
	}
}

func intakeView(customer *domain.Customer) *IntakeView {
	return &IntakeView{
		Name:        customer.Name,
		Email:       customer.Email,
		Phone:       customer.Phone,
		AddressLine: customer.AddressLine,
		City:        customer.City,
		State:       customer.State,
		Zip:         customer.Zip,
		Notes:       customer.Notes,
		CompletedAt: customer.IntakeCompletedAt,
	}
}
