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

// CustomerInput carries mutable customer fields.
type CustomerInput struct {
	Name        string
	Email       string
	Phone       *string
	AddressLine *string
	City        *string
	State       *string
	Zip         *string
	Notes       *string
}

// IssuedLink is the result of share/intake link issuance.
type IssuedLink struct {
	Token string
	URL   string
}

// CustomerService owns contractor-scoped customer operations and intake
// link issuance.
type CustomerService struct {
	customers repository.CustomerRepository
	links     sharetoken.Links
}

// NewCustomerService builds the service.
func NewCustomerService(customers repository.CustomerRepository, links sharetoken.Links) *CustomerService {
	return &CustomerService{customers: customers, links: links}
}

// Create validates and persists a new customer for the contractor.
func (s *CustomerService) Create(ctx context.Context, contractorID string, input CustomerInput) (*domain.Customer, error) {
	if err := validateCustomerInput(input); err != nil {
		return nil, err
	}
	customer := &domain.Customer{
		ContractorID: contractorID,
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.TrimSpace(input.Email),
		Phone:        input.Phone,
		AddressLine:  input.AddressLine,
		City:         input.City,
		State:        input.State,
		Zip:          input.Zip,
		Notes:        input.Notes,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Get fetches one customer, owner-scoped.
func (s *CustomerService) Get(ctx context.Context, contractorID, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, contractorID, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, err
	}
	return customer, nil
}

// List returns the contractor's customers.
func (s *CustomerService) List(ctx context.Context, contractorID string, limit, offset int) ([]domain.Customer, error) {
	return s.customers.ListByContractor(ctx, contractorID, limit, offset)
}

// Update applies mutable fields, owner-scoped.
func (s *CustomerService) Update(ctx context.Context, contractorID, id string, input CustomerInput) (*domain.Customer, error) {
	if err := validateCustomerInput(input); err != nil {
		return nil, err
	}
	customer, err := s.Get(ctx, contractorID, id)
	if err != nil {
		return nil, err
	}

	customer.Name = strings.TrimSpace(input.Name)
	customer.Email = strings.TrimSpace(input.Email)
	customer.Phone = input.Phone
	customer.AddressLine = input.AddressLine
	customer.City = input.City
	customer.State = input.State
	customer.Zip = input.Zip
	customer.Notes = input.Notes

	if err := s.customers.Update(ctx, contractorID, customer); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, err
	}
	return customer, nil
}

// Delete removes a customer, owner-scoped.
func (s *CustomerService) Delete(ctx context.Context, contractorID, id string) error {
	if err := s.customers.Delete(ctx, contractorID, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("customer", nil)
		}
		return err
	}
	return nil
}

// IssueIntakeLink returns the customer's intake link, generating the token
// on first demand. Repeat calls reuse the stored token.
func (s *CustomerService) IssueIntakeLink(ctx context.Context, contractorID, id string) (IssuedLink, error) {
	customer, err := s.Get(ctx, contractorID, id)
	if err != nil {
		return IssuedLink{}, err
	}

	if customer.IntakeToken != nil && *customer.IntakeToken != "" {
		return IssuedLink{Token: *customer.IntakeToken, URL: s.links.IntakeURL(*customer.IntakeToken)}, nil
	}

	token, err := sharetoken.Generate()
	if err != nil {
		return IssuedLink{}, err
	}
	if err := s.customers.SetIntakeToken(ctx, contractorID, id, token); err != nil {
		if err == pgx.ErrNoRows {
			return IssuedLink{}, apperrors.NewNotFound("customer", nil)
		}
		return IssuedLink{}, err
	}
	return IssuedLink{Token: token, URL: s.links.IntakeURL(token)}, nil
}

func validateCustomerInput(input CustomerInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	if strings.TrimSpace(input.Email) == "" {
		details["email"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("missing required fields", details)
	}
	return nil
}
