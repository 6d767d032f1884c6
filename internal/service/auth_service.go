package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/estimate-service/internal/auth"
	"github.com/spec-kit/estimate-service/internal/config"
	"github.com/spec-kit/estimate-service/internal/domain"
	"github.com/spec-kit/estimate-service/internal/repository"
)

// ErrInvalidCredentials covers both unknown accounts and wrong passwords
// so the two are not distinguishable from the response.
var ErrInvalidCredentials = errors.New("invalid email or password")

// SessionBundle is everything the transport needs to install cookies.
type SessionBundle struct {
	SessionToken  string
	SessionExpiry time.Time
	RefreshID     string
	RefreshExpiry time.Time
}

// AuthService coordinates registration, login, and session issuance.
type AuthService struct {
	contractors repository.ContractorRepository
	sessions    *auth.SessionManager
	refresh     auth.RefreshStore
	refreshTTL  time.Duration
	bcryptCost  int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.SessionConfig, contractors repository.ContractorRepository, refresh auth.RefreshStore) *AuthService {
	return &AuthService{
		contractors: contractors,
		sessions:    auth.NewSessionManager(cfg.JWTSecret, cfg.SessionTTL()),
		refresh:     refresh,
		refreshTTL:  cfg.RefreshTTL(),
		bcryptCost:  cfg.BcryptCost,
	}
}

// Register creates a new contractor account.
func (s *AuthService) Register(ctx context.Context, companyName, contactName, email, password string) (*domain.Contractor, error) {
	if _, err := s.contractors.GetByEmail(ctx, email); err == nil {
		return nil, errors.New("email already registered")
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	contractor := &domain.Contractor{
		CompanyName:  companyName,
		ContactName:  contactName,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.ContractorStatusActive,
	}
	if err := s.contractors.Create(ctx, contractor); err != nil {
		return nil, err
	}
	return contractor, nil
}

// Login authenticates a contractor by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Contractor, error) {
	contractor, err := s.contractors.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if contractor.Status != domain.ContractorStatusActive {
		return nil, ErrInvalidCredentials
	}
	if err := auth.ComparePassword(contractor.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return contractor, nil
}

// CreateSession mints the session JWT and a refresh session for a
// freshly authenticated contractor.
func (s *AuthService) CreateSession(ctx context.Context, contractor *domain.Contractor) (SessionBundle, error) {
	token, exp, err := s.sessions.Issue(contractor.ID, contractor.Email)
	if err != nil {
		return SessionBundle{}, err
	}

	refreshID := uuid.NewString()
	sess := auth.RefreshSession{ContractorID: contractor.ID, Email: contractor.Email}
	if err := s.refresh.Save(ctx, refreshID, sess); err != nil {
		return SessionBundle{}, err
	}

	return SessionBundle{
		SessionToken:  token,
		SessionExpiry: exp,
		RefreshID:     refreshID,
		RefreshExpiry: time.Now().Add(s.refreshTTL),
	}, nil
}

// DestroySession drops the refresh session at logout. The session JWT
// simply expires.
func (s *AuthService) DestroySession(ctx context.Context, refreshID string) error {
	if refreshID == "" {
		return nil
	}
	return s.refresh.Delete(ctx, refreshID)
}

// SessionManager exposes the underlying manager for oracle construction.
func (s *AuthService) SessionManager() *auth.SessionManager {
	return s.sessions
}
