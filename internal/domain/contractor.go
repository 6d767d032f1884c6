package domain

import "time"

// ContractorStatus represents lifecycle states for a contractor account.
type ContractorStatus string

const (
	ContractorStatusActive    ContractorStatus = "ACTIVE"
	ContractorStatusSuspended ContractorStatus = "SUSPENDED"
)

// Contractor is the domain model for flooring contractors who own
// customers and projects.
type Contractor struct {
	ID           string
	CompanyName  string
	ContactName  string
	Email        string
	PasswordHash string
	Phone        *string
	Status       ContractorStatus
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
