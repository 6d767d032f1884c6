package domain

import "time"

// Customer belongs to exactly one contractor. The intake token grants the
// customer unauthenticated access to complete their own profile.
type Customer struct {
	ID                string
	ContractorID      string
	Name              string
	Email             string
	Phone             *string
	AddressLine       *string
	City              *string
	State             *string
	Zip               *string
	Notes             *string
	IntakeToken       *string
	IntakeCompletedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
