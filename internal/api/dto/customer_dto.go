package dto

import "time"

// CustomerRequest payload for creating or updating a customer.
type CustomerRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone"`
	AddressLine *string `json:"addressLine"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Zip         *string `json:"zip"`
	Notes       *string `json:"notes"`
}

// CustomerResponse is the contractor-facing customer surface.
type CustomerResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Phone             *string    `json:"phone,omitempty"`
	AddressLine       *string    `json:"addressLine,omitempty"`
	City              *string    `json:"city,omitempty"`
	State             *string    `json:"state,omitempty"`
	Zip               *string    `json:"zip,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	IntakeCompletedAt *time.Time `json:"intakeCompletedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// IntakeCompleteRequest payload for the public intake form.
type IntakeCompleteRequest struct {
	Phone       *string `json:"phone"`
	AddressLine *string `json:"addressLine"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Zip         *string `json:"zip"`
	Notes       *string `json:"notes"`
}
