package domain

import "time"

// ProjectStatus enumerates lifecycle states for project estimates.
type ProjectStatus string

const (
	ProjectStatusDraft    ProjectStatus = "DRAFT"
	ProjectStatusSent     ProjectStatus = "SENT"
	ProjectStatusViewed   ProjectStatus = "VIEWED"
	ProjectStatusSigned   ProjectStatus = "SIGNED"
	ProjectStatusArchived ProjectStatus = "ARCHIVED"
)

// Project is the aggregate for a flooring estimate. The share token, once
// issued, grants unauthenticated read access through the public view route.
type Project struct {
	ID            string
	ContractorID  string
	CustomerID    string
	Title         string
	FlooringType  string
	AreaSqFt      float64
	MaterialCost  float64
	LaborCost     float64
	TotalAmount   float64
	Notes         *string
	Status        ProjectStatus
	ShareToken    *string
	ViewedAt      *time.Time
	SignedAt      *time.Time
	SignatureName *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
