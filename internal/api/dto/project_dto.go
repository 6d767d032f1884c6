package dto

import "time"

// ProjectRequest payload for creating or updating an estimate.
type ProjectRequest struct {
	CustomerID   string  `json:"customerId"`
	Title        string  `json:"title"`
	FlooringType string  `json:"flooringType"`
	AreaSqFt     float64 `json:"areaSqft"`
	MaterialCost float64 `json:"materialCost"`
	LaborCost    float64 `json:"laborCost"`
	Notes        *string `json:"notes"`
}

// ProjectResponse is the contractor-facing estimate surface.
type ProjectResponse struct {
	ID            string     `json:"id"`
	CustomerID    string     `json:"customerId"`
	Title         string     `json:"title"`
	FlooringType  string     `json:"flooringType"`
	AreaSqFt      float64    `json:"areaSqft"`
	MaterialCost  float64    `json:"materialCost"`
	LaborCost     float64    `json:"laborCost"`
	TotalAmount   float64    `json:"totalAmount"`
	Notes         *string    `json:"notes,omitempty"`
	Status        string     `json:"status"`
	ShareToken    *string    `json:"shareToken,omitempty"`
	ViewedAt      *time.Time `json:"viewedAt,omitempty"`
	SignedAt      *time.Time `json:"signedAt,omitempty"`
	SignatureName *string    `json:"signatureName,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ShareLinkResponse is returned by share and intake link issuance.
type ShareLinkResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// SignRequest payload for public contract signing.
type SignRequest struct {
	SignatureName string `json:"signatureName"`
}

// FeedbackRequest payload for product feedback.
type FeedbackRequest struct {
	ProjectID   *string `json:"projectId"`
	AuthorEmail *string `json:"authorEmail"`
	Rating      int     `json:"rating"`
	Message     string  `json:"message"`
}
