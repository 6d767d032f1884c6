package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventContractSigned  EventType = "contract_signed"
	EventIntakeCompleted EventType = "intake_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ContractSignedPayload carries the required fields for the signing
// notification.
type ContractSignedPayload struct {
	ProjectID       string  `json:"project_id"`
	ProjectTitle    string  `json:"project_title"`
	ContractorID    string  `json:"contractor_id"`
	ContractorEmail string  `json:"contractor_email"`
	CustomerName    string  `json:"customer_name"`
	SignatureName   string  `json:"signature_name"`
	TotalAmount     float64 `json:"total_amount"`
}

// IntakeCompletedPayload payload.
type IntakeCompletedPayload struct {
	CustomerID   string `json:"customer_id"`
	ContractorID string `json:"contractor_id"`
	CustomerName string `json:"customer_name"`
}
