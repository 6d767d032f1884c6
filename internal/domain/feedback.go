package domain

import "time"

// Feedback is an unauthenticated product feedback entry, optionally tied
// to a project.
type Feedback struct {
	ID          string
	ProjectID   *string
	AuthorEmail *string
	Rating      int
	Message     string
	CreatedAt   time.Time
}
