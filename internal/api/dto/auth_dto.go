package dto

// RegisterRequest payload for new contractor accounts.
type RegisterRequest struct {
	CompanyName string `json:"companyName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse body for a successful login.
type LoginResponse struct {
	Success    bool        `json:"success"`
	User       UserSummary `json:"user"`
	RedirectTo string      `json:"redirectTo"`
}

// UserSummary is the contractor surface returned by auth endpoints.
type UserSummary struct {
	ID          string `json:"id"`
	CompanyName string `json:"companyName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
}
