package models

import "time"

// Статусы жизненного цикла аккаунта.
// started -> awaiting_verification -> verified; identity is immutable after verified.
const (
	AccountStatusStarted  = "started"
	AccountStatusAwaiting = "awaiting_verification"
	AccountStatusVerified = "verified"
)

type Account struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"` // не отдаём наружу

	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Phone       string `json:"phone,omitempty"`

	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

func (a *Account) Verified() bool {
	return a != nil && a.Status == AccountStatusVerified
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
