package models

import "time"

// Назначение кода: регистрация или вход по коду.
const (
	PurposeRegistration = "registration"
	PurposeLogin        = "login"
)

// VerificationCode — отдельная запись на каждую отправку кода.
// Мы храним только bcrypt-хэш кода (CodeHash), TTL и счётчик попыток.
// Not more than one active (unconsumed, unexpired) row per (account, purpose).
type VerificationCode struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Purpose   string    `json:"purpose"`
	CodeHash  string    `json:"-"`
	SentAt    time.Time `json:"sent_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Consumed  bool      `json:"consumed"`
	Attempts  int       `json:"attempts"`
}
