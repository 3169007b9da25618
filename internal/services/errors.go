package services

import "errors"

// Сентинели доменных ошибок. Хендлеры мапят их в HTTP-статусы; всё остальное
// уходит наружу как непрозрачная 500 и пишется в лог.
var (
	ErrValidation         = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrCodeExpired        = errors.New("code expired")
	ErrCodeInvalid        = errors.New("code invalid")
	ErrTooManyAttempts    = errors.New("too many attempts")
	ErrResendThrottled    = errors.New("resend throttled")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionInvalid     = errors.New("session invalid")
	ErrResetTokenInvalid  = errors.New("reset token invalid")
)
