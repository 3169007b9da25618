package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"biotrack/internal/repositories"
	"biotrack/internal/utils"
)

type PasswordResetService interface {
	RequestReset(email string) error
	ResetPassword(token, newPassword string) error
}

type passwordResetService struct {
	accounts repositories.AccountRepository
	resets   repositories.PasswordResetRepository
	emails   EmailService
	auth     AuthService
}

func NewPasswordResetService(accounts repositories.AccountRepository, resets repositories.PasswordResetRepository, emails EmailService, auth AuthService) PasswordResetService {
	return &passwordResetService{
		accounts: accounts,
		resets:   resets,
		emails:   emails,
		auth:     auth,
	}
}

func (s *passwordResetService) RequestReset(email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email is required: %w", ErrValidation)
	}
	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return err
	}
	if account == nil || !account.Verified() {
		// don't leak existence
		log.Printf("[password-reset] request for unknown or unverified email, noop")
		return nil
	}

	token, err := utils.NewOpaqueToken(32)
	if err != nil {
		return err
	}
	expires := time.Now().Add(1 * time.Hour)
	if _, err := s.resets.Create(account.ID, token, expires); err != nil {
		return err
	}

	if s.emails != nil {
		if err := s.emails.SendPasswordResetEmail(account.Email, token); err != nil {
			log.Printf("[password-reset] failed to send email to %s: %v", account.Email, err)
		}
	}
	return nil
}

func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	token = strings.TrimSpace(token)
	newPassword = strings.TrimSpace(newPassword)
	if token == "" || newPassword == "" {
		return fmt.Errorf("token and password are required: %w", ErrValidation)
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("password must be at least 6 characters: %w", ErrValidation)
	}

	pr, err := s.resets.GetByToken(token)
	if err != nil {
		return err
	}
	if pr == nil || pr.UsedAt != nil || time.Now().After(pr.ExpiresAt) {
		return ErrResetTokenInvalid
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(pr.AccountID, hash); err != nil {
		return err
	}
	return s.resets.MarkUsed(pr.ID)
}
