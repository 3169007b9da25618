package services

import (
	"log"
	"time"

	"biotrack/internal/models"
	"biotrack/internal/repositories"
	"biotrack/internal/utils"
)

const defaultRefreshTTL = 30 * 24 * time.Hour

// AuthTokens — пара access (JWT) + refresh (opaque, хранится в sessions).
type AuthTokens struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type SessionService interface {
	Issue(account *models.Account) (*AuthTokens, error)
	Refresh(refreshToken string) (*AuthTokens, error)
	Logout(refreshToken string) error
	ListByAccount(accountID int64) ([]*models.Session, error)
	Revoke(sessionID, accountID int64) error
	CleanupExpired() (int64, error)
}

type sessionService struct {
	sessions   repositories.SessionRepository
	accounts   repositories.AccountRepository
	auth       AuthService
	refreshTTL time.Duration
}

func NewSessionService(sessions repositories.SessionRepository, accounts repositories.AccountRepository, auth AuthService, refreshTTL time.Duration) SessionService {
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &sessionService{
		sessions:   sessions,
		accounts:   accounts,
		auth:       auth,
		refreshTTL: refreshTTL,
	}
}

func (s *sessionService) Issue(account *models.Account) (*AuthTokens, error) {
	refresh, err := utils.NewOpaqueToken(32)
	if err != nil {
		return nil, err
	}
	refreshExp := time.Now().Add(s.refreshTTL)
	if _, err := s.sessions.Create(account.ID, refresh, refreshExp); err != nil {
		return nil, err
	}

	access, accessExp, err := s.auth.NewAccessToken(account.ID, account.Role)
	if err != nil {
		return nil, err
	}

	log.Printf("[session][issue] account_id=%d refresh_exp=%s", account.ID, refreshExp.Format(time.RFC3339))
	return &AuthTokens{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh — ротация: старый refresh перестаёт действовать, выдаётся новый.
func (s *sessionService) Refresh(refreshToken string) (*AuthTokens, error) {
	sess, err := s.sessions.GetByRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !sess.Active(time.Now()) {
		return nil, ErrSessionInvalid
	}

	newRefresh, err := utils.NewOpaqueToken(32)
	if err != nil {
		return nil, err
	}
	newExp := time.Now().Add(s.refreshTTL)
	rotated, err := s.sessions.Rotate(refreshToken, newRefresh, newExp)
	if err != nil {
		return nil, err
	}
	if rotated == nil {
		// кто-то успел ротировать или отозвать сессию
		return nil, ErrSessionInvalid
	}

	account, err := s.accounts.GetByID(rotated.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrSessionInvalid
	}

	access, accessExp, err := s.auth.NewAccessToken(account.ID, account.Role)
	if err != nil {
		return nil, err
	}
	return &AuthTokens{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     newRefresh,
		RefreshExpiresAt: newExp,
	}, nil
}

func (s *sessionService) Logout(refreshToken string) error {
	return s.sessions.RevokeByRefreshToken(refreshToken)
}

func (s *sessionService) ListByAccount(accountID int64) ([]*models.Session, error) {
	return s.sessions.ListByAccount(accountID)
}

func (s *sessionService) Revoke(sessionID, accountID int64) error {
	return s.sessions.Revoke(sessionID, accountID)
}

// CleanupExpired — периодическая чистка протухших и отозванных сессий.
func (s *sessionService) CleanupExpired() (int64, error) {
	return s.sessions.DeleteExpired(time.Now())
}
