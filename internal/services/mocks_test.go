package services

import (
	"time"

	"github.com/stretchr/testify/mock"

	"biotrack/internal/models"
)

type mockAccountRepo struct{ mock.Mock }

func (m *mockAccountRepo) Create(account *models.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *mockAccountRepo) GetByID(id int64) (*models.Account, error) {
	args := m.Called(id)
	a, _ := args.Get(0).(*models.Account)
	return a, args.Error(1)
}

func (m *mockAccountRepo) GetByEmail(email string) (*models.Account, error) {
	args := m.Called(email)
	a, _ := args.Get(0).(*models.Account)
	return a, args.Error(1)
}

func (m *mockAccountRepo) UpdateStatus(id int64, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *mockAccountRepo) UpdatePassword(id int64, passwordHash string) error {
	args := m.Called(id, passwordHash)
	return args.Error(0)
}

func (m *mockAccountRepo) List(limit, offset int) ([]*models.Account, error) {
	args := m.Called(limit, offset)
	l, _ := args.Get(0).([]*models.Account)
	return l, args.Error(1)
}

func (m *mockAccountRepo) GetCount() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *mockAccountRepo) GetCountByStatus(status string) (int, error) {
	args := m.Called(status)
	return args.Int(0), args.Error(1)
}

type mockCodeRepo struct{ mock.Mock }

func (m *mockCodeRepo) Issue(accountID int64, purpose, codeHash string, sentAt, expiresAt time.Time) (int64, error) {
	args := m.Called(accountID, purpose, codeHash, sentAt, expiresAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCodeRepo) GetActive(accountID int64, purpose string) (*models.VerificationCode, error) {
	args := m.Called(accountID, purpose)
	v, _ := args.Get(0).(*models.VerificationCode)
	return v, args.Error(1)
}

func (m *mockCodeRepo) CountRecentSends(accountID int64, purpose string, since time.Time) (int, error) {
	args := m.Called(accountID, purpose, since)
	return args.Int(0), args.Error(1)
}

func (m *mockCodeRepo) IncrementAttempts(id int64) (int, error) {
	args := m.Called(id)
	return args.Int(0), args.Error(1)
}

func (m *mockCodeRepo) Consume(id int64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockCodeRepo) ConsumeAndVerify(id, accountID int64) (bool, error) {
	args := m.Called(id, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCodeRepo) ExpireNow(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockCodeRepo) DeleteExpired(olderThan time.Time) (int64, error) {
	args := m.Called(olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type mockSessionRepo struct{ mock.Mock }

func (m *mockSessionRepo) Create(accountID int64, refreshToken string, expiresAt time.Time) (*models.Session, error) {
	args := m.Called(accountID, refreshToken, expiresAt)
	s, _ := args.Get(0).(*models.Session)
	return s, args.Error(1)
}

func (m *mockSessionRepo) GetByRefreshToken(token string) (*models.Session, error) {
	args := m.Called(token)
	s, _ := args.Get(0).(*models.Session)
	return s, args.Error(1)
}

func (m *mockSessionRepo) Rotate(oldToken, newToken string, newExpiresAt time.Time) (*models.Session, error) {
	args := m.Called(oldToken, newToken, newExpiresAt)
	s, _ := args.Get(0).(*models.Session)
	return s, args.Error(1)
}

func (m *mockSessionRepo) ListByAccount(accountID int64) ([]*models.Session, error) {
	args := m.Called(accountID)
	l, _ := args.Get(0).([]*models.Session)
	return l, args.Error(1)
}

func (m *mockSessionRepo) Revoke(id, accountID int64) error {
	args := m.Called(id, accountID)
	return args.Error(0)
}

func (m *mockSessionRepo) RevokeByRefreshToken(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *mockSessionRepo) DeleteExpired(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

type mockResetRepo struct{ mock.Mock }

func (m *mockResetRepo) Create(accountID int64, token string, expiresAt time.Time) (*models.PasswordReset, error) {
	args := m.Called(accountID, token, expiresAt)
	p, _ := args.Get(0).(*models.PasswordReset)
	return p, args.Error(1)
}

func (m *mockResetRepo) GetByToken(token string) (*models.PasswordReset, error) {
	args := m.Called(token)
	p, _ := args.Get(0).(*models.PasswordReset)
	return p, args.Error(1)
}

func (m *mockResetRepo) MarkUsed(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

type mockEmailService struct{ mock.Mock }

func (m *mockEmailService) SendVerificationCode(email, code string, ttl time.Duration) error {
	args := m.Called(email, code, ttl)
	return args.Error(0)
}

func (m *mockEmailService) SendLoginCode(email, code string, ttl time.Duration) error {
	args := m.Called(email, code, ttl)
	return args.Error(0)
}

func (m *mockEmailService) SendWelcomeEmail(email, name string) error {
	args := m.Called(email, name)
	return args.Error(0)
}

func (m *mockEmailService) SendPasswordResetEmail(email, token string) error {
	args := m.Called(email, token)
	return args.Error(0)
}

type mockSessionService struct{ mock.Mock }

func (m *mockSessionService) Issue(account *models.Account) (*AuthTokens, error) {
	args := m.Called(account)
	t, _ := args.Get(0).(*AuthTokens)
	return t, args.Error(1)
}

func (m *mockSessionService) Refresh(refreshToken string) (*AuthTokens, error) {
	args := m.Called(refreshToken)
	t, _ := args.Get(0).(*AuthTokens)
	return t, args.Error(1)
}

func (m *mockSessionService) Logout(refreshToken string) error {
	args := m.Called(refreshToken)
	return args.Error(0)
}

func (m *mockSessionService) ListByAccount(accountID int64) ([]*models.Session, error) {
	args := m.Called(accountID)
	l, _ := args.Get(0).([]*models.Session)
	return l, args.Error(1)
}

func (m *mockSessionService) Revoke(sessionID, accountID int64) error {
	args := m.Called(sessionID, accountID)
	return args.Error(0)
}

func (m *mockSessionService) CleanupExpired() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}
