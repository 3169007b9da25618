package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"biotrack/internal/models"
)

func newLoginFixture(t *testing.T) (*mockAccountRepo, *mockCodeRepo, *mockSessionService, *mockEmailService, AuthService, LoginService) {
	t.Helper()
	accounts := &mockAccountRepo{}
	codes := &mockCodeRepo{}
	sessions := &mockSessionService{}
	emails := &mockEmailService{}
	auth := NewAuthService([]byte("test-secret"), time.Minute)
	svc := NewLoginService(accounts, codes, NewCodeService(codes), sessions, auth, emails)
	return accounts, codes, sessions, emails, auth, svc
}

func verifiedAccount(t *testing.T, auth AuthService, password string) *models.Account {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	now := time.Now()
	return &models.Account{
		ID:           1,
		Email:        "user@example.com",
		Role:         "user",
		PasswordHash: hash,
		Status:       models.AccountStatusVerified,
		VerifiedAt:   &now,
	}
}

func TestLoginByPassword(t *testing.T) {
	accounts, _, sessions, _, auth, svc := newLoginFixture(t)

	account := verifiedAccount(t, auth, "secret1")
	accounts.On("GetByEmail", "user@example.com").Return(account, nil)
	sessions.On("Issue", account).Return(&AuthTokens{AccessToken: "jwt", RefreshToken: "refresh"}, nil)

	tokens, err := svc.ByPassword("user@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "refresh", tokens.RefreshToken)
}

func TestLoginByPasswordWrongPassword(t *testing.T) {
	accounts, _, _, _, auth, svc := newLoginFixture(t)

	accounts.On("GetByEmail", "user@example.com").Return(verifiedAccount(t, auth, "secret1"), nil)

	_, err := svc.ByPassword("user@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginByPasswordUnknownEmail(t *testing.T) {
	accounts, _, _, _, _, svc := newLoginFixture(t)

	accounts.On("GetByEmail", "nobody@example.com").Return(nil, nil)

	// та же ошибка, что и при неверном пароле: существование email не выдаём
	_, err := svc.ByPassword("nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginByPasswordUnverified(t *testing.T) {
	accounts, _, _, _, auth, svc := newLoginFixture(t)

	account := verifiedAccount(t, auth, "secret1")
	account.Status = models.AccountStatusAwaiting
	account.VerifiedAt = nil
	accounts.On("GetByEmail", "user@example.com").Return(account, nil)

	_, err := svc.ByPassword("user@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRequestLoginCode(t *testing.T) {
	accounts, codes, _, emails, auth, svc := newLoginFixture(t)

	accounts.On("GetByEmail", "user@example.com").Return(verifiedAccount(t, auth, "secret1"), nil)
	codes.On("CountRecentSends", int64(1), models.PurposeLogin, mock.Anything).Return(0, nil)
	codes.On("Issue", int64(1), models.PurposeLogin, mock.Anything, mock.Anything, mock.Anything).
		Return(int64(10), nil)
	emails.On("SendLoginCode", "user@example.com", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.RequestCode("user@example.com"))
	emails.AssertExpectations(t)
}

func TestRequestLoginCodeUnknownEmailNoop(t *testing.T) {
	accounts, codes, _, emails, _, svc := newLoginFixture(t)

	accounts.On("GetByEmail", "nobody@example.com").Return(nil, nil)

	require.NoError(t, svc.RequestCode("nobody@example.com"))
	codes.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	emails.AssertNotCalled(t, "SendLoginCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestLoginCodeThrottledNoop(t *testing.T) {
	accounts, codes, _, _, auth, svc := newLoginFixture(t)

	accounts.On("GetByEmail", "user@example.com").Return(verifiedAccount(t, auth, "secret1"), nil)
	codes.On("CountRecentSends", int64(1), models.PurposeLogin, mock.Anything).Return(3, nil)

	// 429 тоже выдал бы существование аккаунта, поэтому просто 200
	require.NoError(t, svc.RequestCode("user@example.com"))
}

func TestConfirmLoginCode(t *testing.T) {
	accounts, codes, sessions, _, auth, svc := newLoginFixture(t)

	account := verifiedAccount(t, auth, "secret1")
	accounts.On("GetByEmail", "user@example.com").Return(account, nil)
	codes.On("GetActive", int64(1), models.PurposeLogin).Return(&models.VerificationCode{
		ID:        10,
		AccountID: 1,
		CodeHash:  hashCode(t, "111222"),
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}, nil)
	codes.On("Consume", int64(10)).Return(true, nil)
	sessions.On("Issue", account).Return(&AuthTokens{RefreshToken: "refresh"}, nil)

	tokens, err := svc.ConfirmCode("user@example.com", "111222")
	require.NoError(t, err)
	assert.Equal(t, "refresh", tokens.RefreshToken)
}

func TestConfirmLoginCodeAlreadyConsumed(t *testing.T) {
	accounts, codes, _, _, auth, svc := newLoginFixture(t)

	accounts.On("GetByEmail", "user@example.com").Return(verifiedAccount(t, auth, "secret1"), nil)
	codes.On("GetActive", int64(1), models.PurposeLogin).Return(&models.VerificationCode{
		ID:        10,
		AccountID: 1,
		CodeHash:  hashCode(t, "111222"),
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}, nil)
	codes.On("Consume", int64(10)).Return(false, nil)

	_, err := svc.ConfirmCode("user@example.com", "111222")
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func TestConfirmLoginCodeUnknownEmail(t *testing.T) {
	accounts, _, _, _, _, svc := newLoginFixture(t)

	accounts.On("GetByEmail", "nobody@example.com").Return(nil, nil)

	_, err := svc.ConfirmCode("nobody@example.com", "111222")
	assert.ErrorIs(t, err, ErrCodeInvalid)
}
