package services

import (
	"log"
	"strings"
	"time"

	"biotrack/internal/models"
	"biotrack/internal/repositories"
)

// LoginService — вход по паролю и по одноразовому коду.
// Оба пути не раскрывают, существует ли email: ошибки и ответы одинаковы для
// незнакомых адресов и неверных кредов.
type LoginService interface {
	ByPassword(email, password string) (*AuthTokens, error)
	RequestCode(email string) error
	ConfirmCode(email, code string) (*AuthTokens, error)
}

type loginService struct {
	accounts repositories.AccountRepository
	codes    repositories.VerificationCodeRepository
	codeSvc  *CodeService
	sessions SessionService
	auth     AuthService
	emails   EmailService
}

func NewLoginService(
	accounts repositories.AccountRepository,
	codes repositories.VerificationCodeRepository,
	codeSvc *CodeService,
	sessions SessionService,
	auth AuthService,
	emails EmailService,
) LoginService {
	return &loginService{
		accounts: accounts,
		codes:    codes,
		codeSvc:  codeSvc,
		sessions: sessions,
		auth:     auth,
		emails:   emails,
	}
}

// ByPassword: любой провал (нет аккаунта, не верифицирован, неверный пароль)
// выглядит одинаково — ErrInvalidCredentials.
func (s *loginService) ByPassword(email, password string) (*AuthTokens, error) {
	account, err := s.accounts.GetByEmail(normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account == nil || !account.Verified() {
		log.Printf("[auth][login] rejected: no verified account for given email")
		return nil, ErrInvalidCredentials
	}
	if !s.auth.CheckPassword(account.PasswordHash, strings.TrimSpace(password)) {
		log.Printf("[auth][login] rejected: password mismatch account_id=%d", account.ID)
		return nil, ErrInvalidCredentials
	}

	log.Printf("[auth][login] OK account_id=%d role=%s", account.ID, account.Role)
	return s.sessions.Issue(account)
}

// RequestCode — выдаёт login-код и шлёт письмо. Для незнакомого или
// неверифицированного email молча выходим: ответ наружу всегда одинаковый.
func (s *loginService) RequestCode(email string) error {
	account, err := s.accounts.GetByEmail(normalizeEmail(email))
	if err != nil {
		return err
	}
	if account == nil || !account.Verified() {
		log.Printf("[auth][code] request for unknown or unverified email, noop")
		return nil
	}

	code, expiresAt, err := s.codeSvc.Issue(account.ID, models.PurposeLogin)
	if err != nil {
		if err == ErrResendThrottled {
			// 429 выдал бы существование аккаунта; глушим
			log.Printf("[auth][code] throttled account_id=%d, noop", account.ID)
			return nil
		}
		return err
	}

	if s.emails != nil {
		if err := s.emails.SendLoginCode(account.Email, code, time.Until(expiresAt)); err != nil {
			log.Printf("[auth][code] warning: failed to send login code to %s: %v", account.Email, err)
		}
	}
	return nil
}

// ConfirmCode — проверка login-кода; погашение условное, при гонке побеждает
// один запрос, остальные получают ErrCodeInvalid.
func (s *loginService) ConfirmCode(email, code string) (*AuthTokens, error) {
	account, err := s.accounts.GetByEmail(normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account == nil || !account.Verified() {
		return nil, ErrCodeInvalid
	}

	v, err := s.codeSvc.Check(account.ID, models.PurposeLogin, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	ok, err := s.codes.Consume(v.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCodeInvalid
	}

	log.Printf("[auth][code] OK account_id=%d", account.ID)
	return s.sessions.Issue(account)
}
