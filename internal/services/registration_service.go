package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"biotrack/internal/authz"
	"biotrack/internal/models"
	"biotrack/internal/repositories"
)

// RegistrationRequest — первый шаг регистрации.
type RegistrationRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"required"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
}

// RegistrationState — текущий шаг незавершённой регистрации (для фронта).
type RegistrationState struct {
	Email         string     `json:"email"`
	Status        string     `json:"status"`
	CodeExpiresAt *time.Time `json:"code_expires_at,omitempty"`
}

type RegistrationService interface {
	Start(req *RegistrationRequest) (*models.Account, error)
	Confirm(email, code string) (*models.Account, error)
	Resend(email string) error
	State(email string) (*RegistrationState, error)
}

type registrationService struct {
	accounts repositories.AccountRepository
	codes    repositories.VerificationCodeRepository
	codeSvc  *CodeService
	emails   EmailService
	auth     AuthService
	notify   *TelegramService // может быть nil
}

func NewRegistrationService(
	accounts repositories.AccountRepository,
	codes repositories.VerificationCodeRepository,
	codeSvc *CodeService,
	emails EmailService,
	auth AuthService,
	notify *TelegramService,
) RegistrationService {
	return &registrationService{
		accounts: accounts,
		codes:    codes,
		codeSvc:  codeSvc,
		emails:   emails,
		auth:     auth,
		notify:   notify,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Start: started -> awaiting_verification.
// Аккаунт создаётся, код отправляется на почту. Падение SMTP не откатывает
// создание аккаунта — код можно перезапросить через Resend.
func (s *registrationService) Start(req *RegistrationRequest) (*models.Account, error) {
	email := normalizeEmail(req.Email)
	password := strings.TrimSpace(req.Password)
	role := strings.TrimSpace(req.Role)

	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", ErrValidation)
	}
	if !authz.IsRegisterable(role) {
		return nil, fmt.Errorf("role must be %q or %q: %w", authz.RoleUser, authz.RoleCompany, ErrValidation)
	}
	if role == authz.RoleCompany && strings.TrimSpace(req.CompanyName) == "" {
		return nil, fmt.Errorf("company_name is required for company accounts: %w", ErrValidation)
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		CompanyName:  strings.TrimSpace(req.CompanyName),
		Phone:        strings.TrimSpace(req.Phone),
		Status:       models.AccountStatusStarted,
	}
	if err := s.accounts.Create(account); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	code, expiresAt, err := s.codeSvc.Issue(account.ID, models.PurposeRegistration)
	if err != nil {
		// аккаунт остаётся в started; клиент может дёрнуть /register/resend
		return nil, err
	}
	if CanAccountTransition(account.Status, models.AccountStatusAwaiting) {
		if err := s.accounts.UpdateStatus(account.ID, models.AccountStatusAwaiting); err != nil {
			return nil, err
		}
		account.Status = models.AccountStatusAwaiting
	}

	if s.emails != nil {
		if err := s.emails.SendVerificationCode(account.Email, code, time.Until(expiresAt)); err != nil {
			// warn but do not fail registration
			log.Printf("[register][start] warning: failed to send code to %s: %v", account.Email, err)
		}
	}
	if s.notify != nil {
		s.notify.NotifyRegistration(account.Email, account.Role)
	}

	log.Printf("[register][start] account_id=%d role=%s", account.ID, account.Role)
	return account, nil
}

// Confirm: awaiting_verification -> verified.
// Погашение кода и перевод аккаунта идут одной транзакцией; при параллельных
// подтверждениях одного кода выигрывает ровно один запрос.
func (s *registrationService) Confirm(email, code string) (*models.Account, error) {
	account, err := s.pendingByEmail(email)
	if err != nil {
		return nil, err
	}

	v, err := s.codeSvc.Check(account.ID, models.PurposeRegistration, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}

	ok, err := s.codes.ConsumeAndVerify(v.ID, account.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// код успели погасить конкурентным запросом
		return nil, ErrCodeInvalid
	}

	account, err = s.accounts.GetByID(account.ID)
	if err != nil || account == nil {
		return nil, fmt.Errorf("reload account after confirm: %w", err)
	}

	if s.emails != nil {
		name := account.CompanyName
		if name == "" {
			name = strings.TrimSpace(account.FirstName + " " + account.LastName)
		}
		if err := s.emails.SendWelcomeEmail(account.Email, name); err != nil {
			log.Printf("[register][confirm] warning: failed to send welcome email to %s: %v", account.Email, err)
		}
	}

	log.Printf("[register][confirm] OK account_id=%d", account.ID)
	return account, nil
}

// Resend — новый код регистрации (троттлинг внутри CodeService).
func (s *registrationService) Resend(email string) error {
	account, err := s.pendingByEmail(email)
	if err != nil {
		return err
	}

	code, expiresAt, err := s.codeSvc.Issue(account.ID, models.PurposeRegistration)
	if err != nil {
		return err
	}
	if CanAccountTransition(account.Status, models.AccountStatusAwaiting) {
		if err := s.accounts.UpdateStatus(account.ID, models.AccountStatusAwaiting); err != nil {
			return err
		}
	}
	if s.emails != nil {
		if err := s.emails.SendVerificationCode(account.Email, code, time.Until(expiresAt)); err != nil {
			log.Printf("[register][resend] warning: failed to send code to %s: %v", account.Email, err)
		}
	}
	return nil
}

func (s *registrationService) State(email string) (*RegistrationState, error) {
	account, err := s.pendingByEmail(email)
	if err != nil {
		return nil, err
	}
	st := &RegistrationState{Email: account.Email, Status: account.Status}
	if v, err := s.codeSvc.ActiveCode(account.ID, models.PurposeRegistration); err == nil && v != nil {
		t := v.ExpiresAt
		st.CodeExpiresAt = &t
	}
	return st, nil
}

// pendingByEmail — незавершённая регистрация; verified-аккаунт для этих
// операций равносилен отсутствию.
func (s *registrationService) pendingByEmail(email string) (*models.Account, error) {
	account, err := s.accounts.GetByEmail(normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account == nil || account.Verified() {
		return nil, ErrAccountNotFound
	}
	return account, nil
}
