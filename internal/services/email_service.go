package services

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendVerificationCode(email, code string, ttl time.Duration) error
	SendLoginCode(email, code string, ttl time.Duration) error
	SendWelcomeEmail(email, name string) error
	SendPasswordResetEmail(email, token string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}

func (s *emailService) SendVerificationCode(email, code string, ttl time.Duration) error {
	body := fmt.Sprintf(`
		<h3>BioTrack verification code</h3>
		<p>Your verification code is: <strong>%s</strong></p>
		<p>It is valid for %d minutes.</p>
		<p>Best regards,<br>The BioTrack Team</p>
	`, code, int(ttl.Minutes()))

	if err := s.send(email, "BioTrack verification code", body); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *emailService) SendLoginCode(email, code string, ttl time.Duration) error {
	body := fmt.Sprintf(`
		<h3>BioTrack login code</h3>
		<p>Use this code to sign in: <strong>%s</strong></p>
		<p>It is valid for %d minutes. If you did not request it, you can ignore this email.</p>
	`, code, int(ttl.Minutes()))

	if err := s.send(email, "BioTrack login code", body); err != nil {
		return fmt.Errorf("failed to send login code email: %w", err)
	}
	return nil
}

func (s *emailService) SendWelcomeEmail(email, name string) error {
	if name == "" {
		name = email
	}
	body := fmt.Sprintf(`
		<h2>Welcome to BioTrack, %s!</h2>
		<p>Your email is verified and your account is active.</p>
		<p>Best regards,<br>The BioTrack Team</p>
	`, name)

	if err := s.send(email, "Welcome to BioTrack!", body); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendPasswordResetEmail(email, token string) error {
	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>We received a request to reset the password for your account.</p>
		<p>Use the following token to reset your password: <strong>%s</strong></p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, token)

	if err := s.send(email, "Password reset request", body); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
