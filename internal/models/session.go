package models

import "time"

// Session — выданная после аутентификации сессия.
// Access-токен — короткоживущий JWT, он не хранится; в БД лежит opaque
// refresh-токен и его срок.
type Session struct {
	ID           int64     `json:"id"`
	AccountID    int64     `json:"account_id"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	Revoked      bool      `json:"revoked"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Session) Active(now time.Time) bool {
	return s != nil && !s.Revoked && now.Before(s.ExpiresAt)
}
