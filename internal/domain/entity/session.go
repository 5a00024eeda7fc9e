package entity

import "time"

// Session token de sesión del proveedor para un tenant y una categoría.
type Session struct {
	TenantID  string
	Category  Category
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ValidAt es falso en el instante de expiración y después.
func (s *Session) ValidAt(now time.Time) bool {
	return s != nil && s.Token != "" && now.Before(s.ExpiresAt)
}

// ProviderAccount credenciales del tenant ante el proveedor.
type ProviderAccount struct {
	TenantID    string
	Username    string
	Password    string
	Environment Environment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
