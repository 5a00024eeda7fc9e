package cache

import (
	"fmt"

	"github.com/jhoicas/efatura-api/internal/domain/repository"
	"github.com/jhoicas/efatura-api/pkg/config"
)

// NewSessionStore elige la implementación según EFATURA_SESSION_STORE.
// El cierre devuelto libera la conexión (no-op en memoria).
func NewSessionStore(cfg *config.Config) (repository.SessionStore, func() error, error) {
	switch cfg.Efatura.SessionStore {
	case "redis":
		s, err := NewRedisSessionStore(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "", "memory":
		return NewMemorySessionStore(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("cache: almacén de sesiones desconocido %q", cfg.Efatura.SessionStore)
	}
}
