// Package cache implementa la caché de sesiones del proveedor: en memoria (un proceso)
// o en Redis (compartida entre réplicas).
package cache

import (
	"context"
	"sync"

	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/internal/domain/repository"
)

type sessionKey struct {
	tenantID string
	category entity.Category
}

// MemorySessionStore sesiones en un mapa protegido por RWMutex. La vigencia la decide
// quien lee (Session.ValidAt); aquí solo se guarda.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[sessionKey]entity.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[sessionKey]entity.Session)}
}

func (s *MemorySessionStore) Get(_ context.Context, tenantID string, category entity.Category) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionKey{tenantID, category}]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *MemorySessionStore) Save(_ context.Context, sess *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionKey{sess.TenantID, sess.Category}] = *sess
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, tenantID string, category entity.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey{tenantID, category})
	return nil
}

var _ repository.SessionStore = (*MemorySessionStore)(nil)
