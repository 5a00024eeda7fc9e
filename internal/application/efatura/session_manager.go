package efatura

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/efatura-api/internal/domain"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/internal/domain/repository"
	infraefatura "github.com/jhoicas/efatura-api/internal/infrastructure/efatura"
	"github.com/jhoicas/efatura-api/pkg/logger"
)

// DefaultSessionTTL vida de una sesión del proveedor desde su emisión.
const DefaultSessionTTL = 6 * time.Hour

// SessionManager entrega un token válido por (tenant, categoría) reutilizando la
// sesión en caché y abriendo una nueva solo cuando venció.
type SessionManager struct {
	provider infraefatura.Provider
	store    repository.SessionStore
	ttl      time.Duration
	now      func() time.Time
	group    singleflight.Group
	obs      Observer
	log      *logger.Logger
}

// NewSessionManager ttl <= 0 usa DefaultSessionTTL. obs y log pueden ser nil.
func NewSessionManager(provider infraefatura.Provider, store repository.SessionStore, ttl time.Duration, obs Observer, log *logger.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if obs == nil {
		obs = nopObserver{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SessionManager{
		provider: provider,
		store:    store,
		ttl:      ttl,
		now:      time.Now,
		obs:      obs,
		log:      log.Component("efatura.sessions"),
	}
}

// WithClock reemplaza el reloj (tests).
func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	m.now = now
	return m
}

func sessionKey(tenantID string, cat entity.Category) string {
	return tenantID + ":" + string(cat)
}

// GetValidSession devuelve la sesión en caché si sigue vigente; si no, hace Login.
// Los logins concurrentes de un mismo tenant y categoría se comparten: una sola
// llamada remota, y la cancelación de un llamador no la interrumpe para los demás.
func (m *SessionManager) GetValidSession(ctx context.Context, acc *entity.ProviderAccount, cat entity.Category) (*entity.Session, error) {
	if acc == nil || acc.TenantID == "" {
		return nil, &domain.ValidationError{Field: "tenant", Message: "requerido"}
	}
	if !cat.Valid() {
		return nil, &domain.ValidationError{Field: "category", Value: string(cat), Message: "debe ser EINVOICE o EARCHIVE"}
	}

	if s, err := m.cached(ctx, acc.TenantID, cat); err != nil || s != nil {
		return s, err
	}

	ch := m.group.DoChan(sessionKey(acc.TenantID, cat), func() (any, error) {
		loginCtx := context.WithoutCancel(ctx)
		// Otro proceso pudo haber guardado una sesión mientras esperábamos.
		if s, err := m.cached(loginCtx, acc.TenantID, cat); err != nil || s != nil {
			return s, err
		}
		return m.login(loginCtx, acc, cat)
	})

	select {
	case <-ctx.Done():
		return nil, &domain.NetworkError{Operation: "Login", Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entity.Session), nil
	}
}

func (m *SessionManager) cached(ctx context.Context, tenantID string, cat entity.Category) (*entity.Session, error) {
	s, err := m.store.Get(ctx, tenantID, cat)
	if err != nil {
		return nil, fmt.Errorf("leer sesión en caché: %w", err)
	}
	if s.ValidAt(m.now()) {
		return s, nil
	}
	return nil, nil
}

func (m *SessionManager) login(ctx context.Context, acc *entity.ProviderAccount, cat entity.Category) (*entity.Session, error) {
	t := infraefatura.Target{Environment: acc.Environment, Category: cat}
	res, err := m.provider.Login(ctx, t, acc.Username, acc.Password)
	if err != nil {
		m.obs.ObserveLogin(string(cat), "error")
		return nil, err
	}
	if !res.Success {
		m.obs.ObserveLogin(string(cat), "rejected")
		m.log.Warn().Str("tenant_id", acc.TenantID).Str("category", string(cat)).Str("detail", res.Error).Msg("login rechazado")
		return nil, fmt.Errorf("%w: login: %s", domain.ErrAuthentication, res.Error)
	}
	m.obs.ObserveLogin(string(cat), "ok")

	now := m.now()
	s := &entity.Session{
		TenantID:  acc.TenantID,
		Category:  cat,
		Token:     res.Token,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		// La sesión sigue siendo usable aunque no quede en caché.
		m.log.Error().Err(err).Str("tenant_id", acc.TenantID).Msg("no se pudo guardar la sesión")
	}
	m.log.Info().Str("tenant_id", acc.TenantID).Str("category", string(cat)).Time("expires_at", s.ExpiresAt).Msg("sesión abierta")
	return s, nil
}

// Invalidate descarta la sesión en caché (el proveedor la informó vencida).
func (m *SessionManager) Invalidate(ctx context.Context, tenantID string, cat entity.Category) error {
	if err := m.store.Delete(ctx, tenantID, cat); err != nil {
		return fmt.Errorf("invalidar sesión: %w", err)
	}
	return nil
}

// Logout cierra la sesión en el proveedor y la elimina de la caché. Sin sesión no hace nada.
func (m *SessionManager) Logout(ctx context.Context, acc *entity.ProviderAccount, cat entity.Category) error {
	s, err := m.cached(ctx, acc.TenantID, cat)
	if err != nil || s == nil {
		return err
	}
	res, err := m.provider.Logout(ctx, infraefatura.Target{Environment: acc.Environment, Category: cat, Token: s.Token})
	if delErr := m.Invalidate(ctx, acc.TenantID, cat); delErr != nil {
		m.log.Warn().Err(delErr).Str("tenant_id", acc.TenantID).Msg("logout: sesión no eliminada de la caché")
	}
	if err != nil {
		return err
	}
	return res.Err("Logout")
}
