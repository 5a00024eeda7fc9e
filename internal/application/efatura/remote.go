package efatura

import (
	"context"
	"fmt"

	"github.com/jhoicas/efatura-api/internal/domain"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/internal/domain/repository"
	infraefatura "github.com/jhoicas/efatura-api/internal/infrastructure/efatura"
)

// remote resuelve cuenta y sesión del tenant antes de cada llamada y traduce los
// rechazos del proveedor a errores de dominio.
type remote struct {
	provider infraefatura.Provider
	accounts repository.ProviderAccountRepository
	sessions *SessionManager
}

// target cuenta del tenant + sesión vigente para la categoría.
func (r *remote) target(ctx context.Context, tenantID string, cat entity.Category) (infraefatura.Target, error) {
	if tenantID == "" {
		return infraefatura.Target{}, &domain.ValidationError{Field: "tenant", Message: "requerido"}
	}
	acc, err := r.accounts.GetByTenant(ctx, tenantID)
	if err != nil {
		return infraefatura.Target{}, fmt.Errorf("cuenta del proveedor: %w", err)
	}
	if acc == nil {
		return infraefatura.Target{}, fmt.Errorf("%w: %s", domain.ErrNoProviderAccount, tenantID)
	}
	s, err := r.sessions.GetValidSession(ctx, acc, cat)
	if err != nil {
		return infraefatura.Target{}, err
	}
	return infraefatura.Target{Environment: acc.Environment, Category: cat, Token: s.Token}, nil
}

// fail convierte un Result fallido en error; si el proveedor rechazó la sesión la descarta.
func (r *remote) fail(ctx context.Context, tenantID string, cat entity.Category, res infraefatura.Result, op string) error {
	if res.SessionRejected() {
		if err := r.sessions.Invalidate(ctx, tenantID, cat); err != nil {
			r.sessions.log.Warn().Err(err).Str("tenant_id", tenantID).Str("category", string(cat)).
				Msg("sesión rechazada no eliminada de la caché")
		}
	}
	return res.Err(op)
}

// withDefaults completa dirección y categoría ausentes (venta, e-Fatura) y las valida.
func withDefaults(dir entity.Direction, cat entity.Category) (entity.Direction, entity.Category, error) {
	if dir == "" {
		dir = entity.DirectionSales
	}
	if cat == "" {
		cat = entity.CategoryEInvoice
	}
	if !dir.Valid() {
		return "", "", &domain.ValidationError{Field: "direction", Value: string(dir), Message: "debe ser SALES o PURCHASE"}
	}
	if !cat.Valid() {
		return "", "", &domain.ValidationError{Field: "category", Value: string(cat), Message: "debe ser EINVOICE o EARCHIVE"}
	}
	return dir, cat, nil
}
