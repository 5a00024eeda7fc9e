package repository

import (
	"context"

	"github.com/jhoicas/efatura-api/internal/domain/entity"
)

// EInvoiceRepository puerto de la caché local de documentos e-Fatura.
// Toda operación está acotada por tenant; la clave natural es (tenantID, uuid).
type EInvoiceRepository interface {
	// Get devuelve nil, nil si no existe.
	Get(ctx context.Context, tenantID, uuid string) (*entity.EInvoiceRecord, error)
	// UpsertStatus inserta o actualiza identificadores y estado. Idempotente; un
	// LastCheckedAt anterior al almacenado no sobrescribe el estado.
	UpsertStatus(ctx context.Context, rec *entity.EInvoiceRecord) error
	// UpsertDocument guarda el documento parseado. Devuelve false si el hash no cambió.
	UpsertDocument(ctx context.Context, rec *entity.EInvoiceRecord) (bool, error)
	// ListPending devuelve registros en estado no terminal, los más antiguos primero.
	ListPending(ctx context.Context, tenantID string, limit int) ([]*entity.EInvoiceRecord, error)
	// FilterKnown devuelve el subconjunto de uuids ya presentes en la caché.
	FilterKnown(ctx context.Context, tenantID string, uuids []string) (map[string]bool, error)
}

// SessionStore caché de sesiones del proveedor por (tenant, categoría).
type SessionStore interface {
	// Get devuelve nil, nil si no hay sesión.
	Get(ctx context.Context, tenantID string, category entity.Category) (*entity.Session, error)
	Save(ctx context.Context, s *entity.Session) error
	Delete(ctx context.Context, tenantID string, category entity.Category) error
}

// ProviderAccountRepository credenciales del proveedor por tenant.
type ProviderAccountRepository interface {
	// GetByTenant devuelve nil, nil si el tenant no tiene cuenta.
	GetByTenant(ctx context.Context, tenantID string) (*entity.ProviderAccount, error)
	Save(ctx context.Context, acc *entity.ProviderAccount) error
	ListTenants(ctx context.Context) ([]string, error)
}
