package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/internal/domain/repository"
	"github.com/jhoicas/efatura-api/pkg/secret"
)

var _ repository.ProviderAccountRepository = (*ProviderAccountRepo)(nil)

// ProviderAccountRepo credenciales del proveedor; la contraseña se guarda cifrada (secretbox).
type ProviderAccountRepo struct {
	q      Querier
	sealer *secret.Sealer
	now    func() time.Time
}

func NewProviderAccountRepository(q Querier, sealer *secret.Sealer) *ProviderAccountRepo {
	return &ProviderAccountRepo{q: q, sealer: sealer, now: time.Now}
}

// GetByTenant devuelve nil, nil si el tenant no tiene cuenta.
func (r *ProviderAccountRepo) GetByTenant(ctx context.Context, tenantID string) (*entity.ProviderAccount, error) {
	query := `
		SELECT tenant_id, username, password_sealed, environment, created_at, updated_at
		FROM provider_accounts WHERE tenant_id = $1`
	var acc entity.ProviderAccount
	var sealed, env string
	err := r.q.QueryRow(ctx, query, tenantID).Scan(&acc.TenantID, &acc.Username, &sealed, &env, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider account: %w", err)
	}
	acc.Password, err = r.sealer.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("descifrar credenciales del tenant %s: %w", tenantID, err)
	}
	acc.Environment = entity.Environment(env)
	return &acc, nil
}

// Save inserta o reemplaza la cuenta del tenant.
func (r *ProviderAccountRepo) Save(ctx context.Context, acc *entity.ProviderAccount) error {
	sealed, err := r.sealer.Seal(acc.Password)
	if err != nil {
		return err
	}
	now := r.now()
	query := `
		INSERT INTO provider_accounts (tenant_id, username, password_sealed, environment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (tenant_id) DO UPDATE SET
			username        = EXCLUDED.username,
			password_sealed = EXCLUDED.password_sealed,
			environment     = EXCLUDED.environment,
			updated_at      = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, acc.TenantID, acc.Username, sealed, string(acc.Environment), now); err != nil {
		return fmt.Errorf("save provider account: %w", err)
	}
	return nil
}

// ListTenants tenants con cuenta configurada, para la reconciliación periódica.
func (r *ProviderAccountRepo) ListTenants(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT tenant_id FROM provider_accounts ORDER BY tenant_id`)
	if err != nil {
		return nil, fmt.Errorf("list provider tenants: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
