package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/internal/domain/repository"
)

// ProviderAccountRepository cuentas en memoria, sin cifrado.
type ProviderAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]entity.ProviderAccount
}

func NewProviderAccountRepository(accounts ...entity.ProviderAccount) *ProviderAccountRepository {
	r := &ProviderAccountRepository{accounts: make(map[string]entity.ProviderAccount)}
	for _, a := range accounts {
		r.accounts[a.TenantID] = a
	}
	return r
}

func (r *ProviderAccountRepository) GetByTenant(_ context.Context, tenantID string) (*entity.ProviderAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[tenantID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *ProviderAccountRepository) Save(_ context.Context, acc *entity.ProviderAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[acc.TenantID] = *acc
	return nil
}

func (r *ProviderAccountRepository) ListTenants(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.accounts))
	for id := range r.accounts {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

var _ repository.ProviderAccountRepository = (*ProviderAccountRepository)(nil)
