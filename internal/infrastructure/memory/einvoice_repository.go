// Package memory implementación en memoria de la caché de documentos e-Fatura.
// Mismas reglas que la de Postgres; la usan los tests de los servicios.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domefatura "github.com/jhoicas/efatura-api/internal/domain/efatura"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/internal/domain/repository"
)

type recordKey struct {
	tenantID string
	uuid     string
}

// EInvoiceRepository mapa (tenant, uuid) → registro protegido por RWMutex.
type EInvoiceRepository struct {
	mu      sync.RWMutex
	records map[recordKey]entity.EInvoiceRecord
	now     func() time.Time
}

func NewEInvoiceRepository() *EInvoiceRepository {
	return &EInvoiceRepository{records: make(map[recordKey]entity.EInvoiceRecord), now: time.Now}
}

// WithClock reloj inyectable para tests.
func (r *EInvoiceRepository) WithClock(now func() time.Time) *EInvoiceRepository {
	r.now = now
	return r
}

func (r *EInvoiceRepository) Get(_ context.Context, tenantID, uuid string) (*entity.EInvoiceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[recordKey{tenantID, uuid}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *EInvoiceRepository) UpsertStatus(_ context.Context, rec *entity.EInvoiceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	key := recordKey{rec.TenantID, rec.UUID}

	cur, ok := r.records[key]
	if !ok {
		fresh := *rec
		fresh.CreatedAt, fresh.UpdatedAt = now, now
		if fresh.Status.Answer == "" {
			fresh.Status.Answer = entity.AnswerNone
		}
		r.records[key] = fresh
		return nil
	}

	backfill(&cur, rec)
	// Bajo el lock: una consulta más vieja no pisa el estado y, sin ForceStatus,
	// tampoco lo hace un retroceso (p. ej. PROCESSING sobre DELIVERED).
	fresher := cur.Status.LastCheckedAt.IsZero() || !rec.Status.LastCheckedAt.Before(cur.Status.LastCheckedAt)
	if _, applies := domefatura.Merge(&cur.Status, rec.Status, rec.ForceStatus); fresher && applies {
		cur.Status = rec.Status
		cur.StateName = rec.StateName
		cur.StateDescription = rec.StateDescription
		cur.ErrorMessage = rec.ErrorMessage
	}
	cur.UpdatedAt = now
	r.records[key] = cur
	return nil
}

func (r *EInvoiceRepository) UpsertDocument(_ context.Context, rec *entity.EInvoiceRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	key := recordKey{rec.TenantID, rec.UUID}

	cur, ok := r.records[key]
	if !ok {
		fresh := *rec
		if fresh.Status.Lifecycle == "" {
			fresh.Status = entity.CanonicalStatus{Lifecycle: entity.LifecycleDraft, Answer: entity.AnswerNone}
		}
		fresh.CreatedAt, fresh.UpdatedAt = now, now
		r.records[key] = fresh
		return true, nil
	}
	if cur.Document != nil && cur.DocumentHash == rec.DocumentHash {
		return false, nil
	}
	backfill(&cur, rec)
	cur.Document = rec.Document
	cur.DocumentHash = rec.DocumentHash
	cur.UpdatedAt = now
	r.records[key] = cur
	return true, nil
}

// backfill completa identificadores sin borrar los existentes.
func backfill(cur, in *entity.EInvoiceRecord) {
	if in.Number != "" {
		cur.Number = in.Number
	}
	if in.IntegrationCode != "" {
		cur.IntegrationCode = in.IntegrationCode
	}
	if in.Direction != "" {
		cur.Direction = in.Direction
	}
	if in.Category != "" {
		cur.Category = in.Category
	}
}

func (r *EInvoiceRepository) ListPending(_ context.Context, tenantID string, limit int) ([]*entity.EInvoiceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.EInvoiceRecord
	for k, rec := range r.records {
		if k.tenantID != tenantID || rec.Status.Lifecycle.IsTerminal() {
			continue
		}
		rec := rec
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Status.LastCheckedAt, out[j].Status.LastCheckedAt
		if !a.Equal(b) {
			return a.Before(b)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *EInvoiceRepository) FilterKnown(_ context.Context, tenantID string, uuids []string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	known := make(map[string]bool)
	for _, u := range uuids {
		if _, ok := r.records[recordKey{tenantID, u}]; ok {
			known[u] = true
		}
	}
	return known, nil
}

var _ repository.EInvoiceRepository = (*EInvoiceRepository)(nil)
