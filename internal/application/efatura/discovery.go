package efatura

import (
	"context"
	"fmt"
	"time"

	domefatura "github.com/jhoicas/efatura-api/internal/domain/efatura"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
	infraefatura "github.com/jhoicas/efatura-api/internal/infrastructure/efatura"
)

// DiscoveryRequest rango de fechas a explorar en el proveedor.
type DiscoveryRequest struct {
	TenantID          string
	Direction         entity.Direction
	Category          entity.Category
	From              time.Time
	To                time.Time
	OnlyUntransferred bool
	MaxFetch          int // 0 = valor configurado
}

// DiscoveryResult ids que la caché todavía no conoce.
type DiscoveryResult struct {
	UUIDs     []string // a lo sumo MaxFetch, en el orden del proveedor
	Remaining int      // ids nuevos que quedan para una próxima llamada
	Listed    int      // ids devueltos por el proveedor
	Invalid   []string // ids descartados por formato
}

// ListNewInvoiceIDs lista los ETTN del rango, descarta los malformados y duplicados
// y devuelve los que la caché no tiene.
func (r *Reconciler) ListNewInvoiceIDs(ctx context.Context, req DiscoveryRequest) (*DiscoveryResult, error) {
	if err := domefatura.ValidateDateRange(req.From, req.To); err != nil {
		return nil, err
	}
	dir, cat, err := withDefaults(req.Direction, req.Category)
	if err != nil {
		return nil, err
	}
	maxFetch := req.MaxFetch
	if maxFetch <= 0 {
		maxFetch = r.maxFetch
	}

	t, err := r.target(ctx, req.TenantID, cat)
	if err != nil {
		return nil, err
	}
	res, err := r.provider.GetInvoiceUUIDList(ctx, t, infraefatura.UUIDListQuery{
		Direction:         dir,
		From:              req.From,
		To:                req.To,
		OnlyUntransferred: req.OnlyUntransferred,
	})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, r.fail(ctx, req.TenantID, cat, res.Result, "GetInvoiceUUIDList")
	}

	out := &DiscoveryResult{Listed: len(res.UUIDs)}
	seen := make(map[string]bool, len(res.UUIDs))
	ids := make([]string, 0, len(res.UUIDs))
	for _, raw := range res.UUIDs {
		id, err := domefatura.NormalizeUUID(raw)
		if err != nil {
			out.Invalid = append(out.Invalid, raw)
			r.log.Debug().Str("tenant_id", req.TenantID).Str("raw", raw).Msg("ETTN descartado por formato")
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	known, err := r.store.FilterKnown(ctx, req.TenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("filtrar ids conocidos: %w", err)
	}
	fresh := ids[:0]
	for _, id := range ids {
		if !known[id] {
			fresh = append(fresh, id)
		}
	}
	if len(fresh) > maxFetch {
		out.Remaining = len(fresh) - maxFetch
		fresh = fresh[:maxFetch]
	}
	out.UUIDs = fresh
	return out, nil
}
