package efatura

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/efatura-api/internal/domain"
	domefatura "github.com/jhoicas/efatura-api/internal/domain/efatura"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/internal/domain/repository"
	infraefatura "github.com/jhoicas/efatura-api/internal/infrastructure/efatura"
	"github.com/jhoicas/efatura-api/pkg/logger"
)

// DefaultMaxFetch ids nuevos devueltos como máximo por descubrimiento.
const DefaultMaxFetch = 50

// CheckRequest documento a consultar. Solo TenantID y UUID son obligatorios; el
// resto se completa con lo que haya en caché.
type CheckRequest struct {
	TenantID        string
	UUID            string
	Number          string
	IntegrationCode string
	Direction       entity.Direction
	Category        entity.Category
	Force           bool
}

// CheckResult resultado de una consulta de estado.
// StoreError no nil: el estado se obtuvo pero no quedó persistido.
type CheckResult struct {
	UUID       string
	Number     string
	Status     entity.CanonicalStatus
	Applied    bool
	Remote     *entity.TransferStatus
	StoreError error
}

// BatchItem desenlace de un elemento del lote.
type BatchItem struct {
	UUID   string
	Result *CheckResult
	Err    error
}

// BatchReport resultado de CheckBatch. Items en el orden de los candidatos procesados.
type BatchReport struct {
	Items     []BatchItem
	Succeeded int
	Failed    int
	Skipped   int // no intentados porque el lote se detuvo
}

// Reconciler consulta el estado remoto de los documentos y lo fusiona con la caché.
type Reconciler struct {
	remote
	store    repository.EInvoiceRepository
	batch    BatchOptions
	maxFetch int
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
	obs      Observer
	log      *logger.Logger
}

// ReconcilerConfig parámetros de lotes y descubrimiento.
type ReconcilerConfig struct {
	Batch    BatchOptions
	MaxFetch int
}

// NewReconciler construye el motor de reconciliación. obs y log pueden ser nil.
func NewReconciler(
	provider infraefatura.Provider,
	accounts repository.ProviderAccountRepository,
	sessions *SessionManager,
	store repository.EInvoiceRepository,
	cfg ReconcilerConfig,
	obs Observer,
	log *logger.Logger,
) *Reconciler {
	if obs == nil {
		obs = nopObserver{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.MaxFetch <= 0 {
		cfg.MaxFetch = DefaultMaxFetch
	}
	return &Reconciler{
		remote:   remote{provider: provider, accounts: accounts, sessions: sessions},
		store:    store,
		batch:    cfg.Batch.normalized(),
		maxFetch: cfg.MaxFetch,
		now:      time.Now,
		sleep:    sleepCtx,
		obs:      obs,
		log:      log.Component("efatura.reconciler"),
	}
}

// WithClock reemplaza reloj y pausa entre grupos (tests).
func (r *Reconciler) WithClock(now func() time.Time, sleep func(context.Context, time.Duration) error) *Reconciler {
	if now != nil {
		r.now = now
	}
	if sleep != nil {
		r.sleep = sleep
	}
	return r
}

// ── Consulta individual ───────────────────────────────────────────────────────

// CheckOne consulta el estado de un documento y lo fusiona con el almacenado.
// El UUID se valida antes de cualquier llamada remota. Prioridad de búsqueda:
// número de factura, código de integración (solo ventas), UUID.
func (r *Reconciler) CheckOne(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	id, err := domefatura.NormalizeUUID(req.UUID)
	if err != nil {
		return nil, err
	}
	if req.TenantID == "" {
		return nil, &domain.ValidationError{Field: "tenant", Message: "requerido"}
	}
	req.UUID = id

	cached, err := r.store.Get(ctx, req.TenantID, id)
	if err != nil {
		return nil, fmt.Errorf("leer caché de %s: %w", id, err)
	}
	if cached != nil {
		req.Number = firstSet(req.Number, cached.Number)
		req.IntegrationCode = firstSet(req.IntegrationCode, cached.IntegrationCode)
		if req.Direction == "" {
			req.Direction = cached.Direction
		}
		if req.Category == "" {
			req.Category = cached.Category
		}
	}
	req.Direction, req.Category, err = withDefaults(req.Direction, req.Category)
	if err != nil {
		return nil, err
	}

	t, err := r.target(ctx, req.TenantID, req.Category)
	if err != nil {
		return nil, err
	}
	op, res, err := r.lookup(ctx, t, req)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, r.fail(ctx, req.TenantID, req.Category, res.Result, op)
	}

	incoming, err := domefatura.ToCanonical(res.Status, r.now())
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, err)
	}
	var current *entity.CanonicalStatus
	if cached != nil {
		current = &cached.Status
	}
	merged, applied := domefatura.Merge(current, incoming, req.Force)
	r.obs.ObserveStatusCheck(string(merged.Lifecycle), applied)

	out := &CheckResult{
		UUID:    id,
		Number:  firstSet(req.Number, res.Status.InvoiceNumber),
		Status:  merged,
		Applied: applied,
		Remote:  res.Status,
	}
	rec := &entity.EInvoiceRecord{
		TenantID:         req.TenantID,
		UUID:             id,
		Number:           out.Number,
		IntegrationCode:  req.IntegrationCode,
		Direction:        req.Direction,
		Category:         req.Category,
		Status:           merged,
		StateName:        res.Status.StateName,
		StateDescription: res.Status.StateDescription,
		ErrorMessage:     res.Status.ErrorMessage,
		ForceStatus:      req.Force,
	}
	if !applied {
		if !gainsIdentifiers(cached, rec) {
			return out, nil
		}
		rec.StateName, rec.StateDescription, rec.ErrorMessage = cached.StateName, cached.StateDescription, cached.ErrorMessage
	}
	if err := r.store.UpsertStatus(ctx, rec); err != nil {
		r.log.Error().Err(err).Str("tenant_id", req.TenantID).Str("uuid", id).Msg("estado obtenido pero no persistido")
		out.StoreError = err
		return out, nil
	}
	if applied {
		r.settle(ctx, out, req.TenantID)
	}
	return out, nil
}

// settle ajusta el resultado a lo que quedó guardado: un sondeo concurrente pudo
// escribir antes un estado que el almacén no deja retroceder.
func (r *Reconciler) settle(ctx context.Context, out *CheckResult, tenantID string) {
	stored, err := r.store.Get(ctx, tenantID, out.UUID)
	if err != nil || stored == nil {
		return
	}
	if stored.Status.Lifecycle != out.Status.Lifecycle || stored.Status.Answer != out.Status.Answer {
		r.log.Info().Str("tenant_id", tenantID).Str("uuid", out.UUID).
			Str("polled", string(out.Status.Lifecycle)).Str("stored", string(stored.Status.Lifecycle)).
			Msg("sondeo desplazado por uno concurrente")
		out.Status = stored.Status
		out.Applied = false
	}
}

func (r *Reconciler) lookup(ctx context.Context, t infraefatura.Target, req CheckRequest) (string, *infraefatura.StatusResult, error) {
	var (
		op  string
		res *infraefatura.StatusResult
		err error
	)
	switch {
	case req.Number != "":
		op = "GetInvoiceStatusByNumber"
		res, err = r.provider.GetInvoiceStatusByNumber(ctx, t, req.Direction, req.Number)
	case req.IntegrationCode != "" && req.Direction == entity.DirectionSales:
		op = "GetInvoiceStatusByIntegrationCode"
		res, err = r.provider.GetInvoiceStatusByIntegrationCode(ctx, t, req.IntegrationCode)
	default:
		op = "GetInvoiceStatusByUUID"
		res, err = r.provider.GetInvoiceStatusByUUID(ctx, t, req.Direction, req.UUID)
	}
	if err != nil {
		return op, nil, err
	}
	if res.Success && res.Status == nil {
		return op, nil, fmt.Errorf("%w: %s sin estado", domain.ErrMalformedResponse, op)
	}
	return op, res, nil
}

// gainsIdentifiers el registro entrante aporta identificadores que la caché no tiene.
func gainsIdentifiers(cached, in *entity.EInvoiceRecord) bool {
	if cached == nil {
		return true
	}
	return (cached.Number == "" && in.Number != "") || (cached.IntegrationCode == "" && in.IntegrationCode != "")
}

func firstSet(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ── Lotes ─────────────────────────────────────────────────────────────────────

// CheckBatch consulta varios documentos por grupos acotados. El fallo de un elemento
// queda en su BatchItem y no detiene el lote, salvo ErrAuthentication: ahí no se
// inician más grupos y se devuelve el error junto con el reporte parcial.
func (r *Reconciler) CheckBatch(ctx context.Context, tenantID string, candidates []CheckRequest, opts *BatchOptions) (*BatchReport, error) {
	o := r.batch
	if opts != nil {
		o = opts.normalized()
	}
	items := make([]BatchItem, len(candidates))
	var (
		mu      sync.Mutex
		authErr error
	)
	log := r.log.Tenant(tenantID)
	processed, err := runGroups(ctx, len(candidates), o, r.sleep, func(ctx context.Context, i int) error {
		req := candidates[i]
		req.TenantID = tenantID
		res, err := r.CheckOne(ctx, req)
		items[i] = BatchItem{UUID: req.UUID, Result: res, Err: err}
		if res != nil {
			items[i].UUID = res.UUID
		}
		if err != nil {
			log.Warn().Err(err).Str("uuid", req.UUID).Msg("consulta de estado fallida")
			if errors.Is(err, domain.ErrAuthentication) {
				mu.Lock()
				authErr = err
				mu.Unlock()
				return err
			}
		}
		return nil
	})

	report := &BatchReport{Items: items[:processed], Skipped: len(candidates) - processed}
	for _, it := range report.Items {
		if it.Err != nil {
			report.Failed++
		} else {
			report.Succeeded++
		}
	}
	r.obs.ObserveBatch(report.Succeeded, report.Failed)
	log.Info().
		Int("succeeded", report.Succeeded).Int("failed", report.Failed).Int("skipped", report.Skipped).
		Msg("lote de estados")

	if authErr != nil {
		return report, authErr
	}
	return report, err
}

// CheckPending consulta los documentos en estado no terminal, los menos recientes primero.
func (r *Reconciler) CheckPending(ctx context.Context, tenantID string, limit int, opts *BatchOptions) (*BatchReport, error) {
	if tenantID == "" {
		return nil, &domain.ValidationError{Field: "tenant", Message: "requerido"}
	}
	if limit <= 0 {
		limit = 100
	}
	pending, err := r.store.ListPending(ctx, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("listar pendientes: %w", err)
	}
	candidates := make([]CheckRequest, 0, len(pending))
	for _, rec := range pending {
		candidates = append(candidates, CheckRequest{
			UUID:            rec.UUID,
			Number:          rec.Number,
			IntegrationCode: rec.IntegrationCode,
			Direction:       rec.Direction,
			Category:        rec.Category,
		})
	}
	return r.CheckBatch(ctx, tenantID, candidates, opts)
}

// TenantReport resultado de la reconciliación periódica de un tenant.
type TenantReport struct {
	TenantID string
	Report   *BatchReport
	Err      error
}

// ReconcileAll CheckPending para cada tenant con cuenta configurada. El fallo de un
// tenant no impide procesar los demás.
func (r *Reconciler) ReconcileAll(ctx context.Context, limit int) ([]TenantReport, error) {
	tenants, err := r.accounts.ListTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar tenants: %w", err)
	}
	out := make([]TenantReport, 0, len(tenants))
	for _, tenantID := range tenants {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		rep, err := r.CheckPending(ctx, tenantID, limit, nil)
		if err != nil {
			r.log.Error().Err(err).Str("tenant_id", tenantID).Msg("reconciliación del tenant fallida")
		}
		out = append(out, TenantReport{TenantID: tenantID, Report: rep, Err: err})
	}
	return out, nil
}
