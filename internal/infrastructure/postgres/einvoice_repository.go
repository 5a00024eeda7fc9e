package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/internal/domain/repository"
)

var _ repository.EInvoiceRepository = (*EInvoiceRepo)(nil)

// EInvoiceRepo caché de documentos e-Fatura en la tabla einvoice_records.
type EInvoiceRepo struct {
	q   Querier
	now func() time.Time
}

// NewEInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEInvoiceRepository(q Querier) *EInvoiceRepo {
	return &EInvoiceRepo{q: q, now: time.Now}
}

const recordColumns = `tenant_id, uuid, number, integration_code, direction, category,
	lifecycle, answer, provider_state_code, last_checked_at,
	state_name, state_description, error_message, document, document_hash,
	created_at, updated_at`

// fresher la fila entrante es igual o más reciente que la almacenada.
const fresher = `(einvoice_records.last_checked_at IS NULL OR EXCLUDED.last_checked_at >= einvoice_records.last_checked_at)`

// lifecycleRank orden de avance; DELIVERED y FAILED comparten el rango terminal.
const lifecycleRank = `CASE %s WHEN 'DRAFT' THEN 0 WHEN 'QUEUED' THEN 1 WHEN 'PROCESSING' THEN 2 ELSE 3 END`

// monotone mismas reglas que efatura.Merge, evaluadas contra la fila bloqueada por el
// ON CONFLICT: desde un estado terminal solo el mismo estado (o NONE -> respuesta);
// desde uno no terminal, FAILED o un avance.
var monotone = fmt.Sprintf(`(
		(einvoice_records.lifecycle IN ('DELIVERED', 'FAILED')
			AND EXCLUDED.lifecycle = einvoice_records.lifecycle
			AND (EXCLUDED.answer = einvoice_records.answer OR einvoice_records.answer = 'NONE'))
		OR (einvoice_records.lifecycle NOT IN ('DELIVERED', 'FAILED')
			AND (EXCLUDED.lifecycle = 'FAILED' OR %s >= %s)))`,
	fmt.Sprintf(lifecycleRank, "EXCLUDED.lifecycle"),
	fmt.Sprintf(lifecycleRank, "einvoice_records.lifecycle"))

// statusApplies $15 es ForceStatus.
var statusApplies = fmt.Sprintf(`(%s AND ($15::boolean OR %s))`, fresher, monotone)

var upsertStatusSQL = fmt.Sprintf(`
	INSERT INTO einvoice_records (tenant_id, uuid, number, integration_code, direction, category,
		lifecycle, answer, provider_state_code, last_checked_at,
		state_name, state_description, error_message, created_at, updated_at)
	VALUES ($1, $2, $3, $4, COALESCE($5, 'SALES'), COALESCE($6, 'EINVOICE'),
		$7, $8, $9, $10, $11, $12, $13, $14, $14)
	ON CONFLICT (tenant_id, uuid) DO UPDATE SET
		number              = COALESCE($3, einvoice_records.number),
		integration_code    = COALESCE($4, einvoice_records.integration_code),
		direction           = COALESCE($5, einvoice_records.direction),
		category            = COALESCE($6, einvoice_records.category),
		lifecycle           = CASE WHEN %[1]s THEN EXCLUDED.lifecycle ELSE einvoice_records.lifecycle END,
		answer              = CASE WHEN %[1]s THEN EXCLUDED.answer ELSE einvoice_records.answer END,
		provider_state_code = CASE WHEN %[1]s THEN EXCLUDED.provider_state_code ELSE einvoice_records.provider_state_code END,
		state_name          = CASE WHEN %[1]s THEN EXCLUDED.state_name ELSE einvoice_records.state_name END,
		state_description   = CASE WHEN %[1]s THEN EXCLUDED.state_description ELSE einvoice_records.state_description END,
		error_message       = CASE WHEN %[1]s THEN EXCLUDED.error_message ELSE einvoice_records.error_message END,
		last_checked_at     = CASE WHEN %[1]s THEN EXCLUDED.last_checked_at ELSE einvoice_records.last_checked_at END,
		updated_at          = EXCLUDED.updated_at`, statusApplies)

// UpsertStatus inserta o actualiza. Identificadores vacíos no borran los guardados;
// una consulta anterior a last_checked_at no cambia el estado, ni tampoco un retroceso
// salvo con ForceStatus. La comparación va en la misma sentencia que la escritura.
func (r *EInvoiceRepo) UpsertStatus(ctx context.Context, rec *entity.EInvoiceRecord) error {
	answer := rec.Status.Answer
	if answer == "" {
		answer = entity.AnswerNone
	}
	_, err := r.q.Exec(ctx, upsertStatusSQL,
		rec.TenantID, rec.UUID,
		nullIfEmpty(rec.Number), nullIfEmpty(rec.IntegrationCode),
		nullIfEmpty(string(rec.Direction)), nullIfEmpty(string(rec.Category)),
		string(rec.Status.Lifecycle), string(answer), rec.Status.ProviderStateCode,
		nullIfZero(rec.Status.LastCheckedAt),
		nullIfEmpty(rec.StateName), nullIfEmpty(rec.StateDescription), nullIfEmpty(rec.ErrorMessage),
		r.now(), rec.ForceStatus,
	)
	if err != nil {
		return fmt.Errorf("upsert estado einvoice %s: %w", rec.UUID, err)
	}
	return nil
}

const upsertDocumentSQL = `
	INSERT INTO einvoice_records (tenant_id, uuid, number, direction, category,
		document, document_hash, currency_code, payable_amount, created_at, updated_at)
	VALUES ($1, $2, $3, COALESCE($4, 'SALES'), COALESCE($5, 'EINVOICE'), $6, $7, $8, $9, $10, $10)
	ON CONFLICT (tenant_id, uuid) DO UPDATE SET
		number         = COALESCE($3, einvoice_records.number),
		direction      = COALESCE($4, einvoice_records.direction),
		category       = COALESCE($5, einvoice_records.category),
		document       = EXCLUDED.document,
		document_hash  = EXCLUDED.document_hash,
		currency_code  = EXCLUDED.currency_code,
		payable_amount = EXCLUDED.payable_amount,
		updated_at     = EXCLUDED.updated_at
	WHERE einvoice_records.document IS NULL
	   OR einvoice_records.document_hash IS DISTINCT FROM EXCLUDED.document_hash`

// UpsertDocument guarda el documento como JSONB junto con moneda e importe a pagar
// (NUMERIC); false si el hash almacenado es el mismo.
func (r *EInvoiceRepo) UpsertDocument(ctx context.Context, rec *entity.EInvoiceRecord) (bool, error) {
	doc, err := json.Marshal(rec.Document)
	if err != nil {
		return false, fmt.Errorf("serializar documento %s: %w", rec.UUID, err)
	}
	var (
		currency *string
		payable  *decimal.Decimal
	)
	if rec.Document != nil {
		currency = nullIfEmpty(rec.Document.CurrencyCode)
		amount := rec.Document.PayableAmount
		payable = &amount
	}
	tag, err := r.q.Exec(ctx, upsertDocumentSQL,
		rec.TenantID, rec.UUID, nullIfEmpty(rec.Number),
		nullIfEmpty(string(rec.Direction)), nullIfEmpty(string(rec.Category)),
		doc, nullIfEmpty(rec.DocumentHash), currency, payable, r.now(),
	)
	if err != nil {
		return false, fmt.Errorf("upsert documento einvoice %s: %w", rec.UUID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Get devuelve nil, nil si no existe.
func (r *EInvoiceRepo) Get(ctx context.Context, tenantID, uuid string) (*entity.EInvoiceRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM einvoice_records WHERE tenant_id = $1 AND uuid = $2`
	rec, err := scanRecord(r.q.QueryRow(ctx, query, tenantID, uuid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get einvoice %s: %w", uuid, err)
	}
	return rec, nil
}

// ListPending registros no terminales; primero los nunca consultados y luego los más antiguos.
func (r *EInvoiceRepo) ListPending(ctx context.Context, tenantID string, limit int) ([]*entity.EInvoiceRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM einvoice_records
		WHERE tenant_id = $1 AND lifecycle NOT IN ('DELIVERED', 'FAILED')
		ORDER BY last_checked_at ASC NULLS FIRST, created_at ASC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending einvoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.EInvoiceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan einvoice: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// FilterKnown uuids del lote que ya están en caché.
func (r *EInvoiceRepo) FilterKnown(ctx context.Context, tenantID string, uuids []string) (map[string]bool, error) {
	known := make(map[string]bool)
	if len(uuids) == 0 {
		return known, nil
	}
	rows, err := r.q.Query(ctx, `SELECT uuid FROM einvoice_records WHERE tenant_id = $1 AND uuid = ANY($2)`, tenantID, uuids)
	if err != nil {
		return nil, fmt.Errorf("filter known einvoices: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan uuid: %w", err)
		}
		known[u] = true
	}
	return known, rows.Err()
}

func scanRecord(row pgx.Row) (*entity.EInvoiceRecord, error) {
	var (
		rec                                       entity.EInvoiceRecord
		number, integrationCode                   *string
		direction, category, lifecycle, answer    string
		stateName, stateDescription, errorMessage *string
		documentHash                              *string
		lastChecked                               *time.Time
		document                                  []byte
	)
	err := row.Scan(
		&rec.TenantID, &rec.UUID, &number, &integrationCode, &direction, &category,
		&lifecycle, &answer, &rec.Status.ProviderStateCode, &lastChecked,
		&stateName, &stateDescription, &errorMessage, &document, &documentHash,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Number = derefStr(number)
	rec.IntegrationCode = derefStr(integrationCode)
	rec.Direction = entity.Direction(direction)
	rec.Category = entity.Category(category)
	rec.Status.Lifecycle = entity.Lifecycle(lifecycle)
	rec.Status.Answer = entity.Answer(answer)
	if lastChecked != nil {
		rec.Status.LastCheckedAt = *lastChecked
	}
	rec.StateName = derefStr(stateName)
	rec.StateDescription = derefStr(stateDescription)
	rec.ErrorMessage = derefStr(errorMessage)
	rec.DocumentHash = derefStr(documentHash)
	if len(document) > 0 && string(document) != "null" {
		var inv entity.RemoteInvoice
		if err := json.Unmarshal(document, &inv); err != nil {
			return nil, fmt.Errorf("documento JSONB ilegible: %w", err)
		}
		rec.Document = &inv
	}
	return &rec, nil
}
