package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CanonicalStatusResponse estado normalizado de un documento.
type CanonicalStatusResponse struct {
	Lifecycle         string     `json:"lifecycle"`
	Answer            string     `json:"answer"`
	ProviderStateCode int        `json:"provider_state_code"`
	LastCheckedAt     *time.Time `json:"last_checked_at,omitempty"`
}

// EInvoiceResponse registro cacheado para GET /api/einvoices/:uuid.
type EInvoiceResponse struct {
	UUID             string                  `json:"uuid"`
	Number           string                  `json:"number,omitempty"`
	IntegrationCode  string                  `json:"integration_code,omitempty"`
	Direction        string                  `json:"direction"`
	Category         string                  `json:"category"`
	Status           CanonicalStatusResponse `json:"status"`
	StateName        string                  `json:"state_name,omitempty"`
	StateDescription string                  `json:"state_description,omitempty"`
	ErrorMessage     string                  `json:"error_message,omitempty"`
	HasDocument      bool                    `json:"has_document"`
	Document         *RemoteInvoiceResponse  `json:"document,omitempty"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// RemoteInvoiceResponse documento UBL-TR decodificado.
type RemoteInvoiceResponse struct {
	UUID               string             `json:"uuid"`
	Number             string             `json:"number"`
	IssueDate          time.Time          `json:"issue_date"`
	DueDate            *time.Time         `json:"due_date,omitempty"`
	CurrencyCode       string             `json:"currency_code"`
	TaxExclusiveAmount decimal.Decimal    `json:"tax_exclusive_amount"`
	TaxAmount          decimal.Decimal    `json:"tax_amount"`
	PayableAmount      decimal.Decimal    `json:"payable_amount"`
	DocumentType       string             `json:"document_type,omitempty"`
	DocumentProfile    string             `json:"document_profile,omitempty"`
	Supplier           PartyResponse      `json:"supplier"`
	Customer           PartyResponse      `json:"customer"`
	Lines              []LineItemResponse `json:"lines"`
	Notes              []string           `json:"notes,omitempty"`
}

// PartyResponse emisor o receptor.
type PartyResponse struct {
	Name        string `json:"name"`
	TaxID       string `json:"tax_id,omitempty"`
	TaxIDScheme string `json:"tax_id_scheme,omitempty"`
	TaxOffice   string `json:"tax_office,omitempty"`
	Street      string `json:"street,omitempty"`
	BuildingNo  string `json:"building_no,omitempty"`
	District    string `json:"district,omitempty"`
	City        string `json:"city,omitempty"`
	PostalZone  string `json:"postal_zone,omitempty"`
	Country     string `json:"country,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Website     string `json:"website,omitempty"`
}

// LineItemResponse línea del documento.
type LineItemResponse struct {
	LineNumber         int             `json:"line_number"`
	Description        string          `json:"description"`
	ProductCode        string          `json:"product_code,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitCode           string          `json:"unit_code,omitempty"`
	UnitName           string          `json:"unit_name,omitempty"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	VATRatePercent     decimal.Decimal `json:"vat_rate_percent"`
	VATAmount          decimal.Decimal `json:"vat_amount"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	ClassificationCode string          `json:"classification_code,omitempty"`
}

// CheckStatusRequest body opcional para POST /api/einvoices/:uuid/status.
type CheckStatusRequest struct {
	Number          string `json:"number,omitempty"`
	IntegrationCode string `json:"integration_code,omitempty"`
	Direction       string `json:"direction,omitempty"`
	Category        string `json:"category,omitempty"`
	Force           bool   `json:"force,omitempty"`
}

// CheckStatusResponse resultado de una consulta de estado.
type CheckStatusResponse struct {
	UUID             string                  `json:"uuid"`
	Number           string                  `json:"number,omitempty"`
	Status           CanonicalStatusResponse `json:"status"`
	Applied          bool                    `json:"applied"`
	StateName        string                  `json:"state_name,omitempty"`
	StateDescription string                  `json:"state_description,omitempty"`
	ErrorMessage     string                  `json:"error_message,omitempty"`
	StoreError       string                  `json:"store_error,omitempty"`
}

// BatchCandidate elemento de POST /api/einvoices/status/batch.
type BatchCandidate struct {
	UUID string `json:"uuid"`
	CheckStatusRequest
}

// BatchOptionsRequest parámetros de agrupación; ceros = valores por defecto.
type BatchOptionsRequest struct {
	GroupSize   int `json:"group_size,omitempty"`
	Concurrency int `json:"concurrency,omitempty"`
	DelayMs     int `json:"delay_ms,omitempty"`
}

// CheckBatchRequest body para POST /api/einvoices/status/batch.
type CheckBatchRequest struct {
	Items   []BatchCandidate     `json:"items"`
	Options *BatchOptionsRequest `json:"options,omitempty"`
}

// CheckPendingRequest body para POST /api/einvoices/status/pending.
type CheckPendingRequest struct {
	Limit   int                  `json:"limit,omitempty"`
	Options *BatchOptionsRequest `json:"options,omitempty"`
}

// BatchItemResponse resultado por documento.
type BatchItemResponse struct {
	UUID   string               `json:"uuid"`
	Result *CheckStatusResponse `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// BatchReportResponse resumen de un lote.
type BatchReportResponse struct {
	Items     []BatchItemResponse `json:"items"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Skipped   int                 `json:"skipped"`
	Error     string              `json:"error,omitempty"` // motivo de la detención del lote
}

// DiscoverResponse para GET /api/einvoices/discover.
type DiscoverResponse struct {
	UUIDs     []string `json:"uuids"`
	Remaining int      `json:"remaining"`
	Listed    int      `json:"listed"`
	Invalid   []string `json:"invalid,omitempty"`
}

// ImportRequest body para POST /api/einvoices/import.
// Sin UUIDs se importan los documentos nuevos del rango From/To.
type ImportRequest struct {
	UUIDs     []string   `json:"uuids,omitempty"`
	Direction string     `json:"direction,omitempty"`
	Category  string     `json:"category,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	MaxFetch  int        `json:"max_fetch,omitempty"`
}

// ImportResultResponse resultado de importar un documento.
type ImportResultResponse struct {
	UUID     string `json:"uuid"`
	Number   string `json:"number"`
	FileName string `json:"file_name,omitempty"`
	Changed  bool   `json:"changed"`
}

// ImportItemResponse resultado por documento dentro de un lote.
type ImportItemResponse struct {
	UUID   string                `json:"uuid"`
	Result *ImportResultResponse `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// ImportReportResponse resumen de importación.
type ImportReportResponse struct {
	Items     []ImportItemResponse `json:"items"`
	Imported  int                  `json:"imported"`
	Unchanged int                  `json:"unchanged"`
	Failed    int                  `json:"failed"`
	Skipped   int                  `json:"skipped"`
	Remaining int                  `json:"remaining"`
	Error     string               `json:"error,omitempty"`
}

// AnswerRequest body para POST /api/einvoices/:uuid/answer.
type AnswerRequest struct {
	Answer string `json:"answer"` // ACCEPTED | REJECTED | RETURNED
	Note   string `json:"note,omitempty"`
}

// AnswerResponse confirmación del proveedor.
type AnswerResponse struct {
	TransferID  string `json:"transfer_id,omitempty"`
	Description string `json:"description,omitempty"`
}

// TransferRequest body para POST /api/einvoices/transfers.
type TransferRequest struct {
	XML             string `json:"xml"`
	CustomerAlias   string `json:"customer_alias"`
	IntegrationCode string `json:"integration_code,omitempty"`
}

// TransferResponse envío aceptado por el proveedor.
type TransferResponse struct {
	TransferID  string `json:"transfer_id"`
	Description string `json:"description,omitempty"`
	UUID        string `json:"uuid"`
	Number      string `json:"number"`
}

// TransferStatusResponse para GET /api/einvoices/transfers/:id.
type TransferStatusResponse struct {
	TransferID       string `json:"transfer_id"`
	Lifecycle        string `json:"lifecycle"`
	StateCode        int    `json:"state_code"`
	StateName        string `json:"state_name,omitempty"`
	StateDescription string `json:"state_description,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
}

// TaxpayerAliasResponse etiqueta registrada.
type TaxpayerAliasResponse struct {
	Alias     string     `json:"alias"`
	Title     string     `json:"title,omitempty"`
	Type      string     `json:"type,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// TaxpayerResponse para GET /api/taxpayers/:id.
type TaxpayerResponse struct {
	RegisterNumber string                  `json:"register_number"`
	Registered     bool                    `json:"registered"`
	Aliases        []TaxpayerAliasResponse `json:"aliases"`
}

// ProviderAccountRequest body para PUT /api/provider-account.
type ProviderAccountRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Environment string `json:"environment,omitempty"` // test | prod
}

// ProviderAccountResponse nunca incluye la contraseña.
type ProviderAccountResponse struct {
	Username    string `json:"username"`
	Environment string `json:"environment"`
}

// TenantReconcileResponse resultado de la conciliación de un tenant.
type TenantReconcileResponse struct {
	TenantID string               `json:"tenant_id"`
	Report   *BatchReportResponse `json:"report,omitempty"`
	Error    string               `json:"error,omitempty"`
}
