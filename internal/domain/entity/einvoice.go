package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction sentido del documento respecto al tenant.
type Direction string

const (
	DirectionSales    Direction = "SALES"    // Emitida (saliente)
	DirectionPurchase Direction = "PURCHASE" // Recibida (entrante)
)

// Valid indica si la dirección es conocida.
func (d Direction) Valid() bool { return d == DirectionSales || d == DirectionPurchase }

// Category servicio del proveedor al que pertenece el documento.
// e-Fatura y e-Arşiv son servicios distintos con logins distintos.
type Category string

const (
	CategoryEInvoice Category = "EINVOICE"
	CategoryEArchive Category = "EARCHIVE"
)

func (c Category) Valid() bool { return c == CategoryEInvoice || c == CategoryEArchive }

// Environment ambiente del proveedor.
type Environment string

const (
	EnvironmentTest Environment = "test"
	EnvironmentProd Environment = "prod"
)

func (e Environment) Valid() bool { return e == EnvironmentTest || e == EnvironmentProd }

// RemoteInvoice factura UBL-TR tal como la entrega el proveedor. Inmutable una vez parseada.
type RemoteInvoice struct {
	UUID               string
	Number             string
	IssueDate          time.Time
	DueDate            *time.Time
	CurrencyCode       string
	TaxExclusiveAmount decimal.Decimal
	TaxAmount          decimal.Decimal
	PayableAmount      decimal.Decimal
	DocumentType       string // InvoiceTypeCode: SATIS, IADE, TEVKIFAT, ...
	DocumentProfile    string // ProfileID: TEMELFATURA, TICARIFATURA, EARSIVFATURA, ...
	Supplier           Party
	Customer           Party
	LineItems          []LineItem
	Notes              []string
}

// Party emisor o receptor del documento.
type Party struct {
	Name        string
	TaxID       string // VKN (10 dígitos) o TCKN (11 dígitos)
	TaxIDScheme string // VKN | TCKN | "" si no se pudo determinar
	TaxOffice   string
	Address     Address
	Contact     Contact
}

// Address dirección postal.
type Address struct {
	Street     string
	BuildingNo string
	District   string // CitySubdivisionName (ilçe)
	City       string
	PostalZone string
	Country    string
}

// Contact datos de contacto.
type Contact struct {
	Phone   string
	Email   string
	Website string
}

// LineItem línea de la factura.
type LineItem struct {
	LineNumber         int
	Description        string
	ProductCode        string
	Quantity           decimal.Decimal
	UnitCode           string // Código UN/ECE (C62, KGM, ...)
	UnitName           string // Nombre visible (Adet, Kilogram, ...)
	UnitPrice          decimal.Decimal
	VATRatePercent     decimal.Decimal
	VATAmount          decimal.Decimal
	TotalAmount        decimal.Decimal // LineExtensionAmount
	DiscountAmount     decimal.Decimal
	ClassificationCode string
}

// TransferStatus respuesta de estado del proveedor. Efímera: se mapea y se descarta.
type TransferStatus struct {
	StateCode        int
	StateName        string
	StateDescription string
	AnswerStateCode  *int
	AnswerTypeCode   *int
	ErrorMessage     string
	InvoiceUUID      string
	InvoiceNumber    string
}

// Lifecycle estado canónico de entrega.
type Lifecycle string

const (
	LifecycleDraft      Lifecycle = "DRAFT"
	LifecycleQueued     Lifecycle = "QUEUED"
	LifecycleProcessing Lifecycle = "PROCESSING"
	LifecycleDelivered  Lifecycle = "DELIVERED"
	LifecycleFailed     Lifecycle = "FAILED"
)

// IsTerminal DELIVERED y FAILED no avanzan más sin forzar.
func (l Lifecycle) IsTerminal() bool {
	return l == LifecycleDelivered || l == LifecycleFailed
}

// Answer respuesta comercial del receptor (solo tiene sentido tras DELIVERED).
type Answer string

const (
	AnswerNone     Answer = "NONE"
	AnswerAccepted Answer = "ACCEPTED"
	AnswerRejected Answer = "REJECTED"
	AnswerReturned Answer = "RETURNED"
)

// CanonicalStatus estado normalizado que se persiste en caché.
type CanonicalStatus struct {
	Lifecycle         Lifecycle
	Answer            Answer
	ProviderStateCode int
	LastCheckedAt     time.Time
}

// EInvoiceRecord fila de la caché local, clave (TenantID, UUID).
type EInvoiceRecord struct {
	TenantID         string
	UUID             string
	Number           string
	IntegrationCode  string
	Direction        Direction
	Category         Category
	Status           CanonicalStatus
	StateName        string
	StateDescription string
	ErrorMessage     string
	Document         *RemoteInvoice
	DocumentHash     string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// ForceStatus en UpsertStatus reemplaza el estado aunque sea un retroceso.
	// No se persiste.
	ForceStatus bool `json:"-"`
}
