package efatura

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/efatura-api/internal/domain"
	domefatura "github.com/jhoicas/efatura-api/internal/domain/efatura"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/internal/domain/repository"
	infraefatura "github.com/jhoicas/efatura-api/internal/infrastructure/efatura"
	pkgefatura "github.com/jhoicas/efatura-api/pkg/efatura"
	"github.com/jhoicas/efatura-api/pkg/logger"
)

// TransferRequest factura de venta UBL-TR a enviar.
type TransferRequest struct {
	TenantID        string
	XML             []byte
	CustomerAlias   string // etiqueta del receptor (urn:mail:...)
	IntegrationCode string
}

// TransferOutcome resultado del envío.
type TransferOutcome struct {
	TransferID  string
	Description string
	UUID        string
	Number      string
}

// TransferStatusView estado de una transferencia con su ciclo de vida canónico.
type TransferStatusView struct {
	TransferID string
	Lifecycle  entity.Lifecycle
	Status     *entity.TransferStatus
}

// AnswerRequest respuesta comercial a una factura de compra.
type AnswerRequest struct {
	TenantID string
	UUID     string
	Answer   entity.Answer
	Note     string
}

// IntegrationService operaciones de emisión y administración de la cuenta del proveedor.
type IntegrationService struct {
	remote
	store      repository.EInvoiceRepository
	defaultEnv entity.Environment
	now        func() time.Time
	log        *logger.Logger
}

// NewIntegrationService defaultEnv es el ambiente de las cuentas guardadas sin ambiente.
func NewIntegrationService(
	provider infraefatura.Provider,
	accounts repository.ProviderAccountRepository,
	sessions *SessionManager,
	store repository.EInvoiceRepository,
	defaultEnv entity.Environment,
	log *logger.Logger,
) *IntegrationService {
	if !defaultEnv.Valid() {
		defaultEnv = entity.EnvironmentTest
	}
	if log == nil {
		log = logger.Nop()
	}
	return &IntegrationService{
		remote:     remote{provider: provider, accounts: accounts, sessions: sessions},
		store:      store,
		defaultEnv: defaultEnv,
		now:        time.Now,
		log:        log.Component("efatura.integration"),
	}
}

// ── Cuenta ────────────────────────────────────────────────────────────────────

// SaveAccount guarda las credenciales del tenant y descarta sus sesiones en caché.
func (s *IntegrationService) SaveAccount(ctx context.Context, acc *entity.ProviderAccount) error {
	if acc == nil || acc.TenantID == "" {
		return &domain.ValidationError{Field: "tenant", Message: "requerido"}
	}
	acc.Username = strings.TrimSpace(acc.Username)
	if acc.Username == "" {
		return &domain.ValidationError{Field: "username", Message: "requerido"}
	}
	if acc.Password == "" {
		return &domain.ValidationError{Field: "password", Message: "requerido"}
	}
	if acc.Environment == "" {
		acc.Environment = s.defaultEnv
	}
	if !acc.Environment.Valid() {
		return &domain.ValidationError{Field: "environment", Value: string(acc.Environment), Message: "debe ser test o prod"}
	}
	if err := s.accounts.Save(ctx, acc); err != nil {
		return fmt.Errorf("guardar cuenta del proveedor: %w", err)
	}
	for _, cat := range []entity.Category{entity.CategoryEInvoice, entity.CategoryEArchive} {
		if err := s.sessions.Invalidate(ctx, acc.TenantID, cat); err != nil {
			s.log.Warn().Err(err).Str("tenant_id", acc.TenantID).Msg("sesión anterior no invalidada")
		}
	}
	s.log.Info().Str("tenant_id", acc.TenantID).Str("environment", string(acc.Environment)).Msg("cuenta del proveedor actualizada")
	return nil
}

// ── Emisión ───────────────────────────────────────────────────────────────────

// Transfer valida el UBL, lo empaqueta (zip + base64 + MD5) y lo envía. El documento
// queda en caché como venta en cola hasta la próxima consulta de estado.
func (s *IntegrationService) Transfer(ctx context.Context, req TransferRequest) (*TransferOutcome, error) {
	if len(req.XML) == 0 {
		return nil, &domain.ValidationError{Field: "xml", Message: "requerido"}
	}
	inv, err := infraefatura.ParseUBL(req.XML)
	if err != nil {
		return nil, err
	}
	id, err := domefatura.NormalizeUUID(inv.UUID)
	if err != nil {
		return nil, err
	}
	if req.CustomerAlias == "" {
		return nil, &domain.ValidationError{Field: "customerAlias", Message: "requerido"}
	}
	file, err := infraefatura.BuildTransferFile(req.XML, id, req.CustomerAlias, req.IntegrationCode)
	if err != nil {
		return nil, fmt.Errorf("empaquetar factura %s: %w", id, err)
	}

	t, err := s.target(ctx, req.TenantID, entity.CategoryEInvoice)
	if err != nil {
		return nil, err
	}
	res, err := s.provider.TransferInvoiceFile(ctx, t, file)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, s.fail(ctx, req.TenantID, entity.CategoryEInvoice, res.Result, "TransferInvoiceFile")
	}

	rec := &entity.EInvoiceRecord{
		TenantID:        req.TenantID,
		UUID:            id,
		Number:          inv.Number,
		IntegrationCode: req.IntegrationCode,
		Direction:       entity.DirectionSales,
		Category:        entity.CategoryEInvoice,
		Status: entity.CanonicalStatus{
			Lifecycle:         entity.LifecycleQueued,
			Answer:            entity.AnswerNone,
			ProviderStateCode: domefatura.StateQueued,
			LastCheckedAt:     s.now(),
		},
		StateDescription: res.Description,
		Document:         inv,
		DocumentHash:     infraefatura.DocumentHash(req.XML),
	}
	if err := s.store.UpsertStatus(ctx, rec); err != nil {
		s.log.Error().Err(err).Str("tenant_id", req.TenantID).Str("uuid", id).Msg("transferencia enviada pero no registrada")
	} else if _, err := s.store.UpsertDocument(ctx, rec); err != nil {
		s.log.Error().Err(err).Str("tenant_id", req.TenantID).Str("uuid", id).Msg("documento transferido no guardado")
	}
	s.log.Info().Str("tenant_id", req.TenantID).Str("uuid", id).Str("transfer_id", res.TransferID).Msg("factura transferida")

	return &TransferOutcome{TransferID: res.TransferID, Description: res.Description, UUID: id, Number: inv.Number}, nil
}

// TransferStatus estado de una transferencia previa.
func (s *IntegrationService) TransferStatus(ctx context.Context, tenantID, transferID string) (*TransferStatusView, error) {
	transferID = strings.TrimSpace(transferID)
	if transferID == "" {
		return nil, &domain.ValidationError{Field: "transferId", Message: "requerido"}
	}
	t, err := s.target(ctx, tenantID, entity.CategoryEInvoice)
	if err != nil {
		return nil, err
	}
	res, err := s.provider.GetTransferStatus(ctx, t, transferID)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, s.fail(ctx, tenantID, entity.CategoryEInvoice, res.Result, "GetTransferStatus")
	}
	if res.Status == nil {
		return nil, fmt.Errorf("%w: GetTransferStatus sin estado", domain.ErrMalformedResponse)
	}
	lc, err := domefatura.MapStateCode(res.Status.StateCode)
	if err != nil {
		return nil, err
	}
	return &TransferStatusView{TransferID: transferID, Lifecycle: lc, Status: res.Status}, nil
}

// Answer envía KABUL, RED o IADE para una factura de compra. El estado en caché se
// actualiza en la siguiente consulta.
func (s *IntegrationService) Answer(ctx context.Context, req AnswerRequest) (*infraefatura.AnswerResult, error) {
	id, err := domefatura.NormalizeUUID(req.UUID)
	if err != nil {
		return nil, err
	}
	code, err := domefatura.AnswerCode(req.Answer)
	if err != nil {
		return nil, err
	}
	t, err := s.target(ctx, req.TenantID, entity.CategoryEInvoice)
	if err != nil {
		return nil, err
	}
	res, err := s.provider.SetInvoiceAnswer(ctx, t, id, code, strings.TrimSpace(req.Note))
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, s.fail(ctx, req.TenantID, entity.CategoryEInvoice, res.Result, "SetInvoiceAnswer")
	}
	s.log.Info().Str("tenant_id", req.TenantID).Str("uuid", id).Str("answer", code).Msg("respuesta comercial enviada")
	return res, nil
}

// CheckTaxpayer etiquetas e-Fatura registradas para un VKN/TCKN; vacío si no es contribuyente.
func (s *IntegrationService) CheckTaxpayer(ctx context.Context, tenantID, registerNumber string) ([]infraefatura.TaxpayerAlias, error) {
	registerNumber = strings.TrimSpace(registerNumber)
	if _, err := pkgefatura.ValidateTaxID(registerNumber); err != nil {
		return nil, &domain.ValidationError{Field: "registerNumber", Value: registerNumber, Message: err.Error()}
	}
	t, err := s.target(ctx, tenantID, entity.CategoryEInvoice)
	if err != nil {
		return nil, err
	}
	res, err := s.provider.CheckTaxpayer(ctx, t, registerNumber)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, s.fail(ctx, tenantID, entity.CategoryEInvoice, res.Result, "CheckTaxpayer")
	}
	return res.Aliases, nil
}
