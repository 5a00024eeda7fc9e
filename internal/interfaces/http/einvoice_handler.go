package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/efatura-api/internal/application/dto"
	appefatura "github.com/jhoicas/efatura-api/internal/application/efatura"
	"github.com/jhoicas/efatura-api/internal/domain"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
	infraefatura "github.com/jhoicas/efatura-api/internal/infrastructure/efatura"
)

// StatusService lo implementa *appefatura.Reconciler.
type StatusService interface {
	CheckOne(ctx context.Context, req appefatura.CheckRequest) (*appefatura.CheckResult, error)
	CheckBatch(ctx context.Context, tenantID string, candidates []appefatura.CheckRequest, opts *appefatura.BatchOptions) (*appefatura.BatchReport, error)
	CheckPending(ctx context.Context, tenantID string, limit int, opts *appefatura.BatchOptions) (*appefatura.BatchReport, error)
	ListNewInvoiceIDs(ctx context.Context, req appefatura.DiscoveryRequest) (*appefatura.DiscoveryResult, error)
	ReconcileAll(ctx context.Context, limit int) ([]appefatura.TenantReport, error)
}

// DocumentService lo implementa *appefatura.DocumentService.
type DocumentService interface {
	Record(ctx context.Context, tenantID, uuid string) (*entity.EInvoiceRecord, error)
	Import(ctx context.Context, req appefatura.ImportRequest) (*appefatura.ImportResult, error)
	ImportBatch(ctx context.Context, tenantID string, uuids []string, dir entity.Direction, cat entity.Category) (*appefatura.ImportReport, error)
	ImportNew(ctx context.Context, req appefatura.DiscoveryRequest) (*appefatura.ImportReport, error)
	RenderPDF(ctx context.Context, tenantID, uuid string) ([]byte, error)
}

// IntegrationService lo implementa *appefatura.IntegrationService.
type IntegrationService interface {
	SaveAccount(ctx context.Context, acc *entity.ProviderAccount) error
	Transfer(ctx context.Context, req appefatura.TransferRequest) (*appefatura.TransferOutcome, error)
	TransferStatus(ctx context.Context, tenantID, transferID string) (*appefatura.TransferStatusView, error)
	Answer(ctx context.Context, req appefatura.AnswerRequest) (*infraefatura.AnswerResult, error)
	CheckTaxpayer(ctx context.Context, tenantID, registerNumber string) ([]infraefatura.TaxpayerAlias, error)
}

// EInvoiceHandler maneja las peticiones HTTP de e-Fatura (protegido).
type EInvoiceHandler struct {
	status       StatusService
	documents    DocumentService
	integration  IntegrationService
	pendingLimit int
}

// NewEInvoiceHandler construye el handler. pendingLimit es el límite por defecto de
// documentos pendientes por tenant.
func NewEInvoiceHandler(status StatusService, documents DocumentService, integration IntegrationService, pendingLimit int) *EInvoiceHandler {
	return &EInvoiceHandler{status: status, documents: documents, integration: integration, pendingLimit: pendingLimit}
}

func tenantOrAbort(c *fiber.Ctx) (string, bool) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
		return "", false
	}
	return tenantID, true
}

func direction(s string) entity.Direction {
	return entity.Direction(strings.ToUpper(strings.TrimSpace(s)))
}

func category(s string) entity.Category {
	return entity.Category(strings.ToUpper(strings.TrimSpace(s)))
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// parseOptionalBody acepta cuerpo vacío.
func parseOptionalBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

// Get registro cacheado de un documento.
// GET /api/einvoices/:uuid?document=true
//
// @Summary	Registro cacheado de un documento
// @Tags		einvoices
// @Security	BearerAuth
// @Param		uuid	path	string	true	"uuid"
// @Param		document	query	boolean	false	"document"
// @Success	200	{object}	dto.EInvoiceResponse
// @Failure	400	{object}	dto.ErrorResponse
// @Failure	502	{object}	dto.ErrorResponse
// @Router		/api/einvoices/{uuid} [get]
func (h *EInvoiceHandler) Get(c *fiber.Ctx) error {
	tenantID, ok := tenantOrAbort(c)
	if !ok {
		return nil
	}
	rec, err := h.documents.Record(c.Context(), tenantID, c.Params("uuid"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toEInvoiceResponse(rec, c.QueryBool("document", false)))
}

// CheckStatus consulta el estado remoto y actualiza la caché.
// POST /api/einvoices/:uuid/status
//
// @Summary	Consulta el estado remoto y actualiza la caché
// @Tags		einvoices
// @Security	BearerAuth
// @Param		uuid	path	string	true	"uuid"
// @Param		body	body	dto.CheckStatusRequest	false	"cuerpo"
// @Success	200	{object}	dto.CheckStatusResponse
// @Failure	400	{object}	dto.ErrorResponse
// @Failure	502	{object}	dto.ErrorResponse
// @Router		/api/einvoices/{uuid}/status [post]
func (h *EInvoiceHandler) CheckStatus(c *fiber.Ctx) error {
	tenantID, ok := tenantOrAbort(c)
	if !ok {
		return nil
	}
	var in dto.CheckStatusRequest
	if err := parseOptionalBody(c, &in); err != nil {
		return invalidBody(c)
	}
	res, err := h.status.CheckOne(c.Context(), appefatura.CheckRequest{
		TenantID:        tenantID,
		UUID:            c.Params("uuid"),
		Number:          in.Number,
		IntegrationCode: in.IntegrationCode,
		Direction:       direction(in.Direction),
		Category:        category(in.Category),
		Force:           in.Force,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCheckResponse(res))
}

// CheckBatch consulta varios documentos.
// POST /api/einvoices/status/batch
//
// @Summary	Consulta de estados por lotes
// @Tags		einvoices
// @Security	BearerAuth
// @Param		body	body	dto.CheckBatchRequest	true	"cuerpo"
// @Success	200	{object}	dto.BatchReportResponse
// @Failure	400	{object}	dto.ErrorResponse
// @Failure	502	{object}	dto.ErrorResponse
// @Router		/api/einvoices/status/batch [post]
func (h *EInvoiceHandler) CheckBatch(c *fiber.Ctx) error {
	tenantID, ok := tenantOrAbort(c)
	if !ok {
		return nil
	}
	var in dto.CheckBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items requerido"})
	}
	candidates := make([]appefatura.CheckRequest, 0, len(in.Items))
	for _, it := range in.Items {
		candidates = append(candidates, appefatura.CheckRequest{
			UUID:            it.UUID,
			Number:          it.Number,
			IntegrationCode: it.IntegrationCode,
			Direction:       direction(it.Direction),
			Category:        category(it.Category),
			Force:           it.Force,
		})
	}
	report, err := h.status.CheckBatch(c.Context(), tenantID, candidates, toBatchOptions(in.Options))
	return writeBatch(c, report, err)
}

// CheckPending consulta los documentos no terminales del tenant.
// POST /api/einvoices/status/pending
//
// @Summary	Consulta los documentos no terminales del tenant
// @Tags		einvoices
// @Security	BearerAuth
// @Param		body	body	dto.CheckPendingRequest	false	"cuerpo"
// @Success	200	{object}	dto.BatchReportResponse
// @Failure	400	{object}	dto.ErrorResponse
// @Failure	502	{object}	dto.ErrorResponse
// @Router		/api/einvoices/status/pending [post]
func (h *EInvoiceHandler) CheckPending(c *fiber.Ctx) error {
	tenantID, ok := tenantOrAbort(c)
	if !ok {
		return nil
	}
	var in dto.CheckPendingRequest
	if err := parseOptionalBody(c, &in); err != nil {
		return invalidBody(c)
	}
	limit := in.Limit
	if limit <= 0 {
		limit = h.pendingLimit
	}
	report, err := h.status.CheckPending(c.Context(), tenantID, limit, toBatchOptions(in.Options))
	return writeBatch(c, report, err)
}

// writeBatch un reporte parcial se devuelve junto con el error que detuvo el lote.
func writeBatch(c *fiber.Ctx, report *appefatura.BatchReport, err error) error {
	if err != nil && report == nil {
		return writeError(c, err)
	}
	out := toBatchResponse(report)
	if err != nil {
		status, _ := classify(err)
		out.Error = err.Error()
		return c.Status(status).JSON(out)
	}
	return c.JSON(out)
}

// Discover ids remotos que la caché todavía no conoce.
// GET /api/einvoices/discover?from=2026-01-01&to=2026-01-31&direction=PURCHASE
//
// @Summary	Ids remotos que la caché no conoce
// @Tags		einvoices
// @Security	BearerAuth
// @Param		from	query	string	true	"from"
// @Param		to	query	string	true	"to"
// @Param		direction	query	string	false	"direction"
// @Param		category	query	string	false	"category"
// @Param		only_untransferred	query	boolean	false	"only_untransferred"
// @Param		max_fetch	query	integer	false	"max_fetch"
// @Success	200	{object}	dto.DiscoverResponse
// @Failure	400	{object}	dto.ErrorResponse
// @Failure	502	{object}	dto.ErrorResponse
// @Router		/api/einvoices/discover [get]
func (h *EInvoiceHandler) Discover(c *fiber.Ctx) error {
	tenantID, ok := tenantOrAbort(c)
	if !ok {
		return nil
	}
	from, to, err := dateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.status.ListNewInvoiceIDs(c.Context(), appefatura.DiscoveryRequest{
		TenantID:          tenantID,
		Direction:         direction(c.Query("direction")),
		Category:          category(c.Query("category")),
		From:              from,
		To:                to,
		OnlyUntransferred: c.QueryBool("only_untransferred", false),
		MaxFetch:          c.QueryInt("max_fetch", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	uuids := res.UUIDs
	if uuids == nil {
		uuids = []string{}
	}
	return c.JSON(dto.DiscoverResponse{UUIDs: uuids, Remaining: res.Remaining, Listed: res.Listed, Invalid: res.Invalid})
}

// dateRange fechas YYYY-MM-DD; "to" incluye el día completo.
func dateRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if fromRaw != "" {
		if from, err = time.Parse(time.DateOnly, fromRaw); err != nil {
			return from, to, &domain.ValidationError{Field: "from", Value: fromRaw, Message: "formato YYYY-MM-DD"}
		}
	}
	if toRaw != "" {
		if to, err = time.Parse(time.DateOnly, toRaw); err != nil {
			return from, to, &domain.ValidationError{Field: "to", Value: toRaw, Message: "formato YYYY-MM-DD"}
		}
		to = to.Add(24*time.Hour - time.Second)
	}
	return from, to, nil
}

// ImportMany importa los UUIDs indicados o, sin UUIDs, los nuevos del rango.
// POST /api/einvoices/import
//
// @Summary	Importa varios documentos UBL
// @Tags		einvoices
// @Security	BearerAuth
// @Param		body	body	dto.ImportRequest	true	"cuerpo"
// @Success	200	{object}	dto.ImportReportResponse
// @Failure	400	{object}	dto.ErrorResponse
// @Failure	502	{object}	dto.ErrorResponse
// @Router		/api/einvoices/import [post]
func (h *EInvoiceHandler) ImportMany(c *fiber.Ctx) error {
	tenantID, ok := tenantOrAbort(c)
	if !ok {
		return nil
	}
	var in dto.ImportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	var (
		report *appefatura.ImportReport
		err    error
	)
	if len(in.UUIDs) > 0 {
		report, err = h.documents.ImportBatch(c.Context(), tenantID, in.UUIDs, direction(in.Direction), category(in.Category))
	} else {
		req := appefatura.DiscoveryRequest{
			TenantID:  tenantID,
			Direction: direction(in.Direction),
			Category:  category(in.Category),
			MaxFetch:  in.MaxFetch,
		}
		if in.From != nil {
			req.From = *in.From
		}
		if in.To != nil {
			req.To = *in.To
		}
		report, err = h.documents.ImportNew(c.Context(), req)
	}
	if err != nil && report == nil {
		return writeError(c, err)
	}
	out := toImportReport(report)
	if err != nil {
		status, _ := classify(err)
		out.Error = err.Error()
		return c.Status(status).JSON(out)
	}
	return c.JSON(out)
}

// ImportOne descarga y guarda el documento UBL.
// POST /api/einvoices/:uuid/import?direction=PURCHASE
//
// @Summary	Descarga y guarda un documento UBL
// @Tags		einvoices
// @Security	BearerAuth
// @Param		uuid	path	string	true	"uuid"
// @Param		direction	query	string	false	"direction"
// @Param		category	query	string	false	"category"
// @Success	200	{object}	dto.ImportResultResponse
// @Failure	400	{object}	dto.ErrorResponse
// @Failure	502	{object}	dto.ErrorResponse
// @Router		/api/einvoices/{uuid}/import [post]
func (h *EInvoiceHandler) ImportOne(c *fiber.Ctx) error {
	tenantID, ok := tenantOrAbort(c)
	if !ok {
		return nil
	}
	res, err := h.documents.Import(c.Context(), appefatura.ImportRequest{
		TenantID:  tenantID,
		UUID:      c.Params("uuid"),
		Direction: direction(c.Query("direction")),
		Category:  category(c.Query("category")),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toImportResult(res))
}

// PDF representación gráfica del documento importado.
// GET /api/einvoices/:uuid/pdf
//
// @Summary	Representación gráfica del documento importado
// @Tags		einvoices
// @Security	BearerAuth
// @Param		uuid	path	string	true	"uuid"
// @Produce	application/pdf
// @Success	200	{file}	binary
// @Failure	400	{object}	dto.ErrorResponse
// @Failure	502	{object}	dto.ErrorResponse
// @Router		/api/einvoices/{uuid}/pdf [get]
func (h *EInvoiceHandler) PDF(c *fiber.Ctx) error {
	tenantID, ok := tenantOrAbort(c)
	if !ok {
		return nil
	}
	pdf, err := h.documents.RenderPDF(c.Context(), tenantID, c.Params("uuid"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+strings.ToUpper(c.Params("uuid"))+`.pdf"`)
	return c.Send(pdf)
}

// Answer respuesta comercial a una factura recibida.
// POST /api/einvoices/:uuid/answer
//
// @Summary	Respuesta comercial (KABUL/RED/IADE)
// @Tags		einvoices
// @Security	BearerAuth
// @Param		uuid	path	string	true	"uuid"
// @Param		body	body	dto.AnswerRequest	true	"cuerpo"
// @Success	200	{object}	dto.AnswerResponse
// @Failure	400	{object}	dto.ErrorResponse
// @Failure	502	{object}	dto.ErrorResponse
// @Router		/api/einvoices/{uuid}/answer [post]
func (h *EInvoiceHandler) Answer(c *fiber.Ctx) error {
	tenantID, ok := tenantOrAbort(c)
	if !ok {
		return nil
	}
	var in dto.AnswerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.integration.Answer(c.Context(), appefatura.AnswerRequest{
		TenantID: tenantID,
		UUID:     c.Params("uuid"),
		Answer:   entity.Answer(strings.ToUpper(strings.TrimSpace(in.Answer))),
		Note:     in.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AnswerResponse{TransferID: res.TransferID, Description: res.Description})
}

// Transfer envía un documento UBL al proveedor.
// POST /api/einvoices/transfers
//
// @Summary	Envía un documento UBL al proveedor
// @Tags		transfers
// @Security	BearerAuth
// @Param		body	body	dto.TransferRequest	true	"cuerpo"
// @Success	202	{object}	dto.TransferResponse
// @Failure	400	{object}	dto.ErrorResponse
// @Failure	502	{object}	dto.ErrorResponse
// @Router		/api/einvoices/transfers [post]
func (h *EInvoiceHandler) Transfer(c *fiber.Ctx) error {
	tenantID, ok := tenantOrAbort(c)
	if !ok {
		return nil
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.integration.Transfer(c.Context(), appefatura.TransferRequest{
		TenantID:        tenantID,
		XML:             []byte(in.XML),
		CustomerAlias:   in.CustomerAlias,
		IntegrationCode: in.IntegrationCode,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.TransferResponse{
		TransferID:  out.TransferID,
		Description: out.Description,
		UUID:        out.UUID,
		Number:      out.Number,
	})
}

// TransferStatus estado de una transferencia.
// GET /api/einvoices/transfers/:id
//
// @Summary	Estado de una transferencia
// @Tags		transfers
// @Security	BearerAuth
// @Param		id	path	string	true	"id"
// @Success	200	{object}	dto.TransferStatusResponse
// @Failure	400	{object}	dto.ErrorResponse
// @Failure	502	{object}	dto.ErrorResponse
// @Router		/api/einvoices/transfers/{id} [get]
func (h *EInvoiceHandler) TransferStatus(c *fiber.Ctx) error {
	tenantID, ok := tenantOrAbort(c)
	if !ok {
		return nil
	}
	view, err := h.integration.TransferStatus(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.TransferStatusResponse{TransferID: view.TransferID, Lifecycle: string(view.Lifecycle)}
	if view.Status != nil {
		out.StateCode = view.Status.StateCode
		out.StateName = view.Status.StateName
		out.StateDescription = view.Status.StateDescription
		out.ErrorMessage = view.Status.ErrorMessage
	}
	return c.JSON(out)
}

// Taxpayer etiquetas e-Fatura de un VKN/TCKN.
// GET /api/taxpayers/:id
//
// @Summary	Etiquetas e-Fatura de un VKN/TCKN
// @Tags		taxpayers
// @Security	BearerAuth
// @Param		id	path	string	true	"id"
// @Success	200	{object}	dto.TaxpayerResponse
// @Failure	400	{object}	dto.ErrorResponse
// @Failure	502	{object}	dto.ErrorResponse
// @Router		/api/taxpayers/{id} [get]
func (h *EInvoiceHandler) Taxpayer(c *fiber.Ctx) error {
	tenantID, ok := tenantOrAbort(c)
	if !ok {
		return nil
	}
	id := c.Params("id")
	aliases, err := h.integration.CheckTaxpayer(c.Context(), tenantID, id)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.TaxpayerResponse{RegisterNumber: id, Registered: len(aliases) > 0, Aliases: make([]dto.TaxpayerAliasResponse, 0, len(aliases))}
	for _, a := range aliases {
		item := dto.TaxpayerAliasResponse{Alias: a.Alias, Title: a.Title, Type: a.Type}
		if !a.CreatedAt.IsZero() {
			t := a.CreatedAt
			item.CreatedAt = &t
		}
		out.Aliases = append(out.Aliases, item)
	}
	return c.JSON(out)
}

// SaveProviderAccount guarda las credenciales del proveedor del tenant.
// PUT /api/provider-account
//
// @Summary	Guarda las credenciales del proveedor
// @Tags		provider-account
// @Security	BearerAuth
// @Param		body	body	dto.ProviderAccountRequest	true	"cuerpo"
// @Success	200	{object}	dto.ProviderAccountResponse
// @Failure	400	{object}	dto.ErrorResponse
// @Failure	502	{object}	dto.ErrorResponse
// @Router		/api/provider-account [put]
func (h *EInvoiceHandler) SaveProviderAccount(c *fiber.Ctx) error {
	tenantID, ok := tenantOrAbort(c)
	if !ok {
		return nil
	}
	var in dto.ProviderAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	acc := &entity.ProviderAccount{
		TenantID:    tenantID,
		Username:    in.Username,
		Password:    in.Password,
		Environment: entity.Environment(strings.ToLower(strings.TrimSpace(in.Environment))),
	}
	if err := h.integration.SaveAccount(c.Context(), acc); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ProviderAccountResponse{Username: acc.Username, Environment: string(acc.Environment)})
}

// Reconcile conciliación periódica de todos los tenants (cron).
// POST /api/internal/reconcile
//
// @Summary	Conciliación periódica de todos los tenants
// @Tags		internal
// @Param		X-Cron-Secret	header	string	true	"secreto del cron"
// @Param		limit	query	integer	false	"limit"
// @Success	200	{array}	dto.TenantReconcileResponse
// @Failure	400	{object}	dto.ErrorResponse
// @Router		/api/internal/reconcile [post]
func (h *EInvoiceHandler) Reconcile(c *fiber.Ctx) error {
	reports, err := h.status.ReconcileAll(c.Context(), c.QueryInt("limit", h.pendingLimit))
	if err != nil && reports == nil {
		return writeError(c, err)
	}
	out := make([]dto.TenantReconcileResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, dto.TenantReconcileResponse{TenantID: r.TenantID, Report: toBatchResponse(r.Report), Error: errorText(r.Err)})
	}
	return c.JSON(out)
}
