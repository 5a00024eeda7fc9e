package efatura

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/efatura-api/internal/domain"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
)

// ── Resultados ────────────────────────────────────────────────────────────────

// Result desenlace de negocio de una llamada. Success=false con Error describe un
// rechazo del proveedor (SOAP Fault o resultado negativo), no un fallo de transporte.
type Result struct {
	Success bool
	Fault   bool
	Error   string
}

// Fragmentos con los que el proveedor informa sesión inexistente o vencida.
var sessionFaultHints = []string{"session", "oturum", "token", "yetkisiz", "unauthorized"}

// Fragmentos de "documento no encontrado".
var notFoundHints = []string{"bulunamad", "not found", "kayıt yok", "no record"}

// SessionRejected el proveedor no reconoce la sesión.
func (r Result) SessionRejected() bool {
	return !r.Success && containsAny(r.Error, sessionFaultHints)
}

// NotFound el proveedor no tiene el documento.
func (r Result) NotFound() bool {
	return !r.Success && containsAny(r.Error, notFoundHints)
}

func containsAny(s string, hints []string) bool {
	s = strings.ToLower(s)
	for _, h := range hints {
		if strings.Contains(s, h) {
			return true
		}
	}
	return false
}

func failed(msg string) Result { return Result{Success: false, Error: msg} }

func faulted(msg string) Result { return Result{Success: false, Fault: true, Error: msg} }

func missingFields(op string, fields []string) Result {
	return failed(fmt.Sprintf("%s: faltan campos obligatorios en la respuesta: %s", op, strings.Join(fields, ", ")))
}

// LoginResult token de sesión.
type LoginResult struct {
	Result
	Token string
}

// TransferFile archivo zip a transferir.
type TransferFile struct {
	FileName        string // con extensión .zip
	BinaryData      string // zip en base64
	BinaryDataHash  string // MD5 hex del zip
	CustomerAlias   string // etiqueta del receptor (urn:mail:...)
	IntegrationCode string
	IsDirectSend    bool
}

// TransferResult identificador de la transferencia.
type TransferResult struct {
	Result
	TransferID  string
	Description string
}

// StatusResult estado del documento o de la transferencia.
type StatusResult struct {
	Result
	Status *entity.TransferStatus
}

// UUIDListQuery rango de fechas para listar ETTN.
type UUIDListQuery struct {
	Direction         entity.Direction
	From              time.Time
	To                time.Time
	OnlyUntransferred bool // solo compras aún no descargadas
}

// UUIDListResult ETTN en el orden del proveedor, sin validar.
type UUIDListResult struct {
	Result
	UUIDs []string
}

// DownloadResult documento descargado (zip en base64).
type DownloadResult struct {
	Result
	FileName   string
	BinaryData string
}

// AnswerResult resultado de enviar la respuesta comercial.
type AnswerResult struct {
	Result
	TransferID  string
	Description string
}

// TaxpayerAlias etiqueta registrada de un contribuyente e-Fatura.
type TaxpayerAlias struct {
	Alias          string
	Title          string
	RegisterNumber string
	Type           string // PK (posta kutusu) | GB (gönderici birim)
	CreatedAt      time.Time
}

// TaxpayerResult contribuyente registrado si Aliases no está vacío.
type TaxpayerResult struct {
	Result
	Aliases []TaxpayerAlias
}

// ── Reglas de extracción por operación ────────────────────────────────────────

var (
	loginRules = []Rule{
		{Field: "token", Mandatory: true, Strategies: []Strategy{Tag("LoginResult"), Tag("SessionCode"), Tag("Token")}},
	}

	operationRules = []Rule{
		{Field: "completed", Strategies: []Strategy{Tag("OperationCompleted"), Tag("IsSucccess"), Tag("IsSuccess")}},
		{Field: "transferId", Strategies: []Strategy{Tag("TransferFileUniqueId"), Tag("TransferFileUniqueID")}},
		{Field: "description", Strategies: []Strategy{Tag("Description"), Tag("Message")}},
	}

	statusRules = []Rule{
		{Field: "stateCode", Mandatory: true, Strategies: []Strategy{Tag("StateCode"), Attr("StateCode", "value")}},
		{Field: "stateName", Strategies: []Strategy{Tag("StateName")}},
		{Field: "stateDescription", Strategies: []Strategy{Tag("StateDescription"), Tag("Description")}},
		{Field: "answerStateCode", Strategies: []Strategy{Tag("AnswerStateCode")}},
		{Field: "answerTypeCode", Strategies: []Strategy{Tag("AnswerTypeCode")}},
		{Field: "errorMessage", Strategies: []Strategy{Tag("ErrorMessage"), Tag("GIBErrorMessage")}},
		{Field: "uuid", Strategies: []Strategy{Tag("InvoiceUUID"), Tag("UUID")}},
		{Field: "number", Strategies: []Strategy{Tag("InvoiceNumber")}},
	}

	downloadRules = []Rule{
		{Field: "success", Strategies: []Strategy{Tag("IsSucccess"), Tag("IsSuccess"), Tag("OperationCompleted")}},
		{Field: "message", Strategies: []Strategy{Tag("Message"), Tag("Description")}},
		{Field: "data", Strategies: []Strategy{Path("DownloadFile", "FileData"), Tag("FileData"), Tag("BinaryData")}},
		{Field: "fileName", Strategies: []Strategy{Tag("FileNameWithExtension"), Tag("FileName")}},
	}

	aliasRules = []Rule{
		{Field: "alias", Strategies: []Strategy{Child("Alias"), Child("Identifier")}},
		{Field: "title", Strategies: []Strategy{Child("Title"), Child("Name")}},
		{Field: "registerNumber", Strategies: []Strategy{Child("RegisterNumber"), Child("Identifier")}},
		{Field: "type", Strategies: []Strategy{Child("AliasType"), Child("Type")}},
		{Field: "createdAt", Strategies: []Strategy{Child("FirstCreationTime"), Child("CreationTime")}},
	}
)

// ── Operaciones ───────────────────────────────────────────────────────────────

// Login abre sesión. El token es obligatorio: sin token el resultado es fallido.
func (c *SOAPClient) Login(ctx context.Context, t Target, username, password string) (*LoginResult, error) {
	rep, err := c.call(ctx, t, opLogin, loginParams{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	if rep.fault != "" {
		return &LoginResult{Result: faulted(rep.fault)}, nil
	}
	vals, missing := Extract(rep.body, loginRules...)
	if len(missing) > 0 {
		return &LoginResult{Result: missingFields(opLogin, missing)}, nil
	}
	return &LoginResult{Result: Result{Success: true}, Token: vals.String("token")}, nil
}

// Logout cierra la sesión. Un LogoutResult ausente se considera éxito.
func (c *SOAPClient) Logout(ctx context.Context, t Target) (*Result, error) {
	rep, err := c.call(ctx, t, opLogout, sessionParams{Token: t.Token})
	if err != nil {
		return nil, err
	}
	if rep.fault != "" {
		r := faulted(rep.fault)
		return &r, nil
	}
	vals, _ := Extract(rep.body, Rule{Field: "ok", Strategies: []Strategy{Tag("LogoutResult")}})
	if ok, present := vals.Bool("ok"); present && !ok {
		r := failed("el proveedor no confirmó el cierre de sesión")
		return &r, nil
	}
	return &Result{Success: true}, nil
}

// TransferInvoiceFile envía el zip de una factura de venta.
func (c *SOAPClient) TransferInvoiceFile(ctx context.Context, t Target, f TransferFile) (*TransferResult, error) {
	rep, err := c.call(ctx, t, opTransferSalesInvoiceFile, transferParams{Token: t.Token, File: f})
	if err != nil {
		return nil, err
	}
	if rep.fault != "" {
		return &TransferResult{Result: faulted(rep.fault)}, nil
	}
	vals, _ := Extract(rep.body, operationRules...)
	res := &TransferResult{TransferID: vals.String("transferId"), Description: vals.String("description")}
	res.Result = operationOutcome(vals, res.TransferID != "")
	if res.Success && res.TransferID == "" {
		res.Result = missingFields(opTransferSalesInvoiceFile, []string{"TransferFileUniqueId"})
	}
	return res, nil
}

// GetTransferStatus estado de una transferencia previa.
func (c *SOAPClient) GetTransferStatus(ctx context.Context, t Target, transferID string) (*StatusResult, error) {
	return c.status(ctx, t, opGetTransferStatus, transferID)
}

// GetInvoiceStatusByUUID estado por ETTN.
func (c *SOAPClient) GetInvoiceStatusByUUID(ctx context.Context, t Target, dir entity.Direction, uuid string) (*StatusResult, error) {
	op := opGetSalesStatusWithUUID
	if dir == entity.DirectionPurchase {
		op = opGetPurchaseStatusWithUUID
	}
	return c.status(ctx, t, op, uuid)
}

// GetInvoiceStatusByNumber estado por número de factura.
func (c *SOAPClient) GetInvoiceStatusByNumber(ctx context.Context, t Target, dir entity.Direction, number string) (*StatusResult, error) {
	op := opGetSalesStatusWithNumber
	if dir == entity.DirectionPurchase {
		op = opGetPurchaseStatusWithNumber
	}
	return c.status(ctx, t, op, number)
}

// GetInvoiceStatusByIntegrationCode estado por código de integración (solo ventas).
func (c *SOAPClient) GetInvoiceStatusByIntegrationCode(ctx context.Context, t Target, code string) (*StatusResult, error) {
	return c.status(ctx, t, opGetSalesStatusWithIntegration, code)
}

func (c *SOAPClient) status(ctx context.Context, t Target, op, value string) (*StatusResult, error) {
	rep, err := c.call(ctx, t, op, valueParams{Token: t.Token, Value: value})
	if err != nil {
		return nil, err
	}
	if rep.fault != "" {
		return &StatusResult{Result: faulted(rep.fault)}, nil
	}
	vals, missing := Extract(rep.body, statusRules...)
	if len(missing) > 0 {
		return &StatusResult{Result: missingFields(op, missing)}, nil
	}
	return &StatusResult{
		Result: Result{Success: true},
		Status: &entity.TransferStatus{
			StateCode:        vals.Int("stateCode"),
			StateName:        vals.String("stateName"),
			StateDescription: vals.String("stateDescription"),
			AnswerStateCode:  vals.IntPtr("answerStateCode"),
			AnswerTypeCode:   vals.IntPtr("answerTypeCode"),
			ErrorMessage:     vals.String("errorMessage"),
			InvoiceUUID:      vals.String("uuid"),
			InvoiceNumber:    vals.String("number"),
		},
	}, nil
}

// GetInvoiceUUIDList ETTN del rango. Las fechas se envían en hora local del proveedor sin zona.
func (c *SOAPClient) GetInvoiceUUIDList(ctx context.Context, t Target, q UUIDListQuery) (*UUIDListResult, error) {
	op := opGetSalesUUIDList
	switch {
	case q.Direction == entity.DirectionPurchase && q.OnlyUntransferred:
		op = opGetUnTransferredPurchaseList
	case q.Direction == entity.DirectionPurchase:
		op = opGetPurchaseUUIDList
	}
	rep, err := c.call(ctx, t, op, rangeParams{
		Token: t.Token,
		Start: q.From.Format("2006-01-02T15:04:05"),
		End:   q.To.Format("2006-01-02T15:04:05"),
	})
	if err != nil {
		return nil, err
	}
	if rep.fault != "" {
		return &UUIDListResult{Result: faulted(rep.fault)}, nil
	}
	scope := findFirst(rep.body, op+"Result")
	if scope == nil {
		scope = rep.body
	}
	return &UUIDListResult{Result: Result{Success: true}, UUIDs: collectTexts(scope, "string", "guid", "InvoiceUUID", "UUID")}, nil
}

// collectTexts textos no vacíos de los descendientes con cualquiera de los nombres, en preorden.
func collectTexts(scope *etree.Element, locals ...string) []string {
	var out []string
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, c := range el.ChildElements() {
			matched := false
			for _, l := range locals {
				if c.Tag == l {
					matched = true
					break
				}
			}
			if matched {
				if v := textOf(c); v != "" {
					out = append(out, v)
				}
				continue
			}
			walk(c)
		}
	}
	walk(scope)
	return out
}

// DownloadInvoice descarga el documento como zip en base64. Con éxito los datos son obligatorios.
func (c *SOAPClient) DownloadInvoice(ctx context.Context, t Target, dir entity.Direction, uuid string) (*DownloadResult, error) {
	op := opDownloadSalesInvoice
	if dir == entity.DirectionPurchase {
		op = opDownloadPurchaseInvoice
	}
	rep, err := c.call(ctx, t, op, valueParams{Token: t.Token, Value: uuid})
	if err != nil {
		return nil, err
	}
	if rep.fault != "" {
		return &DownloadResult{Result: faulted(rep.fault)}, nil
	}
	vals, _ := Extract(rep.body, downloadRules...)
	res := &DownloadResult{FileName: vals.String("fileName"), BinaryData: vals.String("data")}
	ok, present := vals.Bool("success")
	switch {
	case present && !ok:
		res.Result = failed(firstNonEmpty(vals.String("message"), "el proveedor no entregó el documento"))
	case res.BinaryData == "":
		res.Result = missingFields(op, []string{"BinaryData"})
	default:
		res.Result = Result{Success: true}
	}
	return res, nil
}

// SetInvoiceAnswer envía KABUL, RED o IADE para una factura de compra.
func (c *SOAPClient) SetInvoiceAnswer(ctx context.Context, t Target, uuid, answerCode, note string) (*AnswerResult, error) {
	rep, err := c.call(ctx, t, opSetPurchaseInvoiceAnswer, answerParams{Token: t.Token, Value: uuid, AnswerType: answerCode, Note: note})
	if err != nil {
		return nil, err
	}
	if rep.fault != "" {
		return &AnswerResult{Result: faulted(rep.fault)}, nil
	}
	vals, _ := Extract(rep.body, operationRules...)
	res := &AnswerResult{TransferID: vals.String("transferId"), Description: vals.String("description")}
	res.Result = operationOutcome(vals, true)
	return res, nil
}

// CheckTaxpayer etiquetas registradas para un VKN/TCKN.
func (c *SOAPClient) CheckTaxpayer(ctx context.Context, t Target, registerNumber string) (*TaxpayerResult, error) {
	rep, err := c.call(ctx, t, opGetCustomerAliasList, valueParams{Token: t.Token, Value: registerNumber})
	if err != nil {
		return nil, err
	}
	if rep.fault != "" {
		return &TaxpayerResult{Result: faulted(rep.fault)}, nil
	}
	res := &TaxpayerResult{Result: Result{Success: true}}
	for _, info := range findAll(rep.body, "CustomerAliasInfo") {
		vals, _ := Extract(info, aliasRules...)
		if vals.String("alias") == "" {
			continue
		}
		res.Aliases = append(res.Aliases, TaxpayerAlias{
			Alias:          vals.String("alias"),
			Title:          vals.String("title"),
			RegisterNumber: firstNonEmpty(vals.String("registerNumber"), registerNumber),
			Type:           vals.String("type"),
			CreatedAt:      vals.Date("createdAt"),
		})
	}
	return res, nil
}

// operationOutcome interpreta OperationCompleted; si falta, decide fallback.
func operationOutcome(vals Extracted, fallback bool) Result {
	ok, present := vals.Bool("completed")
	if !present {
		ok = fallback
	}
	if !ok {
		return failed(firstNonEmpty(vals.String("description"), "el proveedor no completó la operación"))
	}
	return Result{Success: true}
}

// Err convierte un Result fallido en error de dominio; nil si tuvo éxito.
func (r Result) Err(op string) error {
	if r.Success {
		return nil
	}
	switch {
	case r.SessionRejected():
		return fmt.Errorf("%w: %s: %s", domain.ErrAuthentication, op, r.Error)
	case r.NotFound():
		return fmt.Errorf("%w: %s: %s", domain.ErrNotFound, op, r.Error)
	default:
		return fmt.Errorf("%w: %s: %s", domain.ErrProviderFault, op, r.Error)
	}
}
