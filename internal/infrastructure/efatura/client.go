// Package efatura implementa el cliente SOAP del servicio de integración del proveedor
// e-Fatura / e-Arşiv y el códec de documentos UBL-TR (base64 → zip → XML).
package efatura

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"golang.org/x/time/rate"

	"github.com/jhoicas/efatura-api/internal/domain"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/pkg/logger"
)

// ── Constantes de protocolo ───────────────────────────────────────────────────

const (
	soapNS         = "http://schemas.xmlsoap.org/soap/envelope/"
	soapNSTempuri  = "http://tempuri.org/"
	dataContractNS = "http://schemas.datacontract.org/2004/07/Integration.Contracts"
	soapActionBase = "http://tempuri.org/IIntegrationService/"

	defaultTimeout  = 60 * time.Second
	maxResponseSize = 16 << 20 // las descargas traen el zip en base64
)

// ── Puerto (interfaz) ─────────────────────────────────────────────────────────

// Target ambiente, servicio y token de sesión de una llamada. Login ignora Token.
type Target struct {
	Environment entity.Environment
	Category    entity.Category
	Token       string
}

// Provider puerto de salida hacia el servicio de integración del proveedor.
// Un error indica fallo de transporte o respuesta ilegible; los rechazos del
// proveedor (SOAP Fault, OperationCompleted=false) llegan como Result.Success=false.
type Provider interface {
	Login(ctx context.Context, t Target, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, t Target) (*Result, error)
	TransferInvoiceFile(ctx context.Context, t Target, f TransferFile) (*TransferResult, error)
	GetTransferStatus(ctx context.Context, t Target, transferID string) (*StatusResult, error)
	GetInvoiceStatusByUUID(ctx context.Context, t Target, dir entity.Direction, uuid string) (*StatusResult, error)
	GetInvoiceStatusByNumber(ctx context.Context, t Target, dir entity.Direction, number string) (*StatusResult, error)
	GetInvoiceStatusByIntegrationCode(ctx context.Context, t Target, code string) (*StatusResult, error)
	GetInvoiceUUIDList(ctx context.Context, t Target, q UUIDListQuery) (*UUIDListResult, error)
	DownloadInvoice(ctx context.Context, t Target, dir entity.Direction, uuid string) (*DownloadResult, error)
	SetInvoiceAnswer(ctx context.Context, t Target, uuid, answerCode, note string) (*AnswerResult, error)
	CheckTaxpayer(ctx context.Context, t Target, registerNumber string) (*TaxpayerResult, error)
}

// CallObserver recibe una observación por llamada remota (métricas).
type CallObserver interface {
	ObserveCall(operation, outcome string, elapsed time.Duration)
}

// ── Endpoints ─────────────────────────────────────────────────────────────────

// Endpoints URL del servicio por ambiente y categoría.
type Endpoints struct {
	EInvoiceTest string
	EInvoiceProd string
	EArchiveTest string
	EArchiveProd string
}

// URL resuelve el endpoint; error de validación si la combinación no está configurada.
func (e Endpoints) URL(env entity.Environment, cat entity.Category) (string, error) {
	var u string
	switch {
	case env == entity.EnvironmentTest && cat == entity.CategoryEInvoice:
		u = e.EInvoiceTest
	case env == entity.EnvironmentProd && cat == entity.CategoryEInvoice:
		u = e.EInvoiceProd
	case env == entity.EnvironmentTest && cat == entity.CategoryEArchive:
		u = e.EArchiveTest
	case env == entity.EnvironmentProd && cat == entity.CategoryEArchive:
		u = e.EArchiveProd
	default:
		return "", &domain.ValidationError{Field: "target", Value: string(env) + "/" + string(cat), Message: "ambiente o categoría desconocidos"}
	}
	if u == "" {
		return "", &domain.ValidationError{Field: "endpoint", Value: string(env) + "/" + string(cat), Message: "endpoint no configurado"}
	}
	return u, nil
}

// ── Implementación SOAP ───────────────────────────────────────────────────────

// Options configuración del cliente.
type Options struct {
	Endpoints  Endpoints
	Timeout    time.Duration // 0 = 60 s
	RPS        float64       // 0 = sin límite de ritmo
	HTTPClient *http.Client  // opcional, para tests
	Observer   CallObserver  // opcional
	Logger     *logger.Logger

	MaxResponseSize int64 // 0 = 16 MiB
}

// SOAPClient implementa Provider con envelopes literales sobre net/http.
// No guarda estado entre llamadas salvo el limitador de ritmo.
type SOAPClient struct {
	httpClient *http.Client
	endpoints  Endpoints
	limiter    *rate.Limiter
	observer   CallObserver
	log        *logger.Logger
	maxBody    int64
}

var _ Provider = (*SOAPClient)(nil)

// NewSOAPClient construye el cliente. El WS del proveedor puede tardar varios segundos.
func NewSOAPClient(opts Options) *SOAPClient {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	var limiter *rate.Limiter
	if opts.RPS > 0 {
		burst := int(opts.RPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	maxBody := opts.MaxResponseSize
	if maxBody <= 0 {
		maxBody = maxResponseSize
	}
	return &SOAPClient{
		httpClient: hc,
		endpoints:  opts.Endpoints,
		limiter:    limiter,
		observer:   opts.Observer,
		log:        log.Component("soap"),
		maxBody:    maxBody,
	}
}

// reply respuesta SOAP ya parseada: Body o, si hubo Fault, su mensaje.
type reply struct {
	body  *etree.Element
	fault string
}

// call envía un envelope y clasifica la respuesta:
//   - transporte caído o HTTP no-2xx sin Fault → *domain.NetworkError
//   - cuerpo que no es XML → domain.ErrMalformedResponse
//   - SOAP Fault (cualquier código HTTP) → reply.fault, sin error
func (c *SOAPClient) call(ctx context.Context, t Target, op string, params any) (*reply, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		if c.observer != nil {
			c.observer.ObserveCall(op, outcome, time.Since(start))
		}
	}()

	endpoint, err := c.endpoints.URL(t.Environment, t.Category)
	if err != nil {
		return nil, err
	}
	payload, err := renderEnvelope(op, params)
	if err != nil {
		return nil, fmt.Errorf("soap: %s: armar envelope: %w", op, err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &domain.NetworkError{Operation: op, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("soap: %s: crear request: %w", op, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", soapActionBase+op)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("timeout o cancelación: %w", ctx.Err())
		}
		return nil, &domain.NetworkError{Operation: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &domain.NetworkError{Operation: op, StatusCode: resp.StatusCode, Err: err}
	}
	if int64(len(raw)) > c.maxBody {
		outcome = "malformed"
		return nil, fmt.Errorf("%w: %s: respuesta supera %d bytes", domain.ErrMalformedResponse, op, c.maxBody)
	}
	ok2xx := resp.StatusCode >= 200 && resp.StatusCode < 300

	root, perr := parseXML(raw)
	if perr != nil {
		if !ok2xx {
			outcome = "http_error"
			return nil, &domain.NetworkError{Operation: op, StatusCode: resp.StatusCode}
		}
		outcome = "malformed"
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedResponse, op, perr)
	}
	if msg, ok := faultMessage(root); ok {
		outcome = "fault"
		c.log.Debug().Str("operation", op).Int("status", resp.StatusCode).Str("fault", msg).Msg("SOAP Fault del proveedor")
		return &reply{fault: msg}, nil
	}
	if !ok2xx {
		outcome = "http_error"
		return nil, &domain.NetworkError{Operation: op, StatusCode: resp.StatusCode}
	}

	body := findFirst(root, "Body")
	if body == nil {
		body = root
	}
	outcome = "ok"
	return &reply{body: body}, nil
}

// parseXML lee la respuesta con etree. Sin elemento raíz = no es XML.
func parseXML(raw []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("respuesta sin elemento raíz")
	}
	return root, nil
}
