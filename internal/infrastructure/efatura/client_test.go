package efatura_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/efatura-api/internal/domain"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
	infraefatura "github.com/jhoicas/efatura-api/internal/infrastructure/efatura"
)

// fakeService servidor SOAP de pruebas: responde según el SOAPAction recibido.
type fakeService struct {
	mu       sync.Mutex
	requests []capturedRequest
	handler  func(action, body string) (status int, response string)
}

type capturedRequest struct {
	Action      string
	ContentType string
	Body        string
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	action := r.Header.Get("SOAPAction")
	f.mu.Lock()
	f.requests = append(f.requests, capturedRequest{Action: action, ContentType: r.Header.Get("Content-Type"), Body: string(raw)})
	f.mu.Unlock()
	status, resp := f.handler(action, string(raw))
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp))
}

func (f *fakeService) last() capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeService) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type observation struct {
	Operation string
	Outcome   string
}

type recordingObserver struct {
	mu  sync.Mutex
	obs []observation
}

func (r *recordingObserver) ObserveCall(op, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.obs = append(r.obs, observation{op, outcome})
}

func newTestClient(t *testing.T, handler func(action, body string) (int, string)) (*infraefatura.SOAPClient, *fakeService, *recordingObserver) {
	t.Helper()
	svc := &fakeService{handler: handler}
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	obs := &recordingObserver{}
	client := infraefatura.NewSOAPClient(infraefatura.Options{
		Endpoints: infraefatura.Endpoints{EInvoiceTest: srv.URL, EArchiveTest: srv.URL + "/earchive"},
		Timeout:   5 * time.Second,
		Observer:  obs,
	})
	return client, svc, obs
}

var testTarget = infraefatura.Target{Environment: entity.EnvironmentTest, Category: entity.CategoryEInvoice, Token: "TOKEN-1"}

// ──────────────────────────────────────────────────────────────────────────────
// Login / Logout
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Exitoso(t *testing.T) {
	client, svc, obs := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<LoginResponse xmlns="http://tempuri.org/"><LoginResult>TOKEN-1</LoginResult></LoginResponse>`)
	})

	res, err := client.Login(context.Background(), testTarget, "usuario<1>", "clave&\"x\"")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "TOKEN-1", res.Token)

	req := svc.last()
	assert.Equal(t, "http://tempuri.org/IIntegrationService/Login", req.Action)
	assert.Equal(t, "text/xml; charset=utf-8", req.ContentType)
	assert.Contains(t, req.Body, "usuario&lt;1&gt;")
	assert.Contains(t, req.Body, "clave&amp;&#34;x&#34;")
	assert.NotContains(t, req.Body, "usuario<1>")
	assert.Equal(t, []observation{{"Login", "ok"}}, obs.obs)
}

func TestLogin_SinTokenEsFallido(t *testing.T) {
	client, _, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<LoginResponse xmlns="http://tempuri.org/"><LoginResult/></LoginResponse>`)
	})

	res, err := client.Login(context.Background(), testTarget, "u", "p")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, res.Token)
	assert.Contains(t, res.Error, "token")
}

func TestLogin_FaultConHTTP500(t *testing.T) {
	client, _, obs := newTestClient(t, func(string, string) (int, string) {
		return 500, soapEnvelope(`<s:Fault><faultcode>s:Client</faultcode><faultstring>Kullanıcı adı veya şifre hatalı</faultstring></s:Fault>`)
	})

	res, err := client.Login(context.Background(), testTarget, "u", "p")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, res.Fault)
	assert.Equal(t, "[s:Client] Kullanıcı adı veya şifre hatalı", res.Error)
	assert.Equal(t, "fault", obs.obs[0].Outcome)
}

func TestLogout_RespuestaVaciaEsExito(t *testing.T) {
	client, svc, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<LogoutResponse xmlns="http://tempuri.org/"/>`)
	})

	res, err := client.Logout(context.Background(), testTarget)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, svc.last().Body, "<tem:sessionCode>TOKEN-1</tem:sessionCode>")
}

// ──────────────────────────────────────────────────────────────────────────────
// Clasificación de errores de transporte
// ──────────────────────────────────────────────────────────────────────────────

func TestCall_HTTP500SinFaultEsErrorDeRed(t *testing.T) {
	client, _, obs := newTestClient(t, func(string, string) (int, string) {
		return 500, "Internal Server Error"
	})

	_, err := client.GetInvoiceStatusByUUID(context.Background(), testTarget, entity.DirectionSales, sampleUUID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	var netErr *domain.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, 500, netErr.StatusCode)
	assert.Equal(t, "http_error", obs.obs[0].Outcome)
}

func TestCall_CuerpoNoXMLEsMalformado(t *testing.T) {
	client, _, obs := newTestClient(t, func(string, string) (int, string) {
		return 200, "servicio en mantenimiento"
	})

	_, err := client.GetInvoiceStatusByUUID(context.Background(), testTarget, entity.DirectionSales, sampleUUID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Equal(t, "malformed", obs.obs[0].Outcome)
}

func TestCall_RespuestaDemasiadoGrandeEsMalformada(t *testing.T) {
	svc := &fakeService{handler: func(string, string) (int, string) {
		return 200, soapEnvelope(`<LoginResponse><LoginResult>` + strings.Repeat("A", 2048) + `</LoginResult></LoginResponse>`)
	}}
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	obs := &recordingObserver{}
	client := infraefatura.NewSOAPClient(infraefatura.Options{
		Endpoints:       infraefatura.Endpoints{EInvoiceTest: srv.URL},
		Observer:        obs,
		MaxResponseSize: 1024,
	})

	res, err := client.Login(context.Background(), testTarget, "u", "p")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	assert.Contains(t, err.Error(), "supera 1024 bytes")
	assert.Equal(t, "malformed", obs.obs[0].Outcome)
}

func TestCall_RespuestaEnElLimiteSeAcepta(t *testing.T) {
	body := soapEnvelope(`<LoginResponse><LoginResult>TOKEN-9</LoginResult></LoginResponse>`)
	svc := &fakeService{handler: func(string, string) (int, string) { return 200, body }}
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	client := infraefatura.NewSOAPClient(infraefatura.Options{
		Endpoints:       infraefatura.Endpoints{EInvoiceTest: srv.URL},
		MaxResponseSize: int64(len(body)),
	})

	res, err := client.Login(context.Background(), testTarget, "u", "p")
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestCall_EndpointNoConfiguradoNoLlamaAlServidor(t *testing.T) {
	client, svc, _ := newTestClient(t, func(string, string) (int, string) { return 200, soapEnvelope("") })

	prod := testTarget
	prod.Environment = entity.EnvironmentProd
	_, err := client.GetInvoiceStatusByUUID(context.Background(), prod, entity.DirectionSales, sampleUUID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, svc.count())
}

func TestCall_ContextoCancelado(t *testing.T) {
	client, _, _ := newTestClient(t, func(string, string) (int, string) { return 200, soapEnvelope("") })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Login(ctx, testTarget, "u", "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCall_CategoriaEligeEndpoint(t *testing.T) {
	var path string
	svc := &fakeService{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		svc.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	svc.handler = func(string, string) (int, string) {
		return 200, soapEnvelope(`<LoginResponse><LoginResult>A</LoginResult></LoginResponse>`)
	}
	client := infraefatura.NewSOAPClient(infraefatura.Options{
		Endpoints: infraefatura.Endpoints{EInvoiceTest: srv.URL + "/efatura", EArchiveTest: srv.URL + "/earsiv"},
	})

	target := testTarget
	target.Category = entity.CategoryEArchive
	_, err := client.Login(context.Background(), target, "u", "p")
	require.NoError(t, err)
	assert.Equal(t, "/earsiv", path)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado
// ──────────────────────────────────────────────────────────────────────────────

func TestGetInvoiceStatus_Entregada(t *testing.T) {
	client, svc, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<GetSalesInvoiceStatusWithInvoiceUUIDResponse xmlns="http://tempuri.org/">
			<GetSalesInvoiceStatusWithInvoiceUUIDResult xmlns:a="http://schemas.datacontract.org/2004/07/Integration.Contracts"
			  xmlns:i="http://www.w3.org/2001/XMLSchema-instance">
				<a:AnswerStateCode i:nil="true"/>
				<a:InvoiceUUID>` + sampleUUID + `</a:InvoiceUUID>
				<a:StateCode>5</a:StateCode>
				<a:StateName>Başarılı</a:StateName>
				<a:StateDescription>Fatura alıcıya ulaştı</a:StateDescription>
			</GetSalesInvoiceStatusWithInvoiceUUIDResult>
		</GetSalesInvoiceStatusWithInvoiceUUIDResponse>`)
	})

	res, err := client.GetInvoiceStatusByUUID(context.Background(), testTarget, entity.DirectionSales, sampleUUID)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.Status)
	assert.Equal(t, 5, res.Status.StateCode)
	assert.Equal(t, "Başarılı", res.Status.StateName)
	assert.Equal(t, "Fatura alıcıya ulaştı", res.Status.StateDescription)
	assert.Nil(t, res.Status.AnswerStateCode)
	assert.Equal(t, sampleUUID, res.Status.InvoiceUUID)
	assert.Equal(t, "http://tempuri.org/IIntegrationService/GetSalesInvoiceStatusWithInvoiceUUID", svc.last().Action)
}

func TestGetInvoiceStatus_ValorEnvueltoYAtributo(t *testing.T) {
	client, _, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<R><Result>
			<StateCode><Value>4</Value></StateCode>
			<AnswerStateCode value="5"/>
			<ErrorMessage>Şema hatası</ErrorMessage>
		</Result></R>`)
	})

	res, err := client.GetInvoiceStatusByNumber(context.Background(), testTarget, entity.DirectionPurchase, "FAT2026000000001")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Status.StateCode)
	require.NotNil(t, res.Status.AnswerStateCode)
	assert.Equal(t, 5, *res.Status.AnswerStateCode)
	assert.Equal(t, "Şema hatası", res.Status.ErrorMessage)
}

func TestGetInvoiceStatus_ResultadoVacioEsFallido(t *testing.T) {
	client, _, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<GetSalesInvoiceStatusWithInvoiceUUIDResponse xmlns="http://tempuri.org/">
			<GetSalesInvoiceStatusWithInvoiceUUIDResult/>
		</GetSalesInvoiceStatusWithInvoiceUUIDResponse>`)
	})

	res, err := client.GetInvoiceStatusByUUID(context.Background(), testTarget, entity.DirectionSales, sampleUUID)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Nil(t, res.Status)
	assert.Contains(t, res.Error, "stateCode")
	assert.False(t, res.SessionRejected())
	assert.False(t, res.NotFound())
	assert.ErrorIs(t, res.Err("estado"), domain.ErrProviderFault)
}

func TestGetInvoiceStatus_DireccionEligeOperacion(t *testing.T) {
	client, svc, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<R><StateCode>2</StateCode></R>`)
	})
	ctx := context.Background()

	_, err := client.GetInvoiceStatusByUUID(ctx, testTarget, entity.DirectionPurchase, sampleUUID)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(svc.last().Action, "/GetPurchaseInvoiceStatusWithInvoiceUUID"))

	_, err = client.GetInvoiceStatusByIntegrationCode(ctx, testTarget, "ERP-42")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(svc.last().Action, "/GetSalesInvoiceStatusWithIntegrationCode"))
	assert.Contains(t, svc.last().Body, "<tem:integrationCode>ERP-42</tem:integrationCode>")
}

func TestGetInvoiceStatus_SesionVencida(t *testing.T) {
	client, _, _ := newTestClient(t, func(string, string) (int, string) {
		return 500, soapEnvelope(`<s:Fault><faultstring>Oturum süresi doldu</faultstring></s:Fault>`)
	})

	res, err := client.GetInvoiceStatusByUUID(context.Background(), testTarget, entity.DirectionSales, sampleUUID)
	require.NoError(t, err)
	assert.True(t, res.SessionRejected())
	assert.ErrorIs(t, res.Err("estado"), domain.ErrAuthentication)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado, descarga, respuesta, transferencia y contribuyentes
// ──────────────────────────────────────────────────────────────────────────────

func TestGetInvoiceUUIDList(t *testing.T) {
	client, svc, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<GetPurchaseInvoiceUUIDListResponse xmlns="http://tempuri.org/">
			<GetPurchaseInvoiceUUIDListResult xmlns:b="http://schemas.microsoft.com/2003/10/Serialization/Arrays">
				<b:string>` + sampleUUID + `</b:string>
				<b:string>no-es-uuid</b:string>
				<b:string></b:string>
			</GetPurchaseInvoiceUUIDListResult>
		</GetPurchaseInvoiceUUIDListResponse>`)
	})

	res, err := client.GetInvoiceUUIDList(context.Background(), testTarget, infraefatura.UUIDListQuery{
		Direction: entity.DirectionPurchase,
		From:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{sampleUUID, "no-es-uuid"}, res.UUIDs)
	assert.Contains(t, svc.last().Body, "<tem:startDate>2026-01-01T00:00:00</tem:startDate>")
	assert.Contains(t, svc.last().Body, "<tem:endDate>2026-01-31T23:59:59</tem:endDate>")
}

func TestGetInvoiceUUIDList_SoloNoTransferidas(t *testing.T) {
	client, svc, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<X/>`)
	})

	res, err := client.GetInvoiceUUIDList(context.Background(), testTarget, infraefatura.UUIDListQuery{
		Direction: entity.DirectionPurchase, OnlyUntransferred: true,
		From: time.Now().Add(-time.Hour), To: time.Now(),
	})
	require.NoError(t, err)
	assert.Empty(t, res.UUIDs)
	assert.True(t, strings.HasSuffix(svc.last().Action, "/GetUnTransferredPurchaseInvoiceUUIDList"))
}

func TestDownloadInvoice(t *testing.T) {
	payload := zippedPayload(t, sampleInvoiceXML, sampleUUID+".xml")
	client, _, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<DownloadSalesInvoiceWithInvoiceUUIDResponse><DownloadSalesInvoiceWithInvoiceUUIDResult>
			<IsSucccess>true</IsSucccess>
			<DownloadFile><FileNameWithExtension>` + sampleUUID + `.zip</FileNameWithExtension><FileData>` + payload + `</FileData></DownloadFile>
		</DownloadSalesInvoiceWithInvoiceUUIDResult></DownloadSalesInvoiceWithInvoiceUUIDResponse>`)
	})

	res, err := client.DownloadInvoice(context.Background(), testTarget, entity.DirectionSales, sampleUUID)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, payload, res.BinaryData)
	assert.Equal(t, sampleUUID+".zip", res.FileName)

	inv, err := infraefatura.NewDocumentCodec().Decode(res.BinaryData)
	require.NoError(t, err)
	assert.Equal(t, "FAT2026000000001", inv.Number)
}

func TestDownloadInvoice_ExitoSinDatosEsFallido(t *testing.T) {
	client, _, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<R><IsSucccess>true</IsSucccess></R>`)
	})

	res, err := client.DownloadInvoice(context.Background(), testTarget, entity.DirectionPurchase, sampleUUID)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestDownloadInvoice_NoEncontrada(t *testing.T) {
	client, _, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<R><IsSucccess>false</IsSucccess><Message>Fatura bulunamadı</Message></R>`)
	})

	res, err := client.DownloadInvoice(context.Background(), testTarget, entity.DirectionPurchase, sampleUUID)
	require.NoError(t, err)
	assert.True(t, res.NotFound())
	assert.ErrorIs(t, res.Err("descarga"), domain.ErrNotFound)
}

func TestSetInvoiceAnswer(t *testing.T) {
	client, svc, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<R><OperationCompleted>true</OperationCompleted><TransferFileUniqueId>T-9</TransferFileUniqueId></R>`)
	})

	res, err := client.SetInvoiceAnswer(context.Background(), testTarget, sampleUUID, "RED", "Eksik teslimat & hasar")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "T-9", res.TransferID)
	body := svc.last().Body
	assert.Contains(t, body, "<tem:answerType>RED</tem:answerType>")
	assert.Contains(t, body, "Eksik teslimat &amp; hasar")
}

func TestTransferInvoiceFile(t *testing.T) {
	client, svc, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<R><OperationCompleted>true</OperationCompleted><TransferFileUniqueId>TR-1</TransferFileUniqueId></R>`)
	})
	file, err := infraefatura.BuildTransferFile([]byte(sampleInvoiceXML), sampleUUID, "urn:mail:defaultpk@alici.com", "ERP-1")
	require.NoError(t, err)

	res, err := client.TransferInvoiceFile(context.Background(), testTarget, file)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "TR-1", res.TransferID)
	body := svc.last().Body
	assert.Contains(t, body, "<dc:FileNameWithExtension>"+sampleUUID+".zip</dc:FileNameWithExtension>")
	assert.Contains(t, body, "<dc:BinaryDataHash>"+file.BinaryDataHash+"</dc:BinaryDataHash>")
	assert.Contains(t, body, "<dc:IsDirectSend>true</dc:IsDirectSend>")
}

func TestTransferInvoiceFile_NoCompletada(t *testing.T) {
	client, _, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<R><OperationCompleted>false</OperationCompleted><Description>Hash uyuşmuyor</Description></R>`)
	})

	res, err := client.TransferInvoiceFile(context.Background(), testTarget, infraefatura.TransferFile{FileName: "x.zip"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Hash uyuşmuyor", res.Error)
	assert.ErrorIs(t, res.Err("transferencia"), domain.ErrProviderFault)
}

func TestCheckTaxpayer(t *testing.T) {
	client, _, _ := newTestClient(t, func(string, string) (int, string) {
		return 200, soapEnvelope(`<R><Result>
			<CustomerAliasInfo><Alias>urn:mail:defaultpk@alici.com</Alias><Title>Alıcı Ltd.</Title><AliasType>PK</AliasType><FirstCreationTime>2020-01-02T10:00:00</FirstCreationTime></CustomerAliasInfo>
			<CustomerAliasInfo><Alias></Alias></CustomerAliasInfo>
		</Result></R>`)
	})

	res, err := client.CheckTaxpayer(context.Background(), testTarget, "1234567890")
	require.NoError(t, err)
	require.Len(t, res.Aliases, 1)
	a := res.Aliases[0]
	assert.Equal(t, "urn:mail:defaultpk@alici.com", a.Alias)
	assert.Equal(t, "Alıcı Ltd.", a.Title)
	assert.Equal(t, "1234567890", a.RegisterNumber)
	assert.Equal(t, "PK", a.Type)
	assert.Equal(t, 2020, a.CreatedAt.Year())
}
