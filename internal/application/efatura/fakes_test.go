package efatura_test

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appefatura "github.com/jhoicas/efatura-api/internal/application/efatura"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/internal/infrastructure/cache"
	infraefatura "github.com/jhoicas/efatura-api/internal/infrastructure/efatura"
	"github.com/jhoicas/efatura-api/internal/infrastructure/memory"
)

const (
	tenantID = "tenant-1"
	uuidA    = "F47AC10B-58CC-4372-A567-0E02B2C3D479"
	uuidB    = "0B1E3C5A-7D9F-4E21-8C3B-5A6D7E8F9012"
)

// fakeProvider Provider en memoria. Cada hook nil responde con un éxito mínimo.
type fakeProvider struct {
	mu    sync.Mutex
	calls map[string]int

	login    func(ctx context.Context, t infraefatura.Target) (*infraefatura.LoginResult, error)
	status   func(ctx context.Context, op, value string) (*infraefatura.StatusResult, error)
	list     func(q infraefatura.UUIDListQuery) (*infraefatura.UUIDListResult, error)
	download func(uuid string) (*infraefatura.DownloadResult, error)
	transfer func(f infraefatura.TransferFile) (*infraefatura.TransferResult, error)
	answer   func(uuid, code, note string) (*infraefatura.AnswerResult, error)
	taxpayer func(id string) (*infraefatura.TaxpayerResult, error)
}

var _ infraefatura.Provider = (*fakeProvider)(nil)

func newFakeProvider() *fakeProvider {
	return &fakeProvider{calls: make(map[string]int)}
}

func (f *fakeProvider) record(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *fakeProvider) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeProvider) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

var ok = infraefatura.Result{Success: true}

func (f *fakeProvider) Login(ctx context.Context, t infraefatura.Target, _, _ string) (*infraefatura.LoginResult, error) {
	f.record("Login")
	if f.login != nil {
		return f.login(ctx, t)
	}
	return &infraefatura.LoginResult{Result: ok, Token: "tok-" + string(t.Category)}, nil
}

func (f *fakeProvider) Logout(context.Context, infraefatura.Target) (*infraefatura.Result, error) {
	f.record("Logout")
	return &infraefatura.Result{Success: true}, nil
}

func (f *fakeProvider) TransferInvoiceFile(_ context.Context, _ infraefatura.Target, file infraefatura.TransferFile) (*infraefatura.TransferResult, error) {
	f.record("TransferInvoiceFile")
	if f.transfer != nil {
		return f.transfer(file)
	}
	return &infraefatura.TransferResult{Result: ok, TransferID: "TR-1"}, nil
}

func (f *fakeProvider) GetTransferStatus(ctx context.Context, _ infraefatura.Target, id string) (*infraefatura.StatusResult, error) {
	return f.statusCall(ctx, "GetTransferStatus", id)
}

func (f *fakeProvider) GetInvoiceStatusByUUID(ctx context.Context, _ infraefatura.Target, _ entity.Direction, uuid string) (*infraefatura.StatusResult, error) {
	return f.statusCall(ctx, "ByUUID", uuid)
}

func (f *fakeProvider) GetInvoiceStatusByNumber(ctx context.Context, _ infraefatura.Target, _ entity.Direction, number string) (*infraefatura.StatusResult, error) {
	return f.statusCall(ctx, "ByNumber", number)
}

func (f *fakeProvider) GetInvoiceStatusByIntegrationCode(ctx context.Context, _ infraefatura.Target, code string) (*infraefatura.StatusResult, error) {
	return f.statusCall(ctx, "ByIntegrationCode", code)
}

func (f *fakeProvider) statusCall(ctx context.Context, op, value string) (*infraefatura.StatusResult, error) {
	f.record(op)
	if f.status != nil {
		return f.status(ctx, op, value)
	}
	return statusOf(3, nil), nil
}

func (f *fakeProvider) GetInvoiceUUIDList(_ context.Context, _ infraefatura.Target, q infraefatura.UUIDListQuery) (*infraefatura.UUIDListResult, error) {
	f.record("GetInvoiceUUIDList")
	if f.list != nil {
		return f.list(q)
	}
	return &infraefatura.UUIDListResult{Result: ok}, nil
}

func (f *fakeProvider) DownloadInvoice(_ context.Context, _ infraefatura.Target, _ entity.Direction, uuid string) (*infraefatura.DownloadResult, error) {
	f.record("DownloadInvoice")
	if f.download != nil {
		return f.download(uuid)
	}
	return &infraefatura.DownloadResult{Result: infraefatura.Result{Error: "Fatura bulunamadı"}}, nil
}

func (f *fakeProvider) SetInvoiceAnswer(_ context.Context, _ infraefatura.Target, uuid, code, note string) (*infraefatura.AnswerResult, error) {
	f.record("SetInvoiceAnswer")
	if f.answer != nil {
		return f.answer(uuid, code, note)
	}
	return &infraefatura.AnswerResult{Result: ok}, nil
}

func (f *fakeProvider) CheckTaxpayer(_ context.Context, _ infraefatura.Target, id string) (*infraefatura.TaxpayerResult, error) {
	f.record("CheckTaxpayer")
	if f.taxpayer != nil {
		return f.taxpayer(id)
	}
	return &infraefatura.TaxpayerResult{Result: ok}, nil
}

func statusOf(code int, answer *int) *infraefatura.StatusResult {
	return &infraefatura.StatusResult{Result: ok, Status: &entity.TransferStatus{StateCode: code, AnswerTypeCode: answer, StateName: "estado"}}
}

func intPtr(v int) *int { return &v }

// clock reloj manual.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock { return &clock{now: time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func noSleep(context.Context, time.Duration) error { return nil }

// harness servicios cableados sobre adaptadores en memoria.
type harness struct {
	provider   *fakeProvider
	clock      *clock
	store      *memory.EInvoiceRepository
	accounts   *memory.ProviderAccountRepository
	sessions   *appefatura.SessionManager
	reconciler *appefatura.Reconciler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		provider: newFakeProvider(),
		clock:    newClock(),
		accounts: memory.NewProviderAccountRepository(entity.ProviderAccount{
			TenantID: tenantID, Username: "usuario", Password: "clave", Environment: entity.EnvironmentTest,
		}),
	}
	h.store = memory.NewEInvoiceRepository().WithClock(h.clock.Now)
	h.sessions = appefatura.NewSessionManager(h.provider, cache.NewMemorySessionStore(), 0, nil, nil).WithClock(h.clock.Now)
	h.reconciler = appefatura.NewReconciler(h.provider, h.accounts, h.sessions, h.store,
		appefatura.ReconcilerConfig{MaxFetch: 50}, nil, nil).WithClock(h.clock.Now, noSleep)
	return h
}

const sampleInvoiceXML = `<?xml version="1.0" encoding="UTF-8"?>
<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
  xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
  xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2">
  <cbc:ProfileID>TICARIFATURA</cbc:ProfileID>
  <cbc:ID>FAT2026000000001</cbc:ID>
  <cbc:UUID>f47ac10b-58cc-4372-a567-0e02b2c3d479</cbc:UUID>
  <cbc:IssueDate>2026-03-15</cbc:IssueDate>
  <cbc:InvoiceTypeCode>SATIS</cbc:InvoiceTypeCode>
  <cbc:DocumentCurrencyCode>TRY</cbc:DocumentCurrencyCode>
  <cac:AccountingSupplierParty><cac:Party>
    <cac:PartyIdentification><cbc:ID schemeID="VKN">1234567890</cbc:ID></cac:PartyIdentification>
    <cac:PartyName><cbc:Name>Satıcı Ticaret A.Ş.</cbc:Name></cac:PartyName>
  </cac:Party></cac:AccountingSupplierParty>
  <cac:AccountingCustomerParty><cac:Party>
    <cac:PartyIdentification><cbc:ID schemeID="TCKN">10000000146</cbc:ID></cac:PartyIdentification>
  </cac:Party></cac:AccountingCustomerParty>
  <cac:TaxTotal><cbc:TaxAmount currencyID="TRY">180.00</cbc:TaxAmount></cac:TaxTotal>
  <cac:LegalMonetaryTotal>
    <cbc:TaxExclusiveAmount currencyID="TRY">1000.00</cbc:TaxExclusiveAmount>
    <cbc:PayableAmount currencyID="TRY">1180.00</cbc:PayableAmount>
  </cac:LegalMonetaryTotal>
  <cac:InvoiceLine>
    <cbc:ID>1</cbc:ID>
    <cbc:InvoicedQuantity unitCode="C62">10</cbc:InvoicedQuantity>
    <cbc:LineExtensionAmount currencyID="TRY">1000.00</cbc:LineExtensionAmount>
    <cac:TaxTotal><cac:TaxSubtotal><cbc:TaxAmount currencyID="TRY">180.00</cbc:TaxAmount><cbc:Percent>18</cbc:Percent></cac:TaxSubtotal></cac:TaxTotal>
    <cac:Item><cbc:Name>Endüstriyel Vana</cbc:Name></cac:Item>
    <cac:Price><cbc:PriceAmount currencyID="TRY">100.00</cbc:PriceAmount></cac:Price>
  </cac:InvoiceLine>
</Invoice>`

// zipped documento como lo entrega DownloadInvoice.
func zipped(t *testing.T, xml string) string {
	t.Helper()
	z, err := infraefatura.CompressXMLToZip([]byte(xml), "doc.xml")
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(z)
}
