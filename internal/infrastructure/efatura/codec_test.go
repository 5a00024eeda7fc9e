package efatura_test

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/efatura-api/internal/domain"
	infraefatura "github.com/jhoicas/efatura-api/internal/infrastructure/efatura"
	pkgefatura "github.com/jhoicas/efatura-api/pkg/efatura"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Decodificación completa
// ──────────────────────────────────────────────────────────────────────────────

func TestDecode_ZipCompleto(t *testing.T) {
	codec := infraefatura.NewDocumentCodec()

	doc, err := codec.DecodeDocument(zippedPayload(t, sampleInvoiceXML, sampleUUID+".xml"))
	require.NoError(t, err)
	assert.Equal(t, sampleUUID+".xml", doc.FileName)
	assert.Len(t, doc.Hash, 64)

	inv := doc.Invoice
	assert.Equal(t, "FAT2026000000001", inv.Number)
	assert.Equal(t, sampleUUID, inv.UUID)
	assert.Equal(t, "TRY", inv.CurrencyCode)
	assert.Equal(t, "SATIS", inv.DocumentType)
	assert.Equal(t, "TICARIFATURA", inv.DocumentProfile)
	assert.Equal(t, time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC), inv.IssueDate)
	require.NotNil(t, inv.DueDate)
	assert.Equal(t, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), *inv.DueDate)
	assert.True(t, inv.PayableAmount.Equal(dec("1180.00")))
	assert.True(t, inv.TaxExclusiveAmount.Equal(dec("1000")))
	assert.True(t, inv.TaxAmount.Equal(dec("180")))
	assert.Equal(t, []string{"Teslimat depoya yapılacaktır"}, inv.Notes)

	require.Len(t, inv.LineItems, 1)
	line := inv.LineItems[0]
	assert.Equal(t, 1, line.LineNumber)
	assert.Equal(t, "Endüstriyel Vana", line.Description)
	assert.Equal(t, "VANA-001", line.ProductCode)
	assert.Equal(t, "8481", line.ClassificationCode)
	assert.Equal(t, "C62", line.UnitCode)
	assert.Equal(t, "Adet", line.UnitName)
	assert.True(t, line.Quantity.Equal(dec("10")))
	assert.True(t, line.UnitPrice.Equal(dec("100")))
	assert.True(t, line.VATRatePercent.Equal(dec("18")))
	assert.True(t, line.VATAmount.Equal(dec("180")))
	assert.True(t, line.TotalAmount.Equal(dec("1000")))
	assert.True(t, line.DiscountAmount.IsZero())
}

func TestDecode_Partes(t *testing.T) {
	inv, err := infraefatura.NewDocumentCodec().Decode(zippedPayload(t, sampleInvoiceXML, "doc.xml"))
	require.NoError(t, err)

	s := inv.Supplier
	assert.Equal(t, "Satıcı Ticaret A.Ş.", s.Name)
	assert.Equal(t, "1234567890", s.TaxID)
	assert.Equal(t, pkgefatura.SchemeVKN, s.TaxIDScheme)
	assert.Equal(t, "Kadıköy VD", s.TaxOffice)
	assert.Equal(t, "Atatürk Caddesi", s.Address.Street)
	assert.Equal(t, "12", s.Address.BuildingNo)
	assert.Equal(t, "Kadıköy", s.Address.District)
	assert.Equal(t, "İstanbul", s.Address.City)
	assert.Equal(t, "34710", s.Address.PostalZone)
	assert.Equal(t, "Türkiye", s.Address.Country)
	assert.Equal(t, "info@satici.example.com", s.Contact.Email)
	assert.Equal(t, "https://satici.example.com", s.Contact.Website)

	c := inv.Customer
	assert.Equal(t, "Ayşe Yılmaz", c.Name)
	assert.Equal(t, "10000000146", c.TaxID)
	assert.Equal(t, pkgefatura.SchemeTCKN, c.TaxIDScheme)
}

func TestDecode_PrioridadDelIdentificadorFiscal(t *testing.T) {
	cases := []struct {
		name   string
		party  string
		id     string
		scheme string
	}{
		{
			name: "VKN antes que TCKN aunque aparezca después",
			party: `<PartyIdentification><ID schemeID="TCKN">10000000146</ID></PartyIdentification>` +
				`<PartyIdentification><ID schemeID="vkn">1234567890</ID></PartyIdentification>`,
			id: "1234567890", scheme: pkgefatura.SchemeVKN,
		},
		{
			name:  "CompanyID sin forma de VKN",
			party: `<PartyTaxScheme><CompanyID>TR-998877</CompanyID></PartyTaxScheme>`,
			id:    "TR-998877", scheme: "",
		},
		{
			name: "ID con forma de TCKN antes que otro esquema",
			party: `<PartyIdentification><ID schemeID="MERSISNO">0123456789012345</ID></PartyIdentification>` +
				`<PartyIdentification><ID>10000000146</ID></PartyIdentification>`,
			id: "10000000146", scheme: pkgefatura.SchemeTCKN,
		},
		{
			name:  "cualquier ID de la parte como último recurso",
			party: `<PartyIdentification><ID schemeID="mersisno">0123456789012345</ID></PartyIdentification>`,
			id:    "0123456789012345", scheme: "MERSISNO",
		},
		{
			name:  "sin identificación",
			party: `<PartyName><Name>Anónimo</Name></PartyName>`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			xml := `<?xml version="1.0"?><Invoice><ID>PRT2026000000001</ID>` +
				`<AccountingSupplierParty><Party>` + tc.party + `</Party></AccountingSupplierParty></Invoice>`
			inv, err := infraefatura.NewDocumentCodec().Decode(zippedPayload(t, xml, "p.xml"))
			require.NoError(t, err)
			assert.Equal(t, tc.id, inv.Supplier.TaxID)
			assert.Equal(t, tc.scheme, inv.Supplier.TaxIDScheme)
		})
	}
}

func TestDecode_Deterministico(t *testing.T) {
	codec := infraefatura.NewDocumentCodec()
	payload := zippedPayload(t, sampleInvoiceXML, "a.xml")

	a, err := codec.DecodeDocument(payload)
	require.NoError(t, err)
	b, err := codec.DecodeDocument(payload)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecode_Base64ConSaltosDeLinea(t *testing.T) {
	payload := zippedPayload(t, sampleInvoiceXML, "a.xml")
	var wrapped strings.Builder
	for i := 0; i < len(payload); i += 76 {
		end := min(i+76, len(payload))
		wrapped.WriteString(payload[i:end])
		wrapped.WriteString("\r\n ")
	}

	inv, err := infraefatura.NewDocumentCodec().Decode(wrapped.String())
	require.NoError(t, err)
	assert.Equal(t, "FAT2026000000001", inv.Number)
}

func TestDecode_EntradaXMLEnMayusculas(t *testing.T) {
	inv, err := infraefatura.NewDocumentCodec().Decode(zippedPayload(t, sampleInvoiceXML, "FATURA.XML"))
	require.NoError(t, err)
	assert.Equal(t, "FAT2026000000001", inv.Number)
}

func TestDecode_PrimeraEntradaXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{"leame.txt": "no soy XML"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, _ = w.Write([]byte(content))
	}
	w, err := zw.Create("fatura.xml")
	require.NoError(t, err)
	_, _ = w.Write([]byte(sampleInvoiceXML))
	require.NoError(t, zw.Close())

	doc, err := infraefatura.NewDocumentCodec().DecodeDocument(base64.StdEncoding.EncodeToString(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "fatura.xml", doc.FileName)
}

func TestDecode_XMLSinComprimir(t *testing.T) {
	for name, raw := range map[string][]byte{
		"sin BOM": []byte(sampleInvoiceXML),
		"con BOM": append([]byte{0xEF, 0xBB, 0xBF}, sampleInvoiceXML...),
	} {
		t.Run(name, func(t *testing.T) {
			doc, err := infraefatura.NewDocumentCodec().DecodeDocument(base64.StdEncoding.EncodeToString(raw))
			require.NoError(t, err)
			assert.Empty(t, doc.FileName)
			assert.Equal(t, "FAT2026000000001", doc.Invoice.Number)
		})
	}
}

func TestDecode_CodificacionWindows1254(t *testing.T) {
	raw := []byte(`<?xml version="1.0" encoding="windows-1254"?><Invoice><ID>WIN2026000000001</ID><Note>Te`)
	raw = append(raw, 0xFE, 'e', 'k', 'k', 0xFC, 'r')
	raw = append(raw, []byte(`</Note></Invoice>`)...)

	inv, err := infraefatura.NewDocumentCodec().Decode(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"Teşekkür"}, inv.Notes)
}

func TestDecode_CamposOpcionalesAusentes(t *testing.T) {
	inv, err := infraefatura.NewDocumentCodec().Decode(zippedPayload(t,
		`<?xml version="1.0"?><Invoice><ID>MIN2026000000001</ID></Invoice>`, "m.xml"))
	require.NoError(t, err)
	assert.Equal(t, "TRY", inv.CurrencyCode)
	assert.True(t, inv.IssueDate.IsZero())
	assert.Nil(t, inv.DueDate)
	assert.True(t, inv.PayableAmount.IsZero())
	assert.Empty(t, inv.LineItems)
	assert.Empty(t, inv.Supplier.TaxID)
}

func TestDecode_MonedaDesdeAtributoYPagableDesdeTaxInclusive(t *testing.T) {
	xml := `<?xml version="1.0"?><Invoice><ID>EUR2026000000001</ID>` +
		`<LegalMonetaryTotal><TaxInclusiveAmount currencyID="EUR">59.00</TaxInclusiveAmount>` +
		`<PayableAmount currencyID="EUR"></PayableAmount></LegalMonetaryTotal></Invoice>`

	inv, err := infraefatura.NewDocumentCodec().Decode(zippedPayload(t, xml, "e.xml"))
	require.NoError(t, err)
	assert.Equal(t, "EUR", inv.CurrencyCode)
	assert.True(t, inv.PayableAmount.Equal(dec("59")))
}

func TestDecode_LineaSinNombreNiDescuento(t *testing.T) {
	xml := `<?xml version="1.0"?><Invoice><ID>L2026000000001</ID>` +
		`<InvoiceLine><InvoicedQuantity unitCode="KGM">2.5</InvoicedQuantity>` +
		`<AllowanceCharge><ChargeIndicator>true</ChargeIndicator><Amount>7</Amount></AllowanceCharge>` +
		`<AllowanceCharge><ChargeIndicator>false</ChargeIndicator><Amount>3.50</Amount></AllowanceCharge>` +
		`<Item><BuyersItemIdentification><ID>ALICI-9</ID></BuyersItemIdentification></Item>` +
		`</InvoiceLine></Invoice>`

	inv, err := infraefatura.NewDocumentCodec().Decode(zippedPayload(t, xml, "l.xml"))
	require.NoError(t, err)
	require.Len(t, inv.LineItems, 1)
	line := inv.LineItems[0]
	assert.Equal(t, 1, line.LineNumber)
	assert.Equal(t, "Item 1", line.Description)
	assert.Equal(t, "ALICI-9", line.ProductCode)
	assert.Equal(t, "Kilogram", line.UnitName)
	assert.True(t, line.DiscountAmount.Equal(dec("3.5")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores
// ──────────────────────────────────────────────────────────────────────────────

func TestDecode_PayloadVacioOBase64Invalido(t *testing.T) {
	codec := infraefatura.NewDocumentCodec()
	for _, payload := range []string{"", "   \n\t", "%%%no-es-base64%%%"} {
		_, err := codec.Decode(payload)
		require.Error(t, err, "payload %q", payload)
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	}
}

func TestDecode_NiZipNiXML(t *testing.T) {
	_, err := infraefatura.NewDocumentCodec().Decode(base64.StdEncoding.EncodeToString([]byte("hola mundo")))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestDecode_ZipSinEntradaXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("leame.txt")
	require.NoError(t, err)
	_, _ = w.Write([]byte("sin factura"))
	require.NoError(t, zw.Close())

	_, err = infraefatura.NewDocumentCodec().Decode(base64.StdEncoding.EncodeToString(buf.Bytes()))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestDecode_EntradaZipCorrupta(t *testing.T) {
	zipped, err := infraefatura.CompressXMLToZip([]byte(sampleInvoiceXML), "x.xml")
	require.NoError(t, err)
	// Los datos comprimidos empiezan tras la cabecera local (30 bytes + nombre).
	dataStart := 30 + len("x.xml")
	for i := dataStart + 10; i < dataStart+40; i++ {
		zipped[i] ^= 0xFF
	}

	_, err = infraefatura.NewDocumentCodec().Decode(base64.StdEncoding.EncodeToString(zipped))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestDecode_RaizNoEsInvoice(t *testing.T) {
	_, err := infraefatura.NewDocumentCodec().Decode(zippedPayload(t,
		`<?xml version="1.0"?><CreditNote><ID>X</ID></CreditNote>`, "c.xml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestDecode_SinNumeroDeFactura(t *testing.T) {
	_, err := infraefatura.NewDocumentCodec().Decode(zippedPayload(t,
		`<?xml version="1.0"?><Invoice><UUID>f47ac10b-58cc-4372-a567-0e02b2c3d479</UUID></Invoice>`, "s.xml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParse)
}

// ──────────────────────────────────────────────────────────────────────────────
// Hash
// ──────────────────────────────────────────────────────────────────────────────

func TestDocumentHash_DistingueContenido(t *testing.T) {
	a := infraefatura.DocumentHash([]byte(sampleInvoiceXML))
	b := infraefatura.DocumentHash([]byte(strings.Replace(sampleInvoiceXML, "1180.00</cbc:PayableAmount>", "1181.00</cbc:PayableAmount>", 1)))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, infraefatura.DocumentHash([]byte(sampleInvoiceXML)))
}
