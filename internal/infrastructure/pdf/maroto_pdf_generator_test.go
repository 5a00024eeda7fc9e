package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/internal/infrastructure/pdf"
)

func TestRenderInvoicePDF(t *testing.T) {
	due := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	inv := &entity.RemoteInvoice{
		UUID:               "F47AC10B-58CC-4372-A567-0E02B2C3D479",
		Number:             "FAT2026000000001",
		IssueDate:          time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		DueDate:            &due,
		CurrencyCode:       "TRY",
		TaxExclusiveAmount: decimal.RequireFromString("1000.00"),
		TaxAmount:          decimal.RequireFromString("180.00"),
		PayableAmount:      decimal.RequireFromString("1180.00"),
		DocumentType:       "SATIS",
		DocumentProfile:    "TICARIFATURA",
		Supplier: entity.Party{
			Name: "Satıcı Ticaret A.Ş.", TaxID: "1234567890", TaxIDScheme: "VKN", TaxOffice: "Kadıköy",
			Address: entity.Address{Street: "Atatürk Caddesi", BuildingNo: "12", City: "İstanbul", Country: "Türkiye"},
		},
		Customer: entity.Party{Name: "Ayşe Yılmaz", TaxID: "10000000146", TaxIDScheme: "TCKN"},
		LineItems: []entity.LineItem{{
			LineNumber: 1, Description: "Endüstriyel Vana", ProductCode: "VANA-001",
			Quantity: decimal.NewFromInt(10), UnitCode: "C62", UnitName: "Adet",
			UnitPrice: decimal.NewFromInt(100), VATRatePercent: decimal.NewFromInt(18),
			VATAmount: decimal.NewFromInt(180), TotalAmount: decimal.NewFromInt(1000),
		}},
		Notes: []string{"Teslimat depoya yapılacaktır"},
	}

	out, err := pdf.NewMarotoPDFGenerator().RenderInvoicePDF(context.Background(), inv)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderInvoicePDF_DocumentoMinimo(t *testing.T) {
	out, err := pdf.NewMarotoPDFGenerator().RenderInvoicePDF(context.Background(), &entity.RemoteInvoice{
		UUID: "0B1E3C5A-7D9F-4E21-8C3B-5A6D7E8F9012", Number: "ABC2026000000007",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = pdf.NewMarotoPDFGenerator().RenderInvoicePDF(context.Background(), nil)
	assert.Error(t, err)
}
