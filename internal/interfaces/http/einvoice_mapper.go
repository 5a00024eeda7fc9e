package http

import (
	"time"

	"github.com/jhoicas/efatura-api/internal/application/dto"
	appefatura "github.com/jhoicas/efatura-api/internal/application/efatura"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
)

func toStatusResponse(s entity.CanonicalStatus) dto.CanonicalStatusResponse {
	out := dto.CanonicalStatusResponse{
		Lifecycle:         string(s.Lifecycle),
		Answer:            string(s.Answer),
		ProviderStateCode: s.ProviderStateCode,
	}
	if !s.LastCheckedAt.IsZero() {
		t := s.LastCheckedAt
		out.LastCheckedAt = &t
	}
	return out
}

func toEInvoiceResponse(rec *entity.EInvoiceRecord, withDocument bool) dto.EInvoiceResponse {
	out := dto.EInvoiceResponse{
		UUID:             rec.UUID,
		Number:           rec.Number,
		IntegrationCode:  rec.IntegrationCode,
		Direction:        string(rec.Direction),
		Category:         string(rec.Category),
		Status:           toStatusResponse(rec.Status),
		StateName:        rec.StateName,
		StateDescription: rec.StateDescription,
		ErrorMessage:     rec.ErrorMessage,
		HasDocument:      rec.Document != nil,
		UpdatedAt:        rec.UpdatedAt,
	}
	if withDocument && rec.Document != nil {
		doc := toRemoteInvoiceResponse(rec.Document)
		out.Document = &doc
	}
	return out
}

func toRemoteInvoiceResponse(inv *entity.RemoteInvoice) dto.RemoteInvoiceResponse {
	out := dto.RemoteInvoiceResponse{
		UUID:               inv.UUID,
		Number:             inv.Number,
		IssueDate:          inv.IssueDate,
		DueDate:            inv.DueDate,
		CurrencyCode:       inv.CurrencyCode,
		TaxExclusiveAmount: inv.TaxExclusiveAmount,
		TaxAmount:          inv.TaxAmount,
		PayableAmount:      inv.PayableAmount,
		DocumentType:       inv.DocumentType,
		DocumentProfile:    inv.DocumentProfile,
		Supplier:           toPartyResponse(inv.Supplier),
		Customer:           toPartyResponse(inv.Customer),
		Lines:              make([]dto.LineItemResponse, 0, len(inv.LineItems)),
		Notes:              inv.Notes,
	}
	for _, l := range inv.LineItems {
		out.Lines = append(out.Lines, dto.LineItemResponse{
			LineNumber:         l.LineNumber,
			Description:        l.Description,
			ProductCode:        l.ProductCode,
			Quantity:           l.Quantity,
			UnitCode:           l.UnitCode,
			UnitName:           l.UnitName,
			UnitPrice:          l.UnitPrice,
			VATRatePercent:     l.VATRatePercent,
			VATAmount:          l.VATAmount,
			TotalAmount:        l.TotalAmount,
			DiscountAmount:     l.DiscountAmount,
			ClassificationCode: l.ClassificationCode,
		})
	}
	return out
}

func toPartyResponse(p entity.Party) dto.PartyResponse {
	return dto.PartyResponse{
		Name:        p.Name,
		TaxID:       p.TaxID,
		TaxIDScheme: p.TaxIDScheme,
		TaxOffice:   p.TaxOffice,
		Street:      p.Address.Street,
		BuildingNo:  p.Address.BuildingNo,
		District:    p.Address.District,
		City:        p.Address.City,
		PostalZone:  p.Address.PostalZone,
		Country:     p.Address.Country,
		Phone:       p.Contact.Phone,
		Email:       p.Contact.Email,
		Website:     p.Contact.Website,
	}
}

func toCheckResponse(r *appefatura.CheckResult) *dto.CheckStatusResponse {
	if r == nil {
		return nil
	}
	out := &dto.CheckStatusResponse{
		UUID:       r.UUID,
		Number:     r.Number,
		Status:     toStatusResponse(r.Status),
		Applied:    r.Applied,
		StoreError: errorText(r.StoreError),
	}
	if r.Remote != nil {
		out.StateName = r.Remote.StateName
		out.StateDescription = r.Remote.StateDescription
		out.ErrorMessage = r.Remote.ErrorMessage
	}
	return out
}

func toBatchResponse(r *appefatura.BatchReport) *dto.BatchReportResponse {
	if r == nil {
		return nil
	}
	out := &dto.BatchReportResponse{
		Items:     make([]dto.BatchItemResponse, 0, len(r.Items)),
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
		Skipped:   r.Skipped,
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, dto.BatchItemResponse{
			UUID:   it.UUID,
			Result: toCheckResponse(it.Result),
			Error:  errorText(it.Err),
		})
	}
	return out
}

func toImportResult(r *appefatura.ImportResult) *dto.ImportResultResponse {
	if r == nil {
		return nil
	}
	return &dto.ImportResultResponse{UUID: r.UUID, Number: r.Number, FileName: r.FileName, Changed: r.Changed}
}

func toImportReport(r *appefatura.ImportReport) *dto.ImportReportResponse {
	if r == nil {
		return nil
	}
	out := &dto.ImportReportResponse{
		Items:     make([]dto.ImportItemResponse, 0, len(r.Items)),
		Imported:  r.Imported,
		Unchanged: r.Unchanged,
		Failed:    r.Failed,
		Skipped:   r.Skipped,
		Remaining: r.Remaining,
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, dto.ImportItemResponse{
			UUID:   it.UUID,
			Result: toImportResult(it.Result),
			Error:  errorText(it.Err),
		})
	}
	return out
}

// toBatchOptions nil = opciones configuradas en el servicio.
func toBatchOptions(in *dto.BatchOptionsRequest) *appefatura.BatchOptions {
	if in == nil {
		return nil
	}
	return &appefatura.BatchOptions{
		GroupSize:   in.GroupSize,
		Concurrency: in.Concurrency,
		Delay:       time.Duration(in.DelayMs) * time.Millisecond,
	}
}
