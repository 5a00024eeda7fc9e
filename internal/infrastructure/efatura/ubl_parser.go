package efatura

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/efatura-api/internal/domain"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
	pkgefatura "github.com/jhoicas/efatura-api/pkg/efatura"
)

// ── Reglas de cabecera ────────────────────────────────────────────────────────
// Solo hijos directos de Invoice: los ID/importes de línea no deben confundirse con los del documento.

var headerRules = []Rule{
	{Field: "number", Strategies: []Strategy{Child("ID")}, Mandatory: true},
	{Field: "uuid", Strategies: []Strategy{Child("UUID")}},
	{Field: "dueDate", Strategies: []Strategy{
		Child("DueDate"),
		Child("PaymentMeans", "PaymentDueDate"),
		Child("PaymentTerms", "PaymentDueDate"),
	}},
	{Field: "currency", Strategies: []Strategy{
		Child("DocumentCurrencyCode"),
		ChildAttr("currencyID", "LegalMonetaryTotal", "PayableAmount"),
		Default("TRY"),
	}},
	{Field: "taxExclusive", Strategies: []Strategy{
		Child("LegalMonetaryTotal", "TaxExclusiveAmount"),
		Child("LegalMonetaryTotal", "LineExtensionAmount"),
	}},
	{Field: "taxAmount", Strategies: []Strategy{Child("TaxTotal", "TaxAmount")}},
	{Field: "payable", Strategies: []Strategy{
		Child("LegalMonetaryTotal", "PayableAmount"),
		Child("LegalMonetaryTotal", "TaxInclusiveAmount"),
	}},
	{Field: "type", Strategies: []Strategy{Child("InvoiceTypeCode")}},
	{Field: "profile", Strategies: []Strategy{Child("ProfileID")}},
}

var partyRules = []Rule{
	{Field: "name", Strategies: []Strategy{
		Child("PartyName", "Name"),
		Child("PartyLegalEntity", "RegistrationName"),
		personName,
	}},
	{Field: "taxOffice", Strategies: []Strategy{Child("PartyTaxScheme", "TaxScheme", "Name")}},
	{Field: "street", Strategies: []Strategy{Child("PostalAddress", "StreetName")}},
	{Field: "building", Strategies: []Strategy{Child("PostalAddress", "BuildingNumber")}},
	{Field: "district", Strategies: []Strategy{Child("PostalAddress", "CitySubdivisionName")}},
	{Field: "city", Strategies: []Strategy{Child("PostalAddress", "CityName")}},
	{Field: "postal", Strategies: []Strategy{Child("PostalAddress", "PostalZone")}},
	{Field: "country", Strategies: []Strategy{Child("PostalAddress", "Country", "Name")}},
	{Field: "phone", Strategies: []Strategy{Child("Contact", "Telephone")}},
	{Field: "email", Strategies: []Strategy{Child("Contact", "ElectronicMail")}},
	{Field: "website", Strategies: []Strategy{Child("WebsiteURI")}},
}

var lineRules = []Rule{
	{Field: "id", Strategies: []Strategy{Child("ID")}},
	{Field: "quantity", Strategies: []Strategy{Child("InvoicedQuantity")}},
	{Field: "unitCode", Strategies: []Strategy{ChildAttr("unitCode", "InvoicedQuantity")}},
	{Field: "unitPrice", Strategies: []Strategy{Child("Price", "PriceAmount")}},
	{Field: "total", Strategies: []Strategy{Child("LineExtensionAmount")}},
	{Field: "vatRate", Strategies: []Strategy{
		Child("TaxTotal", "TaxSubtotal", "Percent"),
		Child("TaxTotal", "TaxSubtotal", "TaxCategory", "Percent"),
	}},
	{Field: "vatAmount", Strategies: []Strategy{
		Child("TaxTotal", "TaxSubtotal", "TaxAmount"),
		Child("TaxTotal", "TaxAmount"),
	}},
	{Field: "productCode", Strategies: []Strategy{
		Child("Item", "SellersItemIdentification", "ID"),
		Child("Item", "BuyersItemIdentification", "ID"),
		Child("Item", "ManufacturersItemIdentification", "ID"),
	}},
	{Field: "description", Strategies: []Strategy{Child("Item", "Name"), Child("Item", "Description")}},
	{Field: "classification", Strategies: []Strategy{Child("Item", "CommodityClassification", "ItemClassificationCode")}},
}

func personName(scope *etree.Element) string {
	p := child(scope, "Person")
	if p == nil {
		return ""
	}
	return strings.TrimSpace(textOf(child(p, "FirstName")) + " " + textOf(child(p, "FamilyName")))
}

// ParseUBL convierte un documento UBL-TR en RemoteInvoice. El número de factura es obligatorio.
// Fechas ausentes o ilegibles quedan en cero (nil para vencimiento); importes ausentes en 0.
func ParseUBL(xmlBytes []byte) (*entity.RemoteInvoice, error) {
	root, err := parseXML(xmlBytes)
	if err != nil {
		return nil, &domain.ParseError{Message: "XML inválido", Cause: err}
	}
	if root.Tag != "Invoice" {
		return nil, &domain.ParseError{Field: "Invoice", Message: fmt.Sprintf("elemento raíz %q, se esperaba Invoice", root.Tag)}
	}

	h, missing := Extract(root, headerRules...)
	if len(missing) > 0 {
		return nil, &domain.ParseError{Field: "ID", Message: "el documento no tiene número de factura"}
	}

	inv := &entity.RemoteInvoice{
		UUID:               strings.ToUpper(h.String("uuid")),
		Number:             h.String("number"),
		IssueDate:          issueDateTime(root),
		CurrencyCode:       strings.ToUpper(h.String("currency")),
		TaxExclusiveAmount: h.Decimal("taxExclusive"),
		TaxAmount:          h.Decimal("taxAmount"),
		PayableAmount:      h.Decimal("payable"),
		DocumentType:       h.String("type"),
		DocumentProfile:    h.String("profile"),
		Supplier:           parseParty(child(root, "AccountingSupplierParty")),
		Customer:           parseParty(child(root, "AccountingCustomerParty")),
	}
	if due := h.Date("dueDate"); !due.IsZero() {
		inv.DueDate = &due
	}
	for _, n := range children(root, "Note") {
		if t := textOf(n); t != "" {
			inv.Notes = append(inv.Notes, t)
		}
	}
	for i, line := range children(root, "InvoiceLine") {
		inv.LineItems = append(inv.LineItems, parseLine(line, i+1))
	}
	return inv, nil
}

// parseParty acepta el bloque Accounting*Party o directamente Party.
func parseParty(block *etree.Element) entity.Party {
	if block == nil {
		return entity.Party{}
	}
	party := child(block, "Party")
	if party == nil {
		party = block
	}
	v, _ := Extract(party, partyRules...)
	taxID, scheme := partyTaxID(party)
	return entity.Party{
		Name:        v.String("name"),
		TaxID:       taxID,
		TaxIDScheme: scheme,
		TaxOffice:   v.String("taxOffice"),
		Address: entity.Address{
			Street:     v.String("street"),
			BuildingNo: v.String("building"),
			District:   v.String("district"),
			City:       v.String("city"),
			PostalZone: v.String("postal"),
			Country:    v.String("country"),
		},
		Contact: entity.Contact{
			Phone:   v.String("phone"),
			Email:   v.String("email"),
			Website: v.String("website"),
		},
	}
}

// partyTaxID prioridad: schemeID=VKN, schemeID=TCKN, PartyTaxScheme/CompanyID,
// un ID con forma de VKN/TCKN y por último el primer PartyIdentification/ID con su schemeID.
func partyTaxID(party *etree.Element) (string, string) {
	for _, scheme := range []string{pkgefatura.SchemeVKN, pkgefatura.SchemeTCKN} {
		for _, pi := range children(party, "PartyIdentification") {
			if v := TagWithAttr("ID", "schemeID", scheme)(pi); v != "" {
				return v, scheme
			}
		}
	}
	if v := Child("PartyTaxScheme", "CompanyID")(party); v != "" {
		return v, schemeByLength(v)
	}
	for _, id := range findAll(party, "ID") {
		if v := textOf(id); pkgefatura.LooksLikeTaxID(v) {
			return v, schemeByLength(v)
		}
	}
	for _, pi := range children(party, "PartyIdentification") {
		if id := child(pi, "ID"); id != nil {
			if v := textOf(id); v != "" {
				return v, strings.ToUpper(attrValue(id, "schemeID"))
			}
		}
	}
	return "", ""
}

func schemeByLength(id string) string {
	switch len(id) {
	case 10:
		return pkgefatura.SchemeVKN
	case 11:
		return pkgefatura.SchemeTCKN
	default:
		return ""
	}
}

func parseLine(line *etree.Element, position int) entity.LineItem {
	v, _ := Extract(line, lineRules...)
	number := v.Int("id")
	if number <= 0 {
		number = position
	}
	desc := v.String("description")
	if desc == "" {
		desc = fmt.Sprintf("Item %d", number)
	}
	unitCode := v.String("unitCode")
	return entity.LineItem{
		LineNumber:         number,
		Description:        desc,
		ProductCode:        v.String("productCode"),
		Quantity:           v.Decimal("quantity"),
		UnitCode:           unitCode,
		UnitName:           pkgefatura.UnitName(unitCode),
		UnitPrice:          v.Decimal("unitPrice"),
		VATRatePercent:     v.Decimal("vatRate"),
		VATAmount:          v.Decimal("vatAmount"),
		TotalAmount:        v.Decimal("total"),
		DiscountAmount:     lineDiscount(line),
		ClassificationCode: v.String("classification"),
	}
}

// lineDiscount suma los AllowanceCharge con ChargeIndicator=false.
func lineDiscount(line *etree.Element) decimal.Decimal {
	total := decimal.Zero
	for _, ac := range children(line, "AllowanceCharge") {
		if !strings.EqualFold(textOf(child(ac, "ChargeIndicator")), "false") {
			continue
		}
		if d, err := decimal.NewFromString(textOf(child(ac, "Amount"))); err == nil {
			total = total.Add(d)
		}
	}
	return total
}

// issueDateTime combina IssueDate con IssueTime cuando existe.
func issueDateTime(inv *etree.Element) time.Time {
	date := parseDate(Child("IssueDate")(inv))
	if date.IsZero() {
		return date
	}
	if t, err := time.Parse("15:04:05", Child("IssueTime")(inv)); err == nil {
		return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second)
	}
	return date
}
