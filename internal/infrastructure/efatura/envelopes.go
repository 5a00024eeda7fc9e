package efatura

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"
)

// ── Operaciones SOAP ──────────────────────────────────────────────────────────

const (
	opLogin                         = "Login"
	opLogout                        = "Logout"
	opTransferSalesInvoiceFile      = "TransferSalesInvoiceFile"
	opGetTransferStatus             = "GetTransferSalesInvoiceFileStatus"
	opGetSalesStatusWithUUID        = "GetSalesInvoiceStatusWithInvoiceUUID"
	opGetPurchaseStatusWithUUID     = "GetPurchaseInvoiceStatusWithInvoiceUUID"
	opGetSalesStatusWithNumber      = "GetSalesInvoiceStatusWithInvoiceNumber"
	opGetPurchaseStatusWithNumber   = "GetPurchaseInvoiceStatusWithInvoiceNumber"
	opGetSalesStatusWithIntegration = "GetSalesInvoiceStatusWithIntegrationCode"
	opGetSalesUUIDList              = "GetSalesInvoiceUUIDList"
	opGetPurchaseUUIDList           = "GetPurchaseInvoiceUUIDList"
	opGetUnTransferredPurchaseList  = "GetUnTransferredPurchaseInvoiceUUIDList"
	opDownloadSalesInvoice          = "DownloadSalesInvoiceWithInvoiceUUID"
	opDownloadPurchaseInvoice       = "DownloadPurchaseInvoiceWithInvoiceUUID"
	opSetPurchaseInvoiceAnswer      = "SetPurchaseInvoiceAnswerWithInvoiceUUID"
	opGetCustomerAliasList          = "GetCustomerAliasListWithRegisterNumber"
)

// ── Plantillas ────────────────────────────────────────────────────────────────

const (
	envelopeOpen  = `<soapenv:Envelope xmlns:soapenv="` + soapNS + `" xmlns:tem="` + soapNSTempuri + `" xmlns:dc="` + dataContractNS + `"><soapenv:Header/><soapenv:Body>`
	envelopeClose = `</soapenv:Body></soapenv:Envelope>`
)

// Un cuerpo literal por operación; todo valor pasa por x (escape XML).
var bodyTemplates = map[string]string{
	opLogin: `<tem:Login><tem:userName>{{x .Username}}</tem:userName><tem:password>{{x .Password}}</tem:password></tem:Login>`,

	opLogout: `<tem:Logout><tem:sessionCode>{{x .Token}}</tem:sessionCode></tem:Logout>`,

	opTransferSalesInvoiceFile: `<tem:TransferSalesInvoiceFile><tem:sessionCode>{{x .Token}}</tem:sessionCode>` +
		`<tem:transferFile>` +
		`<dc:BinaryData>{{x .File.BinaryData}}</dc:BinaryData>` +
		`<dc:BinaryDataHash>{{x .File.BinaryDataHash}}</dc:BinaryDataHash>` +
		`<dc:CustomerAlias>{{x .File.CustomerAlias}}</dc:CustomerAlias>` +
		`<dc:FileDataType>ZIP</dc:FileDataType>` +
		`<dc:FileNameWithExtension>{{x .File.FileName}}</dc:FileNameWithExtension>` +
		`<dc:IsDirectSend>{{.File.IsDirectSend}}</dc:IsDirectSend>` +
		`</tem:transferFile>` +
		`<tem:uniqueIntegrationCode>{{x .File.IntegrationCode}}</tem:uniqueIntegrationCode>` +
		`</tem:TransferSalesInvoiceFile>`,

	opGetTransferStatus: `<tem:GetTransferSalesInvoiceFileStatus><tem:sessionCode>{{x .Token}}</tem:sessionCode>` +
		`<tem:transferFileUniqueId>{{x .Value}}</tem:transferFileUniqueId></tem:GetTransferSalesInvoiceFileStatus>`,

	opGetSalesStatusWithUUID: `<tem:GetSalesInvoiceStatusWithInvoiceUUID><tem:sessionCode>{{x .Token}}</tem:sessionCode>` +
		`<tem:invoiceUUID>{{x .Value}}</tem:invoiceUUID></tem:GetSalesInvoiceStatusWithInvoiceUUID>`,

	opGetPurchaseStatusWithUUID: `<tem:GetPurchaseInvoiceStatusWithInvoiceUUID><tem:sessionCode>{{x .Token}}</tem:sessionCode>` +
		`<tem:invoiceUUID>{{x .Value}}</tem:invoiceUUID></tem:GetPurchaseInvoiceStatusWithInvoiceUUID>`,

	opGetSalesStatusWithNumber: `<tem:GetSalesInvoiceStatusWithInvoiceNumber><tem:sessionCode>{{x .Token}}</tem:sessionCode>` +
		`<tem:invoiceNumber>{{x .Value}}</tem:invoiceNumber></tem:GetSalesInvoiceStatusWithInvoiceNumber>`,

	opGetPurchaseStatusWithNumber: `<tem:GetPurchaseInvoiceStatusWithInvoiceNumber><tem:sessionCode>{{x .Token}}</tem:sessionCode>` +
		`<tem:invoiceNumber>{{x .Value}}</tem:invoiceNumber></tem:GetPurchaseInvoiceStatusWithInvoiceNumber>`,

	opGetSalesStatusWithIntegration: `<tem:GetSalesInvoiceStatusWithIntegrationCode><tem:sessionCode>{{x .Token}}</tem:sessionCode>` +
		`<tem:integrationCode>{{x .Value}}</tem:integrationCode></tem:GetSalesInvoiceStatusWithIntegrationCode>`,

	opGetSalesUUIDList: `<tem:GetSalesInvoiceUUIDList><tem:sessionCode>{{x .Token}}</tem:sessionCode>` +
		`<tem:startDate>{{x .Start}}</tem:startDate><tem:endDate>{{x .End}}</tem:endDate></tem:GetSalesInvoiceUUIDList>`,

	opGetPurchaseUUIDList: `<tem:GetPurchaseInvoiceUUIDList><tem:sessionCode>{{x .Token}}</tem:sessionCode>` +
		`<tem:startDate>{{x .Start}}</tem:startDate><tem:endDate>{{x .End}}</tem:endDate></tem:GetPurchaseInvoiceUUIDList>`,

	opGetUnTransferredPurchaseList: `<tem:GetUnTransferredPurchaseInvoiceUUIDList><tem:sessionCode>{{x .Token}}</tem:sessionCode>` +
		`<tem:startDate>{{x .Start}}</tem:startDate><tem:endDate>{{x .End}}</tem:endDate></tem:GetUnTransferredPurchaseInvoiceUUIDList>`,

	opDownloadSalesInvoice: `<tem:DownloadSalesInvoiceWithInvoiceUUID><tem:sessionCode>{{x .Token}}</tem:sessionCode>` +
		`<tem:downloadDataType>XML_INZIP</tem:downloadDataType>` +
		`<tem:invoiceUUID>{{x .Value}}</tem:invoiceUUID></tem:DownloadSalesInvoiceWithInvoiceUUID>`,

	opDownloadPurchaseInvoice: `<tem:DownloadPurchaseInvoiceWithInvoiceUUID><tem:sessionCode>{{x .Token}}</tem:sessionCode>` +
		`<tem:downloadDataType>XML_INZIP</tem:downloadDataType>` +
		`<tem:invoiceUUID>{{x .Value}}</tem:invoiceUUID></tem:DownloadPurchaseInvoiceWithInvoiceUUID>`,

	opSetPurchaseInvoiceAnswer: `<tem:SetPurchaseInvoiceAnswerWithInvoiceUUID><tem:sessionCode>{{x .Token}}</tem:sessionCode>` +
		`<tem:invoiceUUID>{{x .Value}}</tem:invoiceUUID>` +
		`<tem:answerType>{{x .AnswerType}}</tem:answerType>` +
		`<tem:answerNote>{{x .Note}}</tem:answerNote>` +
		`<tem:isDirectSend>true</tem:isDirectSend></tem:SetPurchaseInvoiceAnswerWithInvoiceUUID>`,

	opGetCustomerAliasList: `<tem:GetCustomerAliasListWithRegisterNumber><tem:sessionCode>{{x .Token}}</tem:sessionCode>` +
		`<tem:registerNumber>{{x .Value}}</tem:registerNumber></tem:GetCustomerAliasListWithRegisterNumber>`,
}

var envelopeTemplates = func() map[string]*template.Template {
	funcs := template.FuncMap{"x": escapeXML}
	out := make(map[string]*template.Template, len(bodyTemplates))
	for op, body := range bodyTemplates {
		out[op] = template.Must(template.New(op).Funcs(funcs).Parse(envelopeOpen + body + envelopeClose))
	}
	return out
}()

// Parámetros de las plantillas.
type (
	loginParams struct {
		Username string
		Password string
	}
	sessionParams struct {
		Token string
	}
	valueParams struct {
		Token string
		Value string
	}
	rangeParams struct {
		Token string
		Start string
		End   string
	}
	transferParams struct {
		Token string
		File  TransferFile
	}
	answerParams struct {
		Token      string
		Value      string
		AnswerType string
		Note       string
	}
)

// renderEnvelope ejecuta la plantilla de la operación.
func renderEnvelope(op string, params any) ([]byte, error) {
	tpl, ok := envelopeTemplates[op]
	if !ok {
		return nil, fmt.Errorf("operación SOAP desconocida %q", op)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, params); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// escapeXML escapa & < > " ' y los espacios de control (\t \n \r).
func escapeXML(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
