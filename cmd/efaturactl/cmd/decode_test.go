package cmd

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraefatura "github.com/jhoicas/efatura-api/internal/infrastructure/efatura"
)

const minimalInvoice = `<Invoice xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
  xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2">
  <cbc:ID>FAT2026000000009</cbc:ID>
  <cbc:UUID>7c9e6679-7425-40de-944b-e07fc1f90ae7</cbc:UUID>
  <cbc:IssueDate>2026-05-02</cbc:IssueDate>
</Invoice>`

func TestDecodeFile_FormatosAceptados(t *testing.T) {
	codec := infraefatura.NewDocumentCodec()
	zipped, err := infraefatura.CompressXMLToZip([]byte(`<?xml version="1.0" encoding="UTF-8"?>`+minimalInvoice), "FAT2026000000009.xml")
	require.NoError(t, err)

	cases := map[string][]byte{
		"xml":        []byte(minimalInvoice),
		"xml_bom":    append([]byte{0xEF, 0xBB, 0xBF}, minimalInvoice...),
		"zip":        zipped,
		"base64_zip": []byte(base64.StdEncoding.EncodeToString(zipped) + "\n"),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := decodeFile(codec, raw)
			require.NoError(t, err)
			assert.Equal(t, "FAT2026000000009", doc.Invoice.Number)
			assert.Equal(t, "7C9E6679-7425-40DE-944B-E07FC1F90AE7", doc.Invoice.UUID)
			assert.Len(t, doc.Hash, 64)
		})
	}
}

func TestDecodeFile_ContenidoInvalido(t *testing.T) {
	_, err := decodeFile(infraefatura.NewDocumentCodec(), []byte("no es base64 ni xml %%%"))
	assert.Error(t, err)
}
