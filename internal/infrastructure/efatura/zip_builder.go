package efatura

import (
	"archive/zip"
	"bytes"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// CompressXMLToZip empaqueta el XML UBL en un zip en memoria con una única entrada.
func CompressXMLToZip(xmlBytes []byte, xmlFilename string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	fw, err := zw.Create(xmlFilename)
	if err != nil {
		return nil, fmt.Errorf("zip: crear entrada %s: %w", xmlFilename, err)
	}
	if _, err := fw.Write(xmlBytes); err != nil {
		return nil, fmt.Errorf("zip: escribir XML: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}

// TransferFileNames nombres del XML interno y del zip: el ETTN del documento.
func TransferFileNames(uuid string) (xmlName, zipName string) {
	base := strings.ToUpper(strings.TrimSpace(uuid))
	return base + ".xml", base + ".zip"
}

// BuildTransferFile arma el TransferFile: zip + base64 + MD5 (hex en mayúsculas, como lo exige el proveedor).
func BuildTransferFile(xmlBytes []byte, uuid, customerAlias, integrationCode string) (TransferFile, error) {
	xmlName, zipName := TransferFileNames(uuid)
	zipBytes, err := CompressXMLToZip(xmlBytes, xmlName)
	if err != nil {
		return TransferFile{}, err
	}
	sum := md5.Sum(zipBytes)
	return TransferFile{
		FileName:        zipName,
		BinaryData:      base64.StdEncoding.EncodeToString(zipBytes),
		BinaryDataHash:  strings.ToUpper(hex.EncodeToString(sum[:])),
		CustomerAlias:   customerAlias,
		IntegrationCode: integrationCode,
		IsDirectSend:    true,
	}, nil
}
