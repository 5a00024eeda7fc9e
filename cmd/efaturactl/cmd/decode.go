package cmd

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	infraefatura "github.com/jhoicas/efatura-api/internal/infrastructure/efatura"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [archivos...]",
	Short: "Decodifica documentos UBL-TR (zip, base64 o XML)",
	Long: `Decodifica uno o más documentos tal como los entrega el proveedor y muestra su contenido.

Formatos aceptados:
  - zip con una entrada .xml
  - texto base64 (zip o XML)
  - XML UBL-TR sin comprimir

Ejemplos:
  efaturactl decode factura.zip
  efaturactl decode payload.b64 -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	codec := infraefatura.NewDocumentCodec()
	docs := make([]*infraefatura.Document, 0, len(args))
	for _, file := range args {
		raw, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("leer %s: %w", file, err)
		}
		doc, err := decodeFile(codec, raw)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		docs = append(docs, doc)
	}

	if outputFormat == "json" {
		invoices := make([]interface{}, 0, len(docs))
		for _, d := range docs {
			invoices = append(invoices, struct {
				Hash    string      `json:"hash"`
				Invoice interface{} `json:"invoice"`
			}{d.Hash, d.Invoice})
		}
		return printJSON(invoices)
	}

	for i, d := range docs {
		inv := d.Invoice
		fmt.Printf("%s\n", args[i])
		fmt.Printf("  Número:     %s\n", inv.Number)
		fmt.Printf("  ETTN:       %s\n", inv.UUID)
		fmt.Printf("  Fecha:      %s\n", inv.IssueDate.Format("2006-01-02 15:04"))
		fmt.Printf("  Perfil:     %s / %s\n", inv.DocumentProfile, inv.DocumentType)
		fmt.Printf("  Emisor:     %s (%s %s)\n", inv.Supplier.Name, inv.Supplier.TaxIDScheme, inv.Supplier.TaxID)
		fmt.Printf("  Receptor:   %s (%s %s)\n", inv.Customer.Name, inv.Customer.TaxIDScheme, inv.Customer.TaxID)
		fmt.Printf("  Líneas:     %d\n", len(inv.LineItems))
		fmt.Printf("  Total:      %s %s\n", inv.PayableAmount.StringFixed(2), inv.CurrencyCode)
		fmt.Printf("  Hash:       %s\n", d.Hash)
	}
	return nil
}

// decodeFile acepta zip, XML o el texto base64 que entrega el proveedor.
func decodeFile(codec *infraefatura.DocumentCodec, raw []byte) (*infraefatura.Document, error) {
	trimmed := bytes.TrimPrefix(bytes.TrimSpace(raw), []byte{0xEF, 0xBB, 0xBF})
	switch {
	case bytes.HasPrefix(trimmed, []byte("PK")):
		return codec.DecodeDocument(base64.StdEncoding.EncodeToString(trimmed))
	case bytes.HasPrefix(trimmed, []byte("<")):
		inv, err := infraefatura.ParseUBL(trimmed)
		if err != nil {
			return nil, err
		}
		return &infraefatura.Document{Invoice: inv, XML: trimmed, Hash: infraefatura.DocumentHash(trimmed)}, nil
	default:
		return codec.DecodeDocument(string(raw))
	}
}
