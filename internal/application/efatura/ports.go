// Package efatura orquesta la integración con el proveedor e-Fatura: sesiones,
// reconciliación de estados, descubrimiento e importación de documentos y
// las operaciones de emisión (transferencia, respuesta, consulta de contribuyentes).
package efatura

import (
	"context"

	"github.com/jhoicas/efatura-api/internal/domain/entity"
)

// Observer recibe los eventos de negocio que se exponen como métricas.
// *metrics.Metrics lo implementa (y es nil-safe).
type Observer interface {
	ObserveLogin(category, result string)
	ObserveStatusCheck(lifecycle string, applied bool)
	ObserveBatch(succeeded, failed int)
	ObserveImport(result string)
}

type nopObserver struct{}

func (nopObserver) ObserveLogin(string, string)     {}
func (nopObserver) ObserveStatusCheck(string, bool) {}
func (nopObserver) ObserveBatch(int, int)           {}
func (nopObserver) ObserveImport(string)            {}

// InvoicePDFRenderer genera la representación gráfica de un documento importado.
type InvoicePDFRenderer interface {
	RenderInvoicePDF(ctx context.Context, inv *entity.RemoteInvoice) ([]byte, error)
}
