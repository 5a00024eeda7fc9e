// Package metrics expone las métricas de la integración con el proveedor en formato Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "efatura"

// Metrics registro propio (no el global) con los contadores del servicio.
// Un *Metrics nil es válido: todos los métodos son no-op.
type Metrics struct {
	registry *prometheus.Registry

	providerCalls    *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	logins           *prometheus.CounterVec
	reconciliations  *prometheus.CounterVec
	batchItems       *prometheus.CounterVec
	imports          *prometheus.CounterVec
}

// New registra las métricas del servicio y las del runtime de Go.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Llamadas SOAP al proveedor por operación y desenlace.",
		}, []string{"operation", "outcome"}),
		providerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "Duración de las llamadas SOAP al proveedor.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"operation"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_logins_total",
			Help:      "Logins contra el proveedor por categoría y resultado.",
		}, []string{"category", "result"}),
		reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_checks_total",
			Help:      "Consultas de estado reconciliadas por estado canónico resultante.",
		}, []string{"lifecycle", "applied"}),
		batchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_total",
			Help:      "Elementos procesados en lotes por resultado.",
		}, []string{"result"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_imports_total",
			Help:      "Documentos descargados e importados por resultado.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.providerCalls, m.providerDuration, m.logins, m.reconciliations, m.batchItems, m.imports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveCall implementa el observador del cliente SOAP.
func (m *Metrics) ObserveCall(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(operation, outcome).Inc()
	m.providerDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveLogin result: ok | rejected | error.
func (m *Metrics) ObserveLogin(category, result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(category, result).Inc()
}

// ObserveStatusCheck estado canónico tras una consulta y si se escribió en caché.
func (m *Metrics) ObserveStatusCheck(lifecycle string, applied bool) {
	if m == nil {
		return
	}
	a := "false"
	if applied {
		a = "true"
	}
	m.reconciliations.WithLabelValues(lifecycle, a).Inc()
}

// ObserveBatch totales de un lote.
func (m *Metrics) ObserveBatch(succeeded, failed int) {
	if m == nil {
		return
	}
	m.batchItems.WithLabelValues("ok").Add(float64(succeeded))
	m.batchItems.WithLabelValues("failed").Add(float64(failed))
}

// ObserveImport result: created | updated | unchanged | failed.
func (m *Metrics) ObserveImport(result string) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(result).Inc()
}

// Registry para tests y para exponer el endpoint.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler endpoint /metrics sobre el registro propio.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
