package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Status       StatusService
	Documents    DocumentService
	Integration  IntegrationService
	PendingLimit int
	JWTSecret    string
	JWTIssuer    string
	CronSecret   string
	Metrics      nethttp.Handler // nil = sin /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")
	h := NewEInvoiceHandler(deps.Status, deps.Documents, deps.Integration, deps.PendingLimit)

	// Interno (cron): protegido por X-Cron-Secret, sin JWT
	internal := api.Group("/internal", CronSecretMiddleware(deps.CronSecret))
	internal.Post("/reconcile", h.Reconcile)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	readers := RequireRole(RoleAdmin, RoleOperator, RoleViewer)
	writers := RequireRole(RoleAdmin, RoleOperator)

	// Documentos e-Fatura / e-Arşiv
	einvoices := protected.Group("/einvoices")
	einvoices.Post("/status/batch", writers, h.CheckBatch)
	einvoices.Post("/status/pending", writers, h.CheckPending)
	einvoices.Get("/discover", readers, h.Discover)
	einvoices.Post("/import", writers, h.ImportMany)
	einvoices.Post("/transfers", writers, h.Transfer)
	einvoices.Get("/transfers/:id", readers, h.TransferStatus)
	einvoices.Get("/:uuid", readers, h.Get)
	einvoices.Get("/:uuid/pdf", readers, h.PDF)
	einvoices.Post("/:uuid/status", writers, h.CheckStatus)
	einvoices.Post("/:uuid/import", writers, h.ImportOne)
	einvoices.Post("/:uuid/answer", writers, h.Answer)

	// Contribuyentes
	protected.Get("/taxpayers/:id", readers, h.Taxpayer)

	// Credenciales del proveedor (solo admin)
	protected.Put("/provider-account", RequireRole(RoleAdmin), h.SaveProviderAccount)
}
