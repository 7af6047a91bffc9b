package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costguard-api/internal/application/anomalies"
	"github.com/jhoicas/costguard-api/internal/application/auth"
	"github.com/jhoicas/costguard-api/internal/application/extraction"
	"github.com/jhoicas/costguard-api/internal/application/invoices"
	"github.com/jhoicas/costguard-api/internal/application/vendors"
	"github.com/jhoicas/costguard-api/internal/infrastructure/storage"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	VendorUC      *vendors.VendorUseCase
	IngestInvoice *invoices.IngestInvoiceUseCase
	InvoiceQuery  *invoices.InvoiceQueryUseCase
	AnomalyReview *anomalies.ReviewUseCase
	FileStorage   *storage.InvoiceFileStorage
	Extractor     *extraction.Extractor
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Vendors (protegido)
	vendorsGroup := protected.Group("/vendors")
	vendorHandler := NewVendorHandler(deps.VendorUC)
	vendorsGroup.Post("/", vendorHandler.Create)
	vendorsGroup.Get("/", vendorHandler.List)
	vendorsGroup.Get("/:id", vendorHandler.GetByID)

	// Invoices (protegido): ingesta con detección de anomalías
	invoiceHandler := NewInvoiceHandler(deps.IngestInvoice, deps.InvoiceQuery, deps.FileStorage, deps.Extractor)
	invoicesGroup := protected.Group("/invoices")
	invoicesGroup.Post("/", invoiceHandler.Create)
	invoicesGroup.Get("/:id", invoiceHandler.GetByID)
	vendorsGroup.Get("/:id/history", invoiceHandler.VendorHistory)

	// Anomalies (protegido): revisión humana
	anomaliesGroup := protected.Group("/anomalies")
	anomalyHandler := NewAnomalyHandler(deps.AnomalyReview)
	anomaliesGroup.Get("/", anomalyHandler.List)
	anomaliesGroup.Patch("/:id", anomalyHandler.Review)
}
