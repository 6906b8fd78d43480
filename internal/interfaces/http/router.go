package http

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/Freight-api/internal/application/analytics"
	"github.com/jhoicas/Freight-api/internal/application/auth"
	"github.com/jhoicas/Freight-api/internal/application/billing"
	"github.com/jhoicas/Freight-api/internal/application/document"
	"github.com/jhoicas/Freight-api/internal/application/quotation"
	"github.com/jhoicas/Freight-api/internal/application/shipment"
	"github.com/jhoicas/Freight-api/internal/application/usecase"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/infrastructure/ratelimit"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CompanyUC    *usecase.CompanyUseCase
	Modules      *usecase.ModuleService
	CustomerUC   *usecase.CustomerUseCase
	VendorUC     *usecase.VendorUseCase
	MasterDataUC *usecase.MasterDataUseCase
	QuotationUC  *quotation.UseCase
	ShipmentUC   *shipment.UseCase
	BillingUC    *billing.UseCase
	DocumentUC   *document.UseCase
	DashboardUC  *analytics.DashboardUseCase
	Companies    companyLookup
	LoginLimiter *ratelimit.MapLimiter
	Metrics      http.Handler
	JWTSecret    string
	Now          func() time.Time
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.Modules)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	vendorHandler := NewVendorHandler(deps.VendorUC)
	masterHandler := NewMasterDataHandler(deps.MasterDataUC)
	quoteHandler := NewQuotationHandler(deps.QuotationUC)
	shipmentHandler := NewShipmentHandler(deps.ShipmentUC)
	invoiceHandler := NewInvoiceHandler(deps.BillingUC)
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)

	// Público
	limited := RateLimit(deps.LoginLimiter)
	api.Post("/auth/login", limited, authHandler.Login)
	api.Post("/auth/trial", limited, authHandler.Trial)
	api.Post("/companies", companyHandler.Create)

	// Autenticado: toda escritura pasa por el guard de cuentas de prueba vencidas.
	protected := api.Group("", AuthMiddleware(deps.JWTSecret), TrialGuard(deps.Companies, deps.Now))

	// Portal de clientes: mismos handlers, el caso de uso acota al cliente del token.
	// Se registra antes que el grupo de staff: ambos grupos cuelgan de /api.
	portal := protected.Group("/portal", RequireCustomer(), RequireModule(entity.ModuleCustomerPortal, deps.Modules))
	portal.Get("/rfqs", quoteHandler.ListRFQs)
	portal.Post("/rfqs", quoteHandler.CreateRFQ)
	portal.Get("/rfqs/:id", quoteHandler.GetRFQ)
	portal.Get("/rfqs/:id/bids", quoteHandler.ListBids)
	portal.Post("/bids/:id/accept", quoteHandler.AcceptBid)
	portal.Post("/bids/:id/reject", quoteHandler.RejectBid)
	portal.Get("/bids/:id/pdf", quoteHandler.QuotationPDF)
	portal.Get("/shipments", shipmentHandler.List)
	portal.Get("/shipments/:id", shipmentHandler.Get)
	portal.Get("/shipments/:id/events", shipmentHandler.ListEvents)
	portal.Get("/invoices", RequireModule(entity.ModuleInvoicing, deps.Modules), invoiceHandler.List)
	portal.Get("/invoices/:id/pdf", RequireModule(entity.ModuleInvoicing, deps.Modules), invoiceHandler.PDF)
	portal.Get("/documents/:id", RequireModule(entity.ModuleDocuments, deps.Modules), documentHandler.Download)

	staff := protected.Group("", RequireStaff())
	admin := RequireRole(entity.RoleAdmin)
	ops := RequireRole(entity.RoleAdmin, entity.RoleOps)
	sales := RequireRole(entity.RoleAdmin, entity.RoleSales)

	// Empresa y usuarios
	staff.Get("/companies/me", companyHandler.GetMe)
	staff.Put("/companies/me", admin, companyHandler.UpdateMe)
	staff.Put("/companies/me/modules/:module", admin, companyHandler.SetModule)
	staff.Post("/auth/users", admin, authHandler.Register)

	// Clientes y proveedores
	staff.Get("/customers", customerHandler.List)
	staff.Post("/customers", sales, customerHandler.Create)
	staff.Get("/customers/:id", customerHandler.Get)
	staff.Put("/customers/:id", sales, customerHandler.Update)
	staff.Delete("/customers/:id", admin, customerHandler.Delete)
	staff.Post("/customers/:id/portal-users", admin,
		RequireModule(entity.ModuleCustomerPortal, deps.Modules), authHandler.InvitePortalUser)

	staff.Get("/vendors", vendorHandler.List)
	staff.Post("/vendors", vendorHandler.Create)
	staff.Get("/vendors/:id", vendorHandler.Get)
	staff.Put("/vendors/:id", vendorHandler.Update)
	staff.Delete("/vendors/:id", admin, vendorHandler.Delete)

	// Catálogos
	staff.Get("/ports", masterHandler.ListPorts)
	staff.Post("/ports", admin, masterHandler.CreatePort)
	staff.Get("/ports/:code", masterHandler.GetPort)
	staff.Get("/currencies", masterHandler.ListCurrencies)
	staff.Put("/currencies/:code", admin, masterHandler.UpsertCurrencyRate)
	staff.Get("/price-components", masterHandler.ListPriceComponents)
	staff.Post("/price-components", sales, masterHandler.CreatePriceComponent)
	staff.Put("/price-components/:id", sales, masterHandler.UpdatePriceComponent)
	staff.Delete("/price-components/:id", sales, masterHandler.DeactivatePriceComponent)

	// Cotizaciones
	staff.Get("/rfqs", quoteHandler.ListRFQs)
	staff.Post("/rfqs", sales, quoteHandler.CreateRFQ)
	staff.Get("/rfqs/:id", quoteHandler.GetRFQ)
	staff.Post("/rfqs/:id/submit", sales, quoteHandler.SubmitRFQ)
	staff.Post("/rfqs/:id/cancel", sales, quoteHandler.CancelRFQ)
	staff.Get("/rfqs/:id/bids", quoteHandler.ListBids)
	staff.Post("/rfqs/:id/bids", sales, quoteHandler.CreateBid)
	staff.Get("/bids/:id", quoteHandler.GetBid)
	staff.Get("/bids/:id/pdf", quoteHandler.QuotationPDF)
	staff.Post("/bids/:id/send", sales, quoteHandler.SendBid)
	staff.Post("/bids/:id/accept", sales, quoteHandler.AcceptBid)
	staff.Post("/bids/:id/reject", sales, quoteHandler.RejectBid)
	staff.Post("/bids/:id/cancel", sales, quoteHandler.CancelBid)

	// Embarques
	staff.Get("/shipments", shipmentHandler.List)
	staff.Get("/shipments/:id", shipmentHandler.Get)
	staff.Get("/shipments/:id/events", shipmentHandler.ListEvents)
	staff.Put("/shipments/:id/schedule", ops, shipmentHandler.UpdateSchedule)
	staff.Post("/shipments/:id/status", ops, shipmentHandler.UpdateStatus)
	staff.Post("/shipments/:id/carrier-events", ops, shipmentHandler.CarrierEvent)

	// Facturación
	invoices := staff.Group("/invoices", RequireModule(entity.ModuleInvoicing, deps.Modules))
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", admin, invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Get("/:id/ubl", invoiceHandler.UBL)
	invoices.Post("/:id/issue", admin, invoiceHandler.Issue)
	invoices.Post("/:id/pay", admin, invoiceHandler.MarkPaid)
	invoices.Post("/:id/void", admin, invoiceHandler.Void)

	// Documentos
	docs := staff.Group("/documents", RequireModule(entity.ModuleDocuments, deps.Modules))
	docs.Get("/", documentHandler.List)
	docs.Post("/", ops, documentHandler.Upload)
	docs.Get("/:id", documentHandler.Download)
	docs.Delete("/:id", ops, documentHandler.Delete)

	staff.Get("/dashboard", dashboardHandler.GetSummary)
}
