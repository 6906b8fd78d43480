package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/Freight-api/docs"
	"github.com/jhoicas/Freight-api/internal/application/analytics"
	"github.com/jhoicas/Freight-api/internal/application/auth"
	"github.com/jhoicas/Freight-api/internal/application/billing"
	"github.com/jhoicas/Freight-api/internal/application/document"
	"github.com/jhoicas/Freight-api/internal/application/notification"
	"github.com/jhoicas/Freight-api/internal/application/quotation"
	"github.com/jhoicas/Freight-api/internal/application/shipment"
	"github.com/jhoicas/Freight-api/internal/application/trial"
	"github.com/jhoicas/Freight-api/internal/application/usecase"
	"github.com/jhoicas/Freight-api/internal/infrastructure/mail"
	"github.com/jhoicas/Freight-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Freight-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Freight-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Freight-api/internal/infrastructure/ratelimit"
	"github.com/jhoicas/Freight-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/Freight-api/internal/infrastructure/storage"
	"github.com/jhoicas/Freight-api/internal/infrastructure/ubl"
	httpRouter "github.com/jhoicas/Freight-api/internal/interfaces/http"
	"github.com/jhoicas/Freight-api/pkg/config"
	"github.com/jhoicas/Freight-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().Str("env", cfg.App.Env).Msg("iniciando aplicación")
	zl := log.Zerolog()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	portRepo := postgres.NewPortRepository(pool)
	currencyRepo := postgres.NewCurrencyRepository(pool)
	componentRepo := postgres.NewPriceComponentRepository(pool)
	rfqRepo := postgres.NewRFQRepository(pool)
	bidRepo := postgres.NewBidRepository(pool)
	shipmentRepo := postgres.NewShipmentRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	m := metrics.New()

	mailer := mail.New(cfg.Mail, zl)
	notifier, err := notification.NewNotifier(mailer, m, zl, cfg.App.BaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("plantillas de correo")
	}

	jobs, err := scheduler.New(cfg.Scheduler.Timezone, zl, scheduler.WithRecorder(m))
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}

	files, err := storage.NewDisk(cfg.Storage.Root)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de documentos")
	}

	// PDF de cotizaciones y facturas
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	tolerance := time.Duration(cfg.OTIF.ToleranceHours) * time.Hour

	planner := shipment.NewReminderPlanner(jobs, shipmentRepo, companyRepo, notifier,
		cfg.Scheduler.ReminderLead, tolerance, zl)
	shipmentUC := shipment.NewUseCase(shipment.Deps{
		Shipments: shipmentRepo,
		Companies: companyRepo,
		Customers: customerRepo,
		Tx:        txRunner,
		Notifier:  notifier,
		Planner:   planner,
		Metrics:   m,
		Log:       zl,
		Tolerance: tolerance,
	})
	quotationUC := quotation.NewUseCase(quotation.Deps{
		RFQs:       rfqRepo,
		Bids:       bidRepo,
		Companies:  companyRepo,
		Customers:  customerRepo,
		Vendors:    vendorRepo,
		Ports:      portRepo,
		Components: componentRepo,
		Tx:         txRunner,
		Notifier:   notifier,
		Renderer:   pdfGenerator,
		Bookings:   shipmentUC,
		Log:        zl,
	})
	billingUC := billing.NewUseCase(billing.Deps{
		Invoices:   invoiceRepo,
		Shipments:  shipmentRepo,
		Bids:       bidRepo,
		Customers:  customerRepo,
		Companies:  companyRepo,
		Currencies: currencyRepo,
		Tx:         txRunner,
		PDFGen:     pdfGenerator,
		UBL:        ubl.NewExporter(),
		Notifier:   notifier,
		Log:        zl,
	})
	documentUC := document.NewUseCase(document.Deps{
		Documents: documentRepo,
		RFQs:      rfqRepo,
		Shipments: shipmentRepo,
		Invoices:  invoiceRepo,
		Storage:   files,
		MaxBytes:  cfg.Storage.MaxUploadBytes(),
		Log:       zl,
	})

	moduleSvc := usecase.NewModuleService(companyRepo)
	seeder := trial.NewSeeder(trial.Deps{
		Customers:  customerRepo,
		Vendors:    vendorRepo,
		Ports:      portRepo,
		Components: componentRepo,
		Quotes:     quotationUC,
		Shipments:  shipmentUC,
		Log:        zl,
	})
	authUC := auth.NewAuthUseCase(auth.Deps{
		Users:     userRepo,
		Companies: companyRepo,
		Customers: customerRepo,
		Modules:   moduleSvc,
		Tx:        txRunner,
		Seeder:    seeder,
		Inviter:   notifier,
		Log:       zl,
		TrialDays: cfg.Trial.Days,
	}, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if err := jobs.AddFunc(cfg.Scheduler.ExpirySweep, "expiry_sweep", func(ctx context.Context) {
		rfqs, bids, err := quotationUC.ExpireStale(ctx)
		if err != nil {
			log.Error().Err(err).Msg("barrido de vencimientos")
			return
		}
		log.Info().Int64("rfqs", rfqs).Int64("bids", bids).Msg("barrido de vencimientos")
	}); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Scheduler.ExpirySweep).Msg("SCHEDULER_EXPIRY_SWEEP")
	}
	if err := jobs.AddFunc(cfg.Scheduler.OverdueSweep, "overdue_sweep", func(ctx context.Context) {
		n, err := billingUC.MarkOverdue(ctx)
		if err != nil {
			log.Error().Err(err).Msg("barrido de cartera vencida")
			return
		}
		log.Info().Int64("invoices", n).Msg("barrido de cartera vencida")
	}); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Scheduler.OverdueSweep).Msg("SCHEDULER_OVERDUE_SWEEP")
	}

	// Los recordatorios viven en memoria: se reconstruyen desde la base al arrancar.
	if n, err := planner.Rebuild(ctx); err != nil {
		log.Error().Err(err).Msg("reconstruir recordatorios")
	} else {
		log.Info().Int("shipments", n).Msg("recordatorios reprogramados")
	}
	jobs.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.MetricsMiddleware(m))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Freight API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CompanyUC:    usecase.NewCompanyUseCase(companyRepo),
		Modules:      moduleSvc,
		CustomerUC:   usecase.NewCustomerUseCase(customerRepo),
		VendorUC:     usecase.NewVendorUseCase(vendorRepo),
		MasterDataUC: usecase.NewMasterDataUseCase(companyRepo, portRepo, currencyRepo, componentRepo),
		QuotationUC:  quotationUC,
		ShipmentUC:   shipmentUC,
		BillingUC:    billingUC,
		DocumentUC:   documentUC,
		DashboardUC:  analytics.NewDashboardUseCase(analyticsRepo),
		Companies:    companyRepo,
		LoginLimiter: ratelimit.New(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst, 0),
		Metrics:      m.Handler(),
		JWTSecret:    cfg.JWT.Secret,
		Now:          time.Now,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	jobs.Stop(shutdownCtx)

	log.Info().Msg("aplicación detenida")
}
