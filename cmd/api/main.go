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
	"github.com/jhoicas/Matricula-api/internal/application/auth"
	"github.com/jhoicas/Matricula-api/internal/application/billing"
	"github.com/jhoicas/Matricula-api/internal/application/directory"
	infrapdf "github.com/jhoicas/Matricula-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Matricula-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Matricula-api/internal/interfaces/http"
	"github.com/jhoicas/Matricula-api/pkg/config"
	"github.com/jhoicas/Matricula-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	schoolRepo := postgres.NewSchoolRepository(pool)
	studentRepo := postgres.NewStudentRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	statementRepo := postgres.NewStatementRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Un solo juego de candados por factura, compartido entre los casos de
	// uso de facturas y pagos.
	locks := billing.NewInvoiceLockSet()

	schoolUC := directory.NewSchoolUseCase(schoolRepo, studentRepo)
	studentUC := directory.NewStudentUseCase(studentRepo, schoolRepo)
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, paymentRepo, studentRepo, locks)
	paymentUC := billing.NewPaymentUseCase(txRunner, invoiceRepo, paymentRepo, locks)
	statementUC := billing.NewStatementUseCase(statementRepo, studentRepo, schoolRepo)

	// PDF: representación gráfica de la factura de cobro para el acudiente
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := billing.NewPDFUseCase(
		invoiceRepo, paymentRepo, studentRepo, schoolRepo, pdfGenerator,
	)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Matrícula API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SchoolUC:    schoolUC,
		StudentUC:   studentUC,
		InvoiceUC:   invoiceUC,
		PaymentUC:   paymentUC,
		StatementUC: statementUC,
		InvoicePDF:  invoicePDFUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
