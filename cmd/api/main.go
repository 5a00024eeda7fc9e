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

	_ "github.com/jhoicas/efatura-api/docs"
	"github.com/jhoicas/efatura-api/internal/bootstrap"
	"github.com/jhoicas/efatura-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/efatura-api/internal/interfaces/http"
	"github.com/jhoicas/efatura-api/pkg/config"
	"github.com/jhoicas/efatura-api/pkg/logger"
)

// @title						e-Fatura API
// @version					1.0
// @description				Integración con el proveedor de e-Fatura / e-Arşiv: estados, importación y envío de documentos UBL-TR.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().Str("env", cfg.App.Env).Msg("iniciando aplicación")

	ctx := context.Background()
	if err := runMigrations(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	c, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicialización")
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Error().Err(err).Msg("liberar recursos")
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Efatura.Timeout * 3,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    20 * 1024 * 1024,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "e-Fatura API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Status:       c.Reconciler,
		Documents:    c.Documents,
		Integration:  c.Integration,
		PendingLimit: cfg.Cron.PendingLimit,
		JWTSecret:    cfg.JWT.Secret,
		JWTIssuer:    cfg.JWT.Issuer,
		CronSecret:   cfg.Cron.Secret,
		Metrics:      c.Metrics.Handler(),
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

// runMigrations aplica las migraciones embebidas antes de abrir el pool.
func runMigrations(cfg *config.Config, log *logger.Logger) error {
	db, err := postgres.OpenDB(cfg.DB)
	if err != nil {
		return err
	}
	m, err := postgres.NewMigrator(db, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer m.Close()
	return m.Up()
}
