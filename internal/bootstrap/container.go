// Package bootstrap arma el grafo de dependencias compartido por la API y el CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	appefatura "github.com/jhoicas/efatura-api/internal/application/efatura"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/internal/infrastructure/cache"
	infraefatura "github.com/jhoicas/efatura-api/internal/infrastructure/efatura"
	"github.com/jhoicas/efatura-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/efatura-api/internal/infrastructure/pdf"
	"github.com/jhoicas/efatura-api/internal/infrastructure/postgres"
	"github.com/jhoicas/efatura-api/pkg/config"
	"github.com/jhoicas/efatura-api/pkg/logger"
	"github.com/jhoicas/efatura-api/pkg/secret"
)

// Container servicios listos para usar. Close libera pool y almacén de sesiones.
type Container struct {
	Config      *config.Config
	Log         *logger.Logger
	Pool        *pgxpool.Pool
	Metrics     *metrics.Metrics
	Provider    *infraefatura.SOAPClient
	Codec       *infraefatura.DocumentCodec
	Sessions    *appefatura.SessionManager
	Reconciler  *appefatura.Reconciler
	Documents   *appefatura.DocumentService
	Integration *appefatura.IntegrationService

	closers []func() error
}

// New conecta PostgreSQL y el almacén de sesiones y construye los servicios.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if cfg.Efatura.CredentialKey == "" {
		return nil, errors.New("EFATURA_CREDENTIAL_KEY requerido (32 bytes en base64)")
	}
	sealer, err := secret.NewSealer(cfg.Efatura.CredentialKey)
	if err != nil {
		return nil, fmt.Errorf("clave de credenciales: %w", err)
	}

	c := &Container{Config: cfg, Log: log}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	c.Pool = pool
	c.closers = append(c.closers, func() error { pool.Close(); return nil })

	sessionStore, closeStore, err := cache.NewSessionStore(cfg)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("almacén de sesiones: %w", err)
	}
	c.closers = append(c.closers, closeStore)

	c.Metrics = metrics.New()
	c.Codec = infraefatura.NewDocumentCodec()
	c.Provider = infraefatura.NewSOAPClient(infraefatura.Options{
		Endpoints: infraefatura.Endpoints{
			EInvoiceTest: cfg.Efatura.EInvoiceTestURL,
			EInvoiceProd: cfg.Efatura.EInvoiceProdURL,
			EArchiveTest: cfg.Efatura.EArchiveTestURL,
			EArchiveProd: cfg.Efatura.EArchiveProdURL,
		},
		Timeout:  cfg.Efatura.Timeout,
		RPS:      cfg.Efatura.RPS,
		Observer: c.Metrics,
		Logger:   log,
	})

	store := postgres.NewEInvoiceRepository(pool)
	accounts := postgres.NewProviderAccountRepository(pool, sealer)
	batch := appefatura.BatchOptions{
		GroupSize:   cfg.Efatura.BatchGroupSize,
		Concurrency: cfg.Efatura.BatchConcurrency,
		Delay:       cfg.Efatura.BatchDelay,
	}

	c.Sessions = appefatura.NewSessionManager(c.Provider, sessionStore, cfg.Efatura.SessionTTL, c.Metrics, log)
	c.Reconciler = appefatura.NewReconciler(c.Provider, accounts, c.Sessions, store,
		appefatura.ReconcilerConfig{Batch: batch, MaxFetch: cfg.Efatura.MaxFetch}, c.Metrics, log)
	c.Documents = appefatura.NewDocumentService(c.Provider, accounts, c.Sessions, store, c.Codec,
		c.Reconciler, infrapdf.NewMarotoPDFGenerator(), batch, c.Metrics, log)
	c.Integration = appefatura.NewIntegrationService(c.Provider, accounts, c.Sessions, store,
		entity.Environment(cfg.Efatura.Environment), log)

	log.Info().
		Str("environment", cfg.Efatura.Environment).
		Str("session_store", cfg.Efatura.SessionStore).
		Dur("session_ttl", cfg.Efatura.SessionTTL).
		Msg("servicios e-Fatura listos")
	return c, nil
}

// Close en orden inverso de apertura.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
