package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/efatura-api/internal/bootstrap"
	"github.com/jhoicas/efatura-api/pkg/config"
	"github.com/jhoicas/efatura-api/pkg/logger"
)

var (
	version = "1.0.0"

	// Flags globales
	verbose      bool
	outputFormat string
	tenantID     string
)

var rootCmd = &cobra.Command{
	Use:   "efaturactl",
	Short: "Operaciones de e-Fatura / e-Arşiv desde la terminal",
	Long: `efaturactl opera la integración con el proveedor de e-Fatura sin pasar por la API HTTP.

Usa la misma configuración que el servidor (variables de entorno o .env).

Ejemplos:
  # Decodificar un documento descargado (zip, base64 o XML)
  efaturactl decode factura.zip

  # Consultar el estado de un documento
  efaturactl status F47AC10B-58CC-4372-A567-0E02B2C3D479 --tenant <tenant-id>

  # Conciliar los pendientes de todos los tenants
  efaturactl reconcile --limit 200

  # Aplicar migraciones
  efaturactl migrate up`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute punto de entrada del CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log de depuración en stderr")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Formato de salida (json, table)")
	rootCmd.PersistentFlags().StringVarP(&tenantID, "tenant", "t", "", "Tenant (tenant_id del token) sobre el que operar")
}

func newLogger(cfg *config.Config) *logger.Logger {
	level := cfg.App.LogLevel
	if verbose {
		level = "debug"
	} else if level == "info" {
		level = "warn"
	}
	return logger.FromWriter(os.Stderr, level)
}

// withContainer carga configuración, conecta dependencias y ejecuta fn.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *bootstrap.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := bootstrap.New(ctx, cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

func requireTenant() error {
	if tenantID == "" {
		return errors.New("--tenant requerido")
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
