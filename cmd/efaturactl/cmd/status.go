package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	appefatura "github.com/jhoicas/efatura-api/internal/application/efatura"
	"github.com/jhoicas/efatura-api/internal/bootstrap"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
)

var (
	statusNumber    string
	statusCode      string
	statusDirection string
	statusCategory  string
	statusForce     bool
	pendingLimit    int
	allTenants      bool
)

var statusCmd = &cobra.Command{
	Use:   "status [uuid...]",
	Short: "Consulta el estado de documentos en el proveedor y actualiza la caché",
	Long: `Consulta el estado de uno o más documentos. Con varios UUIDs se procesan por grupos.

Ejemplos:
  efaturactl status F47AC10B-58CC-4372-A567-0E02B2C3D479 --tenant <tenant-id>
  efaturactl status <uuid> --tenant <tenant-id> --direction PURCHASE --force`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStatus,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Consulta los documentos no terminales (un tenant o todos)",
	Long: `Concilia los documentos en estado no terminal, los menos recientes primero.

Ejemplos:
  efaturactl reconcile --tenant <tenant-id> --limit 50
  efaturactl reconcile --all`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reconcileCmd)

	statusCmd.Flags().StringVar(&statusNumber, "number", "", "Número de factura (16 caracteres)")
	statusCmd.Flags().StringVar(&statusCode, "integration-code", "", "Código de integración del emisor")
	statusCmd.Flags().StringVar(&statusDirection, "direction", "", "SALES | PURCHASE")
	statusCmd.Flags().StringVar(&statusCategory, "category", "", "EINVOICE | EARCHIVE")
	statusCmd.Flags().BoolVar(&statusForce, "force", false, "Aplicar aunque el estado en caché sea terminal")

	reconcileCmd.Flags().IntVar(&pendingLimit, "limit", 0, "Máximo de documentos por tenant (0 = CRON_PENDING_LIMIT)")
	reconcileCmd.Flags().BoolVar(&allTenants, "all", false, "Todos los tenants con cuenta configurada")
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := requireTenant(); err != nil {
		return err
	}
	return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
		base := appefatura.CheckRequest{
			TenantID:        tenantID,
			Number:          statusNumber,
			IntegrationCode: statusCode,
			Direction:       entity.Direction(strings.ToUpper(statusDirection)),
			Category:        entity.Category(strings.ToUpper(statusCategory)),
			Force:           statusForce,
		}
		if len(args) == 1 {
			base.UUID = args[0]
			res, err := c.Reconciler.CheckOne(ctx, base)
			if err != nil {
				return err
			}
			return printCheck(res)
		}
		candidates := make([]appefatura.CheckRequest, 0, len(args))
		for _, id := range args {
			req := base
			req.UUID = id
			candidates = append(candidates, req)
		}
		report, err := c.Reconciler.CheckBatch(ctx, tenantID, candidates, nil)
		if report != nil {
			if perr := printBatch(report); perr != nil {
				return perr
			}
		}
		return err
	})
}

func runReconcile(cmd *cobra.Command, args []string) error {
	if !allTenants {
		if err := requireTenant(); err != nil {
			return err
		}
	}
	return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
		limit := pendingLimit
		if limit <= 0 {
			limit = c.Config.Cron.PendingLimit
		}
		if !allTenants {
			report, err := c.Reconciler.CheckPending(ctx, tenantID, limit, nil)
			if report != nil {
				if perr := printBatch(report); perr != nil {
					return perr
				}
			}
			return err
		}
		reports, err := c.Reconciler.ReconcileAll(ctx, limit)
		if outputFormat == "json" {
			if perr := printJSON(reports); perr != nil {
				return perr
			}
			return err
		}
		for _, r := range reports {
			if r.Err != nil {
				fmt.Printf("✗ %s: %v\n", r.TenantID, r.Err)
				continue
			}
			fmt.Printf("✓ %s: %d ok, %d fallidos, %d omitidos\n", r.TenantID, r.Report.Succeeded, r.Report.Failed, r.Report.Skipped)
		}
		return err
	})
}

func printCheck(res *appefatura.CheckResult) error {
	if outputFormat == "json" {
		return printJSON(res)
	}
	applied := "sin cambios"
	if res.Applied {
		applied = "actualizado"
	}
	fmt.Printf("%s %s: %s / %s (código %d, %s)\n", res.UUID, res.Number,
		res.Status.Lifecycle, res.Status.Answer, res.Status.ProviderStateCode, applied)
	if res.Remote != nil && res.Remote.ErrorMessage != "" {
		fmt.Printf("  error del proveedor: %s\n", res.Remote.ErrorMessage)
	}
	if res.StoreError != nil {
		fmt.Printf("  ⚠ caché no actualizada: %v\n", res.StoreError)
	}
	return nil
}

func printBatch(report *appefatura.BatchReport) error {
	if outputFormat == "json" {
		return printJSON(report)
	}
	for _, it := range report.Items {
		if it.Err != nil {
			fmt.Printf("✗ %s: %v\n", it.UUID, it.Err)
			continue
		}
		fmt.Printf("✓ %s: %s / %s\n", it.UUID, it.Result.Status.Lifecycle, it.Result.Status.Answer)
	}
	fmt.Printf("%d ok, %d fallidos, %d omitidos\n", report.Succeeded, report.Failed, report.Skipped)
	return nil
}
