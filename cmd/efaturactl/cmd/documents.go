package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	appefatura "github.com/jhoicas/efatura-api/internal/application/efatura"
	"github.com/jhoicas/efatura-api/internal/bootstrap"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
)

var (
	docDirection      string
	docCategory       string
	rangeFrom         string
	rangeTo           string
	onlyUntransferred bool
	maxFetch          int
	pdfOutput         string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Lista los ids remotos del rango que la caché no conoce",
	Long: `Lista los documentos del proveedor en el rango de fechas y descarta los ya conocidos.

Ejemplo:
  efaturactl discover --tenant <tenant-id> --from 2026-03-01 --to 2026-03-31 --direction PURCHASE`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

var importCmd = &cobra.Command{
	Use:   "import [uuid...]",
	Short: "Descarga y guarda documentos UBL (los indicados o los nuevos del rango)",
	Long: `Sin UUIDs importa los documentos nuevos del rango --from/--to, hasta --max-fetch.

Ejemplos:
  efaturactl import <uuid> <uuid> --tenant <tenant-id> --direction PURCHASE
  efaturactl import --tenant <tenant-id> --from 2026-03-01 --to 2026-03-31`,
	RunE: runImport,
}

var pdfCmd = &cobra.Command{
	Use:   "pdf <uuid>",
	Short: "Genera el PDF de un documento importado",
	Args:  cobra.ExactArgs(1),
	RunE:  runPDF,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(pdfCmd)

	for _, c := range []*cobra.Command{discoverCmd, importCmd} {
		c.Flags().StringVar(&docDirection, "direction", "", "SALES | PURCHASE")
		c.Flags().StringVar(&docCategory, "category", "", "EINVOICE | EARCHIVE")
		c.Flags().StringVar(&rangeFrom, "from", "", "Desde (YYYY-MM-DD)")
		c.Flags().StringVar(&rangeTo, "to", "", "Hasta, inclusive (YYYY-MM-DD)")
		c.Flags().BoolVar(&onlyUntransferred, "only-untransferred", false, "Solo documentos no descargados antes en el proveedor")
		c.Flags().IntVar(&maxFetch, "max-fetch", 0, "Máximo de ids nuevos (0 = EFATURA_MAX_FETCH)")
	}
	pdfCmd.Flags().StringVarP(&pdfOutput, "output", "o", "", "Archivo de salida (por defecto <uuid>.pdf)")
}

func discoveryRequest() (appefatura.DiscoveryRequest, error) {
	req := appefatura.DiscoveryRequest{
		TenantID:          tenantID,
		Direction:         entity.Direction(strings.ToUpper(docDirection)),
		Category:          entity.Category(strings.ToUpper(docCategory)),
		OnlyUntransferred: onlyUntransferred,
		MaxFetch:          maxFetch,
	}
	var err error
	if rangeFrom != "" {
		if req.From, err = time.Parse(time.DateOnly, rangeFrom); err != nil {
			return req, fmt.Errorf("--from: %w", err)
		}
	}
	if rangeTo != "" {
		if req.To, err = time.Parse(time.DateOnly, rangeTo); err != nil {
			return req, fmt.Errorf("--to: %w", err)
		}
		req.To = req.To.Add(24*time.Hour - time.Second)
	}
	return req, nil
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if err := requireTenant(); err != nil {
		return err
	}
	req, err := discoveryRequest()
	if err != nil {
		return err
	}
	return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
		res, err := c.Reconciler.ListNewInvoiceIDs(ctx, req)
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return printJSON(res)
		}
		for _, id := range res.UUIDs {
			fmt.Println(id)
		}
		fmt.Fprintf(os.Stderr, "%d listados, %d nuevos, %d pendientes, %d inválidos\n",
			res.Listed, len(res.UUIDs), res.Remaining, len(res.Invalid))
		return nil
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := requireTenant(); err != nil {
		return err
	}
	req, err := discoveryRequest()
	if err != nil {
		return err
	}
	return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
		var report *appefatura.ImportReport
		if len(args) > 0 {
			report, err = c.Documents.ImportBatch(ctx, tenantID, args, req.Direction, req.Category)
		} else {
			report, err = c.Documents.ImportNew(ctx, req)
		}
		if report == nil {
			return err
		}
		if outputFormat == "json" {
			if perr := printJSON(report); perr != nil {
				return perr
			}
			return err
		}
		for _, it := range report.Items {
			switch {
			case it.Err != nil:
				fmt.Printf("✗ %s: %v\n", it.UUID, it.Err)
			case it.Result.Changed:
				fmt.Printf("✓ %s: %s importado\n", it.Result.UUID, it.Result.Number)
			default:
				fmt.Printf("= %s: %s sin cambios\n", it.Result.UUID, it.Result.Number)
			}
		}
		fmt.Printf("%d importados, %d sin cambios, %d fallidos, %d omitidos, %d pendientes\n",
			report.Imported, report.Unchanged, report.Failed, report.Skipped, report.Remaining)
		return err
	})
}

func runPDF(cmd *cobra.Command, args []string) error {
	if err := requireTenant(); err != nil {
		return err
	}
	return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
		pdf, err := c.Documents.RenderPDF(ctx, tenantID, args[0])
		if err != nil {
			return err
		}
		out := pdfOutput
		if out == "" {
			out = strings.ToUpper(args[0]) + ".pdf"
		}
		if err := os.WriteFile(out, pdf, 0o644); err != nil {
			return err
		}
		fmt.Printf("PDF generado: %s (%d bytes)\n", out, len(pdf))
		return nil
	})
}
