package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	appefatura "github.com/jhoicas/efatura-api/internal/application/efatura"
	"github.com/jhoicas/efatura-api/internal/bootstrap"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
)

var (
	customerAlias   string
	integrationCode string
	answerNote      string
	accountUser     string
	accountEnv      string
)

var transferCmd = &cobra.Command{
	Use:   "transfer <archivo.xml>",
	Short: "Envía un documento UBL-TR al proveedor",
	Long: `Empaqueta el XML (zip + base64 + MD5) y lo envía como e-Fatura.

Ejemplo:
  efaturactl transfer factura.xml --tenant <tenant-id> --alias urn:mail:defaultpk@receptor.com.tr`,
	Args: cobra.ExactArgs(1),
	RunE: runTransfer,
}

var transferStatusCmd = &cobra.Command{
	Use:   "transfer-status <transfer-id>",
	Short: "Estado de una transferencia previa",
	Args:  cobra.ExactArgs(1),
	RunE:  runTransferStatus,
}

var answerCmd = &cobra.Command{
	Use:   "answer <uuid> <ACCEPTED|REJECTED|RETURNED>",
	Short: "Respuesta comercial a una factura recibida",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnswer,
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Guarda las credenciales del proveedor del tenant (contraseña por stdin)",
	Long: `Guarda usuario y contraseña del proveedor. La contraseña se lee de stdin y se cifra antes de persistir.

Ejemplo:
  echo -n "$EFATURA_PASSWORD" | efaturactl account --tenant <tenant-id> --username kullanici --environment prod`,
	Args: cobra.NoArgs,
	RunE: runAccount,
}

func init() {
	rootCmd.AddCommand(transferCmd)
	rootCmd.AddCommand(transferStatusCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(accountCmd)

	transferCmd.Flags().StringVar(&customerAlias, "alias", "", "Etiqueta del receptor (urn:mail:...)")
	transferCmd.Flags().StringVar(&integrationCode, "integration-code", "", "Código de integración propio")
	answerCmd.Flags().StringVar(&answerNote, "note", "", "Nota para el emisor")
	accountCmd.Flags().StringVar(&accountUser, "username", "", "Usuario del proveedor")
	accountCmd.Flags().StringVar(&accountEnv, "environment", "", "test | prod (por defecto EFATURA_ENVIRONMENT)")
}

func runTransfer(cmd *cobra.Command, args []string) error {
	if err := requireTenant(); err != nil {
		return err
	}
	xml, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
		out, err := c.Integration.Transfer(ctx, appefatura.TransferRequest{
			TenantID:        tenantID,
			XML:             xml,
			CustomerAlias:   customerAlias,
			IntegrationCode: integrationCode,
		})
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return printJSON(out)
		}
		fmt.Printf("✓ %s (%s) enviado, transferencia %s\n", out.Number, out.UUID, out.TransferID)
		return nil
	})
}

func runTransferStatus(cmd *cobra.Command, args []string) error {
	if err := requireTenant(); err != nil {
		return err
	}
	return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
		view, err := c.Integration.TransferStatus(ctx, tenantID, args[0])
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return printJSON(view)
		}
		fmt.Printf("%s: %s (código %d %s)\n", view.TransferID, view.Lifecycle, view.Status.StateCode, view.Status.StateName)
		if view.Status.ErrorMessage != "" {
			fmt.Printf("  error del proveedor: %s\n", view.Status.ErrorMessage)
		}
		return nil
	})
}

func runAnswer(cmd *cobra.Command, args []string) error {
	if err := requireTenant(); err != nil {
		return err
	}
	return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
		res, err := c.Integration.Answer(ctx, appefatura.AnswerRequest{
			TenantID: tenantID,
			UUID:     args[0],
			Answer:   entity.Answer(strings.ToUpper(args[1])),
			Note:     answerNote,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ respuesta enviada (%s)\n", res.TransferID)
		return nil
	})
}

func runAccount(cmd *cobra.Command, args []string) error {
	if err := requireTenant(); err != nil {
		return err
	}
	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && password == "" {
		return errors.New("contraseña requerida por stdin")
	}
	return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
		acc := &entity.ProviderAccount{
			TenantID:    tenantID,
			Username:    accountUser,
			Password:    strings.TrimRight(password, "\r\n"),
			Environment: entity.Environment(strings.ToLower(accountEnv)),
		}
		if err := c.Integration.SaveAccount(ctx, acc); err != nil {
			return err
		}
		fmt.Printf("✓ cuenta %s guardada (%s)\n", acc.Username, acc.Environment)
		return nil
	})
}

// withTaxpayerLookup etiquetas registradas en el proveedor para cada id.
func withTaxpayerLookup(cmd *cobra.Command, ids []string) error {
	return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
		for _, id := range ids {
			aliases, err := c.Integration.CheckTaxpayer(ctx, tenantID, id)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			if len(aliases) == 0 {
				fmt.Printf("  %s: no registrado en e-Fatura\n", id)
				continue
			}
			for _, a := range aliases {
				fmt.Printf("  %s: %s %s (%s)\n", id, a.Alias, a.Title, a.Type)
			}
		}
		return nil
	})
}
