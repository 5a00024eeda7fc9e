package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgefatura "github.com/jhoicas/efatura-api/pkg/efatura"
)

var taxIDCmd = &cobra.Command{
	Use:   "taxid [vkn|tckn...]",
	Short: "Valida VKN (10 dígitos) y TCKN (11 dígitos)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaxID,
}

var checkRemote bool

func init() {
	rootCmd.AddCommand(taxIDCmd)
	taxIDCmd.Flags().BoolVar(&checkRemote, "remote", false, "Consultar además las etiquetas registradas en el proveedor (requiere --tenant)")
}

func runTaxID(cmd *cobra.Command, args []string) error {
	allValid := true
	for _, id := range args {
		scheme, err := pkgefatura.ValidateTaxID(id)
		if err != nil {
			allValid = false
			fmt.Printf("✗ %s: %v\n", id, err)
			continue
		}
		fmt.Printf("✓ %s: %s válido\n", id, scheme)
	}
	if !allValid {
		return fmt.Errorf("hay identificadores inválidos")
	}
	if !checkRemote {
		return nil
	}
	if err := requireTenant(); err != nil {
		return err
	}
	return withTaxpayerLookup(cmd, args)
}
