package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/efatura-api/pkg/config"
	"github.com/jhoicas/efatura-api/pkg/jwt"
	"github.com/jhoicas/efatura-api/pkg/secret"
)

var genKeyCmd = &cobra.Command{
	Use:   "genkey",
	Short: "Genera una clave para EFATURA_CREDENTIAL_KEY",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := secret.GenerateKey()
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	},
}

var (
	tokenUser    string
	tokenRole    string
	tokenMinutes int
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Emite un JWT para el tenant indicado (integraciones y pruebas)",
	Long: `Emite un JWT firmado con JWT_SECRET.

Roles: admin, operador, consulta.

Ejemplo:
  efaturactl token --tenant <tenant-id> --role operador --minutes 120`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTenant(); err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		minutes := tokenMinutes
		if minutes <= 0 {
			minutes = cfg.JWT.Expiration
		}
		tok, err := jwt.Generate(cfg.JWT.Secret, cfg.JWT.Issuer,
			jwt.Principal{UserID: tokenUser, TenantID: tenantID, Role: tokenRole},
			time.Duration(minutes)*time.Minute)
		if err != nil {
			return err
		}
		fmt.Println(tok)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genKeyCmd)
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenUser, "user", "efaturactl", "user_id del token")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "operador", "Rol del token")
	tokenCmd.Flags().IntVar(&tokenMinutes, "minutes", 0, "Vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
}
