package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/efatura-api/internal/infrastructure/postgres"
	"github.com/jhoicas/efatura-api/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|version]",
	Short:     "Migraciones del esquema PostgreSQL",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "version"},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := postgres.OpenDB(cfg.DB)
	if err != nil {
		return err
	}
	m, err := postgres.NewMigrator(db, newLogger(cfg))
	if err != nil {
		_ = db.Close()
		return err
	}
	defer m.Close()

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}
	if err != nil {
		return err
	}
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	fmt.Printf("versión %d (dirty=%t)\n", v, dirty)
	return nil
}
