package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aouyang1/signage/api"
	"github.com/aouyang1/signage/store"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List slides that no queue references",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		database, err := store.NewDatabase(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.Close()

		auditManager, err := api.NewAuditManager(database, cfg.AuditInterval)
		if err != nil {
			return err
		}
		orphans, err := auditManager.Audit(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(orphans) == 0 {
			fmt.Fprintln(out, "no orphaned slides")
			return nil
		}
		for _, s := range orphans {
			fmt.Fprintf(out, "%s\t%s\t%s\n", s.ID, s.Owner, s.Name)
		}
		return fmt.Errorf("found %d orphaned slides", len(orphans))
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
