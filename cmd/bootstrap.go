package cmd

import (
	"fmt"

	"github.com/mmc-gaming/clanhub/internal/engine"
	"github.com/spf13/cobra"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Ensure the admin account exists",
	Long: `Create the configured admin account, or promote it if it exists without admin rights.
The password is only needed when the account has to be created (admin.password or CLANHUB_ADMIN_PASSWORD).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close() //nolint: errcheck

		result, err := engine.EnsureDefaultAdmin(cmd.Context(), db, cfg.Admin)
		if err != nil {
			return err
		}
		fmt.Printf("Admin account %q: %s\n", cfg.Admin.Username, result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}
