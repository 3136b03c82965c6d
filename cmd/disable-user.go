package cmd

import (
	"fmt"

	"github.com/mmc-gaming/clanhub/internal/engine"
	"github.com/spf13/cobra"
)

var disableUserCmd = &cobra.Command{
	Use:   "disable-user <username>",
	Short: "Disable a user account",
	Long:  `Disable a user account. The user is logged out on the next request and the username and email stay reserved.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close() //nolint: errcheck

		eng, err := engine.New(cfg, db)
		if err != nil {
			return err
		}
		user, err := eng.DisableUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Disabled user %s (ID %d)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(disableUserCmd)
}
