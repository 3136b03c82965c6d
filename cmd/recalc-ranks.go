package cmd

import (
	"fmt"

	"github.com/mmc-gaming/clanhub/internal/engine"
	"github.com/spf13/cobra"
)

var recalcRanksCmd = &cobra.Command{
	Use:   "recalc-ranks",
	Short: "Re-derive ranks from kill counts",
	Long:  `Re-derive the rank of every user from the kill count. Manually set ranks are kept.`,
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
		changed, err := eng.RecalculateRanks(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Updated %d rank(s)\n", changed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recalcRanksCmd)
}
