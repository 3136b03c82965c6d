package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display record counts of the portal database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close() //nolint: errcheck

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get database stats: %w", err)
		}

		fmt.Println("Database Statistics:")
		fmt.Printf("Database File: %s\n", cfg.Database.Path)
		if info, err := os.Stat(cfg.Database.Path); err == nil {
			fmt.Printf("Database Size: %s\n", humanize.IBytes(uint64(info.Size()))) //nolint:gosec
		}
		fmt.Printf("Users: %s\n", humanize.Comma(stats.Users))
		fmt.Printf("Admins: %s\n", humanize.Comma(stats.Admins))
		fmt.Printf("Disabled Users: %s\n", humanize.Comma(stats.DisabledUsers))
		fmt.Printf("Clans: %s\n", humanize.Comma(stats.Clans))
		fmt.Printf("Events: %s\n", humanize.Comma(stats.Events))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}
