package cmd

import (
	"fmt"

	"github.com/mmc-gaming/clanhub/internal/engine"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var statsFlags struct {
	Kills     int
	Score     int
	Matches   int
	ResetRank bool
}

var statsCmd = &cobra.Command{
	Use:   "stats <user>",
	Short: "Record game statistics for a user",
	Long: `Set the kills, score and matches of a user, given by username or ID.
The rank is re-derived from the kills unless it was set manually; --reset-rank drops a manual rank.`,
	Example: `clanhub stats alice --kills 120 --score 4500 --matches 30
clanhub stats 42 --score 0 --reset-rank`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close() //nolint: errcheck

		ctx := cmd.Context()
		user, err := resolveUser(ctx, db, args[0])
		if err != nil {
			return err
		}

		var update engine.StatsUpdate
		flags := cmd.Flags()
		if flags.Changed("kills") {
			if statsFlags.Kills < 0 {
				return fmt.Errorf("kills must not be negative")
			}
			update.Kills = lo.ToPtr(statsFlags.Kills)
		}
		if flags.Changed("score") {
			update.Score = lo.ToPtr(statsFlags.Score)
		}
		if flags.Changed("matches") {
			if statsFlags.Matches < 0 {
				return fmt.Errorf("matches must not be negative")
			}
			update.Matches = lo.ToPtr(statsFlags.Matches)
		}

		eng, err := engine.New(cfg, db)
		if err != nil {
			return err
		}
		user, err = eng.RecordStats(ctx, user.ID, update)
		if err != nil {
			return err
		}
		if statsFlags.ResetRank && user.RankOverridden {
			if err := eng.ApplyRank(ctx, user); err != nil {
				return err
			}
		}

		fmt.Printf("%s: kills=%d score=%d matches=%d rank=%q\n", user.Username, user.Kills, user.Score, user.Matches, user.Rank)
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsFlags.Kills, "kills", 0, "Total kills")
	statsCmd.Flags().IntVar(&statsFlags.Score, "score", 0, "Total score")
	statsCmd.Flags().IntVar(&statsFlags.Matches, "matches", 0, "Matches played")
	statsCmd.Flags().BoolVar(&statsFlags.ResetRank, "reset-rank", false, "Drop a manually set rank and derive it from the kills")
	rootCmd.AddCommand(statsCmd)
}
