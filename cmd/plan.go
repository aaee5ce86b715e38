package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/planscope/planscope/internal/utils"
)

// planCmd runs the full aggregation across both sources.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan an outing across events and places",
	Long:  "Searches all providers concurrently and returns one merged, ranked list. A failing provider is reported, not fatal.",
	Run: func(cmd *cobra.Command, args []string) {
		q, err := queryFromFlags(cmd)
		if err != nil {
			utils.Log.Fatal(err)
		}
		maxResults, _ := cmd.Flags().GetInt("max")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		asJSON, _ := cmd.Flags().GetBool("json")

		eng := buildEngine(maxResults, timeout)
		ctx, cancel := context.WithTimeout(context.Background(), timeout+5*time.Second)
		defer cancel()

		rs, err := eng.Aggregate(ctx, q)
		if err != nil {
			utils.Log.Fatal(err)
		}
		printResultSet(rs, asJSON)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	addQueryFlags(planCmd)
}
