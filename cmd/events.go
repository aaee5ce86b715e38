package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/planscope/planscope/internal/utils"
)

// eventsCmd searches ticketed events only.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Search ticketed events",
	Long:  "Searches upcoming ticketed events around a location, via Ticketmaster.",
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

		rs, err := eng.SearchEvents(ctx, q)
		if err != nil {
			utils.Log.Fatal(err)
		}
		printResultSet(rs, asJSON)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	addQueryFlags(eventsCmd)
}
