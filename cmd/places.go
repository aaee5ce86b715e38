package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/planscope/planscope/internal/utils"
)

// placesCmd searches points of interest only.
var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Search nearby places",
	Long:  "Searches restaurants, parks, museums and other points of interest around a location, via Google Places.",
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

		rs, err := eng.SearchPlaces(ctx, q)
		if err != nil {
			utils.Log.Fatal(err)
		}
		printResultSet(rs, asJSON)
	},
}

func init() {
	rootCmd.AddCommand(placesCmd)
	addQueryFlags(placesCmd)
}
