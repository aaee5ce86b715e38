package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/planscope/planscope/internal/utils"
	"github.com/planscope/planscope/pkg/activity"
	"github.com/planscope/planscope/pkg/calendar"
)

// linkCmd builds a calendar artifact for one previously returned activity.
var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Build a calendar link for an activity",
	Long:  "Looks the activity up by its provider id and prints a pre-filled Google Calendar link, or an ICS document with --ics.",
	Run: func(cmd *cobra.Command, args []string) {
		source, _ := cmd.Flags().GetString("source")
		id, _ := cmd.Flags().GetString("id")
		asICS, _ := cmd.Flags().GetBool("ics")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		eng := buildEngine(1, timeout)
		ctx, cancel := context.WithTimeout(context.Background(), timeout+5*time.Second)
		defer cancel()

		a, err := eng.LookupActivity(ctx, activity.Source(source), id)
		if err != nil {
			utils.Log.Fatal(err)
		}

		var out string
		if asICS {
			out, err = calendar.BuildICS(a)
		} else {
			out, err = calendar.BuildLink(a)
		}
		if err != nil {
			utils.Log.Fatal(err)
		}
		fmt.Println(out)
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
	linkCmd.Flags().StringP("source", "s", "", "Activity source: event or place")
	linkCmd.Flags().StringP("id", "i", "", "Provider-scoped activity id")
	linkCmd.Flags().Bool("ics", false, "Print an ICS document instead of a deep link")
	linkCmd.Flags().Duration("timeout", 10*time.Second, "Lookup timeout")
}
