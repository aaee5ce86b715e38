package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/planscope/planscope/internal/server"
	"github.com/planscope/planscope/internal/utils"
)

// serveCmd exposes the search and calendar operations as JSON tools over
// HTTP, for transport layers that call them remotely.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP tool server",
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		maxResults, _ := cmd.Flags().GetInt("max")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		eng := buildEngine(maxResults, timeout)
		srv := server.New(eng, viper.GetString("server.username"), viper.GetString("server.password"))
		if err := srv.Start(addr); err != nil {
			utils.Log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().Int("max", 20, "Maximum number of results per query")
	serveCmd.Flags().Duration("timeout", 10*time.Second, "Per-provider timeout")
}
