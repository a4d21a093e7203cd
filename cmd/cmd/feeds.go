package cmd

import (
	"fmt"

	"escmon/internal/feeds"
	"escmon/internal/ingest"

	"github.com/spf13/cobra"
)

var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "Fetch all sources and print the digest",
	Long: `Fetches every configured source without any analysis-service filtering
and prints the rendered digest to stdout. Useful for checking which sources
are reachable and what they currently publish.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// No relevance filter here; recency still applies per source.
		orchestrator := ingest.New(cfg.Feeds, feeds.Sources(), nil)
		digest := orchestrator.Run(cmd.Context())

		fmt.Println(digest.Content)
		fmt.Printf("Sources: %d total, %d failed, %d items\n",
			digest.SourceCount, digest.FailedCount, digest.ItemCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(feedsCmd)
}
