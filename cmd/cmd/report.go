package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"escmon/internal/store"

	"github.com/spf13/cobra"
)

var reportDate string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a stored report",
	Long: `Prints the stored report for a date (YYYY-MM-DD), or the most recent
report within the last week when no date is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		reports := store.New(cfg.Storage, cfg.Env)

		var report any
		if reportDate != "" {
			r, err := reports.GetByDate(cmd.Context(), reportDate)
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("no report for %s", reportDate)
			}
			report = r
		} else {
			r, ageDays, found := reports.GetLatest(cmd.Context(), 7)
			if !found {
				return fmt.Errorf("no report within the last week")
			}
			fmt.Fprintf(os.Stderr, "Latest report: %s (%d day(s) old)\n", r.Date, ageDays)
			report = r
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "report date (YYYY-MM-DD)")
	rootCmd.AddCommand(reportCmd)
}
