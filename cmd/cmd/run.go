package cmd

import (
	"fmt"

	"escmon/internal/monitor"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one full monitoring run",
	Long: `Fetches all sources, scores the digest across the five dimensions and
persists the dated report. Exits non-zero if the assessment fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		m, err := monitor.FromConfig(cfg)
		if err != nil {
			return err
		}

		res := m.Run(cmd.Context())
		if res.Result != "ok" {
			return fmt.Errorf("run failed: %s", res.ErrorMessage)
		}

		r := res.Report.EscalationResult
		fmt.Printf("Escalation score: %.1f (%s)\n", r.Score, r.Level)
		fmt.Println(r.Summary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
