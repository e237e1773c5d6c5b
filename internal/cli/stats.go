package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show visit statistics",
		Long:  "Show the number of confirmed visits and their share per category. --storage shows database statistics instead.",
		Run:   runStats,
	}

	cmd.Flags().Bool("visits", false, "Include every visit record")
	cmd.Flags().Bool("storage", false, "Show database statistics")

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	withVisits, _ := cmd.Flags().GetBool("visits")
	storage, _ := cmd.Flags().GetBool("storage")

	if storage {
		s, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()

		stats, err := s.Stats(cmd.Context(), cfg.DBPath)
		if err != nil {
			exitErr("stats", err)
		}
		printJSON(stats)
		return
	}

	p, s, err := openPlanner(cmd.Context(), nil, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	stats := p.Stats(withVisits)
	if !textOutput() {
		printJSON(stats)
		return
	}
	bold.Printf("%d visits\n", stats.TotalVisits)
	for _, row := range stats.ByCategory {
		fmt.Printf("  %-10s %4d  %5.1f%%\n", row.Category, row.Count, row.Percent)
	}
}
