package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/field-planner/internal/planner"
	"github.com/rcliao/field-planner/internal/schedule"
)

func init() {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the day's schedule",
		Long: "Show baseline, recommended and manual entries ordered by start time.\n" +
			"Filter by coarse category (transit, school, shop, park, religious, public, manual) and time slot\n" +
			"(morning, noon, evening, night). --senior shows only the next stop and the ones after it.",
		Run: runSchedule,
	}

	cmd.Flags().String("date", "", "Day to show, YYYY-MM-DD (default: today)")
	cmd.Flags().StringP("category", "c", "all", "Category filter")
	cmd.Flags().StringP("slot", "s", "all", "Time slot filter")
	cmd.Flags().Bool("senior", false, "Simplified next/remaining view")

	RootCmd.AddCommand(cmd)
}

func runSchedule(cmd *cobra.Command, args []string) {
	date, _ := cmd.Flags().GetString("date")
	category, _ := cmd.Flags().GetString("category")
	slot, _ := cmd.Flags().GetString("slot")
	senior, _ := cmd.Flags().GetBool("senior")

	filter, err := schedule.ParseFilter(category, slot)
	if err != nil {
		exitErr("schedule", err)
	}

	p, s, err := openPlanner(cmd.Context(), nil, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	if !cmd.Flags().Changed("senior") && date == "" {
		senior = p.SeniorMode()
	}
	if senior {
		split := p.Senior()
		if !textOutput() {
			printJSON(split)
			return
		}
		if split.Next == nil {
			faint.Println("nothing left today")
			return
		}
		bold.Println("Next")
		writeEntry(os.Stdout, *split.Next)
		if len(split.Remaining) > 0 {
			bold.Println("Later")
			writeEntries(os.Stdout, split.Remaining)
		}
		return
	}

	if date != "" && date != p.Snapshot().Date {
		if err := p.LoadBaseline(cmd.Context(), date); err != nil {
			exitErr("load baseline", err)
		}
	}
	view := p.View(planner.ViewParams{Date: date, Filter: filter})
	if !textOutput() {
		printJSON(view)
		return
	}
	writeEntries(os.Stdout, view)
	faint.Printf("%d entries\n", len(view))
}
