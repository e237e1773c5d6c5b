package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/recommend"
)

func init() {
	rec := &cobra.Command{
		Use:   "recommend <category>",
		Short: "Add an on-demand recommended visit",
		Long: "Pick a POI of the category at random and schedule it from now for up to two hours.\n" +
			"Recommendations are limited per time window (default 2 per 30 minutes).",
		Args: cobra.ExactArgs(1),
		Run:  runRecommend,
	}

	cooldown := &cobra.Command{
		Use:   "cooldown",
		Short: "Show the recommendation quota and cooldown",
		Run:   runCooldown,
	}
	cooldown.Flags().BoolP("watch", "w", false, "Count down until the next recommendation is available")

	RootCmd.AddCommand(rec, cooldown)
}

func runRecommend(cmd *cobra.Command, args []string) {
	category := model.Category(strings.ToLower(strings.TrimSpace(args[0])))

	p, s, err := openPlanner(cmd.Context(), nil, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	entry, err := p.Recommend(cmd.Context(), category)
	var qe *recommend.QuotaExceededError
	if errors.As(err, &qe) {
		if textOutput() {
			yellow.Fprintf(os.Stderr, "quota used up, next recommendation in %s\n", qe.Remaining.Round(time.Second))
			os.Exit(1)
		}
		printJSON(map[string]any{"ok": false, "error": "quota_exceeded", "remaining_ms": qe.RemainingMs()})
		os.Exit(1)
	}
	if err != nil {
		exitErr("recommend", err)
	}

	if !textOutput() {
		printJSON(entry)
		return
	}
	writeEntry(os.Stdout, entry)
}

func runCooldown(cmd *cobra.Command, args []string) {
	watch, _ := cmd.Flags().GetBool("watch")

	p, s, err := openPlanner(cmd.Context(), nil, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	q, remaining := p.Cooldown()
	s.Close()

	if !watch {
		if !textOutput() {
			printJSON(map[string]any{"quota": q, "remaining_ms": remaining.Milliseconds()})
			return
		}
		fmt.Printf("used %d of %d, ", q.Used, q.Limit)
		if remaining == 0 {
			green.Println("available now")
			return
		}
		yellow.Printf("available in %s\n", remaining.Round(time.Second))
		return
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	watchCooldown(ctx, q)
}

func watchCooldown(ctx context.Context, q model.Quota) {
	for r := range recommend.Countdown(ctx, q, time.Now, time.Second) {
		if r == 0 {
			fmt.Print("\r")
			green.Println("available now         ")
			return
		}
		fmt.Printf("\rnext recommendation in %s ", r.Round(time.Second))
	}
	fmt.Println()
}
