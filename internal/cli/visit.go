package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rcliao/field-planner/internal/geofence"
	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/planner"
)

func init() {
	verify := &cobra.Command{
		Use:   "verify <entry-id>",
		Short: "Confirm presence at a scheduled stop",
		Long: "Check the current position against the entry's location. Within the geofence radius\n" +
			"(default 1 km) the entry is marked done and the visit recorded once per day.\n" +
			"Pass the fix with --lat/--lng; without one, verification fails unless --simulate is set.",
		Args: cobra.ExactArgs(1),
		Run:  runVerify,
	}
	verify.Flags().Float64("lat", 0, "Current latitude")
	verify.Flags().Float64("lng", 0, "Current longitude")

	start := &cobra.Command{
		Use:   "start <entry-id>",
		Short: "Mark an entry as started",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runTransition(cmd, args[0], (*planner.Planner).Start)
		},
	}

	skip := &cobra.Command{
		Use:   "skip <entry-id>",
		Short: "Mark an entry as skipped",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runTransition(cmd, args[0], (*planner.Planner).Skip)
		},
	}

	RootCmd.AddCommand(verify, start, skip)
}

func runVerify(cmd *cobra.Command, args []string) {
	var provider geofence.LocationProvider
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
		lat, _ := cmd.Flags().GetFloat64("lat")
		lng, _ := cmd.Flags().GetFloat64("lng")
		provider = geofence.StaticProvider{Lat: lat, Lng: lng}
	}

	p, s, err := openPlanner(cmd.Context(), provider, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	res, err := p.Verify(cmd.Context(), args[0])
	var le *geofence.LocationError
	if errors.As(err, &le) {
		if !textOutput() {
			printJSON(map[string]any{"ok": false, "error": "location_unavailable", "reason": le.Reason})
		} else {
			red.Fprintf(os.Stderr, "could not get location: %s\n", le.Reason)
		}
		os.Exit(1)
	}
	if err != nil {
		exitErr("verify", err)
	}

	if !textOutput() {
		printJSON(res)
		if res.Outcome != geofence.Verified {
			os.Exit(2)
		}
		return
	}
	if res.Outcome != geofence.Verified {
		red.Printf("not at %s: %.2f km away\n", res.Entry.DisplayName(), res.DistanceKm)
		os.Exit(2)
	}
	green.Printf("verified at %s (%.2f km)", res.Entry.DisplayName(), res.DistanceKm)
	if !res.Inserted {
		faint.Print(", already recorded today")
	}
	fmt.Println()
}

func runTransition(cmd *cobra.Command, id string, fn func(*planner.Planner, context.Context, string) (model.ScheduleEntry, error)) {
	p, s, err := openPlanner(cmd.Context(), nil, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	e, err := fn(p, cmd.Context(), id)
	if err != nil {
		exitErr(cmd.Name(), err)
	}
	if !textOutput() {
		printJSON(e)
		return
	}
	writeEntry(os.Stdout, e)
}
