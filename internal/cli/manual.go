package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/planner"
	"github.com/rcliao/field-planner/internal/schedule"
)

func init() {
	manual := &cobra.Command{
		Use:   "manual",
		Short: "Manage manually entered schedule entries",
	}

	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a manual entry",
		Args:  cobra.ExactArgs(1),
		Run:   runManualAdd,
	}
	manualFlags(add)

	edit := &cobra.Command{
		Use:   "edit <entry-id>",
		Short: "Edit a manual entry",
		Long:  "Change the fields given as flags. Baseline and recommended entries cannot be edited.",
		Args:  cobra.ExactArgs(1),
		Run:   runManualEdit,
	}
	edit.Flags().String("title", "", "Title")
	manualFlags(edit)

	rm := &cobra.Command{
		Use:   "rm <entry-id>",
		Short: "Remove a manual entry",
		Args:  cobra.ExactArgs(1),
		Run:   runManualRm,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List manual entries",
		Run:   runManualList,
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Remove every manual entry (recorded visits are kept)",
		Run:   runManualClear,
	}

	manual.AddCommand(add, edit, rm, list, clear)
	RootCmd.AddCommand(manual)
}

func manualFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "Day, YYYY-MM-DD (default: today)")
	cmd.Flags().String("start", "", "Start time, HH:MM")
	cmd.Flags().String("end", "", "End time, HH:MM")
	cmd.Flags().String("place", "", "Location name")
	cmd.Flags().String("address", "", "Address")
	cmd.Flags().Float64("lat", 0, "Latitude, enables location verification")
	cmd.Flags().Float64("lng", 0, "Longitude, enables location verification")
	cmd.Flags().String("color", "", "Display color")
	cmd.Flags().String("memo", "", "Memo")
}

func pinnedLocation(cmd *cobra.Command) *model.Coordinates {
	if !cmd.Flags().Changed("lat") && !cmd.Flags().Changed("lng") {
		return nil
	}
	lat, _ := cmd.Flags().GetFloat64("lat")
	lng, _ := cmd.Flags().GetFloat64("lng")
	return &model.Coordinates{Lat: lat, Lng: lng}
}

func runManualAdd(cmd *cobra.Command, args []string) {
	in := planner.ManualInput{Title: args[0], Location: pinnedLocation(cmd)}
	in.Date, _ = cmd.Flags().GetString("date")
	in.StartTime, _ = cmd.Flags().GetString("start")
	in.EndTime, _ = cmd.Flags().GetString("end")
	in.LocationName, _ = cmd.Flags().GetString("place")
	in.Address, _ = cmd.Flags().GetString("address")
	in.Color, _ = cmd.Flags().GetString("color")
	in.Memo, _ = cmd.Flags().GetString("memo")

	p, s, err := openPlanner(cmd.Context(), nil, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	e, err := p.AddManual(cmd.Context(), in)
	if err != nil {
		exitErr("manual add", err)
	}
	if !textOutput() {
		printJSON(e)
		return
	}
	writeEntry(os.Stdout, e)
}

func runManualEdit(cmd *cobra.Command, args []string) {
	var patch planner.ManualPatch
	str := func(flag string) *string {
		if !cmd.Flags().Changed(flag) {
			return nil
		}
		v, _ := cmd.Flags().GetString(flag)
		return &v
	}
	patch.Title = str("title")
	patch.Date = str("date")
	patch.StartTime = str("start")
	patch.EndTime = str("end")
	patch.LocationName = str("place")
	patch.Address = str("address")
	patch.Color = str("color")
	patch.Memo = str("memo")
	patch.Location = pinnedLocation(cmd)

	p, s, err := openPlanner(cmd.Context(), nil, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	e, err := p.UpdateManual(cmd.Context(), args[0], patch)
	if err != nil {
		exitErr("manual edit", err)
	}
	if !textOutput() {
		printJSON(e)
		return
	}
	writeEntry(os.Stdout, e)
}

func runManualRm(cmd *cobra.Command, args []string) {
	p, s, err := openPlanner(cmd.Context(), nil, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	if err := p.RemoveManual(cmd.Context(), args[0]); err != nil {
		exitErr("manual rm", err)
	}
	fmt.Printf(`{"ok":true,"removed":%q}`+"\n", args[0])
}

func runManualList(cmd *cobra.Command, args []string) {
	p, s, err := openPlanner(cmd.Context(), nil, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	entries := schedule.View(p.Snapshot().Manual, schedule.Filter{Category: schedule.All, Slot: schedule.All})
	if !textOutput() {
		printJSON(entries)
		return
	}
	writeEntries(os.Stdout, entries)
}

func runManualClear(cmd *cobra.Command, args []string) {
	p, s, err := openPlanner(cmd.Context(), nil, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	n, err := p.ClearManual(cmd.Context())
	if err != nil {
		exitErr("manual clear", err)
	}
	fmt.Printf(`{"ok":true,"removed":%d}`+"\n", n)
}
