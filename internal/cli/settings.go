package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/planner"
)

func init() {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change presentation settings",
		Long:  "Font scale is clamped to 0.8-1.4; at 1.2 and above the schedule defaults to the senior view.",
		Run:   runSettings,
	}

	cmd.Flags().Float64("font-scale", 1.0, "Font scale")
	cmd.Flags().Bool("dark-mode", false, "Dark mode")
	cmd.Flags().String("mobility", "", "Mobility: car, pickup, bike, walk")

	RootCmd.AddCommand(cmd)
}

func runSettings(cmd *cobra.Command, args []string) {
	var patch planner.SettingsPatch
	if cmd.Flags().Changed("font-scale") {
		v, _ := cmd.Flags().GetFloat64("font-scale")
		patch.FontScale = &v
	}
	if cmd.Flags().Changed("dark-mode") {
		v, _ := cmd.Flags().GetBool("dark-mode")
		patch.DarkMode = &v
	}
	if cmd.Flags().Changed("mobility") {
		v, _ := cmd.Flags().GetString("mobility")
		m := model.Mobility(v)
		patch.Mobility = &m
	}

	p, s, err := openPlanner(cmd.Context(), nil, nil)
	if err != nil {
		exitErr("open planner", err)
	}
	defer s.Close()

	st, err := p.UpdateSettings(cmd.Context(), patch)
	if err != nil {
		exitErr("settings", err)
	}
	printJSON(map[string]any{"settings": st, "senior_mode": p.SeniorMode()})
}
