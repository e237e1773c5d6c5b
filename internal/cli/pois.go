package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/field-planner/internal/exposure"
	"github.com/rcliao/field-planner/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "pois",
		Short: "List catalog POIs",
		Long:  "List the POIs of the catalog with their category and estimated exposure at --at (HH:MM).",
		Run:   runPOIs,
	}

	cmd.Flags().StringP("category", "c", "", "Only POIs of this category")
	cmd.Flags().String("at", "", "Clock to estimate exposure at (default: now)")

	RootCmd.AddCommand(cmd)
}

type poiRow struct {
	model.POI
	Category model.Category `json:"category"`
	Slot     model.Slot     `json:"slot"`
	Exposure int            `json:"exposure"`
}

func runPOIs(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	at, _ := cmd.Flags().GetString("at")
	if at == "" {
		at = model.ClockOf(time.Now())
	} else if _, err := model.ParseClock(at); err != nil {
		exitErr("pois", err)
	}

	repo, err := loadCatalog()
	if err != nil {
		exitErr("load catalog", err)
	}

	var pois []model.POI
	if category != "" {
		pois, err = repo.Pool(cmd.Context(), model.Category(strings.ToLower(category)))
	} else {
		pois, err = repo.POIs(cmd.Context())
	}
	if err != nil {
		exitErr("pois", err)
	}

	rows := make([]poiRow, 0, len(pois))
	for _, p := range pois {
		rows = append(rows, poiRow{POI: p, Category: p.Type.Category(), Slot: exposure.TimeSlot(at), Exposure: exposure.Of(p, at)})
	}
	if !textOutput() {
		printJSON(rows)
		return
	}
	for _, r := range rows {
		fmt.Printf("%-22s %-28s %-9s ~%d\n", faint.Sprint(r.ID), r.Name, r.Category, r.Exposure)
	}
}
