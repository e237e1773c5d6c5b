package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/rcliao/field-planner/internal/model"
)

var (
	bold    = color.New(color.Bold)
	faint   = color.New(color.Faint)
	green   = color.New(color.FgGreen)
	yellow  = color.New(color.FgYellow)
	red     = color.New(color.FgRed)
	cyan    = color.New(color.FgCyan)
	magenta = color.New(color.FgMagenta)
)

func sourceColor(s model.Source) *color.Color {
	switch s {
	case model.SourceRecommended:
		return magenta
	case model.SourceManual:
		return cyan
	default:
		return bold
	}
}

func statusColor(s model.Status) *color.Color {
	switch s {
	case model.StatusDone:
		return green
	case model.StatusStarted:
		return yellow
	case model.StatusSkipped:
		return faint
	default:
		return color.New(color.Reset)
	}
}

func writeEntry(w io.Writer, e model.ScheduleEntry) {
	span := e.StartTime
	if e.EndTime != "" {
		span += "-" + e.EndTime
	}
	fmt.Fprintf(w, "%-11s  %s  %-28s %-9s %s",
		span,
		sourceColor(e.Source).Sprintf("%-11s", e.Source),
		e.DisplayName(),
		e.Category(),
		statusColor(e.Status).Sprint(e.Status))
	if e.Source != model.SourceManual {
		fmt.Fprintf(w, "  ~%d", e.EstimatedExposure)
	}
	fmt.Fprintf(w, "  %s\n", faint.Sprint(e.ID))
}

func writeEntries(w io.Writer, entries []model.ScheduleEntry) {
	if len(entries) == 0 {
		faint.Fprintln(w, "no entries")
		return
	}
	for _, e := range entries {
		writeEntry(w, e)
	}
}
