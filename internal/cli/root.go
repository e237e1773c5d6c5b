// Package cli implements the field-planner CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/field-planner/internal/catalog"
	"github.com/rcliao/field-planner/internal/config"
	"github.com/rcliao/field-planner/internal/geofence"
	"github.com/rcliao/field-planner/internal/logging"
	"github.com/rcliao/field-planner/internal/metrics"
	"github.com/rcliao/field-planner/internal/planner"
	"github.com/rcliao/field-planner/internal/recommend"
	"github.com/rcliao/field-planner/internal/store"
)

var (
	v          = config.New()
	cfg        config.Config
	logger     = zap.NewNop()
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "field-planner",
	Short: "Field-visit planner for campaign outreach",
	Long: "Plan daily field visits, request on-demand recommendations, and confirm presence at each stop.\n" +
		"State is kept in a local SQLite database. Output is JSON unless --format text is given.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(v); err != nil {
			return err
		}
		if logger, err = logging.New(cfg.LogLevel, cfg.LogFormat); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringP("db", "d", "", "Database path (default: $FIELD_PLANNER_DB or ~/.field-planner/planner.db)")
	pf.StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error")
	pf.String("catalog", "", "POI catalog YAML (default: built-in)")
	pf.Bool("simulate", false, "Report the target's own coordinates instead of a real fix (development only)")

	_ = v.BindPFlag("db", pf.Lookup("db"))
	_ = v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = v.BindPFlag("catalog", pf.Lookup("catalog"))
	_ = v.BindPFlag("simulate_location", pf.Lookup("simulate"))
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DBPath)
}

func loadCatalog() (catalog.Repository, error) {
	if cfg.Catalog == "" {
		return catalog.NewCached(catalog.Default(), 0), nil
	}
	c, err := catalog.LoadFile(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	return catalog.NewCached(c, 0), nil
}

// openPlanner opens the store and restores a planner on it. provider may be
// nil when the command never verifies.
func openPlanner(ctx context.Context, provider geofence.LocationProvider, m *metrics.Metrics) (*planner.Planner, *store.SQLiteStore, error) {
	s, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	repo, err := loadCatalog()
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	p, err := planner.Open(ctx, planner.Options{
		Catalog: repo,
		KV:      s,
		Verifier: geofence.NewVerifier(provider, geofence.Options{
			RadiusKm: cfg.GeofenceRadiusKm,
			Timeout:  cfg.LocationTimeout,
			Simulate: cfg.SimulateLocation,
		}, logger),
		Engine:        recommend.NewEngine(nil, logger),
		Metrics:       m,
		Logger:        logger,
		QuotaLimit:    cfg.QuotaLimit,
		QuotaWindow:   cfg.QuotaWindow,
		ReminderCount: cfg.ReminderCount,
	})
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return p, s, nil
}

func printJSON(val any) {
	b, _ := json.MarshalIndent(val, "", "  ")
	fmt.Println(string(b))
}

func textOutput() bool {
	return formatFlag == "text"
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
