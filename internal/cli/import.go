package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rcliao/field-planner/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Restore planner state from an export",
		Long: `Restore keys written by export, from file or stdin ("-" or no argument).
A key is only replaced when the imported version is newer than the stored one.
Use --only to restore a subset, e.g. --only visit-records.`,
		Args: cobra.MaximumNArgs(1),
		Run:  runImport,
	}

	cmd.Flags().StringSlice("only", nil, "Restore only these keys")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var r io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			exitErr("open file", err)
		}
		defer f.Close()
		r = f
	}
	only, _ := cmd.Flags().GetStringSlice("only")

	entries, err := readExport(r, only)
	if err != nil {
		exitErr("read export", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.Import(cmd.Context(), entries)
	if err != nil {
		exitErr("import", err)
	}

	printJSON(map[string]any{"ok": true, "read": len(entries), "imported": imported})
}

var plannerKeys = map[string]bool{
	store.KeyManual:        true,
	store.KeyRecommended:   true,
	store.KeyStatus:        true,
	store.KeyVisits:        true,
	store.KeyQuota:         true,
	store.KeySettings:      true,
	store.KeyNotifications: true,
	store.KeyAnnounced:     true,
}

// readExport decodes an export document, keeping only the keys in only when
// it is non-empty.
func readExport(r io.Reader, only []string) ([]store.Entry, error) {
	keep := make(map[string]bool, len(only))
	for _, k := range only {
		if !plannerKeys[k] {
			return nil, errors.Errorf("unknown key %q", k)
		}
		keep[k] = true
	}

	var entries []store.Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, errors.Wrap(err, "parse json")
	}

	out := entries[:0]
	for _, e := range entries {
		if e.Key == "" {
			return nil, errors.New("entry with empty key")
		}
		if len(keep) > 0 && !keep[e.Key] {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
