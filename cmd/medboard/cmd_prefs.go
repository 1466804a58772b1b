package main

import (
	"fmt"

	"medboard/internal/logging"
	"medboard/internal/prefs"
	"medboard/internal/viewmode"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// prefsCmd inspects and edits the stored view mode.
var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect or change stored preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the saved view mode",
	Args:  cobra.NoArgs,
	RunE:  getPreference,
}

var prefsSetCmd = &cobra.Command{
	Use:       "set <mode>",
	Short:     "Save the view mode used at next start (pre-visit or visit)",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(viewmode.PreVisit), string(viewmode.Visit)},
	RunE:      setPreference,
}

func openPrefs() (prefs.Store, error) {
	ws, err := resolveWorkspace()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(ws)
	if err != nil {
		return nil, err
	}
	store, err := prefs.Open(cfg.Preferences.Backend, cfg.PreferencesDir(ws))
	if err != nil {
		return nil, fmt.Errorf("failed to open preference store: %w", err)
	}
	logger.Debug("preference store opened", zap.String("backend", cfg.Preferences.Backend))
	return store, nil
}

func getPreference(cmd *cobra.Command, args []string) error {
	store, err := openPrefs()
	if err != nil {
		return err
	}
	defer store.Close()

	pref := prefs.NewViewModePreference(store, logger.Named(string(logging.CategoryPrefs)))
	mode, ok := pref.Load()
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", viewmode.Default)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), mode)
	return nil
}

func setPreference(cmd *cobra.Command, args []string) error {
	mode, ok := viewmode.ParseMode(args[0])
	if !ok {
		return fmt.Errorf("unknown view mode %q (want %s or %s)", args[0], viewmode.PreVisit, viewmode.Visit)
	}

	store, err := openPrefs()
	if err != nil {
		return err
	}
	defer store.Close()

	// Written directly so the CLI can report failures the dashboard swallows.
	if err := store.SetItem(prefs.ViewModeKey, string(mode)); err != nil {
		return fmt.Errorf("failed to save view mode: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "view mode set to %s\n", mode)
	return nil
}
