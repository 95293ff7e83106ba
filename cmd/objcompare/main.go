// Command objcompare shows the structural differences between two JSON or
// YAML documents.
//
//	objcompare diff old.json new.yaml     compare two files once
//	objcompare watch old.json new.yaml    re-compare whenever either file changes
//	objcompare tui                        paste documents into two live inputs
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/craigbuckler/objcompare"
	"github.com/craigbuckler/objcompare/internal/config"
	"github.com/craigbuckler/objcompare/store"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	configPath string
	colorFlag  string
	logLevel   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "objcompare",
		Short:         "Compare two JSON or YAML documents structurally",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&colorFlag, "color", "", "colour output: auto, always or never")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(newDiffCmd(), newWatchCmd(), newTUICmd())
	return root
}

// loadConfig reads the config file and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if colorFlag != "" {
		cfg.UI.Color = colorFlag
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	lvl, _ := cfg.SlogLevel()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// useColor resolves the colour mode against the output file
func useColor(cfg *config.Config, f *os.File) bool {
	switch cfg.UI.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func openStore(cfg *config.Config, logger *slog.Logger) (store.TextStore, error) {
	if cfg.Store.InMemory {
		return store.NewMemStore(), nil
	}
	sc := store.DefaultConfig(cfg.Store.Path)
	sc.Logger = logger.With("component", "store")
	return store.OpenBadger(sc)
}

func controllerOptions(cfg *config.Config, logger *slog.Logger) []objcompare.ControllerOption {
	return []objcompare.ControllerOption{
		objcompare.OptionLogger(logger),
		objcompare.OptionSideNames(cfg.Inputs.OldName, cfg.Inputs.NewName),
		objcompare.OptionStoreIDs(cfg.Inputs.OldID, cfg.Inputs.NewID),
		objcompare.OptionFormatter(&objcompare.Formatter{Separator: cfg.UI.Separator}),
	}
}

// errDifferent signals a successful run that found differences
type errDifferent struct{}

func (errDifferent) Error() string { return "documents differ" }

func exitCode(err error) int {
	if _, ok := err.(errDifferent); ok {
		return 1
	}
	fmt.Fprintln(os.Stderr, "objcompare:", err)
	return 2
}
