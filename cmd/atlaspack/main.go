// AtlasPack packs sprite images onto texture atlas pages with the MaxRects
// algorithm and writes a JSON manifest plus optional PDF, label, spreadsheet
// and PNG previews of the layout.
//
// Build:
//   go build -o atlaspack ./cmd/atlaspack
//
// Examples:
//   atlaspack pack --in sprites.csv --out build/atlas --preview --pdf
//   atlaspack compare --in ./art --width 1024 --height 1024
//   atlaspack estimate --in sprites.xlsx --waste 15

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/AtlasPack/internal/engine"
	"github.com/piwi3910/AtlasPack/internal/model"
	"github.com/piwi3910/AtlasPack/internal/project"
)

// errUnplaced is returned when a build left sprites off every page.
var errUnplaced = errors.New("some sprites could not be placed")

type globalOptions struct {
	configPath string
	verbose    bool
	config     *model.AppConfig
}

func main() {
	err := newRootCmd().Execute()
	switch {
	case err == nil:
	case errors.Is(err, errUnplaced):
		fmt.Fprintln(os.Stderr, "atlaspack:", err)
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "atlaspack:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "atlaspack",
		Short:         "Pack sprites onto texture atlas pages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			engine.SetLogger(newLogger(cmd, cfg.LogLevel, opts.verbose))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.atlaspack/config.toml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log engine progress to stderr")

	root.AddCommand(
		newPackCmd(opts),
		newCompareCmd(opts),
		newEstimateCmd(opts),
		newHeuristicsCmd(),
		newPresetsCmd(),
		newBackupCmd(opts),
	)
	return root
}

func (o *globalOptions) path() string {
	if o.configPath == "" {
		return project.DefaultConfigPath()
	}
	return o.configPath
}

// loadConfig reads the config file once per run.
func (o *globalOptions) loadConfig() (model.AppConfig, error) {
	if o.config != nil {
		return *o.config, nil
	}
	cfg, err := project.LoadAppConfig(o.path())
	if err != nil {
		return model.AppConfig{}, err
	}
	o.config = &cfg
	return cfg, nil
}

// newLogger returns a text logger on the command's stderr. Verbose forces
// debug level, otherwise the configured level applies.
func newLogger(cmd *cobra.Command, level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
}
