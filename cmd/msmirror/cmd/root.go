// Package cmd provides CLI command implementations
package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/msmirror/internal/config"
	"github.com/ChrisMcGann/msmirror/pkg/loader"
	"github.com/ChrisMcGann/msmirror/pkg/source"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
)

// app carries what every command needs once settings are resolved.
type app struct {
	settings *config.Settings
	logger   *slog.Logger
	src      *source.Source
	loader   *loader.Loader
	out      io.Writer
}

var application = &app{out: os.Stdout}

var rootCmd = &cobra.Command{
	Use:   "msmirror",
	Short: "msmirror - mirror plots for spectral library matches",
	Long: `msmirror draws mirror plots comparing experimental MS/MS spectra with
library reference spectra, and works on MGF files exported by MZmine and GNPS.

Commands:
- target: plot one feature against a library file or database entry
- batch: plot every feature/library match in a results folder
- mirror: plot the first spectrum of any two files
- extract: copy selected features into a new MGF file
- convert-db: turn a JSON spectral database into a SQLite library`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return application.setup(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(targetCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(mirrorCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(convertDBCmd)
}

func (a *app) setup(cmd *cobra.Command) error {
	settings, err := config.LoadSettingsWithFlags(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(os.Stderr, settings.LogLevel)
	if err != nil {
		return err
	}
	config.LogWithLogger(settings, logger)

	a.settings = settings
	a.logger = logger
	a.src = source.New()
	a.loader = loader.New(a.src)
	a.out = cmd.OutOrStdout()
	return nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().Int("top-n", 0, "Keep only top N most intense peaks (0 = no limit)")
	cmd.Flags().Float64("cutoff", 0, "Intensity cutoff as % of base peak (0 = no cutoff)")
	cmd.Flags().Float64("min-mz", 0, "Drop peaks below this m/z (0 = no limit)")
	cmd.Flags().Float64("max-mz", 0, "Drop peaks above this m/z (0 = no limit)")
}

// addPlotFlags registers the figure and peak filter flags shared by plotting commands.
func addPlotFlags(cmd *cobra.Command) {
	addFilterFlags(cmd)
	cmd.Flags().Int("dpi", 300, "Raster resolution for png output")
	cmd.Flags().Float64("width", 12, "Figure width in inches")
	cmd.Flags().Float64("height", 6, "Figure height in inches")
}
