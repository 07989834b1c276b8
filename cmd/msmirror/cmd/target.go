package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/msmirror/pkg/core"
	"github.com/ChrisMcGann/msmirror/pkg/library"
	"github.com/ChrisMcGann/msmirror/pkg/source"
)

// ErrReferenceMode is returned unless exactly one of --input2 and --ccmslib is given.
var ErrReferenceMode = errors.New("provide exactly one of --input2 (-I) or --ccmslib (-c)")

type targetOptions struct {
	featureMGF string
	featureID  string
	refMGF     string
	libraryID  string
	outputDir  string
	format     string
}

var targetOpts targetOptions

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Mirror plot of one feature against a library spectrum",
	Long: `Plot a feature from an MZmine MGF export against a reference spectrum, taken
either from a single-spectrum GNPS library MGF (--input2) or from a spectral
database by library id (--ccmslib, database set with --db).

Examples:
  # Reference from a library MGF file
  msmirror target -i features.mgf -f 42 -I CCMSLIB00000000042.mgf -o plots

  # Reference from the JSON database
  msmirror target -i features.mgf -f 42 -c CCMSLIB00000000042 -o plots -m svg`,
	// Args runs before the root's PersistentPreRunE, so a bad reference
	// combination is reported before the config file or any input is read.
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.NoArgs(cmd, args); err != nil {
			return err
		}
		return targetOpts.validate()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := targetOpts
		opts.format = application.settings.OutputFormat
		return application.runTarget(cmd.Context(), opts)
	},
}

func init() {
	targetCmd.Flags().StringVarP(&targetOpts.featureMGF, "input1", "i", "", "MZmine feature MGF (required)")
	targetCmd.Flags().StringVarP(&targetOpts.featureID, "feature-id", "f", "", "Feature id to plot (required)")
	targetCmd.Flags().StringVarP(&targetOpts.refMGF, "input2", "I", "", "GNPS library MGF holding one reference spectrum")
	targetCmd.Flags().StringVarP(&targetOpts.libraryID, "ccmslib", "c", "", "Library id to look up in the database")
	targetCmd.Flags().StringP("db", "d", "", "Spectral database, JSON or SQLite (default ~/.msdb/edb_info.json)")
	targetCmd.Flags().StringVarP(&targetOpts.outputDir, "output-dir", "o", "", "Output folder (required)")
	targetCmd.Flags().StringP("output-format", "m", "png", "Image format: png, svg, pdf")
	addPlotFlags(targetCmd)

	targetCmd.MarkFlagRequired("input1")
	targetCmd.MarkFlagRequired("feature-id")
	targetCmd.MarkFlagRequired("output-dir")
}

func (o targetOptions) validate() error {
	if (o.refMGF == "") == (o.libraryID == "") {
		return ErrReferenceMode
	}
	return nil
}

// referenceName is the library id used in the output file name.
func (o targetOptions) referenceName() string {
	if o.libraryID != "" {
		return o.libraryID
	}
	base := filepath.Base(o.refMGF)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}

// outputPath returns <outdir>/<feature>_<libid>.<format>.
func (o targetOptions) outputPath(format string) string {
	return source.Join(o.outputDir, fmt.Sprintf("%s_%s.%s", o.featureID, o.referenceName(), format))
}

func (a *app) runTarget(ctx context.Context, o targetOptions) error {
	if err := o.validate(); err != nil {
		return err
	}
	opts, err := a.plotOptions(o.format, true)
	if err != nil {
		return err
	}

	top, err := a.loader.Feature(ctx, o.featureMGF, o.featureID)
	if err != nil {
		return err
	}

	var bottom *core.Spectrum
	if o.refMGF != "" {
		bottom, err = a.loader.Reference(ctx, o.refMGF)
	} else {
		bottom, err = a.lookup(ctx, o.libraryID)
	}
	if err != nil {
		return err
	}

	if err := source.MkdirAll(o.outputDir); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}
	path := o.outputPath(opts.Format)
	if err := a.plot(ctx, top, bottom, path, opts); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Mirror Plot: %s\n", path)
	return nil
}

// lookup resolves a library id in the configured database.
func (a *app) lookup(ctx context.Context, id string) (*core.Spectrum, error) {
	lib, err := library.Open(ctx, a.src, a.settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer lib.Close()

	spec, err := lib.Lookup(id)
	if err != nil {
		return nil, err
	}
	spec.SourceFile = a.settings.DBPath
	return spec, nil
}
