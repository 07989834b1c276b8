package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/msmirror/pkg/source"
)

type mirrorOptions struct {
	topPath    string
	topType    string
	bottomPath string
	bottomType string
	output     string
	format     string
}

var mirrorOpts mirrorOptions

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Mirror plot of the first spectrum in two files",
	Long: `Plot the first spectrum of one file against the first spectrum of another.
Each file is read as mzmine, ccmslib (MGF) or msp.

Example:
  msmirror mirror -i features.mgf -t mzmine -I CCMSLIB00000000042.mgf -T ccmslib -o mirror.svg -f svg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := mirrorOpts
		opts.format = application.settings.OutputFormat
		return application.runMirror(cmd.Context(), opts)
	},
}

func init() {
	mirrorCmd.Flags().StringVarP(&mirrorOpts.topPath, "input-spec1", "i", "", "Spectrum drawn on top (required)")
	mirrorCmd.Flags().StringVarP(&mirrorOpts.topType, "input1-type", "t", "mzmine", "Format of the top file: mzmine, ccmslib, msp")
	mirrorCmd.Flags().StringVarP(&mirrorOpts.bottomPath, "input-spec2", "I", "", "Spectrum drawn inverted below (required)")
	mirrorCmd.Flags().StringVarP(&mirrorOpts.bottomType, "input2-type", "T", "ccmslib", "Format of the bottom file: mzmine, ccmslib, msp")
	mirrorCmd.Flags().StringVarP(&mirrorOpts.output, "output", "o", "", "Output image path (required)")
	mirrorCmd.Flags().StringP("output-format", "f", "png", "Image format: png, svg, pdf")
	addPlotFlags(mirrorCmd)

	mirrorCmd.MarkFlagRequired("input-spec1")
	mirrorCmd.MarkFlagRequired("input-spec2")
	mirrorCmd.MarkFlagRequired("output")
}

func (a *app) runMirror(ctx context.Context, o mirrorOptions) error {
	opts, err := a.plotOptions(o.format, true)
	if err != nil {
		return err
	}

	top, err := a.loader.First(ctx, o.topPath, o.topType)
	if err != nil {
		return err
	}
	bottom, err := a.loader.First(ctx, o.bottomPath, o.bottomType)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(o.output); dir != "." {
		if err := source.MkdirAll(dir); err != nil {
			return fmt.Errorf("failed to create output folder: %w", err)
		}
	}
	if err := a.plot(ctx, top, bottom, o.output, opts); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Mirror Plot: %s\n", o.output)
	return nil
}
