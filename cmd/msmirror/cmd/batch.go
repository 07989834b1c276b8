package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/msmirror/pkg/core"
	"github.com/ChrisMcGann/msmirror/pkg/match"
	"github.com/ChrisMcGann/msmirror/pkg/mgf"
	"github.com/ChrisMcGann/msmirror/pkg/mirror"
	"github.com/ChrisMcGann/msmirror/pkg/source"
)

type batchOptions struct {
	resultsDir string
	inputMGF   string
	outputDir  string
}

var batchOpts batchOptions

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Mirror plots for every match in a results folder",
	Long: `Plot every feature against each of its matched library spectra. The results
folder holds one subfolder per feature id; library MGF files in it whose name
starts with CCMSLIB are the matches. Plots are written as
<feature_id>_<library_file_stem>.png together with a manifest.yaml.

Example:
  msmirror batch -i results -m features.mgf -o plots`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return application.runBatch(cmd.Context(), batchOpts)
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchOpts.resultsDir, "input-folder", "i", "", "Results folder with one subfolder per feature (required)")
	batchCmd.Flags().StringVarP(&batchOpts.inputMGF, "input-mgf", "m", "", "MZmine feature MGF (required)")
	batchCmd.Flags().StringVarP(&batchOpts.outputDir, "output-folder", "o", "", "Output folder (required)")
	addPlotFlags(batchCmd)

	batchCmd.MarkFlagRequired("input-folder")
	batchCmd.MarkFlagRequired("input-mgf")
	batchCmd.MarkFlagRequired("output-folder")
}

// stem strips the directory and last extension from a reference file path.
func stem(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (a *app) runBatch(ctx context.Context, o batchOptions) error {
	opts, err := a.plotOptions(mirror.FormatPNG, false)
	if err != nil {
		return err
	}

	set, err := match.NewResolver(a.src).Resolve(ctx, o.resultsDir)
	if err != nil {
		return fmt.Errorf("failed to resolve matches: %w", err)
	}
	a.logger.Info("resolved matches", "features", len(set), "pairs", set.Pairs())

	features, err := a.loader.Features(ctx, o.inputMGF)
	if err != nil {
		return err
	}

	if err := source.MkdirAll(o.outputDir); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}

	manifest := &match.Manifest{
		Created:    time.Now().UTC(),
		ResultsDir: o.resultsDir,
		InputMGF:   o.inputMGF,
	}

	for _, featureID := range set.Features() {
		feature, ok := features[featureID]
		if !ok {
			return fmt.Errorf("feature %s in %s: %w", featureID, o.inputMGF, mgf.ErrSpectrumNotFound)
		}

		for _, ref := range set[featureID] {
			// Filtering mutates peaks, so each plot gets its own copy of the feature.
			top := *feature
			top.Peaks = append([]core.Peak(nil), feature.Peaks...)

			bottom, err := a.loader.Reference(ctx, ref)
			if err != nil {
				return err
			}

			name := fmt.Sprintf("%s_%s.%s", featureID, stem(ref), opts.Format)
			fmt.Fprintf(a.out, "Mirror Plot: %s\n", name)

			path := source.Join(o.outputDir, name)
			if err := a.plot(ctx, &top, bottom, path, opts); err != nil {
				return err
			}
			manifest.Add(match.Plot{
				Feature:   featureID,
				Reference: bottom.Identifier,
				Source:    ref,
				Image:     name,
			})
		}
	}

	data, err := manifest.Marshal()
	if err != nil {
		return err
	}
	if err := a.src.Write(ctx, source.Join(o.outputDir, match.ManifestFile), data); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nBatch complete!\n")
	fmt.Fprintf(a.out, "Plots: %d\n", len(manifest.Plots))
	fmt.Fprintf(a.out, "Output: %s\n", o.outputDir)
	return nil
}
