package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/msmirror/pkg/mgf"
)

type extractOptions struct {
	inputMGF  string
	idList    string
	mgfType   string
	outputMGF string
}

var extractOpts extractOptions

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Copy selected features into a new MGF file",
	Long: `Write the records of an MZmine MGF export whose FEATURE_ID appears in a list
file (one id per line) to a new MGF file, in list order. Record text is copied
verbatim and ids missing from the input are skipped.

Example:
  msmirror extract -i features.mgf -l ids.txt -o selected.mgf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return application.runExtract(cmd.Context(), extractOpts)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractOpts.inputMGF, "input-mgf", "i", "", "Input MGF (required)")
	extractCmd.Flags().StringVarP(&extractOpts.idList, "input-list", "l", "", "File with one feature id per line (required)")
	extractCmd.Flags().StringVarP(&extractOpts.mgfType, "mgf-type", "t", "mzmine", "Input MGF flavor (only mzmine is supported)")
	extractCmd.Flags().StringVarP(&extractOpts.outputMGF, "output-mgf", "o", "", "Output MGF (required)")

	extractCmd.MarkFlagRequired("input-mgf")
	extractCmd.MarkFlagRequired("input-list")
	extractCmd.MarkFlagRequired("output-mgf")
}

func (a *app) runExtract(ctx context.Context, o extractOptions) error {
	format, err := mgf.ParseFormat(o.mgfType)
	if err != nil {
		return err
	}
	if format != mgf.FormatMZmine {
		return fmt.Errorf("extract supports only %s input, got %s", mgf.FormatMZmine, format)
	}

	data, err := a.src.Read(ctx, o.inputMGF)
	if err != nil {
		return err
	}
	store, err := mgf.ParseStore(bytes.NewReader(data), format, a.logger)
	if err != nil {
		return fmt.Errorf("%s: %w", o.inputMGF, err)
	}

	listData, err := a.src.Read(ctx, o.idList)
	if err != nil {
		return err
	}
	ids, err := mgf.ReadIdentifierList(bytes.NewReader(listData))
	if err != nil {
		return fmt.Errorf("%s: %w", o.idList, err)
	}

	found := 0
	for _, id := range ids {
		if _, ok := store.Get(id); ok {
			found++
		} else if id != "" {
			a.logger.Warn("feature not found in input", "feature_id", id)
		}
	}

	if err := a.src.Write(ctx, o.outputMGF, []byte(store.Extract(ids))); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Records in input: %d\n", store.Len())
	fmt.Fprintf(a.out, "Extracted: %d of %d ids\n", found, len(ids))
	fmt.Fprintf(a.out, "Output: %s\n", o.outputMGF)
	return nil
}
