package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/msmirror/pkg/core"
	"github.com/ChrisMcGann/msmirror/pkg/library"
	"github.com/ChrisMcGann/msmirror/pkg/writer/sqlite"
)

type convertDBOptions struct {
	input  string
	output string
}

var convertDBOpts convertDBOptions

var convertDBCmd = &cobra.Command{
	Use:   "convert-db",
	Short: "Convert a JSON spectral database to a SQLite library",
	Long: `Convert the JSON spectral database used by target --ccmslib into an
mzVault-style SQLite library. The result can be passed to --db in place of the
JSON file and is queried without loading it into memory.

Example:
  msmirror convert-db -i ~/.msdb/edb_info.json -o ~/.msdb/library.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return application.runConvertDB(cmd.Context(), convertDBOpts)
	},
}

func init() {
	convertDBCmd.Flags().StringVarP(&convertDBOpts.input, "in", "i", "", "JSON spectral database (required)")
	convertDBCmd.Flags().StringVarP(&convertDBOpts.output, "out", "o", "", "Output SQLite library (required)")
	addFilterFlags(convertDBCmd)

	convertDBCmd.MarkFlagRequired("in")
	convertDBCmd.MarkFlagRequired("out")
}

func (a *app) runConvertDB(ctx context.Context, o convertDBOptions) error {
	data, err := a.src.Read(ctx, o.input)
	if err != nil {
		return err
	}
	lib, err := library.ParseJSON(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Converting %s to %s...\n", o.input, o.output)

	writer, err := sqlite.NewWriter(o.output, "msmirror convert-db "+o.input)
	if err != nil {
		return fmt.Errorf("failed to create output database: %w", err)
	}
	defer writer.Close()

	cfg := a.peakFilter()
	skipped := 0

	for _, id := range lib.IDs() {
		spec, err := lib.Lookup(id)
		if err != nil {
			a.logger.Warn("skipping library entry", "id", id, "error", err)
			skipped++
			continue
		}

		if err := cfg.Apply(spec); err != nil {
			return err
		}

		if err := spec.Validate(); err != nil {
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			a.logger.Warn("invalid spectrum", "spectrum", spec.Name(), "error", err)
			skipped++
			continue
		}

		if err := writer.WriteSpectrum(spec); err != nil {
			return fmt.Errorf("failed to write spectrum %s: %w", spec.Name(), err)
		}

		if n := writer.Count(); n%1000 == 0 {
			fmt.Fprintf(a.out, "Processed %d spectra...\n", n)
		}
	}

	if err := writer.Finalize(); err != nil {
		return fmt.Errorf("failed to finalize database: %w", err)
	}

	fmt.Fprintf(a.out, "\nConversion complete!\n")
	fmt.Fprintf(a.out, "Processed: %d spectra\n", writer.Count())
	if skipped > 0 {
		fmt.Fprintf(a.out, "Skipped: %d spectra (invalid entries)\n", skipped)
	}
	fmt.Fprintf(a.out, "Output: %s\n", o.output)
	return nil
}
