package cmd

import (
	"context"
	"fmt"

	"gonum.org/v1/plot/vg"

	"github.com/ChrisMcGann/msmirror/pkg/core"
	"github.com/ChrisMcGann/msmirror/pkg/filter"
	"github.com/ChrisMcGann/msmirror/pkg/mirror"
)

// plotOptions builds renderer options from settings for the given image format.
func (a *app) plotOptions(format string, transparent bool) (mirror.Options, error) {
	f, err := mirror.ParseFormat(format)
	if err != nil {
		return mirror.Options{}, err
	}
	opts := mirror.DefaultOptions()
	opts.Format = f
	opts.Transparent = transparent
	if a.settings != nil {
		opts.Width = vg.Length(a.settings.Width) * vg.Inch
		opts.Height = vg.Length(a.settings.Height) * vg.Inch
		opts.DPI = a.settings.DPI
	}
	return opts, nil
}

func (a *app) peakFilter() *filter.Config {
	cfg := &filter.Config{}
	if a.settings != nil {
		cfg.TopN = a.settings.TopN
		cfg.IntensityCutoff = a.settings.Cutoff
		cfg.MinMZ = a.settings.MinMZ
		cfg.MaxMZ = a.settings.MaxMZ
	}
	return cfg
}

// plot filters both spectra, renders them and writes the image to path.
func (a *app) plot(ctx context.Context, top, bottom *core.Spectrum, path string, opts mirror.Options) error {
	cfg := a.peakFilter()
	for _, spec := range []*core.Spectrum{top, bottom} {
		if err := cfg.Apply(spec); err != nil {
			return fmt.Errorf("failed to filter spectrum %s: %w", spec.Identifier, err)
		}
	}

	data, err := mirror.Render(top, bottom, opts)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := a.src.Write(ctx, path, data); err != nil {
		return err
	}
	a.logger.Debug("wrote mirror plot", "path", path, "bytes", len(data))
	return nil
}
