package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by msmirror.
const EnvPrefix = "MSMIRROR"

// Settings application settings
type Settings struct {
	DBPath       string  `mapstructure:"db_path"`
	OutputFormat string  `mapstructure:"output_format"`
	DPI          int     `mapstructure:"dpi"`
	Width        float64 `mapstructure:"width"`  // inches
	Height       float64 `mapstructure:"height"` // inches
	LogLevel     string  `mapstructure:"log_level"`
	TopN         int     `mapstructure:"top_n"`
	Cutoff       float64 `mapstructure:"cutoff"`
	MinMZ        float64 `mapstructure:"min_mz"`
	MaxMZ        float64 `mapstructure:"max_mz"`
}

// flagKeys maps settings keys to the CLI flags that may override them.
var flagKeys = map[string]string{
	"db_path":       "db",
	"output_format": "output-format",
	"dpi":           "dpi",
	"width":         "width",
	"height":        "height",
	"log_level":     "log-level",
	"top_n":         "top-n",
	"cutoff":        "cutoff",
	"min_mz":        "min-mz",
	"max_mz":        "max-mz",
}

// LoadSettings loads settings from defaults and environment variables only.
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags("", nil)
}

// LoadSettingsWithFlags loads settings with optional config file and CLI flag overrides.
// Priority: CLI flags > environment variables > config file > defaults.
// Flags that are missing from the set are skipped.
func LoadSettingsWithFlags(configFile string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("db_path", DefaultDBPath())
	v.SetDefault("output_format", "png")
	v.SetDefault("dpi", 300)
	v.SetDefault("width", 12.0)
	v.SetDefault("height", 6.0)
	v.SetDefault("log_level", "info")
	v.SetDefault("top_n", 0)
	v.SetDefault("cutoff", 0.0)
	v.SetDefault("min_mz", 0.0)
	v.SetDefault("max_mz", 0.0)

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	settings.DBPath = expandHomeDir(settings.DBPath)
	settings.OutputFormat = strings.ToLower(strings.TrimSpace(settings.OutputFormat))

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// Validate checks value ranges.
func (s *Settings) Validate() error {
	var errs []error
	if s.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %d", s.DPI))
	}
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Errorf("figure size must be positive, got %gx%g", s.Width, s.Height))
	}
	if s.MinMZ < 0 || s.MaxMZ < 0 {
		errs = append(errs, fmt.Errorf("m/z window must be non-negative, got %g-%g", s.MinMZ, s.MaxMZ))
	} else if s.MaxMZ > 0 && s.MinMZ > s.MaxMZ {
		errs = append(errs, fmt.Errorf("min m/z %g is above max m/z %g", s.MinMZ, s.MaxMZ))
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DefaultDBPath returns ~/.msdb/edb_info.json
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".msdb", "edb_info.json")
	}
	return filepath.Join(home, ".msdb", "edb_info.json")
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}
