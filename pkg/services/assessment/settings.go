package assessment

import (
	"fmt"

	"github.com/spf13/viper"
)

// Settings are the run options a settings file can provide. Flags
// override file values; the zero value is a usable default.
type Settings struct {
	Title              string `mapstructure:"title"`
	Format             string `mapstructure:"format"`
	OutputDir          string `mapstructure:"output_dir"`
	ReportName         string `mapstructure:"report_name"`
	OnDegradedCoverage string `mapstructure:"on_degraded_coverage"`
	QueryTimeoutSecs   int    `mapstructure:"query_timeout_seconds"`
}

func DefaultSettings() Settings {
	return Settings{
		Title:              "PCI DSS 4.0 Compliance Assessment",
		Format:             "html",
		OutputDir:          ".",
		ReportName:         "pci_dss_report",
		OnDegradedCoverage: "abort",
		QueryTimeoutSecs:   30,
	}
}

// LoadSettings reads a settings file (YAML, TOML, or JSON) and merges it
// over the defaults.
func LoadSettings(path string) (Settings, error) {
	cfg := DefaultSettings()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings file: %w", err)
	}
	return cfg, nil
}
