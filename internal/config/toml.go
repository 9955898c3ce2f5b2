// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/MitjaBezensek/chart/internal/model"
)

// FileConfig represents the TOML configuration file. Every field is a
// pointer so that unset values can be told apart from zero values.
type FileConfig struct {
	Format FormatConfig `toml:"format"`
	Chart  ChartConfig  `toml:"chart"`
	Store  StoreConfig  `toml:"store"`
	Log    LogConfig    `toml:"log"`
}

// FormatConfig maps data label settings.
type FormatConfig struct {
	Locale        *string  `toml:"locale" env:"BARCHART_LOCALE, noinit"`
	Decimals      *int     `toml:"decimals" env:"BARCHART_DECIMALS, noinit"`
	Unit          *string  `toml:"unit" env:"BARCHART_UNIT, noinit"`
	PercentFormat *string  `toml:"percent-format" env:"BARCHART_PERCENT_FORMAT, noinit"`
	HideUnits     *bool    `toml:"hide-units" env:"BARCHART_HIDE_UNITS, noinit"`
	FontFamily    *string  `toml:"font-family" env:"BARCHART_FONT_FAMILY, noinit"`
	FontSize      *float64 `toml:"font-size" env:"BARCHART_FONT_SIZE, noinit"`
	FontWeight    *string  `toml:"font-weight" env:"BARCHART_FONT_WEIGHT, noinit"`
}

// ChartConfig maps chart layout settings.
type ChartConfig struct {
	Width     *float64 `toml:"width" env:"BARCHART_WIDTH, noinit"`
	Height    *float64 `toml:"height" env:"BARCHART_HEIGHT, noinit"`
	Margin    *float64 `toml:"margin" env:"BARCHART_MARGIN, noinit"`
	Padding   *float64 `toml:"padding" env:"BARCHART_PADDING, noinit"`
	Fill      *string  `toml:"fill" env:"BARCHART_FILL, noinit"`
	Reconcile *string  `toml:"reconcile" env:"BARCHART_RECONCILE, noinit"`
}

// StoreConfig maps dataset store settings.
type StoreConfig struct {
	Path *string `toml:"path" env:"BARCHART_DB, noinit"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level *string `toml:"level" env:"BARCHART_LOG_LEVEL, noinit"`
	JSON  *bool   `toml:"json" env:"BARCHART_LOG_JSON, noinit"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("failed to decode config: unknown key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Overrides converts the label and chart sections into settings overrides.
func (c FileConfig) Overrides() *model.SettingsOverrides {
	o := &model.SettingsOverrides{
		DataLabels: model.DataLabelOverrides{
			DecimalPlaces:    c.Format.Decimals,
			PercentageFormat: c.Format.PercentFormat,
			HideUnits:        c.Format.HideUnits,
			FontFamily:       c.Format.FontFamily,
			FontSize:         c.Format.FontSize,
			FontWeight:       c.Format.FontWeight,
		},
		Chart: model.ChartOverrides{
			Margin:    c.Chart.Margin,
			Padding:   c.Chart.Padding,
			Fill:      c.Chart.Fill,
			Reconcile: c.Chart.Reconcile,
		},
	}
	if c.Format.Unit != nil {
		unit := model.DisplayUnit(*c.Format.Unit)
		o.DataLabels.DisplayUnit = &unit
	}
	return o
}
