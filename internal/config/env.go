package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// EnvConfigPath names the variable that points at an alternative config file.
const EnvConfigPath = "BARCHART_CONFIG"

// ApplyEnv overwrites fields of cfg with the BARCHART_* variables found by
// lookuper. Variables that are not set leave the file values alone. A nil
// lookuper reads the process environment.
func ApplyEnv(ctx context.Context, cfg *FileConfig, lookuper envconfig.Lookuper) error {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:           cfg,
		Lookuper:         lookuper,
		DefaultOverwrite: true,
	}); err != nil {
		return fmt.Errorf("failed to process environment: %w", err)
	}
	return nil
}

// Load reads the config file at path and applies environment overrides.
// When path is empty the BARCHART_CONFIG variable or the XDG default is used.
func Load(ctx context.Context, path string, lookuper envconfig.Lookuper) (FileConfig, string, error) {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	if path == "" {
		if v, ok := lookuper.Lookup(EnvConfigPath); ok && v != "" {
			path = v
		} else {
			path = DefaultConfigPath()
		}
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return FileConfig{}, path, err
	}
	if err := ApplyEnv(ctx, &cfg, lookuper); err != nil {
		return FileConfig{}, path, err
	}
	return cfg, path, nil
}
