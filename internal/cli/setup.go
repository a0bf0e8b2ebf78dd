package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lycfight/swebatch/internal/config"
)

// loadConfig assembles the lower layers of the configuration
// precedence chain: built-in defaults, then the YAML config file, then
// SWEBATCH_* environment variables. CLI arguments are applied by the
// command on top of the returned config.
//
// An explicitly passed --config path must exist; the default
// ~/.swebatch/config.yaml is merged only when present.
func loadConfig(cmd *cobra.Command, lookupEnv func(string) (string, bool)) (*config.Config, error) {
	cfg := config.New()

	configPath, _ := cmd.Flags().GetString("config")
	explicit := configPath != ""
	if !explicit {
		configPath = config.DefaultConfigPath()
	}
	if configPath != "" {
		if _, statErr := os.Stat(configPath); statErr == nil {
			if err := config.ShallowMergeYAML(cfg, configPath); err != nil {
				return nil, err
			}
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", configPath, statErr)
		}
	}

	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}
