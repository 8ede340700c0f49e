package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	appName        = "blockfall"
	configFileName = "blockfall.yaml"
)

// Load reads the game configuration.
// Search order: customPath -> $XDG_CONFIG_HOME/blockfall/blockfall.yaml ->
// ./configs/blockfall.yaml -> embedded default. Files only need the keys
// they change; everything else keeps its default.
func Load(customPath string) (BlockfallConfig, error) {
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return cfg, err
		}
		return cfg, cfg.Validate()
	}

	for _, path := range searchPaths() {
		if cfg, err := loadFile(path); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	cfg := DefaultBlockfallConfig()
	if err := yaml.Unmarshal(defaultBlockfallYAML, &cfg); err != nil {
		return DefaultBlockfallConfig(), nil
	}
	return cfg, nil
}

// searchPaths lists the existing candidate config files in priority order.
func searchPaths() []string {
	var paths []string
	if p, err := xdg.SearchConfigFile(filepath.Join(appName, configFileName)); err == nil {
		paths = append(paths, p)
	}
	local := filepath.Join("configs", configFileName)
	if _, err := os.Stat(local); err == nil {
		paths = append(paths, local)
	}
	return paths
}

func loadFile(path string) (BlockfallConfig, error) {
	cfg := DefaultBlockfallConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: cannot read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: cannot parse %s: %w", path, err)
	}
	return cfg, nil
}

// DataPath returns a file path under the user's data directory
// ($XDG_DATA_HOME/blockfall), creating parent directories as needed.
func DataPath(name string) (string, error) {
	p, err := xdg.DataFile(filepath.Join(appName, name))
	if err != nil {
		return "", fmt.Errorf("config: cannot resolve data path %s: %w", name, err)
	}
	return p, nil
}
