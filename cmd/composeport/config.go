package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds the contents of .composeport/config.yaml.
type ProjectConfig struct {
	Version   string `yaml:"version"`
	Framework string `yaml:"framework"`
	OutDir    string `yaml:"out_dir"`
	LogPath   string `yaml:"log_path"`
	Model     string `yaml:"model"`
}

// loadProjectConfig reads .composeport/config.yaml from the current
// directory. Returns nil (no error) if the file does not exist.
func loadProjectConfig() (*ProjectConfig, error) {
	data, err := os.ReadFile(".composeport/config.yaml")
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveOutDir returns the output directory to use, applying the fallback chain:
//  1. Explicit --out flag value (non-empty override)
//  2. out_dir from .composeport/config.yaml
//  3. Default: lib/generated
func resolveOutDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg, err := loadProjectConfig(); err == nil && cfg != nil && cfg.OutDir != "" {
		return cfg.OutDir
	}
	return "lib/generated"
}

// resolveModel returns the assistant model name: --model flag, then
// config, then "" (the assistant picks its own default).
func resolveModel(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg, err := loadProjectConfig(); err == nil && cfg != nil && cfg.Model != "" {
		return cfg.Model
	}
	return ""
}

// resolveLogPath returns the MCP tool log path: --log flag, then config,
// then "" (tool logging disabled).
func resolveLogPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg, err := loadProjectConfig(); err == nil && cfg != nil && cfg.LogPath != "" {
		return cfg.LogPath
	}
	return ""
}
