// Package config provides repository configuration management,
// including the trunk record and the durable continuation frame chain.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RepoConfig represents the repository configuration
type RepoConfig struct {
	Trunk *string `json:"trunk,omitempty"`
}

func configPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", ".stax_config")
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	data, err := os.ReadFile(configPath(repoRoot))
	if err != nil {
		// Config doesn't exist - return default
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

func writeRepoConfig(repoRoot string, config *RepoConfig) error {
	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(configPath(repoRoot), configJSON, 0600)
}

// GetTrunk returns the primary trunk branch name, or "main" as default
func GetTrunk(repoRoot string) (string, error) {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return "", err
	}

	if config.Trunk != nil && *config.Trunk != "" {
		return *config.Trunk, nil
	}

	return "main", nil
}

// SetTrunk updates the trunk branch in the config
func SetTrunk(repoRoot string, trunkName string) error {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}

	config.Trunk = &trunkName
	return writeRepoConfig(repoRoot, config)
}

// IsInitialized checks if stax has been initialized in this repository
func IsInitialized(repoRoot string) bool {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return false
	}
	return config.Trunk != nil && *config.Trunk != ""
}
