// pkg/config/config.go - configuration settings for wingetpack.

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where the YAML settings file lives.
const DefaultConfigPath = `C:\ProgramData\WingetPack\Config.yaml`

// Configuration holds the configurable options for wingetpack in YAML format.
type Configuration struct {
	// IntuneWinUtilPath is the saved location of IntuneWinAppUtil.exe. It is
	// the one persisted preference the packer depends on.
	IntuneWinUtilPath string `yaml:"IntuneWinUtilPath"`

	LogLevel string `yaml:"LogLevel"`

	// ProcessTimeoutMinutes bounds every external tool invocation
	// (winget search/download and the packaging utility). Zero disables
	// the timeout entirely.
	ProcessTimeoutMinutes int `yaml:"ProcessTimeoutMinutes"`
}

// GetDefaultConfig provides default configuration values.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		LogLevel:              "INFO",
		ProcessTimeoutMinutes: 15,
	}
}

// ProcessTimeout returns the configured external-process timeout as a
// duration. Zero means no timeout.
func (c *Configuration) ProcessTimeout() time.Duration {
	if c.ProcessTimeoutMinutes <= 0 {
		return 0
	}
	return time.Duration(c.ProcessTimeoutMinutes) * time.Minute
}

// LoadConfig loads the configuration from the default YAML file. A missing
// file is not an error: defaults are returned, with enterprise policy
// registry values applied on top where available.
func LoadConfig() (*Configuration, error) {
	return loadConfigFrom(DefaultConfigPath)
}

func loadConfigFrom(path string) (*Configuration, error) {
	config := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Printf("Configuration file does not exist: %s, using defaults", path)
		loadPolicyOverrides(config)
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing configuration file: %w", err)
	}

	if config.LogLevel == "" {
		config.LogLevel = "INFO"
	}

	loadPolicyOverrides(config)
	return config, nil
}

// SaveConfig saves the current configuration to the default YAML file.
func SaveConfig(config *Configuration) error {
	return saveConfigTo(DefaultConfigPath, config)
}

func saveConfigTo(path string, config *Configuration) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("serializing configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating configuration directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing configuration file: %w", err)
	}

	return nil
}
