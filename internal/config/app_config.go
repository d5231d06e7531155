// Package config loads termfs defaults from global and local YAML configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/termfs/internal/utils"
)

const (
	// DefaultSmallThreshold is the size bound used by the small query.
	DefaultSmallThreshold int64 = 100000
	// DefaultCapacity is the device capacity used by the free query.
	DefaultCapacity int64 = 70000000
	// DefaultRequired is the unused space the free query aims for.
	DefaultRequired int64 = 30000000
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Tree  TreeConfiguration  `mapstructure:"tree" yaml:"tree"`
	Small SmallConfiguration `mapstructure:"small" yaml:"small"`
	Free  FreeConfiguration  `mapstructure:"free" yaml:"free"`
}

// OutputConfiguration defines options every command shares.
type OutputConfiguration struct {
	Format     string `mapstructure:"format" yaml:"format"`
	ExactSizes *bool  `mapstructure:"exact_sizes" yaml:"exact_sizes"`
	Copy       *bool  `mapstructure:"copy" yaml:"copy"`
}

// TreeConfiguration defines defaults for the tree command.
type TreeConfiguration struct {
	OutputConfiguration `mapstructure:",squash" yaml:",inline"`
}

// SmallConfiguration defines defaults for the small command.
type SmallConfiguration struct {
	OutputConfiguration `mapstructure:",squash" yaml:",inline"`
	Threshold           *int64 `mapstructure:"threshold" yaml:"threshold"`
}

// FreeConfiguration defines defaults for the free command.
type FreeConfiguration struct {
	OutputConfiguration `mapstructure:",squash" yaml:",inline"`
	Capacity            *int64 `mapstructure:"capacity" yaml:"capacity"`
	Required            *int64 `mapstructure:"required" yaml:"required"`
}

// LoadApplicationConfiguration loads configuration from the global file and then the local
// or explicitly named file, later sources overriding earlier ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	if validationErr := merged.validate(); validationErr != nil {
		return ApplicationConfiguration{}, validationErr
	}
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName)
}

// loadConfigurationFromPath reads one YAML file. A missing file is only an error when required.
func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Tree.OutputConfiguration = result.Tree.OutputConfiguration.merge(override.Tree.OutputConfiguration)
	result.Small = result.Small.merge(override.Small)
	result.Free = result.Free.merge(override.Free)
	return result
}

// ThresholdOrDefault returns the configured threshold or DefaultSmallThreshold.
func (config SmallConfiguration) ThresholdOrDefault() int64 {
	return int64OrDefault(config.Threshold, DefaultSmallThreshold)
}

// CapacityOrDefault returns the configured capacity or DefaultCapacity.
func (config FreeConfiguration) CapacityOrDefault() int64 {
	return int64OrDefault(config.Capacity, DefaultCapacity)
}

// RequiredOrDefault returns the configured required space or DefaultRequired.
func (config FreeConfiguration) RequiredOrDefault() int64 {
	return int64OrDefault(config.Required, DefaultRequired)
}

// FormatOrDefault returns the configured format or fallback.
func (config OutputConfiguration) FormatOrDefault(fallback string) string {
	if config.Format == "" {
		return fallback
	}
	return config.Format
}

func (config ApplicationConfiguration) validate() error {
	checks := []struct {
		key   string
		value *int64
	}{
		{key: "small.threshold", value: config.Small.Threshold},
		{key: "free.capacity", value: config.Free.Capacity},
		{key: "free.required", value: config.Free.Required},
	}
	for _, check := range checks {
		if check.value != nil && *check.value < 0 {
			return fmt.Errorf("configuration %s must not be negative, got %d", check.key, *check.value)
		}
	}
	return nil
}

func (config OutputConfiguration) merge(override OutputConfiguration) OutputConfiguration {
	result := config
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.ExactSizes != nil {
		result.ExactSizes = cloneBool(override.ExactSizes)
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	return result
}

func (config SmallConfiguration) merge(override SmallConfiguration) SmallConfiguration {
	result := config
	result.OutputConfiguration = result.OutputConfiguration.merge(override.OutputConfiguration)
	if override.Threshold != nil {
		result.Threshold = cloneInt64(override.Threshold)
	}
	return result
}

func (config FreeConfiguration) merge(override FreeConfiguration) FreeConfiguration {
	result := config
	result.OutputConfiguration = result.OutputConfiguration.merge(override.OutputConfiguration)
	if override.Capacity != nil {
		result.Capacity = cloneInt64(override.Capacity)
	}
	if override.Required != nil {
		result.Required = cloneInt64(override.Required)
	}
	return result
}

func int64OrDefault(value *int64, fallback int64) int64 {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
