package logger

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the logging block.
const (
	EnvLevel         = "AMPHIPOD_LOG_LEVEL"
	EnvConsoleFormat = "AMPHIPOD_LOG_CONSOLE_FORMAT"
	EnvFileEnabled   = "AMPHIPOD_LOG_FILE_ENABLED"
	EnvFilePath      = "AMPHIPOD_LOG_FILE_PATH"
)

// Config holds logging configuration
type Config struct {
	Level          string `yaml:"level"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
	FileCompress   bool   `yaml:"file_compress"`
}

// LoggingConfig wraps the Config for YAML parsing
type LoggingConfig struct {
	Logging Config `yaml:"logging"`
}

// DefaultConfig returns console-only logging at INFO.
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FileEnabled:    false,
		FilePath:       "logs/amphipod.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// LoadConfig reads the logging block of a YAML file over the defaults and
// applies environment variable overrides. A missing file is not an error; a
// file that cannot be parsed returns the defaults with the error.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	var loadErr error
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			// Keys missing from the file keep their default values.
			wrapper := LoggingConfig{Logging: config}
			if err := yaml.Unmarshal(data, &wrapper); err != nil {
				loadErr = fmt.Errorf("failed to parse logging config: %w", err)
			} else {
				config = wrapper.Logging
			}
		case !os.IsNotExist(err):
			loadErr = fmt.Errorf("failed to read logging config: %w", err)
		}
	}

	applyEnv(&config)
	return config, loadErr
}

func applyEnv(config *Config) {
	if logLevel := os.Getenv(EnvLevel); logLevel != "" {
		config.Level = logLevel
	}

	if consoleFormat := os.Getenv(EnvConsoleFormat); consoleFormat != "" {
		config.ConsoleFormat = consoleFormat
	}

	if fileEnabled := os.Getenv(EnvFileEnabled); fileEnabled != "" {
		if enabled, err := strconv.ParseBool(fileEnabled); err == nil {
			config.FileEnabled = enabled
		}
	}

	if filePath := os.Getenv(EnvFilePath); filePath != "" {
		config.FilePath = filePath
	}
}
