// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported OCR engine kinds
const (
	EngineGosseract = "gosseract"
	EngineCommand   = "command"
)

// EnvPrefix is prepended to every environment variable override
const EnvPrefix = "PDFOCR"

// Config holds the converter configuration
type Config struct {
	Engine         string        `mapstructure:"engine"`
	TesseractPath  string        `mapstructure:"tesseract_path"`
	TessdataPrefix string        `mapstructure:"tessdata_prefix"`
	Language       string        `mapstructure:"language"`
	DPI            float64       `mapstructure:"dpi"`
	InputPath      string        `mapstructure:"input_path"`
	OutputPath     string        `mapstructure:"output_path"`
	LogFile        string        `mapstructure:"log_file"`
	Notify         bool          `mapstructure:"notify"`
	Watch          WatchConfig   `mapstructure:"watch"`
	History        HistoryConfig `mapstructure:"history"`
}

// WatchConfig holds inbox watching settings
type WatchConfig struct {
	Dir       string        `mapstructure:"dir"`
	OutputDir string        `mapstructure:"output_dir"`
	Debounce  time.Duration `mapstructure:"debounce"`
}

// HistoryConfig holds run history settings. An empty DBPath disables history.
type HistoryConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// setDefaults registers every key so environment overrides are picked up
// by Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("engine", EngineGosseract)
	v.SetDefault("tesseract_path", "tesseract")
	v.SetDefault("tessdata_prefix", "")
	v.SetDefault("language", "tur")
	v.SetDefault("dpi", 300)
	v.SetDefault("input_path", "ornek_dokuman.pdf")
	v.SetDefault("output_path", "cikti_metin.txt")
	v.SetDefault("log_file", "")
	v.SetDefault("notify", false)
	v.SetDefault("watch.dir", "")
	v.SetDefault("watch.output_dir", "")
	v.SetDefault("watch.debounce", 500*time.Millisecond)
	v.SetDefault("history.db_path", "")
}

// LoadConfig loads configuration from an optional YAML file, a .env file in
// the working directory and PDFOCR_* environment variables
func LoadConfig(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Allow environment variables, watch.dir -> PDFOCR_WATCH_DIR
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// loadDotEnv loads a .env file if one exists. Variables already present in
// the environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration can build a working converter
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineGosseract, EngineCommand:
	default:
		return fmt.Errorf("unknown OCR engine %q (expected %s or %s)", c.Engine, EngineGosseract, EngineCommand)
	}
	if strings.TrimSpace(c.Language) == "" {
		return errors.New("language must not be empty")
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %v", c.DPI)
	}
	if c.Engine == EngineCommand && c.TesseractPath == "" {
		return errors.New("tesseract_path is required for the command engine")
	}
	return nil
}

// ApplyCLIFlags applies command-line flags to override config values
func ApplyCLIFlags(config *Config, inputPath, outputPath, language, watchDir string) {
	if inputPath != "" {
		config.InputPath = inputPath
	}
	if outputPath != "" {
		config.OutputPath = outputPath
	}
	if language != "" {
		config.Language = language
	}
	if watchDir != "" {
		config.Watch.Dir = watchDir
	}
}
