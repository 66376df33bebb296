package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. CASECITE_DB.
	EnvPrefix = "CASECITE"

	// Default values
	DefaultDBPath        = "citations.db"
	DefaultReporterTable = "jersey_reporters"
	DefaultLogLevel      = "info"
	DefaultMaxFileSize   = 100 * 1024 * 1024 // 100MB
	DefaultServerName    = "casecite"
	DefaultEnvFile       = ".env"
)

// Flag names, also used as viper keys and config file keys.
const (
	FlagDir           = "dir"
	FlagDB            = "db"
	FlagReporterDB    = "reporter-db"
	FlagReporterTable = "reporter-table"
	FlagSource        = "source"
	FlagLogLevel      = "loglevel"
	FlagMaxFileSize   = "maxfilesize"
	FlagConfig        = "config"
	FlagEnvFile       = "env-file"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Config holds all configuration for a casecite run.
type Config struct {
	// Judgment PDFs
	InputDir    string
	MaxFileSize int64 // Maximum PDF file size in bytes

	// Persistence
	DBPath         string
	ReporterDBPath string // empty means DBPath
	ReporterTable  string
	ReporterSource string // spreadsheet consumed by `reporters build`

	// Application
	LogLevel   string
	ServerName string
	Version    string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		InputDir:      currentDir,
		MaxFileSize:   DefaultMaxFileSize,
		DBPath:        DefaultDBPath,
		ReporterTable: DefaultReporterTable,
		LogLevel:      DefaultLogLevel,
		ServerName:    DefaultServerName,
		Version:       "dev",
	}
}

// RegisterFlags defines every configuration flag on fs with its default.
func RegisterFlags(fs *pflag.FlagSet) {
	cfg := DefaultConfig()
	fs.String(FlagDir, cfg.InputDir, "Directory containing judgment PDFs")
	fs.String(FlagDB, cfg.DBPath, "SQLite database receiving judgments and citations")
	fs.String(FlagReporterDB, "", "SQLite database holding the reporter table (defaults to --db)")
	fs.String(FlagReporterTable, cfg.ReporterTable, "Name of the reporter reference table")
	fs.String(FlagSource, "", "Reporter spreadsheet (.xlsx or .csv) for 'reporters build'")
	fs.String(FlagLogLevel, cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64(FlagMaxFileSize, cfg.MaxFileSize, "Maximum PDF file size in bytes")
	fs.String(FlagConfig, "", "Optional YAML config file")
	fs.String(FlagEnvFile, "", "Optional .env file (defaults to ./.env when present)")
}

// Load resolves the configuration from, in order of precedence, explicitly set
// flags, CASECITE_* environment variables (including a .env file), the config
// file and the flag defaults. fs must have been prepared with RegisterFlags and
// parsed.
func Load(fs *pflag.FlagSet) (*Config, error) {
	if err := loadEnvFile(stringFlag(fs, FlagEnvFile)); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString(FlagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := DefaultConfig()
	cfg.InputDir = v.GetString(FlagDir)
	cfg.DBPath = v.GetString(FlagDB)
	cfg.ReporterDBPath = v.GetString(FlagReporterDB)
	cfg.ReporterTable = v.GetString(FlagReporterTable)
	cfg.ReporterSource = v.GetString(FlagSource)
	cfg.LogLevel = strings.ToLower(v.GetString(FlagLogLevel))
	cfg.MaxFileSize = v.GetInt64(FlagMaxFileSize)

	if cfg.InputDir != "" {
		if expandedPath, err := filepath.Abs(cfg.InputDir); err == nil {
			cfg.InputDir = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadEnvFile exports the variables of path into the process environment
// without overriding variables that are already set. An empty path tries
// DefaultEnvFile and ignores its absence.
func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("failed to load env file %s: %w", path, err)
}

func stringFlag(fs *pflag.FlagSet, name string) string {
	if fs.Lookup(name) == nil {
		return ""
	}
	value, _ := fs.GetString(name)
	return value
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("input directory cannot be empty")
	}
	info, err := os.Stat(c.InputDir)
	if err != nil {
		return fmt.Errorf("cannot access input directory %s: %w", c.InputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %s is not a directory", c.InputDir)
	}

	if c.DBPath == "" {
		return errors.New("database path cannot be empty")
	}
	if c.ReporterTable == "" {
		return errors.New("reporter table cannot be empty")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// ReporterDB returns the database holding the reporter table.
func (c *Config) ReporterDB() string {
	if c.ReporterDBPath != "" {
		return c.ReporterDBPath
	}
	return c.DBPath
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{InputDir: %s, DBPath: %s, ReporterDB: %s, ReporterTable: %s, LogLevel: %s, MaxFileSize: %d}",
		c.InputDir, c.DBPath, c.ReporterDB(), c.ReporterTable, c.LogLevel, c.MaxFileSize)
}
