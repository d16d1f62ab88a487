package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "lexcite.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/lexcite"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
	// EnvPrefix prefixes every environment override
	EnvPrefix = "LEXCITE_"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger

	// ConfigFile replaces the project config search when set
	ConfigFile string
	// EnvFile is an optional dotenv file loaded before reading the environment
	EnvFile string
	// SkipUserConfig ignores ~/.config/lexcite/config.yaml
	SkipUserConfig bool
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, EnvFile: ".env"}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/lexcite/config.yaml)
// 3. Project config (ConfigFile, or lexcite.yaml in current or parent directories)
// 4. Environment variables (LEXCITE_*), after loading EnvFile if present
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	if !l.SkipUserConfig {
		if path := l.userConfigPath(); path != "" {
			if err := loadInto(path, config); err == nil {
				l.logger.Debug("Loaded user config", slog.String("path", path))
			} else if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	projectPath := l.ConfigFile
	if projectPath == "" {
		projectPath = l.findProjectConfig()
	}
	if projectPath != "" {
		if err := loadInto(projectPath, config); err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded project config", slog.String("path", projectPath))
	} else {
		l.logger.Debug("No project config found")
	}

	if l.EnvFile != "" {
		if err := godotenv.Load(l.EnvFile); err == nil {
			l.logger.Debug("Loaded env file", slog.String("path", l.EnvFile))
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load env file", slog.String("path", l.EnvFile), slog.String("error", err.Error()))
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnv overrides config from LEXCITE_* variables. PORT is honoured for
// the server address when LEXCITE_SERVER_ADDR is unset.
func applyEnv(config *Config) error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(name string, dst *int) error {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
		return nil
	}

	str("STYLE", &config.Style)
	str("SCOPE", &config.ShortForm.Scope)
	str("TABLES_DIR", &config.Tables.Dir)
	str("LOG_LEVEL", &config.Logging.Level)

	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		config.Server.Addr = ":" + port
	}
	str("SERVER_ADDR", &config.Server.Addr)

	if v, ok := os.LookupEnv(EnvPrefix + "TABLES_WATCH"); ok {
		watch, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sTABLES_WATCH: %w", EnvPrefix, err)
		}
		config.Tables.Watch = watch
	}
	if err := num("WORKERS", &config.Workers); err != nil {
		return err
	}
	if err := num("PASSIM_THRESHOLD", &config.TOA.PassimThreshold); err != nil {
		return err
	}
	return nil
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for lexcite.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
