package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Manager handles loading and hot-reloading configuration, grounded on the
// teacher's internal/config.Manager.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
	validate  *validator.Validate
}

// NewManager creates a new config manager, loads an optional .env file, and
// loads initial config from cfgFile (or the default search path).
func NewManager(cfgFile string) (*Manager, error) {
	_ = godotenv.Load() // optional; provider secrets may come from the real environment instead

	cm := &Manager{
		callbacks: make([]func(*Config), 0),
		validate:  validator.New(),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	viper.SetDefault("anchors", defaults.Anchors)
	viper.SetDefault("align", defaults.Align)
	viper.SetDefault("bookIndex", defaults.BookIndex)
	viper.SetDefault("pipeline", defaults.Pipeline)

	viper.SetEnvPrefix("AMS")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.ams")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cm.validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config failed validation: %w", err)
	}
	if cfg.Pipeline.EndStage < cfg.Pipeline.StartStage {
		return nil, fmt.Errorf("config: pipeline.endStage (%d) must be >= pipeline.startStage (%d)", cfg.Pipeline.EndStage, cfg.Pipeline.StartStage)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// OnChange registers a callback invoked after a successful hot-reload.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables fsnotify-based hot-reloading of the config file.
func (cm *Manager) WatchConfig() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	viper.WatchConfig()
}

// ResolveEnvVars expands ${ENV_VAR} references in a string, used for
// provider secrets referenced from config (e.g. the ASR API key).
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# AMS configuration
# See spec section 4.13 for the full list of recognized options.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
