package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Fixed layout geometry. These shape the window and the interaction region and
// are not meant to be tuned per install.
const (
	WindowWidth  = 1024
	WindowHeight = 576

	// Interaction region (the "pad" the player clicks)
	PadX      = 212
	PadY      = 120
	PadWidth  = 600
	PadHeight = 336

	ParticleCount = 64
)

// Config is the top-level runtime configuration.
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Visual  VisualConfig  `mapstructure:"visual"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Logging LoggingConfig `mapstructure:"logging"`

	v *viper.Viper
}

// GameConfig holds round and timing settings.
type GameConfig struct {
	TotalRounds int `mapstructure:"total_rounds"`
	MinDelayMs  int `mapstructure:"min_delay_ms"`
	MaxDelayMs  int `mapstructure:"max_delay_ms"`
}

// VisualConfig holds animation settings.
type VisualConfig struct {
	// SmoothingTauMs is the time constant of the exponential smoothing filter
	// that eases visual parameters toward their per-phase targets.
	SmoothingTauMs float64 `mapstructure:"smoothing_tau_ms"`
}

// AudioConfig holds audio cue settings.
type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	Level      string `mapstructure:"level"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.total_rounds", 5)
	v.SetDefault("game.min_delay_ms", 1500)
	v.SetDefault("game.max_delay_ms", 4500)

	v.SetDefault("visual.smoothing_tau_ms", 180.0)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.volume", 0.6)

	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.max_size", 10) // MB
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 7) // days
	v.SetDefault("logging.compress", true)
}

// Load reads the configuration from config.yaml (optional), environment
// variables with the REACTION_ prefix, and built-in defaults.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("REACTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Watch reloads the config in place whenever the file changes. A reload that
// fails to decode or validate keeps the previous values.
func (c *Config) Watch(log *zap.Logger) {
	c.v.WatchConfig()
	c.v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("configuration file changed, reloading", zap.String("file", e.Name))
		next := Config{v: c.v}
		if err := c.v.Unmarshal(&next); err != nil {
			log.Error("reload failed, keeping previous config", zap.Error(err))
			return
		}
		if err := next.Validate(); err != nil {
			log.Error("reloaded config invalid, keeping previous", zap.Error(err))
			return
		}
		*c = next
	})
}

// Validate rejects configurations the game cannot run with.
func (c *Config) Validate() error {
	if c.Game.TotalRounds < 1 {
		return fmt.Errorf("game.total_rounds must be >= 1, got %d", c.Game.TotalRounds)
	}
	if c.Game.MinDelayMs < 0 || c.Game.MaxDelayMs < c.Game.MinDelayMs {
		return fmt.Errorf("invalid delay bounds [%d,%d]", c.Game.MinDelayMs, c.Game.MaxDelayMs)
	}
	if c.Visual.SmoothingTauMs <= 0 {
		return fmt.Errorf("visual.smoothing_tau_ms must be > 0, got %v", c.Visual.SmoothingTauMs)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be in [0,1], got %v", c.Audio.Volume)
	}
	return nil
}
