// Package config loads settings from an optional YAML file overlaid with
// VERDICT_* environment variables.
//
// An environment variable VERDICT_<SECTION>_<KEY> sets <section>.<key>, e.g.
// VERDICT_ANIMATION_DURATION=300ms or VERDICT_SERVER_CORS_ORIGINS=a.com,b.com.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/verdict/internal/logging"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/motion"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "VERDICT_"

type Config struct {
	Editor    EditorConfig    `mapstructure:"editor" yaml:"editor"`
	Animation AnimationConfig `mapstructure:"animation" yaml:"animation"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Redis     RedisConfig     `mapstructure:"redis" yaml:"redis"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

type EditorConfig struct {
	DefaultTitle string `mapstructure:"default_title" yaml:"default_title"`
	IDStrategy   string `mapstructure:"id_strategy" yaml:"id_strategy"`
	// MaxTextSize caps text accepted from remote clients, in bytes. Zero uses the sanitizer default.
	MaxTextSize int `mapstructure:"max_text_size" yaml:"max_text_size"`
}

type AnimationConfig struct {
	Duration  time.Duration `mapstructure:"duration" yaml:"duration"`
	Threshold float64       `mapstructure:"threshold" yaml:"threshold"`
	Easing    string        `mapstructure:"easing" yaml:"easing"`
}

type ServerConfig struct {
	Port        int      `mapstructure:"port" yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// RedisConfig enables the shared session store and lock when Addr is set.
type RedisConfig struct {
	Addr       string        `mapstructure:"addr" yaml:"addr"`
	Password   string        `mapstructure:"password" yaml:"password"`
	DB         int           `mapstructure:"db" yaml:"db"`
	Prefix     string        `mapstructure:"prefix" yaml:"prefix"`
	LockTTL    time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
	SessionTTL time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			DefaultTitle: domain.DefaultTitle,
			IDStrategy:   string(domain.IDStrategySequence),
		},
		Animation: AnimationConfig{
			Duration:  motion.DefaultDuration,
			Threshold: motion.DefaultThreshold,
			Easing:    motion.Overshoot.String(),
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Redis: RedisConfig{
			Prefix:     "verdict:",
			LockTTL:    30 * time.Second,
			SessionTTL: 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: string(logging.FormatText),
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if path is
// not empty), then the environment. The result is validated.
func Load(path string) (Config, error) {
	return load(path, os.Environ())
}

func load(path string, environ []string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if err := decode(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}

	if err := decode(envOverlay(environ), &cfg); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}

	return cfg, cfg.Validate()
}

func decode(raw map[string]any, cfg *Config) error {
	if len(raw) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

var sections = map[string]bool{"editor": true, "animation": true, "server": true, "redis": true, "log": true}

// envOverlay turns VERDICT_<SECTION>_<KEY>=value pairs into a nested map.
// Variables for unknown sections (e.g. VERDICT_MAX_TEXT_SIZE) are left to their owners.
func envOverlay(environ []string) map[string]any {
	out := make(map[string]any)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		section, key, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_")
		if !ok || !sections[section] || key == "" {
			continue
		}
		m, _ := out[section].(map[string]any)
		if m == nil {
			m = make(map[string]any)
			out[section] = m
		}
		m[key] = value
	}
	return out
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !domain.IDStrategy(c.Editor.IDStrategy).Valid() {
		return fmt.Errorf("editor.id_strategy: unknown strategy %q (want %q or %q)",
			c.Editor.IDStrategy, domain.IDStrategySequence, domain.IDStrategyUUID)
	}
	if c.Editor.MaxTextSize < 0 {
		return fmt.Errorf("editor.max_text_size: must not be negative")
	}
	if c.Animation.Duration <= 0 {
		return fmt.Errorf("animation.duration: must be positive, got %s", c.Animation.Duration)
	}
	if c.Animation.Threshold < 0 {
		return fmt.Errorf("animation.threshold: must not be negative")
	}
	if _, err := motion.ParseEasing(c.Animation.Easing); err != nil {
		return fmt.Errorf("animation.easing: %w", err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d out of range", c.Server.Port)
	}
	if c.Redis.Addr != "" && c.Redis.LockTTL <= 0 {
		return fmt.Errorf("redis.lock_ttl: must be positive when redis is enabled")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	return nil
}

// MotionOptions converts the animation section into tracker options.
func (c Config) MotionOptions() []motion.Option {
	easing, err := motion.ParseEasing(c.Animation.Easing)
	if err != nil {
		easing = motion.Overshoot
	}
	return []motion.Option{
		motion.WithDuration(c.Animation.Duration),
		motion.WithThreshold(c.Animation.Threshold),
		motion.WithEasing(easing),
	}
}
