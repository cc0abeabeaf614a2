// Package config loads funnelkit settings from a YAML file and FUNNELKIT_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read by Load when no path is given and it exists.
const DefaultFile = "funnelkit.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FUNNELKIT_"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Config is the full runtime configuration.
type Config struct {
	HistoryLimit int         `mapstructure:"history_limit" yaml:"history_limit"`
	Log          LogConfig   `mapstructure:"log" yaml:"log"`
	Store        StoreConfig `mapstructure:"store" yaml:"store"`
	HTTP         HTTPConfig  `mapstructure:"http" yaml:"http"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// StoreConfig selects and tunes the document store.
type StoreConfig struct {
	Driver        string      `mapstructure:"driver" yaml:"driver"`
	Path          string      `mapstructure:"path" yaml:"path"`
	Format        string      `mapstructure:"format" yaml:"format"`
	Redis         RedisConfig `mapstructure:"redis" yaml:"redis"`
	EncryptionKey string      `mapstructure:"encryption_key" yaml:"encryption_key"`
	Redact        []string    `mapstructure:"redact" yaml:"redact"`
}

// RedisConfig holds the redis driver connection settings.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Port    int           `mapstructure:"port" yaml:"port"`
	LockTTL time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		HistoryLimit: 50,
		Log:          LogConfig{Level: "info", Format: "text"},
		Store: StoreConfig{
			Driver: DriverFile,
			Path:   ".funnelkit/funnels",
			Format: "json",
			Redis:  RedisConfig{Addr: "localhost:6379", Prefix: "funnelkit:"},
		},
		HTTP: HTTPConfig{Port: 8080, LockTTL: 30 * time.Second},
	}
}

// envKeys lists the settings that can be overridden from the environment.
// FUNNELKIT_STORE_REDIS_ADDR overrides store.redis.addr, and so on.
var envKeys = []string{
	"history_limit",
	"log.level",
	"log.format",
	"store.driver",
	"store.path",
	"store.format",
	"store.redis.addr",
	"store.redis.password",
	"store.redis.db",
	"store.redis.prefix",
	"store.redis.ttl",
	"store.encryption_key",
	"store.redact",
	"http.port",
	"http.lock_ttl",
}

// EnvName returns the environment variable overriding key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads path (or DefaultFile when path is empty and the file exists),
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	raw := map[string]any{}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return FromMap(raw, os.LookupEnv)
}

// FromMap decodes raw settings over the defaults, then applies the
// overrides found through lookup.
func FromMap(raw map[string]any, lookup func(string) (string, bool)) (Config, error) {
	if lookup != nil {
		for _, key := range envKeys {
			if v, ok := lookup(EnvName(key)); ok {
				setPath(raw, strings.Split(key, "."), v)
			}
		}
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			csvToSliceHook,
		),
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	var problems []string
	if c.HistoryLimit < 0 {
		problems = append(problems, "history_limit must not be negative")
	}
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverRedis:
	default:
		problems = append(problems, fmt.Sprintf("unknown store driver %q", c.Store.Driver))
	}
	switch c.Store.Format {
	case "json", "yaml":
	default:
		problems = append(problems, fmt.Sprintf("unknown store format %q", c.Store.Format))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("unknown log format %q", c.Log.Format))
	}
	if c.Store.Driver == DriverRedis && c.Store.Redis.Addr == "" {
		problems = append(problems, "store.redis.addr is required for the redis driver")
	}
	for _, p := range c.Store.Redact {
		if _, err := regexp.Compile(p); err != nil {
			problems = append(problems, fmt.Sprintf("store.redact pattern %q: %v", p, err))
		}
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		problems = append(problems, fmt.Sprintf("http.port %d out of range", c.HTTP.Port))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func setPath(m map[string]any, path []string, v any) {
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}

// csvToSliceHook splits comma separated strings into string slices and
// drops empty entries.
func csvToSliceHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf([]string{}) {
		return data, nil
	}
	var out []string
	for _, part := range strings.Split(data.(string), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}
