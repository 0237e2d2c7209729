// Package config loads the sync server configuration.
//
// Values are applied in order: built-in defaults, the YAML file given with
// -config, NOTESYNC_* environment variables, command line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iudanet/notesync/internal/awareness"
)

// Драйверы хранилища операций
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrHelp returned by Load when -h or -help was given
var ErrHelp = flag.ErrHelp

// Config содержит настройки сервера синхронизации
type Config struct {
	Storage         StorageConfig   `yaml:"storage"`
	Redis           RedisConfig     `yaml:"redis"`
	Log             LogConfig       `yaml:"log"`
	Listen          string          `yaml:"listen"`
	InstanceID      string          `yaml:"instance_id"` // пустой - случайный при старте
	Awareness       AwarenessConfig `yaml:"awareness"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
	Discovery       DiscoveryConfig `yaml:"discovery"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout"`
	ShowVersion     bool            `yaml:"-"`
}

// StorageConfig выбирает журнал операций
type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite | postgres
	// DSN путь к файлу для sqlite или строка подключения postgres
	DSN string `yaml:"dsn"`
}

// RedisConfig настройки рассылки между экземплярами; пустой Addr отключает ее
type RedisConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig настройки логирования
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AwarenessConfig настройки присутствия
type AwarenessConfig struct {
	Heartbeat time.Duration `yaml:"heartbeat"`
	Timeout   time.Duration `yaml:"timeout"`
}

// RateLimitConfig число запросов в минуту с одного IP; 0 отключает лимит
type RateLimitConfig struct {
	API  int `yaml:"api_per_minute"`
	Sync int `yaml:"sync_per_minute"`
}

// DiscoveryConfig настройки объявления сервера в локальной сети через mDNS
type DiscoveryConfig struct {
	Instance string `yaml:"instance"` // пустой - notesync-<hostname>
	Enabled  bool   `yaml:"enabled"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Listen: ":8080",
		Storage: StorageConfig{
			Driver: DriverSQLite,
			DSN:    "notesync-server.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Awareness: AwarenessConfig{
			Heartbeat: awareness.DefaultHeartbeatInterval,
			Timeout:   awareness.DefaultOfflineTimeout,
		},
		RateLimit: RateLimitConfig{
			API:  600,
			Sync: 60,
		},
		ShutdownTimeout: 10 * time.Second,
	}
}

// AwarenessSettings converts the presence settings for the hub.
func (c Config) AwarenessSettings() awareness.Config {
	return awareness.Config{
		HeartbeatInterval: c.Awareness.Heartbeat,
		OfflineTimeout:    c.Awareness.Timeout,
	}
}

// Validate checks the values that cannot be fixed by defaults.
func (c Config) Validate() error {
	var errs []error

	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	switch c.Storage.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q: use sqlite or postgres", c.Storage.Driver))
	}
	if c.Storage.DSN == "" {
		errs = append(errs, errors.New("storage dsn is required"))
	}
	if c.Awareness.Heartbeat <= 0 || c.Awareness.Timeout <= 0 {
		errs = append(errs, errors.New("awareness intervals must be positive"))
	}
	if c.Awareness.Timeout < c.Awareness.Heartbeat {
		errs = append(errs, fmt.Errorf("awareness timeout %s is shorter than heartbeat %s", c.Awareness.Timeout, c.Awareness.Heartbeat))
	}
	if c.RateLimit.API < 0 || c.RateLimit.Sync < 0 {
		errs = append(errs, errors.New("rate limits must not be negative"))
	}

	return errors.Join(errs...)
}

// Load builds the configuration from args (without the program name) and
// the environment looked up with lookupEnv.
func Load(args []string, lookupEnv func(string) (string, bool)) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("notesync-server", flag.ContinueOnError)
	path := fs.String("config", "", "Path to YAML config file")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")

	// Значения флагов разбираются во временную копию и применяются последними
	var flags Config
	fs.StringVar(&flags.Listen, "addr", cfg.Listen, "Listen address")
	fs.StringVar(&flags.Storage.Driver, "storage", cfg.Storage.Driver, "Storage driver: sqlite or postgres")
	fs.StringVar(&flags.Storage.DSN, "dsn", cfg.Storage.DSN, "SQLite path or PostgreSQL connection string")
	fs.StringVar(&flags.Redis.Addr, "redis", "", "Redis address for multi-instance fan-out")
	fs.StringVar(&flags.InstanceID, "instance", "", "Server actor id")
	fs.BoolVar(&flags.Discovery.Enabled, "mdns", false, "Announce the server on the local network")
	fs.StringVar(&flags.Log.Level, "log-level", cfg.Log.Level, "Log level: debug, info, warn, error")
	fs.StringVar(&flags.Log.Format, "log-format", cfg.Log.Format, "Log format: text or json")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *path != "" {
		if err := cfg.loadFile(*path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(lookupEnv); err != nil {
		return Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Listen = flags.Listen
		case "storage":
			cfg.Storage.Driver = flags.Storage.Driver
		case "dsn":
			cfg.Storage.DSN = flags.Storage.DSN
		case "redis":
			cfg.Redis.Addr = flags.Redis.Addr
		case "instance":
			cfg.InstanceID = flags.InstanceID
		case "mdns":
			cfg.Discovery.Enabled = flags.Discovery.Enabled
		case "log-level":
			cfg.Log.Level = flags.Log.Level
		case "log-format":
			cfg.Log.Format = flags.Log.Format
		}
	})

	if cfg.ShowVersion {
		return cfg, nil
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) error {
	if lookupEnv == nil {
		return nil
	}

	strs := map[string]*string{
		"NOTESYNC_LISTEN":         &c.Listen,
		"NOTESYNC_STORAGE_DRIVER": &c.Storage.Driver,
		"NOTESYNC_STORAGE_DSN":    &c.Storage.DSN,
		"NOTESYNC_REDIS_ADDR":     &c.Redis.Addr,
		"NOTESYNC_INSTANCE_ID":    &c.InstanceID,
		"NOTESYNC_LOG_LEVEL":      &c.Log.Level,
		"NOTESYNC_LOG_FORMAT":     &c.Log.Format,
		"NOTESYNC_MDNS_INSTANCE":  &c.Discovery.Instance,
	}
	for key, dst := range strs {
		if v, ok := lookupEnv(key); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"NOTESYNC_AWARENESS_HEARTBEAT": &c.Awareness.Heartbeat,
		"NOTESYNC_AWARENESS_TIMEOUT":   &c.Awareness.Timeout,
		"NOTESYNC_SHUTDOWN_TIMEOUT":    &c.ShutdownTimeout,
	}
	var errs []error
	for key, dst := range durations {
		v, ok := lookupEnv(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		*dst = d
	}

	ints := map[string]*int{
		"NOTESYNC_RATE_LIMIT_API":  &c.RateLimit.API,
		"NOTESYNC_RATE_LIMIT_SYNC": &c.RateLimit.Sync,
	}
	for key, dst := range ints {
		v, ok := lookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		*dst = n
	}

	if v, ok := lookupEnv("NOTESYNC_MDNS"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("NOTESYNC_MDNS: %w", err))
		} else {
			c.Discovery.Enabled = enabled
		}
	}

	return errors.Join(errs...)
}
