package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// ErrNilConfig is returned when a nil config is passed to a function that
// needs one.
var ErrNilConfig = errors.New("nil config")

// HTTPConfig is the HTTP configuration for the server.
type HTTPConfig struct {
	// Enabled is whether the HTTP API is served.
	Enabled bool `env:"ENABLED" yaml:"enabled"`

	// ListenAddr is the address on which the HTTP server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`

	// PublicURL is the public URL of the HTTP server.
	PublicURL string `env:"PUBLIC_URL" yaml:"public_url"`
}

// StatsConfig is the configuration for the stats server.
type StatsConfig struct {
	// Enabled is whether the metrics endpoint is served.
	Enabled bool `env:"ENABLED" yaml:"enabled"`

	// ListenAddr is the address on which the stats server will listen.
	ListenAddr string `env:"LISTEN_ADDR" yaml:"listen_addr"`
}

// LogConfig is the logger configuration.
type LogConfig struct {
	// Format is the format of the logs.
	// Valid values are "json", "logfmt", and "text".
	Format string `env:"FORMAT" yaml:"format"`

	// Time format for the log `ts` field.
	// Format must be described in Golang's time format.
	TimeFormat string `env:"TIME_FORMAT" yaml:"time_format"`

	// Path to a file to write logs to.
	// If not set, logs will be written to stderr.
	Path string `env:"PATH" yaml:"path"`
}

// DBConfig is the database connection configuration.
type DBConfig struct {
	// Driver is the driver for the database.
	// Valid values are "sqlite", "postgres", and "pgx".
	Driver string `env:"DRIVER" yaml:"driver"`

	// DataSource is the database data source name.
	DataSource string `env:"DATA_SOURCE" yaml:"data_source"`
}

// FormationConfig holds the team formation defaults.
type FormationConfig struct {
	// DefaultTeamSize is used when a caller does not pass a team size.
	DefaultTeamSize int `env:"DEFAULT_TEAM_SIZE" yaml:"default_team_size"`

	// Seed fixes the shuffle seed. Zero picks a fresh seed for every
	// formation.
	Seed int64 `env:"SEED" yaml:"seed"`
}

// S3Config configures the S3 client used for s3:// catalog sources.
type S3Config struct {
	Region       string `env:"REGION" yaml:"region"`
	Endpoint     string `env:"ENDPOINT" yaml:"endpoint"`
	UsePathStyle bool   `env:"USE_PATH_STYLE" yaml:"use_path_style"`
}

// CatalogConfig is the region catalog configuration.
type CatalogConfig struct {
	// Source is a YAML or CSV file path, or an s3://bucket/key URL,
	// imported by "mapathon catalog import" when no path is given.
	Source string `env:"SOURCE" yaml:"source"`

	S3 S3Config `envPrefix:"S3_" yaml:"s3"`
}

// JobsConfig is the configuration for cron jobs.
type JobsConfig struct {
	// IntegritySweep is the schedule of the integrity sweep. Empty disables
	// it.
	IntegritySweep string `env:"INTEGRITY_SWEEP" yaml:"integrity_sweep"`
}

// Config is the configuration for Mapathon.
type Config struct {
	// Name is the name of the server.
	Name string `env:"NAME" yaml:"name"`

	// HTTP is the configuration for the HTTP server.
	HTTP HTTPConfig `envPrefix:"HTTP_" yaml:"http"`

	// Stats is the configuration for the stats server.
	Stats StatsConfig `envPrefix:"STATS_" yaml:"stats"`

	// Log is the logger configuration.
	Log LogConfig `envPrefix:"LOG_" yaml:"log"`

	// DB is the database configuration.
	DB DBConfig `envPrefix:"DB_" yaml:"db"`

	// Formation holds the team formation defaults.
	Formation FormationConfig `envPrefix:"FORMATION_" yaml:"formation"`

	// Catalog is the region catalog configuration.
	Catalog CatalogConfig `envPrefix:"CATALOG_" yaml:"catalog"`

	// Jobs is the configuration for cron jobs.
	Jobs JobsConfig `envPrefix:"JOBS_" yaml:"jobs"`

	// DataPath is the path to the directory where Mapathon will store its data.
	DataPath string `env:"DATA_PATH" yaml:"-"`
}

// Environ returns the config as a list of environment variables.
func (c *Config) Environ() []string {
	if c == nil {
		return nil
	}

	return []string{
		fmt.Sprintf("MAPATHON_DATA_PATH=%s", c.DataPath),
		fmt.Sprintf("MAPATHON_NAME=%s", c.Name),
		fmt.Sprintf("MAPATHON_HTTP_ENABLED=%t", c.HTTP.Enabled),
		fmt.Sprintf("MAPATHON_HTTP_LISTEN_ADDR=%s", c.HTTP.ListenAddr),
		fmt.Sprintf("MAPATHON_HTTP_PUBLIC_URL=%s", c.HTTP.PublicURL),
		fmt.Sprintf("MAPATHON_STATS_ENABLED=%t", c.Stats.Enabled),
		fmt.Sprintf("MAPATHON_STATS_LISTEN_ADDR=%s", c.Stats.ListenAddr),
		fmt.Sprintf("MAPATHON_LOG_FORMAT=%s", c.Log.Format),
		fmt.Sprintf("MAPATHON_LOG_TIME_FORMAT=%s", c.Log.TimeFormat),
		fmt.Sprintf("MAPATHON_LOG_PATH=%s", c.Log.Path),
		fmt.Sprintf("MAPATHON_DB_DRIVER=%s", c.DB.Driver),
		fmt.Sprintf("MAPATHON_DB_DATA_SOURCE=%s", c.DB.DataSource),
		fmt.Sprintf("MAPATHON_FORMATION_DEFAULT_TEAM_SIZE=%d", c.Formation.DefaultTeamSize),
		fmt.Sprintf("MAPATHON_FORMATION_SEED=%d", c.Formation.Seed),
		fmt.Sprintf("MAPATHON_CATALOG_SOURCE=%s", c.Catalog.Source),
		fmt.Sprintf("MAPATHON_CATALOG_S3_REGION=%s", c.Catalog.S3.Region),
		fmt.Sprintf("MAPATHON_CATALOG_S3_ENDPOINT=%s", c.Catalog.S3.Endpoint),
		fmt.Sprintf("MAPATHON_CATALOG_S3_USE_PATH_STYLE=%t", c.Catalog.S3.UsePathStyle),
		fmt.Sprintf("MAPATHON_JOBS_INTEGRITY_SWEEP=%s", c.Jobs.IntegritySweep),
	}
}

// IsDebug returns true if the server is running in debug mode.
func IsDebug() bool {
	debug, _ := strconv.ParseBool(os.Getenv("MAPATHON_DEBUG"))
	return debug
}

// IsVerbose returns true if the server is running in verbose mode.
// Verbose mode is only enabled if debug mode is enabled.
func IsVerbose() bool {
	verbose, _ := strconv.ParseBool(os.Getenv("MAPATHON_VERBOSE"))
	return IsDebug() && verbose
}

// parseFile parses the given file as a configuration file.
// The file must be in YAML format.
func parseFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close() // nolint: errcheck
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	return cfg.Validate()
}

// ParseFile parses the config from the default file path.
// This also calls Validate() on the config.
func (c *Config) ParseFile() error {
	return parseFile(c, c.ConfigPath())
}

// parseEnv parses the environment variables as a configuration file.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix: "MAPATHON_",
	}); err != nil {
		return fmt.Errorf("parse environment variables: %w", err)
	}

	return cfg.Validate()
}

// ParseEnv parses the config from the environment variables.
// This also calls Validate() on the config.
func (c *Config) ParseEnv() error {
	return parseEnv(c)
}

// Parse parses the config from the default file path and environment variables.
// This also calls Validate() on the config.
func (c *Config) Parse() error {
	if err := c.ParseFile(); err != nil {
		return err
	}

	return c.ParseEnv()
}

// writeConfig writes the configuration to the given file.
func writeConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(newConfigFile(cfg)), 0o644) // nolint: errcheck, gosec
}

// WriteConfig writes the configuration to the default file.
func (c *Config) WriteConfig() error {
	return writeConfig(c, c.ConfigPath())
}

// DefaultDataPath returns the path to the data directory.
// It uses the MAPATHON_DATA_PATH environment variable if set, otherwise it
// uses "data".
func DefaultDataPath() string {
	dp := os.Getenv("MAPATHON_DATA_PATH")
	if dp == "" {
		dp = "data"
	}

	return dp
}

// ConfigPath returns the path to the config file. MAPATHON_CONFIG_LOCATION
// takes precedence when it names an existing file.
func (c *Config) ConfigPath() string { // nolint:revive
	if path := os.Getenv("MAPATHON_CONFIG_LOCATION"); exist(path) {
		return path
	}

	return filepath.Join(c.DataPath, "config.yaml")
}

func exist(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Exist returns true if the config file exists.
func (c *Config) Exist() bool {
	return exist(c.ConfigPath())
}

// DefaultConfig returns the default Config. All the path values are relative
// to the data directory.
// Use Validate() to validate the config and ensure absolute paths.
func DefaultConfig() *Config {
	return &Config{
		Name:     "Mapathon",
		DataPath: DefaultDataPath(),
		HTTP: HTTPConfig{
			Enabled:    true,
			ListenAddr: ":23240",
			PublicURL:  "http://localhost:23240",
		},
		Stats: StatsConfig{
			Enabled:    true,
			ListenAddr: "localhost:23241",
		},
		Log: LogConfig{
			Format:     "text",
			TimeFormat: time.DateTime,
		},
		DB: DBConfig{
			Driver: db.DriverSQLite,
			DataSource: "mapathon.db" +
				"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_txlock=immediate",
		},
		Formation: FormationConfig{
			DefaultTeamSize: 3,
		},
		Jobs: JobsConfig{
			IntegritySweep: "@every 30m",
		},
	}
}

// Validate validates the configuration.
// It updates the configuration with absolute paths.
func (c *Config) Validate() error {
	// Use absolute paths
	if !filepath.IsAbs(c.DataPath) {
		dp, err := filepath.Abs(c.DataPath)
		if err != nil {
			return err
		}
		c.DataPath = dp
	}

	c.HTTP.PublicURL = strings.TrimSuffix(c.HTTP.PublicURL, "/")

	switch c.DB.Driver {
	case db.DriverSQLite:
		if !filepath.IsAbs(c.DB.DataSource) {
			c.DB.DataSource = filepath.Join(c.DataPath, c.DB.DataSource)
		}
	case db.DriverPostgres, db.DriverPgx:
	default:
		return fmt.Errorf("invalid database driver %q", c.DB.Driver)
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}

	if c.Formation.DefaultTeamSize < 1 {
		return fmt.Errorf("invalid default team size %d: must be at least 1", c.Formation.DefaultTeamSize)
	}

	src := c.Catalog.Source
	if src != "" && !strings.HasPrefix(src, "s3://") && !filepath.IsAbs(src) {
		c.Catalog.Source = filepath.Join(c.DataPath, src)
	}

	if spec := c.Jobs.IntegritySweep; spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid integrity sweep schedule %q: %w", spec, err)
		}
	}

	return nil
}
