package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for resumed.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Service     ServiceConfig     `yaml:"service"`
	API         APIConfig         `yaml:"api"`
	Render      RenderConfig      `yaml:"render"`
	Source      SourceConfig      `yaml:"source"`
	Database    DatabaseConfig    `yaml:"database"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	ObjectStore ObjectStoreConfig `yaml:"object_store"`
	Logging     LoggingConfig     `yaml:"logging"`
	Security    SecurityConfig    `yaml:"security"`
}

// ServiceConfig identifies this instance in logs, events and metrics.
type ServiceConfig struct {
	Name       string `yaml:"name"`
	InstanceID string `yaml:"instance_id"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	// Host is the bind address. An empty host binds all interfaces (":PORT").
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	TLS      TLSConfig        `yaml:"tls"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
//
// The write timeout is not configured here: it follows render.timeout so a
// long compile is never cut off by the HTTP layer first.
type APITimeoutConfig struct {
	Read int `yaml:"read"`
	Idle int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// RenderConfig controls the LaTeX toolchain and render concurrency.
type RenderConfig struct {
	// Binary is the latexmk executable (resolved via PATH when not absolute).
	Binary string `yaml:"binary"`

	// Args are passed to latexmk before the .tex file name.
	Args []string `yaml:"args"`

	// Concurrency is the number of renders allowed to run at once.
	Concurrency int `yaml:"concurrency"`

	// Timeout bounds a single render in seconds. 0 means unbounded.
	Timeout int `yaml:"timeout"`

	// WorkRoot is the parent directory for per-render temp dirs.
	// Empty uses os.TempDir().
	WorkRoot string `yaml:"work_root"`

	// KeepWorkDir leaves temp dirs behind for debugging.
	KeepWorkDir bool `yaml:"keep_work_dir"`

	// DefaultName is used for the header when the payload carries no name.
	DefaultName string `yaml:"default_name"`
}

// SourceConfig describes the remote resume data API.
type SourceConfig struct {
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// ObjectStoreConfig contains S3-compatible storage settings for PDF archiving.
type ObjectStoreConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	Prefix       string `yaml:"prefix"`
	UseSSL       bool   `yaml:"use_ssl"`
	CreateBucket bool   `yaml:"create_bucket"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	Auth AuthConfig `yaml:"auth"`
	JWT  JWTConfig  `yaml:"jwt"`
}

// AuthConfig toggles bearer-token authentication on render endpoints.
type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

// JWTConfig contains JWT token settings.
type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults), skipped when path is empty
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern RESUMED_SECTION_KEY, plus the
// platform-standard PORT.
//
// Parameters:
//   - path: Path to the YAML configuration file, or "" for defaults only
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration without reading files or environment.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:       "resumed",
			InstanceID: "resumed-01",
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read: 30,
				Idle: 60,
			},
		},
		Render: RenderConfig{
			Binary:      "latexmk",
			Args:        []string{"-pdf", "-interaction=nonstopmode", "-halt-on-error", "-no-shell-escape"},
			Concurrency: 8,
			Timeout:     120,
		},
		Source: SourceConfig{
			URL:     "https://saiyerniakhil.in/api/data.json",
			Timeout: 10,
		},
		Database: DatabaseConfig{
			Path:        "./data/resumed.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "resumed",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		ObjectStore: ObjectStoreConfig{
			Prefix: "resumes",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				Issuer: "resumed",
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	// PORT is set by hosting platforms and wins over the file.
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT %q is not a number", v)
		}
		cfg.API.Port = port
	}
	if v := os.Getenv("RESUMED_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// Render
	if v := os.Getenv("RESUMED_RENDER_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RESUMED_RENDER_TIMEOUT %q is not a number", v)
		}
		cfg.Render.Timeout = n
	}
	if v := os.Getenv("RESUMED_RENDER_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RESUMED_RENDER_CONCURRENCY %q is not a number", v)
		}
		cfg.Render.Concurrency = n
	}

	if v := os.Getenv("RESUMED_SOURCE_URL"); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv("RESUMED_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("RESUMED_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("RESUMED_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("RESUMED_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	if v := os.Getenv("RESUMED_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	if v := os.Getenv("RESUMED_OBJECT_STORE_ACCESS_KEY"); v != "" {
		cfg.ObjectStore.AccessKey = v
	}
	if v := os.Getenv("RESUMED_OBJECT_STORE_SECRET_KEY"); v != "" {
		cfg.ObjectStore.SecretKey = v
	}

	if v := os.Getenv("RESUMED_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}

	return nil
}

// minJWTSecretLength is the shortest HS256 secret accepted when auth is on.
const minJWTSecretLength = 32

// Validate checks the configuration for errors and security issues.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}
	if c.API.TLS.Enabled && (c.API.TLS.CertFile == "" || c.API.TLS.KeyFile == "") {
		errs = append(errs, "api.tls requires cert_file and key_file")
	}

	if c.Render.Binary == "" {
		errs = append(errs, "render.binary is required")
	}
	if c.Render.Concurrency < 1 {
		errs = append(errs, "render.concurrency must be at least 1")
	}
	if c.Render.Timeout < 0 {
		errs = append(errs, "render.timeout must be 0 (unbounded) or positive")
	}

	if u, err := url.Parse(c.Source.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, "source.url must be an absolute http(s) URL")
	}
	if c.Source.Timeout < 0 {
		errs = append(errs, "source.timeout must not be negative")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.Enabled {
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" || c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.url, influxdb.org and influxdb.bucket are required when influxdb is enabled")
		}
	}

	if c.ObjectStore.Enabled {
		if c.ObjectStore.Endpoint == "" || c.ObjectStore.Bucket == "" {
			errs = append(errs, "object_store.endpoint and object_store.bucket are required when object_store is enabled")
		}
	}

	if c.Security.Auth.Enabled {
		if c.Security.JWT.Secret == "" {
			errs = append(errs, "security.jwt.secret is required when auth is enabled (set RESUMED_JWT_SECRET)")
		} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
			errs = append(errs, "security.jwt.secret must be at least 32 characters")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Addr returns the listen address for the API server.
//
// A host of "0.0.0.0" yields "0.0.0.0:PORT"; an empty host yields ":PORT".
func (c *Config) Addr() string {
	if c.API.Host == "" {
		return fmt.Sprintf(":%d", c.API.Port)
	}
	return net.JoinHostPort(c.API.Host, strconv.Itoa(c.API.Port))
}

// RenderTimeout returns the per-render timeout. Zero means unbounded.
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Render.Timeout) * time.Second
}

// SourceTimeout returns the remote fetch timeout.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.Source.Timeout) * time.Second
}

// writeGrace is added to the render timeout so the handler can still write
// the timeout response after the render is cancelled.
const writeGrace = 10 * time.Second

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
// It is zero (no limit) when renders are unbounded. The API re-arms it once a
// render returns, so it bounds the render plus the response write, not queue time.
func (c *Config) GetWriteTimeout() time.Duration {
	if c.Render.Timeout == 0 {
		return 0
	}
	return c.RenderTimeout() + writeGrace
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
