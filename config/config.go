// Package config loads the process configuration from an optional TOML file
// and the environment. Environment variables always win over the file.
package config

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mwantia/s3fs/bridge"
	"github.com/mwantia/s3fs/data/errors"
	"github.com/mwantia/s3fs/log"
	"github.com/spf13/afero"
)

type Config struct {
	// Bucket holding every emulated object (required)
	Bucket string `toml:"bucket"`
	// Backend address, e.g. "s3://", "sqlite:///var/cache/s3fs.db"
	Backend string `toml:"backend"`
	// WorkDir is the virtual working directory for relative paths
	WorkDir string `toml:"work_dir"`
	// Namespace keeps all keys below a prefix inside the bucket
	Namespace string `toml:"namespace"`
	// ReadOnly rejects every write and delete
	ReadOnly bool `toml:"read_only"`

	S3        S3Config        `toml:"s3"`
	Bridge    BridgeConfig    `toml:"bridge"`
	Log       LogConfig       `toml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

type S3Config struct {
	Endpoint     string `toml:"endpoint"`
	Region       string `toml:"region"`
	AccessKey    string `toml:"access_key"`
	SecretKey    string `toml:"secret_key"`
	UseSSL       bool   `toml:"use_ssl"`
	CreateBucket bool   `toml:"create_bucket"`
}

type BridgeConfig struct {
	Timeout time.Duration `toml:"timeout"`
}

type TelemetryConfig struct {
	// Endpoint receiving OTLP/HTTP metrics, disabled when empty
	Endpoint string `toml:"endpoint"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
	JSON  bool   `toml:"json"`
}

// Default returns the configuration used when neither file nor environment
// set a value. The bucket has no default.
func Default() *Config {
	return &Config{
		Backend: "s3://",
		WorkDir: "/",
		S3: S3Config{
			Endpoint: "s3.amazonaws.com",
			Region:   "us-east-1",
			UseSSL:   true,
		},
		Bridge: BridgeConfig{
			Timeout: bridge.DefaultTimeout,
		},
		Log: LogConfig{
			Level: "INFO",
		},
	}
}

// Parse decodes TOML data on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Load reads the TOML file at path through fs. An empty path skips the file.
func Load(fs afero.Fs, path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("loading config %q: %w", path, err)
	}

	return Parse(data)
}

// LookupFunc matches the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides the configuration with the environment.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	strs := map[string]*string{
		"CACHE_BUCKET_NAME":       &c.Bucket,
		"S3FS_BACKEND":            &c.Backend,
		"S3FS_WORK_DIR":           &c.WorkDir,
		"S3FS_NAMESPACE":          &c.Namespace,
		"S3FS_S3_ENDPOINT":        &c.S3.Endpoint,
		"AWS_REGION":              &c.S3.Region,
		"AWS_ACCESS_KEY_ID":       &c.S3.AccessKey,
		"AWS_SECRET_ACCESS_KEY":   &c.S3.SecretKey,
		"S3FS_LOG_LEVEL":          &c.Log.Level,
		"S3FS_LOG_FILE":           &c.Log.File,
		"S3FS_TELEMETRY_ENDPOINT": &c.Telemetry.Endpoint,
	}

	for key, target := range strs {
		if value, ok := lookup(key); ok {
			*target = strings.TrimSpace(value)
		}
	}

	if value, ok := lookup("S3FS_S3_USE_SSL"); ok {
		useSSL, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid S3FS_S3_USE_SSL %q: %w", value, err)
		}
		c.S3.UseSSL = useSSL
	}

	if value, ok := lookup("S3FS_READ_ONLY"); ok {
		readOnly, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid S3FS_READ_ONLY %q: %w", value, err)
		}
		c.ReadOnly = readOnly
	}

	if value, ok := lookup("S3FS_BRIDGE_TIMEOUT"); ok {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid S3FS_BRIDGE_TIMEOUT %q: %w", value, err)
		}
		c.Bridge.Timeout = timeout
	}

	return nil
}

// Validate reports every problem of the configuration at once.
func (c *Config) Validate() error {
	errs := &errors.Errors{}

	if c.Bucket == "" {
		errs.Add(fmt.Errorf("%w: set CACHE_BUCKET_NAME or 'bucket'", errors.ErrMissingBucket))
	}

	if c.Bridge.Timeout <= 0 {
		errs.Add(fmt.Errorf("bridge timeout must be positive, got %s", c.Bridge.Timeout))
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs.Add(err)
	}

	if !strings.HasPrefix(c.WorkDir, "/") {
		errs.Add(fmt.Errorf("%w: work dir '%s' must be absolute", errors.ErrInvalidPath, c.WorkDir))
	}

	return errs.Errors()
}

// NewLogger creates the root logger named "s3fs" writing to terminal.
func (c *Config) NewLogger(terminal io.Writer, noColor bool) (*log.Logger, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	return log.New(log.Options{
		Name:     "s3fs",
		Level:    level,
		Terminal: terminal,
		File:     c.Log.File,
		NoColor:  noColor,
		JSON:     c.Log.JSON,
	}), nil
}
