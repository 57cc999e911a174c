package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/cellbind/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "cellbind.json"

	// DefaultPort is the default playground port.
	DefaultPort = 3000

	// DefaultHost is the default playground host.
	DefaultHost = "localhost"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "cellbind"

	// DefaultMetricsPath is where the playground exposes metrics.
	DefaultMetricsPath = "/metrics"

	// DefaultSnapshotDir is the default snapshot directory.
	DefaultSnapshotDir = "snapshots"
)

// Config represents the complete cellbind.json configuration.
type Config struct {
	// Playground contains the live playground server settings.
	Playground PlaygroundConfig `json:"playground,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Snapshot contains snapshot archive settings.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PlaygroundConfig contains playground server settings.
type PlaygroundConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Title is shown in the page head.
	Title string `json:"title,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled registers the engine collectors and serves Path.
	Enabled bool `json:"enabled"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`

	// Path is the HTTP path for the exposition handler.
	Path string `json:"path,omitempty"`
}

// SnapshotConfig contains snapshot archive settings.
type SnapshotConfig struct {
	// Dir is the local snapshot directory.
	Dir string `json:"dir,omitempty"`

	// S3 stores snapshots in a bucket instead of Dir when Bucket is set.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config contains S3 snapshot store settings.
type S3Config struct {
	Bucket       string `json:"bucket,omitempty"`
	Region       string `json:"region,omitempty"`
	Prefix       string `json:"prefix,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`
	UsePathStyle bool   `json:"usePathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Playground: PlaygroundConfig{
			Host:  DefaultHost,
			Port:  DefaultPort,
			Title: "cellbind playground",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
			Path:      DefaultMetricsPath,
		},
		Snapshot: SnapshotConfig{
			Dir: DefaultSnapshotDir,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for cellbind.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No cellbind.json found in " + filepath.Dir(path))
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse cellbind.json: " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads cellbind.json from dir, or returns defaults when the
// file does not exist. Any other failure is returned.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Playground.Host == "" {
		c.Playground.Host = DefaultHost
	}
	if c.Playground.Port == 0 {
		c.Playground.Port = DefaultPort
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Playground.Port < 0 || c.Playground.Port > 65535 {
		return errors.New("E122").
			WithDetail("playground.port must be between 0 and 65535")
	}
	if _, err := c.LogLevel(); err != nil {
		return errors.New("E122").
			WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return errors.New("E122").
			WithDetailf("log.format %q must be text or json", c.Log.Format)
	}
	if c.Metrics.Path != "" && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E122").
			WithDetail("metrics.path must start with /")
	}
	if c.Snapshot.S3.Bucket != "" && c.Snapshot.S3.Region == "" {
		return errors.New("E122").
			WithDetail("snapshot.s3.region is required when a bucket is set")
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// Address returns the listen address for the playground.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Playground.Host, strconv.Itoa(c.Playground.Port))
}

// URL returns the playground URL.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// SnapshotPath returns the absolute path to the snapshot directory.
func (c *Config) SnapshotPath() string {
	if filepath.IsAbs(c.Snapshot.Dir) {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshot.Dir)
}

// UseS3 reports whether snapshots go to S3.
func (c *Config) UseS3() bool {
	return c.Snapshot.S3.Bucket != ""
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing cellbind.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E121").
				WithDetail("No cellbind.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
