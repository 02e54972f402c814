package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/overhang-risk/internal/config"
	"github.com/iwvelando/overhang-risk/pkg/constants"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultShutdownTimeout bounds how long in-flight requests get on shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	// MaxUploadSizeCeiling caps maxUploadSize. Analyze and export requests
	// carry one unit table, so anything larger is a misconfiguration.
	MaxUploadSizeCeiling int64 = 8 << 20
)

// sizeUnits maps the accepted maxUploadSize suffixes to byte multipliers.
var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
}

// Config holds the settings for `overhang serve`: the listen address, the
// body limit applied to analyze and export requests, how long shutdown
// drains in-flight requests, and the server's own logging.
type Config struct {
	Address         string               `yaml:"address"`
	MaxUploadSize   string               `yaml:"maxUploadSize"`
	ShutdownTimeout string               `yaml:"shutdownTimeout"`
	Logging         config.LoggingConfig `yaml:"logging"`
	uploadSizeBytes int64
	shutdownTimeout time.Duration
}

func defaultServerConfig() *Config {
	return &Config{
		Address:         constants.DefaultServerAddress,
		MaxUploadSize:   strconv.FormatInt(constants.DefaultMaxUploadSizeBytes, 10),
		ShutdownTimeout: DefaultShutdownTimeout.String(),
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// LoadConfig reads the serve settings from a YAML file. An empty path or a
// missing file yields the defaults: listen on :8080, 256K request bodies and
// a 10s shutdown drain.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultServerConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes is the largest analyze or export request body accepted.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes replaces the request body limit; non-positive values are ignored.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size <= 0 {
		return
	}
	c.uploadSizeBytes = size
	c.MaxUploadSize = strconv.FormatInt(size, 10)
}

// ShutdownTimeoutDuration is how long serve waits for in-flight requests.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return c.shutdownTimeout
}

// resolve fills blanks with defaults and parses the string-typed settings.
func (c *Config) resolve() error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}

	timeout, err := parseTimeout(c.ShutdownTimeout)
	if err != nil {
		return err
	}
	c.shutdownTimeout = timeout

	size, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxUploadSizeBytes
	}
	c.SetUploadSizeBytes(size)
	return nil
}

func parseTimeout(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultShutdownTimeout, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid shutdown timeout %q: %w", value, err)
	}
	if d <= 0 {
		return DefaultShutdownTimeout, nil
	}
	return d, nil
}

// ParseSize turns a request body limit such as "512", "64K" or "1MB" into
// bytes. Blank means the 256K default; limits above MaxUploadSizeCeiling are
// rejected.
func ParseSize(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	digits := strings.TrimRightFunc(value, func(r rune) bool { return !unicode.IsDigit(r) })
	suffix := strings.ToUpper(strings.TrimSpace(value[len(digits):]))
	if digits == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	multiplier, ok := sizeUnits[suffix]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", suffix)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(digits), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	if n > MaxUploadSizeCeiling/multiplier {
		return 0, fmt.Errorf("size %s exceeds the %d byte ceiling", value, MaxUploadSizeCeiling)
	}
	return n * multiplier, nil
}
