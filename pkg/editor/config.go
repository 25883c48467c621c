package editor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/curve-toolkit/pkg/spline"
)

var (
	ErrInvalidSize     = errors.New("canvas size must be positive")
	ErrInvalidScale    = errors.New("value scale must be positive")
	ErrInvalidAxisRule = errors.New("invalid axis rule")
)

// Config holds the canvas geometry and editing options of a session.
type Config struct {
	spline.Frame
	AxisRule spline.AxisRule
	LogLevel string
}

// DefaultConfig returns a 500x300 canvas over a 12x100 value range.
func DefaultConfig() Config {
	return Config{
		Frame: spline.Frame{
			SizeX:  500,
			SizeY:  300,
			XScale: 12,
			YScale: 100,
		},
		AxisRule: spline.AxisSwapped,
		LogLevel: "info",
	}
}

// Validate checks the config once at load time. The mapping code itself
// does not guard against zero or negative values.
func (c Config) Validate() error {
	if !positive(c.SizeX) || !positive(c.SizeY) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidSize, c.SizeX, c.SizeY)
	}
	if !positive(c.XScale) || !positive(c.YScale) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidScale, c.XScale, c.YScale)
	}
	if c.AxisRule != spline.AxisSwapped && c.AxisRule != spline.AxisDirect {
		return fmt.Errorf("%w: %v", ErrInvalidAxisRule, c.AxisRule)
	}
	if _, err := ResolveLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// positive rejects NaN and infinities along with non-positive values.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// configFile is the YAML layout of a config file.
type configFile struct {
	spline.Frame `yaml:",inline"`
	AxisRule     string `yaml:"axis_rule"`
	LogLevel     string `yaml:"log_level"`
}

// ParseConfig parses YAML on top of the defaults. Keys missing from data
// keep their default value.
func ParseConfig(data []byte) (Config, error) {
	def := DefaultConfig()
	raw := configFile{
		Frame:    def.Frame,
		AxisRule: def.AxisRule.String(),
		LogLevel: def.LogLevel,
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	rule, err := spline.ParseAxisRule(raw.AxisRule)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidAxisRule, err)
	}
	cfg := Config{Frame: raw.Frame, AxisRule: rule, LogLevel: raw.LogLevel}
	return cfg, cfg.Validate()
}

// LoadConfig reads a YAML config file. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// MarshalConfig encodes cfg in the config file layout.
func MarshalConfig(cfg Config) ([]byte, error) {
	return yaml.Marshal(configFile{
		Frame:    cfg.Frame,
		AxisRule: cfg.AxisRule.String(),
		LogLevel: cfg.LogLevel,
	})
}

// SaveConfig writes cfg to path as YAML.
func SaveConfig(path string, cfg Config) error {
	data, err := MarshalConfig(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
