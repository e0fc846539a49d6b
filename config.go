package undo

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the file configurable controller settings.
//
//	capacity: 256
//	merge_span: 500ms
type Config struct {
	Capacity  int      `yaml:"capacity" json:"capacity"`
	MergeSpan Duration `yaml:"merge_span" json:"merge_span"`
}

// DefaultConfig returns the settings of a controller built without options.
func DefaultConfig() Config {
	return Config{Capacity: DefaultCapacity}
}

// Validate reports invalid settings.
func (c Config) Validate() error {
	if c.Capacity < 0 {
		return fmt.Errorf("capacity %d: %w", c.Capacity, ErrInvalidCapacity)
	}
	if c.MergeSpan.Duration < 0 {
		return fmt.Errorf("merge_span %v must not be negative", c.MergeSpan.Duration)
	}
	return nil
}

// ParseConfig decodes a YAML document. Missing keys keep their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig decodes a YAML document read from r. An empty document yields
// the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Duration is a time.Duration written as a Go duration string ("250ms") or
// as an integer number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if v, err := time.ParseDuration(s); err == nil {
		d.Duration = v
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}
