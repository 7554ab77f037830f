// Package config holds the engine configuration and loads it with viper
// from defaults, an optional config file and POLYNET_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/signalsfoundry/polynet/authalic"
	"github.com/signalsfoundry/polynet/layout"
	"github.com/signalsfoundry/polynet/model"
	"github.com/signalsfoundry/polynet/polyhedron"
	"github.com/signalsfoundry/polynet/projection"
)

// EnvPrefix prefixes every environment override, e.g. POLYNET_NET_VARIANT.
const EnvPrefix = "POLYNET"

// CustomEllipsoid selects the explicit flattening and semi-major axis.
const CustomEllipsoid = "custom"

// Config holds all engine configuration.
type Config struct {
	Ellipsoid  EllipsoidConfig `mapstructure:"ellipsoid"`
	Polyhedron string          `mapstructure:"polyhedron"`
	Net        NetConfig       `mapstructure:"net"`
	Projection string          `mapstructure:"projection"`
	Batch      BatchConfig     `mapstructure:"batch"`
	Logging    LoggingConfig   `mapstructure:"logging"`
	Tracing    TracingConfig   `mapstructure:"tracing"`
}

// EllipsoidConfig names a preset, or "custom" with explicit parameters.
type EllipsoidConfig struct {
	Name       string  `mapstructure:"name"`
	Flattening float64 `mapstructure:"flattening"`
	SemiMajor  float64 `mapstructure:"semi_major"`
}

type NetConfig struct {
	Variant string `mapstructure:"variant"`
	Root    int    `mapstructure:"root"`
}

// BatchConfig sets the default batch behaviour.
// Workers below 2 run batches sequentially.
type BatchConfig struct {
	Workers  int  `mapstructure:"workers"`
	FailFast bool `mapstructure:"fail_fast"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Exporter    string  `mapstructure:"exporter"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Default returns the WGS84 icosahedron with the standard net and the VGC
// projection.
func Default() Config {
	return Config{
		Ellipsoid:  EllipsoidConfig{Name: authalic.WGS84.Name},
		Polyhedron: string(polyhedron.Icosahedron),
		Net:        NetConfig{Variant: string(layout.Standard)},
		Projection: string(projection.VGC),
		Batch:      BatchConfig{Workers: 1},
		Logging:    LoggingConfig{Level: "info", Format: "text"},
		Tracing: TracingConfig{
			ServiceName: "polynet",
			Exporter:    "stdout",
			SampleRatio: 1,
		},
	}
}

// ApplyDefaults fills empty fields from Default. Numeric zero values that
// are meaningful (root 0, flattening 0) are kept; a zero sample ratio
// means the default, so disable tracing to record nothing.
func (c Config) ApplyDefaults() Config {
	d := Default()
	if c.Ellipsoid.Name == "" {
		c.Ellipsoid.Name = d.Ellipsoid.Name
	}
	if c.Polyhedron == "" {
		c.Polyhedron = d.Polyhedron
	}
	if c.Net.Variant == "" {
		c.Net.Variant = d.Net.Variant
	}
	if c.Projection == "" {
		c.Projection = d.Projection
	}
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = d.Batch.Workers
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = d.Tracing.ServiceName
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = d.Tracing.Exporter
	}
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = d.Tracing.SampleRatio
	}
	return c
}

// Load reads configuration from defaults, the optional file at path and the
// environment. An empty path looks for polynet.yaml in the working
// directory and ./configs, and tolerates its absence.
func Load(path string) (Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load on a caller-supplied viper, typically one with command
// line flags already bound so they take precedence over file and
// environment values.
func LoadWith(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("polynet")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return FromViper(v)
}

// FromViper applies defaults and environment bindings to v and decodes it.
func FromViper(v *viper.Viper) (Config, error) {
	setDefaults(v)

	// Environment variables: POLYNET_NET_VARIANT → net.variant
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg = cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("ellipsoid.name", d.Ellipsoid.Name)
	v.SetDefault("ellipsoid.flattening", d.Ellipsoid.Flattening)
	v.SetDefault("ellipsoid.semi_major", d.Ellipsoid.SemiMajor)
	v.SetDefault("polyhedron", d.Polyhedron)
	v.SetDefault("net.variant", d.Net.Variant)
	v.SetDefault("net.root", d.Net.Root)
	v.SetDefault("projection", d.Projection)
	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("batch.fail_fast", d.Batch.FailFast)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.sample_ratio", d.Tracing.SampleRatio)
}

// Validate checks every field and reports all problems at once, wrapped
// around model.ErrUnsupportedConfiguration.
func (c Config) Validate() error {
	var errs []string

	if _, err := c.ResolveEllipsoid(); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := polyhedron.ParseVariant(c.Polyhedron); err != nil {
		errs = append(errs, fmt.Sprintf("polyhedron %q is not one of %v", c.Polyhedron, polyhedron.Variants()))
	}
	if _, err := layout.ParseVariant(c.Net.Variant); err != nil {
		errs = append(errs, fmt.Sprintf("net.variant %q is not one of %v", c.Net.Variant, layout.Variants()))
	}
	if c.Net.Root < 0 {
		errs = append(errs, fmt.Sprintf("net.root must be non-negative, got %d", c.Net.Root))
	}
	if _, err := projection.ParseVariant(c.Projection); err != nil {
		errs = append(errs, fmt.Sprintf("projection %q is not one of %v", c.Projection, projection.Variants()))
	}
	if c.Batch.Workers < 0 {
		errs = append(errs, fmt.Sprintf("batch.workers must be non-negative, got %d", c.Batch.Workers))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("logging.format must be text or json, got %q", c.Logging.Format))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Sprintf("tracing.sample_ratio must be in [0, 1], got %v", c.Tracing.SampleRatio))
	}
	switch strings.ToLower(c.Tracing.Exporter) {
	case "", "stdout", "otlp", "otlpgrpc":
	default:
		errs = append(errs, fmt.Sprintf("tracing.exporter must be stdout or otlp, got %q", c.Tracing.Exporter))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: config validation failed:\n  - %s", model.ErrUnsupportedConfiguration, strings.Join(errs, "\n  - "))
	}
	return nil
}

// ResolveEllipsoid returns the configured preset or custom ellipsoid.
func (c Config) ResolveEllipsoid() (authalic.Ellipsoid, error) {
	if strings.EqualFold(strings.TrimSpace(c.Ellipsoid.Name), CustomEllipsoid) {
		f := c.Ellipsoid.Flattening
		if math.IsNaN(f) || f < 0 || f >= 1 {
			return authalic.Ellipsoid{}, fmt.Errorf("ellipsoid.flattening must be in [0, 1), got %v", f)
		}
		if a := c.Ellipsoid.SemiMajor; math.IsNaN(a) || math.IsInf(a, 0) || a <= 0 {
			return authalic.Ellipsoid{}, fmt.Errorf("ellipsoid.semi_major must be positive, got %v", c.Ellipsoid.SemiMajor)
		}
		return authalic.Ellipsoid{Name: CustomEllipsoid, SemiMajor: c.Ellipsoid.SemiMajor, Flattening: f}, nil
	}
	e, err := authalic.EllipsoidByName(c.Ellipsoid.Name)
	if err != nil {
		return authalic.Ellipsoid{}, fmt.Errorf("ellipsoid.name %q is not a known preset", c.Ellipsoid.Name)
	}
	return e, nil
}
