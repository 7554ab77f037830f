package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/signalsfoundry/polynet/authalic"
	"github.com/signalsfoundry/polynet/model"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate(): %v", err)
	}
	e, err := Default().ResolveEllipsoid()
	if err != nil || e != authalic.WGS84 {
		t.Fatalf("ResolveEllipsoid = %+v, %v; want WGS84", e, err)
	}
}

func TestApplyDefaultsFillsZeroValue(t *testing.T) {
	got := Config{}.ApplyDefaults()
	if got != Default() {
		t.Fatalf("ApplyDefaults on zero config = %+v, want %+v", got, Default())
	}

	custom := Config{Polyhedron: "cube", Net: NetConfig{Root: 3}, Batch: BatchConfig{Workers: 4, FailFast: true}}.ApplyDefaults()
	if custom.Polyhedron != "cube" || custom.Net.Root != 3 || custom.Batch.Workers != 4 || !custom.Batch.FailFast {
		t.Fatalf("ApplyDefaults overwrote explicit values: %+v", custom)
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Polyhedron = "prism"
	cfg.Net.Variant = "spiral"
	cfg.Projection = "mercator"
	cfg.Net.Root = -1
	cfg.Tracing.SampleRatio = 2
	cfg.Ellipsoid.Name = "bessel"

	err := cfg.Validate()
	if !errors.Is(err, model.ErrUnsupportedConfiguration) {
		t.Fatalf("Validate err = %v, want ErrUnsupportedConfiguration", err)
	}
	for _, want := range []string{"polyhedron", "net.variant", "projection", "net.root", "sample_ratio", "ellipsoid.name"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error does not mention %s: %v", want, err)
		}
	}
}

func TestCustomEllipsoid(t *testing.T) {
	cfg := Default()
	cfg.Ellipsoid = EllipsoidConfig{Name: "Custom", Flattening: 1 / 300.0, SemiMajor: 6378000}
	e, err := cfg.ResolveEllipsoid()
	if err != nil {
		t.Fatalf("ResolveEllipsoid: %v", err)
	}
	if e.Flattening != 1/300.0 || e.SemiMajor != 6378000 {
		t.Fatalf("custom ellipsoid = %+v", e)
	}

	cfg.Ellipsoid.Flattening = 1.2
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected flattening error")
	}
}

func TestCustomEllipsoidRejectsNonFinite(t *testing.T) {
	cases := []EllipsoidConfig{
		{Name: CustomEllipsoid, Flattening: math.NaN(), SemiMajor: 6378000},
		{Name: CustomEllipsoid, Flattening: 0, SemiMajor: math.NaN()},
		{Name: CustomEllipsoid, Flattening: 0, SemiMajor: math.Inf(1)},
	}
	for _, ec := range cases {
		cfg := Default()
		cfg.Ellipsoid = ec
		if _, err := cfg.ResolveEllipsoid(); err == nil {
			t.Errorf("ResolveEllipsoid(%+v) accepted a non-finite parameter", ec)
		}
		if err := cfg.Validate(); !errors.Is(err, model.ErrUnsupportedConfiguration) {
			t.Errorf("Validate(%+v) err = %v, want ErrUnsupportedConfiguration", ec, err)
		}
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "polynet.yaml")
	body := `
polyhedron: dodecahedron
net:
  variant: depthfirst
  root: 2
batch:
  workers: 6
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("POLYNET_PROJECTION", "gnomonic")
	t.Setenv("POLYNET_BATCH_FAIL_FAST", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Polyhedron != "dodecahedron" || cfg.Net.Variant != "depthfirst" || cfg.Net.Root != 2 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Batch.Workers != 6 || !cfg.Batch.FailFast {
		t.Fatalf("batch config = %+v", cfg.Batch)
	}
	if cfg.Projection != "gnomonic" {
		t.Fatalf("env override not applied: projection = %q", cfg.Projection)
	}
	if cfg.Ellipsoid.Name != "wgs84" || cfg.Logging.Format != "text" {
		t.Fatalf("defaults missing: %+v", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load without file = %+v, want defaults", cfg)
	}
}

func TestFromViperRejectsInvalid(t *testing.T) {
	v := viper.New()
	v.Set("polyhedron", "torus")
	if _, err := FromViper(v); !errors.Is(err, model.ErrUnsupportedConfiguration) {
		t.Fatalf("FromViper err = %v, want ErrUnsupportedConfiguration", err)
	}
}
