package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if got, want := cfg.GenerateOptions(), curriculum.DefaultGenerateOptions(); got != want {
		t.Errorf("GenerateOptions = %+v, want %+v", got, want)
	}
	if got := cfg.LayoutOptions(); got != curriculum.DefaultLayoutOptions() {
		t.Errorf("LayoutOptions = %+v", got)
	}
	if got := cfg.TraceOptions(); got != curriculum.DefaultTraceOptions() {
		t.Errorf("TraceOptions = %+v", got)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generate.Seed != curriculum.DefaultSeed {
		t.Errorf("Seed = %d", cfg.Generate.Seed)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "curriculummap.toml", `
[generate]
seed = 7
topics = 3
class_topics = { min = 1, max = 1 }

[layout]
width = 1600

[trace]
class_upward = false

[server]
addr = ":9000"
shutdown_timeout = "3s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generate.Seed != 7 || cfg.Generate.Topics != 3 {
		t.Errorf("generate = %+v", cfg.Generate)
	}
	if cfg.Generate.Classes != 5 {
		t.Errorf("unset key lost its default: classes = %d", cfg.Generate.Classes)
	}
	if cfg.Generate.ClassTopics != (curriculum.Range{Min: 1, Max: 1}) {
		t.Errorf("class_topics = %+v", cfg.Generate.ClassTopics)
	}
	if cfg.Viewport() != (curriculum.Viewport{Width: 1600, Height: 800}) {
		t.Errorf("viewport = %+v", cfg.Viewport())
	}
	if cfg.Trace.ClassUpward || !cfg.Trace.AssessmentUpward {
		t.Errorf("trace = %+v", cfg.Trace)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "curriculummap.yaml", `
generate:
  seed: 99
  objectives: 10
render:
  format: png
  scale: 1.5
cache:
  redis_addr: localhost:6379
  ttl: 1h
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generate.Seed != 99 || cfg.Generate.Objectives != 10 {
		t.Errorf("generate = %+v", cfg.Generate)
	}
	if cfg.Render.Format != "png" || cfg.Render.Scale != 1.5 {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" || cfg.Cache.TTL != time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.Format != "svg" {
		t.Errorf("format = %q", cfg.Render.Format)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		code errors.Code
	}{
		{"unknown toml key", "c.toml", "[generate]\ncolour = 1\n", errors.ErrCodeInvalidConfig},
		{"unknown yaml key", "c.yaml", "layout:\n  depth: 3\n", errors.ErrCodeInvalidConfig},
		{"bad syntax", "c.toml", "[generate\n", errors.ErrCodeInvalidConfig},
		{"unsupported extension", "c.ini", "seed=1", errors.ErrCodeInvalidConfig},
		{"zero topics", "c.toml", "[generate]\ntopics = 0\n", errors.ErrCodeInvalidConfig},
		{"bad format", "c.yaml", "render:\n  format: gif\n", errors.ErrCodeInvalidConfig},
		{"bad addr", "c.yaml", "server:\n  addr: nowhere\n", errors.ErrCodeInvalidConfig},
		{"range exceeds topics", "c.toml", "[generate]\ntopics = 1\nclass_topics = { min = 2, max = 2 }\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestEnvironmentOverlay(t *testing.T) {
	t.Setenv("CURRICULUMMAP_SEED", "123")
	t.Setenv("CURRICULUMMAP_ADDR", "0.0.0.0:7000")
	t.Setenv("CURRICULUMMAP_REDIS_ADDR", "redis:6379")
	t.Setenv("CURRICULUMMAP_CACHE_DIR", "/tmp/cm")

	path := writeFile(t, "c.toml", "[generate]\nseed = 5\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generate.Seed != 123 {
		t.Errorf("environment should win over file: seed = %d", cfg.Generate.Seed)
	}
	if cfg.Server.Addr != "0.0.0.0:7000" || cfg.Cache.RedisAddr != "redis:6379" || cfg.Cache.Dir != "/tmp/cm" {
		t.Errorf("overlay = %+v / %+v", cfg.Server, cfg.Cache)
	}
}

func TestEnvironmentOverlayInvalid(t *testing.T) {
	cfg := Default()
	env := map[string]string{"CURRICULUMMAP_SEED": "-1"}
	if err := cfg.loadEnv(func(k string) string { return env[k] }); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("loadEnv = %v, want INVALID_CONFIG", err)
	}
}

func TestSetSize(t *testing.T) {
	cfg := Default()
	for i, tier := range curriculum.Tiers() {
		cfg.Generate.SetSize(tier, 10+i)
	}
	want := [curriculum.NumTiers]int{10, 11, 12, 13, 14}
	if got := cfg.GenerateOptions().Sizes; got != want {
		t.Errorf("Sizes = %v, want %v", got, want)
	}
}
