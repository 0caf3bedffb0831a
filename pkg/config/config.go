// Package config loads curriculummap settings.
//
// Settings are layered, lowest priority first:
//
//  1. Defaults in code ([Default]).
//  2. A TOML (.toml) or YAML (.yaml, .yml) file passed to [Load].
//  3. Environment variables prefixed with CURRICULUMMAP_.
//
// The merged result is checked with struct tags (go-playground/validator)
// and with the engine's own option validation. Command-line flags are
// applied on top by the CLI.
package config

import (
	"time"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
)

// Config is the complete application configuration.
type Config struct {
	Generate GenerateConfig          `toml:"generate" yaml:"generate"`
	Layout   LayoutConfig            `toml:"layout" yaml:"layout"`
	Trace    curriculum.TraceOptions `toml:"trace" yaml:"trace"`
	Render   RenderConfig            `toml:"render" yaml:"render"`
	Server   ServerConfig            `toml:"server" yaml:"server"`
	Cache    CacheConfig             `toml:"cache" yaml:"cache"`
}

// GenerateConfig shapes the generated dataset.
type GenerateConfig struct {
	Seed           uint64           `toml:"seed" yaml:"seed"`
	Topics         int              `toml:"topics" yaml:"topics" validate:"min=1,max=10000"`
	Classes        int              `toml:"classes" yaml:"classes" validate:"min=1,max=10000"`
	Objectives     int              `toml:"objectives" yaml:"objectives" validate:"min=1,max=10000"`
	Lectures       int              `toml:"lectures" yaml:"lectures" validate:"min=1,max=10000"`
	Assessments    int              `toml:"assessments" yaml:"assessments" validate:"min=1,max=10000"`
	ClassTopics    curriculum.Range `toml:"class_topics" yaml:"class_topics"`
	ObjectiveLinks curriculum.Range `toml:"objective_links" yaml:"objective_links"`
}

// LayoutConfig holds the viewport and spacing used by layout and render.
type LayoutConfig struct {
	Width        float64 `toml:"width" yaml:"width" validate:"gte=0,lte=100000"`
	Height       float64 `toml:"height" yaml:"height" validate:"gte=0,lte=100000"`
	MarginLeft   float64 `toml:"margin_left" yaml:"margin_left" validate:"gte=0"`
	MarginRight  float64 `toml:"margin_right" yaml:"margin_right" validate:"gte=0"`
	MarginTop    float64 `toml:"margin_top" yaml:"margin_top" validate:"gte=0"`
	LayerSpacing float64 `toml:"layer_spacing" yaml:"layer_spacing" validate:"gte=0"`
}

// RenderConfig holds output defaults.
type RenderConfig struct {
	Format      string  `toml:"format" yaml:"format" validate:"oneof=svg dot png pdf json"`
	Style       string  `toml:"style" yaml:"style" validate:"oneof=map nodelink"`
	Interactive bool    `toml:"interactive" yaml:"interactive"`
	Scale       float64 `toml:"scale" yaml:"scale" validate:"gt=0,lte=10"`
	Title       string  `toml:"title" yaml:"title" validate:"max=200"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `toml:"addr" yaml:"addr" validate:"required,hostname_port"`
	ReadTimeout     time.Duration `toml:"read_timeout" yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `toml:"write_timeout" yaml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
	Metrics         bool          `toml:"metrics" yaml:"metrics"`
}

// CacheConfig selects and configures the artifact cache.
// RedisAddr takes precedence over Dir when both are set.
type CacheConfig struct {
	Disabled      bool          `toml:"disabled" yaml:"disabled"`
	Dir           string        `toml:"dir" yaml:"dir"`
	RedisAddr     string        `toml:"redis_addr" yaml:"redis_addr" validate:"omitempty,hostname_port"`
	RedisPassword string        `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int           `toml:"redis_db" yaml:"redis_db" validate:"gte=0,lte=15"`
	Prefix        string        `toml:"prefix" yaml:"prefix"`
	TTL           time.Duration `toml:"ttl" yaml:"ttl" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	gen := curriculum.DefaultGenerateOptions()
	lay := curriculum.DefaultLayoutOptions()
	return &Config{
		Generate: GenerateConfig{
			Seed:           gen.Seed,
			Topics:         gen.Sizes[curriculum.TierTopic],
			Classes:        gen.Sizes[curriculum.TierClass],
			Objectives:     gen.Sizes[curriculum.TierObjective],
			Lectures:       gen.Sizes[curriculum.TierLecture],
			Assessments:    gen.Sizes[curriculum.TierAssessment],
			ClassTopics:    gen.ClassTopics,
			ObjectiveLinks: gen.ObjectiveLinks,
		},
		Layout: LayoutConfig{
			Width:        1200,
			Height:       800,
			MarginLeft:   lay.MarginLeft,
			MarginRight:  lay.MarginRight,
			MarginTop:    lay.MarginTop,
			LayerSpacing: lay.LayerSpacing,
		},
		Trace: curriculum.DefaultTraceOptions(),
		Render: RenderConfig{
			Format: "svg",
			Style:  "map",
			Scale:  2,
		},
		Server: ServerConfig{
			Addr:            "localhost:8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Metrics:         true,
		},
		Cache: CacheConfig{
			Prefix: "curriculummap:",
			TTL:    24 * time.Hour,
		},
	}
}

// GenerateOptions converts the generate section for [curriculum.Generate].
func (c *Config) GenerateOptions() curriculum.GenerateOptions {
	g := c.Generate
	return curriculum.GenerateOptions{
		Seed:           g.Seed,
		Sizes:          [curriculum.NumTiers]int{g.Topics, g.Classes, g.Objectives, g.Lectures, g.Assessments},
		ClassTopics:    g.ClassTopics,
		ObjectiveLinks: g.ObjectiveLinks,
	}
}

// SetSize sets the node count of tier t.
func (g *GenerateConfig) SetSize(t curriculum.Tier, n int) {
	switch t {
	case curriculum.TierTopic:
		g.Topics = n
	case curriculum.TierClass:
		g.Classes = n
	case curriculum.TierObjective:
		g.Objectives = n
	case curriculum.TierLecture:
		g.Lectures = n
	case curriculum.TierAssessment:
		g.Assessments = n
	}
}

// LayoutOptions converts the spacing part of the layout section.
func (c *Config) LayoutOptions() curriculum.LayoutOptions {
	return curriculum.LayoutOptions{
		MarginLeft:   c.Layout.MarginLeft,
		MarginRight:  c.Layout.MarginRight,
		MarginTop:    c.Layout.MarginTop,
		LayerSpacing: c.Layout.LayerSpacing,
	}
}

// Viewport returns the configured drawing area.
func (c *Config) Viewport() curriculum.Viewport {
	return curriculum.Viewport{Width: c.Layout.Width, Height: c.Layout.Height}
}

// TraceOptions returns the configured tracing rules.
func (c *Config) TraceOptions() curriculum.TraceOptions {
	return c.Trace
}
