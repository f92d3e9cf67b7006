// Package config loads mindtree's tunables from a TOML file.
//
// Every constant the diagram engine and its sinks expose (grid spacing, wrap
// budget, box minimums, animation duration, zoom bounds) can be overridden
// from a config file; anything missing falls back to the defaults, so an
// empty file is valid.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mindtree-io/mindtree/pkg/diagram"
	"github.com/mindtree-io/mindtree/pkg/diagram/viewport"
)

// Config is the on-disk configuration shape.
type Config struct {
	Layout    Layout    `toml:"layout"`
	Text      Text      `toml:"text"`
	Box       Box       `toml:"box"`
	Animation Animation `toml:"animation"`
	Viewport  Viewport  `toml:"viewport"`
}

// Layout holds the fixed grid spacings.
type Layout struct {
	HorizontalSpacing float64 `toml:"horizontal_spacing"`
	VerticalSpacing   float64 `toml:"vertical_spacing"`
}

// Text holds label wrapping and font tunables.
type Text struct {
	WrapBudget int     `toml:"wrap_budget"`
	FontSize   float64 `toml:"font_size"`
	LineHeight float64 `toml:"line_height"`
}

// Box holds node rectangle sizing tunables.
type Box struct {
	MinWidth  float64 `toml:"min_width"`
	MinHeight float64 `toml:"min_height"`
	PaddingX  float64 `toml:"padding_x"`
	PaddingY  float64 `toml:"padding_y"`
}

// Animation holds transition tunables.
type Animation struct {
	DurationMS int `toml:"duration_ms"`
}

// Viewport holds zoom bounds and the initial scale.
type Viewport struct {
	MinScale     float64 `toml:"min_scale"`
	MaxScale     float64 `toml:"max_scale"`
	InitialScale float64 `toml:"initial_scale"`
}

// Default returns a Config mirroring the engine defaults.
func Default() Config {
	d := diagram.DefaultConfig()
	return Config{
		Layout: Layout{
			HorizontalSpacing: d.HorizontalSpacing,
			VerticalSpacing:   d.VerticalSpacing,
		},
		Text: Text{
			WrapBudget: d.WrapBudget,
			FontSize:   d.Box.FontSize,
			LineHeight: d.Box.LineHeight,
		},
		Box: Box{
			MinWidth:  d.Box.MinWidth,
			MinHeight: d.Box.MinHeight,
			PaddingX:  d.Box.PaddingX,
			PaddingY:  d.Box.PaddingY,
		},
		Animation: Animation{
			DurationMS: int(d.AnimationDuration / time.Millisecond),
		},
		Viewport: Viewport{
			MinScale:     viewport.DefaultMinScale,
			MaxScale:     viewport.DefaultMaxScale,
			InitialScale: viewport.DefaultInitialScale,
		},
	}
}

// Load reads a TOML config file and merges it over the defaults. Unknown
// keys are rejected so typos surface instead of silently falling back.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Layout.HorizontalSpacing <= 0:
		return fmt.Errorf("layout.horizontal_spacing must be positive")
	case c.Layout.VerticalSpacing <= 0:
		return fmt.Errorf("layout.vertical_spacing must be positive")
	case c.Text.WrapBudget < 1:
		return fmt.Errorf("text.wrap_budget must be at least 1")
	case c.Animation.DurationMS < 0:
		return fmt.Errorf("animation.duration_ms must not be negative")
	case c.Viewport.MinScale <= 0 || c.Viewport.MaxScale <= 0:
		return fmt.Errorf("viewport scale bounds must be positive")
	case c.Viewport.MinScale > c.Viewport.MaxScale:
		return fmt.Errorf("viewport.min_scale must not exceed viewport.max_scale")
	case c.Viewport.InitialScale < c.Viewport.MinScale || c.Viewport.InitialScale > c.Viewport.MaxScale:
		return fmt.Errorf("viewport.initial_scale must lie within [min_scale, max_scale]")
	}
	return nil
}

// Engine converts the file shape into the diagram engine's Config.
func (c Config) Engine() diagram.Config {
	d := diagram.DefaultConfig()
	d.HorizontalSpacing = c.Layout.HorizontalSpacing
	d.VerticalSpacing = c.Layout.VerticalSpacing
	d.WrapBudget = c.Text.WrapBudget
	d.Box.MinWidth = c.Box.MinWidth
	d.Box.MinHeight = c.Box.MinHeight
	d.Box.PaddingX = c.Box.PaddingX
	d.Box.PaddingY = c.Box.PaddingY
	d.Box.FontSize = c.Text.FontSize
	d.Box.LineHeight = c.Text.LineHeight
	d.AnimationDuration = time.Duration(c.Animation.DurationMS) * time.Millisecond
	return d
}
