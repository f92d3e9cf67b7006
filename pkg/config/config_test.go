package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mindtree.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[layout]
horizontal_spacing = 240

[text]
wrap_budget = 8

[animation]
duration_ms = 500
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Layout.HorizontalSpacing != 240 {
		t.Errorf("horizontal_spacing = %v, want 240", cfg.Layout.HorizontalSpacing)
	}
	// Untouched keys keep their defaults.
	if want := Default().Layout.VerticalSpacing; cfg.Layout.VerticalSpacing != want {
		t.Errorf("vertical_spacing = %v, want default %v", cfg.Layout.VerticalSpacing, want)
	}

	eng := cfg.Engine()
	if eng.WrapBudget != 8 {
		t.Errorf("engine wrap budget = %d, want 8", eng.WrapBudget)
	}
	if eng.AnimationDuration != 500*time.Millisecond {
		t.Errorf("animation duration = %v, want 500ms", eng.AnimationDuration)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[layout]
horizonal_spacing = 240
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for misspelled key")
	}
}

func TestLoadValidates(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative spacing", "[layout]\nhorizontal_spacing = -1\n"},
		{"zero wrap budget", "[text]\nwrap_budget = 0\n"},
		{"inverted scale bounds", "[viewport]\nmin_scale = 2.0\nmax_scale = 0.5\n"},
		{"initial scale above max", "[viewport]\ninitial_scale = 5.0\n"},
		{"initial scale below min", "[viewport]\nmin_scale = 0.5\ninitial_scale = 0.2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadInitialScale(t *testing.T) {
	path := writeConfig(t, `
[viewport]
initial_scale = 0.4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Viewport.InitialScale != 0.4 {
		t.Errorf("initial_scale = %v, want 0.4", cfg.Viewport.InitialScale)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().validate(); err != nil {
		t.Errorf("Default() should validate, got %v", err)
	}
}
