package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBlendConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "blend.yaml")

	configContent := `
intermediate: 3
overrides:
  "02.webp": 7
easing: in-out-sine
keyframes:
  - path: frames/01.webp
  - path: frames/02.webp
  - path: deck.pdf
    page: 2
    id: cover
output:
  dir: frames/weekly
  prefix: week-
  ext: webp
  quality: 90
`
	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	var cfg BlendConfig
	if err := Load(configFile, &cfg); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Verify(); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if *cfg.Intermediate != 3 {
		t.Errorf("Expected intermediate 3, got %d", *cfg.Intermediate)
	}
	if cfg.Overrides["02.webp"] != 7 {
		t.Errorf("Expected override 7 for 02.webp, got %d", cfg.Overrides["02.webp"])
	}
	if len(cfg.Keyframes) != 3 {
		t.Fatalf("Expected 3 keyframes, got %d", len(cfg.Keyframes))
	}
	if cfg.Keyframes[2].Page != 2 || cfg.Keyframes[2].ID != "cover" {
		t.Errorf("Unexpected PDF keyframe: %+v", cfg.Keyframes[2])
	}
	if cfg.Output.Ext != ".webp" {
		t.Errorf("Expected ext normalised to .webp, got %q", cfg.Output.Ext)
	}
	if cfg.Output.Padding != DefaultPadding {
		t.Errorf("Expected default padding %d, got %d", DefaultPadding, cfg.Output.Padding)
	}
	if cfg.ColorSpace != "srgb" {
		t.Errorf("Expected default color space srgb, got %q", cfg.ColorSpace)
	}
	if cfg.Easing != "in-out-sine" {
		t.Errorf("Expected easing in-out-sine, got %q", cfg.Easing)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FRAMEBLEND_OUTPUT_DIR", "/tmp/frames")
	t.Setenv("FRAMEBLEND_INTERMEDIATE", "0")
	t.Setenv("FRAMEBLEND_COLOR_SPACE", "linear")
	t.Setenv("FRAMEBLEND_LOG_LEVEL", "debug")

	var cfg BlendConfig
	if err := Load("", &cfg); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Verify(); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if cfg.Output.Dir != "/tmp/frames" {
		t.Errorf("Expected output dir from env, got %q", cfg.Output.Dir)
	}
	if cfg.Intermediate == nil || *cfg.Intermediate != 0 {
		t.Errorf("Expected explicit zero intermediate from env, got %v", cfg.Intermediate)
	}
	if cfg.ColorSpace != "linear" {
		t.Errorf("Expected color space linear, got %q", cfg.ColorSpace)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %q", cfg.Log.Level)
	}
}

func TestBlendConfigVerify(t *testing.T) {
	negative := -1

	tests := []struct {
		name    string
		cfg     BlendConfig
		wantErr bool
	}{
		{"defaults", BlendConfig{Output: OutputConfig{Dir: "out"}}, false},
		{"missing output dir", BlendConfig{}, true},
		{"negative intermediate", BlendConfig{Intermediate: &negative, Output: OutputConfig{Dir: "out"}}, true},
		{"negative override", BlendConfig{Overrides: map[string]int{"a.png": -2}, Output: OutputConfig{Dir: "out"}}, true},
		{"keyframe without path", BlendConfig{Keyframes: []KeyframeConfig{{ID: "x"}}, Output: OutputConfig{Dir: "out"}}, true},
		{"quality out of range", BlendConfig{Output: OutputConfig{Dir: "out", Quality: 101}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Verify()
			if tt.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestOptimizeConfigDefaults(t *testing.T) {
	cfg := OptimizeConfig{Dir: "assets/images/frames/weekly/"}
	if err := cfg.Verify(); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if cfg.BackupDir != "assets/images/frames/weekly_backup" {
		t.Errorf("Unexpected backup dir: %s", cfg.BackupDir)
	}
	if cfg.Ext != ".webp" || cfg.Quality != DefaultQuality || !*cfg.KeepBackups {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestConvertConfigDefaults(t *testing.T) {
	cfg := ConvertConfig{Dir: "in", Exts: []string{"PNG", ".jpg"}}
	if err := cfg.Verify(); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if cfg.Exts[0] != ".png" || cfg.Exts[1] != ".jpg" {
		t.Errorf("Unexpected exts: %v", cfg.Exts)
	}
	if !*cfg.Lossless {
		t.Error("Expected lossless by default")
	}
	if cfg.Workers <= 0 {
		t.Errorf("Expected positive workers, got %d", cfg.Workers)
	}
}
