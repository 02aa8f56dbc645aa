package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Game.TotalRounds != 5 {
		t.Errorf("TotalRounds = %d, want 5", cfg.Game.TotalRounds)
	}
	if cfg.Game.MinDelayMs != 1500 || cfg.Game.MaxDelayMs != 4500 {
		t.Errorf("delay bounds = [%d,%d], want [1500,4500]", cfg.Game.MinDelayMs, cfg.Game.MaxDelayMs)
	}
	if cfg.Visual.SmoothingTauMs != 180.0 {
		t.Errorf("SmoothingTauMs = %v, want 180", cfg.Visual.SmoothingTauMs)
	}
	if !cfg.Audio.Enabled {
		t.Error("audio should be enabled by default")
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(t.TempDir())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		return cfg
	}

	cfg := base()
	cfg.Game.TotalRounds = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for total_rounds = 0")
	}

	cfg = base()
	cfg.Game.MaxDelayMs = cfg.Game.MinDelayMs - 1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for max < min delay")
	}

	cfg = base()
	cfg.Visual.SmoothingTauMs = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero smoothing tau")
	}

	cfg = base()
	cfg.Audio.Volume = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for volume > 1")
	}
}
