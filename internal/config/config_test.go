// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/playbymail/ottomap/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("non-existent file", func(t *testing.T) {
		cfg, err := config.Load("non-existent-file.json", false)
		if err != nil {
			t.Errorf("expected no error for non-existent file, got %v", err)
		}
		if cfg == nil {
			t.Fatalf("expected non-nil config")
		}
		if cfg.OTBM.MaxSpawnRadius != 30 {
			t.Errorf("expected default MaxSpawnRadius 30, got %d", cfg.OTBM.MaxSpawnRadius)
		}
	})

	t.Run("directory error", func(t *testing.T) {
		tmpDir := t.TempDir()
		_, err := config.Load(tmpDir, false)
		if err == nil {
			t.Errorf("expected error for directory, got nil")
		}
	})

	t.Run("empty config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.json")

		if err := os.WriteFile(configFile, []byte("{}"), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		cfg, err := config.Load(configFile, false)
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if cfg.AllowConfig {
			t.Errorf("expected AllowConfig false for an empty file")
		}
		if cfg.OTBM.SaveWithOTBMagic != true {
			t.Errorf("expected SaveWithOTBMagic to keep its default (true)")
		}
	})

	t.Run("partial config overrides only named fields", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.json")

		testConfig := config.Config{
			AllowConfig: true,
			OTBM: config.OTBM_t{
				MaxSpawnRadius: 99,
			},
		}
		data, err := json.Marshal(testConfig)
		if err != nil {
			t.Fatalf("failed to marshal test config: %v", err)
		}
		if err := os.WriteFile(configFile, data, 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		cfg, err := config.Load(configFile, false)
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if !cfg.AllowConfig {
			t.Errorf("expected AllowConfig true")
		}
		if cfg.OTBM.MaxSpawnRadius != 99 {
			t.Errorf("expected MaxSpawnRadius 99, got %d", cfg.OTBM.MaxSpawnRadius)
		}
		// fields the file never mentioned should keep their defaults
		if cfg.OTBM.SaveWithOTBMagic != true {
			t.Errorf("expected SaveWithOTBMagic to remain at its default (true)")
		}
		if cfg.OTBM.DefaultSpawnTime != 60 {
			t.Errorf("expected DefaultSpawnTime to remain at its default (60), got %d", cfg.OTBM.DefaultSpawnTime)
		}
	})

	t.Run("invalid JSON falls back to defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.json")

		if err := os.WriteFile(configFile, []byte("not json"), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		cfg, err := config.Load(configFile, true)
		if err != nil {
			t.Errorf("expected no error for invalid JSON, got %v", err)
		}
		if cfg.AllowConfig {
			t.Errorf("expected AllowConfig false for invalid JSON")
		}
	})
}
