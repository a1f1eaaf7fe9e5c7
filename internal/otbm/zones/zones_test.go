// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package zones_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
	"github.com/playbymail/ottomap/internal/otbm/zones"
)

func TestDirNaming(t *testing.T) {
	got := zones.Dir("/maps/world.otbm")
	want := "/maps/world-zones"
	if got != want {
		t.Fatalf("Dir = %s, want %s", got, want)
	}
}

func TestSaveSyncsStaleFiles(t *testing.T) {
	dir := t.TempDir()
	// a stale zone file and an unrelated file
	if err := os.WriteFile(filepath.Join(dir, "7.toml"), []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep me"), 0644); err != nil {
		t.Fatal(err)
	}

	zoneMap := map[uint16][]mapmodel.Position{
		3: {{X: 1, Y: 1, Z: 7}, {X: 2, Y: 2, Z: 7}},
	}
	if err := zones.Save(dir, zoneMap); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "7.toml")); !os.IsNotExist(err) {
		t.Fatal("stale 7.toml should have been purged")
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Fatal("notes.txt should have been left untouched")
	}
	if _, err := os.Stat(filepath.Join(dir, "3.toml")); err != nil {
		t.Fatal("3.toml should have been written")
	}
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	zoneMap := map[uint16][]mapmodel.Position{
		1: {{X: 10, Y: 10, Z: 7}},
		2: {{X: 20, Y: 20, Z: 7}, {X: 21, Y: 20, Z: 7}},
	}
	if err := zones.Save(dir, zoneMap); err != nil {
		t.Fatalf("save: %v", err)
	}

	m := mapmodel.NewMap()
	for _, positions := range zoneMap {
		for _, p := range positions {
			m.Tiles[p] = &mapmodel.Tile{Position: p}
		}
	}
	if warnings, err := zones.Load(dir, m); err != nil {
		t.Fatalf("load: %v", err)
	} else if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	if !m.Tiles[mapmodel.Position{X: 10, Y: 10, Z: 7}].ZoneIDs[1] {
		t.Fatal("tile (10,10,7) should carry zone 1")
	}
	if !m.Tiles[mapmodel.Position{X: 21, Y: 20, Z: 7}].ZoneIDs[2] {
		t.Fatal("tile (21,20,7) should carry zone 2")
	}
}
