// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package houses_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playbymail/ottomap/internal/otbm/houses"
	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
)

func TestLoadSkipsUnknownHouseAndRemovesMissingTown(t *testing.T) {
	m := mapmodel.NewMap()
	m.Houses[1] = &mapmodel.House{ID: 1, Tiles: map[mapmodel.Position]bool{{X: 1, Y: 1, Z: 7}: true}}
	m.Houses[2] = &mapmodel.House{ID: 2, Tiles: map[mapmodel.Position]bool{{X: 2, Y: 2, Z: 7}: true}}

	dir := t.TempDir()
	path := filepath.Join(dir, "map-houses.xml")
	doc := `<?xml version="1.0"?>
<houses>
  <house name="Depot" houseid="1" entryx="5" entryy="5" entryz="7" rent="100" townid="9"/>
  <house name="Ghost" houseid="99" entryx="1" entryy="1" entryz="7" rent="1" townid="9"/>
  <house name="NoTown" houseid="2" entryx="2" entryy="2" entryz="7" rent="1"/>
</houses>`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if warning, err := houses.Load(path, m); err != nil {
		t.Fatalf("load: %v", err)
	} else if warning != "" {
		t.Fatalf("unexpected warning: %s", warning)
	}

	if _, ok := m.Houses[99]; ok {
		t.Fatal("house 99 should never have been registered (not referenced by a HOUSETILE)")
	}
	if _, ok := m.Houses[2]; ok {
		t.Fatal("house 2 should have been removed for missing townid")
	}
	h, ok := m.Houses[1]
	if !ok {
		t.Fatal("house 1 missing after load")
	}
	if h.TownID != 9 || h.Exit != (mapmodel.Position{X: 5, Y: 5, Z: 7}) {
		t.Fatalf("house 1 = %+v", h)
	}
}

func TestLoadMissingFileWarnsOnly(t *testing.T) {
	m := mapmodel.NewMap()
	warning, err := houses.Load(filepath.Join(t.TempDir(), "nope.xml"), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warning == "" {
		t.Fatal("expected a warning for a missing sidecar")
	}
}
