// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package maptree_test

import (
	"testing"

	"github.com/playbymail/ottomap/internal/otbm/catalog"
	"github.com/playbymail/ottomap/internal/otbm/item"
	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
	"github.com/playbymail/ottomap/internal/otbm/maptree"
	"github.com/playbymail/ottomap/internal/otbm/node"
)

type fakeCatalog map[uint16]*catalog.ItemType

func (f fakeCatalog) ItemType(id uint16) *catalog.ItemType { return f[id] }

func roundTrip(t *testing.T, m *mapmodel.Map, opts maptree.Options) *maptree.Result {
	t.Helper()
	w := node.NewMemoryWriter()
	w.WriteMagic(node.NullMagic)
	maptree.Encode(w, m, opts, maptree.ZoneAccumulator{})
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	fr, err := node.Open(w.Bytes(), node.Magic)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	res, err := maptree.Decode(fr, opts)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return res
}

func TestEmptyMapRoundTrip(t *testing.T) {
	m := mapmodel.NewMap()
	m.Width, m.Height = 1, 1
	m.Version = mapmodel.MapVersion{OTBM: mapmodel.V4, Client: 1100}

	res := roundTrip(t, m, maptree.Options{})
	if res.Map.Width != 1 || res.Map.Height != 1 {
		t.Fatalf("dims = %d x %d, want 1 x 1", res.Map.Width, res.Map.Height)
	}
	if len(res.Map.Tiles) != 0 {
		t.Fatalf("len(Tiles) = %d, want 0", len(res.Map.Tiles))
	}
}

func TestSingleGroundTileCompact(t *testing.T) {
	m := mapmodel.NewMap()
	m.Width, m.Height = 256, 256
	m.Version = mapmodel.MapVersion{OTBM: mapmodel.V4, Client: 1100}
	pos := mapmodel.Position{X: 100, Y: 200, Z: 7}
	m.Tiles[pos] = &mapmodel.Tile{Position: pos, Ground: &item.Item{ID: 4526, Category: catalog.CategoryPlain}}

	res := roundTrip(t, m, maptree.Options{})
	tile, ok := res.Map.Tiles[pos]
	if !ok {
		t.Fatalf("tile at %+v missing after round-trip", pos)
	}
	if tile.Ground == nil || tile.Ground.ID != 4526 {
		t.Fatalf("ground = %+v, want id 4526", tile.Ground)
	}
	if len(tile.Items) != 0 {
		t.Fatalf("len(Items) = %d, want 0", len(tile.Items))
	}
}

func TestWaypointsOmittedBeforeV3(t *testing.T) {
	m := mapmodel.NewMap()
	m.Width, m.Height = 1, 1
	m.Version = mapmodel.MapVersion{OTBM: mapmodel.V2, Client: 760}
	m.Waypoints["start"] = &mapmodel.Waypoint{Name: "start", Pos: mapmodel.Position{X: 1, Y: 1, Z: 7}}

	res := roundTrip(t, m, maptree.Options{})
	if len(res.Map.Waypoints) != 0 {
		t.Fatalf("len(Waypoints) = %d, want 0 when saving below V3", len(res.Map.Waypoints))
	}
}

func TestWaypointsRoundTripAtV3(t *testing.T) {
	m := mapmodel.NewMap()
	m.Width, m.Height = 1, 1
	m.Version = mapmodel.MapVersion{OTBM: mapmodel.V3, Client: 854}
	m.Waypoints["start"] = &mapmodel.Waypoint{Name: "start", Pos: mapmodel.Position{X: 1, Y: 1, Z: 7}}

	res := roundTrip(t, m, maptree.Options{})
	wp, ok := res.Map.Waypoints["start"]
	if !ok {
		t.Fatal("waypoint missing after round-trip at V3")
	}
	if wp.Pos != (mapmodel.Position{X: 1, Y: 1, Z: 7}) {
		t.Fatalf("waypoint pos = %+v", wp.Pos)
	}
}

func TestUnsupportedOTBMVersionFailsWithoutPrompt(t *testing.T) {
	m := mapmodel.NewMap()
	m.Width, m.Height = 1, 1
	m.Version = mapmodel.MapVersion{OTBM: mapmodel.OTBMVersion(9), Client: 1100}

	w := node.NewMemoryWriter()
	w.WriteMagic(node.NullMagic)
	maptree.Encode(w, m, maptree.Options{}, maptree.ZoneAccumulator{})
	_ = w.Close()
	fr, err := node.Open(w.Bytes(), node.Magic)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := maptree.Decode(fr, maptree.Options{}); err == nil {
		t.Fatal("expected an unsupported-version error when the prompt callback is absent")
	}
}

func TestTownsRoundTrip(t *testing.T) {
	m := mapmodel.NewMap()
	m.Width, m.Height = 1, 1
	m.Version = mapmodel.MapVersion{OTBM: mapmodel.V4, Client: 1100}
	m.Towns[1] = &mapmodel.Town{ID: 1, Name: "Thais", TemplePos: mapmodel.Position{X: 10, Y: 10, Z: 7}}

	res := roundTrip(t, m, maptree.Options{})
	town, ok := res.Map.Towns[1]
	if !ok || town.Name != "Thais" {
		t.Fatalf("town = %+v", town)
	}
}
