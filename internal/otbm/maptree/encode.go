// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package maptree

import (
	"sort"

	"github.com/playbymail/ottomap/internal/otbm/attrs"
	"github.com/playbymail/ottomap/internal/otbm/item"
	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
	"github.com/playbymail/ottomap/internal/otbm/node"
)

// ZoneAccumulator collects zoneId -> positions as the save traversal
// visits zone-brushed tiles. Spec.md §9 calls out the source's
// module-scope zoneMap as a redesign target: here it is a value the
// caller creates, threads through Encode, and hands to the zones
// sidecar itself — never a package global.
type ZoneAccumulator map[uint16][]mapmodel.Position

func (z ZoneAccumulator) add(zoneID uint16, pos mapmodel.Position) {
	z[zoneID] = append(z[zoneID], pos)
}

// Encode writes m as a full OTBM node stream to w, in ascending
// (z, y, x) order, opening a new TILE_AREA whenever the 256x256x1 cell
// changes (spec.md §4.4 "Save-side traversal"). Zone-brushed tiles are
// folded into zones as they're visited.
func Encode(w *node.Writer, m *mapmodel.Map, opts Options, zones ZoneAccumulator) {
	w.AddNode(uint8(attrs.NodeRoot))
	w.AddU32(uint32(m.Version.OTBM))
	w.AddU16(m.Width)
	w.AddU16(m.Height)
	w.AddU32(m.Version.Major)
	w.AddU32(m.Version.Client)

	w.AddNode(uint8(attrs.NodeMapData))
	if m.Description != "" {
		w.AddU8(uint8(attrs.MapDescription))
		w.AddString(m.Description)
	}
	if m.SpawnFile != "" {
		w.AddU8(uint8(attrs.MapExtSpawnFile))
		w.AddString(m.SpawnFile)
	}
	if m.HouseFile != "" {
		w.AddU8(uint8(attrs.MapExtHouseFile))
		w.AddString(m.HouseFile)
	}

	encodeTileAreas(w, m, opts, zones)
	encodeTowns(w, m)
	if m.Version.OTBM >= mapmodel.V3 {
		encodeWaypoints(w, m)
	}

	w.EndNode() // MAP_DATA
	w.EndNode() // ROOT
}

func encodeTileAreas(w *node.Writer, m *mapmodel.Map, opts Options, zones ZoneAccumulator) {
	positions := make([]mapmodel.Position, 0, len(m.Tiles))
	for pos := range m.Tiles {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		a, b := positions[i], positions[j]
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	type areaKey struct {
		x, y uint16
		z    uint8
	}
	var curArea areaKey
	open := false

	for i, pos := range positions {
		tile := m.Tiles[pos]
		key := areaKey{x: pos.X & 0xFF00, y: pos.Y & 0xFF00, z: pos.Z}
		if !open || key != curArea {
			if open {
				w.EndNode()
			}
			w.AddNode(uint8(attrs.NodeTileArea))
			w.AddU16(key.x)
			w.AddU16(key.y)
			w.AddU8(key.z)
			curArea = key
			open = true
		}
		encodeTile(w, tile, m.Version, opts, zones)

		if (i+1)%8192 == 0 {
			opts.progress((i+1)*100/len(positions), "encode")
		}
	}
	if open {
		w.EndNode()
	}
}

func encodeTile(w *node.Writer, tile *mapmodel.Tile, mv mapmodel.MapVersion, opts Options, zones ZoneAccumulator) {
	typ := attrs.NodeTile
	if tile.IsHouseTile() {
		typ = attrs.NodeHouseTile
	}
	w.AddNode(uint8(typ))
	w.AddU8(uint8(tile.Position.X & 0xFF))
	w.AddU8(uint8(tile.Position.Y & 0xFF))
	if tile.IsHouseTile() {
		w.AddU32(tile.HouseID)
	}

	if tile.MapFlags != 0 {
		w.AddU8(uint8(attrs.TileFlags))
		w.AddU32(tile.MapFlags)
		if tile.MapFlags&mapmodel.TileFlagZoneBrush != 0 {
			for zoneID := range tile.ZoneIDs {
				zones.add(zoneID, tile.Position)
			}
		}
	}

	if g := tile.Ground; g != nil && !groundSkipped(g, tile, opts) {
		if item.IsComplex(g) {
			item.Encode(w, g, mv, opts.ItemCatalog)
		} else {
			w.AddU8(uint8(attrs.TileItem))
			w.AddU16(g.ID)
		}
	}

	for _, it := range tile.Items {
		item.Encode(w, it, mv, opts.ItemCatalog)
	}

	w.EndNode()
}

// groundSkipped reports whether a tile's ground item should be
// omitted on save: a meta-item carries no rendering meaning, and a
// ground with a border-equivalent already present among the tile's
// stacked items would just duplicate it (spec.md §4.4 step 2).
func groundSkipped(g *item.Item, tile *mapmodel.Tile, opts Options) bool {
	it := opts.itemType(g.ID)
	if it == nil {
		return false
	}
	if it.IsMetaItem {
		return true
	}
	if it.HasBorderEquivalent {
		for _, other := range tile.Items {
			if other.ID == it.GroundEquivalentID {
				return true
			}
		}
	}
	return false
}

func encodeTowns(w *node.Writer, m *mapmodel.Map) {
	if len(m.Towns) == 0 {
		return
	}
	ids := make([]uint32, 0, len(m.Towns))
	for id := range m.Towns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	w.AddNode(uint8(attrs.NodeTowns))
	for _, id := range ids {
		t := m.Towns[id]
		w.AddNode(uint8(attrs.NodeTown))
		w.AddU32(t.ID)
		w.AddString(t.Name)
		w.AddU16(t.TemplePos.X)
		w.AddU16(t.TemplePos.Y)
		w.AddU8(t.TemplePos.Z)
		w.EndNode()
	}
	w.EndNode()
}

func encodeWaypoints(w *node.Writer, m *mapmodel.Map) {
	if len(m.Waypoints) == 0 {
		return
	}
	names := make([]string, 0, len(m.Waypoints))
	for name := range m.Waypoints {
		names = append(names, name)
	}
	sort.Strings(names)

	w.AddNode(uint8(attrs.NodeWaypoints))
	for _, name := range names {
		wp := m.Waypoints[name]
		w.AddNode(uint8(attrs.NodeWaypoint))
		w.AddString(wp.Name)
		w.AddU16(wp.Pos.X)
		w.AddU16(wp.Pos.Y)
		w.AddU8(wp.Pos.Z)
		w.EndNode()
	}
	w.EndNode()
}
