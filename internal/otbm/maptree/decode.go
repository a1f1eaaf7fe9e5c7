// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package maptree

import (
	"github.com/playbymail/ottomap/cerrs"
	"github.com/playbymail/ottomap/internal/otbm/attrs"
	"github.com/playbymail/ottomap/internal/otbm/catalog"
	"github.com/playbymail/ottomap/internal/otbm/item"
	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
	"github.com/playbymail/ottomap/internal/otbm/node"
)

// Decode walks a fully parsed node tree and builds the logical Map
// (spec.md §4.4). It returns the partially built Map on a non-fatal
// failure path too, per §5's resource-ownership rule: callers discard
// it themselves on error.
func Decode(fr *node.FileReader, opts Options) (*Result, error) {
	res := &Result{}

	root := fr.RootNode()
	if root == nil {
		return res, cerrs.ErrNoRootNode
	}

	otbmVersion, ok := root.GetU32()
	if !ok {
		return res, cerrs.ErrMissingVersionField
	}
	width, ok1 := root.GetU16()
	height, ok2 := root.GetU16()
	itemsMajor, ok3 := root.GetU32()
	itemsMinor, ok4 := root.GetU32()
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return res, cerrs.ErrMissingVersionField
	}

	mv := mapmodel.MapVersion{OTBM: mapmodel.OTBMVersion(otbmVersion), Major: itemsMajor, Client: itemsMinor}
	if warning, err := gateVersion(mv, itemsMajor, opts); err != nil {
		return res, err
	} else if warning != "" {
		res.warnf("%s", warning)
	}

	m := mapmodel.NewMap()
	m.Width, m.Height, m.Version = width, height, mv
	res.Map = m

	mapData := root.Child()
	if mapData == nil || attrs.NodeType(mapData.Type()) != attrs.NodeMapData {
		return res, cerrs.ErrMissingMapData
	}

	if !decodeMapDataAttrs(mapData, m) {
		res.warnf("map-data attribute stream ended early or carried an unrecognized tag")
	}

	opts.progress(0, "decode")
	children := mapData.ChildNodes()
	for i, child := range children {
		switch attrs.NodeType(child.Type()) {
		case attrs.NodeTileArea:
			decodeTileArea(child, m, mv, opts, res)
		case attrs.NodeTowns:
			decodeTowns(child, m, res)
		case attrs.NodeWaypoints:
			decodeWaypoints(child, m, res)
		default:
			res.warnf("skipped unrecognized map-data child node type %d", child.Type())
		}
		opts.progress((i+1)*100/len(children), "decode")
	}
	opts.progress(100, "decode")

	return res, nil
}

// decodeMapDataAttrs consumes the MAP_DATA node's own TLV payload
// (DESCRIPTION, EXT_SPAWN_FILE, EXT_HOUSE_FILE) ahead of its children.
// Per spec.md §9, the source emits DESCRIPTION twice (an editor banner,
// then the real map description); this codec keeps the last value seen
// and does not round-trip the duplicate, a documented consolidation.
func decodeMapDataAttrs(c *node.Cursor, m *mapmodel.Map) bool {
	for !c.AtEnd() {
		tagByte, ok := c.GetU8()
		if !ok {
			return false
		}
		switch attrs.Tag(tagByte) {
		case attrs.MapDescription:
			s, ok := c.GetString()
			if !ok {
				return false
			}
			m.Description = s
		case attrs.MapExtSpawnFile:
			s, ok := c.GetString()
			if !ok {
				return false
			}
			m.SpawnFile = s
		case attrs.MapExtHouseFile:
			s, ok := c.GetString()
			if !ok {
				return false
			}
			m.HouseFile = s
		default:
			return false
		}
	}
	return true
}

func decodeTowns(c *node.Cursor, m *mapmodel.Map, res *Result) {
	for _, tc := range c.ChildNodes() {
		if attrs.NodeType(tc.Type()) != attrs.NodeTown {
			res.warnf("skipped non-town child under TOWNS")
			continue
		}
		id, ok1 := tc.GetU32()
		name, ok2 := tc.GetString()
		x, ok3 := tc.GetU16()
		y, ok4 := tc.GetU16()
		z, ok5 := tc.GetU8()
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
			res.warnf("town header truncated, town discarded")
			continue
		}
		if _, exists := m.Towns[id]; exists {
			res.warnf("duplicate town id %d skipped", id)
			continue
		}
		m.Towns[id] = &mapmodel.Town{ID: id, Name: name, TemplePos: mapmodel.Position{X: x, Y: y, Z: z}}
	}
}

func decodeWaypoints(c *node.Cursor, m *mapmodel.Map, res *Result) {
	for _, wc := range c.ChildNodes() {
		if attrs.NodeType(wc.Type()) != attrs.NodeWaypoint {
			res.warnf("skipped non-waypoint child under WAYPOINTS")
			continue
		}
		name, ok1 := wc.GetString()
		x, ok2 := wc.GetU16()
		y, ok3 := wc.GetU16()
		z, ok4 := wc.GetU8()
		if !ok1 || !ok2 || !ok3 || !ok4 {
			res.warnf("waypoint header truncated, waypoint discarded")
			continue
		}
		m.Waypoints[name] = &mapmodel.Waypoint{Name: name, Pos: mapmodel.Position{X: x, Y: y, Z: z}}
	}
}

func decodeTileArea(c *node.Cursor, m *mapmodel.Map, mv mapmodel.MapVersion, opts Options, res *Result) {
	baseX, ok1 := c.GetU16()
	baseY, ok2 := c.GetU16()
	baseZ, ok3 := c.GetU8()
	if !ok1 || !ok2 || !ok3 {
		res.warnf("tile area header truncated, area skipped")
		return
	}
	for _, tc := range c.ChildNodes() {
		typ := attrs.NodeType(tc.Type())
		if typ != attrs.NodeTile && typ != attrs.NodeHouseTile {
			res.warnf("skipped unrecognized tile-area child node type %d", tc.Type())
			continue
		}
		tile, ok := decodeTile(tc, typ, baseX, baseY, baseZ, mv, opts, res)
		if !ok {
			continue
		}
		if _, exists := m.Tiles[tile.Position]; exists {
			res.warnf("duplicate tile at %+v skipped", tile.Position)
			continue
		}
		m.Tiles[tile.Position] = tile
		if tile.IsHouseTile() {
			registerHouseTile(m, tile)
		}
	}
}

// registerHouseTile ensures the binary-created house referenced by
// tile.HouseID exists on the map and records this tile as one of its
// own (spec.md §4.5: houses are created by the binary, the XML
// sidecar only annotates them).
func registerHouseTile(m *mapmodel.Map, tile *mapmodel.Tile) {
	h, ok := m.Houses[tile.HouseID]
	if !ok {
		h = &mapmodel.House{ID: tile.HouseID, Tiles: map[mapmodel.Position]bool{}}
		m.Houses[tile.HouseID] = h
	}
	h.Tiles[tile.Position] = true
}

func decodeTile(c *node.Cursor, typ attrs.NodeType, baseX, baseY uint16, baseZ uint8, mv mapmodel.MapVersion, opts Options, res *Result) (*mapmodel.Tile, bool) {
	xOff, ok1 := c.GetU8()
	yOff, ok2 := c.GetU8()
	if !ok1 || !ok2 {
		res.warnf("tile header truncated, tile skipped")
		return nil, false
	}
	pos := mapmodel.Position{X: baseX | uint16(xOff), Y: baseY | uint16(yOff), Z: baseZ}
	tile := &mapmodel.Tile{Position: pos}

	if typ == attrs.NodeHouseTile {
		houseID, ok := c.GetU32()
		if !ok {
			res.warnf("house tile at %+v truncated, skipped", pos)
			return nil, false
		}
		if houseID == 0 {
			res.warnf("house tile at %+v carried house id 0, skipped", pos)
			return nil, false
		}
		tile.HouseID = houseID
	}

	for !c.AtEnd() {
		tagByte, ok := c.GetU8()
		if !ok {
			res.warnf("tile attribute stream at %+v truncated", pos)
			return tile, true
		}
		switch attrs.Tag(tagByte) {
		case attrs.TileFlags:
			flags, ok := c.GetU32()
			if !ok {
				res.warnf("tile flags at %+v truncated", pos)
				return tile, true
			}
			tile.MapFlags = flags
		case attrs.TileItem:
			id, ok := c.GetU16()
			if !ok {
				res.warnf("inline tile item at %+v truncated", pos)
				return tile, true
			}
			tile.Ground = &item.Item{ID: id, Category: classifyCategory(opts, id)}
		default:
			res.warnf("tile at %+v carried an unrecognized attribute tag 0x%02x, rest of payload skipped", pos, tagByte)
			return tile, true
		}
	}

	for _, child := range c.ChildNodes() {
		if attrs.NodeType(child.Type()) != attrs.NodeItem {
			res.warnf("skipped non-item child on tile at %+v", pos)
			continue
		}
		it, ok := item.Decode(child, mv, opts.ItemCatalog)
		if !ok {
			res.warnf("discarded malformed item on tile at %+v", pos)
			continue
		}
		if tile.Ground == nil {
			tile.Ground = it
		} else {
			tile.Items = append(tile.Items, it)
		}
	}

	return tile, true
}

func classifyCategory(opts Options, id uint16) catalog.ItemCategory {
	it := opts.itemType(id)
	if it == nil {
		return catalog.CategoryPlain
	}
	return it.Category
}
