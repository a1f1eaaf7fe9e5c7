// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package mapmodel defines the in-memory logical map tree that the
// OTBM codec decodes into and encodes from: positions, tiles, items,
// houses, towns, waypoints, and spawns. The codec allocates these
// types on load and transfers ownership to the Map; it neither
// retains nor aliases them after returning.
package mapmodel

// Position uniquely identifies a tile cell.
type Position struct {
	X uint16
	Y uint16
	Z uint8
}

// OTBMVersion enumerates the container format versions the codec
// understands.
type OTBMVersion uint32

const (
	V1 OTBMVersion = 1
	V2 OTBMVersion = 2
	V3 OTBMVersion = 3
	V4 OTBMVersion = 4
)

// MapVersion is pinned at load and gates every version-conditional
// branch in the codec.
type MapVersion struct {
	OTBM   OTBMVersion
	Major  uint32 // items major version
	Client uint32 // items minor version, a.k.a. client version
}

// Direction enumerates a spawned creature's facing.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
)

// Map is the root of the logical tree the codec produces and
// consumes.
type Map struct {
	Width       uint16
	Height      uint16
	Description string
	SpawnFile   string // filename, not a path
	HouseFile   string // filename, not a path
	Version     MapVersion

	Tiles     map[Position]*Tile
	Houses    map[uint32]*House
	Towns     map[uint32]*Town
	Waypoints map[string]*Waypoint
	Spawns    map[Position]*Spawn
}

// NewMap returns an empty Map ready for the decoder to populate.
func NewMap() *Map {
	return &Map{
		Tiles:     map[Position]*Tile{},
		Houses:    map[uint32]*House{},
		Towns:     map[uint32]*Town{},
		Waypoints: map[string]*Waypoint{},
		Spawns:    map[Position]*Spawn{},
	}
}

// Tile is a single map cell. A non-zero HouseID classifies the tile
// as a HOUSETILE; the zero value classifies it as a plain TILE.
type Tile struct {
	Position Position
	Ground   *Item
	Items    []*Item // ordered; excludes Ground
	MapFlags uint32
	HouseID  uint32
	Spawn    *Spawn
	Creature *Creature
	ZoneIDs  map[uint16]bool
}

// IsHouseTile reports whether the tile is bound to a house.
func (t *Tile) IsHouseTile() bool { return t.HouseID != 0 }

// TileFlag bits recognized within Tile.MapFlags. Only the zone-brush
// bit is interpreted by the codec itself (§4.4, §4.7); the rest are
// opaque editor state round-tripped byte for byte.
const (
	TileFlagProtectionZone uint32 = 1 << 0
	TileFlagNoPVP          uint32 = 1 << 2
	TileFlagNoLogout       uint32 = 1 << 3
	TileFlagPVPZone        uint32 = 1 << 4
	TileFlagZoneBrush      uint32 = 1 << 5
)

// House is created by the binary map (bound to its tiles via
// HOUSETILE nodes) and annotated by the houses sidecar.
type House struct {
	ID        uint32
	Name      string
	Exit      Position
	Rent      int32
	GuildHall bool
	TownID    uint32
	Tiles     map[Position]bool // derived from the map, not serialized directly
}

// Town is a named temple location.
type Town struct {
	ID        uint32
	Name      string
	TemplePos Position
}

// Waypoint is a named position, written only for OTBM >= V3.
type Waypoint struct {
	Name string
	Pos  Position
}

// SpawnCreature is one creature slot within a Spawn.
type SpawnCreature struct {
	Name       string
	OffsetX    int
	OffsetY    int
	SpawnTime  int
	Direction  Direction
	IsNPC      bool
}

// Spawn is a spawn center with its radius and creature roster.
type Spawn struct {
	Center    Position
	Radius    int
	Creatures []*SpawnCreature
}

// Creature is a live creature instance placed on a tile, derived from
// a Spawn during sidecar loading. SpawnTime and Direction are copied
// from the roster entry that placed it so they survive even when the
// tile is later reached and saved under a different, overlapping
// spawn's bounding square.
type Creature struct {
	Name      string
	IsNPC     bool
	SpawnTime int
	Direction Direction
}
