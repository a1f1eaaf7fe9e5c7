// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package attrs implements the per-attribute-tag typed decode/encode
// that runs inside an item, tile, or map-data node's TLV payload. The
// same tag value is reused across node scopes; callers dispatch on
// (current node type, tag) the way the item and map-tree codecs do.
package attrs

// Tag is a single TLV tag byte inside a node's attribute stream.
type Tag uint8

const (
	// Item-scope tags (within an OTBM_ITEM node's payload).
	Count         Tag = 0x04
	ActionID      Tag = 0x05
	UniqueID      Tag = 0x06
	Text          Tag = 0x07
	Desc          Tag = 0x08
	TeleDest      Tag = 0x09
	HouseDoorID   Tag = 0x0A
	DepotID       Tag = 0x0E
	RuneCharges   Tag = 0x16
	Charges       Tag = 0x17
	AttributeMap  Tag = 0x80 // V4+ generic attribute table

	// Tile-scope tags (within a TILE/HOUSETILE node's payload).
	TileFlags Tag = 0x03
	TileItem  Tag = 0x09 // compact inline item: u16 id, no body

	// Map-data-scope tags (within the MAP_DATA node's payload, ahead
	// of any TILE_AREA children).
	MapDescription Tag = 0x01
	MapExtSpawnFile Tag = 0x0B
	MapExtHouseFile Tag = 0x0D
)

// FixedSkip gives the byte width of the three variant-specific tags a
// non-specialized item decoder must still consume defensively so it
// doesn't mistake variant data for the next tag byte. Any other
// unrecognized tag causes the payload to be treated as exhausted
// (spec §4.2).
var FixedSkip = map[Tag]int{
	DepotID:     2,
	HouseDoorID: 1,
	TeleDest:    5,
}
