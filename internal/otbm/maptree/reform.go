// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package maptree

import (
	"github.com/playbymail/ottomap/internal/otbm/catalog"
	"github.com/playbymail/ottomap/internal/otbm/item"
	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
)

// ReformDoorIDs migrates a map's legacy action-id-as-door-key encoding
// to explicit door ids: every door item whose ActionID falls in the
// reserved key range is rewritten to DoorID = ActionID-keyOffset with
// ActionID cleared, and any door on a house tile still left at DoorID
// 0 afterward gets the next id in that house's sequence.
//
// This mirrors a disabled pass in the source and is never invoked by
// LoadMap/SaveMap (spec.md §9): call it explicitly, once, as an
// opt-in migration step on maps still carrying the old encoding.
func ReformDoorIDs(m *mapmodel.Map) (rewritten int) {
	const keyOffset = 1000

	nextDoorID := map[uint32]uint8{} // per house id

	for _, tile := range m.Tiles {
		for _, it := range tileDoorItems(tile) {
			if it.Category != catalog.CategoryDoor {
				continue
			}
			if it.ActionID >= keyOffset {
				it.DoorID = uint8(it.ActionID - keyOffset)
				it.ActionID = 0
				rewritten++
			}
			if tile.IsHouseTile() && it.DoorID == 0 {
				nextDoorID[tile.HouseID]++
				it.DoorID = nextDoorID[tile.HouseID]
				rewritten++
			}
		}
	}
	return rewritten
}

func tileDoorItems(tile *mapmodel.Tile) []*item.Item {
	items := make([]*item.Item, 0, len(tile.Items)+1)
	if tile.Ground != nil {
		items = append(items, tile.Ground)
	}
	return append(items, tile.Items...)
}
