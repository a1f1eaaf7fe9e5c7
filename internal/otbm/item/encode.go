// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package item

import (
	"github.com/playbymail/ottomap/internal/otbm/attrs"
	"github.com/playbymail/ottomap/internal/otbm/catalog"
	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
	"github.com/playbymail/ottomap/internal/otbm/node"
)

// minorVersionForCharges is the client version floor below which
// CHARGES is never written for a V2/V3 item (spec §4.3).
const minorVersionForCharges = 820

// Encode writes it as a full OTBM_ITEM node, including any container
// children, to w.
func Encode(w *node.Writer, it *Item, mv mapmodel.MapVersion, cat catalog.ItemTypeCatalog) {
	cls := classify(cat, it.ID)

	w.AddNode(uint8(attrs.NodeItem))
	w.AddU16(it.ID)

	if mv.OTBM == mapmodel.V1 && cls.isCountBearing() {
		w.AddU8(uint8(it.Subtype))
	}

	switch {
	case mv.OTBM >= mapmodel.V4:
		if m := withLegacyAttributes(it); len(m) > 0 {
			w.AddU8(uint8(attrs.AttributeMap))
			attrs.Encode(w, m)
		}
		if cls.isCountBearing() {
			w.AddU8(uint8(attrs.Count))
			w.AddU8(uint8(it.Subtype))
		}
	case mv.OTBM == mapmodel.V2 || mv.OTBM == mapmodel.V3:
		if cls.isCountBearing() {
			w.AddU8(uint8(attrs.Count))
			w.AddU8(uint8(it.Subtype))
		} else if cls.isCharged && mv.Client >= minorVersionForCharges && it.Subtype > 0 {
			w.AddU8(uint8(attrs.Charges))
			w.AddU16(it.Subtype)
		}
		if it.ActionID > 0 {
			w.AddU8(uint8(attrs.ActionID))
			w.AddU16(it.ActionID)
		}
		if it.UniqueID > 0 {
			w.AddU8(uint8(attrs.UniqueID))
			w.AddU16(it.UniqueID)
		}
		if it.Text != "" {
			w.AddU8(uint8(attrs.Text))
			w.AddString(it.Text)
		}
		if it.Description != "" {
			w.AddU8(uint8(attrs.Desc))
			w.AddString(it.Description)
		}
	}

	switch it.Category {
	case catalog.CategoryTeleport:
		w.AddU8(uint8(attrs.TeleDest))
		w.AddU16(it.Destination.X)
		w.AddU16(it.Destination.Y)
		w.AddU8(it.Destination.Z)
	case catalog.CategoryDoor:
		if it.DoorID != 0 {
			w.AddU8(uint8(attrs.HouseDoorID))
			w.AddU8(it.DoorID)
		}
	case catalog.CategoryDepot:
		if it.DepotID != 0 {
			w.AddU8(uint8(attrs.DepotID))
			w.AddU16(it.DepotID)
		}
	}

	for _, child := range it.Children {
		Encode(w, child, mv, cat)
	}

	w.EndNode()
}

// IsComplex reports whether it carries attributes or variant state
// beyond a bare id, i.e. it cannot use the compact inline ground form
// (spec §4.3, §4.4 step 2, §8 scenario "Compact ground").
func IsComplex(it *Item) bool {
	if it.ActionID != 0 || it.UniqueID != 0 || it.Text != "" || it.Description != "" {
		return true
	}
	if len(it.Attributes) != 0 || len(it.Children) != 0 {
		return true
	}
	switch it.Category {
	case catalog.CategoryTeleport, catalog.CategoryDoor, catalog.CategoryDepot, catalog.CategoryContainer:
		return true
	}
	return false
}
