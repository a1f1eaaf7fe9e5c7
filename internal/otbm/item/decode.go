// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package item

import (
	"github.com/playbymail/ottomap/internal/otbm/attrs"
	"github.com/playbymail/ottomap/internal/otbm/catalog"
	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
	"github.com/playbymail/ottomap/internal/otbm/node"
)

// Decode decodes an OTBM_ITEM node (and, recursively, any children)
// starting at c. It returns false on any malformed TLV or a
// container child that isn't itself an item node.
func Decode(c *node.Cursor, mv mapmodel.MapVersion, cat catalog.ItemTypeCatalog) (*Item, bool) {
	if attrs.NodeType(c.Type()) != attrs.NodeItem {
		return nil, false
	}
	id, ok := c.GetU16()
	if !ok {
		return nil, false
	}
	cls := classify(cat, id)
	it := &Item{ID: id, Category: cls.category}

	if mv.OTBM == mapmodel.V1 && cls.isCountBearing() {
		v, ok := c.GetU8()
		if !ok {
			return nil, false
		}
		it.Subtype = uint16(v)
	}

	if !decodeAttributes(c, it) {
		return nil, false
	}

	for _, child := range c.ChildNodes() {
		if attrs.NodeType(child.Type()) != attrs.NodeItem {
			return nil, false // container child must be OTBM_ITEM; maptree's tile decoder discards the whole item with a warning, the load goes on
		}
		childItem, ok := Decode(child, mv, cat)
		if !ok {
			return nil, false
		}
		it.Children = append(it.Children, childItem)
		if it.Category == catalog.CategoryPlain {
			it.Category = catalog.CategoryContainer // catalog didn't know, but it clearly nests items
		}
	}

	return it, true
}

// decodeAttributes consumes the TLV attribute stream to payload end.
func decodeAttributes(c *node.Cursor, it *Item) bool {
	for !c.AtEnd() {
		tagByte, ok := c.GetU8()
		if !ok {
			return false
		}
		tag := attrs.Tag(tagByte)
		switch tag {
		case attrs.Count, attrs.RuneCharges:
			v, ok := c.GetU8()
			if !ok {
				return false
			}
			it.Subtype = uint16(v)
		case attrs.Charges:
			v, ok := c.GetU16()
			if !ok {
				return false
			}
			it.Subtype = v
		case attrs.ActionID:
			v, ok := c.GetU16()
			if !ok {
				return false
			}
			it.ActionID = v
		case attrs.UniqueID:
			v, ok := c.GetU16()
			if !ok {
				return false
			}
			it.UniqueID = v
		case attrs.Text:
			s, ok := c.GetString()
			if !ok {
				return false
			}
			it.Text = s
		case attrs.Desc:
			s, ok := c.GetString()
			if !ok {
				return false
			}
			it.Description = s
		case attrs.TeleDest:
			x, ok1 := c.GetU16()
			y, ok2 := c.GetU16()
			z, ok3 := c.GetU8()
			if !ok1 || !ok2 || !ok3 {
				return false
			}
			it.Destination = mapmodel.Position{X: x, Y: y, Z: z}
			it.Category = catalog.CategoryTeleport
		case attrs.HouseDoorID:
			v, ok := c.GetU8()
			if !ok {
				return false
			}
			it.DoorID = v
			it.Category = catalog.CategoryDoor
		case attrs.DepotID:
			v, ok := c.GetU16()
			if !ok {
				return false
			}
			it.DepotID = v
			it.Category = catalog.CategoryDepot
		case attrs.AttributeMap:
			m, ok := attrs.Decode(c)
			if !ok {
				return false
			}
			it.Attributes = extractLegacyAttributes(m, it)
		default:
			// DepotID, HouseDoorID, and TeleDest are always handled
			// above regardless of the item's classified category, so
			// any tag reaching here is genuinely unknown: the payload
			// can no longer be safely interpreted.
			return false
		}
	}
	return true
}
