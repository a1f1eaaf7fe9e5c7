// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package item implements the polymorphic item model (spec.md §3, §4.3):
// decoding/encoding an OTBM_ITEM node's id, subtype, attribute TLV
// stream, and — for containers — its nested children.
package item

import (
	"github.com/playbymail/ottomap/internal/otbm/attrs"
	"github.com/playbymail/ottomap/internal/otbm/catalog"
	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
)

// Item is polymorphic over catalog.ItemCategory; the fields not used
// by a category are simply left zero.
type Item struct {
	ID       uint16
	Subtype  uint16 // count/charges/fluid; wider than the wire's u8 COUNT payload so charges > 255 round-trip
	Category catalog.ItemCategory

	Attributes attrs.Map // generic attribute table entries that aren't one of the legacy fields below, MAP >= V4 only

	// legacy attributes. At MAP <= V3 these are their own tags; at
	// MAP >= V4 they're folded into ATTRIBUTE_MAP under well-known
	// keys (see withLegacyAttributes/extractLegacyAttributes) so they
	// still round-trip through the generic table.
	ActionID    uint16
	UniqueID    uint16
	Text        string
	Description string

	// variant-specific fields
	Children    []*Item           // Container
	Destination mapmodel.Position // Teleport
	DoorID      uint8             // Door
	DepotID     uint16            // Depot
}

// classification is what the catalog told us (or the zero-value
// fallback) about an item id, resolved once at decode/encode time.
type classification struct {
	category         catalog.ItemCategory
	stackable        bool
	isSplash         bool
	isFluidContainer bool
	isCharged        bool
	minorVersionGate uint32
}

func classify(cat catalog.ItemTypeCatalog, id uint16) classification {
	if cat == nil {
		return classification{}
	}
	it := cat.ItemType(id)
	if it == nil {
		return classification{}
	}
	return classification{
		category:         it.Category,
		stackable:        it.Stackable,
		isSplash:         it.IsSplash,
		isFluidContainer: it.IsFluidContainer,
		isCharged:        it.IsCharged,
		minorVersionGate: it.MinorVersionGate,
	}
}

func (c classification) isCountBearing() bool {
	return c.stackable || c.isSplash || c.isFluidContainer
}

// well-known ATTRIBUTE_MAP keys the V4+ codec uses to carry the
// legacy MAP <= V3 fields through the generic table.
const (
	attrKeyActionID    = "actionId"
	attrKeyUniqueID    = "uniqueId"
	attrKeyText        = "text"
	attrKeyDescription = "description"
)

// withLegacyAttributes returns the attribute map to write for its
// ATTRIBUTE_MAP tag: it.Attributes plus any set legacy fields, folded
// in under their well-known keys. it.Attributes itself is left
// untouched.
func withLegacyAttributes(it *Item) attrs.Map {
	if it.ActionID == 0 && it.UniqueID == 0 && it.Text == "" && it.Description == "" {
		return it.Attributes
	}
	m := make(attrs.Map, len(it.Attributes)+4)
	for k, v := range it.Attributes {
		m[k] = v
	}
	if it.ActionID != 0 {
		m[attrKeyActionID] = attrs.Value{Kind: attrs.KindInt64, I64: int64(it.ActionID)}
	}
	if it.UniqueID != 0 {
		m[attrKeyUniqueID] = attrs.Value{Kind: attrs.KindInt64, I64: int64(it.UniqueID)}
	}
	if it.Text != "" {
		m[attrKeyText] = attrs.Value{Kind: attrs.KindString, Str: it.Text}
	}
	if it.Description != "" {
		m[attrKeyDescription] = attrs.Value{Kind: attrs.KindString, Str: it.Description}
	}
	return m
}

// extractLegacyAttributes pulls the well-known legacy keys out of a
// decoded ATTRIBUTE_MAP into its struct fields, deleting them from m
// so it.Attributes only ever holds genuinely generic entries. Returns
// the (possibly now-empty, in which case nil) remainder.
func extractLegacyAttributes(m attrs.Map, it *Item) attrs.Map {
	if v, ok := m[attrKeyActionID]; ok && v.Kind == attrs.KindInt64 {
		it.ActionID = uint16(v.I64)
		delete(m, attrKeyActionID)
	}
	if v, ok := m[attrKeyUniqueID]; ok && v.Kind == attrs.KindInt64 {
		it.UniqueID = uint16(v.I64)
		delete(m, attrKeyUniqueID)
	}
	if v, ok := m[attrKeyText]; ok && v.Kind == attrs.KindString {
		it.Text = v.Str
		delete(m, attrKeyText)
	}
	if v, ok := m[attrKeyDescription]; ok && v.Kind == attrs.KindString {
		it.Description = v.Str
		delete(m, attrKeyDescription)
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
