// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package item_test

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/playbymail/ottomap/internal/otbm/attrs"
	"github.com/playbymail/ottomap/internal/otbm/catalog"
	"github.com/playbymail/ottomap/internal/otbm/item"
	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
	"github.com/playbymail/ottomap/internal/otbm/node"
)

type fakeCatalog map[uint16]*catalog.ItemType

func (f fakeCatalog) ItemType(id uint16) *catalog.ItemType { return f[id] }

func encodeDecode(t *testing.T, it *item.Item, mv mapmodel.MapVersion, cat catalog.ItemTypeCatalog) *item.Item {
	t.Helper()
	w := node.NewMemoryWriter()
	w.WriteMagic(node.NullMagic)
	item.Encode(w, it, mv, cat)
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	fr, err := node.Open(w.Bytes(), node.Magic)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got, ok := item.Decode(fr.RootNode(), mv, cat)
	if !ok {
		t.Fatalf("decode failed")
	}
	return got
}

func TestStackableInlineV1(t *testing.T) {
	cat := fakeCatalog{2148: {ID: 2148, Stackable: true, Category: catalog.CategoryPlain}}
	it := &item.Item{ID: 2148, Subtype: 50, Category: catalog.CategoryPlain}
	mv := mapmodel.MapVersion{OTBM: mapmodel.V1, Client: 760}

	w := node.NewMemoryWriter()
	w.WriteMagic(node.NullMagic)
	item.Encode(w, it, mv, cat)
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// skip the 4-byte magic written above; the rest is the item node
	want := []byte{node.StartByte, byte(attrs.NodeItem), 0x64, 0x08, 50, node.EndByte}
	if string(w.Bytes()[4:]) != string(want) {
		t.Fatalf("bytes = % x, want % x", w.Bytes()[4:], want)
	}

	got := encodeDecode(t, it, mv, cat)
	if got.ID != 2148 || got.Subtype != 50 {
		t.Fatalf("got id=%d subtype=%d, want 2148, 50", got.ID, got.Subtype)
	}
}

func TestCountTagAtV2(t *testing.T) {
	cat := fakeCatalog{2148: {ID: 2148, Stackable: true}}
	it := &item.Item{ID: 2148, Subtype: 99}
	mv := mapmodel.MapVersion{OTBM: mapmodel.V2, Client: 760}
	got := encodeDecode(t, it, mv, cat)
	if got.Subtype != 99 {
		t.Fatalf("Subtype = %d, want 99", got.Subtype)
	}
}

func TestTeleportRoundTrip(t *testing.T) {
	cat := fakeCatalog{1387: {ID: 1387, Category: catalog.CategoryTeleport}}
	it := &item.Item{ID: 1387, Category: catalog.CategoryTeleport, Destination: mapmodel.Position{X: 60, Y: 60, Z: 7}}
	mv := mapmodel.MapVersion{OTBM: mapmodel.V3, Client: 854}

	w := node.NewMemoryWriter()
	w.WriteMagic(node.NullMagic)
	item.Encode(w, it, mv, cat)
	_ = w.Close()
	// spec scenario 5: exact TELE_DEST bytes 09 3C 00 3C 00 07
	wantSuffix := []byte{0x09, 0x3C, 0x00, 0x3C, 0x00, 0x07}
	got := w.Bytes()
	if len(got) < len(wantSuffix) {
		t.Fatalf("output too short")
	}
	tail := got[len(got)-1-len(wantSuffix) : len(got)-1]
	if string(tail) != string(wantSuffix) {
		t.Fatalf("TELE_DEST bytes = % x, want % x", tail, wantSuffix)
	}

	back := encodeDecode(t, it, mv, cat)
	if diff := deep.Equal(it.Destination, back.Destination); diff != nil {
		t.Fatalf("destination mismatch: %v", diff)
	}
}

func TestContainerRoundTripV4(t *testing.T) {
	cat := fakeCatalog{
		1987: {ID: 1987, Category: catalog.CategoryContainer},
		2160: {ID: 2160, Stackable: true},
		2400: {ID: 2400},
	}
	backpack := &item.Item{
		ID:       1987,
		Category: catalog.CategoryContainer,
		Children: []*item.Item{
			{ID: 2160, Subtype: 1},
			{ID: 2400, ActionID: 1001},
		},
	}
	mv := mapmodel.MapVersion{OTBM: mapmodel.V4, Client: 1100}
	got := encodeDecode(t, backpack, mv, cat)
	if len(got.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(got.Children))
	}
	if got.Children[0].ID != 2160 || got.Children[0].Subtype != 1 {
		t.Fatalf("child 0 = %+v", got.Children[0])
	}
	if got.Children[1].ID != 2400 || got.Children[1].ActionID != 1001 {
		t.Fatalf("child 1 = %+v", got.Children[1])
	}
}

func TestLegacyAttributesBridgeThroughAttributeMapAtV4(t *testing.T) {
	cat := fakeCatalog{2400: {ID: 2400}}
	it := &item.Item{
		ID:          2400,
		ActionID:    1001,
		UniqueID:    42,
		Text:        "a rusty key",
		Description: "it looks old",
		Attributes:  attrs.Map{"custom": attrs.Value{Kind: attrs.KindBool, Bool: true}},
	}
	mv := mapmodel.MapVersion{OTBM: mapmodel.V4, Client: 1100}

	got := encodeDecode(t, it, mv, cat)
	if got.ActionID != 1001 {
		t.Errorf("ActionID = %d, want 1001", got.ActionID)
	}
	if got.UniqueID != 42 {
		t.Errorf("UniqueID = %d, want 42", got.UniqueID)
	}
	if got.Text != "a rusty key" {
		t.Errorf("Text = %q, want %q", got.Text, "a rusty key")
	}
	if got.Description != "it looks old" {
		t.Errorf("Description = %q, want %q", got.Description, "it looks old")
	}
	if len(got.Attributes) != 1 {
		t.Fatalf("len(Attributes) = %d, want 1 (legacy keys must not leak into the generic map): %+v", len(got.Attributes), got.Attributes)
	}
	if v := got.Attributes["custom"]; v.Kind != attrs.KindBool || !v.Bool {
		t.Errorf(`Attributes["custom"] = %+v, want {Kind: KindBool, Bool: true}`, v)
	}
}

func TestDecodeFailsOnUnknownTag(t *testing.T) {
	w := node.NewMemoryWriter()
	w.WriteMagic(node.NullMagic)
	w.AddNode(uint8(attrs.NodeItem))
	w.AddU16(100)
	w.AddU8(0xF0) // unknown, unbounded tag
	w.AddU8(1)
	w.EndNode()
	_ = w.Close()
	fr, err := node.Open(w.Bytes(), node.Magic)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	mv := mapmodel.MapVersion{OTBM: mapmodel.V4}
	if _, ok := item.Decode(fr.RootNode(), mv, fakeCatalog{}); ok {
		t.Fatal("expected decode to fail on an unknown unbounded tag")
	}
}
