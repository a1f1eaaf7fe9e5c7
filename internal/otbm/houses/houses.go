// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package houses implements the houses XML sidecar (spec.md §4.5):
// loading and saving the document that annotates houses the binary
// map already created via HOUSETILE nodes.
package houses

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
)

type document struct {
	XMLName xml.Name `xml:"houses"`
	Houses  []entry  `xml:"house"`
}

type entry struct {
	Name      string `xml:"name,attr"`
	ID        uint32 `xml:"houseid,attr"`
	EntryX    uint16 `xml:"entryx,attr"`
	EntryY    uint16 `xml:"entryy,attr"`
	EntryZ    uint8  `xml:"entryz,attr"`
	Rent      int32  `xml:"rent,attr"`
	GuildHall bool   `xml:"guildhall,attr"`
	TownID    uint32 `xml:"townid,attr"`
	Size      int    `xml:"size,attr"`
}

// Load reads path and annotates houses already present on m (created
// by HOUSETILE nodes during the binary decode). A house element whose
// houseid doesn't match one of those is skipped; a house missing
// townid is removed; a missing file is not an error, it's reported
// via the returned warning.
func Load(path string, m *mapmodel.Map) (warning string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("houses sidecar %s not found, houses left unannotated", path), nil
		}
		return "", err
	}

	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Sprintf("houses sidecar %s is not valid XML, ignored: %v", path, err), nil
	}

	for _, e := range doc.Houses {
		h, known := m.Houses[e.ID]
		if !known {
			continue // spec: houses are created by the binary, XML only annotates
		}
		h.Name = e.Name
		h.Rent = e.Rent
		h.GuildHall = e.GuildHall
		h.TownID = e.TownID
		if e.EntryX != 0 || e.EntryY != 0 || e.EntryZ != 0 {
			h.Exit = mapmodel.Position{X: e.EntryX, Y: e.EntryY, Z: e.EntryZ}
		}
		if h.TownID == 0 {
			delete(m.Houses, e.ID)
		}
	}
	return "", nil
}

// Save writes m's houses to path, one element per house, with size
// derived from the house's tile count.
func Save(path string, m *mapmodel.Map) error {
	doc := document{Houses: make([]entry, 0, len(m.Houses))}
	for _, h := range m.Houses {
		doc.Houses = append(doc.Houses, entry{
			Name:      h.Name,
			ID:        h.ID,
			EntryX:    h.Exit.X,
			EntryY:    h.Exit.Y,
			EntryZ:    h.Exit.Z,
			Rent:      h.Rent,
			GuildHall: h.GuildHall,
			TownID:    h.TownID,
			Size:      len(h.Tiles),
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	out = append([]byte(xml.Header), out...)
	return os.WriteFile(path, out, 0644)
}
