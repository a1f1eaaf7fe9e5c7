// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package maptree

import (
	"github.com/playbymail/ottomap/cerrs"
	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
	"github.com/playbymail/ottomap/internal/otbm/node"
)

// GetVersionInfo reads only the root header of the map at path — the
// otbm/items major/minor fields — without descending into MAP_DATA
// (spec.md §6).
func GetVersionInfo(path string) (mapmodel.MapVersion, error) {
	fr, err := node.OpenFile(path, node.Magic)
	if err != nil {
		return mapmodel.MapVersion{}, err
	}
	root := fr.RootNode()
	if root == nil {
		return mapmodel.MapVersion{}, cerrs.ErrNoRootNode
	}
	otbmVersion, ok1 := root.GetU32()
	_, ok2 := root.GetU16() // width
	_, ok3 := root.GetU16() // height
	major, ok4 := root.GetU32()
	minor, ok5 := root.GetU32()
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return mapmodel.MapVersion{}, cerrs.ErrMissingVersionField
	}
	return mapmodel.MapVersion{OTBM: mapmodel.OTBMVersion(otbmVersion), Major: major, Client: minor}, nil
}

// LoadBinary opens and decodes the node stream at path into a Map.
func LoadBinary(path string, opts Options) (*Result, error) {
	fr, err := node.OpenFile(path, node.Magic)
	if err != nil {
		return &Result{}, err
	}
	return Decode(fr, opts)
}

// SaveBinary writes m's node stream to path, choosing the magic
// prefix per opts.SaveWithOTBMagic, and returns the zone accumulator
// populated along the way so the caller can hand it to the zones
// sidecar.
func SaveBinary(path string, m *mapmodel.Map, opts Options) (ZoneAccumulator, error) {
	w, err := node.NewDiskWriter(path)
	if err != nil {
		return nil, err
	}
	if opts.SaveWithOTBMagic {
		w.WriteMagic(node.MagicBytes)
	} else {
		w.WriteMagic(node.NullMagic)
	}
	zones := ZoneAccumulator{}
	Encode(w, m, opts, zones)
	if err := w.Err(); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return zones, nil
}
