// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package zones implements the zones TOML sidecar (spec.md §4.7): one
// file per zone id under a "<mapname>-zones/" directory, synced to the
// zone accumulator a save pass built while walking the map's tiles.
package zones

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
)

type tomlPosition struct {
	X uint16 `toml:"x"`
	Y uint16 `toml:"y"`
	Z uint8  `toml:"z"`
}

type zoneFile struct {
	Zones []zoneRecord `toml:"zone"`
}

type zoneRecord struct {
	ID        uint16         `toml:"id"`
	Positions []tomlPosition `toml:"positions"`
}

// Dir returns the zones directory for a map file path: the sibling
// directory named "<mapname>-zones", mapname being the base name with
// ".otbm" stripped.
func Dir(mapPath string) string {
	base := filepath.Base(mapPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(mapPath), base+"-zones")
}

// Save syncs dir to exactly the zoneId -> positions the traversal
// gathered: one "<id>.toml" per zone, and any stale "<n>.toml" whose
// numeric name isn't a current zone id is deleted (spec.md §8 "Zone
// dir sync"). Non-numeric or non-.toml entries are left untouched.
func Save(dir string, zoneMap map[uint16][]mapmodel.Position) error {
	if len(zoneMap) == 0 {
		return purgeStale(dir, nil)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := purgeStale(dir, zoneMap); err != nil {
		return err
	}

	ids := make([]uint16, 0, len(zoneMap))
	for id := range zoneMap {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		positions := zoneMap[id]
		rec := zoneRecord{ID: id, Positions: make([]tomlPosition, len(positions))}
		for i, p := range positions {
			rec.Positions[i] = tomlPosition{X: p.X, Y: p.Y, Z: p.Z}
		}
		zf := zoneFile{Zones: []zoneRecord{rec}}

		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("%d.toml", id)))
		if err != nil {
			return err
		}
		err = toml.NewEncoder(f).Encode(zf)
		closeErr := f.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return closeErr
		}
	}
	return nil
}

func purgeStale(dir string, zoneMap map[uint16][]mapmodel.Position) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".toml" {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), ".toml")
		id, err := strconv.ParseUint(stem, 10, 16)
		if err != nil {
			continue // non-numeric name, not ours to manage
		}
		if zoneMap == nil {
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
				return err
			}
			continue
		}
		if _, present := zoneMap[uint16(id)]; !present {
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load reads every ".toml" file under dir (numeric name or not) and
// unions their positions into m's tiles' ZoneIDs. A position with no tile is ignored; the
// directory not existing is not an error.
func Load(dir string, m *mapmodel.Map) (warnings []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".toml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		var zf zoneFile
		if _, err := toml.DecodeFile(path, &zf); err != nil {
			warnings = append(warnings, fmt.Sprintf("zone file %s is not valid TOML, skipped: %v", path, err))
			continue
		}
		for _, rec := range zf.Zones {
			for _, tp := range rec.Positions {
				pos := mapmodel.Position{X: tp.X, Y: tp.Y, Z: tp.Z}
				tile, ok := m.Tiles[pos]
				if !ok {
					continue
				}
				if tile.ZoneIDs == nil {
					tile.ZoneIDs = map[uint16]bool{}
				}
				tile.ZoneIDs[rec.ID] = true
			}
		}
	}
	return warnings, nil
}
