// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package otbm is the facade the rest of the application calls
// through: GetVersionInfo, LoadMap, and SaveMap (spec.md §6), wiring
// together the node stream codec, the map tree codec, and the houses,
// spawns, zones, and archive sidecars.
package otbm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playbymail/ottomap/internal/otbm/archive"
	"github.com/playbymail/ottomap/internal/otbm/catalog"
	"github.com/playbymail/ottomap/internal/otbm/houses"
	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
	"github.com/playbymail/ottomap/internal/otbm/maptree"
	"github.com/playbymail/ottomap/internal/otbm/node"
	"github.com/playbymail/ottomap/internal/otbm/spawns"
	"github.com/playbymail/ottomap/internal/otbm/zones"
)

// Options is everything a Load or Save needs from its caller: the
// external catalogs, environment settings, and progress/prompt
// callbacks (spec.md §6).
type Options struct {
	ItemCatalog      catalog.ItemTypeCatalog
	CreatureCatalog  catalog.CreatureCatalog
	Prompt           maptree.VersionPrompt
	Progress         maptree.Progress
	CatalogMajor     uint32
	CatalogMinor     uint32
	DefaultSpawnTime int
	MaxSpawnRadius   int
	SaveWithOTBMagic bool
}

func (o Options) treeOptions() maptree.Options {
	return maptree.Options{
		ItemCatalog:      o.ItemCatalog,
		CreatureCatalog:  o.CreatureCatalog,
		Prompt:           o.Prompt,
		Progress:         o.Progress,
		CatalogMajor:     o.CatalogMajor,
		CatalogMinor:     o.CatalogMinor,
		DefaultSpawnTime: o.DefaultSpawnTime,
		MaxSpawnRadius:   o.MaxSpawnRadius,
		SaveWithOTBMagic: o.SaveWithOTBMagic,
	}
}

// GetVersionInfo reads only the root header of the map at path.
func GetVersionInfo(path string) (mapmodel.MapVersion, error) {
	return maptree.GetVersionInfo(path)
}

// LoadMap loads the binary map at path plus its houses, spawns, and
// zones sidecars. It never fails fatally on a missing sidecar; it
// records a warning and ensures a default sidecar filename is set on
// the returned Map instead.
func LoadMap(path string, opts Options) (*mapmodel.Map, []string, error) {
	if strings.EqualFold(filepath.Ext(path), ".otgz") {
		return loadArchive(path, opts)
	}

	res, err := maptree.LoadBinary(path, opts.treeOptions())
	if err != nil {
		return res.Map, res.Warnings, err
	}
	m := res.Map
	warnings := res.Warnings

	dir := filepath.Dir(path)
	if m.HouseFile == "" {
		m.HouseFile = defaultSidecarName(path, "-houses.xml")
		warnings = append(warnings, fmt.Sprintf("map carried no house sidecar filename, defaulting to %s", m.HouseFile))
	}
	if warning, err := houses.Load(filepath.Join(dir, m.HouseFile), m); err != nil {
		return m, warnings, err
	} else if warning != "" {
		warnings = append(warnings, warning)
	}

	if m.SpawnFile == "" {
		m.SpawnFile = defaultSidecarName(path, "-spawns.xml")
		warnings = append(warnings, fmt.Sprintf("map carried no spawn sidecar filename, defaulting to %s", m.SpawnFile))
	}
	spawnWarnings, err := spawns.Load(filepath.Join(dir, m.SpawnFile), m, spawns.Options{
		DefaultSpawnTime: opts.DefaultSpawnTime,
		MaxSpawnRadius:   opts.MaxSpawnRadius,
		Creatures:        opts.CreatureCatalog,
	})
	if err != nil {
		return m, warnings, err
	}
	warnings = append(warnings, spawnWarnings...)

	zoneWarnings, err := zones.Load(zones.Dir(path), m)
	if err != nil {
		return m, warnings, err
	}
	warnings = append(warnings, zoneWarnings...)

	return m, warnings, nil
}

// loadArchive unpacks an .otgz at path in memory, decodes the binary
// member directly, and loads the houses/spawns members from a scratch
// directory so the path-based sidecar loaders can be reused unchanged.
// Zones are never packed (spec.md §9): they're still read from the
// sibling directory, same as the flat path.
func loadArchive(path string, opts Options) (*mapmodel.Map, []string, error) {
	mapBytes, housesXML, spawnsXML, err := archive.Read(path)
	if err != nil {
		return nil, nil, err
	}

	fr, err := node.Open(mapBytes, node.Magic)
	if err != nil {
		return nil, nil, err
	}
	res, err := maptree.Decode(fr, opts.treeOptions())
	if err != nil {
		return res.Map, res.Warnings, err
	}
	m := res.Map
	warnings := res.Warnings

	tmpDir, err := os.MkdirTemp("", "otbm-archive-*")
	if err != nil {
		return m, warnings, err
	}
	defer os.RemoveAll(tmpDir)

	housesPath := filepath.Join(tmpDir, "houses.xml")
	if err := os.WriteFile(housesPath, housesXML, 0644); err != nil {
		return m, warnings, err
	}
	if warning, err := houses.Load(housesPath, m); err != nil {
		return m, warnings, err
	} else if warning != "" {
		warnings = append(warnings, warning)
	}

	spawnsPath := filepath.Join(tmpDir, "spawns.xml")
	if err := os.WriteFile(spawnsPath, spawnsXML, 0644); err != nil {
		return m, warnings, err
	}
	spawnWarnings, err := spawns.Load(spawnsPath, m, spawns.Options{
		DefaultSpawnTime: opts.DefaultSpawnTime,
		MaxSpawnRadius:   opts.MaxSpawnRadius,
		Creatures:        opts.CreatureCatalog,
	})
	if err != nil {
		return m, warnings, err
	}
	warnings = append(warnings, spawnWarnings...)

	zoneWarnings, err := zones.Load(zones.Dir(path), m)
	if err != nil {
		return m, warnings, err
	}
	warnings = append(warnings, zoneWarnings...)

	return m, warnings, nil
}

func defaultSidecarName(mapPath, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(mapPath), filepath.Ext(mapPath))
	return base + suffix
}

// SaveMap writes m to path. A ".otgz" extension packages the binary
// and XML sidecars into a gzip tar (§4.8); any other extension writes
// a flat binary plus sidecars written adjacent. Zones are always
// written to their directory, even for an .otgz save (§9).
func SaveMap(m *mapmodel.Map, path string, opts Options) error {
	if strings.EqualFold(filepath.Ext(path), ".otgz") {
		return saveArchive(m, path, opts)
	}
	return saveFlat(m, path, opts)
}

func saveFlat(m *mapmodel.Map, path string, opts Options) error {
	zoneMap, err := maptree.SaveBinary(path, m, opts.treeOptions())
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if m.HouseFile == "" {
		m.HouseFile = defaultSidecarName(path, "-houses.xml")
	}
	if err := houses.Save(filepath.Join(dir, m.HouseFile), m); err != nil {
		return err
	}
	if m.SpawnFile == "" {
		m.SpawnFile = defaultSidecarName(path, "-spawns.xml")
	}
	if err := spawns.Save(filepath.Join(dir, m.SpawnFile), m); err != nil {
		return err
	}
	return zones.Save(zones.Dir(path), zoneMap)
}

func saveArchive(m *mapmodel.Map, path string, opts Options) error {
	w := node.NewMemoryWriter()
	if opts.SaveWithOTBMagic {
		w.WriteMagic(node.MagicBytes)
	} else {
		w.WriteMagic(node.NullMagic)
	}
	zoneMap := maptree.ZoneAccumulator{}
	maptree.Encode(w, m, opts.treeOptions(), zoneMap)
	if err := w.Close(); err != nil {
		return err
	}
	if err := w.Err(); err != nil {
		return err
	}

	if m.HouseFile == "" {
		m.HouseFile = defaultSidecarName(path, "-houses.xml")
	}
	if m.SpawnFile == "" {
		m.SpawnFile = defaultSidecarName(path, "-spawns.xml")
	}

	tmpDir, err := os.MkdirTemp("", "otbm-archive-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	housesPath := filepath.Join(tmpDir, m.HouseFile)
	if err := houses.Save(housesPath, m); err != nil {
		return err
	}
	spawnsPath := filepath.Join(tmpDir, m.SpawnFile)
	if err := spawns.Save(spawnsPath, m); err != nil {
		return err
	}
	housesXML, err := os.ReadFile(housesPath)
	if err != nil {
		return err
	}
	spawnsXML, err := os.ReadFile(spawnsPath)
	if err != nil {
		return err
	}

	if err := archive.Write(path, w.Bytes(), housesXML, spawnsXML); err != nil {
		return err
	}
	// zones are not packed into the archive (spec.md §9); they are
	// still synced to their directory next to the .otgz file.
	return zones.Save(zones.Dir(path), zoneMap)
}
