// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package maptree implements the map tree codec (spec.md §4.4): the
// root header, map-data, tile-area/tile/item, towns, and waypoints,
// with version gating between OTBM V1-V4.
package maptree

import (
	"fmt"

	"github.com/playbymail/ottomap/internal/otbm/catalog"
	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
)

// VersionPrompt asks the user whether to continue loading a map whose
// version exceeds what this codec was built to understand. A false
// return aborts the load.
type VersionPrompt func(title, message string) bool

// Progress reports load/save progress (spec.md §5): after each
// MAP_DATA child node on load, every 8192 tiles on save.
type Progress func(percent int, phase string)

// Options bundles the external collaborators and tunables a decode or
// encode pass needs.
type Options struct {
	ItemCatalog     catalog.ItemTypeCatalog
	CreatureCatalog catalog.CreatureCatalog
	Prompt          VersionPrompt
	Progress        Progress

	// CatalogMajor/CatalogMinor are the live item-type database's own
	// version, compared against the map's itemsMajorVersion and
	// itemsMinorVersion fields during version gating.
	CatalogMajor uint32
	CatalogMinor uint32

	DefaultSpawnTime int  // seconds, spec.md §6 DEFAULT_SPAWNTIME
	MaxSpawnRadius   int  // spec.md §6 MAX_SPAWN_RADIUS
	SaveWithOTBMagic bool // spec.md §6 SAVE_WITH_OTB_MAGIC_NUMBER
}

func (o Options) progress(percent int, phase string) {
	if o.Progress != nil {
		o.Progress(percent, phase)
	}
}

func (o Options) prompt(title, message string) bool {
	if o.Prompt == nil {
		return false
	}
	return o.Prompt(title, message)
}

func (o Options) itemType(id uint16) *catalog.ItemType {
	if o.ItemCatalog == nil {
		return nil
	}
	return o.ItemCatalog.ItemType(id)
}

// Result carries a decoded Map plus the non-fatal diagnostics
// accumulated along the way (spec.md §7).
type Result struct {
	Map      *mapmodel.Map
	Warnings []string
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
