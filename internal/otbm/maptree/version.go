// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package maptree

import (
	"fmt"

	"github.com/playbymail/ottomap/cerrs"
	"github.com/playbymail/ottomap/internal/otbm/mapmodel"
)

// gateVersion applies the three version-gating rules of spec.md §4.4.
// It returns a warning to append when continuing is still possible,
// or a fatal error when the caller declined to continue.
func gateVersion(mv mapmodel.MapVersion, itemsMajor uint32, opts Options) (warning string, err error) {
	if mv.OTBM > mapmodel.V4 {
		msg := fmt.Sprintf("map uses otbm version %d, newer than the %d this codec understands", mv.OTBM, mapmodel.V4)
		if !opts.prompt("Unsupported map version", msg+"; continue anyway?") {
			return "", cerrs.ErrUnsupportedOTBM
		}
		warning = msg + "; continuing at user request"
	}

	if opts.CatalogMajor != 0 && itemsMajor > opts.CatalogMajor {
		msg := fmt.Sprintf("map uses items major version %d, newer than the catalog's %d", itemsMajor, opts.CatalogMajor)
		if !opts.prompt("Unsupported item database version", msg+"; continue anyway?") {
			return "", cerrs.ErrUnsupportedMajor
		}
		if warning != "" {
			warning += "; "
		}
		warning += msg + "; continuing at user request"
	}

	if opts.CatalogMinor != 0 && mv.Client > opts.CatalogMinor {
		msg := fmt.Sprintf("map uses items minor version %d, newer than the catalog's %d", mv.Client, opts.CatalogMinor)
		if warning != "" {
			warning += "; "
		}
		warning += msg
	}

	return warning, nil
}
