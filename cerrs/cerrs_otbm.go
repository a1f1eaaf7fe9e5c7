// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package cerrs

// OTBM codec errors. These are the fatal cases from the map codec's
// error taxonomy: the ones that abort a load or save outright rather
// than being recorded as a warning and skipped.
const (
	ErrBadMagic             = Error("otbm: bad magic")
	ErrBadNodeFraming       = Error("otbm: bad node framing")
	ErrTruncatedNodeStream  = Error("otbm: truncated node stream")
	ErrNoRootNode           = Error("otbm: no root node")
	ErrMissingMapData       = Error("otbm: missing map data node")
	ErrMissingVersionField  = Error("otbm: missing version field")
	ErrBadTileAreaHeader    = Error("otbm: bad tile area header")
	ErrBadTownHeader        = Error("otbm: bad town header")
	ErrBadWaypointHeader    = Error("otbm: bad waypoint header")
	ErrChildNotItem         = Error("otbm: container child is not an item node")
	ErrUnsupportedMajor     = Error("otbm: unsupported items major version")
	ErrUnsupportedOTBM      = Error("otbm: unsupported otbm version")
	ErrOpenForWrite         = Error("otbm: cannot open file for write")
	ErrWriteFailed          = Error("otbm: write failed")
	ErrUnknownArchiveMember = Error("otbm: unknown archive member")
)
