// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package node implements the byte-stuffed framing used by the OTBM
// container: a tree of typed nodes, each carrying a free-form payload,
// read and written over buffered I/O.
package node

// Control bytes. Any occurrence of one of these inside a payload is
// preceded by ESCAPE on write and must be unescaped transparently on
// read.
const (
	StartByte  byte = 0xFE
	EndByte    byte = 0xFF
	EscapeByte byte = 0xFD
)

// Magic is the standard 4-byte file header.
const Magic = "OTBM"

// MagicBytes is Magic in the [4]byte form WriteMagic wants.
var MagicBytes = [4]byte{'O', 'T', 'B', 'M'}

// NullMagic is written instead of Magic when the caller opts out of
// the OTB magic number (spec: SAVE_WITH_OTB_MAGIC_NUMBER=false).
var NullMagic = [4]byte{0, 0, 0, 0}

func isControl(b byte) bool {
	return b == StartByte || b == EndByte || b == EscapeByte
}
