// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package attrs

import (
	"sort"

	"github.com/playbymail/ottomap/internal/otbm/node"
)

// AttrKind tags the dynamic type carried by a Value in an
// AttributeMap.
type AttrKind uint8

const (
	KindString AttrKind = iota
	KindInt64
	KindFloat64
	KindBool
)

// Value is one entry of a generic (V4+) attribute table.
type Value struct {
	Kind AttrKind
	Str  string
	I64  int64
	F64  float64
	Bool bool
}

// Map is the generic, self-describing attribute table carried by the
// V4+ ATTRIBUTE_MAP tag. spec.md §9 defers its wire format to a
// sibling spec and asks only that it round-trip as an opaque blob; this
// is the concrete self-describing encoding this codec uses: a u32
// entry count followed by (key string, kind byte, value) tuples.
type Map map[string]Value

// Decode reads a Map from c, assuming c is positioned just after the
// ATTRIBUTE_MAP tag byte.
func Decode(c *node.Cursor) (Map, bool) {
	n, ok := c.GetU32()
	if !ok {
		return nil, false
	}
	m := make(Map, n)
	for i := uint32(0); i < n; i++ {
		key, ok := c.GetString()
		if !ok {
			return nil, false
		}
		kindByte, ok := c.GetU8()
		if !ok {
			return nil, false
		}
		var v Value
		v.Kind = AttrKind(kindByte)
		switch v.Kind {
		case KindString:
			s, ok := c.GetString()
			if !ok {
				return nil, false
			}
			v.Str = s
		case KindInt64:
			hi, ok := c.GetU32()
			if !ok {
				return nil, false
			}
			lo, ok := c.GetU32()
			if !ok {
				return nil, false
			}
			v.I64 = int64(uint64(hi)<<32 | uint64(lo))
		case KindFloat64:
			hi, ok := c.GetU32()
			if !ok {
				return nil, false
			}
			lo, ok := c.GetU32()
			if !ok {
				return nil, false
			}
			v.F64 = float64FromBits(uint64(hi)<<32 | uint64(lo))
		case KindBool:
			b, ok := c.GetU8()
			if !ok {
				return nil, false
			}
			v.Bool = b != 0
		default:
			return nil, false
		}
		m[key] = v
	}
	return m, true
}

// Encode writes m to w as the ATTRIBUTE_MAP payload body (the tag
// byte itself is written by the caller). Keys are written in sorted
// order so two equal maps always produce identical bytes.
func Encode(w *node.Writer, m Map) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	w.AddU32(uint32(len(m)))
	for _, key := range keys {
		v := m[key]
		w.AddString(key)
		w.AddU8(uint8(v.Kind))
		switch v.Kind {
		case KindString:
			w.AddString(v.Str)
		case KindInt64:
			u := uint64(v.I64)
			w.AddU32(uint32(u >> 32))
			w.AddU32(uint32(u))
		case KindFloat64:
			u := float64ToBits(v.F64)
			w.AddU32(uint32(u >> 32))
			w.AddU32(uint32(u))
		case KindBool:
			if v.Bool {
				w.AddU8(1)
			} else {
				w.AddU8(0)
			}
		}
	}
}
