// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package node

import (
	"bytes"
	"os"

	"github.com/playbymail/ottomap/cerrs"
)

// FileReader binds a parsed node tree to the path it came from. It
// never mutates or aliases past the caller's use of the returned
// cursors; everything is a plain copy of the unescaped bytes.
type FileReader struct {
	path string
	root *Node
}

// OpenFile reads path, validates its 4-byte magic against the
// accepted allowlist (four NUL bytes are always accepted as well), and
// parses the remainder into a node tree.
func OpenFile(path string, acceptedMagic ...string) (*FileReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fr, err := Open(data, acceptedMagic...)
	if err != nil {
		return nil, err
	}
	fr.path = path
	return fr, nil
}

// Open behaves like OpenFile but reads from an in-memory buffer,
// used by the archive component to decode a packed member.
func Open(data []byte, acceptedMagic ...string) (*FileReader, error) {
	if len(data) < 4 {
		return nil, cerrs.ErrBadMagic
	}
	magic := string(data[:4])
	ok := false
	for _, m := range acceptedMagic {
		if magic == m {
			ok = true
			break
		}
	}
	if !ok && !bytes.Equal(data[:4], NullMagic[:]) {
		return nil, cerrs.ErrBadMagic
	}
	root, err := ParseTree(data[4:])
	if err != nil {
		return nil, translateTreeErr(err)
	}
	return &FileReader{root: root}, nil
}

func translateTreeErr(err error) error {
	switch err {
	case ErrBadFraming:
		return cerrs.ErrBadNodeFraming
	case ErrTruncated, ErrUnterminated:
		return cerrs.ErrTruncatedNodeStream
	default:
		return err
	}
}

// RootNode returns a cursor over the file's single root node.
func (f *FileReader) RootNode() *Cursor {
	if f.root == nil {
		return nil
	}
	return &Cursor{node: f.root}
}

// Cursor walks one node's payload and children. Primitive reads are
// scoped to the current node and advance an internal offset; once a
// read fails every subsequent read on this cursor fails too.
type Cursor struct {
	node     *Node
	siblings []*Node // the slice c.node came from, nil for the root
	idx      int      // c's position within siblings
	pos      int
	failed   bool
}

// Type returns the node's 1-byte type tag.
func (c *Cursor) Type() byte { return c.node.Type }

// OK reports whether every primitive read so far has succeeded.
func (c *Cursor) OK() bool { return !c.failed }

// Child returns a cursor for the first child node, or nil if this
// node has none.
func (c *Cursor) Child() *Cursor {
	if len(c.node.Children) == 0 {
		return nil
	}
	return &Cursor{node: c.node.Children[0], siblings: c.node.Children}
}

// Advance returns a cursor for the sibling following this one, or nil
// at the end of the child list.
func (c *Cursor) Advance() *Cursor {
	if c.siblings == nil || c.idx+1 >= len(c.siblings) {
		return nil
	}
	return &Cursor{node: c.siblings[c.idx+1], siblings: c.siblings, idx: c.idx + 1}
}

// ChildNodes returns cursors for every child of this node in source
// order, a convenience wrapper over repeated Child/Advance calls.
func (c *Cursor) ChildNodes() []*Cursor {
	var cursors []*Cursor
	for cur := c.Child(); cur != nil; cur = cur.Advance() {
		cursors = append(cursors, cur)
	}
	return cursors
}

func (c *Cursor) fail() {
	c.failed = true
}

func (c *Cursor) take(n int) ([]byte, bool) {
	if c.failed || c.pos+n > len(c.node.Payload) {
		c.fail()
		return nil, false
	}
	b := c.node.Payload[c.pos : c.pos+n]
	c.pos += n
	return b, true
}

// GetU8 reads one byte.
func (c *Cursor) GetU8() (uint8, bool) {
	b, ok := c.take(1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

// GetByte is an alias for GetU8.
func (c *Cursor) GetByte() (byte, bool) { return c.GetU8() }

// GetU16 reads a little-endian u16.
func (c *Cursor) GetU16() (uint16, bool) {
	b, ok := c.take(2)
	if !ok {
		return 0, false
	}
	return uint16(b[0]) | uint16(b[1])<<8, true
}

// GetU32 reads a little-endian u32.
func (c *Cursor) GetU32() (uint32, bool) {
	b, ok := c.take(4)
	if !ok {
		return 0, false
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, true
}

// GetString reads a u16 length prefix followed by that many raw
// bytes. Strings are byte-preserving: no UTF-8 enforcement, no
// terminator.
func (c *Cursor) GetString() (string, bool) {
	n, ok := c.GetU16()
	if !ok {
		return "", false
	}
	b, ok := c.take(int(n))
	if !ok {
		return "", false
	}
	return string(b), true
}

// Skip discards n bytes of payload without interpreting them.
func (c *Cursor) Skip(n int) bool {
	_, ok := c.take(n)
	return ok
}

// Remaining reports how many payload bytes are left unconsumed.
func (c *Cursor) Remaining() int {
	if c.pos > len(c.node.Payload) {
		return 0
	}
	return len(c.node.Payload) - c.pos
}

// AtEnd reports whether the payload has been fully consumed.
func (c *Cursor) AtEnd() bool { return c.Remaining() == 0 }
