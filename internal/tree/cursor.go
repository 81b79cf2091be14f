package tree

import (
	"encoding/binary"
	"math"
)

// cursor reads a tree front to back. Reads past the end yield zero values and
// latch a sticky error that the walker checks once per node.
type cursor struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
	err   error
}

func (c *cursor) take(n int) []byte {
	if c.err != nil {
		return nil
	}
	if n < 0 || c.pos+n > len(c.buf) {
		c.err = &CorruptError{Offset: c.pos, Reason: "read past end of tree"}
		return nil
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b
}

func (c *cursor) skip(n int) {
	_ = c.take(n)
}

func (c *cursor) u1() int {
	b := c.take(1)
	if b == nil {
		return 0
	}
	return int(b[0])
}

func (c *cursor) u2() int {
	b := c.take(2)
	if b == nil {
		return 0
	}
	return int(c.order.Uint16(b))
}

// u3 is always little-endian regardless of the tree byte order.
func (c *cursor) u3() int {
	b := c.take(3)
	if b == nil {
		return 0
	}
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16
}

func (c *cursor) i4() int {
	b := c.take(4)
	if b == nil {
		return 0
	}
	return int(int32(c.order.Uint32(b))) //nolint:gosec // G115: sign is checked by the caller.
}

func (c *cursor) f4() float32 {
	b := c.take(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(c.order.Uint32(b))
}
