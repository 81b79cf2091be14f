package tree

import (
	"encoding/binary"
	"math"

	"github.com/bits-and-blooms/bitset"
)

// LeafColumn in the column slot marks a leaf node.
const LeafColumn = 65535

// NADir is the encoded rule for routing missing values at a split.
type NADir uint8

// NA split directions.
const (
	NANone   NADir = 0
	NAVsRest NADir = 1 // Split separates missing values from everything else.
	NALeft   NADir = 2
	NARight  NADir = 3
	Left     NADir = 4
	Right    NADir = 5
)

// leftward reports whether missing values go left.
func (d NADir) leftward() bool {
	return d == NALeft || d == Left
}

// Split kinds (node type bits 2-3).
const (
	splitNumeric = 0
	splitLegacy  = 4 // No longer produced.
	splitBitset2 = 8
	splitBitset3 = 12
)

// Skip-width masks (node type bits 0,1,4,5).
const (
	maskSkip1      = 0
	maskSkip2      = 1
	maskSkip3      = 2
	maskSkip4      = 3
	maskSmallLeaf  = 16
	maskInlineLeaf = 48
	maskLeafBit    = 16
)

// walker scores trees for a single call. Its bitset is the call-scoped scratch
// buffer for categorical splits, allocated on the first categorical split.
type walker struct {
	order    binary.ByteOrder
	nclasses int
	bits     *bitset.BitSet
	nbits    int
}

// Score walks one tree for row and returns the leaf value it lands on.
func Score(t Compressed, row []float64, order binary.ByteOrder, nclasses int) (float64, error) {
	w := walker{order: order, nclasses: nclasses}
	return w.score(t, row)
}

func (w *walker) score(t Compressed, row []float64) (float64, error) {
	c := cursor{buf: t, order: w.order}
	for {
		start := c.pos
		nodeType := c.u1()
		col := c.u2()
		if c.err != nil {
			return 0, c.err
		}
		if col == LeafColumn {
			return w.leaf(&c)
		}

		naDir := NADir(c.u1()) //nolint:gosec // G115: u1 is a single byte.
		naVsRest := naDir == NAVsRest
		lmask := nodeType & 51
		equal := nodeType & 12
		if equal == splitLegacy {
			return 0, &CorruptError{Offset: start, Reason: "unsupported split kind 4"}
		}

		var splitVal float32
		if !naVsRest {
			if equal == splitNumeric {
				splitVal = c.f4()
			} else {
				w.fill(&c, equal)
			}
		}
		if c.err != nil {
			return 0, c.err
		}
		if col >= len(row) {
			return 0, &CorruptError{Offset: start, Reason: "split column out of range of the input row"}
		}

		if w.goRight(row[col], naDir, equal, splitVal) {
			switch lmask {
			case maskSkip1:
				c.skip(c.u1())
			case maskSkip2:
				c.skip(c.u2())
			case maskSkip3:
				c.skip(c.u3())
			case maskSkip4:
				c.skip(c.i4())
			case maskSmallLeaf:
				if w.nclasses < 256 {
					c.skip(1)
				} else {
					c.skip(2)
				}
			case maskInlineLeaf:
				c.skip(4)
			default:
				return 0, &CorruptError{Offset: start, Reason: "illegal left skip mask"}
			}
			lmask = (nodeType & 0xC0) >> 2
		} else if lmask <= maskSkip4 {
			// Left subtree follows its skip field.
			c.skip(lmask + 1)
		}
		if c.err != nil {
			return 0, c.err
		}

		if lmask&maskLeafBit != 0 {
			return w.leaf(&c)
		}
	}
}

func (w *walker) leaf(c *cursor) (float64, error) {
	v := c.f4()
	if c.err != nil {
		return 0, c.err
	}
	return float64(v), nil
}

// goRight decides the branch for value d.
func (w *walker) goRight(d float64, naDir NADir, equal int, splitVal float32) bool {
	switch {
	case math.IsNaN(d):
		return !naDir.leftward()
	case naDir == NAVsRest:
		// Non-missing values route right as well, so both outcomes share a
		// branch. Open question, see NaVsRest routing in DESIGN.md.
		return true
	case equal == splitNumeric:
		return d >= float64(splitVal)
	default:
		return w.contains(d)
	}
}

// fill loads a 2 or 3 byte categorical bitset into the scratch set.
func (w *walker) fill(c *cursor, equal int) {
	n := 2
	if equal == splitBitset3 {
		n = 3
	}
	b := c.take(n)
	if b == nil {
		return
	}
	if w.bits == nil {
		w.bits = bitset.New(24)
	} else {
		w.bits.ClearAll()
	}
	for i, v := range b {
		for j := 0; j < 8; j++ {
			if v&(1<<j) != 0 {
				w.bits.Set(uint(i*8 + j)) //nolint:gosec // G115: index below 24.
			}
		}
	}
	w.nbits = n * 8
}

// contains tests level membership; the level is d truncated toward zero.
func (w *walker) contains(d float64) bool {
	if d <= -1 || d >= float64(w.nbits) {
		return false
	}
	return w.bits.Test(uint(int(d))) //nolint:gosec // G115: range checked above.
}
