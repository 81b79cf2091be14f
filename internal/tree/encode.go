package tree

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SplitKind selects the operand of a split node.
type SplitKind int

// Split kinds understood by the encoder.
const (
	Numeric SplitKind = iota // row[col] >= Threshold goes right
	Bitset2                  // levels 0-15, membership goes right
	Bitset3                  // levels 0-23, membership goes right
)

// Node is a decoded tree node, used to build compressed trees for tooling and tests.
// A node with nil children is a leaf.
type Node struct {
	Value float32 // Leaf value

	Col       int
	NA        NADir
	Kind      SplitKind
	Threshold float32
	Levels    []int // Categorical levels that go right
	Left      *Node
	Right     *Node
}

// IsLeaf reports whether n is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Encode serializes a tree. Leaves directly under a split are stored inline.
func Encode(root *Node, order binary.ByteOrder) (Compressed, error) {
	e := encoder{order: order}
	if err := e.node(root); err != nil {
		return nil, err
	}
	return e.buf, nil
}

type encoder struct {
	buf   []byte
	order binary.ByteOrder
}

func (e *encoder) node(n *Node) error {
	if n.IsLeaf() {
		e.buf = append(e.buf, 0)
		e.u2(LeafColumn)
		e.f4(n.Value)
		return nil
	}
	if n.Left == nil || n.Right == nil {
		return fmt.Errorf("split on column %d needs two children", n.Col)
	}
	if n.Col < 0 || n.Col >= LeafColumn {
		return fmt.Errorf("column %d out of range", n.Col)
	}

	left, err := e.child(n.Left)
	if err != nil {
		return err
	}
	right, err := e.child(n.Right)
	if err != nil {
		return err
	}

	lmask := maskInlineLeaf
	if !n.Left.IsLeaf() {
		switch size := len(left); {
		case size < 1<<8:
			lmask = maskSkip1
		case size < 1<<16:
			lmask = maskSkip2
		case size < 1<<24:
			lmask = maskSkip3
		default:
			lmask = maskSkip4
		}
	}
	rbits := 0
	if n.Right.IsLeaf() {
		rbits = maskInlineLeaf << 2
	}
	equal := splitNumeric
	switch n.Kind {
	case Bitset2:
		equal = splitBitset2
	case Bitset3:
		equal = splitBitset3
	}

	e.buf = append(e.buf, byte(lmask|equal|rbits))
	e.u2(uint16(n.Col)) //nolint:gosec // G115: checked above.
	e.buf = append(e.buf, byte(n.NA))
	if n.NA != NAVsRest {
		if err := e.operand(n); err != nil {
			return err
		}
	}
	if lmask <= maskSkip4 {
		e.skipField(lmask, len(left))
	}
	e.buf = append(e.buf, left...)
	e.buf = append(e.buf, right...)
	return nil
}

// child encodes a subtree on its own; inline leaves are just the value.
func (e *encoder) child(n *Node) ([]byte, error) {
	sub := encoder{order: e.order}
	if n.IsLeaf() {
		sub.f4(n.Value)
		return sub.buf, nil
	}
	if err := sub.node(n); err != nil {
		return nil, err
	}
	return sub.buf, nil
}

func (e *encoder) operand(n *Node) error {
	if n.Kind == Numeric {
		e.f4(n.Threshold)
		return nil
	}
	size := 2
	if n.Kind == Bitset3 {
		size = 3
	}
	bits := make([]byte, size)
	for _, lvl := range n.Levels {
		if lvl < 0 || lvl >= size*8 {
			return fmt.Errorf("level %d does not fit a %d-byte bitset", lvl, size)
		}
		bits[lvl>>3] |= 1 << (lvl & 7)
	}
	e.buf = append(e.buf, bits...)
	return nil
}

func (e *encoder) skipField(lmask, size int) {
	switch lmask {
	case maskSkip1:
		e.buf = append(e.buf, byte(size))
	case maskSkip2:
		e.u2(uint16(size)) //nolint:gosec // G115: size < 1<<16.
	case maskSkip3:
		e.buf = append(e.buf, byte(size), byte(size>>8), byte(size>>16))
	default:
		e.u4(uint32(size)) //nolint:gosec // G115: tree sizes fit int32.
	}
}

func (e *encoder) u2(v uint16) {
	var b [2]byte
	e.order.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) u4(v uint32) {
	var b [4]byte
	e.order.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) f4(v float32) {
	e.u4(math.Float32bits(v))
}
