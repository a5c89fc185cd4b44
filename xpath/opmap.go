package xpath

import (
	"slices"
)

const (
	defaultMapSize  = 2500
	defaultMapBlock = 2500
)

// OpMap is the growable buffer the compilers write into. Slot 0 holds the
// opcode of the root record and slot MapIndexLength the number of used
// slots, which can be smaller than the capacity of the buffer.
type OpMap struct {
	ops   []int32
	block int
}

func NewOpMap() *OpMap {
	return NewOpMapSize(defaultMapSize, defaultMapBlock)
}

func NewOpMapSize(size, block int) *OpMap {
	if size <= MapIndexLength {
		size = MapIndexLength + 1
	}
	if block <= 0 {
		block = defaultMapBlock
	}
	return &OpMap{
		ops:   make([]int32, size),
		block: block,
	}
}

func (m *OpMap) Get(i int) int32 {
	if i < 0 || i >= len(m.ops) {
		return 0
	}
	return m.ops[i]
}

// Set writes v at i, growing the buffer by whole blocks when i is beyond
// its capacity. Only the used slots survive a growth, everything after
// them is zero.
func (m *OpMap) Set(i int, v int32) {
	m.ensure(i + 1)
	m.ops[i] = v
}

func (m *OpMap) ensure(n int) {
	if n <= len(m.ops) {
		return
	}
	size := len(m.ops)
	for size < n {
		size += m.block
	}
	ops := make([]int32, size)
	copy(ops, m.ops[:min(m.Len(), len(m.ops))])
	ops[MapIndexLength] = m.ops[MapIndexLength]
	m.ops = ops
}

func (m *OpMap) Cap() int {
	return len(m.ops)
}

func (m *OpMap) Len() int {
	return int(m.ops[MapIndexLength])
}

func (m *OpMap) SetLen(n int) {
	m.Set(MapIndexLength, int32(n))
}

// Reserve advances the used length by n slots left for later writes.
func (m *OpMap) Reserve(n int) int {
	pos := m.Len()
	m.ensure(pos + n)
	m.SetLen(pos + n)
	return pos
}

// Push writes v in the first unused slot.
func (m *OpMap) Push(v int32) {
	pos := m.Len()
	m.Set(pos, v)
	m.SetLen(pos + 1)
}

// Append writes the header of a record of the given length at the end of
// the map and marks all its slots as used.
func (m *OpMap) Append(length int, op int32) int {
	pos := m.Len()
	m.ensure(pos + length)
	m.ops[pos] = op
	m.ops[pos+MapIndexLength] = int32(length)
	m.SetLen(pos + length)
	return pos
}

// Insert opens length slots at pos, moving everything from pos up to the
// end of the map to the right, and writes op in the first of them. The
// length of the inserted record is left for the caller to set.
func (m *OpMap) Insert(pos, length int, op int32) {
	total := m.Len()
	m.ensure(total + length)
	copy(m.ops[pos+length:total+length], m.ops[pos:total])
	for i := 1; i < length; i++ {
		m.ops[pos+i] = 0
	}
	m.ops[pos] = op
	m.SetLen(total + length)
}

// Terminate closes the current record with an EndOp.
func (m *OpMap) Terminate() {
	m.Push(EndOp)
}

// Patch sets the length of the record at pos so that it spans up to the
// end of the map.
func (m *OpMap) Patch(pos int) {
	m.Set(pos+MapIndexLength, int32(m.Len()-pos))
}

func (m *OpMap) Shrink() {
	m.ops = slices.Clip(slices.Clone(m.ops[:m.Len()]))
}

func (m *OpMap) Slice() []int32 {
	return m.ops[:m.Len()]
}
