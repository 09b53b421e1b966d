// Package heap implements the engine's monotonically-growing aggregate
// arenas: fixed arrays, growable vecs, character buffers, and struct
// instances. Entries are never reclaimed (spec Non-goal: no GC), and heap
// IDs are stable for the process lifetime once issued.
package heap

import (
	"fmt"

	"github.com/rxlang/reactive/internal/vmvalue"
)

// cellSet is a small growable set of immutable cell indices, shared by
// ArrayHeap and VecHeap.
type cellSet map[int]struct{}

func (s cellSet) has(i int) bool { _, ok := s[i]; return ok }
func (s cellSet) mark(i int)     { s[i] = struct{}{} }

// ArrayHeap stores fixed-length arrays of Values, each with its own set
// of indices that have been marked immutable by StoreThroughImmutable.
type ArrayHeap struct {
	cells      [][]vmvalue.Value
	immutables []cellSet
}

// New allocates a fresh array of n Integer(0) cells and returns its ID.
func (h *ArrayHeap) New(n int) vmvalue.ArrayRef {
	cells := make([]vmvalue.Value, n)
	for i := range cells {
		cells[i] = vmvalue.Integer(0)
	}
	id := len(h.cells)
	h.cells = append(h.cells, cells)
	h.immutables = append(h.immutables, cellSet{})
	return vmvalue.ArrayRef(id)
}

func (h *ArrayHeap) deref(id vmvalue.ArrayRef) ([]vmvalue.Value, error) {
	i := int(id)
	if i < 0 || i >= len(h.cells) {
		return nil, fmt.Errorf("unknown array reference %d", i)
	}
	return h.cells[i], nil
}

// Len returns the fixed length of the array.
func (h *ArrayHeap) Len(id vmvalue.ArrayRef) (int, error) {
	c, err := h.deref(id)
	if err != nil {
		return 0, err
	}
	return len(c), nil
}

// Get returns the raw (possibly lazy) value at index.
func (h *ArrayHeap) Get(id vmvalue.ArrayRef, index int) (vmvalue.Value, error) {
	c, err := h.deref(id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(c) {
		return nil, fmt.Errorf("array index %d out of range (len %d)", index, len(c))
	}
	return c[index], nil
}

// Set writes v into index, rejecting writes into a cell previously marked
// immutable.
func (h *ArrayHeap) Set(id vmvalue.ArrayRef, index int, v vmvalue.Value) error {
	c, err := h.deref(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(c) {
		return fmt.Errorf("array index %d out of range (len %d)", index, len(c))
	}
	if h.immutables[int(id)].has(index) {
		return fmt.Errorf("cannot write through immutable array cell %d", index)
	}
	c[index] = v
	return nil
}

// MarkImmutable flags index as immutable after a successful write.
func (h *ArrayHeap) MarkImmutable(id vmvalue.ArrayRef, index int) {
	h.immutables[int(id)].mark(index)
}

// VecHeap stores growable vecs. Push appends; Pop removes the last
// element and is a Bounds error on an empty vec. Pop also clears the
// popped cell's immutable mark, so a cell later pushed at that index
// starts out mutable; the marks of the remaining cells are unchanged.
type VecHeap struct {
	cells      [][]vmvalue.Value
	immutables []cellSet
}

// New allocates an empty vec and returns its ID.
func (h *VecHeap) New() vmvalue.VecRef {
	id := len(h.cells)
	h.cells = append(h.cells, nil)
	h.immutables = append(h.immutables, cellSet{})
	return vmvalue.VecRef(id)
}

func (h *VecHeap) deref(id vmvalue.VecRef) ([]vmvalue.Value, error) {
	i := int(id)
	if i < 0 || i >= len(h.cells) {
		return nil, fmt.Errorf("unknown vec reference %d", i)
	}
	return h.cells[i], nil
}

func (h *VecHeap) Len(id vmvalue.VecRef) (int, error) {
	c, err := h.deref(id)
	if err != nil {
		return 0, err
	}
	return len(c), nil
}

func (h *VecHeap) Get(id vmvalue.VecRef, index int) (vmvalue.Value, error) {
	c, err := h.deref(id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(c) {
		return nil, fmt.Errorf("vec index %d out of range (len %d)", index, len(c))
	}
	return c[index], nil
}

func (h *VecHeap) Set(id vmvalue.VecRef, index int, v vmvalue.Value) error {
	c, err := h.deref(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(c) {
		return fmt.Errorf("vec index %d out of range (len %d)", index, len(c))
	}
	if h.immutables[int(id)].has(index) {
		return fmt.Errorf("cannot write through immutable vec cell %d", index)
	}
	c[index] = v
	return nil
}

func (h *VecHeap) MarkImmutable(id vmvalue.VecRef, index int) {
	h.immutables[int(id)].mark(index)
}

func (h *VecHeap) Push(id vmvalue.VecRef, v vmvalue.Value) error {
	c, err := h.deref(id)
	if err != nil {
		return err
	}
	h.cells[int(id)] = append(c, v)
	return nil
}

func (h *VecHeap) Pop(id vmvalue.VecRef) (vmvalue.Value, error) {
	c, err := h.deref(id)
	if err != nil {
		return nil, err
	}
	if len(c) == 0 {
		return nil, fmt.Errorf("pop from empty vec")
	}
	last := c[len(c)-1]
	h.cells[int(id)] = c[:len(c)-1]
	imm := h.immutables[int(id)]
	delete(imm, len(c)-1)
	return last, nil
}

// BufferHeap stores raw append-only rune buffers, narrower than an
// ArrayRef of Char and optimized for text building.
type BufferHeap struct {
	cells [][]rune
}

func (h *BufferHeap) New() vmvalue.BufferRef {
	id := len(h.cells)
	h.cells = append(h.cells, nil)
	return vmvalue.BufferRef(id)
}

func (h *BufferHeap) deref(id vmvalue.BufferRef) ([]rune, error) {
	i := int(id)
	if i < 0 || i >= len(h.cells) {
		return nil, fmt.Errorf("unknown buffer reference %d", i)
	}
	return h.cells[i], nil
}

func (h *BufferHeap) PushChar(id vmvalue.BufferRef, r rune) error {
	c, err := h.deref(id)
	if err != nil {
		return err
	}
	h.cells[int(id)] = append(c, r)
	return nil
}

func (h *BufferHeap) PushString(id vmvalue.BufferRef, s string) error {
	c, err := h.deref(id)
	if err != nil {
		return err
	}
	h.cells[int(id)] = append(c, []rune(s)...)
	return nil
}

func (h *BufferHeap) String(id vmvalue.BufferRef) (string, error) {
	c, err := h.deref(id)
	if err != nil {
		return "", err
	}
	return string(c), nil
}

// StructInstance is a heap-allocated struct value: a mapping from field
// name to current Value plus the set of field names that refuse
// reassignment.
type StructInstance struct {
	Fields     map[string]vmvalue.Value
	Immutables map[string]struct{}
}

// StructHeap stores struct instances.
type StructHeap struct {
	instances []*StructInstance
}

// New allocates an empty instance (fields populated by the caller during
// field-initializer evaluation) and returns its ID.
func (h *StructHeap) New() vmvalue.StructRef {
	id := len(h.instances)
	h.instances = append(h.instances, &StructInstance{
		Fields:     make(map[string]vmvalue.Value),
		Immutables: make(map[string]struct{}),
	})
	return vmvalue.StructRef(id)
}

func (h *StructHeap) Instance(id vmvalue.StructRef) (*StructInstance, error) {
	i := int(id)
	if i < 0 || i >= len(h.instances) {
		return nil, fmt.Errorf("unknown struct reference %d", i)
	}
	return h.instances[i], nil
}

func (inst *StructInstance) Get(field string) (vmvalue.Value, bool) {
	v, ok := inst.Fields[field]
	return v, ok
}

func (inst *StructInstance) Set(field string, v vmvalue.Value) error {
	if _, immutable := inst.Immutables[field]; immutable {
		return fmt.Errorf("cannot write through immutable field %q", field)
	}
	inst.Fields[field] = v
	return nil
}

func (inst *StructInstance) MarkImmutable(field string) {
	inst.Immutables[field] = struct{}{}
}

// Heaps bundles the four aggregate arenas the engine owns.
type Heaps struct {
	Arrays  ArrayHeap
	Vecs    VecHeap
	Buffers BufferHeap
	Structs StructHeap
}
