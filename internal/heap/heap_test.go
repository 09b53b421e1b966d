package heap_test

import (
	"testing"

	"github.com/rxlang/reactive/internal/heap"
	"github.com/rxlang/reactive/internal/vmvalue"
	"github.com/stretchr/testify/require"
)

func TestArrayHeapGetSetAndImmutability(t *testing.T) {
	var h heap.ArrayHeap
	ref := h.New(3)

	n, err := h.Len(ref)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	require.NoError(t, h.Set(ref, 1, vmvalue.Integer(7)))
	v, err := h.Get(ref, 1)
	require.NoError(t, err)
	require.Equal(t, vmvalue.Integer(7), v)

	h.MarkImmutable(ref, 1)
	err = h.Set(ref, 1, vmvalue.Integer(9))
	require.ErrorContains(t, err, "immutable")

	_, err = h.Get(ref, 5)
	require.ErrorContains(t, err, "out of range")
}

func TestVecHeapPushPop(t *testing.T) {
	var h heap.VecHeap
	ref := h.New()

	require.NoError(t, h.Push(ref, vmvalue.Integer(1)))
	require.NoError(t, h.Push(ref, vmvalue.Integer(2)))
	require.NoError(t, h.Push(ref, vmvalue.Integer(3)))

	n, err := h.Len(ref)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	last, err := h.Pop(ref)
	require.NoError(t, err)
	require.Equal(t, vmvalue.Integer(3), last)

	n, err = h.Len(ref)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestVecHeapPopFromEmptyIsError(t *testing.T) {
	var h heap.VecHeap
	ref := h.New()
	_, err := h.Pop(ref)
	require.ErrorContains(t, err, "empty")
}

func TestBufferHeapPushCharAndString(t *testing.T) {
	var h heap.BufferHeap
	ref := h.New()

	require.NoError(t, h.PushString(ref, "hello "))
	require.NoError(t, h.PushChar(ref, 'w'))

	s, err := h.String(ref)
	require.NoError(t, err)
	require.Equal(t, "hello w", s)
}

func TestStructHeapFieldsAndImmutability(t *testing.T) {
	var h heap.StructHeap
	ref := h.New()

	inst, err := h.Instance(ref)
	require.NoError(t, err)

	require.NoError(t, inst.Set("x", vmvalue.Integer(1)))
	v, ok := inst.Get("x")
	require.True(t, ok)
	require.Equal(t, vmvalue.Integer(1), v)

	inst.MarkImmutable("x")
	err = inst.Set("x", vmvalue.Integer(2))
	require.ErrorContains(t, err, "immutable")

	_, ok = inst.Get("missing")
	require.False(t, ok)
}

func TestUnknownReferencesAreErrors(t *testing.T) {
	var arrays heap.ArrayHeap
	_, err := arrays.Get(vmvalue.ArrayRef(42), 0)
	require.ErrorContains(t, err, "unknown array reference")

	var structs heap.StructHeap
	_, err = structs.Instance(vmvalue.StructRef(42))
	require.ErrorContains(t, err, "unknown struct reference")
}
