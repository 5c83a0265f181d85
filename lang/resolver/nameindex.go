package resolver

import "github.com/dolthub/swiss"

// nameIndex accelerates "find the innermost binding named X" over an
// append-only slice of bindings: it tracks, per name, the stack of
// slice positions that name currently occupies. Because bindings are
// always popped in LIFO order relative to their own name (shadowing
// nests, it never interleaves), a simple index stack kept in sync with
// push/pop is sufficient and avoids rescanning the whole slice for every
// identifier use in a large function or module — the same kind of
// hot, lookup-heavy map the teacher's machine.Map backs with swiss.Map.
type nameIndex struct {
	m *swiss.Map[string, []int]
}

func newNameIndex() *nameIndex {
	return &nameIndex{m: swiss.NewMap[string, []int](8)}
}

func (n *nameIndex) push(name string, idx int) {
	stack, _ := n.m.Get(name)
	n.m.Put(name, append(stack, idx))
}

// pop removes the most recently pushed index for name. It is the caller's
// responsibility to only call it for a name it knows was pushed (endBlock
// pops bindings in the reverse of the order they were appended).
func (n *nameIndex) pop(name string) {
	stack, ok := n.m.Get(name)
	if !ok || len(stack) == 0 {
		return
	}
	n.m.Put(name, stack[:len(stack)-1])
}

// top returns the most recently pushed index for name, if any.
func (n *nameIndex) top(name string) (int, bool) {
	stack, ok := n.m.Get(name)
	if !ok || len(stack) == 0 {
		return 0, false
	}
	return stack[len(stack)-1], true
}
