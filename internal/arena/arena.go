// Package arena stores a forest of items in id-addressed slots.
//
// Every item lives in one slot of a flat slice; an index maps stable ids to
// slot numbers and each slot records its parent slot and its ordered child
// ids. A Mut handle pairs one item with a ChildrenMut view that can only
// reach that item's direct children, so a parent and each of its children
// are always addressed through disjoint slots.
package arena

import (
	"iter"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/swiss"
)

const noParent = -1

// Tree is an arena of items keyed by K with parent/children adjacency.
// The zero value is not usable; call New.
type Tree[K comparable, T any] struct {
	index swiss.Map[K, int32]
	slots []slot[K, T]
	free  []int32

	// frozen counts outstanding Freeze calls. Structural changes are
	// rejected while it is non-zero, which also keeps slot pointers
	// handed out through Mut stable.
	frozen int
}

type slot[K comparable, T any] struct {
	id       K
	item     T
	parent   int32
	children []K
	live     bool
}

// New returns an empty tree sized for roughly capacity items.
func New[K comparable, T any](capacity int) *Tree[K, T] {
	t := &Tree[K, T]{}
	t.index.Init(capacity)
	return t
}

// Len returns the number of items in the tree.
func (t *Tree[K, T]) Len() int {
	return t.index.Len()
}

// Contains reports whether id is present.
func (t *Tree[K, T]) Contains(id K) bool {
	_, ok := t.index.Get(id)
	return ok
}

// InsertRoot adds a parentless item.
func (t *Tree[K, T]) InsertRoot(id K, item T) error {
	return t.insert(noParent, id, item)
}

// Insert adds item as the last child of parent.
func (t *Tree[K, T]) Insert(parent, id K, item T) error {
	p, ok := t.index.Get(parent)
	if !ok {
		return errors.Newf("arena: parent %v not found", parent)
	}
	return t.insert(p, id, item)
}

func (t *Tree[K, T]) insert(parent int32, id K, item T) error {
	t.assertMutable("insert")
	if _, ok := t.index.Get(id); ok {
		return errors.Newf("arena: id %v already present", id)
	}

	var idx int32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		idx = int32(len(t.slots))
		t.slots = append(t.slots, slot[K, T]{})
	}
	t.slots[idx] = slot[K, T]{id: id, item: item, parent: parent, live: true}
	t.index.Put(id, idx)

	if parent != noParent {
		t.slots[parent].children = append(t.slots[parent].children, id)
	}
	return nil
}

// Remove deletes id and its whole subtree, returning the item stored at id.
func (t *Tree[K, T]) Remove(id K) (T, bool) {
	t.assertMutable("remove")
	var zero T
	idx, ok := t.index.Get(id)
	if !ok {
		return zero, false
	}

	if p := t.slots[idx].parent; p != noParent {
		t.slots[p].children = deleteID(t.slots[p].children, id)
	}

	item := t.slots[idx].item
	t.release(idx)
	return item, true
}

func (t *Tree[K, T]) release(idx int32) {
	s := &t.slots[idx]
	for _, child := range s.children {
		if c, ok := t.index.Get(child); ok {
			t.release(c)
		}
	}
	t.index.Delete(s.id)
	*s = slot[K, T]{parent: noParent}
	t.free = append(t.free, idx)
}

func deleteID[K comparable](ids []K, id K) []K {
	for i, c := range ids {
		if c == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// Get returns a pointer to the item stored under id.
// The pointer is only guaranteed stable while the tree is frozen.
func (t *Tree[K, T]) Get(id K) (*T, bool) {
	idx, ok := t.index.Get(id)
	if !ok {
		return nil, false
	}
	return &t.slots[idx].item, true
}

// Parent returns the parent id of id. ok is false for roots and unknown ids.
func (t *Tree[K, T]) Parent(id K) (parent K, ok bool) {
	idx, found := t.index.Get(id)
	if !found || t.slots[idx].parent == noParent {
		return parent, false
	}
	return t.slots[t.slots[idx].parent].id, true
}

// Children returns the child ids of id in order. The returned slice must
// not be modified.
func (t *Tree[K, T]) Children(id K) []K {
	idx, ok := t.index.Get(id)
	if !ok {
		return nil
	}
	return t.slots[idx].children
}

// Ancestors yields the ids from the parent of id up to its root.
func (t *Tree[K, T]) Ancestors(id K) iter.Seq[K] {
	return func(yield func(K) bool) {
		idx, ok := t.index.Get(id)
		if !ok {
			return
		}
		for p := t.slots[idx].parent; p != noParent; p = t.slots[p].parent {
			if !yield(t.slots[p].id) {
				return
			}
		}
	}
}

// Mut returns a mutable handle on id and its direct children.
func (t *Tree[K, T]) Mut(id K) (Mut[K, T], bool) {
	idx, ok := t.index.Get(id)
	if !ok {
		return Mut[K, T]{}, false
	}
	return t.mutAt(idx), true
}

func (t *Tree[K, T]) mutAt(idx int32) Mut[K, T] {
	s := &t.slots[idx]
	return Mut[K, T]{
		ID:       s.id,
		Item:     &s.item,
		Children: ChildrenMut[K, T]{tree: t, parent: idx},
	}
}

// Freeze rejects structural changes until the returned func is called.
// Freezes nest.
func (t *Tree[K, T]) Freeze() (unfreeze func()) {
	t.frozen++
	var done bool
	return func() {
		if done {
			return
		}
		done = true
		t.frozen--
	}
}

// Frozen reports whether structural changes are currently rejected.
func (t *Tree[K, T]) Frozen() bool {
	return t.frozen > 0
}

func (t *Tree[K, T]) assertMutable(op string) {
	if t.frozen > 0 {
		panic(errors.AssertionFailedf("arena: %s while the tree is frozen", errors.Safe(op)))
	}
}

// Mut is a mutable handle on a single item. Item points into the arena;
// Children reaches only this item's direct children.
type Mut[K comparable, T any] struct {
	ID       K
	Item     *T
	Children ChildrenMut[K, T]
}

// ChildrenMut hands out mutable handles for the direct children of one item.
type ChildrenMut[K comparable, T any] struct {
	tree   *Tree[K, T]
	parent int32
}

// IDs returns the child ids in order. The returned slice must not be modified.
func (c ChildrenMut[K, T]) IDs() []K {
	if c.tree == nil {
		return nil
	}
	return c.tree.slots[c.parent].children
}

// Get returns a handle on the direct child id. ok is false when id is not
// a direct child of the owning item.
func (c ChildrenMut[K, T]) Get(id K) (Mut[K, T], bool) {
	if c.tree == nil {
		return Mut[K, T]{}, false
	}
	idx, ok := c.tree.index.Get(id)
	if !ok || c.tree.slots[idx].parent != c.parent {
		return Mut[K, T]{}, false
	}
	return c.tree.mutAt(idx), true
}
