package compose

import (
	"github.com/cockroachdb/errors"
)

// Mount adds w as the last child of parent and returns its new id.
func (r *RenderRoot) Mount(parent WidgetID, w Widget) (WidgetID, error) {
	id := NewWidgetID()
	if err := r.MountWithID(parent, id, w); err != nil {
		return 0, err
	}
	return id, nil
}

// MountWithID adds w under parent with a caller-chosen id.
// The parent is scheduled for layout and compose so the new widget gets
// a size, an origin and a window origin on the next passes.
func (r *RenderRoot) MountWithID(parent, id WidgetID, w Widget) error {
	r.assertIdle("Mount")
	if !id.IsValid() {
		return errors.New("mount: the zero WidgetID is reserved")
	}
	if w == nil {
		return errors.Newf("mount: nil widget for %s", id)
	}

	if err := r.widgets.Insert(parent, id, w); err != nil {
		return errors.Wrapf(err, "mounting %s under %s", id, parent)
	}
	if err := r.states.Insert(parent, id, newWidgetState(id, w)); err != nil {
		r.widgets.Remove(id)
		return errors.Wrapf(err, "mounting %s under %s", id, parent)
	}

	r.childrenChanged(parent)
	return nil
}

// Unmount removes id and its subtree. The root cannot be unmounted.
// Focus held inside the removed subtree is released.
func (r *RenderRoot) Unmount(id WidgetID) error {
	r.assertIdle("Unmount")
	if id == r.root {
		return errors.New("unmount: cannot remove the root widget")
	}
	parent, ok := r.states.Parent(id)
	if !ok {
		return errors.Newf("unmount: widget %s not found", id)
	}

	if r.isInSubtree(r.global.focused, id) {
		r.setFocus(0)
	}

	r.widgets.Remove(id)
	r.states.Remove(id)
	r.childrenChanged(parent)
	return nil
}

// isInSubtree reports whether id is root or one of its descendants.
func (r *RenderRoot) isInSubtree(id, root WidgetID) bool {
	if !id.IsValid() {
		return false
	}
	if id == root {
		return true
	}
	for anc := range r.states.Ancestors(id) {
		if anc == root {
			return true
		}
	}
	return false
}

// childrenChanged schedules layout and compose for a widget whose child
// list changed and merges that up to the root.
func (r *RenderRoot) childrenChanged(parent WidgetID) {
	s, ok := r.states.Get(parent)
	if !ok {
		return
	}
	s.needsLayout = true
	s.requestLayout = true
	s.needsCompose = true
	r.propagateUp(parent)
}
