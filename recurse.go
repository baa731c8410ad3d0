package compose

import (
	"github.com/cockroachdb/errors"
	"github.com/grindlemire/go-compose/internal/arena"
	"github.com/grindlemire/go-compose/internal/invariants"
)

// recurseOnChildren calls visit once for every direct child of a widget, in
// children order, with the child's widget and state handles.
//
// Child handles are fetched one at a time from the parent's ChildrenMut
// views, so siblings never alias and the parent's own state stays with the
// caller; visit typically recurses and then merges the child's state into
// the parent.
func recurseOnChildren(
	id WidgetID,
	widget arena.Mut[WidgetID, Widget],
	stateChildren arena.ChildrenMut[WidgetID, WidgetState],
	visit func(widget arena.Mut[WidgetID, Widget], state arena.Mut[WidgetID, WidgetState]),
) {
	ids := widget.Children.IDs()
	if invariants.Enabled {
		checkChildLists(id, ids, stateChildren.IDs())
	}

	for _, child := range ids {
		w, ok := widget.Children.Get(child)
		if !ok {
			panic(errors.AssertionFailedf("compose: %s lists unknown child %s", id, child))
		}
		s, ok := stateChildren.Get(child)
		if !ok {
			panic(errors.AssertionFailedf("compose: child %s of %s has no state", child, id))
		}
		visit(w, s)
	}
}

// checkChildLists asserts that the widget and state arenas agree on the
// children of id and that no child is listed twice.
func checkChildLists(id WidgetID, widgets, states []WidgetID) {
	if len(widgets) != len(states) {
		panic(errors.AssertionFailedf("compose: %s has %d widget children but %d state children",
			id, len(widgets), len(states)))
	}
	seen := make(map[WidgetID]struct{}, len(widgets))
	for i, child := range widgets {
		if states[i] != child {
			panic(errors.AssertionFailedf("compose: child %d of %s is %s in the widget arena but %s in the state arena",
				i, id, child, states[i]))
		}
		if _, dup := seen[child]; dup {
			panic(errors.AssertionFailedf("compose: %s lists child %s twice", id, child))
		}
		seen[child] = struct{}{}
	}
}
