package compose

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/grindlemire/go-compose/geom"
	"github.com/grindlemire/go-compose/internal/arena"
	"github.com/grindlemire/go-compose/internal/debug"
)

// RenderRoot owns a widget tree and runs passes over it. Widgets and their
// states live in two arenas keyed by WidgetID with identical shape.
//
// A RenderRoot is not safe for concurrent use. Passes run to completion on
// the calling goroutine and the tree cannot be mutated while one is running.
type RenderRoot struct {
	widgets *arena.Tree[WidgetID, Widget]
	states  *arena.Tree[WidgetID, WidgetState]
	root    WidgetID
	size    geom.Size
	global  globalState

	// pass names the pass currently running, "" when idle.
	pass string
}

// NewRenderRoot creates a RenderRoot whose tree holds only root.
func NewRenderRoot(root Widget, opts ...Option) (*RenderRoot, error) {
	if root == nil {
		return nil, errors.New("root widget must not be nil")
	}

	r := &RenderRoot{
		widgets: arena.New[WidgetID, Widget](64),
		states:  arena.New[WidgetID, WidgetState](64),
		size:    DefaultSize,
		global: globalState{
			logger:   debug.Logger(),
			maxDepth: DefaultMaxDepth,
		},
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	r.root = NewWidgetID()
	state := newWidgetState(r.root, root)
	// The first compose pass must reach the root so every window origin
	// becomes valid.
	state.needsCompose = true
	if err := r.widgets.InsertRoot(r.root, root); err != nil {
		return nil, err
	}
	if err := r.states.InsertRoot(r.root, state); err != nil {
		return nil, err
	}
	return r, nil
}

// Root returns the id of the root widget.
func (r *RenderRoot) Root() WidgetID {
	return r.root
}

// Size returns the size the root is laid out in.
func (r *RenderRoot) Size() geom.Size {
	return r.size
}

// SetSize changes the root size and schedules a layout.
func (r *RenderRoot) SetSize(size geom.Size) {
	r.assertIdle("SetSize")
	if size == r.size {
		return
	}
	r.size = size
	s, _ := r.states.Get(r.root)
	s.needsLayout = true
	s.requestLayout = true
}

// Len returns the number of mounted widgets.
func (r *RenderRoot) Len() int {
	return r.states.Len()
}

// Widget returns the behavior mounted under id.
func (r *RenderRoot) Widget(id WidgetID) (Widget, bool) {
	w, ok := r.widgets.Get(id)
	if !ok {
		return nil, false
	}
	return *w, true
}

// State returns a snapshot of the state of id.
func (r *RenderRoot) State(id WidgetID) (WidgetStateView, bool) {
	s, ok := r.states.Get(id)
	if !ok {
		return WidgetStateView{}, false
	}
	return s.view(), true
}

// Parent returns the parent of id; ok is false for the root and unknown ids.
func (r *RenderRoot) Parent(id WidgetID) (WidgetID, bool) {
	return r.states.Parent(id)
}

// Children returns the children of id in order.
func (r *RenderRoot) Children(id WidgetID) []WidgetID {
	return slices.Clone(r.states.Children(id))
}

// Walk calls fn for id and every descendant in depth-first pre-order.
func (r *RenderRoot) Walk(id WidgetID, fn func(id WidgetID, depth int)) {
	r.walk(id, 0, fn)
}

func (r *RenderRoot) walk(id WidgetID, depth int, fn func(WidgetID, int)) {
	if !r.states.Contains(id) {
		return
	}
	fn(id, depth)
	for _, child := range r.states.Children(id) {
		r.walk(child, depth+1, fn)
	}
}

// EditWidget runs fn with mutable access to the widget id between passes.
// Requests made through the WidgetMut are merged up to the root so the next
// pass reaches the widget.
func (r *RenderRoot) EditWidget(id WidgetID, fn func(w *WidgetMut)) error {
	r.assertIdle("EditWidget")
	w, ok := r.widgets.Get(id)
	if !ok {
		return errors.Newf("edit: widget %s not found", id)
	}
	s, _ := r.states.Get(id)
	fn(&WidgetMut{Widget: *w, state: s})
	r.propagateUp(id)
	return nil
}

// propagateUp merges the needs-bits of id into each of its ancestors.
func (r *RenderRoot) propagateUp(id WidgetID) {
	child, ok := r.states.Get(id)
	if !ok {
		return
	}
	for anc := range r.states.Ancestors(id) {
		parent, _ := r.states.Get(anc)
		parent.MergeUp(child)
		child = parent
	}
}

// PopSignal removes and returns the oldest queued signal.
func (r *RenderRoot) PopSignal() (Signal, bool) {
	if len(r.global.signals) == 0 {
		return nil, false
	}
	s := r.global.signals[0]
	r.global.signals[0] = nil
	r.global.signals = r.global.signals[1:]
	return s, true
}

// DrainSignals removes and returns every queued signal, oldest first.
func (r *RenderRoot) DrainSignals() []Signal {
	out := r.global.signals
	r.global.signals = nil
	return out
}

// NeedsPointerPass reports whether pointer hit-testing must be redone
// because widgets may have moved under the pointer.
func (r *RenderRoot) NeedsPointerPass() bool {
	return r.global.needsPointerPass
}

// ClearPointerPass acknowledges NeedsPointerPass.
func (r *RenderRoot) ClearPointerPass() {
	r.global.needsPointerPass = false
}

// LastComposePass returns the statistics of the most recent compose pass.
func (r *RenderRoot) LastComposePass() PassStats {
	return r.global.last
}

// Trace returns the current instrumentation toggles.
func (r *RenderRoot) Trace() Trace {
	return r.global.trace
}

// SetTrace changes the instrumentation toggles.
func (r *RenderRoot) SetTrace(t Trace) {
	r.global.trace = t
}

// ClearDownstreamFlags is called by the paint and accessibility
// integrations once they have consumed the tree: it clears the paint and
// accessibility bits the compose and layout passes set.
func (r *RenderRoot) ClearDownstreamFlags() {
	r.assertIdle("ClearDownstreamFlags")
	r.Walk(r.root, func(id WidgetID, _ int) {
		s, _ := r.states.Get(id)
		s.needsPaint = false
		s.requestPaint = false
		s.needsAccessibility = false
		s.requestAccessibility = false
	})
}

// RunRewritePasses runs layout when needed, then compose, and asks for a
// redraw if anything now needs paint.
func (r *RenderRoot) RunRewritePasses() {
	r.RunLayoutPass()
	r.RunComposePass()
	if s, _ := r.states.Get(r.root); s.needsPaint {
		r.global.emitSignal(RequestRedrawSignal{})
	}
}

// rootPair returns the widget and state handles of the root.
func (r *RenderRoot) rootPair() (arena.Mut[WidgetID, Widget], arena.Mut[WidgetID, WidgetState]) {
	w, ok := r.widgets.Mut(r.root)
	if !ok {
		panic(errors.AssertionFailedf("compose: root %s missing from widget arena", r.root))
	}
	s, ok := r.states.Mut(r.root)
	if !ok {
		panic(errors.AssertionFailedf("compose: root %s missing from state arena", r.root))
	}
	return w, s
}

// beginPass marks a pass as running and freezes the tree structure.
func (r *RenderRoot) beginPass(name string) (end func()) {
	if r.pass != "" {
		panic(errors.AssertionFailedf("compose: %s pass started while the %s pass is running",
			errors.Safe(name), errors.Safe(r.pass)))
	}
	r.pass = name
	unfreezeWidgets := r.widgets.Freeze()
	unfreezeStates := r.states.Freeze()
	return func() {
		unfreezeStates()
		unfreezeWidgets()
		r.pass = ""
	}
}

func (r *RenderRoot) assertIdle(op string) {
	if r.pass != "" {
		panic(errors.AssertionFailedf("compose: %s called during the %s pass",
			errors.Safe(op), errors.Safe(r.pass)))
	}
}
