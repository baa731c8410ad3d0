package compose

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/grindlemire/go-compose/geom"
	"github.com/grindlemire/go-compose/layout"
	"github.com/stretchr/testify/require"
)

// composeRecord is what a testWidget observed during one Compose call.
type composeRecord struct {
	id           WidgetID
	translation  geom.Vec2
	windowOrigin geom.Point
}

// recording collects composeRecords across widgets.
type recording struct {
	records []composeRecord
}

func (r *recording) drain() []composeRecord {
	out := r.records
	r.records = nil
	return out
}

// testWidget is a configurable Widget for pass tests.
type testWidget struct {
	name      string
	rec       *recording
	onCompose func(ctx *ComposeCtx)
	style     *layout.Style
	textInput bool
	intrinsic geom.Size
}

func (w *testWidget) Compose(ctx *ComposeCtx) {
	if w.rec != nil {
		w.rec.records = append(w.rec.records, composeRecord{
			id:           ctx.WidgetID(),
			translation:  ctx.Translation(),
			windowOrigin: ctx.WindowOrigin(),
		})
	}
	if w.onCompose != nil {
		w.onCompose(ctx)
	}
}

func (w *testWidget) ShortTypeName() string {
	if w.name == "" {
		return "testWidget"
	}
	return w.name
}

func (w *testWidget) AcceptsTextInput() bool { return w.textInput }

func (w *testWidget) LayoutStyle() layout.Style {
	if w.style == nil {
		return layout.DefaultStyle()
	}
	return *w.style
}

func (w *testWidget) IntrinsicSize() geom.Size { return w.intrinsic }

// newTestRoot returns a RenderRoot with a testWidget root.
func newTestRoot(t *testing.T, opts ...Option) (*RenderRoot, *testWidget) {
	t.Helper()
	root := &testWidget{name: "root"}
	r, err := NewRenderRoot(root, opts...)
	require.NoError(t, err)
	return r, root
}

func mount(t *testing.T, r *RenderRoot, parent WidgetID, w Widget) WidgetID {
	t.Helper()
	id, err := r.Mount(parent, w)
	require.NoError(t, err)
	return id
}

// place sets a layout origin and size directly, the way a layout pass
// would, without running layout.
func place(t *testing.T, r *RenderRoot, id WidgetID, origin geom.Point, size geom.Size) {
	t.Helper()
	s, ok := r.states.Get(id)
	require.True(t, ok)
	if s.origin != origin {
		s.origin = origin
		s.translationChanged = true
	}
	s.size = size
	s.needsLayout = false
	s.requestLayout = false
	s.needsCompose = true
	r.propagateUp(id)
}

// settle runs compose once and discards everything it produced.
func settle(t *testing.T, r *RenderRoot, rec *recording) {
	t.Helper()
	r.RunComposePass()
	r.DrainSignals()
	r.ClearPointerPass()
	if rec != nil {
		rec.drain()
	}
}

func state(t *testing.T, r *RenderRoot, id WidgetID) WidgetStateView {
	t.Helper()
	s, ok := r.State(id)
	require.True(t, ok, "no state for %s", id)
	return s
}

// expectPanicAssertion runs fn and requires it to panic with an assertion failure.
func expectPanicAssertion(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		rec := recover()
		require.NotNil(t, rec, "expected a panic")
		err, ok := rec.(error)
		require.True(t, ok, "panic value %v is not an error", rec)
		require.True(t, errors.HasAssertionFailure(err), "panic %v is not an assertion failure", err)
	}()
	fn()
}

// translate sets a translation the way a parent's Compose would and makes
// the parent reachable for the next pass.
func translate(t *testing.T, r *RenderRoot, id WidgetID, v geom.Vec2) {
	t.Helper()
	s, ok := r.states.Get(id)
	require.True(t, ok)
	if s.translation != v {
		s.translation = v
		s.translationChanged = true
	}
	parent, ok := r.states.Parent(id)
	require.True(t, ok, "cannot translate the root from outside a pass")
	ps, _ := r.states.Get(parent)
	ps.needsCompose = true
	r.propagateUp(parent)
}

// recordsFor filters records down to one widget.
func recordsFor(records []composeRecord, id WidgetID) []composeRecord {
	var out []composeRecord
	for _, rec := range records {
		if rec.id == id {
			out = append(out, rec)
		}
	}
	return out
}

// imeSignals filters a drained signal queue down to IME relocations.
func imeSignals(signals []Signal) []IMEMovedSignal {
	var out []IMEMovedSignal
	for _, s := range signals {
		if m, ok := s.(IMEMovedSignal); ok {
			out = append(out, m)
		}
	}
	return out
}
