package compose

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/grindlemire/go-compose/geom"
	"github.com/grindlemire/go-compose/internal/arena"
)

// ComposeCtx is the restricted view a widget gets during its Compose
// callback. It can move the widget and its direct children and request
// further work, but it offers no way to change the tree structure.
type ComposeCtx struct {
	global         *globalState
	widgetState    *WidgetState
	stateChildren  arena.ChildrenMut[WidgetID, WidgetState]
	widgetChildren arena.ChildrenMut[WidgetID, Widget]

	// recompose is set by RequestCompose; the engine re-arms the compose
	// flags after it has cleared the ones consumed this pass.
	recompose bool
	// done is set once the callback returns. The context is dead from then on.
	done bool
}

// state returns the composed widget's state, panicking when the context
// has outlived its callback.
func (ctx *ComposeCtx) state() *WidgetState {
	if ctx.done {
		panic(errors.AssertionFailedf("compose: ComposeCtx used outside its Compose callback"))
	}
	return ctx.widgetState
}

// run calls w.Compose and retires the context when it returns or panics.
func (ctx *ComposeCtx) run(w Widget) {
	defer func() { ctx.done = true }()
	w.Compose(ctx)
}

// WidgetID returns the id of the widget being composed.
func (ctx *ComposeCtx) WidgetID() WidgetID {
	return ctx.state().id
}

// Size returns the widget's layout size.
func (ctx *ComposeCtx) Size() geom.Size {
	return ctx.state().size
}

// Origin returns the widget's layout origin relative to its parent.
func (ctx *ComposeCtx) Origin() geom.Point {
	return ctx.state().origin
}

// Translation returns the widget's own translation.
func (ctx *ComposeCtx) Translation() geom.Vec2 {
	return ctx.state().translation
}

// SetTranslation changes the widget's own translation. The window origins
// of the widget and its subtree are updated in this same pass.
func (ctx *ComposeCtx) SetTranslation(v geom.Vec2) {
	s := ctx.state()
	if s.translation != v {
		s.translation = v
		s.translationChanged = true
	}
}

// WindowOrigin returns the widget's absolute position as computed before
// the callback ran.
func (ctx *ComposeCtx) WindowOrigin() geom.Point {
	return ctx.state().windowOrigin
}

// IsFocused reports whether the widget holds input focus.
func (ctx *ComposeCtx) IsFocused() bool {
	return ctx.global.IsFocused(ctx.state().id)
}

// Children returns the ids of the widget's direct children in order.
func (ctx *ComposeCtx) Children() []WidgetID {
	ctx.state()
	return slices.Clone(ctx.stateChildren.IDs())
}

// ChildState returns a snapshot of a direct child's state.
func (ctx *ComposeCtx) ChildState(child WidgetID) WidgetStateView {
	return ctx.childState(child).view()
}

// ChildWidget returns the behavior of a direct child.
func (ctx *ComposeCtx) ChildWidget(child WidgetID) Widget {
	id := ctx.state().id
	m, ok := ctx.widgetChildren.Get(child)
	if !ok {
		panic(errors.AssertionFailedf("compose: %s is not a child of %s", child, id))
	}
	return *m.Item
}

// SetChildTranslation sets the translation of a direct child. The child is
// marked as moved only when the value actually changes.
func (ctx *ComposeCtx) SetChildTranslation(child WidgetID, v geom.Vec2) {
	cs := ctx.childState(child)
	if cs.translation != v {
		cs.translation = v
		cs.translationChanged = true
	}
}

func (ctx *ComposeCtx) childState(child WidgetID) *WidgetState {
	id := ctx.state().id
	m, ok := ctx.stateChildren.Get(child)
	if !ok {
		panic(errors.AssertionFailedf("compose: %s is not a child of %s", child, id))
	}
	return m.Item
}

// RequestCompose asks for this widget's Compose to run again next pass.
func (ctx *ComposeCtx) RequestCompose() {
	ctx.state()
	ctx.recompose = true
}

// RequestLayout asks for the widget to be laid out again.
func (ctx *ComposeCtx) RequestLayout() {
	s := ctx.state()
	s.needsLayout = true
	s.requestLayout = true
}

// RequestPaint asks for the widget to be repainted.
func (ctx *ComposeCtx) RequestPaint() {
	s := ctx.state()
	s.needsPaint = true
	s.requestPaint = true
}

// RequestAccessibilityUpdate asks for the widget's accessibility node to be rebuilt.
func (ctx *ComposeCtx) RequestAccessibilityUpdate() {
	s := ctx.state()
	s.needsAccessibility = true
	s.requestAccessibility = true
}

// SetIMEArea sets the input-method anchor in local coordinates.
func (ctx *ComposeCtx) SetIMEArea(r geom.Rect) {
	ctx.state().imeArea = &r
}

// WidgetMut is handed to RenderRoot.EditWidget callbacks. It exposes the
// widget behavior and the requests a widget may make between passes.
type WidgetMut struct {
	Widget Widget
	state  *WidgetState
}

// ID returns the id of the edited widget.
func (m *WidgetMut) ID() WidgetID {
	return m.state.id
}

// State returns a snapshot of the edited widget's state.
func (m *WidgetMut) State() WidgetStateView {
	return m.state.view()
}

// RequestCompose schedules the widget's Compose callback for the next pass.
func (m *WidgetMut) RequestCompose() {
	m.state.needsCompose = true
	m.state.requestCompose = true
}

// RequestLayout schedules the widget for the next layout pass.
func (m *WidgetMut) RequestLayout() {
	m.state.needsLayout = true
	m.state.requestLayout = true
}

// RequestPaint schedules a repaint of the widget.
func (m *WidgetMut) RequestPaint() {
	m.state.needsPaint = true
	m.state.requestPaint = true
}

// RequestAccessibilityUpdate schedules an accessibility rebuild of the widget.
func (m *WidgetMut) RequestAccessibilityUpdate() {
	m.state.needsAccessibility = true
	m.state.requestAccessibility = true
}

// SetIMEArea sets the input-method anchor in local coordinates.
func (m *WidgetMut) SetIMEArea(r geom.Rect) {
	m.state.imeArea = &r
}
