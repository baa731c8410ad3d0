package compose

import (
	"github.com/grindlemire/go-compose/geom"
	"github.com/grindlemire/go-compose/internal/invariants"
)

// WidgetState is the per-node record the passes read and write: local
// geometry from layout, the derived window origin, and the dirty flags that
// decide which nodes a pass visits.
//
// "needs" flags mean this node or a descendant has pending work and are
// merged up to ancestors; "request" flags are per-node and are never merged.
type WidgetState struct {
	id WidgetID

	// origin is assigned by layout, relative to the parent's origin.
	origin geom.Point
	size   geom.Size
	// layoutBox is the border box from the last layout, in root coordinates.
	layoutBox geom.Rect
	// translation is an extra local offset set from compose callbacks.
	translation geom.Vec2
	// windowOrigin is derived: the sum of origin+translation from the root
	// down to and including this node. Valid once composed is true.
	windowOrigin geom.Point
	composed     bool

	translationChanged bool

	needsLayout   bool
	requestLayout bool

	needsCompose   bool
	requestCompose bool

	needsPaint   bool
	requestPaint bool

	needsAccessibility   bool
	requestAccessibility bool

	acceptsTextInput bool
	// imeArea is a local rect; nil means the whole layout box.
	imeArea *geom.Rect
}

// newWidgetState returns the state for a freshly mounted widget: unmoved and
// not needing compose, but never laid out.
func newWidgetState(id WidgetID, w Widget) WidgetState {
	s := WidgetState{
		id:            id,
		needsLayout:   true,
		requestLayout: true,
	}
	if ti, ok := w.(TextInputWidget); ok {
		s.acceptsTextInput = ti.AcceptsTextInput()
	}
	return s
}

// MergeUp folds a child's pending-work bits into s.
func (s *WidgetState) MergeUp(child *WidgetState) {
	s.needsLayout = s.needsLayout || child.needsLayout
	s.needsCompose = s.needsCompose || child.needsCompose
	s.needsPaint = s.needsPaint || child.needsPaint
	s.needsAccessibility = s.needsAccessibility || child.needsAccessibility
}

// ID returns the widget id this state belongs to.
func (s *WidgetState) ID() WidgetID { return s.id }

// Origin returns the layout-assigned position relative to the parent.
func (s *WidgetState) Origin() geom.Point { return s.origin }

// Size returns the layout-assigned size.
func (s *WidgetState) Size() geom.Size { return s.size }

// Translation returns the local offset applied on top of Origin.
func (s *WidgetState) Translation() geom.Vec2 { return s.translation }

// WindowOrigin returns the absolute position of the widget. It has no
// meaning before the widget's first compose.
func (s *WidgetState) WindowOrigin() geom.Point {
	invariants.Check(s.composed, "window origin of %s read before its first compose", s.id)
	return s.windowOrigin
}

// LayoutRect returns the widget's layout box in its parent's coordinates.
func (s *WidgetState) LayoutRect() geom.Rect {
	return geom.RectFromOriginSize(s.origin, s.size)
}

// WindowRect returns the widget's box in window coordinates.
func (s *WidgetState) WindowRect() geom.Rect {
	return geom.RectFromOriginSize(s.WindowOrigin(), s.size)
}

// IMEArea returns the input-method anchor in window coordinates.
func (s *WidgetState) IMEArea() geom.Rect {
	local := s.size.ToRect()
	if s.imeArea != nil {
		local = *s.imeArea
	}
	return local.Translate(s.WindowOrigin().ToVec2())
}

// imeAreaFor prefers the widget's own anchor over the stored one.
func (s *WidgetState) imeAreaFor(w Widget) geom.Rect {
	if a, ok := w.(IMEAnchorWidget); ok {
		return a.IMEArea(s.size).Translate(s.WindowOrigin().ToVec2())
	}
	return s.IMEArea()
}

// view returns an immutable snapshot of s.
func (s *WidgetState) view() WidgetStateView {
	return WidgetStateView{
		ID:                   s.id,
		Origin:               s.origin,
		Size:                 s.size,
		Translation:          s.translation,
		WindowOrigin:         s.windowOrigin,
		Composed:             s.composed,
		TranslationChanged:   s.translationChanged,
		NeedsLayout:          s.needsLayout,
		RequestLayout:        s.requestLayout,
		NeedsCompose:         s.needsCompose,
		RequestCompose:       s.requestCompose,
		NeedsPaint:           s.needsPaint,
		RequestPaint:         s.requestPaint,
		NeedsAccessibility:   s.needsAccessibility,
		RequestAccessibility: s.requestAccessibility,
		AcceptsTextInput:     s.acceptsTextInput,
	}
}

// WidgetStateView is a read-only copy of a WidgetState.
type WidgetStateView struct {
	ID           WidgetID
	Origin       geom.Point
	Size         geom.Size
	Translation  geom.Vec2
	WindowOrigin geom.Point
	// Composed reports whether WindowOrigin is meaningful.
	Composed bool

	TranslationChanged   bool
	NeedsLayout          bool
	RequestLayout        bool
	NeedsCompose         bool
	RequestCompose       bool
	NeedsPaint           bool
	RequestPaint         bool
	NeedsAccessibility   bool
	RequestAccessibility bool
	AcceptsTextInput     bool
}
