package compose

import (
	"github.com/grindlemire/go-compose/geom"
	"github.com/grindlemire/go-compose/layout"
)

// layoutNode adapts one arena slot to layout.Layoutable for the duration of
// a layout pass.
type layoutNode struct {
	widget   Widget
	state    *WidgetState
	children []*layoutNode
	laidOut  bool
}

var _ layout.Layoutable = (*layoutNode)(nil)

func (n *layoutNode) LayoutStyle() layout.Style {
	if lw, ok := n.widget.(LayoutWidget); ok {
		return lw.LayoutStyle()
	}
	return layout.DefaultStyle()
}

func (n *layoutNode) LayoutChildren() []layout.Layoutable {
	out := make([]layout.Layoutable, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *layoutNode) SetLayout(l layout.Layout) {
	n.state.layoutBox = l.Rect
	n.laidOut = true
}

func (n *layoutNode) GetLayout() layout.Layout {
	return layout.Layout{Rect: n.state.layoutBox}
}

func (n *layoutNode) IsDirty() bool {
	return n.state.needsLayout
}

func (n *layoutNode) SetDirty(dirty bool) {
	n.state.needsLayout = dirty
	if !dirty {
		n.state.requestLayout = false
	}
}

func (n *layoutNode) IntrinsicSize() geom.Size {
	if is, ok := n.widget.(IntrinsicSizer); ok {
		return is.IntrinsicSize()
	}
	return geom.Size{}
}

// buildLayoutTree mirrors the subtree at id as layoutNodes.
func (r *RenderRoot) buildLayoutTree(id WidgetID) *layoutNode {
	w, _ := r.widgets.Get(id)
	s, _ := r.states.Get(id)
	n := &layoutNode{widget: *w, state: s}
	for _, child := range r.states.Children(id) {
		n.children = append(n.children, r.buildLayoutTree(child))
	}
	return n
}

// RunLayoutPass lays out the tree when the root needs layout, then places
// every laid-out widget: its size and its origin relative to its parent.
//
// A changed origin marks the widget as translated, exactly like a parent
// placing a child, and every laid-out widget is scheduled for compose.
func (r *RenderRoot) RunLayoutPass() {
	if s, _ := r.states.Get(r.root); !s.needsLayout {
		return
	}
	end := r.beginPass("layout")
	defer end()

	root := r.buildLayoutTree(r.root)
	layout.Calculate(root, r.size)
	r.placeLaidOut(root, geom.Point{})
}

// placeLaidOut converts absolute layout boxes into parent-relative origins
// and merges the resulting flags up the tree.
func (r *RenderRoot) placeLaidOut(n *layoutNode, parentOrigin geom.Point) {
	s := n.state
	if n.laidOut {
		sp := startSpan(r.global.trace.Layout, r.global.logger, "layout", widgetAttrs(s.id, n.widget)...)
		origin := s.layoutBox.Origin().Sub(parentOrigin).ToPoint()
		if origin != s.origin {
			s.origin = origin
			s.translationChanged = true
		}
		if size := s.layoutBox.Size(); size != s.size {
			s.size = size
			s.needsPaint = true
			s.requestPaint = true
		}
		s.needsCompose = true
		s.requestCompose = true
		sp.end()
	}

	for _, c := range n.children {
		r.placeLaidOut(c, s.layoutBox.Origin())
		s.MergeUp(c.state)
	}
}
