package compose

import (
	"fmt"
	"strings"

	"github.com/grindlemire/go-compose/geom"
	"github.com/grindlemire/go-compose/layout"
)

// Widget is the behavior attached to a node of the tree. The tree structure
// itself is owned by the RenderRoot; a widget only reacts to passes.
type Widget interface {
	// Compose runs during the compose pass when the widget requested it
	// (see ComposeCtx). It may reposition itself and its direct children
	// but must not change the tree structure.
	Compose(ctx *ComposeCtx)
}

// TextInputWidget is implemented by widgets that can receive text input.
// The answer is read once, when the widget is mounted.
type TextInputWidget interface {
	AcceptsTextInput() bool
}

// IMEAnchorWidget lets a widget choose where the platform input method
// anchors its UI. The returned rect is in the widget's local coordinates.
type IMEAnchorWidget interface {
	IMEArea(size geom.Size) geom.Rect
}

// LayoutWidget supplies flexbox properties to the layout pass.
// Widgets without it use layout.DefaultStyle.
type LayoutWidget interface {
	LayoutStyle() layout.Style
}

// IntrinsicSizer reports a widget's natural content size for Auto dimensions.
type IntrinsicSizer interface {
	IntrinsicSize() geom.Size
}

// NamedWidget overrides the name used in traces and debug output.
type NamedWidget interface {
	ShortTypeName() string
}

// BaseWidget is an embeddable Widget whose Compose does nothing.
type BaseWidget struct{}

// Compose implements Widget.
func (BaseWidget) Compose(*ComposeCtx) {}

// shortTypeName returns the widget's display name: its NamedWidget name or
// its unqualified Go type.
func shortTypeName(w Widget) string {
	if n, ok := w.(NamedWidget); ok {
		return n.ShortTypeName()
	}
	name := strings.TrimPrefix(fmt.Sprintf("%T", w), "*")
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
