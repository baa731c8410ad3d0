package layout

import "github.com/grindlemire/go-compose/geom"

// Layout holds the computed position and size after layout calculation.
type Layout struct {
	// Rect is the border box: the space allocated by the parent after
	// applying this node's margin.
	Rect geom.Rect

	// ContentRect is Rect minus padding, the area where children are placed.
	ContentRect geom.Rect
}

// Layoutable is the interface for anything that can participate in layout calculation.
type Layoutable interface {
	// LayoutStyle returns the layout style properties for this node.
	LayoutStyle() Style

	// LayoutChildren returns the children to be laid out, in order.
	LayoutChildren() []Layoutable

	// SetLayout stores the computed layout.
	SetLayout(Layout)

	// GetLayout returns the last computed layout.
	GetLayout() Layout

	// IsDirty returns whether this node needs layout recalculation.
	IsDirty() bool

	// SetDirty marks this node as needing recalculation or not.
	SetDirty(dirty bool)

	// IntrinsicSize returns the natural content size, used as the base
	// size for Auto dimensions.
	IntrinsicSize() geom.Size
}
