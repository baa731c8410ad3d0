package layout

import "github.com/grindlemire/go-compose/geom"

// Calculate performs layout on the tree rooted at root within the available
// space. Only dirty nodes, and nodes whose allocated box changed, are
// recalculated; dirtiness must propagate to ancestors, so a clean node with
// an unchanged box guarantees a clean subtree.
func Calculate(root Layoutable, available geom.Size) {
	if root == nil {
		return
	}

	// The root resolves its own width/height against the available space;
	// every other node receives its size from the parent's flex pass.
	style := root.LayoutStyle()
	width := style.Width.Resolve(available.Width, available.Width)
	height := style.Height.Resolve(available.Height, available.Height)

	calculateNode(root, geom.NewRect(0, 0, width, height))
}

// calculateNode lays out node inside available, the border box space the
// parent allocated after applying node's margin.
func calculateNode(node Layoutable, available geom.Rect) {
	style := node.LayoutStyle()
	borderBox := computeBorderBox(style, available)

	if !node.IsDirty() && node.GetLayout().Rect == borderBox {
		return
	}

	contentRect := borderBox.Inset(style.Padding)
	if children := node.LayoutChildren(); len(children) > 0 {
		layoutChildren(style, children, contentRect)
	}

	node.SetLayout(Layout{
		Rect:        borderBox,
		ContentRect: contentRect,
	})
	node.SetDirty(false)
}

// computeBorderBox applies min/max constraints to the allocated space.
// Width/Height were already consumed by the parent's flex calculation.
func computeBorderBox(style Style, available geom.Rect) geom.Rect {
	width := clamp(available.Width,
		style.MinWidth.Resolve(available.Width, 0),
		style.MaxWidth.Resolve(available.Width, available.Width))
	height := clamp(available.Height,
		style.MinHeight.Resolve(available.Height, 0),
		style.MaxHeight.Resolve(available.Height, available.Height))

	return geom.Rect{
		X:      available.X,
		Y:      available.Y,
		Width:  max(width, 0),
		Height: max(height, 0),
	}
}

// clamp restricts v to the range [minVal, maxVal].
// If minVal > maxVal, minVal wins (matches CSS behavior).
func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if maxVal >= minVal && v > maxVal {
		return maxVal
	}
	return v
}
