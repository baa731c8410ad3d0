package layout

import "github.com/grindlemire/go-compose/geom"

// flexItem holds per-child scratch state for one layoutChildren call.
// Sizes on the main axis include the child's margin.
type flexItem struct {
	node      Layoutable
	style     Style
	intrinsic geom.Size
	baseSize  float64
	mainSize  float64
	crossSize float64
	mainPos   float64
	crossPos  float64
}

// axes reports the main/cross extents of a size for a direction.
func axes(isRow bool, s geom.Size) (main, cross float64) {
	if isRow {
		return s.Width, s.Height
	}
	return s.Height, s.Width
}

// layoutChildren arranges children inside contentRect using the container style.
func layoutChildren(style Style, children []Layoutable, contentRect geom.Rect) {
	isRow := style.Direction == Row
	mainSize, crossSize := axes(isRow, contentRect.Size())

	// Phase 1: base sizes and flex factors.
	items := make([]flexItem, len(children))
	var totalBase, totalGrow, totalShrink float64
	for i, child := range children {
		item := &items[i]
		item.node = child
		item.style = child.LayoutStyle()
		item.intrinsic = child.IntrinsicSize()

		mainValue, _ := item.mainCrossValues(isRow)
		intrinsicMain, _ := axes(isRow, item.intrinsic)
		mainMargin, _ := item.margins(isRow)
		item.baseSize = mainValue.Resolve(mainSize, intrinsicMain) + mainMargin

		totalBase += item.baseSize
		totalGrow += item.style.FlexGrow
		totalShrink += item.style.FlexShrink
	}

	totalGap := style.Gap * float64(max(0, len(children)-1))
	freeSpace := mainSize - totalBase - totalGap

	// Phase 2: distribute free space.
	for i := range items {
		item := &items[i]
		switch {
		case freeSpace > 0 && totalGrow > 0:
			item.mainSize = item.baseSize + freeSpace*item.style.FlexGrow/totalGrow
		case freeSpace < 0 && totalShrink > 0:
			item.mainSize = max(0, item.baseSize+freeSpace*item.style.FlexShrink/totalShrink)
		default:
			item.mainSize = item.baseSize
		}
	}

	// Phase 3: min/max on the content size, then recompute free space for justify.
	totalUsed := 0.0
	for i := range items {
		item := &items[i]
		mainMargin, _ := item.margins(isRow)
		minMain, maxMain := item.mainBounds(isRow, mainSize)
		item.mainSize = clamp(item.mainSize-mainMargin, minMain, maxMain) + mainMargin
		totalUsed += item.mainSize
	}
	freeSpace = mainSize - totalUsed - totalGap

	// Phase 4: main-axis positions.
	offset := justifyOffset(style.JustifyContent, freeSpace, len(items))
	spacing := justifySpacing(style.JustifyContent, freeSpace, len(items))
	for i := range items {
		items[i].mainPos = offset
		offset += items[i].mainSize + style.Gap + spacing
	}

	// Phase 5: cross-axis sizing and alignment.
	for i := range items {
		item := &items[i]
		align := style.AlignItems
		if item.style.AlignSelf != nil {
			align = *item.style.AlignSelf
		}

		_, crossValue := item.mainCrossValues(isRow)
		_, crossMargin := item.margins(isRow)
		_, intrinsicCross := axes(isRow, item.intrinsic)
		availableCross := crossSize - crossMargin

		if align == AlignStretch && crossValue.IsAuto() {
			item.crossSize = crossSize
			item.crossPos = 0
			continue
		}
		content := crossValue.Resolve(availableCross, intrinsicCross)
		item.crossSize = content + crossMargin
		item.crossPos = alignOffset(align, crossSize, item.crossSize)
	}

	// Phase 6: convert slots to border boxes and recurse.
	for i := range items {
		item := &items[i]
		var slot geom.Rect
		if isRow {
			slot = geom.NewRect(contentRect.X+item.mainPos, contentRect.Y+item.crossPos, item.mainSize, item.crossSize)
		} else {
			slot = geom.NewRect(contentRect.X+item.crossPos, contentRect.Y+item.mainPos, item.crossSize, item.mainSize)
		}
		calculateNode(item.node, slot.Inset(item.style.Margin))
	}
}

func (f *flexItem) mainCrossValues(isRow bool) (main, cross Value) {
	if isRow {
		return f.style.Width, f.style.Height
	}
	return f.style.Height, f.style.Width
}

func (f *flexItem) margins(isRow bool) (main, cross float64) {
	if isRow {
		return f.style.Margin.Horizontal(), f.style.Margin.Vertical()
	}
	return f.style.Margin.Vertical(), f.style.Margin.Horizontal()
}

// mainBounds resolves the min/max content size on the main axis.
// An auto maximum is bounded by the available space.
func (f *flexItem) mainBounds(isRow bool, available float64) (lo, hi float64) {
	minV, maxV := f.style.MinHeight, f.style.MaxHeight
	if isRow {
		minV, maxV = f.style.MinWidth, f.style.MaxWidth
	}
	return minV.Resolve(available, 0), maxV.Resolve(available, available)
}

// justifyOffset returns the position of the first child on the main axis.
func justifyOffset(justify Justify, freeSpace float64, itemCount int) float64 {
	if freeSpace <= 0 || itemCount == 0 {
		return 0
	}

	switch justify {
	case JustifyEnd:
		return freeSpace
	case JustifyCenter:
		return freeSpace / 2
	case JustifySpaceAround:
		return freeSpace / float64(itemCount*2)
	case JustifySpaceEvenly:
		return freeSpace / float64(itemCount+1)
	default: // JustifyStart, JustifySpaceBetween
		return 0
	}
}

// justifySpacing returns the extra space inserted between adjacent children.
func justifySpacing(justify Justify, freeSpace float64, itemCount int) float64 {
	if freeSpace <= 0 || itemCount <= 1 {
		return 0
	}

	switch justify {
	case JustifySpaceBetween:
		return freeSpace / float64(itemCount-1)
	case JustifySpaceAround:
		return freeSpace / float64(itemCount)
	case JustifySpaceEvenly:
		return freeSpace / float64(itemCount+1)
	default:
		return 0
	}
}

// alignOffset returns the cross-axis offset of a slot of itemSize.
func alignOffset(align Align, crossSize, itemSize float64) float64 {
	switch align {
	case AlignEnd:
		return crossSize - itemSize
	case AlignCenter:
		return (crossSize - itemSize) / 2
	default: // AlignStart, AlignStretch
		return 0
	}
}
