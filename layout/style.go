package layout

import "github.com/grindlemire/go-compose/geom"

// Direction picks the main axis of a container. Children are placed one
// after another along it, in mount order.
type Direction uint8

const (
	// Row advances x for each child.
	Row Direction = iota
	// Column advances y for each child.
	Column
)

// Justify distributes the free main-axis space of a container. Offsets are
// fractional; nothing is rounded to whole cells.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	// JustifySpaceBetween puts the free space between children only.
	JustifySpaceBetween
	// JustifySpaceAround gives every child half a share on each side.
	JustifySpaceAround
	// JustifySpaceEvenly makes every gap, including both edges, equal.
	JustifySpaceEvenly
)

// Align places a child inside the container's cross-axis extent.
type Align uint8

const (
	AlignStart Align = iota
	AlignEnd
	AlignCenter
	// AlignStretch gives a child with an auto cross size the full extent.
	AlignStretch
)

// Style contains all layout properties for a node.
type Style struct {
	Width     Value
	Height    Value
	MinWidth  Value
	MinHeight Value
	MaxWidth  Value
	MaxHeight Value

	// Flex container properties
	Direction      Direction
	JustifyContent Justify
	AlignItems     Align
	Gap            float64 // Space between children (main axis only)

	// Flex item properties
	FlexGrow   float64
	FlexShrink float64
	AlignSelf  *Align // nil inherits the parent's AlignItems

	Padding geom.Edges
	Margin  geom.Edges
}

// DefaultStyle returns a Style with auto sizing, row direction, stretch
// alignment and a shrink factor of 1.
func DefaultStyle() Style {
	return Style{
		Width:      Auto(),
		Height:     Auto(),
		MinWidth:   Fixed(0),
		MinHeight:  Fixed(0),
		MaxWidth:   Auto(),
		MaxHeight:  Auto(),
		Direction:  Row,
		AlignItems: AlignStretch,
		FlexShrink: 1.0,
	}
}

// Unit specifies how a Value is interpreted.
type Unit uint8

const (
	UnitAuto    Unit = iota // Size determined by content/flex
	UnitFixed               // Absolute logical pixels
	UnitPercent             // Percentage of parent's available space
)

// Value represents a dimension that can be fixed, percentage, or auto.
type Value struct {
	Amount float64
	Unit   Unit
}

// Auto returns a Value that should be computed from content/flex.
func Auto() Value {
	return Value{Unit: UnitAuto}
}

// Fixed returns a Value of n logical pixels.
func Fixed(n float64) Value {
	return Value{Amount: n, Unit: UnitFixed}
}

// Percent returns a Value on a 0-100 scale of the available space.
func Percent(p float64) Value {
	return Value{Amount: p, Unit: UnitPercent}
}

// Resolve computes the concrete amount given the available space.
// UnitAuto yields fallback.
func (v Value) Resolve(available, fallback float64) float64 {
	switch v.Unit {
	case UnitFixed:
		return v.Amount
	case UnitPercent:
		return available * v.Amount / 100.0
	default:
		return fallback
	}
}

// IsAuto returns true if this value should be computed from content/flex.
func (v Value) IsAuto() bool {
	return v.Unit == UnitAuto
}
