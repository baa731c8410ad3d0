// Package geom provides the float64 geometry vocabulary shared by the layout
// engine and the compose pass: vectors, points, sizes, rectangles and edge
// insets.
package geom

import "fmt"

// Vec2 is a displacement in logical pixels.
type Vec2 struct {
	X, Y float64
}

// V returns the vector (x, y).
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// ToPoint reinterprets the vector as a displacement from the origin.
func (v Vec2) ToPoint() Point {
	return Point{X: v.X, Y: v.Y}
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Point is a position in logical pixels.
type Point struct {
	X, Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// ToVec2 returns the displacement from the origin to p.
func (p Point) ToVec2() Vec2 {
	return Vec2{X: p.X, Y: p.Y}
}

// Add returns p offset by v.
func (p Point) Add(v Vec2) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the displacement from other to p.
func (p Point) Sub(other Point) Vec2 {
	return Vec2{X: p.X - other.X, Y: p.Y - other.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Size is a width and height in logical pixels.
type Size struct {
	Width, Height float64
}

// Sz returns the size (w, h).
func Sz(w, h float64) Size {
	return Size{Width: w, Height: h}
}

// ToRect returns a rectangle of this size anchored at the origin.
func (s Size) ToRect() Rect {
	return Rect{Width: s.Width, Height: s.Height}
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}
