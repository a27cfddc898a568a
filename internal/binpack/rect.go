// Package binpack implements the MAXRECTS rectangle bin-packing algorithm used
// to lay out sprites on fixed-size atlas pages.
//
// A Packer owns a single bin. It keeps the list of placed ("used") rectangles
// and a list of maximal free rectangles which may overlap each other but never
// overlap a used rectangle. Every insertion splits the free rectangles touched
// by the new placement and then prunes any free rectangle contained in another.
package binpack

import "fmt"

// Rect is an axis-aligned integer rectangle with a top-left origin.
//
// Insert returns the zero Rect (Height == 0) when a request does not fit.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRect creates a rectangle from its position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Right returns the x coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the y coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Area returns width * height.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Placed reports whether r is a real placement rather than the does-not-fit sentinel.
func (r Rect) Placed() bool {
	return r.Height != 0
}

// ContainsRect reports whether inner lies entirely within r.
func (r Rect) ContainsRect(inner Rect) bool {
	return inner.X >= r.X && inner.Y >= r.Y &&
		inner.Right() <= r.Right() &&
		inner.Bottom() <= r.Bottom()
}

// Intersects reports whether the interiors of r and other overlap. Rectangles
// that only share an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	return other.X < r.Right() && r.X < other.Right() &&
		other.Y < r.Bottom() && r.Y < other.Bottom()
}

// Size returns the dimensions of r.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

func (r Rect) String() string {
	return fmt.Sprintf("<%d, %d, %d, %d>", r.X, r.Y, r.Width, r.Height)
}

// Size is a request to pack a width x height box. The packer assigns the position.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewSize creates a size with the given dimensions.
func NewSize(w, h int) Size {
	return Size{Width: w, Height: h}
}

// Area returns width * height.
func (s Size) Area() int {
	return s.Width * s.Height
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Size) String() string {
	return fmt.Sprintf("<%d, %d>", s.Width, s.Height)
}

func abs(x int) int {
	if x >= 0 {
		return x
	}
	return -x
}
