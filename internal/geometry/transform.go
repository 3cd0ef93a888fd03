package geometry

import (
	"errors"
	"fmt"
	"math"
)

// Spans smaller than this count as zero when checking for degenerate
// selections.
const epsilon = 1e-9

// ErrOutOfBounds reports a screen point that maps outside the rendered page
// area. Callers clamp and continue; the error never propagates to export.
var ErrOutOfBounds = errors.New("point outside rendered page area")

// ErrDegenerateSelection reports a selection rectangle collapsed to a line
// or point. Such rectangles are rejected at creation time and never reach
// the naming or export stage.
var ErrDegenerateSelection = errors.New("selection has zero width or height")

// Point is a position in document units (points).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in document units.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Normalize returns the rectangle with X0 <= X1 and Y0 <= Y1.
func (r Rect) Normalize() Rect {
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Width returns the horizontal extent of the normalized rectangle.
func (r Rect) Width() float64 {
	n := r.Normalize()
	return n.X1 - n.X0
}

// Height returns the vertical extent of the normalized rectangle.
func (r Rect) Height() float64 {
	n := r.Normalize()
	return n.Y1 - n.Y0
}

// Clamp normalizes the rectangle and limits it to the page bounds
// [0,pageW] x [0,pageH]. Selections dragged past the page edge are clamped,
// not rejected.
func (r Rect) Clamp(pageW, pageH float64) Rect {
	n := r.Normalize()
	n.X0 = math.Max(0, math.Min(n.X0, pageW))
	n.X1 = math.Max(0, math.Min(n.X1, pageW))
	n.Y0 = math.Max(0, math.Min(n.Y0, pageH))
	n.Y1 = math.Max(0, math.Min(n.Y1, pageH))
	return n
}

// IsDegenerate reports whether the rectangle has zero width or height.
func (r Rect) IsDegenerate() bool {
	return r.Width() <= epsilon || r.Height() <= epsilon
}

// Validate normalizes and clamps the rectangle to the page and rejects
// degenerate results with ErrDegenerateSelection.
func (r Rect) Validate(pageW, pageH float64) (Rect, error) {
	c := r.Clamp(pageW, pageH)
	if c.IsDegenerate() {
		return Rect{}, fmt.Errorf("%w: %.2fx%.2f pt", ErrDegenerateSelection, c.Width(), c.Height())
	}
	return c, nil
}

// DisplayTransform maps document units onto on-screen pixels for the
// currently visible page:
//
//	screen = doc*Scale + Offset
//
// It is recomputed whenever the page or view changes and is never persisted.
type DisplayTransform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// DocToScreen applies the display transform to a document-space point.
func DocToScreen(pt Point, tf DisplayTransform) Point {
	return Point{
		X: pt.X*tf.Scale + tf.OffsetX,
		Y: pt.Y*tf.Scale + tf.OffsetY,
	}
}

// ScreenToDoc applies the inverse display transform to a screen-space point.
// It returns ErrOutOfBounds when the point lies outside the page; the
// returned point is still valid and already clamped, so callers that want
// clamp-and-continue behavior can ignore the error.
func ScreenToDoc(pt Point, tf DisplayTransform, pageW, pageH float64) (Point, error) {
	if tf.Scale <= 0 {
		return Point{}, fmt.Errorf("invalid display transform scale %g", tf.Scale)
	}
	doc := Point{
		X: (pt.X - tf.OffsetX) / tf.Scale,
		Y: (pt.Y - tf.OffsetY) / tf.Scale,
	}
	if doc.X < 0 || doc.Y < 0 || doc.X > pageW || doc.Y > pageH {
		return ClampPoint(doc, pageW, pageH), ErrOutOfBounds
	}
	return doc, nil
}

// ClampPoint limits a document-space point to the page bounds.
func ClampPoint(pt Point, pageW, pageH float64) Point {
	return Point{
		X: math.Max(0, math.Min(pt.X, pageW)),
		Y: math.Max(0, math.Min(pt.Y, pageH)),
	}
}

// ScreenRectToDoc converts a screen-space drag rectangle to a normalized,
// clamped document-space rectangle. Out-of-bounds corners are clamped per
// the drag contract.
func ScreenRectToDoc(r Rect, tf DisplayTransform, pageW, pageH float64) (Rect, error) {
	p0, err0 := ScreenToDoc(Point{X: r.X0, Y: r.Y0}, tf, pageW, pageH)
	if err0 != nil && !errors.Is(err0, ErrOutOfBounds) {
		return Rect{}, err0
	}
	p1, err1 := ScreenToDoc(Point{X: r.X1, Y: r.Y1}, tf, pageW, pageH)
	if err1 != nil && !errors.Is(err1, ErrOutOfBounds) {
		return Rect{}, err1
	}
	rect := Rect{X0: p0.X, Y0: p0.Y, X1: p1.X, Y1: p1.Y}.Normalize()
	// The rect is usable either way; ErrOutOfBounds tells the caller a
	// corner was clamped.
	if err0 != nil {
		return rect, err0
	}
	return rect, err1
}

// FitWidthScale returns the display scale that fits a page of the given
// width into viewportPx pixels, leaving marginPx of slack. Returns 1.0 when
// the viewport is too small to be meaningful.
func FitWidthScale(pageW float64, viewportPx, marginPx int) float64 {
	if pageW <= 0 || viewportPx <= 100 {
		return 1.0
	}
	return (float64(viewportPx) - float64(marginPx)) / pageW
}
