// Package shape maps a 1-D offset along a road onto a 2-D planar coordinate
// via a piecewise-linear polyline.
package shape

import "math"

// Point is a planar coordinate in metres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is an ordered sequence of vertices describing a road's polyline.
// A Shape with fewer than two vertices has no meaningful geometry; callers
// should fall back to Default.
type Shape struct {
	vertices   []Point
	segLengths []float64 // length of each [i, i+1) segment
	total      float64
}

// New builds a Shape from an ordered vertex list.
func New(vertices []Point) Shape {
	s := Shape{vertices: vertices}
	s.segLengths = make([]float64, 0, len(vertices))
	for i := 0; i+1 < len(vertices); i++ {
		d := dist(vertices[i], vertices[i+1])
		s.segLengths = append(s.segLengths, d)
		s.total += d
	}
	return s
}

// Default returns the straight-line polyline a road gets when the scenario
// does not supply an explicit shape: two points, (0,0) to (length,0).
func Default(length float64) Shape {
	return New([]Point{{X: 0, Y: 0}, {X: length, Y: 0}})
}

func dist(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Length returns the total length of the polyline.
func (s Shape) Length() float64 { return s.total }

// PointAt returns the planar coordinate for the given offset along the
// polyline, clamped to [0, Length()].
func (s Shape) PointAt(offset float64) Point {
	if len(s.vertices) == 0 {
		return Point{}
	}
	if len(s.vertices) == 1 || s.total == 0 {
		return s.vertices[0]
	}
	if offset <= 0 {
		return s.vertices[0]
	}
	if offset >= s.total {
		return s.vertices[len(s.vertices)-1]
	}
	remaining := offset
	for i, segLen := range s.segLengths {
		if remaining <= segLen {
			if segLen == 0 {
				return s.vertices[i]
			}
			frac := remaining / segLen
			a, b := s.vertices[i], s.vertices[i+1]
			return Point{
				X: a.X + frac*(b.X-a.X),
				Y: a.Y + frac*(b.Y-a.Y),
			}
		}
		remaining -= segLen
	}
	return s.vertices[len(s.vertices)-1]
}
