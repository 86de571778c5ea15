package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultShapeIsStraightLine(t *testing.T) {
	s := Default(100)
	assert.InDelta(t, 100.0, s.Length(), 1e-9)
	assert.Equal(t, Point{X: 0, Y: 0}, s.PointAt(0))
	assert.Equal(t, Point{X: 100, Y: 0}, s.PointAt(100))
	assert.Equal(t, Point{X: 50, Y: 0}, s.PointAt(50))
}

func TestPointAtClampsToEnds(t *testing.T) {
	s := Default(10)
	assert.Equal(t, Point{X: 0, Y: 0}, s.PointAt(-5))
	assert.Equal(t, Point{X: 10, Y: 0}, s.PointAt(999))
}

func TestPointAtMultiSegmentPolyline(t *testing.T) {
	s := New([]Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}})
	assert.InDelta(t, 20.0, s.Length(), 1e-9)
	mid := s.PointAt(15)
	assert.InDelta(t, 5.0, mid.X, 1e-9)
	assert.InDelta(t, 10.0, mid.Y, 1e-9)
}
