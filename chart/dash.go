package chart

import (
	"math"

	"gioui.org/f32"
)

// Dash is an alternating on/off pattern of lengths, starting with "on".
// An empty Dash is a solid line.
type Dash []float32

// Valid reports whether the pattern can be walked: it must hold at least one
// positive length and no negative or non-finite ones.
func (d Dash) Valid() bool {
	var total float32
	for _, l := range d {
		if l < 0 || math.IsNaN(float64(l)) || math.IsInf(float64(l), 0) {
			return false
		}
		total += l
	}
	return total > 0
}

// Split cuts the line from a to b into the "on" pieces of the pattern. A
// solid or invalid pattern returns the whole line as a single piece.
func (d Dash) Split(a, b f32.Point) [][2]f32.Point {
	delta := b.Sub(a)
	length := float32(math.Hypot(float64(delta.X), float64(delta.Y)))
	if !d.Valid() || length == 0 {
		return [][2]f32.Point{{a, b}}
	}
	unit := delta.Mul(1 / length)
	var pieces [][2]f32.Point
	var pos float32
	for i := 0; pos < length; i++ {
		seg := d[i%len(d)]
		end := min(pos+seg, length)
		if i%2 == 0 && end > pos {
			pieces = append(pieces, [2]f32.Point{
				a.Add(unit.Mul(pos)),
				a.Add(unit.Mul(end)),
			})
		}
		pos = end
	}
	return pieces
}
