package curve

import (
	"github.com/meenmo/bondcurve/solver"
)

// Point is one node of a spot curve.
type Point struct {
	// Maturity is the time to maturity in years (ACT/365F).
	Maturity float64
	// Rate is the zero rate at Maturity.
	Rate float64
}

// SpotCurve maps time to maturity to a zero rate, keeping insertion order.
//
// Bootstrap inserts nodes in maturity order and every later node is solved
// against all earlier ones, so order is part of the curve's meaning. A
// maturity can be inserted once; replacing it takes an explicit Overwrite.
type SpotCurve struct {
	points []Point
}

// NewSpotCurve returns an empty curve.
func NewSpotCurve() *SpotCurve {
	return &SpotCurve{}
}

// FromPoints builds a curve from points in the given order. Duplicate
// maturities are rejected.
func FromPoints(points ...Point) (*SpotCurve, error) {
	c := &SpotCurve{points: make([]Point, 0, len(points))}
	for _, p := range points {
		if err := c.Insert(p.Maturity, p.Rate); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Len is the number of nodes.
func (c *SpotCurve) Len() int {
	if c == nil {
		return 0
	}
	return len(c.points)
}

// Points returns a copy of the nodes in insertion order.
func (c *SpotCurve) Points() []Point {
	if c == nil {
		return nil
	}
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// Rate returns the rate stored at exactly maturity t.
func (c *SpotCurve) Rate(t float64) (float64, bool) {
	if i := c.index(t); i >= 0 {
		return c.points[i].Rate, true
	}
	return 0, false
}

// Insert appends a node. Inserting a maturity that is already present fails
// with a *solver.DomainError.
func (c *SpotCurve) Insert(t, rate float64) error {
	if c.index(t) >= 0 {
		return solver.Domainf("SpotCurve.Insert", "maturity %g already on the curve", t)
	}
	c.points = append(c.points, Point{Maturity: t, Rate: rate})
	return nil
}

// Overwrite sets the rate at t, replacing an existing node in place (keeping
// its position) or appending a new one.
func (c *SpotCurve) Overwrite(t, rate float64) {
	if i := c.index(t); i >= 0 {
		c.points[i].Rate = rate
		return
	}
	c.points = append(c.points, Point{Maturity: t, Rate: rate})
}

// Scale returns a copy with every rate multiplied by k.
func (c *SpotCurve) Scale(k float64) *SpotCurve {
	out := &SpotCurve{points: c.Points()}
	for i := range out.points {
		out.points[i].Rate *= k
	}
	return out
}

// Decimal returns a copy with percent rates converted to decimals.
func (c *SpotCurve) Decimal() *SpotCurve {
	return c.Scale(0.01)
}

// Map returns the curve as maturity -> rate.
func (c *SpotCurve) Map() map[float64]float64 {
	out := make(map[float64]float64, c.Len())
	for _, p := range c.Points() {
		out[p.Maturity] = p.Rate
	}
	return out
}

func (c *SpotCurve) index(t float64) int {
	if c == nil {
		return -1
	}
	for i, p := range c.points {
		if p.Maturity == t {
			return i
		}
	}
	return -1
}
