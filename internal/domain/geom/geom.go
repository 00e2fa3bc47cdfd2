// Package geom models the physical shape of the nine-key grid: key
// positions, swipe endpoints, key adjacency, and the movement-time law
// used to price every keystroke.
package geom

import "math"

// Grid dimensions. Keys are numbered 0..8 left-to-right, top-to-bottom.
const (
	Columns   = 3
	Rows      = 3
	NumKeys   = Columns * Rows
	CenterKey = 4
)

// Direction is a cardinal swipe direction on a key.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Vector returns the unit displacement of the direction. Y grows
// downward, matching screen coordinates.
func (d Direction) Vector() (dx, dy float64) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}

// Point is a position on the keyboard plane, in the same units as the
// grid pitch.
type Point struct {
	X float64
	Y float64
}

// Dist returns the Euclidean distance to q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Default physical parameters, in key-pitch units.
const (
	defaultPitch         = 1.0
	defaultKeyWidth      = 0.9
	defaultSwipeDistance = 0.4
)

// Grid holds the physical placement of the nine keys.
type Grid struct {
	pitch float64 // center-to-center key spacing
	width float64 // key width used as the Fitts target size
	swipe float64 // length of the directional extension of a swipe
}

// Option applies a configuration option to the Grid.
type Option func(*Grid)

// WithPitch sets the center-to-center key spacing.
func WithPitch(pitch float64) Option {
	return func(g *Grid) {
		if pitch > 0 {
			g.pitch = pitch
		}
	}
}

// WithKeyWidth sets the key width used as the movement target size.
func WithKeyWidth(width float64) Option {
	return func(g *Grid) {
		if width > 0 {
			g.width = width
		}
	}
}

// WithSwipeDistance sets how far a swipe travels past the key center.
func WithSwipeDistance(dist float64) Option {
	return func(g *Grid) {
		if dist > 0 {
			g.swipe = dist
		}
	}
}

// NewGrid creates a Grid with default physical parameters, then applies
// the provided options.
func NewGrid(opts ...Option) *Grid {
	g := &Grid{
		pitch: defaultPitch,
		width: defaultKeyWidth,
		swipe: defaultSwipeDistance,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Center returns the geometric center of a key.
func (g *Grid) Center(key int) Point {
	return Point{
		X: float64(key%Columns) * g.pitch,
		Y: float64(key/Columns) * g.pitch,
	}
}

// SwipeEnd returns where a swipe starting on key and moving in direction
// d comes to rest.
func (g *Grid) SwipeEnd(key int, d Direction) Point {
	c := g.Center(key)
	dx, dy := d.Vector()
	return Point{X: c.X + dx*g.swipe, Y: c.Y + dy*g.swipe}
}

// KeyWidth returns the key width used as the movement target size.
func (g *Grid) KeyWidth() float64 { return g.width }

// SwipeDistance returns the length of a swipe's directional extension.
func (g *Grid) SwipeDistance() float64 { return g.swipe }

// Chebyshev returns the grid distance between two keys: 0 for the same
// key, 1 for keys sharing a side or corner.
func Chebyshev(a, b int) int {
	dc := a%Columns - b%Columns
	dr := a/Columns - b/Columns
	if dc < 0 {
		dc = -dc
	}
	if dr < 0 {
		dr = -dr
	}
	if dc > dr {
		return dc
	}
	return dr
}

// Fitts prices a single pointing movement: time = A + B*log2(d/w + 1).
// The log argument is at least 1 for any non-negative distance, so the
// returned time is never below A.
type Fitts struct {
	A float64
	B float64
}

// Time returns the movement time for covering dist toward a target of
// the given width.
func (f Fitts) Time(dist, width float64) float64 {
	return f.A + f.B*math.Log2(dist/width+1)
}

// Move returns the movement time from one point to another.
func (f Fitts) Move(from, to Point, width float64) float64 {
	return f.Time(from.Dist(to), width)
}
