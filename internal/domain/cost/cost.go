// Package cost scores a layout against corpus statistics. Evaluation is
// deterministic and side-effect free: the same layout and stats always
// produce the same Breakdown, bit for bit.
package cost

import (
	"github.com/okian/nonary/internal/domain/corpus"
	"github.com/okian/nonary/internal/domain/geom"
	"github.com/okian/nonary/internal/domain/layout"
)

// Default model constants. Fitts constants approximate thumb pointing
// times in seconds; the rest are unitless weights on the same scale.
const (
	defaultFittsA         = 0.05
	defaultFittsB         = 0.12
	defaultSwipePenalty   = 0.10
	defaultAdjWeight      = 0.25
	defaultAdjacentFactor = 0.5
)

// Option applies a configuration option to the Model.
type Option func(*Model)

// WithFitts sets the movement-time constants a and b.
func WithFitts(a, b float64) Option {
	return func(m *Model) {
		if a >= 0 && b > 0 {
			m.fitts = geom.Fitts{A: a, B: b}
		}
	}
}

// WithSwipePenalty sets the fixed cost added to every swipe keystroke
// on top of its two movement terms.
func WithSwipePenalty(p float64) Option {
	return func(m *Model) {
		if p >= 0 {
			m.swipePenalty = p
		}
	}
}

// WithAdjacencyPenalty sets the swipe-adjacency weighting: weight
// scales the frequency product of each crowded swipe pair, and factor
// discounts pairs on neighboring keys relative to pairs sharing a key.
func WithAdjacencyPenalty(weight, factor float64) Option {
	return func(m *Model) {
		if weight >= 0 {
			m.adjWeight = weight
		}
		if factor >= 0 {
			m.adjFactor = factor
		}
	}
}

// Model prices layouts. Build one per run; it is immutable afterwards
// and safe for concurrent use.
type Model struct {
	grid         *geom.Grid
	fitts        geom.Fitts
	swipePenalty float64
	adjWeight    float64
	adjFactor    float64
}

// New creates a Model over the given grid with default constants, then
// applies the provided options.
func New(grid *geom.Grid, opts ...Option) *Model {
	m := &Model{
		grid:         grid,
		fitts:        geom.Fitts{A: defaultFittsA, B: defaultFittsB},
		swipePenalty: defaultSwipePenalty,
		adjWeight:    defaultAdjWeight,
		adjFactor:    defaultAdjacentFactor,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Pair is an unordered pair of swipe characters, stored with A < B.
type Pair struct {
	A rune
	B rune
}

// Breakdown decomposes a layout's total cost. Base is the
// bigram-weighted movement cost; Swipe is the structural
// swipe-adjacency penalty. Total = Base + Swipe, and each bucket equals
// the sum of its attribution map exactly (summed in sorted key order).
type Breakdown struct {
	Total float64
	Base  float64
	Swipe float64

	// PerChar attributes base cost to the character being typed.
	PerChar map[rune]float64
	// PerPair attributes adjacency penalty to crowded swipe pairs.
	PerPair map[Pair]float64
}

// Evaluate scores the layout and returns the full breakdown.
func (m *Model) Evaluate(l *layout.Layout, stats *corpus.Stats) Breakdown {
	return m.evaluate(l, stats, true)
}

// Total scores the layout without building attribution maps. It returns
// exactly the same value as Evaluate(...).Total; the annealer uses this
// on its hot path.
func (m *Model) Total(l *layout.Layout, stats *corpus.Stats) float64 {
	return m.evaluate(l, stats, false).Total
}

// endpoint is where the pointer rests after typing the character at s:
// the key center for a tap, the swipe's end for a swipe.
func (m *Model) endpoint(s layout.Slot) geom.Point {
	if s.Role() == layout.Tap {
		return m.grid.Center(s.Key())
	}
	return m.grid.SwipeEnd(s.Key(), s.Role().Direction())
}

// stroke is the cost of typing the character at slot `to`, starting
// from point `from`: one movement to the key center, plus, for a swipe,
// the short directional extension and the fixed gesture penalty.
func (m *Model) stroke(from geom.Point, to layout.Slot) float64 {
	t := m.fitts.Move(from, m.grid.Center(to.Key()), m.grid.KeyWidth())
	if to.Role().IsSwipe() {
		t += m.fitts.Time(m.grid.SwipeDistance(), m.grid.KeyWidth()) + m.swipePenalty
	}
	return t
}

func (m *Model) evaluate(l *layout.Layout, stats *corpus.Stats, detail bool) Breakdown {
	alpha := l.Alphabet()

	// Base bucket: every corpus bigram charges the movement from the
	// first character's endpoint to the second character's key, plus
	// the second character's own swipe terms. Accumulated per target
	// slot, then summed in sorted alphabet order so the bucket equals
	// the attribution sum exactly.
	var perSlot [layout.NumSlots]float64
	stats.EachBigram(func(g corpus.Bigram, freq float64) {
		s1, ok1 := l.SlotFor(g.First)
		s2, ok2 := l.SlotFor(g.Second)
		if !ok1 || !ok2 || freq == 0 {
			return
		}
		perSlot[s2] += freq * m.stroke(m.endpoint(s1), s2)
	})

	b := Breakdown{}
	if detail {
		b.PerChar = make(map[rune]float64, len(alpha))
		b.PerPair = make(map[Pair]float64)
	}
	for _, c := range alpha {
		s, ok := l.SlotFor(c)
		if !ok {
			continue
		}
		b.Base += perSlot[s]
		if detail {
			b.PerChar[c] = perSlot[s]
		}
	}

	// Adjacency bucket: swipe characters packed on the same key or on
	// neighboring keys erode each other's directional precision. The
	// pair loop runs in sorted alphabet order for the same exact-sum
	// guarantee.
	for i, ca := range alpha {
		sa, ok := l.SlotFor(ca)
		if !ok || !sa.Role().IsSwipe() {
			continue
		}
		for _, cb := range alpha[i+1:] {
			sb, ok := l.SlotFor(cb)
			if !ok || !sb.Role().IsSwipe() {
				continue
			}
			d := geom.Chebyshev(sa.Key(), sb.Key())
			if d > 1 {
				continue
			}
			scale := 1.0
			if d == 1 {
				scale = m.adjFactor
			}
			p := m.adjWeight * stats.Freq(ca) * stats.Freq(cb) * scale
			b.Swipe += p
			if detail {
				b.PerPair[Pair{A: ca, B: cb}] = p
			}
		}
	}

	b.Total = b.Base + b.Swipe
	return b
}
