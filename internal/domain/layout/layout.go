// Package layout defines the assignment of characters to key slots on
// the nine-key grid, and the swap moves used to explore alternative
// assignments. A Layout is a bijection from the active alphabet to
// (key, role) slots; every mutation preserves that invariant.
package layout

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/okian/nonary/internal/domain/geom"
)

// Role distinguishes how a character on a key is typed: a tap on the
// key center, or a swipe toward one of its edges.
type Role uint8

const (
	Tap Role = iota
	SwipeUp
	SwipeDown
	SwipeLeft
	SwipeRight

	// RoleCount is the number of roles a single key can host.
	RoleCount = 5
)

// IsSwipe reports whether the role is a directional gesture.
func (r Role) IsSwipe() bool { return r != Tap }

// Direction maps a swipe role onto its grid direction. Calling it on
// Tap is a programming error; it returns Up for lack of anything better.
func (r Role) Direction() geom.Direction {
	switch r {
	case SwipeDown:
		return geom.Down
	case SwipeLeft:
		return geom.Left
	case SwipeRight:
		return geom.Right
	default:
		return geom.Up
	}
}

func (r Role) String() string {
	switch r {
	case Tap:
		return "tap"
	case SwipeUp:
		return "up"
	case SwipeDown:
		return "down"
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Slot identifies one (key, role) position on the grid.
type Slot uint8

// NumSlots is the total slot capacity of the grid.
const NumSlots = geom.NumKeys * RoleCount

// SlotOf returns the slot for a key and role.
func SlotOf(key int, r Role) Slot { return Slot(key)*RoleCount + Slot(r) }

// Key returns the key index of the slot.
func (s Slot) Key() int { return int(s) / RoleCount }

// Role returns the role of the slot.
func (s Slot) Role() Role { return Role(s % RoleCount) }

func (s Slot) String() string {
	return fmt.Sprintf("key%d/%s", s.Key(), s.Role())
}

// Empty marks an unoccupied slot.
const Empty rune = 0

// encodingEmpty is the placeholder for an empty slot in the textual
// encoding produced by Encode. The rune is reserved: it may not appear
// in an active alphabet.
const encodingEmpty = '·'

// DefaultAlphabet is the character set optimized when none is configured.
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyz"

// Option applies a configuration option to layout construction.
type Option func(*settings)

type settings struct {
	centerSwipes bool
}

// WithCenterSwipes controls whether the center key may host swipe
// characters. Enabled by default.
func WithCenterSwipes(enabled bool) Option {
	return func(s *settings) { s.centerSwipes = enabled }
}

func newSettings(opts ...Option) settings {
	s := settings{centerSwipes: true}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Capacity returns how many characters the grid can hold under the
// given center-key rule.
func Capacity(centerSwipes bool) int {
	if centerSwipes {
		return NumSlots
	}
	return NumSlots - (RoleCount - 1)
}

func usableSlots(s settings) []Slot {
	slots := make([]Slot, 0, NumSlots)
	for i := Slot(0); i < NumSlots; i++ {
		if !s.centerSwipes && i.Key() == geom.CenterKey && i.Role().IsSwipe() {
			continue
		}
		slots = append(slots, i)
	}
	return slots
}

// Layout is a complete assignment of the active alphabet to slots. The
// forward array and the reverse index are updated together on every
// swap so they cannot fall out of sync.
type Layout struct {
	chars    [NumSlots]rune
	pos      map[rune]Slot
	alphabet []rune // sorted, shared between clones
	slots    []Slot // usable slots in ascending order, shared between clones
	cfg      settings
}

// New builds a Layout from an explicit character-to-slot assignment and
// validates it against the active alphabet.
func New(alphabet []rune, assign map[rune]Slot, opts ...Option) (*Layout, error) {
	cfg := newSettings(opts...)
	sorted, err := normalizeAlphabet(alphabet)
	if err != nil {
		return nil, err
	}
	if len(sorted) > Capacity(cfg.centerSwipes) {
		return nil, fmt.Errorf("%w: %d characters, %d slots", ErrCapacityExceeded, len(sorted), Capacity(cfg.centerSwipes))
	}

	l := &Layout{
		pos:      make(map[rune]Slot, len(sorted)),
		alphabet: sorted,
		slots:    usableSlots(cfg),
		cfg:      cfg,
	}
	in := make(map[rune]bool, len(sorted))
	for _, c := range sorted {
		in[c] = true
	}
	for c, s := range assign {
		if !in[c] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChar, c)
		}
		if int(s) >= NumSlots {
			return nil, fmt.Errorf("%w: slot %d out of range", ErrSlotDisallowed, s)
		}
		if !cfg.centerSwipes && s.Key() == geom.CenterKey && s.Role().IsSwipe() {
			return nil, fmt.Errorf("%w: %v", ErrSlotDisallowed, s)
		}
		if l.chars[s] != Empty {
			return nil, fmt.Errorf("%w: %v", ErrSlotConflict, s)
		}
		l.chars[s] = c
		l.pos[c] = s
	}
	if len(l.pos) != len(sorted) {
		return nil, fmt.Errorf("%w: %d of %d characters assigned", ErrIncomplete, len(l.pos), len(sorted))
	}
	return l, nil
}

// Random builds a Layout by scattering the alphabet uniformly over the
// usable slots using the provided random source.
func Random(alphabet []rune, rng *rand.Rand, opts ...Option) (*Layout, error) {
	if rng == nil {
		return nil, ErrNilRNG
	}
	cfg := newSettings(opts...)
	sorted, err := normalizeAlphabet(alphabet)
	if err != nil {
		return nil, err
	}
	slots := usableSlots(cfg)
	if len(sorted) > len(slots) {
		return nil, fmt.Errorf("%w: %d characters, %d slots", ErrCapacityExceeded, len(sorted), len(slots))
	}

	assign := make(map[rune]Slot, len(sorted))
	for i, p := range rng.Perm(len(slots))[:len(sorted)] {
		assign[sorted[i]] = slots[p]
	}
	return New(sorted, assign, opts...)
}

// Parse decodes a layout produced by Encode and validates it against
// the active alphabet.
func Parse(encoded string, alphabet []rune, opts ...Option) (*Layout, error) {
	runes := []rune(encoded)
	if len(runes) != NumSlots {
		return nil, fmt.Errorf("%w: want %d slots, got %d", ErrBadEncoding, NumSlots, len(runes))
	}
	assign := make(map[rune]Slot, len(alphabet))
	for i, c := range runes {
		if c == encodingEmpty {
			continue
		}
		if _, dup := assign[c]; dup {
			return nil, fmt.Errorf("%w: %q appears twice", ErrBadEncoding, c)
		}
		assign[c] = Slot(i)
	}
	return New(alphabet, assign, opts...)
}

// Encode serializes the layout as one rune per slot in slot order, with
// '·' marking empty slots. Parse is its inverse.
func (l *Layout) Encode() string {
	var b strings.Builder
	b.Grow(NumSlots)
	for _, c := range l.chars {
		if c == Empty {
			b.WriteRune(encodingEmpty)
		} else {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Alphabet returns the active alphabet in sorted order.
func (l *Layout) Alphabet() []rune {
	out := make([]rune, len(l.alphabet))
	copy(out, l.alphabet)
	return out
}

// Slots returns the slots usable under the layout's grid rules, in
// ascending order. Empty slots are included: moving a character into a
// free slot is a legal move.
func (l *Layout) Slots() []Slot {
	out := make([]Slot, len(l.slots))
	copy(out, l.slots)
	return out
}

// Char returns the character occupying a slot, or Empty.
func (l *Layout) Char(s Slot) rune { return l.chars[s] }

// SlotFor returns the slot holding a character.
func (l *Layout) SlotFor(c rune) (Slot, bool) {
	s, ok := l.pos[c]
	return s, ok
}

// Swap exchanges the contents of two slots. Either slot may be empty;
// the move always yields a valid layout.
func (l *Layout) Swap(a, b Slot) {
	ca, cb := l.chars[a], l.chars[b]
	l.chars[a], l.chars[b] = cb, ca
	if ca != Empty {
		l.pos[ca] = b
	}
	if cb != Empty {
		l.pos[cb] = a
	}
}

// Shuffle applies n random transpositions over the usable slots.
func (l *Layout) Shuffle(rng *rand.Rand, n int) {
	for i := 0; i < n; i++ {
		a := l.slots[rng.Intn(len(l.slots))]
		b := l.slots[rng.Intn(len(l.slots))]
		l.Swap(a, b)
	}
}

// Clone returns an independent copy. The alphabet and usable-slot
// slices are immutable and shared.
func (l *Layout) Clone() *Layout {
	c := &Layout{
		chars:    l.chars,
		pos:      make(map[rune]Slot, len(l.pos)),
		alphabet: l.alphabet,
		slots:    l.slots,
		cfg:      l.cfg,
	}
	for r, s := range l.pos {
		c.pos[r] = s
	}
	return c
}

func normalizeAlphabet(alphabet []rune) ([]rune, error) {
	sorted := make([]rune, len(alphabet))
	copy(sorted, alphabet)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i, c := range sorted {
		if c == encodingEmpty {
			return nil, fmt.Errorf("%w: %q", ErrReservedChar, c)
		}
		if i > 0 && c == sorted[i-1] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateChar, c)
		}
	}
	return sorted, nil
}
