// Package corpus builds unigram and bigram statistics over an active
// alphabet from input text. Stats are immutable once built and safe for
// concurrent readers; characters never seen read as zero frequency.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"unicode"
)

// Bigram is an ordered pair of consecutive characters.
type Bigram struct {
	First  rune
	Second rune
}

// Stats holds frequency tables over the active alphabet. Counts are
// kept raw; Freq and BigramFreq normalize to probabilities.
type Stats struct {
	uni   map[rune]float64
	bi    map[Bigram]float64
	chars float64 // total counted characters
	pairs float64 // total counted adjacent pairs

	// Sorted key orders, fixed at construction. Iteration through
	// EachUnigram/EachBigram follows these so that floating-point sums
	// over the tables are reproducible run to run.
	uniOrder []rune
	biOrder  []Bigram
}

// Scan reads text and counts unigrams and bigrams over the alphabet.
// Input is case-folded. A character outside the alphabet breaks the
// bigram chain: the characters on either side of it do not pair up.
func Scan(r io.Reader, alphabet []rune) (*Stats, error) {
	member := make(map[rune]bool, len(alphabet))
	for _, c := range alphabet {
		member[unicode.ToLower(c)] = true
	}

	uni := make(map[rune]float64)
	bi := make(map[Bigram]float64)
	var chars, pairs float64

	br := bufio.NewReader(r)
	var prev rune
	havePrev := false
	for {
		c, _, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scan corpus: %w", err)
		}
		c = unicode.ToLower(c)
		if !member[c] {
			havePrev = false
			continue
		}
		uni[c]++
		chars++
		if havePrev {
			bi[Bigram{First: prev, Second: c}]++
			pairs++
		}
		prev = c
		havePrev = true
	}

	return build(uni, bi, chars, pairs), nil
}

// FromCounts builds Stats from externally produced tables. Negative
// counts are rejected; missing entries are simply zero.
func FromCounts(uni map[rune]float64, bi map[Bigram]float64) (*Stats, error) {
	var chars, pairs float64
	u := make(map[rune]float64, len(uni))
	for c, n := range uni {
		if n < 0 {
			return nil, fmt.Errorf("%w: unigram %q", ErrNegativeCount, c)
		}
		if n == 0 {
			continue
		}
		u[c] = n
		chars += n
	}
	b := make(map[Bigram]float64, len(bi))
	for g, n := range bi {
		if n < 0 {
			return nil, fmt.Errorf("%w: bigram %q%q", ErrNegativeCount, g.First, g.Second)
		}
		if n == 0 {
			continue
		}
		b[g] = n
		pairs += n
	}
	return build(u, b, chars, pairs), nil
}

func build(uni map[rune]float64, bi map[Bigram]float64, chars, pairs float64) *Stats {
	s := &Stats{
		uni:      uni,
		bi:       bi,
		chars:    chars,
		pairs:    pairs,
		uniOrder: make([]rune, 0, len(uni)),
		biOrder:  make([]Bigram, 0, len(bi)),
	}
	for c := range uni {
		s.uniOrder = append(s.uniOrder, c)
	}
	sort.Slice(s.uniOrder, func(i, j int) bool { return s.uniOrder[i] < s.uniOrder[j] })
	for g := range bi {
		s.biOrder = append(s.biOrder, g)
	}
	sort.Slice(s.biOrder, func(i, j int) bool {
		a, b := s.biOrder[i], s.biOrder[j]
		if a.First != b.First {
			return a.First < b.First
		}
		return a.Second < b.Second
	})
	return s
}

// Count returns the raw unigram count for c.
func (s *Stats) Count(c rune) float64 { return s.uni[c] }

// Freq returns the unigram probability of c, or 0 for an empty corpus.
func (s *Stats) Freq(c rune) float64 {
	if s.chars == 0 {
		return 0
	}
	return s.uni[c] / s.chars
}

// BigramFreq returns the probability of the ordered pair (a, b).
func (s *Stats) BigramFreq(a, b rune) float64 {
	if s.pairs == 0 {
		return 0
	}
	return s.bi[Bigram{First: a, Second: b}] / s.pairs
}

// Characters returns the total number of counted characters.
func (s *Stats) Characters() float64 { return s.chars }

// Pairs returns the total number of counted adjacent pairs.
func (s *Stats) Pairs() float64 { return s.pairs }

// EachUnigram calls fn for every seen character in sorted order with
// its probability.
func (s *Stats) EachUnigram(fn func(c rune, freq float64)) {
	for _, c := range s.uniOrder {
		fn(c, s.Freq(c))
	}
}

// EachBigram calls fn for every seen pair in sorted order with its
// probability.
func (s *Stats) EachBigram(fn func(g Bigram, freq float64)) {
	for _, g := range s.biOrder {
		fn(g, s.bi[g]/s.pairs)
	}
}
