// Package report renders layouts and cost breakdowns for terminal
// output: a bordered key grid with swipe characters on the cell edges,
// and a cost summary naming the most expensive characters and the most
// crowded swipe pairs.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/nonary/internal/domain/cost"
	"github.com/okian/nonary/internal/domain/geom"
	"github.com/okian/nonary/internal/domain/layout"
)

// topEntries is how many attribution entries a summary names per bucket.
const topEntries = 5

var (
	cellStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// Grid renders the layout as a 3x3 grid. Each cell shows the tap
// character in the middle and the swipe characters toward their edges.
func Grid(l *layout.Layout) string {
	rows := make([]string, 0, geom.Rows)
	for r := 0; r < geom.Rows; r++ {
		cells := make([]string, 0, geom.Columns)
		for c := 0; c < geom.Columns; c++ {
			cells = append(cells, cellStyle.Render(cell(l, r*geom.Columns+c)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func cell(l *layout.Layout, key int) string {
	at := func(r layout.Role) rune {
		c := l.Char(layout.SlotOf(key, r))
		if c == layout.Empty {
			return ' '
		}
		return c
	}
	return fmt.Sprintf("  %c  \n%c %c %c\n  %c  ",
		at(layout.SwipeUp),
		at(layout.SwipeLeft), at(layout.Tap), at(layout.SwipeRight),
		at(layout.SwipeDown),
	)
}

// Summary renders the cost totals with the heaviest contributors of
// each bucket.
func Summary(b cost.Breakdown) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("cost"))
	fmt.Fprintf(&sb, "\n  total %.6f = base %.6f + swipe %.6f\n", b.Total, b.Base, b.Swipe)

	chars := topChars(b.PerChar, topEntries)
	if len(chars) > 0 {
		sb.WriteString(headerStyle.Render("costliest characters"))
		sb.WriteString("\n")
		for _, e := range chars {
			fmt.Fprintf(&sb, "  %c  %.6f\n", e.c, e.v)
		}
	}

	pairs := topPairs(b.PerPair, topEntries)
	if len(pairs) > 0 {
		sb.WriteString(headerStyle.Render("crowded swipe pairs"))
		sb.WriteString("\n")
		for _, e := range pairs {
			fmt.Fprintf(&sb, "  %c+%c  %.6f\n", e.p.A, e.p.B, e.v)
		}
	}
	return sb.String()
}

// Render combines the grid and summary.
func Render(l *layout.Layout, b cost.Breakdown) string {
	return Grid(l) + "\n" + Summary(b)
}

type charEntry struct {
	c rune
	v float64
}

func topChars(m map[rune]float64, n int) []charEntry {
	entries := make([]charEntry, 0, len(m))
	for c, v := range m {
		if v > 0 {
			entries = append(entries, charEntry{c: c, v: v})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].v != entries[j].v {
			return entries[i].v > entries[j].v
		}
		return entries[i].c < entries[j].c
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

type pairEntry struct {
	p cost.Pair
	v float64
}

func topPairs(m map[cost.Pair]float64, n int) []pairEntry {
	entries := make([]pairEntry, 0, len(m))
	for p, v := range m {
		if v > 0 {
			entries = append(entries, pairEntry{p: p, v: v})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].v != entries[j].v {
			return entries[i].v > entries[j].v
		}
		if entries[i].p.A != entries[j].p.A {
			return entries[i].p.A < entries[j].p.A
		}
		return entries[i].p.B < entries[j].p.B
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
