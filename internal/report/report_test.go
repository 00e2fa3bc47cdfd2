package report_test

import (
	"strings"
	"testing"

	"github.com/okian/nonary/internal/domain/cost"
	"github.com/okian/nonary/internal/domain/layout"
	"github.com/okian/nonary/internal/report"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGrid(t *testing.T) {
	Convey("Given the reference layout", t, func() {
		l, err := layout.Reference()
		So(err, ShouldBeNil)
		out := report.Grid(l)

		Convey("Every placed character appears exactly once", func() {
			for _, c := range l.Alphabet() {
				So(strings.Count(out, string(c)), ShouldEqual, 1)
			}
		})

		Convey("Swipe characters sit on their side of the tap character", func() {
			lineOf := func(c string) int {
				for i, line := range strings.Split(out, "\n") {
					if strings.Contains(line, c) {
						return i
					}
				}
				return -1
			}
			// k swipes up from h, so it renders a line above it.
			So(lineOf("k"), ShouldBeLessThan, lineOf("h"))
			// d swipes down from n, so it renders a line below it.
			So(lineOf("n"), ShouldBeLessThan, lineOf("d"))
			// l and m flank n on its own line.
			So(strings.Index(out, "l"), ShouldBeLessThan, strings.Index(out, "n"))
			So(strings.Index(out, "n"), ShouldBeLessThan, strings.Index(out, "m"))
		})
	})
}

func TestSummary(t *testing.T) {
	Convey("Given a cost breakdown", t, func() {
		b := cost.Breakdown{
			Total: 0.30,
			Base:  0.28,
			Swipe: 0.02,
			PerChar: map[rune]float64{
				'e': 0.10, 't': 0.08, 'a': 0.05, 'o': 0.03,
				'n': 0.015, 'i': 0.005, 'q': 0,
			},
			PerPair: map[cost.Pair]float64{
				{A: 'j', B: 'x'}: 0.015,
				{A: 'q', B: 'z'}: 0.005,
			},
		}
		out := report.Summary(b)

		Convey("Totals are printed with their decomposition", func() {
			So(out, ShouldContainSubstring, "total 0.300000 = base 0.280000 + swipe 0.020000")
		})

		Convey("Only the heaviest characters are named, costliest first", func() {
			So(out, ShouldContainSubstring, "e  0.100000")
			So(out, ShouldContainSubstring, "n  0.015000")
			// Sixth-place i and zero-cost q fall below the cut.
			So(out, ShouldNotContainSubstring, "i  0.005000")
			So(out, ShouldNotContainSubstring, "q  0.000000")
			So(strings.Index(out, "e  0.1"), ShouldBeLessThan, strings.Index(out, "t  0.08"))
		})

		Convey("Crowded swipe pairs are listed", func() {
			So(out, ShouldContainSubstring, "j+x  0.015000")
			So(out, ShouldContainSubstring, "q+z  0.005000")
		})

		Convey("Empty attribution maps render totals only", func() {
			bare := report.Summary(cost.Breakdown{Total: 0.1, Base: 0.1})
			So(bare, ShouldContainSubstring, "total 0.100000")
			So(bare, ShouldNotContainSubstring, "costliest characters")
			So(bare, ShouldNotContainSubstring, "crowded swipe pairs")
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Render combines the grid and the summary", t, func() {
		l, err := layout.Reference()
		So(err, ShouldBeNil)
		out := report.Render(l, cost.Breakdown{Total: 0.25, Base: 0.25})
		So(out, ShouldContainSubstring, "total 0.250000")
		// The grid comes first.
		So(strings.Index(out, "total"), ShouldBeGreaterThan, strings.Index(out, "a"))
	})
}
