package geom_test

import (
	"testing"

	"github.com/okian/nonary/internal/domain/geom"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGrid(t *testing.T) {
	Convey("Given a grid with default parameters", t, func() {
		g := geom.NewGrid()

		Convey("Key centers form a 3x3 lattice", func() {
			So(g.Center(0), ShouldResemble, geom.Point{X: 0, Y: 0})
			So(g.Center(2), ShouldResemble, geom.Point{X: 2, Y: 0})
			So(g.Center(4), ShouldResemble, geom.Point{X: 1, Y: 1})
			So(g.Center(8), ShouldResemble, geom.Point{X: 2, Y: 2})
		})

		Convey("Swipe endpoints are displaced from the key center", func() {
			c := g.Center(4)
			up := g.SwipeEnd(4, geom.Up)
			So(up.X, ShouldEqual, c.X)
			So(up.Y, ShouldBeLessThan, c.Y)

			right := g.SwipeEnd(4, geom.Right)
			So(right.Y, ShouldEqual, c.Y)
			So(right.X, ShouldBeGreaterThan, c.X)

			So(c.Dist(up), ShouldAlmostEqual, g.SwipeDistance())
			So(c.Dist(right), ShouldAlmostEqual, g.SwipeDistance())
		})
	})

	Convey("Given a grid with custom parameters", t, func() {
		g := geom.NewGrid(geom.WithPitch(2.0), geom.WithKeyWidth(1.5), geom.WithSwipeDistance(0.8))

		Convey("The options take effect", func() {
			So(g.Center(1), ShouldResemble, geom.Point{X: 2, Y: 0})
			So(g.KeyWidth(), ShouldEqual, 1.5)
			So(g.SwipeDistance(), ShouldEqual, 0.8)
		})

		Convey("Non-positive option values are ignored", func() {
			h := geom.NewGrid(geom.WithPitch(-1), geom.WithKeyWidth(0))
			So(h.Center(1).X, ShouldEqual, 1.0)
			So(h.KeyWidth(), ShouldEqual, 0.9)
		})
	})
}

func TestChebyshev(t *testing.T) {
	Convey("Given the 3x3 key grid", t, func() {
		Convey("A key is at distance zero from itself", func() {
			for k := 0; k < geom.NumKeys; k++ {
				So(geom.Chebyshev(k, k), ShouldEqual, 0)
			}
		})

		Convey("Side and corner neighbors are at distance one", func() {
			So(geom.Chebyshev(4, 1), ShouldEqual, 1) // above
			So(geom.Chebyshev(4, 3), ShouldEqual, 1) // left
			So(geom.Chebyshev(4, 0), ShouldEqual, 1) // corner
			So(geom.Chebyshev(0, 1), ShouldEqual, 1)
		})

		Convey("Opposite corners and edges are at distance two", func() {
			So(geom.Chebyshev(0, 8), ShouldEqual, 2)
			So(geom.Chebyshev(0, 2), ShouldEqual, 2)
			So(geom.Chebyshev(6, 2), ShouldEqual, 2)
		})

		Convey("Distance is symmetric", func() {
			for a := 0; a < geom.NumKeys; a++ {
				for b := 0; b < geom.NumKeys; b++ {
					So(geom.Chebyshev(a, b), ShouldEqual, geom.Chebyshev(b, a))
				}
			}
		})
	})
}

func TestFitts(t *testing.T) {
	Convey("Given movement-time constants", t, func() {
		f := geom.Fitts{A: 0.05, B: 0.12}

		Convey("Zero distance costs exactly the base constant", func() {
			So(f.Time(0, 1.0), ShouldEqual, 0.05)
		})

		Convey("Time grows with distance", func() {
			So(f.Time(1, 1.0), ShouldBeGreaterThan, f.Time(0.5, 1.0))
			So(f.Time(2, 1.0), ShouldBeGreaterThan, f.Time(1, 1.0))
		})

		Convey("Time shrinks as the target widens", func() {
			So(f.Time(1, 2.0), ShouldBeLessThan, f.Time(1, 1.0))
		})

		Convey("Time is never below the base constant", func() {
			for _, d := range []float64{0, 0.1, 1, 10, 100} {
				So(f.Time(d, 0.9), ShouldBeGreaterThanOrEqualTo, 0.05)
			}
		})

		Convey("Move agrees with Time over the point distance", func() {
			from := geom.Point{X: 0, Y: 0}
			to := geom.Point{X: 3, Y: 4}
			So(f.Move(from, to, 1.0), ShouldEqual, f.Time(5, 1.0))
		})
	})
}
