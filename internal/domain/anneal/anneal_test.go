package anneal_test

import (
	"context"
	"strings"
	"testing"

	"github.com/okian/nonary/internal/domain/anneal"
	"github.com/okian/nonary/internal/domain/corpus"
	"github.com/okian/nonary/internal/domain/cost"
	"github.com/okian/nonary/internal/domain/geom"
	"github.com/okian/nonary/internal/domain/layout"
	. "github.com/smartystreets/goconvey/convey"
)

const sample = "the quick brown fox jumps over the lazy dog " +
	"pack my box with five dozen liquor jugs " +
	"how vexingly quick daft zebras jump"

func fixtures(t *testing.T) (*cost.Model, *corpus.Stats, *layout.Layout) {
	t.Helper()
	stats, err := corpus.Scan(strings.NewReader(sample), []rune(layout.DefaultAlphabet))
	if err != nil {
		t.Fatalf("scan corpus: %v", err)
	}
	start, err := layout.Reference()
	if err != nil {
		t.Fatalf("reference layout: %v", err)
	}
	return cost.New(geom.NewGrid()), stats, start
}

func isBijection(l *layout.Layout) bool {
	seen := make(map[layout.Slot]bool)
	for _, c := range l.Alphabet() {
		s, ok := l.SlotFor(c)
		if !ok || seen[s] || l.Char(s) != c {
			return false
		}
		seen[s] = true
	}
	return true
}

func TestRun(t *testing.T) {
	model, stats, start := fixtures(t)

	Convey("Given a short annealing run", t, func() {
		opts := []anneal.Option{
			anneal.WithSeed(42),
			anneal.WithIterations(2000),
			anneal.WithStepsPerTemp(50),
		}

		Convey("The best layout never scores worse than the start", func() {
			res, err := anneal.New(model, stats, opts...).Run(context.Background(), start)
			So(err, ShouldBeNil)
			So(res.Breakdown.Total, ShouldBeLessThanOrEqualTo, model.Total(start, stats))
		})

		Convey("The result is still a bijection over the alphabet", func() {
			res, err := anneal.New(model, stats, opts...).Run(context.Background(), start)
			So(err, ShouldBeNil)
			So(isBijection(res.Layout), ShouldBeTrue)
			So(res.Layout.Alphabet(), ShouldResemble, start.Alphabet())
		})

		Convey("The starting layout is left untouched", func() {
			before := start.Encode()
			_, err := anneal.New(model, stats, opts...).Run(context.Background(), start)
			So(err, ShouldBeNil)
			So(start.Encode(), ShouldEqual, before)
		})

		Convey("The same seed reproduces the same result", func() {
			a, err := anneal.New(model, stats, opts...).Run(context.Background(), start)
			So(err, ShouldBeNil)
			b, err := anneal.New(model, stats, opts...).Run(context.Background(), start)
			So(err, ShouldBeNil)
			So(a.Layout.Encode(), ShouldEqual, b.Layout.Encode())
			So(a.Breakdown.Total, ShouldEqual, b.Breakdown.Total)
			So(a.Iterations, ShouldEqual, b.Iterations)
		})

		Convey("Seed zero behaves like the fixed default seed", func() {
			a, err := anneal.New(model, stats, opts[1:]...).Run(context.Background(), start)
			So(err, ShouldBeNil)
			b, err := anneal.New(model, stats, append(opts[1:], anneal.WithSeed(1))...).Run(context.Background(), start)
			So(err, ShouldBeNil)
			So(a.Layout.Encode(), ShouldEqual, b.Layout.Encode())
		})

		Convey("The reported breakdown matches a fresh evaluation", func() {
			res, err := anneal.New(model, stats, opts...).Run(context.Background(), start)
			So(err, ShouldBeNil)
			So(res.Breakdown.Total, ShouldEqual, model.Total(res.Layout, stats))
		})
	})

	Convey("Progress reporting", t, func() {
		var reports []anneal.Progress
		ann := anneal.New(model, stats,
			anneal.WithSeed(7),
			anneal.WithIterations(500),
			anneal.WithStepsPerTemp(100),
			anneal.WithProgress(func(p anneal.Progress) { reports = append(reports, p) }),
		)
		_, err := ann.Run(context.Background(), start)
		So(err, ShouldBeNil)
		So(len(reports), ShouldEqual, 5)

		Convey("Best cost never rises and temperature always falls", func() {
			for i := 1; i < len(reports); i++ {
				So(reports[i].Best, ShouldBeLessThanOrEqualTo, reports[i-1].Best)
				So(reports[i].Temperature, ShouldBeLessThan, reports[i-1].Temperature)
			}
		})

		Convey("Iteration counts accumulate by block", func() {
			So(reports[0].Iteration, ShouldEqual, 100)
			So(reports[len(reports)-1].Iteration, ShouldEqual, 500)
		})
	})

	Convey("Parallel chains", t, func() {
		opts := []anneal.Option{
			anneal.WithSeed(42),
			anneal.WithIterations(1000),
			anneal.WithStepsPerTemp(50),
			anneal.WithChains(4),
		}

		Convey("Runs are reproducible across invocations", func() {
			a, err := anneal.New(model, stats, opts...).Run(context.Background(), start)
			So(err, ShouldBeNil)
			b, err := anneal.New(model, stats, opts...).Run(context.Background(), start)
			So(err, ShouldBeNil)
			So(a.Layout.Encode(), ShouldEqual, b.Layout.Encode())
			So(a.Chain, ShouldEqual, b.Chain)
		})

		Convey("The winner improves on the start and names its chain", func() {
			multi, err := anneal.New(model, stats, opts...).Run(context.Background(), start)
			So(err, ShouldBeNil)
			So(multi.Breakdown.Total, ShouldBeLessThanOrEqualTo, model.Total(start, stats))
			So(multi.Chain, ShouldBeBetweenOrEqual, 0, 3)
			So(isBijection(multi.Layout), ShouldBeTrue)
		})
	})

	Convey("Degenerate inputs fail fast", t, func() {
		ann := anneal.New(model, stats)

		Convey("A nil start is rejected", func() {
			_, err := ann.Run(context.Background(), nil)
			So(err, ShouldWrap, anneal.ErrNoStart)
		})

		Convey("An empty alphabet is rejected", func() {
			empty, err := layout.New(nil, nil)
			So(err, ShouldBeNil)
			_, err = ann.Run(context.Background(), empty)
			So(err, ShouldWrap, anneal.ErrDegenerate)
		})
	})

	Convey("Cancellation stops the run", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := anneal.New(model, stats).Run(ctx, start)
		So(err, ShouldWrap, context.Canceled)
	})
}

func TestFrequentPairMovesCloser(t *testing.T) {
	Convey("A corpus dominated by one bigram pulls its characters together", t, func() {
		alphabet := []rune(layout.DefaultAlphabet)
		stats, err := corpus.Scan(strings.NewReader(strings.Repeat("th ", 500)+sample), alphabet)
		So(err, ShouldBeNil)
		model := cost.New(geom.NewGrid())

		// Start with t and h parked on opposite corners.
		start, err := layout.Reference()
		So(err, ShouldBeNil)
		sh, _ := start.SlotFor('h')
		far, _ := start.SlotFor('a') // key 0, opposite corner from t on key 6
		start.Swap(sh, far)

		res, err := anneal.New(model, stats,
			anneal.WithSeed(3),
			anneal.WithIterations(20000),
			anneal.WithStepsPerTemp(100),
		).Run(context.Background(), start)
		So(err, ShouldBeNil)

		rt, _ := res.Layout.SlotFor('t')
		rh, _ := res.Layout.SlotFor('h')
		So(geom.Chebyshev(rt.Key(), rh.Key()), ShouldBeLessThanOrEqualTo, 1)
	})
}
