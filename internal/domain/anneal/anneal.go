// Package anneal searches layout space with simulated annealing:
// random slot transpositions accepted under the Metropolis criterion on
// a geometric cooling schedule, tracking the best layout ever seen.
// Runs are deterministic for a given seed and configuration.
package anneal

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/okian/nonary/internal/domain/corpus"
	"github.com/okian/nonary/internal/domain/cost"
	"github.com/okian/nonary/internal/domain/layout"
)

// Default schedule constants. Costs are expected seconds per character,
// so temperatures live on the same scale.
const (
	defaultInitialTemp  = 0.05
	defaultCoolingRate  = 0.95
	defaultMinTemp      = 1e-4
	defaultStepsPerTemp = 100
	defaultIterations   = 100_000
	defaultSwapsPerMove = 1
	defaultChains       = 1
)

// Progress reports the state of one chain after a temperature block.
type Progress struct {
	Chain       int
	Iteration   int // cumulative iterations in this chain
	Steps       int // iterations in the finished block
	Accepted    int // accepted moves in the finished block
	Temperature float64
	Current     float64
	Best        float64
}

// Result is the outcome of a run: the best layout seen across all
// chains and its full cost breakdown.
type Result struct {
	Layout     *layout.Layout
	Breakdown  cost.Breakdown
	Chain      int
	Iterations int
}

// Option applies a configuration option to the Annealer.
type Option func(*Annealer)

// WithSchedule sets the cooling schedule: the starting temperature, the
// geometric decay applied after every block, and the floor below which
// the run stops.
func WithSchedule(initial, cooling, floor float64) Option {
	return func(a *Annealer) {
		if initial > 0 {
			a.initialTemp = initial
		}
		if cooling > 0 && cooling < 1 {
			a.coolingRate = cooling
		}
		if floor > 0 {
			a.minTemp = floor
		}
	}
}

// WithStepsPerTemp sets how many iterations run at each temperature.
func WithStepsPerTemp(n int) Option {
	return func(a *Annealer) {
		if n > 0 {
			a.stepsPerTemp = n
		}
	}
}

// WithIterations sets the per-chain iteration budget.
func WithIterations(n int) Option {
	return func(a *Annealer) {
		if n > 0 {
			a.iterations = n
		}
	}
}

// WithSwapsPerMove sets how many transpositions make up one candidate
// move. One is the classic single-swap neighborhood.
func WithSwapsPerMove(n int) Option {
	return func(a *Annealer) {
		if n > 0 {
			a.swapsPerMove = n
		}
	}
}

// WithChains sets the number of independent annealing chains. Chains
// run in parallel with derived seeds; the cheapest final best wins.
func WithChains(n int) Option {
	return func(a *Annealer) {
		if n > 0 {
			a.chains = n
		}
	}
}

// WithSeed sets the base random seed. Zero selects a fixed default.
func WithSeed(seed int64) Option {
	return func(a *Annealer) { a.seed = seed }
}

// WithProgress installs a callback invoked after every temperature
// block. The callback runs on the chain's goroutine and must be fast.
func WithProgress(fn func(Progress)) Option {
	return func(a *Annealer) { a.progress = fn }
}

// Annealer owns the search configuration. The model and stats are read
// only; all mutable search state lives inside Run.
type Annealer struct {
	model *cost.Model
	stats *corpus.Stats

	initialTemp  float64
	coolingRate  float64
	minTemp      float64
	stepsPerTemp int
	iterations   int
	swapsPerMove int
	chains       int
	seed         int64
	progress     func(Progress)
}

// New creates an Annealer with default schedule parameters, then
// applies the provided options.
func New(model *cost.Model, stats *corpus.Stats, opts ...Option) *Annealer {
	a := &Annealer{
		model:        model,
		stats:        stats,
		initialTemp:  defaultInitialTemp,
		coolingRate:  defaultCoolingRate,
		minTemp:      defaultMinTemp,
		stepsPerTemp: defaultStepsPerTemp,
		iterations:   defaultIterations,
		swapsPerMove: defaultSwapsPerMove,
		chains:       defaultChains,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run searches from the starting layout and returns the best layout
// seen across all chains. The starting layout is not mutated. With more
// than one chain, every chain gets an independent derived seed and its
// own layout copy; results are reduced to the global minimum only after
// every chain finishes, ties going to the lowest chain index.
func (a *Annealer) Run(ctx context.Context, start *layout.Layout) (*Result, error) {
	if start == nil {
		return nil, ErrNoStart
	}
	if len(start.Alphabet()) == 0 || len(start.Slots()) < 2 {
		return nil, ErrDegenerate
	}

	if a.chains == 1 {
		return a.runChain(ctx, 0, rngFromSeed(a.seed), start.Clone())
	}

	results := make([]*Result, a.chains)
	errs := make([]error, a.chains)
	var wg sync.WaitGroup
	for c := 0; c < a.chains; c++ {
		wg.Add(1)
		go func(chain int) {
			defer wg.Done()
			rng := rngFromSeed(deriveSeed(a.seed, uint64(chain)))
			results[chain], errs[chain] = a.runChain(ctx, chain, rng, start.Clone())
		}(c)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Breakdown.Total < best.Breakdown.Total {
			best = r
		}
	}
	return best, nil
}

func (a *Annealer) runChain(ctx context.Context, chain int, rng *rand.Rand, cur *layout.Layout) (*Result, error) {
	slots := cur.Slots()
	curCost := a.model.Total(cur, a.stats)
	best := cur.Clone()
	bestCost := curCost

	type move struct{ a, b layout.Slot }
	moves := make([]move, a.swapsPerMove)

	temp := a.initialTemp
	iter := 0
	for iter < a.iterations && temp >= a.minTemp {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("chain %d: %w", chain, ctx.Err())
		default:
		}

		steps := 0
		accepted := 0
		for ; steps < a.stepsPerTemp && iter < a.iterations; steps++ {
			for i := range moves {
				sa := slots[rng.Intn(len(slots))]
				sb := slots[rng.Intn(len(slots))]
				for sb == sa {
					sb = slots[rng.Intn(len(slots))]
				}
				moves[i] = move{a: sa, b: sb}
				cur.Swap(sa, sb)
			}

			candCost := a.model.Total(cur, a.stats)
			delta := candCost - curCost
			if delta <= 0 || rng.Float64() < math.Exp(-delta/temp) {
				curCost = candCost
				accepted++
				if candCost < bestCost {
					bestCost = candCost
					best = cur.Clone()
				}
			} else {
				// Transpositions are self-inverse; undo in reverse.
				for i := len(moves) - 1; i >= 0; i-- {
					cur.Swap(moves[i].a, moves[i].b)
				}
			}
			iter++
		}

		temp *= a.coolingRate
		if a.progress != nil {
			a.progress(Progress{
				Chain:       chain,
				Iteration:   iter,
				Steps:       steps,
				Accepted:    accepted,
				Temperature: temp,
				Current:     curCost,
				Best:        bestCost,
			})
		}
	}

	return &Result{
		Layout:     best,
		Breakdown:  a.model.Evaluate(best, a.stats),
		Chain:      chain,
		Iterations: iter,
	}, nil
}
