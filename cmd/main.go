// Command nonary searches for a low-effort assignment of letters to a
// nine-key swipe keyboard, scored against a text corpus.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/okian/nonary/internal/config"
	"github.com/okian/nonary/internal/domain/anneal"
	"github.com/okian/nonary/internal/domain/corpus"
	"github.com/okian/nonary/internal/domain/cost"
	"github.com/okian/nonary/internal/domain/geom"
	"github.com/okian/nonary/internal/domain/layout"
	"github.com/okian/nonary/internal/history"
	"github.com/okian/nonary/internal/report"
	"github.com/okian/nonary/pkg/logger"
	"github.com/okian/nonary/pkg/metrics"
)

const (
	metricsReadHeaderTimeout = 5 * time.Second
	defaultHistoryLimit      = 10
)

func main() {
	// Best-effort .env for dev shells; real config comes from koanf.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Get().Error(ctx, "command failed", logger.Error(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nonary",
		Short:         "Nine-key swipe keyboard layout optimizer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newScoreCmd(), newHistoryCmd())
	return root
}

// loadConfig loads the layered configuration and applies the log level.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

func newRunCmd() *cobra.Command {
	var (
		seed       int64
		iterations int
		chains     int
	)
	cmd := &cobra.Command{
		Use:   "run <corpus>",
		Short: "Anneal toward a low-cost layout for the given corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("iterations") {
				cfg.Iterations = iterations
			}
			if cmd.Flags().Changed("chains") {
				cfg.Chains = chains
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runOptimize(ctx, cmd, cfg, args[0])
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 selects the fixed default)")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "per-chain iteration budget")
	cmd.Flags().IntVar(&chains, "chains", 0, "number of parallel annealing chains")
	return cmd
}

func runOptimize(ctx context.Context, cmd *cobra.Command, cfg *config.Config, corpusPath string) error {
	log := logger.Named("run")
	runID := uuid.NewString()

	model := buildModel(cfg)
	stats, err := scanCorpus(corpusPath, cfg)
	if err != nil {
		return err
	}
	start, err := startLayout(cfg)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		stopMetrics := serveMetrics(ctx, cfg.MetricsAddr)
		defer stopMetrics()
	}

	ann := anneal.New(model, stats,
		anneal.WithSchedule(cfg.InitialTemp, cfg.CoolingRate, cfg.MinTemp),
		anneal.WithStepsPerTemp(cfg.StepsPerTemp),
		anneal.WithIterations(cfg.Iterations),
		anneal.WithSwapsPerMove(cfg.SwapsPerMove),
		anneal.WithChains(cfg.Chains),
		anneal.WithSeed(cfg.Seed),
		anneal.WithProgress(func(p anneal.Progress) {
			metrics.AddIterations(p.Steps)
			metrics.AddAccepted(p.Accepted)
			metrics.AddRejected(p.Steps - p.Accepted)
			metrics.UpdateChain(p.Chain, p.Temperature, p.Current, p.Best)
			log.Debug(ctx, "annealing",
				logger.Int("chain", p.Chain),
				logger.Int("iteration", p.Iteration),
				logger.Float64("temperature", p.Temperature),
				logger.Float64("current", p.Current),
				logger.Float64("best", p.Best),
			)
		}),
	)

	log.Info(ctx, "starting optimization",
		logger.String("run_id", runID),
		logger.String("corpus", corpusPath),
		logger.Int64("seed", cfg.Seed),
		logger.Int("iterations", cfg.Iterations),
		logger.Int("chains", cfg.Chains),
	)

	started := time.Now()
	res, err := ann.Run(ctx, start)
	if err != nil {
		return err
	}
	elapsed := time.Since(started)
	metrics.RecordRun(res.Breakdown.Total, elapsed.Seconds())

	fmt.Fprintln(cmd.OutOrStdout(), report.Render(res.Layout, res.Breakdown))
	log.Info(ctx, "optimization finished",
		logger.String("run_id", runID),
		logger.Float64("total_cost", res.Breakdown.Total),
		logger.Float64("base_cost", res.Breakdown.Base),
		logger.Float64("swipe_cost", res.Breakdown.Swipe),
		logger.Int("winning_chain", res.Chain),
		logger.Float64("seconds", elapsed.Seconds()),
	)

	if cfg.HistoryPath != "" {
		if err := recordRun(ctx, cfg, runID, corpusPath, res); err != nil {
			// History is best effort; the result is already printed.
			log.Warn(ctx, "failed to record run history", logger.Error(err))
		}
	}
	return nil
}

// recordRun persists a finished run to the configured history database.
func recordRun(ctx context.Context, cfg *config.Config, runID, corpusPath string, res *anneal.Result) error {
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Insert(ctx, history.Run{
		ID:         runID,
		CreatedAt:  time.Now().UTC(),
		Corpus:     corpusPath,
		Seed:       cfg.Seed,
		Iterations: res.Iterations,
		Chains:     cfg.Chains,
		TotalCost:  res.Breakdown.Total,
		BaseCost:   res.Breakdown.Base,
		SwipeCost:  res.Breakdown.Swipe,
		Layout:     res.Layout.Encode(),
	})
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <corpus>",
		Short: "Score the configured starting layout without searching",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			model := buildModel(cfg)
			stats, err := scanCorpus(args[0], cfg)
			if err != nil {
				return err
			}
			l, err := startLayout(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Render(l, model.Evaluate(l, stats)))
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var (
		limit int
		best  bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded optimization runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			if cfg.HistoryPath == "" {
				return fmt.Errorf("%w: history_path is not configured", config.ErrInvalidConfig)
			}
			store, err := history.Open(cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if best {
				run, err := store.Best(ctx)
				if err != nil {
					return err
				}
				printRuns(cmd, []history.Run{run})
				return nil
			}
			runs, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			printRuns(cmd, runs)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "number of runs to list")
	cmd.Flags().BoolVar(&best, "best", false, "show only the lowest-cost run on record")
	return cmd
}

func printRuns(cmd *cobra.Command, runs []history.Run) {
	w := cmd.OutOrStdout()
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  cost=%.6f (base=%.6f swipe=%.6f)  seed=%d iters=%d chains=%d\n",
			r.CreatedAt.Format(time.RFC3339), r.ID, r.TotalCost, r.BaseCost, r.SwipeCost,
			r.Seed, r.Iterations, r.Chains)
		fmt.Fprintf(w, "  corpus=%s layout=%s\n", r.Corpus, r.Layout)
	}
}

func buildModel(cfg *config.Config) *cost.Model {
	grid := geom.NewGrid(
		geom.WithPitch(cfg.KeyPitch),
		geom.WithKeyWidth(cfg.KeyWidth),
		geom.WithSwipeDistance(cfg.SwipeDistance),
	)
	return cost.New(grid,
		cost.WithFitts(cfg.FittsA, cfg.FittsB),
		cost.WithSwipePenalty(cfg.SwipePenalty),
		cost.WithAdjacencyPenalty(cfg.AdjacencyWeight, cfg.AdjacencyFactor),
	)
}

func scanCorpus(path string, cfg *config.Config) (*corpus.Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return corpus.Scan(f, []rune(cfg.Alphabet))
}

func startLayout(cfg *config.Config) (*layout.Layout, error) {
	alphabet := []rune(cfg.Alphabet)
	opts := []layout.Option{layout.WithCenterSwipes(cfg.AllowCenterSwipes)}
	switch strings.ToLower(cfg.StartLayout) {
	case "", "reference":
		if cfg.Alphabet != layout.DefaultAlphabet {
			// The built-in reference only covers the default alphabet.
			return randomLayout(alphabet, cfg, opts)
		}
		return layout.Reference(opts...)
	case "random":
		return randomLayout(alphabet, cfg, opts)
	default:
		return layout.Parse(cfg.StartLayout, alphabet, opts...)
	}
}

func randomLayout(alphabet []rune, cfg *config.Config, opts []layout.Option) (*layout.Layout, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	return layout.Random(alphabet, rand.New(rand.NewSource(seed)), opts...)
}

// serveMetrics exposes the Prometheus registry for the duration of a
// run. The returned func shuts the server down.
func serveMetrics(ctx context.Context, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
	go func() {
		logger.Get().Info(ctx, "serving metrics", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Get().Warn(ctx, "metrics server failed", logger.Error(err))
		}
	}()
	return func() { _ = srv.Close() }
}
