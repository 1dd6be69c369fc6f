// Command planctl is a small CLI front end for the planning core
// (pkg/planner): it reads a JSON planning request and prints the result
// of plan, value-impact, or solver-match as JSON, the way cmd/bw parses
// its flags with the standard library's flag package rather than a
// third-party CLI framework.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/beadwork/pkg/config"
	"github.com/vanderheijden86/beadwork/pkg/history"
	"github.com/vanderheijden86/beadwork/pkg/model"
	"github.com/vanderheijden86/beadwork/pkg/planner"
	"github.com/vanderheijden86/beadwork/pkg/planwire"
	"github.com/vanderheijden86/beadwork/pkg/ratelimit"
	"github.com/vanderheijden86/beadwork/pkg/solver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "planctl: loading config: %v\n", err)
		os.Exit(1)
	}

	requestPath := flag.String("request", "-", "Path to a JSON planning request, or - for stdin")
	mode := flag.String("mode", "plan", "Operation to run: plan, value, or match")
	solversPath := flag.String("solvers", cfg.Sources.SolversPath, "Path to a JSON array of solver capabilities (required for -mode=match)")
	ratelimitPath := flag.String("ratelimit", cfg.Sources.RateLimitPath, "Path to a rate-limit JSON file, live-reloaded while planctl runs")
	historyPath := flag.String("history", cfg.Sources.HistoryPath, "Path to a completion-log JSONL file used to calibrate estimates")
	requireAvailable := flag.Bool("require-available", cfg.RequireAvailable(), "Exclude solvers currently rate-limited when matching")
	flag.Parse()

	if err := run(*requestPath, *mode, *solversPath, *ratelimitPath, *historyPath, *requireAvailable); err != nil {
		fmt.Fprintf(os.Stderr, "planctl: %v\n", err)
		os.Exit(1)
	}
}

func run(requestPath, mode, solversPath, ratelimitPath, historyPath string, requireAvailable bool) error {
	raw, err := readInput(requestPath)
	if err != nil {
		return fmt.Errorf("reading request: %w", err)
	}
	req, issueTags, err := planwire.DecodeRequest(raw)
	if err != nil {
		return err
	}

	switch mode {
	case "plan":
		result, err := planner.Plan(context.Background(), req, nil)
		if err != nil {
			return fmt.Errorf("plan: %w", err)
		}
		return writeJSON(planwire.EncodeResult(result))

	case "value":
		impacts, err := planner.ValueImpact(req)
		if err != nil {
			return fmt.Errorf("value-impact: %w", err)
		}
		return writeJSON(planwire.EncodeValueImpact(impacts))

	case "match":
		if solversPath == "" {
			return fmt.Errorf("-solvers is required for -mode=match")
		}
		deps, cleanup, err := buildSolverDeps(solversPath, ratelimitPath, historyPath)
		if err != nil {
			return err
		}
		defer cleanup()

		matches, err := planner.Match(req, issueTags, requireAvailable, deps)
		if err != nil {
			return fmt.Errorf("match: %w", err)
		}
		order := make([]string, 0, len(req.Tasks))
		for _, t := range req.Tasks {
			order = append(order, t.ID)
		}
		return writeJSON(planwire.EncodeMatches(matches, order))

	default:
		return fmt.Errorf("unknown -mode %q (want plan, value, or match)", mode)
	}
}

// buildSolverDeps assembles the Solver Matcher's collaborators. The
// registry decode is cheap and stays sequential; the two external
// snapshot loads (history, rate-limit) run concurrently via a bounded
// errgroup the way teacher's pkg/workspace loader fans out its
// per-project loads, since each is "at most once per request" (§5) and
// neither depends on the other's result.
func buildSolverDeps(solversPath, ratelimitPath, historyPath string) (planner.SolverDeps, func(), error) {
	noop := func() {}

	solversRaw, err := os.ReadFile(solversPath)
	if err != nil {
		return planner.SolverDeps{}, noop, fmt.Errorf("reading solvers file: %w", err)
	}
	registry, err := planwire.DecodeRegistry(solversRaw)
	if err != nil {
		return planner.SolverDeps{}, noop, err
	}

	var calibrator *solver.Calibrator
	var rateLimitView model.RateLimitView = noRateLimitView{}
	var closeRateLimit func()

	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		if historyPath == "" {
			calibrator = solver.NewCalibrator(nil)
			return nil
		}
		snap, closer, err := history.Open(historyPath, nil)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer closer.Close()
		drained, err := model.DrainHistory(snap)
		if err != nil {
			return fmt.Errorf("draining history: %w", err)
		}
		calibrator = solver.NewCalibrator(drained)
		return nil
	})
	g.Go(func() error {
		if ratelimitPath == "" {
			return nil
		}
		view, err := ratelimit.NewFileRateLimitView(ratelimitPath)
		if err != nil {
			return fmt.Errorf("opening ratelimit file: %w", err)
		}
		rateLimitView = view
		closeRateLimit = view.Close
		return nil
	})
	if err := g.Wait(); err != nil {
		return planner.SolverDeps{}, noop, err
	}

	cleanup := noop
	if closeRateLimit != nil {
		cleanup = closeRateLimit
	}
	return planner.SolverDeps{Registry: registry, Calibrator: calibrator, RateLimit: rateLimitView}, cleanup, nil
}

// noRateLimitView is the default model.RateLimitView when -ratelimit is
// not supplied: every lookup reports "no record", and a model with no
// record counts as available (§4.7 step 3).
type noRateLimitView struct{}

func (noRateLimitView) Get(string, string) (model.RateLimitRecord, bool, error) {
	return model.RateLimitRecord{}, false, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" || path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
