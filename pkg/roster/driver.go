package roster

// driver.go: SearchDriver wraps pkg/fd.Solver.Solve with the
// {status, solutions, count} contract from spec.md §4.4, and
// SolveWithLadder retries a solve across a sequence of progressively
// relaxed BuildConfigs (spec.md §4.3's relaxation semantics), submitting
// each rung as one task to internal/parallel.WorkerPool so several rungs
// can be tried concurrently instead of strictly in sequence.

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sapischedule/roster/internal/parallel"
	"github.com/sapischedule/roster/pkg/fd"
)

// Status is the five-value outcome of one solve attempt, per spec.md
// §4.4. Optimal and Feasible are both "solutions exist"; they differ in
// whether enumeration ran to completion (Optimal) or stopped early
// because it hit the solution-count cap or the wall-time deadline while
// solutions were already in hand (Feasible). This module has no
// objective function to optimize against, so "Optimal" here means
// "the full solution set was enumerated", not "the best solution was
// found" — see SPEC_FULL.md's Open Questions.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
	StatusModelInvalid
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusFeasible:
		return "Feasible"
	case StatusInfeasible:
		return "Infeasible"
	case StatusModelInvalid:
		return "ModelInvalid"
	default:
		return "Unknown"
	}
}

// SolveResult bundles a solve attempt's outcome, per spec.md §4.4.
type SolveResult struct {
	RunID     string
	Status    Status
	Solutions []*SolutionTensor
	Count     int
	Err       error // only set for StatusModelInvalid
}

// SearchDriver builds a model from a ProblemInfo and BuildConfig, solves
// it, and reshapes raw solver assignments back into SolutionTensors.
type SearchDriver struct {
	builder *ModelBuilder
	log     *zap.Logger
}

// NewSearchDriver constructs a SearchDriver. A nil logger falls back to
// zap.NewNop(), matching the teacher's convention of never solving
// against a nil logger.
func NewSearchDriver(log *zap.Logger) *SearchDriver {
	if log == nil {
		log = zap.NewNop()
	}
	return &SearchDriver{builder: NewModelBuilder(), log: log}
}

// Solve runs one solve attempt against info under cfg, deriving the
// five-value status from fd.Solver.Solve's two-return-value contract:
//
//   - Build/consistency failure -> StatusModelInvalid.
//   - Solve returns a context error: any captured solutions -> Feasible
//     (a cap-limited or time-limited partial enumeration), none -> Unknown
//     (neither feasibility nor infeasibility could be established in time).
//   - Solve returns no error and no solutions -> Infeasible (propagation
//     failed at the root; spec.md §7 treats this as a status, not an
//     error).
//   - Solve returns no error, solutions present, and the count hit the
//     MaxSolutions cap -> Feasible (enumeration was cut short by the cap).
//   - Otherwise -> Optimal (the full solution set was enumerated).
func (d *SearchDriver) Solve(ctx context.Context, info *ProblemInfo, cfg BuildConfig) SolveResult {
	runID := uuid.NewString()
	log := d.log.With(zap.String("run_id", runID))

	built, err := d.builder.Build(info, cfg)
	if err != nil {
		log.Error("model build failed", zap.Error(err))
		return SolveResult{RunID: runID, Status: StatusModelInvalid, Err: err}
	}

	if cfg.MaxTimeSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.MaxTimeSeconds)*time.Second)
		defer cancel()
	}

	solver := fd.NewSolver(built.Model)
	monitor := fd.NewSolverMonitor()
	solver.SetMonitor(monitor)
	raw, solveErr := solver.Solve(ctx, cfg.MaxSolutions)
	stats := monitor.GetStats()

	if solveErr != nil {
		if len(raw) == 0 {
			log.Warn("solve cancelled before any solution was found", zap.Error(solveErr), zap.String("stats", stats.String()))
			return SolveResult{RunID: runID, Status: StatusUnknown, Count: 0}
		}
		log.Info("solve cancelled with partial solutions in hand", zap.Int("count", len(raw)), zap.String("stats", stats.String()))
		return SolveResult{
			RunID:     runID,
			Status:    StatusFeasible,
			Solutions: reshapeAll(raw, info),
			Count:     len(raw),
		}
	}

	if len(raw) == 0 {
		log.Info("model is infeasible", zap.String("stats", stats.String()))
		return SolveResult{RunID: runID, Status: StatusInfeasible}
	}

	status := StatusOptimal
	if cfg.MaxSolutions > 0 && len(raw) >= cfg.MaxSolutions {
		status = StatusFeasible
	}

	log.Info("solve complete",
		zap.String("status", status.String()),
		zap.Int("count", len(raw)),
		zap.Int64("propagation_count", stats.PropagationCount),
		zap.Int64("nodes_explored", stats.NodesExplored),
		zap.Int64("backtracks", stats.Backtracks),
	)
	log.Debug("solver termination stats", zap.String("stats", stats.String()))

	return SolveResult{
		RunID:     runID,
		Status:    status,
		Solutions: reshapeAll(raw, info),
		Count:     len(raw),
	}
}

// reshapeAll reshapes every raw solver solution into a SolutionTensor.
func reshapeAll(raw [][]int, info *ProblemInfo) []*SolutionTensor {
	out := make([]*SolutionTensor, len(raw))
	for i, sol := range raw {
		out[i] = reshapeOne(sol, info)
	}
	return out
}

// reshapeOne reshapes one flat solver solution (model-variable order,
// boolean-encoded 1=false/2=true) into a U×D×T tensor, using the same
// [unit][day][task] nesting order ModelBuilder.Build assigns variable IDs
// in.
func reshapeOne(sol []int, info *ProblemInfo) *SolutionTensor {
	t := NewSolutionTensor(info.U, info.D, info.T)
	idx := 0
	for i := 0; i < info.U; i++ {
		for j := 0; j < info.D; j++ {
			for k := 0; k < info.T; k++ {
				t.Assign[i][j][k] = sol[idx] == 2
				idx++
			}
		}
	}
	return t
}

// Rung is one relaxation-ladder step: a label for logging/reporting, and
// the set of constraint families relaxed at that step.
type Rung struct {
	Label   string
	Relaxed map[ConstraintID]bool
}

// LadderResult pairs a Rung with the SolveResult it produced.
type LadderResult struct {
	Rung   Rung
	Result SolveResult
}

// SolveWithLadder submits every rung as one task to a worker pool with
// one worker per rung, so all rungs start at once and slow rungs don't
// block faster ones from starting. When the first rung to complete
// yields Optimal or Feasible, it cancels the shared context so rungs
// still searching stop early (they then report Unknown, or Feasible
// with the solutions found so far). It waits for every rung to report
// and returns all results in ladder order; it does not pick a winner.
func (d *SearchDriver) SolveWithLadder(ctx context.Context, info *ProblemInfo, base BuildConfig, rungs []Rung) ([]LadderResult, error) {
	if len(rungs) == 0 {
		return nil, fmt.Errorf("roster: SolveWithLadder requires at least one rung")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := parallel.NewDynamicWorkerPool(len(rungs), len(rungs))

	// indexed carries each rung's outcome with its slot index so the
	// collecting loop below is the sole writer of results — no worker
	// goroutine ever touches the results slice directly.
	type indexed struct {
		i      int
		result LadderResult
	}
	done := make(chan indexed, len(rungs))

	for i, rung := range rungs {
		i, rung := i, rung
		cfg := base
		cfg.Relaxed = rung.Relaxed
		err := pool.Submit(ctx, func() {
			done <- indexed{i: i, result: LadderResult{Rung: rung, Result: d.Solve(ctx, info, cfg)}}
		})
		if err != nil {
			pool.Shutdown()
			return nil, fmt.Errorf("roster: submitting ladder rung %q: %w", rung.Label, err)
		}
	}

	// Every successfully submitted task sends exactly one entry on done,
	// whether or not ctx gets cancelled along the way (d.Solve observes
	// ctx and returns quickly, but still reports its result). So this
	// loop can block on done alone: it always terminates after exactly
	// len(rungs) receives, and results is written only here, never by a
	// worker goroutine directly.
	results := make([]LadderResult, len(rungs))
	firstHit := -1
	for remaining := len(rungs); remaining > 0; remaining-- {
		entry := <-done
		results[entry.i] = entry.result
		switch entry.result.Result.Status {
		case StatusOptimal, StatusFeasible:
			if firstHit == -1 {
				firstHit = entry.i
				// Let already-submitted tasks finish naturally; cancel so
				// any rung that hasn't started propagating yet exits early.
				cancel()
			}
		}
	}

	// Every task has reported, so Shutdown only waits on bookkeeping.
	pool.Shutdown()

	if firstHit == -1 && ctx.Err() != nil {
		return results, ctx.Err()
	}
	return results, nil
}
