package power

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"psepower/domain/core"
	"psepower/domain/design"
	"psepower/domain/effect"
	"psepower/domain/model"
	"psepower/internal"
	"psepower/internal/analysis"
	"psepower/internal/estimator"
	"psepower/ports"
)

// replicationStage names the RNG stream family used by the engine
const replicationStage = "power-replication"

// Params configures one power-simulation run
type Params struct {
	SubjectN           int
	TrialN             int
	ExcludedProportion float64
	Replications       int
	Seed               int64
	Workers            int // 0 means one worker per CPU
}

// Validate checks all parameters up front; a malformed configuration
// refuses the whole run rather than failing partway through
func (p Params) Validate() error {
	if p.SubjectN <= 0 {
		return core.NewParameterError("subj_n", "must be > 0")
	}
	if p.TrialN <= 0 {
		return core.NewParameterError("trial_n", "must be > 0")
	}
	if p.Replications <= 0 {
		return core.NewParameterError("replications", "must be > 0")
	}
	if p.ExcludedProportion < 0 || p.ExcludedProportion > 1 {
		return core.NewParameterError("excluded_proportion", "must be in [0, 1]")
	}
	if p.Workers < 0 {
		return core.NewParameterError("workers", "must be >= 0")
	}
	return nil
}

// ReplicationOutcome is the bookkeeping for a single replication
type ReplicationOutcome struct {
	Index            int
	Records          []effect.SizeRecord
	InvalidPSEs      int
	SubjectsExcluded int
	Skipped          bool
	SkipReason       string
}

// RunResult aggregates the sampling distribution of effect sizes across
// replications, plus the diagnostics the run accumulated along the way
type RunResult struct {
	RunID         core.RunID
	Params        Params
	Distributions map[effect.Name][]float64
	Outcomes      []ReplicationOutcome
	Completed     int
	Skipped       int
	InvalidPSEs   int
	ExcludedSubj  int
	StartedAt     core.Timestamp
	FinishedAt    core.Timestamp
}

// Engine drives N independent replications of the
// generate -> simulate -> degrade -> estimate -> analyze pipeline and
// collects the per-effect Cohen's f distributions.
//
// The engine owns the FixedEffectSet and the replication count for the
// lifetime of a run; each replication owns its records and estimates
// exclusively, so replications share no mutable state and can run on any
// number of workers.
type Engine struct {
	fixef     model.FixedEffectSet
	params    Params
	rng       ports.RNG
	generator *design.Generator
	degrader  *design.Degrader
	simulator *model.Simulator
	pse       *estimator.PSEEstimator
	analyzer  *analysis.Analyzer
	logger    *internal.Logger
}

// NewEngine validates the configuration and assembles the pipeline.
// Validation failures are fatal: no partial run is attempted.
func NewEngine(fixef model.FixedEffectSet, params Params, rngPort ports.RNG) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	generator, err := design.NewGenerator(params.SubjectN, params.TrialN)
	if err != nil {
		return nil, err
	}
	degrader, err := design.NewDegrader(params.ExcludedProportion)
	if err != nil {
		return nil, err
	}
	return &Engine{
		fixef:     fixef,
		params:    params,
		rng:       rngPort,
		generator: generator,
		degrader:  degrader,
		simulator: model.NewSimulator(fixef),
		pse:       estimator.NewPSEEstimator(),
		analyzer:  analysis.NewAnalyzer(),
		logger:    internal.DefaultLogger,
	}, nil
}

// Run executes all replications and merges their effect sizes in
// replication order. Replications whose analysis is left undefined by
// exclusions (too few complete subjects) are skipped and counted, not
// fatal; the run completes and reports how many replications and cells
// were affected.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		RunID:         core.RunID(core.NewID()),
		Params:        e.params,
		Distributions: make(map[effect.Name][]float64, len(effect.Names)),
		StartedAt:     core.Now(),
	}

	// The design skeleton is identical for every replication; generate it
	// once and share it read-only.
	shells := e.generator.Generate()
	e.logger.Info("power run %s: %d replications, %d subjects x %d trials (%d shells), exclusion %.3f",
		result.RunID, e.params.Replications, e.params.SubjectN, e.params.TrialN,
		len(shells), e.params.ExcludedProportion)

	workers := e.params.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	outcomes := make([]ReplicationOutcome, e.params.Replications)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i := 0; i < e.params.Replications; i++ {
		index := i
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			stream, err := e.rng.ReplicationStream(groupCtx, replicationStage, index, e.params.Seed)
			if err != nil {
				return fmt.Errorf("replication %d: rng stream: %w", index, err)
			}
			outcomes[index] = e.runReplication(index, shells, stream)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	// Merge by replication index: deterministic accumulation order even
	// though execution order is not.
	for _, outcome := range outcomes {
		result.Outcomes = append(result.Outcomes, outcome)
		result.InvalidPSEs += outcome.InvalidPSEs
		result.ExcludedSubj += outcome.SubjectsExcluded
		if outcome.Skipped {
			result.Skipped++
			e.logger.Warn("replication %d skipped: %s", outcome.Index, outcome.SkipReason)
			continue
		}
		result.Completed++
		for _, rec := range outcome.Records {
			result.Distributions[rec.Effect] = append(result.Distributions[rec.Effect], rec.CohensF)
		}
	}

	result.FinishedAt = core.Now()
	e.logger.Info("power run %s finished: %d completed, %d skipped, %d invalid PSE groups, %d listwise-excluded subjects",
		result.RunID, result.Completed, result.Skipped, result.InvalidPSEs, result.ExcludedSubj)

	return result, nil
}

// runReplication executes one full pipeline pass on its own RNG stream
func (e *Engine) runReplication(index int, shells []design.TrialShell, stream *rand.Rand) ReplicationOutcome {
	outcome := ReplicationOutcome{Index: index}

	records, _ := e.simulator.SimulateAll(shells, stream)
	masked := e.degrader.Apply(records, stream)

	estimates := e.pse.Estimate(records)
	outcome.InvalidPSEs = estimator.CountInvalid(estimates)

	analysisResult, err := e.analyzer.Analyze(estimates)
	if err != nil {
		if errors.Is(err, core.ErrInsufficientData) {
			outcome.Skipped = true
			outcome.SkipReason = err.Error()
			return outcome
		}
		// Analysis has no other failure modes today; treat anything else
		// as a skip with its reason preserved.
		outcome.Skipped = true
		outcome.SkipReason = err.Error()
		return outcome
	}

	outcome.Records = analysisResult.Records
	outcome.SubjectsExcluded = analysisResult.SubjectsExcluded
	e.logger.Debug("replication %d: %d masked, %d invalid PSE groups, %d subjects excluded",
		index, masked, outcome.InvalidPSEs, outcome.SubjectsExcluded)

	return outcome
}

// EffectRows flattens a run result into the output table, one row per
// (replication, effect), in replication then report order
func (r *RunResult) EffectRows() []ports.EffectRow {
	rows := make([]ports.EffectRow, 0, len(r.Outcomes)*len(effect.Names))
	for _, outcome := range r.Outcomes {
		if outcome.Skipped {
			continue
		}
		for _, rec := range outcome.Records {
			rows = append(rows, ports.EffectRow{
				Replication:  outcome.Index,
				Effect:       rec.Effect,
				FStatistic:   rec.FStatistic,
				PartialEtaSq: rec.PartialEtaSq,
				CohensF:      rec.CohensF,
			})
		}
	}
	return rows
}
