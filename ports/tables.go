package ports

import (
	"context"

	"psepower/domain/core"
	"psepower/domain/design"
	"psepower/domain/effect"
	"psepower/domain/model"
)

// CoefficientSource yields the pilot model's fitted coefficient table.
// The one-time pilot GLMM fit happens outside this system; the core only
// consumes its output as an opaque term -> estimate mapping, validated into
// a FixedEffectSet at load time.
type CoefficientSource interface {
	ReadCoefficients(ctx context.Context) (map[model.Term]float64, error)
}

// PilotRow is one cleaned pilot trial, used only to estimate the empirical
// exclusion proportion
type PilotRow struct {
	Subject   core.SubjectID
	SizeDelta float64
	Color     design.Color
	Contrast  design.Contrast
	Response  design.Response // ResponseMissing marks an excluded trial
}

// PilotSource yields pilot trial rows
type PilotSource interface {
	ReadTrials(ctx context.Context) ([]PilotRow, error)
}

// EffectRow is one row of the output table: a single effect of a single
// replication
type EffectRow struct {
	Replication  int         `json:"replication"`
	Effect       effect.Name `json:"effect"`
	FStatistic   float64     `json:"f_statistic"`
	PartialEtaSq float64     `json:"pes"`
	CohensF      float64     `json:"cohens_f"`
}

// ResultSink receives the full output table for downstream visualization
type ResultSink interface {
	WriteEffectRows(ctx context.Context, runID core.RunID, rows []EffectRow) error
}
