package analysis

import (
	"fmt"
	"math"

	"psepower/domain/core"
	"psepower/domain/design"
	"psepower/domain/effect"

	"gonum.org/v1/gonum/stat/distuv"
)

// colorLevels and contrastLevels fix the cell order of the decomposition
var (
	colorLevels    = []design.Color{design.ColorPresent, design.ColorAbsent}
	contrastLevels = []design.Contrast{design.ContrastPositive, design.ContrastNegative}
)

// Analyzer runs a two-way repeated-measures variance decomposition over the
// per-subject PSE estimates of one replication: factors color and contrast,
// each effect tested against its own subject-interaction error stratum, no
// sphericity correction (both factors have two levels, so sphericity holds
// trivially).
type Analyzer struct{}

// NewAnalyzer creates an effect-size analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Result is one replication's variance decomposition plus its exclusion
// diagnostics
type Result struct {
	Records          []effect.SizeRecord
	SubjectsUsed     int
	SubjectsExcluded int
}

// Record returns the record for one effect name
func (r *Result) Record(name effect.Name) (effect.SizeRecord, bool) {
	for _, rec := range r.Records {
		if rec.Effect == name {
			return rec, true
		}
	}
	return effect.SizeRecord{}, false
}

// Analyze decomposes the PSE variance. Subjects missing any color x contrast
// cell (degraded away or invalid fit) are excluded listwise, never imputed;
// the exclusion count is reported in the result. Fewer than two complete
// subjects leaves the decomposition undefined and returns
// ErrInsufficientData.
func (a *Analyzer) Analyze(estimates []effect.PSEEstimate) (*Result, error) {
	cells, excluded := completeSubjects(estimates)
	n := len(cells)
	if n < 2 {
		return nil, fmt.Errorf("%w: %d complete subjects after %d exclusions",
			core.ErrInsufficientData, n, excluded)
	}

	// Marginal means over the n x 2 x 2 table
	grand := 0.0
	subjMean := make([]float64, n)
	colorMean := [2]float64{}
	contrastMean := [2]float64{}
	cellMean := [2][2]float64{}
	subjColor := make([][2]float64, n)
	subjContrast := make([][2]float64, n)

	for s := 0; s < n; s++ {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				v := cells[s][i][j]
				grand += v
				subjMean[s] += v
				colorMean[i] += v
				contrastMean[j] += v
				cellMean[i][j] += v
				subjColor[s][i] += v
				subjContrast[s][j] += v
			}
		}
	}
	fn := float64(n)
	grand /= 4 * fn
	for s := 0; s < n; s++ {
		subjMean[s] /= 4
		for i := 0; i < 2; i++ {
			subjColor[s][i] /= 2
		}
		for j := 0; j < 2; j++ {
			subjContrast[s][j] /= 2
		}
	}
	for i := 0; i < 2; i++ {
		colorMean[i] /= 2 * fn
	}
	for j := 0; j < 2; j++ {
		contrastMean[j] /= 2 * fn
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			cellMean[i][j] /= fn
		}
	}

	// Sums of squares by partition
	var ssSubj, ssColor, ssContrast, ssInteraction float64
	var ssColorErr, ssContrastErr, ssResidual float64

	for s := 0; s < n; s++ {
		d := subjMean[s] - grand
		ssSubj += 4 * d * d
	}
	for i := 0; i < 2; i++ {
		d := colorMean[i] - grand
		ssColor += 2 * fn * d * d
	}
	for j := 0; j < 2; j++ {
		d := contrastMean[j] - grand
		ssContrast += 2 * fn * d * d
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			d := cellMean[i][j] - colorMean[i] - contrastMean[j] + grand
			ssInteraction += fn * d * d
		}
	}
	for s := 0; s < n; s++ {
		for i := 0; i < 2; i++ {
			d := subjColor[s][i] - subjMean[s] - colorMean[i] + grand
			ssColorErr += 2 * d * d
		}
		for j := 0; j < 2; j++ {
			d := subjContrast[s][j] - subjMean[s] - contrastMean[j] + grand
			ssContrastErr += 2 * d * d
		}
	}
	// Three-way residual by subtraction from the total
	ssTotal := 0.0
	for s := 0; s < n; s++ {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				d := cells[s][i][j] - grand
				ssTotal += d * d
			}
		}
	}
	ssResidual = ssTotal - ssSubj - ssColor - ssContrast - ssInteraction - ssColorErr - ssContrastErr
	if ssResidual < 0 {
		ssResidual = 0 // floating-point cancellation near a saturated fit
	}

	dfErr := fn - 1
	records := []effect.SizeRecord{
		newRecord(effect.EffectColor, ssColor, 1, ssColorErr, dfErr),
		newRecord(effect.EffectContrast, ssContrast, 1, ssContrastErr, dfErr),
		newRecord(effect.EffectColorContrast, ssInteraction, 1, ssResidual, dfErr),
		newRecord(effect.EffectSubject, ssSubj, dfErr, ssResidual, dfErr),
	}

	return &Result{
		Records:          records,
		SubjectsUsed:     n,
		SubjectsExcluded: excluded,
	}, nil
}

// newRecord assembles one effect's F, p, partial eta squared and Cohen's f
func newRecord(name effect.Name, ssEffect, dfEffect, ssError, dfError float64) effect.SizeRecord {
	rec := effect.SizeRecord{
		Effect:      name,
		DFNumerator: dfEffect,
		DFDenom:     dfError,
	}

	msEffect := ssEffect / dfEffect
	msError := ssError / dfError

	switch {
	case msError > 0:
		rec.FStatistic = msEffect / msError
		dist := distuv.F{D1: dfEffect, D2: dfError}
		rec.PValue = 1 - dist.CDF(rec.FStatistic)
	case msEffect > 0:
		// Zero error stratum with nonzero effect: saturated
		rec.FStatistic = math.Inf(1)
		rec.PValue = 0
	default:
		rec.FStatistic = 0
		rec.PValue = 1
	}

	if ssEffect+ssError > 0 {
		rec.PartialEtaSq = ssEffect / (ssEffect + ssError)
	}
	rec.CohensF = effect.CohensF(rec.PartialEtaSq)
	return rec
}

// completeSubjects folds the estimate list into per-subject 2x2 cell tables,
// dropping subjects with any missing or invalid cell. Subject order follows
// first appearance.
func completeSubjects(estimates []effect.PSEEstimate) ([][2][2]float64, int) {
	type table struct {
		values [2][2]float64
		filled [2][2]bool
	}
	bySubject := make(map[core.SubjectID]*table)
	order := make([]core.SubjectID, 0)

	for _, est := range estimates {
		if !est.Valid {
			continue
		}
		i, ok := colorIndex(est.Color)
		if !ok {
			continue
		}
		j, ok := contrastIndex(est.Contrast)
		if !ok {
			continue
		}
		tab, seen := bySubject[est.Subject]
		if !seen {
			tab = &table{}
			bySubject[est.Subject] = tab
			order = append(order, est.Subject)
		}
		tab.values[i][j] = est.PSE
		tab.filled[i][j] = true
	}

	// Subjects that only ever appeared through invalid estimates still count
	// as excluded; gather the full subject set first.
	allSubjects := make(map[core.SubjectID]bool)
	for _, est := range estimates {
		allSubjects[est.Subject] = true
	}

	cells := make([][2][2]float64, 0, len(order))
	complete := make(map[core.SubjectID]bool)
	for _, subject := range order {
		tab := bySubject[subject]
		full := true
		for i := 0; i < 2 && full; i++ {
			for j := 0; j < 2; j++ {
				if !tab.filled[i][j] {
					full = false
					break
				}
			}
		}
		if full {
			cells = append(cells, tab.values)
			complete[subject] = true
		}
	}

	return cells, len(allSubjects) - len(complete)
}

func colorIndex(c design.Color) (int, bool) {
	for i, level := range colorLevels {
		if level == c {
			return i, true
		}
	}
	return 0, false
}

func contrastIndex(c design.Contrast) (int, bool) {
	for j, level := range contrastLevels {
		if level == c {
			return j, true
		}
	}
	return 0, false
}
