package tabular

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	"psepower/domain/core"
	"psepower/internal/errors"
	"psepower/ports"
)

// EffectWriter writes the output table as CSV, one row per
// (replication, effect). Implements ports.ResultSink.
type EffectWriter struct {
	path string
}

// NewEffectWriter creates a CSV effect-row writer
func NewEffectWriter(path string) *EffectWriter {
	return &EffectWriter{path: path}
}

// WriteEffectRows writes the header and all rows, overwriting any existing
// file at the path
func (w *EffectWriter) WriteEffectRows(ctx context.Context, runID core.RunID, rows []ports.EffectRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := os.Create(w.path)
	if err != nil {
		return errors.Wrapf(err, "create %s", w.path)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{"run_id", "replication", "effect", "f_statistic", "pes", "cohens_f"}
	if err := writer.Write(header); err != nil {
		return errors.Wrapf(err, "write header to %s", w.path)
	}
	for _, row := range rows {
		record := []string{
			string(runID),
			strconv.Itoa(row.Replication),
			string(row.Effect),
			formatFloat(row.FStatistic),
			formatFloat(row.PartialEtaSq),
			formatFloat(row.CohensF),
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrapf(err, "write row to %s", w.path)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrapf(err, "flush %s", w.path)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
