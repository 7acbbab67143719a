package excel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"psepower/domain/core"
	"psepower/domain/design"
	"psepower/domain/model"
	"psepower/internal/errors"
	"psepower/ports"
)

// Sheet names expected in the workbook exported by the pilot analysis
const (
	CoefficientSheet = "coefficients"
	PilotSheet       = "pilot_trials"
)

// Reader loads coefficient and pilot tables from a single workbook.
// Implements ports.CoefficientSource and ports.PilotSource.
type Reader struct {
	path string
}

// NewReader creates a workbook reader for the given path
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// ReadCoefficients reads the term/estimate table from the coefficients
// sheet. The first row is a header; term names pass through verbatim and
// are validated later when the FixedEffectSet is assembled.
func (r *Reader) ReadCoefficients(ctx context.Context) (map[model.Term]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, errors.TableMalformed(fmt.Sprintf("open workbook %s", r.path), err)
	}
	defer file.Close()

	rows, err := file.GetRows(CoefficientSheet)
	if err != nil {
		return nil, errors.TableMalformed(fmt.Sprintf("read sheet %q", CoefficientSheet), err)
	}
	if len(rows) < 2 {
		return nil, errors.TableMalformed(fmt.Sprintf("sheet %q has no data rows", CoefficientSheet), nil)
	}

	coefficients := make(map[model.Term]float64, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 2 {
			return nil, errors.TableMalformed(fmt.Sprintf("sheet %q row %d: want term and estimate", CoefficientSheet, i+2), nil)
		}
		term := model.Term(strings.TrimSpace(row[0]))
		estimate, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, errors.TableMalformed(fmt.Sprintf("sheet %q row %d: estimate for %q", CoefficientSheet, i+2, term), err)
		}
		if _, dup := coefficients[term]; dup {
			return nil, errors.TableMalformed(fmt.Sprintf("sheet %q: duplicate term %q", CoefficientSheet, term), nil)
		}
		coefficients[term] = estimate
	}
	return coefficients, nil
}

// ReadTrials reads the cleaned pilot trials from the pilot sheet.
// Expected columns: subject, size_delta, color, contrast, response.
func (r *Reader) ReadTrials(ctx context.Context) ([]ports.PilotRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, errors.TableMalformed(fmt.Sprintf("open workbook %s", r.path), err)
	}
	defer file.Close()

	rows, err := file.GetRows(PilotSheet)
	if err != nil {
		return nil, errors.TableMalformed(fmt.Sprintf("read sheet %q", PilotSheet), err)
	}
	if len(rows) < 2 {
		return nil, errors.TableMalformed(fmt.Sprintf("sheet %q has no data rows", PilotSheet), nil)
	}

	trials := make([]ports.PilotRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		trial, err := parsePilotRow(row)
		if err != nil {
			return nil, errors.TableMalformed(fmt.Sprintf("sheet %q row %d", PilotSheet, i+2), err)
		}
		trials = append(trials, trial)
	}
	return trials, nil
}

func parsePilotRow(cells []string) (ports.PilotRow, error) {
	if len(cells) < 5 {
		return ports.PilotRow{}, fmt.Errorf("want 5 columns, got %d", len(cells))
	}

	sizeDelta, err := strconv.ParseFloat(strings.TrimSpace(cells[1]), 64)
	if err != nil {
		return ports.PilotRow{}, fmt.Errorf("size_delta: %w", err)
	}
	color, err := design.ParseColor(cells[2])
	if err != nil {
		return ports.PilotRow{}, err
	}
	contrast, err := design.ParseContrast(cells[3])
	if err != nil {
		return ports.PilotRow{}, err
	}
	response, err := design.ParseResponse(cells[4])
	if err != nil {
		return ports.PilotRow{}, err
	}

	return ports.PilotRow{
		Subject:   core.SubjectID(strings.TrimSpace(cells[0])),
		SizeDelta: sizeDelta,
		Color:     color,
		Contrast:  contrast,
		Response:  response,
	}, nil
}
