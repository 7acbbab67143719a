package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"psepower/domain/core"
	"psepower/domain/design"
	"psepower/domain/model"
	"psepower/internal/errors"
	"psepower/ports"
)

// CoefficientReader loads a term/estimate table from a CSV file.
// Implements ports.CoefficientSource.
type CoefficientReader struct {
	path string
}

// NewCoefficientReader creates a CSV coefficient reader
func NewCoefficientReader(path string) *CoefficientReader {
	return &CoefficientReader{path: path}
}

// ReadCoefficients parses the coefficient CSV: a header row, then one
// term,estimate pair per row
func (r *CoefficientReader) ReadCoefficients(ctx context.Context) (map[model.Term]float64, error) {
	records, err := readCSV(ctx, r.path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.TableMalformed(fmt.Sprintf("%s has no data rows", r.path), nil)
	}

	coefficients := make(map[model.Term]float64, len(records)-1)
	for i, row := range records[1:] {
		if len(row) < 2 {
			return nil, errors.TableMalformed(fmt.Sprintf("%s row %d: want term and estimate", r.path, i+2), nil)
		}
		term := model.Term(strings.TrimSpace(row[0]))
		estimate, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, errors.TableMalformed(fmt.Sprintf("%s row %d: estimate for %q", r.path, i+2, term), err)
		}
		if _, dup := coefficients[term]; dup {
			return nil, errors.TableMalformed(fmt.Sprintf("%s: duplicate term %q", r.path, term), nil)
		}
		coefficients[term] = estimate
	}
	return coefficients, nil
}

// PilotReader loads cleaned pilot trials from a CSV file.
// Implements ports.PilotSource.
type PilotReader struct {
	path string
}

// NewPilotReader creates a CSV pilot reader
func NewPilotReader(path string) *PilotReader {
	return &PilotReader{path: path}
}

// ReadTrials parses the pilot CSV. Expected columns:
// subject, size_delta, color, contrast, response.
func (r *PilotReader) ReadTrials(ctx context.Context) ([]ports.PilotRow, error) {
	records, err := readCSV(ctx, r.path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.TableMalformed(fmt.Sprintf("%s has no data rows", r.path), nil)
	}

	trials := make([]ports.PilotRow, 0, len(records)-1)
	for i, row := range records[1:] {
		trial, err := parsePilotRow(row)
		if err != nil {
			return nil, errors.TableMalformed(fmt.Sprintf("%s row %d", r.path, i+2), err)
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

func readCSV(ctx context.Context, path string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.TableMalformed(fmt.Sprintf("open %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows surface as parse errors later
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.TableMalformed(fmt.Sprintf("parse %s", path), err)
	}
	return records, nil
}
