package design

import (
	"math"
	"math/rand"
	"testing"

	"psepower/domain/core"
)

func makeRecords(t *testing.T, n int) []TrialRecord {
	t.Helper()
	generator, err := NewGenerator(1, 1)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	shells := generator.Generate()
	records := make([]TrialRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, TrialRecord{
			TrialShell: shells[i%len(shells)],
			Response:   Response(i % 2),
		})
	}
	return records
}

func TestDegrader_ZeroProportionIsNoOp(t *testing.T) {
	records := makeRecords(t, 50)
	degrader, err := NewDegrader(0)
	if err != nil {
		t.Fatalf("NewDegrader: %v", err)
	}

	masked := degrader.Apply(records, rand.New(rand.NewSource(1)))
	if masked != 0 {
		t.Fatalf("masked = %d, want 0", masked)
	}
	for i, rec := range records {
		if rec.Response.IsMissing() {
			t.Fatalf("record %d masked at proportion 0", i)
		}
	}
}

func TestDegrader_FullProportionMasksEverything(t *testing.T) {
	records := makeRecords(t, 37)
	degrader, err := NewDegrader(1)
	if err != nil {
		t.Fatalf("NewDegrader: %v", err)
	}

	masked := degrader.Apply(records, rand.New(rand.NewSource(1)))
	if masked != len(records) {
		t.Fatalf("masked = %d, want %d", masked, len(records))
	}
	for i, rec := range records {
		if !rec.Response.IsMissing() {
			t.Fatalf("record %d survived proportion 1", i)
		}
	}
}

func TestDegrader_RoundsMaskedCount(t *testing.T) {
	cases := []struct {
		proportion float64
		n          int
		want       int
	}{
		{0.5, 10, 5},
		{0.5, 11, 6}, // round half away from zero
		{0.1, 37, 4},
		{0.25, 6, 2},
		{0.01, 10, 0},
	}
	for _, tc := range cases {
		records := makeRecords(t, tc.n)
		degrader, err := NewDegrader(tc.proportion)
		if err != nil {
			t.Fatalf("NewDegrader(%v): %v", tc.proportion, err)
		}
		masked := degrader.Apply(records, rand.New(rand.NewSource(7)))
		if masked != tc.want {
			t.Errorf("Apply(p=%v, n=%d) masked %d, want %d", tc.proportion, tc.n, masked, tc.want)
		}
		missing := 0
		for _, rec := range records {
			if rec.Response.IsMissing() {
				missing++
			}
		}
		if missing != tc.want {
			t.Errorf("p=%v n=%d: %d responses missing, want %d", tc.proportion, tc.n, missing, tc.want)
		}
	}
}

// Degradation must touch responses only, never the covariates
func TestDegrader_CovariatesUntouched(t *testing.T) {
	records := makeRecords(t, 40)
	before := make([]TrialShell, len(records))
	for i, rec := range records {
		before[i] = rec.TrialShell
	}

	degrader, err := NewDegrader(0.5)
	if err != nil {
		t.Fatalf("NewDegrader: %v", err)
	}
	degrader.Apply(records, rand.New(rand.NewSource(3)))

	for i, rec := range records {
		if rec.TrialShell != before[i] {
			t.Fatalf("record %d covariates changed: %+v vs %+v", i, rec.TrialShell, before[i])
		}
	}
}

func TestDegrader_DeterministicForFixedSeed(t *testing.T) {
	first := makeRecords(t, 60)
	second := makeRecords(t, 60)

	degrader, err := NewDegrader(0.3)
	if err != nil {
		t.Fatalf("NewDegrader: %v", err)
	}
	degrader.Apply(first, rand.New(rand.NewSource(99)))
	degrader.Apply(second, rand.New(rand.NewSource(99)))

	for i := range first {
		if first[i].Response != second[i].Response {
			t.Fatalf("record %d differs across identically seeded runs", i)
		}
	}
}

func TestNewDegrader_RejectsOutOfRangeProportions(t *testing.T) {
	for _, p := range []float64{-0.01, 1.01, math.NaN()} {
		_, err := NewDegrader(p)
		if err == nil {
			t.Fatalf("NewDegrader(%v): expected error", p)
		}
		if !core.IsConfigurationError(err) {
			t.Fatalf("NewDegrader(%v): want configuration error, got %v", p, err)
		}
	}
}
