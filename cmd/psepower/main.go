package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"psepower/adapters/excel"
	"psepower/adapters/rng"
	"psepower/adapters/tabular"
	"psepower/domain/core"
	"psepower/domain/model"
	"psepower/internal"
	"psepower/internal/config"
	"psepower/internal/pilot"
	"psepower/internal/power"
	"psepower/ports"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "psepower",
		Short: "Parametric-bootstrap power simulation for PSE experiments",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newValidateCmd(),
		newExclusionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		coefficientsPath string
		pilotPath        string
		outputPath       string
		subjects         int
		trials           int
		replications     int
		workers          int
		seed             int64
		excluded         float64
		threshold        float64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full power simulation",
		Long: `Run the full power simulation: simulate responses from the pilot model's
coefficients, degrade data quality, re-estimate per-subject PSEs, and
accumulate the effect-size sampling distribution across replications.

Flags override the PSE_* environment variables.

Example: psepower run --coefficients coefficients.csv --replications 500 --seed 12345`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyOverride(cmd, "subjects", func() { cfg.Simulation.SubjectN = subjects })
			applyOverride(cmd, "trials", func() { cfg.Simulation.TrialN = trials })
			applyOverride(cmd, "replications", func() { cfg.Simulation.Replications = replications })
			applyOverride(cmd, "workers", func() { cfg.Simulation.Workers = workers })
			applyOverride(cmd, "seed", func() { cfg.Simulation.Seed = seed })
			applyOverride(cmd, "excluded", func() { cfg.Simulation.ExcludedProportion = excluded })
			applyOverride(cmd, "threshold", func() { cfg.Simulation.FThreshold = threshold })
			applyOverride(cmd, "coefficients", func() { cfg.Paths.CoefficientsFile = coefficientsPath })
			applyOverride(cmd, "pilot", func() { cfg.Paths.PilotFile = pilotPath })
			applyOverride(cmd, "output", func() { cfg.Paths.OutputFile = outputPath })

			return runPower(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&coefficientsPath, "coefficients", "", "Coefficient table (.csv or .xlsx)")
	cmd.Flags().StringVar(&pilotPath, "pilot", "", "Pilot trials table; sets the exclusion proportion empirically")
	cmd.Flags().StringVar(&outputPath, "output", "", "Effect-size table output path (.csv)")
	cmd.Flags().IntVar(&subjects, "subjects", 0, "Simulated subjects per replication")
	cmd.Flags().IntVar(&trials, "trials", 0, "Replicate trials per design cell")
	cmd.Flags().IntVar(&replications, "replications", 0, "Bootstrap replications")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent replications (0 = one per CPU)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for deterministic runs")
	cmd.Flags().Float64Var(&excluded, "excluded", 0, "Proportion of responses to mask per replication")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Cohen's f cutoff for the power figure")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var coefficientsPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a coefficient table without running the simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if coefficientsPath == "" {
				return fmt.Errorf("--coefficients is required")
			}
			fixef, err := loadFixedEffects(cmd.Context(), coefficientsPath)
			if err != nil {
				return err
			}

			coefficients := fixef.Coefficients()
			terms := make([]string, 0, len(coefficients))
			for term := range coefficients {
				terms = append(terms, string(term))
			}
			sort.Strings(terms)
			for _, term := range terms {
				fmt.Printf("%-28s % .6f\n", term, coefficients[model.Term(term)])
			}
			fmt.Printf("%s: %d terms, valid\n", coefficientsPath, len(terms))
			return nil
		},
	}

	cmd.Flags().StringVar(&coefficientsPath, "coefficients", "", "Coefficient table (.csv or .xlsx)")
	return cmd
}

func newExclusionCmd() *cobra.Command {
	var pilotPath string

	cmd := &cobra.Command{
		Use:   "exclusion",
		Short: "Estimate the empirical exclusion proportion from pilot trials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pilotPath == "" {
				return fmt.Errorf("--pilot is required")
			}
			rows, err := pilotSource(pilotPath).ReadTrials(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := pilot.EstimateExclusion(rows)
			if err != nil {
				return err
			}

			subjects := make([]string, 0, len(summary.BySubject))
			for subject := range summary.BySubject {
				subjects = append(subjects, subject.String())
			}
			sort.Strings(subjects)
			for _, subject := range subjects {
				fmt.Printf("%-12s %.4f\n", subject, summary.BySubject[core.SubjectID(subject)])
			}
			fmt.Printf("overall: %d of %d trials excluded (%.4f)\n",
				summary.Excluded, summary.Trials, summary.Proportion)
			return nil
		},
	}

	cmd.Flags().StringVar(&pilotPath, "pilot", "", "Pilot trials table (.csv or .xlsx)")
	return cmd
}

func runPower(ctx context.Context, cfg *config.Config) error {
	logger := internal.DefaultLogger

	if cfg.Paths.CoefficientsFile == "" {
		return fmt.Errorf("no coefficient table: set --coefficients or PSE_COEFFICIENTS_FILE")
	}
	fixef, err := loadFixedEffects(ctx, cfg.Paths.CoefficientsFile)
	if err != nil {
		return err
	}

	if cfg.Paths.PilotFile != "" {
		rows, err := pilotSource(cfg.Paths.PilotFile).ReadTrials(ctx)
		if err != nil {
			return err
		}
		summary, err := pilot.EstimateExclusion(rows)
		if err != nil {
			return err
		}
		logger.Info("pilot %s: %d of %d trials excluded, using proportion %.4f",
			cfg.Paths.PilotFile, summary.Excluded, summary.Trials, summary.Proportion)
		cfg.Simulation.ExcludedProportion = summary.Proportion
	}

	params := power.Params{
		SubjectN:           cfg.Simulation.SubjectN,
		TrialN:             cfg.Simulation.TrialN,
		ExcludedProportion: cfg.Simulation.ExcludedProportion,
		Replications:       cfg.Simulation.Replications,
		Seed:               cfg.Simulation.Seed,
		Workers:            cfg.Simulation.Workers,
	}
	engine, err := power.NewEngine(fixef, params, rng.NewAdapter())
	if err != nil {
		return err
	}

	result, err := engine.Run(ctx)
	if err != nil {
		return err
	}
	report, err := power.BuildReport(result, cfg.Simulation.FThreshold)
	if err != nil {
		return err
	}
	fmt.Print(report.String())

	if cfg.Paths.OutputFile != "" {
		sink := tabular.NewEffectWriter(cfg.Paths.OutputFile)
		if err := sink.WriteEffectRows(ctx, result.RunID, result.EffectRows()); err != nil {
			return err
		}
		logger.Info("wrote effect table to %s", cfg.Paths.OutputFile)
	}
	return nil
}

// loadFixedEffects reads and validates a coefficient table, picking the
// adapter by file extension
func loadFixedEffects(ctx context.Context, path string) (model.FixedEffectSet, error) {
	coefficients, err := coefficientSource(path).ReadCoefficients(ctx)
	if err != nil {
		return model.FixedEffectSet{}, err
	}
	return model.NewFixedEffectSet(coefficients)
}

func coefficientSource(path string) ports.CoefficientSource {
	if isWorkbook(path) {
		return excel.NewReader(path)
	}
	return tabular.NewCoefficientReader(path)
}

func pilotSource(path string) ports.PilotSource {
	if isWorkbook(path) {
		return excel.NewReader(path)
	}
	return tabular.NewPilotReader(path)
}

func isWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

func applyOverride(cmd *cobra.Command, flag string, apply func()) {
	if cmd.Flags().Changed(flag) {
		apply()
	}
}
