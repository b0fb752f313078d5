package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hoombar/biosignal/internal/config"
	"github.com/hoombar/biosignal/internal/features"
	"github.com/hoombar/biosignal/internal/logger"
	"github.com/hoombar/biosignal/internal/repository"
	"github.com/hoombar/biosignal/internal/service"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run correlation analysis from the command line",
	Long:  `Derive daily features from the store and print correlations, patterns and insights for the configured target.`,
	RunE:  runAnalyze,
}

var analyzeTarget string

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeTarget, "target", "t", "", "Target feature (overrides config)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Keep structured logs out of the report output
	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.LevelError
	logger.SetDefault(logger.NewSlogLogger(logCfg))

	db, err := repository.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	location := cfg.Location()
	assembler := features.NewAssembler(
		repository.NewSampleRepository(db),
		repository.NewSleepRepository(db),
		repository.NewActivityRepository(db),
		repository.NewHabitRepository(db),
		featureConfig(cfg),
	)
	featureService := service.NewFeatureService(assembler)
	analysisService := service.NewAnalysisService(featureService, location, analysisConfig(cfg))

	target := cfg.Analysis.Target
	if analyzeTarget != "" {
		target = analyzeTarget
	}

	ctx := context.Background()

	report, err := analysisService.Correlations(ctx, target, 0)
	if err != nil {
		return err
	}

	fmt.Printf("Target: %s (%d usable days", report.Target, report.UsableDays)
	if report.Preliminary {
		fmt.Printf(", preliminary")
	}
	fmt.Println(")")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FEATURE\tR\tP\tN\tSTRENGTH")
	for _, r := range report.Results {
		fmt.Fprintf(w, "%s\t%+.3f\t%.3f\t%d\t%s\n", r.Feature, r.Coefficient, r.PValue, r.SampleSize, r.Strength)
	}
	w.Flush()

	patterns, err := analysisService.Patterns(ctx, target)
	if err != nil {
		return err
	}
	if len(patterns) > 0 {
		fmt.Println()
		fmt.Println("Patterns:")
		for _, p := range patterns {
			fmt.Printf("  %-40s %.0f%% vs %.0f%% baseline (RR %.2f, n=%d)\n",
				p.Description, p.Probability*100, p.BaselineProbability*100, p.RelativeRisk, p.SampleSize)
		}
	}

	insights, err := analysisService.Insights(ctx, target)
	if err != nil {
		return err
	}
	if len(insights) > 0 {
		fmt.Println()
		fmt.Println("Insights:")
		for _, ins := range insights {
			fmt.Printf("  [%s] %s\n", ins.Confidence, ins.Text)
		}
	}

	return nil
}
