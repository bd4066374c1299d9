package cli

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/apiforge/apiforge/config"
	"github.com/apiforge/apiforge/pkg/generator"
	"github.com/apiforge/apiforge/pkg/models"
	"github.com/apiforge/apiforge/pkg/parser"
	"github.com/apiforge/apiforge/pkg/report"
	"github.com/apiforge/apiforge/pkg/storage"
	"github.com/apiforge/apiforge/pkg/valuepool"
	"github.com/apiforge/apiforge/utils"
)

func init() {
	Register("generate", Generate)
}

func Generate(ctx context.Context, logger *zap.Logger, conf *config.Config) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "generate",
		Short:   "generate test cases from an OpenAPI document",
		Example: `apiforge generate --spec ./openapi.yaml --output ./cases.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if conf.Spec == "" {
				utils.LogError(logger, nil, "no OpenAPI document given")
				logger.Info(LogExample(cmd.Example))
				return nil
			}

			suites, err := generateFromSpec(ctx, logger, conf)
			if err != nil {
				utils.LogError(logger, err, "failed to generate test cases")
				return nil
			}

			output := conf.Output
			if output == "" {
				output = "cases.json"
			}
			data, err := json.MarshalIndent(suites, "", "  ")
			if err != nil {
				utils.LogError(logger, err, "failed to encode generated cases")
				return nil
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				utils.LogError(logger, err, "failed to write generated cases", zap.String("path", output))
				return nil
			}

			store, err := storage.New(logger, conf.StorageDir)
			if err != nil {
				utils.LogError(logger, err, "failed to open storage")
				return nil
			}
			id, err := store.SaveCases(suites)
			if err != nil {
				utils.LogError(logger, err, "failed to store generated cases")
				return nil
			}

			report.PrintGenerationSummary(os.Stdout, suites)
			logger.Info("generated test cases",
				zap.String("output", output),
				zap.String("id", id),
				zap.Int("cases", suites.Summary.TotalCases))
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", conf.Output, "File the generated cases are written to")
	cmd.Flags().Int64("seed", conf.Generate.Seed, "Seed for deterministic test data selection")
	cmd.Flags().StringSlice("types", conf.Generate.Types, "Test design techniques to keep")

	if err := viper.BindPFlag("output", cmd.Flags().Lookup("output")); err != nil {
		utils.LogError(logger, err, "failed to bind generate flags")
		return nil
	}
	if err := viper.BindPFlag("generate.seed", cmd.Flags().Lookup("seed")); err != nil {
		utils.LogError(logger, err, "failed to bind generate flags")
		return nil
	}
	if err := viper.BindPFlag("generate.types", cmd.Flags().Lookup("types")); err != nil {
		utils.LogError(logger, err, "failed to bind generate flags")
		return nil
	}

	return cmd
}

// generateFromSpec parses the configured OpenAPI document and turns it
// into test suites, applying the seed and type filter. Both the
// generate command and the run pipeline go through here.
func generateFromSpec(ctx context.Context, logger *zap.Logger, conf *config.Config) (*models.GeneratedSuites, error) {
	p := parser.New(logger)
	var (
		spec *models.APISpec
		err  error
	)
	if strings.HasPrefix(conf.Spec, "http://") || strings.HasPrefix(conf.Spec, "https://") {
		spec, err = p.ParseURL(ctx, conf.Spec)
	} else {
		spec, err = p.ParseFile(ctx, conf.Spec)
	}
	if err != nil {
		return nil, err
	}

	pool := valuepool.New()
	if conf.Generate.Seed != 0 {
		pool = valuepool.NewWithSeed(conf.Generate.Seed)
	}
	suites, err := generator.New(logger, pool).All(spec)
	if err != nil {
		return nil, err
	}
	filterSuites(suites, conf.Generate.Types)
	return suites, nil
}

// filterSuites drops cases whose test type was not requested and
// recomputes the rollup counts.
func filterSuites(suites *models.GeneratedSuites, types []string) {
	if len(types) == 0 {
		return
	}
	keep := map[models.TestType]bool{}
	for _, t := range types {
		keep[models.TestType(t)] = true
	}

	summary := models.GenerationSummary{
		TotalEndpoints: suites.Summary.TotalEndpoints,
		ByType:         map[models.TestType]int{},
		ByPriority:     map[models.Priority]int{},
	}
	filtered := suites.Suites[:0]
	for _, s := range suites.Suites {
		var cases []models.TestCase
		for _, tc := range s.TestCases {
			if !keep[tc.TestType] {
				continue
			}
			cases = append(cases, tc)
			summary.TotalCases++
			summary.ByType[tc.TestType]++
			summary.ByPriority[tc.Priority]++
		}
		if len(cases) == 0 {
			continue
		}
		s.TestCases = cases
		filtered = append(filtered, s)
	}
	suites.Suites = filtered
	suites.Summary = summary
}
