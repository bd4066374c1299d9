package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/apiforge/apiforge/config"
	"github.com/apiforge/apiforge/pkg/models"
	"github.com/apiforge/apiforge/pkg/report"
	"github.com/apiforge/apiforge/pkg/runner"
	"github.com/apiforge/apiforge/pkg/storage"
	"github.com/apiforge/apiforge/utils"
)

func init() {
	Register("run", Run)
}

func Run(ctx context.Context, logger *zap.Logger, conf *config.Config) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "run",
		Short: "execute generated test cases against a live API",
		Example: `apiforge run --cases ./cases.json --base-url "http://localhost:8080"
apiforge run --spec ./openapi.yaml --base-url "http://localhost:8080"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if conf.BaseURL == "" {
				utils.LogError(logger, nil, "no base URL given")
				logger.Info(LogExample(cmd.Example))
				return nil
			}

			generated, ok := loadOrGenerate(ctx, logger, conf, cmd.Example)
			if !ok {
				return nil
			}
			suites := selectSuites(generated.Suites, conf.Run.SuiteNames)
			if len(suites) == 0 {
				utils.LogError(logger, nil, "no matching test suites to run")
				return nil
			}

			vars := make(map[string]any, len(conf.Run.Vars))
			for k, v := range conf.Run.Vars {
				vars[k] = v
			}
			run := runner.New(logger, conf.BaseURL,
				runner.WithTimeout(time.Duration(conf.Run.Timeout)*time.Second),
				runner.WithDefaultHeaders(conf.Run.Headers),
				runner.WithVariables(vars))

			opts := runner.SuiteOptions{
				Parallel: conf.Run.Parallel,
				Workers:  conf.Run.Workers,
			}
			if conf.Run.RateLimit > 0 {
				opts.Limiter = rate.NewLimiter(rate.Limit(conf.Run.RateLimit), 1)
			}

			results := run.ExecuteAll(ctx, suites, opts)

			store, err := storage.New(logger, conf.StorageDir)
			if err != nil {
				utils.LogError(logger, err, "failed to open storage")
				return nil
			}
			id, err := store.SaveResults(results)
			if err != nil {
				utils.LogError(logger, err, "failed to store run results")
				return nil
			}
			logger.Info("stored run results", zap.String("id", id))

			if err := writeReports(logger, conf, results); err != nil {
				utils.LogError(logger, err, "failed to write report")
				return nil
			}
			if conf.Run.Verbose {
				report.DumpVerbose(os.Stdout, results)
			}

			for _, sr := range results {
				if sr.Failed > 0 || sr.Error > 0 {
					os.Exit(1)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringP("cases", "f", conf.Run.Cases, "File holding the generated test cases")
	cmd.Flags().Uint64("timeout", conf.Run.Timeout, "Per-request timeout in seconds")
	cmd.Flags().Bool("parallel", conf.Run.Parallel, "Run the cases of each suite on a worker pool")
	cmd.Flags().Int("workers", conf.Run.Workers, "Worker count for parallel execution")
	cmd.Flags().Float64("rate-limit", conf.Run.RateLimit, "Maximum requests per second, 0 disables limiting")
	cmd.Flags().StringToString("var", conf.Run.Vars, "Preset variables, e.g. --var token=abc")
	cmd.Flags().StringToString("header", conf.Run.Headers, "Headers sent with every request, e.g. --header X-Api-Key=k1")
	cmd.Flags().Bool("verbose", conf.Run.Verbose, "Dump the full result structures after the report")
	cmd.Flags().StringSlice("suite", conf.Run.SuiteNames, "Only run the named suites")
	cmd.Flags().StringSlice("report-format", conf.Report.Formats, "Report formats: console, markdown, json, yaml or xlsx")
	cmd.Flags().String("report-path", conf.Report.Path, "Report file, or directory when several formats are requested")

	bindings := map[string]string{
		"run.cases":      "cases",
		"run.timeout":    "timeout",
		"run.parallel":   "parallel",
		"run.workers":    "workers",
		"run.rateLimit":  "rate-limit",
		"run.vars":       "var",
		"run.headers":    "header",
		"run.verbose":    "verbose",
		"run.suiteNames": "suite",
		"report.formats": "report-format",
		"report.path":    "report-path",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			utils.LogError(logger, err, "failed to bind run flags")
			return nil
		}
	}

	return cmd
}

// loadOrGenerate resolves the suites to run. A cases file wins, an
// OpenAPI document is the generate-then-run pipeline, neither is an
// error.
func loadOrGenerate(ctx context.Context, logger *zap.Logger, conf *config.Config, example string) (*models.GeneratedSuites, bool) {
	if conf.Run.Cases != "" {
		data, err := os.ReadFile(conf.Run.Cases)
		if err != nil {
			utils.LogError(logger, err, "failed to read cases file", zap.String("path", conf.Run.Cases))
			return nil, false
		}
		var generated models.GeneratedSuites
		if err := json.Unmarshal(data, &generated); err != nil {
			utils.LogError(logger, err, "failed to decode cases file", zap.String("path", conf.Run.Cases))
			return nil, false
		}
		return &generated, true
	}

	if conf.Spec != "" {
		generated, err := generateFromSpec(ctx, logger, conf)
		if err != nil {
			utils.LogError(logger, err, "failed to generate test cases")
			return nil, false
		}
		logger.Info("generated test cases from the OpenAPI document",
			zap.String("spec", conf.Spec),
			zap.Int("cases", generated.Summary.TotalCases))
		return generated, true
	}

	utils.LogError(logger, nil, "no cases file or OpenAPI document given")
	logger.Info(LogExample(example))
	return nil, false
}

func selectSuites(suites []models.CaseSuite, names []string) []models.CaseSuite {
	if len(names) == 0 {
		return suites
	}
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}
	var out []models.CaseSuite
	for _, s := range suites {
		if want[s.SuiteName] {
			out = append(out, s)
		}
	}
	return out
}

// writeReports renders every requested format. With a single format
// the report path names the target file, with several it names the
// directory the files land in.
func writeReports(logger *zap.Logger, conf *config.Config, results []*models.SuiteResult) error {
	formats := conf.Report.Formats
	if len(formats) == 0 {
		formats = []string{"console"}
	}
	for _, name := range formats {
		format, err := report.ParseFormat(name)
		if err != nil {
			return err
		}

		path := reportPath(conf.Report.Path, format, len(formats) == 1)
		if path == "" {
			if err := report.Render(os.Stdout, format, results); err != nil {
				return err
			}
			continue
		}

		if format == report.FormatXLSX {
			if err := report.WriteXLSX(path, results); err != nil {
				return err
			}
		} else {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			renderErr := report.Render(f, format, results)
			if closeErr := f.Close(); renderErr == nil {
				renderErr = closeErr
			}
			if renderErr != nil {
				return renderErr
			}
		}
		logger.Info("report written",
			zap.String("format", string(format)),
			zap.String("path", path))
	}
	return nil
}

// reportPath picks the file a report is written to. Empty means
// stdout. The xlsx format always needs a file.
func reportPath(base string, format report.Format, single bool) string {
	if single {
		if base == "" && format == report.FormatXLSX {
			return "report.xlsx"
		}
		return base
	}
	if format == report.FormatConsole {
		return ""
	}
	dir := base
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "report."+report.Extension(format))
}
