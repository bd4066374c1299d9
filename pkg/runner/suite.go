package runner

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/apiforge/apiforge/pkg/models"
)

const defaultWorkers = 5

// SuiteOptions controls how a suite is driven. The zero value runs
// cases sequentially with no rate limit.
type SuiteOptions struct {
	Parallel bool
	Workers  int
	Limiter  *rate.Limiter
}

// ExecuteSuite runs every case of the suite and aggregates the
// verdicts. Sequential mode preserves case order so variable chaining
// across cases works; parallel mode fans the cases out over a worker
// pool and must not be used with chained cases.
func (r *Runner) ExecuteSuite(ctx context.Context, suite models.CaseSuite, opts SuiteOptions) *models.SuiteResult {
	sr := &models.SuiteResult{
		SuiteName: suite.SuiteName,
		BaseURL:   r.baseURL,
		Total:     len(suite.TestCases),
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}

	r.logger.Info("executing test suite",
		zap.String("suite", suite.SuiteName),
		zap.Int("cases", len(suite.TestCases)),
		zap.Bool("parallel", opts.Parallel))

	if opts.Parallel {
		sr.Results = r.runParallel(ctx, suite.TestCases, opts)
	} else {
		sr.Results = r.runSequential(ctx, suite.TestCases, opts.Limiter)
	}

	for _, res := range sr.Results {
		switch res.Status {
		case models.StatusPassed:
			sr.Passed++
		case models.StatusFailed:
			sr.Failed++
		case models.StatusSkipped:
			sr.Skipped++
		case models.StatusError:
			sr.Error++
		}
		// Wall time for a parallel run is less than the sum of
		// latencies; the report still shows the total work done.
		sr.TotalTimeMS += res.ResponseTimeMS
	}
	sr.PassRate = models.PassRateOf(sr.Passed, sr.Total)
	sr.FinishedAt = time.Now().UTC().Format(time.RFC3339)

	r.logger.Info("suite finished",
		zap.String("suite", suite.SuiteName),
		zap.Int("passed", sr.Passed),
		zap.Int("failed", sr.Failed),
		zap.Int("errors", sr.Error),
		zap.Float64("passRate", sr.PassRate))

	return sr
}

func (r *Runner) runSequential(ctx context.Context, cases []models.TestCase, limiter *rate.Limiter) []models.CaseResult {
	results := make([]models.CaseResult, 0, len(cases))
	for _, tc := range cases {
		if ctx.Err() != nil {
			results = append(results, skippedResult(tc, "run cancelled"))
			continue
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				results = append(results, skippedResult(tc, "run cancelled"))
				continue
			}
		}
		results = append(results, r.ExecuteSingle(ctx, tc))
	}
	return results
}

func (r *Runner) runParallel(ctx context.Context, cases []models.TestCase, opts SuiteOptions) []models.CaseResult {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	type job struct {
		idx int
		tc  models.TestCase
	}
	jobs := make(chan job)
	results := make([]models.CaseResult, len(cases))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					results[j.idx] = skippedResult(j.tc, "run cancelled")
					continue
				}
				if opts.Limiter != nil {
					if err := opts.Limiter.Wait(ctx); err != nil {
						results[j.idx] = skippedResult(j.tc, "run cancelled")
						continue
					}
				}
				results[j.idx] = r.ExecuteSingle(ctx, j.tc)
			}
		}()
	}

	for i, tc := range cases {
		jobs <- job{idx: i, tc: tc}
	}
	close(jobs)
	wg.Wait()

	return results
}

// ExecuteAll runs every suite in order and returns one result per
// suite.
func (r *Runner) ExecuteAll(ctx context.Context, suites []models.CaseSuite, opts SuiteOptions) []*models.SuiteResult {
	out := make([]*models.SuiteResult, 0, len(suites))
	for _, s := range suites {
		out = append(out, r.ExecuteSuite(ctx, s, opts))
	}
	return out
}

func skippedResult(tc models.TestCase, reason string) models.CaseResult {
	return models.CaseResult{
		CaseID:       tc.ID,
		CaseTitle:    tc.Title,
		Status:       models.StatusSkipped,
		Method:       tc.Method,
		Endpoint:     tc.Endpoint,
		ErrorMessage: reason,
		ExecutedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}
