package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/apiforge/apiforge/pkg/jsonpath"
	"github.com/apiforge/apiforge/pkg/models"
)

// Runner drives generated test cases against a live server and
// evaluates their assertions.
type Runner struct {
	logger   *zap.Logger
	client   *http.Client
	store    *Store
	baseURL  string
	timeout  time.Duration
	defaults map[string]string
}

type Option func(*Runner)

func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

func WithClient(c *http.Client) Option {
	return func(r *Runner) { r.client = c }
}

// WithVariables preloads the variable store, typically from --var
// flags, before any case runs.
func WithVariables(vars map[string]any) Option {
	return func(r *Runner) {
		for k, v := range vars {
			r.store.Set(k, v)
		}
	}
}

// WithDefaultHeaders adds headers to every request, e.g. a shared API
// key. Case-level headers still win on conflict.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(r *Runner) {
		for k, v := range headers {
			r.defaults[k] = v
		}
	}
}

func New(logger *zap.Logger, baseURL string, opts ...Option) *Runner {
	r := &Runner{
		logger:  logger,
		client:  &http.Client{},
		store:   NewStore(),
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 30 * time.Second,
		defaults: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Vars exposes the runner's variable store.
func (r *Runner) Vars() *Store {
	return r.store
}

// ExecuteSingle runs one test case and returns its result. Transport
// failures produce an error verdict rather than a Go error, so a suite
// run always yields one result per case.
func (r *Runner) ExecuteSingle(ctx context.Context, tc models.TestCase) models.CaseResult {
	result := models.CaseResult{
		CaseID:     tc.ID,
		CaseTitle:  tc.Title,
		Method:     tc.Method,
		Endpoint:   tc.Endpoint,
		ExecutedAt: time.Now().UTC().Format(time.RFC3339),
	}

	reqURL, err := r.buildURL(tc)
	if err != nil {
		result.Status = models.StatusError
		result.ErrorMessage = err.Error()
		return result
	}

	headers := make(map[string]string, len(r.defaults)+len(tc.Headers))
	for k, v := range r.defaults {
		headers[k] = r.store.ResolveString(v)
	}
	for k, v := range tc.Headers {
		headers[r.store.ResolveString(k)] = r.store.ResolveString(v)
	}
	result.RequestHeaders = headers

	var bodyReader *bytes.Reader
	if tc.RequestBody != nil {
		resolved, _ := r.store.Resolve(tc.RequestBody).(map[string]any)
		result.RequestBody = resolved
		raw, err := json.Marshal(resolved)
		if err != nil {
			result.Status = models.StatusError
			result.ErrorMessage = fmt.Sprintf("failed to encode request body: %v", err)
			return result
		}
		bodyReader = bytes.NewReader(raw)
	}

	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var req *http.Request
	if bodyReader != nil {
		req, err = http.NewRequestWithContext(reqCtx, tc.Method, reqURL, bodyReader)
	} else {
		req, err = http.NewRequestWithContext(reqCtx, tc.Method, reqURL, nil)
	}
	if err != nil {
		result.Status = models.StatusError
		result.ErrorMessage = fmt.Sprintf("failed to build request: %v", err)
		return result
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	latency := float64(time.Since(start).Microseconds()) / 1000.0
	result.ResponseTimeMS = latency
	if err != nil {
		result.Status = models.StatusError
		result.ResponseStatus = 0
		result.ErrorMessage = fmt.Sprintf("request failed: %v", err)
		r.logger.Debug("request transport failure",
			zap.String("case", tc.ID),
			zap.String("url", reqURL),
			zap.Error(err))
		return result
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			r.logger.Debug("failed to close response body", zap.Error(err))
		}
	}()

	result.ResponseStatus = resp.StatusCode

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		result.Status = models.StatusError
		result.ErrorMessage = fmt.Sprintf("failed to read response body: %v", err)
		return result
	}
	rawBody := buf.String()

	var parsed any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		parsed = rawBody
	}
	result.ResponseBody = parsed

	ex := exchange{
		status:    resp.StatusCode,
		body:      parsed,
		rawBody:   rawBody,
		latencyMS: latency,
	}

	passed := true
	for _, a := range r.effectiveAssertions(tc) {
		ar := evaluate(a, ex)
		result.Assertions = append(result.Assertions, ar)
		if !ar.Passed {
			passed = false
		}
	}

	if passed {
		result.Status = models.StatusPassed
	} else {
		result.Status = models.StatusFailed
	}

	r.extract(tc, parsed)

	return result
}

// effectiveAssertions prepends the expected status check unless the
// case declares its own status assertion, in which case the declared
// one governs. Hand-written cases without an expected status are held
// to 200.
func (r *Runner) effectiveAssertions(tc models.TestCase) []models.Assertion {
	for _, a := range tc.Assertions {
		if a.Type == models.AssertStatusCode || a.Type == models.AssertStatusCodeIn {
			return tc.Assertions
		}
	}
	expected := tc.ExpectedStatus
	if expected == 0 {
		expected = 200
	}
	out := make([]models.Assertion, 0, len(tc.Assertions)+1)
	out = append(out, models.Assertion{Type: models.AssertStatusCode, Expected: expected})
	return append(out, tc.Assertions...)
}

// extract pulls values out of the response body into the variable
// store. It runs for every completed exchange regardless of verdict.
func (r *Runner) extract(tc models.TestCase, body any) {
	for name, path := range tc.Extract {
		v := jsonpath.Extract(body, path)
		if v == nil {
			r.logger.Debug("extraction path not found",
				zap.String("case", tc.ID),
				zap.String("variable", name),
				zap.String("path", path))
			continue
		}
		r.store.Set(name, v)
	}
}

// buildURL substitutes path parameters into the endpoint template,
// resolves variables and appends query parameters.
func (r *Runner) buildURL(tc models.TestCase) (string, error) {
	path := tc.Endpoint
	for name, val := range tc.PathParams {
		resolved := r.store.Resolve(val)
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(fmt.Sprintf("%v", resolved)))
	}
	path = r.store.ResolveString(path)

	full := r.baseURL + path
	u, err := url.Parse(full)
	if err != nil {
		return "", fmt.Errorf("invalid request url %q: %w", full, err)
	}

	if len(tc.QueryParams) > 0 {
		q := u.Query()
		for name, val := range tc.QueryParams {
			resolved := r.store.Resolve(val)
			if resolved == nil {
				q.Set(name, "")
				continue
			}
			q.Set(name, fmt.Sprintf("%v", resolved))
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
