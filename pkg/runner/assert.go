package runner

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/apiforge/apiforge/pkg/jsonpath"
	"github.com/apiforge/apiforge/pkg/models"
)

// exchange carries everything an assertion can be evaluated against.
type exchange struct {
	status    int
	body      any
	rawBody   string
	latencyMS float64
}

// evaluate runs a single assertion against the exchange. It never
// panics, a malformed assertion simply fails with a message.
func evaluate(a models.Assertion, ex exchange) models.AssertionResult {
	res := models.AssertionResult{
		Type:     a.Type,
		Path:     a.Path,
		Expected: a.Expected,
	}

	switch a.Type {
	case models.AssertStatusCode:
		res.Actual = ex.status
		want, ok := toFloat(a.Expected)
		res.Passed = ok && float64(ex.status) == want
		if !res.Passed {
			res.Message = fmt.Sprintf("expected status %v, got %d", a.Expected, ex.status)
		}

	case models.AssertStatusCodeIn:
		res.Actual = ex.status
		res.Passed = statusIn(ex.status, a.Expected)
		if !res.Passed {
			res.Message = fmt.Sprintf("status %d not in %v", ex.status, a.Expected)
		}

	case models.AssertResponseContains:
		needle := fmt.Sprintf("%v", a.Expected)
		res.Actual = truncate(ex.rawBody, 200)
		res.Passed = strings.Contains(ex.rawBody, needle)
		if !res.Passed {
			res.Message = fmt.Sprintf("response does not contain %q", needle)
		}

	case models.AssertResponseNotContains:
		needle := fmt.Sprintf("%v", a.Expected)
		res.Actual = truncate(ex.rawBody, 200)
		res.Passed = !strings.Contains(ex.rawBody, needle)
		if !res.Passed {
			res.Message = fmt.Sprintf("response must not contain %q", needle)
		}

	case models.AssertResponseTime:
		res.Actual = ex.latencyMS
		res.Expected = a.MaxMS
		res.Passed = ex.latencyMS <= a.MaxMS
		if !res.Passed {
			res.Message = fmt.Sprintf("response took %.1fms, limit %.1fms", ex.latencyMS, a.MaxMS)
		}

	case models.AssertExists:
		actual := jsonpath.Extract(ex.body, a.Path)
		res.Actual = actual
		res.Passed = actual != nil
		if !res.Passed {
			res.Message = fmt.Sprintf("path %q not found in response", a.Path)
		}

	case models.AssertEquals:
		actual := jsonpath.Extract(ex.body, a.Path)
		res.Actual = actual
		res.Passed = looseEqual(actual, a.Expected)
		if !res.Passed {
			res.Message = fmt.Sprintf("path %q: expected %v, got %v", a.Path, a.Expected, actual)
		}

	case models.AssertNotEquals:
		actual := jsonpath.Extract(ex.body, a.Path)
		res.Actual = actual
		res.Passed = !looseEqual(actual, a.Expected)
		if !res.Passed {
			res.Message = fmt.Sprintf("path %q: value must not equal %v", a.Path, a.Expected)
		}

	case models.AssertContains:
		actual := jsonpath.Extract(ex.body, a.Path)
		res.Actual = actual
		res.Passed = containsValue(actual, a.Expected)
		if !res.Passed {
			res.Message = fmt.Sprintf("path %q: %v does not contain %v", a.Path, actual, a.Expected)
		}

	case models.AssertGreaterThan:
		res.Passed, res.Actual, res.Message = compareNumeric(ex.body, a, func(actual, want float64) bool { return actual > want }, "greater than")

	case models.AssertLessThan:
		res.Passed, res.Actual, res.Message = compareNumeric(ex.body, a, func(actual, want float64) bool { return actual < want }, "less than")

	case models.AssertTypeIs:
		actual := jsonpath.Extract(ex.body, a.Path)
		kind := jsonKind(actual)
		res.Actual = kind
		res.Passed = kind == canonicalType(fmt.Sprintf("%v", a.Expected))
		if !res.Passed {
			res.Message = fmt.Sprintf("path %q: expected type %v, got %s", a.Path, a.Expected, kind)
		}

	case models.AssertMatches:
		actual := jsonpath.Extract(ex.body, a.Path)
		res.Actual = actual
		pattern := fmt.Sprintf("%v", a.Expected)
		re, err := regexp.Compile(pattern)
		if err != nil {
			res.Message = fmt.Sprintf("invalid pattern %q: %v", pattern, err)
			break
		}
		// The pattern must match from the start of the value, a hit
		// later in the string does not count.
		loc := re.FindStringIndex(fmt.Sprintf("%v", actual))
		res.Passed = actual != nil && loc != nil && loc[0] == 0
		if !res.Passed {
			res.Message = fmt.Sprintf("path %q: %v does not match %q", a.Path, actual, pattern)
		}

	default:
		res.Message = fmt.Sprintf("unknown assertion type %q", a.Type)
	}

	return res
}

func compareNumeric(body any, a models.Assertion, cmp func(actual, want float64) bool, word string) (bool, any, string) {
	actual := jsonpath.Extract(body, a.Path)
	actualN, okA := toFloat(actual)
	wantN, okW := toFloat(a.Expected)
	if !okA || !okW {
		return false, actual, fmt.Sprintf("path %q: cannot compare %v with %v", a.Path, actual, a.Expected)
	}
	if !cmp(actualN, wantN) {
		return false, actual, fmt.Sprintf("path %q: %v is not %s %v", a.Path, actual, word, a.Expected)
	}
	return true, actual, ""
}

func statusIn(status int, expected any) bool {
	list := reflect.ValueOf(expected)
	if !list.IsValid() || (list.Kind() != reflect.Slice && list.Kind() != reflect.Array) {
		return false
	}
	for i := 0; i < list.Len(); i++ {
		if n, ok := toFloat(list.Index(i).Interface()); ok && float64(status) == n {
			return true
		}
	}
	return false
}

// looseEqual compares values the way JSON does, so 3 and 3.0 are
// equal regardless of how either side was decoded.
func looseEqual(a, b any) bool {
	if an, ok := toFloat(a); ok {
		if bn, ok := toFloat(b); ok {
			return an == bn
		}
	}
	return reflect.DeepEqual(a, b) || fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func containsValue(actual, expected any) bool {
	switch v := actual.(type) {
	case string:
		return strings.Contains(v, fmt.Sprintf("%v", expected))
	case []any:
		for _, item := range v {
			if looseEqual(item, expected) {
				return true
			}
		}
	case map[string]any:
		_, ok := v[fmt.Sprintf("%v", expected)]
		return ok
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// canonicalType maps the type names cases are written with onto the
// kind names jsonKind reports. Cases use the short names (int, float,
// bool, list, dict) but the JSON-kind names are accepted too.
func canonicalType(name string) string {
	switch name {
	case "int", "float", "number":
		return "number"
	case "bool", "boolean":
		return "boolean"
	case "list", "array":
		return "array"
	case "dict", "object":
		return "object"
	case "str", "string":
		return "string"
	case "null", "none":
		return "null"
	}
	return name
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int32, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return reflect.TypeOf(v).String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
