// Package valuepool provides the static test-data tables used by the case
// generator: valid, invalid, boundary and special values per primitive
// type, with overrides for well-known semantic field names.
package valuepool

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

type table struct {
	valid    []any
	invalid  []any
	boundary []any
	special  []any
}

var typeTables = map[string]table{
	"string": {
		valid:    []any{"test", "hello", "example"},
		invalid:  []any{nil, "", 123, true, []any{}, map[string]any{}},
		boundary: []any{"", "a", strings.Repeat("a", 255), strings.Repeat("a", 256)},
		special: []any{"<script>alert(1)</script>", "'; DROP TABLE users;--",
			"test\n\r\t", "测试中文", "🎉emoji", " spaces "},
	},
	"integer": {
		valid:    []any{1, 100, 999},
		invalid:  []any{nil, "", "abc", 1.5, true, []any{}, map[string]any{}},
		boundary: []any{0, 1, -1, 2147483647, -2147483648, 2147483648},
		special:  []any{0, -0},
	},
	"number": {
		valid:    []any{1.0, 3.14, 100.5},
		invalid:  []any{nil, "", "abc", true, []any{}, map[string]any{}},
		boundary: []any{0.0, 0.001, -0.001, 1e10, -1e10, math.Inf(1)},
		special:  []any{0.0, math.Copysign(0, -1)},
	},
	"boolean": {
		valid:   []any{true, false},
		invalid: []any{nil, "", 0, 1, "true", "false", []any{}, map[string]any{}},
	},
	"array": {
		valid:    []any{[]any{}, []any{1}, []any{1, 2, 3}},
		invalid:  []any{nil, "", 123, true, map[string]any{}},
		boundary: []any{[]any{}, intRange(100), intRange(1000)},
		special:  []any{[]any{nil}, []any{map[string]any{}}, []any{[]any{}}},
	},
	"object": {
		valid:    []any{map[string]any{}, map[string]any{"key": "value"}},
		invalid:  []any{nil, "", 123, true, []any{}},
		boundary: []any{map[string]any{}, wideObject(100)},
		special:  []any{map[string]any{"": ""}},
	},
}

type fieldTable struct {
	key string
	table
}

// fieldTables is checked by case-insensitive substring match against the
// parameter name; first match wins, so order matters (e.g. "page" must be
// tried before "age").
var fieldTables = []fieldTable{
	{"email", table{
		valid:    []any{"test@example.com", "user.name@domain.org"},
		invalid:  []any{"invalid", "@domain.com", "user@", "user@.com", "user@domain", ""},
		boundary: []any{"a@b.co", strings.Repeat("a", 64) + "@example.com"},
	}},
	{"phone", table{
		valid:    []any{"13800138000", "18612345678", "+8613800138000"},
		invalid:  []any{"123", "abc", "1380013800", "138001380001", ""},
		boundary: []any{"10000000000", "19999999999"},
	}},
	{"password", table{
		valid:    []any{"Password123", "Abcd@1234", "Test#Pass1"},
		invalid:  []any{"123", "abc", "12345678", "password", ""},
		boundary: []any{"Aa1@56", "Aa1@" + strings.Repeat("x", 100)},
	}},
	{"username", table{
		valid:    []any{"user123", "test_user", "admin"},
		invalid:  []any{"", "a", "user name", "user@name", "<script>"},
		boundary: []any{"ab", strings.Repeat("a", 50)},
	}},
	{"id", table{
		valid:    []any{1, 100, 9999},
		invalid:  []any{0, -1, "", nil, "abc"},
		boundary: []any{1, 2147483647},
	}},
	{"page", table{
		valid:    []any{1, 2, 10},
		invalid:  []any{0, -1, "", nil, "abc"},
		boundary: []any{1, 1000, 10000},
	}},
	{"size", table{
		valid:    []any{10, 20, 50},
		invalid:  []any{0, -1, "", nil, 1001},
		boundary: []any{1, 100, 500},
	}},
	{"date", table{
		valid:    []any{"2024-01-01", "2024-12-31"},
		invalid:  []any{"", "2024", "01-01-2024", "2024-13-01", "2024-01-32"},
		boundary: []any{"1970-01-01", "2099-12-31"},
	}},
	{"url", table{
		valid:    []any{"https://example.com", "http://localhost:8080/path"},
		invalid:  []any{"", "example.com", "ftp://example.com", "://invalid"},
		boundary: []any{"http://a.co", "https://" + strings.Repeat("a", 200) + ".com"},
	}},
	{"age", table{
		valid:    []any{18, 25, 60},
		invalid:  []any{-1, 0, 200, "", nil},
		boundary: []any{1, 17, 18, 120, 121},
	}},
	{"amount", table{
		valid:    []any{100, 1000.50, 9999.99},
		invalid:  []any{-1, "", nil, "abc"},
		boundary: []any{0, 0.01, 999999.99, 1000000},
	}},
}

// Pool selects test values from the static tables. Valid-value selection
// is uniformly random over the matching pool, so callers needing
// reproducible output must construct the pool with a fixed seed.
type Pool struct {
	rng *rand.Rand
}

// New returns a Pool seeded from the wall clock.
func New() *Pool {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Pool with a deterministic random source.
func NewWithSeed(seed int64) *Pool {
	return &Pool{rng: rand.New(rand.NewSource(seed))}
}

func lookup(paramType, fieldHint string) (table, bool) {
	name := strings.ToLower(fieldHint)
	for _, ft := range fieldTables {
		if strings.Contains(name, ft.key) {
			return ft.table, true
		}
	}
	t, ok := typeTables[strings.ToLower(paramType)]
	return t, ok
}

// Valid returns one valid value for the given type, preferring the
// semantic field table matched by fieldHint.
func (p *Pool) Valid(paramType, fieldHint string) any {
	t, ok := lookup(paramType, fieldHint)
	if !ok || len(t.valid) == 0 {
		return "test_value"
	}
	return t.valid[p.rng.Intn(len(t.valid))]
}

// Invalid returns the invalid-value list for the given type or field hint.
func (p *Pool) Invalid(paramType, fieldHint string) []any {
	t, ok := lookup(paramType, fieldHint)
	if !ok {
		return []any{nil, "", 123}
	}
	return t.invalid
}

// Boundary returns the boundary-value list for the given type or field
// hint. The list may be empty (e.g. boolean).
func (p *Pool) Boundary(paramType, fieldHint string) []any {
	t, ok := lookup(paramType, fieldHint)
	if !ok {
		return nil
	}
	return t.boundary
}

// Special returns the security-probing values for the given type. Field
// hints do not apply here; the payloads target the type, not the field.
func (p *Pool) Special(paramType string) []any {
	t, ok := typeTables[strings.ToLower(paramType)]
	if !ok {
		return nil
	}
	return t.special
}

func intRange(n int) []any {
	vals := make([]any, n)
	for i := range vals {
		vals[i] = i
	}
	return vals
}

func wideObject(n int) map[string]any {
	m := make(map[string]any, n)
	for i := 0; i < n; i++ {
		m["key"+strconv.Itoa(i)] = i
	}
	return m
}
