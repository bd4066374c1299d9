package valuepool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValid_PrefersFieldHintOverType(t *testing.T) {
	p := NewWithSeed(1)

	v := p.Valid("string", "user_email")
	assert.Contains(t, []any{"test@example.com", "user.name@domain.org"}, v)

	v = p.Valid("integer", "userId")
	assert.Contains(t, []any{1, 100, 9999}, v)
}

func TestValid_HintMatchOrder(t *testing.T) {
	p := NewWithSeed(1)

	// "page_size" contains both "page" and "size"; "page" is tried
	// first so its table wins.
	v := p.Valid("integer", "page_size")
	assert.Contains(t, []any{1, 2, 10}, v)
}

func TestValid_FallsBackToTypeThenSentinel(t *testing.T) {
	p := NewWithSeed(1)

	v := p.Valid("boolean", "flag")
	assert.Contains(t, []any{true, false}, v)

	assert.Equal(t, "test_value", p.Valid("unknown_type", "thing"))
}

func TestInvalid_UnknownTypeFallback(t *testing.T) {
	p := NewWithSeed(1)
	assert.Equal(t, []any{nil, "", 123}, p.Invalid("mystery", "thing"))
}

func TestBoundary_TableContents(t *testing.T) {
	p := NewWithSeed(1)

	ints := p.Boundary("integer", "count")
	assert.Equal(t, []any{0, 1, -1, 2147483647, -2147483648, 2147483648}, ints)

	assert.Empty(t, p.Boundary("boolean", "flag"))
	assert.Nil(t, p.Boundary("mystery", "thing"))
}

func TestSpecial_IgnoresFieldHints(t *testing.T) {
	p := NewWithSeed(1)
	special := p.Special("string")
	require.NotEmpty(t, special)
	assert.Contains(t, special, "'; DROP TABLE users;--")
}

func TestSeededPoolsAreDeterministic(t *testing.T) {
	a := NewWithSeed(99)
	b := NewWithSeed(99)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Valid("string", "name"), b.Valid("string", "name"))
	}
}
