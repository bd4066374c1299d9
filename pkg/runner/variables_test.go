package runner

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ResolveString(t *testing.T) {
	s := NewStore()
	s.Set("token", "abc123")
	s.Set("user_id", 42)

	assert.Equal(t, "Bearer abc123", s.ResolveString("Bearer {token}"))
	assert.Equal(t, "/users/42/posts", s.ResolveString("/users/{user_id}/posts"))
	assert.Equal(t, "{unknown} stays", s.ResolveString("{unknown} stays"))
	assert.Equal(t, "no placeholders", s.ResolveString("no placeholders"))
}

func TestStore_ResolvePreservesTypeForExactPlaceholder(t *testing.T) {
	s := NewStore()
	s.Set("id", 42)

	assert.Equal(t, 42, s.Resolve("{id}"))
	assert.Equal(t, "id is 42", s.Resolve("id is {id}"))
}

func TestStore_ResolveWalksNestedStructures(t *testing.T) {
	s := NewStore()
	s.Set("token", "abc")
	s.Set("id", 7)

	in := map[string]any{
		"auth":  "Bearer {token}",
		"ids":   []any{"{id}", "literal"},
		"inner": map[string]any{"ref": "{id}"},
		"n":     3,
	}
	out, ok := s.Resolve(in).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "Bearer abc", out["auth"])
	assert.Equal(t, []any{7, "literal"}, out["ids"])
	assert.Equal(t, map[string]any{"ref": 7}, out["inner"])
	assert.Equal(t, 3, out["n"])
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Set(fmt.Sprintf("k%d", n), n)
			s.ResolveString("{k0} {k1} {k2}")
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		v, ok := s.Get(fmt.Sprintf("k%d", i))
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.Len(t, s.Snapshot(), 50)
}
