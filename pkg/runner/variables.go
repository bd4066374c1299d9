package runner

import (
	"fmt"
	"regexp"
	"sync"
)

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// Store holds variables extracted from earlier responses so later
// cases can reference them through {name} placeholders. It is safe
// for concurrent use.
type Store struct {
	mu   sync.Mutex
	vars map[string]any
}

func NewStore() *Store {
	return &Store{vars: map[string]any{}}
}

func (s *Store) Set(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[name] = value
}

func (s *Store) Get(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vars[name]
	return v, ok
}

// Snapshot returns a copy of the current variables.
func (s *Store) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

// ResolveString substitutes {name} placeholders in s with stored
// values. Unknown names are left untouched.
func (s *Store) ResolveString(in string) string {
	return placeholderRe.ReplaceAllStringFunc(in, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		v, ok := s.Get(name)
		if !ok {
			return match
		}
		return fmt.Sprintf("%v", v)
	})
}

// Resolve walks any combination of strings, maps and slices and
// substitutes placeholders in every string it finds. A string that is
// exactly one placeholder resolves to the stored value itself so the
// original type is preserved.
func (s *Store) Resolve(v any) any {
	switch val := v.(type) {
	case string:
		if m := placeholderRe.FindStringSubmatch(val); m != nil && m[0] == val {
			if stored, ok := s.Get(m[1]); ok {
				return stored
			}
		}
		return s.ResolveString(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = s.Resolve(item)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, item := range val {
			out[k] = s.ResolveString(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = s.Resolve(item)
		}
		return out
	default:
		return v
	}
}
