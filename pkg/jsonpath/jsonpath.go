// Package jsonpath extracts values from decoded JSON structures using a
// small dotted/bracketed path grammar: an optional leading "$", segments
// separated by ".", where a segment is a key, "key[n]", or a bare "[n]"
// indexing the root sequence. Every miss resolves to nil; the package
// never returns an error.
package jsonpath

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rootIndexRe = regexp.MustCompile(`^\[(\d+)\]\.?(.*)$`)
	keyIndexRe  = regexp.MustCompile(`^(\w+)\[(\d+)\]$`)
	bareIndexRe = regexp.MustCompile(`^\[(\d+)\]$`)
)

// Extract resolves path against data. Missing keys, out-of-range indices
// and type mismatches all yield nil.
func Extract(data any, path string) any {
	if path == "" || data == nil {
		return nil
	}

	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")

	// A root sequence index may be followed by a nested path.
	if m := rootIndexRe.FindStringSubmatch(path); m != nil {
		idx, _ := strconv.Atoi(m[1])
		seq, ok := data.([]any)
		if !ok || idx >= len(seq) {
			return nil
		}
		if m[2] == "" {
			return seq[idx]
		}
		return Extract(seq[idx], m[2])
	}

	current := data
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			continue
		}

		switch {
		case keyIndexRe.MatchString(part):
			m := keyIndexRe.FindStringSubmatch(part)
			idx, _ := strconv.Atoi(m[2])
			obj, ok := current.(map[string]any)
			if !ok {
				return nil
			}
			seq, ok := obj[m[1]].([]any)
			if !ok || idx >= len(seq) {
				return nil
			}
			current = seq[idx]
		case bareIndexRe.MatchString(part):
			m := bareIndexRe.FindStringSubmatch(part)
			idx, _ := strconv.Atoi(m[1])
			seq, ok := current.([]any)
			if !ok || idx >= len(seq) {
				return nil
			}
			current = seq[idx]
		default:
			obj, ok := current.(map[string]any)
			if !ok {
				return nil
			}
			val, ok := obj[part]
			if !ok {
				return nil
			}
			current = val
		}
	}

	return current
}
