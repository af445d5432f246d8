package agent

import "strings"

// rule maps a keyword list to a result.
type rule[T any] struct {
	keywords []string
	result   T
}

// classifier evaluates rules top-down; the first rule with a keyword contained
// in the text wins, otherwise fallback is returned.
type classifier[T any] struct {
	rules    []rule[T]
	fallback T
}

func (c classifier[T]) classify(text string) T {
	for _, r := range c.rules {
		if containsAny(text, r.keywords) {
			return r.result
		}
	}
	return c.fallback
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
