package entity

import "slices"

// AppendToken returns tokens with every entry of drop removed and next appended.
// When capacity is positive the oldest entries are evicted so that at most
// capacity tokens remain. The input slice is not modified.
func AppendToken(tokens []string, next string, capacity int, drop ...string) []string {
	out := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		if t == next || slices.Contains(drop, t) {
			continue
		}
		out = append(out, t)
	}
	out = append(out, next)
	if capacity > 0 && len(out) > capacity {
		out = out[len(out)-capacity:]
	}
	return out
}

// RemoveToken returns tokens without token and whether it was present.
func RemoveToken(tokens []string, token string) ([]string, bool) {
	i := slices.Index(tokens, token)
	if i < 0 {
		return tokens, false
	}
	out := make([]string, 0, len(tokens)-1)
	out = append(out, tokens[:i]...)
	out = append(out, tokens[i+1:]...)
	return out, true
}
