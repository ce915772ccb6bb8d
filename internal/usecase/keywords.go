package usecase

import (
	"sort"
	"strings"
)

// GroupTable maps workspace permission-group names to their platform ids.
// It is loaded once from configuration.
type GroupTable map[string]int64

// MatchesKeywords reports whether name matches a keyword list. A keyword with
// a leading "!" excludes names containing that term, so "ADMIN,!AC" matches
// "League Admin" but not "AC Admin". Matching is case-insensitive and
// requires at least one positive hit and zero negative hits.
func MatchesKeywords(name string, keywords []string) bool {
	lowered := strings.ToLower(name)

	matched := false
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		if negated := strings.TrimPrefix(keyword, "!"); negated != keyword {
			if strings.Contains(lowered, strings.ToLower(negated)) {
				return false
			}
			continue
		}
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			matched = true
		}
	}
	return matched
}

// Match returns the ids of every group whose name matches the keyword list,
// in ascending order so callers behave deterministically.
func (t GroupTable) Match(keywords []string) []int64 {
	out := make([]int64, 0, len(t))
	for name, id := range t {
		if MatchesKeywords(name, keywords) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
