package auth

import "strings"

// CodeSet is the configured set of supporter access codes. Matching is
// case-insensitive and ignores surrounding whitespace.
type CodeSet struct {
	codes map[string]struct{}
}

// NewCodeSet normalizes and indexes the configured codes.
func NewCodeSet(codes []string) *CodeSet {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		normalized := normalizeCode(code)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return &CodeSet{codes: set}
}

// Contains reports whether the code matches a configured entry.
// The matched normalized form is returned for embedding in the token claim.
func (s *CodeSet) Contains(code string) (string, bool) {
	normalized := normalizeCode(code)
	if normalized == "" {
		return "", false
	}
	_, ok := s.codes[normalized]
	return normalized, ok
}

// Empty reports whether no codes are configured.
func (s *CodeSet) Empty() bool {
	return len(s.codes) == 0
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
