package auth

import "strings"

// RequireAuth reports whether the given request path needs authentication.
//
// Exclusion patterns are matched in order against the normalized path (a
// trailing slash is appended when missing). A pattern ending in '*' matches
// as a prefix - the prefix being the pattern minus the '*' - and any other
// pattern must match exactly. The first matching exclusion wins. Prefix
// patterns always compare against the normalized path, never the raw one.
//
// An empty path or an empty exclusion list always requires authentication.
func RequireAuth(path string, exclusions []string) bool {
	if path == "" {
		return true
	}
	if len(exclusions) == 0 {
		return true
	}

	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	for _, pattern := range exclusions {
		if pattern == "" {
			continue
		}
		if strings.HasSuffix(pattern, "*") {
			if strings.HasPrefix(path, strings.TrimSuffix(pattern, "*")) {
				return false
			}
		} else if path == pattern {
			return false
		}
	}
	return true
}
