package matching

import "strings"

// Normalize lower-cases and trims a free-text token.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeValue accepts any value and returns its canonical token, or "" when the
// value is absent or not a string.
func NormalizeValue(v any) string {
	switch t := v.(type) {
	case string:
		return Normalize(t)
	case *string:
		if t == nil {
			return ""
		}
		return Normalize(*t)
	default:
		return ""
	}
}

// NormalizeList maps a list element-wise through Normalize. Anything that is not a
// list yields an empty slice; non-string and empty elements are dropped.
func NormalizeList(v any) []string {
	out := make([]string, 0)
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if n := Normalize(s); n != "" {
				out = append(out, n)
			}
		}
	case []any:
		for _, it := range t {
			s, ok := it.(string)
			if !ok {
				continue
			}
			if n := Normalize(s); n != "" {
				out = append(out, n)
			}
		}
	}
	return out
}

// fuzzyContains is the permissive skill/role matcher: either normalized token
// contains the other. Empty tokens never match.
func fuzzyContains(a, b string) bool {
	a = Normalize(a)
	b = Normalize(b)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
