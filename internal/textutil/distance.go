package textutil

// WithinOneEdit reports whether a and b differ by at most one insertion,
// deletion, or substitution. Inputs are compared byte-wise, which is exact for
// normalized tokens.
func WithinOneEdit(a, b string) bool {
	la, lb := len(a), len(b)
	if la > lb {
		a, b = b, a
		la, lb = lb, la
	}
	if lb-la > 1 {
		return false
	}
	i, j := 0, 0
	edited := false
	for i < la && j < lb {
		if a[i] == b[j] {
			i++
			j++
			continue
		}
		if edited {
			return false
		}
		edited = true
		if la == lb {
			i++
		}
		j++
	}
	return true
}
