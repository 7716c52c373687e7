package timeline

import (
	"recut/internal/textutil"
	"recut/internal/transcript"
)

// DefaultMinRange is the shortest keep range retained, in seconds.
const DefaultMinRange = 0.1

// KeepOptions tunes BuildKeepRanges.
type KeepOptions struct {
	// MinDuration drops shorter ranges. Zero uses DefaultMinRange.
	MinDuration float64
	// TotalDuration bounds the ranges. Zero or negative uses the last source
	// word end.
	TotalDuration float64
}

// KeepResult lists the retained source spans.
type KeepResult struct {
	Ranges []transcript.TimeRange
	// Dropped counts ranges discarded as degenerate.
	Dropped int
	// Unmatched counts kept words that could not be located in source.
	Unmatched int
}

// BuildKeepRanges maps kept words back onto source indexes and merges runs of
// consecutive indexes into ranges.
func BuildKeepRanges(source, kept []transcript.Word, opts KeepOptions) KeepResult {
	var result KeepResult
	if len(source) == 0 || len(kept) == 0 {
		return result
	}
	minDuration := opts.MinDuration
	if minDuration <= 0 {
		minDuration = DefaultMinRange
	}
	total := opts.TotalDuration
	if total <= 0 {
		total = transcript.TotalDuration(source)
	}

	normalized := make([]string, len(source))
	for i, w := range source {
		normalized[i] = textutil.NormalizeToken(w.Text)
	}

	var (
		raw     []transcript.TimeRange
		current transcript.TimeRange
		open    bool
		last    = -2
		cursor  int
	)
	for _, w := range kept {
		token := textutil.NormalizeToken(w.Text)
		index := -1
		if token != "" {
			for i := cursor; i < len(normalized); i++ {
				if normalized[i] == token {
					index = i
					break
				}
			}
		}
		if index < 0 {
			result.Unmatched++
			continue
		}
		cursor = index + 1
		matched := source[index]
		if open && index == last+1 {
			current.End = matched.End
		} else {
			if open {
				raw = append(raw, current)
			}
			current = transcript.TimeRange{Start: matched.Start, End: matched.End}
			open = true
		}
		last = index
	}
	if open {
		raw = append(raw, current)
	}

	result.Ranges = make([]transcript.TimeRange, 0, len(raw))
	for _, r := range raw {
		r.Start = clamp(r.Start, 0, total)
		r.End = clamp(r.End, 0, total)
		if r.Duration() < minDuration {
			result.Dropped++
			continue
		}
		result.Ranges = append(result.Ranges, r)
	}
	return result
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
