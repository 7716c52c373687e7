package textutil

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for term, count := range a.terms {
		if other, ok := b.terms[term]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// Coverage scores how much of the edited text is represented by the aligned
// text. Identical passages score 1; an edit with no usable terms scores 1
// because there is nothing to lose.
func Coverage(edited, aligned string) float64 {
	want := NewFingerprint(edited)
	if want == nil {
		return 1
	}
	return CosineSimilarity(want, NewFingerprint(aligned))
}
