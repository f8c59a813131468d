package textutil

// CosineSimilarity scores the overlap of two fingerprints in [0, 1]. A nil
// fingerprint (text with no usable tokens) scores 0 against everything, so
// unlabeled image files sink to the bottom of a prompt ranking.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	small, large := a, b
	if len(b.tokens) < len(a.tokens) {
		small, large = b, a
	}
	var dot float64
	for term, weight := range small.tokens {
		dot += weight * large.tokens[term]
	}
	if dot == 0 {
		return 0
	}
	return dot / (small.norm * large.norm)
}
