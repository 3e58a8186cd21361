package search

// BuzzInputs feed the relevance boost. The orchestrator currently supplies
// the same resolved-embed count for RecentCount and TotalCount: no per-post
// timestamp reaches this service, so there is no true recency signal behind
// the name. Known limitation, preserved deliberately.
type BuzzInputs struct {
	RecentCount int
	TotalCount  int
	Rating      *float64
}

// ComputeBuzzScore is a pure function blending social-mention volume with a
// clamped rating boost. No rating means no boost.
func ComputeBuzzScore(in BuzzInputs) float64 {
	boost := 0.0
	if in.Rating != nil {
		boost = (*in.Rating - 3.5) / 1.5
		if boost < 0 {
			boost = 0
		}
		if boost > 1 {
			boost = 1
		}
	}
	return 2*float64(in.RecentCount) + 1*float64(in.TotalCount) + 0.5*boost
}
