package stats

// DerivedMetrics is the per-sample view computed from a TimingSample.
type DerivedMetrics struct {
	PromptTokensPerSecond   Rate
	ResponseTokensPerSecond Rate
	TotalTokensPerSecond    Rate
	TotalTokens             int
	TotalDurationSeconds    float64
}

// ComputeMetrics derives token rates for a single sample. LoadDuration is carried on the
// sample but does not take part in any of the rates.
func ComputeMetrics(s TimingSample) DerivedMetrics {
	totalTokens := s.PromptEvalCount + s.EvalCount
	return DerivedMetrics{
		PromptTokensPerSecond:   tokensPerSecond(s.PromptEvalCount, s.PromptEvalDuration),
		ResponseTokensPerSecond: tokensPerSecond(s.EvalCount, s.EvalDuration),
		TotalTokensPerSecond:    tokensPerSecond(totalTokens, s.PromptEvalDuration+s.EvalDuration),
		TotalTokens:             totalTokens,
		TotalDurationSeconds:    nanosToSeconds(s.TotalDuration),
	}
}
