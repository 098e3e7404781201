// internal/stats/aggregator.go
package stats

// ModelSummary holds the per-model means of the derived metrics, rounded half-up to
// two decimals.
type ModelSummary struct {
	SampleCount             int
	PromptTokensPerSecond   Rate
	ResponseTokensPerSecond Rate
	TotalTokensPerSecond    Rate
	TotalTokens             float64
	TotalDurationSeconds    float64
}

// runningMean accumulates a plain arithmetic mean.
type runningMean struct {
	sum   float64
	count int
}

func (m *runningMean) add(v float64) {
	m.sum += v
	m.count++
}

// addRate only counts defined rates.
func (m *runningMean) addRate(r Rate) {
	if r.Defined {
		m.add(r.Value)
	}
}

func (m runningMean) value() float64 {
	if m.count == 0 {
		return 0
	}
	return Round2(m.sum / float64(m.count))
}

func (m runningMean) rate() Rate {
	if m.count == 0 {
		return Rate{}
	}
	return DefinedRate(m.value())
}

// Aggregate averages the derived metrics of samples. It returns ok == false when samples
// is empty, which callers must report as "no data" rather than as a zero summary.
//
// Every sample contributes equally; there is no weighting by token count. A rate field is
// averaged over the samples where it is defined and stays undefined if none are.
func Aggregate(samples []TimingSample) (summary ModelSummary, ok bool) {
	if len(samples) == 0 {
		return ModelSummary{}, false
	}

	var promptRate, responseRate, totalRate, totalTokens, totalDuration runningMean
	for _, s := range samples {
		m := ComputeMetrics(s)
		promptRate.addRate(m.PromptTokensPerSecond)
		responseRate.addRate(m.ResponseTokensPerSecond)
		totalRate.addRate(m.TotalTokensPerSecond)
		totalTokens.add(float64(m.TotalTokens))
		totalDuration.add(m.TotalDurationSeconds)
	}

	return ModelSummary{
		SampleCount:             len(samples),
		PromptTokensPerSecond:   promptRate.rate(),
		ResponseTokensPerSecond: responseRate.rate(),
		TotalTokensPerSecond:    totalRate.rate(),
		TotalTokens:             totalTokens.value(),
		TotalDurationSeconds:    totalDuration.value(),
	}, true
}
