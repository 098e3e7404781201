package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Status distinguishes the three states a model can be in within a report.
type Status int

const (
	// StatusMeasured means at least one sample was aggregated.
	StatusMeasured Status = iota
	// StatusNoData means the model was evaluated but no request succeeded.
	StatusNoData
	// StatusSkipped means the model was excluded before evaluation.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusMeasured:
		return "measured"
	case StatusNoData:
		return "no data"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Entry is a single model's line in a Report.
type Entry struct {
	Model   string
	Status  Status
	Summary ModelSummary
}

// Report maps model names to entries and keeps them in insertion order.
type Report struct {
	entries []Entry
	index   map[string]int
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{index: make(map[string]int)}
}

// Record stores the aggregation result for model. ok == false records no data.
// Recording a model twice replaces the entry in place.
func (r *Report) Record(model string, summary ModelSummary, ok bool) {
	if !ok {
		r.put(Entry{Model: model, Status: StatusNoData})
		return
	}
	r.put(Entry{Model: model, Status: StatusMeasured, Summary: summary})
}

// Skip marks model as excluded from evaluation.
func (r *Report) Skip(model string) {
	r.put(Entry{Model: model, Status: StatusSkipped})
}

func (r *Report) put(e Entry) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[e.Model]; ok {
		r.entries[i] = e
		return
	}
	r.index[e.Model] = len(r.entries)
	r.entries = append(r.entries, e)
}

// Lookup returns the entry for model.
func (r *Report) Lookup(model string) (Entry, bool) {
	i, ok := r.index[model]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Entries returns a copy of all entries in insertion order.
func (r *Report) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len reports the number of entries, skipped ones included.
func (r *Report) Len() int {
	return len(r.entries)
}

// SummaryRecord is the persisted form of a ModelSummary. Values are two-decimal strings;
// a nil rate means it was undefined for every sample.
type SummaryRecord struct {
	PromptTokensPerSecond   *string `json:"promptTokensPerSecond" yaml:"promptTokensPerSecond"`
	ResponseTokensPerSecond *string `json:"responseTokensPerSecond" yaml:"responseTokensPerSecond"`
	TotalTokensPerSecond    *string `json:"totalTokensPerSecond" yaml:"totalTokensPerSecond"`
	TotalTokens             string  `json:"totalTokens" yaml:"totalTokens"`
	TotalDuration           string  `json:"totalDuration" yaml:"totalDuration"`
}

// Record converts the summary into its persisted form.
func (s ModelSummary) Record() SummaryRecord {
	return SummaryRecord{
		PromptTokensPerSecond:   rateString(s.PromptTokensPerSecond),
		ResponseTokensPerSecond: rateString(s.ResponseTokensPerSecond),
		TotalTokensPerSecond:    rateString(s.TotalTokensPerSecond),
		TotalTokens:             FormatFixed2(s.TotalTokens),
		TotalDuration:           FormatFixed2(s.TotalDurationSeconds),
	}
}

func rateString(r Rate) *string {
	if !r.Defined {
		return nil
	}
	v := FormatFixed2(r.Value)
	return &v
}

// ParseSummaryRecord converts a persisted record back into a ModelSummary.
// SampleCount is not persisted and comes back as zero.
func ParseSummaryRecord(rec SummaryRecord) (ModelSummary, error) {
	var (
		s   ModelSummary
		err error
	)
	if s.PromptTokensPerSecond, err = parseRate("promptTokensPerSecond", rec.PromptTokensPerSecond); err != nil {
		return ModelSummary{}, err
	}
	if s.ResponseTokensPerSecond, err = parseRate("responseTokensPerSecond", rec.ResponseTokensPerSecond); err != nil {
		return ModelSummary{}, err
	}
	if s.TotalTokensPerSecond, err = parseRate("totalTokensPerSecond", rec.TotalTokensPerSecond); err != nil {
		return ModelSummary{}, err
	}
	if s.TotalTokens, err = strconv.ParseFloat(rec.TotalTokens, 64); err != nil {
		return ModelSummary{}, fmt.Errorf("parse totalTokens: %w", err)
	}
	if s.TotalDurationSeconds, err = strconv.ParseFloat(rec.TotalDuration, 64); err != nil {
		return ModelSummary{}, fmt.Errorf("parse totalDuration: %w", err)
	}
	return s, nil
}

func parseRate(field string, v *string) (Rate, error) {
	if v == nil {
		return Rate{}, nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		return Rate{}, fmt.Errorf("parse %s: %w", field, err)
	}
	return DefinedRate(f), nil
}

// MarshalJSON writes a flat object in insertion order. Measured models become objects,
// no-data models become null and skipped models are left out.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, e := range r.entries {
		if e.Status == StatusSkipped {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(e.Model)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if e.Status == StatusNoData {
			buf.WriteString("null")
			continue
		}
		value, err := json.Marshal(e.Summary.Record())
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat report object, keeping key order.
func (r *Report) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("report: expected JSON object, got %v", tok)
	}

	out := NewReport()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		model, ok := tok.(string)
		if !ok {
			return fmt.Errorf("report: unexpected key %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("report: model %s: %w", model, err)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			out.Record(model, ModelSummary{}, false)
			continue
		}

		var rec SummaryRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("report: model %s: %w", model, err)
		}
		summary, err := ParseSummaryRecord(rec)
		if err != nil {
			return fmt.Errorf("report: model %s: %w", model, err)
		}
		out.Record(model, summary, true)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = *out
	return nil
}
