package report

import (
	"bytes"
	"fmt"

	"github.com/mwiater/ollamabench/internal/stats"
	"gopkg.in/yaml.v3"
)

const nullTag = "!!null"

// encodeYAML builds the document node by hand so model order survives.
func encodeYAML(r *stats.Report) ([]byte, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range r.Entries() {
		if e.Status == stats.StatusSkipped {
			continue
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Model}
		if e.Status == stats.StatusNoData {
			mapping.Content = append(mapping.Content, key, &yaml.Node{Kind: yaml.ScalarNode, Tag: nullTag, Value: "null"})
			continue
		}
		value := &yaml.Node{}
		if err := value.Encode(e.Summary.Record()); err != nil {
			return nil, fmt.Errorf("model %s: %w", e.Model, err)
		}
		mapping.Content = append(mapping.Content, key, value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapping}}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeYAML(data []byte) (*stats.Report, error) {
	out := stats.NewReport()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return out, nil
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("report: expected YAML mapping at line %d", mapping.Line)
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		model := key.Value
		if value.ShortTag() == nullTag {
			out.Record(model, stats.ModelSummary{}, false)
			continue
		}

		var rec stats.SummaryRecord
		if err := value.Decode(&rec); err != nil {
			return nil, fmt.Errorf("report: model %s: %w", model, err)
		}
		summary, err := stats.ParseSummaryRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("report: model %s: %w", model, err)
		}
		out.Record(model, summary, true)
	}
	return out, nil
}
