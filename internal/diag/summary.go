package diag

// DefaultSampleSize is the number of example diagnostics kept per kind in a Summary.
const DefaultSampleSize = 5

// Summary is the end-of-run report.
type Summary struct {
	Total   int                   `json:"total"`
	Counts  map[Kind]int          `json:"counts"`
	Samples map[Kind][]Diagnostic `json:"samples,omitempty"`
}

// Summarize builds a Summary keeping at most samples examples per kind.
// A non-positive samples value uses DefaultSampleSize.
func (c *Collector) Summarize(samples int) Summary {
	if samples <= 0 {
		samples = DefaultSampleSize
	}

	all := c.All()
	s := Summary{
		Total:   len(all),
		Counts:  make(map[Kind]int),
		Samples: make(map[Kind][]Diagnostic),
	}
	for _, d := range all {
		s.Counts[d.Kind]++
		if len(s.Samples[d.Kind]) < samples {
			s.Samples[d.Kind] = append(s.Samples[d.Kind], d)
		}
	}
	return s
}

// Empty reports whether no diagnostics were recorded.
func (s Summary) Empty() bool {
	return s.Total == 0
}
