package models

// Stats holds the counts computed for a single target.
type Stats struct {
	Lines         uint64 `json:"lines" yaml:"lines"`
	Words         uint64 `json:"words" yaml:"words"`
	Bytes         uint64 `json:"bytes" yaml:"bytes"`
	MaxLineLength uint64 `json:"max_line_length" yaml:"max_line_length"`
}

// Add returns the elementwise sum of lines, words and bytes.
// MaxLineLength is a per-file measure and is never carried into a sum.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Lines: s.Lines + o.Lines,
		Words: s.Words + o.Words,
		Bytes: s.Bytes + o.Bytes,
	}
}

// IsZero reports whether every counter is zero.
func (s Stats) IsZero() bool {
	return s == Stats{}
}
