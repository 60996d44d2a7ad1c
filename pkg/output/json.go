package output

import (
	"bytes"
	"encoding/json"

	"github.com/sonemaro/ewc/pkg/logger"
	"github.com/sonemaro/ewc/pkg/models"
	"github.com/sonemaro/ewc/pkg/report"
)

// Counts holds the selected metrics; unselected ones are omitted
type Counts struct {
	Lines         *uint64 `json:"lines,omitempty" yaml:"lines,omitempty"`
	Words         *uint64 `json:"words,omitempty" yaml:"words,omitempty"`
	Bytes         *uint64 `json:"bytes,omitempty" yaml:"bytes,omitempty"`
	MaxLineLength *uint64 `json:"max_line_length,omitempty" yaml:"max_line_length,omitempty"`
}

// jsonEntry is one argument, or one file of a directory in verbose mode
type jsonEntry struct {
	File      string      `json:"file,omitempty" yaml:"file,omitempty"`
	Directory string      `json:"directory,omitempty" yaml:"directory,omitempty"`
	FileCount *int        `json:"file_count,omitempty" yaml:"file_count,omitempty"`
	Counts    `yaml:",inline"`
	Files     []jsonEntry `json:"files,omitempty" yaml:"files,omitempty"`
}

type jsonTotal struct {
	FileCount int `json:"file_count" yaml:"file_count"`
	Counts    `yaml:",inline"`
}

// jsonOutput is the document for more than one argument
type jsonOutput struct {
	Files []jsonEntry `json:"files" yaml:"files"`
	Total jsonTotal   `json:"total" yaml:"total"`
}

func (f *formatter) formatJSON(groups []report.Group) (string, error) {
	f.log.Debug("Formatting JSON output")

	doc := f.document(groups)
	if doc == nil {
		return "", nil
	}

	// paths and "<stdin>" are written as is, not HTML-escaped
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal JSON")
		return "", err
	}

	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// document returns a single jsonEntry for one argument and a jsonOutput
// for several, nil when there is nothing to render
func (f *formatter) document(groups []report.Group) interface{} {
	switch len(groups) {
	case 0:
		return nil
	case 1:
		return f.entry(groups[0])
	}

	out := jsonOutput{
		Files: make([]jsonEntry, 0, len(groups)),
		Total: jsonTotal{
			FileCount: report.TotalFiles(groups),
			Counts:    f.counts(sumGroups(groups), true),
		},
	}
	for _, g := range groups {
		out.Files = append(out.Files, f.entry(g))
	}
	return out
}

func (f *formatter) entry(g report.Group) jsonEntry {
	if !g.Dir {
		return jsonEntry{File: g.Name(), Counts: f.counts(g.Stats, false)}
	}

	files := g.Files
	e := jsonEntry{
		Directory: g.Name(),
		FileCount: &files,
		Counts:    f.counts(g.Stats, false),
	}

	if f.config.Verbose {
		for _, r := range g.Entries {
			if r.OK() {
				e.Files = append(e.Files, jsonEntry{File: r.Target.Rel, Counts: f.counts(r.Stats, false)})
			}
		}
	}

	return e
}

func (f *formatter) counts(s models.Stats, total bool) Counts {
	m := f.config.Metrics
	var c Counts
	if m.Lines {
		c.Lines = &s.Lines
	}
	if m.Words {
		c.Words = &s.Words
	}
	if m.Bytes {
		c.Bytes = &s.Bytes
	}
	if m.MaxLineLength && !total {
		c.MaxLineLength = &s.MaxLineLength
	}
	return c
}
