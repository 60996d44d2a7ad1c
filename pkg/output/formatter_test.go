package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sonemaro/ewc/pkg/logger"
	"github.com/sonemaro/ewc/pkg/models"
	"github.com/sonemaro/ewc/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// mockLogger implements logger.Logger interface for testing
type mockLogger struct {
	logs []string
}

func (m *mockLogger) Info(msg string)                               { m.logs = append(m.logs, "INFO: "+msg) }
func (m *mockLogger) Debug(msg string)                              { m.logs = append(m.logs, "DEBUG: "+msg) }
func (m *mockLogger) Error(msg string)                              { m.logs = append(m.logs, "ERROR: "+msg) }
func (m *mockLogger) Warn(msg string)                               { m.logs = append(m.logs, "WARN: "+msg) }
func (m *mockLogger) Trace(msg string)                              { m.logs = append(m.logs, "TRACE: "+msg) }
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }
func (m *mockLogger) Sync() error                                   { return nil }

var (
	helloStats = models.Stats{Lines: 1, Words: 2, Bytes: 12, MaxLineLength: 11}
	fooStats   = models.Stats{Lines: 2, Words: 2, Bytes: 8, MaxLineLength: 3}
	bigStats   = models.Stats{Lines: 1234567, Words: 2000, Bytes: 1000000, MaxLineLength: 80}
)

func fileResult(path string, arg int, s models.Stats) models.Result {
	t := models.FileTarget(path)
	t.Arg = arg
	return models.Result{Target: t, Stats: s}
}

func dirResult(root, rel string, arg int, s models.Stats) models.Result {
	return models.Result{
		Target: models.Target{Path: root + "/" + rel, Root: root, Rel: rel, FromDir: true, Arg: arg},
		Stats:  s,
	}
}

// createTestReport builds: a.txt, src/ (2 files), missing.txt
func createTestReport() ([]string, models.Report) {
	args := []string{"a.txt", "src", "missing.txt"}
	results := []models.Result{
		fileResult("a.txt", 0, helloStats),
		dirResult("src", "one.go", 1, fooStats),
		dirResult("src", "sub/two.go", 1, bigStats),
		{
			Target: models.Target{Path: "missing.txt", Root: "missing.txt", Arg: 2},
			Err:    &models.TargetError{Path: "missing.txt", Kind: models.KindNotFound},
		},
	}
	return args, report.Aggregate(results)
}

func format(t *testing.T, config Config, args []string, r models.Report) (string, *mockLogger) {
	t.Helper()
	log := &mockLogger{}
	out, err := NewFormatter(config, log).Format(report.Groups(args, r))
	require.NoError(t, err)
	return out, log
}

func TestFormatHuman(t *testing.T) {
	args, r := createTestReport()

	tests := []struct {
		name   string
		config Config
		verify func(*testing.T, string)
	}{
		{
			name:   "default metrics",
			config: Config{Format: FormatHuman},
			verify: func(t *testing.T, out string) {
				want := strings.Join([]string{
					"a.txt",
					"   Lines:          1",
					"   Words:          2",
					"   Bytes:         12",
					"",
					"src (2 files)",
					"   Lines:  1,234,569",
					"   Words:      2,002",
					"   Bytes:  1,000,008",
					"",
					separator,
					"Total (3 files)",
					"   Lines:  1,234,570",
					"   Words:      2,004",
					"   Bytes:  1,000,020",
				}, "\n")
				assert.Equal(t, want, out)
			},
		},
		{
			name:   "lines only",
			config: Config{Format: FormatHuman, Metrics: Metrics{Lines: true}},
			verify: func(t *testing.T, out string) {
				assert.Contains(t, out, "Lines:")
				assert.NotContains(t, out, "Words:")
				assert.NotContains(t, out, "Bytes:")
			},
		},
		{
			name:   "max line length is not totalled",
			config: Config{Format: FormatHuman, Metrics: Metrics{MaxLineLength: true}},
			verify: func(t *testing.T, out string) {
				assert.Contains(t, out, "a.txt\n   Max line:         11")
				assert.Contains(t, out, "src (2 files)\n   Max line:         80")
				assert.True(t, strings.HasSuffix(out, "Total (3 files)"))
			},
		},
		{
			name:   "colors and icons",
			config: Config{Format: FormatHuman, WithColors: true},
			verify: func(t *testing.T, out string) {
				assert.Contains(t, out, fileIcon+" a.txt")
				assert.Contains(t, out, dirIcon+" src (2 files)")
				assert.Contains(t, out, "\x1b[34;1m"+dirIcon+" src (2 files)\x1b[0;22m")
				assert.Contains(t, out, "\x1b[1m"+fileIcon+" a.txt\x1b[22m")
			},
		},
		{
			name:   "verbose lists directory files",
			config: Config{Format: FormatHuman, Verbose: true},
			verify: func(t *testing.T, out string) {
				assert.Contains(t, out, "src\n   one.go: 2 lines, 2 words, 8 bytes\n   sub/two.go: 1,234,567 lines")
				assert.Contains(t, out, separator+"\nTotal (2 files)\n   Lines:  1,234,569")
				assert.NotContains(t, out, fileIcon)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := format(t, tt.config, args, r)
			tt.verify(t, out)
		})
	}
}

func TestFormatHumanSingleArgumentHasNoTotal(t *testing.T) {
	args := []string{"-"}
	r := report.Aggregate([]models.Result{{Target: models.StdinTarget(), Stats: helloStats}})

	out, _ := format(t, Config{Format: FormatHuman}, args, r)
	assert.True(t, strings.HasPrefix(out, models.StdinName+"\n"))
	assert.NotContains(t, out, "Total")
}

func TestFormatHumanEmptyDirectory(t *testing.T) {
	out, _ := format(t, Config{Format: FormatHuman}, []string{"empty"}, report.Aggregate(nil))
	assert.True(t, strings.HasPrefix(out, "empty (0 files)\n"))
}

func TestFormatNothingSucceeded(t *testing.T) {
	args := []string{"nope"}
	r := report.Aggregate([]models.Result{{
		Target: models.FileTarget("nope"),
		Err:    &models.TargetError{Path: "nope", Kind: models.KindNotFound},
	}})

	for _, f := range Formats {
		out, _ := format(t, Config{Format: f}, args, r)
		assert.Empty(t, out, "format %s", f)
	}
}

func TestFormatCompact(t *testing.T) {
	args, r := createTestReport()

	out, log := format(t, Config{Format: FormatCompact}, args, r)
	assert.Equal(t, strings.Join([]string{
		"a.txt: 1 lines, 2 words, 12 bytes",
		"src (2 files): 1,234,569 lines, 2,002 words, 1,000,008 bytes",
		"Total (3 files): 1,234,570 lines, 2,004 words, 1,000,020 bytes",
	}, "\n"), out)
	assert.Contains(t, log.logs, "DEBUG: Formatting compact output")

	out, _ = format(t, Config{Format: FormatCompact, Metrics: Metrics{Lines: true}, Verbose: true}, args, r)
	assert.Contains(t, out, "\n  one.go: 2 lines\n  sub/two.go: 1,234,567 lines\n")
	assert.NotContains(t, out, "words")
}

func TestFormatJSON(t *testing.T) {
	t.Run("single stdin argument", func(t *testing.T) {
		r := report.Aggregate([]models.Result{{Target: models.StdinTarget(), Stats: helloStats}})
		out, _ := format(t, Config{Format: FormatJSON}, []string{"-"}, r)
		assert.Equal(t, `{"file":"<stdin>","lines":1,"words":2,"bytes":12}`, out)
	})

	t.Run("several arguments", func(t *testing.T) {
		args, r := createTestReport()
		out, _ := format(t, Config{Format: FormatJSON, Metrics: Metrics{Lines: true, MaxLineLength: true}}, args, r)

		var doc struct {
			Files []map[string]interface{} `json:"files"`
			Total map[string]interface{}   `json:"total"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &doc))

		require.Len(t, doc.Files, 2)
		assert.Equal(t, "a.txt", doc.Files[0]["file"])
		assert.Equal(t, float64(11), doc.Files[0]["max_line_length"])
		assert.NotContains(t, doc.Files[0], "words")
		assert.Equal(t, "src", doc.Files[1]["directory"])
		assert.Equal(t, float64(2), doc.Files[1]["file_count"])
		assert.NotContains(t, doc.Files[1], "files")

		assert.Equal(t, float64(3), doc.Total["file_count"])
		assert.Equal(t, float64(1234570), doc.Total["lines"])
		assert.NotContains(t, doc.Total, "max_line_length")
	})

	t.Run("verbose directory", func(t *testing.T) {
		r := report.Aggregate([]models.Result{dirResult("src", "one.go", 0, fooStats)})
		out, _ := format(t, Config{Format: FormatJSON, Verbose: true}, []string{"src"}, r)
		assert.Contains(t, out, `"files":[{"file":"one.go","lines":2,"words":2,"bytes":8}`)
	})

	t.Run("names are not html escaped", func(t *testing.T) {
		r := report.Aggregate([]models.Result{
			{Target: models.StdinTarget(), Stats: helloStats},
			fileResult("a&b<c>.txt", 1, fooStats),
		})
		out, _ := format(t, Config{Format: FormatJSON, Metrics: Metrics{Lines: true}}, []string{"-", "a&b<c>.txt"}, r)
		assert.Equal(t, `{"files":[{"file":"<stdin>","lines":1},{"file":"a&b<c>.txt","lines":2}],"total":{"file_count":2,"lines":3}}`, out)
		assert.False(t, strings.HasSuffix(out, "\n"))
	})

	t.Run("zero counts are kept", func(t *testing.T) {
		r := report.Aggregate([]models.Result{fileResult("empty.txt", 0, models.Stats{})})
		out, _ := format(t, Config{Format: FormatJSON}, []string{"empty.txt"}, r)
		assert.Equal(t, `{"file":"empty.txt","lines":0,"words":0,"bytes":0}`, out)
	})
}

func TestFormatYAML(t *testing.T) {
	args, r := createTestReport()
	out, _ := format(t, Config{Format: FormatYAML}, args, r)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "files")
	assert.Contains(t, doc, "total")
	assert.Contains(t, out, "directory: src")
	assert.Contains(t, out, "file_count: 3")
}

func TestFormatUnsupported(t *testing.T) {
	log := &mockLogger{}
	_, err := NewFormatter(Config{Format: "xml"}, log).Format(nil)
	assert.EqualError(t, err, "unsupported format: xml")
	assert.Contains(t, log.logs, "ERROR: unsupported format: xml")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("tree")
	assert.Error(t, err)
}

func TestWarnings(t *testing.T) {
	_, r := createTestReport()

	plain := NewFormatter(Config{}, &mockLogger{}).Warnings(r)
	assert.Equal(t, []string{"missing.txt: No such file or directory"}, plain)

	colored := NewFormatter(Config{WithColors: true}, &mockLogger{}).Warnings(r)
	require.Len(t, colored, 1)
	assert.Contains(t, colored[0], warningIcon)
	assert.True(t, strings.HasSuffix(colored[0], "  missing.txt: No such file or directory"))
}
