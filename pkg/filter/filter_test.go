package filter

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		spec  Spec
		rel   string
		isDir bool
		want  Verdict
	}{
		{
			name: "plain file admitted",
			rel:  "src/main.go",
			want: Admit,
		},
		{
			name: "hidden file rejected by default",
			rel:  ".hidden",
			want: RejectHidden,
		},
		{
			name: "hidden file admitted with include hidden",
			spec: Spec{IncludeHidden: true},
			rel:  ".hidden",
			want: Admit,
		},
		{
			name:  "hidden directory pruned",
			rel:   "a/.git",
			isDir: true,
			want:  RejectHidden,
		},
		{
			name: "only the final component is checked for hidden",
			rel:  ".config/app.toml",
			want: Admit,
		},
		{
			name: "exclude wins over include",
			spec: Spec{Include: []string{"**/*.go"}, Exclude: []string{"**/*_test.go"}},
			rel:  "pkg/a_test.go",
			want: RejectExcluded,
		},
		{
			name: "include acts as allow-list",
			spec: Spec{Include: []string{"*.go"}},
			rel:  "README.md",
			want: RejectNotIncluded,
		},
		{
			name:  "include never prunes directories",
			spec:  Spec{Include: []string{"*.go"}},
			rel:   "docs",
			isDir: true,
			want:  Admit,
		},
		{
			name:  "exclude prunes directories",
			spec:  Spec{Exclude: []string{"node_modules"}},
			rel:   "web/node_modules",
			isDir: true,
			want:  RejectExcluded,
		},
		{
			name: "slash-free pattern matches base name at any depth",
			spec: Spec{Exclude: []string{"*.log"}},
			rel:  "var/log/app.log",
			want: RejectExcluded,
		},
		{
			name: "single star does not cross separators",
			spec: Spec{Include: []string{"src/*.go"}},
			rel:  "src/sub/x.go",
			want: RejectNotIncluded,
		},
		{
			name: "double star crosses separators",
			spec: Spec{Include: []string{"src/**/*.go"}},
			rel:  "src/sub/deep/x.go",
			want: Admit,
		},
		{
			name: "question mark and class",
			spec: Spec{Include: []string{"file?.[ch]"}},
			rel:  "file1.c",
			want: Admit,
		},
		{
			name: "class mismatch",
			spec: Spec{Include: []string{"file?.[ch]"}},
			rel:  "file1.go",
			want: RejectNotIncluded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.spec)
			require.NoError(t, err)

			got := m.Evaluate(tt.rel, tt.isDir)
			assert.Equal(t, tt.want, got, "got %s", got)
			assert.Equal(t, tt.want == Admit, m.Admits(tt.rel, tt.isDir))
		})
	}
}

func TestCompileInvalidPattern(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		kind string
	}{
		{name: "bad include", spec: Spec{Include: []string{"src/[a-"}}, kind: "include"},
		{name: "bad exclude", spec: Spec{Exclude: []string{"ok", "{a,b"}}, kind: "exclude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.spec)
			require.Error(t, err)
			assert.Nil(t, m)

			var pe *PatternError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Contains(t, err.Error(), "invalid "+tt.kind+" glob pattern")
		})
	}
}

func TestCompileSkipsBlankPatterns(t *testing.T) {
	m, err := Compile(Spec{Include: []string{" ", ""}})
	require.NoError(t, err)
	assert.True(t, m.Admits("anything.txt", false))
}

func TestForRootGitignore(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/proj/build", 0755))
	require.NoError(t, afero.WriteFile(fs, "/proj/.gitignore", []byte("*.log\nbuild/\n"), 0644))

	m, err := Compile(Spec{Gitignore: true})
	require.NoError(t, err)

	bound, err := m.ForRoot(fs, "/proj")
	require.NoError(t, err)

	assert.Equal(t, RejectIgnored, bound.Evaluate("debug.log", false))
	assert.Equal(t, RejectIgnored, bound.Evaluate("build", true))
	assert.Equal(t, Admit, bound.Evaluate("main.go", false))

	// the unbound matcher is unchanged
	assert.Equal(t, Admit, m.Evaluate("debug.log", false))
}

func TestForRootWithoutGitignoreFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/proj", 0755))

	m, err := Compile(Spec{Gitignore: true})
	require.NoError(t, err)

	bound, err := m.ForRoot(fs, "/proj")
	require.NoError(t, err)
	assert.Same(t, m, bound)
}

func TestForRootDisabled(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/.gitignore", []byte("*\n"), 0644))

	m, err := Compile(Spec{})
	require.NoError(t, err)

	bound, err := m.ForRoot(fs, "/proj")
	require.NoError(t, err)
	assert.True(t, bound.Admits("a.txt", false))
}
