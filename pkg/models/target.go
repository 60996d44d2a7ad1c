package models

const (
	// StdinArg is the path argument that selects standard input.
	StdinArg = "-"

	// StdinName is how standard input is displayed.
	StdinName = "<stdin>"
)

// Target is one countable unit: a file path or standard input.
type Target struct {
	// Path is the filesystem path to open. Empty for standard input.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Root is the command-line argument the target was found under.
	Root string `json:"root" yaml:"root"`

	// Rel is Path relative to Root, slash separated. Empty unless FromDir.
	Rel string `json:"rel,omitempty" yaml:"rel,omitempty"`

	// FromDir reports whether the target was discovered by recursing into
	// a directory argument rather than named on the command line.
	FromDir bool `json:"from_dir" yaml:"from_dir"`

	// Stdin marks the standard input target.
	Stdin bool `json:"stdin,omitempty" yaml:"stdin,omitempty"`

	// Arg is the position of Root among the command-line arguments.
	Arg int `json:"-" yaml:"-"`
}

// StdinTarget returns the target that reads standard input.
func StdinTarget() Target {
	return Target{Root: StdinArg, Stdin: true}
}

// FileTarget returns a target for a file named directly on the command line.
func FileTarget(path string) Target {
	return Target{Path: path, Root: path}
}

// Name returns the display name of the target.
func (t Target) Name() string {
	if t.Stdin {
		return StdinName
	}
	return t.Path
}
