package models

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsAdd(t *testing.T) {
	a := Stats{Lines: 1, Words: 2, Bytes: 12, MaxLineLength: 11}
	b := Stats{Lines: 2, Words: 2, Bytes: 8, MaxLineLength: 3}

	sum := a.Add(b)

	assert.Equal(t, Stats{Lines: 3, Words: 4, Bytes: 20}, sum)
	assert.Zero(t, sum.MaxLineLength, "max line length must not be summed")
}

func TestTargetName(t *testing.T) {
	assert.Equal(t, StdinName, StdinTarget().Name())
	assert.Equal(t, "a.txt", FileTarget("a.txt").Name())
}

func TestTargetError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   ErrorKind
		reason string
	}{
		{
			name:   "missing file",
			err:    &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist},
			kind:   KindNotFound,
			reason: "No such file or directory",
		},
		{
			name:   "permission",
			err:    fmt.Errorf("open: %w", fs.ErrPermission),
			kind:   KindPermission,
			reason: "Permission denied",
		},
		{
			name:   "directory",
			err:    ErrIsDirectory,
			kind:   KindIsDirectory,
			reason: "Is a directory",
		},
		{
			name:   "canceled",
			err:    context.Canceled,
			kind:   KindCanceled,
			reason: "Canceled",
		},
		{
			name:   "generic read error",
			err:    &fs.PathError{Op: "read", Path: "x", Err: errors.New("input/output error")},
			kind:   KindIO,
			reason: "input/output error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := NewTargetError("x", tt.err)
			assert.Equal(t, tt.kind, te.Kind)
			assert.Equal(t, tt.reason, te.Reason())
			assert.Equal(t, "x: "+tt.reason, te.Error())
			assert.ErrorIs(t, te, tt.err)
		})
	}
}

func TestNewTargetErrorKeepsExisting(t *testing.T) {
	inner := &TargetError{Path: "a", Kind: KindPermission}
	wrapped := fmt.Errorf("walk: %w", inner)

	te := NewTargetError("b", wrapped)

	require.Same(t, inner, te)
}

func TestReportExitCode(t *testing.T) {
	assert.Equal(t, 0, Report{}.ExitCode())
	assert.Equal(t, 1, Report{Entries: make([]Result, 2), ErrorCount: 1}.ExitCode())
	assert.Equal(t, 1, Report{Entries: make([]Result, 2), ErrorCount: 1}.Succeeded())
}
