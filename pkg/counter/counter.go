/*
Package counter computes line, word, byte and longest-line counts for a byte
stream in a single sequential pass.

Basic usage:

	c := counter.New(64 * 1024)
	stats, err := c.Count(file)

Counting rules:

	bytes            every byte read
	lines            number of '\n' bytes (a final line without a trailing
	                 newline is not counted, as with POSIX wc -l)
	words            maximal runs of non-whitespace runes
	max_line_length  runes in the longest line, excluding the newline and a
	                 carriage return right before it

Input does not have to be valid UTF-8: an undecodable byte counts as one
non-space rune.
*/
package counter

import (
	"bufio"
	"errors"
	"io"
	"unicode"

	"github.com/sonemaro/ewc/pkg/models"
)

const (
	// DefaultBufferSize is the read buffer used when none is configured
	DefaultBufferSize = 64 * 1024

	// MinBufferSize is the smallest buffer bufio accepts without resizing
	MinBufferSize = 16
)

// Counter counts streams using a fixed read buffer size. A Counter holds no
// state between calls and is safe for concurrent use.
type Counter struct {
	bufferSize int
}

// New returns a Counter reading through a buffer of bufferSize bytes.
// Non-positive sizes select DefaultBufferSize.
func New(bufferSize int) *Counter {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if bufferSize < MinBufferSize {
		bufferSize = MinBufferSize
	}
	return &Counter{bufferSize: bufferSize}
}

// Count reads r until EOF. The only failure is a read error from r.
func (c *Counter) Count(r io.Reader) (models.Stats, error) {
	br := bufio.NewReaderSize(r, c.bufferSize)

	var (
		stats   models.Stats
		inWord  bool
		lineLen uint64
		prevCR  bool
	)

	for {
		ru, size, err := br.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return stats, err
		}

		stats.Bytes += uint64(size)

		if ru == '\n' {
			stats.Lines++
			if prevCR {
				lineLen--
			}
			if lineLen > stats.MaxLineLength {
				stats.MaxLineLength = lineLen
			}
			lineLen = 0
			prevCR = false
			inWord = false
			continue
		}

		lineLen++
		prevCR = ru == '\r'

		// an undecodable byte comes back as utf8.RuneError, which is not a space
		if !unicode.IsSpace(ru) {
			if !inWord {
				stats.Words++
				inWord = true
			}
		} else {
			inWord = false
		}
	}

	if lineLen > stats.MaxLineLength {
		stats.MaxLineLength = lineLen
	}

	return stats, nil
}

// Count counts r with DefaultBufferSize.
func Count(r io.Reader) (models.Stats, error) {
	return New(DefaultBufferSize).Count(r)
}
