// Package textio streams submission files as normalized text lines.
// Input may carry a UTF-8 or UTF-16 byte-order mark, invalid UTF-8 bytes,
// CRLF line endings, or decomposed Unicode; lines come out as NFC UTF-8
// without the BOM or trailing carriage return.
package textio

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLineBytes bounds a single line when no limit is configured.
const DefaultMaxLineBytes = 64 << 20

// ErrLineTooLong is returned by Err when a line exceeds the limit.
var ErrLineTooLong = bufio.ErrTooLong

// NewReader wraps r with BOM detection, UTF-8 repair and NFC normalization.
func NewReader(r io.Reader) io.Reader {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return transform.NewReader(r, transform.Chain(decoder, norm.NFC))
}

// LineScanner yields lines with their 1-based line numbers.
type LineScanner struct {
	sc   *bufio.Scanner
	line int
	text string
}

// NewLineScanner returns a scanner over the normalized text of r. Lines
// longer than maxLineBytes stop the scan with ErrLineTooLong.
func NewLineScanner(r io.Reader, maxLineBytes int) *LineScanner {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	sc := bufio.NewScanner(NewReader(r))
	initial := 64 * 1024
	if initial > maxLineBytes {
		initial = maxLineBytes
	}
	sc.Buffer(make([]byte, 0, initial), maxLineBytes)
	return &LineScanner{sc: sc}
}

// Scan advances to the next line.
func (s *LineScanner) Scan() bool {
	if !s.sc.Scan() {
		return false
	}
	s.line++
	s.text = strings.TrimSuffix(s.sc.Text(), "\r")
	return true
}

// Text returns the current line.
func (s *LineScanner) Text() string {
	return s.text
}

// Line returns the current 1-based line number.
func (s *LineScanner) Line() int {
	return s.line
}

// Err returns the first non-EOF error.
func (s *LineScanner) Err() error {
	return s.sc.Err()
}

// IsLineTooLong reports whether err came from an oversized line.
func IsLineTooLong(err error) bool {
	return errors.Is(err, ErrLineTooLong)
}
