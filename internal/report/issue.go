// Package report defines validation issues and the immutable report that a
// validation run produces. Issues are values, not errors: a submission with
// bad data yields a report, never a Go error.
package report

import (
	"fmt"
	"strings"
)

// Severity ranks how an issue affects acceptance of a submission.
type Severity int

const (
	// SeverityWarning is advisory only.
	SeverityWarning Severity = iota
	// SeverityError makes the submission unacceptable.
	SeverityError
	// SeverityFatal makes the submission unacceptable and usually means an
	// artifact could not be used at all.
	SeverityFatal
)

// String returns the lower-case severity name used in rendered reports.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Blocking reports whether the severity makes a submission unacceptable.
func (s Severity) Blocking() bool {
	return s == SeverityError || s == SeverityFatal
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	case "fatal":
		*s = SeverityFatal
	default:
		return fmt.Errorf("invalid severity: %q", string(b))
	}
	return nil
}

// Kind is the machine-readable category of an issue.
type Kind string

const (
	KindMissingArtifact          Kind = "MissingArtifact"
	KindMalformedRow             Kind = "MalformedRow"
	KindMissingColumn            Kind = "MissingColumn"
	KindTypeMismatch             Kind = "TypeMismatch"
	KindDuplicateKey             Kind = "DuplicateKey"
	KindDuplicateSequenceID      Kind = "DuplicateSequenceID"
	KindInvalidSequenceCharacter Kind = "InvalidSequenceCharacter"
	KindOutOfRange               Kind = "OutOfRange"
	KindInvalidEnum              Kind = "InvalidEnum"
	KindUnexpectedColumn         Kind = "UnexpectedColumn"
	KindOrphanSampleID           Kind = "OrphanSampleID"
	KindOrphanOTU                Kind = "OrphanOTU"
	KindMissingSequenceForOTU    Kind = "MissingSequenceForOTU"
	KindUnmetadatedSpecies       Kind = "UnmetadatedSpecies"
	KindUnusedSequence           Kind = "UnusedSequence"
	KindIOFailure                Kind = "IOFailure"
	KindEmptyFile                Kind = "EmptyFile"
	KindDuplicateColumn          Kind = "DuplicateColumn"
	KindEmptySequence            Kind = "EmptySequence"
)

// Kinds returns every issue kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindMissingArtifact, KindMalformedRow, KindMissingColumn, KindTypeMismatch,
		KindDuplicateKey, KindDuplicateSequenceID, KindInvalidSequenceCharacter,
		KindOutOfRange, KindInvalidEnum, KindUnexpectedColumn, KindOrphanSampleID,
		KindOrphanOTU, KindMissingSequenceForOTU, KindUnmetadatedSpecies,
		KindUnusedSequence, KindIOFailure, KindEmptyFile, KindDuplicateColumn,
		KindEmptySequence,
	}
}

// Issue is a single diagnostic about one submission file. Line and Position
// are 1-based; zero means the issue has no such locator. Column names a
// table column.
type Issue struct {
	Severity Severity `json:"severity" yaml:"severity" msgpack:"severity"`
	File     string   `json:"file" yaml:"file" msgpack:"file"`
	Kind     Kind     `json:"kind" yaml:"kind" msgpack:"kind"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line,omitempty"`
	Column   string   `json:"column,omitempty" yaml:"column,omitempty" msgpack:"column,omitempty"`
	Position int      `json:"position,omitempty" yaml:"position,omitempty" msgpack:"position,omitempty"`
	Message  string   `json:"message" yaml:"message" msgpack:"message"`
}

// New creates an issue without a locator.
func New(sev Severity, file string, kind Kind, format string, args ...any) Issue {
	return Issue{
		Severity: sev,
		File:     file,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
	}
}

// At returns a copy of the issue located at the given line and column name.
func (i Issue) At(line int, column string) Issue {
	i.Line = line
	i.Column = column
	return i
}

// AtPosition returns a copy of the issue located at a character position
// within a line.
func (i Issue) AtPosition(line, pos int) Issue {
	i.Line = line
	i.Position = pos
	return i
}

// Locator renders the issue location, e.g. "metadata.txt:12 [Latitude]".
func (i Issue) Locator() string {
	var sb strings.Builder
	sb.WriteString(i.File)
	if i.Line > 0 {
		sb.WriteString(fmt.Sprintf(":%d", i.Line))
		if i.Position > 0 {
			sb.WriteString(fmt.Sprintf(":%d", i.Position))
		}
	}
	if i.Column != "" {
		sb.WriteString(fmt.Sprintf(" [%s]", i.Column))
	}
	return sb.String()
}

// String implements fmt.Stringer.
func (i Issue) String() string {
	return fmt.Sprintf("%s %s %s: %s", i.Severity, i.Kind, i.Locator(), i.Message)
}

// List accumulates issues. It is the result type threaded through every
// parsing and validation step in place of early returns.
type List struct {
	items []Issue
}

// Add appends issues.
func (l *List) Add(issues ...Issue) {
	l.items = append(l.items, issues...)
}

// Addf appends a new issue without a locator.
func (l *List) Addf(sev Severity, file string, kind Kind, format string, args ...any) {
	l.items = append(l.items, New(sev, file, kind, format, args...))
}

// Items returns the accumulated issues in insertion order.
func (l *List) Items() []Issue {
	return l.items
}

// Len returns the number of accumulated issues.
func (l *List) Len() int {
	return len(l.items)
}

// HasFatal reports whether any accumulated issue is fatal.
func (l *List) HasFatal() bool {
	for _, it := range l.items {
		if it.Severity == SeverityFatal {
			return true
		}
	}
	return false
}
