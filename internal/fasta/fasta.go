// Package fasta streams FASTA files into a set of uniquely identified
// nucleotide sequences.
package fasta

import (
	"fmt"
	"io"
	"strings"

	"github.com/edna-platform/ednavalidate/internal/report"
	"github.com/edna-platform/ednavalidate/internal/textio"
)

// Alphabet is the accepted set of sequence characters: IUPAC nucleotide and
// ambiguity codes in either case, plus gap characters.
const Alphabet = "ACGTURYSWKMBDHVNacgturyswkmbdhvn-."

var accepted [256]bool

func init() {
	for i := 0; i < len(Alphabet); i++ {
		accepted[Alphabet[i]] = true
	}
}

// Options controls parsing.
type Options struct {
	MaxLineBytes int
}

// Set maps sequence identifiers to sequences. IDs preserves first-seen
// order.
type Set struct {
	IDs       []string
	Sequences map[string]string
	Lines     map[string]int // header line of the authoritative record
}

// Len returns the number of distinct identifiers.
func (s *Set) Len() int {
	return len(s.IDs)
}

// Has reports whether id is present.
func (s *Set) Has(id string) bool {
	_, ok := s.Sequences[id]
	return ok
}

// record is the sequence currently being assembled.
type record struct {
	id       string
	line     int
	seq      strings.Builder
	invalid  int
	firstBad struct {
		line, pos int
		char      rune
	}
	duplicate bool // repeated ID: checked but not stored
	orphan    bool // no usable ID: lines are skipped
}

type parser struct {
	file   string
	set    *Set
	issues report.List

	cur        *record
	duplicates map[string][]int // id -> every header line, in order
	dupOrder   []string
}

// Parse reads FASTA from r. file labels the issues produced. The first
// record of a repeated identifier stays authoritative; later ones are
// reported and discarded. The returned set is never nil.
func Parse(r io.Reader, file string, opts Options) (*Set, []report.Issue) {
	p := &parser{
		file: file,
		set: &Set{
			Sequences: map[string]string{},
			Lines:     map[string]int{},
		},
		duplicates: map[string][]int{},
	}

	sc := textio.NewLineScanner(r, opts.MaxLineBytes)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, ">") {
			p.finish()
			p.header(line, sc.Line())
			continue
		}
		p.sequence(line, sc.Line())
	}
	p.finish()

	if err := sc.Err(); err != nil {
		if textio.IsLineTooLong(err) {
			limit := opts.MaxLineBytes
			if limit <= 0 {
				limit = textio.DefaultMaxLineBytes
			}
			p.issues.Add(report.New(report.SeverityFatal, file, report.KindMalformedRow,
				"line exceeds the maximum length of %d bytes", limit).At(sc.Line()+1, ""))
		} else {
			p.issues.Addf(report.SeverityFatal, file, report.KindIOFailure, "reading file: %v", err)
		}
		return p.set, p.issues.Items()
	}

	for _, id := range p.dupOrder {
		lines := p.duplicates[id]
		p.issues.Add(report.New(report.SeverityFatal, file, report.KindDuplicateSequenceID,
			"sequence ID %q appears %d times (lines %s); only the record at line %d is used",
			id, len(lines), joinInts(lines), lines[0]).At(lines[1], ""))
	}

	if p.set.Len() == 0 && !p.sawHeader() {
		p.issues.Addf(report.SeverityFatal, file, report.KindEmptyFile, "no FASTA records found")
	}

	return p.set, p.issues.Items()
}

func (p *parser) sawHeader() bool {
	return len(p.duplicates) > 0 || p.set.Len() > 0
}

func (p *parser) header(line string, lineNo int) {
	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		p.issues.Add(report.New(report.SeverityError, p.file, report.KindMalformedRow,
			"header line has no sequence identifier").At(lineNo, ""))
		// Sequence lines that follow belong to no record and are skipped.
		p.cur = &record{line: lineNo, orphan: true}
		return
	}

	id := fields[0]
	rec := &record{id: id, line: lineNo}
	if lines, seen := p.duplicates[id]; seen {
		if len(lines) == 1 {
			p.dupOrder = append(p.dupOrder, id)
		}
		p.duplicates[id] = append(lines, lineNo)
		rec.duplicate = true
	} else {
		p.duplicates[id] = []int{lineNo}
	}
	p.cur = rec
}

func (p *parser) sequence(line string, lineNo int) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if p.cur == nil {
		p.issues.Add(report.New(report.SeverityError, p.file, report.KindMalformedRow,
			"sequence data before the first header line").At(lineNo, ""))
		p.cur = &record{line: lineNo, orphan: true}
		return
	}
	if p.cur.orphan {
		return
	}

	pos := 0
	for _, c := range line {
		pos++
		if c == ' ' || c == '\t' {
			continue
		}
		if c < 256 && accepted[c] {
			p.cur.seq.WriteRune(c)
			continue
		}
		if p.cur.invalid == 0 {
			p.cur.firstBad.line = lineNo
			p.cur.firstBad.pos = pos
			p.cur.firstBad.char = c
		}
		p.cur.invalid++
	}
}

func (p *parser) finish() {
	rec := p.cur
	p.cur = nil
	if rec == nil || rec.orphan {
		return
	}

	if rec.invalid > 0 {
		label := fmt.Sprintf("sequence %q", rec.id)
		if rec.duplicate {
			label = fmt.Sprintf("repeated sequence %q at line %d", rec.id, rec.line)
		}
		p.issues.Add(report.New(report.SeverityError, p.file, report.KindInvalidSequenceCharacter,
			"%s contains %d character(s) outside the nucleotide alphabet; first is %q",
			label, rec.invalid, rec.firstBad.char).AtPosition(rec.firstBad.line, rec.firstBad.pos))
	}
	if rec.duplicate {
		return
	}

	seq := rec.seq.String()
	if seq == "" && rec.invalid == 0 {
		p.issues.Add(report.New(report.SeverityError, p.file, report.KindEmptySequence,
			"sequence %q has no sequence data", rec.id).At(rec.line, ""))
	}

	p.set.IDs = append(p.set.IDs, rec.id)
	p.set.Sequences[rec.id] = seq
	p.set.Lines[rec.id] = rec.line
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
