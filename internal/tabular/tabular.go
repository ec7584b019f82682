// Package tabular parses delimited submission tables into row-oriented
// tables. Structural problems are reported as issues; a bad row is excluded
// rather than aborting the parse.
package tabular

import (
	"fmt"
	"io"
	"strings"

	"github.com/edna-platform/ednavalidate/internal/report"
	"github.com/edna-platform/ednavalidate/internal/textio"
)

// Options controls parsing.
type Options struct {
	Delimiter    string // field separator, default tab
	MaxLineBytes int    // longest accepted line, default textio.DefaultMaxLineBytes
}

// Row is one data row. Fields align with Table.Columns.
type Row struct {
	Line   int
	Fields []string
}

// Table is a parsed delimited file. Every row has exactly len(Columns)
// fields.
type Table struct {
	Columns    []string
	HeaderLine int
	Rows       []Row

	index map[string]int
}

// Index returns the position of a column, or -1.
func (t *Table) Index(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Has reports whether the table has a column.
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Value returns the raw value of a column in a row.
func (t *Table) Value(r Row, name string) (string, bool) {
	i := t.Index(name)
	if i < 0 {
		return "", false
	}
	return r.Fields[i], true
}

// Record returns the row as a column name to value mapping.
func (t *Table) Record(r Row) map[string]string {
	m := make(map[string]string, len(t.Columns))
	for i, c := range t.Columns {
		m[c] = r.Fields[i]
	}
	return m
}

// Parse reads a delimited table from r. file labels the issues produced.
// The returned table is never nil.
func Parse(r io.Reader, file string, opts Options) (*Table, []report.Issue) {
	delim := opts.Delimiter
	if delim == "" {
		delim = "\t"
	}

	var issues report.List
	table := &Table{index: map[string]int{}}
	sc := textio.NewLineScanner(r, opts.MaxLineBytes)

	var keep []int // header positions that survive de-duplication
	width := 0
	dataLines := 0

	for sc.Scan() {
		line := sc.Text()
		// A line of delimiters is a row of empty cells, not a blank line.
		if strings.TrimSpace(line) == "" && !strings.Contains(line, delim) {
			continue
		}
		fields := splitFields(line, delim)

		if table.HeaderLine == 0 {
			table.HeaderLine = sc.Line()
			width = len(fields)
			for i, name := range fields {
				if _, dup := table.index[name]; dup {
					issues.Add(report.New(report.SeverityError, file, report.KindDuplicateColumn,
						"column %q appears more than once in the header; only the first occurrence is used", name).
						At(sc.Line(), name))
					continue
				}
				table.index[name] = len(table.Columns)
				table.Columns = append(table.Columns, name)
				keep = append(keep, i)
			}
			continue
		}

		dataLines++
		if len(fields) != width {
			issues.Add(report.New(report.SeverityError, file, report.KindMalformedRow,
				"row has %d field(s) but the header has %d; row excluded", len(fields), width).
				At(sc.Line(), ""))
			continue
		}

		row := Row{Line: sc.Line(), Fields: fields}
		if len(keep) != width {
			row.Fields = make([]string, len(keep))
			for j, i := range keep {
				row.Fields[j] = fields[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}

	if err := sc.Err(); err != nil {
		if textio.IsLineTooLong(err) {
			issues.Add(report.New(report.SeverityFatal, file, report.KindMalformedRow,
				"line exceeds the maximum length of %d bytes", effectiveMax(opts)).
				At(sc.Line()+1, ""))
		} else {
			issues.Addf(report.SeverityFatal, file, report.KindIOFailure, "reading file: %v", err)
		}
		return table, issues.Items()
	}

	switch {
	case table.HeaderLine == 0:
		issues.Addf(report.SeverityFatal, file, report.KindEmptyFile, "file is empty: no header line found")
	case dataLines == 0:
		issues.Add(report.New(report.SeverityError, file, report.KindEmptyFile,
			"file has a header but no data rows").At(table.HeaderLine, ""))
	}

	return table, issues.Items()
}

func effectiveMax(opts Options) int {
	if opts.MaxLineBytes > 0 {
		return opts.MaxLineBytes
	}
	return textio.DefaultMaxLineBytes
}

// splitFields splits a line on delim and trims surrounding spaces of each
// field.
func splitFields(line, delim string) []string {
	fields := strings.Split(line, delim)
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

// String implements fmt.Stringer for debugging.
func (t *Table) String() string {
	return fmt.Sprintf("table(%d columns, %d rows)", len(t.Columns), len(t.Rows))
}
