package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/edna-platform/ednavalidate/internal/formatspec"
	"github.com/edna-platform/ednavalidate/internal/report"
	"github.com/edna-platform/ednavalidate/internal/tabular"
)

// DefaultMaxIssuesPerKind caps row-level issues of one kind per file.
const DefaultMaxIssuesPerKind = 20

// cappedKinds are the row-level kinds subject to the per-file cap, in the
// order their overflow summaries are emitted.
var cappedKinds = []report.Kind{report.KindTypeMismatch, report.KindOutOfRange, report.KindInvalidEnum}

// SchemaValidator checks one parsed table against its FormatSpec.
type SchemaValidator struct {
	// MaxIssuesPerKind caps TypeMismatch, OutOfRange and InvalidEnum issues
	// per file. Zero means DefaultMaxIssuesPerKind.
	MaxIssuesPerKind int
}

// boundColumn is a declared column resolved to its header position.
type boundColumn struct {
	col   formatspec.Column
	name  string // header name as written in the file
	index int
}

// tableCheck carries the state of one ValidateTable call.
type tableCheck struct {
	spec   *formatspec.FormatSpec
	table  *tabular.Table
	file   string
	limit  int
	issues report.List

	counts     map[report.Kind]int
	suppressed map[report.Kind]int
}

// ValidateTable returns every schema issue detectable in table. It never
// stops at the first issue.
func (v *SchemaValidator) ValidateTable(spec *formatspec.FormatSpec, table *tabular.Table) []report.Issue {
	if spec == nil || table == nil || len(table.Columns) == 0 {
		return nil
	}

	limit := v.MaxIssuesPerKind
	if limit <= 0 {
		limit = DefaultMaxIssuesPerKind
	}
	c := &tableCheck{
		spec:       spec,
		table:      table,
		file:       spec.Filename,
		limit:      limit,
		counts:     map[report.Kind]int{},
		suppressed: map[report.Kind]int{},
	}

	var columns []boundColumn
	if spec.PositionalKey {
		columns = c.bindPositional()
	} else {
		columns = c.bindNamed()
	}

	unique := map[string]map[string]int{}
	for _, bc := range columns {
		if bc.col.Unique {
			unique[bc.name] = map[string]int{}
		}
	}

	for _, row := range table.Rows {
		for _, bc := range columns {
			c.checkCell(row, bc, unique[bc.name])
		}
	}

	for _, kind := range cappedKinds {
		if n := c.suppressed[kind]; n > 0 {
			c.issues.Addf(report.SeverityError, c.file, kind,
				"%d more %s issue(s) not shown (limit %d per file)", n, kind, c.limit)
		}
	}

	return c.issues.Items()
}

// bindNamed resolves declared columns by header name and reports missing
// and undeclared ones.
func (c *tableCheck) bindNamed() []boundColumn {
	var bound []boundColumn
	for _, col := range c.spec.Required {
		idx := c.table.Index(col.Name)
		if idx < 0 {
			c.issues.Add(report.New(report.SeverityFatal, c.file, report.KindMissingColumn,
				"required column %q is missing", col.Name).At(c.table.HeaderLine, col.Name))
			continue
		}
		bound = append(bound, boundColumn{col: col, name: col.Name, index: idx})
	}
	for _, col := range c.spec.Optional {
		if idx := c.table.Index(col.Name); idx >= 0 {
			bound = append(bound, boundColumn{col: col, name: col.Name, index: idx})
		}
	}

	for _, name := range c.table.Columns {
		if _, declared := c.spec.Lookup(name); declared {
			continue
		}
		c.issues.Add(report.New(report.SeverityWarning, c.file, report.KindUnexpectedColumn,
			"%s", unexpectedMessage(name, c.spec.ExtraColumnNote)).At(c.table.HeaderLine, name))
	}

	// Keep file order so row issues read left to right.
	sortByIndex(bound)
	return bound
}

// bindPositional handles layouts whose first column is the key and whose
// remaining columns are data-driven.
func (c *tableCheck) bindPositional() []boundColumn {
	key := c.spec.Required[0]
	first := c.table.Columns[0]

	var bound []boundColumn
	if !containsString(c.spec.KeyAliases, first) {
		c.issues.Add(report.New(report.SeverityFatal, c.file, report.KindMissingColumn,
			"first column must be %q, found %q", key.Name, first).At(c.table.HeaderLine, first))
	} else {
		bound = append(bound, boundColumn{col: key, name: first, index: 0})
	}

	if c.spec.Dynamic == nil {
		return bound
	}
	if len(c.table.Columns) < 2 {
		c.issues.Add(report.New(report.SeverityFatal, c.file, report.KindMissingColumn,
			"no %s columns after %q", c.spec.Dynamic.Name, key.Name).At(c.table.HeaderLine, ""))
		return bound
	}
	for i, name := range c.table.Columns[1:] {
		if name == "" {
			c.issues.Add(report.New(report.SeverityError, c.file, report.KindMalformedRow,
				"column %d has an empty header", i+2).At(c.table.HeaderLine, ""))
			continue
		}
		bound = append(bound, boundColumn{col: *c.spec.Dynamic, name: name, index: i + 1})
	}
	return bound
}

func (c *tableCheck) checkCell(row tabular.Row, bc boundColumn, seen map[string]int) {
	raw := row.Fields[bc.index]
	val, err := formatspec.Coerce(bc.col.Type, raw)
	if err != nil {
		if errors.Is(err, formatspec.ErrEmpty) && bc.col.AllowEmpty {
			return
		}
		msg := err.Error()
		if errors.Is(err, formatspec.ErrEmpty) {
			msg = fmt.Sprintf("value is empty; expected %s", bc.col.Type)
		}
		c.addCapped(report.New(report.SeverityError, c.file, report.KindTypeMismatch, "%s", msg).
			At(row.Line, bc.name))
		return
	}

	if n, ok := val.Number(); ok && !bc.col.Range.Contains(n) {
		c.addCapped(report.New(report.SeverityError, c.file, report.KindOutOfRange,
			"value %s is outside the allowed range %s", strings.TrimSpace(raw), bc.col.Range).
			At(row.Line, bc.name))
	}

	if bc.col.Type == formatspec.TypeString && !bc.col.AllowsValue(val.Str) {
		c.addCapped(report.New(report.SeverityError, c.file, report.KindInvalidEnum,
			"value %q is not one of: %s", val.Str, strings.Join(bc.col.Enum, ", ")).
			At(row.Line, bc.name))
	}

	if seen != nil && val.Str != "" {
		if first, dup := seen[val.Str]; dup {
			c.issues.Add(report.New(report.SeverityError, c.file, report.KindDuplicateKey,
				"duplicate %s %q: first seen at line %d, repeated at line %d", bc.name, val.Str, first, row.Line).
				At(row.Line, bc.name))
			return
		}
		seen[val.Str] = row.Line
	}
}

func (c *tableCheck) addCapped(issue report.Issue) {
	c.counts[issue.Kind]++
	if c.counts[issue.Kind] > c.limit {
		c.suppressed[issue.Kind]++
		return
	}
	c.issues.Add(issue)
}

func unexpectedMessage(name, note string) string {
	msg := fmt.Sprintf("column %q is not part of the format", name)
	if note != "" {
		msg += "; " + note
	}
	return msg
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortByIndex(cols []boundColumn) {
	sort.Slice(cols, func(i, j int) bool { return cols[i].index < cols[j].index })
}
