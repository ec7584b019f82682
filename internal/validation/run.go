// Package validation runs the eDNA submission validation engine: it loads
// the five project files, checks each against its format, cross-checks
// identifiers between them, and returns a single report.
package validation

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edna-platform/ednavalidate/internal/fasta"
	"github.com/edna-platform/ednavalidate/internal/formatspec"
	"github.com/edna-platform/ednavalidate/internal/report"
	"github.com/edna-platform/ednavalidate/internal/tabular"
)

// RawDataDir is the subdirectory of a project root that holds submission
// files.
const RawDataDir = "raw_data"

// Options configures a validation run.
type Options struct {
	Strict           bool // escalate advisory cross-reference warnings to errors
	MaxIssuesPerKind int  // per-file cap on row-level issues of one kind
	MaxLineBytes     int  // longest accepted input line

	// OnStage, if set, is called as the run enters each stage.
	OnStage func(name string, number, total int)

	Debug       bool
	DebugWriter io.Writer // defaults to os.Stderr
}

// Stage names reported through Options.OnStage.
const (
	StageParse      = "parsing submission files"
	StageCrossCheck = "cross-referencing identifiers"
)

// Run is a single validation run. It owns its FileSet and report; nothing is
// shared between runs.
type Run struct {
	fsys fs.FS
	opts Options
}

// NewRun creates a run over the submission files at the root of fsys.
func NewRun(fsys fs.FS, opts Options) *Run {
	return &Run{fsys: fsys, opts: opts}
}

// debugLog prints a debug message if debug mode is enabled.
func (r *Run) debugLog(format string, args ...interface{}) {
	if !r.opts.Debug {
		return
	}
	w := r.opts.DebugWriter
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "[DEBUG][ValidationRun] "+format+"\n", args...)
}

// Validate validates the submission files at the root of fsys.
func Validate(fsys fs.FS, opts Options) *report.Report {
	return NewRun(fsys, opts).Execute()
}

// ValidateDir validates the submission in dir. dir may be the raw-data
// directory itself or a project root containing raw_data/. An unreadable
// directory yields a report with a single IOFailure.
func ValidateDir(dir string, opts Options) *report.Report {
	dataDir, err := ResolveDataDir(dir)
	if err != nil {
		return report.NewBuilder().
			Add(report.New(report.SeverityFatal, dir, report.KindIOFailure, "%v", err)).
			Build()
	}
	return Validate(os.DirFS(dataDir), opts)
}

// ResolveDataDir returns the directory holding the submission files.
func ResolveDataDir(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("accessing project directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project path is not a directory: %s", dir)
	}

	if _, err := os.Stat(filepath.Join(dir, formatspec.MetadataSpec.Filename)); err == nil {
		return dir, nil
	}
	raw := filepath.Join(dir, RawDataDir)
	if info, err := os.Stat(raw); err == nil && info.IsDir() {
		return raw, nil
	}
	return dir, nil
}

func (r *Run) stage(name string, number int) {
	r.debugLog("stage %d/2: %s", number, name)
	if r.opts.OnStage != nil {
		r.opts.OnStage(name, number, 2)
	}
}

// Execute loads and checks every artifact concurrently, waits for all of
// them, then runs the cross-reference checks and builds the report.
func (r *Run) Execute() *report.Report {
	start := time.Now()
	r.stage(StageParse, 1)
	roles := formatspec.Roles()
	loaded := make([]*Artifact, len(roles))

	var g errgroup.Group
	for i, role := range roles {
		i, role := i, role
		g.Go(func() error {
			loaded[i] = r.load(role)
			return nil
		})
	}
	// Barrier: cross-reference checks need every artifact settled.
	_ = g.Wait()

	files := NewFileSet(loaded...)
	b := report.NewBuilder()
	for _, a := range files.Ordered() {
		b.AddArtifact(a.Stats())
		b.Add(a.Issues...)
		r.debugLog("%s: status=%s issues=%d", a.Spec.Filename, a.Status, len(a.Issues))
	}

	r.stage(StageCrossCheck, 2)
	xref := &CrossReferenceValidator{Strict: r.opts.Strict}
	crossIssues := xref.Validate(files)
	b.Add(crossIssues...)
	r.debugLog("cross-reference: issues=%d", len(crossIssues))

	rep := b.Build()
	r.debugLog("completed in %s: acceptable=%t", time.Since(start).Round(time.Millisecond), rep.Acceptable())
	return rep
}

// load opens, parses and schema-checks one artifact. It never returns nil.
func (r *Run) load(role formatspec.Role) *Artifact {
	spec := formatspec.MustSpecFor(role)
	a := &Artifact{Role: role, Spec: spec}

	f, err := r.fsys.Open(spec.Filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			a.Status = report.StatusMissing
			return a
		}
		a.Status = report.StatusUnusable
		a.Issues = append(a.Issues, report.New(report.SeverityFatal, spec.Filename, report.KindIOFailure,
			"opening file: %v", err))
		return a
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.IsDir() {
		a.Status = report.StatusUnusable
		a.Issues = append(a.Issues, report.New(report.SeverityFatal, spec.Filename, report.KindIOFailure,
			"%s is a directory, not a file", spec.Filename))
		return a
	}

	var parseIssues []report.Issue
	switch spec.Format {
	case formatspec.FormatFASTA:
		a.Sequences, parseIssues = fasta.Parse(f, spec.Filename, fasta.Options{MaxLineBytes: r.opts.MaxLineBytes})
	default:
		a.Table, parseIssues = tabular.Parse(f, spec.Filename, tabular.Options{MaxLineBytes: r.opts.MaxLineBytes})
	}
	a.Issues = append(a.Issues, parseIssues...)

	a.Status = report.StatusPresent
	if unusable(parseIssues) {
		a.Status = report.StatusUnusable
		return a
	}

	if a.Table != nil {
		sv := &SchemaValidator{MaxIssuesPerKind: r.opts.MaxIssuesPerKind}
		a.Issues = append(a.Issues, sv.ValidateTable(spec, a.Table)...)
	}
	return a
}

// unusable reports whether parse issues leave the artifact without a
// trustworthy structure.
func unusable(issues []report.Issue) bool {
	for _, it := range issues {
		if it.Severity != report.SeverityFatal {
			continue
		}
		switch it.Kind {
		case report.KindIOFailure, report.KindEmptyFile, report.KindMalformedRow:
			return true
		}
	}
	return false
}
