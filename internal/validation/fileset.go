package validation

import (
	"github.com/edna-platform/ednavalidate/internal/fasta"
	"github.com/edna-platform/ednavalidate/internal/formatspec"
	"github.com/edna-platform/ednavalidate/internal/report"
	"github.com/edna-platform/ednavalidate/internal/tabular"
)

// Artifact is one loaded submission file.
type Artifact struct {
	Role      formatspec.Role
	Spec      *formatspec.FormatSpec
	Status    report.ArtifactStatus
	Table     *tabular.Table // set for present tabular artifacts
	Sequences *fasta.Set     // set for the present sequence artifact
	Issues    []report.Issue // parse and schema issues, in emission order
}

// Present reports whether the artifact parsed into a usable structure.
func (a *Artifact) Present() bool {
	return a != nil && a.Status == report.StatusPresent
}

// Stats summarizes the artifact for the report.
func (a *Artifact) Stats() report.ArtifactStats {
	s := report.ArtifactStats{
		Role:     string(a.Role),
		Filename: a.Spec.Filename,
		Status:   a.Status,
	}
	if a.Table != nil && a.Status == report.StatusPresent {
		s.Rows = len(a.Table.Rows)
		s.Columns = len(a.Table.Columns)
	}
	if a.Sequences != nil && a.Status == report.StatusPresent {
		s.Sequences = a.Sequences.Len()
	}
	return s
}

// FileSet holds the five artifacts of one run. It is read-only once loading
// has finished.
type FileSet struct {
	artifacts map[formatspec.Role]*Artifact
}

// NewFileSet builds a FileSet from loaded artifacts.
func NewFileSet(artifacts ...*Artifact) *FileSet {
	fs := &FileSet{artifacts: make(map[formatspec.Role]*Artifact, len(artifacts))}
	for _, a := range artifacts {
		fs.artifacts[a.Role] = a
	}
	return fs
}

// Get returns the artifact for a role, or nil if it was never loaded.
func (f *FileSet) Get(role formatspec.Role) *Artifact {
	return f.artifacts[role]
}

// Ordered returns the artifacts in role order.
func (f *FileSet) Ordered() []*Artifact {
	var out []*Artifact
	for _, role := range formatspec.Roles() {
		if a, ok := f.artifacts[role]; ok {
			out = append(out, a)
		}
	}
	return out
}

// table returns the parsed table of a present artifact.
func (f *FileSet) table(role formatspec.Role) *tabular.Table {
	if a := f.Get(role); a.Present() {
		return a.Table
	}
	return nil
}
