package report

// ArtifactStatus describes how an artifact entered the run.
type ArtifactStatus string

const (
	StatusPresent  ArtifactStatus = "present"
	StatusMissing  ArtifactStatus = "missing"
	StatusUnusable ArtifactStatus = "unusable"
)

// ArtifactStats summarizes one artifact for display.
type ArtifactStats struct {
	Role      string         `json:"role" yaml:"role" msgpack:"role"`
	Filename  string         `json:"filename" yaml:"filename" msgpack:"filename"`
	Status    ArtifactStatus `json:"status" yaml:"status" msgpack:"status"`
	Rows      int            `json:"rows,omitempty" yaml:"rows,omitempty" msgpack:"rows,omitempty"`
	Columns   int            `json:"columns,omitempty" yaml:"columns,omitempty" msgpack:"columns,omitempty"`
	Sequences int            `json:"sequences,omitempty" yaml:"sequences,omitempty" msgpack:"sequences,omitempty"`
}

// Counts holds the number of issues per severity.
type Counts struct {
	Fatal   int `json:"fatal" yaml:"fatal" msgpack:"fatal"`
	Error   int `json:"error" yaml:"error" msgpack:"error"`
	Warning int `json:"warning" yaml:"warning" msgpack:"warning"`
}

// Report is the finalized outcome of a validation run. It is never mutated
// after Builder.Build returns it; accessors hand out copies.
type Report struct {
	issues    []Issue
	artifacts []ArtifactStats
	counts    Counts
}

// Issues returns a copy of the ordered issue list.
func (r *Report) Issues() []Issue {
	out := make([]Issue, len(r.issues))
	copy(out, r.issues)
	return out
}

// Artifacts returns a copy of the per-artifact statistics.
func (r *Report) Artifacts() []ArtifactStats {
	out := make([]ArtifactStats, len(r.artifacts))
	copy(out, r.artifacts)
	return out
}

// Counts returns the number of issues per severity.
func (r *Report) Counts() Counts {
	return r.counts
}

// Acceptable is true iff no issue is fatal or an error.
func (r *Report) Acceptable() bool {
	return r.counts.Fatal == 0 && r.counts.Error == 0
}

// HasIOFailure reports whether any issue is an infrastructure failure rather
// than a data-quality problem. Callers may retry such runs.
func (r *Report) HasIOFailure() bool {
	for _, it := range r.issues {
		if it.Kind == KindIOFailure {
			return true
		}
	}
	return false
}

// Filter returns the issues of the given kind, in report order.
func (r *Report) Filter(kind Kind) []Issue {
	var out []Issue
	for _, it := range r.issues {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

// Builder aggregates issues into a Report. It never fails.
type Builder struct {
	issues    []Issue
	artifacts []ArtifactStats
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends issues in order.
func (b *Builder) Add(issues ...Issue) *Builder {
	b.issues = append(b.issues, issues...)
	return b
}

// AddArtifact records statistics for one artifact.
func (b *Builder) AddArtifact(stats ArtifactStats) *Builder {
	b.artifacts = append(b.artifacts, stats)
	return b
}

// Build finalizes the report. The builder may be reused afterwards without
// affecting the returned report.
func (b *Builder) Build() *Report {
	r := &Report{
		issues:    make([]Issue, len(b.issues)),
		artifacts: make([]ArtifactStats, len(b.artifacts)),
	}
	copy(r.issues, b.issues)
	copy(r.artifacts, b.artifacts)

	for _, it := range r.issues {
		switch it.Severity {
		case SeverityFatal:
			r.counts.Fatal++
		case SeverityError:
			r.counts.Error++
		default:
			r.counts.Warning++
		}
	}
	return r
}
