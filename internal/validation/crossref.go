package validation

import (
	"github.com/edna-platform/ednavalidate/internal/formatspec"
	"github.com/edna-platform/ednavalidate/internal/report"
	"github.com/edna-platform/ednavalidate/internal/tabular"
)

// idIndex maps identifiers to the line they were first seen on, keeping
// first-seen order.
type idIndex struct {
	order []string
	first map[string]int
}

func newIDIndex() *idIndex {
	return &idIndex{first: map[string]int{}}
}

func (ix *idIndex) add(id string, line int) {
	if id == "" {
		return
	}
	if _, ok := ix.first[id]; ok {
		return
	}
	ix.first[id] = line
	ix.order = append(ix.order, id)
}

func (ix *idIndex) has(id string) bool {
	_, ok := ix.first[id]
	return ok
}

// columnIndex indexes the values of one column, or returns nil when the
// column is absent.
func columnIndex(t *tabular.Table, name string) *idIndex {
	if t == nil {
		return nil
	}
	i := t.Index(name)
	if i < 0 {
		return nil
	}
	ix := newIDIndex()
	for _, row := range t.Rows {
		ix.add(row.Fields[i], row.Line)
	}
	return ix
}

// indexes holds every identifier index the cross-reference checks use. A nil
// index means the source artifact or column is unavailable.
type indexes struct {
	metadataSamples *idIndex
	otuSamples      *idIndex
	otuSampleColumn string
	otuIDs          *idIndex
	otuHeaderLine   int
	taxOTUs         *idIndex
	taxSpecies      *idIndex
	metadataSpecies *idIndex
	sequenceIDs     *idIndex
}

func buildIndexes(files *FileSet) *indexes {
	ix := &indexes{
		metadataSamples: columnIndex(files.table(formatspec.RoleMetadata), "SampleID"),
		taxOTUs:         columnIndex(files.table(formatspec.RoleTaxTable), "OTU"),
		taxSpecies:      columnIndex(files.table(formatspec.RoleTaxTable), "Species"),
		metadataSpecies: columnIndex(files.table(formatspec.RoleTaxaMetadata), "Species"),
	}

	if otu := files.table(formatspec.RoleOTUTable); otu != nil && len(otu.Columns) > 0 {
		spec := formatspec.MustSpecFor(formatspec.RoleOTUTable)
		if containsString(spec.KeyAliases, otu.Columns[0]) {
			ix.otuSampleColumn = otu.Columns[0]
			ix.otuSamples = columnIndex(otu, otu.Columns[0])
		}
		ix.otuIDs = newIDIndex()
		ix.otuHeaderLine = otu.HeaderLine
		for _, name := range otu.Columns[1:] {
			ix.otuIDs.add(name, otu.HeaderLine)
		}
	}

	if a := files.Get(formatspec.RoleSequences); a.Present() && a.Sequences != nil {
		ix.sequenceIDs = newIDIndex()
		for _, id := range a.Sequences.IDs {
			ix.sequenceIDs.add(id, a.Sequences.Lines[id])
		}
	}
	return ix
}

// CrossReferenceValidator checks identifier consistency across artifacts.
type CrossReferenceValidator struct {
	// Strict reports UnmetadatedSpecies and UnusedSequence as errors
	// instead of warnings.
	Strict bool
}

func (v *CrossReferenceValidator) advisory() report.Severity {
	if v.Strict {
		return report.SeverityError
	}
	return report.SeverityWarning
}

// Validate runs every cross-reference check whose inputs are available.
// Issues come out grouped by check, and within a check in first-seen order
// of the source file.
func (v *CrossReferenceValidator) Validate(files *FileSet) []report.Issue {
	var issues report.List

	for _, role := range formatspec.Roles() {
		a := files.Get(role)
		if a == nil || a.Status == report.StatusMissing {
			spec := formatspec.MustSpecFor(role)
			issues.Addf(report.SeverityFatal, spec.Filename, report.KindMissingArtifact,
				"required file %s is missing; checks involving it were skipped", spec.Filename)
		}
	}

	ix := buildIndexes(files)
	metadataFile := formatspec.MetadataSpec.Filename
	otuFile := formatspec.OTUTableSpec.Filename
	taxFile := formatspec.TaxTableSpec.Filename
	taxaFile := formatspec.TaxaMetadataSpec.Filename
	seqFile := formatspec.SequencesSpec.Filename

	if ix.otuSamples != nil && ix.metadataSamples != nil {
		for _, id := range ix.otuSamples.order {
			if !ix.metadataSamples.has(id) {
				issues.Add(report.New(report.SeverityError, otuFile, report.KindOrphanSampleID,
					"sample %q has counts but no row in %s", id, metadataFile).
					At(ix.otuSamples.first[id], ix.otuSampleColumn))
			}
		}
		for _, id := range ix.metadataSamples.order {
			if !ix.otuSamples.has(id) {
				issues.Add(report.New(report.SeverityError, metadataFile, report.KindOrphanSampleID,
					"sample %q has no row in %s", id, otuFile).
					At(ix.metadataSamples.first[id], "SampleID"))
			}
		}
	}

	if ix.otuIDs != nil && ix.taxOTUs != nil {
		for _, id := range ix.otuIDs.order {
			if !ix.taxOTUs.has(id) {
				issues.Add(report.New(report.SeverityError, otuFile, report.KindOrphanOTU,
					"OTU %q has no taxonomy row in %s", id, taxFile).At(ix.otuHeaderLine, id))
			}
		}
	}

	if ix.otuIDs != nil && ix.sequenceIDs != nil {
		for _, id := range ix.otuIDs.order {
			if !ix.sequenceIDs.has(id) {
				issues.Add(report.New(report.SeverityError, otuFile, report.KindMissingSequenceForOTU,
					"OTU %q has no sequence in %s", id, seqFile).At(ix.otuHeaderLine, id))
			}
		}
	}

	if ix.taxSpecies != nil && ix.metadataSpecies != nil {
		for _, name := range ix.taxSpecies.order {
			if !ix.metadataSpecies.has(name) {
				issues.Add(report.New(v.advisory(), taxFile, report.KindUnmetadatedSpecies,
					"species %q has no row in %s", name, taxaFile).At(ix.taxSpecies.first[name], "Species"))
			}
		}
	}

	if ix.sequenceIDs != nil && ix.otuIDs != nil {
		for _, id := range ix.sequenceIDs.order {
			if !ix.otuIDs.has(id) {
				issues.Add(report.New(v.advisory(), seqFile, report.KindUnusedSequence,
					"sequence %q is not referenced by any OTU column in %s", id, otuFile).
					At(ix.sequenceIDs.first[id], ""))
			}
		}
	}

	return issues.Items()
}
