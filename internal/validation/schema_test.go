package validation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edna-platform/ednavalidate/internal/formatspec"
	"github.com/edna-platform/ednavalidate/internal/report"
	"github.com/edna-platform/ednavalidate/internal/tabular"
	"github.com/edna-platform/ednavalidate/internal/testutil"
)

func checkTable(t *testing.T, spec *formatspec.FormatSpec, content string, limit int) []report.Issue {
	t.Helper()
	table, parseIssues := tabular.Parse(strings.NewReader(content), spec.Filename, tabular.Options{})
	require.Empty(t, parseIssues, "fixture must parse cleanly")
	return (&SchemaValidator{MaxIssuesPerKind: limit}).ValidateTable(spec, table)
}

func issueKinds(issues []report.Issue) []report.Kind {
	out := make([]report.Kind, 0, len(issues))
	for _, it := range issues {
		out = append(out, it.Kind)
	}
	return out
}

func TestValidateTable_ValidFixture(t *testing.T) {
	t.Parallel()

	sub := testutil.ValidSubmission()
	for _, role := range formatspec.Roles() {
		spec := formatspec.MustSpecFor(role)
		if spec.Format != formatspec.FormatTabular {
			continue
		}
		t.Run(string(role), func(t *testing.T) {
			t.Parallel()
			assert.Empty(t, checkTable(t, spec, sub[spec.Filename], 0))
		})
	}
}

func TestValidateTable_Metadata(t *testing.T) {
	t.Parallel()

	const header = "SampleID\tLatitude\tLongitude\tSamplingTime"

	tests := map[string]struct {
		content    string
		wantKinds  []report.Kind
		wantSev    report.Severity
		wantLine   int
		wantColumn string
	}{
		"latitude out of range": {
			content:    testutil.Lines(header, "S1\t95.0\t151.2\t2023-03-01"),
			wantKinds:  []report.Kind{report.KindOutOfRange},
			wantSev:    report.SeverityError,
			wantLine:   2,
			wantColumn: "Latitude",
		},
		"longitude not a number": {
			content:    testutil.Lines(header, "S1\t-33.8\teast\t2023-03-01"),
			wantKinds:  []report.Kind{report.KindTypeMismatch},
			wantSev:    report.SeverityError,
			wantLine:   2,
			wantColumn: "Longitude",
		},
		"empty required cell": {
			content:    testutil.Lines(header, "S1\t\t151.2\t2023-03-01"),
			wantKinds:  []report.Kind{report.KindTypeMismatch},
			wantSev:    report.SeverityError,
			wantLine:   2,
			wantColumn: "Latitude",
		},
		"bad timestamp": {
			content:    testutil.Lines(header, "S1\t-33.8\t151.2\tyesterday"),
			wantKinds:  []report.Kind{report.KindTypeMismatch},
			wantSev:    report.SeverityError,
			wantLine:   2,
			wantColumn: "SamplingTime",
		},
		"duplicate sample": {
			content:    testutil.Lines(header, "S1\t-33.8\t151.2\t2023-03-01", "S2\t-33.8\t151.2\t2023-03-01", "S1\t-34\t151\t2023-03-02"),
			wantKinds:  []report.Kind{report.KindDuplicateKey},
			wantSev:    report.SeverityError,
			wantLine:   4,
			wantColumn: "SampleID",
		},
		"missing required column": {
			content:    testutil.Lines("SampleID\tLatitude\tSamplingTime", "S1\t-33.8\t2023-03-01"),
			wantKinds:  []report.Kind{report.KindMissingColumn},
			wantSev:    report.SeverityFatal,
			wantLine:   1,
			wantColumn: "Longitude",
		},
		"extra column is stored as environmental data": {
			content:    testutil.Lines(header+"\tTemperature", "S1\t-33.8\t151.2\t2023-03-01\t18.5"),
			wantKinds:  []report.Kind{report.KindUnexpectedColumn},
			wantSev:    report.SeverityWarning,
			wantLine:   1,
			wantColumn: "Temperature",
		},
		"negative depth": {
			content:    testutil.Lines(header+"\tDepth", "S1\t-33.8\t151.2\t2023-03-01\t-5"),
			wantKinds:  []report.Kind{report.KindOutOfRange},
			wantSev:    report.SeverityError,
			wantLine:   2,
			wantColumn: "Depth",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			issues := checkTable(t, &formatspec.MetadataSpec, tt.content, 0)
			require.Equal(t, tt.wantKinds, issueKinds(issues), "issues: %v", issues)
			assert.Equal(t, tt.wantSev, issues[0].Severity)
			assert.Equal(t, tt.wantLine, issues[0].Line)
			assert.Equal(t, tt.wantColumn, issues[0].Column)
			assert.Equal(t, "metadata.txt", issues[0].File)
		})
	}
}

func TestValidateTable_OptionalEmptyCellsAccepted(t *testing.T) {
	t.Parallel()

	content := testutil.Lines(
		"SampleID\tLatitude\tLongitude\tSamplingTime\tStation\tDepth",
		"S1\t-33.8\t151.2\t2023-03-01\t\t",
	)
	assert.Empty(t, checkTable(t, &formatspec.MetadataSpec, content, 0))
}

func TestValidateTable_UnexpectedColumnMessage(t *testing.T) {
	t.Parallel()

	content := testutil.Lines("SampleID\tLatitude\tLongitude\tSamplingTime\tpH", "S1\t1\t1\t2023-03-01\t8.1")
	issues := checkTable(t, &formatspec.MetadataSpec, content, 0)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "stored as environmental data")
}

func TestValidateTable_Cap(t *testing.T) {
	t.Parallel()

	lines := []string{"SampleID\tLatitude\tLongitude\tSamplingTime"}
	for i := 0; i < 25; i++ {
		lines = append(lines, fmt.Sprintf("S%d\t95\tnope\t2023-03-01", i))
	}
	issues := checkTable(t, &formatspec.MetadataSpec, testutil.Lines(lines...), 20)

	var outOfRange, mismatch []report.Issue
	for _, it := range issues {
		switch it.Kind {
		case report.KindOutOfRange:
			outOfRange = append(outOfRange, it)
		case report.KindTypeMismatch:
			mismatch = append(mismatch, it)
		}
	}
	require.Len(t, outOfRange, 21, "20 located issues plus one summary")
	require.Len(t, mismatch, 21)

	summary := mismatch[len(mismatch)-1]
	assert.Zero(t, summary.Line)
	assert.Contains(t, summary.Message, "5 more TypeMismatch issue(s) not shown (limit 20 per file)")

	// Summaries follow every located issue, TypeMismatch first.
	n := len(issues)
	assert.Equal(t, report.KindTypeMismatch, issues[n-2].Kind)
	assert.Equal(t, report.KindOutOfRange, issues[n-1].Kind)
}

func TestValidateTable_DuplicateKeyNotCapped(t *testing.T) {
	t.Parallel()

	lines := []string{"SampleID\tLatitude\tLongitude\tSamplingTime"}
	for i := 0; i < 5; i++ {
		lines = append(lines, "S1\t1\t1\t2023-03-01")
	}
	issues := checkTable(t, &formatspec.MetadataSpec, testutil.Lines(lines...), 2)
	assert.Len(t, issues, 4)
	for _, it := range issues {
		assert.Equal(t, report.KindDuplicateKey, it.Kind)
		assert.Contains(t, it.Message, "first seen at line 2")
	}
}

func TestValidateTable_OTUTable(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content    string
		wantKinds  []report.Kind
		wantSev    report.Severity
		wantColumn string
	}{
		"index style header": {
			content: testutil.Lines("\tOTU_1\tOTU_5", "S1\t10\t0"),
		},
		"negative count": {
			content:    testutil.Lines("SampleID\tOTU_1\tOTU_5", "S1\t-1\t0"),
			wantKinds:  []report.Kind{report.KindOutOfRange},
			wantSev:    report.SeverityError,
			wantColumn: "OTU_1",
		},
		"fractional count": {
			content:    testutil.Lines("SampleID\tOTU_1\tOTU_5", "S1\t1\t0.5"),
			wantKinds:  []report.Kind{report.KindTypeMismatch},
			wantSev:    report.SeverityError,
			wantColumn: "OTU_5",
		},
		"wrong key column": {
			content:    testutil.Lines("Sample\tOTU_1", "S1\t1"),
			wantKinds:  []report.Kind{report.KindMissingColumn},
			wantSev:    report.SeverityFatal,
			wantColumn: "Sample",
		},
		"no otu columns": {
			content:   testutil.Lines("SampleID", "S1"),
			wantKinds: []report.Kind{report.KindMissingColumn},
			wantSev:   report.SeverityFatal,
		},
		"blank otu header": {
			content:   testutil.Lines("SampleID\tOTU_1\t", "S1\t1\t2"),
			wantKinds: []report.Kind{report.KindMalformedRow},
			wantSev:   report.SeverityError,
		},
		"duplicate sample row": {
			content:    testutil.Lines("SampleID\tOTU_1", "S1\t1", "S1\t2"),
			wantKinds:  []report.Kind{report.KindDuplicateKey},
			wantSev:    report.SeverityError,
			wantColumn: "SampleID",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			issues := checkTable(t, &formatspec.OTUTableSpec, tt.content, 0)
			if len(tt.wantKinds) == 0 {
				assert.Empty(t, issues)
				return
			}
			require.Equal(t, tt.wantKinds, issueKinds(issues), "issues: %v", issues)
			assert.Equal(t, tt.wantSev, issues[0].Severity)
			assert.Equal(t, tt.wantColumn, issues[0].Column)
		})
	}
}

func TestValidateTable_TaxaMetadataEnums(t *testing.T) {
	t.Parallel()

	content := testutil.Lines(
		"Species\tRedListStatus\tInvasionStatus\tNativeStatus",
		"Abudefduf vaigiensis\tlc\tNative\t",
		"Thalassoma lunare\tLeast Concern\tnative\tendemic",
	)
	issues := checkTable(t, &formatspec.TaxaMetadataSpec, content, 0)
	require.Equal(t, []report.Kind{report.KindInvalidEnum, report.KindInvalidEnum}, issueKinds(issues))
	assert.Equal(t, "RedListStatus", issues[0].Column)
	assert.Contains(t, issues[0].Message, "EX, EW, CR")
	assert.Equal(t, "NativeStatus", issues[1].Column)
	assert.Equal(t, 3, issues[1].Line)
}

func TestValidateTable_TaxTableEmptyRanksAccepted(t *testing.T) {
	t.Parallel()

	content := testutil.Lines(
		"OTU\tKingdom\tPhylum\tClass\tOrder\tFamily\tGenus\tSpecies",
		"OTU_1\tAnimalia\t\t\t\t\t\t",
	)
	assert.Empty(t, checkTable(t, &formatspec.TaxTableSpec, content, 0))
}

func TestValidateTable_NilInputs(t *testing.T) {
	t.Parallel()

	v := &SchemaValidator{}
	assert.Nil(t, v.ValidateTable(nil, &tabular.Table{}))
	assert.Nil(t, v.ValidateTable(&formatspec.MetadataSpec, nil))
}
