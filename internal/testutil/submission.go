// Package testutil provides fixtures for ednavalidate tests.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"testing/fstest"
)

// Submission maps submission filenames to their contents.
type Submission map[string]string

// ValidSubmission returns a small five-file submission with no issues.
// Tests change individual files to provoke one kind of issue at a time.
func ValidSubmission() Submission {
	return Submission{
		"metadata.txt": Lines(
			"SampleID\tLatitude\tLongitude\tSamplingTime\tStation",
			"S1\t-33.85\t151.21\t2023-03-01\tBondi",
			"S2\t-34.05\t151.15\t2023-03-02T09:30:00Z\tCronulla",
		),
		"otu_table.txt": Lines(
			"SampleID\tOTU_1\tOTU_5",
			"S1\t10\t0",
			"S2\t3\t7",
		),
		"tax_table.txt": Lines(
			"OTU\tKingdom\tPhylum\tClass\tOrder\tFamily\tGenus\tSpecies",
			"OTU_1\tAnimalia\tChordata\tActinopterygii\tPerciformes\tPomacentridae\tAbudefduf\tAbudefduf vaigiensis",
			"OTU_5\tAnimalia\tChordata\tActinopterygii\tPerciformes\tLabridae\tThalassoma\tThalassoma lunare",
		),
		"taxa_metadata.txt": Lines(
			"Species\tRedListStatus\tInvasionStatus",
			"Abudefduf vaigiensis\tLC\tnative",
			"Thalassoma lunare\tLC\tnative",
		),
		"sequences.fasta": Lines(
			">OTU_1 Abudefduf vaigiensis 12S",
			"ACGTACGTAC",
			"GGTTAACC",
			">OTU_5",
			"acgtnnrry",
		),
	}
}

// Lines joins lines with newlines and appends a trailing newline.
func Lines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// With returns a copy of s with file replaced by content.
func (s Submission) With(file, content string) Submission {
	out := s.clone()
	out[file] = content
	return out
}

// Without returns a copy of s with file removed.
func (s Submission) Without(file string) Submission {
	out := s.clone()
	delete(out, file)
	return out
}

func (s Submission) clone() Submission {
	out := make(Submission, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Filenames returns the submission's filenames in lexical order.
func (s Submission) Filenames() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// FS returns the submission as an in-memory filesystem.
func (s Submission) FS() fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range s {
		fsys[name] = &fstest.MapFile{Data: []byte(content), Mode: 0o644}
	}
	return fsys
}

// WriteDir writes the submission into dir and returns dir.
func (s Submission) WriteDir(t *testing.T, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create submission directory: %v", err)
	}
	for name, content := range s {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}

// WriteTemp writes the submission into a fresh temp directory.
func (s Submission) WriteTemp(t *testing.T) string {
	t.Helper()
	return s.WriteDir(t, t.TempDir())
}
