package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidSubmission_HasAllFiles(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"metadata.txt", "otu_table.txt", "sequences.fasta", "tax_table.txt", "taxa_metadata.txt",
	}, ValidSubmission().Filenames())
}

func TestSubmission_WithWithoutDoNotMutate(t *testing.T) {
	t.Parallel()

	base := ValidSubmission()
	changed := base.With("metadata.txt", "x\n").Without("sequences.fasta")

	assert.NotEqual(t, "x\n", base["metadata.txt"])
	assert.Contains(t, base, "sequences.fasta")
	assert.Equal(t, "x\n", changed["metadata.txt"])
	assert.NotContains(t, changed, "sequences.fasta")
}

func TestSubmission_FSAndWriteDir(t *testing.T) {
	t.Parallel()

	sub := ValidSubmission()

	data, err := fs.ReadFile(sub.FS(), "otu_table.txt")
	require.NoError(t, err)
	assert.Equal(t, sub["otu_table.txt"], string(data))

	dir := sub.WriteDir(t, filepath.Join(t.TempDir(), "raw_data"))
	data, err = os.ReadFile(filepath.Join(dir, "sequences.fasta"))
	require.NoError(t, err)
	assert.Equal(t, sub["sequences.fasta"], string(data))
}
