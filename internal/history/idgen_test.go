package history

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	t.Parallel()

	id, err := GenerateID()
	require.NoError(t, err)

	matches := regexp.MustCompile(`^([a-z]+)_([a-z]+)_\d{8}_\d{6}$`).FindStringSubmatch(id)
	require.Len(t, matches, 3, "ID %q should match adjective_noun_YYYYMMDD_HHMMSS", id)
	assert.Contains(t, adjectives, matches[1])
	assert.Contains(t, nouns, matches[2])
}

func TestWordLists(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		words []string
	}{
		"adjectives": {words: adjectives},
		"nouns":      {words: nouns},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.GreaterOrEqual(t, len(tc.words), 40)
			pattern := regexp.MustCompile(`^[a-z]+$`)
			seen := make(map[string]bool)
			for _, word := range tc.words {
				assert.True(t, pattern.MatchString(word), "word %q should be lowercase letters only", word)
				assert.False(t, seen[word], "word %q is duplicated", word)
				seen[word] = true
			}
		})
	}
}

func TestRandomWord(t *testing.T) {
	t.Parallel()

	_, err := randomWord(nil)
	assert.Error(t, err)

	word, err := randomWord([]string{"reef"})
	require.NoError(t, err)
	assert.Equal(t, "reef", word)
}
