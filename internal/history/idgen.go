package history

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// adjectives is a list of descriptive words for memorable ID generation.
var adjectives = []string{
	"amber", "azure", "brisk", "calm", "clear",
	"cobalt", "coral", "crisp", "deep", "dusky",
	"early", "fair", "fleet", "fresh", "gentle",
	"glassy", "green", "hazy", "jade", "keen",
	"late", "lively", "lucid", "misty", "murky",
	"north", "pale", "quiet", "rapid", "salty",
	"sandy", "sheer", "silver", "slack", "south",
	"steady", "still", "swift", "tidal", "warm",
}

// nouns is a list of marine and freshwater nouns for memorable ID generation.
var nouns = []string{
	"anchor", "atoll", "bay", "beacon", "brook",
	"buoy", "cape", "channel", "cove", "current",
	"delta", "estuary", "fjord", "gull", "harbor",
	"heron", "inlet", "isle", "kelp", "lagoon",
	"marsh", "mooring", "oyster", "pier", "pool",
	"reef", "ripple", "river", "sandbar", "seagrass",
	"shoal", "shore", "sound", "spring", "strait",
	"stream", "swell", "tern", "tide", "wave",
}

// GenerateID creates a unique identifier in adjective_noun_YYYYMMDD_HHMMSS format.
// Uses crypto/rand for random word selection.
func GenerateID() (string, error) {
	adj, err := randomWord(adjectives)
	if err != nil {
		return "", fmt.Errorf("selecting random adjective: %w", err)
	}

	noun, err := randomWord(nouns)
	if err != nil {
		return "", fmt.Errorf("selecting random noun: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s", adj, noun, timestamp), nil
}

// randomWord selects a random word from the given slice using crypto/rand.
func randomWord(words []string) (string, error) {
	if len(words) == 0 {
		return "", fmt.Errorf("word list is empty")
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return "", fmt.Errorf("generating random number: %w", err)
	}

	return words[n.Int64()], nil
}
