package game

import (
	"fmt"
	"strings"

	"lukechampine.com/frand"
)

const (
	EnglishAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Vowels          = "AEIOU"
)

// Randomizer is the source of randomness for tile draws. *frand.RNG
// satisfies it.
type Randomizer interface {
	Intn(n int) int
}

// DrawTiles draws size letters uniformly, with replacement, from alphabet,
// and draws all of them again until at least minVowels of them are vowels.
func DrawTiles(rng Randomizer, alphabet string, size, minVowels int) (string, error) {
	letters := []rune(alphabet)
	if len(letters) == 0 {
		return "", fmt.Errorf("cannot draw from an empty alphabet")
	}
	if size < 0 {
		return "", fmt.Errorf("cannot draw %d tiles", size)
	}
	if minVowels > size {
		return "", fmt.Errorf("cannot have %d vowels in a draw of %d tiles", minVowels, size)
	}
	if minVowels > 0 && !strings.ContainsAny(alphabet, Vowels) {
		return "", fmt.Errorf("alphabet %q has no vowels", alphabet)
	}
	if rng == nil {
		rng = frand.New()
	}
	drawn := make([]rune, size)
	for {
		for i := range drawn {
			drawn[i] = letters[rng.Intn(len(letters))]
		}
		if countVowels(drawn) >= minVowels {
			return string(drawn), nil
		}
	}
}

func countVowels(tiles []rune) int {
	n := 0
	for _, t := range tiles {
		if strings.ContainsRune(Vowels, t) {
			n++
		}
	}
	return n
}
