package testhelpers

import (
	"github.com/domino14/wordformations/config"
	"github.com/domino14/wordformations/dictionary"
)

// ToyWords is a small word list with one word (CATCH) that needs a repeated
// letter and one (DOG) that shares no letters with the others.
var ToyWords = []string{"CAT", "CATS", "AT", "TA", "DOG", "CATCH"}

// ToyDictionary returns an already-loaded dictionary of ToyWords.
func ToyDictionary() *dictionary.Dictionary {
	return dictionary.FromWords("toy", ToyWords)
}

// BundledConfig returns a config whose data path is dir, so that word lists
// resolve to the ones bundled in the binary unless dir holds a file with
// the same name.
func BundledConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDataPath, dir)
	return cfg
}
