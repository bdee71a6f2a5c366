// Package anagrammer finds the dictionary words that can be spelled from a
// multiset of tiles.
package anagrammer

import (
	"context"
	"runtime"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/wordformations/dictionary"
)

type AnagramMode int

const (
	// ModeBuild finds every word that uses some or all of the tiles.
	ModeBuild AnagramMode = iota
	// ModeExact finds only words that use every tile.
	ModeExact
)

// WordSet is the set of words a query matched. It has no order.
type WordSet map[string]struct{}

func (ws WordSet) Contains(word string) bool {
	_, ok := ws[word]
	return ok
}

func (ws WordSet) Len() int {
	return len(ws)
}

// Sorted returns the words sorted by length, then alphabetically.
func (ws WordSet) Sorted() []string {
	words := lo.Keys(ws)
	slices.SortFunc(words, func(a, b string) int {
		if la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b); la != lb {
			return la - lb
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	return words
}

// Matcher answers tile queries. The zero value is ready to use and scans
// with one goroutine per CPU.
type Matcher struct {
	Parallelism int
}

func (m Matcher) parallelism() int {
	if m.Parallelism > 0 {
		return m.Parallelism
	}
	return runtime.GOMAXPROCS(0)
}

// ScrabbleWords returns every word in d that can be spelled with tiles, each
// tile used at most once, and that has at least minLength characters. A
// minLength of zero or less sets no lower bound. It waits for d to finish
// loading and fails with the load's error if loading failed.
func (m Matcher) ScrabbleWords(ctx context.Context, d *dictionary.Dictionary,
	tiles string, minLength int) (WordSet, error) {

	if err := d.Wait(ctx); err != nil {
		return nil, err
	}
	h := NewHistogram(tiles)
	return m.match(ctx, d, &h, max(minLength, 0), h.Size())
}

// Anagram is ScrabbleWords with a mode, returning a sorted slice.
func (m Matcher) Anagram(ctx context.Context, d *dictionary.Dictionary,
	letters string, mode AnagramMode) ([]string, error) {

	if err := d.Wait(ctx); err != nil {
		return nil, err
	}
	h := NewHistogram(letters)
	minLen := 0
	if mode == ModeExact {
		minLen = h.Size()
	}
	ws, err := m.match(ctx, d, &h, minLen, h.Size())
	if err != nil {
		return nil, err
	}
	return ws.Sorted(), nil
}

func (m Matcher) match(ctx context.Context, d *dictionary.Dictionary, h *Histogram,
	minLen, maxLen int) (WordSet, error) {

	start := time.Now()
	maxLen = min(maxLen, d.MaxLength())
	result := WordSet{}
	if minLen > maxLen {
		return result, nil
	}

	// One bucket per word length; each is filtered independently.
	buckets := make([][]string, maxLen-minLen+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.parallelism())
	for n := minLen; n <= maxLen; n++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buckets[n-minLen] = lo.Filter(d.WordsOfLength(n), func(w string, _ int) bool {
				return h.Covers(w)
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, b := range buckets {
		for _, w := range b {
			result[w] = struct{}{}
		}
	}
	log.Debug().Int("tiles", h.Size()).Int("min-length", minLen).
		Int("matches", len(result)).Dur("elapsed", time.Since(start)).
		Msg("tile-query")
	return result, nil
}

var defaultMatcher Matcher

// ScrabbleWords runs a query with the default Matcher.
func ScrabbleWords(ctx context.Context, d *dictionary.Dictionary, tiles string,
	minLength int) (WordSet, error) {
	return defaultMatcher.ScrabbleWords(ctx, d, tiles, minLength)
}

// Anagram runs an anagram query with the default Matcher.
func Anagram(ctx context.Context, d *dictionary.Dictionary, letters string,
	mode AnagramMode) ([]string, error) {
	return defaultMatcher.Anagram(ctx, d, letters, mode)
}
