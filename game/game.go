// Package game runs a word-formation round: draw a rack of tiles, solve it
// against a dictionary, and track which of the solutions the player has
// found. A Round is not safe for concurrent use.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/wordformations/anagrammer"
	"github.com/domino14/wordformations/config"
	"github.com/domino14/wordformations/dictionary"
)

var (
	ErrNotAWord      = errors.New("not one of the words for these tiles")
	ErrAlreadyFound  = errors.New("word already found")
	ErrRoundComplete = errors.New("round is complete")
)

type PlayState int

const (
	Playing PlayState = iota
	RoundOver
)

func (p PlayState) String() string {
	switch p {
	case Playing:
		return "PLAYING"
	case RoundOver:
		return "ROUND_OVER"
	}
	return "UNKNOWN"
}

// RoundOptions control how tiles are drawn and which words count.
type RoundOptions struct {
	Alphabet  string
	RackSize  int
	MinVowels int
	MinLength int
	// MinSolutions, if positive, redraws the rack until it has at least this
	// many solutions, giving up after MaxDraws tries.
	MinSolutions int
	MaxDraws     int
}

func OptionsFromConfig(cfg *config.Config) RoundOptions {
	return RoundOptions{
		Alphabet:     EnglishAlphabet,
		RackSize:     cfg.GetInt(config.ConfigRackSize),
		MinVowels:    cfg.GetInt(config.ConfigMinVowels),
		MinLength:    cfg.GetInt(config.ConfigMinWordLength),
		MinSolutions: cfg.GetInt(config.ConfigMinSolutions),
		MaxDraws:     cfg.GetInt(config.ConfigMaxDraws),
	}
}

type Round struct {
	tiles     string
	minLength int
	solutions anagrammer.WordSet
	found     []string
	foundSet  map[string]struct{}
	playing   PlayState
}

// NewRound draws a rack and solves it.
func NewRound(ctx context.Context, d *dictionary.Dictionary, m anagrammer.Matcher,
	rng Randomizer, opts RoundOptions) (*Round, error) {

	maxDraws := max(opts.MaxDraws, 1)
	for tries := 1; ; tries++ {
		tiles, err := DrawTiles(rng, opts.Alphabet, opts.RackSize, opts.MinVowels)
		if err != nil {
			return nil, err
		}
		r, err := NewRoundWithTiles(ctx, d, m, tiles, opts.MinLength)
		if err != nil {
			return nil, err
		}
		if opts.MinSolutions <= 0 || r.Total() >= opts.MinSolutions {
			log.Debug().Str("tiles", tiles).Int("solutions", r.Total()).
				Int("tries", tries).Msg("new-round")
			return r, nil
		}
		if tries >= maxDraws {
			return nil, fmt.Errorf("no rack with at least %d solutions in %d draws",
				opts.MinSolutions, tries)
		}
	}
}

// NewRoundWithTiles solves a rack the caller already has.
func NewRoundWithTiles(ctx context.Context, d *dictionary.Dictionary, m anagrammer.Matcher,
	tiles string, minLength int) (*Round, error) {

	solutions, err := m.ScrabbleWords(ctx, d, tiles, minLength)
	if err != nil {
		return nil, err
	}
	r := &Round{
		tiles:     tiles,
		minLength: minLength,
		solutions: solutions,
		foundSet:  make(map[string]struct{}),
	}
	r.checkComplete()
	return r, nil
}

// Guess records word as found if it is an unfound solution, and returns the
// number of words found so far.
func (r *Round) Guess(word string) (int, error) {
	if r.playing == RoundOver {
		return len(r.found), ErrRoundComplete
	}
	if !r.solutions.Contains(word) {
		return len(r.found), ErrNotAWord
	}
	if _, ok := r.foundSet[word]; ok {
		return len(r.found), ErrAlreadyFound
	}
	r.foundSet[word] = struct{}{}
	r.found = append(r.found, word)
	r.checkComplete()
	return len(r.found), nil
}

func (r *Round) checkComplete() {
	if len(r.found) == r.solutions.Len() {
		r.playing = RoundOver
	}
}

func (r *Round) Tiles() string {
	return r.tiles
}

func (r *Round) MinLength() int {
	return r.minLength
}

func (r *Round) Found() int {
	return len(r.found)
}

func (r *Round) Total() int {
	return r.solutions.Len()
}

// Score is the found/total counter, e.g. "3/17".
func (r *Round) Score() string {
	return fmt.Sprintf("%d/%d", r.Found(), r.Total())
}

func (r *Round) Complete() bool {
	return r.playing == RoundOver
}

func (r *Round) Playing() PlayState {
	return r.playing
}

// FoundWords returns the found words in the order they were found.
func (r *Round) FoundWords() []string {
	return append([]string(nil), r.found...)
}

// Solutions returns every solution, sorted by length and then alphabetically.
func (r *Round) Solutions() []string {
	return r.solutions.Sorted()
}
