// Package dictionary owns the canonical word list. A Dictionary is a handle
// to a word list that is read on a background goroutine; every accessor that
// needs the words waits for that read to finish first.
package dictionary

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
)

// ErrResourceNotFound is wrapped by a ResourceLoadError when no word list
// with the requested name exists.
var ErrResourceNotFound = errors.New("resource not found")

// ResourceLoadError reports a word list that could not be read: it was
// missing, unreadable, failed mid-stream, or took longer than the load
// timeout.
type ResourceLoadError struct {
	Name string
	Err  error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("could not load word list %q: %v", e.Name, e.Err)
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}

// OpenFunc opens a named word list resource.
type OpenFunc func(name string) (io.ReadCloser, error)

type Dictionary struct {
	name string
	done chan struct{}

	// Everything below is written only by the loader, before done is closed.
	err      error
	words    map[string]struct{}
	byLength map[int][]string
	maxLen   int
	checksum uint64
}

// LoadFrom starts reading the named resource with open and returns at once.
// A timeout of zero or less means no timeout. The load itself cannot be
// cancelled; on timeout the reader is abandoned and its result discarded.
func LoadFrom(name string, open OpenFunc, timeout time.Duration) *Dictionary {
	d := &Dictionary{name: name, done: make(chan struct{})}
	go d.load(open, timeout)
	return d
}

// FromWords builds an already-loaded dictionary out of a word slice.
func FromWords(name string, words []string) *Dictionary {
	d := &Dictionary{name: name, done: make(chan struct{})}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	d.index(set)
	close(d.done)
	return d
}

type loadResult struct {
	words map[string]struct{}
	err   error
}

func (d *Dictionary) load(open OpenFunc, timeout time.Duration) {
	defer close(d.done)
	start := time.Now()
	log.Debug().Str("name", d.name).Dur("timeout", timeout).Msg("loading word list")

	results := make(chan loadResult, 1)
	go func() {
		words, err := readWords(open, d.name)
		results <- loadResult{words: words, err: err}
	}()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case res := <-results:
		if res.err != nil {
			d.err = &ResourceLoadError{Name: d.name, Err: res.err}
			log.Error().Err(d.err).Msg("word-list-load-failed")
			return
		}
		d.index(res.words)
		log.Info().Str("name", d.name).Int("words", len(d.words)).
			Dur("elapsed", time.Since(start)).
			Str("checksum", fmt.Sprintf("%016x", d.checksum)).
			Msg("word-list-loaded")
	case <-expired:
		d.err = &ResourceLoadError{Name: d.name, Err: context.DeadlineExceeded}
		log.Error().Err(d.err).Msg("word-list-load-timed-out")
	}
}

// readWords reads one word per line. Line terminators (\n or \r\n) are
// dropped; nothing else is trimmed.
func readWords(open OpenFunc, name string) (map[string]struct{}, error) {
	rc, err := open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	words := make(map[string]struct{})
	r := bufio.NewReader(rc)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			words[trimEOL(line)] = struct{}{}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return words, nil
}

func trimEOL(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	return line
}

func (d *Dictionary) index(words map[string]struct{}) {
	d.words = words
	d.byLength = make(map[int][]string)
	sorted := make([]string, 0, len(words))
	for w := range words {
		sorted = append(sorted, w)
	}
	slices.Sort(sorted)

	h := xxhash.New()
	for _, w := range sorted {
		n := utf8.RuneCountInString(w)
		d.byLength[n] = append(d.byLength[n], w)
		if n > d.maxLen {
			d.maxLen = n
		}
		h.Write([]byte(w))
		h.Write([]byte{'\n'})
	}
	d.checksum = h.Sum64()
}

// Wait blocks until the word list has loaded. It returns the load's
// *ResourceLoadError if loading failed, every time it is called, or ctx's
// error if ctx ends first.
func (d *Dictionary) Wait(ctx context.Context) error {
	select {
	case <-d.done:
		return d.err
	default:
	}
	select {
	case <-d.done:
		return d.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Loaded reports whether loading has finished, successfully or not.
func (d *Dictionary) Loaded() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

func (d *Dictionary) Name() string {
	return d.name
}

// Len returns the number of distinct words, or 0 if the list has not loaded.
func (d *Dictionary) Len() int {
	if !d.Loaded() {
		return 0
	}
	return len(d.words)
}

// Checksum is an xxhash of the sorted word list. It is 0 until loaded.
func (d *Dictionary) Checksum() uint64 {
	if !d.Loaded() {
		return 0
	}
	return d.checksum
}

// Has reports whether word is in the list.
func (d *Dictionary) Has(ctx context.Context, word string) (bool, error) {
	if err := d.Wait(ctx); err != nil {
		return false, err
	}
	_, ok := d.words[word]
	return ok, nil
}

// Words returns every word in sorted order. The slice is a copy.
func (d *Dictionary) Words(ctx context.Context) ([]string, error) {
	if err := d.Wait(ctx); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(d.words))
	for l := 0; l <= d.maxLen; l++ {
		out = append(out, d.byLength[l]...)
	}
	slices.Sort(out)
	return out, nil
}

// WordsOfLength returns the sorted words with exactly n characters. The
// returned slice is shared and must not be modified. Callers must have had
// a nil return from Wait.
func (d *Dictionary) WordsOfLength(n int) []string {
	return d.byLength[n]
}

// MaxLength is the length of the longest word. Callers must have had a nil
// return from Wait.
func (d *Dictionary) MaxLength() int {
	return d.maxLen
}
