package anagrammer

import "unicode/utf8"

// Histogram counts how many of each character a tile multiset holds. The
// letters A-Z are counted in a fixed array; any other character goes in a map.
type Histogram struct {
	ascii [26]int
	other map[rune]int
	size  int
}

func NewHistogram(tiles string) Histogram {
	h := Histogram{}
	for _, r := range tiles {
		h.size++
		if r >= 'A' && r <= 'Z' {
			h.ascii[r-'A']++
			continue
		}
		if h.other == nil {
			h.other = make(map[rune]int)
		}
		h.other[r]++
	}
	return h
}

// Size is the number of tiles.
func (h *Histogram) Size() int {
	return h.size
}

// Count returns how many tiles show r.
func (h *Histogram) Count(r rune) int {
	if r >= 'A' && r <= 'Z' {
		return h.ascii[r-'A']
	}
	return h.other[r]
}

// Covers reports whether word uses no character more often than the tiles
// provide it. This also bounds the word's length by the tile count.
func (h *Histogram) Covers(word string) bool {
	var used [26]int
	var usedOther map[rune]int
	for _, r := range word {
		if r >= 'A' && r <= 'Z' {
			i := r - 'A'
			used[i]++
			if used[i] > h.ascii[i] {
				return false
			}
			continue
		}
		have := h.other[r]
		if have == 0 {
			return false
		}
		if usedOther == nil {
			usedOther = make(map[rune]int)
		}
		usedOther[r]++
		if usedOther[r] > have {
			return false
		}
	}
	return true
}

// Constructible reports whether word can be spelled with tiles, each tile
// used at most once.
func Constructible(tiles, word string) bool {
	if utf8.RuneCountInString(word) > utf8.RuneCountInString(tiles) {
		return false
	}
	h := NewHistogram(tiles)
	return h.Covers(word)
}
