package gaddag

import (
	"bytes"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Entries returns the directional entries of a word: the whole-entry first,
// then the split-entries for split points len(word)-1 down to 1. The word is
// checked against the default alphabet and maximum length.
func Entries(word string) ([][]byte, error) {
	if err := Uppercase.CheckWord(word, DefaultMaxWordLength); err != nil {
		return nil, err
	}
	return appendEntries(nil, word), nil
}

// appendEntries appends the entries of an already validated word.
func appendEntries(entries [][]byte, word string) [][]byte {
	n := len(word)

	whole := make([]byte, n)
	for i := 0; i < n; i++ {
		whole[i] = word[n-1-i]
	}
	entries = append(entries, whole)

	for k := n - 1; k >= 1; k-- {
		entry := make([]byte, 0, n+1)
		for i := k - 1; i >= 0; i-- {
			entry = append(entry, word[i])
		}
		entry = append(entry, Separator)
		entry = append(entry, word[k:]...)
		entries = append(entries, entry)
	}

	return entries
}

// Demangle turns an entry back into the word it was generated from.
// For example "TAOB,ING" demangles to BOATING.
func Demangle(entry []byte) string {
	word := make([]byte, 0, len(entry))
	idx := bytes.IndexByte(entry, Separator)
	if idx < 0 {
		idx = len(entry)
	}

	for i := idx - 1; i >= 0; i-- {
		word = append(word, entry[i])
	}
	if idx < len(entry) {
		word = append(word, entry[idx+1:]...)
	}

	return string(word)
}

// buildEntries validates every word and accumulates the entries of all of
// them into one sorted set without duplicates. Words are split into
// contiguous chunks generated concurrently. When several words are invalid,
// the one with the lowest position is reported.
func buildEntries(words []string, o *options) ([][]byte, error) {
	workers := o.workers
	if workers < 1 {
		workers = 1
	}
	chunk := (len(words) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	n := (len(words) + chunk - 1) / chunk
	parts := make([][][]byte, n)
	errs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		i := i
		start := i * chunk
		end := min(start+chunk, len(words))

		g.Go(func() error {
			part := make([][]byte, 0, (end-start)*8)
			for pos, word := range words[start:end] {
				if err := o.alphabet.CheckWord(word, o.maxWordLength); err != nil {
					werr := err.(*WordError)
					werr.Index = start + pos
					errs[i] = werr
					return werr
				}
				part = appendEntries(part, word)
			}
			parts[i] = sortEntries(part)
			return nil
		})
	}

	// errgroup reports whichever failure came first in time; report the
	// lowest input position instead so the result does not depend on
	// scheduling.
	if g.Wait() != nil {
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}

	var total int
	for _, part := range parts {
		total += len(part)
	}
	entries := make([][]byte, 0, total)
	for _, part := range parts {
		entries = append(entries, part...)
	}

	if n <= 1 {
		return entries, nil
	}
	return sortEntries(entries), nil
}

// minChunk keeps small word lists on a single goroutine.
const minChunk = 4096

func sortEntries(entries [][]byte) [][]byte {
	slices.SortFunc(entries, bytes.Compare)
	return slices.CompactFunc(entries, bytes.Equal)
}
