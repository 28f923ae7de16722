package gaddag

import (
	"errors"
	"fmt"
)

// Separator marks the boundary between the reversed prefix and the forward
// suffix of a split-entry. It is never part of an alphabet.
const Separator byte = ','

// DefaultMaxWordLength is the longest word accepted unless configured
// otherwise.
const DefaultMaxWordLength = 15

// Alphabet is the set of bytes words and queries may contain.
type Alphabet struct {
	allowed [256]bool
	letters string
}

// Uppercase is the alphabet A to Z.
var Uppercase = mustAlphabet("ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// NewAlphabet creates an alphabet from the given letters. Duplicates are
// ignored. The separator may not be used.
func NewAlphabet(letters string) (*Alphabet, error) {
	if len(letters) == 0 {
		return nil, errors.New("gaddag: empty alphabet")
	}

	a := &Alphabet{}
	for i := 0; i < len(letters); i++ {
		if letters[i] == Separator {
			return nil, fmt.Errorf("gaddag: alphabet may not contain the separator %q", Separator)
		}
		a.allowed[letters[i]] = true
	}
	a.letters = a.collect()
	return a, nil
}

func mustAlphabet(letters string) *Alphabet {
	a, err := NewAlphabet(letters)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Alphabet) collect() string {
	var buf []byte
	for b := 0; b < 256; b++ {
		if a.allowed[b] {
			buf = append(buf, byte(b))
		}
	}
	return string(buf)
}

// Contains returns true if b belongs to the alphabet.
func (a *Alphabet) Contains(b byte) bool {
	return a.allowed[b]
}

// Letters returns the letters of the alphabet in ascending byte order.
func (a *Alphabet) Letters() string {
	return a.letters
}

// CheckWord returns a *WordError if word cannot be added to an index using
// this alphabet and maximum length.
func (a *Alphabet) CheckWord(word string, maxLen int) error {
	if reason := a.check(word); reason != "" {
		return &WordError{Word: word, Index: -1, Reason: reason}
	}
	if len(word) == 0 {
		return &WordError{Word: word, Index: -1, Reason: "empty word"}
	}
	if maxLen > 0 && len(word) > maxLen {
		return &WordError{Word: word, Index: -1,
			Reason: fmt.Sprintf("longer than %d letters", maxLen)}
	}
	return nil
}

func (a *Alphabet) checkQuery(query string) error {
	if reason := a.check(query); reason != "" {
		return &QueryError{Query: query, Reason: reason}
	}
	return nil
}

func (a *Alphabet) check(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == Separator {
			return fmt.Sprintf("separator at offset %d", i)
		}
		if !a.allowed[s[i]] {
			return fmt.Sprintf("byte %q at offset %d is not in the alphabet", s[i], i)
		}
	}
	return ""
}

// bitmap packs the alphabet for the file header, bit b set meaning byte b is
// allowed.
func (a *Alphabet) bitmap() [32]byte {
	var m [32]byte
	for b := 0; b < 256; b++ {
		if a.allowed[b] {
			m[b>>3] |= 1 << (b & 7)
		}
	}
	return m
}

func alphabetFromBitmap(m [32]byte) (*Alphabet, error) {
	a := &Alphabet{}
	for b := 0; b < 256; b++ {
		if m[b>>3]&(1<<(b&7)) != 0 {
			if byte(b) == Separator {
				return nil, corrupt("alphabet contains the separator")
			}
			a.allowed[b] = true
		}
	}
	a.letters = a.collect()
	if a.letters == "" {
		return nil, corrupt("empty alphabet")
	}
	return a, nil
}
