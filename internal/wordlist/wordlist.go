// Package wordlist reads newline separated word lists for building an index.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/milden6/gaddag"
)

// Policy decides what happens to words the index would reject.
type Policy int

const (
	// Abort stops reading at the first invalid word.
	Abort Policy = iota
	// Skip leaves invalid words out and reports them in Result.Rejected.
	Skip
)

// ParsePolicy converts "abort" or "skip" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "abort":
		return Abort, nil
	case "skip":
		return Skip, nil
	}
	return Abort, fmt.Errorf("wordlist: unknown policy %q", s)
}

// Options controls how lines are turned into words.
type Options struct {
	Alphabet      *gaddag.Alphabet
	MaxWordLength int
	Uppercase     bool
	Policy        Policy
}

// Rejected is a word left out under the Skip policy.
type Rejected struct {
	Line int
	Word string
	Err  error
}

// Result holds the accepted words and the rejected ones.
type Result struct {
	Words    []string
	Rejected []Rejected
}

// Read reads one word per line. Leading and trailing whitespace is removed,
// blank lines and lines starting with '#' are ignored.
func Read(r io.Reader, opts Options) (*Result, error) {
	alphabet := opts.Alphabet
	if alphabet == nil {
		alphabet = gaddag.Uppercase
	}

	result := &Result{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		if opts.Uppercase {
			word = strings.ToUpper(word)
		}

		if err := alphabet.CheckWord(word, opts.MaxWordLength); err != nil {
			if opts.Policy == Abort {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			result.Rejected = append(result.Rejected, Rejected{Line: line, Word: word, Err: err})
			continue
		}
		result.Words = append(result.Words, word)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}
	return result, nil
}

// ReadFile reads the word list stored in filename.
func ReadFile(filename string, opts Options) (*Result, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return result, nil
}
