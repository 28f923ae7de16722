package gaddag

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Index is a built GADDAG. It is immutable and safe for concurrent use.
//
// States are stored in an arena. The transitions of node n are
// chars[first[n]:first[n+1]] (ascending) leading to the same range of
// targets. Every target is greater than the node it leaves.
type Index struct {
	id            uuid.UUID
	alphabet      *Alphabet
	maxWordLength int
	numWords      int
	numEntries    int

	final   []bool
	first   []uint32
	chars   []byte
	targets []uint32
}

// EnumFn is called for every path visited by Enumerate. entry is only valid
// for the duration of the call.
type EnumFn = func(entry []byte, final bool) EnumerationResult

// EnumerationResult is returned by the enumeration function to indicate whether
// enumeration should continue below this depth or to stop altogether
type EnumerationResult = int

const (
	// Continue enumerating all entries with this prefix
	Continue EnumerationResult = iota

	// Skip will skip all entries with this prefix
	Skip

	// Stop will immediately stop enumerating entries
	Stop
)

type options struct {
	alphabet      *Alphabet
	maxWordLength int
	workers       int
	logger        *slog.Logger
}

// Option configures Build.
type Option func(*options)

// WithAlphabet sets the alphabet words must be drawn from. Default Uppercase.
func WithAlphabet(a *Alphabet) Option {
	return func(o *options) { o.alphabet = a }
}

// WithMaxWordLength sets the longest accepted word. Default 15.
func WithMaxWordLength(n int) Option {
	return func(o *options) { o.maxWordLength = n }
}

// WithWorkers sets how many goroutines generate entries. Default 1.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLogger sets the logger used to report build statistics. A nil logger
// keeps the default, which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) *options {
	o := &options{
		alphabet:      Uppercase,
		maxWordLength: DefaultMaxWordLength,
		workers:       1,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Build creates an index from a list of words. The order of the words does
// not matter and duplicates are allowed. If any word is invalid the build is
// aborted and a *WordError wrapping ErrInvalidWord is returned.
func Build(words []string, opts ...Option) (*Index, error) {
	o := buildOptions(opts)
	if o.alphabet == nil {
		return nil, fmt.Errorf("%w: no alphabet", ErrBuildFailure)
	}
	if o.maxWordLength < 1 {
		return nil, fmt.Errorf("%w: maximum word length %d", ErrBuildFailure, o.maxWordLength)
	}

	start := time.Now()
	entries, err := buildEntries(words, o)
	if err != nil {
		return nil, err
	}
	generated := time.Since(start)

	idx, err := buildIndex(entries)
	if err != nil {
		return nil, err
	}
	idx.alphabet = o.alphabet
	idx.maxWordLength = o.maxWordLength

	o.logger.Debug("built gaddag",
		"id", idx.id,
		"words", idx.numWords,
		"entries", idx.numEntries,
		"nodes", idx.NumNodes(),
		"edges", idx.NumEdges(),
		"generate", generated,
		"total", time.Since(start))

	return idx, nil
}

// buildIndex compresses a sorted entry set. Panics raised while building,
// such as running out of memory for the arena, are reported as
// ErrBuildFailure so no partially built index escapes.
func buildIndex(entries [][]byte) (idx *Index, err error) {
	defer func() {
		if r := recover(); r != nil {
			idx = nil
			err = fmt.Errorf("%w: %v", ErrBuildFailure, r)
		}
	}()

	b := newBuilder()
	for _, entry := range entries {
		if err := b.add(entry); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBuildFailure, err)
		}
	}

	idx = b.finish()
	idx.id = uuid.New()
	return idx, nil
}

// ID identifies this particular build. Node addresses are only meaningful
// for the index with the same ID.
func (idx *Index) ID() uuid.UUID {
	return idx.id
}

// Alphabet returns the alphabet the index was built with.
func (idx *Index) Alphabet() *Alphabet {
	return idx.alphabet
}

// MaxWordLength returns the longest word the index accepted.
func (idx *Index) MaxWordLength() int {
	return idx.maxWordLength
}

// NumWords returns the number of distinct words in the index.
func (idx *Index) NumWords() int {
	return idx.numWords
}

// NumEntries returns the number of distinct entries in the index.
func (idx *Index) NumEntries() int {
	return idx.numEntries
}

// NumNodes returns the number of states in the automaton.
func (idx *Index) NumNodes() int {
	return len(idx.final)
}

// NumEdges returns the number of transitions in the automaton.
func (idx *Index) NumEdges() int {
	return len(idx.chars)
}

// contains returns true if entry was added to the index.
func (idx *Index) contains(entry []byte) bool {
	node, ok := idx.walk(rootNode, entry)
	return ok && idx.final[node]
}

// walk follows path from node and returns the state reached.
func (idx *Index) walk(node Node, path []byte) (Node, bool) {
	var ok bool
	for _, ch := range path {
		node, ok = idx.Step(node, ch)
		if !ok {
			return 0, false
		}
	}
	return node, true
}

// Enumerate will call the given method, passing it every path below node in
// ascending byte order, each preceded by prefix. Return Continue to continue
// enumeration, Skip to skip this branch, or Stop to stop enumeration.
// Enumeration can be restarted by calling Enumerate again.
func (idx *Index) Enumerate(node Node, prefix []byte, fn EnumFn) {
	if int(node) >= idx.NumNodes() {
		return
	}
	buf := make([]byte, len(prefix), len(prefix)+idx.maxWordLength+1)
	copy(buf, prefix)
	idx.enumerate(node, buf, fn)
}

func (idx *Index) enumerate(node Node, entry []byte, fn EnumFn) EnumerationResult {
	// call the enum function on the entry
	result := fn(entry, idx.final[node])

	// if the function didn't say to continue, then return.
	if result != Continue {
		return result
	}

	l := len(entry)
	entry = append(entry, 0)

	// for each edge
	for i := idx.first[node]; i < idx.first[node+1]; i++ {
		entry[l] = idx.chars[i]
		// recurse
		result = idx.enumerate(Node(idx.targets[i]), entry, fn)
		if result == Stop {
			break
		}
	}

	return result
}
