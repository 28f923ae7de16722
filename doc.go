/*
Package gaddag is an implementation of a GADDAG, a directional word index for
word games. A GADDAG answers "is this a word", "which words start with",
"which words end with" and "which words contain" queries, and lets a move
generator walk outwards from any letter of a word in both directions.

Each word of length n is stored as n entries. The whole-entry is the word
reversed. For every split point k (1 <= k < n) there is also a split-entry made
of the first k letters reversed, the separator byte ',' and the remaining
letters in order. For CARES:

	SERAC
	ERAC,S
	RAC,ES
	AC,RES
	C,ARES

All entries of the dictionary are sorted, deduplicated and compressed into a
minimal deterministic automaton. States with identical futures are shared, so
the index stays small even though it holds many entries per word.

To use it, call Build() with the word list. It returns an immutable *Index that
is safe to query from many goroutines at once.

	idx, err := gaddag.Build([]string{"CARES", "CARESS", "SERUM"})
	ok, _ := idx.Contains("CARES")          // true
	words, _ := idx.StartsWith("CARE")      // CARES, CARESS
	words, _ = idx.Substring("RUM")         // SERUM

Move generators that manage their own traversal use Root(), NodeForPrefix()
and Step(). These work on raw GADDAG-ordered bytes: the caller feeds the
reversed left part, crosses the Separator, then feeds the right part.

An index can be written with Write() or Save() and opened again with Load(),
Read() or FromBytes() without rebuilding it. A summary of the data format is
found at the top of disk.go.
*/
package gaddag
