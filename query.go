package gaddag

import (
	"fmt"
)

// Kind selects one of the enumerating query shapes.
type Kind int

const (
	// KindStartsWith finds words beginning with the query.
	KindStartsWith Kind = iota
	// KindEndsWith finds words ending with the query.
	KindEndsWith
	// KindSubstring finds words containing the query.
	KindSubstring
)

var kindNames = []string{"starts", "ends", "substring"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind converts "starts", "ends" or "substring" to a Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if s == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("gaddag: unknown query kind %q", s)
}

// Contains returns true if word is in the dictionary.
// Searches for exactly reverse(word).
func (idx *Index) Contains(word string) (bool, error) {
	if err := idx.alphabet.checkQuery(word); err != nil {
		return false, err
	}
	if word == "" {
		return false, nil
	}
	return idx.contains(reverse(word, 0)), nil
}

// StartsWith returns all the words that start with prefix and are longer
// than it. Searches for entries beginning with reverse(prefix) followed by
// the separator.
func (idx *Index) StartsWith(prefix string) ([]string, error) {
	words, _, err := idx.Lookup(KindStartsWith, prefix, 0)
	return words, err
}

// EndsWith returns all the words that end with suffix. Searches for entries
// beginning with reverse(suffix) that contain no separator.
func (idx *Index) EndsWith(suffix string) ([]string, error) {
	words, _, err := idx.Lookup(KindEndsWith, suffix, 0)
	return words, err
}

// Substring returns all the words that contain needle anywhere in them.
// Searches for entries beginning with reverse(needle). A word appears once
// even if needle occurs in it several times.
func (idx *Index) Substring(needle string) ([]string, error) {
	words, _, err := idx.Lookup(KindSubstring, needle, 0)
	return words, err
}

// Lookup runs a query of the given kind and returns at most limit words
// (all of them if limit <= 0). truncated reports whether more words
// matched. The order is the ascending order of the matched entries, so the
// same query against the same index always gives the same result.
func (idx *Index) Lookup(kind Kind, query string, limit int) (words []string, truncated bool, err error) {
	if err := idx.alphabet.checkQuery(query); err != nil {
		return nil, false, err
	}

	var anchor []byte
	skipSeparator := false
	dedup := false

	switch kind {
	case KindStartsWith:
		if query == "" {
			// nothing starts with a bare separator; every word is
			// found through its whole-entry instead.
			skipSeparator = true
		} else {
			anchor = reverse(query, 1)
			anchor[len(anchor)-1] = Separator
		}
	case KindEndsWith:
		anchor = reverse(query, 0)
		skipSeparator = true
	case KindSubstring:
		anchor = reverse(query, 0)
		dedup = true
	default:
		return nil, false, fmt.Errorf("gaddag: unknown query kind %d", int(kind))
	}

	node, ok := idx.NodeForPrefix(anchor)
	if !ok {
		return []string{}, false, nil
	}

	words = []string{}
	var seen map[string]struct{}
	if dedup {
		seen = make(map[string]struct{})
	}

	idx.Enumerate(node, anchor, func(entry []byte, final bool) EnumerationResult {
		if skipSeparator && len(entry) > len(anchor) && entry[len(entry)-1] == Separator {
			return Skip
		}
		if !final {
			return Continue
		}

		word := Demangle(entry)
		if dedup {
			if _, ok := seen[word]; ok {
				return Continue
			}
			seen[word] = struct{}{}
		}

		if limit > 0 && len(words) == limit {
			truncated = true
			return Stop
		}
		words = append(words, word)
		return Continue
	})

	return words, truncated, nil
}

// FrontHooks returns the letters that can be put in front of word to make
// another word, in ascending order.
func (idx *Index) FrontHooks(word string) ([]byte, error) {
	if err := idx.alphabet.checkQuery(word); err != nil {
		return nil, err
	}

	hooks := []byte{}
	node, ok := idx.NodeForPrefix(reverse(word, 0))
	if !ok {
		return hooks, nil
	}

	// reverse(word)+L is the whole-entry of L+word
	idx.Transitions(node, func(ch byte, next Node) {
		if ch != Separator && idx.final[next] {
			hooks = append(hooks, ch)
		}
	})
	return hooks, nil
}

// BackHooks returns the letters that can be put after word to make another
// word, in ascending order.
func (idx *Index) BackHooks(word string) ([]byte, error) {
	if word == "" {
		return idx.FrontHooks(word)
	}
	if err := idx.alphabet.checkQuery(word); err != nil {
		return nil, err
	}

	hooks := []byte{}
	anchor := reverse(word, 1)
	anchor[len(anchor)-1] = Separator
	node, ok := idx.NodeForPrefix(anchor)
	if !ok {
		return hooks, nil
	}

	// reverse(word)+SEP+L is the split-entry of word+L at len(word)
	idx.Transitions(node, func(ch byte, next Node) {
		if idx.final[next] {
			hooks = append(hooks, ch)
		}
	})
	return hooks, nil
}

// reverse returns s reversed, with room for extra trailing bytes.
func reverse(s string, extra int) []byte {
	n := len(s)
	out := make([]byte, n+extra)
	for i := 0; i < n; i++ {
		out[i] = s[n-1-i]
	}
	return out
}
