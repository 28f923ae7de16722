package gaddag_test

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/milden6/gaddag"
)

func TestQueriesCaresSerum(t *testing.T) {
	idx, err := gaddag.Build([]string{"CARES", "CARESS", "SERUM"})
	require.NoError(t, err)

	ok, err := idx.Contains("CARES")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = idx.Contains("CARE")
	require.NoError(t, err)
	require.False(t, ok)

	words, err := idx.EndsWith("ES")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"CARES"}, words)

	words, err = idx.StartsWith("CARE")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"CARES", "CARESS"}, words)

	words, err = idx.Substring("RUM")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"SERUM"}, words)

	words, err = idx.Substring("AR")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"CARES", "CARESS"}, words)
}

func TestEmptyQueries(t *testing.T) {
	all := []string{"CARES", "CARESS", "SERUM"}
	idx, err := gaddag.Build(all)
	require.NoError(t, err)

	ok, err := idx.Contains("")
	require.NoError(t, err)
	require.False(t, ok)

	for name, query := range map[string]func(string) ([]string, error){
		"starts":    idx.StartsWith,
		"ends":      idx.EndsWith,
		"substring": idx.Substring,
	} {
		words, err := query("")
		require.NoError(t, err, name)
		require.ElementsMatch(t, all, words, name)
	}
}

func TestEmptyDictionary(t *testing.T) {
	idx, err := gaddag.Build(nil)
	require.NoError(t, err)
	require.Equal(t, 0, idx.NumWords())
	require.Equal(t, 1, idx.NumNodes())

	ok, err := idx.Contains("A")
	require.NoError(t, err)
	require.False(t, ok)

	for _, q := range []string{"", "A", "XYZ"} {
		for _, query := range []func(string) ([]string, error){idx.StartsWith, idx.EndsWith, idx.Substring} {
			words, err := query(q)
			require.NoError(t, err)
			require.Empty(t, words)
			require.NotNil(t, words)
		}
	}
}

func TestEndsWithIsExact(t *testing.T) {
	words := []string{"TRING", "STRING", "STRINGS", "RING", "RINGER", "GRINGO", "TRINGLE"}
	idx, err := gaddag.Build(words)
	require.NoError(t, err)

	for _, suffix := range []string{"G", "NG", "ING", "RING", "TRING", "S", "O", "ER"} {
		found, err := idx.EndsWith(suffix)
		require.NoError(t, err)
		var want []string
		for _, w := range words {
			if strings.HasSuffix(w, suffix) {
				want = append(want, w)
			}
		}
		require.ElementsMatch(t, want, found, "EndsWith(%q)", suffix)
	}
}

func TestStartsWithAndSubstringMatchBruteForce(t *testing.T) {
	words := []string{"BANANA", "BANDANA", "CABANA", "NAAN", "ANA", "AN", "A", "BAN"}
	idx, err := gaddag.Build(words)
	require.NoError(t, err)

	for _, q := range []string{"A", "AN", "ANA", "BAN", "NA", "NAN", "B", "Z"} {
		var starts, subs []string
		for _, w := range words {
			if strings.HasPrefix(w, q) && len(w) > len(q) {
				starts = append(starts, w)
			}
			if strings.Contains(w, q) {
				subs = append(subs, w)
			}
		}

		found, err := idx.StartsWith(q)
		require.NoError(t, err)
		require.ElementsMatch(t, starts, found, "StartsWith(%q)", q)

		found, err = idx.Substring(q)
		require.NoError(t, err)
		require.ElementsMatch(t, subs, found, "Substring(%q)", q)
	}
}

func TestQueriesAreDeterministic(t *testing.T) {
	idx, err := gaddag.Build([]string{"BANANA", "BANDANA", "CABANA", "NAAN"})
	require.NoError(t, err)

	first, err := idx.Substring("AN")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := idx.Substring("AN")
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestConcurrentReaders(t *testing.T) {
	words := []string{"BANANA", "BANDANA", "CABANA", "NAAN", "ANA", "AN", "A", "BAN",
		"CARES", "CARESS", "SERUM", "SCARE", "RECAST"}
	idx, err := gaddag.Build(words)
	require.NoError(t, err)

	queries := []string{"", "A", "AN", "ANA", "BAN", "NA", "RE", "ES", "Z"}
	type answer struct {
		words     []string
		truncated bool
	}
	want := make(map[string]answer)
	for _, q := range queries {
		for kind := gaddag.KindStartsWith; kind <= gaddag.KindSubstring; kind++ {
			found, truncated, err := idx.Lookup(kind, q, 3)
			require.NoError(t, err)
			want[kind.String()+q] = answer{found, truncated}
		}
	}
	var entries []string
	idx.Enumerate(idx.Root(), nil, func(entry []byte, final bool) gaddag.EnumerationResult {
		if final {
			entries = append(entries, string(entry))
		}
		return gaddag.Continue
	})

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			for round := 0; round < 20; round++ {
				for _, w := range words {
					ok, err := idx.Contains(w)
					if err != nil || !ok {
						return fmt.Errorf("Contains(%q) = %v, %v", w, ok, err)
					}

					node, ok := idx.Root(), true
					for j := len(w) - 1; j >= 0 && ok; j-- {
						node, ok = idx.Step(node, w[j])
					}
					if !ok || !idx.IsFinal(node) {
						return fmt.Errorf("Step could not spell reverse(%q)", w)
					}
				}

				for _, q := range queries {
					for kind := gaddag.KindStartsWith; kind <= gaddag.KindSubstring; kind++ {
						found, truncated, err := idx.Lookup(kind, q, 3)
						if err != nil {
							return err
						}
						expected := want[kind.String()+q]
						if !slices.Equal(found, expected.words) || truncated != expected.truncated {
							return fmt.Errorf("Lookup(%v, %q) = %v, want %v", kind, q, found, expected.words)
						}
					}
				}

				var seen []string
				idx.Enumerate(idx.Root(), nil, func(entry []byte, final bool) gaddag.EnumerationResult {
					if final {
						seen = append(seen, string(entry))
					}
					return gaddag.Continue
				})
				if !slices.Equal(seen, entries) {
					return errors.New("Enumerate visited different entries")
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestInvalidQueries(t *testing.T) {
	idx, err := gaddag.Build([]string{"CARES"})
	require.NoError(t, err)

	for _, q := range []string{"CA,RES", "cares", "CAR3S", ","} {
		_, err := idx.Contains(q)
		require.ErrorIs(t, err, gaddag.ErrInvalidQuery)

		_, err = idx.StartsWith(q)
		require.ErrorIs(t, err, gaddag.ErrInvalidQuery)

		_, err = idx.EndsWith(q)
		require.ErrorIs(t, err, gaddag.ErrInvalidQuery)

		_, err = idx.Substring(q)
		require.ErrorIs(t, err, gaddag.ErrInvalidQuery)

		var qerr *gaddag.QueryError
		require.True(t, errors.As(err, &qerr))
		require.Equal(t, q, qerr.Query)
	}
}

func TestLookupLimit(t *testing.T) {
	idx, err := gaddag.Build([]string{"AB", "AC", "AD", "AE"})
	require.NoError(t, err)

	words, truncated, err := idx.Lookup(gaddag.KindStartsWith, "A", 2)
	require.NoError(t, err)
	require.True(t, truncated)
	require.Equal(t, []string{"AB", "AC"}, words)

	words, truncated, err = idx.Lookup(gaddag.KindStartsWith, "A", 4)
	require.NoError(t, err)
	require.False(t, truncated)
	require.Len(t, words, 4)

	_, _, err = idx.Lookup(gaddag.Kind(42), "A", 0)
	require.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for _, k := range []gaddag.Kind{gaddag.KindStartsWith, gaddag.KindEndsWith, gaddag.KindSubstring} {
		parsed, err := gaddag.ParseKind(k.String())
		require.NoError(t, err)
		require.Equal(t, k, parsed)
	}

	_, err := gaddag.ParseKind("regex")
	require.Error(t, err)
}

func TestHooks(t *testing.T) {
	idx, err := gaddag.Build([]string{"AT", "CAT", "BAT", "ATE", "ATS", "A"})
	require.NoError(t, err)

	front, err := idx.FrontHooks("AT")
	require.NoError(t, err)
	require.Equal(t, "BC", string(front))

	back, err := idx.BackHooks("AT")
	require.NoError(t, err)
	require.Equal(t, "ES", string(back))

	back, err = idx.BackHooks("ZZ")
	require.NoError(t, err)
	require.Empty(t, back)

	single, err := idx.BackHooks("")
	require.NoError(t, err)
	require.Equal(t, "A", string(single))

	_, err = idx.FrontHooks("A,T")
	require.ErrorIs(t, err, gaddag.ErrInvalidQuery)
}
