package gaddag

// Node is the address of a state in an Index. It is only valid for the index
// it was obtained from (see ID).
type Node uint32

// Root returns the start state.
func (idx *Index) Root() Node {
	return rootNode
}

// NodeForPrefix walks from the root consuming path exactly as given, in
// GADDAG order: the caller reverses the left part and inserts the
// Separator itself. It returns false if the walk fails partway. The
// reached state does not have to be final.
func (idx *Index) NodeForPrefix(path []byte) (Node, bool) {
	return idx.walk(rootNode, path)
}

// Step follows the transition labelled ch out of node. The Separator is an
// ordinary transition here.
func (idx *Index) Step(node Node, ch byte) (Node, bool) {
	if int(node) >= idx.NumNodes() {
		return 0, false
	}

	lo, hi := int(idx.first[node]), int(idx.first[node+1])
	i := lo + bsearch(hi-lo, func(i int) int {
		return int(idx.chars[lo+i]) - int(ch)
	})
	if i < hi && idx.chars[i] == ch {
		return Node(idx.targets[i]), true
	}
	return 0, false
}

// IsFinal returns true if the path from the root to node spells a complete
// entry.
func (idx *Index) IsFinal(node Node) bool {
	return int(node) < idx.NumNodes() && idx.final[node]
}

// Transitions calls fn for every transition out of node in ascending byte
// order.
func (idx *Index) Transitions(node Node, fn func(ch byte, next Node)) {
	if int(node) >= idx.NumNodes() {
		return
	}
	for i := idx.first[node]; i < idx.first[node+1]; i++ {
		fn(idx.chars[i], Node(idx.targets[i]))
	}
}

/** @param cmp returns cmp(i, target); the result is the matching position,
or the position where target would be inserted. */
func bsearch(count int, cmp func(i int) int) int {
	high := count
	low := -1
	var match, probe int
	for high-low > 1 {
		probe = (high + low) >> 1

		match = cmp(probe)

		if match == 0 {
			return probe
		} else if match < 0 {
			low = probe
		} else {
			high = probe
		}
	}

	return high
}
