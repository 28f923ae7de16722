package gaddag

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

type edge struct {
	ch   byte
	node int
}

type state struct {
	final bool
	edges []edge // ascending by ch
}

type uncheckedNode struct {
	parent int
	ch     byte
	child  int
}

const rootNode = 0

// builder turns a sorted sequence of entries into a minimal automaton. States
// live in an arena and refer to each other by index.
type builder struct {
	lastEntry      []byte
	states         []state
	uncheckedNodes []uncheckedNode
	minimizedNodes map[string]int
	numAdded       int
	numWords       int
	name           []byte
}

func newBuilder() *builder {
	return &builder{
		states:         []state{{}},
		minimizedNodes: make(map[string]int),
	}
}

// add adds an entry to the automaton. Entries must be added in strictly
// increasing byte order.
func (b *builder) add(entry []byte) error {
	if len(entry) == 0 {
		return errors.New("empty entry")
	}
	if b.numAdded > 0 && bytes.Compare(entry, b.lastEntry) <= 0 {
		return fmt.Errorf("entries not in order: %q after %q", entry, b.lastEntry)
	}

	// find common prefix between entry and previous entry
	commonPrefix := 0
	for i := 0; i < min(len(entry), len(b.lastEntry)); i++ {
		if entry[i] != b.lastEntry[i] {
			break
		}
		commonPrefix++
	}

	// Check the uncheckedNodes for redundant nodes, proceeding from last
	// one down to the common prefix size. Then truncate the list at that
	// point.
	b.minimize(commonPrefix)

	// add the suffix, starting from the correct node mid-way through the
	// graph
	var node int
	if len(b.uncheckedNodes) == 0 {
		node = rootNode
	} else {
		node = b.uncheckedNodes[len(b.uncheckedNodes)-1].child
	}

	for _, ch := range entry[commonPrefix:] {
		next := b.newNode()
		b.states[node].edges = append(b.states[node].edges, edge{ch: ch, node: next})
		b.uncheckedNodes = append(b.uncheckedNodes, uncheckedNode{node, ch, next})
		node = next
	}

	b.states[node].final = true
	b.lastEntry = entry
	b.numAdded++
	if bytes.IndexByte(entry, Separator) < 0 {
		b.numWords++
	}
	return nil
}

func (b *builder) newNode() int {
	b.states = append(b.states, state{})
	return len(b.states) - 1
}

func (b *builder) minimize(downTo int) {
	// proceed from the leaf up to a certain point
	for i := len(b.uncheckedNodes) - 1; i >= downTo; i-- {
		u := b.uncheckedNodes[i]
		name := b.nameOf(u.child)
		if node, ok := b.minimizedNodes[string(name)]; ok {
			// replace the child with the previously encountered one
			b.replaceChild(u.parent, u.ch, node)
		} else {
			// add the state to the minimized nodes.
			b.minimizedNodes[string(name)] = u.child
		}
	}

	b.uncheckedNodes = b.uncheckedNodes[:downTo]
}

// nameOf encodes the final flag and the outgoing edges of a node. Two
// nodes with the same name accept the same set of suffixes because their
// children are already minimized.
func (b *builder) nameOf(node int) []byte {
	name := b.name[:0]
	if b.states[node].final {
		name = append(name, 1)
	} else {
		name = append(name, 0)
	}
	for _, e := range b.states[node].edges {
		name = append(name, e.ch)
		name = binary.AppendUvarint(name, uint64(e.node))
	}
	b.name = name
	return name
}

func (b *builder) replaceChild(parent int, ch byte, child int) {
	edges := b.states[parent].edges

	// Sorted input means the unchecked edge is always the last one.
	last := len(edges) - 1
	if edges[last].ch != ch {
		for last = range edges {
			if edges[last].ch == ch {
				break
			}
		}
	}

	// release the duplicate to save memory
	old := edges[last].node
	b.states[old] = state{}

	edges[last].node = child
}

// finish minimizes what remains and renumbers the surviving states so that
// every edge leads from a lower to a higher index, with the root at 0.
func (b *builder) finish() *Index {
	b.minimize(0)

	order := b.topologicalOrder()
	b.minimizedNodes = nil
	b.lastEntry = nil

	remap := make([]uint32, len(b.states))
	for i, old := range order {
		remap[old] = uint32(i)
	}

	idx := &Index{
		numWords:   b.numWords,
		numEntries: b.numAdded,
		final:      make([]bool, len(order)),
		first:      make([]uint32, len(order)+1),
	}

	for i, old := range order {
		s := b.states[old]
		idx.final[i] = s.final
		idx.first[i] = uint32(len(idx.chars))
		for _, e := range s.edges {
			idx.chars = append(idx.chars, e.ch)
			idx.targets = append(idx.targets, remap[e.node])
		}
	}
	idx.first[len(order)] = uint32(len(idx.chars))

	b.states = nil
	return idx
}

// topologicalOrder returns the reachable states in reverse post-order of a
// depth first search from the root.
func (b *builder) topologicalOrder() []int {
	visited := make([]bool, len(b.states))
	post := make([]int, 0, len(b.minimizedNodes)+1)

	var visit func(node int)
	visit = func(node int) {
		visited[node] = true
		for _, e := range b.states[node].edges {
			if !visited[e.node] {
				visit(e.node)
			}
		}
		post = append(post, node)
	}
	visit(rootNode)

	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}
