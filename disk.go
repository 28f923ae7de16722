package gaddag

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
	"os"

	"github.com/google/uuid"
	"golang.org/x/exp/mmap"
)

/* FILE FORMAT
- 4 bytes: magic "GDAG"
- 4 bytes: total size of the file in bytes, big endian, including the checksum
- then a bit stream:
	- 8 bits: format version
	- 8 bits: separator byte
	- 256 bits: alphabet, bit b (LSB first within each byte) set if byte b is allowed
	- 128 bits: build id
	- 8 bits: cbits, the number of bits to represent a transition byte
	- 8 bits: abits, the number of bits to represent a node index
	- 7code: maximum word length
	- 7code: number of words
	- 7code: number of entries
	- 7code: number of nodes
	- 7code: number of edges
	- for each node, in index order (root first):
		- 1 bit: is node final?
		- 7code: number of edges
		- for each edge, ascending by character:
			cbits: character
			abits: index of the node to jump to
	- padding to a byte boundary
- 4 bytes: FNV-1a checksum of everything before it, big endian

Every edge leads to a node with a higher index than the one it leaves, so a
valid file never describes a cycle.

We define 7code to be an unsigned that can be read the following way:

result = 0
for {
	data = next 8 bits
	result = result << 7 | data & 0x7f
	if data & 0x80 == 0 break
}

*/

const (
	magic         = "GDAG"
	formatVersion = 1
	headerBytes   = 8
	trailerBytes  = 4
)

// Save writes the index to disk. Returns the number of bytes written
func (idx *Index) Save(filename string) (int64, error) {
	f, err := os.Create(filename)
	if err != nil {
		return 0, err
	}

	n, err := idx.Write(f)
	if err != nil {
		f.Close()
		return n, err
	}
	return n, f.Close()
}

// Write writes the index to an io.Writer. Returns the number of bytes written
func (idx *Index) Write(w io.Writer) (int64, error) {
	data, err := idx.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// MarshalBinary encodes the index in the format described above.
func (idx *Index) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.Write([]byte{0, 0, 0, 0}) // size, filled in below

	var maxChar byte
	for _, ch := range idx.chars {
		if ch > maxChar {
			maxChar = ch
		}
	}
	cbits := bits.Len8(maxChar)
	abits := bits.Len(uint(idx.NumNodes() - 1))
	if abits == 0 {
		abits = 1
	}

	w := newBitWriter(&buf)
	w.WriteBits(formatVersion, 8)
	w.WriteBits(uint64(Separator), 8)
	for _, b := range idx.alphabet.bitmap() {
		w.WriteBits(uint64(b), 8)
	}
	for _, b := range idx.id {
		w.WriteBits(uint64(b), 8)
	}
	w.WriteBits(uint64(cbits), 8)
	w.WriteBits(uint64(abits), 8)
	w.writeUnsigned(uint64(idx.maxWordLength))
	w.writeUnsigned(uint64(idx.numWords))
	w.writeUnsigned(uint64(idx.numEntries))
	w.writeUnsigned(uint64(idx.NumNodes()))
	w.writeUnsigned(uint64(idx.NumEdges()))

	for node := range idx.final {
		if idx.final[node] {
			w.WriteBits(1, 1)
		} else {
			w.WriteBits(0, 1)
		}

		lo, hi := idx.first[node], idx.first[node+1]
		w.writeUnsigned(uint64(hi - lo))
		for i := lo; i < hi; i++ {
			w.WriteBits(uint64(idx.chars[i]), cbits)
			w.WriteBits(uint64(idx.targets[i]), abits)
		}
	}

	if err := w.Flush(); err != nil {
		return nil, err
	}

	data := buf.Bytes()
	size := len(data) + trailerBytes
	if uint64(size) > 0xffffffff {
		return nil, fmt.Errorf("gaddag: index too large to write (%d bytes)", size)
	}
	binary.BigEndian.PutUint32(data[4:8], uint32(size))
	data = binary.BigEndian.AppendUint32(data, checksum(data))

	return data, nil
}

// Load loads the index from a file
func Load(filename string) (*Index, error) {
	f, err := mmap.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f, 0)
}

// Read decodes an index stored at offset in the given io.ReaderAt.
func Read(f io.ReaderAt, offset int64) (*Index, error) {
	var header [headerBytes]byte
	if _, err := f.ReadAt(header[:], offset); err != nil {
		return nil, corrupt("reading header: %v", err)
	}
	if string(header[:4]) != magic {
		return nil, corrupt("bad magic %q", header[:4])
	}

	size := int64(binary.BigEndian.Uint32(header[4:]))
	if size < headerBytes+trailerBytes {
		return nil, corrupt("bad size %d", size)
	}
	if l, ok := f.(interface{ Len() int }); ok && offset+size > int64(l.Len()) {
		return nil, corrupt("size %d exceeds the %d bytes available", size, int64(l.Len())-offset)
	}

	// the buffer grows with the bytes actually present, not with the size
	// the header claims
	data, err := io.ReadAll(io.NewSectionReader(f, offset, size))
	if err != nil {
		return nil, corrupt("reading %d bytes: %v", size, err)
	}
	if int64(len(data)) != size {
		return nil, corrupt("size %d exceeds the %d bytes available", size, len(data))
	}

	return FromBytes(data)
}

// FromBytes decodes an index from its binary form. The slice is not
// retained.
func FromBytes(data []byte) (*Index, error) {
	if len(data) < headerBytes+trailerBytes {
		return nil, corrupt("%d bytes is too short", len(data))
	}
	if string(data[:4]) != magic {
		return nil, corrupt("bad magic %q", data[:4])
	}

	size := int(binary.BigEndian.Uint32(data[4:8]))
	if size < headerBytes+trailerBytes || size > len(data) {
		return nil, corrupt("size %d does not match %d bytes of data", size, len(data))
	}
	data = data[:size]

	body := data[:size-trailerBytes]
	if sum := binary.BigEndian.Uint32(data[size-trailerBytes:]); sum != checksum(body) {
		return nil, corrupt("checksum mismatch")
	}

	return decode(body)
}

func decode(body []byte) (*Index, error) {
	r := newBitSeeker(bytes.NewReader(body))
	r.Seek(headerBytes*8, io.SeekStart)

	if v := r.ReadBits(8); v != formatVersion {
		return nil, corrupt("unsupported version %d", v)
	}
	if sep := byte(r.ReadBits(8)); sep != Separator {
		return nil, corrupt("separator %q, expected %q", sep, Separator)
	}

	var bitmap [32]byte
	for i := range bitmap {
		bitmap[i] = byte(r.ReadBits(8))
	}
	var id uuid.UUID
	for i := range id {
		id[i] = byte(r.ReadBits(8))
	}

	cbits := int64(r.ReadBits(8))
	abits := int64(r.ReadBits(8))
	maxWordLength := r.readUnsigned()
	numWords := r.readUnsigned()
	numEntries := r.readUnsigned()
	numNodes := r.readUnsigned()
	numEdges := r.readUnsigned()
	if r.err != nil {
		return nil, corrupt("reading header: %v", r.err)
	}

	// every node takes at least 9 bits and every edge at least abits, so
	// counts larger than the data allows are rejected before allocating.
	available := uint64(len(body)) * 8
	switch {
	case cbits > 8:
		return nil, corrupt("cbits %d", cbits)
	case abits < 1 || abits > 32:
		return nil, corrupt("abits %d", abits)
	case numNodes < 1 || numNodes > available/9:
		return nil, corrupt("node count %d", numNodes)
	case numEdges > available/uint64(abits):
		return nil, corrupt("edge count %d", numEdges)
	case maxWordLength < 1 || numWords > numEntries:
		return nil, corrupt("word length %d, %d words, %d entries", maxWordLength, numWords, numEntries)
	}

	alphabet, err := alphabetFromBitmap(bitmap)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		id:            id,
		alphabet:      alphabet,
		maxWordLength: int(maxWordLength),
		numWords:      int(numWords),
		numEntries:    int(numEntries),
		final:         make([]bool, numNodes),
		first:         make([]uint32, numNodes+1),
		chars:         make([]byte, 0, numEdges),
		targets:       make([]uint32, 0, numEdges),
	}

	for node := uint64(0); node < numNodes; node++ {
		idx.final[node] = r.ReadBits(1) == 1
		idx.first[node] = uint32(len(idx.chars))

		count := r.readUnsigned()
		if r.err != nil {
			return nil, corrupt("node %d: %v", node, r.err)
		}
		if count > numEdges-uint64(len(idx.chars)) {
			return nil, corrupt("node %d has %d edges, more than declared", node, count)
		}

		for i := uint64(0); i < count; i++ {
			ch := byte(r.ReadBits(cbits))
			target := r.ReadBits(abits)
			if i > 0 && ch <= idx.chars[len(idx.chars)-1] {
				return nil, corrupt("node %d: edges not in ascending order", node)
			}
			if target <= node || target >= numNodes {
				return nil, corrupt("node %d: edge %q leads to node %d", node, ch, target)
			}
			idx.chars = append(idx.chars, ch)
			idx.targets = append(idx.targets, uint32(target))
		}
	}
	idx.first[numNodes] = uint32(len(idx.chars))

	if r.err != nil {
		return nil, corrupt("reading nodes: %v", r.err)
	}
	if uint64(len(idx.chars)) != numEdges {
		return nil, corrupt("found %d edges, header declares %d", len(idx.chars), numEdges)
	}
	if (r.Tell()+7)/8 != int64(len(body)) {
		return nil, corrupt("%d trailing bytes", int64(len(body))-(r.Tell()+7)/8)
	}

	return idx, nil
}

// Dump prints out the header and every node of the index
func (idx *Index) Dump(w io.Writer) {
	fmt.Fprintf(w, "ID=%v\n", idx.id)
	fmt.Fprintf(w, "Alphabet=%q MaxWordLength=%d\n", idx.alphabet.Letters(), idx.maxWordLength)
	fmt.Fprintf(w, "WordCount=%d EntryCount=%d\n", idx.numWords, idx.numEntries)
	fmt.Fprintf(w, "NodeCount=%d EdgeCount=%d\n", idx.NumNodes(), idx.NumEdges())

	for node := range idx.final {
		final := 0
		if idx.final[node] {
			final = 1
		}
		lo, hi := idx.first[node], idx.first[node+1]
		fmt.Fprintf(w, "[%08d] Node final=%d has %d edges\n", node, final, hi-lo)
		for i := lo; i < hi; i++ {
			fmt.Fprintf(w, "           '%c' goto <%08d>\n", rune(idx.chars[i]), idx.targets[i])
		}
	}
}
