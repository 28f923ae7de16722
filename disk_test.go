package gaddag

import (
	"bytes"
	"encoding/binary"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTestIndex(t *testing.T) *Index {
	idx, err := Build([]string{"CARES", "CARESS", "SERUM", "AT", "CAT", "BAT"})
	require.NoError(t, err)
	return idx
}

func requireSameAnswers(t *testing.T, want, got *Index) {
	require.Equal(t, want.ID(), got.ID())
	require.Equal(t, want.NumWords(), got.NumWords())
	require.Equal(t, want.NumEntries(), got.NumEntries())
	require.Equal(t, want.NumNodes(), got.NumNodes())
	require.Equal(t, want.NumEdges(), got.NumEdges())
	require.Equal(t, want.MaxWordLength(), got.MaxWordLength())
	require.Equal(t, want.Alphabet().Letters(), got.Alphabet().Letters())

	for _, q := range []string{"", "A", "AT", "CARE", "ES", "RUM", "S", "ZZ"} {
		for kind := KindStartsWith; kind <= KindSubstring; kind++ {
			a, _, err := want.Lookup(kind, q, 0)
			require.NoError(t, err)
			b, _, err := got.Lookup(kind, q, 0)
			require.NoError(t, err)
			require.Equal(t, a, b, "%v %q", kind, q)
		}
		a, _ := want.Contains(q)
		b, _ := got.Contains(q)
		require.Equal(t, a, b, "Contains(%q)", q)
	}
}

func TestRoundTrip(t *testing.T) {
	idx := buildTestIndex(t)

	var buf bytes.Buffer
	n, err := idx.Write(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	loaded, err := FromBytes(buf.Bytes())
	require.NoError(t, err)
	requireSameAnswers(t, idx, loaded)

	// the encoding is stable
	again, err := loaded.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, buf.Bytes(), again)
}

func TestRoundTripEmpty(t *testing.T) {
	idx, err := Build(nil)
	require.NoError(t, err)

	data, err := idx.MarshalBinary()
	require.NoError(t, err)

	loaded, err := FromBytes(data)
	require.NoError(t, err)
	requireSameAnswers(t, idx, loaded)
}

func TestReadAtOffset(t *testing.T) {
	idx := buildTestIndex(t)
	data, err := idx.MarshalBinary()
	require.NoError(t, err)

	framed := append([]byte("some leading bytes"), data...)
	framed = append(framed, "and trailing ones"...)

	loaded, err := Read(bytes.NewReader(framed), int64(len("some leading bytes")))
	require.NoError(t, err)
	requireSameAnswers(t, idx, loaded)
}

// plainReaderAt hides every method but ReadAt, like an *os.File seen
// through io.ReaderAt.
type plainReaderAt struct {
	r io.ReaderAt
}

func (p plainReaderAt) ReadAt(b []byte, off int64) (int, error) {
	return p.r.ReadAt(b, off)
}

func TestReadSizeBeyondData(t *testing.T) {
	idx := buildTestIndex(t)
	data, err := idx.MarshalBinary()
	require.NoError(t, err)

	// claims close to 4 GiB while only a few hundred bytes exist
	binary.BigEndian.PutUint32(data[4:8], 0xfffffff0)
	_, err = Read(plainReaderAt{bytes.NewReader(data)}, 0)
	require.ErrorIs(t, err, ErrCorruptIndex)

	_, err = Read(bytes.NewReader(data), 0)
	require.ErrorIs(t, err, ErrCorruptIndex)

	good, err := idx.MarshalBinary()
	require.NoError(t, err)
	loaded, err := Read(plainReaderAt{bytes.NewReader(good)}, 0)
	require.NoError(t, err)
	requireSameAnswers(t, idx, loaded)
}

func TestSaveLoad(t *testing.T) {
	idx := buildTestIndex(t)
	filename := filepath.Join(t.TempDir(), "words.gaddag")

	n, err := idx.Save(filename)
	require.NoError(t, err)
	require.Positive(t, n)

	loaded, err := Load(filename)
	require.NoError(t, err)
	requireSameAnswers(t, idx, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.gaddag"))
	require.Error(t, err)
}

// reseal fixes up the checksum after a deliberate modification so that the
// structural checks are reached.
func reseal(data []byte) []byte {
	body := data[:len(data)-trailerBytes]
	binary.BigEndian.PutUint32(data[len(data)-trailerBytes:], checksum(body))
	return data
}

func TestCorruptIndex(t *testing.T) {
	idx := buildTestIndex(t)
	good, err := idx.MarshalBinary()
	require.NoError(t, err)

	clone := func() []byte { return append([]byte(nil), good...) }

	cases := map[string][]byte{
		"empty":     nil,
		"too short": good[:6],
		"magic": func() []byte {
			d := clone()
			d[0] = 'X'
			return d
		}(),
		"truncated": good[:len(good)-1],
		"checksum": func() []byte {
			d := clone()
			d[len(d)-1] ^= 0xff
			return d
		}(),
		"flipped bit": func() []byte {
			d := clone()
			d[len(d)/2] ^= 0x10
			return d
		}(),
		"version": func() []byte {
			d := clone()
			d[headerBytes] = 99
			return reseal(d)
		}(),
		"separator": func() []byte {
			d := clone()
			d[headerBytes+1] = ';'
			return reseal(d)
		}(),
		"alphabet with separator": func() []byte {
			d := clone()
			d[headerBytes+2+int(Separator>>3)] |= 1 << (Separator & 7)
			return reseal(d)
		}(),
		"size": func() []byte {
			d := clone()
			binary.BigEndian.PutUint32(d[4:8], uint32(len(d)+10))
			return d
		}(),
	}

	for name, data := range cases {
		_, err := FromBytes(data)
		require.ErrorIs(t, err, ErrCorruptIndex, name)
	}
}

func TestCorruptBackEdge(t *testing.T) {
	// hand-encode a two node file whose second node points back at the root
	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.Write([]byte{0, 0, 0, 0})
	w := newBitWriter(&buf)
	w.WriteBits(formatVersion, 8)
	w.WriteBits(uint64(Separator), 8)
	for _, b := range Uppercase.bitmap() {
		w.WriteBits(uint64(b), 8)
	}
	w.WriteBits(0, 128)
	w.WriteBits(7, 8) // cbits
	w.WriteBits(1, 8) // abits
	w.writeUnsigned(15)
	w.writeUnsigned(1)
	w.writeUnsigned(1)
	w.writeUnsigned(2)
	w.writeUnsigned(2)
	// root: A -> 1
	w.WriteBits(0, 1)
	w.writeUnsigned(1)
	w.WriteBits('A', 7)
	w.WriteBits(1, 1)
	// node 1: final, B -> 0
	w.WriteBits(1, 1)
	w.writeUnsigned(1)
	w.WriteBits('B', 7)
	w.WriteBits(0, 1)
	w.Flush()

	data := buf.Bytes()
	binary.BigEndian.PutUint32(data[4:8], uint32(len(data)+trailerBytes))
	data = binary.BigEndian.AppendUint32(data, checksum(data))

	_, err := FromBytes(data)
	require.ErrorIs(t, err, ErrCorruptIndex)
	require.Contains(t, err.Error(), "leads to node 0")
}

func TestDump(t *testing.T) {
	idx := buildTestIndex(t)

	var out strings.Builder
	idx.Dump(&out)
	require.Contains(t, out.String(), "WordCount=6")
	require.Contains(t, out.String(), "goto")
	require.Equal(t, idx.NumNodes(), strings.Count(out.String(), "Node final="))
}
