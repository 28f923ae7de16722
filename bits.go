package gaddag

import (
	"errors"
	"io"
)

type bitWriter struct {
	io.Writer
	cache uint8
	used  int
	err   error
}

// newBitWriter creates a new bitWriter from an io writer.
func newBitWriter(w io.Writer) *bitWriter {
	return &bitWriter{Writer: w}
}

func (w *bitWriter) WriteBits(data uint64, n int) error {
	var mask uint8
	for n > 0 && w.err == nil {
		written := n
		if written+w.used > 8 {
			written = 8 - w.used
		}

		mask = uint8(uint16(1<<(written)) - 1)
		w.used += written
		w.cache = (w.cache << written) | byte(data>>(n-written))&mask

		if w.used == 8 {
			_, w.err = w.Write([]byte{w.cache})
			w.used = 0
		}

		n -= written
	}
	return w.err
}

// writeUnsigned writes n as a 7code: big endian groups of 7 bits, each in
// one byte, with the top bit set on every byte but the last.
func (w *bitWriter) writeUnsigned(n uint64) error {
	var groups [10]byte
	i := len(groups) - 1
	groups[i] = byte(n & 0x7f)
	for n >>= 7; n > 0; n >>= 7 {
		i--
		groups[i] = byte(n&0x7f) | 0x80
	}
	for _, g := range groups[i:] {
		w.WriteBits(uint64(g), 8)
	}
	return w.err
}

func (w *bitWriter) Flush() error {
	if w.used > 0 && w.err == nil {
		_, w.err = w.Write([]byte{w.cache << (8 - w.used)})
		w.used = 0
	}
	return w.err
}

var maskTop = []byte{
	0xff,
	0x7f,
	0x3f,
	0x1f,
	0x0f,
	0x07,
	0x03,
	0x01,
	0x00,
}

var errShortRead = errors.New("read past end of data")

// bitSeeker reads bits from a given offset in bits. The first failed read is
// kept in err and every later read returns zero bits.
type bitSeeker struct {
	io.ReaderAt
	p      int64
	buffer []byte
	err    error
}

// newBitSeeker creates a new bitSeeker
func newBitSeeker(r io.ReaderAt) *bitSeeker {
	return &bitSeeker{ReaderAt: r, buffer: make([]byte, 1)}
}

func (r *bitSeeker) nextByte() byte {
	if r.err != nil {
		return 0
	}
	if n, err := r.ReadAt(r.buffer, r.p>>3); n != 1 {
		if err == nil || err == io.EOF {
			err = errShortRead
		}
		r.err = err
		return 0
	}
	return r.buffer[0]
}

func (r *bitSeeker) ReadBits(n int64) uint64 {
	if n == 0 {
		return 0
	}

	if r.p&7+n <= 8 {
		ret := uint64((r.nextByte() & maskTop[r.p&7]) >> (8 - r.p&7 - n))
		r.p += n
		return ret
	}

	// case 2: bits lie incompletely in the given byte
	var result uint64
	result = uint64((r.nextByte() & maskTop[r.p&7]))

	l := 8 - r.p&7
	r.p += l
	n -= l

	for n >= 8 {
		result = (result << 8) | uint64(r.nextByte())
		r.p += 8
		n -= 8
	}

	if n > 0 {
		result = (result << n) | uint64(r.nextByte()>>(8-n))
		r.p += n
	}

	return result
}

// readUnsigned reads a 7code written by writeUnsigned. Values that do not
// fit in 64 bits set err.
func (r *bitSeeker) readUnsigned() uint64 {
	var result uint64
	for i := 0; ; i++ {
		if i == 10 {
			if r.err == nil {
				r.err = errors.New("7code too long")
			}
			return 0
		}
		d := r.ReadBits(8)
		result = (result << 7) | d&0x7f
		if d&0x80 == 0 {
			break
		}
	}
	return result
}

func (r *bitSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		r.p = offset
	case io.SeekCurrent:
		r.p += offset
	default:
		return r.p, errors.New("bitSeeker: unsupported whence")
	}
	return r.p, nil
}

func (r *bitSeeker) Tell() int64 {
	return r.p
}
