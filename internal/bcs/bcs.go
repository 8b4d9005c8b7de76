// Package bcs implements the subset of Binary Canonical Serialization
// needed to read Move ABI descriptors and to build transaction payloads.
//
// Integers are little-endian, sequence and string lengths and enum variant
// indices are ULEB128, and booleans are a single 0 or 1 byte.
package bcs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"
)

// MaxSequenceLength bounds decoded lengths so a corrupt prefix cannot
// trigger a huge allocation.
const MaxSequenceLength = 1<<31 - 1

var (
	ErrUnexpectedEOF   = errors.New("bcs: unexpected end of input")
	ErrInvalidBool     = errors.New("bcs: invalid bool")
	ErrInvalidUTF8     = errors.New("bcs: invalid utf-8 string")
	ErrLengthOverflow  = errors.New("bcs: length overflow")
	ErrNonCanonicalLEB = errors.New("bcs: non-canonical uleb128")
	ErrTrailingBytes   = errors.New("bcs: trailing bytes")
)

// Reader decodes BCS values from a byte slice.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Offset returns the current read position.
func (r *Reader) Offset() int { return r.pos }

// Finish reports an error when unread bytes remain.
func (r *Reader) Finish() error {
	if r.Remaining() != 0 {
		return fmt.Errorf("%w: %d byte(s) at offset %d", ErrTrailingBytes, r.Remaining(), r.pos)
	}
	return nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d byte(s) at offset %d", ErrUnexpectedEOF, n, r.pos)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// U8 reads one byte.
func (r *Reader) U8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Bool reads a strict 0/1 byte.
func (r *Reader) Bool() (bool, error) {
	b, err := r.U8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: 0x%02x", ErrInvalidBool, b)
	}
}

// U16 reads a little-endian uint16.
func (r *Reader) U16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// U128 reads a little-endian 128-bit unsigned integer.
func (r *Reader) U128() (*big.Int, error) {
	b, err := r.take(16)
	if err != nil {
		return nil, err
	}
	be := make([]byte, 16)
	for i := range b {
		be[15-i] = b[i]
	}
	return new(big.Int).SetBytes(be), nil
}

// ULEB128 reads an unsigned LEB128 value that fits in 32 bits, rejecting
// non-canonical encodings.
func (r *Reader) ULEB128() (uint32, error) {
	var value uint64
	for shift := uint(0); shift < 32; shift += 7 {
		b, err := r.U8()
		if err != nil {
			return 0, err
		}
		digit := uint64(b & 0x7f)
		value |= digit << shift
		if b&0x80 == 0 {
			if shift > 0 && digit == 0 {
				return 0, ErrNonCanonicalLEB
			}
			if value > 1<<32-1 {
				return 0, ErrLengthOverflow
			}
			return uint32(value), nil
		}
	}
	return 0, ErrLengthOverflow
}

// Length reads a sequence length.
func (r *Reader) Length() (int, error) {
	n, err := r.ULEB128()
	if err != nil {
		return 0, err
	}
	if n > MaxSequenceLength {
		return 0, fmt.Errorf("%w: %d", ErrLengthOverflow, n)
	}
	return int(n), nil
}

// VariantIndex reads an enum discriminant.
func (r *Reader) VariantIndex() (uint32, error) {
	return r.ULEB128()
}

// Bytes reads a length-prefixed byte sequence. The result is a copy.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Length()
	if err != nil {
		return nil, err
	}
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// FixedBytes reads exactly n bytes without a length prefix.
func (r *Reader) FixedBytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// String reads a length-prefixed UTF-8 string.
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// Option reads the presence tag of an optional value.
func (r *Reader) Option() (bool, error) {
	return r.Bool()
}

// Writer encodes BCS values into an in-memory buffer.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the encoded output.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) U8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

func (w *Writer) Bool(v bool) *Writer {
	if v {
		return w.U8(1)
	}
	return w.U8(0)
}

func (w *Writer) U16(v uint16) *Writer {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
	return w
}

func (w *Writer) U32(v uint32) *Writer {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	return w
}

func (w *Writer) U64(v uint64) *Writer {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	return w
}

// U128 writes v as 16 little-endian bytes. v must be non-negative and fit
// in 128 bits.
func (w *Writer) U128(v *big.Int) *Writer {
	be := v.FillBytes(make([]byte, 16))
	for i := 15; i >= 0; i-- {
		w.buf = append(w.buf, be[i])
	}
	return w
}

func (w *Writer) ULEB128(v uint32) *Writer {
	for v >= 0x80 {
		w.buf = append(w.buf, byte(v)|0x80)
		v >>= 7
	}
	w.buf = append(w.buf, byte(v))
	return w
}

func (w *Writer) Length(n int) *Writer {
	return w.ULEB128(uint32(n))
}

func (w *Writer) VariantIndex(i uint32) *Writer {
	return w.ULEB128(i)
}

// ByteSeq writes a length-prefixed byte sequence.
func (w *Writer) ByteSeq(b []byte) *Writer {
	w.Length(len(b))
	w.buf = append(w.buf, b...)
	return w
}

// FixedBytes writes b with no length prefix.
func (w *Writer) FixedBytes(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

func (w *Writer) String(s string) *Writer {
	return w.ByteSeq([]byte(s))
}
