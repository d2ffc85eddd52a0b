// Package wire implements the SUPLA-lite binary record codec: fixed-width
// integers, fixed and length-prefixed byte/string fields, enums, nested
// records, and length-prefixed arrays with a max_size bound.
//
// Records are hand-written Go structs with Encode/Decode methods built on
// top of the Encoder/Decoder primitives in this file, rather than derived
// by reflection, because the source's decorator-driven reflective
// dispatch does not translate into idiomatic Go.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package wire

import (
	"encoding/binary"

	"github.com/suplalite/suplalite/cmn/errs"
)

// Encoder accumulates field writes in declared order. A size field that
// must sit at a different offset than immediately before its value can be
// reserved with Reserve and filled in with PatchU8At/PatchU32At once the
// true length is known; the records in this package all write their size
// fields immediately before the value.
type Encoder struct {
	buf []byte
}

func NewEncoder(sizeHint int) *Encoder {
	return &Encoder{buf: make([]byte, 0, sizeHint)}
}

func (e *Encoder) Bytes() []byte { return e.buf }
func (e *Encoder) Len() int      { return len(e.buf) }

func (e *Encoder) U8(v uint8)  { e.buf = append(e.buf, v) }
func (e *Encoder) I8(v int8)   { e.U8(uint8(v)) }
func (e *Encoder) Bool(v bool) { e.U8(boolToU8(v)) }

func (e *Encoder) U16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) U32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *Encoder) I32(v int32) { e.U32(uint32(v)) }

func (e *Encoder) U64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

// FixedBytes writes exactly n bytes, truncating or zero-padding v.
func (e *Encoder) FixedBytes(v []byte, n int) {
	tmp := make([]byte, n)
	copy(tmp, v)
	e.buf = append(e.buf, tmp...)
}

// LenBytes writes a length-prefixed (u16) byte string.
func (e *Encoder) LenBytes(v []byte) {
	e.U16(uint16(len(v)))
	e.buf = append(e.buf, v...)
}

// FixedString writes a null-terminated string into exactly n bytes
// (truncated if too long; the final byte is always reserved for NUL).
func (e *Encoder) FixedString(s string, n int) {
	tmp := make([]byte, n)
	b := []byte(s)
	if len(b) > n-1 {
		b = b[:n-1]
	}
	copy(tmp, b)
	e.buf = append(e.buf, tmp...)
}

// LenString writes a length-prefixed (u8) string, max bounded by the
// caller at construction time (callers validate max_size before encoding).
func (e *Encoder) LenString(s string) {
	b := []byte(s)
	if len(b) > 255 {
		b = b[:255]
	}
	e.U8(uint8(len(b)))
	e.buf = append(e.buf, b...)
}

// Reserve appends n zero bytes and returns the offset, so a caller can
// patch in a size field once known.
func (e *Encoder) Reserve(n int) int {
	off := len(e.buf)
	e.buf = append(e.buf, make([]byte, n)...)
	return off
}

func (e *Encoder) PatchU8At(off int, v uint8) { e.buf[off] = v }

func (e *Encoder) PatchU32At(off int, v uint32) {
	binary.LittleEndian.PutUint32(e.buf[off:off+4], v)
}

func boolToU8(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

// Decoder consumes fields in declared order from a byte slice. When
// fieldLimit >= 0, reads beyond that many fields become no-ops that return
// the zero value and set Stopped; this is what gives partial_decode its
// "read only the first N fields" behaviour without per-type reflection:
// every record's Decode function is written as a straight-line sequence of
// Decoder field reads, so limiting the Decoder limits the record.
type Decoder struct {
	buf        []byte
	off        int
	fieldLimit int // -1 = unlimited
	fields     int
	Stopped    bool
	err        error
}

func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf, fieldLimit: -1}
}

// NewPartialDecoder limits decoding to the first n field reads.
func NewPartialDecoder(buf []byte, n int) *Decoder {
	return &Decoder{buf: buf, fieldLimit: n}
}

func (d *Decoder) Offset() int { return d.off }
func (d *Decoder) Err() error  { return d.err }

// Remaining is the unconsumed tail of the input, usable as the next
// record's input when several records are concatenated (e.g. array items).
func (d *Decoder) Remaining() []byte { return d.buf[d.off:] }

func (d *Decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// admit reports whether another field may be read; it's called before
// every primitive read so partial_decode and underflow share one gate.
func (d *Decoder) admit(n int) bool {
	if d.err != nil || d.Stopped {
		return false
	}
	if d.fieldLimit >= 0 && d.fields >= d.fieldLimit {
		d.Stopped = true
		return false
	}
	if d.off+n > len(d.buf) {
		d.fail(errs.NewMalformed("buffer underrun: need %d bytes at offset %d, have %d", n, d.off, len(d.buf)))
		return false
	}
	return true
}

func (d *Decoder) U8() uint8 {
	if !d.admit(1) {
		return 0
	}
	v := d.buf[d.off]
	d.off++
	d.fields++
	return v
}

func (d *Decoder) I8() int8   { return int8(d.U8()) }
func (d *Decoder) Bool() bool { return d.U8() != 0 }

func (d *Decoder) U16() uint16 {
	if !d.admit(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(d.buf[d.off:])
	d.off += 2
	d.fields++
	return v
}

func (d *Decoder) U32() uint32 {
	if !d.admit(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(d.buf[d.off:])
	d.off += 4
	d.fields++
	return v
}

func (d *Decoder) I32() int32 { return int32(d.U32()) }

func (d *Decoder) U64() uint64 {
	if !d.admit(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(d.buf[d.off:])
	d.off += 8
	d.fields++
	return v
}

func (d *Decoder) FixedBytes(n int) []byte {
	if !d.admit(n) {
		return make([]byte, n)
	}
	v := make([]byte, n)
	copy(v, d.buf[d.off:d.off+n])
	d.off += n
	d.fields++
	return v
}

// LenBytes reads a u16 length prefix followed by that many bytes, bounded
// by maxSize; a length exceeding maxSize is MalformedError.
func (d *Decoder) LenBytes(maxSize int) []byte {
	if !d.admit(2) {
		return nil
	}
	n := int(binary.LittleEndian.Uint16(d.buf[d.off:]))
	d.off += 2
	d.fields++
	if n > maxSize {
		d.fail(errs.NewMalformed("length %d exceeds max_size %d", n, maxSize))
		return nil
	}
	if !d.admit(n) {
		return nil
	}
	v := make([]byte, n)
	copy(v, d.buf[d.off:d.off+n])
	d.off += n
	d.fields++
	return v
}

// FixedString reads exactly n bytes and returns the string up to (and not
// including) the first NUL; bytes after the NUL are discarded.
func (d *Decoder) FixedString(n int) string {
	b := d.FixedBytes(n)
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// LenString reads a u8 length prefix followed by that many bytes, bounded
// by maxSize.
func (d *Decoder) LenString(maxSize int) string {
	if !d.admit(1) {
		return ""
	}
	n := int(d.buf[d.off])
	d.off++
	d.fields++
	if n > maxSize {
		d.fail(errs.NewMalformed("string length %d exceeds max_size %d", n, maxSize))
		return ""
	}
	b := d.FixedBytes(n)
	return string(b)
}

// Enum8 reads a u8-backed enum and validates membership in valid; invalid
// values are MalformedError.
func (d *Decoder) Enum8(valid func(uint8) bool) uint8 {
	v := d.U8()
	if d.err == nil && !valid(v) {
		d.fail(errs.NewMalformed("invalid enum value %d", v))
	}
	return v
}

func (d *Decoder) Enum16(valid func(uint16) bool) uint16 {
	v := d.U16()
	if d.err == nil && !valid(v) {
		d.fail(errs.NewMalformed("invalid enum value %d", v))
	}
	return v
}

// Array reads a u16 count prefix bounded by maxSize, then invokes read for
// each element; the element reader is the per-record Decode function,
// composed here rather than via reflection.
func Array[T any](d *Decoder, maxSize int, read func(*Decoder) T) []T {
	if !d.admit(2) {
		return nil
	}
	n := int(binary.LittleEndian.Uint16(d.buf[d.off:]))
	d.off += 2
	d.fields++
	if n > maxSize {
		d.fail(errs.NewMalformed("array length %d exceeds max_size %d", n, maxSize))
		return nil
	}
	items := make([]T, 0, n)
	for i := 0; i < n; i++ {
		if d.err != nil || d.Stopped {
			break
		}
		items = append(items, read(d))
	}
	return items
}

func EncodeArray[T any](e *Encoder, items []T, write func(*Encoder, T)) {
	e.U16(uint16(len(items)))
	for _, it := range items {
		write(e, it)
	}
}
