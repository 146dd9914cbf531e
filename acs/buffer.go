package acs

import "encoding/binary"

// Buffer is the in-memory, read-only byte sequence the rest of the
// package borrows offsets into. It is created once at startup from
// the raw contents of an object file and never mutated afterwards.
type Buffer struct {
	data []byte
}

// NewBuffer wraps b. The caller must not mutate b afterwards; Buffer
// keeps a reference, not a copy.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{data: b}
}

// Len returns N, the buffer's length in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the underlying slice. Callers must treat it as
// read-only.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// OffsetInFile reports whether o is a valid index into the buffer,
// i.e. 0 <= o < N.
func (b *Buffer) OffsetInFile(o int64) bool {
	return o >= 0 && o < int64(len(b.data))
}

// BytesAvailableFrom returns N - p. The result is negative if p > N.
func (b *Buffer) BytesAvailableFrom(p int64) int64 {
	return int64(len(b.data)) - p
}

// RequireBytes fails with IllFormed{"short read"} unless at least k
// bytes are available starting at p.
func (b *Buffer) RequireBytes(p int64, k int64) error {
	if p < 0 || b.BytesAvailableFrom(p) < k {
		return &IllFormedError{Offset: p, Reason: "short read"}
	}
	return nil
}

// RequireOffset fails with IllFormed{"offset out of range"} unless o
// is a valid index into the buffer.
func (b *Buffer) RequireOffset(o int64) error {
	if !b.OffsetInFile(o) {
		return &IllFormedError{Offset: o, Reason: "offset out of range"}
	}
	return nil
}

// Slice returns data[off : off+size], after bounds-checking that the
// range lies entirely within the buffer.
func (b *Buffer) Slice(off, size int64) ([]byte, error) {
	if off < 0 || size < 0 {
		return nil, &IllFormedError{Offset: off, Reason: "negative slice bounds"}
	}
	if err := b.RequireBytes(off, size); err != nil {
		return nil, err
	}
	return b.data[off : off+size], nil
}

// ReadU8 reads one byte at off.
func (b *Buffer) ReadU8(off int64) (uint8, error) {
	if err := b.RequireBytes(off, 1); err != nil {
		return 0, err
	}
	return b.data[off], nil
}

// ReadU16LE reads a little-endian uint16 at off, regardless of the
// container's declared format name.
func (b *Buffer) ReadU16LE(off int64) (uint16, error) {
	if err := b.RequireBytes(off, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b.data[off:]), nil
}

// ReadI16LE reads a little-endian int16 at off.
func (b *Buffer) ReadI16LE(off int64) (int16, error) {
	v, err := b.ReadU16LE(off)
	return int16(v), err
}

// ReadU32LE reads a little-endian uint32 at off.
func (b *Buffer) ReadU32LE(off int64) (uint32, error) {
	if err := b.RequireBytes(off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b.data[off:]), nil
}

// ReadI32LE reads a little-endian int32 at off.
func (b *Buffer) ReadI32LE(off int64) (int32, error) {
	v, err := b.ReadU32LE(off)
	return int32(v), err
}

// CString reads a NUL-terminated string starting at off, clamped to
// the whole file rather than a chunk. It fails with
// IllFormed{"unterminated string"} if no NUL byte is found before the
// file ends, mirroring Region.CString's string-safety rule (§4.4) for
// the ACS0-era directories, which live outside any chunk.
func (b *Buffer) CString(off int64) (string, error) {
	if err := b.RequireOffset(off); err != nil {
		return "", err
	}
	i := off
	for i < int64(len(b.data)) {
		if b.data[i] == 0 {
			return string(b.data[off:i]), nil
		}
		i++
	}
	return "", &IllFormedError{Offset: off, Reason: "unterminated string"}
}

// Region is a chunk-scoped view over a Buffer: the same bounds
// discipline as Buffer, clamped to [start, start+size). Offsets
// outside the region but still inside the file are rejected here,
// per the L0 chunk-scoped variant.
type Region struct {
	buf   *Buffer
	start int64
	size  int64
}

// NewRegion returns a Region over buf clamped to [start, start+size).
func NewRegion(buf *Buffer, start, size int64) *Region {
	return &Region{buf: buf, start: start, size: size}
}

// Len returns the region's declared size.
func (r *Region) Len() int64 {
	return r.size
}

// offsetInRegion reports whether o lies within [start, start+size).
func (r *Region) offsetInRegion(o int64) bool {
	return o >= r.start && o < r.start+r.size
}

// RequireBytes fails unless k bytes starting at p lie entirely inside
// the region.
func (r *Region) RequireBytes(p int64, k int64) error {
	if p < r.start || k < 0 || p+k > r.start+r.size {
		return &IllFormedError{Offset: p, Reason: "short read in chunk"}
	}
	return nil
}

// RequireOffset fails unless o lies within the region.
func (r *Region) RequireOffset(o int64) error {
	if !r.offsetInRegion(o) {
		return &IllFormedError{Offset: o, Reason: "offset out of chunk"}
	}
	return nil
}

// ReadU8 reads one byte at off (offset is absolute into the file
// buffer, but must lie within the region).
func (r *Region) ReadU8(off int64) (uint8, error) {
	if err := r.RequireBytes(off, 1); err != nil {
		return 0, err
	}
	return r.buf.ReadU8(off)
}

// ReadU16LE reads a little-endian uint16 within the region.
func (r *Region) ReadU16LE(off int64) (uint16, error) {
	if err := r.RequireBytes(off, 2); err != nil {
		return 0, err
	}
	return r.buf.ReadU16LE(off)
}

// ReadI16LE reads a little-endian int16 within the region.
func (r *Region) ReadI16LE(off int64) (int16, error) {
	v, err := r.ReadU16LE(off)
	return int16(v), err
}

// ReadU32LE reads a little-endian uint32 within the region.
func (r *Region) ReadU32LE(off int64) (uint32, error) {
	if err := r.RequireBytes(off, 4); err != nil {
		return 0, err
	}
	return r.buf.ReadU32LE(off)
}

// ReadI32LE reads a little-endian int32 within the region.
func (r *Region) ReadI32LE(off int64) (int32, error) {
	v, err := r.ReadU32LE(off)
	return int32(v), err
}

// CString reads a NUL-terminated string starting at off. It fails
// with IllFormed{"unterminated string"} if no NUL byte is found
// before the region ends, per the §4.4 string-safety rule.
func (r *Region) CString(off int64) (string, int64, error) {
	if !r.offsetInRegion(off) && off != r.start+r.size {
		return "", 0, &IllFormedError{Offset: off, Reason: "offset out of chunk"}
	}
	end := r.start + r.size
	i := off
	for i < end {
		b, err := r.buf.ReadU8(i)
		if err != nil {
			return "", 0, err
		}
		if b == 0 {
			return string(r.buf.data[off:i]), i + 1 - off, nil
		}
		i++
	}
	return "", 0, &IllFormedError{Offset: off, Reason: "unterminated string"}
}
