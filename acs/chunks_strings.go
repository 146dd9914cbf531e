package acs

// stringObfuscationMultiplier is the constant from §4.4's STRE
// decoding formula.
const stringObfuscationMultiplier = 157135

// StringEntry is one decoded string, along with the chunk-local
// offset it was stored at.
type StringEntry struct {
	ChunkOffset int64 // offset relative to the chunk body
	Value       string
}

// DecodeASTRorMSTR decodes a stream of tagged_string_index:u32 values
// until the chunk ends.
func DecodeASTRorMSTR(r *Region) ([]uint32, error) {
	var out []uint32
	off := r.start
	for off < r.start+r.size {
		v, err := r.ReadU32LE(off)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		off += 4
	}
	return out, nil
}

// decodeOffsetTable decodes count:i32 followed by count x
// offset_in_chunk:i32, as used by FNAM, MEXP, and SNAM.
func decodeOffsetTable(r *Region) ([]int32, error) {
	count, err := r.ReadI32LE(r.start)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, &IllFormedError{Offset: r.start, Reason: "negative offset-table count"}
	}
	var out []int32
	off := r.start + 4
	for i := int32(0); i < count; i++ {
		v, err := r.ReadI32LE(off)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		off += 4
	}
	return out, nil
}

// DecodeFNAM decodes an FNAM chunk: count:i32, count x
// offset_in_chunk:i32, then the plain NUL-terminated function name at
// each offset.
func DecodeFNAM(r *Region) ([]StringEntry, error) {
	return decodeNamedOffsetTable(r)
}

// DecodeMEXP decodes an MEXP chunk (same layout as FNAM).
func DecodeMEXP(r *Region) ([]StringEntry, error) {
	return decodeNamedOffsetTable(r)
}

// DecodeSNAM decodes an SNAM chunk (same layout as FNAM); named
// scripts are assigned numbers -1, -2, ... in declaration order by
// the caller (§4.4).
func DecodeSNAM(r *Region) ([]StringEntry, error) {
	return decodeNamedOffsetTable(r)
}

func decodeNamedOffsetTable(r *Region) ([]StringEntry, error) {
	offsets, err := decodeOffsetTable(r)
	if err != nil {
		return nil, err
	}
	out := make([]StringEntry, 0, len(offsets))
	for _, chunkOff := range offsets {
		abs := r.start + int64(chunkOff)
		s, _, err := r.CString(abs)
		if err != nil {
			return nil, err
		}
		out = append(out, StringEntry{ChunkOffset: int64(chunkOff), Value: s})
	}
	return out, nil
}

// DecodeSTRL decodes an STRL chunk: pad:i32, count:i32, pad:i32, then
// count x offset_in_chunk:i32, with plain (unencoded) strings at
// those offsets. The two pad fields are opaque (§9 open question) and
// discarded.
func DecodeSTRL(r *Region) ([]StringEntry, error) {
	offsets, err := decodeStringListHeader(r)
	if err != nil {
		return nil, err
	}
	out := make([]StringEntry, 0, len(offsets))
	for _, chunkOff := range offsets {
		abs := r.start + int64(chunkOff)
		s, _, err := r.CString(abs)
		if err != nil {
			return nil, err
		}
		out = append(out, StringEntry{ChunkOffset: int64(chunkOff), Value: s})
	}
	return out, nil
}

// DecodeSTRE decodes an STRE chunk: same header as STRL, but each
// string is obfuscated per the formula in §4.4.
func DecodeSTRE(r *Region) ([]StringEntry, error) {
	offsets, err := decodeStringListHeader(r)
	if err != nil {
		return nil, err
	}
	out := make([]StringEntry, 0, len(offsets))
	for _, chunkOff := range offsets {
		abs := r.start + int64(chunkOff)
		s, err := decodeObfuscatedString(r, abs, int64(chunkOff))
		if err != nil {
			return nil, err
		}
		out = append(out, StringEntry{ChunkOffset: int64(chunkOff), Value: s})
	}
	return out, nil
}

// decodeStringListHeader reads the STRL/STRE common header: pad:i32,
// count:i32, pad:i32, then count x offset_in_chunk:i32.
func decodeStringListHeader(r *Region) ([]int32, error) {
	// pad:i32 at r.start, discarded.
	if _, err := r.ReadI32LE(r.start); err != nil {
		return nil, err
	}
	count, err := r.ReadI32LE(r.start + 4)
	if err != nil {
		return nil, err
	}
	// pad:i32 at r.start+8, discarded.
	if _, err := r.ReadI32LE(r.start + 8); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, &IllFormedError{Offset: r.start + 4, Reason: "negative string-list count"}
	}
	var out []int32
	off := r.start + 12
	for i := int32(0); i < count; i++ {
		v, err := r.ReadI32LE(off)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		off += 4
	}
	return out, nil
}

// decodeObfuscatedString decodes a STRE-encoded string stored at
// absolute offset off, whose chunk-local offset is chunkOff. Character
// k is recovered as decoded = byte XOR (chunkOff*157135 + floor(k/2))
// mod 256. The terminating NUL is computed on decoded bytes; failure
// to find one before the chunk ends is an unterminated-string error.
func decodeObfuscatedString(r *Region, off, chunkOff int64) (string, error) {
	end := r.start + r.size
	var decoded []byte
	for k := int64(0); off+k < end; k++ {
		raw, err := r.ReadU8(off + k)
		if err != nil {
			return "", err
		}
		key := byte((chunkOff*stringObfuscationMultiplier + k/2) % 256)
		db := raw ^ key
		if db == 0 {
			return string(decoded), nil
		}
		decoded = append(decoded, db)
	}
	return "", &IllFormedError{Offset: off, Reason: "unterminated string"}
}
