package acs

// ACS0ScriptEntry is one tuple of the ACS0 script directory: §3
// defines it as (number, offset, num_param), each a 32-bit
// little-endian integer, where number encodes (type*1000 +
// user_number).
type ACS0ScriptEntry struct {
	Number   int32
	Offset   int32
	NumParam int32
}

// Type returns the script type component of Number.
func (e ACS0ScriptEntry) Type() int32 {
	return e.Number / 1000
}

// UserNumber returns the user-visible script number component of
// Number.
func (e ACS0ScriptEntry) UserNumber() int32 {
	return e.Number % 1000
}

// DecodeACS0ScriptDirectory decodes totalScripts entries of
// (number:i32, offset:i32, num_param:i32) starting just past the
// total_scripts field at directoryOffset.
func DecodeACS0ScriptDirectory(buf *Buffer, directoryOffset int64, totalScripts int32) ([]ACS0ScriptEntry, error) {
	if totalScripts < 0 {
		return nil, &IllFormedError{Offset: directoryOffset, Reason: "negative total_scripts"}
	}
	var out []ACS0ScriptEntry
	off := directoryOffset + 4
	for i := int32(0); i < totalScripts; i++ {
		number, err := buf.ReadI32LE(off)
		if err != nil {
			return nil, err
		}
		offset, err := buf.ReadI32LE(off + 4)
		if err != nil {
			return nil, err
		}
		numParam, err := buf.ReadI32LE(off + 8)
		if err != nil {
			return nil, err
		}
		out = append(out, ACS0ScriptEntry{Number: number, Offset: offset, NumParam: numParam})
		off += acs0EntrySize
	}
	return out, nil
}

// DecodeACS0StringDirectoryOffsets decodes the string directory's
// count-prefixed offset table at stringOffset: total_strings:i32,
// then total_strings x offset:i32. The strings themselves are read
// separately via Buffer.CString at each offset.
func DecodeACS0StringDirectoryOffsets(buf *Buffer, stringOffset int64) (int32, []int32, error) {
	total, err := buf.ReadI32LE(stringOffset)
	if err != nil {
		return 0, nil, err
	}
	if total < 0 {
		return 0, nil, &IllFormedError{Offset: stringOffset, Reason: "negative total_strings"}
	}
	var offsets []int32
	off := stringOffset + 4
	for i := int32(0); i < total; i++ {
		o, err := buf.ReadI32LE(off)
		if err != nil {
			return 0, nil, err
		}
		offsets = append(offsets, o)
		off += 4
	}
	return total, offsets, nil
}
