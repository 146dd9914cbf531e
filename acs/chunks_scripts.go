package acs

import "fmt"

// DecodeLOAD decodes an LOAD chunk: NUL-separated module names, with
// empty entries suppressed.
func DecodeLOAD(r *Region) ([]string, error) {
	var names []string
	off := r.start
	end := r.start + r.size
	for off < end {
		s, consumed, err := r.CString(off)
		if err != nil {
			return nil, err
		}
		if s != "" {
			names = append(names, s)
		}
		off += consumed
	}
	return names, nil
}

// FunctionEntry is one 8-byte record of a FUNC chunk. Offset == 0
// means the function is imported with no body.
type FunctionEntry struct {
	NumParam  uint8
	Size      uint8
	HasReturn uint8
	Offset    int32
}

// DecodeFUNC decodes a stream of 8-byte function entries.
func DecodeFUNC(r *Region) ([]FunctionEntry, error) {
	var out []FunctionEntry
	off := r.start
	for off < r.start+r.size {
		numParam, err := r.ReadU8(off)
		if err != nil {
			return nil, err
		}
		size, err := r.ReadU8(off + 1)
		if err != nil {
			return nil, err
		}
		hasReturn, err := r.ReadU8(off + 2)
		if err != nil {
			return nil, err
		}
		// off+3 is a padding byte, discarded.
		offset, err := r.ReadI32LE(off + 4)
		if err != nil {
			return nil, err
		}
		out = append(out, FunctionEntry{NumParam: numParam, Size: size, HasReturn: hasReturn, Offset: offset})
		off += 8
	}
	return out, nil
}

// MapVarInit is the decoded body of an MINI chunk.
type MapVarInit struct {
	FirstVar int32
	Values   []int32
}

// DecodeMINI decodes first_var:i32, then a stream of i32 values
// starting at that variable.
func DecodeMINI(r *Region) (*MapVarInit, error) {
	firstVar, err := r.ReadI32LE(r.start)
	if err != nil {
		return nil, err
	}
	var values []int32
	off := r.start + 4
	for off < r.start+r.size {
		v, err := r.ReadI32LE(off)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		off += 4
	}
	return &MapVarInit{FirstVar: firstVar, Values: values}, nil
}

// ImportedMapVar is one entry of an MIMP chunk.
type ImportedMapVar struct {
	Index int32
	Name  string
}

// DecodeMIMP decodes a stream of (index:i32, name:NUL-string) records
// until the chunk ends.
func DecodeMIMP(r *Region) ([]ImportedMapVar, error) {
	var out []ImportedMapVar
	off := r.start
	end := r.start + r.size
	for off < end {
		index, err := r.ReadI32LE(off)
		if err != nil {
			return nil, err
		}
		name, consumed, err := r.CString(off + 4)
		if err != nil {
			return nil, err
		}
		out = append(out, ImportedMapVar{Index: index, Name: name})
		off += 4 + consumed
	}
	return out, nil
}

// ScriptEntry is the common projection of the two ACSE script-table
// layouts (§3, §9): direct files use a 12-byte record, indirect files
// use an 8-byte record, keyed on the descriptor's Indirect flag rather
// than its format name.
type ScriptEntry struct {
	Number     int16
	Type       int16
	NumParam   int32
	Offset     int32
	BytesConsumed int64
}

// DecodeSPTREntry decodes one script-table entry at off, choosing the
// 8-byte indirect layout or the 12-byte direct layout based on
// indirect.
func DecodeSPTREntry(r *Region, off int64, indirect bool) (*ScriptEntry, error) {
	if indirect {
		number, err := r.ReadI16LE(off)
		if err != nil {
			return nil, err
		}
		typ, err := r.ReadU8(off + 2)
		if err != nil {
			return nil, err
		}
		numParam, err := r.ReadU8(off + 3)
		if err != nil {
			return nil, err
		}
		scriptOffset, err := r.ReadI32LE(off + 4)
		if err != nil {
			return nil, err
		}
		return &ScriptEntry{
			Number: number, Type: int16(typ), NumParam: int32(numParam),
			Offset: scriptOffset, BytesConsumed: 8,
		}, nil
	}

	number, err := r.ReadI16LE(off)
	if err != nil {
		return nil, err
	}
	typ, err := r.ReadI16LE(off + 2)
	if err != nil {
		return nil, err
	}
	scriptOffset, err := r.ReadI32LE(off + 4)
	if err != nil {
		return nil, err
	}
	numParam, err := r.ReadI32LE(off + 8)
	if err != nil {
		return nil, err
	}
	return &ScriptEntry{
		Number: number, Type: typ, NumParam: numParam,
		Offset: scriptOffset, BytesConsumed: 12,
	}, nil
}

// DecodeSPTR decodes an entire SPTR chunk's worth of script-table
// entries.
func DecodeSPTR(r *Region, indirect bool) ([]ScriptEntry, error) {
	var out []ScriptEntry
	off := r.start
	end := r.start + r.size
	for off < end {
		entry, err := DecodeSPTREntry(r, off, indirect)
		if err != nil {
			return nil, err
		}
		out = append(out, *entry)
		off += entry.BytesConsumed
	}
	return out, nil
}

// ScriptFlag bits recognized within an SFLG record, per §4.4.
const (
	ScriptFlagNet        uint16 = 0x1
	ScriptFlagClientside uint16 = 0x2
	scriptFlagKnownMask  uint16 = ScriptFlagNet | ScriptFlagClientside
)

// ScriptFlags is one entry of an SFLG chunk.
type ScriptFlags struct {
	Number int16
	Flags  uint16
}

// UnknownBits reports any flag bits outside the recognized set,
// formatted as "unknown(0x...)" per the §9 open question — preserved
// exactly, not warned about.
func (f ScriptFlags) UnknownBits() string {
	unknown := f.Flags &^ scriptFlagKnownMask
	if unknown == 0 {
		return ""
	}
	return fmt.Sprintf("unknown(0x%x)", unknown)
}

// DecodeSFLG decodes a stream of (number:i16, flags:u16) records.
func DecodeSFLG(r *Region) ([]ScriptFlags, error) {
	var out []ScriptFlags
	off := r.start
	for off < r.start+r.size {
		number, err := r.ReadI16LE(off)
		if err != nil {
			return nil, err
		}
		flags, err := r.ReadU16LE(off + 2)
		if err != nil {
			return nil, err
		}
		out = append(out, ScriptFlags{Number: number, Flags: flags})
		off += 4
	}
	return out, nil
}

// ScriptVarCountOverride is one entry of an SVCT chunk.
type ScriptVarCountOverride struct {
	Number  int16
	NewSize int16
}

// DecodeSVCT decodes a stream of (number:i16, new_size:i16) records.
func DecodeSVCT(r *Region) ([]ScriptVarCountOverride, error) {
	var out []ScriptVarCountOverride
	off := r.start
	for off < r.start+r.size {
		number, err := r.ReadI16LE(off)
		if err != nil {
			return nil, err
		}
		newSize, err := r.ReadI16LE(off + 2)
		if err != nil {
			return nil, err
		}
		out = append(out, ScriptVarCountOverride{Number: number, NewSize: newSize})
		off += 4
	}
	return out, nil
}
