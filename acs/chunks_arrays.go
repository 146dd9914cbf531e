package acs

// ArrayDecl is one entry of an ARAY chunk: a map-array declaration.
type ArrayDecl struct {
	Number int32
	Size   int32
}

// DecodeARAY decodes a stream of (number:i32, size:i32) pairs until
// the chunk ends.
func DecodeARAY(r *Region) ([]ArrayDecl, error) {
	var out []ArrayDecl
	off := r.start
	for off < r.start+r.size {
		number, err := r.ReadI32LE(off)
		if err != nil {
			return nil, err
		}
		size, err := r.ReadI32LE(off + 4)
		if err != nil {
			return nil, err
		}
		out = append(out, ArrayDecl{Number: number, Size: size})
		off += 8
	}
	return out, nil
}

// ArrayInit is the decoded body of an AINI chunk: the initializers
// for one map array.
type ArrayInit struct {
	Index  int32
	Values []int32
}

// DecodeAINI decodes index:i32 followed by N = (size-4)/4 values.
func DecodeAINI(r *Region) (*ArrayInit, error) {
	index, err := r.ReadI32LE(r.start)
	if err != nil {
		return nil, err
	}
	n := (r.size - 4) / 4
	values := make([]int32, 0, n)
	off := r.start + 4
	for i := int64(0); i < n; i++ {
		v, err := r.ReadI32LE(off)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		off += 4
	}
	return &ArrayInit{Index: index, Values: values}, nil
}

// ImportedArray is one entry of an AIMP chunk.
type ImportedArray struct {
	Index int32
	Size  uint32
	Name  string
}

// DecodeAIMP decodes count:i32, then count x (index:i32, size:u32,
// name:NUL-string).
func DecodeAIMP(r *Region) ([]ImportedArray, error) {
	count, err := r.ReadI32LE(r.start)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, &IllFormedError{Offset: r.start, Reason: "negative AIMP count"}
	}
	var out []ImportedArray
	off := r.start + 4
	for i := int32(0); i < count; i++ {
		index, err := r.ReadI32LE(off)
		if err != nil {
			return nil, err
		}
		size, err := r.ReadU32LE(off + 4)
		if err != nil {
			return nil, err
		}
		name, consumed, err := r.CString(off + 8)
		if err != nil {
			return nil, err
		}
		out = append(out, ImportedArray{Index: index, Size: size, Name: name})
		off += 8 + consumed
	}
	return out, nil
}

// ArrayTagVersion0 is the decoded body of an ATAG chunk whose version
// field is 0 — the only supported version.
type ArrayTagVersion0 struct {
	ArrayIndex int32
	Tags       []ElementTag
}

// ElementTag classifies one array element as integer, string, or
// function, per §4.4.
type ElementTag uint8

const (
	ElementTagInteger ElementTag = 0
	ElementTagString  ElementTag = 1
	ElementTagFunction ElementTag = 2
)

// DecodeATAG decodes an ATAG chunk. version is returned so the caller
// can record an UnsupportedChunkVersion note for anything but 0; tags
// is nil when version != 0.
func DecodeATAG(r *Region) (version uint8, tags *ArrayTagVersion0, err error) {
	version, err = r.ReadU8(r.start)
	if err != nil {
		return 0, nil, err
	}
	if version != 0 {
		return version, nil, nil
	}
	index, err := r.ReadI32LE(r.start + 1)
	if err != nil {
		return version, nil, err
	}
	var elems []ElementTag
	off := r.start + 5
	for off < r.start+r.size {
		b, err := r.ReadU8(off)
		if err != nil {
			return version, nil, err
		}
		elems = append(elems, ElementTag(b))
		off++
	}
	return version, &ArrayTagVersion0{ArrayIndex: index, Tags: elems}, nil
}

// ScriptArraySizes is the decoded body of an SARY/FARY chunk: the
// per-script or per-function local array sizes for one owner.
type ScriptArraySizes struct {
	OwnerIndex int16
	Sizes      []int32
}

// DecodeSARYorFARY decodes owner_index:i16, then N = (size-2)/4
// array_size:i32 values.
func DecodeSARYorFARY(r *Region) (*ScriptArraySizes, error) {
	owner, err := r.ReadI16LE(r.start)
	if err != nil {
		return nil, err
	}
	n := (r.size - 2) / 4
	sizes := make([]int32, 0, n)
	off := r.start + 2
	for i := int64(0); i < n; i++ {
		v, err := r.ReadI32LE(off)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, v)
		off += 4
	}
	return &ScriptArraySizes{OwnerIndex: owner, Sizes: sizes}, nil
}
