package acs

import "fmt"

// IllFormedError reports a bounds violation, an unterminated string,
// an offset outside the file or a chunk, or any other short read.
// It generalizes the teacher's FormatError (offset + message) to the
// ACS bounds-discipline failures of §4.1/§4.4.
type IllFormedError struct {
	Offset int64
	Reason string
}

func (e *IllFormedError) Error() string {
	return fmt.Sprintf("ill-formed object file: %s (at offset %#x)", e.Reason, e.Offset)
}

// UnsupportedFormatError is returned when the primary header's magic
// bytes match none of the known container variants.
type UnsupportedFormatError struct {
	Magic [4]byte
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported object format (magic %q)", e.Magic[:])
}

// UnsupportedOperationError is returned when list-chunks or
// view-chunk is requested on an ACS0 file, which has no chunk region.
type UnsupportedOperationError struct {
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %q is not supported on ACS0 object files", e.Operation)
}

// IOFailureError wraps an error from opening, stat'ing, or reading the
// input file.
type IOFailureError struct {
	Err error
}

func (e *IOFailureError) Error() string {
	return fmt.Sprintf("i/o failure: %v", e.Err)
}

func (e *IOFailureError) Unwrap() error {
	return e.Err
}

// TooLargeError is returned when the input file's size exceeds the
// implementation's addressable offset range (2^31 bytes, per §3).
type TooLargeError struct {
	Size int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("object file too large: %d bytes exceeds the 2^31 byte limit", e.Size)
}

// Note records a non-fatal condition surfaced during processing:
// a Warning (script/function entry points outside the file),
// an UnsupportedChunk (unrecognized chunk tag met during full dump),
// or an UnsupportedChunkVersion (ATAG chunk with version != 0).
// Dispatch-level code continues after recording a Note; only the
// typed errors above unwind to the recovery point.
type Note struct {
	Kind    NoteKind
	Message string
}

// NoteKind classifies a Note.
type NoteKind int

const (
	NoteWarning NoteKind = iota
	NoteUnsupportedChunk
	NoteUnsupportedChunkVersion
)

func (k NoteKind) String() string {
	switch k {
	case NoteWarning:
		return "warning"
	case NoteUnsupportedChunk:
		return "unsupported-chunk"
	case NoteUnsupportedChunkVersion:
		return "unsupported-chunk-version"
	default:
		return "note"
	}
}
