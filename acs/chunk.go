package acs

import "strings"

// ChunkTag classifies a chunk's four-character name. Lookup is
// case-insensitive, per §3.
type ChunkTag int

const (
	ChunkUnknown ChunkTag = iota
	ChunkARAY
	ChunkAINI
	ChunkAIMP
	ChunkASTR
	ChunkMSTR
	ChunkATAG
	ChunkLOAD
	ChunkFUNC
	ChunkFNAM
	ChunkMINI
	ChunkMIMP
	ChunkMEXP
	ChunkSPTR
	ChunkSFLG
	ChunkSVCT
	ChunkSNAM
	ChunkSTRL
	ChunkSTRE
	ChunkSARY
	ChunkFARY
	ChunkALIB
)

var chunkTagNames = []struct {
	name string
	tag  ChunkTag
}{
	{"ARAY", ChunkARAY},
	{"AINI", ChunkAINI},
	{"AIMP", ChunkAIMP},
	{"ASTR", ChunkASTR},
	{"MSTR", ChunkMSTR},
	{"ATAG", ChunkATAG},
	{"LOAD", ChunkLOAD},
	{"FUNC", ChunkFUNC},
	{"FNAM", ChunkFNAM},
	{"MINI", ChunkMINI},
	{"MIMP", ChunkMIMP},
	{"MEXP", ChunkMEXP},
	{"SPTR", ChunkSPTR},
	{"SFLG", ChunkSFLG},
	{"SVCT", ChunkSVCT},
	{"SNAM", ChunkSNAM},
	{"STRL", ChunkSTRL},
	{"STRE", ChunkSTRE},
	{"SARY", ChunkSARY},
	{"FARY", ChunkFARY},
	{"ALIB", ChunkALIB},
}

// lookupChunkTag resolves a four-character chunk name to its tag,
// case-insensitively. Unrecognized names return ChunkUnknown.
func lookupChunkTag(name string) ChunkTag {
	upper := strings.ToUpper(name)
	for _, e := range chunkTagNames {
		if e.name == upper {
			return e.tag
		}
	}
	return ChunkUnknown
}

// Chunk is a typed slice of the file buffer, materialized transiently
// by the chunk walker and never persisted, per §3.
type Chunk struct {
	Name       string
	DataOffset int64
	Size       int64
	Tag        ChunkTag
}

// Region returns a chunk-scoped Region over buf for this chunk's body.
func (c *Chunk) Region(buf *Buffer) *Region {
	return NewRegion(buf, c.DataOffset, c.Size)
}

// ChunkWalker iterates the chunk region [start, end) of a buffer, one
// chunk header at a time, per §4.3. It is restartable: find_chunk and
// view_chunk both rely on fresh walks.
type ChunkWalker struct {
	buf    *Buffer
	cursor int64
	end    int64
}

// NewChunkWalker returns a walker over buf, starting at start and
// stopping once fewer than 8 bytes remain before end.
func NewChunkWalker(buf *Buffer, start, end int64) *ChunkWalker {
	return &ChunkWalker{buf: buf, cursor: start, end: end}
}

// Next materializes the next chunk, advances the cursor by 8+size,
// and returns it. It returns (nil, nil) when the walk is exhausted.
func (w *ChunkWalker) Next() (*Chunk, error) {
	if w.buf.BytesAvailableFrom(w.cursor) < 8 || w.cursor+8 > w.end {
		return nil, nil
	}
	if err := w.buf.RequireBytes(w.cursor, 8); err != nil {
		return nil, err
	}

	nameBytes := w.buf.Bytes()[w.cursor : w.cursor+4]
	size, err := w.buf.ReadI32LE(w.cursor + 4)
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, &IllFormedError{Offset: w.cursor + 4, Reason: "negative chunk size"}
	}

	dataOffset := w.cursor + 8
	// The chunk's declared body must be fully within the file buffer;
	// it may extend past `end` (the chunk region boundary for an
	// indirect file) — that is accepted, per §4.3 step 3.
	if err := w.buf.RequireBytes(dataOffset, int64(size)); err != nil {
		return nil, err
	}

	name := string(nameBytes)
	c := &Chunk{
		Name:       name,
		DataOffset: dataOffset,
		Size:       int64(size),
		Tag:        lookupChunkTag(name),
	}

	w.cursor = dataOffset + int64(size)
	return c, nil
}

// WalkChunks materializes every chunk from start to end, in ascending
// order, calling fn for each. It stops and returns fn's error, if any.
func WalkChunks(buf *Buffer, start, end int64, fn func(*Chunk) error) error {
	w := NewChunkWalker(buf, start, end)
	for {
		c, err := w.Next()
		if err != nil {
			return err
		}
		if c == nil {
			return nil
		}
		if err := fn(c); err != nil {
			return err
		}
	}
}

// FindChunk restarts a walk over [start, end) and returns the first
// chunk whose name matches (case-insensitively).
func FindChunk(buf *Buffer, start, end int64, name string) (*Chunk, error) {
	target := lookupChunkTag(name)
	upperName := strings.ToUpper(name)
	var found *Chunk
	err := WalkChunks(buf, start, end, func(c *Chunk) error {
		if found != nil {
			return nil
		}
		if (target != ChunkUnknown && c.Tag == target) || strings.ToUpper(c.Name) == upperName {
			found = c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
