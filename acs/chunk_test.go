package acs

import "testing"

func chunkHeader(data []byte, name string, size int32) []byte {
	data = append(data, name...)
	return le32(data, size)
}

func TestChunkWalkerBasic(t *testing.T) {
	var data []byte
	data = chunkHeader(data, "LOAD", 6)
	data = append(data, "M1\x00M2\x00"...)
	data = chunkHeader(data, "ALIB", 0)

	buf := NewBuffer(data)
	var chunks []*Chunk
	err := WalkChunks(buf, 0, int64(len(data)), func(c *Chunk) error {
		chunks = append(chunks, c)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkChunks: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].Name != "LOAD" || chunks[0].Tag != ChunkLOAD {
		t.Fatalf("chunk 0 = %+v", chunks[0])
	}
	if chunks[0].Size != 6 {
		t.Fatalf("got size %d, want 6", chunks[0].Size)
	}
	if chunks[1].Name != "ALIB" || chunks[1].Tag != ChunkALIB {
		t.Fatalf("chunk 1 = %+v", chunks[1])
	}
}

func TestChunkWalkerEmptyRegion(t *testing.T) {
	// §8.3: an indirect file whose chunk_offset equals
	// real_header_offset yields an empty chunk walk.
	data := make([]byte, 16)
	buf := NewBuffer(data)
	var count int
	err := WalkChunks(buf, 8, 8, func(c *Chunk) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("WalkChunks: %v", err)
	}
	if count != 0 {
		t.Fatalf("got %d chunks, want 0", count)
	}
}

func TestChunkTagCaseInsensitive(t *testing.T) {
	if lookupChunkTag("load") != ChunkLOAD {
		t.Fatalf("lowercase tag lookup failed")
	}
	if lookupChunkTag("LoAd") != ChunkLOAD {
		t.Fatalf("mixed-case tag lookup failed")
	}
	if lookupChunkTag("ZZZZ") != ChunkUnknown {
		t.Fatalf("expected unknown tag for ZZZZ")
	}
}

func TestChunkWalkerShortRead(t *testing.T) {
	// A chunk whose declared size overruns the file fails.
	var data []byte
	data = chunkHeader(data, "LOAD", 100)

	buf := NewBuffer(data)
	err := WalkChunks(buf, 0, int64(len(data)), func(c *Chunk) error { return nil })
	if err == nil {
		t.Fatalf("expected a short-read error")
	}
}
