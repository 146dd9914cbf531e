package acs

import (
	"bytes"
	"strings"
	"testing"
)

func TestShowObjectMinimalACS0(t *testing.T) {
	// S1 — minimal ACS0.
	data := []byte("ACS\x00")
	data = le32(data, 8)
	data = le32(data, 0) // total_scripts = 0
	data = le32(data, 0) // total_strings = 0

	d, err := NewDumper(data)
	if err != nil {
		t.Fatalf("NewDumper: %v", err)
	}
	var buf bytes.Buffer
	if err := d.ShowObject(&buf); err != nil {
		t.Fatalf("ShowObject: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "format: ACS0\n") {
		t.Fatalf("output = %q, want ACS0 header prefix", out)
	}
	if !strings.Contains(out, "total-scripts=0") {
		t.Fatalf("missing total-scripts=0 in %q", out)
	}
	if !strings.Contains(out, "total-strings=0") {
		t.Fatalf("missing total-strings=0 in %q", out)
	}
}

func TestShowObjectDirectACSEOneChunk(t *testing.T) {
	// S2 — direct ACSE, one LOAD chunk with two module names.
	data := []byte("ACSE")
	data = le32(data, 8) // chunk_offset
	data = append(data, "LOAD"...)
	data = le32(data, 6)
	data = append(data, "M1\x00M2\x00"...)

	d, err := NewDumper(data)
	if err != nil {
		t.Fatalf("NewDumper: %v", err)
	}
	var buf bytes.Buffer
	if err := d.ShowObject(&buf); err != nil {
		t.Fatalf("ShowObject: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "format: ACSE\n") {
		t.Fatalf("output = %q, want ACSE header prefix", out)
	}
	if !strings.Contains(out, "imported-module=M1") || !strings.Contains(out, "imported-module=M2") {
		t.Fatalf("missing imported-module lines in %q", out)
	}
}

func TestShowObjectEmptyChunkRegionIsJustHeader(t *testing.T) {
	// §8.2: a direct ACSE file with an empty chunk region produces
	// output containing exactly the header line.
	data := []byte("ACSE")
	data = le32(data, 8) // chunk_offset
	data = le32(data, 0) // 4-byte chunk region: too short for a chunk header

	d, err := NewDumper(data)
	if err != nil {
		t.Fatalf("NewDumper: %v", err)
	}
	var buf bytes.Buffer
	if err := d.ShowObject(&buf); err != nil {
		t.Fatalf("ShowObject: %v", err)
	}
	if buf.String() != "format: ACSE\n" {
		t.Fatalf("output = %q, want exactly the header line", buf.String())
	}
}

func TestIndirectChunkOffsetEqualsRealHeaderIsEmptyWalk(t *testing.T) {
	// §8.3: an indirect file whose chunk_offset equals
	// real_header_offset yields an empty chunk walk.
	var data []byte
	data = append(data, "ACS\x00"...)
	data = le32(data, 16) // directory_offset
	data = le32(data, 8)  // chunk_offset == chunk_offset_slot (real_header_offset)
	data = append(data, "ACSe"...)
	data = le32(data, 0) // total_scripts at directory_offset=16
	data = append(data, 0, 0, 0, 0)

	d, err := NewDumper(data)
	if err != nil {
		t.Fatalf("NewDumper: %v", err)
	}
	if !d.desc.Indirect {
		t.Fatalf("expected an indirect descriptor")
	}
	if d.desc.ChunkOffset != d.desc.RealHeaderOffset {
		t.Fatalf("fixture invalid: ChunkOffset=%d RealHeaderOffset=%d", d.desc.ChunkOffset, d.desc.RealHeaderOffset)
	}

	var buf bytes.Buffer
	if err := d.ShowObject(&buf); err != nil {
		t.Fatalf("ShowObject: %v", err)
	}
	if strings.Contains(buf.String(), "-- ") {
		t.Fatalf("expected no chunks dumped, got %q", buf.String())
	}
}

func TestListChunksUnsupportedOnACS0(t *testing.T) {
	data := []byte("ACS\x00")
	data = le32(data, 8)
	data = le32(data, 0) // total_scripts
	data = le32(data, 0) // total_strings

	d, err := NewDumper(data)
	if err != nil {
		t.Fatalf("NewDumper: %v", err)
	}
	var buf bytes.Buffer
	err = d.ListChunks(&buf)
	if err == nil {
		t.Fatalf("expected UnsupportedOperationError")
	}
	if _, ok := err.(*UnsupportedOperationError); !ok {
		t.Fatalf("got %T, want *UnsupportedOperationError", err)
	}
}

func TestViewChunkNotFound(t *testing.T) {
	data := []byte("ACSE")
	data = le32(data, 8)
	data = append(data, "ALIB"...)
	data = le32(data, 0)

	d, err := NewDumper(data)
	if err != nil {
		t.Fatalf("NewDumper: %v", err)
	}
	var buf bytes.Buffer
	if err := d.ViewChunk(&buf, "SPTR"); err != nil {
		t.Fatalf("ViewChunk: %v", err)
	}
	if !strings.Contains(buf.String(), `chunk "SPTR" not found`) {
		t.Fatalf("output = %q, want a not-found message", buf.String())
	}
}

func TestViewChunkCaseInsensitive(t *testing.T) {
	data := []byte("ACSE")
	data = le32(data, 8)
	data = append(data, "ALIB"...)
	data = le32(data, 0)

	d, err := NewDumper(data)
	if err != nil {
		t.Fatalf("NewDumper: %v", err)
	}
	var buf bytes.Buffer
	if err := d.ViewChunk(&buf, "alib"); err != nil {
		t.Fatalf("ViewChunk: %v", err)
	}
	if !strings.Contains(buf.String(), "library marker") {
		t.Fatalf("output = %q, want the ALIB body", buf.String())
	}
}

func TestListChunksListsHeadersOnly(t *testing.T) {
	data := []byte("ACSE")
	data = le32(data, 8)
	data = append(data, "LOAD"...)
	data = le32(data, 3)
	data = append(data, "M1\x00"...)

	d, err := NewDumper(data)
	if err != nil {
		t.Fatalf("NewDumper: %v", err)
	}
	var buf bytes.Buffer
	if err := d.ListChunks(&buf); err != nil {
		t.Fatalf("ListChunks: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "LOAD") {
		t.Fatalf("missing LOAD in %q", out)
	}
	if strings.Contains(out, "imported-module") {
		t.Fatalf("list-chunks must not dump chunk contents, got %q", out)
	}
}

func TestShowObjectScriptOffsetOutsideFileWarns(t *testing.T) {
	var data []byte
	data = append(data, "ACSE"...)
	data = le32(data, 8) // chunk_offset
	data = append(data, "SPTR"...)
	// Direct ACSE uses 12-byte entries: number:i16, type:i16, offset:i32, num_param:i32.
	data = le32(data, 12)
	data = le16(data, 1)    // number
	data = le16(data, 0)    // type
	data = le32(data, 9999) // offset: far outside the file
	data = le32(data, 0)    // num_param

	d, err := NewDumper(data)
	if err != nil {
		t.Fatalf("NewDumper: %v", err)
	}
	var buf bytes.Buffer
	if err := d.ShowObject(&buf); err != nil {
		t.Fatalf("ShowObject: %v", err)
	}
	if !strings.Contains(buf.String(), "warning: offset outside file") {
		t.Fatalf("output = %q, want an outside-file warning", buf.String())
	}
	if len(d.Notes) != 1 || d.Notes[0].Kind != NoteWarning {
		t.Fatalf("Notes = %+v, want one Warning note", d.Notes)
	}
}
