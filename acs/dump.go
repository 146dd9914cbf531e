package acs

import (
	"fmt"
	"io"
	"strings"
)

// Dumper is the L7 dispatcher: it resolves a file's format once, then
// serves repeated show-object / list-chunks / view-chunk requests
// against it (§4.7). It mirrors the teacher's FileTOC.String(): one
// method per request, each walking the already-resolved layout and
// building a report.
type Dumper struct {
	buf   *Buffer
	desc  *Descriptor
	Notes []Note
}

// NewDumper resolves the format of data and returns a Dumper ready to
// serve requests, or the resolver's error.
func NewDumper(data []byte) (*Dumper, error) {
	if int64(len(data)) >= 1<<31 {
		return nil, &TooLargeError{Size: int64(len(data))}
	}
	buf := NewBuffer(data)
	desc, err := ResolveFormat(buf)
	if err != nil {
		return nil, err
	}
	return &Dumper{buf: buf, desc: desc}, nil
}

func (d *Dumper) note(kind NoteKind, format string, args ...interface{}) {
	d.Notes = append(d.Notes, Note{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// isChunked reports whether the resolved format uses the chunk region
// (BigE or LittleE, direct or indirect).
func (d *Dumper) isChunked() bool {
	return d.desc.Format == FormatBigE || d.desc.Format == FormatLittleE
}

func (d *Dumper) headerLine() string {
	line := fmt.Sprintf("format: %s", d.desc.Format)
	if d.desc.Indirect {
		line += " (indirect)"
	}
	return line + "\n"
}

// ShowObject implements the default dispatcher operation: if the
// format is chunked, dump every chunk with contents; if a script
// directory is present, dump it and the string directory,
// disassembling each script body.
func (d *Dumper) ShowObject(w io.Writer) error {
	if _, err := io.WriteString(w, d.headerLine()); err != nil {
		return err
	}

	extent, scripts, err := d.collectExtentInputs()
	if err != nil {
		return err
	}

	if d.isChunked() {
		end := d.desc.ChunkRegionEnd(int64(d.buf.Len()))
		err := WalkChunks(d.buf, d.desc.ChunkOffset, end, func(c *Chunk) error {
			return d.dumpChunk(w, c, extent)
		})
		if err != nil {
			return err
		}
	}

	if d.desc.HasScriptDirectory {
		if err := d.dumpDirectories(w, extent, scripts); err != nil {
			return err
		}
	}

	return nil
}

// ListChunks implements the list-chunks operation: ACSE/ACSe only.
func (d *Dumper) ListChunks(w io.Writer) error {
	if !d.isChunked() {
		return &UnsupportedOperationError{Operation: "list-chunks"}
	}
	if _, err := io.WriteString(w, d.headerLine()); err != nil {
		return err
	}
	end := d.desc.ChunkRegionEnd(int64(d.buf.Len()))
	return WalkChunks(d.buf, d.desc.ChunkOffset, end, func(c *Chunk) error {
		_, err := fmt.Fprintf(w, "-- %s (offset=%#x size=%#x)\n", c.Name, c.DataOffset, c.Size)
		return err
	})
}

// ViewChunk implements the view-chunk operation: ACSE/ACSe only.
func (d *Dumper) ViewChunk(w io.Writer, name string) error {
	if !d.isChunked() {
		return &UnsupportedOperationError{Operation: "view-chunk"}
	}
	if _, err := io.WriteString(w, d.headerLine()); err != nil {
		return err
	}

	extent, _, err := d.collectExtentInputs()
	if err != nil {
		return err
	}

	end := d.desc.ChunkRegionEnd(int64(d.buf.Len()))
	target := lookupChunkTag(name)
	upperName := strings.ToUpper(name)
	found := false
	err = WalkChunks(d.buf, d.desc.ChunkOffset, end, func(c *Chunk) error {
		if (target != ChunkUnknown && c.Tag == target) || strings.ToUpper(c.Name) == upperName {
			found = true
			return d.dumpChunk(w, c, extent)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		_, err := fmt.Fprintf(w, "chunk %q not found\n", name)
		return err
	}
	return nil
}

// collectExtentInputs performs a first pass over the chunk region (if
// any) to gather the script and function offset tables needed by
// extent inference, per §4.5. It also returns the script entries: the
// SPTR entries of a chunked file, or the script directory's entries
// of an ACS0 file. The dump pass walks the chunks again and decodes
// SPTR and FUNC on its own.
func (d *Dumper) collectExtentInputs() (*ExtentInputs, []ScriptEntry, error) {
	in := &ExtentInputs{N: int64(d.buf.Len())}
	var scripts []ScriptEntry

	if d.isChunked() {
		in.HasChunkOffset = true
		in.ChunkOffset = d.desc.ChunkOffset

		end := d.desc.ChunkRegionEnd(int64(d.buf.Len()))
		err := WalkChunks(d.buf, d.desc.ChunkOffset, end, func(c *Chunk) error {
			switch c.Tag {
			case ChunkSPTR:
				entries, err := DecodeSPTR(c.Region(d.buf), d.desc.Indirect)
				if err != nil {
					return err
				}
				scripts = append(scripts, entries...)
				for _, e := range entries {
					in.ScriptOffsets = append(in.ScriptOffsets, int64(e.Offset))
				}
			case ChunkFUNC:
				entries, err := DecodeFUNC(c.Region(d.buf))
				if err != nil {
					return err
				}
				for _, e := range entries {
					if e.Offset != 0 {
						in.FunctionOffsets = append(in.FunctionOffsets, int64(e.Offset))
					}
				}
			}
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
	}

	if d.desc.HasScriptDirectory {
		in.HasDirectory = true
		in.DirectoryOffset = d.desc.DirectoryOffset

		acs0Scripts, err := DecodeACS0ScriptDirectory(d.buf, d.desc.DirectoryOffset, d.desc.TotalScripts)
		if err != nil {
			return nil, nil, err
		}
		for _, e := range acs0Scripts {
			in.DirectoryOffsets = append(in.DirectoryOffsets, int64(e.Offset))
		}

		_, stringOffsets, err := DecodeACS0StringDirectoryOffsets(d.buf, d.desc.StringOffset)
		if err != nil {
			return nil, nil, err
		}
		for _, o := range stringOffsets {
			in.DirectoryOffsets = append(in.DirectoryOffsets, int64(o))
		}

		if !d.isChunked() {
			scripts = nil
			for _, e := range acs0Scripts {
				scripts = append(scripts, ScriptEntry{
					Number: int16(e.Number), Offset: e.Offset, NumParam: e.NumParam,
				})
			}
		}
	}

	return in, scripts, nil
}

// dumpChunk writes one chunk's header line and, when the tag is
// recognized, its decoded body. Unrecognized tags report "chunk not
// supported" and a Note is recorded, per §7.
func (d *Dumper) dumpChunk(w io.Writer, c *Chunk, extent *ExtentInputs) error {
	if _, err := fmt.Fprintf(w, "-- %s (offset=%#x size=%#x)\n", c.Name, c.DataOffset, c.Size); err != nil {
		return err
	}
	r := c.Region(d.buf)

	switch c.Tag {
	case ChunkARAY:
		decls, err := DecodeARAY(r)
		if err != nil {
			return err
		}
		for _, a := range decls {
			if _, err := fmt.Fprintf(w, " array number=%d size=%d\n", a.Number, a.Size); err != nil {
				return err
			}
		}

	case ChunkAINI:
		init, err := DecodeAINI(r)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, " array-init index=%d values=%v\n", init.Index, init.Values); err != nil {
			return err
		}

	case ChunkAIMP:
		imports, err := DecodeAIMP(r)
		if err != nil {
			return err
		}
		for _, imp := range imports {
			if _, err := fmt.Fprintf(w, " imported-array index=%d size=%d name=%s\n", imp.Index, imp.Size, imp.Name); err != nil {
				return err
			}
		}

	case ChunkASTR, ChunkMSTR:
		indices, err := DecodeASTRorMSTR(r)
		if err != nil {
			return err
		}
		for _, idx := range indices {
			if _, err := fmt.Fprintf(w, " tagged-string index=%d\n", idx); err != nil {
				return err
			}
		}

	case ChunkATAG:
		version, tags, err := DecodeATAG(r)
		if err != nil {
			return err
		}
		if tags == nil {
			d.note(NoteUnsupportedChunkVersion, "ATAG version %d unsupported", version)
			if _, err := fmt.Fprintf(w, " unsupported ATAG version %d\n", version); err != nil {
				return err
			}
			break
		}
		if _, err := fmt.Fprintf(w, " array-tag array-index=%d\n", tags.ArrayIndex); err != nil {
			return err
		}
		for i, t := range tags.Tags {
			if _, err := fmt.Fprintf(w, "  tag[%d]=%s\n", i, elementTagName(t)); err != nil {
				return err
			}
		}

	case ChunkLOAD:
		names, err := DecodeLOAD(r)
		if err != nil {
			return err
		}
		for _, n := range names {
			if _, err := fmt.Fprintf(w, " imported-module=%s\n", n); err != nil {
				return err
			}
		}

	case ChunkFUNC:
		entries, err := DecodeFUNC(r)
		if err != nil {
			return err
		}
		for i, f := range entries {
			if _, err := fmt.Fprintf(w, " function[%d] num-param=%d size=%d has-return=%d offset=%#x\n",
				i, f.NumParam, f.Size, f.HasReturn, f.Offset); err != nil {
				return err
			}
			if f.Offset == 0 {
				continue
			}
			if err := d.dumpFunctionBody(w, &f, extent); err != nil {
				return err
			}
		}

	case ChunkFNAM:
		names, err := DecodeFNAM(r)
		if err != nil {
			return err
		}
		for i, n := range names {
			if _, err := fmt.Fprintf(w, " function-name[%d]=%s\n", i, n.Value); err != nil {
				return err
			}
		}

	case ChunkMINI:
		init, err := DecodeMINI(r)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, " map-var-init first-var=%d values=%v\n", init.FirstVar, init.Values); err != nil {
			return err
		}

	case ChunkMIMP:
		imports, err := DecodeMIMP(r)
		if err != nil {
			return err
		}
		for _, imp := range imports {
			if _, err := fmt.Fprintf(w, " imported-map-var index=%d name=%s\n", imp.Index, imp.Name); err != nil {
				return err
			}
		}

	case ChunkMEXP:
		names, err := DecodeMEXP(r)
		if err != nil {
			return err
		}
		for i, n := range names {
			if _, err := fmt.Fprintf(w, " exported-map-var[%d]=%s\n", i, n.Value); err != nil {
				return err
			}
		}

	case ChunkSPTR:
		entries, err := DecodeSPTR(r, d.desc.Indirect)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := d.dumpScript(w, &e, extent); err != nil {
				return err
			}
		}

	case ChunkSFLG:
		flags, err := DecodeSFLG(r)
		if err != nil {
			return err
		}
		for _, f := range flags {
			line := fmt.Sprintf(" script-flag number=%d flags=%s", f.Number, scriptFlagsString(f))
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}

	case ChunkSVCT:
		overrides, err := DecodeSVCT(r)
		if err != nil {
			return err
		}
		for _, o := range overrides {
			if _, err := fmt.Fprintf(w, " script-var-count number=%d new-size=%d\n", o.Number, o.NewSize); err != nil {
				return err
			}
		}

	case ChunkSNAM:
		names, err := DecodeSNAM(r)
		if err != nil {
			return err
		}
		for i, n := range names {
			if _, err := fmt.Fprintf(w, " named-script[%d]=%s\n", -(i + 1), n.Value); err != nil {
				return err
			}
		}

	case ChunkSTRL:
		strs, err := DecodeSTRL(r)
		if err != nil {
			return err
		}
		for _, s := range strs {
			if _, err := fmt.Fprintf(w, " string[%d]=%q\n", s.ChunkOffset, s.Value); err != nil {
				return err
			}
		}

	case ChunkSTRE:
		strs, err := DecodeSTRE(r)
		if err != nil {
			return err
		}
		for _, s := range strs {
			if _, err := fmt.Fprintf(w, " string[%d]=%q\n", s.ChunkOffset, s.Value); err != nil {
				return err
			}
		}

	case ChunkSARY, ChunkFARY:
		sizes, err := DecodeSARYorFARY(r)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, " array-sizes owner=%d sizes=%v\n", sizes.OwnerIndex, sizes.Sizes); err != nil {
			return err
		}

	case ChunkALIB:
		if _, err := io.WriteString(w, " library marker (body ignored)\n"); err != nil {
			return err
		}

	default:
		d.note(NoteUnsupportedChunk, "chunk %q not supported", c.Name)
		if _, err := io.WriteString(w, " chunk not supported\n"); err != nil {
			return err
		}
	}

	return nil
}

func elementTagName(t ElementTag) string {
	switch t {
	case ElementTagInteger:
		return "integer"
	case ElementTagString:
		return "string"
	case ElementTagFunction:
		return "function"
	default:
		return fmt.Sprintf("0x%x", uint8(t))
	}
}

func scriptFlagsString(f ScriptFlags) string {
	var parts []string
	if f.Flags&ScriptFlagNet != 0 {
		parts = append(parts, "net")
	}
	if f.Flags&ScriptFlagClientside != 0 {
		parts = append(parts, "clientside")
	}
	if u := f.UnknownBits(); u != "" {
		parts = append(parts, u)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// dumpScript emits a header line for one script-table entry and its
// disassembly, skipping (and warning on) scripts whose offset points
// outside the file, per §7's Warning category.
func (d *Dumper) dumpScript(w io.Writer, e *ScriptEntry, extent *ExtentInputs) error {
	if _, err := fmt.Fprintf(w, " script number=%d type=%d num-param=%d offset=%#x\n",
		e.Number, e.Type, e.NumParam, e.Offset); err != nil {
		return err
	}
	if !d.buf.OffsetInFile(int64(e.Offset)) {
		d.note(NoteWarning, "script %d offset %#x is outside the file; body skipped", e.Number, e.Offset)
		_, err := io.WriteString(w, "  warning: offset outside file, body skipped\n")
		return err
	}
	size := CodeSize(extent, int64(e.Offset))
	return d.disassembleInto(w, int64(e.Offset), size)
}

// dumpFunctionBody disassembles one FUNC entry's body. FunctionEntry.Size
// is a local-variable count (§3), not a byte length, so the body's extent
// is always inferred the same way a script's is (§4.5 candidate set 2).
func (d *Dumper) dumpFunctionBody(w io.Writer, f *FunctionEntry, extent *ExtentInputs) error {
	if !d.buf.OffsetInFile(int64(f.Offset)) {
		d.note(NoteWarning, "function at offset %#x is outside the file; body skipped", f.Offset)
		_, err := io.WriteString(w, "  warning: offset outside file, body skipped\n")
		return err
	}
	size := CodeSize(extent, int64(f.Offset))
	return d.disassembleInto(w, int64(f.Offset), size)
}

func (d *Dumper) disassembleInto(w io.Writer, offset, size int64) error {
	end := offset + size
	if end > int64(d.buf.Len()) {
		end = int64(d.buf.Len())
	}
	instrs, err := Disassemble(d.buf, offset, end, d.desc.SmallCode)
	if err != nil {
		return err
	}
	for i := range instrs {
		if _, err := io.WriteString(w, "  "+FormatInstruction(&instrs[i])); err != nil {
			return err
		}
	}
	return nil
}

// dumpDirectories writes the ACS0-era script and string directories,
// scripts before strings, per §5's deterministic ordering.
func (d *Dumper) dumpDirectories(w io.Writer, extent *ExtentInputs, scripts []ScriptEntry) error {
	if _, err := fmt.Fprintf(w, "== script directory (offset=%#x)\n", d.desc.DirectoryOffset); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, " total-scripts=%d\n", d.desc.TotalScripts); err != nil {
		return err
	}
	if d.isChunked() {
		// scripts holds the SPTR entries here; list the directory's own.
		entries, err := DecodeACS0ScriptDirectory(d.buf, d.desc.DirectoryOffset, d.desc.TotalScripts)
		if err != nil {
			return err
		}
		scripts = nil
		for _, e := range entries {
			scripts = append(scripts, ScriptEntry{Number: int16(e.Number), Offset: e.Offset, NumParam: e.NumParam})
		}
	}
	for i := range scripts {
		if err := d.dumpScript(w, &scripts[i], extent); err != nil {
			return err
		}
	}

	total, offsets, err := DecodeACS0StringDirectoryOffsets(d.buf, d.desc.StringOffset)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "== string directory (offset=%#x)\n", d.desc.StringOffset); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, " total-strings=%d\n", total); err != nil {
		return err
	}
	for i, off := range offsets {
		s, err := d.buf.CString(int64(off))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, " string[%d]=%q\n", i, s); err != nil {
			return err
		}
	}
	return nil
}
