package acs

// Format identifies which of the three ACS container variants a file
// uses.
type Format int

const (
	FormatUnknown Format = iota
	FormatZero           // ACS0
	FormatBigE           // ACSE
	FormatLittleE        // ACSe
)

func (f Format) String() string {
	switch f {
	case FormatZero:
		return "ACS0"
	case FormatBigE:
		return "ACSE"
	case FormatLittleE:
		return "ACSe"
	default:
		return "unknown"
	}
}

const acs0EntrySize = 12 // (number, offset, num_param), each i32

// Descriptor is the format descriptor populated by the resolver: one
// per run, per §3.
type Descriptor struct {
	Format     Format
	Indirect   bool
	SmallCode  bool
	HasScriptDirectory bool

	DirectoryOffset  int64 // valid iff HasScriptDirectory
	StringOffset     int64 // valid iff HasScriptDirectory
	ChunkOffset      int64 // valid iff Format in {BigE, LittleE}
	RealHeaderOffset int64 // valid iff Indirect

	TotalScripts int32 // valid iff HasScriptDirectory; read at DirectoryOffset
}

// ChunkRegionEnd returns the exclusive end of the chunk region: the
// real header offset for indirect files, else N.
func (d *Descriptor) ChunkRegionEnd(n int64) int64 {
	if d.Indirect {
		return d.RealHeaderOffset
	}
	return n
}

// ResolveFormat runs the L2 format resolver over buf: a deterministic
// single pass over the first 8 bytes plus at most two additional
// peeks, per §4.2.
func ResolveFormat(buf *Buffer) (*Descriptor, error) {
	if err := buf.RequireBytes(0, 8); err != nil {
		return nil, &IllFormedError{Offset: 0, Reason: "short read: primary header"}
	}

	id := buf.Bytes()[0:4]
	offset, err := buf.ReadI32LE(4)
	if err != nil {
		return nil, err
	}
	directoryOffset := int64(offset)
	if err := buf.RequireOffset(directoryOffset); err != nil {
		return nil, err
	}

	d := &Descriptor{DirectoryOffset: directoryOffset}

	switch {
	case isMagic(id, "ACSE"):
		d.Format = FormatBigE
		d.ChunkOffset = directoryOffset
		d.Indirect = false

	case isMagic(id, "ACSe"):
		d.Format = FormatLittleE
		d.ChunkOffset = directoryOffset
		d.Indirect = false
		d.SmallCode = true

	case isMagic(id, "ACS\x00"):
		if err := resolveIndirect(buf, directoryOffset, d); err != nil {
			return nil, err
		}

	default:
		var magic [4]byte
		copy(magic[:], id)
		return nil, &UnsupportedFormatError{Magic: magic}
	}

	d.HasScriptDirectory = d.Format == FormatZero || d.Indirect
	if d.HasScriptDirectory {
		total, err := buf.ReadI32LE(directoryOffset)
		if err != nil {
			return nil, err
		}
		d.TotalScripts = total
		stringOffset := directoryOffset + 4 + int64(total)*acs0EntrySize
		if err := buf.RequireOffset(stringOffset); err != nil {
			return nil, err
		}
		d.StringOffset = stringOffset
	}

	return d, nil
}

// resolveIndirect handles the "ACS\0" branch of ResolveFormat:
// probing for a disguised ACSE/ACSe header hidden at an offset
// discovered by reverse-reading from directoryOffset - 4.
func resolveIndirect(buf *Buffer, directoryOffset int64, d *Descriptor) error {
	probe := directoryOffset - 4
	if buf.OffsetInFile(probe) {
		if err := buf.RequireBytes(probe, 4); err == nil {
			probeID := buf.Bytes()[probe : probe+4]
			switch {
			case isMagic(probeID, "ACSE"):
				d.Format = FormatBigE
			case isMagic(probeID, "ACSe"):
				d.Format = FormatLittleE
				d.SmallCode = true
			}
			if d.Format != FormatUnknown {
				chunkOffsetSlot := probe - 4
				if err := buf.RequireOffset(chunkOffsetSlot); err != nil {
					return err
				}
				chunkOffset, err := buf.ReadI32LE(chunkOffsetSlot)
				if err != nil {
					return err
				}
				if err := buf.RequireOffset(int64(chunkOffset)); err != nil {
					return err
				}
				d.ChunkOffset = int64(chunkOffset)
				d.RealHeaderOffset = chunkOffsetSlot
				d.Indirect = true
				return nil
			}
		}
	}
	d.Format = FormatZero
	return nil
}

func isMagic(b []byte, magic string) bool {
	if len(b) < len(magic) {
		return false
	}
	for i := 0; i < len(magic); i++ {
		if b[i] != magic[i] {
			return false
		}
	}
	return true
}
