package acs

// ExtentInputs collects the candidate offset sets consulted by
// CodeSize, per §4.5: later script/function offsets, directory
// offsets, and the chunk offset, each gated on whether it applies to
// the current format.
type ExtentInputs struct {
	N int64

	// Populated when the format is chunked: ACSE or ACSe, direct or
	// indirect.
	ScriptOffsets   []int64
	FunctionOffsets []int64
	ChunkOffset     int64
	HasChunkOffset  bool

	// Populated when a script directory is present.
	DirectoryOffsets []int64 // script directory entry offsets + string offsets
	DirectoryOffset  int64
	HasDirectory     bool
}

// CodeSize computes a conservative upper bound on the byte length of
// code starting at offset, per §4.5: the minimum of N and every
// later-than-offset candidate value.
func CodeSize(in *ExtentInputs, offset int64) int64 {
	end := in.N

	for _, o := range in.ScriptOffsets {
		if o > offset && o < end {
			end = o
		}
	}
	for _, o := range in.FunctionOffsets {
		if o > offset && o < end {
			end = o
		}
	}
	for _, o := range in.DirectoryOffsets {
		if o > offset && o < end {
			end = o
		}
	}
	if in.HasChunkOffset && in.ChunkOffset > offset && in.ChunkOffset < end {
		end = in.ChunkOffset
	}
	if in.HasDirectory && in.DirectoryOffset > offset && in.DirectoryOffset < end {
		end = in.DirectoryOffset
	}

	size := end - offset
	if size < 0 {
		size = 0
	}
	return size
}
