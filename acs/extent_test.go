package acs

import "testing"

func TestCodeSizeTwoScripts(t *testing.T) {
	// S6: ACSE file with SPTR containing two scripts at offsets 12
	// and 80; chunk_offset somewhere past both.
	in := &ExtentInputs{
		N:              200,
		ScriptOffsets:  []int64{12, 80},
		HasChunkOffset: true,
		ChunkOffset:    150,
	}

	if got := CodeSize(in, 12); got != 68 {
		t.Fatalf("CodeSize(12) = %d, want 68", got)
	}
	if got := CodeSize(in, 80); got != 70 {
		t.Fatalf("CodeSize(80) = %d, want 70 (chunk_offset - 80)", got)
	}
}

func TestCodeSizeFallsBackToN(t *testing.T) {
	// When chunk_offset is not lower than the target, N is used.
	in := &ExtentInputs{
		N:              200,
		ScriptOffsets:  []int64{80},
		HasChunkOffset: true,
		ChunkOffset:    40, // before the target, must not be considered
	}

	if got := CodeSize(in, 80); got != 120 {
		t.Fatalf("CodeSize(80) = %d, want 120 (N - 80)", got)
	}
}

func TestCodeSizeIgnoresEarlierOffsets(t *testing.T) {
	in := &ExtentInputs{
		N:                100,
		DirectoryOffsets: []int64{5, 50, 90},
		HasDirectory:     true,
		DirectoryOffset:  10,
	}
	// Only 50 and 90 are strictly greater than 10; the minimum wins.
	if got := CodeSize(in, 10); got != 40 {
		t.Fatalf("CodeSize(10) = %d, want 40", got)
	}
}

func TestCodeSizeNeverNegative(t *testing.T) {
	in := &ExtentInputs{N: 10}
	if got := CodeSize(in, 10); got != 0 {
		t.Fatalf("CodeSize at N should be 0, got %d", got)
	}
}

func TestCodeSizeFunctionOffsets(t *testing.T) {
	in := &ExtentInputs{
		N:               500,
		FunctionOffsets: []int64{30, 60},
	}
	if got := CodeSize(in, 30); got != 30 {
		t.Fatalf("CodeSize(30) = %d, want 30", got)
	}
}
