package acs

import "testing"

func TestDecodeARAYStream(t *testing.T) {
	var data []byte
	data = le32(data, 1)
	data = le32(data, 10)
	data = le32(data, 2)
	data = le32(data, 20)

	r := NewRegion(NewBuffer(data), 0, int64(len(data)))
	decls, err := DecodeARAY(r)
	if err != nil {
		t.Fatalf("DecodeARAY: %v", err)
	}
	if len(decls) != 2 || decls[0] != (ArrayDecl{Number: 1, Size: 10}) || decls[1] != (ArrayDecl{Number: 2, Size: 20}) {
		t.Fatalf("got %+v", decls)
	}
}

func TestDecodeAINIInitializers(t *testing.T) {
	var data []byte
	data = le32(data, 3) // index
	data = le32(data, 10)
	data = le32(data, 20)
	data = le32(data, 30)

	r := NewRegion(NewBuffer(data), 0, int64(len(data)))
	init, err := DecodeAINI(r)
	if err != nil {
		t.Fatalf("DecodeAINI: %v", err)
	}
	if init.Index != 3 {
		t.Fatalf("got Index=%d, want 3", init.Index)
	}
	want := []int32{10, 20, 30}
	if len(init.Values) != len(want) {
		t.Fatalf("got %v, want %v", init.Values, want)
	}
	for i := range want {
		if init.Values[i] != want[i] {
			t.Fatalf("got %v, want %v", init.Values, want)
		}
	}
}

func TestDecodeAIMPImports(t *testing.T) {
	var data []byte
	data = le32(data, 1) // count
	data = le32(data, 7) // index
	data = le32(data, 4) // size
	data = cstr(data, "Arr")

	r := NewRegion(NewBuffer(data), 0, int64(len(data)))
	imports, err := DecodeAIMP(r)
	if err != nil {
		t.Fatalf("DecodeAIMP: %v", err)
	}
	if len(imports) != 1 || imports[0].Index != 7 || imports[0].Size != 4 || imports[0].Name != "Arr" {
		t.Fatalf("got %+v", imports)
	}
}

func TestDecodeATAGVersion0(t *testing.T) {
	var data []byte
	data = append(data, 0) // version
	data = le32(data, 9)   // array_index
	data = append(data, 0, 1, 2)

	r := NewRegion(NewBuffer(data), 0, int64(len(data)))
	version, tags, err := DecodeATAG(r)
	if err != nil {
		t.Fatalf("DecodeATAG: %v", err)
	}
	if version != 0 {
		t.Fatalf("got version=%d, want 0", version)
	}
	if tags.ArrayIndex != 9 {
		t.Fatalf("got ArrayIndex=%d, want 9", tags.ArrayIndex)
	}
	want := []ElementTag{ElementTagInteger, ElementTagString, ElementTagFunction}
	if len(tags.Tags) != len(want) {
		t.Fatalf("got %v, want %v", tags.Tags, want)
	}
	for i := range want {
		if tags.Tags[i] != want[i] {
			t.Fatalf("got %v, want %v", tags.Tags, want)
		}
	}
}

func TestDecodeATAGUnsupportedVersion(t *testing.T) {
	data := []byte{1} // version 1: unsupported

	r := NewRegion(NewBuffer(data), 0, int64(len(data)))
	version, tags, err := DecodeATAG(r)
	if err != nil {
		t.Fatalf("DecodeATAG: %v", err)
	}
	if version != 1 {
		t.Fatalf("got version=%d, want 1", version)
	}
	if tags != nil {
		t.Fatalf("expected nil tags for unsupported version, got %+v", tags)
	}
}

func TestDecodeSARYSizes(t *testing.T) {
	var data []byte
	data = le16(data, 4) // owner_index
	data = le32(data, 8)
	data = le32(data, 16)

	r := NewRegion(NewBuffer(data), 0, int64(len(data)))
	sizes, err := DecodeSARYorFARY(r)
	if err != nil {
		t.Fatalf("DecodeSARYorFARY: %v", err)
	}
	if sizes.OwnerIndex != 4 {
		t.Fatalf("got OwnerIndex=%d, want 4", sizes.OwnerIndex)
	}
	want := []int32{8, 16}
	if len(sizes.Sizes) != len(want) || sizes.Sizes[0] != want[0] || sizes.Sizes[1] != want[1] {
		t.Fatalf("got %v, want %v", sizes.Sizes, want)
	}
}
