package iff

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestExtractGUIDs(t *testing.T) {
	chunks := []Chunk{
		mustChunk(t, "OBJD", 128, "a", objdPayload(100)),
		mustChunk(t, "BHAV", 128, "", make([]byte, 12)),
		mustChunk(t, "OBJD", 129, "b", objdPayload(200)),
		mustChunk(t, "OBJD", 128, "dup", objdPayload(300)),
	}
	guids, err := ExtractGUIDs(chunks)
	if err != nil {
		t.Fatalf("ExtractGUIDs failed: %v", err)
	}
	if len(guids) != 2 {
		t.Fatalf("len(guids) = %d, want 2", len(guids))
	}
	if guids[128] != 100 {
		t.Errorf("guids[128] = %d, want 100 (first occurrence)", guids[128])
	}
	if guids[129] != 200 {
		t.Errorf("guids[129] = %d, want 200", guids[129])
	}
}

func TestExtractGUIDsErrors(t *testing.T) {
	_, err := ExtractGUIDs([]Chunk{mustChunk(t, "BHAV", 1, "", nil)})
	if !errors.Is(err, ErrNoGUIDs) {
		t.Errorf("no OBJD error = %v, want ErrNoGUIDs", err)
	}

	_, err = ExtractGUIDs([]Chunk{mustChunk(t, "OBJD", 1, "", make([]byte, 30))})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("short OBJD error = %v, want ErrDecode", err)
	}
}

func TestRemapGUIDs(t *testing.T) {
	source := GUIDMap{1: 10, 2: 20}
	target := GUIDMap{1: 11, 2: 20}

	r, err := RemapGUIDs(source, target, true)
	if err != nil {
		t.Fatalf("RemapGUIDs failed: %v", err)
	}
	if got, err := r.Target(1); err != nil || got != 11 {
		t.Errorf("Target(1) = %d, %v, want 11", got, err)
	}
	if got, ok := r.Replace(10); !ok || got != 11 {
		t.Errorf("Replace(10) = %d, %v, want 11, true", got, ok)
	}
	if got, ok := r.Replace(20); !ok || got != 20 {
		t.Errorf("Replace(20) = %d, %v, want 20, true", got, ok)
	}
	if _, ok := r.Replace(99); ok {
		t.Error("Replace(99) found a mapping")
	}
	if !r.Changed() {
		t.Error("Changed() = false, want true")
	}
	if _, err := r.Target(3); !errors.Is(err, ErrMissingGUID) {
		t.Errorf("Target(3) error = %v, want ErrMissingGUID", err)
	}
}

func TestRemapGUIDsSameFile(t *testing.T) {
	guids := GUIDMap{1: 10, 2: 20}
	r, err := RemapGUIDs(guids, guids, false)
	if err != nil {
		t.Fatalf("RemapGUIDs failed: %v", err)
	}
	if r.Changed() {
		t.Error("Changed() = true for in-place rebuild")
	}
}

func TestRemapGUIDsErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   GUIDMap
		target   GUIDMap
		distinct bool
		want     error
	}{
		{"removed id", GUIDMap{1: 10, 2: 20}, GUIDMap{1: 11}, false, ErrGUIDKeyMismatch},
		{"added id", GUIDMap{1: 10}, GUIDMap{1: 11, 2: 21}, false, ErrGUIDKeyMismatch},
		{"identical variant", GUIDMap{1: 10, 2: 20}, GUIDMap{1: 10, 2: 20}, true, ErrDuplicateVariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RemapGUIDs(tt.source, tt.target, tt.distinct)
			if !errors.Is(err, tt.want) {
				t.Errorf("RemapGUIDs error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrConsistency) {
				t.Errorf("RemapGUIDs error = %v, want ErrConsistency kind", err)
			}
		})
	}
}

func TestRemapGUIDsSharedSourceGUID(t *testing.T) {
	r, err := RemapGUIDs(GUIDMap{5: 10, 3: 10}, GUIDMap{5: 50, 3: 30}, true)
	if err != nil {
		t.Fatalf("RemapGUIDs failed: %v", err)
	}
	if got, _ := r.Replace(10); got != 30 {
		t.Errorf("Replace(10) = %d, want 30 (lowest id)", got)
	}
}

func bhavInstruction(op byte, operand int32) []byte {
	ins := make([]byte, InstructionSize)
	ins[0] = op
	binary.LittleEndian.PutUint32(ins[4:], uint32(operand))
	return ins
}

func TestPatchBHAV(t *testing.T) {
	r, err := RemapGUIDs(GUIDMap{1: 10}, GUIDMap{1: 11}, true)
	if err != nil {
		t.Fatalf("RemapGUIDs failed: %v", err)
	}

	var data []byte
	data = append(data, bhavInstruction(31, 10)...)
	data = append(data, bhavInstruction(32, 10)...)
	data = append(data, bhavInstruction(42, 10)...)
	data = append(data, bhavInstruction(2, 10)...)  // not a GUID opcode
	data = append(data, bhavInstruction(31, 77)...) // unknown GUID
	original := append([]byte(nil), data...)

	c := mustChunk(t, "BHAV", 4096, "", data)
	n, err := PatchBHAV(&c, r)
	if err != nil {
		t.Fatalf("PatchBHAV failed: %v", err)
	}
	if n != 3 {
		t.Errorf("patched = %d, want 3", n)
	}

	wants := []int32{11, 11, 11, 10, 77}
	for i, want := range wants {
		got := int32(binary.LittleEndian.Uint32(c.Data[i*InstructionSize+4:]))
		if got != want {
			t.Errorf("instruction %d operand = %d, want %d", i, got, want)
		}
	}
	if string(data) != string(original) {
		t.Error("PatchBHAV modified the input payload in place")
	}
}

func TestPatchBHAVErrors(t *testing.T) {
	r, err := RemapGUIDs(GUIDMap{1: 10}, GUIDMap{1: 11}, true)
	if err != nil {
		t.Fatalf("RemapGUIDs failed: %v", err)
	}
	c := mustChunk(t, "BHAV", 1, "", make([]byte, 13))
	if _, err := PatchBHAV(&c, r); !errors.Is(err, ErrDecode) {
		t.Errorf("PatchBHAV error = %v, want ErrDecode", err)
	}
}
