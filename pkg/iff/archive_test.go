package iff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustChunk(t *testing.T, typ string, id ChunkID, label string, data []byte) Chunk {
	t.Helper()
	c, err := NewChunk(typ, id, label, data)
	if err != nil {
		t.Fatalf("NewChunk(%s, %d) failed: %v", typ, id, err)
	}
	return c
}

func objdPayload(guid int32) []byte {
	data := make([]byte, 216)
	binary.LittleEndian.PutUint32(data[GUIDOffset:], uint32(guid))
	return data
}

func TestChunkHeaderRoundTrip(t *testing.T) {
	h, err := NewChunkHeader("BHAV", -2, "main", 24)
	if err != nil {
		t.Fatalf("NewChunkHeader failed: %v", err)
	}

	encoded := EncodeChunkHeader(h)
	if len(encoded) != ChunkHeaderSize {
		t.Fatalf("encoded size = %d, want %d", len(encoded), ChunkHeaderSize)
	}
	if !bytes.Equal(encoded[4:8], []byte{0, 0, 0, 100}) {
		t.Errorf("size bytes = %v, want big-endian 100", encoded[4:8])
	}
	if !bytes.Equal(encoded[8:10], []byte{0xFF, 0xFE}) {
		t.Errorf("id bytes = %v, want big-endian -2", encoded[8:10])
	}

	decoded, err := DecodeChunkHeader(encoded)
	if err != nil {
		t.Fatalf("DecodeChunkHeader failed: %v", err)
	}
	if decoded != h {
		t.Errorf("decoded = %+v, want %+v", decoded, h)
	}
	if decoded.Flags != DefaultChunkFlags {
		t.Errorf("Flags = %#x, want %#x", decoded.Flags, DefaultChunkFlags)
	}
	if decoded.LabelString() != "main" {
		t.Errorf("Label = %q, want %q", decoded.LabelString(), "main")
	}
}

func TestNewChunkLabelLimits(t *testing.T) {
	if _, err := NewChunk("STR#", 1, strings.Repeat("a", 63), nil); err != nil {
		t.Errorf("63-byte label failed: %v", err)
	}

	_, err := NewChunk("STR#", 1, strings.Repeat("a", 64), nil)
	if !errors.Is(err, ErrLabelTooLong) {
		t.Errorf("64-byte label error = %v, want ErrLabelTooLong", err)
	}
	if !errors.Is(err, ErrSchema) {
		t.Errorf("64-byte label error = %v, want ErrSchema kind", err)
	}

	if _, err := NewChunk("STR", 1, "", nil); !errors.Is(err, ErrInvalidType) {
		t.Errorf("3-byte type error = %v, want ErrInvalidType", err)
	}
}

func testArchive(t *testing.T) *Archive {
	t.Helper()
	return &Archive{
		DirectoryOffset: 1234,
		Chunks: []Chunk{
			mustChunk(t, "OBJD", 128, "chair", objdPayload(0x1000)),
			mustChunk(t, "BHAV", 4096, "init", make([]byte, 24)),
			mustChunk(t, "STR#", 128, "", []byte{1, 2, 3}),
		},
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	a := testArchive(t)

	data, err := a.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if len(data) != a.Size() {
		t.Fatalf("len(data) = %d, want %d", len(data), a.Size())
	}
	if string(data[:60]) != Magic {
		t.Errorf("preamble = %q, want magic", data[:60])
	}
	if got := binary.BigEndian.Uint32(data[60:64]); got != 1234 {
		t.Errorf("directory offset = %d, want 1234", got)
	}

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.DirectoryOffset != a.DirectoryOffset {
		t.Errorf("DirectoryOffset = %d, want %d", parsed.DirectoryOffset, a.DirectoryOffset)
	}
	if len(parsed.Chunks) != len(a.Chunks) {
		t.Fatalf("len(Chunks) = %d, want %d", len(parsed.Chunks), len(a.Chunks))
	}
	for i := range a.Chunks {
		if parsed.Chunks[i].Header != a.Chunks[i].Header {
			t.Errorf("chunk %d header = %+v, want %+v", i, parsed.Chunks[i].Header, a.Chunks[i].Header)
		}
		if !bytes.Equal(parsed.Chunks[i].Data, a.Chunks[i].Data) {
			t.Errorf("chunk %d data differs", i)
		}
	}

	again, err := parsed.Serialize()
	if err != nil {
		t.Fatalf("second Serialize failed: %v", err)
	}
	if !bytes.Equal(again, data) {
		t.Error("re-serialized archive differs")
	}
}

func TestParseEmptyArchive(t *testing.T) {
	a := &Archive{}
	data, err := a.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(parsed.Chunks) != 0 {
		t.Errorf("len(Chunks) = %d, want 0", len(parsed.Chunks))
	}
}

func TestParseErrors(t *testing.T) {
	valid, err := testArchive(t).Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	badMagic := bytes.Clone(valid)
	badMagic[0] = 'X'

	oversized := bytes.Clone(valid)
	binary.BigEndian.PutUint32(oversized[PreambleSize+4:], uint32(len(valid)))

	undersized := bytes.Clone(valid)
	binary.BigEndian.PutUint32(undersized[PreambleSize+4:], 10)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short preamble", valid[:40], ErrTruncated},
		{"bad magic", badMagic, ErrInvalidMagic},
		{"partial header", valid[:PreambleSize+10], ErrTruncated},
		{"size past end", oversized, ErrSizeMismatch},
		{"size below header", undersized, ErrSizeMismatch},
		{"truncated payload", valid[:len(valid)-1], ErrSizeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("Parse error = %v, want ErrDecode kind", err)
			}
		})
	}
}

func TestSerializeRejectsInconsistentChunk(t *testing.T) {
	c := mustChunk(t, "BHAV", 1, "", make([]byte, 12))
	c.Data = c.Data[:6]
	a := &Archive{Chunks: []Chunk{c}}
	if _, err := a.Serialize(); !errors.Is(err, ErrSchema) {
		t.Errorf("Serialize error = %v, want ErrSchema", err)
	}

	c = mustChunk(t, "BHAV", 1, "", nil)
	for i := range c.Header.Label {
		c.Header.Label[i] = 'x'
	}
	a = &Archive{Chunks: []Chunk{c}}
	if _, err := a.Serialize(); !errors.Is(err, ErrLabelTooLong) {
		t.Errorf("Serialize error = %v, want ErrLabelTooLong", err)
	}
}

func TestOffsets(t *testing.T) {
	a := testArchive(t)
	got := a.Offsets()
	want := []uint32{64, 64 + 76 + 216, 64 + 76 + 216 + 76 + 24}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("offset[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestOpen(t *testing.T) {
	data, err := testArchive(t).Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "object.iff")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if len(f.Chunks) != 3 {
		t.Errorf("len(Chunks) = %d, want 3", len(f.Chunks))
	}
	if c, ok := f.Find("STR#", 128); !ok || !bytes.Equal(c.Data, []byte{1, 2, 3}) {
		t.Errorf("Find(STR#, 128) = %v, %v", c, ok)
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "missing.iff")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(missing) error = %v, want ErrNotExist", err)
	}

	empty := filepath.Join(dir, "empty.iff")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	_, err := Open(empty)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Open(empty) error = %v, want ErrDecode", err)
	}
	if !strings.Contains(err.Error(), empty) {
		t.Errorf("Open(empty) error = %q, want path", err)
	}
}
