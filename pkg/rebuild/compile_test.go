package rebuild

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/eunmann/iffc/pkg/description"
	"github.com/eunmann/iffc/pkg/gamedir"
	"github.com/eunmann/iffc/pkg/iff"
	"github.com/eunmann/iffc/pkg/sprite"
)

// clearBounds zeroes the frame bounds so a compile has to recompute them.
func clearBounds(d *description.Description) {
	for si := range d.Sprites {
		for fi := range d.Sprites[si].Frames {
			d.Sprites[si].Frames[fi].SetBounds(sprite.Rect{})
		}
	}
}

func TestCompile(t *testing.T) {
	game := &gamedir.Dir{Path: t.TempDir()}
	src := t.TempDir()

	if err := os.MkdirAll(filepath.Join(game.Path, "UserObjects"), 0755); err != nil {
		t.Fatal(err)
	}
	archivePath := filepath.Join(game.Path, "UserObjects", "chair.iff")
	writeArchive(t, archivePath, testArchive(t, sourceGUID))

	d := testDescription(t, src)
	d.ObjectFile = `UserObjects\chair`
	clearBounds(d)
	xmlPath := filepath.Join(src, "chair.xml")
	if err := d.Save(xmlPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	res, err := Compile(context.Background(), CompileRequest{DescriptionPath: xmlPath, Game: game})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if res.OutputPath != archivePath {
		t.Errorf("OutputPath = %q, want %q", res.OutputPath, archivePath)
	}

	saved, err := description.Load(xmlPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	f := saved.Sprites[0].Frames[0]
	if f.Width != 4 || f.Height != 4 {
		t.Errorf("saved frame = %dx%d, want bounds recomputed to 4x4", f.Width, f.Height)
	}

	a, err := iff.Open(archivePath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer a.Close()
	if _, ok := a.Find(iff.TypeDrawGroup, 100); !ok {
		t.Error("rebuilt archive has no draw group")
	}
}

func TestCompileMissingArchive(t *testing.T) {
	game := &gamedir.Dir{Path: t.TempDir()}
	src := t.TempDir()

	d := testDescription(t, src)
	d.ObjectFile = "missing"
	xmlPath := filepath.Join(src, "chair.xml")
	if err := d.Save(xmlPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := Compile(context.Background(), CompileRequest{DescriptionPath: xmlPath, Game: game}); err == nil {
		t.Fatal("expected error for a missing archive")
	}
}

func TestCompileVariant(t *testing.T) {
	game := &gamedir.Dir{Path: t.TempDir()}
	src := t.TempDir()
	if err := os.MkdirAll(game.Downloads(), 0755); err != nil {
		t.Fatal(err)
	}

	name := gamedir.VariantName{Format: "{name} {object} {variant} {hash}", Creator: "ann", Object: "chair"}
	original := writeArchive(t, filepath.Join(game.Downloads(), "ann chair orig .iff"), testArchive(t, sourceGUID))
	writeArchive(t, filepath.Join(game.Downloads(), "ann chair red .iff"), testArchive(t, variantGUID))

	d := testDescriptionIn(t, src, "chair - orig - sprites")
	writeChannels(t, src, "chair - red - sprites", 77)
	clearBounds(d)
	xmlPath := filepath.Join(src, "chair.xml")
	if err := d.Save(xmlPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	before, err := os.ReadFile(xmlPath)
	if err != nil {
		t.Fatal(err)
	}

	res, err := CompileVariant(context.Background(), VariantRequest{
		SourceDir: src,
		Name:      name,
		From:      "orig",
		To:        "red",
		Game:      game,
	})
	if err != nil {
		t.Fatalf("CompileVariant failed: %v", err)
	}

	wantPath := filepath.Join(game.Downloads(), "ann chair red "+gamedir.NameHash("chair", "red")+".iff")
	if res.OutputPath != wantPath {
		t.Errorf("OutputPath = %q, want %q", res.OutputPath, wantPath)
	}
	if res.PatchedOperands != 1 {
		t.Errorf("PatchedOperands = %d, want 1", res.PatchedOperands)
	}

	origPath := filepath.Join(game.Downloads(), "ann chair orig "+gamedir.NameHash("chair", "orig")+".iff")
	if got, err := os.ReadFile(origPath); err != nil || !bytes.Equal(got, original) {
		t.Errorf("original variant archive changed or missing: %v", err)
	}

	spr, ok := res.Archive.Find(iff.TypeSprite, 200)
	if !ok {
		t.Fatal("variant has no sprite 200")
	}
	p, err := sprite.DecodePayload(spr.Data)
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	frame, err := sprite.DecodeFrame(p.Frames[0])
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if !bytes.Equal(frame.Color, bytes.Repeat([]byte{77}, 16)) {
		t.Errorf("color = %v, want the new variant's bitmap", frame.Color)
	}

	after, err := os.ReadFile(xmlPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("description was saved for a different variant")
	}
}
