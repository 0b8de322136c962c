package gamedir

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	game := t.TempDir()

	t.Run("flag", func(t *testing.T) {
		t.Setenv(EnvInstallPath, "/nonexistent")
		d, err := Resolve(game)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if d.Path != game {
			t.Errorf("Path = %q, want %q", d.Path, game)
		}
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(EnvInstallPath, game)
		d, err := Resolve("")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if d.Path != game {
			t.Errorf("Path = %q, want %q", d.Path, game)
		}
	})

	t.Run("unset", func(t *testing.T) {
		t.Setenv(EnvInstallPath, "")
		if _, err := Resolve(""); !errors.Is(err, ErrNoInstall) {
			t.Errorf("error = %v, want ErrNoInstall", err)
		}
	})

	t.Run("not a directory", func(t *testing.T) {
		file := filepath.Join(game, "file")
		if err := os.WriteFile(file, nil, 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Resolve(file); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}

func TestArchivePath(t *testing.T) {
	d := &Dir{Path: "/game"}
	want := filepath.Join("/game", "UserObjects", "chair.iff")
	if got := d.ArchivePath(`UserObjects\chair`); got != want {
		t.Errorf("ArchivePath = %q, want %q", got, want)
	}
	if got := d.Downloads(); got != filepath.Join("/game", "downloads") {
		t.Errorf("Downloads = %q", got)
	}
}

func TestNameHash(t *testing.T) {
	tests := []struct {
		object  string
		variant string
		want    string
	}{
		{"chair", "red", "chreF1349FF5"},
		{"chair", "", "ch9A54329E"},
		{"Big Chair x", "blue", "BiChblC0FB7028"},
	}

	for _, tt := range tests {
		if got := NameHash(tt.object, tt.variant); got != tt.want {
			t.Errorf("NameHash(%q, %q) = %q, want %q", tt.object, tt.variant, got, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	n := VariantName{Format: "{name} - {object} {variant} {hash}", Creator: "Ann", Object: "chair", Variant: "red"}

	if got, want := n.FileName(n.Hash()), "Ann - chair red chreF1349FF5.iff"; got != want {
		t.Errorf("FileName = %q, want %q", got, want)
	}
	if got, want := n.FileName(""), "Ann - chair red .iff"; got != want {
		t.Errorf("unhashed FileName = %q, want %q", got, want)
	}

	n.Format = "{object}.far"
	if got := n.FileName(""); got != "chair.iff" {
		t.Errorf("FileName = %q, want extension replaced", got)
	}
}

func TestVariantArchive(t *testing.T) {
	d := &Dir{Path: t.TempDir()}
	if err := os.MkdirAll(d.Downloads(), 0755); err != nil {
		t.Fatal(err)
	}
	n := VariantName{Format: "{name}_{object}_{variant}{hash}", Creator: "ann", Object: "chair", Variant: "red"}
	hashed := filepath.Join(d.Downloads(), "ann_chair_redchreF1349FF5.iff")
	unhashed := filepath.Join(d.Downloads(), "ann_chair_red.iff")

	t.Run("missing", func(t *testing.T) {
		if _, err := d.VariantArchive(context.Background(), n); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("renames unhashed", func(t *testing.T) {
		if err := os.WriteFile(unhashed, []byte("iff"), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := d.VariantArchive(context.Background(), n)
		if err != nil {
			t.Fatalf("VariantArchive failed: %v", err)
		}
		if got != hashed {
			t.Errorf("path = %q, want %q", got, hashed)
		}
		if _, err := os.Stat(unhashed); !os.IsNotExist(err) {
			t.Error("unhashed archive still exists")
		}
		if data, _ := os.ReadFile(hashed); string(data) != "iff" {
			t.Errorf("hashed archive = %q, want renamed contents", data)
		}
	})

	t.Run("uses hashed", func(t *testing.T) {
		if err := os.WriteFile(unhashed, []byte("other"), 0644); err != nil {
			t.Fatal(err)
		}
		got, err := d.VariantArchive(context.Background(), n)
		if err != nil {
			t.Fatalf("VariantArchive failed: %v", err)
		}
		if got != hashed {
			t.Errorf("path = %q, want %q", got, hashed)
		}
		if _, err := os.Stat(unhashed); err != nil {
			t.Error("unhashed archive was touched although the hashed one exists")
		}
	})
}
