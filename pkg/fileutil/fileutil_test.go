package fileutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()

	if Exists(filepath.Join(tmpDir, "nonexistent")) {
		t.Error("Exists returned true for non-existent file")
	}

	path := filepath.Join(tmpDir, "exists.txt")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	if !Exists(path) {
		t.Error("Exists returned false for existing file")
	}
}

func TestIsFileIsDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	if !IsFile(path) {
		t.Error("IsFile returned false for regular file")
	}
	if IsFile(tmpDir) {
		t.Error("IsFile returned true for directory")
	}
	if IsFile(filepath.Join(tmpDir, "missing")) {
		t.Error("IsFile returned true for missing file")
	}
	if !IsDir(tmpDir) {
		t.Error("IsDir returned false for directory")
	}
	if IsDir(path) {
		t.Error("IsDir returned true for regular file")
	}
}

func TestWriteTmpThenMove(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "output.txt")

	content := []byte("test content")
	err := WriteTmpThenMove(tmpDir, outPath, func(tmpPath string) error {
		return os.WriteFile(tmpPath, content, 0644)
	})
	if err != nil {
		t.Fatalf("WriteTmpThenMove failed: %v", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Content mismatch: got %q, want %q", got, content)
	}

	tmpPath := filepath.Join(tmpDir, "output.txt.tmp")
	if Exists(tmpPath) {
		t.Error("Tmp file still exists after successful write")
	}
}

func TestWriteTmpThenMoveError(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "output.txt")

	err := WriteTmpThenMove(tmpDir, outPath, func(tmpPath string) error {
		if err := os.WriteFile(tmpPath, []byte("partial"), 0644); err != nil {
			return err
		}
		return os.ErrPermission
	})
	if err == nil {
		t.Error("WriteTmpThenMove should have failed")
	}

	tmpPath := filepath.Join(tmpDir, "output.txt.tmp")
	if Exists(tmpPath) {
		t.Error("Tmp file exists after failed write")
	}
	if Exists(outPath) {
		t.Error("Output file exists after failed write")
	}
}

func TestWriteFileAtomicReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "object.xml")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(path, []byte("new")); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}
	if Exists(path + ".tmp") {
		t.Error("Tmp file still exists after successful write")
	}
}

func TestCleanupTmpFiles(t *testing.T) {
	tmpDir := t.TempDir()

	interrupted := []string{
		filepath.Join(tmpDir, "chair.iff.20240501T120000.000"+BackupExt+".tmp"),
		filepath.Join(tmpDir, "chair.iff.20240502T120000.000"+BackupExt+".tmp"),
	}
	kept := []string{
		filepath.Join(tmpDir, "notes.tmp"),
		filepath.Join(tmpDir, "table.iff.20240501T120000.000"+BackupExt+".tmp"),
		filepath.Join(tmpDir, "chair.iff.20240501T120000.000"+BackupExt),
		filepath.Join(tmpDir, "sub", "chair.iff.20240501T120000.000"+BackupExt+".tmp"),
		filepath.Join(tmpDir, "sub", "x.tmp"),
	}

	if err := os.MkdirAll(filepath.Join(tmpDir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, path := range append(slices.Clone(interrupted), kept...) {
		if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := CleanupTmpFiles(context.Background(), tmpDir, "chair.iff"); err != nil {
		t.Fatalf("CleanupTmpFiles failed: %v", err)
	}

	for _, path := range interrupted {
		if Exists(path) {
			t.Errorf("%s still exists", filepath.Base(path))
		}
	}
	for _, path := range kept {
		if !Exists(path) {
			t.Errorf("%s was removed", path)
		}
	}
}

func TestCleanupTmpFilesMissingDir(t *testing.T) {
	if err := CleanupTmpFiles(context.Background(), filepath.Join(t.TempDir(), "missing"), "chair.iff"); err != nil {
		t.Errorf("CleanupTmpFiles failed: %v", err)
	}
}

func TestCleanupTmpFilesCanceled(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "chair.iff.20240501T120000.000"+BackupExt+".tmp")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := CleanupTmpFiles(ctx, tmpDir, "chair.iff"); err == nil {
		t.Error("expected error for a canceled context")
	}
	if !Exists(path) {
		t.Error("file removed after cancellation")
	}
}

func TestBackupRestore(t *testing.T) {
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")
	src := filepath.Join(dir, "chair.iff")

	original := bytes.Repeat([]byte("IFF FILE 2.5:TYPE FOLLOWED BY SIZE"), 100)
	if err := os.WriteFile(src, original, 0644); err != nil {
		t.Fatal(err)
	}

	backupPath, err := Backup(src, backupDir, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if filepath.Dir(backupPath) != backupDir {
		t.Errorf("backup dir = %s, want %s", filepath.Dir(backupPath), backupDir)
	}

	info, err := os.Stat(backupPath)
	if err != nil {
		t.Fatalf("Stat backup failed: %v", err)
	}
	if info.Size() >= int64(len(original)) {
		t.Errorf("backup size = %d, want less than %d", info.Size(), len(original))
	}

	if err := os.WriteFile(src, []byte("rebuilt"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Restore(backupPath, src); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	got, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, original) {
		t.Errorf("restored %d bytes, want original %d bytes", len(got), len(original))
	}
}

func TestLatestBackup(t *testing.T) {
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")
	src := filepath.Join(dir, "chair.iff")
	if err := os.WriteFile(src, []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := LatestBackup(backupDir, "chair.iff"); err != nil || ok {
		t.Fatalf("LatestBackup on missing dir = %v, %v; want no backup", ok, err)
	}

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first, err := Backup(src, backupDir, base)
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	second, err := Backup(src, backupDir, base.Add(time.Minute))
	if err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if first == second {
		t.Fatalf("backups share path %s", first)
	}

	got, ok, err := LatestBackup(backupDir, "chair.iff")
	if err != nil {
		t.Fatalf("LatestBackup failed: %v", err)
	}
	if !ok || got != second {
		t.Errorf("LatestBackup = %s, %v; want %s", got, ok, second)
	}

	if _, ok, _ := LatestBackup(backupDir, "table.iff"); ok {
		t.Error("LatestBackup found a backup of another file")
	}
}
