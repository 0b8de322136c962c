package fileutil

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/eunmann/iffc/internal/logctx"
)

// BackupExt is the extension of compressed backups.
const BackupExt = ".zst"

// backupTimeFormat orders backups of the same file by creation time.
const backupTimeFormat = "20060102T150405.000"

// Backup writes a zstd-compressed copy of srcPath into backupDir and returns
// the backup path. Backups are named after the source file and the time
// they were taken, so repeated backups never overwrite each other.
func Backup(srcPath, backupDir string, now time.Time) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open backup source: %w", err)
	}
	defer src.Close()

	name := filepath.Base(srcPath) + "." + now.UTC().Format(backupTimeFormat) + BackupExt
	outPath := filepath.Join(backupDir, name)

	err = WriteTmpThenMove(backupDir, outPath, func(tmpPath string) error {
		f, err := os.Create(tmpPath)
		if err != nil {
			return fmt.Errorf("create backup: %w", err)
		}

		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			f.Close()
			return fmt.Errorf("create zstd encoder: %w", err)
		}

		if _, err := io.Copy(enc, bufio.NewReader(src)); err != nil {
			enc.Close()
			f.Close()
			return fmt.Errorf("compress backup: %w", err)
		}
		// Close the compressor (finalizes zstd stream)
		if err := enc.Close(); err != nil {
			f.Close()
			return fmt.Errorf("close compressor: %w", err)
		}
		return f.Close()
	})
	if err != nil {
		return "", err
	}
	return outPath, nil
}

// Restore decompresses a backup over dstPath.
func Restore(backupPath, dstPath string) error {
	src, err := os.Open(backupPath)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer src.Close()

	dec, err := zstd.NewReader(bufio.NewReader(src))
	if err != nil {
		return fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	return WriteTmpThenMove(filepath.Dir(dstPath), dstPath, func(tmpPath string) error {
		f, err := os.Create(tmpPath)
		if err != nil {
			return fmt.Errorf("create restored file: %w", err)
		}
		if _, err := io.Copy(f, dec); err != nil {
			f.Close()
			return fmt.Errorf("decompress backup: %w", err)
		}
		return f.Close()
	})
}

// LatestBackup returns the newest backup of the file named base in
// backupDir, or false when there is none.
func LatestBackup(backupDir, base string) (string, bool, error) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read backup dir: %w", err)
	}

	latest := ""
	prefix := base + "."
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, BackupExt) {
			continue
		}
		// The timestamp format sorts lexically.
		if name > latest {
			latest = name
		}
	}
	if latest == "" {
		return "", false, nil
	}
	return filepath.Join(backupDir, latest), true, nil
}

// CleanupTmpFiles removes the temporary files left in backupDir by
// interrupted backups of the file named base. Only the top level of
// backupDir is searched and nothing else is touched.
func CleanupTmpFiles(ctx context.Context, backupDir, base string) error {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read backup dir: %w", err)
	}

	var removed int
	prefix := base + "."
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, BackupExt+".tmp") {
			continue
		}
		if err := os.Remove(filepath.Join(backupDir, name)); err != nil {
			return fmt.Errorf("remove %s: %w", name, err)
		}
		removed++
	}

	if removed > 0 {
		log := logctx.FromContext(ctx)
		log.Debug().Int("files_removed", removed).Str("dir", backupDir).Msg("cleaned up tmp files")
	}
	return nil
}
