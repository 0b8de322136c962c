package rebuild

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eunmann/iffc/internal/logctx"
	"github.com/eunmann/iffc/pkg/bitmap"
	"github.com/eunmann/iffc/pkg/description"
	"github.com/eunmann/iffc/pkg/fileutil"
	"github.com/eunmann/iffc/pkg/iff"
)

// FileRequest describes a rebuild of archive files on disk.
type FileRequest struct {
	// SourcePath is the archive whose non-object chunks are kept.
	SourcePath string
	// TargetPath is the archive supplying the GUIDs, which is replaced by
	// the result. Empty rebuilds SourcePath in place.
	TargetPath string

	Description *description.Description
	SourceDir   string
	Cache       *bitmap.Cache

	// BackupDir receives a compressed copy of the target before it is
	// replaced. Empty disables backups.
	BackupDir string

	Options Options
}

// FileResult reports a rebuild written to disk.
type FileResult struct {
	*Result
	// OutputPath is the replaced archive.
	OutputPath string
	// BackupPath is the backup of the replaced archive, if one was taken.
	BackupPath string
}

// RebuildFile rebuilds an archive and replaces the target file with the
// result. The target is written through a temporary file in its directory.
func RebuildFile(ctx context.Context, req FileRequest) (*FileResult, error) {
	targetPath := req.TargetPath
	if targetPath == "" {
		targetPath = req.SourcePath
	}
	distinct := filepath.Clean(targetPath) != filepath.Clean(req.SourcePath)
	ctx = logctx.WithArchive(ctx, targetPath)
	log := logctx.FromContext(ctx)

	source, err := iff.Open(req.SourcePath)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	target := source
	if distinct {
		target, err = iff.Open(targetPath)
		if err != nil {
			return nil, err
		}
		defer target.Close()
	}

	res, err := Rebuild(ctx, Request{
		Source:      source.Archive,
		Target:      target.Archive,
		Distinct:    distinct,
		Description: req.Description,
		SourceDir:   req.SourceDir,
		Cache:       req.Cache,
		Options:     req.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("rebuild %s: %w", targetPath, err)
	}

	out := &FileResult{Result: res, OutputPath: targetPath}
	if req.BackupDir != "" {
		if err := fileutil.CleanupTmpFiles(ctx, req.BackupDir, filepath.Base(targetPath)); err != nil {
			log.Warn().Err(err).Str("dir", req.BackupDir).Msg("failed to clean up interrupted backups")
		}
		out.BackupPath, err = fileutil.Backup(targetPath, req.BackupDir, time.Now())
		if err != nil {
			return nil, fmt.Errorf("back up %s: %w", targetPath, err)
		}
		log.Debug().Str("backup", out.BackupPath).Msg("backed up archive")
	}

	err = fileutil.WriteTmpThenMove(filepath.Dir(targetPath), targetPath, func(tmpPath string) error {
		return os.WriteFile(tmpPath, res.Data, 0644)
	})
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", targetPath, err)
	}
	return out, nil
}
