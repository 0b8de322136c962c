package rebuild

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/eunmann/iffc/internal/logctx"
	"github.com/eunmann/iffc/pkg/bitmap"
	"github.com/eunmann/iffc/pkg/description"
	"github.com/eunmann/iffc/pkg/gamedir"
)

// DescriptionExt is the extension of object description files.
const DescriptionExt = ".xml"

// CompileRequest recompiles a game archive in place from its description.
type CompileRequest struct {
	// DescriptionPath is the description file. Channel bitmaps are resolved
	// against its directory.
	DescriptionPath string
	Game            *gamedir.Dir
	BackupDir       string
	Options         Options
}

// Compile refreshes the sprite positions of a description, rebuilds the
// archive it names and saves the refreshed description.
func Compile(ctx context.Context, req CompileRequest) (*FileResult, error) {
	if req.Game == nil {
		return nil, errors.New("compile: no game directory")
	}
	req.Options.Validate()
	ctx = logctx.WithDescription(ctx, req.DescriptionPath)

	d, err := description.Load(req.DescriptionPath)
	if err != nil {
		return nil, err
	}
	sourceDir := filepath.Dir(req.DescriptionPath)

	cache, err := bitmap.NewCache(req.Options.CacheSize)
	if err != nil {
		return nil, err
	}
	if err := d.UpdateSpritePositions(sourceDir, cache); err != nil {
		return nil, err
	}

	res, err := RebuildFile(ctx, FileRequest{
		SourcePath:  req.Game.ArchivePath(d.ObjectFile),
		Description: d,
		SourceDir:   sourceDir,
		Cache:       cache,
		BackupDir:   req.BackupDir,
		Options:     req.Options,
	})
	if err != nil {
		return nil, err
	}

	if err := d.Save(req.DescriptionPath); err != nil {
		return nil, err
	}
	return res, nil
}

// VariantRequest builds a variant archive in the game's downloads directory.
type VariantRequest struct {
	// SourceDir holds <object>.xml and the channel bitmaps.
	SourceDir string
	// Name locates the archives. Its Variant field is ignored; From and To
	// select the original and new variant.
	Name gamedir.VariantName
	// From and To are the variant the description was exported from and the
	// variant to build. Both empty builds the plain object.
	From, To string

	Game      *gamedir.Dir
	BackupDir string
	Options   Options
}

// CompileVariant rebuilds the To variant archive from the From variant
// archive. Color channels are switched to the To variant's bitmaps and the
// result takes its GUIDs from the To archive. The description is saved only
// when From and To are the same variant.
func CompileVariant(ctx context.Context, req VariantRequest) (*FileResult, error) {
	if req.Game == nil {
		return nil, errors.New("compile variant: no game directory")
	}
	req.Options.Validate()

	path := filepath.Join(req.SourceDir, req.Name.Object+DescriptionExt)
	ctx = logctx.WithDescription(ctx, path)

	d, err := description.Load(path)
	if err != nil {
		return nil, err
	}
	if req.From != "" || req.To != "" {
		if err := d.UpdateSpriteVariants(req.From, req.To); err != nil {
			return nil, err
		}
	}

	cache, err := bitmap.NewCache(req.Options.CacheSize)
	if err != nil {
		return nil, err
	}
	if err := d.UpdateSpritePositions(req.SourceDir, cache); err != nil {
		return nil, err
	}

	from, to := req.Name, req.Name
	from.Variant, to.Variant = req.From, req.To
	sourcePath, err := req.Game.VariantArchive(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("original variant: %w", err)
	}
	targetPath, err := req.Game.VariantArchive(ctx, to)
	if err != nil {
		return nil, fmt.Errorf("new variant: %w", err)
	}

	res, err := RebuildFile(ctx, FileRequest{
		SourcePath:  sourcePath,
		TargetPath:  targetPath,
		Description: d,
		SourceDir:   req.SourceDir,
		Cache:       cache,
		BackupDir:   req.BackupDir,
		Options:     req.Options,
	})
	if err != nil {
		return nil, err
	}

	if req.From == req.To {
		if err := d.Save(path); err != nil {
			return nil, err
		}
	}
	return res, nil
}
