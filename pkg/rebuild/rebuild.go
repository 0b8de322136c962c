// Package rebuild replaces the object records of an archive with records
// built from an object description.
//
// A rebuild keeps every chunk of the source archive that is not an object
// record, appends freshly built object definitions, slots, draw groups,
// palettes and sprites, adds a new resource directory and rewrites GUID
// operands in behavior code so the result refers to the GUIDs of the target
// archive. The source and target are the same archive when an object is
// recompiled in place and different archives when a variant is produced.
package rebuild

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eunmann/iffc/internal/logctx"
	"github.com/eunmann/iffc/pkg/bitmap"
	"github.com/eunmann/iffc/pkg/description"
	"github.com/eunmann/iffc/pkg/iff"
	"github.com/eunmann/iffc/pkg/records"
)

// Request describes one rebuild.
type Request struct {
	// Source is the archive whose non-object chunks are kept.
	Source *iff.Archive
	// Target supplies the GUIDs of the result. Nil rebuilds in place.
	Target *iff.Archive
	// Distinct requires the target GUIDs to differ from the source GUIDs.
	Distinct bool

	Description *description.Description
	// SourceDir is the directory channel bitmap paths are relative to.
	SourceDir string
	// Cache holds decoded channel bitmaps. Nil creates one sized by
	// Options.CacheSize.
	Cache *bitmap.Cache

	Options Options
}

// Result reports a completed rebuild.
type Result struct {
	// Data is the serialized archive.
	Data    []byte
	Archive *iff.Archive

	// KeptChunks is the number of source chunks carried over unchanged.
	KeptChunks int
	// BuiltChunks is the number of chunks built from the description,
	// excluding the directory.
	BuiltChunks int
	// ElidedSprites lists the SPR2 chunks no draw group uses.
	ElidedSprites []iff.ChunkID
	// PatchedOperands is the number of GUID operands rewritten.
	PatchedOperands int
}

// Rebuild builds the archive described by req.
func Rebuild(ctx context.Context, req Request) (*Result, error) {
	if req.Source == nil {
		return nil, errors.New("rebuild: no source archive")
	}
	if req.Description == nil {
		return nil, errors.New("rebuild: no object description")
	}
	req.Options.Validate()

	log := logctx.FromContext(ctx)
	start := time.Now()

	target := req.Target
	if target == nil {
		target = req.Source
	}
	sourceGUIDs, err := iff.ExtractGUIDs(req.Source.Chunks)
	if err != nil {
		return nil, fmt.Errorf("source archive: %w", err)
	}
	targetGUIDs, err := iff.ExtractGUIDs(target.Chunks)
	if err != nil {
		return nil, fmt.Errorf("target archive: %w", err)
	}
	remap, err := iff.RemapGUIDs(sourceGUIDs, targetGUIDs, req.Distinct)
	if err != nil {
		return nil, err
	}

	// Kept payloads are copied out of the source, which may be a file
	// mapping that is released before the result is used.
	chunks := make([]iff.Chunk, 0, len(req.Source.Chunks))
	for _, c := range req.Source.Chunks {
		if !iff.IsReplaceable(c.Type()) {
			c.Data = slices.Clone(c.Data)
			chunks = append(chunks, c)
		}
	}
	kept := len(chunks)

	cache := req.Cache
	if cache == nil {
		cache, err = bitmap.NewCache(req.Options.CacheSize)
		if err != nil {
			return nil, err
		}
	}
	built, elided, err := buildRecords(ctx, req, remap, cache)
	if err != nil {
		return nil, err
	}
	chunks = append(chunks, built...)

	patched := 0
	for i := range chunks {
		if chunks[i].Type() != iff.TypeBehavior {
			continue
		}
		n, err := iff.PatchBHAV(&chunks[i], remap)
		if err != nil {
			return nil, fmt.Errorf("patch %s: %w", chunks[i], err)
		}
		if n > 0 {
			log.Debug().Stringer("chunk", chunks[i]).Int("operands", n).Msg("patched GUID operands")
		}
		patched += n
	}

	dir, err := iff.BuildDirectory(chunks)
	if err != nil {
		return nil, fmt.Errorf("build directory: %w", err)
	}
	archive := &iff.Archive{Chunks: chunks}
	archive.DirectoryOffset = uint32(archive.Size())
	archive.Chunks = append(archive.Chunks, dir)

	data, err := archive.Serialize()
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("kept_chunks", kept).
		Int("built_chunks", len(built)).
		Int("elided_sprites", len(elided)).
		Int("patched_operands", patched).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("archive rebuilt")

	return &Result{
		Data:            data,
		Archive:         archive,
		KeptChunks:      kept,
		BuiltChunks:     len(built),
		ElidedSprites:   elided,
		PatchedOperands: patched,
	}, nil
}

// buildRecords builds the object records in archive order: object
// definitions, slots, draw groups, palettes, then sprites.
func buildRecords(ctx context.Context, req Request, remap *iff.GUIDRemap, cache *bitmap.Cache) ([]iff.Chunk, []iff.ChunkID, error) {
	d := req.Description
	var out []iff.Chunk

	for i := range d.ObjectDefinitions {
		c, err := records.BuildObjectDefinition(&d.ObjectDefinitions[i], remap)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, c)
	}
	for i := range d.Slots {
		c, err := records.BuildSlot(&d.Slots[i])
		if err != nil {
			return nil, nil, err
		}
		out = append(out, c)
	}
	for i := range d.DrawGroups {
		c, err := records.BuildDrawGroup(&d.DrawGroups[i])
		if err != nil {
			return nil, nil, err
		}
		out = append(out, c)
	}

	palettes, err := records.BuildPalettes(ctx, d, req.SourceDir, cache)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range palettes {
		out = append(out, p.Chunk)
	}

	sprites, elided, err := buildSprites(ctx, d, req.SourceDir, cache, req.Options.Workers)
	if err != nil {
		return nil, nil, err
	}
	return append(out, sprites...), elided, nil
}

// buildSprites encodes sprites in parallel. Results keep description order.
// Modern sprites no draw group uses are skipped; legacy sprites are always
// built.
func buildSprites(ctx context.Context, d *description.Description, sourceDir string, cache *bitmap.Cache, workers int) ([]iff.Chunk, []iff.ChunkID, error) {
	log := logctx.FromContext(ctx)

	var (
		todo   []*description.Sprite
		elided []iff.ChunkID
	)
	for i := range d.Sprites {
		s := &d.Sprites[i]
		if s.Type == description.SpriteModern && !d.References(s.ID) {
			log.Debug().Int16("sprite", int16(s.ID)).Str("label", s.Label).Msg("skipping unreferenced sprite")
			elided = append(elided, s.ID)
			continue
		}
		todo = append(todo, s)
	}

	chunks := make([]iff.Chunk, len(todo))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, s := range todo {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := records.BuildSprite(s, sourceDir, cache)
			if err != nil {
				return err
			}
			clog := logctx.FromContext(logctx.WithChunk(ctx, c.Type(), int16(s.ID), s.Label))
			clog.Debug().Int("bytes", len(c.Data)).Msg("encoded sprite")
			chunks[i] = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("build sprites: %w", err)
	}
	return chunks, elided, nil
}
