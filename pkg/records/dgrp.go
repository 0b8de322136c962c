package records

import (
	"github.com/eunmann/iffc/pkg/description"
	"github.com/eunmann/iffc/pkg/iff"
)

// Draw group layout.
const (
	DrawGroupVersion  = 20004
	drawGroupHeader   = 6
	drawListHeader    = 12
	DrawGroupItemSize = 32
)

// BuildDrawGroup encodes a DGRP chunk. Items store the z offset ahead of the
// x and y offsets.
func BuildDrawGroup(g *description.DrawGroup) (iff.Chunk, error) {
	size := drawGroupHeader
	for _, l := range g.ItemLists {
		size += drawListHeader + DrawGroupItemSize*len(l.Items)
	}

	p := make(payload, 0, size)
	p.u16(DrawGroupVersion)
	p.u32(uint32(len(g.ItemLists)))
	for _, l := range g.ItemLists {
		p.u32(uint32(l.Direction))
		p.u32(l.Zoom)
		p.u32(uint32(len(l.Items)))
		for _, it := range l.Items {
			p.i32(int32(it.SpriteID))
			p.u32(it.SpriteFrame)
			p.i32(it.PixelX)
			p.i32(it.PixelY)
			p.f32(it.ZOffset)
			p.u32(it.Flags)
			p.f32(it.XOffset)
			p.f32(it.YOffset)
		}
	}

	return newChunk(iff.TypeDrawGroup, g.ID, g.Label, p)
}
