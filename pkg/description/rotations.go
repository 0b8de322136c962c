package description

import (
	"context"

	"github.com/eunmann/iffc/internal/logctx"
	"github.com/eunmann/iffc/pkg/iff"
)

// AddRotations replaces mirrored draw group items with unmirrored ones so
// that every direction draws its own rotation.
//
// It applies per item position when all item lists have the same length and
// the position uses one sprite either unflipped in every list or flipped in
// half the lists and unflipped in the other half. Each list then draws the
// unflipped sprite at the frame matching its direction and zoom. Draw groups
// it cannot convert are logged and left unchanged. It returns the number of
// item positions converted.
func (d *Description) AddRotations(ctx context.Context) int {
	log := logctx.FromContext(ctx)

	converted := 0
	for gi := range d.DrawGroups {
		g := &d.DrawGroups[gi]
		if len(g.ItemLists) == 0 {
			continue
		}

		if !sameItemCount(g.ItemLists) {
			if hasFlipped(g.ItemLists) {
				log.Warn().
					Int16("draw_group", int16(g.ID)).
					Str("label", g.Label).
					Msg("flipped sprite found but item lists differ in length")
			}
			continue
		}

		for pos := range g.ItemLists[0].Items {
			flippedID, flipped := usage(g.ItemLists, pos, true)
			unflippedID, unflipped := usage(g.ItemLists, pos, false)

			half := len(g.ItemLists) / 2
			if (flipped == half && unflipped == half) || unflipped == len(g.ItemLists) {
				for i := range g.ItemLists {
					it := &g.ItemLists[i].Items[pos]
					it.SpriteID = unflippedID
					it.Flags &^= FlagFlipped
					it.SpriteFrame = uint32((2-i/4)*4 + i%4)
				}
				converted++
				continue
			}
			if flipped > 0 {
				log.Warn().
					Int16("draw_group", int16(g.ID)).
					Str("label", g.Label).
					Int16("sprite", int16(flippedID)).
					Int("item", pos).
					Msg("flipped sprite found but flipped usage is unequal")
			}
		}
	}
	return converted
}

func sameItemCount(lists []DrawItemList) bool {
	for _, l := range lists[1:] {
		if len(l.Items) != len(lists[0].Items) {
			return false
		}
	}
	return true
}

func hasFlipped(lists []DrawItemList) bool {
	for _, l := range lists {
		for _, it := range l.Items {
			if it.Flipped() {
				return true
			}
		}
	}
	return false
}

// usage returns the sprite of the first item at pos with the given
// orientation and how many lists draw that sprite with that orientation.
func usage(lists []DrawItemList, pos int, flipped bool) (iff.ChunkID, int) {
	var id iff.ChunkID
	found := false
	for _, l := range lists {
		if l.Items[pos].Flipped() == flipped {
			id, found = l.Items[pos].SpriteID, true
			break
		}
	}
	if !found {
		return iff.NoChunkID, 0
	}
	n := 0
	for _, l := range lists {
		if it := l.Items[pos]; it.SpriteID == id && it.Flipped() == flipped {
			n++
		}
	}
	return id, n
}
