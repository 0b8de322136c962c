package description

import (
	"fmt"

	"github.com/eunmann/iffc/pkg/iff"
)

// Validate checks the cross references between records.
func (d *Description) Validate() error {
	if len(d.ObjectDefinitions) == 0 {
		return fmt.Errorf("%w: no object definitions found", ErrInvalid)
	}

	ids := make(map[iff.ChunkID]bool)
	guids := make(map[int32]bool)
	for _, o := range d.ObjectDefinitions {
		if ids[o.ID] {
			return fmt.Errorf("%w: object definitions share chunk id %d", ErrInvalid, o.ID)
		}
		if guids[o.GUID] {
			return fmt.Errorf("%w: object definitions share GUID %#08x", ErrInvalid, uint32(o.GUID))
		}
		ids[o.ID] = true
		guids[o.GUID] = true
	}

	if err := d.validateDrawGroupLayout(); err != nil {
		return err
	}
	if err := d.validateSlots(); err != nil {
		return err
	}
	if err := d.validateSprites(); err != nil {
		return err
	}
	if err := d.validateObjectReferences(); err != nil {
		return err
	}
	return d.validateDrawGroupReferences()
}

func (d *Description) validateDrawGroupLayout() error {
	for _, g := range d.DrawGroups {
		if len(g.ItemLists) != ItemListCount {
			return fmt.Errorf("%w: draw group %d %s has %d item lists, want %d",
				ErrInvalid, g.ID, g.Label, len(g.ItemLists), ItemListCount)
		}
		for i, list := range g.ItemLists {
			if list.Direction != ListDirections[i%4] {
				return fmt.Errorf("%w: incorrect rotation %d in draw group %d %s item list %d",
					ErrInvalid, list.Direction, g.ID, g.Label, i)
			}
			if list.Zoom != ListZooms[i/4] {
				return fmt.Errorf("%w: incorrect zoom level %d in draw group %d %s item list %d",
					ErrInvalid, list.Zoom, g.ID, g.Label, i)
			}
		}
	}
	return nil
}

func (d *Description) validateSlots() error {
	for _, s := range d.Slots {
		for i, desc := range s.Descriptors {
			if !desc.Type.Valid() {
				return fmt.Errorf("%w: slot %d %s descriptor %d has type %d",
					ErrInvalid, s.ID, s.Label, i, desc.Type)
			}
		}
	}
	return nil
}

func (d *Description) validateSprites() error {
	seen := make(map[iff.ChunkID]bool)
	for _, s := range d.Sprites {
		if seen[s.ID] {
			return fmt.Errorf("%w: sprites share chunk id %d", ErrInvalid, s.ID)
		}
		seen[s.ID] = true

		if s.Type != SpriteLegacy && s.Type != SpriteModern {
			return fmt.Errorf("%w: sprite %d %s has type %d", ErrInvalid, s.ID, s.Label, s.Type)
		}
		for _, f := range s.Frames {
			if !f.Zoom.Valid() {
				return fmt.Errorf("%w: sprite %d %s frame %d has zoom %d", ErrInvalid, s.ID, s.Label, f.Index, f.Zoom)
			}
			if f.Width < 0 || f.Height < 0 || f.X < 0 || f.Y < 0 {
				return fmt.Errorf("%w: sprite %d %s frame %d has bounds %+v",
					ErrInvalid, s.ID, s.Label, f.Index, f.Bounds())
			}
		}
	}
	return nil
}

func (d *Description) validateObjectReferences() error {
	slots := make(map[iff.ChunkID]bool)
	for _, s := range d.Slots {
		slots[s.ID] = true
	}
	groups := make(map[iff.ChunkID]bool)
	for _, g := range d.DrawGroups {
		groups[g.ID] = true
	}
	sprites := make(map[iff.ChunkID]bool)
	for _, s := range d.Sprites {
		sprites[s.ID] = true
	}

	for _, o := range d.ObjectDefinitions {
		if id := o.SlotID(); id != iff.NoChunkID && !slots[id] {
			return fmt.Errorf("%w: failed to find slot %d used in object definition %d %s",
				ErrInvalid, id, o.ID, o.Label)
		}
		if o.IsMultiTileMaster() {
			continue
		}
		for i := range o.NumGraphics {
			id := iff.ChunkID(o.BaseGraphic + i)
			if !groups[id] {
				return fmt.Errorf("%w: failed to find draw group %d used in object definition %d %s",
					ErrInvalid, id, o.ID, o.Label)
			}
		}
		for i := range o.NumDynSprites {
			id := iff.ChunkID(o.DynSpriteBaseID + i)
			if !sprites[id] {
				return fmt.Errorf("%w: failed to find dynamic sprite %d used in object definition %d %s",
					ErrInvalid, id, o.ID, o.Label)
			}
		}
	}
	return nil
}

func (d *Description) validateDrawGroupReferences() error {
	for _, g := range d.DrawGroups {
		for i, list := range g.ItemLists {
			for _, it := range list.Items {
				s, ok := d.Sprite(it.SpriteID)
				if !ok {
					return fmt.Errorf("%w: failed to find sprite %d used in draw group %d %s item list %d",
						ErrInvalid, it.SpriteID, g.ID, g.Label, i)
				}
				if int64(it.SpriteFrame) >= int64(s.FrameCount) {
					return fmt.Errorf("%w: failed to find frame %d of sprite %d used in draw group %d %s item list %d",
						ErrInvalid, it.SpriteFrame, it.SpriteID, g.ID, g.Label, i)
				}
			}
		}
	}
	return nil
}

