package description

import "github.com/eunmann/iffc/pkg/iff"

// ItemListCount is the number of item lists in every draw group: four
// directions at three zoom levels.
const ItemListCount = 12

// FlagFlipped marks a draw group item drawn mirrored.
const FlagFlipped uint32 = 1

// Direction is the facing an item list is drawn for.
type Direction uint32

// Directions as stored in DGRP records.
const (
	DirectionSouthEast Direction = 1
	DirectionNorthEast Direction = 4
	DirectionNorthWest Direction = 16
	DirectionSouthWest Direction = 64
)

// ListDirections is the direction of item list i, repeated every four lists.
var ListDirections = [4]Direction{DirectionSouthEast, DirectionNorthEast, DirectionNorthWest, DirectionSouthWest}

// ListZooms is the zoom code of item list i, one per group of four lists.
var ListZooms = [3]uint32{1, 2, 3}

// DrawGroup is one DGRP record: the sprites composing an object's image for
// each direction and zoom.
type DrawGroup struct {
	Label     string         `xml:"name,attr"`
	ID        iff.ChunkID    `xml:"id,attr"`
	ItemLists []DrawItemList `xml:"drawgroupitemlist"`
}

// DrawItemList holds the items drawn for one direction and zoom.
type DrawItemList struct {
	Direction Direction  `xml:"dirflags,attr"`
	Zoom      uint32     `xml:"zoom,attr"`
	Items     []DrawItem `xml:"drawgroupitem"`
}

// DrawItem places one sprite frame.
type DrawItem struct {
	SpriteID    iff.ChunkID `xml:"spriteid,attr"`
	SpriteFrame uint32      `xml:"spritenum,attr"`
	PixelX      int32       `xml:"pixelx,attr"`
	PixelY      int32       `xml:"pixely,attr"`
	XOffset     float32     `xml:"xoffset,attr"`
	YOffset     float32     `xml:"yoffset,attr"`
	ZOffset     float32     `xml:"zoffset,attr"`
	Flags       uint32      `xml:"flags,attr"`
}

// Flipped reports whether the item is drawn mirrored.
func (it DrawItem) Flipped() bool {
	return it.Flags&FlagFlipped != 0
}

// References reports whether any draw group item uses the sprite.
func (d *Description) References(spriteID iff.ChunkID) bool {
	for i := range d.DrawGroups {
		for _, list := range d.DrawGroups[i].ItemLists {
			for _, it := range list.Items {
				if it.SpriteID == spriteID {
					return true
				}
			}
		}
	}
	return false
}
