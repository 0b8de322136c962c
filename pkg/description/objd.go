package description

import "github.com/eunmann/iffc/pkg/iff"

// ObjectDefinition is one OBJD record.
type ObjectDefinition struct {
	Label string      `xml:"name,attr"`
	ID    iff.ChunkID `xml:"id,attr"`

	ObjectFields
}

// ObjectFields are the OBJD payload fields. Field order and sizes match the
// payload layout, so the struct encodes directly with encoding/binary. GUID
// is replaced by the remapped GUID when the record is built.
type ObjectFields struct {
	Version                    int32 `xml:"version,attr"`
	InitialStackSize           int16 `xml:"initialstacksize,attr"`
	BaseGraphic                int16 `xml:"basegraphic,attr"`
	NumGraphics                int16 `xml:"numgraphics,attr"`
	MainTreeID                 int16 `xml:"maintreeid,attr"`
	GardeningTreeID            int16 `xml:"gardeningtreeid,attr"`
	TreeTableID                int16 `xml:"treetableid,attr"`
	InteractionGroup           int16 `xml:"interactiongroup,attr"`
	Type                       int16 `xml:"type,attr"`
	MasterID                   int16 `xml:"masterid,attr"`
	SubIndex                   int16 `xml:"subindex,attr"`
	WashHandsTreeID            int16 `xml:"washhandstreeid,attr"`
	AnimTableID                int16 `xml:"animtableid,attr"`
	GUID                       int32 `xml:"guid,attr"`
	Disabled                   int16 `xml:"disabled,attr"`
	PortalTreeID               int16 `xml:"portaltreeid,attr"`
	Price                      int16 `xml:"price,attr"`
	BodyStringsID              int16 `xml:"bodystringsid,attr"`
	SlotsID                    int16 `xml:"slotsid,attr"`
	AllowIntersectionTreeID    int16 `xml:"allowintersectiontreeid,attr"`
	UsesFnTable                int16 `xml:"usesfntable,attr"`
	Unused4                    int16 `xml:"unused4,attr"`
	PrepTreeID                 int16 `xml:"preptreeid,attr"`
	CookTreeID                 int16 `xml:"cooktreeid,attr"`
	SurfaceTreeID              int16 `xml:"surfacetreeid,attr"`
	DisposeTreeID              int16 `xml:"disposetreeid,attr"`
	FoodTreeID                 int16 `xml:"foodtreeid,attr"`
	PickupFromSlotTreeID       int16 `xml:"pickupfromslottreeid,attr"`
	WashDishTreeID             int16 `xml:"washdishtreeid,attr"`
	EatingSurfaceTreeID        int16 `xml:"eatingsurfacetreeid,attr"`
	SitTreeID                  int16 `xml:"sittreeid,attr"`
	StandTreeID                int16 `xml:"standtreeid,attr"`
	SalePrice                  int16 `xml:"saleprice,attr"`
	InitialDepreciation        int16 `xml:"initialdepreciation,attr"`
	DailyDepreciation          int16 `xml:"dailydepreciation,attr"`
	SelfDepreciating           int16 `xml:"selfdepreciating,attr"`
	DepreciationLimit          int16 `xml:"depreciationlimit,attr"`
	RoomFlags                  int16 `xml:"roomflags,attr"`
	FunctionFlags              int16 `xml:"functionflags,attr"`
	CatalogID                  int16 `xml:"catalogid,attr"`
	GlobalSimulationObject     int16 `xml:"globalsimulationobject,attr"`
	InitTreeID                 int16 `xml:"inittreeid,attr"`
	PlacementTreeID            int16 `xml:"placementtreeid,attr"`
	UserPickupTreeID           int16 `xml:"userpickuptreeid,attr"`
	WallStyle                  int16 `xml:"wallstyle,attr"`
	LoadTreeID                 int16 `xml:"loadtreeid,attr"`
	UserPlacementTreeID        int16 `xml:"userplacementtreeid,attr"`
	ObjectVersion              int16 `xml:"objectversion,attr"`
	RoomChangedTreeID          int16 `xml:"roomchangedtreeid,attr"`
	MotiveEffectsID            int16 `xml:"motiveeffectsid,attr"`
	CleanupTreeID              int16 `xml:"cleanuptreeid,attr"`
	LevelInfoRequestTreeID     int16 `xml:"levelinforequesttreeid,attr"`
	CatalogPopupID             int16 `xml:"catalogpopupid,attr"`
	ServingSurfaceTreeID       int16 `xml:"servingsurfacetreeid,attr"`
	LevelOffset                int16 `xml:"leveloffset,attr"`
	Shadow                     int16 `xml:"shadow,attr"`
	NumAttributes              int16 `xml:"numattributes,attr"`
	CleanTreeID                int16 `xml:"cleantreeid,attr"`
	QueueSkippedTreeID         int16 `xml:"queueskippedtreeid,attr"`
	FrontFaceDirection         int16 `xml:"frontfacedirection,attr"`
	WallAdjacencyChangedTreeID int16 `xml:"walladjacencychangedtreeid,attr"`
	LeadObject                 int16 `xml:"leadobject,attr"`
	DynSpriteBaseID            int16 `xml:"dynspritebaseid,attr"`
	NumDynSprites              int16 `xml:"numdynsprites,attr"`
	ChairEntryFlags            int16 `xml:"chairentryflags,attr"`
	TileWidth                  int16 `xml:"tilewidth,attr"`
	SuitNotCopyable            int16 `xml:"suitnotcopyable,attr"`
	BuildModeType              int16 `xml:"buildmodetype,attr"`
	OriginalGUID               int32 `xml:"originalguid,attr"`
	OriginalSuitGUID           int32 `xml:"originalsuitguid,attr"`
	PickupTreeID               int16 `xml:"pickuptreeid,attr"`
	ThumbnailGraphicIndex      int16 `xml:"thumbnailgraphicindex,attr"`
	ShadowFlags                int16 `xml:"shadowflags,attr"`
	FootprintInsetMask         int16 `xml:"footprintinsetmask,attr"`
	MTAdjUpdateTreeID          int16 `xml:"mtadjupdatetreeid,attr"`
	ShadowBrightness           int16 `xml:"shadowbrightness,attr"`
	RepairTreeID               int16 `xml:"repairtreeid,attr"`
	CustomWallStyleID          int16 `xml:"customwallstyleid,attr"`
	RatingHunger               int16 `xml:"ratinghunger,attr"`
	RatingComfort              int16 `xml:"ratingcomfort,attr"`
	RatingHygiene              int16 `xml:"ratinghygiene,attr"`
	RatingBladder              int16 `xml:"ratingbladder,attr"`
	RatingEnergy               int16 `xml:"ratingenergy,attr"`
	RatingFun                  int16 `xml:"ratingfun,attr"`
	RatingRoom                 int16 `xml:"ratingroom,attr"`
	RatingSkillFlags           int16 `xml:"ratingskillflags,attr"`
	NumTypeAttributes          int16 `xml:"numtypeattributes,attr"`
	MiscFlags                  int16 `xml:"miscflags,attr"`
	TypeAttrGUID               int32 `xml:"typeattrguid,attr"`
	FunctionSubsort            int16 `xml:"functionsubsort,attr"`
	DowntownSort               int16 `xml:"downtownsort,attr"`
	KeepBuying                 int16 `xml:"keepbuying,attr"`
	VacationSort               int16 `xml:"vacationsort,attr"`
	ResetLotAction             int16 `xml:"resetlotaction,attr"`
	CommunitySort              int16 `xml:"communitysort,attr"`
	DreamFlags                 int16 `xml:"dreamflags,attr"`
	RenderFlags                int16 `xml:"renderflags,attr"`
	Unused8                    int16 `xml:"unused8,attr"`
	Unused9                    int16 `xml:"unused9,attr"`
	Unused10                   int16 `xml:"unused10,attr"`
	Unused11                   int16 `xml:"unused11,attr"`
	Unused12                   int16 `xml:"unused12,attr"`
	Unused13                   int16 `xml:"unused13,attr"`
}

// SlotID returns the referenced SLOT chunk, or iff.NoChunkID.
func (o *ObjectDefinition) SlotID() iff.ChunkID {
	return iff.ChunkID(o.SlotsID)
}

// IsMultiTileMaster reports whether the object is the master of a multi-tile
// object. Masters draw nothing themselves.
func (o *ObjectDefinition) IsMultiTileMaster() bool {
	return o.SubIndex == -1
}
