// Package description holds the object description an archive is rebuilt
// from: the XML tree exported alongside an object's channel bitmaps.
//
// Load parses and validates a description. The update helpers mutate the
// tree in memory (sprite bounds and draw offsets, variant paths, imported
// sprite tiles, flipped draw group items) and Save writes it back.
package description

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"

	"github.com/eunmann/iffc/pkg/fileutil"
	"github.com/eunmann/iffc/pkg/iff"
)

// Description is the root of an exported object description.
type Description struct {
	XMLName xml.Name `xml:"objectsexportedfromthesims"`

	// ObjectFile is the archive path relative to the game directory, without extension.
	ObjectFile string `xml:"objectfilename,attr"`

	ExportFlags

	ObjectDefinitions []ObjectDefinition `xml:"objectdefinitions>objectdefinition"`
	Slots             []Slot             `xml:"slots>slot"`
	DrawGroups        []DrawGroup        `xml:"drawgroups>drawgroup"`
	Sprites           []Sprite           `xml:"sprites>sprite"`
}

// ExportFlags are the exporter settings recorded with a description. They
// do not affect the rebuild and are preserved on Save.
type ExportFlags struct {
	ExportObjectDefinitions int32 `xml:"exportobjectdefinitions,attr"`
	ExportSlots             int32 `xml:"exportslots,attr"`
	ExportDrawGroups        int32 `xml:"exportdrawgroups,attr"`
	ExportBitmaps           int32 `xml:"exportbitmaps,attr"`
	ExportSprites           int32 `xml:"exportsprites,attr"`
	JustChangeColors        int32 `xml:"justchangecolors,attr"`
	ExportAllZooms          int32 `xml:"exportallzooms,attr"`
	SmoothSmallZoomColors   int32 `xml:"smoothsmallzoomcolors,attr"`
	SmoothSmallZoomEdges    int32 `xml:"smoothsmallzoomedges,attr"`
	ExportExpanded          int32 `xml:"exportexpanded,attr"`
	ExportP                 int32 `xml:"exportp,attr"`
	ExportZ                 int32 `xml:"exportz,attr"`
	GenerateZ               int32 `xml:"generatez,attr"`
	GenerateZFar            int32 `xml:"generatezfar,attr"`
	ExportA                 int32 `xml:"exporta,attr"`
	GenerateA               int32 `xml:"generatea,attr"`
	GenerateASoft           int32 `xml:"generateasoft,attr"`
	CompressBitmaps         int32 `xml:"compressbitmaps,attr"`
	CreateSubdirectories    int32 `xml:"createsubdirectories,attr"`
	ThingsToDo              int32 `xml:"thingstodo,attr"`
}

// Parse decodes and validates a description.
func Parse(data []byte) (*Description, error) {
	var d Description
	if err := xml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: decode description: %v", iff.ErrDecode, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads and validates the description at path.
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read description: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Marshal encodes the description as indented XML with a declaration.
func (d *Description) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode description: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Save writes the description to path through a temporary file.
func (d *Description) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("save description %s: %w", path, err)
	}
	return nil
}

// ObjectDefinition returns the object definition with the given id.
func (d *Description) ObjectDefinition(id iff.ChunkID) (*ObjectDefinition, bool) {
	for i := range d.ObjectDefinitions {
		if d.ObjectDefinitions[i].ID == id {
			return &d.ObjectDefinitions[i], true
		}
	}
	return nil, false
}
