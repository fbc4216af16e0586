package course

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidSpecial    = errors.New("invalid special value")
	ErrInvalidShape      = errors.New("invalid shape value")
	ErrInvalidBackground = errors.New("invalid background value")
	ErrInvalidForeground = errors.New("invalid foreground value")
)

// DownhillSpeed is the per-tick acceleration applied by speed elements.
const DownhillSpeed = 0.025

// Element is the ground material of a tile. Ordinals are part of the wire format.
type Element uint8

const (
	Grass Element = iota
	Dirt
	Mud
	Ice
	SpeedN
	SpeedNE
	SpeedE
	SpeedSE
	SpeedS
	SpeedSW
	SpeedW
	SpeedNW
	Water
	Acid
	WaterSwamp
	AcidSwamp
	Block
	StickyBlock
	BouncyBlock
	FakeBlock
	OnewayN
	OnewayE
	OnewayS
	OnewayW

	elementCount = iota
)

var elementNames = [elementCount]string{
	"Grass", "Dirt", "Mud", "Ice",
	"SpeedN", "SpeedNE", "SpeedE", "SpeedSE", "SpeedS", "SpeedSW", "SpeedW", "SpeedNW",
	"Water", "Acid", "WaterSwamp", "AcidSwamp",
	"Block", "StickyBlock", "BouncyBlock", "FakeBlock",
	"OnewayN", "OnewayE", "OnewayS", "OnewayW",
}

var elementFriction = [elementCount]float64{
	Grass: 0.9935, Dirt: 0.92, Mud: 0.8, Ice: 0.9975,
	SpeedN: 0.9935, SpeedNE: 0.9935, SpeedE: 0.9935, SpeedSE: 0.9935,
	SpeedS: 0.9935, SpeedSW: 0.9935, SpeedW: 0.9935, SpeedNW: 0.9935,
	Water: 0, Acid: 0, WaterSwamp: 0.95, AcidSwamp: 0.95,
	Block: 0.9935, StickyBlock: 0.9935, BouncyBlock: 0.9935, FakeBlock: 0.9935,
	OnewayN: 0.995, OnewayE: 0.995, OnewayS: 0.995, OnewayW: 0.995,
}

const diagonal = DownhillSpeed / math.Sqrt2

// Screen axes: y grows downwards, so north is -y.
var elementDownhill = map[Element][2]float64{
	SpeedN:  {0, -DownhillSpeed},
	SpeedNE: {diagonal, -diagonal},
	SpeedE:  {DownhillSpeed, 0},
	SpeedSE: {diagonal, diagonal},
	SpeedS:  {0, DownhillSpeed},
	SpeedSW: {-diagonal, diagonal},
	SpeedW:  {-DownhillSpeed, 0},
	SpeedNW: {-diagonal, -diagonal},
}

func (e Element) Valid() bool {
	return int(e) < elementCount
}

func (e Element) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Element(%d)", uint8(e))
	}
	return elementNames[e]
}

// Friction returns the velocity multiplier applied while rolling over the element.
func (e Element) Friction() float64 {
	if !e.Valid() {
		return 0
	}
	return elementFriction[e]
}

// Downhill returns the constant acceleration of a speed element.
func (e Element) Downhill() ([2]float64, bool) {
	v, ok := elementDownhill[e]
	return v, ok
}

func (e Element) IsSolid() bool {
	return e == Block || e == StickyBlock || e == BouncyBlock
}

func (e Element) IsLiquid() bool {
	return e == Water || e == Acid
}

func (e Element) IsOneway() bool {
	return e >= OnewayN && e <= OnewayW
}

// Shape is the silhouette that decides whether foreground or background shows
// at a sub-tile pixel.
type Shape uint8

const (
	Blank Shape = iota
	BigCircle
	SmallCircle
	Diamond
	TriangleSE
	TriangleSW
	TriangleNW
	TriangleNE
	RoundedSE
	RoundedSW
	RoundedNW
	RoundedNE
	RoundedS
	RoundedE
	RoundedN
	RoundedW
	TriangleN
	TriangleE
	TriangleS
	TriangleW
	TriangleNS
	TriangleWE
	HalfW
	HalfS
	QuarterNE
	QuarterSE
	QuarterSW
	QuarterNW

	shapeCount = iota
)

var shapeNames = [shapeCount]string{
	"Blank", "BigCircle", "SmallCircle", "Diamond",
	"TriangleSE", "TriangleSW", "TriangleNW", "TriangleNE",
	"RoundedSE", "RoundedSW", "RoundedNW", "RoundedNE",
	"RoundedS", "RoundedE", "RoundedN", "RoundedW",
	"TriangleN", "TriangleE", "TriangleS", "TriangleW",
	"TriangleNS", "TriangleWE", "HalfW", "HalfS",
	"QuarterNE", "QuarterSE", "QuarterSW", "QuarterNW",
}

func (s Shape) Valid() bool {
	return int(s) < shapeCount
}

func (s Shape) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
	return shapeNames[s]
}

// Special is an object placed on a tile instead of a shape.
type Special uint8

const (
	StartPosition Special = iota
	Hole
	FakeHole
	MoveableBlock
	Mine
	BlownMine
	BigMine
	BlownBigMine
	BlueTeleportStart
	BlueTeleportExit
	RedTeleportStart
	RedTeleportExit
	YellowTeleportStart
	YellowTeleportExit
	GreenTeleportStart
	GreenTeleportExit
	FullBreakable
	ThreeQuarterBreakable
	HalfBreakable
	QuarterBreakable
	MagnetAttract
	MagnetRepel
	MoveableBlock2
	SunkMoveableBlock
	StartPositionBlue
	StartPositionRed
	StartPositionYellow
	StartPositionGreen

	specialCount = iota
)

var specialNames = [specialCount]string{
	"StartPosition", "Hole", "FakeHole", "MoveableBlock",
	"Mine", "BlownMine", "BigMine", "BlownBigMine",
	"BlueTeleportStart", "BlueTeleportExit", "RedTeleportStart", "RedTeleportExit",
	"YellowTeleportStart", "YellowTeleportExit", "GreenTeleportStart", "GreenTeleportExit",
	"FullBreakable", "ThreeQuarterBreakable", "HalfBreakable", "QuarterBreakable",
	"MagnetAttract", "MagnetRepel", "MoveableBlock2", "SunkMoveableBlock",
	"StartPositionBlue", "StartPositionRed", "StartPositionYellow", "StartPositionGreen",
}

func (s Special) Valid() bool {
	return int(s) < specialCount
}

func (s Special) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Special(%d)", uint8(s))
	}
	return specialNames[s]
}

func (s Special) IsSolid() bool {
	switch s {
	case MoveableBlock, MoveableBlock2,
		FullBreakable, ThreeQuarterBreakable, HalfBreakable, QuarterBreakable:
		return true
	}
	return false
}

func (s Special) IsTeleportStart() bool {
	switch s {
	case BlueTeleportStart, RedTeleportStart, YellowTeleportStart, GreenTeleportStart:
		return true
	}
	return false
}

func (s Special) IsTeleportExit() bool {
	switch s {
	case BlueTeleportExit, RedTeleportExit, YellowTeleportExit, GreenTeleportExit:
		return true
	}
	return false
}

// MatchingTeleport returns the exit paired with a teleport start of the same colour.
func (s Special) MatchingTeleport() (Special, bool) {
	if !s.IsTeleportStart() {
		return 0, false
	}
	// Every start is immediately followed by its exit.
	return s + 1, true
}

func (s Special) IsMagnet() bool {
	return s == MagnetAttract || s == MagnetRepel
}

// Friction overrides the background friction while the ball is on the special.
func (s Special) Friction() float64 {
	switch {
	case s.IsTeleportStart():
		return 0.9975
	case s.IsMagnet():
		return 0.96
	case s == SunkMoveableBlock:
		return 0.92
	case !s.Valid():
		return 0
	}
	return 0.9935
}

// SpecialParse selects how the secondary byte of a tile code is interpreted.
type SpecialParse uint8

const (
	ParseNormal  SpecialParse = 1
	ParseSpecial SpecialParse = 2
)

// Tile is one course cell. It carries either a Shape (ParseNormal) or a
// Special (ParseSpecial), never both; the zero value is not a valid tile.
type Tile struct {
	kind       SpecialParse
	secondary  uint8
	background Element
	foreground Element
}

func NewShapeTile(shape Shape, background, foreground Element) Tile {
	return Tile{kind: ParseNormal, secondary: uint8(shape), background: background, foreground: foreground}
}

func NewSpecialTile(special Special, background, foreground Element) Tile {
	return Tile{kind: ParseSpecial, secondary: uint8(special), background: background, foreground: foreground}
}

// DefaultTile is plain grass.
func DefaultTile() Tile {
	return NewShapeTile(Blank, Grass, Grass)
}

func (t Tile) Kind() SpecialParse { return t.kind }

func (t Tile) IsSpecial() bool { return t.kind == ParseSpecial }

func (t Tile) Shape() (Shape, bool) {
	if t.kind != ParseNormal {
		return 0, false
	}
	return Shape(t.secondary), true
}

func (t Tile) Special() (Special, bool) {
	if t.kind != ParseSpecial {
		return 0, false
	}
	return Special(t.secondary), true
}

func (t Tile) Background() Element { return t.background }

func (t Tile) Foreground() Element { return t.foreground }

// Friction is the special's override when present, the background's otherwise.
func (t Tile) Friction() float64 {
	if s, ok := t.Special(); ok {
		return s.Friction()
	}
	return t.background.Friction()
}

// Code packs the tile as [parse][shape-or-special][background][foreground].
func (t Tile) Code() int32 {
	return int32(t.kind)<<24 | int32(t.secondary)<<16 | int32(t.background)<<8 | int32(t.foreground)
}

func (t Tile) String() string {
	if s, ok := t.Special(); ok {
		return fmt.Sprintf("Tile{%s %s/%s}", s, t.background, t.foreground)
	}
	return fmt.Sprintf("Tile{%s %s/%s}", Shape(t.secondary), t.background, t.foreground)
}

// DecodeTile unpacks a tile code produced by Tile.Code.
func DecodeTile(code int32) (Tile, error) {
	return NewTileFromFields(
		int(code>>24),
		int((code>>16)%256),
		int((code>>8)%256),
		int(code%256),
	)
}

// NewTileFromFields validates the four tile fields in wire order.
func NewTileFromFields(parse, secondary, background, foreground int) (Tile, error) {
	if parse != int(ParseNormal) && parse != int(ParseSpecial) {
		return Tile{}, fmt.Errorf("%w: %d", ErrInvalidSpecial, parse)
	}
	if background < 0 || background >= elementCount {
		return Tile{}, fmt.Errorf("%w: %d", ErrInvalidBackground, background)
	}
	if foreground < 0 || foreground >= elementCount {
		return Tile{}, fmt.Errorf("%w: %d", ErrInvalidForeground, foreground)
	}

	limit := shapeCount
	if SpecialParse(parse) == ParseSpecial {
		limit = specialCount
	}
	if secondary < 0 || secondary >= limit {
		return Tile{}, fmt.Errorf("%w: %d", ErrInvalidShape, secondary)
	}

	return Tile{
		kind:       SpecialParse(parse),
		secondary:  uint8(secondary),
		background: Element(background),
		foreground: Element(foreground),
	}, nil
}
