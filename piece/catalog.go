// Package piece defines the falling-block catalog, the active piece and the
// rotation engine that turns it.
package piece

import (
	"fmt"
	"image/color"
)

// Kind identifies one of the seven catalog pieces.
type Kind uint8

const (
	S Kind = iota
	Z
	O
	I
	J
	L
	T
)

// KindCount is the number of catalog entries.
const KindCount = 7

var kindNames = [KindCount]string{"S", "Z", "O", "I", "J", "L", "T"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k names a catalog entry.
func (k Kind) Valid() bool {
	return k < KindCount
}

// Color tags a locked board cell. The zero value is an empty cell.
type Color uint8

const (
	ColorNone Color = iota
	ColorGreen
	ColorRed
	ColorYellow
	ColorCyan
	ColorBlue
	ColorOrange
	ColorPurple
)

var colorNames = [...]string{"none", "green", "red", "yellow", "cyan", "blue", "orange", "purple"}

var colorValues = [...]color.RGBA{
	{0, 0, 0, 0},
	{0, 128, 0, 255},
	{255, 0, 0, 255},
	{255, 255, 0, 255},
	{0, 255, 255, 255},
	{0, 0, 255, 255},
	{255, 165, 0, 255},
	{128, 0, 128, 255},
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// RGBA returns the display color for the tag.
func (c Color) RGBA() color.RGBA {
	if int(c) < len(colorValues) {
		return colorValues[c]
	}
	return colorValues[ColorNone]
}

// Offset is a positional correction applied when a piece enters a rotation
// state.
type Offset struct {
	DX, DY int
}

// Definition is an immutable catalog entry.
type Definition struct {
	Kind    Kind
	Name    string
	Shape   Shape
	Offsets [4]Offset
	Color   Color
}

var catalog = [KindCount]Definition{
	{Kind: S, Name: "S", Shape: ParseShape("011", "110"), Offsets: offsets(-1, 0, 1, 0, -1, 0, 1, 0), Color: ColorGreen},
	{Kind: Z, Name: "Z", Shape: ParseShape("110", "011"), Offsets: offsets(-1, 0, 1, 0, -1, 0, 1, 0), Color: ColorRed},
	{Kind: O, Name: "O", Shape: ParseShape("11", "11"), Offsets: offsets(0, 0, 0, 0, 0, 0, 0, 0), Color: ColorYellow},
	{Kind: I, Name: "I", Shape: ParseShape("1111"), Offsets: offsets(-1, 1, 1, -1, -1, 1, 1, -1), Color: ColorCyan},
	{Kind: J, Name: "J", Shape: ParseShape("100", "111"), Offsets: offsets(0, 0, 1, 0, -1, 1, 0, -1), Color: ColorBlue},
	{Kind: L, Name: "L", Shape: ParseShape("111", "100"), Offsets: offsets(-1, 1, 0, -1, 0, 0, 1, 0), Color: ColorOrange},
	{Kind: T, Name: "T", Shape: ParseShape("010", "111"), Offsets: offsets(0, 0, 1, 0, -1, 1, 0, -1), Color: ColorPurple},
}

// offsets pairs a flat dx, dy table into one Offset per rotation state.
func offsets(table ...int) [4]Offset {
	if len(table) != 8 {
		panic("piece: offset table needs 8 values")
	}
	var out [4]Offset
	for state := range out {
		out[state] = Offset{DX: table[state*2], DY: table[state*2+1]}
	}
	return out
}

// Lookup returns the definition for kind. The returned shape is a copy.
func Lookup(kind Kind) Definition {
	if !kind.Valid() {
		panic("piece: unknown kind " + kind.String())
	}
	def := catalog[kind]
	def.Shape = def.Shape.Clone()
	return def
}

// Kinds returns every catalog kind in catalog order.
func Kinds() []Kind {
	kinds := make([]Kind, KindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Catalog returns copies of all definitions in catalog order.
func Catalog() []Definition {
	defs := make([]Definition, KindCount)
	for i := range defs {
		defs[i] = Lookup(Kind(i))
	}
	return defs
}
