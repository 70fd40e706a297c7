package piece

import "iter"

// Point is a board coordinate. Y grows upward from the bottom row.
type Point struct {
	X, Y int
}

// Active is the piece currently under player control. Width and Height
// always match the dimensions of Shape.
type Active struct {
	Kind     Kind
	Shape    Shape
	Width    int
	Height   int
	X, Y     int
	Rotation int
	Color    Color

	offsets [4]Offset
}

// New returns an unrotated piece of the given kind at the origin.
func New(kind Kind) *Active {
	def := Lookup(kind)
	return &Active{
		Kind:    def.Kind,
		Shape:   def.Shape,
		Width:   def.Shape.Width(),
		Height:  def.Shape.Height(),
		Color:   def.Color,
		offsets: def.Offsets,
	}
}

// Clone returns an independent copy that can be mutated and validated
// without touching p.
func (p *Active) Clone() *Active {
	clone := *p
	clone.Shape = p.Shape.Clone()
	return &clone
}

// Translate shifts the origin by dx, dy.
func (p *Active) Translate(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// Cells yields the board coordinates of every occupied cell.
func (p *Active) Cells() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for y, row := range p.Shape {
			for x, cell := range row {
				if !cell {
					continue
				}
				if !yield(Point{X: p.X + x, Y: p.Y + y}) {
					return
				}
			}
		}
	}
}

// Occupied returns the number of occupied cells.
func (p *Active) Occupied() int {
	return p.Shape.Occupied()
}

// Top returns the row just above the piece.
func (p *Active) Top() int {
	return p.Y + p.Height
}
