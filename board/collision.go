package board

import "github.com/plus3/blockfall/piece"

// Fits reports whether the piece can occupy its current placement: the
// origin must be inside the left, right and bottom walls and no occupied
// piece cell may overlap a locked cell. Cells above the top row are
// rejected as well rather than indexed.
func (b *Board) Fits(p *piece.Active) bool {
	if p.Y < 0 || p.X < 0 || p.X+p.Width > b.width {
		return false
	}

	for cell := range p.Cells() {
		if cell.Y >= b.height {
			return false
		}
		if b.rows[cell.Y][cell.X] != piece.ColorNone {
			return false
		}
	}
	return true
}

// Collides is the negation of Fits.
func (b *Board) Collides(p *piece.Active) bool {
	return !b.Fits(p)
}
