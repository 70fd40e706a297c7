package piece

// Shape is a matrix of binary cells. Row 0 is the bottom row of the piece
// once it is placed on a board.
type Shape [][]bool

// ParseShape builds a shape from rows in matrix order (row 0 first), where
// '1' marks an occupied cell. All rows must have the same length.
func ParseShape(rows ...string) Shape {
	shape := make(Shape, len(rows))
	for y, row := range rows {
		shape[y] = make([]bool, 0, len(row))
		for _, r := range row {
			shape[y] = append(shape[y], r == '1')
		}
		if len(shape[y]) != len(shape[0]) {
			panic("piece: ragged shape rows")
		}
	}
	return shape
}

// Width returns the number of columns.
func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Height returns the number of rows.
func (s Shape) Height() int {
	return len(s)
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	for y := range s {
		clone[y] = make([]bool, len(s[y]))
		copy(clone[y], s[y])
	}
	return clone
}

// Occupied returns the number of occupied cells.
func (s Shape) Occupied() int {
	count := 0
	for _, row := range s {
		for _, cell := range row {
			if cell {
				count++
			}
		}
	}
	return count
}

// Equal reports whether both shapes have the same dimensions and cells.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for y := range s {
		if len(s[y]) != len(other[y]) {
			return false
		}
		for x := range s[y] {
			if s[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}

// Turn returns the shape after steps quarter-turns, computed in a single
// index transform rather than by repeated rotation.
func (s Shape) Turn(steps int) Shape {
	steps = normalizeSteps(steps)

	width, height := s.Width(), s.Height()
	if steps%2 == 1 {
		width, height = height, width
	}

	turned := make(Shape, height)
	for y := range height {
		turned[y] = make([]bool, width)
		for x := range width {
			switch steps {
			case 0:
				turned[y][x] = s[y][x]
			case 1:
				turned[y][x] = s[width-1-x][y]
			case 2:
				turned[y][x] = s[height-1-y][width-1-x]
			case 3:
				turned[y][x] = s[x][height-1-y]
			}
		}
	}
	return turned
}

// String renders the shape top row first, '#' for occupied cells.
func (s Shape) String() string {
	buf := make([]byte, 0, (s.Width()+1)*s.Height())
	for y := s.Height() - 1; y >= 0; y-- {
		for _, cell := range s[y] {
			if cell {
				buf = append(buf, '#')
			} else {
				buf = append(buf, '.')
			}
		}
		if y > 0 {
			buf = append(buf, '\n')
		}
	}
	return string(buf)
}

func normalizeSteps(steps int) int {
	return ((steps % 4) + 4) % 4
}
