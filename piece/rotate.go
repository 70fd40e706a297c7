package piece

// Rotate applies steps quarter-turns to the piece in two phases. The shape
// is transformed once for the whole amount, then the rotation state is
// advanced one step at a time, adding the offset of each state entered.
// Negative steps are replaced by their equivalent in [0, 4).
func Rotate(p *Active, steps int) {
	if steps < 0 {
		steps = normalizeSteps(steps)
	}

	p.Shape = p.Shape.Turn(steps)
	if steps%2 == 1 {
		p.Width, p.Height = p.Height, p.Width
	}

	for range steps {
		p.Rotation = (p.Rotation + 1) % 4
		offset := p.offsets[p.Rotation]
		p.X += offset.DX
		p.Y += offset.DY
	}
}

// Rotate turns the piece by steps quarter-turns. See the package-level
// Rotate for the exact semantics.
func (p *Active) Rotate(steps int) {
	Rotate(p, steps)
}

// NetOffset returns the origin shift that rotating by steps from state
// would produce.
func NetOffset(kind Kind, state, steps int) Offset {
	def := catalog[kind]
	if steps < 0 {
		steps = normalizeSteps(steps)
	}
	var net Offset
	for range steps {
		state = (state + 1) % 4
		net.DX += def.Offsets[state].DX
		net.DY += def.Offsets[state].DY
	}
	return net
}
