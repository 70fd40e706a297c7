package game

// Outcome reports what a controller command did.
type Outcome uint8

const (
	// Rejected means the candidate placement did not fit; nothing changed.
	Rejected Outcome = iota
	// Applied means the candidate placement was committed.
	Applied
	// Locked means a tick could not descend, so the piece was merged into
	// the board and a new piece was spawned.
	Locked
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Applied:
		return "applied"
	case Locked:
		return "locked"
	}
	return "unknown"
}

// Changed reports whether the command altered game state.
func (o Outcome) Changed() bool {
	return o != Rejected
}
