package board

type MoveKind int

const (
	Advance MoveKind = iota
	Capture
)

func (k MoveKind) String() string {
	if k == Capture {
		return "capture"
	}
	return "advance"
}

// Move is produced by legal-move generation only; callers pick moves by index
type Move struct {
	kind        MoveKind
	destination Coordinate
	captured    int // id of the opposing piece, -1 for advances
}

func advanceTo(dest Coordinate) Move {
	return Move{kind: Advance, destination: dest, captured: -1}
}

func captureAt(dest Coordinate, capturedID int) Move {
	return Move{kind: Capture, destination: dest, captured: capturedID}
}

func (m Move) Kind() MoveKind {
	return m.kind
}

func (m Move) Destination() Coordinate {
	return m.destination
}

// Captured returns the id of the removed opposing piece for capture moves
func (m Move) Captured() (int, bool) {
	if m.kind != Capture {
		return 0, false
	}
	return m.captured, true
}
