package board

import (
	"fmt"

	"bauernschach/internal/core"
)

// PieceRef identifies a piece: ids are scoped by color and never reused
type PieceRef struct {
	Color core.Color
	ID    int
}

func (r PieceRef) String() string {
	return fmt.Sprintf("%s#%d", r.Color, r.ID)
}

// Piece is a pawn owned by the board arena. Values handed out by the board are
// copies; the move cache is only valid right after the last recompute.
type Piece struct {
	ref      PieceRef
	coord    Coordinate
	moves    []Move
	captured bool
}

func (p Piece) Ref() PieceRef {
	return p.ref
}

func (p Piece) Color() core.Color {
	return p.ref.Color
}

func (p Piece) ID() int {
	return p.ref.ID
}

func (p Piece) Coordinate() Coordinate {
	return p.coord
}

// LegalMoves returns a copy of the cached moves in generation order
func (p Piece) LegalMoves() []Move {
	moves := make([]Move, len(p.moves))
	copy(moves, p.moves)
	return moves
}

func (p Piece) HasLegalMoves() bool {
	return len(p.moves) > 0
}

// MoveIndexAt returns the index of the cached move landing on c, or -1
func (p Piece) MoveIndexAt(c Coordinate) int {
	for i, m := range p.moves {
		if m.destination == c {
			return i
		}
	}
	return -1
}

func (p Piece) owns(m Move) bool {
	for _, own := range p.moves {
		if own == m {
			return true
		}
	}
	return false
}

// recompute replaces the move cache: forward steps first, then captures
// left before right
func (p *Piece) recompute(b *Board) {
	p.moves = nil
	dir := forward(p.ref.Color)

	one := p.coord.offset(dir, 0)
	if b.IsInBounds(one) && !b.IsOccupied(one) {
		p.moves = append(p.moves, advanceTo(one))

		if p.coord.Row == b.StartRow(p.ref.Color) {
			two := p.coord.offset(2*dir, 0)
			if b.IsInBounds(two) && !b.IsOccupied(two) {
				p.moves = append(p.moves, advanceTo(two))
			}
		}
	}

	for _, side := range [2]int{-1, 1} {
		dest := p.coord.offset(dir, side)
		if b.HasOpposingPieceAt(dest, p.ref.Color) {
			victim, _ := b.PieceAt(dest)
			p.moves = append(p.moves, captureAt(dest, victim.ID()))
		}
	}
}

func forward(c core.Color) int {
	if c == core.ColorWhite {
		return 1
	}
	return -1
}
