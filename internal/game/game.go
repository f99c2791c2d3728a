package game

import (
	"fmt"

	"bauernschach/internal/board"
	"bauernschach/internal/core"
)

// State is the mutable game aggregate: board, active color, optional
// selection and status
type State struct {
	board    *board.Board
	turn     core.Color
	selected *board.PieceRef
	status   core.Status
}

// Snapshot is a read-only copy of a State handed to callers and observers
type Snapshot struct {
	Board    *board.Board
	Turn     core.Color
	Selected *board.Piece
	Status   core.Status
}

// New starts a game on b with WHITE to move. The starting layout always grants
// WHITE a move; a board that does not is a construction bug.
func New(b *board.Board) *State {
	s := &State{
		board:  b,
		turn:   core.ColorWhite,
		status: core.StatusOngoing,
	}
	s.board.RecomputeLegalMoves(s.turn)
	if !s.CurrentRoundHasMoves() {
		panic(fmt.Sprintf("game: %dx%d layout grants no opening move", b.NumRows(), b.NumColumns()))
	}
	return s
}

func (s *State) IsRunning() bool {
	return s.status == core.StatusOngoing
}

func (s *State) Status() core.Status {
	return s.status
}

// Finish moves the game into a terminal status and drops any selection
func (s *State) Finish(status core.Status) {
	if !s.IsRunning() {
		panic(fmt.Sprintf("game: finish %s after game ended with %s", status, s.status))
	}
	if status == core.StatusOngoing {
		panic("game: finish with ongoing status")
	}
	s.status = status
	s.selected = nil
}

func (s *State) Turn() core.Color {
	return s.turn
}

func (s *State) HasSelection() bool {
	return s.selected != nil
}

// Selected returns a copy of the selected piece
func (s *State) Selected() (board.Piece, bool) {
	if s.selected == nil {
		return board.Piece{}, false
	}
	return s.board.Piece(*s.selected)
}

// CurrentPieces returns the live pieces of the active color
func (s *State) CurrentPieces() []board.Piece {
	return s.board.Pieces(s.turn)
}

// OpposingPieces returns the live pieces of the waiting color
func (s *State) OpposingPieces() []board.Piece {
	return s.board.Pieces(core.OppositeColor(s.turn))
}

func (s *State) FinishRow() int {
	return s.board.FinishRow(s.turn)
}

func (s *State) SelectPiece(ref board.PieceRef) {
	s.mustBeRunning("select")
	if s.selected != nil {
		panic(fmt.Sprintf("game: select %s while %s is selected", ref, *s.selected))
	}
	if ref.Color != s.turn {
		panic(fmt.Sprintf("game: select %s during %s round", ref, s.turn))
	}
	if _, ok := s.board.Piece(ref); !ok {
		panic(fmt.Sprintf("game: select captured piece %s", ref))
	}
	s.selected = &ref
}

func (s *State) DeselectPiece() {
	s.mustBeRunning("deselect")
	if s.selected == nil {
		panic("game: deselect without selection")
	}
	s.selected = nil
}

// ApplyMove plays m with the selected piece; m must be one of its legal moves
func (s *State) ApplyMove(m board.Move) {
	s.mustBeRunning("apply move")
	if s.selected == nil {
		panic("game: apply move without selection")
	}
	s.board.ApplyMove(*s.selected, m)
}

// AdvanceTurn hands the round to the other color and refreshes its moves
func (s *State) AdvanceTurn() {
	s.turn = core.OppositeColor(s.turn)
	s.selected = nil
	s.board.RecomputeLegalMoves(s.turn)
}

func (s *State) CurrentRoundHasMoves() bool {
	return s.board.AnyLegalMoves(s.turn)
}

// Snapshot copies the state; the board inside is read-only
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Board:  s.board.Snapshot(),
		Turn:   s.turn,
		Status: s.status,
	}
	if s.selected != nil {
		if p, ok := snap.Board.Piece(*s.selected); ok {
			snap.Selected = &p
		}
	}
	return snap
}

func (s *State) mustBeRunning(op string) {
	if !s.IsRunning() {
		panic(fmt.Sprintf("game: %s after game ended with %s", op, s.status))
	}
}
