// Package engine implements the Bauernschach rules facade: pawn-only chess on
// an N×M board, driven by select, deselect, move and pass operations.
package engine

import (
	"errors"
	"fmt"

	"bauernschach/internal/board"
	"bauernschach/internal/core"
	"bauernschach/internal/game"
	"bauernschach/internal/observer"
)

// maxRoundAdvances bounds the skip search: one skipped color, then DRAW
const maxRoundAdvances = 2

var (
	ErrInvalidDimensions = board.ErrInvalidDimensions
	ErrNoOpeningMove     = errors.New("starting layout grants white no legal move")
)

// Engine is single-threaded: callers serialize operations on one instance
type Engine struct {
	state     *game.State
	observers *observer.Registry
}

// New creates a game on a rows×columns board
func New(rows, columns int) (*Engine, error) {
	b, err := board.New(rows, columns)
	if err != nil {
		return nil, err
	}

	b.RecomputeLegalMoves(core.ColorWhite)
	if !b.AnyLegalMoves(core.ColorWhite) {
		return nil, fmt.Errorf("%w: %dx%d", ErrNoOpeningMove, rows, columns)
	}

	return &Engine{
		state:     game.New(b),
		observers: observer.NewRegistry(),
	}, nil
}

// NewDefault creates a game on the standard 8×8 board
func NewDefault() *Engine {
	e, err := New(board.DefaultRows, board.DefaultColumns)
	if err != nil {
		panic(err)
	}
	return e
}

// State returns a detached snapshot of the game
func (e *Engine) State() game.Snapshot {
	return e.state.Snapshot()
}

// SelectByID selects the active color's piece with the given id. Pieces
// without legal moves cannot be selected.
func (e *Engine) SelectByID(id int) core.OperationStatus {
	if !e.state.IsRunning() || e.state.HasSelection() {
		return core.Fail
	}

	for _, p := range e.state.CurrentPieces() {
		if p.ID() == id && p.HasLegalMoves() {
			e.state.SelectPiece(p.Ref())
			e.publish()
			return core.Success
		}
	}
	return core.Fail
}

func (e *Engine) Deselect() core.OperationStatus {
	if !e.state.IsRunning() || !e.state.HasSelection() {
		return core.Fail
	}
	e.state.DeselectPiece()
	e.publish()
	return core.Success
}

// Move plays the selected piece's legal move at index. The mover wins on
// reaching its finish row or taking the last opposing piece; otherwise the
// round passes on.
func (e *Engine) Move(index int) core.OperationStatus {
	if !e.state.IsRunning() {
		return core.Fail
	}
	selected, ok := e.state.Selected()
	if !ok {
		return core.Fail
	}
	moves := selected.LegalMoves()
	if index < 0 || index >= len(moves) {
		return core.Fail
	}

	m := moves[index]
	mover := e.state.Turn()
	e.state.ApplyMove(m)

	if m.Destination().Row == e.state.FinishRow() || len(e.state.OpposingPieces()) == 0 {
		e.state.Finish(core.WinnerStatus(mover))
	} else {
		e.startNewRound()
	}

	e.publish()
	return core.Success
}

// Pass ends the current round without moving
func (e *Engine) Pass() core.OperationStatus {
	if !e.state.IsRunning() {
		return core.Fail
	}
	e.startNewRound()
	e.publish()
	return core.Success
}

func (e *Engine) Subscribe(l observer.Listener) {
	e.observers.Subscribe(l)
}

func (e *Engine) Unsubscribe(l observer.Listener) {
	e.observers.Unsubscribe(l)
}

// startNewRound skips a color that cannot move; if neither can, the game is
// drawn
func (e *Engine) startNewRound() {
	for i := 0; i < maxRoundAdvances; i++ {
		e.state.AdvanceTurn()
		if e.state.CurrentRoundHasMoves() {
			return
		}
	}
	e.state.Finish(core.StatusDraw)
}

func (e *Engine) publish() {
	e.observers.Notify(e.state.Snapshot())
}
