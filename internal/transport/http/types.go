package http

import (
	"bauernschach/internal/board"
	"bauernschach/internal/core"
	"bauernschach/internal/service"
)

// toGameResponse flattens a game view into its wire form
func toGameResponse(view service.GameView) core.GameResponse {
	snap := view.State
	running := !snap.Status.IsTerminal()

	resp := core.GameResponse{
		GameID:  view.ID,
		Version: view.Version,
		Rows:    snap.Board.NumRows(),
		Columns: snap.Board.NumColumns(),
		Turn:    string(rune(snap.Turn)),
		Status:  snap.Status.String(),
		Pieces:  []core.PieceResponse{},
		Moves:   []core.MoveResponse{},
	}

	for _, color := range []core.Color{core.ColorWhite, core.ColorBlack} {
		for _, p := range snap.Board.Pieces(color) {
			movable := running && color == snap.Turn && p.HasLegalMoves()
			resp.Pieces = append(resp.Pieces, toPieceResponse(p, movable))
		}
	}

	if snap.Selected != nil {
		selected := toPieceResponse(*snap.Selected, true)
		resp.Selected = &selected
		for i, m := range snap.Selected.LegalMoves() {
			resp.Moves = append(resp.Moves, toMoveResponse(i, m))
		}
	}

	return resp
}

func toPieceResponse(p board.Piece, movable bool) core.PieceResponse {
	c := p.Coordinate()
	return core.PieceResponse{
		Color:   string(rune(p.Color())),
		ID:      p.ID(),
		Row:     c.Row,
		Column:  c.Column,
		Movable: movable,
	}
}

func toMoveResponse(index int, m board.Move) core.MoveResponse {
	dest := m.Destination()
	resp := core.MoveResponse{
		Index:  index,
		Kind:   m.Kind().String(),
		Row:    dest.Row,
		Column: dest.Column,
	}
	if id, ok := m.Captured(); ok {
		resp.Captured = &id
	}
	return resp
}
