package board

import (
	"errors"
	"testing"

	"bauernschach/internal/core"
)

func newBoard(t *testing.T, rows, columns int) *Board {
	t.Helper()
	b, err := New(rows, columns)
	if err != nil {
		t.Fatalf("New(%d, %d) failed: %v", rows, columns, err)
	}
	return b
}

// advance moves a piece along its first cached move whose destination is dest
func play(t *testing.T, b *Board, ref PieceRef, dest Coordinate) Move {
	t.Helper()
	b.RecomputeLegalMoves(ref.Color)
	p, ok := b.Piece(ref)
	if !ok {
		t.Fatalf("piece %s not on board", ref)
	}
	i := p.MoveIndexAt(dest)
	if i < 0 {
		t.Fatalf("piece %s has no move to %s; moves=%v", ref, dest, p.LegalMoves())
	}
	m := p.LegalMoves()[i]
	b.ApplyMove(ref, m)
	return m
}

func white(id int) PieceRef { return PieceRef{Color: core.ColorWhite, ID: id} }
func black(id int) PieceRef { return PieceRef{Color: core.ColorBlack, ID: id} }

func TestNewRejectsInvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 8}, {8, 0}, {0, 0}, {-1, 3}} {
		if _, err := New(dims[0], dims[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Fatalf("expected ErrInvalidDimensions for %v, got %v", dims, err)
		}
	}
}

func TestStartingLayout(t *testing.T) {
	b := newBoard(t, 8, 8)
	for col := 0; col < 8; col++ {
		p, ok := b.PieceAt(At(0, col))
		if !ok || p.Color() != core.ColorWhite || p.ID() != col {
			t.Fatalf("expected WHITE#%d at (0,%d), got %v ok=%v", col, col, p.Ref(), ok)
		}
		p, ok = b.PieceAt(At(7, col))
		if !ok || p.Color() != core.ColorBlack || p.ID() != col {
			t.Fatalf("expected BLACK#%d at (7,%d), got %v ok=%v", col, col, p.Ref(), ok)
		}
	}
	for row := 1; row < 7; row++ {
		for col := 0; col < 8; col++ {
			if b.IsOccupied(At(row, col)) {
				t.Fatalf("expected (%d,%d) empty", row, col)
			}
		}
	}
	if b.CountPieces(core.ColorWhite) != 8 || b.CountPieces(core.ColorBlack) != 8 {
		t.Fatalf("expected 8 pieces per color")
	}
	if b.FinishRow(core.ColorWhite) != 7 || b.FinishRow(core.ColorBlack) != 0 {
		t.Fatalf("unexpected finish rows %d/%d", b.FinishRow(core.ColorWhite), b.FinishRow(core.ColorBlack))
	}
}

func TestQueriesOutOfBoundsAnswerEmpty(t *testing.T) {
	b := newBoard(t, 4, 4)
	for _, c := range []Coordinate{At(-1, 0), At(0, -1), At(4, 0), At(0, 4)} {
		if b.IsInBounds(c) || b.IsOccupied(c) || b.HasOpposingPieceAt(c, core.ColorWhite) {
			t.Fatalf("expected %s to be out of bounds and empty", c)
		}
		if _, ok := b.PieceAt(c); ok {
			t.Fatalf("expected no piece at %s", c)
		}
	}
}

func TestOpeningAdvanceOffersDoubleStep(t *testing.T) {
	b := newBoard(t, 8, 8)
	b.RecomputeLegalMoves(core.ColorWhite)

	p, _ := b.Piece(white(0))
	moves := p.LegalMoves()
	if len(moves) != 2 {
		t.Fatalf("expected 2 opening moves, got %v", moves)
	}
	if moves[0].Kind() != Advance || moves[0].Destination() != At(1, 0) {
		t.Fatalf("expected first move ADVANCE to (1,0), got %v", moves[0])
	}
	if moves[1].Kind() != Advance || moves[1].Destination() != At(2, 0) {
		t.Fatalf("expected second move ADVANCE to (2,0), got %v", moves[1])
	}

	play(t, b, white(0), At(1, 0))
	b.RecomputeLegalMoves(core.ColorWhite)
	p, _ = b.Piece(white(0))
	if got := p.LegalMoves(); len(got) != 1 || got[0].Destination() != At(2, 0) {
		t.Fatalf("expected single step to (2,0) off the start row, got %v", got)
	}

	play(t, b, white(0), At(2, 0))
	b.RecomputeLegalMoves(core.ColorWhite)
	p, _ = b.Piece(white(0))
	if got := p.LegalMoves(); len(got) != 1 || got[0].Destination() != At(3, 0) {
		t.Fatalf("expected single step to (3,0), got %v", got)
	}
}

func TestBlockedSingleStepBlocksDoubleStep(t *testing.T) {
	// 3 rows: white at 0, black at 2; step one to row 1, then black's
	// single step runs into it
	b := newBoard(t, 3, 1)
	play(t, b, white(0), At(1, 0))

	b.RecomputeLegalMoves(core.ColorBlack)
	p, _ := b.Piece(black(0))
	if p.HasLegalMoves() {
		t.Fatalf("expected blocked black pawn to have no moves, got %v", p.LegalMoves())
	}
}

func TestBlockedDoubleStepKeepsSingleStep(t *testing.T) {
	b := newBoard(t, 4, 1)
	// Black advances one square to row 2, blocking white's double step
	play(t, b, black(0), At(2, 0))

	b.RecomputeLegalMoves(core.ColorWhite)
	p, _ := b.Piece(white(0))
	if got := p.LegalMoves(); len(got) != 1 || got[0].Destination() != At(1, 0) {
		t.Fatalf("expected only the single step, got %v", got)
	}
}

func TestDiagonalCapture(t *testing.T) {
	b := newBoard(t, 8, 8)
	// WHITE#3 to (3,3), BLACK#4 to (4,4)
	play(t, b, white(3), At(2, 3))
	play(t, b, white(3), At(3, 3))
	play(t, b, black(4), At(5, 4))
	play(t, b, black(4), At(4, 4))

	b.RecomputeLegalMoves(core.ColorWhite)
	p, _ := b.Piece(white(3))
	moves := p.LegalMoves()
	if len(moves) != 2 {
		t.Fatalf("expected advance plus capture, got %v", moves)
	}
	if moves[0].Kind() != Advance || moves[1].Kind() != Capture {
		t.Fatalf("expected forward moves before captures, got %v", moves)
	}
	if id, ok := moves[1].Captured(); !ok || id != 4 || moves[1].Destination() != At(4, 4) {
		t.Fatalf("expected capture of BLACK#4 at (4,4), got %v", moves[1])
	}

	b.ApplyMove(white(3), moves[1])
	if _, ok := b.Piece(black(4)); ok {
		t.Fatalf("captured piece still in roster")
	}
	if b.CountPieces(core.ColorBlack) != 7 {
		t.Fatalf("expected 7 black pieces, got %d", b.CountPieces(core.ColorBlack))
	}
	occupant, ok := b.PieceAt(At(4, 4))
	if !ok || occupant.Ref() != white(3) || occupant.Coordinate() != At(4, 4) {
		t.Fatalf("expected WHITE#3 on (4,4), got %v ok=%v", occupant.Ref(), ok)
	}
	if b.IsOccupied(At(3, 3)) {
		t.Fatalf("expected origin square emptied")
	}
	if occupant.HasLegalMoves() {
		t.Fatalf("expected moved piece to carry an empty move cache")
	}
}

func TestCaptureOrderLeftBeforeRight(t *testing.T) {
	// 2 rows: every white pawn faces black pawns diagonally
	b := newBoard(t, 2, 3)
	b.RecomputeLegalMoves(core.ColorWhite)
	p, _ := b.Piece(white(1))
	moves := p.LegalMoves()
	if len(moves) != 2 {
		t.Fatalf("expected two captures, got %v", moves)
	}
	if moves[0].Destination() != At(1, 0) || moves[1].Destination() != At(1, 2) {
		t.Fatalf("expected left capture before right, got %v", moves)
	}
}

func TestNoCaptureOfOwnColor(t *testing.T) {
	b := newBoard(t, 8, 8)
	play(t, b, white(1), At(1, 1))
	b.RecomputeLegalMoves(core.ColorWhite)
	for _, p := range b.Pieces(core.ColorWhite) {
		for _, m := range p.LegalMoves() {
			if m.Kind() == Capture {
				t.Fatalf("unexpected capture %v for %s", m, p.Ref())
			}
		}
	}
}

func TestGeneratedMovesStayInBoundsAndOffOwnPieces(t *testing.T) {
	for _, dims := range [][2]int{{2, 2}, {3, 5}, {5, 3}, {8, 8}} {
		b := newBoard(t, dims[0], dims[1])
		for _, color := range []core.Color{core.ColorWhite, core.ColorBlack} {
			b.RecomputeLegalMoves(color)
			for _, p := range b.Pieces(color) {
				for _, m := range p.LegalMoves() {
					dest := m.Destination()
					if !b.IsInBounds(dest) {
						t.Fatalf("%v: move %v out of bounds", dims, m)
					}
					if occupant, ok := b.PieceAt(dest); ok && occupant.Color() == color {
						t.Fatalf("%v: move %v lands on own piece", dims, m)
					}
				}
			}
		}
	}
}

func TestApplyMoveNotOwnedPanics(t *testing.T) {
	b := newBoard(t, 8, 8)
	b.RecomputeLegalMoves(core.ColorWhite)
	p, _ := b.Piece(white(0))
	m := p.LegalMoves()[0]

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a move owned by another piece")
		}
	}()
	b.ApplyMove(white(1), m)
}

func TestSnapshotIsIndependentAndReadOnly(t *testing.T) {
	b := newBoard(t, 8, 8)
	snap := b.Snapshot()
	play(t, b, white(0), At(2, 0))

	if !snap.IsOccupied(At(0, 0)) || snap.IsOccupied(At(2, 0)) {
		t.Fatalf("snapshot followed live board mutation")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when mutating a snapshot")
		}
	}()
	snap.RecomputeLegalMoves(core.ColorWhite)
}

func TestCoordinateCompare(t *testing.T) {
	cases := []struct {
		a, b Coordinate
		want int
	}{
		{At(0, 0), At(0, 0), 0},
		{At(0, 5), At(1, 0), -1},
		{At(2, 0), At(1, 7), 1},
		{At(3, 2), At(3, 4), -1},
	}
	for _, tc := range cases {
		if got := tc.a.Compare(tc.b); got != tc.want {
			t.Fatalf("%s.Compare(%s) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestToASCII(t *testing.T) {
	b := newBoard(t, 3, 2)
	want := "   1 2\n A W W\n B . .\n C B B"
	if got := b.ToASCII(); got != want {
		t.Fatalf("unexpected rendering:\n%s\nwant:\n%s", got, want)
	}
}
