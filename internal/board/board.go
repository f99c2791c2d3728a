package board

import (
	"errors"
	"fmt"
	"strings"

	"bauernschach/internal/core"
)

const (
	DefaultRows    = 8
	DefaultColumns = 8
)

var ErrInvalidDimensions = errors.New("board dimensions must be positive")

type cell struct {
	ref      PieceRef
	occupied bool
}

// Board owns every piece in a per-color arena indexed by id. Grid cells hold
// references into the arena, never copies.
type Board struct {
	rows    int
	columns int
	grid    []cell
	arena   map[core.Color][]Piece
	frozen  bool
}

// New builds the starting layout: WHITE on row 0, BLACK on the last row, ids
// assigned left to right
func New(rows, columns int) (*Board, error) {
	if rows <= 0 || columns <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, rows, columns)
	}

	b := &Board{
		rows:    rows,
		columns: columns,
		grid:    make([]cell, rows*columns),
		arena: map[core.Color][]Piece{
			core.ColorWhite: make([]Piece, 0, columns),
			core.ColorBlack: make([]Piece, 0, columns),
		},
	}

	for _, color := range [2]core.Color{core.ColorWhite, core.ColorBlack} {
		row := b.StartRow(color)
		if color == core.ColorBlack && row == b.StartRow(core.ColorWhite) {
			// Single-row boards only hold white pieces
			continue
		}
		for col := 0; col < columns; col++ {
			ref := PieceRef{Color: color, ID: col}
			b.arena[color] = append(b.arena[color], Piece{ref: ref, coord: At(row, col)})
			b.put(ref, At(row, col))
		}
	}

	return b, nil
}

func (b *Board) NumRows() int {
	return b.rows
}

func (b *Board) NumColumns() int {
	return b.columns
}

func (b *Board) IsInBounds(c Coordinate) bool {
	return c.Row >= 0 && c.Row < b.rows && c.Column >= 0 && c.Column < b.columns
}

// IsOccupied reports false for out-of-bounds coordinates
func (b *Board) IsOccupied(c Coordinate) bool {
	return b.IsInBounds(c) && b.grid[b.index(c)].occupied
}

func (b *Board) HasOpposingPieceAt(c Coordinate, color core.Color) bool {
	return b.IsOccupied(c) && b.grid[b.index(c)].ref.Color != color
}

// PieceAt returns a copy of the piece on c; ok is false for empty or
// out-of-bounds cells
func (b *Board) PieceAt(c Coordinate) (Piece, bool) {
	if !b.IsOccupied(c) {
		return Piece{}, false
	}
	return b.Piece(b.grid[b.index(c)].ref)
}

// Piece looks up a live piece by reference
func (b *Board) Piece(ref PieceRef) (Piece, bool) {
	p := b.live(ref)
	if p == nil {
		return Piece{}, false
	}
	return *p, true
}

// Pieces returns copies of the live pieces of a color in id order
func (b *Board) Pieces(color core.Color) []Piece {
	pieces := make([]Piece, 0, len(b.arena[color]))
	for _, p := range b.arena[color] {
		if !p.captured {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

func (b *Board) CountPieces(color core.Color) int {
	n := 0
	for _, p := range b.arena[color] {
		if !p.captured {
			n++
		}
	}
	return n
}

func (b *Board) StartRow(color core.Color) int {
	if color == core.ColorWhite {
		return 0
	}
	return b.rows - 1
}

// FinishRow is the row whose reach wins the game for color
func (b *Board) FinishRow(color core.Color) int {
	return b.StartRow(core.OppositeColor(color))
}

// RecomputeLegalMoves refreshes the move cache of every live piece of color
func (b *Board) RecomputeLegalMoves(color core.Color) {
	b.mustBeMutable()
	pieces := b.arena[color]
	for i := range pieces {
		if !pieces[i].captured {
			pieces[i].recompute(b)
		}
	}
}

func (b *Board) AnyLegalMoves(color core.Color) bool {
	for _, p := range b.arena[color] {
		if !p.captured && p.HasLegalMoves() {
			return true
		}
	}
	return false
}

// ApplyMove relocates the piece and removes a captured opponent. The move must
// come from the piece's latest recompute; anything else is a caller bug.
func (b *Board) ApplyMove(ref PieceRef, m Move) {
	b.mustBeMutable()

	p := b.live(ref)
	if p == nil {
		panic(fmt.Sprintf("board: apply move for missing piece %s", ref))
	}
	if !p.owns(m) {
		panic(fmt.Sprintf("board: move to %s not owned by piece %s", m.destination, ref))
	}

	if id, ok := m.Captured(); ok {
		victim := PieceRef{Color: core.OppositeColor(ref.Color), ID: id}
		b.remove(victim)
	}

	b.remove(ref)
	p.captured = false
	p.coord = m.destination
	b.put(ref, m.destination)
}

// Clone returns an independent deep copy
func (b *Board) Clone() *Board {
	c := &Board{
		rows:    b.rows,
		columns: b.columns,
		grid:    make([]cell, len(b.grid)),
		arena:   make(map[core.Color][]Piece, len(b.arena)),
	}
	copy(c.grid, b.grid)
	for color, pieces := range b.arena {
		copied := make([]Piece, len(pieces))
		for i, p := range pieces {
			p.moves = p.LegalMoves()
			copied[i] = p
		}
		c.arena[color] = copied
	}
	return c
}

// Snapshot returns a read-only deep copy; mutating it panics
func (b *Board) Snapshot() *Board {
	c := b.Clone()
	c.frozen = true
	return c
}

func (b *Board) IsSnapshot() bool {
	return b.frozen
}

// ToASCII renders rows as letters from A and columns as numbers from 1
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for col := 0; col < b.columns; col++ {
		sb.WriteString(fmt.Sprintf(" %d", col+1))
	}

	for row := 0; row < b.rows; row++ {
		sb.WriteString(fmt.Sprintf("\n %c", 'A'+row))
		for col := 0; col < b.columns; col++ {
			sb.WriteString(" ")
			if p, ok := b.PieceAt(At(row, col)); ok {
				sb.WriteString(p.Color().Short())
			} else {
				sb.WriteString(".")
			}
		}
	}

	return sb.String()
}

func (b *Board) index(c Coordinate) int {
	return c.Row*b.columns + c.Column
}

func (b *Board) live(ref PieceRef) *Piece {
	pieces := b.arena[ref.Color]
	if ref.ID < 0 || ref.ID >= len(pieces) || pieces[ref.ID].captured {
		return nil
	}
	return &pieces[ref.ID]
}

func (b *Board) put(ref PieceRef, c Coordinate) {
	idx := b.index(c)
	if b.grid[idx].occupied {
		panic(fmt.Sprintf("board: %s already occupied by %s", c, b.grid[idx].ref))
	}
	b.grid[idx] = cell{ref: ref, occupied: true}
}

// remove clears the grid cell and drops the piece from its roster along with
// its move cache
func (b *Board) remove(ref PieceRef) {
	p := b.live(ref)
	if p == nil {
		panic(fmt.Sprintf("board: remove missing piece %s", ref))
	}
	idx := b.index(p.coord)
	if !b.grid[idx].occupied || b.grid[idx].ref != ref {
		panic(fmt.Sprintf("board: grid and roster disagree on %s at %s", ref, p.coord))
	}
	b.grid[idx] = cell{}
	p.captured = true
	p.moves = nil
}

func (b *Board) mustBeMutable() {
	if b.frozen {
		panic("board: mutation of a read-only snapshot")
	}
}
