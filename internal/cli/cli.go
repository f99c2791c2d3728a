// Package cli implements the text shell for playing Bauernschach on one terminal.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bauernschach/internal/board"
	"bauernschach/internal/core"
	"bauernschach/internal/engine"
	"bauernschach/internal/game"
	"bauernschach/internal/observer"

	"github.com/chzyer/readline"
)

const Prompt = "BS > "

const (
	rowStartChar        = 'A'
	columnDisplayOffset = 1
)

const (
	msgNoCommand      = "No Command given."
	msgInvalidCommand = "Invalid command."
	msgInvalidArgs    = "Invalid arguments."
	msgInvalidInput   = "Invalid input."
	msgNoActiveGame   = "No active game running."
	msgNotPossible    = "Not possible."
	msgSelectPiece    = "Please select a chess piece."
	msgSelectMove     = "Please select a move."
)

const helpText = `Commands:
- NEWGAME [<int rows> <int columns>]: create a new Bauernschach game (default 8x8)
- PRINT: print the current chess board
- SELECT <int chess_id>: select the chess piece by ID
- DESELECT: deselect the selected chess piece
- MOVE <int move_id>: move the selected chess according to the chosen move
- PASS: pass the current round
- QUIT: quit the shell
- HELP: print the help message`

type printMode int

const (
	modePieceSelect printMode = iota
	modeMoveSelect
	modePlain
)

type palette struct {
	white  string
	black  string
	marker string
	reset  string
}

var (
	plainPalette = palette{}
	ansiPalette  = palette{
		white:  "\033[1;97m",
		black:  "\033[1;31m",
		marker: "\033[1;33m",
		reset:  "\033[0m",
	}
)

// LineReader supplies input lines; *readline.Instance satisfies it
type LineReader interface {
	Readline() (string, error)
}

type Config struct {
	Rows    int // Size for NEWGAME without arguments
	Columns int
	Color   bool // ANSI colors on the board
}

// Shell runs at most one game at a time and discards it once it ends
type Shell struct {
	out      io.Writer
	cfg      Config
	colors   palette
	engine   *engine.Engine
	listener *observer.FuncListener
	last     game.Snapshot
	mode     printMode
}

func New(out io.Writer, cfg Config) *Shell {
	if cfg.Rows <= 0 {
		cfg.Rows = board.DefaultRows
	}
	if cfg.Columns <= 0 {
		cfg.Columns = board.DefaultColumns
	}
	s := &Shell{out: out, cfg: cfg, colors: plainPalette}
	if cfg.Color {
		s.colors = ansiPalette
	}
	return s
}

// Run executes lines until QUIT or end of input
func (s *Shell) Run(r LineReader) error {
	defer s.discard()
	for {
		line, err := r.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if !s.Execute(line) {
			return nil
		}
	}
}

// Execute handles one command line and reports whether the shell keeps running
func (s *Shell) Execute(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		s.showError(msgNoCommand)
		return true
	}

	args := tokens[1:]
	switch strings.ToUpper(tokens[0]) {
	case "NEWGAME":
		s.handleNewGame(args)
	case "PRINT":
		s.handlePrint(args)
	case "SELECT":
		s.handleSelect(args)
	case "DESELECT":
		s.handleDeselect(args)
	case "MOVE":
		s.handleMove(args)
	case "PASS":
		s.handlePass(args)
	case "QUIT":
		if len(args) != 0 {
			s.showError(msgInvalidArgs)
			return true
		}
		return false
	case "HELP":
		if len(args) != 0 {
			s.showError(msgInvalidArgs)
			return true
		}
		fmt.Fprintln(s.out, helpText)
	default:
		s.showError(msgInvalidCommand)
	}
	return true
}

func (s *Shell) handleNewGame(args []string) {
	rows, columns := s.cfg.Rows, s.cfg.Columns
	switch len(args) {
	case 0:
	case 2:
		var err error
		if rows, err = strconv.Atoi(args[0]); err != nil {
			s.showError(msgInvalidInput)
			return
		}
		if columns, err = strconv.Atoi(args[1]); err != nil {
			s.showError(msgInvalidInput)
			return
		}
	default:
		s.showError(msgInvalidArgs)
		return
	}

	e, err := engine.New(rows, columns)
	if err != nil {
		s.showError(msgNotPossible)
		return
	}

	s.discard()
	s.engine = e
	s.listener = observer.NewFunc(func(snap game.Snapshot) {
		s.last = snap
	})
	e.Subscribe(s.listener)
	s.last = e.State()
	s.mode = modePieceSelect
	s.printBoard()
}

func (s *Shell) handlePrint(args []string) {
	if len(args) != 0 {
		s.showError(msgInvalidArgs)
		return
	}
	if !s.hasGame() {
		s.showError(msgNoActiveGame)
		return
	}
	s.printBoard()
}

func (s *Shell) handleSelect(args []string) {
	id, ok := s.singleIntArg(args)
	if !ok {
		return
	}
	if s.engine.SelectByID(id) != core.Success {
		s.showError(msgNotPossible)
		return
	}
	s.mode = modeMoveSelect
	s.printBoard()
}

func (s *Shell) handleDeselect(args []string) {
	if !s.hasGame() {
		s.showError(msgNoActiveGame)
		return
	}
	if len(args) != 0 {
		s.showError(msgInvalidArgs)
		return
	}
	if s.engine.Deselect() != core.Success {
		s.showError(msgNotPossible)
		return
	}
	s.mode = modePieceSelect
	s.printBoard()
}

func (s *Shell) handleMove(args []string) {
	index, ok := s.singleIntArg(args)
	if !ok {
		return
	}
	if s.engine.Move(index) != core.Success {
		s.showError(msgNotPossible)
		return
	}
	s.afterRound()
}

func (s *Shell) handlePass(args []string) {
	if !s.hasGame() {
		s.showError(msgNoActiveGame)
		return
	}
	if len(args) != 0 {
		s.showError(msgInvalidArgs)
		return
	}
	if s.engine.Pass() != core.Success {
		s.showError(msgNotPossible)
		return
	}
	s.afterRound()
}

// afterRound prints the board and drops a game that just ended
func (s *Shell) afterRound() {
	if s.last.Status.IsTerminal() {
		s.mode = modePlain
		s.printBoard()
		s.discard()
		return
	}
	s.mode = modePieceSelect
	s.printBoard()
}

func (s *Shell) singleIntArg(args []string) (int, bool) {
	if !s.hasGame() {
		s.showError(msgNoActiveGame)
		return 0, false
	}
	if len(args) != 1 {
		s.showError(msgInvalidArgs)
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		s.showError(msgInvalidInput)
		return 0, false
	}
	return n, true
}

func (s *Shell) hasGame() bool {
	return s.engine != nil
}

func (s *Shell) discard() {
	if s.engine == nil {
		return
	}
	s.engine.Unsubscribe(s.listener)
	s.engine = nil
	s.listener = nil
}

func (s *Shell) printBoard() {
	snap := s.last
	b := snap.Board

	var sb strings.Builder
	sb.WriteString("  ")
	for c := 0; c < b.NumColumns(); c++ {
		fmt.Fprintf(&sb, " %d", c+columnDisplayOffset)
	}
	sb.WriteByte('\n')

	for r := 0; r < b.NumRows(); r++ {
		fmt.Fprintf(&sb, " %c", rune(rowStartChar+r))
		for c := 0; c < b.NumColumns(); c++ {
			sb.WriteByte(' ')
			sb.WriteString(s.cell(snap, board.At(r, c)))
		}
		sb.WriteByte('\n')
	}

	switch snap.Status {
	case core.StatusOngoing:
		fmt.Fprintf(&sb, "Current round: %s\n", snap.Turn)
	case core.StatusWhiteWon:
		fmt.Fprintf(&sb, "Player %s wins!\n", core.ColorWhite)
	case core.StatusBlackWon:
		fmt.Fprintf(&sb, "Player %s wins!\n", core.ColorBlack)
	default:
		sb.WriteString("No possible move left. Draw!\n")
	}

	switch s.mode {
	case modePieceSelect:
		sb.WriteString(msgSelectPiece + "\n")
	case modeMoveSelect:
		sb.WriteString(msgSelectMove + "\n")
	}

	fmt.Fprint(s.out, sb.String())
}

func (s *Shell) cell(snap game.Snapshot, at board.Coordinate) string {
	p, occupied := snap.Board.PieceAt(at)

	switch s.mode {
	case modePieceSelect:
		if occupied && p.Color() == snap.Turn && p.HasLegalMoves() {
			return s.marker(strconv.Itoa(p.ID()))
		}
	case modeMoveSelect:
		if sel := snap.Selected; sel != nil {
			if occupied && p.Ref() == sel.Ref() {
				return s.marker("*")
			}
			if i := sel.MoveIndexAt(at); i >= 0 {
				return s.marker(strconv.Itoa(i))
			}
		}
	}

	if !occupied {
		return "."
	}
	if p.Color() == core.ColorWhite {
		return s.colors.white + p.Color().Short() + s.colors.reset
	}
	return s.colors.black + p.Color().Short() + s.colors.reset
}

func (s *Shell) marker(text string) string {
	return s.colors.marker + text + s.colors.reset
}

func (s *Shell) showError(msg string) {
	fmt.Fprintln(s.out, "Error! "+msg)
}
