package core

type Status int

const (
	StatusOngoing Status = iota
	StatusDraw
	StatusWhiteWon
	StatusBlackWon
)

func (s Status) String() string {
	switch s {
	case StatusOngoing:
		return "ongoing"
	case StatusDraw:
		return "draw"
	case StatusWhiteWon:
		return "white_won"
	case StatusBlackWon:
		return "black_won"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further operation may alter the game
func (s Status) IsTerminal() bool {
	return s != StatusOngoing
}

// WinnerStatus returns the status declaring the given color the winner
func WinnerStatus(c Color) Status {
	if c == ColorWhite {
		return StatusWhiteWon
	}
	return StatusBlackWon
}

// OperationStatus is the result of an engine operation
type OperationStatus int

const (
	Fail OperationStatus = iota
	Success
)

func (o OperationStatus) String() string {
	if o == Success {
		return "SUCCESS"
	}
	return "FAIL"
}

type Color byte

const (
	ColorWhite Color = 'w'
	ColorBlack Color = 'b'
)

func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "WHITE"
	case ColorBlack:
		return "BLACK"
	default:
		return "-"
	}
}

// Short returns the single letter used by board renderings
func (c Color) Short() string {
	if c == ColorWhite {
		return "W"
	}
	return "B"
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}
