package board

import "fmt"

// Coordinate is a (row, column) grid position
type Coordinate struct {
	Row    int
	Column int
}

func At(row, column int) Coordinate {
	return Coordinate{Row: row, Column: column}
}

// Compare orders coordinates row-major, returning -1, 0 or 1
func (c Coordinate) Compare(o Coordinate) int {
	switch {
	case c.Row < o.Row:
		return -1
	case c.Row > o.Row:
		return 1
	case c.Column < o.Column:
		return -1
	case c.Column > o.Column:
		return 1
	default:
		return 0
	}
}

func (c Coordinate) offset(dRow, dColumn int) Coordinate {
	return Coordinate{Row: c.Row + dRow, Column: c.Column + dColumn}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Column)
}
