package core

// Request types

type CreateGameRequest struct {
	Rows    int `json:"rows,omitempty" validate:"omitempty,min=1,max=26"` // Row labels run A..Z
	Columns int `json:"columns,omitempty" validate:"omitempty,min=1,max=26"`
}

type SelectRequest struct {
	ID *int `json:"id" validate:"required,min=0"`
}

type MoveRequest struct {
	Move *int `json:"move" validate:"required,min=0"` // Index into the selected piece's legal moves
}

// Response types

type GameResponse struct {
	GameID   string          `json:"gameId"`
	Version  int             `json:"version"`
	Rows     int             `json:"rows"`
	Columns  int             `json:"columns"`
	Turn     string          `json:"turn"`   // "w" or "b"
	Status   string          `json:"status"` // "ongoing", "white_won", etc
	Selected *PieceResponse  `json:"selected,omitempty"`
	Pieces   []PieceResponse `json:"pieces"`
	Moves    []MoveResponse  `json:"moves"`
}

type PieceResponse struct {
	Color   string `json:"color"`
	ID      int    `json:"id"`
	Row     int    `json:"row"`
	Column  int    `json:"column"`
	Movable bool   `json:"movable"`
}

type MoveResponse struct {
	Index    int    `json:"index"`
	Kind     string `json:"kind"` // "advance" or "capture"
	Row      int    `json:"row"`
	Column   int    `json:"column"`
	Captured *int   `json:"captured,omitempty"`
}

type BoardResponse struct {
	Board string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
