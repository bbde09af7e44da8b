package tictactoe

import (
	"errors"
	"fmt"
)

const (
	Rows       = 3
	Cols       = 3
	TotalMoves = Rows * Cols
)

// Marker is the content of a cell and the symbol a player places.
// A line owned by one marker sums to ±3.
type Marker int8

const (
	MarkerNone   Marker = 0
	MarkerCross  Marker = -1
	MarkerCircle Marker = 1
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

var (
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrGameFinished  = errors.New("game is already finished")
	ErrInvalidCell   = errors.New("invalid cell index")
	ErrInvalidMarker = errors.New("invalid marker")
)

func (that Marker) IsValid() bool {
	return that == MarkerCross || that == MarkerCircle
}

func (that Marker) String() string {
	switch that {
	case MarkerCross:
		return "X"
	case MarkerCircle:
		return "O"
	default:
		return "-"
	}
}

// Board is the state machine of a single 3x3 grid.
type Board struct {
	cells     [Rows][Cols]Marker
	status    Status
	movesLeft int
}

func NewBoard() *Board {
	return &Board{
		status:    StatusInProgress,
		movesLeft: TotalMoves,
	}
}

// PlaceMark - writes marker into the cell and reports the resulting status and the winning marker, if any.
// A failed call never changes the board.
func (that *Board) PlaceMark(row, col int, marker Marker) (Status, Marker, error) {
	if !inBounds(row, col) {
		return that.status, MarkerNone, fmt.Errorf("%w: row %d col %d", ErrInvalidCell, row, col)
	}

	if !marker.IsValid() {
		return that.status, MarkerNone, fmt.Errorf("%w: %d", ErrInvalidMarker, marker)
	}

	if that.cells[row][col] != MarkerNone {
		return that.status, MarkerNone, ErrCellOccupied
	}

	if that.status == StatusFinished || that.movesLeft <= 0 {
		return that.status, MarkerNone, ErrGameFinished
	}

	that.cells[row][col] = marker
	that.movesLeft--

	winner := that.winningMarker()
	if winner != MarkerNone || that.movesLeft == 0 {
		that.status = StatusFinished
	}

	return that.status, winner, nil
}

// winningMarker scans rows top to bottom, then columns left to right, then the main and anti diagonal.
func (that *Board) winningMarker() Marker {
	for row := 0; row < Rows; row++ {
		if m := lineOwner(that.cells[row][0], that.cells[row][1], that.cells[row][2]); m != MarkerNone {
			return m
		}
	}

	for col := 0; col < Cols; col++ {
		if m := lineOwner(that.cells[0][col], that.cells[1][col], that.cells[2][col]); m != MarkerNone {
			return m
		}
	}

	if m := lineOwner(that.cells[0][0], that.cells[1][1], that.cells[2][2]); m != MarkerNone {
		return m
	}

	return lineOwner(that.cells[0][2], that.cells[1][1], that.cells[2][0])
}

func lineOwner(a, b, c Marker) Marker {
	switch int(a) + int(b) + int(c) {
	case 3 * int(MarkerCross):
		return MarkerCross
	case 3 * int(MarkerCircle):
		return MarkerCircle
	default:
		return MarkerNone
	}
}

func (that *Board) Cell(row, col int) Marker {
	if !inBounds(row, col) {
		return MarkerNone
	}
	return that.cells[row][col]
}

// Cells - returns a row-major copy of the grid.
func (that *Board) Cells() [TotalMoves]Marker {
	var out [TotalMoves]Marker
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			out[CellIndex(row, col)] = that.cells[row][col]
		}
	}
	return out
}

func (that *Board) Status() Status {
	return that.status
}

func (that *Board) MovesLeft() int {
	return that.movesLeft
}

func (that *Board) IsFinished() bool {
	return that.status == StatusFinished
}

func (that *Board) IsInProgress() bool {
	return that.status == StatusInProgress
}

// CellPosition - converts a row-major cell index into (row, col).
func CellPosition(index int) (int, int, error) {
	if index < 0 || index >= TotalMoves {
		return 0, 0, fmt.Errorf("%w: cell %d", ErrInvalidCell, index)
	}
	return index / Cols, index % Cols, nil
}

func CellIndex(row, col int) int {
	return row*Cols + col
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}
