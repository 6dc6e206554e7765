// Package gomoku implements the mutable five-in-a-row board: a cell grid,
// a move history that supports undo, and a Zobrist hash maintained
// incrementally as pieces come and go.
package gomoku

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/conecta/zobrist"
)

// A Piece marks the contents of one cell.
type Piece uint8

const (
	Empty Piece = iota
	X
	O
)

func (p Piece) String() string {
	switch p {
	case X:
		return "X"
	case O:
		return "O"
	}
	return " "
}

// Opponent returns the other player's piece.
func (p Piece) Opponent() Piece {
	switch p {
	case X:
		return O
	case O:
		return X
	}
	return Empty
}

const (
	DefaultBoardSize = 15
	WinningRunLength = 5
)

var (
	// ErrIllegalMove covers out-of-bounds and occupied squares.
	ErrIllegalMove = errors.New("illegal move")
	// ErrNothingToUndo means fewer than two plies have been played.
	ErrNothingToUndo = errors.New("not enough history to undo")
)

// Move is one entry in the board history.
type Move struct {
	Row, Col int
	Piece    Piece
}

// Square identifies one cell.
type Square struct {
	Row, Col int
}

// Board is a mutable position. It is not safe for concurrent use; a single
// game loop or search owns it.
type Board struct {
	size    int
	cells   [][]Piece
	history []Move
	hash    uint64
	zobrist *zobrist.Zobrist
}

// NewBoard creates an empty size by size board with a fresh hash table.
// The empty position hashes to zero.
func NewBoard(size int) *Board {
	cells := make([][]Piece, size)
	for i := range cells {
		cells[i] = make([]Piece, size)
	}
	z := &zobrist.Zobrist{}
	z.Initialize(size)
	return &Board{size: size, cells: cells, zobrist: z}
}

func (b *Board) Size() int {
	return b.size
}

// Cell returns the piece at (row, col).
func (b *Board) Cell(row, col int) Piece {
	return b.cells[row][col]
}

// Hash returns the live position hash.
func (b *Board) Hash() uint64 {
	return b.hash
}

// MoveCount returns the number of plies played so far.
func (b *Board) MoveCount() int {
	return len(b.history)
}

// LastMove returns the most recent move. It must not be called on an
// empty board.
func (b *Board) LastMove() Move {
	return b.history[len(b.history)-1]
}

// MoveAt returns the idx-th move of the game, oldest first.
func (b *Board) MoveAt(idx int) Move {
	return b.history[idx]
}

func (b *Board) inBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// IsLegalMove reports whether (row, col) is on the board and empty.
func (b *Board) IsLegalMove(row, col int) bool {
	return b.inBounds(row, col) && b.cells[row][col] == Empty
}

// IsEmpty reports whether no moves have been played.
func (b *Board) IsEmpty() bool {
	return len(b.history) == 0
}

// IsFull reports whether every cell is occupied.
func (b *Board) IsFull() bool {
	return len(b.history) == b.size*b.size
}

// PlacePiece writes a piece with no legality checks; search code calls it
// on squares it already knows are empty. The move is pushed onto the
// history and the hash updated in place.
func (b *Board) PlacePiece(row, col int, p Piece) {
	b.cells[row][col] = p
	b.history = append(b.history, Move{Row: row, Col: col, Piece: p})
	b.hash = b.zobrist.AddPiece(b.hash, row, col, int(p-1))
}

// UndoMove pops the most recent move. The XOR that placed the piece also
// removes it, restoring the prior hash exactly.
func (b *Board) UndoMove() {
	last := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	b.cells[last.Row][last.Col] = Empty
	b.hash = b.zobrist.AddPiece(b.hash, last.Row, last.Col, int(last.Piece-1))
}

// UserPlacePiece validates bounds and emptiness before placing. Game front
// ends call this with raw input.
func (b *Board) UserPlacePiece(row, col int, p Piece) error {
	if p != X && p != O {
		return ErrIllegalMove
	}
	if !b.IsLegalMove(row, col) {
		return ErrIllegalMove
	}
	b.PlacePiece(row, col, p)
	return nil
}

// UserUndoMove retracts the last two plies so the same side stays on turn.
func (b *Board) UserUndoMove() error {
	if len(b.history) < 2 {
		return ErrNothingToUndo
	}
	b.UndoMove()
	b.UndoMove()
	return nil
}

// Winner returns the piece owning five in a row, or Empty. Only lines
// through the most recent move are examined; older lines are assumed to
// have been caught when they were completed.
func (b *Board) Winner() Piece {
	if len(b.history) == 0 {
		return Empty
	}
	m := b.history[len(b.history)-1]
	for _, d := range directions {
		if b.hasRun(m.Row, m.Col, m.Piece, WinningRunLength, 2, d.dr, d.dc) {
			return m.Piece
		}
	}
	return Empty
}

// String renders the board in a bordered grid with row and column indices.
func (b *Board) String() string {
	var sb strings.Builder
	edge := "|---" + strings.Repeat("----", b.size-1) + "|\n"
	sb.WriteString(edge)
	for row := 0; row < b.size; row++ {
		for col := 0; col < b.size; col++ {
			sb.WriteString("| ")
			sb.WriteString(b.cells[row][col].String())
			sb.WriteByte(' ')
		}
		sb.WriteString("| ")
		sb.WriteString(fmt.Sprintf("%d\n", row))
		sb.WriteString(edge)
	}
	for col := 0; col < b.size; col++ {
		fmt.Fprintf(&sb, "%3d ", col)
	}
	sb.WriteByte('\n')
	return sb.String()
}
