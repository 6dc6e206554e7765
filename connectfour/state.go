// Package connectfour implements the 6x7 drop-a-disc game on top of
// bit-packed board masks. A position is a small immutable value, so search
// code can hand states around freely and use them directly as map keys.
package connectfour

import (
	"math/bits"
	"strings"
)

const (
	NumRows = 6
	NumCols = 7
	// ColStride is the bit span of one column. The extra guard bit on top
	// of every column keeps drop carries and shifted win checks from
	// leaking into the neighboring column.
	ColStride = NumRows + 1
)

// A Player identifies a seat. Nobody doubles as "no winner yet".
type Player uint8

const (
	Nobody Player = iota
	Player1
	Player2
)

func (p Player) String() string {
	switch p {
	case Player1:
		return "X"
	case Player2:
		return "O"
	}
	return "-"
}

// Other returns the opposing player.
func (p Player) Other() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Nobody
}

// State is one connect-four position. masks[0] and masks[1] hold the
// disjoint piece sets of Player1 and Player2, laid out column-major with
// bit col*ColStride+row and row 0 at the bottom. A State is never mutated;
// Update returns a fresh value.
type State struct {
	masks [2]uint64
	turn  Player
}

// Start returns the empty position with Player1 to move.
func Start() State {
	return State{turn: Player1}
}

// Turn returns the player to move.
func (s State) Turn() Player {
	return s.turn
}

func (s State) occupied() uint64 {
	return s.masks[0] | s.masks[1]
}

func bit(col, row int) uint64 {
	return 1 << (col*ColStride + row)
}

func bottomBit(col int) uint64 {
	return 1 << (col * ColStride)
}

func topBit(col int) uint64 {
	return 1 << (col*ColStride + NumRows - 1)
}

func columnMask(col int) uint64 {
	return ((1 << NumRows) - 1) << (col * ColStride)
}

// Update drops the mover's disc into col and returns the successor with
// the turn flipped. Adding the column's bottom bit to the occupancy mask
// carries up to the lowest free cell, which is the gravity rule. The move
// must be legal; dropping into a full column corrupts the guard bit.
func (s State) Update(col int) State {
	drop := (s.occupied() + bottomBit(col)) & columnMask(col)
	next := s
	next.masks[s.turn-1] |= drop
	next.turn = s.turn.Other()
	return next
}

// IsColumnFull reports whether col has all six cells occupied.
func (s State) IsColumnFull(col int) bool {
	return s.occupied()&topBit(col) != 0
}

// IsLegalMove reports whether col identifies a droppable column.
func (s State) IsLegalMove(col int) bool {
	return col >= 0 && col < NumCols && !s.IsColumnFull(col)
}

// LegalMoves returns the droppable columns in left-to-right order.
func (s State) LegalMoves() []int {
	moves := make([]int, 0, NumCols)
	for col := 0; col < NumCols; col++ {
		if !s.IsColumnFull(col) {
			moves = append(moves, col)
		}
	}
	return moves
}

// IsBoardFull reports whether no column can take another disc.
func (s State) IsBoardFull() bool {
	for col := 0; col < NumCols; col++ {
		if !s.IsColumnFull(col) {
			return false
		}
	}
	return true
}

// Plies returns the number of discs on the board.
func (s State) Plies() int {
	return bits.OnesCount64(s.occupied())
}

// Winner returns the player holding four connected discs, or Nobody. Only
// the player who just moved can have completed a line, so only that mask
// is examined. Each direction is a shifted self-AND; a bit survives all
// three shifts only at the start of an unbroken four, and the guard bits
// stop lines from wrapping between columns.
func (s State) Winner() Player {
	mover := s.turn.Other()
	if mover == Nobody {
		return Nobody
	}
	m := s.masks[mover-1]
	// vertical, horizontal, then the two diagonals
	for _, shift := range [4]int{1, ColStride, ColStride - 1, ColStride + 1} {
		if m&(m>>shift)&(m>>(2*shift))&(m>>(3*shift)) != 0 {
			return mover
		}
	}
	return Nobody
}

// String renders the position with the top row first and column indices
// underneath.
func (s State) String() string {
	var sb strings.Builder
	for row := NumRows - 1; row >= 0; row-- {
		for col := 0; col < NumCols; col++ {
			switch {
			case s.masks[0]&bit(col, row) != 0:
				sb.WriteString(" X")
			case s.masks[1]&bit(col, row) != 0:
				sb.WriteString(" O")
			default:
				sb.WriteString(" .")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(" 0 1 2 3 4 5 6\n")
	return sb.String()
}
