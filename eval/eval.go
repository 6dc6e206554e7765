// Package eval scores five-in-a-row positions from line patterns. Every
// maximal run of one player's pieces contributes a weight chosen by the
// run's length, how many of its two ends are dead, and whether its owner
// is the player to move. X runs add and O runs subtract, so X is always
// the maximizing side and scores are absolute.
package eval

import (
	"github.com/domino14/conecta/gomoku"
)

const (
	// WinScore is the contribution of a completed five.
	WinScore = 200000000
	// ForcedWin is above anything static evaluation can produce; the
	// search uses it for killer cutoffs and early stops.
	ForcedWin = 400000000
)

type weightKey struct {
	length  int
	blocked int
	mover   bool
}

// weights maps (run length, dead ends, owner is on turn) to a score
// contribution. A run on turn is worth far more than the same run off
// turn at the tactical lengths, since its owner gets to extend it first.
// Combinations absent from the table, like a fully enclosed short run,
// contribute nothing.
var weights = map[weightKey]float64{
	{5, 0, true}: WinScore, {5, 0, false}: WinScore,
	{5, 1, true}: WinScore, {5, 1, false}: WinScore,
	{5, 2, true}: WinScore, {5, 2, false}: WinScore,
	{4, 0, true}: 100000000, {4, 0, false}: 50000000,
	{4, 1, true}: 100000000, {4, 1, false}: 50,
	{3, 0, true}: 10000, {3, 0, false}: 50,
	{3, 1, true}: 12.5, {3, 1, false}: 7.5,
	{2, 0, true}: 7.5, {2, 0, false}: 5,
	{2, 1, true}: 2, {2, 1, false}: 2,
	{1, 0, true}: 1, {1, 0, false}: 1,
	{1, 1, true}: 0.5, {1, 1, false}: 0.5,
}

// ScoreLine accumulates the weights of the maximal runs in one line. The
// position one past the end counts as an empty sentinel so the final run
// is flushed; the line's real last cell still blocks, because a run
// touching the edge has a dead end there. Runs longer than five count
// as five.
func ScoreLine(line []gomoku.Piece, mover gomoku.Piece) float64 {
	var total float64
	count := 0
	prev := gomoku.Empty
	for i := 0; i <= len(line); i++ {
		square := gomoku.Empty
		if i < len(line) {
			square = line[i]
		}
		if square == prev {
			if prev != gomoku.Empty {
				count++
			}
			continue
		}
		if prev != gomoku.Empty && count > 0 {
			blocked := 0
			if square != gomoku.Empty || i >= len(line) {
				blocked++
			}
			start := i - count - 1
			if start < 0 {
				blocked++
			} else if line[start] != gomoku.Empty {
				blocked++
			}
			length := count
			if length > gomoku.WinningRunLength {
				length = gomoku.WinningRunLength
			}
			w := weights[weightKey{length: length, blocked: blocked, mover: mover == prev}]
			if prev == gomoku.X {
				total += w
			} else {
				total -= w
			}
		}
		prev = square
		if prev == gomoku.Empty {
			count = 0
		} else {
			count = 1
		}
	}
	return total
}

// ScoreBoard sums ScoreLine over every row, every column, and every
// diagonal of both orientations long enough to hold a winning run.
func ScoreBoard(b *gomoku.Board, mover gomoku.Piece) float64 {
	size := b.Size()
	var total float64
	line := make([]gomoku.Piece, 0, size)

	for row := 0; row < size; row++ {
		line = line[:0]
		for col := 0; col < size; col++ {
			line = append(line, b.Cell(row, col))
		}
		total += ScoreLine(line, mover)
	}
	for col := 0; col < size; col++ {
		line = line[:0]
		for row := 0; row < size; row++ {
			line = append(line, b.Cell(row, col))
		}
		total += ScoreLine(line, mover)
	}

	// Down-right diagonals start on the left edge and the top edge;
	// up-right diagonals start on the left edge and the bottom edge.
	lastStart := size - gomoku.WinningRunLength + 1
	for row := 0; row < lastStart; row++ {
		total += ScoreLine(diagonal(b, row, 0), mover)
	}
	for col := 1; col < lastStart; col++ {
		total += ScoreLine(diagonal(b, 0, col), mover)
	}
	for row := gomoku.WinningRunLength - 1; row < size; row++ {
		total += ScoreLine(antiDiagonal(b, row, 0), mover)
	}
	for col := 1; col < lastStart; col++ {
		total += ScoreLine(antiDiagonal(b, size-1, col), mover)
	}
	return total
}

// diagonal reads down-right from (row, col) to the board edge.
func diagonal(b *gomoku.Board, row, col int) []gomoku.Piece {
	size := b.Size()
	n := size - row
	if size-col < n {
		n = size - col
	}
	line := make([]gomoku.Piece, n)
	for i := 0; i < n; i++ {
		line[i] = b.Cell(row+i, col+i)
	}
	return line
}

// antiDiagonal reads up-right from (row, col) to the board edge.
func antiDiagonal(b *gomoku.Board, row, col int) []gomoku.Piece {
	size := b.Size()
	n := row + 1
	if size-col < n {
		n = size - col
	}
	line := make([]gomoku.Piece, n)
	for i := 0; i < n; i++ {
		line[i] = b.Cell(row-i, col+i)
	}
	return line
}
