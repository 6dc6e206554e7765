package gomoku

import (
	"testing"

	"github.com/matryer/is"
)

func placeAll(b *Board, moves []Move) {
	for _, m := range moves {
		b.PlacePiece(m.Row, m.Col, m.Piece)
	}
}

func TestHasRunBlockedEnds(t *testing.T) {
	is := is.New(t)
	b := NewBoard(DefaultBoardSize)
	// an open four: both ends empty
	for c := 5; c < 9; c++ {
		b.PlacePiece(7, c, X)
	}
	is.True(b.hasRun(7, 6, X, 4, 2, 0, 1))
	is.True(b.hasRun(7, 6, X, 4, 1, 0, 1))
	is.True(b.hasRun(7, 6, X, 4, 0, 0, 1))

	// close one end
	b.PlacePiece(7, 4, O)
	is.True(b.hasRun(7, 6, X, 4, 1, 0, 1))
	is.True(!b.hasRun(7, 6, X, 4, 0, 0, 1))

	// close both
	b.PlacePiece(7, 9, O)
	is.True(b.hasRun(7, 6, X, 4, 2, 0, 1))
	is.True(!b.hasRun(7, 6, X, 4, 1, 0, 1))
}

func TestHasRunEdgeCountsAsBlocked(t *testing.T) {
	is := is.New(t)
	b := NewBoard(DefaultBoardSize)
	for c := 0; c < 4; c++ {
		b.PlacePiece(7, c, X)
	}
	// the left end is the board edge
	is.True(b.hasRun(7, 2, X, 4, 1, 0, 1))
	is.True(!b.hasRun(7, 2, X, 4, 0, 0, 1))
}

func TestSelfHasFourHistoryGuard(t *testing.T) {
	is := is.New(t)
	b := NewBoard(DefaultBoardSize)
	placeAll(b, []Move{
		{5, 5, X}, {0, 0, O}, {5, 6, X}, {0, 1, O},
		{5, 7, X}, {0, 2, O}, {5, 8, X}, {0, 3, O},
	})
	// eight plies on the board, so the probe stays quiet
	is.True(!b.SelfHasFour())
}

func TestSelfHasFourPastGuard(t *testing.T) {
	is := is.New(t)
	b := NewBoard(DefaultBoardSize)
	// ten plies, with X completing its four on the ninth
	placeAll(b, []Move{
		{5, 5, X}, {0, 0, O}, {9, 9, X}, {0, 1, O},
		{5, 6, X}, {0, 2, O}, {5, 7, X}, {0, 3, O},
		{5, 8, X}, {1, 0, O},
	})
	is.True(b.SelfHasFour())
	// O's pieces include a four too, but not through O's latest square
	is.True(!b.OpponentHasFour())
}

func TestOpponentHasFour(t *testing.T) {
	is := is.New(t)
	b := NewBoard(DefaultBoardSize)
	placeAll(b, []Move{
		{5, 5, X}, {0, 0, O}, {5, 6, X}, {0, 1, O},
		{5, 7, X}, {0, 2, O}, {9, 9, X}, {0, 3, O},
	})
	is.True(b.OpponentHasFour())
	row, col, ok := b.FindForcedBlock()
	is.True(ok)
	is.Equal(row, 0)
	is.Equal(col, 4)
}

func TestFindQuickWin(t *testing.T) {
	is := is.New(t)
	b := NewBoard(DefaultBoardSize)
	placeAll(b, []Move{
		{5, 5, X}, {0, 0, O}, {5, 6, X}, {0, 1, O},
		{5, 7, X}, {0, 2, O}, {5, 8, X}, {0, 3, O},
	})
	row, col, ok := b.FindQuickWin()
	is.True(ok)
	is.Equal(row, 5)
	is.Equal(col, 4) // the head end is reported first

	// fresh boards have nothing to probe
	b2 := NewBoard(DefaultBoardSize)
	b2.PlacePiece(7, 7, X)
	_, _, ok = b2.FindQuickWin()
	is.True(!ok)
}

func TestQuickWinBlockedHeadUsesTail(t *testing.T) {
	is := is.New(t)
	b := NewBoard(DefaultBoardSize)
	placeAll(b, []Move{
		{5, 5, X}, {5, 4, O}, {5, 6, X}, {0, 1, O},
		{5, 7, X}, {0, 2, O}, {5, 8, X}, {0, 3, O},
	})
	row, col, ok := b.FindQuickWin()
	is.True(ok)
	is.Equal(row, 5)
	is.Equal(col, 9)
}

func TestQuickWinFullyBlocked(t *testing.T) {
	is := is.New(t)
	b := NewBoard(DefaultBoardSize)
	placeAll(b, []Move{
		{5, 5, X}, {5, 4, O}, {5, 6, X}, {5, 9, O},
		{5, 7, X}, {0, 2, O}, {5, 8, X}, {0, 3, O},
	})
	_, _, ok := b.FindQuickWin()
	is.True(!ok)
}

func TestQuickWinDiagonal(t *testing.T) {
	is := is.New(t)
	b := NewBoard(DefaultBoardSize)
	placeAll(b, []Move{
		{4, 4, X}, {0, 0, O}, {5, 5, X}, {0, 1, O},
		{6, 6, X}, {0, 2, O}, {7, 7, X}, {0, 3, O},
	})
	row, col, ok := b.FindQuickWin()
	is.True(ok)
	is.Equal(row, 3)
	is.Equal(col, 3)
}

func TestFreeAdjacentSquares(t *testing.T) {
	is := is.New(t)
	b := NewBoard(DefaultBoardSize)
	b.PlacePiece(7, 7, X)
	adj := b.FreeAdjacentSquares(7, 7)
	is.Equal(len(adj), 8)

	// corners only have three neighbors
	b.PlacePiece(0, 0, O)
	is.Equal(len(b.FreeAdjacentSquares(0, 0)), 3)

	// occupied neighbors are excluded
	b.PlacePiece(7, 8, O)
	is.Equal(len(b.FreeAdjacentSquares(7, 7)), 7)
}

func TestNeighborSquares(t *testing.T) {
	is := is.New(t)
	b := NewBoard(DefaultBoardSize)
	is.Equal(len(b.NeighborSquares()), 0)

	b.PlacePiece(7, 7, X)
	frontier := b.NeighborSquares()
	is.Equal(len(frontier), 8)
	_, ok := frontier[Square{Row: 6, Col: 6}]
	is.True(ok)
	_, ok = frontier[Square{Row: 7, Col: 7}]
	is.True(!ok) // occupied cells are never candidates

	// two adjacent pieces share part of their neighborhoods
	b.PlacePiece(7, 8, O)
	frontier = b.NeighborSquares()
	is.Equal(len(frontier), 10)
}

func TestWinnerIgnoresFourWithGap(t *testing.T) {
	is := is.New(t)
	b := NewBoard(DefaultBoardSize)
	placeAll(b, []Move{
		{7, 0, X}, {0, 0, O}, {7, 1, X}, {0, 1, O},
		{7, 2, X}, {0, 2, O}, {7, 4, X},
	})
	is.Equal(b.Winner(), Empty)
}
