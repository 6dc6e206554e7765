package automatic

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/conecta/gomoku"
	"github.com/domino14/conecta/minimax"
)

func testGomokuRunner(logchan chan string) *GomokuGameRunner {
	return NewGomokuGameRunner(logchan, 9,
		minimax.WithDepth(1),
		minimax.WithMaxTime(2*time.Second),
		minimax.WithTableMemFraction(0))
}

func TestGomokuSelfPlayGame(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string, 1)
	r := testGomokuRunner(logchan)
	err := r.CompVsCompGame(context.Background())
	is.NoErr(err)

	// the game must actually be over
	is.True(r.board.Winner() != gomoku.Empty || r.board.IsFull())
	if r.Winner() != gomoku.Empty {
		// a win takes at least nine plies
		is.True(r.board.MoveCount() >= 9)
	}

	row := <-logchan
	fields := strings.Split(strings.TrimSpace(row), ",")
	is.Equal(len(fields), 4)
	is.Equal(fields[0], r.GameID())
	is.True(fields[1] == "X" || fields[1] == "O" || fields[1] == "-")
}

func TestGomokuRunnerIsReusable(t *testing.T) {
	is := is.New(t)
	r := testGomokuRunner(nil)
	err := r.CompVsCompGame(context.Background())
	is.NoErr(err)
	firstPlies := r.board.MoveCount()
	is.True(firstPlies > 0)

	// the second game starts from a clean board and hash
	err = r.CompVsCompGame(context.Background())
	is.NoErr(err)
	is.True(r.board.MoveCount() > 0)
}

func TestGomokuStartGameRewindsBoard(t *testing.T) {
	is := is.New(t)
	r := testGomokuRunner(nil)
	r.board.PlacePiece(4, 4, gomoku.X)
	r.board.PlacePiece(5, 5, gomoku.O)
	r.StartGame()
	is.True(r.board.IsEmpty())
	is.Equal(r.board.Hash(), uint64(0))
	is.Equal(r.Winner(), gomoku.Empty)
}
