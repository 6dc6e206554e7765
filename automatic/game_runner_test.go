package automatic

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/conecta/connectfour"
	"github.com/domino14/conecta/montecarlo"
)

func TestRandomVsRandomGame(t *testing.T) {
	is := is.New(t)
	r := NewGameRunner(nil, RandomPlayer, RandomPlayer)
	err := r.CompVsCompGame(context.Background())
	is.NoErr(err)
	if r.Winner() == connectfour.Nobody {
		is.Equal(r.MoveCount(), connectfour.NumRows*connectfour.NumCols)
	} else {
		// the earliest possible win is the first player's seventh ply
		is.True(r.MoveCount() >= 7)
		is.True(r.MoveCount() <= connectfour.NumRows*connectfour.NumCols)
	}
}

func TestMonteCarloSeatLogsRow(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string, 1)
	r := NewGameRunner(logchan, MonteCarloPlayer, RandomPlayer,
		montecarlo.WithMaxTime(10*time.Millisecond))
	err := r.CompVsCompGame(context.Background())
	is.NoErr(err)

	row := <-logchan
	fields := strings.Split(strings.TrimSpace(row), ",")
	is.Equal(len(fields), 4)
	is.Equal(fields[0], r.GameID())
	is.True(fields[1] == "X" || fields[1] == "O" || fields[1] == "-")
}

func TestStartGameResetsEverything(t *testing.T) {
	is := is.New(t)
	r := NewGameRunner(nil, RandomPlayer, RandomPlayer)
	err := r.CompVsCompGame(context.Background())
	is.NoErr(err)
	is.True(r.MoveCount() > 0)

	r.StartGame()
	is.Equal(r.MoveCount(), 0)
	is.Equal(r.Winner(), connectfour.Nobody)
}

func TestGameIDIsStable(t *testing.T) {
	is := is.New(t)
	a := NewGameRunner(nil, RandomPlayer, RandomPlayer)
	b := NewGameRunner(nil, RandomPlayer, RandomPlayer)
	a.moves = []int{3, 3, 4, 0}
	b.moves = []int{3, 3, 4, 0}
	is.Equal(a.GameID(), b.GameID())

	b.moves = []int{3, 3, 4, 1}
	is.True(a.GameID() != b.GameID())
}

func TestCancelledContextStopsGame(t *testing.T) {
	is := is.New(t)
	r := NewGameRunner(nil, RandomPlayer, RandomPlayer)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.CompVsCompGame(ctx)
	is.Equal(err, context.Canceled)
}
