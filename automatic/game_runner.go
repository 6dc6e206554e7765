// Package automatic contains the logic for batch computer-vs-computer
// play: fast unattended games whose outcomes land in a CSV log for
// later analysis.
package automatic

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/conecta/connectfour"
	"github.com/domino14/conecta/montecarlo"
)

// Seat types for NewGameRunner.
const (
	MonteCarloPlayer = "montecarlo"
	RandomPlayer     = "random"
)

// GameRunner is the master struct for the connect-four self-play logic.
// A worker keeps one runner and replays games through it; the engines are
// reset at the start of every game.
type GameRunner struct {
	players [2]string
	engines [2]*montecarlo.Engine

	state   connectfour.State
	moves   []int
	winner  connectfour.Player
	logchan chan string
}

// NewGameRunner instantiates and initializes a game runner with the given
// seat types. A random seat needs no engine at all.
func NewGameRunner(logchan chan string, player1, player2 string, opts ...montecarlo.Option) *GameRunner {
	r := &GameRunner{players: [2]string{player1, player2}, logchan: logchan}
	for idx, ptype := range r.players {
		if ptype == MonteCarloPlayer {
			r.engines[idx] = montecarlo.NewEngine(opts...)
		}
	}
	r.StartGame()
	return r
}

// StartGame resets the position and both engines for a fresh game.
func (r *GameRunner) StartGame() {
	r.state = connectfour.Start()
	r.moves = r.moves[:0]
	r.winner = connectfour.Nobody
	for _, e := range r.engines {
		if e != nil {
			e.Reset()
			e.UpdateGameState(r.state)
		}
	}
}

// Winner returns the result of the last finished game.
func (r *GameRunner) Winner() connectfour.Player {
	return r.winner
}

// MoveCount returns the number of plies in the current game.
func (r *GameRunner) MoveCount() int {
	return len(r.moves)
}

func (r *GameRunner) playing() bool {
	return r.winner == connectfour.Nobody && !r.state.IsBoardFull()
}

func (r *GameRunner) nextMove(ctx context.Context, seat int) (int, error) {
	if e := r.engines[seat]; e != nil {
		return e.BestMove(ctx)
	}
	legal := r.state.LegalMoves()
	return legal[frand.Intn(len(legal))], nil
}

func (r *GameRunner) playMove(ctx context.Context, seat int) error {
	col, err := r.nextMove(ctx, seat)
	if err != nil {
		return err
	}
	r.state = r.state.Update(col)
	r.moves = append(r.moves, col)
	for _, e := range r.engines {
		if e != nil {
			e.UpdateGameState(r.state)
		}
	}
	r.winner = r.state.Winner()
	return nil
}

// CompVsCompGame plays one game to the end and logs its CSV row.
func (r *GameRunner) CompVsCompGame(ctx context.Context) error {
	r.StartGame()
	tstart := time.Now()
	for r.playing() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.playMove(ctx, int(r.state.Turn()-1)); err != nil {
			return err
		}
	}
	log.Debug().Str("game-id", r.GameID()).Str("winner", r.winner.String()).
		Int("plies", len(r.moves)).Msg("game-over")
	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%v,%v,%v,%.4f\n",
			r.GameID(), r.winner, len(r.moves), time.Since(tstart).Seconds())
	}
	return nil
}

// GameID derives a stable identifier from the game's move history, so the
// same sequence of drops always logs under the same id.
func (r *GameRunner) GameID() string {
	cols := make([]string, len(r.moves))
	for i, c := range r.moves {
		cols[i] = strconv.Itoa(c)
	}
	return strconv.FormatUint(xxhash.Sum64String(strings.Join(cols, ",")), 16)
}
