package automatic

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/domino14/conecta/gomoku"
	"github.com/domino14/conecta/minimax"
)

// GomokuGameRunner drives two alpha-beta solvers over one shared board.
// Each side owns its solver and transposition table; the board is the
// only shared state, and only one solver thinks at a time.
type GomokuGameRunner struct {
	board   *gomoku.Board
	solvers [2]*minimax.Solver

	winner  gomoku.Piece
	logchan chan string
}

// NewGomokuGameRunner builds a runner over a fresh size-by-size board.
func NewGomokuGameRunner(logchan chan string, size int, opts ...minimax.Option) *GomokuGameRunner {
	r := &GomokuGameRunner{logchan: logchan}
	r.board = gomoku.NewBoard(size)
	for i := range r.solvers {
		r.solvers[i] = minimax.NewSolver(r.board, opts...)
	}
	return r
}

// StartGame rewinds the board to empty and clears both solvers. Undoing
// every move restores the hash to exactly zero.
func (r *GomokuGameRunner) StartGame() {
	for !r.board.IsEmpty() {
		r.board.UndoMove()
	}
	r.winner = gomoku.Empty
	for _, s := range r.solvers {
		s.Reset()
	}
}

// Winner returns the result of the last finished game, or Empty for a
// draw.
func (r *GomokuGameRunner) Winner() gomoku.Piece {
	return r.winner
}

func (r *GomokuGameRunner) playMove(ctx context.Context, mover gomoku.Piece) error {
	// The game loop, not the solver, owns the forced-block shortcut: a
	// four the opponent can complete next turn is answered without any
	// search.
	if r.board.OpponentHasFour() {
		if row, col, ok := r.board.FindForcedBlock(); ok {
			log.Debug().Int("row", row).Int("col", col).Msg("forced-block")
			r.board.PlacePiece(row, col, mover)
			return nil
		}
	}
	_, row, col, err := r.solvers[mover-1].BestMove(ctx, mover)
	if err != nil {
		return err
	}
	r.board.PlacePiece(row, col, mover)
	return nil
}

// CompVsCompGame plays one game to the end and logs its CSV row.
func (r *GomokuGameRunner) CompVsCompGame(ctx context.Context) error {
	r.StartGame()
	tstart := time.Now()
	mover := gomoku.X
	for r.board.Winner() == gomoku.Empty && !r.board.IsFull() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.playMove(ctx, mover); err != nil {
			return err
		}
		mover = mover.Opponent()
	}
	r.winner = r.board.Winner()
	name := "-"
	if r.winner != gomoku.Empty {
		name = r.winner.String()
	}
	log.Debug().Str("game-id", r.GameID()).Str("winner", name).
		Int("plies", r.board.MoveCount()).Msg("game-over")
	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%v,%v,%v,%.4f\n",
			r.GameID(), name, r.board.MoveCount(), time.Since(tstart).Seconds())
	}
	return nil
}

// GameID derives a stable identifier from the squares played, in order.
func (r *GomokuGameRunner) GameID() string {
	squares := make([]string, 0, r.board.MoveCount())
	for i := 0; i < r.board.MoveCount(); i++ {
		m := r.board.MoveAt(i)
		squares = append(squares, strconv.Itoa(m.Row)+"."+strconv.Itoa(m.Col))
	}
	return strconv.FormatUint(xxhash.Sum64String(strings.Join(squares, ",")), 16)
}
