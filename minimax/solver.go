// Package minimax implements the iterative-deepening alpha-beta search
// for five-in-a-row. X maximizes and O minimizes over the evaluator's
// absolute scores; since the evaluator weighs runs by whose turn it is,
// the two sides get separate max and min node functions rather than a
// negamax formulation.
package minimax

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/conecta/eval"
	"github.com/domino14/conecta/gomoku"
)

const (
	// DefaultDepth is the deepening target in plies.
	DefaultDepth = 4
	// DefaultMaxTime is the wall-clock budget per move.
	DefaultMaxTime = 15 * time.Second
	// DefaultTableMemFraction is how much of system memory the
	// transposition table claims.
	DefaultTableMemFraction = 0.25
)

// ErrNoMove means the search had no candidate squares, or could not
// finish even the one-ply iteration inside its budget.
var ErrNoMove = errors.New("no move found")

// Solver runs searches against a board it shares with its caller. The
// transposition table persists across moves of one game; Reset clears it
// for a new game. A Solver is single-threaded.
type Solver struct {
	board    *gomoku.Board
	ttable   *TranspositionTable
	depth    int
	maxTime  time.Duration
	tableMem float64

	nodes atomic.Uint64
}

// An Option configures a Solver at construction time.
type Option func(*Solver)

// WithDepth sets the deepening target in plies.
func WithDepth(d int) Option {
	return func(s *Solver) { s.depth = d }
}

// WithMaxTime sets the wall-clock budget per BestMove call.
func WithMaxTime(d time.Duration) Option {
	return func(s *Solver) { s.maxTime = d }
}

// WithTableMemFraction sets the transposition table's share of system
// memory. Tests pass a tiny fraction to stay at the floor size.
func WithTableMemFraction(f float64) Option {
	return func(s *Solver) { s.tableMem = f }
}

func NewSolver(board *gomoku.Board, opts ...Option) *Solver {
	s := &Solver{
		board:    board,
		ttable:   &TranspositionTable{},
		depth:    DefaultDepth,
		maxTime:  DefaultMaxTime,
		tableMem: DefaultTableMemFraction,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ttable.Reset(s.tableMem)
	return s
}

// Reset clears the transposition table and counters for a new game.
func (s *Solver) Reset() {
	s.ttable.Reset(s.tableMem)
	s.nodes.Store(0)
}

// BestMove returns the score and square of the best move found for mover.
// The empty board is answered with the center square, and a four the
// mover can complete is played without any search. Otherwise the solver
// deepens one ply at a time until the depth target, the time budget, or
// ctx ends the search, and the move from the last fully completed depth
// wins.
func (s *Solver) BestMove(ctx context.Context, mover gomoku.Piece) (float64, int, int, error) {
	if s.board.IsEmpty() {
		row, col := s.board.Size()/2, s.board.Size()/2
		s.board.PlacePiece(row, col, mover)
		score := eval.ScoreBoard(s.board, mover.Opponent())
		s.board.UndoMove()
		log.Debug().Float64("score", score).Msg("empty-board-center")
		return score, row, col, nil
	}

	if s.board.SelfHasFour() {
		if row, col, ok := s.board.FindQuickWin(); ok {
			score := float64(eval.WinScore)
			if mover == gomoku.O {
				score = -score
			}
			log.Debug().Int("row", row).Int("col", col).Msg("quick-win")
			return score, row, col, nil
		}
	}

	return s.iterativelyDeepen(ctx, mover)
}

func (s *Solver) expired(ctx context.Context, tstart time.Time) bool {
	return time.Since(tstart) >= s.maxTime || ctx.Err() != nil
}

func (s *Solver) iterativelyDeepen(ctx context.Context, mover gomoku.Piece) (float64, int, int, error) {
	// The root frontier is computed once and shared by all iterations.
	available := s.board.NeighborSquares()
	if len(available) == 0 {
		return 0, 0, 0, ErrNoMove
	}
	tstart := time.Now()
	s.nodes.Store(0)

	var best float64
	bestRow, bestCol := -1, -1
	found := false

	g := &errgroup.Group{}
	done := make(chan bool)

	g.Go(func() error {
		// Only the atomic counters are read here.
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	g.Go(func() error {
		for depth := 1; depth <= s.depth; depth++ {
			var score float64
			var row, col int
			if mover == gomoku.X {
				score, row, col = s.maxSearch(ctx, available, depth, depth, math.Inf(-1), math.Inf(1), tstart)
			} else {
				score, row, col = s.minSearch(ctx, available, depth, depth, math.Inf(-1), math.Inf(1), tstart)
			}
			if s.expired(ctx, tstart) {
				// an iteration that ran out of time is discarded
				log.Debug().Int("depth", depth).Msg("discarding-unfinished-iteration")
				break
			}
			best, bestRow, bestCol, found = score, row, col, true
			log.Debug().Int("depth", depth).Float64("score", score).
				Int("row", row).Int("col", col).Msg("deepening-iteratively")
			if mover == gomoku.X && best >= eval.ForcedWin {
				break
			}
			if mover == gomoku.O && best <= -eval.ForcedWin {
				break
			}
		}
		done <- true
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, 0, 0, err
	}

	log.Info().
		Uint64("ttable-created", s.ttable.created.Load()).
		Uint64("ttable-lookups", s.ttable.lookups.Load()).
		Uint64("ttable-hits", s.ttable.hits.Load()).
		Uint64("ttable-t2collisions", s.ttable.t2collisions.Load()).
		Uint64("nodes", s.nodes.Load()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("search-returning")

	if !found {
		return 0, 0, 0, ErrNoMove
	}
	return best, bestRow, bestCol, nil
}

// maxSearch scores the position for X, the maximizer. candidates is this
// node's frontier; depth counts down to the evaluation leaves while
// requiredDepth remembers the iteration's target. A timed-out node
// returns a saturated sentinel that the deepening loop discards.
func (s *Solver) maxSearch(ctx context.Context, candidates map[gomoku.Square]struct{},
	depth, requiredDepth int, α, β float64, tstart time.Time) (float64, int, int) {

	if s.expired(ctx, tstart) {
		return eval.WinScore, -1, -1
	}
	s.nodes.Add(1)

	// Inside the tree, a four X can complete ends the line immediately.
	if depth != requiredDepth && s.board.SelfHasFour() {
		s.ttable.store(s.board.Hash(), eval.ForcedWin, NoCoord, NoCoord, 0)
		return eval.ForcedWin, -1, -1
	}

	if depth == 0 {
		if entry, ok := s.ttable.lookup(s.board.Hash()); ok {
			return entry.score, -1, -1
		}
		score := eval.ScoreBoard(s.board, gomoku.X)
		s.ttable.store(s.board.Hash(), score, NoCoord, NoCoord, 0)
		return score, -1, -1
	}

	best := α
	bestRow, bestCol := -1, -1
	principal := gomoku.Square{Row: -1, Col: -1}
	hasPrincipal := false

	// A cached result is reused outright when it searched at least this
	// deep; otherwise its move is tried first to tighten the window.
	// Either way the stored move must still be a legal candidate here.
	if entry, ok := s.ttable.lookup(s.board.Hash()); ok {
		prev := gomoku.Square{Row: int(entry.row), Col: int(entry.col)}
		if _, legal := candidates[prev]; legal {
			if int(entry.depth) >= depth {
				return entry.score, prev.Row, prev.Col
			}
			principal, hasPrincipal = prev, true
			s.board.PlacePiece(prev.Row, prev.Col, gomoku.X)
			next := successorCandidates(s.board, candidates, prev)
			score, _, _ := s.minSearch(ctx, next, depth-1, requiredDepth, best, β, tstart)
			s.board.UndoMove()
			if score > best {
				best, bestRow, bestCol = score, prev.Row, prev.Col
			}
		}
	}

	for sq := range candidates {
		if s.expired(ctx, tstart) {
			break
		}
		if hasPrincipal && sq == principal {
			continue
		}
		s.board.PlacePiece(sq.Row, sq.Col, gomoku.X)
		next := successorCandidates(s.board, candidates, sq)
		score, _, _ := s.minSearch(ctx, next, depth-1, requiredDepth, best, β, tstart)
		s.board.UndoMove()
		if score > best {
			best, bestRow, bestCol = score, sq.Row, sq.Col
		}
		if β <= best {
			break
		}
	}

	if !s.expired(ctx, tstart) {
		s.ttable.store(s.board.Hash(), best, int8(bestRow), int8(bestCol), uint8(depth))
	}
	return best, bestRow, bestCol
}

// minSearch is the mirror image of maxSearch for O, the minimizer.
func (s *Solver) minSearch(ctx context.Context, candidates map[gomoku.Square]struct{},
	depth, requiredDepth int, α, β float64, tstart time.Time) (float64, int, int) {

	if s.expired(ctx, tstart) {
		return -eval.WinScore, -1, -1
	}
	s.nodes.Add(1)

	if depth != requiredDepth && s.board.SelfHasFour() {
		s.ttable.store(s.board.Hash(), -eval.ForcedWin, NoCoord, NoCoord, 0)
		return -eval.ForcedWin, -1, -1
	}

	if depth == 0 {
		if entry, ok := s.ttable.lookup(s.board.Hash()); ok {
			return entry.score, -1, -1
		}
		score := eval.ScoreBoard(s.board, gomoku.O)
		s.ttable.store(s.board.Hash(), score, NoCoord, NoCoord, 0)
		return score, -1, -1
	}

	best := β
	bestRow, bestCol := -1, -1
	principal := gomoku.Square{Row: -1, Col: -1}
	hasPrincipal := false

	if entry, ok := s.ttable.lookup(s.board.Hash()); ok {
		prev := gomoku.Square{Row: int(entry.row), Col: int(entry.col)}
		if _, legal := candidates[prev]; legal {
			if int(entry.depth) >= depth {
				return entry.score, prev.Row, prev.Col
			}
			principal, hasPrincipal = prev, true
			s.board.PlacePiece(prev.Row, prev.Col, gomoku.O)
			next := successorCandidates(s.board, candidates, prev)
			score, _, _ := s.maxSearch(ctx, next, depth-1, requiredDepth, α, best, tstart)
			s.board.UndoMove()
			if score < best {
				best, bestRow, bestCol = score, prev.Row, prev.Col
			}
		}
	}

	for sq := range candidates {
		if s.expired(ctx, tstart) {
			break
		}
		if hasPrincipal && sq == principal {
			continue
		}
		s.board.PlacePiece(sq.Row, sq.Col, gomoku.O)
		next := successorCandidates(s.board, candidates, sq)
		score, _, _ := s.maxSearch(ctx, next, depth-1, requiredDepth, α, best, tstart)
		s.board.UndoMove()
		if score < best {
			best, bestRow, bestCol = score, sq.Row, sq.Col
		}
		if best <= α {
			break
		}
	}

	if !s.expired(ctx, tstart) {
		s.ttable.store(s.board.Hash(), best, int8(bestRow), int8(bestCol), uint8(depth))
	}
	return best, bestRow, bestCol
}

// successorCandidates clones the frontier, folds in the squares opened up
// by the move just played, and drops the move itself. Each node gets its
// own copy so sibling subtrees never see each other's candidates.
func successorCandidates(b *gomoku.Board, candidates map[gomoku.Square]struct{},
	played gomoku.Square) map[gomoku.Square]struct{} {

	next := make(map[gomoku.Square]struct{}, len(candidates)+8)
	for sq := range candidates {
		next[sq] = struct{}{}
	}
	for _, sq := range b.FreeAdjacentSquares(played.Row, played.Col) {
		next[sq] = struct{}{}
	}
	delete(next, played)
	return next
}
