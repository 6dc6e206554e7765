// Package montecarlo implements time-bounded Monte Carlo tree search for
// connect four. Playouts descend through the known part of the tree under
// an upper-confidence selection rule and pick uniformly below it; visit
// and win counts accumulate per position, and the final move choice uses
// plain win rates.
package montecarlo

import (
	"context"
	"errors"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/domino14/conecta/connectfour"
	"github.com/domino14/conecta/stats"
)

const (
	// DefaultMaxTime is the wall-clock budget per move.
	DefaultMaxTime = 5 * time.Second
	// DefaultMaxDepth caps how many plies a single playout may descend.
	DefaultMaxDepth = 50
)

// DefaultExploration is the multiplier on the UCB exploration term.
var DefaultExploration = math.Sqrt2

var (
	// ErrNoLegalMoves signals a full board.
	ErrNoLegalMoves = errors.New("no legal moves remain")
	// ErrNoGameState means BestMove was called before any UpdateGameState.
	ErrNoGameState = errors.New("no game state fed to engine")
)

// stat tracks one explored position.
type stat struct {
	plays int
	wins  float64
}

// winRate reads an entry that has never been played back as its raw win
// total, so fresh entries do not divide by zero.
func (st *stat) winRate() float64 {
	if st.plays == 0 {
		return st.wins
	}
	return st.wins / float64(st.plays)
}

// LogIteration is a struct meant for serializing to a log-file, for debug
// and other purposes.
type LogIteration struct {
	Iteration int  `json:"iteration" yaml:"iteration"`
	Plies     int  `json:"plies" yaml:"plies"`
	Expanded  bool `json:"expanded" yaml:"expanded"`
	Winner    int  `json:"winner,omitempty" yaml:"winner,omitempty"`
	Drawn     bool `json:"drawn,omitempty" yaml:"drawn,omitempty"`
}

// Engine owns the playout statistics for one game session. It is strictly
// single-threaded: one caller drives it and nothing else shares the store.
// Keeping the store across moves of the same game is what lets later
// searches start from warmed statistics.
type Engine struct {
	maxTime           time.Duration
	maxDepth          int
	exploration       float64
	stoppingCondition StoppingCondition

	states []connectfour.State
	store  map[connectfour.State]*stat

	iterationCount int
	nodes          atomic.Uint64
	playoutPlies   stats.Statistic
	logStream      io.Writer
}

// An Option configures an Engine at construction time.
type Option func(*Engine)

// WithMaxTime sets the wall-clock budget per BestMove call.
func WithMaxTime(d time.Duration) Option {
	return func(e *Engine) { e.maxTime = d }
}

// WithMaxDepth caps the plies a single playout may descend.
func WithMaxDepth(n int) Option {
	return func(e *Engine) { e.maxDepth = n }
}

// WithExploration sets the UCB exploration constant.
func WithExploration(c float64) Option {
	return func(e *Engine) { e.exploration = c }
}

// WithStoppingCondition lets BestMove end before its time budget once the
// best column is statistically separated from the rest.
func WithStoppingCondition(sc StoppingCondition) Option {
	return func(e *Engine) { e.stoppingCondition = sc }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxTime:     DefaultMaxTime,
		maxDepth:    DefaultMaxDepth,
		exploration: DefaultExploration,
		store:       make(map[connectfour.State]*stat),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetLogStream sets a writer that receives one YAML document per playout.
func (e *Engine) SetLogStream(w io.Writer) {
	e.logStream = w
}

// UpdateGameState appends the latest game position. The most recent one is
// the root of subsequent searches.
func (e *Engine) UpdateGameState(st connectfour.State) {
	e.states = append(e.states, st)
}

// Reset drops all accumulated statistics and history for a fresh game.
func (e *Engine) Reset() {
	e.states = e.states[:0]
	e.store = make(map[connectfour.State]*stat)
	e.iterationCount = 0
	e.playoutPlies = stats.Statistic{}
	e.nodes.Store(0)
}

// StoreSize returns the number of positions tracked so far.
func (e *Engine) StoreSize() int {
	return len(e.store)
}

// Iterations returns how many playouts the last BestMove call ran.
func (e *Engine) Iterations() int {
	return e.iterationCount
}

// BestMove returns the column to play from the most recently fed state.
// A board with a single open column is answered without simulating.
// Otherwise playouts run until the time budget runs out; cancelling ctx
// ends the search early and the best move found so far is still returned.
// The chosen move is the child with the best raw win rate, with ties kept
// by the leftmost column.
func (e *Engine) BestMove(ctx context.Context) (int, error) {
	if len(e.states) == 0 {
		return 0, ErrNoGameState
	}
	root := e.states[len(e.states)-1]
	legal := root.LegalMoves()
	if len(legal) == 0 {
		return 0, ErrNoLegalMoves
	}
	if len(legal) == 1 {
		log.Debug().Int("col", legal[0]).Msg("single-legal-move")
		return legal[0], nil
	}

	e.iterationCount = 0
	e.playoutPlies = stats.Statistic{}
	ignored := make(map[int]bool)
	tstart := time.Now()

	g := &errgroup.Group{}
	done := make(chan bool)

	g.Go(func() error {
		// Only atomics are read here; the store belongs to the playout
		// goroutine until it finishes.
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := e.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	g.Go(func() error {
		for time.Since(tstart) < e.maxTime {
			if ctx.Err() != nil {
				log.Debug().Msg("context-done-stopping-playouts")
				break
			}
			res := e.runSimulation(root)
			e.iterationCount++
			e.playoutPlies.Push(float64(res.plies))
			if e.logStream != nil {
				e.logIteration(res)
			}
			if e.stoppingCondition != StopNone && e.iterationCount%checkStoppingConditionEvery == 0 {
				if e.shouldStop(e.iterationCount, root, legal, ignored) {
					log.Info().Int("iterations", e.iterationCount).Msg("reached-stopping-condition")
					break
				}
			}
		}
		done <- true
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}

	bestCol, bestRate := legal[0], -1.0
	for _, col := range legal {
		rate := 0.0
		if st, ok := e.store[root.Update(col)]; ok {
			rate = st.winRate()
		}
		if rate > bestRate {
			bestRate, bestCol = rate, col
		}
	}

	log.Info().Int("iterations", e.iterationCount).
		Int("store-size", len(e.store)).
		Float64("mean-playout-plies", e.playoutPlies.Mean()).
		Float64("stdev-playout-plies", e.playoutPlies.Stdev()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Int("best-col", bestCol).
		Float64("win-rate", bestRate).
		Msg("sim-ended")
	return bestCol, nil
}

// playout is the outcome of one simulation.
type playout struct {
	plies    int
	expanded bool
	winner   connectfour.Player
	drawn    bool
}

// runSimulation performs one playout from root. At each step the position
// advances to a successor: via UCB when every successor is already in the
// store, uniformly among the unknown successors otherwise. The first
// unknown position reached is added to the store with zero counts; at the
// end every visited stored position has its counters updated. A playout
// that hits the depth cap without a result updates nobody's win counts.
func (e *Engine) runSimulation(root connectfour.State) playout {
	var res playout
	visited := make(map[connectfour.State]struct{})
	state := root
	canExpand := true

	for d := 0; d < e.maxDepth; d++ {
		legal := state.LegalMoves()
		if len(legal) == 0 {
			res.drawn = true
			break
		}
		children := make([]connectfour.State, len(legal))
		for i, col := range legal {
			children[i] = state.Update(col)
		}

		unknown := lo.Filter(children, func(ch connectfour.State, _ int) bool {
			_, ok := e.store[ch]
			return !ok
		})
		if len(unknown) == 0 {
			state = e.selectUCB(children)
		} else {
			state = unknown[frand.Intn(len(unknown))]
		}

		if canExpand {
			if _, ok := e.store[state]; !ok {
				e.store[state] = &stat{}
				canExpand = false
				res.expanded = true
			}
		}
		visited[state] = struct{}{}
		res.plies = d + 1
		e.nodes.Add(1)

		if w := state.Winner(); w != connectfour.Nobody {
			res.winner = w
			break
		}
	}

	// Credit every visited position the store knows about. A position's
	// win counter belongs to the player who moved into it.
	for st := range visited {
		entry, ok := e.store[st]
		if !ok {
			continue
		}
		entry.plays++
		switch {
		case res.winner != connectfour.Nobody:
			if st.Turn().Other() == res.winner {
				entry.wins++
			}
		case res.drawn:
			entry.wins += 0.5
		}
	}
	return res
}

// selectUCB picks among fully tracked successors, trading the observed win
// rate against an exploration bonus that shrinks as plays accumulate.
func (e *Engine) selectUCB(children []connectfour.State) connectfour.State {
	totalPlays := lo.SumBy(children, func(ch connectfour.State) int {
		return e.store[ch].plays
	})
	logTotal := math.Log(float64(totalPlays))
	best := children[0]
	bestVal := math.Inf(-1)
	for _, ch := range children {
		st := e.store[ch]
		val := st.winRate() + e.exploration*math.Sqrt(logTotal/float64(st.plays))
		if val > bestVal {
			bestVal, best = val, ch
		}
	}
	return best
}

func (e *Engine) logIteration(res playout) {
	li := LogIteration{
		Iteration: e.iterationCount,
		Plies:     res.plies,
		Expanded:  res.expanded,
		Winner:    int(res.winner),
		Drawn:     res.drawn,
	}
	out, err := yaml.Marshal([]LogIteration{li})
	if err != nil {
		log.Err(err).Msg("marshalling log iteration")
		return
	}
	e.logStream.Write(out)
}
