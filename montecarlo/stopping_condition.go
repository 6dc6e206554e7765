package montecarlo

import (
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/domino14/conecta/connectfour"
	"github.com/domino14/conecta/stats"
)

// A StoppingCondition lets BestMove end before its time budget: once the
// leading column's win-rate interval clears every contender's at the
// chosen confidence, more playouts cannot change the answer.
type StoppingCondition int

const (
	StopNone StoppingCondition = iota
	Stop95
	Stop98
	Stop99
)

// IterationsCutoff ends a monitored search unconditionally.
const IterationsCutoff = 500000

const checkStoppingConditionEvery = 1000

func (sc StoppingCondition) zval() float64 {
	switch sc {
	case Stop95:
		return stats.ZVal(95)
	case Stop98:
		return stats.ZVal(98)
	case Stop99:
		return stats.ZVal(99)
	}
	return math.Inf(1)
}

type columnStat struct {
	col  int
	mean float64
	err  float64
}

// shouldStop uses the playout statistics so far to figure out when to stop
// simming. Columns whose interval falls entirely below the leader's are
// marked in ignored and skipped in later checks; the search stops when one
// column remains.
func (e *Engine) shouldStop(iterationCount int, root connectfour.State,
	legal []int, ignored map[int]bool) bool {

	if len(legal) < 2 {
		return true
	}
	if iterationCount > IterationsCutoff {
		return true
	}

	zval := e.stoppingCondition.zval()
	c := make([]columnStat, 0, len(legal))
	for _, col := range legal {
		st, ok := e.store[root.Update(col)]
		if !ok || st.plays == 0 {
			// an unexplored column can still be anything
			return false
		}
		p := st.winRate()
		// wins per playout live in [0,1], so the Bernoulli bound caps
		// the variance even with half-point draws.
		se := zval * math.Sqrt(p*(1-p)/float64(st.plays))
		c = append(c, columnStat{col: col, mean: p, err: se})
	}

	sort.SliceStable(c, func(i, j int) bool {
		return c[i].mean > c[j].mean
	})

	tentativeWinner := c[0]
	newIgnored := 0
	for _, cs := range c[1:] {
		if ignored[cs.col] {
			continue
		}
		if passTest(tentativeWinner.mean, tentativeWinner.err, cs.mean, cs.err) {
			ignored[cs.col] = true
			newIgnored++
		}
	}
	if newIgnored > 0 {
		log.Debug().Int("newIgnored", newIgnored).Msg("sim-cut-off")
	}
	return len(ignored) >= len(c)-1
}

// passTest: determine if a random variable X > Y with the given
// confidence level; return true if X > Y.
func passTest(μ, e, μi, ei float64) bool {
	// X > Y if (μ - e) > (μi + ei)
	return (μ - e) > (μi + ei)
}
