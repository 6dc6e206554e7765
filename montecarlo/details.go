package montecarlo

import (
	"fmt"
	"sort"
	"strings"
)

// MoveDetail summarizes the accumulated statistics of one legal move at
// the current root.
type MoveDetail struct {
	Col     int     `json:"col" yaml:"col"`
	Plays   int     `json:"plays" yaml:"plays"`
	Wins    float64 `json:"wins" yaml:"wins"`
	WinRate float64 `json:"winRate" yaml:"winRate"`
}

// Details reports per-column statistics for the current root, best rate
// first. Columns the playouts never visited show zero counts.
func (e *Engine) Details() []MoveDetail {
	if len(e.states) == 0 {
		return nil
	}
	root := e.states[len(e.states)-1]
	details := []MoveDetail{}
	for _, col := range root.LegalMoves() {
		md := MoveDetail{Col: col}
		if st, ok := e.store[root.Update(col)]; ok {
			md.Plays = st.plays
			md.Wins = st.wins
			md.WinRate = st.winRate()
		}
		details = append(details, md)
	}
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].WinRate > details[j].WinRate
	})
	return details
}

// DetailsString renders Details as an aligned table for terminal display.
func (e *Engine) DetailsString() string {
	var ss strings.Builder
	fmt.Fprintf(&ss, "%-6s%-8s%-10s%-8s\n", "Col", "Plays", "Wins", "Rate")
	for _, md := range e.Details() {
		fmt.Fprintf(&ss, "%-6d%-8d%-10.1f%-8.3f\n", md.Col, md.Plays, md.Wins, md.WinRate)
	}
	return ss.String()
}
