package gomoku

// Line scans for runs, completions, and the candidate-move frontier. All
// of them look only at lines through one square: after any move, only
// lines through that move can have changed.

// The four scan directions. Their order decides which completion square a
// quick-win probe reports first.
var directions = [4]struct{ dr, dc int }{
	{0, 1},  // along a row
	{1, 0},  // along a column
	{1, 1},  // down-right diagonal
	{1, -1}, // down-left diagonal
}

// hasRun reports whether p owns target consecutive pieces on the line
// through (row, col) in direction (dr, dc), tolerating at most maxBlocked
// dead ends. A dead end is a board edge or an opposing piece.
func (b *Board) hasRun(row, col int, p Piece, target, maxBlocked, dr, dc int) bool {
	opp := p.Opponent()
	consecutive := 0
	for t := -(target - 1); t <= target-1; t++ {
		r, c := row+t*dr, col+t*dc
		if !b.inBounds(r, c) {
			continue
		}
		if b.cells[r][c] != p {
			consecutive = 0
			continue
		}
		consecutive++
		if consecutive != target {
			continue
		}
		if maxBlocked == 2 {
			return true
		}
		// the run occupies offsets t-target+1 through t
		hr, hc := r-target*dr, c-target*dc
		tr, tc := r+dr, c+dc
		headOpen := b.inBounds(hr, hc) && b.cells[hr][hc] != opp
		tailOpen := b.inBounds(tr, tc) && b.cells[tr][tc] != opp
		if maxBlocked == 1 {
			if headOpen || tailOpen {
				return true
			}
		} else if headOpen && tailOpen {
			return true
		}
	}
	return false
}

// quickCompletion looks for a run of four through (row, col) with an empty
// square on either end and returns that square, head end first.
func (b *Board) quickCompletion(row, col int, p Piece, dr, dc int) (int, int, bool) {
	consecutive := 0
	for t := -3; t <= 3; t++ {
		r, c := row+t*dr, col+t*dc
		if !b.inBounds(r, c) {
			continue
		}
		if b.cells[r][c] != p {
			consecutive = 0
			continue
		}
		consecutive++
		if consecutive != 4 {
			continue
		}
		hr, hc := r-4*dr, c-4*dc
		if b.inBounds(hr, hc) && b.cells[hr][hc] == Empty {
			return hr, hc, true
		}
		tr, tc := r+dr, c+dc
		if b.inBounds(tr, tc) && b.cells[tr][tc] == Empty {
			return tr, tc, true
		}
	}
	return 0, 0, false
}

func (b *Board) openFourAt(row, col int, p Piece) bool {
	for _, d := range directions {
		if b.hasRun(row, col, p, 4, 1, d.dr, d.dc) {
			return true
		}
	}
	return false
}

func (b *Board) completionAt(row, col int, p Piece) (int, int, bool) {
	for _, d := range directions {
		if r, c, ok := b.quickCompletion(row, col, p, d.dr, d.dc); ok {
			return r, c, true
		}
	}
	return 0, 0, false
}

// SelfHasFour reports whether the side to move owns a four that one more
// piece completes. Only its latest piece, two plies back in the history,
// could have created such a four, so only lines through that square are
// scanned. Positions with at most eight plies are never probed.
func (b *Board) SelfHasFour() bool {
	if len(b.history) <= 8 {
		return false
	}
	m := b.history[len(b.history)-2]
	return b.openFourAt(m.Row, m.Col, m.Piece)
}

// OpponentHasFour is the mirror probe for the side that just moved.
func (b *Board) OpponentHasFour() bool {
	if len(b.history) <= 6 {
		return false
	}
	m := b.history[len(b.history)-1]
	return b.openFourAt(m.Row, m.Col, m.Piece)
}

// FindQuickWin returns the square that completes five in a row for the
// side to move. It reports false when no completion exists; callers fall
// back to the full search.
func (b *Board) FindQuickWin() (int, int, bool) {
	if len(b.history) < 2 {
		return 0, 0, false
	}
	m := b.history[len(b.history)-2]
	return b.completionAt(m.Row, m.Col, m.Piece)
}

// FindForcedBlock returns the square where the side that just moved would
// complete five, which the side to move must take.
func (b *Board) FindForcedBlock() (int, int, bool) {
	if len(b.history) < 1 {
		return 0, 0, false
	}
	m := b.history[len(b.history)-1]
	return b.completionAt(m.Row, m.Col, m.Piece)
}

// FreeAdjacentSquares returns the empty cells in the 8-neighborhood of
// (row, col).
func (b *Board) FreeAdjacentSquares(row, col int) []Square {
	adj := make([]Square, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if b.inBounds(r, c) && b.cells[r][c] == Empty {
				adj = append(adj, Square{Row: r, Col: c})
			}
		}
	}
	return adj
}

// NeighborSquares returns every empty cell adjacent to an occupied cell.
// These are the only candidate moves the search considers.
func (b *Board) NeighborSquares() map[Square]struct{} {
	available := make(map[Square]struct{})
	for row := 0; row < b.size; row++ {
		for col := 0; col < b.size; col++ {
			if b.cells[row][col] == Empty {
				continue
			}
			for _, sq := range b.FreeAdjacentSquares(row, col) {
				available[sq] = struct{}{}
			}
		}
	}
	return available
}
