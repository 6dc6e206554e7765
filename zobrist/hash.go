package zobrist

import (
	"lukechampine.com/frand"
)

const bignum = 1<<63 - 2

// NumPieceTypes is the count of distinct pieces a square can hold.
const NumPieceTypes = 2

// Zobrist hashing for a square-grid position. Every (square, piece) pair
// gets its own random value and a position's hash is the XOR of the values
// for its occupied squares, so hashes update incrementally in O(1) per
// move and are independent of move order.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	posTable [][]uint64
	boardDim int
}

func (z *Zobrist) Initialize(boardDim int) {
	z.boardDim = boardDim
	z.posTable = make([][]uint64, boardDim*boardDim)
	for i := 0; i < boardDim*boardDim; i++ {
		z.posTable[i] = make([]uint64, NumPieceTypes)
		for j := 0; j < NumPieceTypes; j++ {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
}

func (z *Zobrist) BoardDim() int {
	return z.boardDim
}

// AddPiece returns key with the given piece toggled on the given square.
// XOR is self-inverse, so the same call both places and removes; applying
// it twice restores the original key. The empty position hashes to zero.
func (z *Zobrist) AddPiece(key uint64, row, col, pieceIndex int) uint64 {
	return key ^ z.posTable[row*z.boardDim+col][pieceIndex]
}
