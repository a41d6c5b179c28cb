// Package position implements the bitboard representation of a Connect
// Four position: move application, win/threat detection, move ordering
// primitives, and the canonical hash the transposition table and opening
// book key on.
//
// A position is stored as two uint64 masks plus a ply counter. The grid
// is 7 columns by 6 rows, but each column occupies 7 bit positions — the
// 7th (row index 6) is always zero and acts as a sentinel separating
// columns:
//
//	 6 13 20 27 34 41 48
//	---------------------
//	 5 12 19 26 33 40 47
//	 4 11 18 25 32 39 46
//	 3 10 17 24 31 38 45
//	 2  9 16 23 30 37 44
//	 1  8 15 22 29 36 43
//	 0  7 14 21 28 35 42
//	---------------------
//
// Bit index c*7+r is column c (0 leftmost), row r (0 bottom). PlayerMask
// is the tiles owned by the side to move; TileMask is every occupied
// cell. The opponent's tiles are TileMask &^ PlayerMask.
package position

import "strings"

const (
	Width     = 7
	Height    = 6
	BoardSize = Width * Height
	Center    = Width / 2

	// MinScore and MaxScore bound the signed score of a win: a win played
	// after n plies scores 21 - n/2, so the fastest possible win (the
	// first player's fourth token, after 6 plies) scores +18 and a win
	// on the last cell scores +1; losses are the negation.
	MinScore = -18
	MaxScore = 18
)

// BottomRowMask has the lowest (row 0) bit of every column set.
const BottomRowMask uint64 = 0x0040810204081

// PlayableAreaMask has every one of the 42 real board cells set and every
// column-sentinel bit clear.
const PlayableAreaMask uint64 = 0xFDFBF7EFDFBF

// Position is a value type: copying it copies the whole board state, and
// MakeMove returns a new Position rather than mutating the receiver.
type Position struct {
	PlayerMask uint64
	TileMask   uint64
	NumActions int
}

// New returns the empty starting position.
func New() Position {
	return Position{}
}

// FromMoveString parses a sequence of 1-indexed column digits ('1'-'7'),
// applying each move in order. An empty string yields the empty board.
// Returns an error on a non-digit character, an out-of-range column, or a
// move into a full column.
func FromMoveString(moves string) (Position, error) {
	p := New()
	for i, c := range moves {
		if c < '0' || c > '9' {
			return Position{}, InvalidCharacter{Character: c, Index: i}
		}
		col := int(c - '0' - 1)
		if col < 0 || col >= Width {
			return Position{}, InvalidColumn{Column: col + 1, Index: i}
		}
		playable := p.PlayableMoves()
		move := playable & columnMask(col)
		if move == 0 {
			return Position{}, InvalidFullColumnMove{Column: col + 1, Index: i}
		}
		p = p.MakeMove(move)
	}
	return p, nil
}

// FromBoardString parses a full 42-cell board described row-major from
// top-left to bottom-right, using '.' for empty, 'x' for the side to
// move, and 'o' for the opponent. Any other character is ignored, but
// the string must contain exactly BoardSize characters drawn from
// {'.','o','x'} once those are filtered out.
func FromBoardString(boardString string) (Position, error) {
	boardString = strings.ToLower(boardString)
	var cells []rune
	for _, c := range boardString {
		if c == '.' || c == 'o' || c == 'x' {
			cells = append(cells, c)
		}
	}
	if len(cells) != BoardSize {
		return Position{}, InvalidBoardStringLength{Actual: len(cells), Expected: BoardSize}
	}

	var player, tile uint64
	actions := 0
	for i, c := range cells {
		if c == '.' {
			continue
		}
		row := Height - (i/Width) - 1
		col := i % Width
		bit := uint64(1) << uint(row+col*(Height+1))
		tile |= bit
		if c == 'x' {
			player |= bit
		}
		actions++
	}

	return Position{PlayerMask: player, TileMask: tile, NumActions: actions}, nil
}

// MakeMove returns a new Position after the side to move plays the given
// single-bit move mask. The caller must have obtained move from
// PlayableMoves (or an equivalent subset of it).
func (p Position) MakeMove(move uint64) Position {
	return Position{
		PlayerMask: p.PlayerMask ^ p.TileMask,
		TileMask:   p.TileMask | move,
		NumActions: p.NumActions + 1,
	}
}

// PlayableMoves returns the mask with one bit per column: the lowest
// empty row, or zero for a full column.
func (p Position) PlayableMoves() uint64 {
	return (p.TileMask + BottomRowMask) & PlayableAreaMask
}

// IsWinningMove reports whether playing move (a single playable-cell bit)
// completes a 4-in-a-row for the side to move.
func (p Position) IsWinningMove(move uint64) bool {
	b := p.PlayerMask | move

	// vertical
	bb := b & (b >> 1)
	if bb&(bb>>2) != 0 {
		return true
	}
	// horizontal
	bb = b & (b >> 7)
	if bb&(bb>>14) != 0 {
		return true
	}
	// diagonal /
	bb = b & (b >> 8)
	if bb&(bb>>16) != 0 {
		return true
	}
	// diagonal \
	bb = b & (b >> 6)
	if bb&(bb>>12) != 0 {
		return true
	}
	return false
}

// HasWinningMove reports whether any playable cell is an immediate win
// for the side to move.
func (p Position) HasWinningMove() bool {
	return p.WinningThreats(p.PlayerMask)&p.PlayableMoves() != 0
}

// WinningThreats returns every empty playable-area cell that would
// complete a 4-in-a-row if occupied by sideMask. sideMask is usually
// either PlayerMask or the opponent's mask (TileMask^PlayerMask), but the
// computation itself only depends on which cells sideMask already owns.
func (p Position) WinningThreats(sideMask uint64) uint64 {
	return winningThreats(sideMask, p.TileMask)
}

func winningThreats(side, tile uint64) uint64 {
	// vertical: the cell directly above three stacked
	r := (side << 1) & (side << 2) & (side << 3)

	// horizontal
	q := (side << 7) & (side << 14)
	r |= q & (side << 21)
	r |= q & (side >> 7)
	q = (side >> 7) & (side >> 14)
	r |= q & (side << 7)
	r |= q & (side >> 21)

	// diagonal /
	q = (side << 8) & (side << 16)
	r |= q & (side << 24)
	r |= q & (side >> 8)
	q = (side >> 8) & (side >> 16)
	r |= q & (side << 8)
	r |= q & (side >> 24)

	// diagonal \
	q = (side << 6) & (side << 12)
	r |= q & (side << 18)
	r |= q & (side >> 6)
	q = (side >> 6) & (side >> 12)
	r |= q & (side << 6)
	r |= q & (side >> 18)

	return r & PlayableAreaMask & ^tile
}

// NonLosingMoves returns the moves the side to move can make without
// immediately handing the opponent a forced win: if the opponent has two
// or more winning threats among the playable cells, every move loses and
// the result is 0; if they have exactly one, the side to move is forced
// to play it. The result always excludes any cell directly below an
// opponent winning cell.
func (p Position) NonLosingMoves() uint64 {
	playable := p.PlayableMoves()
	opponentThreats := p.WinningThreats(p.TileMask ^ p.PlayerMask)

	forced := playable & opponentThreats
	if forced != 0 {
		if forced&(forced-1) != 0 {
			return 0
		}
		playable = forced
	}

	return playable & ^(opponentThreats >> 1)
}

// MoveScore counts how many winning threats the side to move would have
// immediately after playing move. Higher is a better move to try first.
func (p Position) MoveScore(move uint64) uint32 {
	return popcount(winningThreats(p.PlayerMask|move, p.TileMask))
}

// IsSymmetrical reports whether the position is unchanged under a
// left-right mirror: NumActions is even and columns (0,6), (1,5), (2,4)
// agree on both masks. A self-symmetric position lets the mover restrict
// search to columns {0,1,2,3}.
func (p Position) IsSymmetrical() bool {
	if p.NumActions&1 == 1 {
		return false
	}
	for _, pair := range [Center][2]int{{0, 6}, {1, 5}, {2, 4}} {
		a, b := pair[0], pair[1]
		if columnBits(p.PlayerMask, a) != columnBits(p.PlayerMask, b) {
			return false
		}
		if columnBits(p.TileMask, a) != columnBits(p.TileMask, b) {
			return false
		}
	}
	return true
}

// Hash is the canonical key: the unmirrored sum of the two masks, used by
// the transposition table and the opening book.
func (p Position) Hash() uint64 {
	return p.PlayerMask + p.TileMask
}

// MirrorHash returns the smaller of Hash and the hash of the position's
// left-right mirror. It is not used by the transposition table, the book
// or the book generator: the first two key on the plain, unmirrored
// Hash, and the generator deduplicates on full Position equality.
func (p Position) MirrorHash() uint64 {
	key := p.Hash()
	mirrorPlayer, mirrorTile := p.mirroredMasks()
	mirrorKey := mirrorPlayer + mirrorTile
	if mirrorKey < key {
		return mirrorKey
	}
	return key
}

func (p Position) mirroredMasks() (uint64, uint64) {
	var player, tile uint64
	for col := 0; col < Center; col++ {
		mirrorCol := Width - 1 - col
		shift := uint(mirrorCol-col) * (Height + 1)
		player |= ((p.PlayerMask & columnMask(col)) << shift) | ((p.PlayerMask & columnMask(mirrorCol)) >> shift)
		tile |= ((p.TileMask & columnMask(col)) << shift) | ((p.TileMask & columnMask(mirrorCol)) >> shift)
	}
	if Width&1 == 1 {
		player |= p.PlayerMask & columnMask(Center)
		tile |= p.TileMask & columnMask(Center)
	}
	return player, tile
}

// IsWon reports whether either side already has a 4-in-a-row on the
// board. It is not used by the solver (which instead checks for an
// immediate winning move before the opponent's reply exists) but is
// useful to callers validating externally-constructed boards, such as
// FromBoardString results.
func (p Position) IsWon() bool {
	opponent := p.TileMask ^ p.PlayerMask
	return isAlignedWin(p.PlayerMask) || isAlignedWin(opponent)
}

func isAlignedWin(side uint64) bool {
	m := side & (side >> 7)
	if m&(m>>14) != 0 {
		return true
	}
	m = side & (side >> 8)
	if m&(m>>16) != 0 {
		return true
	}
	m = side & (side >> 6)
	if m&(m>>12) != 0 {
		return true
	}
	m = side & (side >> 1)
	if m&(m>>2) != 0 {
		return true
	}
	return false
}

// String renders the board with the first player's tiles as red and the
// second player's as yellow, top row first as printed on screen.
func (p Position) String() string {
	var red uint64
	if p.NumActions%2 == 0 {
		red = p.PlayerMask
	} else {
		red = p.TileMask ^ p.PlayerMask
	}
	yellow := p.TileMask ^ red

	var b strings.Builder
	for r := Height - 1; r >= 0; r-- {
		for c := 0; c < Width; c++ {
			bit := uint64(1) << uint(c*(Height+1)+r)
			switch {
			case red&bit != 0:
				b.WriteString("\U0001F534")
			case yellow&bit != 0:
				b.WriteString("\U0001F7E1")
			default:
				b.WriteString("\U000026AA")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ColumnMask returns the mask of every cell (playable or not) in column
// col.
func ColumnMask(col int) uint64 {
	return ((uint64(1) << Height) - 1) << uint(col*(Height+1))
}

func columnMask(col int) uint64 {
	return ColumnMask(col)
}

func columnBits(mask uint64, col int) uint64 {
	return (mask >> uint(col*(Height+1))) & ((1 << Height) - 1)
}

func popcount(mask uint64) uint32 {
	var n uint32
	for mask != 0 {
		mask &= mask - 1
		n++
	}
	return n
}
