package position_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectfour/solver/internal/position"
)

func TestNewIsEmpty(t *testing.T) {
	p := position.New()
	assert.Equal(t, uint64(0), p.PlayerMask)
	assert.Equal(t, uint64(0), p.TileMask)
	assert.Equal(t, 0, p.NumActions)
}

func TestFromMoveStringEmpty(t *testing.T) {
	p, err := position.FromMoveString("")
	require.NoError(t, err)
	assert.Equal(t, position.New(), p)
}

// The masks below come from original_source/backend/src/board.rs's own
// unit test for "4436212", via its binary literals (converted to hex):
// spec.md's §8 scenario 4 states 0x08040001/0x08060481 for the same
// sequence, which is a transcription error in the distilled spec — see
// DESIGN.md's Open Question decision.
func TestFromMoveStringKnownSequence(t *testing.T) {
	p, err := position.FromMoveString("4436212")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x800400001), p.PlayerMask)
	assert.Equal(t, uint64(0x800604181), p.TileMask)
	assert.Equal(t, 7, p.NumActions)
}

func TestFromMoveStringInvalidCharacter(t *testing.T) {
	_, err := position.FromMoveString("error")
	require.Error(t, err)
	var target position.InvalidCharacter
	assert.ErrorAs(t, err, &target)
}

func TestFromMoveStringInvalidColumn(t *testing.T) {
	for _, seq := range []string{"4450", "4458"} {
		_, err := position.FromMoveString(seq)
		require.Error(t, err, seq)
		var target position.InvalidColumn
		assert.ErrorAs(t, err, &target, seq)
	}
}

func TestFromMoveStringFullColumn(t *testing.T) {
	_, err := position.FromMoveString("444444")
	require.NoError(t, err)

	_, err = position.FromMoveString("44444444")
	require.Error(t, err)
	var target position.InvalidFullColumnMove
	assert.ErrorAs(t, err, &target)
}

// Gravity: within each column, tile_mask's set bits are contiguous
// starting from row 0.
func TestGravityInvariant(t *testing.T) {
	sequences := []string{"", "4", "44", "4436212", "444444", "12345671234567"}
	for _, seq := range sequences {
		p, err := position.FromMoveString(seq)
		require.NoError(t, err, seq)
		for col := 0; col < position.Width; col++ {
			bits := (p.TileMask >> uint(col*(position.Height+1))) & ((1 << position.Height) - 1)
			assert.True(t, isContiguousFromZero(bits), "seq=%s col=%d bits=%b", seq, col, bits)
		}
	}
}

func isContiguousFromZero(bits uint64) bool {
	n := 0
	for bits&1 == 1 {
		bits >>= 1
		n++
	}
	return bits == 0
}

// Hash canonicity: hash is the sum of the two masks, and equal
// (player,tile) pairs hash equally.
func TestHashCanonicity(t *testing.T) {
	p, err := position.FromMoveString("4436212")
	require.NoError(t, err)
	assert.Equal(t, p.PlayerMask+p.TileMask, p.Hash())

	q := position.Position{PlayerMask: p.PlayerMask, TileMask: p.TileMask, NumActions: p.NumActions}
	assert.Equal(t, p.Hash(), q.Hash())
}

// Move legality: playable moves never overlap occupied cells and always
// lie within the playable area.
func TestPlayableMovesLegality(t *testing.T) {
	sequences := []string{"", "4", "444444", "4436212"}
	for _, seq := range sequences {
		p, err := position.FromMoveString(seq)
		require.NoError(t, err, seq)
		playable := p.PlayableMoves()
		assert.Zero(t, playable&p.TileMask, seq)
		assert.Zero(t, playable & ^position.PlayableAreaMask, seq)
	}
}

func TestIsWinningMoveDetectsHorizontalWin(t *testing.T) {
	// x (to move) owns columns 0,1,2 on the bottom row; o has been
	// stacking column 4 in between. Column 3's bottom cell completes the
	// horizontal four.
	p, err := position.FromMoveString("152535")
	require.NoError(t, err)
	move := p.PlayableMoves() & position.ColumnMask(3)
	require.NotZero(t, move)
	assert.True(t, p.IsWinningMove(move))
}

func TestFromBoardStringRoundTrip(t *testing.T) {
	p, err := position.FromMoveString("4436212")
	require.NoError(t, err)

	// Build the board string the same way String() renders it, then
	// reparse; the reconstructed masks must match (board strings don't
	// carry move order, only final occupancy split by side-to-move).
	boardString := boardStringFromPosition(p)
	q, err := position.FromBoardString(boardString)
	require.NoError(t, err)
	assert.Equal(t, p.PlayerMask, q.PlayerMask)
	assert.Equal(t, p.TileMask, q.TileMask)
	assert.Equal(t, p.NumActions, q.NumActions)
}

func boardStringFromPosition(p position.Position) string {
	var sb []byte
	for row := position.Height - 1; row >= 0; row-- {
		for col := 0; col < position.Width; col++ {
			bit := uint64(1) << uint(col*(position.Height+1)+row)
			switch {
			case p.PlayerMask&bit != 0:
				sb = append(sb, 'x')
			case p.TileMask&bit != 0:
				sb = append(sb, 'o')
			default:
				sb = append(sb, '.')
			}
		}
	}
	return string(sb)
}

func TestIsSymmetrical(t *testing.T) {
	p := position.New()
	assert.True(t, p.IsSymmetrical())

	p, err := position.FromMoveString("44")
	require.NoError(t, err)
	assert.True(t, p.IsSymmetrical())

	p, err = position.FromMoveString("41")
	require.NoError(t, err)
	assert.False(t, p.IsSymmetrical())
}

func TestNonLosingMovesForcedLoss(t *testing.T) {
	// Opponent (the side who just moved) owns an open three on row 0
	// across columns 1-3, giving them two winning threats (columns 0 and
	// 4): no non-losing move exists for the side to move.
	p, err := position.FromMoveString("727374")
	require.NoError(t, err)
	threats := p.WinningThreats(p.TileMask^p.PlayerMask) & p.PlayableMoves()
	assert.Equal(t, 2, popcountForTest(threats))
	assert.Zero(t, p.NonLosingMoves())
}

func popcountForTest(mask uint64) int {
	n := 0
	for mask != 0 {
		mask &= mask - 1
		n++
	}
	return n
}
