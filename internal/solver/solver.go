// Package solver implements the alpha-beta negamax search with
// null-window iteration that computes exact Connect Four scores.
package solver

import (
	"github.com/connectfour/solver/internal/book"
	"github.com/connectfour/solver/internal/position"
	"github.com/connectfour/solver/internal/sorter"
	"github.com/connectfour/solver/internal/transposition"
)

// columnOrder is center-first, the order BestCol iterates columns in.
var columnOrder = [position.Width]int{3, 2, 4, 1, 5, 0, 6}

// negamaxOrder and symmetricOrder are the move-ordering column sequences
// negamax builds its Sorter from: the non-symmetric case favors the
// center and pairs outer columns, the symmetric case only needs the left
// half since the right half is a mirror image.
var (
	negamaxOrder   = [7]int{6, 0, 5, 1, 4, 2, 3}
	symmetricOrder = [4]int{0, 1, 2, 3}
)

// Solver is single-threaded and synchronous: one Solver is never shared
// across goroutines, and its Table is created fresh for every top-level
// BestScore/BestCol call.
type Solver struct {
	book    *book.Book
	table   *transposition.Table
	visited uint64
}

// New returns a Solver. book may be nil, in which case the solver never
// consults an opening database. The Table itself (~40 MiB) is not
// allocated until the first BestScore call, since BestScore discards
// any table it's handed and starts fresh.
func New(b *book.Book) *Solver {
	return &Solver{book: b}
}

// BestCol returns the center-first best column (0-indexed) for the side
// to move, and its score. Ties keep the first (most central) column
// found with the best score.
func (s *Solver) BestCol(p position.Position) (int, int8) {
	col := 0
	best := int8(-127)

	playable := p.PlayableMoves()
	for _, c := range columnOrder {
		move := playable & position.ColumnMask(c)
		if move == 0 {
			continue
		}
		if p.IsWinningMove(move) {
			return c, winScore(p.NumActions)
		}
		child := p.MakeMove(move)
		childScore, _ := s.BestScore(child)
		score := -childScore
		if score > best {
			best = score
			col = c
		}
	}

	return col, best
}

// BestScore computes the exact game-theoretic score of p and the number
// of nodes visited to compute it. If the side to move has an immediate
// win, the score is returned directly with zero visits. Otherwise it
// runs null-window negamax probes, narrowing [min, max] until they meet.
func (s *Solver) BestScore(p position.Position) (int8, uint64) {
	if p.HasWinningMove() {
		return winScore(p.NumActions), 0
	}

	s.visited = 0
	s.table = transposition.New()

	min := -int8((42 - p.NumActions) / 2)
	max := int8((43 - p.NumActions) / 2)

	for min < max {
		med := min + (max-min)/2
		if med <= 0 && min/2 < med {
			med = min / 2
		} else if med >= 0 && max/2 > med {
			med = max / 2
		}

		result := s.negamax(p, med, med+1)
		if result <= med {
			max = result
		} else {
			min = result
		}
	}

	return min, s.visited
}

// negamax is the recursive alpha-beta core described in spec §4.5.
func (s *Solver) negamax(p position.Position, alpha, beta int8) int8 {
	s.visited++

	nonLosing := p.NonLosingMoves()
	if nonLosing == 0 {
		return -int8((42 - p.NumActions) / 2)
	}

	if p.NumActions >= 40 {
		return 0
	}

	if min := -int8((40 - p.NumActions) / 2); alpha < min {
		alpha = min
		if alpha >= beta {
			return alpha
		}
	}
	if max := int8((41 - p.NumActions) / 2); beta > max {
		beta = max
		if alpha >= beta {
			return beta
		}
	}

	hash := p.Hash()
	if stored, ok := s.table.Get(hash); ok {
		if isLowerBound(stored) {
			if lower := decodeLowerBound(stored); alpha < lower {
				alpha = lower
				if alpha >= beta {
					return alpha
				}
			}
		} else {
			if upper := decodeUpperBound(stored); beta > upper {
				beta = upper
				if alpha >= beta {
					return beta
				}
			}
		}
	}

	if s.book != nil {
		if score, ok := s.book.Get(hash, p.NumActions); ok {
			return score
		}
	}

	var order sorter.Sorter
	if p.IsSymmetrical() {
		for _, c := range symmetricOrder {
			if move := nonLosing & position.ColumnMask(c); move != 0 {
				order.Push(move, p.MoveScore(move))
			}
		}
	} else {
		for _, c := range negamaxOrder {
			if move := nonLosing & position.ColumnMask(c); move != 0 {
				order.Push(move, p.MoveScore(move))
			}
		}
	}

	for {
		move, ok := order.Pop()
		if !ok {
			break
		}
		child := p.MakeMove(move)
		score := -s.negamax(child, -beta, -alpha)

		if score >= beta {
			s.table.Set(hash, encodeLowerBound(score))
			return score
		}
		if score > alpha {
			alpha = score
		}
	}

	s.table.Set(hash, encodeUpperBound(alpha))
	return alpha
}

// winScore is the score for a side that has just played (or is about to
// play) a winning move, given the ply count before that move.
func winScore(numActions int) int8 {
	return int8(21 - numActions/2)
}

