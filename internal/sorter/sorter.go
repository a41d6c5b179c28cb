// Package sorter provides a fixed-capacity move-ordering buffer used by
// the solver to try the most promising moves first.
package sorter

// capacity matches the board width: one candidate move per column is the
// most the solver ever pushes into a single Sorter.
const capacity = 7

type entry struct {
	move  uint64
	score uint32
}

// Sorter holds (move, score) pairs in ascending-score order via
// insertion, and yields them back in descending order — best move
// first — through Pop.
type Sorter struct {
	entries [capacity]entry
	size    int
}

// Push inserts move with the given score, shifting strictly-greater
// scored entries right until move's slot is found. Entries with equal
// score are never shifted, so a later Push of an equal score lands
// after (tail-ward of) earlier ones and is the one Pop returns first.
// Overflowing the 7-entry capacity is a programmer error: the solver
// never pushes more than one candidate per column.
func (s *Sorter) Push(move uint64, score uint32) {
	i := s.size
	for i > 0 && s.entries[i-1].score > score {
		s.entries[i] = s.entries[i-1]
		i--
	}
	s.entries[i] = entry{move: move, score: score}
	s.size++
}

// Pop removes and returns the highest-scored remaining move. ok is false
// once the Sorter is empty.
func (s *Sorter) Pop() (move uint64, ok bool) {
	if s.size == 0 {
		return 0, false
	}
	s.size--
	return s.entries[s.size].move, true
}
