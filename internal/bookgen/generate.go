// Package bookgen implements the offline opening-book generator: it
// enumerates every reachable position at a fixed ply depth, scores each
// one in parallel with an independent Solver, and serializes the results
// in the raw generator-output format.
package bookgen

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/connectfour/solver/internal/book"
	"github.com/connectfour/solver/internal/position"
	"github.com/connectfour/solver/internal/solver"
)

// Generate enumerates all reachable positions at exactly depth plies,
// scores each with a fresh Solver (optionally consulting an existing
// compiled book to speed up the recursive scoring of deep positions),
// and appends the resulting records to path in the raw big-endian format
// spec §6 describes: a 4-byte depth header (written only if the file is
// new) followed by 8-byte (hash<<8)|score records, sorted ascending by
// how expensive each position was to solve.
func Generate(path string, depth uint32, existing *book.Book, log zerolog.Logger) error {
	log.Info().Uint32("depth", depth).Msg("enumerating positions")

	leaves := enumerate(position.New(), depth)
	log.Info().Int("count", len(leaves)).Msg("found leaf positions")

	type scored struct {
		record  uint64
		visited uint64
	}

	results := make([]scored, len(leaves))
	var done int64
	total := int64(len(leaves))
	start := time.Now()

	var writerMu sync.Mutex
	progress := func() {
		writerMu.Lock()
		defer writerMu.Unlock()
		cur := atomic.LoadInt64(&done)
		elapsed := time.Since(start).Seconds()
		var eta time.Duration
		if cur > 0 {
			eta = time.Duration(elapsed/float64(cur)*float64(total-cur)) * time.Second
		}
		log.Info().
			Float64("percent", float64(cur)/float64(total)*100).
			Dur("eta", eta).
			Int64("done", cur).
			Int64("total", total).
			Msg("scoring positions")
	}

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())

	for i, leaf := range leaves {
		i, leaf := i, leaf
		g.Go(func() error {
			s := solver.New(existing)
			score, visited := s.BestScore(leaf)
			results[i] = scored{
				record:  leaf.Hash()<<8 | uint64(uint8(score)),
				visited: visited,
			}
			n := atomic.AddInt64(&done, 1)
			if n%64 == 0 || n == total {
				progress()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("bookgen: generate: %w", err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].visited < results[j].visited })

	records := make([]uint64, len(results))
	for i, r := range results {
		records[i] = r.record
	}

	log.Info().Str("path", path).Msg("writing book")
	return book.AppendRaw(path, depth, records)
}

// enumerate walks the game tree from p, depth-first, collecting every
// distinct position reached at exactly depth plies. Positions where the
// side to move already has a winning move, or that would only be
// reachable at or beyond the 42-ply terminal depth, are dropped: neither
// needs a book entry.
func enumerate(p position.Position, depth uint32) []position.Position {
	seen := make(map[position.Position]struct{})
	var walk func(position.Position)
	walk = func(p position.Position) {
		if p.HasWinningMove() {
			return
		}
		if p.NumActions >= 42 {
			return
		}
		if uint32(p.NumActions) == depth {
			seen[p] = struct{}{}
			return
		}
		playable := p.PlayableMoves()
		for col := 0; col < position.Width; col++ {
			move := playable & position.ColumnMask(col)
			if move == 0 {
				continue
			}
			walk(p.MakeMove(move))
		}
	}
	walk(p)

	leaves := make([]position.Position, 0, len(seen))
	for pos := range seen {
		leaves = append(leaves, pos)
	}
	return leaves
}
