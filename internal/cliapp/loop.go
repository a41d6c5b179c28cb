// Package cliapp is the interactive text-loop collaborator described in
// spec §6: a human plays against the solver one column at a time. It is
// a thin consumer of the core solver, not part of the hard-engineering
// budget.
package cliapp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/connectfour/solver/internal/book"
	"github.com/connectfour/solver/internal/position"
	"github.com/connectfour/solver/internal/solver"
)

// Play runs one interactive game on in/out: the human moves first, the
// solver replies after each human move, until someone wins or the board
// fills. One Solver is created for the whole game, matching the
// original's one-Agent-per-session design.
func Play(in io.Reader, out io.Writer, b *book.Book) error {
	reader := bufio.NewReader(in)
	s := solver.New(b)
	p := position.New()

	for {
		fmt.Fprintln(out, "Player turn:")
		fmt.Fprint(out, p.String())
		fmt.Fprint(out, "Enter your move: ")

		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		col, parseErr := strconv.Atoi(strings.TrimSpace(line))
		if parseErr != nil || col < 1 || col > position.Width {
			fmt.Fprintln(out, "Invalid move")
			if err == io.EOF {
				return nil
			}
			continue
		}
		col--

		move := p.PlayableMoves() & position.ColumnMask(col)
		if move == 0 {
			fmt.Fprintln(out, "Invalid move")
			if err == io.EOF {
				return nil
			}
			continue
		}

		won := p.IsWinningMove(move)
		p = p.MakeMove(move)

		if won {
			fmt.Fprintln(out, "Player wins!")
			fmt.Fprint(out, p.String())
			return nil
		}
		if p.NumActions == position.BoardSize {
			fmt.Fprintln(out, "Draw!")
			fmt.Fprint(out, p.String())
			return nil
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Solver turn:")
		agentCol, score := s.BestCol(p)
		agentMove := p.PlayableMoves() & position.ColumnMask(agentCol)
		agentWon := p.IsWinningMove(agentMove)
		p = p.MakeMove(agentMove)

		fmt.Fprintf(out, "Solver played column: %d\n", agentCol+1)
		fmt.Fprintf(out, "Score: %d\n", score)
		fmt.Fprint(out, p.String())

		if agentWon {
			fmt.Fprintln(out, "Solver wins!")
			return nil
		}
		if p.NumActions == position.BoardSize {
			fmt.Fprintln(out, "Draw!")
			return nil
		}
		fmt.Fprintln(out)

		if err == io.EOF {
			return nil
		}
	}
}
