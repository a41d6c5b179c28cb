// Command c4solver is the single binary wrapping the solver core: an
// interactive play loop, an HTTP adapter, and the opening-book
// generate/compile tooling.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/connectfour/solver/internal/cmdutil"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := cmdutil.NewRootCommand(log).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
