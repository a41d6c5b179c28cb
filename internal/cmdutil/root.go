// Package cmdutil wires the cobra command tree for the c4solver binary:
// play, serve, and the book generate/compile subcommands. Kept separate
// from package main so it can be exercised by tests without an os.Exit
// boundary.
package cmdutil

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/connectfour/solver/internal/book"
	"github.com/connectfour/solver/internal/bookgen"
	"github.com/connectfour/solver/internal/cliapp"
	"github.com/connectfour/solver/internal/httpapi"
)

// NewRootCommand builds the root cobra command.
func NewRootCommand(log zerolog.Logger) *cobra.Command {
	var bookPath string

	root := &cobra.Command{
		Use:   "c4solver",
		Short: "A perfect-play Connect Four solver",
	}
	root.PersistentFlags().StringVar(&bookPath, "book", "", "path to a compiled opening book")

	root.AddCommand(newPlayCommand(log, &bookPath))
	root.AddCommand(newServeCommand(log, &bookPath))
	root.AddCommand(newBookCommand(log))

	return root
}

func loadBook(path string, log zerolog.Logger) (*book.Book, error) {
	if path == "" {
		return nil, nil
	}
	log.Info().Str("path", path).Msg("loading opening book")
	return book.Load(path)
}

func newPlayCommand(log zerolog.Logger, bookPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play an interactive game against the solver",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBook(*bookPath, log)
			if err != nil {
				return err
			}
			return cliapp.Play(os.Stdin, os.Stdout, b)
		},
	}
}

func newServeCommand(log zerolog.Logger, bookPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP adapter at GET /api/<position>",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBook(*bookPath, log)
			if err != nil {
				return err
			}
			engine := httpapi.New(b, log)
			log.Info().Str("addr", addr).Msg("listening")
			return engine.Run(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8081", "address to listen on")
	return cmd
}

func newBookCommand(log zerolog.Logger) *cobra.Command {
	bookCmd := &cobra.Command{
		Use:   "book",
		Short: "Opening book generation and compilation",
	}
	bookCmd.AddCommand(newBookGenerateCommand(log))
	bookCmd.AddCommand(newBookCompileCommand(log))
	return bookCmd
}

func newBookGenerateCommand(log zerolog.Logger) *cobra.Command {
	var existingBook string
	cmd := &cobra.Command{
		Use:   "generate <path> <depth>",
		Short: "Enumerate positions at a ply depth and score them in parallel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			depth, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid depth %q: %w", args[1], err)
			}
			b, err := loadBook(existingBook, log)
			if err != nil {
				return err
			}
			return bookgen.Generate(args[0], uint32(depth), b, log)
		},
	}
	cmd.Flags().StringVar(&existingBook, "existing", "", "existing compiled book to speed up scoring")
	return cmd
}

func newBookCompileCommand(log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <dest> <src...>",
		Short: "Compile raw generator output files into a single book",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, sources := args[0], args[1:]
			log.Info().Str("dest", dest).Strs("sources", sources).Msg("compiling book")
			return book.Compile(dest, sources)
		},
	}
}
