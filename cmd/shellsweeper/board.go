package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/amalg/go-shellsweeper/internal/game"
	"github.com/amalg/go-shellsweeper/internal/rng"
)

func newBoardCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Print a generated mine layout",
		Long: `Generate a board and print its layout instead of playing it.

Mines are shown as '*', cells without neighboring mines as '.', and every
other cell as its neighbor count. The same flags and seed always produce the
same layout as the game.

Examples:
  shellsweeper board --seed 42
  shellsweeper board -W 30 -H 16 -m 99 -s 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, opts)
		},
	}
}

func runBoard(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.config(cmd)
	if err != nil {
		return err
	}

	seed := rng.TimeSeed(time.Now())
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	layout, err := game.Generate(cfg.Width, cfg.Height, cfg.Mines, rng.New(seed))
	if err != nil {
		return fmt.Errorf("generate board: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %dx%d, %d mines, seed %d\n", cfg.Width, cfg.Height, cfg.Mines, seed)
	fmt.Fprint(out, layout.String())
	return nil
}
