package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amalg/go-shellsweeper/internal/game"
	"github.com/amalg/go-shellsweeper/internal/ui"
)

// options holds the flags shared by every command.
type options struct {
	width    int
	height   int
	mines    int
	seed     uint32
	logFile  string
	logLevel string
}

// config builds the board config. The seed is only fixed when --seed was given.
func (o *options) config(cmd *cobra.Command) (game.GameConfig, error) {
	cfg := game.GameConfig{
		Width:  o.width,
		Height: o.height,
		Mines:  o.mines,
	}
	if f := cmd.Flag("seed"); f != nil && f.Changed {
		seed := o.seed
		cfg.Seed = &seed
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	def := game.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "shellsweeper",
		Short: "Play Minesweeper in the terminal",
		Long: `Play Minesweeper in the terminal.

Move with the arrow keys or HJKL, open a cell with Space, cycle flag and
question mark with F. The mouse works too: left click opens, right click marks.

Examples:
  shellsweeper
  shellsweeper -W 30 -H 16 -m 99
  shellsweeper --seed 42 --log game.log --log-level debug`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&opts.width, "width", "W", def.Width, "Board width in cells")
	flags.IntVarP(&opts.height, "height", "H", def.Height, "Board height in cells")
	flags.IntVarP(&opts.mines, "mines", "m", def.Mines, "Number of mines")
	flags.Uint32VarP(&opts.seed, "seed", "s", 0, "Board seed (default: derived from the clock)")
	flags.StringVar(&opts.logFile, "log", "", "Log file path (default: discard logs)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(newBoardCmd(opts))
	return rootCmd
}

func runPlay(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.config(cmd)
	if err != nil {
		return err
	}

	// Logs must never reach the terminal while the TUI owns it.
	closeLog, err := setupLogging(opts.logFile, opts.logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal; use the board command for plain output")
	}

	engine, err := game.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	logrus.WithField("seed", engine.Seed()).Info("starting TUI")

	p := tea.NewProgram(ui.NewModel(engine), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// setupLogging points the standard logrus logger at path, or discards
// everything when path is empty. The returned func closes the file.
func setupLogging(path, level string) (func(), error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logrus.SetLevel(lvl)

	if path == "" {
		logrus.SetOutput(io.Discard)
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	logrus.SetOutput(f)
	return func() { f.Close() }, nil
}
