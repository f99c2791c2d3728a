// Package main runs the interactive Bauernschach shell.
package main

import (
	"flag"
	"fmt"
	"os"

	"bauernschach/internal/cli"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

func main() {
	var (
		rows    = flag.Int("rows", 8, "Board rows for NEWGAME without arguments")
		columns = flag.Int("columns", 8, "Board columns for NEWGAME without arguments")
		color   = flag.String("color", "auto", "Colored board output (auto|on|off)")
		history = flag.String("history", "", "Optional readline history file")
	)
	flag.Parse()

	useColor, err := colorMode(*color)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cli.Prompt,
		HistoryFile:     *history,
		InterruptPrompt: "^C",
		EOFPrompt:       "QUIT",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start shell: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	shell := cli.New(rl.Stdout(), cli.Config{Rows: *rows, Columns: *columns, Color: useColor})
	if err := shell.Run(rl); err != nil {
		fmt.Fprintf(os.Stderr, "Shell error: %v\n", err)
		os.Exit(1)
	}
}

func colorMode(mode string) (bool, error) {
	switch mode {
	case "auto":
		return term.IsTerminal(int(os.Stdout.Fd())), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid -color value %q (use: auto, on, off)", mode)
	}
}
