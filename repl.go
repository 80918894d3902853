package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/sergev/quirkbot/dispatch"
	"github.com/sergev/quirkbot/internal/config"
)

var (
	replyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	echoStyle  = lipgloss.NewStyle().Faint(true)
)

func runREPL(d *dispatch.Dispatcher, cfg *config.Config, in io.Reader, out, errw io.Writer) error {
	if f, ok := in.(*os.File); ok && isInteractive(f) {
		return runInteractiveREPL(d, cfg, out, errw)
	}
	return runBufferedREPL(d, in, out)
}

// runBufferedREPL answers one message per input line.
func runBufferedREPL(d *dispatch.Dispatcher, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read error: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) != "" {
			fmt.Fprintln(out, d.Dispatch(line))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

func runInteractiveREPL(d *dispatch.Dispatcher, cfg *config.Config, out, errw io.Writer) error {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)
	state.SetCompleter(completer(d))

	historyPath := cfg.HistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	for {
		input, err := state.Prompt(cfg.REPL.Prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Fprintln(out)
				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(out)
				return nil
			default:
				fmt.Fprintf(errw, "read error: %v\n", err)
				return err
			}
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		state.AppendHistory(input)
		fmt.Fprintln(out, styleReply(input, d.Dispatch(input), !cfg.REPL.NoColor))
	}
}

// styleReply highlights command output and dims messages passed through
// unchanged.
func styleReply(input, reply string, color bool) string {
	if !color {
		return reply
	}
	if reply == input {
		return echoStyle.Render(reply)
	}
	return replyStyle.Render(reply)
}

// completer offers registered command names after the prefix.
func completer(d *dispatch.Dispatcher) liner.Completer {
	prefix := d.Prefix()
	names := d.Registry().Names()
	return func(line string) []string {
		if !strings.HasPrefix(line, prefix) || strings.ContainsAny(line, " \t") {
			return nil
		}
		partial := line[len(prefix):]
		var out []string
		for _, name := range names {
			if strings.HasPrefix(name, partial) {
				out = append(out, prefix+name+" ")
			}
		}
		return out
	}
}

func isInteractive(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
