// board is the terminal client for the task board server.
//
// On a terminal it opens an interactive three-column board. When stdout is
// piped, or with --plain, it prints the columns once and exits.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/tosifAN/sunrise-2024/internal/client"
	"github.com/tosifAN/sunrise-2024/internal/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		serverURL string
		plain     bool
		light     bool
		logFile   string
	)

	defaultURL := os.Getenv("TASKBOARD_URL")
	if defaultURL == "" {
		defaultURL = client.DefaultBaseURL
	}

	flagSet := pflag.NewFlagSet("board", pflag.ContinueOnError)
	flagSet.StringVarP(&serverURL, "server", "s", defaultURL, "task board server URL (env TASKBOARD_URL)")
	flagSet.BoolVar(&plain, "plain", false, "print the board once and exit")
	flagSet.BoolVar(&light, "light", false, "start in the light theme")
	flagSet.StringVar(&logFile, "log-file", "", "write JSON log records to this file")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	interactive := !plain && term.IsTerminal(int(os.Stdout.Fd()))

	logger, closeLog, err := newLogger(logFile, interactive)
	if err != nil {
		return err
	}
	defer closeLog()

	c := client.New(serverURL)

	if !interactive {
		return printBoard(c, os.Stdout, logger)
	}

	model := tui.NewModel(c, tui.Options{
		ServerURL: serverURL,
		Light:     light,
		Logger:    logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func printBoard(c *client.Client, w io.Writer, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resp, err := c.Board(ctx)
	if err != nil {
		logger.Error("failed to fetch board", "error", err)
		return fmt.Errorf("fetch board: %w", err)
	}
	_, err = io.WriteString(w, tui.RenderPlain(resp.Columns))
	return err
}

// newLogger returns a file logger when path is set. Otherwise the TUI gets a
// discarding logger so nothing corrupts the screen, and plain mode logs to
// stderr.
func newLogger(path string, interactive bool) (*slog.Logger, func(), error) {
	options := &slog.HandlerOptions{Level: slog.LevelDebug}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return slog.New(slog.NewJSONHandler(f, options)), func() { f.Close() }, nil
	}
	if interactive {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	options.Level = slog.LevelWarn
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler), func() {}, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `board: terminal client for the task board server.

Shows tasks in To-Do, In Progress and Completed columns. Mark the selected
In Progress task done with "d"; the server then starts the next task in
the same group, or the first task of the next group.

Usage:
  board [flags]

Flags:
%s`, flagSet.FlagUsages())
}
