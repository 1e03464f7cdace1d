package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/vaultpass/passgen-go/internal/clipboard"
	"github.com/vaultpass/passgen-go/internal/config"
	"github.com/vaultpass/passgen-go/internal/generator"
	"github.com/vaultpass/passgen-go/internal/tui"
	"github.com/vaultpass/passgen-go/internal/widget"
)

func main() {
	fs := pflag.NewFlagSet("passgen", pflag.ExitOnError)
	fs.Int("length", generator.DefaultLength, "password length")
	fs.Int("count", generator.DefaultCount, "number of passwords")
	fs.Bool("uppercase", true, "include uppercase letters")
	fs.Bool("lowercase", true, "include lowercase letters")
	fs.Bool("digits", false, "include numbers")
	fs.Bool("symbols", false, "include symbols")
	fs.Bool("exclude-similar", false, "leave out look-alike characters")
	fs.Duration("copy-feedback", widget.DefaultCopyFeedback, "how long the copied badge stays")
	printOnly := fs.BoolP("print", "p", false, "print passwords and exit instead of starting the UI")
	fs.Parse(os.Args[1:])

	_ = godotenv.Load()
	setupLogging()

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if *printOnly {
		passwords, err := generator.Generate(generator.DefaultSource(), cfg.WidgetOptions())
		if err != nil {
			fmt.Fprintln(os.Stderr, widget.Placeholder)
			os.Exit(1)
		}
		for _, p := range passwords {
			fmt.Println(p)
		}
		return
	}

	// The renderer and the clipboard share one guarded writer.
	term := tui.NewTerminal(os.Stdout)
	w := widget.New(
		widget.WithOptions(cfg.WidgetOptions()),
		widget.WithClipboard(clipboard.NewOSC52(term, clipboard.DetectMultiplexer())),
		widget.WithAfterFunc(nil),
		widget.WithFeedbackTimeout(cfg.Widget.CopyFeedback),
	)

	if err := tui.Run(w, tea.WithAltScreen(), tea.WithOutput(term)); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setupLogging sends slog output to PASSGEN_LOG_FILE, or discards it so
// nothing is written over the UI.
func setupLogging() {
	path := os.Getenv("PASSGEN_LOG_FILE")
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	f, err := tea.LogToFile(path, "passgen")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))
}
