// Package ui abstracts the terminal toolkit behind a small widget
// interface, so the interaction controller can be driven headlessly in
// tests.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrAborted means the user cancelled the current prompt (empty
// selection or end of input). It is a navigation outcome, never an
// application error.
var ErrAborted = errors.New("aborted")

// Prompter is the widget set the controller builds its flows from.
type Prompter interface {
	// Select presents numbered options and returns the chosen index.
	Select(label string, options []string) (int, error)
	// Input reads one line of free text. An empty line is returned
	// as-is; callers decide whether empty means abort.
	Input(label string) (string, error)
	// Secret reads a sensitive value such as an API token.
	Secret(label string) (string, error)
	// Confirm asks a yes/no question, defaulting to no.
	Confirm(label string) (bool, error)
	// Show displays a block of text.
	Show(text string)
	// Busy runs fn behind a progress indication and returns its error.
	Busy(label string, fn func() error) error
}

// Terminal is the interactive Prompter on stdin/stdout.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal returns a Terminal bound to the process stdio.
func NewTerminal() *Terminal {
	return &Terminal{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", ErrAborted
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) Select(label string, options []string) (int, error) {
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, label)
	for i, o := range options {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, o)
	}
	for {
		fmt.Fprint(t.out, "> ")
		line, err := t.readLine()
		if err != nil {
			return 0, err
		}
		if line == "" {
			return 0, ErrAborted
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(options) {
			fmt.Fprintf(t.out, "Enter a number between 1 and %d, or press enter to cancel.\n", len(options))
			continue
		}
		return n - 1, nil
	}
}

func (t *Terminal) Input(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	return t.readLine()
}

func (t *Terminal) Secret(label string) (string, error) {
	// The value still echoes; terminal raw mode is out of scope here.
	return t.Input(label)
}

func (t *Terminal) Confirm(label string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N]: ", label)
	line, err := t.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (t *Terminal) Show(text string) {
	fmt.Fprintln(t.out, text)
}

func (t *Terminal) Busy(label string, fn func() error) error {
	fmt.Fprintf(t.out, "%s... ", label)
	err := fn()
	if err != nil {
		fmt.Fprintln(t.out, "failed")
		return err
	}
	fmt.Fprintln(t.out, "done")
	return nil
}
