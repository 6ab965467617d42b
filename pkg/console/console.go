// Package console provides colorized status output and yes/no
// confirmation prompts for the rimsave CLI. Red marks errors, yellow
// marks warnings, green marks success.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Printer writes colorized status lines to a single output stream.
type Printer struct {
	out    io.Writer
	red    *color.Color
	yellow *color.Color
	green  *color.Color
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:    out,
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
	}
}

// Errorf prints a red error line.
func (printer *Printer) Errorf(format string, args ...any) {
	printer.red.Fprintf(printer.out, format+"\n", args...)
}

// Warnf prints a yellow warning line.
func (printer *Printer) Warnf(format string, args ...any) {
	printer.yellow.Fprintf(printer.out, format+"\n", args...)
}

// Successf prints a green success line.
func (printer *Printer) Successf(format string, args ...any) {
	printer.green.Fprintf(printer.out, format+"\n", args...)
}

// Infof prints an uncolored status line.
func (printer *Printer) Infof(format string, args ...any) {
	fmt.Fprintf(printer.out, format+"\n", args...)
}

// Prompter asks yes/no questions on an input stream. An empty answer
// selects the default; end of input also selects the default so a
// closed stdin cannot hang the run.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a prompter reading answers from in and writing
// questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Confirm asks prompt and blocks until the operator answers y, n, or
// presses enter for the default. Unrecognized answers re-ask.
func (prompter *Prompter) Confirm(prompt string, defaultAnswer bool) (bool, error) {
	suffix := "[Y/n]"
	if !defaultAnswer {
		suffix = "[y/N]"
	}

	for {
		fmt.Fprintf(prompter.out, "%s %s ", prompt, suffix)
		line, err := prompter.in.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return defaultAnswer, nil
			}
			return false, fmt.Errorf("failed to read answer: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return defaultAnswer, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(prompter.out, "Please answer y or n.")
	}
}

// AssumeYes answers every confirmation affirmatively, for
// non-interactive runs such as watch mode.
type AssumeYes struct{}

// Confirm always answers yes.
func (AssumeYes) Confirm(string, bool) (bool, error) {
	return true, nil
}
