package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestPrompter_Confirm(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		defaultAnswer bool
		expected      bool
	}{
		{"yes", "y\n", false, true},
		{"yes_word", "yes\n", false, true},
		{"no", "n\n", true, false},
		{"no_word", "no\n", true, false},
		{"empty_takes_default_yes", "\n", true, true},
		{"empty_takes_default_no", "\n", false, false},
		{"case_insensitive", "Y\n", false, true},
		{"whitespace_trimmed", "  n  \n", true, false},
		{"garbage_then_answer", "maybe\nn\n", true, false},
		{"eof_takes_default", "", true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			prompter := NewPrompter(strings.NewReader(tc.input), &out)

			got, err := prompter.Confirm("Remove precept?", tc.defaultAnswer)
			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if got != tc.expected {
				t.Errorf("Confirm() = %v, want %v", got, tc.expected)
			}
			if !strings.Contains(out.String(), "Remove precept?") {
				t.Error("prompt text was not written to the output stream")
			}
		})
	}
}

func TestPrompter_DefaultShownInSuffix(t *testing.T) {
	var out bytes.Buffer
	prompter := NewPrompter(strings.NewReader("\n"), &out)
	if _, err := prompter.Confirm("Remove?", true); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if !strings.Contains(out.String(), "[Y/n]") {
		t.Errorf("prompt %q does not mark yes as the default", out.String())
	}
}

func TestAssumeYes(t *testing.T) {
	got, err := AssumeYes{}.Confirm("Remove?", false)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if !got {
		t.Error("AssumeYes answered no")
	}
}

func TestPrinter_Lines(t *testing.T) {
	// Color codes depend on the environment; check the text only.
	restore := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = restore }()

	var out bytes.Buffer
	printer := NewPrinter(&out)
	printer.Errorf("failed to parse %s", "save.rws")
	printer.Warnf("no changes")
	printer.Successf("done")
	printer.Infof("backed up to %s", "save.rws.bak")

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	expected := []string{
		"failed to parse save.rws",
		"no changes",
		"done",
		"backed up to save.rws.bak",
	}
	if len(lines) != len(expected) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(expected), out.String())
	}
	for i, want := range expected {
		if lines[i] != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}
