package prompt

import (
	"bytes"
	"strings"
	"testing"
)

func terminalPrompter(input string, out *bytes.Buffer) *Prompter {
	return &Prompter{
		In:         strings.NewReader(input),
		Out:        out,
		IsTerminal: func() bool { return true },
	}
}

func TestConfirmForceBypassesQuestion(t *testing.T) {
	var out bytes.Buffer
	p := &Prompter{In: strings.NewReader(""), Out: &out, IsTerminal: func() bool { return false }}
	if !p.Confirm("proceed?", true) {
		t.Fatal("force should answer yes")
	}
	if out.Len() != 0 {
		t.Fatalf("force should not prompt, wrote %q", out.String())
	}
}

func TestConfirmReadsAnswer(t *testing.T) {
	var out bytes.Buffer
	if !terminalPrompter("yes\n", &out).Confirm("proceed?", false) {
		t.Fatal("expected yes")
	}
	if terminalPrompter("n\n", &out).Confirm("proceed?", false) {
		t.Fatal("expected no")
	}
	if terminalPrompter("\n", &out).Confirm("proceed?", false) {
		t.Fatal("empty answer defaults to no")
	}
}

func TestConfirmWithoutTerminalIsNo(t *testing.T) {
	var out bytes.Buffer
	p := &Prompter{In: strings.NewReader("yes\n"), Out: &out, IsTerminal: func() bool { return false }}
	if p.Confirm("proceed?", false) {
		t.Fatal("non-terminal input must not confirm")
	}
	if !strings.Contains(out.String(), "--force") {
		t.Fatalf("expected hint about --force, got %q", out.String())
	}
}
