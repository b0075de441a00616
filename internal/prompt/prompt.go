// Package prompt implements the yes/no confirmations guarding
// destructive operations.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Prompter asks yes/no questions on a terminal. A force flag bypasses
// the question entirely; without a terminal the answer is always no,
// so scripted invocations must pass force explicitly.
type Prompter struct {
	In         io.Reader
	Out        io.Writer
	IsTerminal func() bool
}

// New returns a Prompter bound to the process terminal.
func New() *Prompter {
	return &Prompter{
		In:  os.Stdin,
		Out: os.Stderr,
		IsTerminal: func() bool {
			fd := os.Stdin.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	}
}

// Confirm asks question and returns the operator's answer. force
// answers yes without asking.
func (p *Prompter) Confirm(question string, force bool) bool {
	if force {
		return true
	}
	if p.IsTerminal != nil && !p.IsTerminal() {
		fmt.Fprintf(p.Out, "%s [y/N] no (not a terminal; use --force to confirm non-interactively)\n", question)
		return false
	}
	fmt.Fprintf(p.Out, "%s [y/N] ", question)
	reader := bufio.NewReader(p.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
