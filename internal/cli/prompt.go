package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/zetpar/zetpar/internal/ui"
)

// Prompter reads styled interactive input. It shares one buffered
// reader with the command loop so no typed input is lost between the
// login flow and the session.
type Prompter struct {
	console *ui.Console
	in      *bufio.Reader
}

// NewPrompter creates a Prompter over in
func NewPrompter(console *ui.Console, in *bufio.Reader) *Prompter {
	return &Prompter{
		console: console,
		in:      in,
	}
}

// Line shows prompt in a panel and reads one line of input
func (p *Prompter) Line(prompt string) string {
	p.console.PromptPanel(prompt)
	fmt.Print("> ")
	line, _ := p.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// Password shows prompt and reads input without echo when stdin is a
// terminal, falling back to a plain line read otherwise.
func (p *Prompter) Password(prompt string) string {
	p.console.PromptPanel(prompt)
	fmt.Print("> ")

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, _ := p.in.ReadString('\n')
		return strings.TrimSpace(line)
	}

	raw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
