// Package ui renders the console view: styled panels for status
// messages and the periodically refreshed session dashboard.
package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/zetpar/zetpar/internal/model"
)

// Steam palette
var (
	colorBlue  = lipgloss.Color("#66c0f4")
	colorGray  = lipgloss.Color("#c7d5e0")
	colorGreen = lipgloss.Color("#5c7e10")
	colorRed   = lipgloss.Color("#c94a4a")
)

const banner = `
███████╗███████╗████████╗██████╗  █████╗ ██████╗
╚══███╔╝██╔════╝╚══██╔══╝██╔══██╗██╔══██╗██╔══██╗
  ███╔╝ █████╗     ██║   ██████╔╝███████║██████╔╝
 ███╔╝  ██╔══╝     ██║   ██╔═══╝ ██╔══██║██╔══██╗
███████╗███████╗   ██║   ██║     ██║  ██║██║  ██║
╚══════╝╚══════╝   ╚═╝   ╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝`

// Console writes styled output to a single writer. Writes are
// serialized so panels from concurrent loops do not interleave.
type Console struct {
	mu  sync.Mutex
	out io.Writer

	panel      lipgloss.Style
	successSt  lipgloss.Style
	errorSt    lipgloss.Style
	titleSt    lipgloss.Style
	dimSt      lipgloss.Style
	bannerSt   lipgloss.Style
	tableHead  lipgloss.Style
	tableValue lipgloss.Style
}

// New creates a Console writing to out
func New(out io.Writer) *Console {
	return &Console{
		out:        out,
		panel:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBlue).Padding(0, 1),
		successSt:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorGreen).Foreground(colorGreen).Padding(0, 1),
		errorSt:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorRed).Foreground(colorRed).Padding(0, 1),
		titleSt:    lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
		dimSt:      lipgloss.NewStyle().Foreground(colorGray),
		bannerSt:   lipgloss.NewStyle().Foreground(colorBlue),
		tableHead:  lipgloss.NewStyle().Foreground(colorGray).Bold(true),
		tableValue: lipgloss.NewStyle().Foreground(colorBlue),
	}
}

// Banner prints the startup banner
func (c *Console) Banner() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, c.bannerSt.Render(banner))
	fmt.Fprintln(c.out, c.panel.Render("Steam Game Manager"))
}

// Help prints the command reference
func (c *Console) Help() {
	commands := []struct{ cmd, desc string }{
		{"start <app_id>", "Start a game"},
		{"stop <app_id>", "Stop a game"},
		{"stopall", "Stop all games"},
		{"help", "Show this message"},
		{"exit", "Quit the program"},
	}

	var b strings.Builder
	b.WriteString(c.titleSt.Render("Available commands:"))
	for _, cmd := range commands {
		b.WriteString("\n  ")
		b.WriteString(c.dimSt.Render(fmt.Sprintf("%-15s", cmd.cmd)))
		b.WriteString(" - ")
		b.WriteString(cmd.desc)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, c.panel.Render(b.String()))
}

// Success prints msg in a success panel
func (c *Console) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, c.successSt.Render(msg))
}

// Error prints msg in an error panel
func (c *Console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, c.errorSt.Render(msg))
}

// PromptPanel prints a styled panel introducing an input prompt
func (c *Console) PromptPanel(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, c.panel.Render(prompt))
}

// Plain prints an unstyled line
func (c *Console) Plain(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, msg)
}

// ClearScreen clears the terminal
func (c *Console) ClearScreen() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, "\033[2J\033[H")
}

// RenderDashboard clears the screen and draws the session and games
// tables.
func (c *Console) RenderDashboard(info model.SessionInfo, games []model.GameInfo) error {
	session := c.sessionTable(info)
	gamesTable := c.gamesTable(games)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprint(c.out, "\033[2J\033[H"); err != nil {
		return err
	}
	_, err := fmt.Fprintln(c.out, lipgloss.JoinVertical(lipgloss.Left, session, gamesTable))
	return err
}

func (c *Console) sessionTable(info model.SessionInfo) string {
	var b strings.Builder
	b.WriteString(c.titleSt.Render("Session"))
	b.WriteString("\n")
	b.WriteString(c.row("Status", info.Status()))
	if info.Connected {
		b.WriteString("\n")
		b.WriteString(c.row("Account", info.Username))
		b.WriteString("\n")
		b.WriteString(c.row("Steam ID", fmt.Sprintf("%d", info.SteamID)))
		b.WriteString("\n")
		b.WriteString(c.row("Games running", fmt.Sprintf("%d", info.GamesRunning)))
	}
	return c.panel.Render(b.String())
}

func (c *Console) gamesTable(games []model.GameInfo) string {
	var b strings.Builder
	b.WriteString(c.titleSt.Render("Running games"))
	b.WriteString("\n")
	b.WriteString(c.tableHead.Render(fmt.Sprintf("%-10s %-32s %-10s %-10s", "ID", "Name", "Started", "In game")))
	if len(games) == 0 {
		b.WriteString("\n")
		b.WriteString(c.dimSt.Render("No games running"))
	}
	for _, g := range games {
		b.WriteString("\n")
		b.WriteString(c.tableValue.Render(fmt.Sprintf("%-10d %-32s %-10s %-10s", g.ID, truncate(g.Name, 32), g.StartedAt, g.Elapsed)))
	}
	return c.panel.Render(b.String())
}

func (c *Console) row(key, value string) string {
	return c.dimSt.Render(fmt.Sprintf("%-14s", key)) + " " + c.tableValue.Render(value)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
