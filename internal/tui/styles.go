// Package tui holds the terminal screens: the activation form and the order
// editor with its live card preview.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ordercard/internal/card"
)

var (
	amber     = lipgloss.Color("#FCD34D")
	amberDim  = lipgloss.Color("#FDE68A")
	grey      = lipgloss.Color("#9CA3AF")
	slate     = lipgloss.Color("#374151")
	red       = lipgloss.Color("#F87171")
	green     = lipgloss.Color("#34D399")
	cardPanel = lipgloss.Color(card.DefaultBackground)
)

type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Help     lipgloss.Style

	Card      lipgloss.Style
	CardHead  lipgloss.Style
	CardLabel lipgloss.Style
	CardValue lipgloss.Style
	CardEmph  lipgloss.Style
	Rule      lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(amber),
		Subtitle: lipgloss.NewStyle().Foreground(grey),
		Label:    lipgloss.NewStyle().Foreground(grey).Width(20),
		Focused:  lipgloss.NewStyle().Foreground(amber).Bold(true).Width(20),
		Error:    lipgloss.NewStyle().Foreground(red),
		Success:  lipgloss.NewStyle().Foreground(green),
		Help:     lipgloss.NewStyle().Foreground(grey).Italic(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(slate).
			Background(cardPanel).
			Padding(0, 1).
			Width(44),
		CardHead:  lipgloss.NewStyle().Bold(true).Foreground(amber).Width(42).Align(lipgloss.Center),
		CardLabel: lipgloss.NewStyle().Foreground(amberDim).Faint(true),
		CardValue: lipgloss.NewStyle().Foreground(lipgloss.Color("#F3F4F6")),
		CardEmph:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB")).Bold(true),
		Rule:      lipgloss.NewStyle().Foreground(slate),
	}
}

// RenderCard draws c as a terminal panel.
func (s Styles) RenderCard(c card.Card) string {
	var b strings.Builder

	b.WriteString(s.CardHead.Render(strings.ToUpper(c.Title)))
	if c.CompanyName != "" {
		b.WriteString("\n")
		b.WriteString(s.CardHead.UnsetBold().Foreground(grey).Render(c.CompanyName))
	}

	if n := len(c.Images); n > 0 {
		b.WriteString("\n")
		b.WriteString(s.CardLabel.Render(imageSummary(n)))
	}

	for _, sec := range []card.Section{card.SectionParties, card.SectionDates, card.SectionSpecs, card.SectionPrices, card.SectionComments} {
		fields := c.Section(sec)
		if len(fields) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(s.Rule.Render(strings.Repeat("─", 42)))
		for _, f := range fields {
			value := s.CardValue.Render(f.Value)
			if f.Emphasized {
				value = s.CardEmph.Render(f.Value)
			}
			b.WriteString("\n")
			b.WriteString(s.CardLabel.Render(strings.ToUpper(f.Label)))
			b.WriteString("  ")
			b.WriteString(value)
		}
	}

	return s.Card.Render(b.String())
}

func imageSummary(n int) string {
	if n == 1 {
		return "[1 design image]"
	}
	return fmt.Sprintf("[%d design images]", n)
}
