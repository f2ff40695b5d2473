package restyle

import "github.com/charmbracelet/lipgloss"

// TypographyTheme is the immutable set of styles the host uses to render
// style runs and overlay controls. It is passed in at construction rather
// than read from shared globals.
type TypographyTheme struct {
	Body     lipgloss.Style
	Heading1 lipgloss.Style
	Heading2 lipgloss.Style
	Heading3 lipgloss.Style
	Bold     lipgloss.Style

	Checkbox     lipgloss.Style
	CheckboxDone lipgloss.Style
	DateLink     lipgloss.Style
}

func DefaultTheme() TypographyTheme {
	return TypographyTheme{
		Body:         lipgloss.NewStyle(),
		Heading1:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Heading2:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Heading3:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Bold:         lipgloss.NewStyle().Bold(true),
		Checkbox:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		CheckboxDone: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		DateLink:     lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("13")),
	}
}

// StyleFor maps a run role to its theme style.
func (t TypographyTheme) StyleFor(role Role) lipgloss.Style {
	switch role {
	case RoleHeading1:
		return t.Heading1
	case RoleHeading2:
		return t.Heading2
	case RoleHeading3:
		return t.Heading3
	case RoleBold:
		return t.Bold
	default:
		return t.Body
	}
}
