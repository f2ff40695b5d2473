package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// AppData carries everything the frame needs for one draw. The panes come
// in pre-rendered; RenderApp only does layout.
type AppData struct {
	Header       string
	LeftPane     string
	RightPane    string
	StatusLine   string
	Footer       string
	Notification string
}

// The notes/editor column is the wide one; the preview/help column sits
// beside it. The preview wraps a little narrower than its pane so glamour
// output clears the border.
const (
	mainPaneWidth    = 62
	sidePaneWidth    = 54
	previewWrapWidth = 50
)

var (
	titleBarStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	alertStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func RenderApp(data AppData) string {
	sections := []string{
		titleBarStyle.Render(data.Header),
		renderColumns(data.LeftPane, data.RightPane),
		renderStatusLine(data.StatusLine),
	}
	if data.Notification != "" {
		sections = append(sections, paneStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		sections = append(sections, hintStyle.Render(data.Footer))
	}
	return strings.Join(sections, "\n")
}

func renderColumns(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Width(mainPaneWidth).Render(left),
		paneStyle.Width(sidePaneWidth).Render(right),
	)
}

func renderStatusLine(line string) string {
	if strings.Contains(strings.ToLower(line), "error") {
		return alertStyle.Render(line)
	}
	return noticeStyle.Render(line)
}

// RenderMarkdown renders a note body for the read-only preview pane. The
// raw text comes back unchanged when the renderer rejects the input.
func RenderMarkdown(md string, style string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if strings.TrimSpace(style) == "" {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(previewWrapWidth),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
