package restyle

import (
	"strings"
	"time"

	"github.com/sandeepkv93/noted/internal/pattern"
)

// Role is the typography role a style run assigns to its range.
type Role string

const (
	RoleBody     Role = "body"
	RoleHeading1 Role = "heading1"
	RoleHeading2 Role = "heading2"
	RoleHeading3 Role = "heading3"
	RoleBold     Role = "bold"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleBody, RoleHeading1, RoleHeading2, RoleHeading3, RoleBold:
		return true
	default:
		return false
	}
}

// OverlayKind distinguishes the two interactive overlay types.
type OverlayKind string

const (
	OverlayCheckbox OverlayKind = "checkbox"
	OverlayDateLink OverlayKind = "dateLink"
)

func (k OverlayKind) IsValid() bool {
	switch k {
	case OverlayCheckbox, OverlayDateLink:
		return true
	default:
		return false
	}
}

// StyleRun annotates a buffer range with a role and visibility. Runs are
// non-overlapping by construction and cover the whole buffer. Invisible
// runs are syntax markers: zero-width on screen, still addressable text.
type StyleRun struct {
	Range   pattern.Range
	Role    Role
	Visible bool
}

// OverlayDescriptor is the pure-data description of one interactive
// overlay, recomputed wholesale on every restyle.
type OverlayDescriptor struct {
	Kind    OverlayKind
	Anchor  pattern.Range
	Checked bool      // checkbox state
	Date    time.Time // dateLink resolved date
	Context string    // dateLink enclosing line, trimmed
}

// Result is the styled representation of one buffer snapshot.
type Result struct {
	Text     string
	Runs     []StyleRun
	Overlays []OverlayDescriptor
}

// VisibleText concatenates the visible runs: the buffer with every
// markdown syntax marker stripped.
func (r Result) VisibleText() string {
	var b strings.Builder
	for _, run := range r.Runs {
		if !run.Visible {
			continue
		}
		b.WriteString(r.Text[run.Range.Start:run.Range.End])
	}
	return b.String()
}

// Restyler derives StyleRuns and OverlayDescriptors from plain text. It is
// a pure function of its input: no state survives between calls, so the
// same text always restyles to the same result.
type Restyler struct {
	theme       TypographyTheme
	detectDates bool
	now         func() time.Time
}

type Option func(*Restyler)

// WithDateDetection turns date-mention highlighting on or off. Receipt
// notes turn it off: their line items are full of date-like tokens that
// are not actionable.
func WithDateDetection(enabled bool) Option {
	return func(r *Restyler) { r.detectDates = enabled }
}

// WithClock fixes the reference time used to filter past dates.
func WithClock(now func() time.Time) Option {
	return func(r *Restyler) { r.now = now }
}

func New(theme TypographyTheme, opts ...Option) *Restyler {
	r := &Restyler{
		theme:       theme,
		detectDates: true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Restyler) Theme() TypographyTheme { return r.theme }

func (r *Restyler) DetectsDates() bool { return r.detectDates }

// Restyle computes the styled representation of text. Passes run in a
// fixed order: headings level 3 down to 1 (longer markers first, so "###"
// is never shadowed by "#"), then bold (content role last-writer-wins over
// an enclosing heading), then to-do markers, then date mentions.
func (r *Restyler) Restyle(text string) Result {
	roles := make([]Role, len(text))
	visible := make([]bool, len(text))
	for i := range roles {
		roles[i] = RoleBody
		visible[i] = true
	}

	apply := func(m pattern.Match, role Role) {
		for _, syn := range m.Syntax {
			for i := syn.Start; i < syn.End; i++ {
				visible[i] = false
			}
		}
		for i := m.Content.Start; i < m.Content.End; i++ {
			roles[i] = role
		}
	}

	headingPasses := []struct {
		name pattern.Name
		role Role
	}{
		{pattern.Heading3, RoleHeading3},
		{pattern.Heading2, RoleHeading2},
		{pattern.Heading1, RoleHeading1},
	}
	for _, pass := range headingPasses {
		matches, _ := pattern.Find(pass.name, text)
		for _, m := range matches {
			apply(m, pass.role)
		}
	}

	boldMatches, _ := pattern.Find(pattern.Bold, text)
	for _, m := range boldMatches {
		apply(m, RoleBold)
	}

	var overlays []OverlayDescriptor
	unchecked, _ := pattern.Find(pattern.TodoUnchecked, text)
	checked, _ := pattern.Find(pattern.TodoChecked, text)
	overlays = appendCheckboxes(overlays, unchecked, false, visible)
	overlays = appendCheckboxes(overlays, checked, true, visible)

	if r.detectDates {
		for _, m := range pattern.Dates(text, r.now()) {
			line := pattern.LineAt(text, m.Range.Start)
			overlays = append(overlays, OverlayDescriptor{
				Kind:    OverlayDateLink,
				Anchor:  m.Range,
				Date:    m.Resolved,
				Context: strings.TrimSpace(text[line.Start:line.End]),
			})
		}
	}

	return Result{
		Text:     text,
		Runs:     coalesceRuns(text, roles, visible),
		Overlays: sortOverlays(overlays),
	}
}

func appendCheckboxes(overlays []OverlayDescriptor, matches []pattern.Match, state bool, visible []bool) []OverlayDescriptor {
	for _, m := range matches {
		marker := m.Syntax[0]
		for i := marker.Start; i < marker.End; i++ {
			visible[i] = false
		}
		overlays = append(overlays, OverlayDescriptor{
			Kind:    OverlayCheckbox,
			Anchor:  marker,
			Checked: state,
		})
	}
	return overlays
}

// coalesceRuns folds the per-byte attribute arrays into maximal runs.
func coalesceRuns(text string, roles []Role, visible []bool) []StyleRun {
	if len(text) == 0 {
		return []StyleRun{{Range: pattern.Range{}, Role: RoleBody, Visible: true}}
	}
	runs := make([]StyleRun, 0, 8)
	start := 0
	for i := 1; i <= len(text); i++ {
		if i < len(text) && roles[i] == roles[start] && visible[i] == visible[start] {
			continue
		}
		runs = append(runs, StyleRun{
			Range:   pattern.Range{Start: start, End: i},
			Role:    roles[start],
			Visible: visible[start],
		})
		start = i
	}
	return runs
}

// sortOverlays orders descriptors by anchor position, checkboxes before
// date links on the unlikely shared offset, for deterministic output.
func sortOverlays(overlays []OverlayDescriptor) []OverlayDescriptor {
	for i := 1; i < len(overlays); i++ {
		for j := i; j > 0 && overlayLess(overlays[j], overlays[j-1]); j-- {
			overlays[j], overlays[j-1] = overlays[j-1], overlays[j]
		}
	}
	return overlays
}

func overlayLess(a, b OverlayDescriptor) bool {
	if a.Anchor.Start != b.Anchor.Start {
		return a.Anchor.Start < b.Anchor.Start
	}
	return a.Kind == OverlayCheckbox && b.Kind == OverlayDateLink
}
