package pattern

import (
	"fmt"
	"regexp"
)

// Name identifies one compiled matcher.
type Name string

const (
	Heading1      Name = "heading1"
	Heading2      Name = "heading2"
	Heading3      Name = "heading3"
	Bold          Name = "bold"
	TodoUnchecked Name = "todoUnchecked"
	TodoChecked   Name = "todoChecked"
	DateMention   Name = "dateMention"
)

func (n Name) IsValid() bool {
	switch n {
	case Heading1, Heading2, Heading3, Bold, TodoUnchecked, TodoChecked, DateMention:
		return true
	default:
		return false
	}
}

// Range is a half-open [Start, End) byte range into a buffer.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int { return r.End - r.Start }

func (r Range) Contains(off int) bool { return off >= r.Start && off < r.End }

func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Match locates one occurrence of a pattern: the full matched range, the
// syntax-marker sub-ranges that must render invisibly, and the content
// sub-range that carries the pattern's typography.
type Match struct {
	Range   Range
	Syntax  []Range
	Content Range
}

// Heading markers are mutually exclusive per line: each level requires a
// space immediately after its run of '#', so "###" can never match as "#".
var (
	heading1RE = regexp.MustCompile(`(?m)^(# +)(.*)$`)
	heading2RE = regexp.MustCompile(`(?m)^(## +)(.*)$`)
	heading3RE = regexp.MustCompile(`(?m)^(### +)(.*)$`)

	boldRE = regexp.MustCompile(`(\*\*)(.+?)(\*\*)`)

	todoUncheckedRE = regexp.MustCompile(`(?m)^([-*] \[ \])(.*)$`)
	todoCheckedRE   = regexp.MustCompile(`(?m)^([-*] \[[xX]\])(.*)$`)
)

// TodoMarkerLen is the literal width of a to-do marker ("- [ ]" / "- [x]").
const TodoMarkerLen = 5

// Continuation is the text inserted after a non-empty to-do line when the
// list is extended. New items are always unchecked.
const Continuation = "\n- [ ] "

// Find runs the named pattern over text and returns all non-overlapping
// matches in buffer order. Zero matches is the common case, not an error.
// DateMention is not served here; it needs a reference clock, see Dates.
func Find(name Name, text string) ([]Match, error) {
	switch name {
	case Heading1:
		return markerContent(heading1RE, text), nil
	case Heading2:
		return markerContent(heading2RE, text), nil
	case Heading3:
		return markerContent(heading3RE, text), nil
	case Bold:
		return boldMatches(text), nil
	case TodoUnchecked:
		return markerContent(todoUncheckedRE, text), nil
	case TodoChecked:
		return markerContent(todoCheckedRE, text), nil
	case DateMention:
		return nil, fmt.Errorf("pattern: %s requires a reference time, use Dates", name)
	default:
		return nil, fmt.Errorf("pattern: unknown pattern %q", name)
	}
}

// markerContent converts matches of a (marker)(content) regexp, where the
// marker group is syntax and the rest of the line is content.
func markerContent(re *regexp.Regexp, text string) []Match {
	idx := re.FindAllStringSubmatchIndex(text, -1)
	if len(idx) == 0 {
		return nil
	}
	out := make([]Match, 0, len(idx))
	for _, loc := range idx {
		out = append(out, Match{
			Range:   Range{Start: loc[0], End: loc[1]},
			Syntax:  []Range{{Start: loc[2], End: loc[3]}},
			Content: Range{Start: loc[4], End: loc[5]},
		})
	}
	return out
}

func boldMatches(text string) []Match {
	idx := boldRE.FindAllStringSubmatchIndex(text, -1)
	if len(idx) == 0 {
		return nil
	}
	out := make([]Match, 0, len(idx))
	for _, loc := range idx {
		out = append(out, Match{
			Range: Range{Start: loc[0], End: loc[1]},
			Syntax: []Range{
				{Start: loc[2], End: loc[3]},
				{Start: loc[6], End: loc[7]},
			},
			Content: Range{Start: loc[4], End: loc[5]},
		})
	}
	return out
}

// IsTodoLine reports whether line (without trailing newline) starts with a
// to-do marker, and returns the content after the marker. The restyler and
// the edit controller's list continuation share this single definition.
func IsTodoLine(line string) (content string, checked bool, ok bool) {
	if m := todoUncheckedRE.FindStringSubmatchIndex(line); m != nil && m[0] == 0 {
		return line[m[4]:m[5]], false, true
	}
	if m := todoCheckedRE.FindStringSubmatchIndex(line); m != nil && m[0] == 0 {
		return line[m[4]:m[5]], true, true
	}
	return "", false, false
}

// LineAt returns the bounds of the line containing byte offset off, not
// including the trailing newline. Offsets past the end address the last line.
func LineAt(text string, off int) Range {
	if off < 0 {
		off = 0
	}
	if off > len(text) {
		off = len(text)
	}
	start := 0
	for i := off - 1; i >= 0; i-- {
		if text[i] == '\n' {
			start = i + 1
			break
		}
	}
	end := len(text)
	for i := off; i < len(text); i++ {
		if text[i] == '\n' {
			end = i
			break
		}
	}
	return Range{Start: start, End: end}
}
