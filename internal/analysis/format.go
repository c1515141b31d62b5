package analysis

import (
	"html"
	"regexp"
	"strings"
)

const lineBreak = "<br>"

var numberedItem = regexp.MustCompile(`\d+\. `)

// FormatBody converts section body text into an HTML fragment. The text is
// escaped, newlines become <br>, and the first "- " or "N. " marker on each
// line turns the rest of that line into a list item. Bodies containing any
// list item are wrapped in a <ul>.
func FormatBody(text string) string {
	formatted := html.EscapeString(strings.TrimSpace(text))
	formatted = strings.ReplaceAll(formatted, "\n", lineBreak)

	segments := strings.Split(formatted, lineBreak)
	for i, seg := range segments {
		seg = wrapListItem(seg, strings.Index(seg, "- "), 2)
		if loc := numberedItem.FindStringIndex(seg); loc != nil {
			seg = wrapListItem(seg, loc[0], loc[1]-loc[0])
		}
		segments[i] = seg
	}
	formatted = strings.Join(segments, lineBreak)

	if strings.Contains(formatted, "<li>") {
		formatted = `<ul class="mb-0">` + formatted + `</ul>`
	}
	return formatted
}

// wrapListItem replaces the marker of length n at idx and everything after it
// with a list item holding the remainder of the segment.
func wrapListItem(seg string, idx, n int) string {
	if idx < 0 {
		return seg
	}
	return seg[:idx] + "<li>" + seg[idx+n:] + "</li>"
}
