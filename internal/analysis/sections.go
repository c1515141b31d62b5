package analysis

import "strings"

// Section is a titled run of report lines.
type Section struct {
	// Title is the full trimmed line that opened the section.
	Title string
	Body  []string
}

// Text joins the body lines, each followed by a newline.
func (s Section) Text() string {
	var b strings.Builder
	for _, line := range s.Body {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (s Section) empty() bool {
	return strings.TrimSpace(s.Text()) == ""
}

// ParseSections splits report into sections opened by lines whose trimmed
// text starts with one of titles. Lines before the first title are dropped
// and sections whose body is blank are not returned.
func ParseSections(report string, titles []string) []Section {
	return parseSections(report, titles, false)
}

func parseSections(report string, titles []string, keepEmpty bool) []Section {
	if report == "" {
		return nil
	}
	report = strings.ReplaceAll(report, "\r\n", "\n")

	var (
		sections []Section
		current  *Section
	)
	flush := func() {
		if current == nil {
			return
		}
		if keepEmpty || !current.empty() {
			sections = append(sections, *current)
		}
	}

	for _, line := range strings.Split(report, "\n") {
		if matchTitle(line, titles) {
			flush()
			current = &Section{Title: strings.TrimSpace(line)}
			continue
		}
		if current != nil {
			current.Body = append(current.Body, line)
		}
	}
	flush()
	return sections
}

func matchTitle(line string, titles []string) bool {
	trimmed := strings.TrimSpace(line)
	for _, title := range titles {
		if title != "" && strings.HasPrefix(trimmed, title) {
			return true
		}
	}
	return false
}

// Normalize cleans raw model output before it is rendered: markdown emphasis
// and bullet glyphs are removed, and titles the model wrote without their
// trailing colon get it back.
func Normalize(text string, titles []string) string {
	text = strings.ReplaceAll(text, "*", "")
	text = strings.ReplaceAll(text, "•", "")
	for _, title := range titles {
		if strings.Contains(text, title) {
			continue
		}
		base := strings.ReplaceAll(title, ":", "")
		if base == "" {
			continue
		}
		text = strings.ReplaceAll(text, base, title)
	}
	return text
}

// OrderedSection is one structured section of an analysis, keyed by its
// canonical title.
type OrderedSection struct {
	Title   string `json:"section_title"`
	Content string `json:"section_content"`
	Order   int    `json:"section_order"`
}

// SplitStructured groups report content under the canonical titles. Unlike
// ParseSections the title line itself is never content, blank lines are
// skipped, repeated titles accumulate into one section and the output
// follows the order of titles.
func SplitStructured(report string, titles []string) []OrderedSection {
	report = strings.ReplaceAll(report, "\r\n", "\n")
	content := make(map[string]*strings.Builder, len(titles))
	current := ""

	for _, line := range strings.Split(report, "\n") {
		trimmed := strings.TrimSpace(line)
		found := false
		for _, title := range titles {
			if title != "" && strings.HasPrefix(trimmed, title) {
				current = title
				found = true
				break
			}
		}
		if found || current == "" || trimmed == "" {
			continue
		}
		b, ok := content[current]
		if !ok {
			b = &strings.Builder{}
			content[current] = b
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var out []OrderedSection
	for i, title := range titles {
		b, ok := content[title]
		if !ok {
			continue
		}
		text := strings.TrimSpace(b.String())
		if text == "" {
			continue
		}
		out = append(out, OrderedSection{Title: title, Content: text, Order: i + 1})
	}
	return out
}
