package document

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is one titled part of an instrument report. The untitled lead
// paragraph of a report is a Section with Lead set.
type Section struct {
	Title string
	Body  string
	Lead  bool
}

var (
	atxHeading2    = regexp.MustCompile(`^ {0,3}##(?:[ \t]+(.*))?$`)
	closingHashes  = regexp.MustCompile(`(?:^|[ \t]+)#+[ \t]*$`)
	blankLineSplit = regexp.MustCompile(`\n[ \t]*\n`)
)

// ParseSections splits a report into sections.
//
//	document := preamble? section*
//	section  := "##" heading line, body
//
// Only level-two ATX headings outside code and HTML blocks open a section.
// A preamble without "**" is the lead; a preamble with "**" is a section
// titled by its first blank-line separated block. Blank segments are dropped.
func ParseSections(report string) []Section {
	src := strings.ReplaceAll(report, "\r\n", "\n")
	opaque := opaqueRanges([]byte(src))

	type heading struct {
		start, bodyStart int
		title            string
	}
	var headings []heading

	offset := 0
	for _, line := range strings.SplitAfter(src, "\n") {
		start := offset
		offset += len(line)

		content := strings.TrimRight(line, "\n")
		m := atxHeading2.FindStringSubmatch(content)
		if m == nil || overlaps(opaque, start, start+len(content)) {
			continue
		}
		headings = append(headings, heading{start: start, bodyStart: offset, title: headingTitle(m[1])})
	}

	var sections []Section

	preambleEnd := len(src)
	if len(headings) > 0 {
		preambleEnd = headings[0].start
	}
	if s, ok := preambleSection(src[:preambleEnd]); ok {
		sections = append(sections, s)
	}

	for i, h := range headings {
		end := len(src)
		if i+1 < len(headings) {
			end = headings[i+1].start
		}
		body := trimBlankLines(src[h.bodyStart:end])
		if h.title == "" && body == "" {
			continue
		}
		sections = append(sections, Section{Title: h.title, Body: body})
	}

	return sections
}

func headingTitle(raw string) string {
	t := closingHashes.ReplaceAllString(raw, "")
	return strings.TrimSpace(strings.ReplaceAll(t, "**", ""))
}

func preambleSection(raw string) (Section, bool) {
	p := trimBlankLines(raw)
	if p == "" {
		return Section{}, false
	}
	if !strings.Contains(p, "**") {
		return Section{Body: p, Lead: true}, true
	}

	blocks := blankLineSplit.Split(p, -1)
	title := strings.TrimSpace(strings.ReplaceAll(blocks[0], "**", ""))
	body := trimBlankLines(strings.Join(blocks[1:], "\n\n"))
	return Section{Title: title, Body: body}, true
}

// trimBlankLines removes leading blank lines and trailing whitespace while
// keeping the indentation of the first non-blank line.
func trimBlankLines(s string) string {
	s = strings.TrimRight(s, " \t\n")
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 || strings.TrimSpace(s[:i]) != "" {
			break
		}
		s = s[i+1:]
	}
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

type byteRange struct{ start, stop int }

// opaqueRanges returns the source spans of code and HTML blocks, inside
// which "##" lines are content rather than headings.
func opaqueRanges(src []byte) []byteRange {
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var ranges []byteRange
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
			lines := n.Lines()
			if lines.Len() > 0 {
				ranges = append(ranges, byteRange{start: lines.At(0).Start, stop: lines.At(lines.Len() - 1).Stop})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return ranges
}

func overlaps(ranges []byteRange, start, stop int) bool {
	for _, r := range ranges {
		if start < r.stop && stop > r.start {
			return true
		}
	}
	return false
}
