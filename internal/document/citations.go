// Package document turns analysis results into a paginated PDF report.
package document

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bobmcallan/stockbrief/internal/models"
)

var citationMarker = regexp.MustCompile(`\[(\d+)\]`)

// LinkCitations rewrites "[n]" as the markdown link "[[n](url)]" when a
// citation with index n carries a URL. Unmatched markers and markers that are
// already link text are left alone.
func LinkCitations(text string, citations []models.Citation) string {
	urls := make(map[int]string, len(citations))
	for _, c := range citations {
		if c.URL != "" {
			urls[c.Index] = c.URL
		}
	}
	if len(urls) == 0 {
		return text
	}

	matches := citationMarker.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var sb strings.Builder
	prev := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 && text[start-1] == '[' && end < len(text) && text[end] == '(' {
			continue
		}
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		url, ok := urls[n]
		if !ok {
			continue
		}
		sb.WriteString(text[prev:start])
		fmt.Fprintf(&sb, "[[%d](%s)]", n, url)
		prev = end
	}
	sb.WriteString(text[prev:])
	return sb.String()
}

// CitationList returns the citations worth listing, ordered by index.
// Entries without an index or a title are dropped.
func CitationList(citations []models.Citation) []models.Citation {
	out := make([]models.Citation, 0, len(citations))
	for _, c := range citations {
		if c.Index <= 0 || strings.TrimSpace(c.Title) == "" {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
