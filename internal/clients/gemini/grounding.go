package gemini

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"

	"github.com/bobmcallan/stockbrief/internal/models"
)

// groundingCitations numbers the web chunks 1..n in response order.
func groundingCitations(gm *genai.GroundingMetadata) []models.Citation {
	citations := make([]models.Citation, 0, len(gm.GroundingChunks))
	for i, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		citations = append(citations, models.Citation{
			Index: i + 1,
			Title: chunk.Web.Title,
			URL:   chunk.Web.URI,
		})
	}
	return citations
}

// insertMarkers appends "[n]" after every grounded segment. Segment end
// offsets are byte offsets into text.
func insertMarkers(text string, gm *genai.GroundingMetadata) string {
	markers := map[int][]int{}
	for _, support := range gm.GroundingSupports {
		if support == nil || support.Segment == nil || len(support.GroundingChunkIndices) == 0 {
			continue
		}
		end := int(support.Segment.EndIndex)
		if end <= 0 || end > len(text) {
			continue
		}
		for end < len(text) && !utf8.RuneStart(text[end]) {
			end++
		}
		for _, idx := range support.GroundingChunkIndices {
			if int(idx) < 0 || int(idx) >= len(gm.GroundingChunks) {
				continue
			}
			markers[end] = appendUnique(markers[end], int(idx)+1)
		}
	}
	if len(markers) == 0 {
		return text
	}

	offsets := make([]int, 0, len(markers))
	for off := range markers {
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)

	var sb strings.Builder
	prev := 0
	for _, off := range offsets {
		sb.WriteString(text[prev:off])
		for _, n := range markers[off] {
			fmt.Fprintf(&sb, "[%d]", n)
		}
		prev = off
	}
	sb.WriteString(text[prev:])
	return sb.String()
}

func appendUnique(list []int, n int) []int {
	for _, v := range list {
		if v == n {
			return list
		}
	}
	return append(list, n)
}
