package document

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/stockbrief/internal/models"
)

func TestLinkCitations(t *testing.T) {
	citations := []models.Citation{{Index: 1, URL: "http://x"}}

	got := LinkCitations("See [1] for detail", citations)
	assert.Contains(t, got, "[[1](http://x)]")
	assert.Equal(t, "See [[1](http://x)] for detail", got)

	assert.Equal(t, "See [2] for detail", LinkCitations("See [2] for detail", citations))
}

func TestLinkCitations_IdentityWithoutMarkers(t *testing.T) {
	texts := []string{
		"",
		"매출이 증가했다.",
		"brackets [a] and [ 1 ] are not markers",
	}
	citations := []models.Citation{{Index: 1, Title: "t", URL: "http://x"}}
	for _, text := range texts {
		assert.Equal(t, text, LinkCitations(text, citations))
	}
}

func TestLinkCitations_SkipsCitationsWithoutURL(t *testing.T) {
	citations := []models.Citation{
		{Index: 1, Title: "no url"},
		{Index: 2, Title: "with url", URL: "https://b"},
	}

	assert.Equal(t, "a[1] b[[2](https://b)]", LinkCitations("a[1] b[2]", citations))
}

func TestLinkCitations_Idempotent(t *testing.T) {
	citations := []models.Citation{{Index: 3, URL: "https://c"}}

	once := LinkCitations("x[3][3]", citations)
	assert.Equal(t, "x[[3](https://c)][[3](https://c)]", once)
	assert.Equal(t, once, LinkCitations(once, citations))
}

func TestCitationList(t *testing.T) {
	got := CitationList([]models.Citation{
		{Index: 3, Title: "c"},
		{Index: 0, Title: "no index"},
		{Index: 2, Title: ""},
		{Index: 1, Title: "a", URL: "https://a"},
	})

	assert.Equal(t, []models.Citation{
		{Index: 1, Title: "a", URL: "https://a"},
		{Index: 3, Title: "c"},
	}, got)
}
