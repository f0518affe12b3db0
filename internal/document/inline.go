package document

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// BlockKind classifies a rendered body block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockListItem
	BlockCode
)

// Run is a span of inline text sharing one style.
type Run struct {
	Text string
	Bold bool
	Code bool
	URL  string
}

// Block is one paragraph-level element of a section body.
type Block struct {
	Kind   BlockKind
	Bullet string // list marker, "•" or "3."
	Depth  int    // list nesting, 0 for top level
	Runs   []Run
}

// PlainText concatenates the block's runs.
func (b Block) PlainText() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// ParseBlocks parses a markdown body into styled blocks.
func ParseBlocks(body string) []Block {
	src := []byte(body)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var blocks []Block
	collectBlocks(doc, src, 0, &blocks)
	return blocks
}

func collectBlocks(parent ast.Node, src []byte, depth int, out *[]Block) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		collectNode(n, src, depth, out)
	}
}

func collectNode(n ast.Node, src []byte, depth int, out *[]Block) {
	switch v := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		if runs := inlineRuns(v, src); len(runs) > 0 {
			*out = append(*out, Block{Kind: BlockParagraph, Depth: depth, Runs: runs})
		}
	case *ast.Heading:
		*out = append(*out, Block{Kind: BlockHeading, Runs: inlineRuns(v, src)})
	case *ast.List:
		collectList(v, src, depth, out)
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		var sb strings.Builder
		lines := v.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(src))
		}
		if code := strings.TrimRight(sb.String(), "\n"); code != "" {
			*out = append(*out, Block{Kind: BlockCode, Depth: depth, Runs: []Run{{Text: code, Code: true}}})
		}
	case *ast.ThematicBreak:
	default:
		collectBlocks(n, src, depth, out)
	}
}

func collectList(list *ast.List, src []byte, depth int, out *[]Block) {
	i := 0
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		bullet := "•"
		if list.IsOrdered() {
			bullet = fmt.Sprintf("%d.", list.Start+i)
		}
		i++

		var nested []Block
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if l, ok := c.(*ast.List); ok {
				collectList(l, src, depth+1, &nested)
				continue
			}
			collectNode(c, src, depth, &nested)
		}

		if len(nested) == 0 || nested[0].Kind != BlockParagraph || nested[0].Depth != depth {
			*out = append(*out, Block{Kind: BlockListItem, Bullet: bullet, Depth: depth})
		} else {
			nested[0].Kind = BlockListItem
			nested[0].Bullet = bullet
		}
		*out = append(*out, nested...)
	}
}

type runStyle struct {
	bold bool
	code bool
	url  string
}

// inlineRuns flattens the inline children of n into styled runs.
func inlineRuns(n ast.Node, src []byte) []Run {
	var runs []Run
	collectRuns(n, src, runStyle{}, &runs)
	if len(runs) > 0 {
		last := &runs[len(runs)-1]
		last.Text = strings.TrimRight(last.Text, " \n")
		if last.Text == "" {
			runs = runs[:len(runs)-1]
		}
	}
	return runs
}

func collectRuns(n ast.Node, src []byte, st runStyle, out *[]Run) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			appendRun(out, st, string(v.Segment.Value(src)))
			if v.HardLineBreak() {
				appendRun(out, st, "\n")
			} else if v.SoftLineBreak() {
				appendRun(out, st, " ")
			}
		case *ast.String:
			appendRun(out, st, string(v.Value))
		case *ast.Emphasis:
			inner := st
			if v.Level >= 2 {
				inner.bold = true
			}
			collectRuns(v, src, inner, out)
		case *ast.Link:
			inner := st
			inner.url = string(v.Destination)
			collectRuns(v, src, inner, out)
		case *ast.AutoLink:
			inner := st
			inner.url = string(v.URL(src))
			appendRun(out, inner, string(v.Label(src)))
		case *ast.CodeSpan:
			inner := st
			inner.code = true
			collectRuns(v, src, inner, out)
		case *ast.RawHTML:
		default:
			collectRuns(c, src, st, out)
		}
	}
}

// appendRun merges text into the previous run when the style matches.
func appendRun(out *[]Run, st runStyle, s string) {
	if s == "" {
		return
	}
	if n := len(*out); n > 0 {
		last := &(*out)[n-1]
		if last.Bold == st.bold && last.Code == st.code && last.URL == st.url {
			last.Text += s
			return
		}
	}
	*out = append(*out, Run{Text: s, Bold: st.bold, Code: st.code, URL: st.url})
}
