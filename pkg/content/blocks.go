package content

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// BlockKind identifies the two node types of the HTML subset drafts are
// built from.
type BlockKind int

const (
	KindHeading BlockKind = iota
	KindParagraph
)

// Block is one heading or paragraph node. Level is only meaningful for
// headings (1..3).
type Block struct {
	Kind  BlockKind
	Level int
	Text  string
}

// Document is an ordered list of blocks. All text mutation in the pipeline
// happens on Documents rather than raw HTML strings.
type Document struct {
	Blocks []Block
}

var (
	blockPattern = regexp.MustCompile(`(?s)<(h[1-6]|p)>(.*?)</(h[1-6]|p)>`)
	tagPattern   = regexp.MustCompile(`<[^>]+>`)
)

// Parse reads the strict heading/paragraph subset back into a Document.
// Unknown markup between blocks is ignored.
func Parse(html string) *Document {
	doc := &Document{}
	for _, m := range blockPattern.FindAllStringSubmatch(html, -1) {
		tag, text := m[1], strings.TrimSpace(m[2])
		if strings.HasPrefix(tag, "h") {
			level := int(tag[1] - '0')
			doc.Blocks = append(doc.Blocks, Block{Kind: KindHeading, Level: level, Text: text})
		} else {
			doc.Blocks = append(doc.Blocks, Block{Kind: KindParagraph, Text: text})
		}
	}
	return doc
}

// HTML renders the document, one block per line, in input order.
func (d *Document) HTML() string {
	var sb strings.Builder
	for i, b := range d.Blocks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		switch b.Kind {
		case KindHeading:
			fmt.Fprintf(&sb, "<h%d>%s</h%d>", b.Level, b.Text, b.Level)
		default:
			fmt.Fprintf(&sb, "<p>%s</p>", b.Text)
		}
	}
	return sb.String()
}

// PlainText strips all markup, preserving line breaks between blocks.
func (d *Document) PlainText() string {
	texts := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		texts = append(texts, tagPattern.ReplaceAllString(b.Text, ""))
	}
	return strings.Join(texts, "\n")
}

// CharCount returns the plain-text length in characters, not bytes.
func (d *Document) CharCount() int {
	return utf8.RuneCountInString(d.PlainText())
}

// WordCount returns the number of whitespace-separated words in plain text.
func (d *Document) WordCount() int {
	return len(strings.Fields(d.PlainText()))
}

// Clone returns an independent copy so optimization stays side-effect-free.
func (d *Document) Clone() *Document {
	blocks := make([]Block, len(d.Blocks))
	copy(blocks, d.Blocks)
	return &Document{Blocks: blocks}
}

// AppendToClosingParagraph appends a sentence to the last paragraph block,
// the natural place for filler that should not disturb section structure.
// Returns false when the document has no paragraph to extend.
func (d *Document) AppendToClosingParagraph(sentence string) bool {
	for i := len(d.Blocks) - 1; i >= 0; i-- {
		if d.Blocks[i].Kind == KindParagraph {
			d.Blocks[i].Text += sentence
			return true
		}
	}
	return false
}

// StripTags removes markup from an HTML fragment.
func StripTags(html string) string {
	return tagPattern.ReplaceAllString(html, "")
}
