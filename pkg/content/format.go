package content

import (
	"strings"
	"unicode/utf8"
)

// maxHeadingLevel clamps generator headings so drafts never use h4+.
const maxHeadingLevel = 3

// minParagraphChars is the threshold below which a bare line is treated as
// noise (separators, stray list markers) and dropped.
const minParagraphChars = 10

// Format converts loosely structured generator output into the strict
// heading/paragraph subset. It is pure and total: any input yields a
// document, possibly empty.
//
// A line starting with one or more '#' markers becomes a heading whose level
// equals the marker count, clamped to 3. Any other line longer than 10
// characters becomes a paragraph. Output order follows input order.
func Format(raw string) *Document {
	doc := &Document{}

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			level := leadingMarkerCount(line)
			if level > maxHeadingLevel {
				level = maxHeadingLevel
			}
			title := strings.TrimSpace(strings.TrimLeft(line, "#"))
			if title == "" {
				continue
			}
			doc.Blocks = append(doc.Blocks, Block{Kind: KindHeading, Level: level, Text: title})
			continue
		}

		if utf8.RuneCountInString(line) > minParagraphChars {
			doc.Blocks = append(doc.Blocks, Block{Kind: KindParagraph, Text: line})
		}
	}

	return doc
}

func leadingMarkerCount(line string) int {
	count := 0
	for _, r := range line {
		if r != '#' {
			break
		}
		count++
	}
	return count
}
