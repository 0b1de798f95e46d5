package normalisers

import (
	"html"
	"regexp"
	"strings"
)

// HTML patterns.
var (
	anyTag       = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	listItems    = regexp.MustCompile(`(?i)<li[^>]*>`)
	blockTags    = regexp.MustCompile(`(?i)</?(p|div|ul|ol|li|h[1-6]|blockquote|table|tr)[^>]*>`)
	brTags       = regexp.MustCompile(`(?i)<br\s*/?>`)
)

// Markdown patterns.
var (
	codeFence    = regexp.MustCompile("(?s)```[^\n]*\n?(.*?)```")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	images       = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	strong       = regexp.MustCompile(`(\*\*|__)(\S(?:.*?\S)?)(\*\*|__)`)
	emphasis     = regexp.MustCompile(`(^|[^\w*])[*_](\S(?:[^*_]*?\S)?)[*_]([^\w*]|$)`)
	blockquote   = regexp.MustCompile(`(?m)^\s*>\s?`)
	rules        = regexp.MustCompile(`(?m)^\s*[-*_]{3,}\s*$`)
	bullets      = regexp.MustCompile(`(?m)^(\s*)[-*+]\s+`)
	multiSpaces  = regexp.MustCompile(`[ \t]+`)
	blankLines   = regexp.MustCompile(`\n{2,}`)
)

// PlainText strips markdown or HTML formatting from s. Bullets become
// "• " and paragraphs are kept on their own lines.
func PlainText(s string) string {
	if anyTag.MatchString(s) {
		s = stripHTML(s)
	} else {
		s = stripMarkdown(s)
	}
	return tidy(s)
}

// Inline is PlainText collapsed onto a single line.
func Inline(s string) string {
	return strings.Join(strings.Fields(PlainText(s)), " ")
}

func stripHTML(s string) string {
	s = scriptTag.ReplaceAllString(s, "")
	s = styleTag.ReplaceAllString(s, "")
	s = htmlComments.ReplaceAllString(s, "")

	s = listItems.ReplaceAllString(s, "\n• ")
	s = brTags.ReplaceAllString(s, "\n")
	s = blockTags.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, "")

	return html.UnescapeString(s)
}

func stripMarkdown(s string) string {
	s = codeFence.ReplaceAllString(s, "$1")
	s = inlineCode.ReplaceAllString(s, "$1")
	s = images.ReplaceAllString(s, "$1")
	s = links.ReplaceAllString(s, "$1")
	s = headings.ReplaceAllString(s, "")
	s = rules.ReplaceAllString(s, "")
	s = blockquote.ReplaceAllString(s, "")
	s = bullets.ReplaceAllString(s, "$1• ")

	s = strong.ReplaceAllString(s, "$2")
	// Emphasis markers can share a boundary character, so run twice.
	s = emphasis.ReplaceAllString(s, "$1$2$3")
	s = emphasis.ReplaceAllString(s, "$1$2$3")

	return s
}

// tidy trims each line and collapses blank runs.
func tidy(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(multiSpaces.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n")

	return strings.TrimSpace(s)
}
