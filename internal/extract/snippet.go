package extract

import "strings"

// Snippet renders the context around a text span with the span highlighted
// between <<< and >>> markers. maxContext limits how many characters of
// context appear on each side. Newlines are flattened so a snippet always
// fits one output field.
func Snippet(text string, start, end, maxContext int) string {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start > end {
		return ""
	}

	ctxStart := start - maxContext
	if ctxStart < 0 {
		ctxStart = 0
	}
	ctxEnd := end + maxContext
	if ctxEnd > len(text) {
		ctxEnd = len(text)
	}

	snip := text[ctxStart:start] + "<<<" + text[start:end] + ">>>" + text[end:ctxEnd]
	snip = strings.ReplaceAll(snip, "\n", " ")
	snip = strings.ReplaceAll(snip, "\t", " ")
	return snip
}
