package processing

import (
	"strings"
)

// CodeFence marks a fenced code block in model output.
const CodeFence = "```"

var (
	// charStripper drops '*', '#' and ':' byte for byte, leaving any
	// invalid UTF-8 around them untouched
	charStripper = strings.NewReplacer("*", "", "#", "", ":", "")

	// stripSequence is removed after stripChars, so "0#39" also goes
	stripSequence = "039"

	// htmlEscaper differs from html.EscapeString, which writes &#39; and &#34;
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
	)
)

// Strip removes every '*', '#' and ':' and then every "039".
func Strip(text string) string {
	return strings.ReplaceAll(charStripper.Replace(text), stripSequence, "")
}

// Escape replaces the five HTML-significant characters with entities.
func Escape(text string) string {
	return htmlEscaper.Replace(text)
}

// WrapCodeBlock wraps text in <pre><code> when it contains a code fence.
func WrapCodeBlock(text string) string {
	if !strings.Contains(text, CodeFence) {
		return text
	}
	return "<pre><code>" + text + "</code></pre>"
}

// Sanitize runs Strip, Escape and WrapCodeBlock in that order.
//
// Strip runs first, so a quote escaped to &#039; keeps its digits, while a
// literal "039" in the completion is gone before escaping.
func Sanitize(text string) string {
	return WrapCodeBlock(Escape(Strip(text)))
}
