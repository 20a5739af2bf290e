package parseresult

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// StripHTML returns the text content of markup with whitespace collapsed.
// Markup that cannot be tokenized yields "".
func StripHTML(markup string) string {
	text, err := textContent(markup)
	if err != nil {
		return ""
	}
	return collapseWhitespace(text)
}

func textContent(markup string) (string, error) {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return b.String(), nil
		case html.StartTagToken:
			if isSkippedTag(tokenizer) {
				skipDepth++
			}
		case html.EndTagToken:
			if skipDepth > 0 && isSkippedTag(tokenizer) {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}

func isSkippedTag(tokenizer *html.Tokenizer) bool {
	name, _ := tokenizer.TagName()
	switch string(name) {
	case "script", "style", "template":
		return true
	default:
		return false
	}
}

func collapseWhitespace(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = blankLineRun.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
