package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"shopguide-backend/lib/textutil"
)

// GetText returns the concatenated text content of a node tree.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText extracts the text of a selection with non-printable runes
// dropped and whitespace collapsed. An empty selection yields "".
func CleanText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	text := removeNonPrintable(sel.Text())
	return textutil.CollapseWhitespace(text)
}

// FirstText walks a list of selector candidates in priority order and
// returns the cleaned text of the first one that matches with non-empty
// text, along with the selector that won. Returns ("", "") when every
// candidate comes up empty.
func FirstText(scope *goquery.Selection, selectors []string) (string, string) {
	for _, selector := range selectors {
		text := CleanText(scope.Find(selector).First())
		if text != "" {
			return text, selector
		}
	}
	return "", ""
}
