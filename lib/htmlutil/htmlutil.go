package htmlutil

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

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

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func NormalizeText(s string) string {
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// RequireOne resolves `selector` within `sel` and errors if there is no
// match. missing markup is a hard failure for scraping, not something
// to silently skip.
func RequireOne(sel *goquery.Selection, selector string) (*goquery.Selection, error) {
	found := sel.Find(selector)
	if len(found.Nodes) == 0 {
		return nil, fmt.Errorf("missing expected element '%s'", selector)
	}
	return found.First(), nil
}

// RequireAttr reads an attribute off the first node of `sel` and errors
// if it is absent or empty.
func RequireAttr(sel *goquery.Selection, name string) (string, error) {
	val, ok := sel.Attr(name)
	if !ok || val == "" {
		return "", fmt.Errorf("missing expected attribute '%s'", name)
	}
	return val, nil
}

// InputValue reads the `value` attribute of an <input> identified by its
// `name` attribute.
func InputValue(doc *goquery.Document, name string) (string, error) {
	input, err := RequireOne(doc.Selection, fmt.Sprintf("input[name='%s']", name))
	if err != nil {
		return "", err
	}
	// an empty profile field still carries a value attribute, so unlike
	// RequireAttr an empty string is fine here
	val, ok := input.Attr("value")
	if !ok {
		return "", fmt.Errorf("input '%s' has no value attribute", name)
	}
	return val, nil
}
