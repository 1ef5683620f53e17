package transform

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanHTML strips class and style attributes from p, span and div elements and
// drops <style> blocks, leaving the rest of the markup as is.
func CleanHTML(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", err
	}

	doc.Find("p, span, div").RemoveAttr("class").RemoveAttr("style")
	doc.Find("style").Remove()

	return doc.Find("body").Html()
}
