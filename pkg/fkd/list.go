package fkd

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
)

// ParseCaseList reads an index page and returns the case pages it links
// to, in page order. Index pages list cases as anchors inside
// <ul class="list_all">.
func ParseCaseList(data []byte, listURL string) ([]CaseRef, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "list page is not parseable HTML")
	}

	list := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, "ul") && hasClass(n, "list_all")
	})
	if list == nil {
		return nil, nil
	}

	var refs []CaseRef
	for _, a := range findAll(list, func(n *html.Node) bool { return isElement(n, "a") }) {
		href := attr(a, "href")
		if !strings.Contains(href, "/cf/") {
			continue
		}
		full := resolveURL(listURL, href)
		id, err := CaseID(full)
		if err != nil {
			continue
		}
		refs = append(refs, CaseRef{CaseID: id, Title: text(a), URL: full})
	}
	return refs, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
