package fkd

import (
	"bytes"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala"
)

var itemNumberRe = regexp.MustCompile(`^(\d+)\.`)

// TokenizeScenario turns a scenario page into the ordered token stream
// the segmenter consumes: item texts in number order, with a marker
// token wherever the page draws a separator rule.
//
// The page lays the mandala out as a table: each numbered item is a row
// whose third cell holds the text, and each separator rule is an <img>
// row indented by a spacer image. The rule's vertical position is not
// in the markup directly; it is encoded by the spacer width, which
// grows by 20px per three-item group from a 15px base. Solving that
// back gives the item number the rule follows.
func TokenizeScenario(data []byte) ([]mandala.Token, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "scenario page is not parseable HTML")
	}

	// The mandala occupies the left 60% column; fall back to the whole
	// page when the frame differs.
	root := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, "td") &&
			attr(n, "valign") == "top" &&
			strings.Contains(attr(n, "width"), "60%")
	})
	if root == nil {
		root = doc
	}

	type numberedItem struct {
		num  int
		text string
	}
	type separator struct {
		afterItem int
		asset     string
	}
	var items []numberedItem
	var separators []separator

	for _, b := range findAll(root, func(n *html.Node) bool { return isElement(n, "b") }) {
		m := itemNumberRe.FindStringSubmatch(text(b))
		if m == nil {
			continue
		}
		row := parentElement(b, "tr")
		if row == nil {
			continue
		}
		tds := childElements(row, "td")
		if len(tds) < 3 {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		items = append(items, numberedItem{num: num, text: text(tds[2])})
	}

	for _, img := range findAll(root, func(n *html.Node) bool { return isElement(n, "img") }) {
		src := attr(img, "src")
		if !mandala.IsSeparatorAsset(src) {
			continue
		}
		row := parentElement(img, "tr")
		if row == nil {
			continue
		}
		spacer := findFirst(row, func(n *html.Node) bool {
			return isElement(n, "img") && strings.Contains(attr(n, "src"), "space.gif")
		})
		if spacer == nil {
			continue
		}
		w, err := strconv.Atoi(attr(spacer, "width"))
		if err != nil {
			continue
		}
		// Spacer widths run 15, 35, 55, ... one step per group of 3.
		group := (w - 15) / 20
		separators = append(separators, separator{afterItem: (group + 1) * 3, asset: src})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].num < items[j].num })
	sort.SliceStable(separators, func(i, j int) bool { return separators[i].afterItem < separators[j].afterItem })

	var tokens []mandala.Token
	si := 0
	for _, item := range items {
		tokens = append(tokens, mandala.Item(item.text))
		for si < len(separators) && separators[si].afterItem <= item.num {
			tokens = append(tokens, mandala.Marker(separators[si].asset))
			si++
		}
	}
	// Trailing rules after the last item still become markers; the
	// segmenter treats an empty boundary as a no-op.
	for ; si < len(separators); si++ {
		tokens = append(tokens, mandala.Marker(separators[si].asset))
	}
	return tokens, nil
}
