package fkd

import (
	"bytes"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
)

// labelCellColor marks the left-hand label cells of the case table.
const labelCellColor = "#DFE9F2"

var (
	caseIDRe = regexp.MustCompile(`/cf/(\w+)\.html`)
	dateRe   = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`)
	intRe    = regexp.MustCompile(`\d+`)
	// Numbered knowledge lists use ASCII or full-width digits with
	// either period form.
	numberedItemRe = regexp.MustCompile(`^[0-9０-９]+[．.]\s*`)
)

// requiredFields maps the archive's required labels to their record
// fields, in presentation order. シナリオ is validated separately since
// it lives on its own page.
var requiredFields = []struct {
	label string
	get   func(*Case) string
}{
	{"事例概要", func(c *Case) string { return c.Summary }},
	{"経過", func(c *Case) string { return c.Process }},
	{"原因", func(c *Case) string { return c.Cause }},
	{"対策", func(c *Case) string { return c.Countermeasure }},
}

// MissingFieldsError reports a case that lacks required fields. The
// pipeline records these as exclusions, not failures.
type MissingFieldsError struct {
	CaseID        string
	CaseName      string
	URL           string
	MissingLabels []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("case %s missing required fields: %s", e.CaseID, strings.Join(e.MissingLabels, ", "))
}

// CaseID extracts the case identifier from a case page URL
// (e.g. https://www.shippai.org/fkd/cf/CZ0200703.html → CZ0200703).
func CaseID(url string) (string, error) {
	if m := caseIDRe.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	return "", errors.New(errors.ErrCodeInvalidURL, "no case ID in %q", url)
}

// ParseCasePage parses a case page into a Case and returns the absolute
// URL of its scenario page, or "" when the page links none. The
// returned Case has an empty Scenario; the caller fetches and segments
// the scenario page separately.
func ParseCasePage(data []byte, caseURL string) (*Case, string, error) {
	caseID, err := CaseID(caseURL)
	if err != nil {
		return nil, "", err
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "case page is not parseable HTML")
	}

	fields, multimedia := collectFields(doc)

	get := func(label string) string {
		if td, ok := fields[label]; ok {
			return text(td)
		}
		return ""
	}
	getFlow := func(label string) string {
		if td, ok := fields[label]; ok {
			return flowText(td)
		}
		return ""
	}

	c := &Case{
		CaseID:          caseID,
		URL:             caseURL,
		CaseName:        get("事例名称"),
		Date:            normalizeDate(get("事例発生日付")),
		Location:        get("事例発生地"),
		Facility:        get("事例発生場所"),
		Summary:         get("事例概要"),
		Phenomenon:      get("事象"),
		Process:         getFlow("経過"),
		Cause:           getFlow("原因"),
		Response:        getFlow("対処"),
		Countermeasure:  getFlow("対策"),
		Background:      getFlow("背景"),
		FinancialDamage: get("被害金額"),
		SocialImpact:    get("社会への影響"),
		Notes:           get("備考"),
		Field:           get("分野"),
		Knowledge:       []string{},
		Sources:         []string{},
		Authors:         []string{},
		Casualties: Casualties{
			Deaths:   leadingInt(get("死者数")),
			Injuries: leadingInt(get("負傷者数")),
		},
	}

	if td, ok := fields["知識化"]; ok {
		c.Knowledge = parseKnowledge(text(td))
	}
	if td, ok := fields["情報源"]; ok {
		c.Sources = splitLines(text(td))
	}
	if authors := getFlow("データ作成者"); authors != "" {
		// The archive pads author names with non-breaking spaces.
		c.Authors = splitLines(strings.ReplaceAll(authors, " ", " "))
	}

	c.Images.Representative = representativeImage(fields)
	c.Images.Multimedia = multimedia

	return c, scenarioURL(doc, fields, caseURL), nil
}

// ValidateRequired checks the archive's required narrative fields plus
// the scenario, returning a MissingFieldsError wrapped with the
// MISSING_FIELDS code when any are absent.
func ValidateRequired(c *Case) error {
	var missing []string
	for _, f := range requiredFields {
		if f.get(c) == "" {
			missing = append(missing, f.label)
		}
	}
	if c.Scenario.Empty() {
		missing = append(missing, "シナリオ")
	}
	if len(missing) == 0 {
		return nil
	}
	mfe := &MissingFieldsError{
		CaseID:        c.CaseID,
		CaseName:      c.CaseName,
		URL:           c.URL,
		MissingLabels: missing,
	}
	return errors.Wrap(errors.ErrCodeMissingFields, mfe, "required fields absent")
}

// collectFields walks the case table and returns label → value-cell,
// plus all multimedia attachments. A row counts when its first cell
// carries the label background color; the value is the row's last cell
// (label rows may hold a spacer cell between the two).
func collectFields(doc *html.Node) (map[string]*html.Node, []Multimedia) {
	fields := make(map[string]*html.Node)
	var multimedia []Multimedia
	seen := make(map[string]bool)

	addAttachment := func(href, caption string) {
		id := strings.TrimSuffix(path.Base(href), path.Ext(href))
		key := id + "\x00" + caption
		if seen[key] {
			return
		}
		seen[key] = true
		multimedia = append(multimedia, Multimedia{ID: id, Caption: caption})
	}

	rows := findAll(doc, func(n *html.Node) bool { return isElement(n, "tr") })
	for _, row := range rows {
		tds := childElements(row, "td")
		if len(tds) < 2 {
			continue
		}
		labelTD, valueTD := tds[0], tds[len(tds)-1]
		if !strings.EqualFold(attr(labelTD, "bgcolor"), labelCellColor) {
			continue
		}
		label := text(labelTD)
		if label == "マルチメディアファイル" {
			// Attachments span several rows via rowspan; the
			// continuation rows are picked up below.
			if a := findFirst(valueTD, func(n *html.Node) bool { return isElement(n, "a") }); a != nil {
				addAttachment(attr(a, "href"), text(a))
			}
			continue
		}
		fields[label] = valueTD
	}

	// Continuation rows lost their label cell to the rowspan, so catch
	// any remaining /mf/ links wherever they sit.
	for _, a := range findAll(doc, func(n *html.Node) bool { return isElement(n, "a") }) {
		if href := attr(a, "href"); strings.Contains(href, "/mf/") {
			addAttachment(href, text(a))
		}
	}

	return fields, multimedia
}

// representativeImage returns the 代表図 filename, e.g. DZ0200703.jpg.
func representativeImage(fields map[string]*html.Node) string {
	td, ok := fields["代表図"]
	if !ok {
		return ""
	}
	img := findFirst(td, func(n *html.Node) bool { return isElement(n, "img") })
	if img == nil {
		return ""
	}
	return path.Base(attr(img, "src"))
}

// scenarioURL locates the scenario page link: preferably from the
// シナリオ field, else any /sf/ link on the page.
func scenarioURL(doc *html.Node, fields map[string]*html.Node, caseURL string) string {
	if td, ok := fields["シナリオ"]; ok {
		if a := findFirst(td, func(n *html.Node) bool { return isElement(n, "a") }); a != nil {
			return resolveURL(caseURL, attr(a, "href"))
		}
	}
	for _, a := range findAll(doc, func(n *html.Node) bool { return isElement(n, "a") }) {
		if href := attr(a, "href"); strings.Contains(href, "/sf/") {
			return resolveURL(caseURL, href)
		}
	}
	return ""
}

// parseKnowledge splits the 知識化 cell into items. The archive uses
// three formats: bullet lines (・), numbered lines, or free prose
// treated as a single item. Continuation lines append to the previous
// item.
func parseKnowledge(s string) []string {
	if s == "" {
		return []string{}
	}
	var items []string

	switch {
	case strings.Contains(s, "・"):
		for _, line := range strings.Split(s, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "・"):
				items = append(items, strings.TrimSpace(strings.TrimPrefix(line, "・")))
			case line != "" && len(items) > 0:
				items[len(items)-1] += line
			}
		}
	case hasNumberedLine(s):
		var current []string
		for _, line := range strings.Split(s, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if numberedItemRe.MatchString(line) {
				if len(current) > 0 {
					items = append(items, strings.Join(current, ""))
				}
				current = []string{numberedItemRe.ReplaceAllString(line, "")}
			} else if len(current) > 0 {
				current = append(current, line)
			}
		}
		if len(current) > 0 {
			items = append(items, strings.Join(current, ""))
		}
	default:
		items = []string{s}
	}
	return items
}

func hasNumberedLine(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		if numberedItemRe.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

// normalizeDate converts YYYY年M月D日 to YYYY-MM-DD, passing through
// anything else (era dates, ranges, free text) unchanged.
func normalizeDate(s string) string {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
}

// leadingInt extracts the first integer in s, or 0. Casualty cells read
// like "3名" or "負傷者3名、うち重傷1名".
func leadingInt(s string) int {
	m := intRe.FindString(s)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	if out == nil {
		return []string{}
	}
	return out
}
