package report

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/fkd"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala/layout"
)

// A4 layout constants, in millimeters.
const (
	pageMargin = 20.0
	contentW   = 210 - 2*pageMargin
	maxImageW  = 160.0
	maxImageH  = 120.0
)

var urlRe = regexp.MustCompile(`https?://\S+`)

// Option configures a render.
type Option func(*renderer)

// WithFontFile registers a UTF-8 TTF for all text. Required for
// readable Japanese output.
func WithFontFile(path string) Option {
	return func(r *renderer) { r.fontFile = path }
}

// WithImage supplies pre-fetched image bytes keyed by archive filename
// (e.g. DZ0200703.jpg). The report embeds the representative figure and
// multimedia attachments it finds here and prints a placeholder line
// for the rest.
func WithImage(name string, data []byte) Option {
	return func(r *renderer) { r.images[name] = data }
}

type renderer struct {
	pdf      *gofpdf.Fpdf
	font     string
	fontFile string
	images   map[string][]byte
}

// Render writes the case dossier as a PDF to w. plan may be nil when
// the scenario diagram is not wanted; the textual scenario section is
// skipped with it since the serialized groups are already in the JSON
// output.
func Render(w io.Writer, c *fkd.Case, plan *layout.Plan, opts ...Option) error {
	r := &renderer{images: map[string][]byte{}}
	for _, opt := range opts {
		opt(r)
	}

	r.pdf = gofpdf.New("P", "mm", "A4", "")
	r.pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	r.pdf.SetAutoPageBreak(true, pageMargin)
	r.pdf.SetTitle(c.CaseName, true)

	r.font = "Helvetica"
	if r.fontFile != "" {
		r.pdf.AddUTF8Font("jp", "", r.fontFile)
		r.font = "jp"
	}

	r.pdf.AddPage()
	r.titleBlock(c)
	r.metaFields(c)
	r.representative(c)
	r.narrative(c)
	r.scenario(c, plan)
	r.multimedia(c)
	r.sources(c)
	r.damage(c)
	r.trailer(c)

	if err := r.pdf.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "pdf build failed")
	}
	if err := r.pdf.Output(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "pdf write failed")
	}
	return nil
}

func (r *renderer) titleBlock(c *fkd.Case) {
	pdf := r.pdf
	pdf.SetTextColor(85, 85, 85)
	pdf.SetFont(r.font, "", 10)
	pdf.CellFormat(0, 6, "失敗事例", "", 1, "L", false, 0, "")

	pdf.SetTextColor(26, 26, 26)
	pdf.SetFont(r.font, "", 18)
	pdf.MultiCell(0, 9, c.CaseName, "", "C", false)

	pdf.SetDrawColor(44, 62, 80)
	pdf.SetLineWidth(0.4)
	y := pdf.GetY() + 2
	pdf.Line(pageMargin, y, pageMargin+contentW, y)
	pdf.SetY(y + 4)
}

func (r *renderer) metaFields(c *fkd.Case) {
	r.labeled("事例名称", c.CaseName)
	r.labeled("事例発生日付", c.Date)
	r.labeled("事例発生地", c.Location)
	r.labeled("事例発生場所", c.Facility)
	r.pdf.Ln(3)
}

func (r *renderer) representative(c *fkd.Case) {
	name := c.Images.Representative
	if name == "" {
		return
	}
	r.heading("代表図")
	r.image(name, "代表図")
}

func (r *renderer) narrative(c *fkd.Case) {
	sections := []struct {
		title string
		body  string
	}{
		{"事例概要", c.Summary},
		{"事象", c.Phenomenon},
		{"経過", c.Process},
		{"原因", c.Cause},
		{"対処", c.Response},
		{"対策", c.Countermeasure},
	}
	for _, s := range sections {
		if s.body != "" {
			r.section(s.title, s.body)
		}
	}

	if len(c.Knowledge) > 0 {
		var b strings.Builder
		for _, k := range c.Knowledge {
			fmt.Fprintf(&b, "・%s\n", k)
		}
		r.section("知識化", strings.TrimRight(b.String(), "\n"))
	}
	if c.Background != "" {
		r.section("背景", c.Background)
	}
}

func (r *renderer) scenario(c *fkd.Case, plan *layout.Plan) {
	if plan == nil || c.Scenario.Empty() {
		return
	}
	r.heading("シナリオ")
	r.pdf.SetTextColor(102, 102, 102)
	r.pdf.SetFont(r.font, "", 9)
	r.pdf.MultiCell(0, 5,
		"以下は「失敗マンダラ」の概念に従った対角線図です。左上（原因）から右下（結果）へ、時系列に沿って脈絡として展開しています。",
		"", "L", false)
	r.pdf.Ln(2)

	// Fit into the remaining page, or a fresh page when the rest of
	// this one is too small to read.
	_, pageH := r.pdf.GetPageSize()
	avail := pageH - pageMargin - r.pdf.GetY()
	if avail < 60 {
		r.pdf.AddPage()
		avail = pageH - pageMargin - r.pdf.GetY()
	}
	h := drawPlan(r.pdf, plan, r.font, pageMargin, r.pdf.GetY(), contentW, avail)
	r.pdf.SetY(r.pdf.GetY() + h + 5)
}

func (r *renderer) multimedia(c *fkd.Case) {
	if len(c.Images.Multimedia) == 0 {
		return
	}
	r.heading("マルチメディアファイル")
	for _, m := range c.Images.Multimedia {
		caption := m.Caption
		if caption == "" {
			caption = m.ID
		}
		r.image(m.ID+".jpg", caption)
		r.pdf.Ln(3)
	}
}

func (r *renderer) sources(c *fkd.Case) {
	if len(c.Sources) == 0 {
		return
	}
	r.heading("情報源")
	pdf := r.pdf
	for _, src := range c.Sources {
		pdf.SetFont(r.font, "", 10)
		if m := urlRe.FindStringIndex(src); m != nil {
			url := src[m[0]:m[1]]
			if before := strings.TrimSpace(src[:m[0]]); before != "" {
				pdf.SetTextColor(51, 51, 51)
				pdf.MultiCell(0, 6, before, "", "L", false)
			}
			pdf.SetTextColor(0, 0, 238)
			pdf.WriteLinkString(6, url, url)
			pdf.Ln(6)
		} else {
			pdf.SetTextColor(51, 51, 51)
			pdf.MultiCell(0, 6, src, "", "L", false)
		}
	}
}

func (r *renderer) damage(c *fkd.Case) {
	r.heading("被害情報")
	r.labeled("死者数", fmt.Sprintf("%d", c.Casualties.Deaths))
	r.labeled("負傷者数", fmt.Sprintf("%d", c.Casualties.Injuries))
	if c.FinancialDamage != "" {
		r.labeled("被害金額", c.FinancialDamage)
	}
	if c.SocialImpact != "" {
		r.section("社会への影響", c.SocialImpact)
	}
}

func (r *renderer) trailer(c *fkd.Case) {
	if c.Notes != "" {
		r.section("備考", c.Notes)
	}
	if c.Field != "" {
		r.labeled("分野", c.Field)
	}
	if len(c.Authors) > 0 {
		r.section("データ作成者", strings.Join(c.Authors, "\n"))
	}
}

// heading draws a section title on a light band, the report's one
// structural cue.
func (r *renderer) heading(title string) {
	pdf := r.pdf
	pdf.Ln(4)
	pdf.SetFillColor(236, 240, 241)
	pdf.SetTextColor(44, 62, 80)
	pdf.SetFont(r.font, "", 13)
	pdf.CellFormat(0, 8, " "+title, "", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func (r *renderer) section(title, body string) {
	r.heading(title)
	r.pdf.SetTextColor(51, 51, 51)
	r.pdf.SetFont(r.font, "", 10)
	for _, para := range strings.Split(body, "\n") {
		if para = strings.TrimSpace(para); para != "" {
			r.pdf.MultiCell(0, 6, para, "", "L", false)
		}
	}
}

func (r *renderer) labeled(label, value string) {
	r.pdf.SetTextColor(51, 51, 51)
	r.pdf.SetFont(r.font, "", 10)
	r.pdf.MultiCell(0, 6, fmt.Sprintf("%s：%s", label, value), "", "L", false)
}

// image embeds a fetched image scaled to the page, or a placeholder
// line when its bytes were not supplied.
func (r *renderer) image(name, caption string) {
	data, ok := r.images[name]
	if !ok {
		r.pdf.SetTextColor(102, 102, 102)
		r.pdf.SetFont(r.font, "", 9)
		r.pdf.MultiCell(0, 5, fmt.Sprintf("[画像なし: %s]", caption), "", "L", false)
		return
	}

	tp := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	if tp == "jpeg" {
		tp = "jpg"
	}
	opts := gofpdf.ImageOptions{ImageType: tp, ReadDpi: true}
	info := r.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if info == nil || r.pdf.Err() {
		// Undecodable bytes degrade to the placeholder, and the error
		// flag is cleared so the rest of the report still renders.
		r.pdf.ClearError()
		r.pdf.SetTextColor(102, 102, 102)
		r.pdf.SetFont(r.font, "", 9)
		r.pdf.MultiCell(0, 5, fmt.Sprintf("[画像読み込みエラー: %s]", caption), "", "L", false)
		return
	}

	w, h := info.Extent()
	ratio := 1.0
	if s := maxImageW / w; s < ratio {
		ratio = s
	}
	if s := maxImageH / h; s < ratio {
		ratio = s
	}
	w, h = w*ratio, h*ratio

	x := pageMargin + (contentW-w)/2
	r.pdf.ImageOptions(name, x, r.pdf.GetY(), w, h, true, opts, 0, "")

	r.pdf.SetTextColor(85, 85, 85)
	r.pdf.SetFont(r.font, "", 9)
	r.pdf.CellFormat(0, 5, caption, "", 1, "C", false, 0, "")
}
