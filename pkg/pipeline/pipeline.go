package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/fkd"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala/layout"
)

// Default canvas size in pixels for the diagonal diagram.
const (
	DefaultWidth  = 960.0
	DefaultHeight = 720.0
)

// Visualization types.
const (
	// VizDiagonal is the archive's stepped bar diagram.
	VizDiagonal = "diagonal"
	// VizChain is the Graphviz cause-and-effect chain.
	VizChain = "chain"
)

// DefaultViz is the default visualization type.
const DefaultViz = VizDiagonal

// Output format constants.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPDF:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizDiagonal: true,
	VizChain:    true,
}

// Case outcome statuses recorded in the results ledger.
const (
	StatusSuccess  = "success"
	StatusExcluded = "excluded"
	StatusError    = "error"
)

// Options contains all configuration for a pipeline run. The struct
// supports JSON serialization for API requests.
type Options struct {
	// Extract options
	URL     string `json:"url"`
	Refresh bool   `json:"refresh,omitempty"`
	Limit   int    `json:"limit,omitempty"` // cap on cases expanded from an index page; 0 = all

	// Layout options
	Viz      string  `json:"viz,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Detailed bool    `json:"detailed,omitempty"` // annotate chain nodes with their group

	// Render options
	Formats     []string `json:"formats,omitempty"`
	FontFile    string   `json:"font_file,omitempty"` // TTF for CJK text in PDFs
	EmbedImages bool     `json:"embed_images,omitempty"`

	// OutputDir receives artifact files and the results ledger during
	// Run. Empty keeps everything in memory.
	OutputDir string `json:"output_dir,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a single-case pipeline run.
type Result struct {
	// Case is the extracted record.
	Case *fkd.Case

	// Warnings are the unknown separator markers seen on the scenario
	// page. Empty when the record came from cache.
	Warnings []mandala.UnknownMarker

	// StructureHash is the content hash of the scenario structure.
	StructureHash string

	// Plan is the diagram drawing plan. Nil for the chain
	// visualization, which renders straight from the structure.
	Plan *layout.Plan

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount   int
	ExtractTime time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ExtractHit bool // whether the case record came from cache
	LayoutHit  bool // whether the plan came from cache
	RenderHit  bool // whether all requested artifacts came from cache
}

// CaseResult is one ledger entry of a batch run.
type CaseResult struct {
	CaseID        string   `json:"case_id,omitempty"`
	CaseName      string   `json:"case_name,omitempty"`
	URL           string   `json:"url"`
	Status        string   `json:"status"`
	Outputs       []string `json:"outputs,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	Message       string   `json:"message,omitempty"`
}

// Summary counts case outcomes of a batch run.
type Summary struct {
	Total    int `json:"total"`
	Success  int `json:"success"`
	Excluded int `json:"excluded"`
	Error    int `json:"error"`
}

// RunReport is the record of one batch run, written to the results
// ledger as results_NNN.json.
type RunReport struct {
	RunID       string       `json:"run_id"`
	ProcessedAt string       `json:"processed_at"`
	Summary     Summary      `json:"summary"`
	Cases       []CaseResult `json:"cases"`
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, dot, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateViz checks that a visualization type is valid.
func ValidateViz(viz string) error {
	if !ValidVizTypes[viz] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid viz: %q (must be one of: diagonal, chain)", viz)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults
// for the full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForExtract(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := ValidateViz(o.Viz); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateVizFormats(o.Viz, o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateVizFormats checks that every format is producible by the
// chosen visualization. DOT exists only for the chain; the plan JSON
// and the PDF report exist only for the diagonal diagram.
func ValidateVizFormats(viz string, formats []string) error {
	for _, f := range formats {
		switch {
		case f == FormatDOT && viz != VizChain:
			return errors.New(errors.ErrCodeInvalidFormat, "format dot requires viz chain")
		case (f == FormatJSON || f == FormatPDF) && viz != VizDiagonal:
			return errors.New(errors.ErrCodeInvalidFormat, "format %s requires viz diagonal", f)
		}
	}
	return nil
}

// ValidateForExtract checks required fields for extraction.
func (o *Options) ValidateForExtract() error {
	if o.URL == "" {
		return errors.New(errors.ErrCodeInvalidInput, "url is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Viz == "" {
		o.Viz = DefaultViz
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Canvas returns the layout canvas for these options.
func (o *Options) Canvas() layout.Canvas {
	return layout.Canvas{Width: o.Width, Height: o.Height}
}
