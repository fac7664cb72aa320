package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/cache"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/chain"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/fkd"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala/layout"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/mandala/sink"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/report"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/store"
)

// Runner encapsulates pipeline execution with caching. The CLI and the
// HTTP server share it so caching behaves the same from both.
//
// The Runner is stateless apart from its collaborators; multiple
// goroutines can use the same Runner with different options.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Extractor *fkd.Extractor
	Store     store.Store
	Style     layout.Style
	Logger    *log.Logger
}

// NewRunner creates a runner. A nil keyer gets the default key scheme,
// a nil cache disables caching, and a nil extractor gets a client over
// the same cache. Store may stay nil when records need not persist.
func NewRunner(extractor *fkd.Extractor, c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if extractor == nil {
		extractor = fkd.NewExtractor(fkd.NewClient(c))
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Extractor: extractor,
		Store:     st,
		Style:     layout.DefaultStyle(),
		Logger:    logger,
	}
}

// Execute runs the complete extract → layout → render pipeline for one
// case URL with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	extractStart := time.Now()
	c, warnings, extractHit, err := r.ExtractWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Case = c
	result.Warnings = warnings
	result.Stats.ExtractTime = time.Since(extractStart)
	result.CacheInfo.ExtractHit = extractHit

	opts.Logger.Info("extracted case",
		"case_id", c.CaseID,
		"cached", extractHit,
		"duration", result.Stats.ExtractTime)

	if err := r.assemble(ctx, result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// ExecuteCase runs layout and render for an already-extracted record,
// never touching the archive. Used to re-render stored records.
func (r *Runner) ExecuteCase(ctx context.Context, c *fkd.Case, opts Options) (*Result, error) {
	opts.SetLayoutDefaults()
	if err := ValidateViz(opts.Viz); err != nil {
		return nil, err
	}
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	if err := ValidateVizFormats(opts.Viz, opts.Formats); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Case:      c,
		Artifacts: make(map[string][]byte),
	}
	result.CacheInfo.ExtractHit = true

	if err := r.assemble(ctx, result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// assemble runs the layout and render stages over an extracted record.
func (r *Runner) assemble(ctx context.Context, result *Result, opts Options) error {
	c := result.Case
	structure := mandala.FromSerialized(c.Scenario)
	result.Stats.ItemCount = structure.TotalItems()
	if data, err := json.Marshal(c.Scenario); err == nil {
		result.StructureHash = cache.Hash(data)
	}

	if opts.Viz == VizDiagonal {
		layoutStart := time.Now()
		plan, layoutHit, err := r.PlanWithCacheInfo(ctx, structure, result.StructureHash, opts)
		if err != nil {
			return err
		}
		result.Plan = &plan
		result.Stats.LayoutTime = time.Since(layoutStart)
		result.CacheInfo.LayoutHit = layoutHit

		opts.Logger.Info("computed layout",
			"primitives", len(plan.Primitives),
			"cached", layoutHit,
			"duration", result.Stats.LayoutTime)
	}

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, c, structure, result.Plan, opts)
	if err != nil {
		return err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return nil
}

// ExtractWithCacheInfo fetches and parses a case with caching and
// reports whether the record came from cache. Warnings are only
// present on a cache miss; the cached record stores none.
func (r *Runner) ExtractWithCacheInfo(ctx context.Context, opts Options) (*fkd.Case, []mandala.UnknownMarker, bool, error) {
	if err := opts.ValidateForExtract(); err != nil {
		return nil, nil, false, err
	}
	r.applyLogger(&opts)

	caseID, err := fkd.CaseID(opts.URL)
	if err != nil {
		return nil, nil, false, err
	}
	key := r.Keyer.CaseKey(caseID)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var c fkd.Case
			if err := json.Unmarshal(data, &c); err == nil {
				return &c, nil, true, nil
			}
		}
	}

	c, warnings, err := r.Extractor.Extract(ctx, opts.URL)
	if err != nil {
		return nil, warnings, false, err
	}

	if data, err := json.Marshal(c); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.CaseTTL)
	}
	return c, warnings, false, nil
}

// Extract is a convenience wrapper that discards the cache hit info.
func (r *Runner) Extract(ctx context.Context, opts Options) (*fkd.Case, []mandala.UnknownMarker, error) {
	c, warnings, _, err := r.ExtractWithCacheInfo(ctx, opts)
	return c, warnings, err
}

// PlanWithCacheInfo computes the diagonal drawing plan with caching.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, s *mandala.Structure, structureHash string, opts Options) (layout.Plan, bool, error) {
	opts.SetLayoutDefaults()

	styleData, _ := json.Marshal(r.Style)
	key := r.Keyer.PlanKey(structureHash, cache.PlanKeyOpts{
		Width:      int(opts.Width),
		Height:     int(opts.Height),
		StyleHash:  cache.Hash(styleData),
		LayoutKind: VizDiagonal,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached layout.Plan
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, true, nil
			}
			// Undecodable entries fall through to recompute.
		}
	}

	plan := layout.Diagonal(s, opts.Canvas(), r.Style)

	if data, err := json.Marshal(plan); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.PlanTTL)
	}
	return plan, false, nil
}

// RenderWithCacheInfo produces the requested artifacts. SVG, JSON, and
// DOT are content-addressed and cached; PDF embeds runtime inputs (the
// font file, fetched images) and is rendered fresh every time, so a
// run requesting it never counts as a full render hit.
//
// The report is a derived output: a PDF build failure is logged and the
// pdf artifact omitted, never failing the case whose record and other
// artifacts are already valid.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c *fkd.Case, s *mandala.Structure, plan *layout.Plan, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	var planHash string
	var dot string
	if opts.Viz == VizChain {
		dot = chain.ToDOT(s, chain.Options{Detailed: opts.Detailed})
		planHash = cache.Hash([]byte(dot))
	} else if plan != nil {
		if data, err := json.Marshal(plan); err == nil {
			planHash = cache.Hash(data)
		}
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	for _, format := range opts.Formats {
		if format == FormatPDF {
			data, err := r.renderPDF(ctx, c, plan, opts)
			if err != nil {
				opts.Logger.Warn("pdf report failed", "case_id", c.CaseID, "error", err)
				allHit = false
				continue
			}
			artifacts[format] = data
			allHit = false
			continue
		}

		key := r.Keyer.ArtifactKey(planHash, cache.ArtifactKeyOpts{Format: format})
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}

		var data []byte
		var err error
		switch format {
		case FormatSVG:
			if opts.Viz == VizChain {
				data, err = chain.RenderSVG(ctx, dot)
			} else {
				data = sink.RenderSVG(*plan)
			}
		case FormatJSON:
			data, err = sink.RenderJSON(*plan)
		case FormatDOT:
			data = []byte(dot)
		}
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		allHit = false
		_ = r.Cache.Set(ctx, key, data, cache.ArtifactTTL)
	}
	return artifacts, allHit, nil
}

// renderPDF builds the case report, fetching figures when embedding is
// requested. Image fetch failures degrade to placeholders inside the
// report rather than failing the run.
func (r *Runner) renderPDF(ctx context.Context, c *fkd.Case, plan *layout.Plan, opts Options) ([]byte, error) {
	var ropts []report.Option
	if opts.FontFile != "" {
		ropts = append(ropts, report.WithFontFile(opts.FontFile))
	}
	if opts.EmbedImages {
		if name := c.Images.Representative; name != "" {
			if data, err := r.Extractor.FetchImage(ctx, name); err == nil {
				ropts = append(ropts, report.WithImage(name, data))
			} else {
				opts.Logger.Warn("representative image unavailable", "case_id", c.CaseID, "image", name, "error", err)
			}
		}
		for _, m := range c.Images.Multimedia {
			if data, err := r.Extractor.FetchMultimedia(ctx, m.ID); err == nil {
				ropts = append(ropts, report.WithImage(m.ID+".jpg", data))
			} else {
				opts.Logger.Warn("multimedia image unavailable", "case_id", c.CaseID, "image", m.ID, "error", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, c, plan, ropts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run processes a batch of URLs. Index pages (under /lis/) expand into
// their listed cases, subject to opts.Limit. Successful records persist
// through the Store and artifact files land in opts.OutputDir, which
// also receives the results ledger entry. Per-case failures are
// recorded in the report, not returned.
func (r *Runner) Run(ctx context.Context, urls []string, opts Options) (*RunReport, error) {
	opts.SetLayoutDefaults()
	if err := ValidateViz(opts.Viz); err != nil {
		return nil, err
	}
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	if err := ValidateVizFormats(opts.Viz, opts.Formats); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	caseURLs, err := r.expand(ctx, urls, opts)
	if err != nil {
		return nil, err
	}

	rep := &RunReport{
		RunID:       uuid.NewString(),
		ProcessedAt: time.Now().Format(time.RFC3339),
	}
	for _, u := range caseURLs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		entry := r.runCase(ctx, u, opts)
		rep.Cases = append(rep.Cases, entry)
		rep.Summary.Total++
		switch entry.Status {
		case StatusSuccess:
			rep.Summary.Success++
		case StatusExcluded:
			rep.Summary.Excluded++
		default:
			rep.Summary.Error++
		}
	}

	if opts.OutputDir != "" {
		path, err := WriteReport(opts.OutputDir, rep)
		if err != nil {
			return nil, err
		}
		opts.Logger.Info("wrote results ledger", "path", path,
			"total", rep.Summary.Total,
			"success", rep.Summary.Success,
			"excluded", rep.Summary.Excluded,
			"error", rep.Summary.Error)
	}
	return rep, nil
}

// expand resolves index URLs into case URLs, keeping plain case URLs
// as they are.
func (r *Runner) expand(ctx context.Context, urls []string, opts Options) ([]string, error) {
	var out []string
	for _, u := range urls {
		if !strings.Contains(u, "/lis/") {
			out = append(out, u)
			continue
		}
		refs, err := r.Extractor.ListCases(ctx, u, opts.Limit)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			out = append(out, ref.URL)
		}
	}
	return out, nil
}

// runCase executes one case and folds the outcome into a ledger entry.
func (r *Runner) runCase(ctx context.Context, caseURL string, opts Options) CaseResult {
	caseOpts := opts
	caseOpts.URL = caseURL
	caseOpts.validated = false

	res, err := r.Execute(ctx, caseOpts)
	if err != nil {
		return r.failureEntry(caseURL, err, &caseOpts)
	}

	entry := CaseResult{
		CaseID:   res.Case.CaseID,
		CaseName: res.Case.CaseName,
		URL:      caseURL,
		Status:   StatusSuccess,
	}
	for _, w := range res.Warnings {
		caseOpts.Logger.Warn("unknown scenario marker", "case_id", res.Case.CaseID, "asset", w.Asset)
	}

	if r.Store != nil {
		location, err := r.Store.Save(ctx, res.Case)
		if err != nil {
			return CaseResult{
				CaseID:   res.Case.CaseID,
				CaseName: res.Case.CaseName,
				URL:      caseURL,
				Status:   StatusError,
				Message:  err.Error(),
			}
		}
		entry.Outputs = append(entry.Outputs, location)
	}

	if opts.OutputDir != "" {
		for _, format := range caseOpts.Formats {
			data, ok := res.Artifacts[format]
			if !ok {
				continue
			}
			path := filepath.Join(opts.OutputDir, store.Filename(res.Case, artifactExt(format)))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return CaseResult{
					CaseID:   res.Case.CaseID,
					CaseName: res.Case.CaseName,
					URL:      caseURL,
					Status:   StatusError,
					Message:  errors.Wrap(errors.ErrCodeStore, err, "write %s artifact", format).Error(),
				}
			}
			entry.Outputs = append(entry.Outputs, path)
		}
	}
	return entry
}

// failureEntry classifies an extraction failure as excluded or error.
func (r *Runner) failureEntry(caseURL string, err error, opts *Options) CaseResult {
	entry := CaseResult{URL: caseURL, Status: StatusError, Message: err.Error()}
	if id, idErr := fkd.CaseID(caseURL); idErr == nil {
		entry.CaseID = id
	}
	if errors.IsExclusion(err) {
		entry.Status = StatusExcluded
		entry.Reason = string(errors.GetCode(err))
		entry.Message = ""
		var mfe *fkd.MissingFieldsError
		if stderrors.As(err, &mfe) {
			entry.CaseName = mfe.CaseName
			entry.MissingFields = mfe.MissingLabels
		}
		opts.Logger.Warn("case excluded", "url", caseURL, "reason", entry.Reason)
	} else {
		opts.Logger.Error("case failed", "url", caseURL, "error", err)
	}
	return entry
}

// Close releases the runner's cache backend.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
