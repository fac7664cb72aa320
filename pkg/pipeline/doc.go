// Package pipeline runs the extract → layout → render path for failure
// knowledge cases and orchestrates multi-case runs.
//
// # Architecture
//
// A single case passes through three stages:
//
//  1. Extract: fetch the case and scenario pages and build the record
//  2. Layout: compute the diagram plan from the scenario structure
//  3. Render: produce artifacts (SVG, JSON, DOT, PDF)
//
// Each stage is cached independently so the CLI and the HTTP server
// share one caching scheme. [Runner.Run] processes a batch of URLs,
// expands index pages, persists records through a [store.Store], and
// produces a [RunReport] that [WriteReport] appends to the results
// ledger.
//
// # Usage
//
//	runner := pipeline.NewRunner(extractor, cache, nil, st, logger)
//	opts := pipeline.Options{
//	    URL:     "https://www.shippai.org/fkd/cf/CZ0200703.html",
//	    Formats: []string{"svg", "pdf"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline
