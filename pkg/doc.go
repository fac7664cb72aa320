// Package pkg provides the core libraries of the failure knowledge ETL.
//
// # Overview
//
// The ETL turns pages of the Failure Knowledge Database (shippai.org)
// into structured case records and failure-scenario diagrams. The pkg
// directory is organized by concern:
//
//  1. [fkd] - archive client and case field extraction
//  2. [mandala] - scenario segmentation into cause/action/result
//  3. [mandala/layout] - declarative diagram plans for the stepped scenario chart
//  4. [mandala/sink] - SVG and JSON renderers for plans
//  5. [chain] - Graphviz rendering of the scenario as a flow chart
//  6. [report] - PDF case reports
//  7. [pipeline] - orchestration (extract → layout → render) and the run ledger
//  8. [cache], [store], [errors], [httputil] - supporting infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Archive case page (HTML)
//	         ↓
//	    [fkd] package (fetch + extract fields and scenario tokens)
//	         ↓
//	    [mandala] package (segment into the failure mandala structure)
//	         ↓
//	    [mandala/layout] or [chain] (plan / DOT)
//	         ↓
//	    SVG/JSON/DOT/PDF output
//
// # Quick Start
//
// Most callers go through the pipeline:
//
//	runner := pipeline.NewRunner(nil, nil, nil, nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{
//		URL:     "https://www.shippai.org/fkd/cf/CZ0200703.html",
//		Formats: []string{pipeline.FormatSVG},
//	})
package pkg
