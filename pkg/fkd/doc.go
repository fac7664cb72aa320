// Package fkd talks to the Failure Knowledge Database (失敗知識データベース)
// at shippai.org and turns its pages into structured case records.
//
// # Pages
//
// Each archived incident is spread over two pages: the case page
// (/cf/<ID>.html), a label/value table carrying the narrative fields,
// and the scenario page (/sf/...), carrying the numbered failure-mandala
// items with separator rule images between them.
//
// The parsers here are pure functions over fetched bytes: ParseCasePage
// maps the case table to a Case, TokenizeScenario turns the scenario
// page into the ordered token stream consumed by package mandala, and
// ParseCaseList reads the index pages. Client handles fetching, with
// caching and retry; Extractor composes the two into one operation.
//
// # Required fields
//
// The archive marks five fields as required: 事例概要, 経過, 原因, 対策
// and シナリオ. A case missing any of them is not an error in this
// package's plumbing sense but an exclusion: Extract returns a
// MissingFieldsError naming the absent labels so the pipeline can
// record the case as skipped.
package fkd
