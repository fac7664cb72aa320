// Package store persists extracted case records.
//
// FileStore is the CLI default: one pretty-printed JSON file per case,
// named <CaseID>_<事例名称>.json so a directory of records stays
// human-browsable. MongoStore backs the HTTP server, upserting records
// by case ID so re-extraction updates in place.
package store
