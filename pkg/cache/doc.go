// Package cache provides a byte-level cache behind a small interface so
// the pipeline can run against different backends.
//
// # Backends
//
//   - FileCache: entries as files under a directory, suited to CLI runs.
//   - RedisCache: shared cache for the HTTP server, backed by go-redis.
//   - NullCache: no-op, for tests and for --no-cache runs.
//
// # Keys
//
// Keys are built through a Keyer so every caller agrees on the scheme:
// case records by case ID, layout plans by structure hash plus canvas
// options, rendered artifacts by plan hash plus format. Plans and
// artifacts are content-addressed, so they never expire; fetched pages
// do, since the archive is occasionally edited.
package cache
