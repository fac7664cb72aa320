// Package httputil provides the HTTP infrastructure shared by the
// archive clients: file-based response caching and retry with
// exponential backoff.
//
// # Caching
//
// [Cache] stores fetched pages and images on disk (~/.cache/shippai/ by
// default) with a configurable TTL. The archive is effectively static,
// so a generous TTL makes repeated extraction runs cheap and polite.
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	fkd := cache.Namespace("fkd:")
//	ok, err := fkd.Get("cf:CZ0200703", &page)
//	if !ok {
//	    // fetch and fkd.Set("cf:CZ0200703", page)
//	}
//
// Keys are SHA-256 hashed into filenames, so any string is a valid key;
// use [Cache.Namespace] to keep page families apart.
//
// # Retry
//
// [Retry] re-runs an operation for transient failures only: wrap
// timeouts and 5xx responses in [RetryableError], return anything else
// as-is and it fails fast.
package httputil
