package cache

import "errors"

// ErrCacheMiss reports that a key was not present. Backends return
// (nil, false, nil) for misses; this sentinel exists for callers that
// prefer treating a miss as an error condition.
var ErrCacheMiss = errors.New("cache miss")
