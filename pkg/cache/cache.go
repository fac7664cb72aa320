package cache

import (
	"context"
	"fmt"
	"time"
)

// Default TTLs per entry kind. Zero means no expiry.
const (
	// PageTTL bounds how long raw archive pages are reused; the
	// database is occasionally corrected upstream.
	PageTTL = 7 * 24 * time.Hour

	// CaseTTL bounds extracted case records derived from those pages.
	CaseTTL = 30 * 24 * time.Hour

	// PlanTTL and ArtifactTTL are zero: both are content-addressed by
	// input hash, so a stale entry cannot exist.
	PlanTTL     = 0
	ArtifactTTL = 0
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. The second return reports whether
	// the key was found; expired entries count as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// PlanKeyOpts are the layout inputs that change the produced plan.
type PlanKeyOpts struct {
	Width      int
	Height     int
	StyleHash  string
	LayoutKind string // "diagonal" or "chain"
}

// ArtifactKeyOpts identify a rendered output of a plan.
type ArtifactKeyOpts struct {
	Format string // "svg", "json", "dot", "pdf"
}

// Keyer builds cache keys so all callers share one scheme.
type Keyer interface {
	// PageKey keys a fetched archive page by kind ("case", "scenario",
	// "list", "image") and URL.
	PageKey(kind, url string) string

	// CaseKey keys an extracted case record.
	CaseKey(caseID string) string

	// PlanKey keys a layout plan by the structure hash and the canvas
	// and style it was computed for.
	PlanKey(structureHash string, opts PlanKeyOpts) string

	// ArtifactKey keys a rendered artifact by the plan hash it was
	// produced from.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PageKey generates a key for a fetched page.
func (k *DefaultKeyer) PageKey(kind, url string) string {
	return fmt.Sprintf("page:%s:%s", kind, Hash([]byte(url)))
}

// CaseKey generates a key for an extracted case record.
func (k *DefaultKeyer) CaseKey(caseID string) string {
	return "case:" + caseID
}

// PlanKey generates a key for a layout plan.
func (k *DefaultKeyer) PlanKey(structureHash string, opts PlanKeyOpts) string {
	return hashKey("plan", structureHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}
