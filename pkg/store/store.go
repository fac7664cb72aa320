package store

import (
	"context"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/fkd"
)

// Store persists case records keyed by case ID.
type Store interface {
	// Save writes or replaces a record and returns its location: a
	// file path for FileStore, a collection reference for MongoStore.
	Save(ctx context.Context, c *fkd.Case) (string, error)

	// Load retrieves a record by case ID. A missing record is a
	// NOT_FOUND coded error.
	Load(ctx context.Context, caseID string) (*fkd.Case, error)

	// List returns the stored case IDs, sorted.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
