package knowledge

import "context"

// Store persists extracted entities and relations and answers simple text
// queries over them. Implementations must be safe for concurrent use; the
// batch ingestor writes from multiple goroutines.
type Store interface {
	AddEntity(ctx context.Context, entity *Entity) error
	AddRelation(ctx context.Context, relation *Relation) error

	// Query returns entities whose name or summary matches the given text,
	// newest first, capped at limit.
	Query(ctx context.Context, text string, limit int) ([]Entity, error)

	Close() error
}
