package knowledge

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string

	initialized sync.Once
}

// NewSQLiteStore opens (or creates) the database at path. ":memory:" gives
// an in-memory store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to open knowledge database"),
			errors.Fields{"path": path},
		)
	}

	store := &SQLiteStore{db: db, path: path}
	if err := store.ensureInitialized(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureInitialized() error {
	var initErr error
	s.initialized.Do(func() {
		// WAL mode for concurrent ingestion workers
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			initErr = errors.Wrap(err, errors.Unknown, "failed to enable WAL mode")
			return
		}

		query := `
        CREATE TABLE IF NOT EXISTS entities (
            id TEXT PRIMARY KEY,
            type TEXT NOT NULL,
            name TEXT NOT NULL,
            summary TEXT NOT NULL,
            run_id TEXT NOT NULL,
            created_at DATETIME NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_entities_run_id ON entities(run_id);
        CREATE INDEX IF NOT EXISTS idx_entities_name ON entities(name);

        CREATE TABLE IF NOT EXISTS relations (
            id TEXT PRIMARY KEY,
            source_id TEXT NOT NULL REFERENCES entities(id),
            target_id TEXT NOT NULL REFERENCES entities(id),
            type TEXT NOT NULL,
            description TEXT NOT NULL,
            run_id TEXT NOT NULL,
            created_at DATETIME NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_relations_run_id ON relations(run_id);
        `
		if _, err := s.db.Exec(query); err != nil {
			initErr = errors.Wrap(err, errors.Unknown, "failed to initialize knowledge schema")
		}
	})
	return initErr
}

// AddEntity implements Store.
func (s *SQLiteStore) AddEntity(ctx context.Context, entity *Entity) error {
	if err := s.ensureInitialized(); err != nil {
		return err
	}
	if !validEntityTypes[entity.Type] {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "unknown entity type"),
			errors.Fields{"type": string(entity.Type)},
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entities (id, type, name, summary, run_id, created_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             type = excluded.type,
             name = excluded.name,
             summary = excluded.summary`,
		entity.ID, string(entity.Type), entity.Name, entity.Summary, entity.RunID, entity.CreatedAt.UTC())
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to store entity"),
			errors.Fields{"id": entity.ID, "name": entity.Name},
		)
	}
	return nil
}

// AddRelation implements Store.
func (s *SQLiteStore) AddRelation(ctx context.Context, relation *Relation) error {
	if err := s.ensureInitialized(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO relations (id, source_id, target_id, type, description, run_id, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             type = excluded.type,
             description = excluded.description`,
		relation.ID, relation.SourceID, relation.TargetID, relation.Type,
		relation.Description, relation.RunID, relation.CreatedAt.UTC())
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to store relation"),
			errors.Fields{"id": relation.ID},
		)
	}
	return nil
}

// Query implements Store with a LIKE match over entity names and summaries.
func (s *SQLiteStore) Query(ctx context.Context, text string, limit int) ([]Entity, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + text + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, name, summary, run_id, created_at
         FROM entities
         WHERE name LIKE ? OR summary LIKE ?
         ORDER BY created_at DESC
         LIMIT ?`,
		pattern, pattern, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to query entities")
	}
	defer rows.Close()

	var results []Entity
	for rows.Next() {
		var e Entity
		var typ string
		var createdAt time.Time
		if err := rows.Scan(&e.ID, &typ, &e.Name, &e.Summary, &e.RunID, &createdAt); err != nil {
			return nil, errors.Wrap(err, errors.Unknown, "failed to scan entity row")
		}
		e.Type = EntityType(typ)
		e.CreatedAt = createdAt
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "error iterating entity rows")
	}
	return results, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return errors.Wrap(err, errors.Unknown, "failed to close knowledge database")
	}
	return nil
}
