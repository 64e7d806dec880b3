package docstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps documents as jsonb rows of the documents table, keyed by
// collection path and document id.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) ListCollection(ctx context.Context, path string) ([]Document, error) {
	if _, _, err := SplitPath(path); err != nil {
		return nil, err
	}

	const q = `SELECT id, data FROM documents WHERE path = $1 ORDER BY id`

	rows, err := p.db.Query(ctx, q, path)
	if err != nil {
		return nil, fmt.Errorf("list documents %s: %w", path, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Fields); err != nil {
			return nil, fmt.Errorf("scan document %s: %w", path, err)
		}
		if d.Fields == nil {
			d.Fields = map[string]any{}
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents %s: %w", path, err)
	}

	return docs, nil
}
