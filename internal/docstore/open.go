package docstore

import (
	"context"
	"fmt"

	"eventadmin/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	DriverMemory    = "memory"
	DriverMongo     = "mongo"
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
)

type Config struct {
	Driver             string
	MongoURI           string
	MongoDatabase      string
	FirestoreProjectID string
}

// Open builds the Store selected by cfg.Driver. The postgres driver reuses pg,
// which must be non-nil. The returned close func releases what Open created.
func Open(ctx context.Context, cfg Config, pg *pgxpool.Pool) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemory(), noop, nil

	case DriverPostgres:
		if pg == nil {
			return nil, nil, fmt.Errorf("postgres document store: no database pool")
		}
		return NewPostgres(pg), noop, nil

	case DriverMongo:
		client, err := db.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() error { return client.Disconnect(context.Background()) }
		return NewMongo(client.Database(cfg.MongoDatabase)), closeFn, nil

	case DriverFirestore:
		client, err := db.NewFirestore(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, nil, err
		}
		return NewFirestore(client), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
