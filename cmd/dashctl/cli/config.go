package cli

import (
	"context"
	"errors"
	"os"

	"eventadmin/internal/db"
	"eventadmin/internal/docstore"
	"eventadmin/internal/env"

	"github.com/jackc/pgx/v5/pgxpool"
)

var errNoDatabase = errors.New("DB_ADDR must be set")

func databaseAddr() (string, error) {
	addr := os.Getenv("DB_ADDR")
	if addr == "" {
		return "", errNoDatabase
	}
	return addr, nil
}

func openPool() (*pgxpool.Pool, error) {
	addr, err := databaseAddr()
	if err != nil {
		return nil, err
	}
	return db.New(addr, int32(env.GetInt("DB_MAX_CONNS", 2)), env.GetString("DB_MAX_IDLE_TIME", "1m"))
}

func storeConfig(driver string) docstore.Config {
	if driver == "" {
		driver = env.GetString("DOCSTORE_DRIVER", docstore.DriverPostgres)
	}
	return docstore.Config{
		Driver:             driver,
		MongoURI:           env.GetString("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      env.GetString("MONGO_DATABASE", "events"),
		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
	}
}

// openStore opens the configured document store. The postgres driver gets
// its own small pool, released by the returned close func.
func openStore(ctx context.Context, cfg docstore.Config) (docstore.Store, func() error, error) {
	if cfg.Driver != docstore.DriverPostgres {
		return docstore.Open(ctx, cfg, nil)
	}

	pool, err := openPool()
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := docstore.Open(ctx, cfg, pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	return store, func() error {
		err := closeStore()
		pool.Close()
		return err
	}, nil
}
