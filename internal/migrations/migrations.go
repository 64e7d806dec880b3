package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// Up applies every pending migration. It is a no-op when the schema is current.
func Up(dbAddr string) error {
	m, err := newMigrate(dbAddr)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		version, dirty, verr := m.Version()
		if verr != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		return fmt.Errorf("apply migrations (version %d, dirty %t): %w", version, dirty, err)
	}
	return nil
}

// Down rolls back the given number of migrations.
func Down(dbAddr string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("rollback steps must be positive, got %d", steps)
	}

	m, err := newMigrate(dbAddr)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	return nil
}

func newMigrate(dbAddr string) (*migrate.Migrate, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("open migration files: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL(dbAddr))
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// databaseURL rewrites a postgres:// address to the pgx5:// scheme the
// migrate driver registers.
func databaseURL(addr string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(addr, scheme) {
			return "pgx5://" + strings.TrimPrefix(addr, scheme)
		}
	}
	return addr
}
