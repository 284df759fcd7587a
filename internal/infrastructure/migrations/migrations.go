// Package migrations owns the versioned schema. The schema is only ever changed by these
// files; nothing infers tables from Go types at runtime.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Migrator wraps a golang-migrate instance bound to a dedicated connection.
// Close releases that connection.
type Migrator struct {
	m *migrate.Migrate
}

// New opens a dedicated connection to dsn and prepares the embedded migrations for dialect.
func New(dialect, dsn string) (*Migrator, error) {
	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	m, err := newMigrate(db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Migrator{m: m}, nil
}

func newMigrate(db *sql.DB, dialect string) (*migrate.Migrate, error) {
	src, err := iofs.New(files, dialect)
	if err != nil {
		return nil, fmt.Errorf("load %s migrations: %w", dialect, err)
	}

	switch dialect {
	case DialectPostgres:
		driver, err := migratepg.WithInstance(db, &migratepg.Config{})
		if err != nil {
			return nil, err
		}
		return migrate.NewWithInstance("iofs", src, dialect, driver)
	case DialectSQLite:
		driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if err != nil {
			return nil, err
		}
		return migrate.NewWithInstance("iofs", src, dialect, driver)
	default:
		return nil, fmt.Errorf("unsupported migration dialect %q", dialect)
	}
}

// Up applies every pending migration. An already current schema is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Down rolls back n migrations.
func (mg *Migrator) Down(n int) error {
	if n <= 0 {
		n = 1
	}
	if err := mg.m.Steps(-n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Version reports the current schema version. A fresh database reports 0.
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Close releases the source and the dedicated connection.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Up is a convenience for callers that only need to bring the schema current.
func Up(dialect, dsn string) error {
	mg, err := New(dialect, dsn)
	if err != nil {
		return err
	}
	defer mg.Close()
	return mg.Up()
}
