// internal/adapters/out/sqlite/cart_mirror_sqlite.go
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	cartdom "attire/internal/domain/cart"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cart_mirror (
	user_id    TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// CartMirrorSQLite implements cart.Mirror over a local SQLite file.
//
// The mirror stores the full cart document as JSON, one row per user. It is a
// shadow of the last known-good remote state, read only when the remote store
// is unreachable, so a flat key/value table is enough.
type CartMirrorSQLite struct {
	db *sql.DB
}

// Open creates or opens the mirror database at path (":memory:" for tests).
func Open(path string) (*CartMirrorSQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("cart_mirror_sqlite: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cart_mirror_sqlite: ping: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("cart_mirror_sqlite: %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("cart_mirror_sqlite: schema: %w", err)
	}

	return &CartMirrorSQLite{db: db}, nil
}

func (m *CartMirrorSQLite) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

var _ cartdom.Mirror = (*CartMirrorSQLite)(nil)

// Get returns (nil, nil) if no mirror row exists (nil policy).
func (m *CartMirrorSQLite) Get(ctx context.Context, userID string) (*cartdom.Cart, error) {
	if m == nil || m.db == nil {
		return nil, errors.New("cart_mirror_sqlite: db is nil")
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart_mirror_sqlite: userID is empty")
	}

	var doc string
	err := m.db.QueryRowContext(ctx,
		`SELECT doc FROM cart_mirror WHERE user_id = ?`, uid,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart_mirror_sqlite: get: %w", err)
	}

	var c cartdom.Cart
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		return nil, fmt.Errorf("cart_mirror_sqlite: decode: %w", err)
	}
	// row key is the source of truth
	c.ID = uid
	if c.Items == nil {
		c.Items = []cartdom.Item{}
	}
	return &c, nil
}

// Put overwrites the mirror row for c.ID.
func (m *CartMirrorSQLite) Put(ctx context.Context, c *cartdom.Cart) error {
	if m == nil || m.db == nil {
		return errors.New("cart_mirror_sqlite: db is nil")
	}
	if c == nil {
		return errors.New("cart_mirror_sqlite: cart is nil")
	}

	uid := strings.TrimSpace(c.ID)
	if uid == "" {
		return errors.New("cart_mirror_sqlite: cart.ID is empty")
	}

	doc, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cart_mirror_sqlite: encode: %w", err)
	}

	_, err = m.db.ExecContext(ctx,
		`INSERT INTO cart_mirror (user_id, doc, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		uid, string(doc), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("cart_mirror_sqlite: put: %w", err)
	}
	return nil
}

// Delete removes the mirror row. Deleting an absent row succeeds.
func (m *CartMirrorSQLite) Delete(ctx context.Context, userID string) error {
	if m == nil || m.db == nil {
		return errors.New("cart_mirror_sqlite: db is nil")
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return errors.New("cart_mirror_sqlite: userID is empty")
	}

	if _, err := m.db.ExecContext(ctx,
		`DELETE FROM cart_mirror WHERE user_id = ?`, uid,
	); err != nil {
		return fmt.Errorf("cart_mirror_sqlite: delete: %w", err)
	}
	return nil
}
