// Package persistence is the fixture cleanup layer: it finds stored entities by a field
// value and removes them, so that tests can delete the rows they created.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Entity is one stored record.
type Entity struct {
	Kind   string
	ID     interface{}
	Fields map[string]interface{}
}

// EntityManager finds and removes entities. Removals are queued until Flush.
type EntityManager interface {
	FindBy(ctx context.Context, kind, field string, value interface{}) ([]Entity, error)
	Remove(entity Entity) error
	Flush(ctx context.Context) error
}

// Placeholder selects the bind parameter syntax of the SQL dialect.
type Placeholder int

const (
	// QuestionMark is used by MySQL and SQLite.
	QuestionMark Placeholder = iota
	// Dollar is used by PostgreSQL.
	Dollar
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ErrNoPrimaryKey is returned by FindBy when the table has no primary key column.
var ErrNoPrimaryKey = errors.New("result set has no primary key column")

// SQLStore is an EntityManager over a database/sql handle. The kind of an entity is its
// table name.
type SQLStore struct {
	db          *sql.DB
	primaryKey  string
	placeholder Placeholder
	pending     []Entity
	lock        sync.Mutex
}

// StoreOption configures a SQLStore.
type StoreOption func(*SQLStore)

// WithPrimaryKey sets the primary key column name. The default is "id".
func WithPrimaryKey(column string) StoreOption {
	return func(s *SQLStore) { s.primaryKey = column }
}

// WithPlaceholder sets the bind parameter syntax. The default is QuestionMark.
func WithPlaceholder(p Placeholder) StoreOption {
	return func(s *SQLStore) { s.placeholder = p }
}

// NewSQLStore creates a SQLStore.
func NewSQLStore(db *sql.DB, opts ...StoreOption) *SQLStore {
	s := &SQLStore{db: db, primaryKey: "id"}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *SQLStore) bind(n int) string {
	if s.placeholder == Dollar {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// FindBy returns the rows of table kind whose column field equals value.
func (s *SQLStore) FindBy(ctx context.Context, kind, field string, value interface{}) ([]Entity, error) {
	if err := checkIdentifiers(kind, field); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s", kind, field, s.bind(1))
	rows, err := s.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("unable to query %s: %w", kind, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	keyIndex := -1
	for i, c := range columns {
		if strings.EqualFold(c, s.primaryKey) {
			keyIndex = i
		}
	}
	if keyIndex < 0 {
		return nil, ErrNoPrimaryKey
	}

	var ret []Entity
	for rows.Next() {
		values := make([]interface{}, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		e := Entity{Kind: kind, ID: values[keyIndex], Fields: make(map[string]interface{}, len(columns))}
		for i, c := range columns {
			e.Fields[c] = values[i]
		}
		ret = append(ret, e)
	}
	return ret, rows.Err()
}

// Remove queues the deletion of an entity.
func (s *SQLStore) Remove(entity Entity) error {
	if err := checkIdentifiers(entity.Kind); err != nil {
		return err
	}
	s.lock.Lock()
	s.pending = append(s.pending, entity)
	s.lock.Unlock()
	return nil
}

// Flush deletes all queued entities in one transaction.
func (s *SQLStore) Flush(ctx context.Context) error {
	s.lock.Lock()
	pending := s.pending
	s.pending = nil
	s.lock.Unlock()
	if len(pending) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, e := range pending {
		stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", e.Kind, s.primaryKey, s.bind(1))
		if _, err := tx.ExecContext(ctx, stmt, e.ID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("unable to delete %s %v: %w", e.Kind, e.ID, err)
		}
	}
	return tx.Commit()
}

func checkIdentifiers(names ...string) error {
	for _, n := range names {
		if !identifierPattern.MatchString(n) {
			return fmt.Errorf("invalid SQL identifier %q", n)
		}
	}
	return nil
}
