package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoConnectionString indicates the executor was built without a database target.
	ErrNoConnectionString = errors.New("database connection string is not configured")
	// ErrExecutorClosed is returned when a stored procedure is invoked after Close.
	ErrExecutorClosed = errors.New("procedure executor is closed")
)

// Executor invokes named stored procedures against SQL Server. Every
// invocation runs on a dedicated connection scoped to that single call; the
// returned cursor owns the connection and releases it on Close.
type Executor struct {
	db     *sql.DB
	logger *logrus.Logger

	mu     sync.Mutex
	closed bool
}

// NewExecutor prepares an executor for the given connection string. No
// connection is dialed until the first Execute.
func NewExecutor(connString string, logger *logrus.Logger) (*Executor, error) {
	if strings.TrimSpace(connString) == "" {
		return nil, ErrNoConnectionString
	}

	db, err := sql.Open("sqlserver", connString)
	if err != nil {
		return nil, fmt.Errorf("open sql server: %w", err)
	}

	// Released connections should close rather than linger in a pool; each
	// procedure call owns exactly one physical open+close.
	db.SetMaxIdleConns(0)

	return &Executor{db: db, logger: logger}, nil
}

// Execute runs the named stored procedure with the given parameters and
// returns a forward-only cursor over its result rows. The cursor must be
// closed by the caller; closing it releases the underlying connection.
func (e *Executor) Execute(ctx context.Context, procedure string, params ...sql.NamedArg) (*Rows, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrExecutorClosed
	}
	db := e.db
	e.mu.Unlock()

	if db == nil {
		return nil, ErrNoConnectionString
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection for %s: %w", procedure, err)
	}

	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p
	}

	rows, err := conn.QueryContext(ctx, procedure, args...)
	if err != nil {
		if cerr := conn.Close(); cerr != nil {
			e.logger.Warnf("release connection after failed %s: %v", procedure, cerr)
		}
		return nil, fmt.Errorf("execute %s: %w", procedure, err)
	}

	return &Rows{rows: rows, conn: conn}, nil
}

// Query is the scoped-resource form of Execute: it runs fn against the cursor
// and guarantees the cursor and its connection are released on every exit
// path.
func (e *Executor) Query(ctx context.Context, procedure string, params []sql.NamedArg, fn func(*Rows) error) error {
	rows, err := e.Execute(ctx, procedure, params...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			e.logger.Warnf("close cursor for %s: %v", procedure, cerr)
		}
	}()

	if err := fn(rows); err != nil {
		return err
	}
	return rows.Err()
}

// Close releases the executor. Subsequent calls to Execute fail with
// ErrExecutorClosed. Close is idempotent.
func (e *Executor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// MakeInputParameter builds a typed, named input parameter. A leading "@"
// marker is stripped when present; the driver supplies its own. A nil value
// is passed through as SQL NULL.
func MakeInputParameter(name string, value any) sql.NamedArg {
	return sql.Named(strings.TrimPrefix(name, "@"), value)
}

// Rows is a forward-only cursor bound to the dedicated connection of a single
// procedure invocation. Closing it releases both the result set and the
// connection.
type Rows struct {
	rows   *sql.Rows
	conn   *sql.Conn
	closed bool
}

// Next advances the cursor. It returns false once the rows are exhausted or
// an error occurs; check Err afterwards.
func (r *Rows) Next() bool {
	return r.rows.Next()
}

// Scan copies the current row's columns into dest.
func (r *Rows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

// Columns reports the result column names in order.
func (r *Rows) Columns() ([]string, error) {
	return r.rows.Columns()
}

// Err reports any error encountered while iterating.
func (r *Rows) Err() error {
	return r.rows.Err()
}

// Close releases the cursor and its connection. It is idempotent and safe to
// call after the cursor has been exhausted.
func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	err := r.rows.Close()
	if cerr := r.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
