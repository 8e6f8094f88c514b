package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/foodjournal/internal/entities"
)

// Kind tells the gateway which execution path a statement takes.
type Kind int

const (
	// KindQuery statements return rows.
	KindQuery Kind = iota
	// KindExec statements mutate and report last insert id and affected rows.
	KindExec
)

func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindExec:
		return "exec"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Row is a single result row keyed by column name.
type Row map[string]any

// ExecResult describes the outcome of a mutating statement.
type ExecResult struct {
	LastInsertID int64
	RowsAffected int64
}

// Result holds the output of Execute. Rows is set for KindQuery,
// ExecResult for KindExec.
type Result struct {
	Rows []Row
	ExecResult
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogLevel sets the gorm SQL log level.
func WithLogLevel(level logger.LogLevel) Option {
	return func(g *Gateway) {
		g.logLevel = level
	}
}

// WithBusyTimeout sets how long SQLite waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.busyTimeout = d
	}
}

// Gateway owns the single SQLite connection of the application.
// Dependents receive the *Gateway by reference; nothing else opens the file.
type Gateway struct {
	path        string
	logLevel    logger.LogLevel
	busyTimeout time.Duration

	mu    sync.Mutex
	db    *gorm.DB
	sqlDB *sql.DB
}

// NewGateway creates a gateway for the database at path. No I/O happens
// until Initialize (or the first Execute).
func NewGateway(path string, opts ...Option) *Gateway {
	g := &Gateway{
		path:        path,
		logLevel:    logger.Warn,
		busyTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Path returns the database file path.
func (g *Gateway) Path() string {
	return g.path
}

// Initialized reports whether schema setup has completed.
func (g *Gateway) Initialized() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.db != nil
}

// Initialize opens the database, enables WAL and migrates the schema.
// Calls after the first success return immediately. A failed call leaves
// the gateway uninitialized.
func (g *Gateway) Initialize(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.initLocked(ctx)
}

func (g *Gateway) initLocked(ctx context.Context) error {
	if g.db != nil {
		return nil
	}

	db, err := gorm.Open(sqlite.Open(g.path), &gorm.Config{
		Logger: logger.Default.LogMode(g.logLevel),
	})
	if err != nil {
		return g.initFailed("open", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return g.initFailed("open", err)
	}

	// One connection: SQLite has a single writer and the pragmas below are per-connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, sqlDB, g.busyTimeout); err != nil {
		sqlDB.Close()
		return g.initFailed("pragmas", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&entities.User{}, &entities.JournalEntry{}); err != nil {
		sqlDB.Close()
		return g.initFailed("migrate", err)
	}

	g.db = db
	g.sqlDB = sqlDB
	log.Printf("Database initialized successfully at %s", g.path)
	return nil
}

func (g *Gateway) initFailed(stage string, err error) error {
	initErr := &InitializationError{Path: g.path, Stage: stage, Err: err}
	log.Printf("ERROR: %v", initErr)
	return initErr
}

func applyPragmas(ctx context.Context, db *sql.DB, busyTimeout time.Duration) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout.Milliseconds()),
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Execute runs query with positional args along the path selected by kind,
// initializing the gateway first if needed.
func (g *Gateway) Execute(ctx context.Context, kind Kind, query string, args ...any) (*Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.initLocked(ctx); err != nil {
		return nil, err
	}

	switch kind {
	case KindQuery:
		rows, err := g.queryLocked(ctx, query, args)
		if err != nil {
			return nil, g.queryFailed(kind, query, err)
		}
		return &Result{Rows: rows}, nil
	case KindExec:
		res, err := g.execLocked(ctx, query, args)
		if err != nil {
			return nil, g.queryFailed(kind, query, err)
		}
		return &Result{ExecResult: res}, nil
	default:
		return nil, g.queryFailed(kind, query, fmt.Errorf("unknown statement kind %d", int(kind)))
	}
}

// Query is shorthand for Execute with KindQuery.
func (g *Gateway) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	res, err := g.Execute(ctx, KindQuery, query, args...)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// Exec is shorthand for Execute with KindExec.
func (g *Gateway) Exec(ctx context.Context, query string, args ...any) (ExecResult, error) {
	res, err := g.Execute(ctx, KindExec, query, args...)
	if err != nil {
		return ExecResult{}, err
	}
	return res.ExecResult, nil
}

func (g *Gateway) queryLocked(ctx context.Context, query string, args []any) ([]Row, error) {
	rows, err := g.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			// The driver may hand back a reused buffer for TEXT/BLOB.
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (g *Gateway) execLocked(ctx context.Context, query string, args []any) (ExecResult, error) {
	res, err := g.sqlDB.ExecContext(ctx, query, args...)
	if err != nil {
		return ExecResult{}, err
	}

	lastID, err := res.LastInsertId()
	if err != nil {
		return ExecResult{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return ExecResult{}, err
	}
	return ExecResult{LastInsertID: lastID, RowsAffected: affected}, nil
}

func (g *Gateway) queryFailed(kind Kind, query string, err error) error {
	qErr := &QueryError{Kind: kind, Query: query, Err: err}
	// Unique conflicts are an expected answer the caller maps to its own error.
	if !IsUniqueViolation(err) {
		log.Printf("ERROR: %v", qErr)
	}
	return qErr
}

// Ping checks the connection. An uninitialized gateway reports ErrNotInitialized.
func (g *Gateway) Ping(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sqlDB == nil {
		return ErrNotInitialized
	}
	return g.sqlDB.PingContext(ctx)
}

// Close releases the connection. The gateway may be initialized again afterwards.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sqlDB == nil {
		return nil
	}
	err := g.sqlDB.Close()
	g.db = nil
	g.sqlDB = nil
	return err
}

// ClassifyQuery guesses the kind of a raw statement: anything whose first
// keyword is SELECT is a query, everything else is an exec. Prefer passing
// an explicit Kind to Execute.
func ClassifyQuery(query string) Kind {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) >= len("select") && strings.EqualFold(trimmed[:len("select")], "select") {
		return KindQuery
	}
	return KindExec
}
