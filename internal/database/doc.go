// Package database provides the data access layer for the application.
//
// # Architecture
//
// A single Gateway owns the SQLite connection. Domain sub-packages build
// repositories on top of it:
//
//	database/
//	├── gateway.go       # Connection setup, pragmas, migrations, Execute
//	├── errors.go        # InitializationError, QueryError, constraint helpers
//	├── rows.go          # Typed accessors for result rows
//	├── users/           # User lookup and creation
//	└── entries/         # Journal entry CRUD
//
// # Executing Statements
//
// Callers state what a statement returns instead of relying on its text:
//
//	gw := database.NewGateway("./food-journal.db")
//
//	rows, err := gw.Query(ctx, "SELECT id FROM users WHERE email = ?", email)
//	res, err := gw.Exec(ctx, "DELETE FROM journal_entries WHERE id = ?", id)
//
// Execute initializes the gateway on first use. Initialize itself is
// idempotent, so the application shell may call it eagerly at startup and
// learn about a broken database file before any screen is shown.
//
// # Errors
//
// Failures to open or migrate the file are *InitializationError; failures
// of a single statement are *QueryError wrapping the driver error. Use
// IsUniqueViolation and IsForeignKeyViolation to inspect constraint failures.
package database
