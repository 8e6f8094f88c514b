// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - auth.UserStore: user lookup and creation (internal/auth/flow.go),
//     implemented by internal/database/users
//   - journal.Store: entry persistence (internal/journal/flow.go),
//     implemented by internal/database/entries
//
// Both repositories issue SQL through the shared *database.Gateway and never
// open the database file themselves.
//
// ## Device Interfaces
//
//   - journal.ImageSource: camera or photo library (internal/journal/image.go),
//     implemented by images.Library.Source for uploaded files
//   - journal.Confirmer: yes/no prompt before deleting an entry
//
// # Adding a New Image Source
//
//  1. Implement ImageSource:
//
//     func (s *ScannerSource) Acquire(ctx context.Context, req journal.ImageRequest) (journal.Image, error)
//
//     Return journal.Image{Canceled: true} when the user backs out and a
//     *journal.PermissionError when access is refused.
//
//  2. Pass it to (*journal.Flow).PickImage from an HTTP handler.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
