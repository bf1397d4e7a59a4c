package audit

import "context"

// Repository is the persistence boundary for audit entries. Entries are
// insert-only; there is no update or delete.
type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	Search(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error)
}
