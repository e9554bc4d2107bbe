package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetByIDs returns the employees that exist, keyed by ID. Unknown IDs are
	// left out.
	GetByIDs(ctx context.Context, ids []string) (map[string]Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	Upsert(ctx context.Context, e Employee) (Employee, error)
}
