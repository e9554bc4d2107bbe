package recovery

import "context"

type RecoveryRepository interface {
	// ListActiveByEmployeeIDs returns active recoveries grouped by employee,
	// oldest first.
	ListActiveByEmployeeIDs(ctx context.Context, employeeIDs []string) (map[string][]Recovery, error)
	Create(ctx context.Context, r Recovery) (Recovery, error)
}
