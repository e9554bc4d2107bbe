package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/groundops/ops-backend-go/internal/domain/recovery"
	"github.com/groundops/ops-backend-go/internal/pkg/database"
)

type recoveryRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewRecoveryRepository(db *database.SQLiteDB) recovery.RecoveryRepository {
	return &recoveryRepositoryImpl{db: db}
}

const recoveryColumns = `id, employee_id, reason, total_amount, paid_amount, rate, status, created_at, updated_at`

func scanRecovery(row rowScanner) (recovery.Recovery, error) {
	var rc recovery.Recovery
	var createdAt, updatedAt string
	if err := row.Scan(&rc.ID, &rc.EmployeeID, &rc.Reason, &rc.TotalAmount, &rc.PaidAmount, &rc.Rate, &rc.Status, &createdAt, &updatedAt); err != nil {
		return recovery.Recovery{}, err
	}
	var err error
	if rc.CreatedAt, err = parseTime(createdAt); err != nil {
		return recovery.Recovery{}, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if rc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return recovery.Recovery{}, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	return rc, nil
}

func (r *recoveryRepositoryImpl) ListActiveByEmployeeIDs(ctx context.Context, employeeIDs []string) (map[string][]recovery.Recovery, error) {
	result := make(map[string][]recovery.Recovery)
	if len(employeeIDs) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recoveryColumns + `
		FROM recoveries
		WHERE employee_id IN (` + placeholders(len(employeeIDs)) + `) AND status = ?
		ORDER BY created_at, id
	`
	args := append(stringArgs(employeeIDs), string(recovery.StatusActive))

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active recoveries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rc, err := scanRecovery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recovery: %w", err)
		}
		result[rc.EmployeeID] = append(result[rc.EmployeeID], rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recoveries: %w", err)
	}
	return result, nil
}

func (r *recoveryRepositoryImpl) Create(ctx context.Context, rc recovery.Recovery) (recovery.Recovery, error) {
	if rc.ID == "" {
		rc.ID = uuid.Must(uuid.NewV7()).String()
	}
	if rc.Status == "" {
		rc.Status = recovery.StatusActive
	}
	q := GetQuerier(ctx, r.db)
	now := formatTime(time.Now())

	query := `
		INSERT INTO recoveries (id, employee_id, reason, total_amount, paid_amount, rate, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + recoveryColumns

	saved, err := scanRecovery(q.QueryRowContext(ctx, query,
		rc.ID, rc.EmployeeID, rc.Reason, rc.TotalAmount.String(), rc.PaidAmount.String(), rc.Rate, string(rc.Status), now, now))
	if err != nil {
		return recovery.Recovery{}, fmt.Errorf("failed to create recovery: %w", err)
	}
	return saved, nil
}
