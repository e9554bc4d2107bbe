package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/groundops/ops-backend-go/internal/domain/recovery"
	"github.com/groundops/ops-backend-go/internal/pkg/database"
)

type recoveryRepositoryImpl struct {
	db *database.DB
}

func NewRecoveryRepository(db *database.DB) recovery.RecoveryRepository {
	return &recoveryRepositoryImpl{db: db}
}

const recoveryColumns = `id, employee_id, reason, total_amount, paid_amount, rate, status, created_at, updated_at`

// ListActiveByEmployeeIDs implements recovery.RecoveryRepository.
func (r *recoveryRepositoryImpl) ListActiveByEmployeeIDs(ctx context.Context, employeeIDs []string) (map[string][]recovery.Recovery, error) {
	result := make(map[string][]recovery.Recovery)
	if len(employeeIDs) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recoveryColumns + `
		FROM recoveries
		WHERE employee_id = ANY($1) AND status = $2
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, employeeIDs, recovery.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active recoveries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rc recovery.Recovery
		if err := rows.Scan(&rc.ID, &rc.EmployeeID, &rc.Reason, &rc.TotalAmount, &rc.PaidAmount, &rc.Rate, &rc.Status, &rc.CreatedAt, &rc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recovery: %w", err)
		}
		result[rc.EmployeeID] = append(result[rc.EmployeeID], rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recoveries: %w", err)
	}
	return result, nil
}

// Create implements recovery.RecoveryRepository.
func (r *recoveryRepositoryImpl) Create(ctx context.Context, rc recovery.Recovery) (recovery.Recovery, error) {
	if rc.ID == "" {
		rc.ID = uuid.Must(uuid.NewV7()).String()
	}
	if rc.Status == "" {
		rc.Status = recovery.StatusActive
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO recoveries (id, employee_id, reason, total_amount, paid_amount, rate, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + recoveryColumns

	var saved recovery.Recovery
	err := q.QueryRow(ctx, query, rc.ID, rc.EmployeeID, rc.Reason, rc.TotalAmount, rc.PaidAmount, rc.Rate, rc.Status).
		Scan(&saved.ID, &saved.EmployeeID, &saved.Reason, &saved.TotalAmount, &saved.PaidAmount, &saved.Rate, &saved.Status, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return recovery.Recovery{}, fmt.Errorf("failed to create recovery: %w", err)
	}
	return saved, nil
}
