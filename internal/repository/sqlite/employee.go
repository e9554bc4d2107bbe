package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/groundops/ops-backend-go/internal/domain/employee"
	"github.com/groundops/ops-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewEmployeeRepository(db *database.SQLiteDB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, employee_code, full_name, designation, shift, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var e employee.Employee
	var createdAt, updatedAt string
	if err := row.Scan(&e.ID, &e.EmployeeCode, &e.FullName, &e.Designation, &e.Shift, &e.IsActive, &createdAt, &updatedAt); err != nil {
		return employee.Employee{}, err
	}
	var err error
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return employee.Employee{}, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return employee.Employee{}, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}
	return e, nil
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepositoryImpl) GetByIDs(ctx context.Context, ids []string) (map[string]employee.Employee, error) {
	result := make(map[string]employee.Employee, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id IN (` + placeholders(len(ids)) + `)`
	rows, err := q.QueryContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		result[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return result, nil
}

func (r *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE is_active = 1 ORDER BY employee_code, full_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

func (r *employeeRepositoryImpl) Upsert(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if e.ID == "" {
		e.ID = uuid.Must(uuid.NewV7()).String()
	}
	q := GetQuerier(ctx, r.db)
	now := formatTime(time.Now())

	query := `
		INSERT INTO employees (id, employee_code, full_name, designation, shift, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			employee_code = excluded.employee_code,
			full_name = excluded.full_name,
			designation = excluded.designation,
			shift = excluded.shift,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at
		RETURNING ` + employeeColumns

	saved, err := scanEmployee(q.QueryRowContext(ctx, query, e.ID, e.EmployeeCode, e.FullName, e.Designation, e.Shift, e.IsActive, now, now))
	if err != nil {
		if isUniqueViolation(err, "employee_code") {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to upsert employee: %w", err)
	}
	return saved, nil
}
