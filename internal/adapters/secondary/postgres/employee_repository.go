package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lorrc/scan-relay/internal/core/domain"
	apperrors "github.com/lorrc/scan-relay/internal/core/errors"
	"github.com/lorrc/scan-relay/internal/core/ports"
)

// DBTX is an interface that matches both *pgxpool.Pool and pgx.Tx
// This allows the repository to work with either a pool or a transaction
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const getEmployeeByHash = `
SELECT emp_no, emp_hash, name, department, location,
       participant_type, is_bm, is_hod, attendance, image_url
FROM employees
WHERE emp_hash = $1
LIMIT 1`

const upsertEmployee = `
INSERT INTO employees (
    emp_no, emp_hash, name, department, location,
    participant_type, is_bm, is_hod, attendance, image_url
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (emp_no) DO UPDATE SET
    emp_hash = EXCLUDED.emp_hash,
    name = EXCLUDED.name,
    department = EXCLUDED.department,
    location = EXCLUDED.location,
    participant_type = EXCLUDED.participant_type,
    is_bm = EXCLUDED.is_bm,
    is_hod = EXCLUDED.is_hod,
    attendance = EXCLUDED.attendance,
    image_url = EXCLUDED.image_url`

type EmployeeRepository struct {
	db DBTX
}

var _ ports.EmployeeRepository = (*EmployeeRepository)(nil)

func NewEmployeeRepository(db DBTX) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// GetByHashKey returns the employee whose hash matches exactly.
func (r *EmployeeRepository) GetByHashKey(ctx context.Context, hashKey string) (*domain.Employee, error) {
	var e domain.Employee
	err := r.db.QueryRow(ctx, getEmployeeByHash, hashKey).Scan(
		&e.ID,
		&e.HashKey,
		&e.Name,
		&e.Department,
		&e.Location,
		&e.ParticipantType,
		&e.IsBranchManager,
		&e.IsHeadOfDepartment,
		&e.Attendance,
		&e.ImageURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, &apperrors.StoreError{Op: "get employee", Err: err}
	}
	return &e, nil
}

// Upsert inserts or replaces an employee keyed by its number. Used to load
// the roster.
func (r *EmployeeRepository) Upsert(ctx context.Context, e *domain.Employee) error {
	_, err := r.db.Exec(ctx, upsertEmployee,
		e.ID,
		e.HashKey,
		e.Name,
		e.Department,
		e.Location,
		e.ParticipantType,
		e.IsBranchManager,
		e.IsHeadOfDepartment,
		e.Attendance,
		e.ImageURL,
	)
	if err != nil {
		return &apperrors.StoreError{Op: "upsert employee", Err: err}
	}
	return nil
}
