package ports

import (
	"context"
	"time"

	"github.com/lorrc/scan-relay/internal/core/domain"
)

// EmployeeRepository defines the port for reading enrichment records from
// the backing store.
type EmployeeRepository interface {
	// GetByHashKey returns the first employee with the given hash key, or
	// apperrors.ErrEmployeeNotFound when there is none.
	GetByHashKey(ctx context.Context, hashKey string) (*domain.Employee, error)
}

// EmployeeCache defines the port for an optional read-through cache in front
// of the EmployeeRepository. A miss returns (nil, nil).
type EmployeeCache interface {
	Get(ctx context.Context, hashKey string) (*domain.Employee, error)
	Set(ctx context.Context, employee *domain.Employee, ttl time.Duration) error
}
