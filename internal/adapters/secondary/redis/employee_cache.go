package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lorrc/scan-relay/internal/core/domain"
	"github.com/lorrc/scan-relay/internal/core/ports"
)

// employeeKeyPrefix namespaces cached lookups by hash key
const employeeKeyPrefix = "scan-relay:employee:"

// EmployeeCache keeps recently resolved employees in Redis. Only positive
// results are stored, so a newly added employee is visible immediately.
type EmployeeCache struct {
	client redis.UniversalClient
}

var _ ports.EmployeeCache = (*EmployeeCache)(nil)

// NewEmployeeCache constructs a Redis-backed employee cache.
func NewEmployeeCache(client redis.UniversalClient) *EmployeeCache {
	return &EmployeeCache{client: client}
}

// Get returns the cached employee, or nil without error on a miss.
func (c *EmployeeCache) Get(ctx context.Context, hashKey string) (*domain.Employee, error) {
	data, err := c.client.Get(ctx, employeeKeyPrefix+hashKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get employee: %w", err)
	}

	var e domain.Employee
	if err := json.Unmarshal(data, &e); err != nil {
		// A corrupt entry is treated as a miss and replaced on the next write
		return nil, nil
	}
	return &e, nil
}

// Set stores employee under its hash key for ttl.
func (c *EmployeeCache) Set(ctx context.Context, employee *domain.Employee, ttl time.Duration) error {
	if employee == nil || employee.HashKey == "" {
		return nil
	}

	data, err := json.Marshal(employee)
	if err != nil {
		return fmt.Errorf("encode employee: %w", err)
	}

	if err := c.client.Set(ctx, employeeKeyPrefix+employee.HashKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set employee: %w", err)
	}
	return nil
}
