package services

import "context"

// HealthService reports whether the data store answers queries
type HealthService interface {
	Check(ctx context.Context) (int, error)
}

type healthServiceImpl struct {
	checker HealthChecker
}

// NewHealthService creates a new health service instance
func NewHealthService(checker HealthChecker) HealthService {
	return &healthServiceImpl{checker: checker}
}

// Check returns the result of the store's arithmetic probe
func (s *healthServiceImpl) Check(ctx context.Context) (int, error) {
	return s.checker.Check(ctx)
}
