package ports

import "context"

// HealthChecker is a dependency that can report whether it is usable, such
// as the postgres store or the redis board cache.
type HealthChecker interface {
	// Name keys the checker's result in readiness reports.
	Name() string

	// HealthCheck returns nil when the dependency is usable. It should give
	// up when ctx is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry collects checkers at startup and runs them for the
// readiness probe.
type HealthRegistry interface {
	Register(checker HealthChecker)

	// CheckAll runs every checker and returns results keyed by name. A nil
	// value means healthy.
	CheckAll(ctx context.Context) map[string]error
}
