package http

import "context"

// HealthCheck is a dependency probed by /health
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}
