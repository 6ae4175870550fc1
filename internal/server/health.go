package server

import (
	"context"
)

// HealthService defines behaviour for readiness probes. The explorer service
// satisfies it by pinging its relationship source.
type HealthService interface {
	Probe(ctx context.Context) error
}
