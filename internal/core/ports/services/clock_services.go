package services

import "context"

// ClockSourceSvc returns an opaque timestamp from an external clock service.
// The contract is best-effort with a short timeout: callers record the value
// informationally and must tolerate failure without aborting their own work.
type ClockSourceSvc interface {
	Now(ctx context.Context) (string, error)
}
