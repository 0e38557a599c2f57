package gateways

import (
	"context"

	"github.com/hecksum/hecksum/internal/domain/entities"
)

// Tracker defines operations against the external tracking service that
// records check outcomes for human review.
type Tracker interface {
	// SubmitCheck files one check result. Submission is at-most-once per run;
	// failures are returned to the caller, never retried here.
	SubmitCheck(ctx context.Context, check *entities.Check) error
}
