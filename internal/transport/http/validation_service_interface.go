package http

import (
	"context"

	"dqcli/internal/dataset"
	"dqcli/internal/validation"
)

// ValidationService is the narrow service surface the handlers depend on.
type ValidationService interface {
	Validate(ctx context.Context, tbl *dataset.Table, specs []validation.RuleSpec) (validation.Outcome, error)
}
