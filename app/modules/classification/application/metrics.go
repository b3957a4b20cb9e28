package classificationservice

import (
	"context"
	"time"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
)

// Metrics records service-level telemetry for classification operations.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation string, scope classificationdomain.Scope)
	RecordOperationSuccess(ctx context.Context, operation string, scope classificationdomain.Scope)
	RecordOperationFailure(ctx context.Context, operation string, scope classificationdomain.Scope)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordRecomputeStages(ctx context.Context, scope classificationdomain.Scope, stages int)
}

// NoOpMetrics is used in tests and when metrics are disabled.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string, classificationdomain.Scope) {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string, classificationdomain.Scope) {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, classificationdomain.Scope) {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration)             {}
func (NoOpMetrics) RecordRecomputeStages(context.Context, classificationdomain.Scope, int)     {}
