package classificationhandlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	classificationservice "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/application"
	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
	classificationqueue "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/queue"
)

// Metrics records handler-level telemetry.
type Metrics interface {
	RecordHandlerAttempt(ctx context.Context, handlerName string)
	RecordHandlerSuccess(ctx context.Context, handlerName string)
	RecordHandlerFailure(ctx context.Context, handlerName string)
	RecordHandlerDuration(ctx context.Context, handlerName string, duration time.Duration)
}

// Result is an event a handler wants published after it completes.
type Result struct {
	Topic   string
	Payload interface{}
}

// ClassificationHandlers turns change notifications into queued recomputes.
type ClassificationHandlers struct {
	service classificationservice.Service
	queue   classificationqueue.QueueService
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics Metrics
}

// NewClassificationHandlers creates a new ClassificationHandlers.
func NewClassificationHandlers(
	service classificationservice.Service,
	queue classificationqueue.QueueService,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics Metrics,
) *ClassificationHandlers {
	return &ClassificationHandlers{
		service: service,
		queue:   queue,
		logger:  logger,
		tracer:  tracer,
		metrics: metrics,
	}
}

var _ Handlers = (*ClassificationHandlers)(nil)

// wrapHandler handles tracing, logging, metrics and payload decoding for a
// handler, and turns its Results into outgoing messages with the correlation
// ID carried over.
func wrapHandler[P any](
	h *ClassificationHandlers,
	handlerName string,
	handlerFunc func(ctx context.Context, payload *P) ([]Result, error),
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx, span := h.tracer.Start(msg.Context(), handlerName, trace.WithAttributes(
			attribute.String("handler", handlerName),
			attribute.String("message_id", msg.UUID),
		))
		defer span.End()

		h.metrics.RecordHandlerAttempt(ctx, handlerName)

		startTime := time.Now()
		defer func() {
			h.metrics.RecordHandlerDuration(ctx, handlerName, time.Since(startTime))
		}()

		h.logger.InfoContext(ctx, handlerName+" triggered",
			slog.String("message_id", msg.UUID),
			slog.String("correlation_id", middleware.MessageCorrelationID(msg)),
		)

		payload := new(P)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			h.logger.ErrorContext(ctx, "Failed to unmarshal payload",
				slog.String("message_id", msg.UUID),
				slog.Any("error", err),
			)
			h.metrics.RecordHandlerFailure(ctx, handlerName)
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}

		results, err := handlerFunc(ctx, payload)
		if err != nil {
			h.logger.ErrorContext(ctx, "Error in "+handlerName,
				slog.String("message_id", msg.UUID),
				slog.Any("error", err),
			)
			h.metrics.RecordHandlerFailure(ctx, handlerName)
			span.RecordError(err)
			return nil, err
		}

		out := make([]*message.Message, 0, len(results))
		for _, r := range results {
			body, err := json.Marshal(r.Payload)
			if err != nil {
				h.metrics.RecordHandlerFailure(ctx, handlerName)
				return nil, fmt.Errorf("failed to marshal result for %s: %w", r.Topic, err)
			}
			outMsg := message.NewMessage(watermill.NewUUID(), body)
			outMsg.Metadata.Set("topic", r.Topic)
			middleware.SetCorrelationID(middleware.MessageCorrelationID(msg), outMsg)
			out = append(out, outMsg)
		}

		h.logger.InfoContext(ctx, handlerName+" completed successfully",
			slog.String("message_id", msg.UUID),
		)
		h.metrics.RecordHandlerSuccess(ctx, handlerName)
		return out, nil
	}
}

// enqueueScopes queues recomputes for a batch of scopes, preferring the batch
// insert path once more than one scope is affected.
func (h *ClassificationHandlers) enqueueScopes(ctx context.Context, scopes []classificationdomain.Scope) error {
	switch len(scopes) {
	case 0:
		return nil
	case 1:
		return h.queue.EnqueueRecompute(ctx, scopes[0])
	default:
		_, err := h.queue.EnqueueRecomputeBatch(ctx, scopes)
		return err
	}
}
