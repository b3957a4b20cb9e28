package classificationqueue

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"

	"github.com/Brasil-Rental-Karts/brk-backend-sub002/app/eventbus"
	classificationservice "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/application"
	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
)

// insertBatchSize bounds one InsertMany call during championship fan-outs.
const insertBatchSize = 500

// Metrics records queue-level telemetry.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// QueueService is the contract for scheduling recomputation jobs.
type QueueService interface {
	// EnqueueRecompute queues one scope, de-duplicated against already queued jobs.
	EnqueueRecompute(ctx context.Context, scope classificationdomain.Scope) error
	// EnqueueRecomputeBatch queues many scopes and reports how many inserts were new.
	EnqueueRecomputeBatch(ctx context.Context, scopes []classificationdomain.Scope) (int, error)
	// GetScheduledJobs returns queued recompute jobs for a scope (for debugging).
	GetScheduledJobs(ctx context.Context, scope classificationdomain.Scope) ([]JobInfo, error)
	// HealthCheck verifies the queue service is healthy.
	HealthCheck(ctx context.Context) error
	// Start starts the queue service.
	Start(ctx context.Context) error
	// Stop stops the queue service.
	Stop(ctx context.Context) error
}

// Ensure Service implements QueueService
var _ QueueService = (*Service)(nil)

// Service handles recomputation scheduling for the classification module using River.
type Service struct {
	client      *river.Client[pgx.Tx]
	pool        *pgxpool.Pool
	logger      *slog.Logger
	db          *bun.DB
	metrics     Metrics
	insertLimit *rate.Limiter
}

// NewService creates a River-based queue service. The worker count is bounded
// by core count so a championship-wide fan-out cannot starve the database.
func NewService(
	ctx context.Context,
	bunDB *bun.DB,
	logger *slog.Logger,
	dsn string,
	metrics Metrics,
	eventBus eventbus.EventBus,
	classification classificationservice.Service,
) (*Service, error) {
	ctxLogger := logger.With(
		slog.String("operation", "new_classification_queue_service"),
		slog.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", "river")

	ctxLogger.Info("Initializing classification queue service")

	// River requires pgx, not database/sql.
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		ctxLogger.Error("Failed to parse DSN for River", slog.Any("error", err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		ctxLogger.Error("Failed to create pgx pool for River", slog.Any("error", err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", slog.Any("error", err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewRecomputeWorker(ctxLogger, classification, eventBus))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			QueueName:          {MaxWorkers: runtime.NumCPU()},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", slog.Any("error", err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	service := &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: metrics,
		// Fan-out throttle: batches per second, with room for one burst.
		insertLimit: rate.NewLimiter(rate.Limit(4), 1),
	}

	duration := time.Since(start)
	metrics.RecordOperationSuccess(ctx, "initialize_service", "river")
	metrics.RecordOperationDuration(ctx, "initialize_service", "river", duration)

	ctxLogger.Info("Classification queue service initialized successfully")
	return service, nil
}

// Start starts the River queue service.
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", "river")

	s.logger.Info("Starting classification queue service")

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "start_service", "river")
		return fmt.Errorf("failed to start River client: %w", err)
	}

	duration := time.Since(start)
	s.metrics.RecordOperationSuccess(ctx, "start_service", "river")
	s.metrics.RecordOperationDuration(ctx, "start_service", "river", duration)

	s.logger.Info("Classification queue service started successfully")
	return nil
}

// Stop stops the River queue service and releases the pgx pool.
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "stop_service", "river")

	s.logger.Info("Stopping classification queue service")

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", "river")
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.pool.Close()

	duration := time.Since(start)
	s.metrics.RecordOperationSuccess(ctx, "stop_service", "river")
	s.metrics.RecordOperationDuration(ctx, "stop_service", "river", duration)

	s.logger.Info("Classification queue service stopped successfully")
	return nil
}

// EnqueueRecompute queues a recompute for one scope. Uniqueness by args means
// repeated change events for the same scope collapse into one queued job.
func (s *Service) EnqueueRecompute(ctx context.Context, scope classificationdomain.Scope) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_recompute", "river")

	ctxLogger := s.logger.With(
		slog.String("scope", scope.Key()),
		slog.String("operation", "enqueue_recompute"),
	)

	result, err := s.client.Insert(ctx, RecomputeJobArgs{Scope: scope}, nil)
	if err != nil {
		ctxLogger.Error("Failed to enqueue recompute job", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "enqueue_recompute", "river")
		return fmt.Errorf("failed to enqueue recompute job: %w", err)
	}

	duration := time.Since(start)
	s.metrics.RecordOperationSuccess(ctx, "enqueue_recompute", "river")
	s.metrics.RecordOperationDuration(ctx, "enqueue_recompute", "river", duration)

	if result.UniqueSkippedAsDuplicate {
		ctxLogger.Debug("Recompute already queued for scope, skipped duplicate")
	} else {
		ctxLogger.Info("Recompute job enqueued", slog.Int64("job_id", result.Job.ID))
	}
	return nil
}

// EnqueueRecomputeBatch queues recomputes for many scopes, in throttled
// batches so a scoring-system change over a large championship does not slam
// the job table. Returns the number of newly inserted jobs.
func (s *Service) EnqueueRecomputeBatch(ctx context.Context, scopes []classificationdomain.Scope) (int, error) {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_recompute_batch", "river")

	inserted := 0
	for offset := 0; offset < len(scopes); offset += insertBatchSize {
		if err := s.insertLimit.Wait(ctx); err != nil {
			s.metrics.RecordOperationFailure(ctx, "enqueue_recompute_batch", "river")
			return inserted, fmt.Errorf("fan-out throttled wait: %w", err)
		}

		end := offset + insertBatchSize
		if end > len(scopes) {
			end = len(scopes)
		}
		params := make([]river.InsertManyParams, 0, end-offset)
		for _, scope := range scopes[offset:end] {
			params = append(params, river.InsertManyParams{Args: RecomputeJobArgs{Scope: scope}})
		}

		results, err := s.client.InsertMany(ctx, params)
		if err != nil {
			s.logger.Error("Failed to enqueue recompute batch",
				slog.Int("offset", offset),
				slog.Any("error", err),
			)
			s.metrics.RecordOperationFailure(ctx, "enqueue_recompute_batch", "river")
			return inserted, fmt.Errorf("failed to enqueue recompute batch: %w", err)
		}
		for _, r := range results {
			if !r.UniqueSkippedAsDuplicate {
				inserted++
			}
		}
	}

	duration := time.Since(start)
	s.metrics.RecordOperationSuccess(ctx, "enqueue_recompute_batch", "river")
	s.metrics.RecordOperationDuration(ctx, "enqueue_recompute_batch", "river", duration)

	s.logger.Info("Recompute fan-out enqueued",
		slog.Int("scopes", len(scopes)),
		slog.Int("inserted", inserted),
	)
	return inserted, nil
}

// GetScheduledJobs returns queued recompute jobs for a scope (for debugging).
func (s *Service) GetScheduledJobs(ctx context.Context, scope classificationdomain.Scope) ([]JobInfo, error) {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "get_scheduled_jobs", "river")

	type RiverJobRow struct {
		ID          int64      `bun:"id"`
		Kind        string     `bun:"kind"`
		State       string     `bun:"state"`
		ScheduledAt *time.Time `bun:"scheduled_at"`
		CreatedAt   time.Time  `bun:"created_at"`
		Attempt     int16      `bun:"attempt"`
		MaxAttempts int16      `bun:"max_attempts"`
	}

	var jobs []RiverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "scheduled_at", "created_at", "attempt", "max_attempts").
		Where("kind = ?", RecomputeJobArgs{}.Kind()).
		Where("args->'scope'->>'competitor_id' = ?", scope.CompetitorID.String()).
		Where("args->'scope'->>'category_id' = ?", scope.CategoryID.String()).
		Where("args->'scope'->>'season_id' = ?", scope.SeasonID.String()).
		Order("scheduled_at ASC NULLS LAST", "created_at ASC").
		Scan(ctx, &jobs)
	if err != nil {
		s.logger.Error("Failed to query scheduled jobs", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "get_scheduled_jobs", "river")
		return nil, fmt.Errorf("failed to query scheduled jobs: %w", err)
	}

	result := make([]JobInfo, len(jobs))
	for i, job := range jobs {
		scheduledAt := ""
		if job.ScheduledAt != nil {
			scheduledAt = job.ScheduledAt.Format(time.RFC3339)
		}
		result[i] = JobInfo{
			ID:          job.ID,
			Kind:        job.Kind,
			Scope:       scope.Key(),
			State:       job.State,
			ScheduledAt: scheduledAt,
			CreatedAt:   job.CreatedAt.Format(time.RFC3339),
			Attempt:     int(job.Attempt),
			MaxAttempts: int(job.MaxAttempts),
		}
	}

	duration := time.Since(start)
	s.metrics.RecordOperationSuccess(ctx, "get_scheduled_jobs", "river")
	s.metrics.RecordOperationDuration(ctx, "get_scheduled_jobs", "river", duration)

	return result, nil
}

// HealthCheck verifies the queue service is healthy.
func (s *Service) HealthCheck(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "health_check", "river")

	if s.client == nil {
		s.metrics.RecordOperationFailure(ctx, "health_check", "river")
		return fmt.Errorf("river client is nil")
	}

	var count int
	err := s.db.NewSelect().
		Table("river_job").
		ColumnExpr("COUNT(*)").
		Scan(ctx, &count)
	if err != nil {
		s.logger.Error("Queue service health check failed", slog.Any("error", err))
		s.metrics.RecordOperationFailure(ctx, "health_check", "river")
		return fmt.Errorf("queue service health check failed: %w", err)
	}

	duration := time.Since(start)
	s.metrics.RecordOperationSuccess(ctx, "health_check", "river")
	s.metrics.RecordOperationDuration(ctx, "health_check", "river", duration)

	s.logger.Debug("Queue service health check passed", slog.Int("total_jobs", count))
	return nil
}

// GetClient returns the underlying River client for advanced operations.
func (s *Service) GetClient() *river.Client[pgx.Tx] {
	return s.client
}
