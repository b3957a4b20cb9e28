package classificationqueue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"

	classificationservice "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/application"
	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
	classificationevents "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/events"
	"github.com/Brasil-Rental-Karts/brk-backend-sub002/app/shared/results"
)

func TestRecomputeJobArgs_InsertOpts(t *testing.T) {
	opts := RecomputeJobArgs{}.InsertOpts()

	if opts.Queue != QueueName {
		t.Errorf("Queue = %q, want %q", opts.Queue, QueueName)
	}
	if !opts.UniqueOpts.ByArgs {
		t.Error("jobs must be unique by args so duplicate change events collapse")
	}
	for _, state := range opts.UniqueOpts.ByState {
		if state == rivertype.JobStateRunning {
			t.Error("running must not be a unique state: a change arriving mid-recompute needs a follow-up run")
		}
	}
	if kind := (RecomputeJobArgs{}).Kind(); kind != "classification_recompute" {
		t.Errorf("Kind = %q, want classification_recompute", kind)
	}
}

// fakeClassificationService stubs the one method the worker exercises.
type fakeClassificationService struct {
	classificationservice.Service

	recomputeFunc func(ctx context.Context, scope classificationdomain.Scope) (classificationservice.RecomputeResult, error)
}

func (f *fakeClassificationService) Recompute(ctx context.Context, scope classificationdomain.Scope) (classificationservice.RecomputeResult, error) {
	return f.recomputeFunc(ctx, scope)
}

func testScope() classificationdomain.Scope {
	return classificationdomain.Scope{
		CompetitorID: classificationdomain.CompetitorID(uuid.New()),
		CategoryID:   classificationdomain.CategoryID(uuid.New()),
		SeasonID:     classificationdomain.SeasonID(uuid.New()),
	}
}

func TestRecomputeWorker_Work(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scope := testScope()
	job := &river.Job[RecomputeJobArgs]{
		JobRow: &rivertype.JobRow{ID: 1, Attempt: 1},
		Args:   RecomputeJobArgs{Scope: scope},
	}

	t.Run("success completes the job", func(t *testing.T) {
		svc := &fakeClassificationService{
			recomputeFunc: func(ctx context.Context, s classificationdomain.Scope) (classificationservice.RecomputeResult, error) {
				return results.Ok[classificationevents.RecomputedPayloadV1, classificationevents.RecomputeFailedPayloadV1](classificationevents.RecomputedPayloadV1{Scope: s}), nil
			},
		}
		worker := NewRecomputeWorker(logger, svc, nil)
		if err := worker.Work(context.Background(), job); err != nil {
			t.Errorf("Work returned error: %v", err)
		}
	})

	t.Run("infrastructure error is retryable", func(t *testing.T) {
		svc := &fakeClassificationService{
			recomputeFunc: func(ctx context.Context, s classificationdomain.Scope) (classificationservice.RecomputeResult, error) {
				return classificationservice.RecomputeResult{}, errors.New("connection reset")
			},
		}
		worker := NewRecomputeWorker(logger, svc, nil)
		err := worker.Work(context.Background(), job)
		if err == nil {
			t.Fatal("expected error so River retries")
		}
		if !strings.Contains(err.Error(), "connection reset") {
			t.Errorf("err = %v, want the storage error surfaced unwrapped for retry", err)
		}
	})

	t.Run("configuration failure cancels the job", func(t *testing.T) {
		svc := &fakeClassificationService{
			recomputeFunc: func(ctx context.Context, s classificationdomain.Scope) (classificationservice.RecomputeResult, error) {
				return results.Fail[classificationevents.RecomputedPayloadV1](classificationevents.RecomputeFailedPayloadV1{
					Scope:  s,
					Reason: "no scoring system configured",
				}), nil
			},
		}
		worker := NewRecomputeWorker(logger, svc, nil)
		err := worker.Work(context.Background(), job)
		if err == nil {
			t.Fatal("expected cancellation error")
		}
		if !strings.Contains(err.Error(), "no scoring system configured") {
			t.Errorf("err = %v, want the configuration reason carried in the cancellation", err)
		}
	})
}
