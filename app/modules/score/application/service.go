package scoreservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/leaderboard-scores/internal/metrics/scoremetrics"
	"github.com/Black-And-White-Club/leaderboard-scores/pkg/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Options tunes request decoding and response rendering.
type Options struct {
	// DefaultLimit applies when a read request has no limit.
	DefaultLimit int
	// Location is the zone created_time is rendered in.
	Location *time.Location
	// Palette colors the leaderboard chart.
	Palette ChartPalette
}

// ScoreService implements the Service interface.
type ScoreService struct {
	repo    scoredb.Repository
	logger  *slog.Logger
	metrics scoremetrics.ScoreMetrics
	tracer  trace.Tracer
	db      *bun.DB
	opts    Options
}

// NewScoreService creates a new ScoreService. A nil db runs writes without
// an explicit transaction, which is how the unit tests drive it.
func NewScoreService(
	repo scoredb.Repository,
	logger *slog.Logger,
	metrics scoremetrics.ScoreMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts Options,
) *ScoreService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Palette == (ChartPalette{}) {
		opts.Palette = DefaultChartPalette
	}
	return &ScoreService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
		opts:    opts,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *ScoreService,
	ctx context.Context,
	operationName string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	requestID := RequestID(ctx)
	ctx = WithRequestID(ctx, requestID)

	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("request_id", requestID),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.DebugContext(ctx, operationName+" triggered",
		slog.String("operation", operationName),
		slog.String("request_id", requestID),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("operation", operationName),
				slog.String("request_id", requestID),
				slog.Any("error", err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, scoremetrics.FailurePanic)
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		s.logger.ErrorContext(ctx, "Operation failed with error",
			slog.String("operation", operationName),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		kind := scoremetrics.FailureInternal
		if errors.Is(err, ErrStorage) {
			kind = scoremetrics.FailureStorage
		}
		s.metrics.RecordOperationFailure(ctx, operationName, kind)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			slog.String("operation", operationName),
			slog.String("request_id", requestID),
			slog.Any("failure_payload", *result.Failure),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, scoremetrics.FailureValidation)
		span.SetAttributes(attribute.Bool("bad_request", true))
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			slog.String("operation", operationName),
			slog.String("request_id", requestID),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func (s *ScoreService) runInTx(ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

// timedQuery runs one repository call inside its own span.
func (s *ScoreService) timedQuery(ctx context.Context, query string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "scoredb."+query, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	s.metrics.RecordDBQueryDuration(ctx, query, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// rejectRequest logs the raw event that failed validation and converts the
// violation into a failure result.
func rejectRequest[S any](s *ScoreService, ctx context.Context, event []byte, verr *scoredomain.ValidationError) results.OperationResult[S, scoredomain.ValidationError] {
	s.logger.InfoContext(ctx, "Rejected request",
		slog.String("request_id", RequestID(ctx)),
		slog.String("event", string(event)),
		slog.String("field", verr.Path),
		slog.String("reason", verr.Reason),
	)
	return results.FailureResult[S](*verr)
}

func (s *ScoreService) toViews(rows []scoredb.Score) []scoredomain.ScoreView {
	views := make([]scoredomain.ScoreView, 0, len(rows))
	for _, row := range rows {
		views = append(views, scoredomain.NewScoreView(row.Score, row.Username, row.CreatedTime, row.Misc, s.opts.Location))
	}
	return views
}
