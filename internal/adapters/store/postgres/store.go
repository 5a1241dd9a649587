// Package postgres implements ports.Store on PostgreSQL with GORM.
//
// Each aggregate is stored relationally: boards own their columns, columns
// own their cards, cards own their comments, attachments and checklist
// items, and foreign keys cascade deletes down that tree. Member sets are
// join tables with an ordinal so the set keeps its insertion order.
//
// Every store call runs through a circuit breaker, an optional rate limiter,
// a client span and a retry loop, and writes run inside a transaction:
//
//	Circuit Breaker → Rate Limiter → OTEL Span → Retry → Transaction → Repository
//
// A board save inside a unit of work runs in its own savepoint so that one
// failed board does not poison the transaction for the boards after it.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jsamuelsen11/taskboard-service/internal/domain"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/project"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/internal/platform/config"
	"github.com/jsamuelsen11/taskboard-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

// Compile-time checks.
var (
	_ ports.Store         = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

const checkerName = "postgres"

// Store is a PostgreSQL-backed ports.Store.
type Store struct {
	db      *gorm.DB
	breaker *gobreaker.CircuitBreaker[struct{}]
	retry   retryPolicy
	limiter *rate.Limiter // nil when rate limiting is disabled
	tracer  trace.Tracer
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// Open connects to the database named by cfg.DSN and configures the
// connection pool. The schema is not touched; call Migrate for that.
func Open(cfg *config.StoreConfig, metrics *telemetry.Metrics, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(pgdriver.Open(cfg.DSN), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("accessing connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return New(db, cfg, metrics, logger), nil
}

// New wraps an existing *gorm.DB. If metrics is nil, metric recording is
// skipped.
func New(db *gorm.DB, cfg *config.StoreConfig, metrics *telemetry.Metrics, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        checkerName,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize)
	}

	return &Store{
		db:      db,
		breaker: cb,
		retry:   newRetryPolicy(cfg.Retry),
		limiter: limiter,
		tracer:  otel.GetTracerProvider().Tracer("postgres"),
		metrics: metrics,
		logger:  logger,
	}
}

// Migrate creates or extends the schema with GORM AutoMigrate.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Name identifies the store in readiness reports.
func (s *Store) Name() string {
	return checkerName
}

// HealthCheck fails fast while the breaker is open and otherwise pings the
// database.
func (s *Store) HealthCheck(ctx context.Context) error {
	switch state := s.breaker.State(); state {
	case gobreaker.StateClosed:
		// Ping below.
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", checkerName)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", checkerName)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", checkerName, state)
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%s: %w", checkerName, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: ping: %w", checkerName, err)
	}
	return nil
}

// Atomically runs fn inside one database transaction. The transaction
// commits only if fn returns nil.
func (s *Store) Atomically(ctx context.Context, fn func(repo ports.Repository) error) error {
	return s.exec(ctx, "Atomically", func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&repo{tx: tx})
		})
	})
}

// exec runs fn through the breaker, the limiter, a span and the retry loop,
// records metrics and translates the outcome into domain errors.
func (s *Store) exec(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()

	_, err := s.breaker.Execute(func() (struct{}, error) {
		if err := s.waitForRateLimit(ctx); err != nil {
			return struct{}{}, err
		}

		spanCtx, span := s.startSpan(ctx, op)
		defer span.End()

		retryErr := s.withRetry(spanCtx, op, fn)
		finishSpan(span, retryErr)
		return struct{}{}, retryErr
	})
	err = translate(err)

	s.recordMetrics(ctx, op, start, err)
	return err
}

// do runs a single repository call as its own transaction.
func do[T any](ctx context.Context, s *Store, op string, fn func(r *repo) (T, error)) (T, error) {
	var out T
	err := s.exec(ctx, op, func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			out, err = fn(&repo{tx: tx})
			return err
		})
	})
	return out, err
}

func (s *Store) FindUserByID(ctx context.Context, id int64) (*user.User, error) {
	return do(ctx, s, "FindUserByID", func(r *repo) (*user.User, error) { return r.FindUserByID(ctx, id) })
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return do(ctx, s, "FindUserByEmail", func(r *repo) (*user.User, error) { return r.FindUserByEmail(ctx, email) })
}

func (s *Store) SaveUser(ctx context.Context, u *user.User) error {
	_, err := do(ctx, s, "SaveUser", func(r *repo) (struct{}, error) { return struct{}{}, r.SaveUser(ctx, u) })
	return err
}

func (s *Store) FindProjectByID(ctx context.Context, id int64) (*project.Project, error) {
	return do(ctx, s, "FindProjectByID", func(r *repo) (*project.Project, error) { return r.FindProjectByID(ctx, id) })
}

func (s *Store) FindProjectsByMemberID(ctx context.Context, userID int64) ([]*project.Project, error) {
	return do(ctx, s, "FindProjectsByMemberID", func(r *repo) ([]*project.Project, error) {
		return r.FindProjectsByMemberID(ctx, userID)
	})
}

func (s *Store) SaveProject(ctx context.Context, p *project.Project) error {
	_, err := do(ctx, s, "SaveProject", func(r *repo) (struct{}, error) { return struct{}{}, r.SaveProject(ctx, p) })
	return err
}

func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	_, err := do(ctx, s, "DeleteProject", func(r *repo) (struct{}, error) { return struct{}{}, r.DeleteProject(ctx, id) })
	return err
}

func (s *Store) FindBoardByID(ctx context.Context, id int64) (*board.Board, error) {
	return do(ctx, s, "FindBoardByID", func(r *repo) (*board.Board, error) { return r.FindBoardByID(ctx, id) })
}

func (s *Store) FindBoardByColumnID(ctx context.Context, columnID int64) (*board.Board, error) {
	return do(ctx, s, "FindBoardByColumnID", func(r *repo) (*board.Board, error) {
		return r.FindBoardByColumnID(ctx, columnID)
	})
}

func (s *Store) FindBoardByCardID(ctx context.Context, cardID int64) (*board.Board, error) {
	return do(ctx, s, "FindBoardByCardID", func(r *repo) (*board.Board, error) { return r.FindBoardByCardID(ctx, cardID) })
}

func (s *Store) FindBoardsByMemberID(ctx context.Context, userID int64) ([]*board.Board, error) {
	return do(ctx, s, "FindBoardsByMemberID", func(r *repo) ([]*board.Board, error) {
		return r.FindBoardsByMemberID(ctx, userID)
	})
}

func (s *Store) FindBoardsByProjectID(ctx context.Context, projectID int64) ([]*board.Board, error) {
	return do(ctx, s, "FindBoardsByProjectID", func(r *repo) ([]*board.Board, error) {
		return r.FindBoardsByProjectID(ctx, projectID)
	})
}

func (s *Store) FindAllBoards(ctx context.Context) ([]*board.Board, error) {
	return do(ctx, s, "FindAllBoards", func(r *repo) ([]*board.Board, error) { return r.FindAllBoards(ctx) })
}

func (s *Store) SaveBoard(ctx context.Context, b *board.Board) error {
	_, err := do(ctx, s, "SaveBoard", func(r *repo) (struct{}, error) { return struct{}{}, r.SaveBoard(ctx, b) })
	return err
}

func (s *Store) DeleteBoard(ctx context.Context, id int64) error {
	_, err := do(ctx, s, "DeleteBoard", func(r *repo) (struct{}, error) { return struct{}{}, r.DeleteBoard(ctx, id) })
	return err
}

// waitForRateLimit blocks until the limiter admits the call. A call that
// cannot be admitted before ctx's deadline fails with errThrottled.
func (s *Store) waitForRateLimit(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", errThrottled, err)
	}
	return nil
}

func (s *Store) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "postgres "+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", op),
		),
	)
}

// finishSpan marks the span failed for anything but a domain rejection. A
// not-found or conflict is a normal answer, not a store fault.
func finishSpan(span trace.Span, err error) {
	if err == nil || isDomainError(err) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// recordMetrics records store operation duration and count. Safe to call
// with nil metrics.
func (s *Store) recordMetrics(ctx context.Context, op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		telemetry.AttrStoreOperation.String(op),
		telemetry.AttrResult.String(resultOf(err)),
	)
	s.metrics.StoreOperationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	s.metrics.StoreOperationTotal.Add(ctx, 1, attrs)
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, errThrottled):
		return "throttled"
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	case isDomainError(err):
		return "rejected"
	default:
		return "error"
	}
}

// toUint32 clamps an int to the uint32 range.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
