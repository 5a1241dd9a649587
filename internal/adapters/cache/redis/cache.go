// Package redis decorates a ports.Store with a Redis read-through cache for
// the full board listing, which backs the public board view.
//
// Any successful write evicts the cached listing and bumps a generation
// counter. A listing read from the wrapped store is cached only if the
// generation did not move while it was loading, so a write racing a miss
// cannot leave a stale listing behind. Redis failures never fail a store
// call: reads fall back to the wrapped store and writes still evict on a
// best-effort basis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jsamuelsen11/taskboard-service/internal/domain/board"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/project"
	"github.com/jsamuelsen11/taskboard-service/internal/domain/user"
	"github.com/jsamuelsen11/taskboard-service/internal/platform/config"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"
)

// Compile-time checks.
var (
	_ ports.Store         = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

// CheckerName is the cache's key in readiness reports.
const CheckerName = "redis"

const (
	allBoardsKey  = "taskboard:boards:all"
	generationKey = "taskboard:boards:gen"
)

var errGenerationMoved = errors.New("board listing changed while loading")

// Store caches FindAllBoards in Redis and delegates everything else.
type Store struct {
	ports.Store
	client *goredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewClient builds a go-redis client from the cache settings.
func NewClient(cfg *config.CacheConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// New wraps base. A non-positive ttl disables caching but keeps eviction.
func New(base ports.Store, client *goredis.Client, ttl time.Duration, logger *slog.Logger) *Store {
	if base == nil {
		panic("redis.New: base store is nil")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{Store: base, client: client, ttl: max(ttl, 0), logger: logger}
}

// Name identifies the cache in readiness reports.
func (s *Store) Name() string {
	return CheckerName
}

// HealthCheck pings Redis.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%s: ping: %w", CheckerName, err)
	}
	return nil
}

// FindAllBoards serves the listing from Redis when present and populates it
// on a miss.
func (s *Store) FindAllBoards(ctx context.Context) ([]*board.Board, error) {
	if boards, ok := s.load(ctx); ok {
		return boards, nil
	}

	gen, genErr := s.generation(ctx, s.client)

	boards, err := s.Store.FindAllBoards(ctx)
	if err != nil {
		return nil, err
	}

	if genErr == nil {
		s.store(ctx, boards, gen)
	}
	return boards, nil
}

// Atomically evicts the listing after a committed unit of work.
func (s *Store) Atomically(ctx context.Context, fn func(repo ports.Repository) error) error {
	if err := s.Store.Atomically(ctx, fn); err != nil {
		return err
	}
	s.evict(ctx)
	return nil
}

func (s *Store) SaveUser(ctx context.Context, u *user.User) error {
	return s.evictAfter(ctx, s.Store.SaveUser(ctx, u))
}

func (s *Store) SaveProject(ctx context.Context, p *project.Project) error {
	return s.evictAfter(ctx, s.Store.SaveProject(ctx, p))
}

func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	return s.evictAfter(ctx, s.Store.DeleteProject(ctx, id))
}

func (s *Store) SaveBoard(ctx context.Context, b *board.Board) error {
	return s.evictAfter(ctx, s.Store.SaveBoard(ctx, b))
}

func (s *Store) DeleteBoard(ctx context.Context, id int64) error {
	return s.evictAfter(ctx, s.Store.DeleteBoard(ctx, id))
}

func (s *Store) evictAfter(ctx context.Context, err error) error {
	if err != nil {
		return err
	}
	s.evict(ctx)
	return nil
}

func (s *Store) load(ctx context.Context) ([]*board.Board, bool) {
	data, err := s.client.Get(ctx, allBoardsKey).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.logger.WarnContext(ctx, "board cache read failed", slog.Any("error", err))
		}
		return nil, false
	}

	var boards []*board.Board
	if err := json.Unmarshal(data, &boards); err != nil {
		s.logger.WarnContext(ctx, "discarding undecodable board cache entry", slog.Any("error", err))
		s.evict(ctx)
		return nil, false
	}
	return boards, true
}

// generation reads the eviction counter; a missing key is generation 0.
func (s *Store) generation(ctx context.Context, c interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}) (int64, error) {
	gen, err := c.Get(ctx, generationKey).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		s.logger.WarnContext(ctx, "board cache generation read failed", slog.Any("error", err))
	}
	return gen, err
}

// store writes the listing loaded at generation gen. WATCH makes the write
// fail if an eviction lands between the check and the SET.
func (s *Store) store(ctx context.Context, boards []*board.Board, gen int64) {
	if s.ttl == 0 {
		return
	}
	data, err := json.Marshal(boards)
	if err != nil {
		return
	}

	err = s.client.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := s.generation(ctx, tx)
		if err != nil {
			return err
		}
		if cur != gen {
			return errGenerationMoved
		}
		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.Set(ctx, allBoardsKey, data, s.ttl)
			return nil
		})
		return err
	}, generationKey)
	switch {
	case err == nil:
	case errors.Is(err, errGenerationMoved), errors.Is(err, goredis.TxFailedErr):
		s.logger.DebugContext(ctx, "skipping board cache write", slog.Int64("generation", gen))
	default:
		s.logger.WarnContext(ctx, "board cache write failed", slog.Any("error", err))
	}
}

func (s *Store) evict(ctx context.Context) {
	_, err := s.client.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Del(ctx, allBoardsKey)
		p.Incr(ctx, generationKey)
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "board cache eviction failed", slog.Any("error", err))
	}
}
