package runlock

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/glowlane/catalog-sync-backend/pkg/errors"
	"github.com/glowlane/catalog-sync-backend/pkg/logger"
)

// Store defines the Redis operations the lock needs.
type Store interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Locker guards a pipeline run so overlapping invocations never interleave
// status writes or clobber each other's feed files.
type Locker interface {
	Acquire(ctx context.Context) (release func(context.Context), err error)
}

type redisLocker struct {
	store Store
	key   string
	ttl   time.Duration
	logg  *logger.Logger
}

// NewRedisLocker builds a SETNX-based run lock. The TTL bounds how long a
// crashed run can hold the lock before the next run may proceed.
func NewRedisLocker(store Store, key string, ttl time.Duration, logg *logger.Logger) Locker {
	return &redisLocker{store: store, key: key, ttl: ttl, logg: logg}
}

func (l *redisLocker) Acquire(ctx context.Context) (func(context.Context), error) {
	token := uuid.NewString()
	ok, err := l.store.SetNX(ctx, l.key, token, l.ttl)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "acquiring run lock")
	}
	if !ok {
		return nil, apperrors.New(apperrors.CodeConflict, "another run holds the lock")
	}
	release := func(ctx context.Context) {
		// Only release our own lock. If the TTL already expired and another
		// run took over, leave its lock alone.
		current, err := l.store.Get(ctx, l.key)
		if err != nil || current != token {
			return
		}
		if err := l.store.Del(ctx, l.key); err != nil {
			l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "releasing run lock failed")
		}
	}
	return release, nil
}

type noopLocker struct{}

// NewNoopLocker is used when Redis is not configured; single-host deployments
// rely on the scheduler not overlapping runs.
func NewNoopLocker() Locker {
	return noopLocker{}
}

func (noopLocker) Acquire(context.Context) (func(context.Context), error) {
	return func(context.Context) {}, nil
}
