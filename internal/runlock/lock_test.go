package runlock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glowlane/catalog-sync-backend/pkg/errors"
	"github.com/glowlane/catalog-sync-backend/pkg/logger"
)

type fakeStore struct {
	values   map[string]string
	setNXErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if f.setNXErr != nil {
		return false, f.setNXErr
	}
	if _, held := f.values[key]; held {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", errors.New("missing key")
	}
	return value, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestAcquireAndRelease(t *testing.T) {
	store := newFakeStore()
	locker := NewRedisLocker(store, "gl:export:run_lock", time.Hour, logger.New(logger.Options{ServiceName: "test"}))

	release, err := locker.Acquire(context.Background())
	require.NoError(t, err)
	assert.Contains(t, store.values, "gl:export:run_lock")

	release(context.Background())
	assert.NotContains(t, store.values, "gl:export:run_lock")
}

func TestAcquireConflictsWhileHeld(t *testing.T) {
	store := newFakeStore()
	locker := NewRedisLocker(store, "gl:export:run_lock", time.Hour, logger.New(logger.Options{ServiceName: "test"}))

	release, err := locker.Acquire(context.Background())
	require.NoError(t, err)

	_, err = locker.Acquire(context.Background())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	release(context.Background())
	_, err = locker.Acquire(context.Background())
	require.NoError(t, err)
}

func TestReleaseLeavesForeignLockAlone(t *testing.T) {
	store := newFakeStore()
	locker := NewRedisLocker(store, "gl:export:run_lock", time.Hour, logger.New(logger.Options{ServiceName: "test"}))

	release, err := locker.Acquire(context.Background())
	require.NoError(t, err)

	// Simulate TTL expiry and takeover by a second run.
	store.values["gl:export:run_lock"] = "someone-else"
	release(context.Background())
	assert.Equal(t, "someone-else", store.values["gl:export:run_lock"])
}

func TestAcquireWrapsStoreErrors(t *testing.T) {
	store := newFakeStore()
	store.setNXErr = errors.New("redis down")
	locker := NewRedisLocker(store, "gl:export:run_lock", time.Hour, logger.New(logger.Options{ServiceName: "test"}))

	_, err := locker.Acquire(context.Background())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestNoopLocker(t *testing.T) {
	locker := NewNoopLocker()
	release, err := locker.Acquire(context.Background())
	require.NoError(t, err)
	release(context.Background())
}
