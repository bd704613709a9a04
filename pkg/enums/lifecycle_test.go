package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleStatusIsValid(t *testing.T) {
	for _, status := range []LifecycleStatus{
		LifecycleStatusNew,
		LifecycleStatusUpdated,
		LifecycleStatusExported,
		LifecycleStatusNotReady,
	} {
		assert.True(t, status.IsValid(), "status %s", status)
	}
	assert.False(t, LifecycleStatus("DELETED").IsValid())
	assert.False(t, LifecycleStatus("").IsValid())
}

func TestParseLifecycleStatus(t *testing.T) {
	status, err := ParseLifecycleStatus("NOT_READY")
	require.NoError(t, err)
	assert.Equal(t, LifecycleStatusNotReady, status)

	_, err = ParseLifecycleStatus("not_ready")
	assert.Error(t, err)
}

func TestExportableStatusesCoverEveryLifecycleState(t *testing.T) {
	statuses := ExportableStatuses()
	require.Len(t, statuses, 4)
	for _, status := range statuses {
		assert.True(t, status.IsValid())
	}
}

func TestParseExportBucket(t *testing.T) {
	bucket, err := ParseExportBucket("upd")
	require.NoError(t, err)
	assert.Equal(t, ExportBucketUpdated, bucket)

	_, err = ParseExportBucket("UPD")
	assert.Error(t, err)
}
