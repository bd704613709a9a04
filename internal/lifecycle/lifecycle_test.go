package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowlane/catalog-sync-backend/pkg/enums"
)

func TestAdvance(t *testing.T) {
	cases := []struct {
		from enums.LifecycleStatus
		want enums.LifecycleStatus
	}{
		{enums.LifecycleStatusNew, enums.LifecycleStatusExported},
		{enums.LifecycleStatusUpdated, enums.LifecycleStatusExported},
		{enums.LifecycleStatusExported, enums.LifecycleStatusNotReady},
		{enums.LifecycleStatusNotReady, enums.LifecycleStatusNotReady},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Advance(tc.from), "from %s", tc.from)
	}
}

func TestTransitionsDemoteBeforePromote(t *testing.T) {
	transitions := Transitions()
	require.Len(t, transitions, 3)

	// A row must never take two steps in one run: EXIST rows leave for
	// NOT_READY before any NEW/UPD row arrives at EXIST.
	assert.Equal(t, enums.LifecycleStatusExported, transitions[0].From)
	assert.Equal(t, enums.LifecycleStatusNotReady, transitions[0].To)
	for _, tr := range transitions[1:] {
		assert.Equal(t, enums.LifecycleStatusExported, tr.To)
	}
}

func TestDeriveParentStatus(t *testing.T) {
	cases := []struct {
		name     string
		variants []enums.LifecycleStatus
		want     enums.LifecycleStatus
	}{
		{
			name:     "all new",
			variants: []enums.LifecycleStatus{enums.LifecycleStatusNew, enums.LifecycleStatusNew},
			want:     enums.LifecycleStatusNew,
		},
		{
			name:     "any updated",
			variants: []enums.LifecycleStatus{enums.LifecycleStatusNew, enums.LifecycleStatusUpdated},
			want:     enums.LifecycleStatusUpdated,
		},
		{
			name:     "steady state",
			variants: []enums.LifecycleStatus{enums.LifecycleStatusExported, enums.LifecycleStatusNotReady},
			want:     enums.LifecycleStatusExported,
		},
		{
			name:     "no variants",
			variants: nil,
			want:     enums.LifecycleStatusExported,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveParentStatus(tc.variants))
		})
	}
}
