package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/nanoncore/olt-gateway/drivers/mock"
	"github.com/nanoncore/olt-gateway/model"
	"github.com/nanoncore/olt-gateway/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSchedulerRunsTicksAndTriggers(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := NewMockClock(ctrl)
	syncTicker := NewMockTicker(ctrl)
	statusTicker := NewMockTicker(ctrl)

	syncC := make(chan time.Time, 1)
	statusC := make(chan time.Time, 1)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	clock.EXPECT().Now().Return(now).AnyTimes()
	clock.EXPECT().Ticker(30*time.Minute).Return(syncTicker)
	clock.EXPECT().Ticker(time.Minute).Return(statusTicker)
	syncTicker.EXPECT().Chan().Return(syncC)
	statusTicker.EXPECT().Chan().Return(statusC)
	syncTicker.EXPECT().Stop()
	statusTicker.EXPECT().Stop()

	store := memory.New()
	for _, olt := range fleet() {
		store.AddOLT(olt)
	}
	s := New(store, store, mockGateway(&mock.Tracker{}), WithConfig(testConfig()), WithClock(clock))

	reports := make(chan *RunReport, 4)
	sc := NewScheduler(s, 30*time.Minute, time.Minute)
	sc.OnReport = func(r *RunReport) { reports <- r }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sc.Run(ctx) }()

	require.True(t, sc.Trigger(20))
	select {
	case r := <-reports:
		assert.Equal(t, "tenant:20", r.Scope)
		assert.Len(t, r.Results, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("trigger did not produce a report")
	}

	syncC <- now
	select {
	case r := <-reports:
		assert.Equal(t, "all", r.Scope)
	case <-time.After(5 * time.Second):
		t.Fatal("tick did not produce a report")
	}

	statusC <- now
	require.Eventually(t, func() bool {
		olt, _ := store.OLT(4)
		return olt.Status == model.OLTStateOffline
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestSchedulerTriggerQueueFull(t *testing.T) {
	sc := NewScheduler(New(memory.New(), memory.New(), nil), 0, 0)
	for i := 0; i < cap(sc.triggers); i++ {
		require.True(t, sc.Trigger(1))
	}
	assert.False(t, sc.Trigger(1))
}
