package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"portfolioAPI/internal/notification"
	"portfolioAPI/internal/testutil"
)

func TestNotificationDispatcher_DeliversAndDrains(t *testing.T) {
	defer goleak.VerifyNone(t)

	push := &testutil.FakePushProvider{}
	d := NewNotificationDispatcher(push, []string{"tok"}, 3, zaptest.NewLogger(t))

	for i := 0; i < 20; i++ {
		assert.True(t, d.Enqueue(&DispatchJob{Kind: "test", Push: notification.Push{Title: fmt.Sprint(i)}}))
	}
	d.Stop()

	assert.Len(t, push.Pushes(), 20)
}

func TestNotificationDispatcher_EnqueueAfterStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	push := &testutil.FakePushProvider{}
	d := NewNotificationDispatcher(push, []string{"tok"}, 1, zaptest.NewLogger(t))
	d.Stop()
	d.Stop()

	assert.False(t, d.Enqueue(&DispatchJob{Kind: "late"}))
	assert.Empty(t, push.Pushes())
}

func TestNotificationDispatcher_NoProviderOrTokens(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewNotificationDispatcher(nil, []string{"tok"}, 1, zaptest.NewLogger(t))
	assert.True(t, d.Enqueue(&DispatchJob{Kind: "test"}))
	d.Stop()

	push := &testutil.FakePushProvider{}
	d = NewNotificationDispatcher(push, nil, 1, zaptest.NewLogger(t))
	assert.True(t, d.Enqueue(&DispatchJob{Kind: "test"}))
	d.Stop()
	assert.Empty(t, push.Pushes())
}

func TestNotificationDispatcher_ProviderError(t *testing.T) {
	defer goleak.VerifyNone(t)

	push := &testutil.FakePushProvider{Err: errors.New("fcm unavailable")}
	d := NewNotificationDispatcher(push, []string{"tok"}, 0, zaptest.NewLogger(t))
	assert.True(t, d.Enqueue(&DispatchJob{Kind: "test"}))
	d.Stop()

	assert.Len(t, push.Pushes(), 1)
}
