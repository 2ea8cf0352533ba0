package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ecyclehub/ecyclehub/internal/config"
	"github.com/ecyclehub/ecyclehub/internal/events"
	"github.com/ecyclehub/ecyclehub/internal/service"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestWorkerDeliversQueuedEvents(t *testing.T) {
	logger, logs := newObservedLogger()
	dispatcher := events.NewInMemoryDispatcher()
	svc := service.NewNotificationService(logger, config.NotificationConfig{
		EmailFrom:  "noreply@example.com",
		WebhookURL: "https://hooks.example.com/ewaste",
	})

	w := NewNotificationWorker(svc, logger, 8)
	w.Subscribe(dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	require.NoError(t, dispatcher.Publish(context.Background(),
		events.New(events.EventAccountCreated, 1, events.AccountCreatedPayload{Username: "juan"})))
	require.NoError(t, dispatcher.Publish(context.Background(),
		events.New(events.EventRegistrationRecorded, 1, events.RegistrationRecordedPayload{RegistrationID: 3})))

	cancel()
	w.Wait()

	assert.Equal(t, 1, logs.FilterMessage("AccountCreated").Len())
	assert.Equal(t, 1, logs.FilterMessage("RegistrationRecorded").Len())
	assert.Equal(t, 2, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendWebhookNotificationStub").Len())
}

func TestWorkerDropsWhenQueueFull(t *testing.T) {
	logger, logs := newObservedLogger()
	dispatcher := events.NewInMemoryDispatcher()
	svc := service.NewNotificationService(logger, config.NotificationConfig{})

	w := NewNotificationWorker(svc, logger, 1)
	w.Subscribe(dispatcher)

	for i := 0; i < 3; i++ {
		require.NoError(t, dispatcher.Publish(context.Background(),
			events.New(events.EventAccountCreated, int64(i+1), nil)))
	}
	assert.Equal(t, 2, logs.FilterMessage("notification queue full; dropping event").Len())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	w.Start(ctx)
	cancel()
	w.Wait()
	assert.Equal(t, 1, logs.FilterMessage("AccountCreated").Len())
}

func TestEventsAreDeliveredOnlyThroughTheQueue(t *testing.T) {
	logger, logs := newObservedLogger()
	dispatcher := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(service.NewNotificationService(logger, config.NotificationConfig{}), logger, 4)
	w.Subscribe(dispatcher)

	require.NoError(t, dispatcher.Publish(context.Background(), events.New(events.EventRegistrationRecorded, 1, nil)))
	assert.Zero(t, logs.FilterMessage("RegistrationRecorded").Len(), "nothing is delivered before the worker runs")

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()
	w.Wait()
	assert.Equal(t, 1, logs.FilterMessage("RegistrationRecorded").Len())
}
