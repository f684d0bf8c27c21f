package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archeblow/riskcore/internal/models"
)

func newTestService(now *int64) *Service {
	return NewService(nil, WithClock(func() int64 { return *now }))
}

func TestScheduleWatchAndActiveWatches(t *testing.T) {
	now := int64(1_700_000_000)
	service := newTestService(&now)

	watch := service.ScheduleWatch("Addr1", models.NetworkBitcoin, 30, "suspicious deposit")
	assert.Equal(t, now+30*86_400, watch.ExpiresAt)

	active := service.ActiveWatches()
	require.Len(t, active, 1)
	assert.Equal(t, "Addr1", active[0].Address)
	assert.Equal(t, "suspicious deposit", active[0].Comment)

	// Scheduling again for the same address and network replaces the entry,
	// case-insensitively
	service.ScheduleWatch("addr1", models.NetworkBitcoin, 10, "updated")
	active = service.ActiveWatches()
	require.Len(t, active, 1)
	assert.Equal(t, "updated", active[0].Comment)

	matched := service.WatchFor("ADDR1", models.NetworkBitcoin)
	require.Len(t, matched, 1)
	assert.Empty(t, service.WatchFor("addr1", models.NetworkTron))
}

func TestActiveWatchesExcludesExpired(t *testing.T) {
	now := int64(1_700_000_000)
	service := newTestService(&now)

	service.ScheduleWatch("addr1", models.NetworkBitcoin, 1, "")
	service.ScheduleWatch("addr2", models.NetworkBitcoin, 30, "")

	now += 2 * 86_400
	active := service.ActiveWatches()
	require.Len(t, active, 1)
	assert.Equal(t, "addr2", active[0].Address)

	// The expired entry is only filtered at read time, never deleted, so
	// winding the clock back shows it again
	now -= 2 * 86_400
	assert.Len(t, service.ActiveWatches(), 2)
}

func TestRecordAPIErrorAndRecovery(t *testing.T) {
	now := int64(1_700_000_000)
	service := newTestService(&now)

	errorEvent := service.RecordAPIError("etherscan", "rate limited", map[string]interface{}{"address": "0xabc"})
	assert.Equal(t, models.EventLevelError, errorEvent.Level)
	assert.Equal(t, "etherscan", errorEvent.Details["service_id"])

	incidents := service.ActiveAPIIncidents()
	require.Len(t, incidents, 1)
	assert.Equal(t, 1, incidents[0].Failures)
	assert.Equal(t, "rate limited", incidents[0].LastErrorMessage)
	assert.Contains(t, service.StatusSummary(), "(1 failures)")

	recovery, emitted := service.RecordAPISuccess("etherscan", "request ok", nil)
	assert.True(t, emitted)
	assert.Equal(t, models.EventLevelInfo, recovery.Level)
	assert.Empty(t, service.ActiveAPIIncidents())
	assert.Equal(t, "APIs stable", service.StatusSummary())

	// Success after success stays silent
	_, emitted = service.RecordAPISuccess("etherscan", "request ok", nil)
	assert.False(t, emitted)

	// The failure counter is monotonic and survives recovery
	snapshot := service.APIStatusSnapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, 1, snapshot[0].Failures)
	assert.Equal(t, models.ProviderStatusOK, snapshot[0].Status)
}

func TestRecordAPISuccessWithoutPriorFailureIsSilent(t *testing.T) {
	now := int64(1_700_000_000)
	service := newTestService(&now)

	_, emitted := service.RecordAPISuccess("trongrid", "request ok", nil)
	assert.False(t, emitted)

	// The provider still shows up in the health snapshot
	snapshot := service.APIStatusSnapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, models.ProviderStatusOK, snapshot[0].Status)
	assert.Empty(t, service.RecentEvents(10))
}

func TestEventLogTruncation(t *testing.T) {
	now := int64(1_700_000_000)
	service := newTestService(&now)

	for i := 0; i < 250; i++ {
		service.Log(models.EventLevelInfo, "system", "test", fmt.Sprintf("event %d", i), nil)
	}

	events := service.RecentEvents(500)
	require.Len(t, events, 200)
	assert.Equal(t, "event 249", events[0].Message)
	assert.Equal(t, "event 50", events[199].Message)
}

func TestRecentEventsNewestFirst(t *testing.T) {
	now := int64(1_700_000_000)
	service := newTestService(&now)

	service.Log(models.EventLevelInfo, "system", "test", "first", nil)
	service.Log(models.EventLevelWarning, "system", "test", "second", nil)

	events := service.RecentEvents(1)
	require.Len(t, events, 1)
	assert.Equal(t, "second", events[0].Message)
}

func TestEventsForFiltersByAddressAndNetwork(t *testing.T) {
	now := int64(1_700_000_000)
	service := newTestService(&now)

	service.Log(models.EventLevelInfo, "analysis", "analyzer", "checked", map[string]interface{}{
		"address": "Addr1",
		"network": "bitcoin",
	})
	service.Log(models.EventLevelInfo, "analysis", "analyzer", "checked", map[string]interface{}{
		"address": "addr2",
		"network": "bitcoin",
	})

	events := service.EventsFor("addr1", models.NetworkBitcoin, 10)
	require.Len(t, events, 1)
	assert.Equal(t, "Addr1", events[0].Details["address"])
	assert.Empty(t, service.EventsFor("addr1", models.NetworkEthereum, 10))
}

func TestEventSubscribers(t *testing.T) {
	now := int64(1_700_000_000)
	service := newTestService(&now)

	var received []models.MonitoringEvent
	service.OnEvent(func(event models.MonitoringEvent) {
		received = append(received, event)
	})
	var watches []models.MonitoringWatch
	service.OnWatch(func(watch models.MonitoringWatch) {
		watches = append(watches, watch)
	})

	service.ScheduleWatch("addr1", models.NetworkBitcoin, 7, "")

	require.Len(t, watches, 1)
	require.Len(t, received, 1)
	assert.Equal(t, "watch", received[0].Category)
}

func TestWebhookSynchronousDelivery(t *testing.T) {
	delivered := make(chan models.MonitoringEvent, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event models.MonitoringEvent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		delivered <- event
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	now := int64(1_700_000_000)
	service := NewService(&ServiceConfig{WebhookURL: ts.URL}, WithClock(func() int64 { return now }))

	// Without Start the delivery happens inline
	service.Log(models.EventLevelWarning, "system", "test", "inline delivery", nil)

	select {
	case event := <-delivered:
		assert.Equal(t, "inline delivery", event.Message)
		assert.Equal(t, models.EventLevelWarning, event.Level)
	default:
		t.Fatal("expected synchronous webhook delivery")
	}
}

func TestWebhookBackgroundDelivery(t *testing.T) {
	delivered := make(chan models.MonitoringEvent, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event models.MonitoringEvent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		delivered <- event
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	now := int64(1_700_000_000)
	service := NewService(&ServiceConfig{WebhookURL: ts.URL}, WithClock(func() int64 { return now }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	service.Start(ctx)

	service.Log(models.EventLevelInfo, "system", "test", "queued delivery", nil)

	select {
	case event := <-delivered:
		assert.Equal(t, "queued delivery", event.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("expected background webhook delivery")
	}
}

func TestWebhookFailureIsSwallowed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	now := int64(1_700_000_000)
	service := NewService(&ServiceConfig{WebhookURL: ts.URL}, WithClock(func() int64 { return now }))

	service.Log(models.EventLevelError, "system", "test", "still recorded", nil)
	require.Len(t, service.RecentEvents(10), 1)
}
