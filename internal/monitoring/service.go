// File: internal/monitoring/service.go
package monitoring

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/archeblow/riskcore/internal/config"
	"github.com/archeblow/riskcore/internal/metrics"
	"github.com/archeblow/riskcore/internal/models"
	"github.com/archeblow/riskcore/pkg/utils"
)

// maxEvents bounds the in-memory event log. Older entries are discarded on
// overflow, never individually deleted.
const maxEvents = 200

// ServiceConfig holds monitoring service configuration
type ServiceConfig struct {
	WebhookURL     string        `json:"webhook_url"`
	WebhookTimeout time.Duration `json:"webhook_timeout"`
	QueueSize      int           `json:"queue_size"`
}

// watchKey identifies a watch by lower-cased address and network
type watchKey struct {
	address string
	network models.Network
}

// Service aggregates monitoring events, upstream provider health and the
// address watch table. It is process-wide state: created once at startup and
// alive until process exit, with no teardown routine.
type Service struct {
	mu       sync.RWMutex
	events   []models.MonitoringEvent
	watches  map[watchKey]models.MonitoringWatch
	apiState map[string]*models.ProviderHealth

	eventSubs []func(models.MonitoringEvent)
	watchSubs []func(models.MonitoringWatch)

	webhook *WebhookNotifier
	queue   chan models.MonitoringEvent
	running bool

	metrics *metrics.Metrics
	logger  *logrus.Entry
	now     func() int64
}

// ServiceOption customizes a Service
type ServiceOption func(*Service)

// WithClock injects the time source, mainly for tests
func WithClock(now func() int64) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithMetrics attaches Prometheus instrumentation
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithWebhookNotifier overrides the webhook notifier, mainly for tests
func WithWebhookNotifier(notifier *WebhookNotifier) ServiceOption {
	return func(s *Service) {
		s.webhook = notifier
	}
}

// NewService creates a monitoring service
func NewService(cfg *ServiceConfig, opts ...ServiceOption) *Service {
	if cfg == nil {
		cfg = &ServiceConfig{}
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	service := &Service{
		watches:  make(map[watchKey]models.MonitoringWatch),
		apiState: make(map[string]*models.ProviderHealth),
		queue:    make(chan models.MonitoringEvent, queueSize),
		logger:   utils.ComponentLogger("monitoring"),
		now:      func() int64 { return time.Now().UTC().Unix() },
	}
	if cfg.WebhookURL != "" {
		service.webhook = NewWebhookNotifier(cfg.WebhookURL, cfg.WebhookTimeout, nil)
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Start launches the background webhook dispatcher. Without it, dispatch
// falls back to synchronous delivery so the attempt is still made.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go func() {
		for {
			select {
			case event := <-s.queue:
				if s.webhook != nil {
					s.webhook.Send(ctx, event)
				}
			case <-ctx.Done():
				s.mu.Lock()
				s.running = false
				s.mu.Unlock()
				return
			}
		}
	}()
	s.logger.Info("Monitoring service started")
}

// OnEvent registers a subscriber invoked for every recorded event
func (s *Service) OnEvent(fn func(models.MonitoringEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventSubs = append(s.eventSubs, fn)
}

// OnWatch registers a subscriber invoked for every scheduled watch
func (s *Service) OnWatch(fn func(models.MonitoringWatch)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchSubs = append(s.watchSubs, fn)
}

// Log records a monitoring event
func (s *Service) Log(level, category, source, message string, details map[string]interface{}) models.MonitoringEvent {
	if details == nil {
		details = map[string]interface{}{}
	}
	event := models.MonitoringEvent{
		Timestamp: s.now(),
		Level:     level,
		Category:  category,
		Source:    source,
		Message:   message,
		Details:   details,
	}
	s.registerEvent(event)
	return event
}

// RecordAPIError marks a provider as failing: the monotonic failure counter
// is incremented (it never resets), the state flips to error and an error
// event is always appended.
func (s *Service) RecordAPIError(serviceID, message string, details map[string]interface{}) models.MonitoringEvent {
	payload := clonedDetails(details)
	payload["service_id"] = serviceID
	if _, ok := payload["service_name"]; !ok {
		payload["service_name"] = config.ServiceDisplayName(serviceID)
	}

	s.mu.Lock()
	state := s.ensureStateLocked(serviceID)
	state.Status = models.ProviderStatusError
	state.Failures++
	state.LastError = s.now()
	state.LastErrorMessage = message
	state.LastMessage = message
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ProviderFailuresTotal.WithLabelValues(serviceID).Inc()
	}

	return s.Log(models.EventLevelError, "api", serviceID, message, payload)
}

// RecordAPISuccess marks a provider as healthy. A recovery informational
// event is emitted only when the prior failure counter was nonzero; success
// after success stays silent to avoid noise.
func (s *Service) RecordAPISuccess(serviceID, message string, details map[string]interface{}) (models.MonitoringEvent, bool) {
	payload := clonedDetails(details)
	payload["service_id"] = serviceID
	if _, ok := payload["service_name"]; !ok {
		payload["service_name"] = config.ServiceDisplayName(serviceID)
	}

	s.mu.Lock()
	state := s.ensureStateLocked(serviceID)
	recovering := state.Failures > 0
	state.Status = models.ProviderStatusOK
	state.LastSuccess = s.now()
	state.LastMessage = message
	s.mu.Unlock()

	if !recovering {
		return models.MonitoringEvent{}, false
	}
	return s.Log(models.EventLevelInfo, "api", serviceID, message, payload), true
}

// ScheduleWatch creates or overwrites the watch for (address, network). The
// key is the lower-cased address, so re-scheduling replaces the prior entry.
func (s *Service) ScheduleWatch(address string, network models.Network, days int, comment string) models.MonitoringWatch {
	now := s.now()
	watch := models.MonitoringWatch{
		Address:   address,
		Network:   network,
		CreatedAt: now,
		ExpiresAt: now + int64(days)*86_400,
		Comment:   comment,
	}

	s.mu.Lock()
	s.watches[watchKey{address: utils.NormalizeAddress(address), network: network}] = watch
	subs := append([]func(models.MonitoringWatch){}, s.watchSubs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(watch)
	}
	if s.metrics != nil {
		s.metrics.WatchesScheduledTotal.Inc()
	}

	s.Log(models.EventLevelInfo, "watch", "monitoring",
		fmt.Sprintf("Monitoring enabled for address %s (%s).", address, network.DisplayName()),
		map[string]interface{}{
			"address":      address,
			"network":      network.String(),
			"expires_at":   watch.ExpiresAt,
			"days":         days,
			"comment":      comment,
			"service_name": "Monitoring service",
		})
	return watch
}

// ActiveWatches returns all watches that have not expired, ascending by
// expiry. Expired entries stay in storage and are excluded at read time.
func (s *Service) ActiveWatches() []models.MonitoringWatch {
	now := s.now()
	s.mu.RLock()
	active := make([]models.MonitoringWatch, 0, len(s.watches))
	for _, watch := range s.watches {
		if watch.ExpiresAt >= now {
			active = append(active, watch)
		}
	}
	s.mu.RUnlock()

	sort.Slice(active, func(i, j int) bool { return active[i].ExpiresAt < active[j].ExpiresAt })
	return active
}

// WatchFor returns the active watches for one address and network
func (s *Service) WatchFor(address string, network models.Network) []models.MonitoringWatch {
	normalized := utils.NormalizeAddress(address)
	now := s.now()

	s.mu.RLock()
	var watches []models.MonitoringWatch
	for key, watch := range s.watches {
		if key.address == normalized && key.network == network && watch.ExpiresAt >= now {
			watches = append(watches, watch)
		}
	}
	s.mu.RUnlock()

	sort.Slice(watches, func(i, j int) bool { return watches[i].ExpiresAt < watches[j].ExpiresAt })
	return watches
}

// RecentEvents returns up to limit events, newest first
func (s *Service) RecentEvents(limit int) []models.MonitoringEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) == 0 || limit <= 0 {
		return nil
	}
	start := len(s.events) - limit
	if start < 0 {
		start = 0
	}
	window := s.events[start:]
	recent := make([]models.MonitoringEvent, 0, len(window))
	for i := len(window) - 1; i >= 0; i-- {
		recent = append(recent, window[i])
	}
	return recent
}

// EventsFor returns the latest events whose details reference the address
// and network, newest first
func (s *Service) EventsFor(address string, network models.Network, limit int) []models.MonitoringEvent {
	normalized := utils.NormalizeAddress(address)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.MonitoringEvent
	for i := len(s.events) - 1; i >= 0 && len(matched) < limit; i-- {
		event := s.events[i]
		eventAddress, _ := event.Details["address"].(string)
		eventNetwork, _ := event.Details["network"].(string)
		if utils.NormalizeAddress(eventAddress) == normalized && eventNetwork == network.String() {
			matched = append(matched, event)
		}
	}
	return matched
}

// APIStatusSnapshot returns a copy of every tracked provider health record,
// sorted by display name
func (s *Service) APIStatusSnapshot() []models.ProviderHealth {
	s.mu.RLock()
	records := make([]models.ProviderHealth, 0, len(s.apiState))
	for _, state := range s.apiState {
		records = append(records, *state)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool { return records[i].ServiceName < records[j].ServiceName })
	return records
}

// ActiveAPIIncidents returns health records currently in the error state
func (s *Service) ActiveAPIIncidents() []models.ProviderHealth {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var incidents []models.ProviderHealth
	for _, state := range s.apiState {
		if state.Status == models.ProviderStatusError {
			incidents = append(incidents, *state)
		}
	}
	return incidents
}

// StatusSummary returns a one-line operator summary of provider health
func (s *Service) StatusSummary() string {
	incidents := s.ActiveAPIIncidents()
	if len(incidents) == 0 {
		return "APIs stable"
	}
	sort.Slice(incidents, func(i, j int) bool { return incidents[i].ServiceName < incidents[j].ServiceName })
	parts := make([]string, 0, len(incidents))
	for _, incident := range incidents {
		parts = append(parts, fmt.Sprintf("%s (%d failures)", incident.ServiceName, incident.Failures))
	}
	return strings.Join(parts, ", ")
}

// registerEvent appends the event, truncates the log, notifies subscribers
// and dispatches the webhook
func (s *Service) registerEvent(event models.MonitoringEvent) {
	s.mu.Lock()
	s.events = append(s.events, event)
	if len(s.events) > maxEvents {
		s.events = append([]models.MonitoringEvent{}, s.events[len(s.events)-maxEvents:]...)
	}
	subs := append([]func(models.MonitoringEvent){}, s.eventSubs...)
	running := s.running
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.MonitoringEventsTotal.WithLabelValues(event.Level).Inc()
	}
	for _, fn := range subs {
		fn(event)
	}
	s.dispatchWebhook(event, running)
}

// dispatchWebhook hands the event to the background dispatcher when it is
// active; otherwise delivery runs inline so the attempt is still made.
// Failures are intentionally non-fatal and not retried in either branch.
func (s *Service) dispatchWebhook(event models.MonitoringEvent, running bool) {
	if s.webhook == nil {
		return
	}
	if running {
		select {
		case s.queue <- event:
		default:
			s.logger.Debug("Webhook queue full, dropping event")
		}
		return
	}
	s.webhook.Send(context.Background(), event)
}

func (s *Service) ensureStateLocked(serviceID string) *models.ProviderHealth {
	state, ok := s.apiState[serviceID]
	if !ok {
		state = &models.ProviderHealth{
			ServiceID:   serviceID,
			ServiceName: config.ServiceDisplayName(serviceID),
			Status:      models.ProviderStatusOK,
		}
		s.apiState[serviceID] = state
	}
	return state
}

func clonedDetails(details map[string]interface{}) map[string]interface{} {
	cloned := make(map[string]interface{}, len(details)+2)
	for key, value := range details {
		cloned[key] = value
	}
	return cloned
}
