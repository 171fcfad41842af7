// Package daemon provides the long-running dashboard service: it rebuilds the
// dashboard on an interval and serves snapshots over HTTP, SSE and WebSocket.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/admybrand/adpulse/internal/logging"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/notify"
	"github.com/admybrand/adpulse/internal/pipeline"

	"golang.org/x/sync/errgroup"
)

// Event types.
const (
	EventSnapshot     = "snapshot"
	EventDelta        = "dashboard_delta"
	EventNotification = "notification"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	Interval     time.Duration
	EventsBuffer int
	Range        model.DateRange
}

// Snapshot is a compact dashboard state for status/event payloads.
type Snapshot struct {
	At              time.Time `json:"at"`
	Range           string    `json:"range"`
	RangeKind       string    `json:"range_kind"`
	Revenue         float64   `json:"revenue"`
	RevenueChange   float64   `json:"revenue_change"`
	Users           float64   `json:"users"`
	Conversions     float64   `json:"conversions"`
	Campaigns       int       `json:"campaigns"`
	ActiveCampaigns int       `json:"active_campaigns"`
	AvgROI          float64   `json:"avg_roi"`
	ForecastPoints  int       `json:"forecast_points"`
	ForecastTotal   float64   `json:"forecast_total"`
	Unread          int       `json:"unread_notifications"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Revenue       float64 `json:"revenue"`
	Users         float64 `json:"users"`
	Conversions   float64 `json:"conversions"`
	ForecastTotal float64 `json:"forecast_total"`
	Unread        int     `json:"unread_notifications"`
}

func (d Delta) isZero() bool {
	return d.Revenue == 0 &&
		d.Users == 0 &&
		d.Conversions == 0 &&
		d.ForecastTotal == 0 &&
		d.Unread == 0
}

// Event is emitted whenever the snapshot or the notification center changes.
type Event struct {
	ID           int64          `json:"id"`
	Type         string         `json:"type"`
	Timestamp    time.Time      `json:"timestamp"`
	Snapshot     Snapshot       `json:"snapshot"`
	Delta        Delta          `json:"delta"`
	Notification *notify.Change `json:"notification,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Range           string    `json:"range"`
	Seed            uint64    `json:"seed,omitempty"`
	Summary         Snapshot  `json:"summary"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	builder *pipeline.Builder
	center  *notify.Center
	log     *logging.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	hasSnapshot bool
	snapshot    Snapshot
	dashboard   model.Dashboard
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service. A nil center or logger gets a fresh
// center or a discarding logger.
func New(cfg Config, b *pipeline.Builder, center *notify.Center, log *logging.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if b == nil {
		b = pipeline.NewBuilder(0)
	}
	if center == nil {
		center = notify.NewCenter()
	}
	if log == nil {
		log = logging.Discard()
	}

	return &Service{
		cfg:       cfg,
		builder:   b,
		center:    center,
		log:       log.WithComponent(logging.ComponentDaemon),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Center returns the notification center the service publishes.
func (s *Service) Center() *notify.Center { return s.center }

// Run starts HTTP endpoints, polling and the notification relay until ctx is
// canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", s.cfg.Addr, "interval", s.cfg.Interval.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.pollOnce()
			}
		}
	})
	g.Go(func() error {
		s.relayNotifications(gctx)
		return nil
	})

	return g.Wait()
}

func (s *Service) pollOnce() {
	dash := s.builder.Build(s.cfg.Range)
	snap := snapshotFromDashboard(dash, s.center.UnreadCount())
	now := dash.GeneratedAt

	publish := true

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.dashboard = dash
	s.lastPollAt = now
	s.pollCount++

	switch delta := diffSnapshots(prev, snap); {
	case !prevExists:
		s.publishLocked(Event{Type: EventSnapshot, Timestamp: now, Snapshot: snap})
	case !delta.isZero():
		s.publishLocked(Event{Type: EventDelta, Timestamp: now, Snapshot: snap, Delta: delta})
	default:
		publish = false
	}
	s.mu.Unlock()

	s.log.Debug("poll", "range", dash.Range.String(), "forecast_points", snap.ForecastPoints, "published", publish)
}

// relayNotifications republishes notification center changes as events.
func (s *Service) relayNotifications(ctx context.Context) {
	ch, cancel := s.center.Subscribe(16)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			s.mu.Lock()
			s.snapshot.Unread = change.Unread
			s.publishLocked(Event{
				Type:         EventNotification,
				Timestamp:    time.Now(),
				Snapshot:     s.snapshot,
				Notification: &change,
			})
			s.mu.Unlock()
		}
	}
}

func snapshotFromDashboard(d model.Dashboard, unread int) Snapshot {
	var forecastTotal float64
	forecast := d.Revenue.Forecast()
	for _, p := range forecast {
		forecastTotal += *p.Projected
	}
	return Snapshot{
		At:              d.GeneratedAt,
		Range:           d.Range.String(),
		RangeKind:       d.RangeKind,
		Revenue:         d.Metrics.Revenue.Value,
		RevenueChange:   d.Metrics.Revenue.Change,
		Users:           d.Metrics.Users.Value,
		Conversions:     d.Metrics.Conversions.Value,
		Campaigns:       d.Totals.Count,
		ActiveCampaigns: d.Totals.ByStatus[model.StatusActive],
		AvgROI:          d.Totals.AvgROI,
		ForecastPoints:  len(forecast),
		ForecastTotal:   forecastTotal,
		Unread:          unread,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Revenue:       curr.Revenue - prev.Revenue,
		Users:         curr.Users - prev.Users,
		Conversions:   curr.Conversions - prev.Conversions,
		ForecastTotal: curr.ForecastTotal - prev.ForecastTotal,
		Unread:        curr.Unread - prev.Unread,
	}
}

// publishLocked numbers ev, buffers it and fans it out. The caller holds
// s.mu so IDs enter the buffer in increasing order.
func (s *Service) publishLocked(ev Event) {
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Range:           s.dashboard.Range.String(),
		Seed:            s.builder.Seed,
		Summary:         s.snapshot,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) currentDashboard() model.Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dashboard
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
