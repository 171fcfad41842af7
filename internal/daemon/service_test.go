package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/notify"
	"github.com/admybrand/adpulse/internal/pipeline"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.Local)

func newTestService(t *testing.T) *Service {
	t.Helper()
	b := pipeline.NewBuilder(42)
	b.Now = func() time.Time { return fixedNow }
	center := notify.NewCenter()
	center.Seed()
	s := New(Config{
		Interval:     10 * time.Second,
		EventsBuffer: 10,
		Range:        model.DateRange{Preset: model.RangeLast30Days},
	}, b, center, nil)
	s.pollOnce()
	return s
}

// publish buffers ev under the service lock and returns its ID.
func (s *Service) publish(ev Event) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(ev)
	return s.nextEventID
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{Revenue: 1000, Users: 50, Conversions: 10, ForecastTotal: 700, Unread: 2}
	curr := Snapshot{Revenue: 1250, Users: 45, Conversions: 12, ForecastTotal: 700, Unread: 3}

	delta := diffSnapshots(prev, curr)
	assert.InDelta(t, 250, delta.Revenue, 1e-9)
	assert.InDelta(t, -5, delta.Users, 1e-9)
	assert.InDelta(t, 2, delta.Conversions, 1e-9)
	assert.Zero(t, delta.ForecastTotal)
	assert.Equal(t, 1, delta.Unread)
	assert.False(t, delta.isZero())
	assert.True(t, diffSnapshots(curr, curr).isZero())
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{Interval: 10 * time.Second, EventsBuffer: 2}, nil, nil, nil)

	for range 3 {
		s.publish(Event{Type: EventDelta})
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.events, 2)
	assert.Equal(t, int64(2), s.events[0].ID)
	assert.Equal(t, int64(3), s.events[1].ID)
}

func TestPollPublishesSnapshotThenNothingForSameSeed(t *testing.T) {
	s := newTestService(t)
	s.pollOnce()

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.Len(t, s.events, 1, "a fixed seed and clock rebuild the same dashboard")
	assert.Equal(t, EventSnapshot, s.events[0].Type)
	assert.Equal(t, 15, s.snapshot.Campaigns)
	assert.Equal(t, 7, s.snapshot.ForecastPoints)
	assert.Equal(t, 3, s.snapshot.Unread)
}

func TestEventIDsStayOrderedAcrossPublishers(t *testing.T) {
	s := newTestService(t)
	s.cfg.EventsBuffer = 500

	ctx, cancel := context.WithCancel(context.Background())
	relayDone := make(chan struct{})
	go func() {
		s.relayNotifications(ctx)
		close(relayDone)
	}()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 25 {
				s.publish(Event{Type: EventDelta})
				s.Center().Add(notify.Notification{Title: "Budget alert"})
			}
		}()
	}
	wg.Wait()
	cancel()
	<-relayDone

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.Greater(t, len(s.events), 100)
	for i := 1; i < len(s.events); i++ {
		require.Less(t, s.events[i-1].ID, s.events[i].ID, "event %d", i)
	}
}

func TestStatusAndDashboardEndpoints(t *testing.T) {
	s := newTestService(t)
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, int64(1), st.PollCount)
	assert.Equal(t, uint64(42), st.Seed)
	assert.Equal(t, "mixed", st.Summary.RangeKind)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var d model.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Len(t, d.Campaigns, 15)
	assert.True(t, d.ShowNote)
}

func TestRevenueEndpointRangePolicy(t *testing.T) {
	s := newTestService(t)
	h := s.Handler()

	get := func(query string) RevenueResponse {
		t.Helper()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/revenue"+query, nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out RevenueResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	hist := get("?range=lastYear")
	assert.Equal(t, "historical", hist.RangeKind)
	assert.False(t, hist.ShowNote)
	assert.False(t, hist.Series.HasProjection())

	future := get("?range=nextQuarter")
	assert.Equal(t, "future", future.RangeKind)
	assert.Len(t, future.Series.Forecast(), 7)
	assert.Empty(t, future.Series.Historical())

	custom := get("?from=2026-06-01&to=2026-06-20")
	assert.Equal(t, "mixed", custom.RangeKind)
	assert.Len(t, custom.Series.Historical(), 15)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/revenue?range=forever", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCampaignsEndpointFilters(t *testing.T) {
	s := newTestService(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/campaigns?status=active&sort=roi&desc=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Campaigns []model.Campaign `json:"campaigns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	for i, c := range out.Campaigns {
		assert.Equal(t, model.StatusActive, c.Status)
		if i > 0 {
			assert.GreaterOrEqual(t, out.Campaigns[i-1].ROI, c.ROI)
		}
	}
}

func TestNotificationEndpoints(t *testing.T) {
	s := newTestService(t)
	h := s.Handler()
	items := s.Center().List()
	require.NotEmpty(t, items)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/notifications/"+items[0].ID+"/read", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/notifications/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/notifications/read-all", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, s.Center().UnreadCount())
}

func TestEventsAfter(t *testing.T) {
	s := newTestService(t)
	require.Equal(t, int64(2), s.publish(Event{Type: EventDelta}))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/events?after=1", nil))
	var events []Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, int64(2), events[0].ID)
}

func TestWebSocketPushesSnapshotAndEvents(t *testing.T) {
	s := newTestService(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var first Event
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, EventSnapshot, first.Type)
	assert.Equal(t, 15, first.Snapshot.Campaigns)

	require.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.subs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	id := s.publish(Event{Type: EventDelta})
	var next Event
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, id, next.ID)
}

func TestCampaignsEndpointRejectsUnknownFilters(t *testing.T) {
	s := newTestService(t)
	for _, q := range []string{"status=archived", "sort=budget"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/campaigns?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}
