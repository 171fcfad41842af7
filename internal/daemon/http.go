package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/admybrand/adpulse/internal/logging"
	"github.com/admybrand/adpulse/internal/model"
	"github.com/admybrand/adpulse/internal/pipeline"
	"github.com/admybrand/adpulse/internal/projection"
)

// Handler returns the daemon HTTP API wrapped in request logging.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /v1/revenue", s.handleRevenue)
	mux.HandleFunc("GET /v1/campaigns", s.handleCampaigns)
	mux.HandleFunc("GET /v1/notifications", s.handleNotifications)
	mux.HandleFunc("POST /v1/notifications/read-all", s.handleReadAll)
	mux.HandleFunc("POST /v1/notifications/{id}/read", s.handleRead)
	mux.HandleFunc("DELETE /v1/notifications/{id}", s.handleRemove)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.HandleFunc("GET /v1/ws", s.handleWS)
	return logging.Middleware(s.log)(mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// parseRange reads ?range=<preset> or ?from=&to= (YYYY-MM-DD). With neither
// present the configured range is used.
func (s *Service) parseRange(q url.Values) (model.DateRange, error) {
	if from, to := q.Get("from"), q.Get("to"); from != "" || to != "" {
		f, err := time.ParseInLocation(projection.PeriodLayout, from, time.Local)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("invalid from %q", from)
		}
		t, err := time.ParseInLocation(projection.PeriodLayout, to, time.Local)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("invalid to %q", to)
		}
		return model.Custom(f, t), nil
	}
	if v := q.Get("range"); v != "" {
		p, err := model.ParsePreset(v)
		if err != nil {
			return model.DateRange{}, err
		}
		return model.DateRange{Preset: p}, nil
	}
	return s.cfg.Range, nil
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.currentDashboard())
}

// RevenueResponse is the body of GET /v1/revenue.
type RevenueResponse struct {
	Range     model.DateRange `json:"range"`
	RangeKind string          `json:"range_kind"`
	ShowNote  bool            `json:"show_note"`
	Series    model.Series    `json:"series"`
}

func (s *Service) handleRevenue(w http.ResponseWriter, r *http.Request) {
	dr, err := s.parseRange(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	d := s.builder.Build(dr)
	logging.FromContext(r.Context()).Debug("revenue", "range", d.Range.String(), "points", len(d.Revenue))
	writeJSON(w, http.StatusOK, RevenueResponse{
		Range:     d.Range,
		RangeKind: d.RangeKind,
		ShowNote:  d.ShowNote,
		Series:    d.Revenue,
	})
}

func (s *Service) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	campaigns := s.currentDashboard().Campaigns
	out := make([]model.Campaign, len(campaigns))
	copy(out, campaigns)

	if st := q.Get("status"); st != "" && st != "all" {
		status, err := model.ParseStatus(st)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		out = pipeline.FilterByStatus(out, status)
	}
	out = pipeline.FilterByName(out, q.Get("q"))
	if name := q.Get("sort"); name != "" {
		field, err := pipeline.ParseSortField(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		desc, _ := strconv.ParseBool(q.Get("desc"))
		pipeline.SortCampaigns(out, field, desc)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totals":    pipeline.Aggregate(out),
		"campaigns": out,
	})
}

func (s *Service) handleNotifications(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"unread": s.center.UnreadCount(),
		"items":  s.center.List(),
	})
}

func (s *Service) handleReadAll(w http.ResponseWriter, _ *http.Request) {
	s.center.MarkAllRead()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleRead(w http.ResponseWriter, r *http.Request) {
	if !s.center.MarkRead(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, fmt.Errorf("notification %s not found", r.PathValue("id")))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleRemove(w http.ResponseWriter, r *http.Request) {
	if !s.center.Remove(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, fmt.Errorf("notification %s not found", r.PathValue("id")))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	var after int64
	if v := r.URL.Query().Get("after"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid after %q", v))
			return
		}
		after = n
	}

	s.mu.RLock()
	events := make([]Event, 0, len(s.events))
	for _, ev := range s.events {
		if ev.ID > after {
			events = append(events, ev)
		}
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, s.currentEvent())
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

// currentEvent is the snapshot sent to a stream client on connect.
func (s *Service) currentEvent() Event {
	return Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

