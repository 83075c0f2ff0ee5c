// Package daemon provides the long-running background budget monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"centavo/internal/engine"
	"centavo/internal/model"
)

// Config controls the daemon runtime behavior.
type Config struct {
	UserID       string
	Interval     time.Duration
	Addr         string
	EventsBuffer int

	// Now is swappable in tests; defaults to time.Now.
	Now func() time.Time
}

// Snapshot is a compact budget state for status/event payloads.
type Snapshot struct {
	At                time.Time       `json:"at"`
	Month             string          `json:"month"`
	TotalBudget       float64         `json:"total_budget"`
	TotalSpent        float64         `json:"total_spent"`
	BudgetRemaining   float64         `json:"budget_remaining"`
	PctUsed           float64         `json:"pct_used"`
	DailySpendRate    float64         `json:"daily_spend_rate"`
	ProjectedMonthEnd float64         `json:"projected_month_end"`
	RiskLevel         model.RiskLevel `json:"risk_level"`
	DaysElapsed       int             `json:"days_elapsed"`
	DaysInMonth       int             `json:"days_in_month"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Spent       float64 `json:"spent"`
	PctUsed     float64 `json:"pct_used"`
	RiskChanged bool    `json:"risk_changed"`
}

func (d Delta) isZero() bool {
	return d.Spent == 0 && d.PctUsed == 0 && !d.RiskChanged
}

// Event is emitted whenever the budget snapshot updates.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	UserID          string    `json:"user_id"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	engine *engine.Service

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	lastCheckIn time.Time
	lastMission time.Time

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(eng *engine.Service, cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:47831"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Service{
		cfg:       cfg,
		engine:    eng,
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	now := s.cfg.Now()

	s.runScheduledJobs(ctx, now)

	ms, err := s.engine.Snapshot(ctx, s.cfg.UserID, now)
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		log.Printf("centavo daemon poll error: %v", err)
		return
	}

	snap := snapshotFromMonth(ms, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			evType := "spend_delta"
			if delta.RiskChanged {
				evType = "risk_change"
			}
			ev = Event{
				ID:        s.nextEventID,
				Type:      evType,
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
		// Risk escalation regenerates alerts so the next dashboard open
		// sees a current batch.
		if ev.Type == "risk_change" {
			if _, err := s.engine.GenerateAlerts(ctx, s.cfg.UserID, now); err != nil {
				log.Printf("centavo daemon alert refresh failed: %v", err)
			}
		}
	}
}

// runScheduledJobs fires the daily streak check-in on the first poll of
// each calendar day and regenerates the weekly mission on the first poll
// of each week.
func (s *Service) runScheduledJobs(ctx context.Context, now time.Time) {
	s.mu.Lock()
	doCheckIn := !model.SameDay(s.lastCheckIn, now)
	weekStart := model.WeekStart(now)
	doMission := !s.lastMission.Equal(weekStart)
	if doCheckIn {
		s.lastCheckIn = now
	}
	if doMission {
		s.lastMission = weekStart
	}
	s.mu.Unlock()

	if doCheckIn {
		if _, err := s.engine.CheckIn(ctx, s.cfg.UserID, now); err != nil {
			log.Printf("centavo daemon check-in failed: %v", err)
		}
	}
	if doMission {
		if _, err := s.engine.GenerateMission(ctx, s.cfg.UserID, now); err != nil {
			log.Printf("centavo daemon mission generation failed: %v", err)
		}
	}
}

func snapshotFromMonth(ms *engine.MonthSnapshot, at time.Time) Snapshot {
	return Snapshot{
		At:                at,
		Month:             ms.Month.Format("2006-01"),
		TotalBudget:       ms.TotalBudget,
		TotalSpent:        ms.TotalSpent,
		BudgetRemaining:   ms.Projection.BudgetRemaining,
		PctUsed:           ms.OverallPctUsed,
		DailySpendRate:    ms.Projection.DailySpendRate,
		ProjectedMonthEnd: ms.Projection.ProjectedMonthEndBalance,
		RiskLevel:         ms.Projection.RiskLevel,
		DaysElapsed:       ms.DaysElapsed,
		DaysInMonth:       ms.DaysInMonth,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Spent:       curr.TotalSpent - prev.TotalSpent,
		PctUsed:     curr.PctUsed - prev.PctUsed,
		RiskChanged: curr.RiskLevel != prev.RiskLevel,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
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
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		UserID:          s.cfg.UserID,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
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

	// Send current snapshot immediately.
	current := Event{
		Type:      "snapshot",
		Timestamp: s.cfg.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
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

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
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
