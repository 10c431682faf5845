package application

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"calbot/internal/domain/entities"
	"calbot/internal/ports/input"
	"calbot/internal/ports/output"
	"calbot/pkg/tz"
)

const (
	minCheckInterval = 5 // minutes
	minLeadTime      = 1 // minutes

	defaultStartDelay = 10 * time.Second
)

var tracer = otel.Tracer("calbot/application")

// SchedulerOption customizes a Scheduler.
type SchedulerOption func(*Scheduler)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// WithStartDelay sets the delay before the first scan after Start.
func WithStartDelay(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.startDelay = d }
}

// WithLocale sets the locale used for reminder texts.
func WithLocale(locale string) SchedulerOption {
	return func(s *Scheduler) { s.locale = locale }
}

// WithLocation sets the timezone used to format times in reminders.
func WithLocation(loc *time.Location) SchedulerOption {
	return func(s *Scheduler) { s.loc = loc }
}

// Scheduler periodically scans the events and broadcasts one reminder per
// event and reminder window to every configured destination.
type Scheduler struct {
	events     input.EventReader
	sender     output.MessageSender
	metadata   output.BroadcastMetadataStore
	translator output.T
	cfg        entities.BroadcastConfig
	locale     string
	loc        *time.Location
	now        func() time.Time
	startDelay time.Duration

	mu     sync.Mutex // guards states and dirty
	states map[string]entities.ReminderState
	dirty  bool

	scanMu sync.Mutex // one scan at a time

	runMu   sync.Mutex // guards cron, entryID and kickoff
	cron    *cron.Cron
	entryID cron.EntryID
	kickoff *time.Timer
}

// NewScheduler clamps cfg, loads the persisted broadcast metadata and returns
// a stopped scheduler. A metadata load failure is logged and yields an empty
// map.
func NewScheduler(
	cfg entities.BroadcastConfig,
	events input.EventReader,
	sender output.MessageSender,
	metadata output.BroadcastMetadataStore,
	translator output.T,
	opts ...SchedulerOption,
) *Scheduler {
	s := &Scheduler{
		events:     events,
		sender:     sender,
		metadata:   metadata,
		translator: translator,
		cfg:        normalizeBroadcastConfig(cfg),
		locale:     "fr",
		loc:        time.Local,
		now:        time.Now,
		startDelay: defaultStartDelay,
		states:     make(map[string]entities.ReminderState),
	}
	for _, opt := range opts {
		opt(s)
	}

	entries, err := metadata.Load()
	if err != nil {
		log.Printf("❌ Chargement des métadonnées de diffusion: %v", err)
	}
	for id, at := range entries {
		s.states[id] = entities.RemindedAt(at)
	}
	return s
}

func normalizeBroadcastConfig(cfg entities.BroadcastConfig) entities.BroadcastConfig {
	if cfg.CheckInterval < minCheckInterval {
		log.Printf("⚠️ Intervalle de diffusion %d min trop court, ramené à %d min", cfg.CheckInterval, minCheckInterval)
		cfg.CheckInterval = minCheckInterval
	}
	if cfg.LeadTime < minLeadTime {
		log.Printf("⚠️ Délai de rappel %d min trop court, ramené à %d min", cfg.LeadTime, minLeadTime)
		cfg.LeadTime = minLeadTime
	}
	if cfg.Enabled && len(cfg.TargetDestinations) == 0 {
		log.Println("⚠️ Diffusion activée sans destination: diffusion désactivée")
		cfg.Enabled = false
	}
	cfg.TargetDestinations = append([]string(nil), cfg.TargetDestinations...)
	return cfg
}

// Start launches the recurring scan. It is a no-op when broadcasting is
// disabled or the scheduler already runs. ctx is passed down to every scan.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		log.Println("ℹ️ Diffusion des rappels désactivée.")
		return nil
	}
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cron != nil {
		return nil
	}

	logger := cron.PrintfLogger(log.Default())
	c := cron.New(
		cron.WithLocation(s.loc),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	schedule := fmt.Sprintf("@every %dm", s.cfg.CheckInterval)
	id, err := c.AddFunc(schedule, func() { s.scheduledScan(ctx) })
	if err != nil {
		return fmt.Errorf("schedule broadcast scan: %w", err)
	}
	c.Start()
	s.cron = c
	s.entryID = id
	s.kickoff = time.AfterFunc(s.startDelay, func() { s.scheduledScan(ctx) })

	log.Printf("✅ Diffusion des rappels démarrée (intervalle=%d min, délai=%d min, destinations=%d)",
		s.cfg.CheckInterval, s.cfg.LeadTime, len(s.cfg.TargetDestinations))
	return nil
}

// Stop halts the timer, waits for an in-flight scan to finish and flushes
// pending metadata.
func (s *Scheduler) Stop() {
	s.runMu.Lock()
	c, kickoff := s.cron, s.kickoff
	s.cron, s.kickoff = nil, nil
	s.runMu.Unlock()

	if kickoff != nil {
		kickoff.Stop()
	}
	if c != nil {
		<-c.Stop().Done()
	}
	// wait for a kickoff or manual scan still running
	s.scanMu.Lock()
	s.scanMu.Unlock()
	s.flush()
}

// CheckNow runs one scan synchronously and returns the number of reminders
// sent.
func (s *Scheduler) CheckNow(ctx context.Context) int {
	return s.Scan(ctx)
}

// Scan reads all events once and sends the reminders that are due. It returns
// the number of events reminded.
func (s *Scheduler) Scan(ctx context.Context) int {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	return s.scan(ctx)
}

// scheduledScan is the timer entry point. It does nothing once Stop has
// begun, so no reminder goes out after Stop returns.
func (s *Scheduler) scheduledScan(ctx context.Context) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
	if !s.running() {
		return
	}
	s.scan(ctx)
}

func (s *Scheduler) running() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.cron != nil
}

// scan runs with scanMu held.
func (s *Scheduler) scan(ctx context.Context) int {
	ctx, span := tracer.Start(ctx, "broadcast.scan")
	defer span.End()

	now := s.now()
	lead := time.Duration(s.cfg.LeadTime) * time.Minute
	events := s.events.List(ctx)

	sent := 0
	for _, ev := range events {
		if ev.HasStarted(now) {
			continue
		}
		reminderTime := ev.StartTime.Add(-lead)
		if now.Before(reminderTime) {
			continue
		}
		if s.state(ev.ID).CoversWindow(reminderTime) {
			continue
		}
		s.sendReminder(ctx, ev, now)
		s.record(ev.ID, now)
		sent++
	}
	pruned := s.prune(events, now)
	if sent > 0 || pruned > 0 {
		s.flush()
	}

	span.SetAttributes(
		attribute.Int("broadcast.events", len(events)),
		attribute.Int("broadcast.sent", sent),
		attribute.Int("broadcast.pruned", pruned),
	)
	return sent
}

// Status returns the current configuration, next tick and metadata size.
func (s *Scheduler) Status() entities.BroadcastStatus {
	cfg := s.cfg
	cfg.TargetDestinations = append([]string(nil), s.cfg.TargetDestinations...)
	st := entities.BroadcastStatus{Config: cfg}

	s.runMu.Lock()
	if s.cron != nil {
		st.Running = true
		st.NextRun = s.cron.Entry(s.entryID).Next
	}
	s.runMu.Unlock()

	s.mu.Lock()
	st.MetadataSize = len(s.states)
	s.mu.Unlock()
	return st
}

func (s *Scheduler) sendReminder(ctx context.Context, ev entities.Event, now time.Time) {
	body := s.reminderBody(ev, now)
	for _, dest := range s.cfg.TargetDestinations {
		if err := s.sender.Send(ctx, dest, body); err != nil {
			log.Printf("❌ Envoi du rappel (event=%s, destination=%s): %v", ev.ID, dest, err)
			continue
		}
		log.Printf("✅ Rappel envoyé (event=%s, destination=%s)", ev.ID, dest)
	}
}

func (s *Scheduler) reminderBody(ev entities.Event, now time.Time) string {
	data := map[string]any{
		"Title": ev.Title,
		"Start": tz.Format(ev.StartTime, s.loc),
		"End":   tz.Format(ev.EndTime, s.loc),
		"Until": tz.HumanizeDuration(ev.StartTime.Sub(now)),
	}
	if ev.Description != nil && *ev.Description != "" {
		data["Description"] = *ev.Description
	}
	return s.translator.T(s.locale, "broadcast.reminder", data)
}

func (s *Scheduler) state(id string) entities.ReminderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[id]
}

// record marks id as reminded at. Metadata keeps whole seconds, so does the
// in-memory state.
func (s *Scheduler) record(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = entities.RemindedAt(at.Truncate(time.Second))
	s.dirty = true
}

// prune drops the states of events that have started or are no longer
// listed. An empty listing prunes nothing, since a failed storage read also
// yields an empty collection.
func (s *Scheduler) prune(events []entities.Event, now time.Time) int {
	if len(events) == 0 {
		return 0
	}
	upcoming := make(map[string]bool, len(events))
	for _, ev := range events {
		if !ev.HasStarted(now) {
			upcoming[ev.ID] = true
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pruned := 0
	for id := range s.states {
		if !upcoming[id] {
			delete(s.states, id)
			pruned++
		}
	}
	if pruned > 0 {
		s.dirty = true
	}
	return pruned
}

// flush persists the metadata when it changed since the last save. A failed
// save is logged and retried on the next flush.
func (s *Scheduler) flush() {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	entries := make(map[string]time.Time, len(s.states))
	for id, st := range s.states {
		if st.Status == entities.Reminded {
			entries[id] = st.At
		}
	}
	s.dirty = false
	s.mu.Unlock()

	if err := s.metadata.Save(entries); err != nil {
		log.Printf("❌ Sauvegarde des métadonnées de diffusion: %v", err)
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
	}
}
