package reminder

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-habit-notifier/internal/client"
	"github.com/KasumiMercury/primind-habit-notifier/internal/domain"
	"github.com/KasumiMercury/primind-habit-notifier/internal/infra/notifyrecorder"
	"github.com/KasumiMercury/primind-habit-notifier/internal/notification"
	"github.com/KasumiMercury/primind-habit-notifier/internal/observability/metrics"
	"github.com/KasumiMercury/primind-habit-notifier/internal/observability/tracing"
	"github.com/KasumiMercury/primind-habit-notifier/internal/service/schedule"
)

const DefaultPollInterval = 30 * time.Second

// CredentialChecker reports whether a session credential is present.
type CredentialChecker interface {
	HasToken(ctx context.Context) bool
}

// Status is a snapshot of the notifier state.
type Status struct {
	Started    bool              `json:"started"`
	Polling    bool              `json:"polling"`
	Permission domain.Permission `json:"permission"`
	LastTickAt *time.Time        `json:"lastTickAt,omitempty"`
	TotalFired int64             `json:"totalFired"`
}

// Notifier polls the habit API and shows a notification once per due slot.
//
// started is set as soon as Start passes its preconditions; polling is only
// armed once notification permission is granted.
type Notifier struct {
	fetcher     client.ReminderFetcher
	credentials CredentialChecker
	slots       domain.SlotRepository
	display     notification.Notifier
	recorder    domain.NotificationRecorder
	metrics     *metrics.NotifierMetrics
	interval    time.Duration
	now         func() time.Time

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc

	ticking    atomic.Bool
	lastTickAt atomic.Pointer[time.Time]
	totalFired atomic.Int64
}

type Option func(*Notifier)

func WithInterval(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.interval = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		n.now = now
	}
}

func WithRecorder(recorder domain.NotificationRecorder) Option {
	return func(n *Notifier) {
		if recorder != nil {
			n.recorder = recorder
		}
	}
}

func WithMetrics(m *metrics.NotifierMetrics) Option {
	return func(n *Notifier) {
		n.metrics = m
	}
}

func NewNotifier(
	fetcher client.ReminderFetcher,
	credentials CredentialChecker,
	slots domain.SlotRepository,
	display notification.Notifier,
	opts ...Option,
) *Notifier {
	n := &Notifier{
		fetcher:     fetcher,
		credentials: credentials,
		slots:       slots,
		display:     display,
		recorder:    notifyrecorder.NewNoopRecorder(),
		interval:    DefaultPollInterval,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Start begins polling. It does nothing when polling is already armed, when
// notifications are unsupported or when no credential is stored. Without granted
// permission it only marks the notifier started and waits for RequestPermission.
func (n *Notifier) Start(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cancel != nil {
		return
	}
	if !n.display.Supported() {
		slog.DebugContext(ctx, "notifications unsupported, notifier not started")
		return
	}
	if !n.credentials.HasToken(ctx) {
		slog.DebugContext(ctx, "no credential, notifier not started")
		return
	}

	n.started = true

	if !n.display.Permission(ctx).IsGranted() {
		slog.InfoContext(ctx, "notifier waiting for notification permission",
			slog.String("event", "notifier.await_permission"),
		)
		return
	}

	// the poll loop must outlive the caller's request context
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	n.cancel = cancel

	go n.run(loopCtx)

	slog.InfoContext(ctx, "reminder notifier started",
		slog.String("event", "notifier.start"),
		slog.Duration("interval", n.interval),
	)
}

// Stop prevents future ticks. A tick already in flight runs to completion.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
		slog.Info("reminder notifier stopped", slog.String("event", "notifier.stop"))
	}
	n.started = false
}

// RequestPermission returns an existing decision without prompting. A prompt
// failure is reported as denied.
func (n *Notifier) RequestPermission(ctx context.Context) domain.Permission {
	if !n.display.Supported() {
		return domain.PermissionUnsupported
	}

	current := n.display.Permission(ctx)
	if current.IsDecided() {
		return current
	}

	decision, err := n.display.RequestPermission(ctx)
	if err != nil {
		slog.WarnContext(ctx, "notification permission request failed",
			slog.String("error", err.Error()),
		)
		return domain.PermissionDenied
	}

	if decision.IsGranted() {
		n.Start(ctx)
	}
	return decision
}

func (n *Notifier) Status(ctx context.Context) Status {
	n.mu.Lock()
	started, polling := n.started, n.cancel != nil
	n.mu.Unlock()

	permission := domain.PermissionUnsupported
	if n.display.Supported() {
		permission = n.display.Permission(ctx)
	}

	return Status{
		Started:    started,
		Polling:    polling,
		Permission: permission,
		LastTickAt: n.lastTickAt.Load(),
		TotalFired: n.totalFired.Load(),
	}
}

func (n *Notifier) run(ctx context.Context) {
	tickCtx := context.WithoutCancel(ctx)
	n.CheckDueReminders(tickCtx)

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Stop may race with a pending tick
			if ctx.Err() != nil {
				return
			}
			n.CheckDueReminders(tickCtx)
		}
	}
}

// CheckDueReminders runs one poll tick and returns how many notifications fired.
// A tick that begins while another is still running is skipped.
func (n *Notifier) CheckDueReminders(ctx context.Context) int {
	if !n.ticking.CompareAndSwap(false, true) {
		slog.DebugContext(ctx, "previous tick still running, skipping")
		n.recordTick(ctx, metrics.TickSkipped, 0)
		return 0
	}
	defer n.ticking.Store(false)

	if !n.credentials.HasToken(ctx) || !n.display.Permission(ctx).IsGranted() {
		return 0
	}

	start := time.Now()
	now := n.now()
	n.lastTickAt.Store(&now)

	ctx, span := tracing.StartTickSpan(ctx, now)
	defer span.End()

	reminders, err := n.fetcher.FetchReminders(ctx)
	if err != nil {
		slog.DebugContext(ctx, "reminder fetch failed, skipping tick",
			slog.String("error", err.Error()),
		)
		n.recordTick(ctx, metrics.TickFetchFailed, time.Since(start))
		tracing.RecordTickResult(span, 0, 0, 0, err)
		return 0
	}
	if reminders == nil {
		reminders = []domain.Reminder{}
	}
	if n.metrics != nil {
		n.metrics.RecordRemindersFetched(ctx, len(reminders))
	}

	var (
		slots   domain.NotifiedSlots
		fired   int
		deduped int
	)

	for _, r := range reminders {
		if err := r.Validate(); err != nil {
			slog.DebugContext(ctx, "skipping invalid reminder",
				slog.String("reminder_id", r.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if !schedule.IsDueNow(r, now) {
			continue
		}

		due, _ := schedule.DueDate(r, now)
		slot := schedule.SlotToken(r, due)

		if slots == nil {
			slots = n.slots.Load(ctx)
		}
		if slots[r.ID] == slot {
			deduped++
			n.recordNotification(ctx, metrics.OutcomeDeduplicated, r)
			continue
		}

		notif := n.buildNotification(r, slot, due, now)
		if err := n.display.Show(ctx, notif); err != nil {
			slog.WarnContext(ctx, "failed to show notification",
				slog.String("reminder_id", r.ID),
				slog.String("slot", slot),
				slog.String("error", err.Error()),
			)
			n.recordNotification(ctx, metrics.OutcomeFailed, r)
			continue
		}

		slots[r.ID] = slot
		fired++
		n.recordNotification(ctx, metrics.OutcomeFired, r)

		if err := n.recorder.RecordNotification(ctx, notif); err != nil {
			slog.WarnContext(ctx, "failed to record notification history",
				slog.String("reminder_id", r.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if fired > 0 {
		if err := n.slots.Save(ctx, slots); err != nil {
			slog.WarnContext(ctx, "failed to persist notified slots",
				slog.String("error", err.Error()),
			)
		}
		n.totalFired.Add(int64(fired))
		slog.InfoContext(ctx, "reminder notifications fired",
			slog.String("event", "notifier.fired"),
			slog.Int("fired", fired),
			slog.Int("deduplicated", deduped),
		)
	}

	n.recordTick(ctx, metrics.TickCompleted, time.Since(start))
	tracing.RecordTickResult(span, len(reminders), fired, deduped, nil)
	return fired
}

func (n *Notifier) buildNotification(r domain.Reminder, slot string, due, now time.Time) domain.Notification {
	title, body := notification.Content(r)
	return domain.Notification{
		ID:         uuid.NewString(),
		Title:      title,
		Body:       body,
		Tag:        "reminder-" + r.ID,
		ReminderID: r.ID,
		Category:   r.CategoryName(),
		Slot:       slot,
		DueAt:      due,
		FiredAt:    now,
	}
}

func (n *Notifier) recordTick(ctx context.Context, outcome string, d time.Duration) {
	if n.metrics != nil {
		n.metrics.RecordTick(ctx, outcome, d)
	}
}

func (n *Notifier) recordNotification(ctx context.Context, outcome string, r domain.Reminder) {
	if n.metrics != nil {
		n.metrics.RecordNotification(ctx, outcome, r.CategoryName())
	}
}
