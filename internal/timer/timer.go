package timer

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"bingwall/internal/logging"
	"bingwall/internal/schedule"
	"bingwall/internal/timerstate"
)

const (
	// bootDelay lets the desktop session and network settle before a
	// catch-up fetch runs.
	bootDelay = 5 * time.Minute
	// maxJitter spreads fetches so clients do not hit the API at the same
	// instant.
	maxJitter = 5 * time.Minute
	// disabledPoll is how often a disabled timer re-checks its flag.
	disabledPoll = time.Minute
	// sleepSlice caps every scheduling sleep so disable requests and clock
	// adjustments are honored within one slice.
	sleepSlice = time.Minute
	// postFireCooldown keeps a fire from double-triggering while the clock
	// still reads the scheduled minute.
	postFireCooldown = time.Minute
)

// nextRunLayout renders cached run times for status output.
const nextRunLayout = "Mon Jan 02 15:04"

// Timer drives the daily fetch schedule. It owns one background goroutine
// (per Start call), a single-slot fire channel consumers drain, an atomic
// enabled flag mirroring the persisted state, and a cached next-run instant
// for status queries.
//
// The struct is shared by pointer between the daemon and the IPC facade;
// lifecycle calls (Start, Stop) belong to the constructing owner.
type Timer struct {
	store  *timerstate.Store
	logger *slog.Logger

	enabled atomic.Bool

	nextMu  sync.RWMutex
	nextRun time.Time
	hasNext bool

	fires chan time.Time

	lifeMu sync.Mutex
	runCtx context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Timing knobs default to the package constants; tests shorten them.
	bootDelay time.Duration
	jitterMax time.Duration
	idlePoll  time.Duration
	slice     time.Duration
	cooldown  time.Duration
	now       func() time.Time
}

// New constructs a timer over the given state store. The enabled flag is
// seeded from the persisted state.
func New(store *timerstate.Store, logger *slog.Logger) (*Timer, error) {
	if store == nil {
		return nil, errors.New("timer requires a state store")
	}
	t := &Timer{
		store:     store,
		logger:    logging.NewComponentLogger(logger, "timer"),
		fires:     make(chan time.Time, 1),
		bootDelay: bootDelay,
		jitterMax: maxJitter,
		idlePoll:  disabledPoll,
		slice:     sleepSlice,
		cooldown:  postFireCooldown,
		now:       time.Now,
	}
	t.enabled.Store(store.Load().Enabled)
	return t, nil
}

// Start spawns the scheduling goroutine and returns the fire channel. The
// channel is created once per timer, so repeated Start calls return the same
// receiver while spawning additional goroutines over the shared flag; Stop
// cancels them all.
func (t *Timer) Start(ctx context.Context) <-chan time.Time {
	t.lifeMu.Lock()
	if t.cancel == nil {
		t.runCtx, t.cancel = context.WithCancel(ctx)
	}
	runCtx := t.runCtx
	t.wg.Add(1)
	t.lifeMu.Unlock()

	go t.run(runCtx)
	return t.fires
}

// Stop cancels the scheduling goroutines and waits for them to exit. It is
// idempotent. An already-delivered fire stays in the channel for its
// consumer; an in-flight fetch is the consumer's to finish.
func (t *Timer) Stop() {
	t.lifeMu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.runCtx = nil
	t.lifeMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	t.wg.Wait()
}

// IsEnabled reports the live enabled flag.
func (t *Timer) IsEnabled() bool {
	return t.enabled.Load()
}

// SetEnabled flips the live flag and persists it through the state store.
// The scheduling loop observes the change within one sleep slice; this call
// never blocks on it.
func (t *Timer) SetEnabled(enabled bool) error {
	t.enabled.Store(enabled)
	if _, err := t.store.SetEnabled(enabled); err != nil {
		return err
	}
	t.logger.Info("timer enabled state changed",
		logging.Bool("enabled", enabled),
		logging.String(logging.FieldEventType, "timer_state_changed"))
	return nil
}

// Sync updates the live flag without writing the state file. It is used
// when the state document was changed by another process and already holds
// the new value.
func (t *Timer) Sync(enabled bool) {
	t.enabled.Store(enabled)
}

// RecordFetch stamps the persisted last-fetch time with the current clock.
// Call it after every successful fetch regardless of what triggered it.
func (t *Timer) RecordFetch() error {
	_, err := t.store.RecordFetch(t.now())
	return err
}

// NextRun returns the cached next scheduled run, when one is known.
func (t *Timer) NextRun() (time.Time, bool) {
	if !t.enabled.Load() {
		return time.Time{}, false
	}
	t.nextMu.RLock()
	defer t.nextMu.RUnlock()
	return t.nextRun, t.hasNext
}

// NextRunString renders the next run for status output: empty when the
// timer is disabled, "Scheduled" when enabled but not yet computed.
func (t *Timer) NextRunString() string {
	next, ok := t.NextRun()
	if !ok {
		if t.enabled.Load() {
			return "Scheduled"
		}
		return ""
	}
	return next.Format(nextRunLayout)
}

func (t *Timer) setNextRun(next time.Time) {
	t.nextMu.Lock()
	t.nextRun = next
	t.hasNext = true
	t.nextMu.Unlock()
}

func (t *Timer) clearNextRun() {
	t.nextMu.Lock()
	t.nextRun = time.Time{}
	t.hasNext = false
	t.nextMu.Unlock()
}

func (t *Timer) run(ctx context.Context) {
	defer t.wg.Done()

	state := t.store.Load()
	last, _ := state.LastFetchTime()
	if t.enabled.Load() && schedule.NeedsCatchup(last, t.now()) {
		t.logger.Info("catch-up fetch pending",
			logging.Duration("boot_delay", t.bootDelay),
			logging.String(logging.FieldEventType, "timer_catchup_pending"))
		if !t.wait(ctx, t.bootDelay) {
			return
		}
		if !t.wait(ctx, t.jitter()) {
			return
		}
		if t.enabled.Load() {
			t.fire()
		}
	}

	for {
		if ctx.Err() != nil {
			return
		}

		if !t.enabled.Load() {
			t.clearNextRun()
			if !t.wait(ctx, t.idlePoll) {
				return
			}
			continue
		}

		next := schedule.NextRun(t.now())
		t.setNextRun(next)
		t.logger.Debug("next run scheduled", logging.String("next_run", next.Format(nextRunLayout)))

		for t.now().Before(next) {
			if !t.enabled.Load() {
				break
			}
			remain := next.Sub(t.now())
			if remain > t.slice {
				remain = t.slice
			}
			if !t.wait(ctx, remain) {
				return
			}
		}
		if !t.enabled.Load() {
			continue
		}

		if !t.wait(ctx, t.jitter()) {
			return
		}
		if t.enabled.Load() {
			t.fire()
		}
		if !t.wait(ctx, t.cooldown) {
			return
		}
	}
}

// fire delivers into the single-slot channel. When a previous fire has not
// been consumed yet the new one is coalesced into it: both cover the same
// day and the download step is idempotent.
func (t *Timer) fire() {
	now := t.now()
	select {
	case t.fires <- now:
		t.logger.Info("timer fired",
			logging.String(logging.FieldEventType, "timer_fired"))
	default:
		t.logger.Debug("fire coalesced with pending event")
	}
}

func (t *Timer) jitter() time.Duration {
	if t.jitterMax <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(t.jitterMax) + 1))
}

func (t *Timer) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
