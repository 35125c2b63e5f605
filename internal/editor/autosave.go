package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ms-event-dashboard/internal/logger"
)

// Autosaver schedules a delayed save after each draft change and
// reschedules on every subsequent change, so a typing burst collapses
// into one save. A single-flight guard serializes overlapping flushes:
// at most one save is on the wire, and changes arriving during a save
// trigger exactly one follow-up.
type Autosaver struct {
	session *Session
	delay   time.Duration
	logger  *logger.Logger

	mu       sync.Mutex
	timer    *time.Timer
	inflight bool
	rerun    bool
	stopped  bool
}

func NewAutosaver(session *Session, delay time.Duration, log *logger.Logger) *Autosaver {
	return &Autosaver{session: session, delay: delay, logger: log}
}

// Touch restarts the debounce window.
func (a *Autosaver) Touch() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.flush)
}

func (a *Autosaver) flush() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	if a.inflight {
		a.rerun = true
		a.mu.Unlock()
		return
	}
	a.inflight = true
	a.mu.Unlock()

	for {
		if a.session.State() == StateDirty {
			if err := a.session.Save(context.Background()); err != nil && a.logger != nil {
				a.logger.Warn("AUTOSAVE", fmt.Sprintf("autosave failed: %v", err))
			}
		}

		a.mu.Lock()
		if a.rerun && !a.stopped {
			a.rerun = false
			a.mu.Unlock()
			continue
		}
		a.inflight = false
		a.mu.Unlock()
		return
	}
}

// Stop cancels any scheduled flush. Called when the session closes.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopped = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
