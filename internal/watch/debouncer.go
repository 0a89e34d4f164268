package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"
)

// Burst is a run of file events that arrived within one quiet period.
type Burst struct {
	// Path is the file named by the last event of the burst.
	Path string

	// Events is the number of events coalesced into the burst.
	Events int
}

// String names the burst for status lines: the file's base name, plus the
// event count when more than one event was coalesced.
func (b Burst) String() string {
	name := filepath.Base(b.Path)
	if b.Events <= 1 {
		return name
	}

	return fmt.Sprintf("%s ×%d", name, b.Events)
}

// Debouncer coalesces file events and fires once the file has been quiet
// for the configured interval. Editors typically write a CSV in several
// steps (truncate, write, chmod), so reloading on every event would parse
// half-written files.
type Debouncer struct {
	quiet  time.Duration
	fire   func(Burst)
	logger *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	pending Burst
}

// NewDebouncer creates a Debouncer that calls fire after quiet has elapsed
// since the last Trigger. A nil logger discards panic reports.
func NewDebouncer(quiet time.Duration, fire func(Burst), logger *slog.Logger) *Debouncer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Debouncer{quiet: quiet, fire: fire, logger: logger}
}

// Trigger records an event for path and restarts the quiet period.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending.Path = path
	d.pending.Events++

	// A timer that already fired is waiting on mu; bumping seq makes it
	// return without taking the burst.
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.quiet, func() { d.flush(seq) })
}

// Pending reports the number of events waiting for the quiet period.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.pending.Events
}

// Stop drops any pending burst and cancels the timer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	d.pending = Burst{}

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) flush(seq uint64) {
	d.mu.Lock()

	if seq != d.seq || d.pending.Events == 0 {
		d.mu.Unlock()
		return
	}

	burst := d.pending
	d.pending = Burst{}
	d.timer = nil
	d.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("reload panicked", slog.String("file", burst.Path), slog.Any("panic", r))
		}
	}()

	d.fire(burst)
}
