package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat reports a running build at a fixed interval. A stuck build
// command shows up as heartbeats whose line count stops growing.
type Heartbeat struct {
	tracer Tracer
	status func() string
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// StartHeartbeat emits a heartbeat carrying status() every interval.
// Ticks where status returns "" are skipped, so an idle shell waiting for
// input stays quiet. Returns nil when tracing is disabled, status is nil
// or interval is not positive.
func StartHeartbeat(tracer Tracer, interval time.Duration, status func() string) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || status == nil || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer: tracer,
		status: status,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go h.loop(interval)
	return h
}

func (h *Heartbeat) loop(interval time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var beats int
	for {
		select {
		case <-h.stop:
			return
		case now := <-ticker.C:
			detail := h.status()
			if detail == "" {
				continue
			}
			beats++
			h.tracer.Emit(&Event{
				Time:   now,
				Kind:   KindHeartbeat,
				Scope:  ScopeStage,
				Name:   "build",
				Detail: detail,
				Extra:  map[string]string{"beat": strconv.Itoa(beats)},
			})
		}
	}
}

// Stop ends the heartbeat and waits for its goroutine. Safe on nil and
// more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
