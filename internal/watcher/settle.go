package watcher

import (
	"context"
	"time"

	"github.com/amezhov/filekeeper/internal/tempfile"
)

// ResolveReal maps a chronological burst of watcher events to the single
// durable path it refers to, or "" when none can be determined. Editor
// save sequences usually touch only temp artifacts; the underlying
// heuristics recover the shadowed filename in that case.
func ResolveReal(events []Event) string {
	fe := make([]tempfile.Event, 0, len(events))
	for _, ev := range events {
		fe = append(fe, tempfile.Event{Path: ev.Path, DestPath: ev.DestPath})
	}
	return tempfile.FindRealFile(fe)
}

// Settle buffers events from in and, once no event has arrived for the
// given quiet window, emits the resolved real path of the burst. Duplicate
// consecutive resolutions are suppressed. The returned channel is closed
// when in closes or ctx is cancelled.
func Settle(ctx context.Context, in <-chan Event, window time.Duration) <-chan string {
	out := make(chan string, 16)

	go func() {
		defer close(out)

		var burst []Event
		timer := time.NewTimer(window)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()

		last := ""
		flush := func() {
			if len(burst) == 0 {
				return
			}
			resolved := ResolveReal(burst)
			burst = burst[:0]
			if resolved == "" || resolved == last {
				return
			}
			last = resolved
			select {
			case out <- resolved:
			case <-ctx.Done():
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-in:
				if !ok {
					flush()
					return
				}
				burst = append(burst, ev)
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(window)
			case <-timer.C:
				flush()
			}
		}
	}()

	return out
}
