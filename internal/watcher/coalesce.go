package watcher

import "time"

// DefaultQuietPeriod is how long a directory must stay quiet before a burst
// of events is delivered. Editors often write a file several times per save.
const DefaultQuietPeriod = 300 * time.Millisecond

// Coalesce groups events that arrive less than quiet apart into one batch.
// The returned channel is closed after in is closed and the last batch is
// delivered.
func Coalesce(in <-chan Event, quiet time.Duration) <-chan []Event {
	out := make(chan []Event)
	go func() {
		defer close(out)
		for ev := range in {
			batch := []Event{ev}
			timer := time.NewTimer(quiet)
		collect:
			for {
				select {
				case next, ok := <-in:
					if !ok {
						timer.Stop()
						break collect
					}
					batch = append(batch, next)
					timer.Reset(quiet)
				case <-timer.C:
					break collect
				}
			}
			out <- batch
		}
	}()
	return out
}
