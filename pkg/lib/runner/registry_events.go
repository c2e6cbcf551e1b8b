package runner

import (
	"context"

	"github.com/SanjoDeundiak/server-launcher/pkg/lib"
)

// handleEvent runs with the emitting supervisor's lock held. Output of a
// removed config has no buffer and is only broadcast.
func (r *Registry) handleEvent(ev lib.Event) {
	if ev.Kind == lib.EventOutput {
		r.logBuffer(ev.ID).Append(ev.Text)
	}
	r.events.Publish(ev)
}

// Subscribe returns a channel receiving every event of every supervisor from
// now on, in emission order per id, and a function ending the subscription.
func (r *Registry) Subscribe() (<-chan lib.Event, func(), error) {
	ch, err := r.events.Subscribe(64)
	if err != nil {
		return nil, nil, err
	}
	return ch, func() { r.events.Unsubscribe(ch) }, nil
}

// Shutdown stops every live process gracefully and waits for all of them to
// exit. Processes still alive when ctx is done are killed. Subscriptions are
// closed at the end.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.RLock()
	sups := make([]*Supervisor, 0, len(r.supervisors))
	for _, sup := range r.supervisors {
		sups = append(sups, sup)
	}
	r.mu.RUnlock()

	for _, sup := range sups {
		sup.Stop()
	}
	for _, sup := range sups {
		select {
		case <-sup.Done():
		case <-ctx.Done():
			logger.Printf("Shutdown deadline reached, killing %s", sup.ID())
			sup.ForceStop()
			<-sup.Done()
		}
	}
	r.events.Stop()
}
