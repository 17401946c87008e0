// Package matching tracks the API's live "matching progress" events for display.
// Progress is informational: it never touches the provider selection or blocks submission.
package matching

import (
	"strings"
	"sync"
	"time"

	"saubio/models"
)

// ContextKey correlates progress events with a planner draft.
func ContextKey(service models.ServiceCategory, postalCode, startAt string, eco models.EcoPreference) string {
	return strings.Join([]string{string(service), strings.TrimSpace(postalCode), startAt, string(eco)}, "|")
}

// KeyForDraft derives the context key from the draft's current fields.
func KeyForDraft(d models.PlannerDraft) string {
	return ContextKey(d.Service, d.ServiceAddress().PostalCode, d.ScheduledStart, d.EcoPreference)
}

// Progress is the stage -> status snapshot for one context key.
type Progress struct {
	ContextKey string            `json:"contextKey"`
	Stages     map[string]string `json:"stages"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

const subscriberBuffer = 16

// Tracker keeps the latest status per stage and fans events out to subscribers.
type Tracker struct {
	mu          sync.RWMutex
	progress    map[string]*Progress
	subscribers map[string]map[chan models.MatchingProgressEvent]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{
		progress:    make(map[string]*Progress),
		subscribers: make(map[string]map[chan models.MatchingProgressEvent]struct{}),
	}
}

// Record applies one event. Events without key or stage are ignored.
func (t *Tracker) Record(ev models.MatchingProgressEvent) {
	if ev.ContextKey == "" || ev.Stage == "" {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	t.mu.Lock()
	p, ok := t.progress[ev.ContextKey]
	if !ok {
		p = &Progress{ContextKey: ev.ContextKey, Stages: make(map[string]string)}
		t.progress[ev.ContextKey] = p
	}
	p.Stages[ev.Stage] = ev.Status
	if ev.At.After(p.UpdatedAt) {
		p.UpdatedAt = ev.At
	}
	for ch := range t.subscribers[ev.ContextKey] {
		select {
		case ch <- ev:
		default:
			// slow subscriber; it can re-read the snapshot
		}
	}
	t.mu.Unlock()
}

// Snapshot returns a copy of the progress for key. Unknown keys yield an empty map.
func (t *Tracker) Snapshot(key string) Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := Progress{ContextKey: key, Stages: map[string]string{}}
	if p, ok := t.progress[key]; ok {
		for stage, status := range p.Stages {
			out.Stages[stage] = status
		}
		out.UpdatedAt = p.UpdatedAt
	}
	return out
}

// Subscribe returns a channel of events for key and a function that ends the subscription.
func (t *Tracker) Subscribe(key string) (<-chan models.MatchingProgressEvent, func()) {
	ch := make(chan models.MatchingProgressEvent, subscriberBuffer)
	t.mu.Lock()
	if t.subscribers[key] == nil {
		t.subscribers[key] = make(map[chan models.MatchingProgressEvent]struct{})
	}
	t.subscribers[key][ch] = struct{}{}
	t.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subscribers[key], ch)
			if len(t.subscribers[key]) == 0 {
				delete(t.subscribers, key)
			}
			t.mu.Unlock()
			close(ch)
		})
	}
}

// Forget drops progress older than cutoff.
func (t *Tracker) Forget(cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for key, p := range t.progress {
		if p.UpdatedAt.Before(cutoff) {
			delete(t.progress, key)
			n++
		}
	}
	return n
}
