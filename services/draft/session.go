package draft

import (
	"encoding/json"

	"saubio/models"
)

const serviceField = "service"

// Session holds the working copy of a draft and reproduces the planner's hydration protocol.
//
// Changing the service resets every other field to its default ("start over per service").
// Restoring a stored draft also changes the service, so Hydrate raises a guard under which
// the reset is skipped; the caller drops it with Release once hydration has settled.
type Session struct {
	draft        models.PlannerDraft
	lastService  models.ServiceCategory
	justHydrated bool
	hydrated     bool
}

func NewSession() *Session {
	d := models.DefaultDraft()
	return &Session{draft: d, lastService: d.Service}
}

// Hydrate restores a stored draft once. It returns false when nothing was restored.
func (s *Session) Hydrate(stored *models.PlannerDraft) bool {
	if s.hydrated {
		return false
	}
	s.hydrated = true
	if stored == nil {
		return false
	}
	s.justHydrated = true
	s.draft = *stored
	s.draft.Sanitize()
	s.settleService()
	return true
}

// Release drops the just-hydrated guard.
func (s *Session) Release() {
	s.justHydrated = false
}

// Guarded reports whether the just-hydrated guard is active.
func (s *Session) Guarded() bool {
	return s.justHydrated
}

// SetService switches the service, resetting the rest of the draft unless guarded.
func (s *Session) SetService(service models.ServiceCategory) {
	if !service.Valid() {
		return
	}
	s.draft.Service = service
	s.settleService()
}

// Apply writes the given fields. A service change is applied and settled first so the
// remaining fields of the same patch land on the reset draft. It returns the applied keys.
func (s *Session) Apply(fields map[string]json.RawMessage) []string {
	var applied []string
	if raw, ok := fields[serviceField]; ok {
		var service models.ServiceCategory
		if err := json.Unmarshal(raw, &service); err == nil && service.Valid() {
			s.SetService(service)
			applied = append(applied, serviceField)
		}
	}

	rest := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		if k != serviceField {
			rest[k] = v
		}
	}
	next, keys := ApplyFields(s.draft, rest)
	next.Service = s.draft.Service
	next.Sanitize()
	s.draft = next
	return append(applied, keys...)
}

// Update mutates the draft in place for callers holding typed values.
func (s *Session) Update(fn func(d *models.PlannerDraft)) {
	fn(&s.draft)
	s.draft.Sanitize()
	s.settleService()
}

func (s *Session) Draft() models.PlannerDraft {
	return s.draft
}

// settleService is the "reset on service change" effect.
func (s *Session) settleService() {
	if s.draft.Service == s.lastService {
		return
	}
	if !s.justHydrated {
		s.draft = models.DefaultDraftFor(s.draft.Service)
	}
	s.lastService = s.draft.Service
}
