// Package draft persists the planner draft per tab session and implements the hydration protocol.
package draft

import (
	"context"

	"saubio/models"
)

// Store persists one draft per tab scope.
//
// Load never fails: a missing or unreadable draft is reported as (nil, false).
// Save and Clear are best effort; losing a draft is an acceptable degradation, so
// failures are logged and swallowed.
type Store interface {
	Load(ctx context.Context, scope string) (*models.PlannerDraft, bool)
	Save(ctx context.Context, scope string, d models.PlannerDraft)
	Clear(ctx context.Context, scope string)
}

// KeyPrefix namespaces draft keys in the shared cache.
const KeyPrefix = "planner:draft:"

func key(scope string) string {
	return KeyPrefix + scope
}
