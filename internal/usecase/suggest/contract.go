package suggest

import "context"

// Repository reads distinct indexed values for prefix completion.
type Repository interface {
	// SuggestValues returns distinct values of an indexed field starting
	// with prefix, scoped to the owner.
	SuggestValues(ctx context.Context, ownerID, field, prefix string, limit int) ([]string, error)
}
