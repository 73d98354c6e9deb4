// Package listing assembles the forum's question and tag listings: it
// builds each listing's base query, applies the shared filters and hands
// the result to the pagination engine or the feed adapter.
package listing

import (
	"fmt"

	"forum-reader/internal/domain/entity"
)

// Sentinel errors for listing operations. They wrap the entity errors so
// handlers can map them with errors.Is.
var (
	// ErrTagNotFound indicates that no live tag has the requested name.
	ErrTagNotFound = fmt.Errorf("tag %w", entity.ErrNotFound)

	// ErrUserNotFound indicates that the listing's subject user does not exist.
	ErrUserNotFound = fmt.Errorf("user %w", entity.ErrNotFound)

	// ErrUnknownMode indicates an unsupported user listing mode.
	ErrUnknownMode = fmt.Errorf("listing mode %w", entity.ErrNotFound)

	// ErrSubscriptionsHidden indicates that the caller may not see another
	// user's subscriptions.
	ErrSubscriptionsHidden = fmt.Errorf("subscriptions: %w", entity.ErrUnauthorized)
)
