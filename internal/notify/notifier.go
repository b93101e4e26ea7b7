package notify

import "context"

// Notifier fans out "tasks changed for this owner" events. Publish is
// called after every successful store write; Listen blocks, invoking
// the handler for each event until the context is canceled. Events
// carry no payload beyond the owner id: receivers re-read the store
// and treat what they get as the authoritative snapshot.
type Notifier interface {
	Publish(ctx context.Context, ownerID string) error

	Listen(ctx context.Context, handler func(ownerID string)) error
}
