package vtypes

import "context"

// RelationEventKind identifies the relation transition a notification describes.
type RelationEventKind string

const (
	RelationEventPendingCreated  RelationEventKind = "PENDING_CREATED"
	RelationEventPendingAccepted RelationEventKind = "PENDING_ACCEPTED"
)

// RelationEvent is the advisory payload pushed to a user's realtime channel.
// Clients treat it purely as a hint to re-poll their pending feed; only the
// kind and relation id travel with it.
type RelationEvent struct {
	Kind         RelationEventKind `json:"kind"`
	RelationID   uint              `json:"id"`
	TargetUserID uint              `json:"targetUserId"`
}

// RelationNotifier delivers relation events best-effort: no ordering, no
// delivery guarantee, no retry. Callers are expected to log and discard any
// error instead of surfacing it.
type RelationNotifier interface {
	NotifyRelationEvent(ctx context.Context, targetUserID uint, kind RelationEventKind, relationID uint) error
}
