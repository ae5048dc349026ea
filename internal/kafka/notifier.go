package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"vestiaire/internal/vtypes"
)

// relationEventNotifier publishes relation events to the relation-events
// topic, keyed by target user id so one user's events stay ordered within a
// partition.
type relationEventNotifier struct {
	producer MessageProducer
	topic    string
}

// NewRelationEventNotifier wraps a producer as a vtypes.RelationNotifier.
func NewRelationEventNotifier(producer MessageProducer, topic string) vtypes.RelationNotifier {
	return &relationEventNotifier{producer: producer, topic: topic}
}

func (n *relationEventNotifier) NotifyRelationEvent(ctx context.Context, targetUserID uint, kind vtypes.RelationEventKind, relationID uint) error {
	event := vtypes.RelationEvent{
		Kind:         kind,
		RelationID:   relationID,
		TargetUserID: targetUserID,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal relation event: %w", err)
	}

	key := []byte(strconv.FormatUint(uint64(targetUserID), 10))
	if err := n.producer.SendMessage(ctx, n.topic, key, payload); err != nil {
		return fmt.Errorf("failed to publish relation event for user %d: %w", targetUserID, err)
	}
	return nil
}
