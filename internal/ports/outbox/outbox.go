package outbox

import (
	"context"

	"snapgram/internal/core/outbox"

	"github.com/gofrs/uuid"
)

type OutboxRepository interface {
	Create(ctx context.Context, event *outbox.Event) (*outbox.Event, error)
	GetPending(ctx context.Context, limit int64) ([]*outbox.Event, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	// MarkAttemptFailed bumps the attempt counter; giveUp moves the event to failed.
	MarkAttemptFailed(ctx context.Context, id uuid.UUID, giveUp bool) error
}

// Publisher delivers one event body to the broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Recorder is what use cases call after a successful mutation.
type Recorder interface {
	Record(ctx context.Context, eventType string, payload any)
}

// payloads

type FollowPayload struct {
	ActorID  string `json:"actorId"`
	TargetID string `json:"targetId"`
}

type PostPayload struct {
	PostID   string `json:"postId"`
	AuthorID string `json:"authorId"`
	ActorID  string `json:"actorId,omitempty"`
}

type MessagePayload struct {
	MessageID      string `json:"messageId"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	ReceiverID     string `json:"receiverId"`
}
