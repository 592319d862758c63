package conversation

import (
	"context"

	"snapgram/internal/core/conversation"
)

// ConversationRepository port for the direct message store.
type ConversationRepository interface {
	// AppendMessage finds or creates the conversation of the sender/receiver pair and appends msg to it.
	// Both writes commit together; Seq and ConversationID are filled on return.
	AppendMessage(ctx context.Context, msg *conversation.Message) (*conversation.Message, error)
	// ListMessages returns the pair's messages in send order, or an empty slice when they never talked.
	ListMessages(ctx context.Context, a, b string) ([]*conversation.Message, error)
}

type MessageDTO struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	ReceiverID     string `json:"receiverId"`
	Message        string `json:"message"`
	CreatedAt      string `json:"createdAt"`
}
