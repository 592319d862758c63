package conversationapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"snapgram/internal/core/apperr"
	conversationEntity "snapgram/internal/core/conversation"
	"snapgram/internal/core/outbox"
	conversationPort "snapgram/internal/ports/conversation"
	outboxPort "snapgram/internal/ports/outbox"
	userPort "snapgram/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type ConversationService struct {
	ConversationRepository conversationPort.ConversationRepository
	UserRepository         userPort.UserRepository
	Events                 outboxPort.Recorder
	Logger                 *zap.Logger
}

func NewConversationService(
	repo conversationPort.ConversationRepository,
	userRepo userPort.UserRepository,
	events outboxPort.Recorder,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		ConversationRepository: repo,
		UserRepository:         userRepo,
		Events:                 events,
		Logger:                 logger,
	}
}

// SendMessage appends a message to the sender/receiver conversation, creating it on first contact.
// Every check runs before AppendMessage so a rejected message leaves no conversation behind.
func (s *ConversationService) SendMessage(ctx context.Context, senderID, receiverID, body string) (*conversationPort.MessageDTO, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperr.New(apperr.ErrInvalidArgument, "Message cannot be empty!")
	}
	sender, err := s.UserRepository.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.UserRepository.FindByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if sender.ID == receiver.ID {
		return nil, apperr.New(apperr.ErrInvalidArgument, "You cannot message yourself!")
	}

	msg, err := s.ConversationRepository.AppendMessage(ctx, &conversationEntity.Message{
		ID:         uuid.Must(uuid.NewV4()),
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Body:       body,
	})
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	s.Events.Record(ctx, outbox.MessageSent, outboxPort.MessagePayload{
		MessageID:      msg.ID.String(),
		ConversationID: msg.ConversationID.String(),
		SenderID:       sender.ID.String(),
		ReceiverID:     receiver.ID.String(),
	})
	return toMessageDTO(msg), nil
}

// GetMessages the conversation between callerID and peerID in send order; empty when they never talked.
func (s *ConversationService) GetMessages(ctx context.Context, callerID, peerID string) ([]*conversationPort.MessageDTO, error) {
	messages, err := s.ConversationRepository.ListMessages(ctx, callerID, peerID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	dtos := make([]*conversationPort.MessageDTO, 0, len(messages))
	for _, m := range messages {
		dtos = append(dtos, toMessageDTO(m))
	}
	return dtos, nil
}

func toMessageDTO(m *conversationEntity.Message) *conversationPort.MessageDTO {
	return &conversationPort.MessageDTO{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID.String(),
		ReceiverID:     m.ReceiverID.String(),
		Message:        m.Body,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}
