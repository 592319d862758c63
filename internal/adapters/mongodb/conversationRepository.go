package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"snapgram/internal/core/conversation"

	"github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	conversationsCollection = "conversations"
	messagesCollection      = "messages"
)

type conversationDocument struct {
	ID           string    `bson:"_id"`
	PairKey      string    `bson:"pair_key"`
	ParticipantA string    `bson:"participant_a"`
	ParticipantB string    `bson:"participant_b"`
	MessageCount int64     `bson:"message_count"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type messageDocument struct {
	ID             string    `bson:"_id"`
	ConversationID string    `bson:"conversation_id"`
	Seq            int64     `bson:"seq"`
	SenderID       string    `bson:"sender_id"`
	ReceiverID     string    `bson:"receiver_id"`
	Body           string    `bson:"body"`
	CreatedAt      time.Time `bson:"created_at"`
}

// ConversationRepositoryMongo stores conversations and their messages in MongoDB.
// The conversation document's message_count doubles as the sequence counter for its messages.
type ConversationRepositoryMongo struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewConversationRepositoryMongo(db *mongo.Database) *ConversationRepositoryMongo {
	return &ConversationRepositoryMongo{
		conversations: db.Collection(conversationsCollection),
		messages:      db.Collection(messagesCollection),
	}
}

// EnsureIndexes one conversation per pair, one message per (conversation, seq).
func (repo *ConversationRepositoryMongo) EnsureIndexes(ctx context.Context) error {
	_, err := repo.conversations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "pair_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("conversation pair index: %w", err)
	}
	_, err = repo.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "conversation_id", Value: 1}, {Key: "seq", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("message sequence index: %w", err)
	}
	return nil
}

func pairKey(x, y uuid.UUID) (string, uuid.UUID, uuid.UUID) {
	a, b := conversation.Pair(x, y)
	return a.String() + ":" + b.String(), a, b
}

// nextSeq upserts the pair's conversation and bumps its counter in one atomic update.
func (repo *ConversationRepositoryMongo) nextSeq(ctx context.Context, x, y uuid.UUID) (*conversationDocument, error) {
	key, a, b := pairKey(x, y)
	now := time.Now().UTC()

	filter := bson.D{{Key: "pair_key", Value: key}}
	update := bson.D{
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: uuid.Must(uuid.NewV4()).String()},
			{Key: "participant_a", Value: a.String()},
			{Key: "participant_b", Value: b.String()},
			{Key: "created_at", Value: now},
		}},
		{Key: "$inc", Value: bson.D{{Key: "message_count", Value: 1}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now}}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc conversationDocument
	err := repo.conversations.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// lost the insert race; the document exists now
		err = repo.conversations.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (repo *ConversationRepositoryMongo) AppendMessage(ctx context.Context, msg *conversation.Message) (*conversation.Message, error) {
	conv, err := repo.nextSeq(ctx, msg.SenderID, msg.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("reserve sequence: %w", err)
	}

	if msg.ID == uuid.Nil {
		msg.ID = uuid.Must(uuid.NewV4())
	}
	msg.ConversationID = uuid.FromStringOrNil(conv.ID)
	msg.Seq = conv.MessageCount
	msg.CreatedAt = time.Now().UTC()

	_, err = repo.messages.InsertOne(ctx, messageDocument{
		ID:             msg.ID.String(),
		ConversationID: conv.ID,
		Seq:            msg.Seq,
		SenderID:       msg.SenderID.String(),
		ReceiverID:     msg.ReceiverID.String(),
		Body:           msg.Body,
		CreatedAt:      msg.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

func (repo *ConversationRepositoryMongo) ListMessages(ctx context.Context, x, y string) ([]*conversation.Message, error) {
	key, _, _ := pairKey(uuid.FromStringOrNil(x), uuid.FromStringOrNil(y))

	var conv conversationDocument
	err := repo.conversations.FindOne(ctx, bson.D{{Key: "pair_key", Value: key}}).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []*conversation.Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	cursor, err := repo.messages.Find(ctx,
		bson.D{{Key: "conversation_id", Value: conv.ID}},
		options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	messages := make([]*conversation.Message, 0, len(docs))
	for _, d := range docs {
		messages = append(messages, toMessage(d))
	}
	return messages, nil
}

func toMessage(d messageDocument) *conversation.Message {
	return &conversation.Message{
		ID:             uuid.FromStringOrNil(d.ID),
		ConversationID: uuid.FromStringOrNil(d.ConversationID),
		Seq:            d.Seq,
		SenderID:       uuid.FromStringOrNil(d.SenderID),
		ReceiverID:     uuid.FromStringOrNil(d.ReceiverID),
		Body:           d.Body,
		CreatedAt:      d.CreatedAt,
	}
}
