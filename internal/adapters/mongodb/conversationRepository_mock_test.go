package mongodb

import (
	"context"
	"testing"
	"time"

	"snapgram/internal/core/conversation"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func conversationDoc(id string, a, b uuid.UUID, count int64) bson.D {
	key, _, _ := pairKey(a, b)
	now := time.Now().UTC()
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "pair_key", Value: key},
		{Key: "participant_a", Value: a.String()},
		{Key: "participant_b", Value: b.String()},
		{Key: "message_count", Value: count},
		{Key: "created_at", Value: now},
		{Key: "updated_at", Value: now},
	}
}

// conversationReply the findAndModify answer carrying the document after the update.
func conversationReply(id string, a, b uuid.UUID, count int64) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: conversationDoc(id, a, b, count)})
}

func messageDoc(convID string, seq int64, from, to uuid.UUID, body string) bson.D {
	return bson.D{
		{Key: "_id", Value: uuid.Must(uuid.NewV4()).String()},
		{Key: "conversation_id", Value: convID},
		{Key: "seq", Value: seq},
		{Key: "sender_id", Value: from.String()},
		{Key: "receiver_id", Value: to.String()},
		{Key: "body", Value: body},
		{Key: "created_at", Value: time.Now().UTC()},
	}
}

func TestConversationRepositoryMongo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	alice := uuid.Must(uuid.NewV4())
	bob := uuid.Must(uuid.NewV4())
	key, first, second := pairKey(alice, bob)
	convID := uuid.Must(uuid.NewV4()).String()

	mt.Run("append upserts the conversation and takes the bumped counter as seq", func(mt *mtest.T) {
		repo := NewConversationRepositoryMongo(mt.DB)
		mt.AddMockResponses(
			conversationReply(convID, first, second, 1),
			mtest.CreateSuccessResponse(),
		)

		msg, err := repo.AppendMessage(ctx, &conversation.Message{SenderID: alice, ReceiverID: bob, Body: "hi"})
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), msg.Seq)
		assert.Equal(mt, convID, msg.ConversationID.String())
		assert.NotEqual(mt, uuid.Nil, msg.ID)

		upsert := mt.GetStartedEvent()
		require.NotNil(mt, upsert)
		assert.Equal(mt, "findAndModify", upsert.CommandName)
		assert.Equal(mt, conversationsCollection, upsert.Command.Lookup("findAndModify").StringValue())
		assert.Equal(mt, key, upsert.Command.Lookup("query", "pair_key").StringValue())
		assert.True(mt, upsert.Command.Lookup("upsert").Boolean())
		assert.True(mt, upsert.Command.Lookup("new").Boolean())
		assert.Equal(mt, int64(1), upsert.Command.Lookup("update", "$inc", "message_count").AsInt64())
		assert.Equal(mt, first.String(), upsert.Command.Lookup("update", "$setOnInsert", "participant_a").StringValue())
		assert.Equal(mt, second.String(), upsert.Command.Lookup("update", "$setOnInsert", "participant_b").StringValue())

		insert := mt.GetStartedEvent()
		require.NotNil(mt, insert)
		assert.Equal(mt, "insert", insert.CommandName)
		assert.Equal(mt, messagesCollection, insert.Command.Lookup("insert").StringValue())
		assert.Equal(mt, convID, insert.Command.Lookup("documents", "0", "conversation_id").StringValue())
		assert.Equal(mt, int64(1), insert.Command.Lookup("documents", "0", "seq").AsInt64())
		assert.Equal(mt, "hi", insert.Command.Lookup("documents", "0", "body").StringValue())
	})

	mt.Run("both directions hit the same conversation", func(mt *mtest.T) {
		repo := NewConversationRepositoryMongo(mt.DB)
		mt.AddMockResponses(
			conversationReply(convID, first, second, 1),
			mtest.CreateSuccessResponse(),
			conversationReply(convID, first, second, 2),
			mtest.CreateSuccessResponse(),
		)

		hi, err := repo.AppendMessage(ctx, &conversation.Message{SenderID: alice, ReceiverID: bob, Body: "hi"})
		require.NoError(mt, err)
		yo, err := repo.AppendMessage(ctx, &conversation.Message{SenderID: bob, ReceiverID: alice, Body: "yo"})
		require.NoError(mt, err)

		assert.Equal(mt, hi.ConversationID, yo.ConversationID)
		assert.Equal(mt, []int64{1, 2}, []int64{hi.Seq, yo.Seq})

		var keys []string
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "findAndModify" {
				keys = append(keys, evt.Command.Lookup("query", "pair_key").StringValue())
			}
		}
		assert.Equal(mt, []string{key, key}, keys)
	})

	mt.Run("a lost insert race is retried once", func(mt *mtest.T) {
		repo := NewConversationRepositoryMongo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    11000,
				Message: "E11000 duplicate key error collection: conversations index: pair_key_1",
				Name:    "DuplicateKey",
			}),
			conversationReply(convID, first, second, 4),
			mtest.CreateSuccessResponse(),
		)

		msg, err := repo.AppendMessage(ctx, &conversation.Message{SenderID: alice, ReceiverID: bob, Body: "again"})
		require.NoError(mt, err)
		assert.Equal(mt, int64(4), msg.Seq)

		var names []string
		for _, evt := range mt.GetAllStartedEvents() {
			names = append(names, evt.CommandName)
		}
		assert.Equal(mt, []string{"findAndModify", "findAndModify", "insert"}, names)
	})

	mt.Run("other upsert failures stop before the insert", func(mt *mtest.T) {
		repo := NewConversationRepositoryMongo(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
			Name:    "BadValue",
		}))

		_, err := repo.AppendMessage(ctx, &conversation.Message{SenderID: alice, ReceiverID: bob, Body: "hi"})
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "reserve sequence")
		assert.Len(mt, mt.GetAllStartedEvents(), 1)
	})

	mt.Run("listing a pair that never talked is empty", func(mt *mtest.T) {
		repo := NewConversationRepositoryMongo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+conversationsCollection, mtest.FirstBatch))

		messages, err := repo.ListMessages(ctx, alice.String(), bob.String())
		require.NoError(mt, err)
		assert.NotNil(mt, messages)
		assert.Empty(mt, messages)

		events := mt.GetAllStartedEvents()
		require.Len(mt, events, 1)
		assert.Equal(mt, key, events[0].Command.Lookup("filter", "pair_key").StringValue())
	})

	mt.Run("listing returns messages sorted by seq", func(mt *mtest.T) {
		repo := NewConversationRepositoryMongo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mt.DB.Name()+"."+conversationsCollection, mtest.FirstBatch,
				conversationDoc(convID, first, second, 2),
			),
			mtest.CreateCursorResponse(0, mt.DB.Name()+"."+messagesCollection, mtest.FirstBatch,
				messageDoc(convID, 1, alice, bob, "hi"),
				messageDoc(convID, 2, bob, alice, "yo"),
			),
		)

		messages, err := repo.ListMessages(ctx, bob.String(), alice.String())
		require.NoError(mt, err)
		require.Len(mt, messages, 2)
		assert.Equal(mt, "hi", messages[0].Body)
		assert.Equal(mt, int64(1), messages[0].Seq)
		assert.Equal(mt, alice, messages[0].SenderID)
		assert.Equal(mt, "yo", messages[1].Body)
		assert.Equal(mt, int64(2), messages[1].Seq)

		events := mt.GetAllStartedEvents()
		require.Len(mt, events, 2)
		assert.Equal(mt, key, events[0].Command.Lookup("filter", "pair_key").StringValue())
		assert.Equal(mt, messagesCollection, events[1].Command.Lookup("find").StringValue())
		assert.Equal(mt, convID, events[1].Command.Lookup("filter", "conversation_id").StringValue())
		assert.Equal(mt, int64(1), events[1].Command.Lookup("sort", "seq").AsInt64())
	})
}
