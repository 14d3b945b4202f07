package stores

import (
	"context"
	"log/slog"

	"github.com/stillpoint/haven/pkg/apiclient"
	"github.com/stillpoint/haven/pkg/cache"
	"github.com/stillpoint/haven/pkg/warmup"
)

// Chat caches conversation threads and their messages.
type Chat struct {
	api   *apiclient.Client
	cache *cache.Store
	log   *slog.Logger
}

func conversationKey(userID string) string    { return "chat:conversations:" + userID }
func messageKey(conversationID string) string { return "chat:messages:" + conversationID }

// Conversations returns the user's chat threads, cached briefly.
func (c *Chat) Conversations(ctx context.Context, userID string) ([]apiclient.Conversation, error) {
	return cache.Fetch(ctx, c.cache, conversationKey(userID), func(ctx context.Context) ([]apiclient.Conversation, error) {
		return c.api.Conversations(ctx, userID)
	}, cache.WithTTL(conversationTTL))
}

// Messages returns a conversation's messages, cached briefly.
func (c *Chat) Messages(ctx context.Context, conversationID string) ([]apiclient.Message, error) {
	return cache.Fetch(ctx, c.cache, messageKey(conversationID), func(ctx context.Context) ([]apiclient.Message, error) {
		return c.api.Messages(ctx, conversationID)
	}, cache.WithTTL(messageTTL))
}

// CreateConversation starts a thread and drops the user's cached
// thread list.
func (c *Chat) CreateConversation(ctx context.Context, conv apiclient.Conversation) (apiclient.Conversation, error) {
	created, err := c.api.CreateConversation(ctx, conv)
	if err != nil {
		return apiclient.Conversation{}, err
	}

	removed := c.cache.Invalidate(conversationKey(conv.UserID) + "*")
	c.log.DebugContext(ctx, "stores: conversation list invalidated",
		slog.String("user_id", conv.UserID),
		slog.Int("removed", removed),
	)
	return created, nil
}

// SendMessage appends a message and drops both the conversation's
// cached messages and the user's thread list (the thread's updated_at
// moved).
func (c *Chat) SendMessage(ctx context.Context, userID string, m apiclient.Message) (apiclient.Message, error) {
	sent, err := c.api.SendMessage(ctx, m)
	if err != nil {
		return apiclient.Message{}, err
	}

	removed := c.cache.Invalidate(
		messageKey(m.ConversationID)+"*",
		conversationKey(userID)+"*",
	)
	c.log.DebugContext(ctx, "stores: chat cache invalidated",
		slog.String("conversation_id", m.ConversationID),
		slog.String("user_id", userID),
		slog.Int("removed", removed),
	)
	return sent, nil
}

// WarmupTasks warms the thread list. Individual message threads are
// warmed lazily on first open.
func (c *Chat) WarmupTasks(_ context.Context, userID string) []warmup.Task {
	return []warmup.Task{
		{
			Key:      conversationKey(userID),
			TTL:      conversationTTL,
			Priority: warmPriorityChat,
			Fetch: func(ctx context.Context) (any, error) {
				return c.api.Conversations(ctx, userID)
			},
		},
	}
}
