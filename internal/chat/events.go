package chat

import "context"

type MessageEventKind string

const (
	MessageCreated MessageEventKind = "created"
	MessageEdited  MessageEventKind = "edited"
	MessageDeleted MessageEventKind = "deleted"
)

// MessageEvent describes a message lifecycle change in some channel. Before
// is only set for edits and carries the pre-edit message.
type MessageEvent struct {
	Kind    MessageEventKind
	Message Message
	Before  *Message
}

// ChannelDeletedEvent carries the snapshot of a channel as it existed at
// deletion time, including its overwrite set.
type ChannelDeletedEvent struct {
	Channel Channel
}

type MessageHandler func(ctx context.Context, ev MessageEvent)

type ChannelDeletedHandler func(ctx context.Context, ev ChannelDeletedEvent)

// EventSource is implemented by adapters that can deliver platform events.
type EventSource interface {
	SubscribeMessages(handler MessageHandler)
	SubscribeChannelDeleted(handler ChannelDeletedHandler)
}
