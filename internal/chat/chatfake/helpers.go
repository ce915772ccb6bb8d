package chatfake

import (
	"context"

	"github.com/leaguehq/drawbridge/internal/chat"
)

// Test seams. These mutate or inspect the workspace directly and emit the
// gateway events a live connection would deliver.

// AddMember seeds a member into the workspace.
func (w *Workspace) AddMember(member chat.Member) {
	w.mu.Lock()
	defer w.mu.Unlock()
	stored := member
	stored.GroupIDs = append([]int64(nil), member.GroupIDs...)
	w.members[member.ID] = &stored
}

// SeedChannel installs a channel with a caller-chosen ID.
func (w *Workspace) SeedChannel(channel chat.Channel) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.channels[channel.ID] = channel
}

// SeedGroup installs a group with a caller-chosen ID.
func (w *Workspace) SeedGroup(group chat.Group) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.groups[group.ID] = group
}

// FailSends makes SendMessage to the given channel return err.
func (w *Workspace) FailSends(channelID int64, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err == nil {
		delete(w.sendFailures, channelID)
		return
	}
	w.sendFailures[channelID] = err
}

// FailEdits makes EditMessage in the given channel return err. A nil err
// clears the injection.
func (w *Workspace) FailEdits(channelID int64, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err == nil {
		delete(w.editFailures, channelID)
		return
	}
	w.editFailures[channelID] = err
}

// PostUserMessage records a message authored by a regular member and emits a
// created event to subscribers.
func (w *Workspace) PostUserMessage(message chat.Message) chat.Message {
	w.mu.Lock()
	if message.ID == 0 {
		message.ID = w.nextID()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = w.now()
	}
	w.messages[message.ChannelID] = append(w.messages[message.ChannelID], message)
	handlers := append([]chat.MessageHandler(nil), w.messageHandlers...)
	w.mu.Unlock()

	event := chat.MessageEvent{Kind: chat.MessageCreated, Message: message}
	for _, handler := range handlers {
		handler(context.Background(), event)
	}
	return message
}

// EditUserMessage rewrites a stored message and emits an edited event carrying
// the prior content.
func (w *Workspace) EditUserMessage(channelID, messageID int64, content string) {
	w.mu.Lock()
	var before, after chat.Message
	for i, message := range w.messages[channelID] {
		if message.ID == messageID {
			before = message
			w.messages[channelID][i].Content = content
			after = w.messages[channelID][i]
			break
		}
	}
	handlers := append([]chat.MessageHandler(nil), w.messageHandlers...)
	w.mu.Unlock()

	if after.ID == 0 {
		return
	}
	event := chat.MessageEvent{Kind: chat.MessageEdited, Message: after, Before: &before}
	for _, handler := range handlers {
		handler(context.Background(), event)
	}
}

// DeleteUserMessage removes a stored message and emits a deleted event.
func (w *Workspace) DeleteUserMessage(channelID, messageID int64) {
	w.mu.Lock()
	var deleted chat.Message
	messages := w.messages[channelID]
	for i, message := range messages {
		if message.ID == messageID {
			deleted = message
			w.messages[channelID] = append(messages[:i:i], messages[i+1:]...)
			break
		}
	}
	handlers := append([]chat.MessageHandler(nil), w.messageHandlers...)
	w.mu.Unlock()

	if deleted.ID == 0 {
		return
	}
	event := chat.MessageEvent{Kind: chat.MessageDeleted, Message: deleted}
	for _, handler := range handlers {
		handler(context.Background(), event)
	}
}

// RemoveChannelOutOfBand deletes a channel the way an operator would from the
// platform UI and emits a channel-deleted event with the last known state.
func (w *Workspace) RemoveChannelOutOfBand(channelID int64) {
	w.mu.Lock()
	channel, ok := w.channels[channelID]
	if ok {
		delete(w.channels, channelID)
		delete(w.messages, channelID)
	}
	handlers := append([]chat.ChannelDeletedHandler(nil), w.deleteHandlers...)
	w.mu.Unlock()

	if !ok {
		return
	}
	event := chat.ChannelDeletedEvent{Channel: channel}
	for _, handler := range handlers {
		handler(context.Background(), event)
	}
}

// ChannelMessages returns the stored messages for a channel in post order.
func (w *Workspace) ChannelMessages(channelID int64) []chat.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]chat.Message(nil), w.messages[channelID]...)
}

// Channels returns a snapshot of all live channels.
func (w *Workspace) Channels() []chat.Channel {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]chat.Channel, 0, len(w.channels))
	for _, channel := range w.channels {
		out = append(out, channel)
	}
	return out
}

// Groups returns a snapshot of all live groups.
func (w *Workspace) Groups() []chat.Group {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]chat.Group, 0, len(w.groups))
	for _, group := range w.groups {
		out = append(out, group)
	}
	return out
}

// Containers returns a snapshot of all live containers.
func (w *Workspace) Containers() []chat.Container {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]chat.Container, 0, len(w.containers))
	for _, container := range w.containers {
		out = append(out, container)
	}
	return out
}

// DeletedChannelIDs lists channels removed through the adapter, oldest first.
func (w *Workspace) DeletedChannelIDs() []int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]int64(nil), w.deletedChannels...)
}

// DeletedGroupIDs lists groups removed through the adapter, oldest first.
func (w *Workspace) DeletedGroupIDs() []int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]int64(nil), w.deletedGroups...)
}

// DeletedContainerIDs lists containers removed through the adapter, oldest first.
func (w *Workspace) DeletedContainerIDs() []int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]int64(nil), w.deletedContainers...)
}
