package chatfake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/platform/id"
)

// Workspace is an in-memory chat.Adapter and chat.EventSource. It backs the
// use-case tests and the dev wiring, the same role the memory repositories
// play for the entity store.
type Workspace struct {
	mu sync.Mutex

	ids id.Generator
	now func() time.Time

	containers map[int64]chat.Container
	groups     map[int64]chat.Group
	channels   map[int64]chat.Channel
	messages   map[int64][]chat.Message
	members    map[int64]*chat.Member

	sendFailures map[int64]error
	editFailures map[int64]error

	deletedChannels   []int64
	deletedGroups     []int64
	deletedContainers []int64

	messageHandlers []chat.MessageHandler
	deleteHandlers  []chat.ChannelDeletedHandler

	// BotUserID marks messages the workspace itself posts.
	BotUserID int64
}

func NewWorkspace() *Workspace {
	return &Workspace{
		ids:          id.NewSequenceGenerator(1000),
		now:          time.Now,
		containers:   make(map[int64]chat.Container),
		groups:       make(map[int64]chat.Group),
		channels:     make(map[int64]chat.Channel),
		messages:     make(map[int64][]chat.Message),
		members:      make(map[int64]*chat.Member),
		sendFailures: make(map[int64]error),
		editFailures: make(map[int64]error),
		BotUserID:    1,
	}
}

func (w *Workspace) nextID() int64 {
	value, err := w.ids.NextID()
	if err != nil {
		panic(err)
	}
	return value
}

func (w *Workspace) CreateContainer(_ context.Context, name string, overwrites []chat.Overwrite) (chat.Container, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	container := chat.Container{
		ID:         w.nextID(),
		Name:       name,
		Overwrites: append([]chat.Overwrite(nil), overwrites...),
	}
	w.containers[container.ID] = container
	return container, nil
}

func (w *Workspace) DeleteContainer(_ context.Context, containerID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.containers[containerID]; !ok {
		return fmt.Errorf("container %d does not exist", containerID)
	}
	delete(w.containers, containerID)
	w.deletedContainers = append(w.deletedContainers, containerID)
	return nil
}

func (w *Workspace) CreateGroup(_ context.Context, name string, mentionable bool) (chat.Group, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	group := chat.Group{ID: w.nextID(), Name: name, Mentionable: mentionable}
	w.groups[group.ID] = group
	return group, nil
}

func (w *Workspace) DeleteGroup(_ context.Context, groupID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.groups[groupID]; !ok {
		return fmt.Errorf("group %d does not exist", groupID)
	}
	delete(w.groups, groupID)
	w.deletedGroups = append(w.deletedGroups, groupID)
	return nil
}

func (w *Workspace) CreateChannel(_ context.Context, name string, containerID int64, overwrites []chat.Overwrite) (chat.Channel, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	channel := chat.Channel{
		ID:          w.nextID(),
		Name:        name,
		ContainerID: containerID,
		Overwrites:  append([]chat.Overwrite(nil), overwrites...),
	}
	w.channels[channel.ID] = channel
	return channel, nil
}

func (w *Workspace) DeleteChannel(_ context.Context, channelID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.channels[channelID]; !ok {
		return fmt.Errorf("channel %d does not exist", channelID)
	}
	delete(w.channels, channelID)
	delete(w.messages, channelID)
	w.deletedChannels = append(w.deletedChannels, channelID)
	return nil
}

func (w *Workspace) Channel(_ context.Context, channelID int64) (chat.Channel, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	channel, ok := w.channels[channelID]
	return channel, ok, nil
}

func (w *Workspace) SetChannelOverwrites(_ context.Context, channelID int64, overwrites []chat.Overwrite) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	channel, ok := w.channels[channelID]
	if !ok {
		return fmt.Errorf("channel %d does not exist", channelID)
	}
	channel.Overwrites = append([]chat.Overwrite(nil), overwrites...)
	w.channels[channelID] = channel
	return nil
}

func (w *Workspace) UpdateChannelOverwrite(_ context.Context, channelID int64, overwrite chat.Overwrite) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	channel, ok := w.channels[channelID]
	if !ok {
		return fmt.Errorf("channel %d does not exist", channelID)
	}
	replaced := false
	for i := range channel.Overwrites {
		if channel.Overwrites[i].Principal == overwrite.Principal {
			channel.Overwrites[i] = overwrite
			replaced = true
			break
		}
	}
	if !replaced {
		channel.Overwrites = append(channel.Overwrites, overwrite)
	}
	w.channels[channelID] = channel
	return nil
}

func (w *Workspace) SendMessage(_ context.Context, channelID int64, msg chat.Outgoing) (chat.Message, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err, ok := w.sendFailures[channelID]; ok {
		return chat.Message{}, err
	}
	if _, ok := w.channels[channelID]; !ok {
		return chat.Message{}, fmt.Errorf("channel %d does not exist", channelID)
	}

	message := chat.Message{
		ID:          w.nextID(),
		ChannelID:   channelID,
		AuthorID:    w.BotUserID,
		Content:     msg.Content,
		BotAuthored: true,
		Timestamp:   w.now(),
	}
	if msg.File != nil {
		message.Attachments = []string{msg.File.Name}
	}
	w.messages[channelID] = append(w.messages[channelID], message)
	return message, nil
}

func (w *Workspace) EditMessage(_ context.Context, channelID, messageID int64, content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err, ok := w.editFailures[channelID]; ok {
		return err
	}
	for i, message := range w.messages[channelID] {
		if message.ID == messageID {
			w.messages[channelID][i].Content = content
			return nil
		}
	}
	return fmt.Errorf("message %d does not exist in channel %d", messageID, channelID)
}

func (w *Workspace) DeleteMessage(_ context.Context, channelID, messageID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	messages := w.messages[channelID]
	for i, message := range messages {
		if message.ID == messageID {
			w.messages[channelID] = append(messages[:i:i], messages[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("message %d does not exist in channel %d", messageID, channelID)
}

func (w *Workspace) ListRecentMessages(_ context.Context, channelID int64, limit int) ([]chat.Message, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	messages := w.messages[channelID]
	out := make([]chat.Message, 0, limit)
	for i := len(messages) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, messages[i])
	}
	return out, nil
}

func (w *Workspace) Member(_ context.Context, memberID int64) (chat.Member, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	member, ok := w.members[memberID]
	if !ok {
		return chat.Member{}, false, nil
	}
	out := *member
	out.GroupIDs = append([]int64(nil), member.GroupIDs...)
	return out, true, nil
}

func (w *Workspace) MemberHasGroup(_ context.Context, memberID, groupID int64) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	member, ok := w.members[memberID]
	if !ok {
		return false, nil
	}
	for _, held := range member.GroupIDs {
		if held == groupID {
			return true, nil
		}
	}
	return false, nil
}

func (w *Workspace) AddMemberToGroup(_ context.Context, memberID, groupID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	member, ok := w.members[memberID]
	if !ok {
		return fmt.Errorf("member %d does not exist", memberID)
	}
	for _, held := range member.GroupIDs {
		if held == groupID {
			return nil
		}
	}
	member.GroupIDs = append(member.GroupIDs, groupID)
	return nil
}

func (w *Workspace) SubscribeMessages(handler chat.MessageHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messageHandlers = append(w.messageHandlers, handler)
}

func (w *Workspace) SubscribeChannelDeleted(handler chat.ChannelDeletedHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.deleteHandlers = append(w.deleteHandlers, handler)
}
