package chat

import (
	"context"
	"time"
)

// EveryonePrincipal is the workspace default principal in overwrite sets.
const EveryonePrincipal int64 = 0

// Overwrite grants or denies channel visibility to one principal (a
// permission group, or the workspace default when Principal is
// EveryonePrincipal).
type Overwrite struct {
	Principal int64
	Read      bool
	Send      bool
}

type Container struct {
	ID         int64
	Name       string
	Overwrites []Overwrite
}

type Group struct {
	ID          int64
	Name        string
	Mentionable bool
}

type Channel struct {
	ID          int64
	Name        string
	ContainerID int64
	Overwrites  []Overwrite
}

type Member struct {
	ID       int64
	Name     string
	GroupIDs []int64
}

type File struct {
	Name string
	Data []byte
}

// Outgoing is a message to post. RenderedText carries the flattened template
// body; File attaches an exported document.
type Outgoing struct {
	Content string
	File    *File
}

type Message struct {
	ID          int64
	ChannelID   int64
	AuthorID    int64
	AuthorName  string
	AuthorNick  string
	AvatarURL   string
	Content     string
	Attachments []string
	BotAuthored bool
	Timestamp   time.Time
}

// Adapter is the chat-platform surface the provisioning engine consumes. The
// transport behind it (gateway, REST, fake) is not part of the core.
type Adapter interface {
	CreateContainer(ctx context.Context, name string, overwrites []Overwrite) (Container, error)
	DeleteContainer(ctx context.Context, containerID int64) error

	CreateGroup(ctx context.Context, name string, mentionable bool) (Group, error)
	DeleteGroup(ctx context.Context, groupID int64) error

	CreateChannel(ctx context.Context, name string, containerID int64, overwrites []Overwrite) (Channel, error)
	DeleteChannel(ctx context.Context, channelID int64) error
	Channel(ctx context.Context, channelID int64) (Channel, bool, error)
	SetChannelOverwrites(ctx context.Context, channelID int64, overwrites []Overwrite) error
	UpdateChannelOverwrite(ctx context.Context, channelID int64, overwrite Overwrite) error

	SendMessage(ctx context.Context, channelID int64, msg Outgoing) (Message, error)
	EditMessage(ctx context.Context, channelID, messageID int64, content string) error
	DeleteMessage(ctx context.Context, channelID, messageID int64) error
	ListRecentMessages(ctx context.Context, channelID int64, limit int) ([]Message, error)

	Member(ctx context.Context, memberID int64) (Member, bool, error)
	MemberHasGroup(ctx context.Context, memberID, groupID int64) (bool, error)
	AddMemberToGroup(ctx context.Context, memberID, groupID int64) error
}
