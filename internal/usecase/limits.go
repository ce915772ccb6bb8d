package usecase

// Platform limits and pipeline tuning shared across services.
const (
	// MessageRuneLimit is the maximum length of one chat message.
	MessageRuneLimit = 2000
	// ChannelNameRuneLimit is the maximum length of a channel name.
	ChannelNameRuneLimit = 100
	// TeamNameRuneLimit caps team display names when composing resource names.
	TeamNameRuneLimit = 20
	// deletedNamesWindow is how many recently deleted resource names teardown
	// progress shows at once.
	deletedNamesWindow = 10
	// launchpadLookback bounds how many prior messages the launchpad purge
	// inspects.
	launchpadLookback = 100
)
