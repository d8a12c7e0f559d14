package discord

// Embed colours
const (
	ColorTrade = 0x2ECC71
)

// Announcement text
const (
	TitleMarketTrade = "Market trade"
	FooterText       = "guildledger market"
)

// Error messages
const (
	ErrMsgInvalidWebhookURL = "invalid discord webhook url"
	ErrMsgSessionFailed     = "failed to create discord session: %w"
	ErrMsgExecuteFailed     = "failed to execute discord webhook: %w"
)

// Log messages
const (
	LogMsgAnnouncerReady      = "Discord announcer subscribed"
	LogMsgAnnouncementQueued  = "Discord announcement queued"
	LogMsgAnnouncementSent    = "Discord announcement sent"
	LogMsgAnnouncementDropped = "Discord announcement dropped"
	LogMsgUnexpectedPayload   = "Unexpected listing payload for discord announcement"
)
