package bot

// Inbound events are decoded from the webhook payload once, at the transport
// boundary, and handed to the dispatcher as plain structs.

// Message is a channel message event.
type Message struct {
	EventID   string
	Channel   string
	User      string
	BotID     string // non-empty when the author is a bot (including us)
	Text      string
	Timestamp string
}

// Mention is an app-mention event addressed to the bot.
type Mention struct {
	EventID   string
	Channel   string
	User      string
	Text      string
	Timestamp string
}

// Outcome is the terminal state of handling one event.
type Outcome string

const (
	// OutcomeIgnored: self-echo, filtered message, or no link found.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeSuppressed: the paper was already notified recently.
	OutcomeSuppressed Outcome = "suppressed"
	// OutcomeNotified: summary posted (and PDF uploaded, for link events).
	OutcomeNotified Outcome = "notified"
	// OutcomeFailed: a fetch/post failed; a diagnostic went to the channel.
	OutcomeFailed Outcome = "failed"
)
