package models

// Embed colors used by replies
const (
	ColorLeaderboard = 0x9b59b6
	ColorHelp        = 0xa29bfe
)

// Embed is a platform-neutral rich message body
type Embed struct {
	Title       string
	Description string
	Color       int
}

// Reply is what the router hands back to the originating front end
type Reply struct {
	Content string
	Embed   *Embed
	// Public replies are posted to the channel instead of answering the author
	Public bool
	// Ephemeral replies are only visible to the invoking user where the platform supports it
	Ephemeral bool
}
