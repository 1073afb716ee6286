// Package store persists channel messages in SQLite and tracks the last
// processed message ID so the bot can pick up where it left off after a
// restart. Messages are append-only: once stored they are never updated or
// deleted.
package store

import "time"

// Message is a stored row from the messages table.
type Message struct {
	// ID is the platform-assigned message identifier (globally unique).
	ID string

	// AuthorID is the platform identifier of the author.
	AuthorID string

	// AuthorName is the author's display name at ingest time.
	AuthorName string

	// Content is the combined human-readable content (text, embeds,
	// components, attachments) assembled at ingest time.
	Content string

	// Timestamp is when the message was sent, normalized to UTC.
	Timestamp time.Time

	// ChannelID is the source channel.
	ChannelID string
}

// Inbound is a platform-neutral view of an incoming message event. The
// Discord layer converts gateway payloads into this shape so the store never
// touches platform types.
type Inbound struct {
	ID         string
	AuthorID   string
	AuthorName string
	Text       string
	Timestamp  time.Time
	ChannelID  string

	Embeds      []Embed
	Components  []Component
	Attachments []Attachment
}

// Embed carries the text-bearing fields of a rich embed.
type Embed struct {
	Title       string
	Description string
	Fields      []EmbedField
	URL         string
	Footer      string
}

// EmbedField is a name/value pair inside an embed.
type EmbedField struct {
	Name  string
	Value string
}

// Component is an interactive message component. Components nest: action
// rows, sections, and containers carry children, leaf components carry
// label/value/placeholder/content.
type Component struct {
	Content     string
	Label       string
	Value       string
	Placeholder string
	Children    []Component
}

// Attachment is a file attached to a message.
type Attachment struct {
	Filename string
	URL      string
}

// AuthorCount is one entry of a per-author message tally.
type AuthorCount struct {
	Name  string
	Count int
}
