package discord

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/nkoski/briefbot/pkg/briefbot/store"
)

func TestConvertMessageBasics(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := &discordgo.Message{
		ID:        "msg-1",
		ChannelID: "chan-1",
		Content:   "hello",
		Timestamp: ts,
		Author:    &discordgo.User{ID: "u1", Username: "alice"},
	}

	in := convertMessage(m)
	if in.ID != "msg-1" || in.AuthorID != "u1" || in.AuthorName != "alice" ||
		in.Text != "hello" || in.ChannelID != "chan-1" || !in.Timestamp.Equal(ts) {
		t.Errorf("Converted message mismatch: %+v", in)
	}
}

func TestConvertEmbedFields(t *testing.T) {
	m := &discordgo.Message{
		Author: &discordgo.User{},
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Title",
			Description: "Desc",
			URL:         "https://example.com",
			Fields: []*discordgo.MessageEmbedField{
				{Name: "N", Value: "V"},
			},
			Footer: &discordgo.MessageEmbedFooter{Text: "Footer"},
		}},
	}

	in := convertMessage(m)
	if len(in.Embeds) != 1 {
		t.Fatalf("Expected 1 embed, got %d", len(in.Embeds))
	}
	e := in.Embeds[0]
	if e.Title != "Title" || e.Description != "Desc" || e.URL != "https://example.com" || e.Footer != "Footer" {
		t.Errorf("Embed mismatch: %+v", e)
	}
	if len(e.Fields) != 1 || e.Fields[0] != (store.EmbedField{Name: "N", Value: "V"}) {
		t.Errorf("Embed fields mismatch: %+v", e.Fields)
	}
}

func TestConvertNestedComponents(t *testing.T) {
	m := &discordgo.Message{
		Author: &discordgo.User{},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Label: "Read more"},
					discordgo.SelectMenu{Placeholder: "Pick a topic"},
				},
			},
			discordgo.TextDisplay{Content: "Inline text"},
		},
	}

	in := convertMessage(m)
	if len(in.Components) != 2 {
		t.Fatalf("Expected 2 top-level components, got %d", len(in.Components))
	}

	row := in.Components[0]
	if len(row.Children) != 2 {
		t.Fatalf("Expected 2 children in actions row, got %d", len(row.Children))
	}
	if row.Children[0].Label != "Read more" {
		t.Errorf("Expected button label, got %+v", row.Children[0])
	}
	if row.Children[1].Placeholder != "Pick a topic" {
		t.Errorf("Expected select placeholder, got %+v", row.Children[1])
	}
	if in.Components[1].Content != "Inline text" {
		t.Errorf("Expected text display content, got %+v", in.Components[1])
	}

	// End to end through content assembly: fragments in traversal order.
	got := store.BuildContent(in)
	want := "Components: [Read more]\n\n(Pick a topic)\n\nInline text"
	if got != want {
		t.Errorf("Flattened content mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestConvertAttachments(t *testing.T) {
	m := &discordgo.Message{
		Author: &discordgo.User{},
		Attachments: []*discordgo.MessageAttachment{
			{Filename: "notes.txt", URL: "https://cdn.example.com/notes.txt"},
		},
	}

	in := convertMessage(m)
	if len(in.Attachments) != 1 {
		t.Fatalf("Expected 1 attachment, got %d", len(in.Attachments))
	}
	if in.Attachments[0].Filename != "notes.txt" || in.Attachments[0].URL != "https://cdn.example.com/notes.txt" {
		t.Errorf("Attachment mismatch: %+v", in.Attachments[0])
	}
}

func TestIsTextChannel(t *testing.T) {
	if !isTextChannel(discordgo.ChannelTypeGuildText) {
		t.Error("Guild text channels accept text")
	}
	if !isTextChannel(discordgo.ChannelTypeDM) {
		t.Error("DM channels accept text")
	}
	if isTextChannel(discordgo.ChannelTypeGuildVoice) {
		t.Error("Voice channels must not be text-capable")
	}
	if isTextChannel(discordgo.ChannelTypeGuildCategory) {
		t.Error("Categories must not be text-capable")
	}
}
