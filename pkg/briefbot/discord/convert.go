// Package discord - convert.go maps discordgo gateway payloads onto the
// store's platform-neutral message model so nothing downstream depends on
// discordgo types.
package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/nkoski/briefbot/pkg/briefbot/store"
)

// convertMessage converts a gateway message into the store's inbound shape.
func convertMessage(m *discordgo.Message) *store.Inbound {
	in := &store.Inbound{
		ID:         m.ID,
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		Text:       m.Content,
		Timestamp:  m.Timestamp,
		ChannelID:  m.ChannelID,
	}

	for _, e := range m.Embeds {
		in.Embeds = append(in.Embeds, convertEmbed(e))
	}
	for _, c := range m.Components {
		in.Components = append(in.Components, convertComponent(c))
	}
	for _, a := range m.Attachments {
		in.Attachments = append(in.Attachments, store.Attachment{
			Filename: a.Filename,
			URL:      a.URL,
		})
	}

	return in
}

// convertEmbed extracts the text-bearing embed fields.
func convertEmbed(e *discordgo.MessageEmbed) store.Embed {
	out := store.Embed{
		Title:       e.Title,
		Description: e.Description,
		URL:         e.URL,
	}
	for _, f := range e.Fields {
		if f == nil {
			continue
		}
		out.Fields = append(out.Fields, store.EmbedField{Name: f.Name, Value: f.Value})
	}
	if e.Footer != nil {
		out.Footer = e.Footer.Text
	}
	return out
}

// convertComponent maps one message component, descending into containers.
// Unknown component kinds (media galleries, separators, files) convert to an
// empty component and contribute nothing to the stored content.
func convertComponent(c discordgo.MessageComponent) store.Component {
	switch v := c.(type) {
	case *discordgo.ActionsRow:
		return store.Component{Children: convertChildren(v.Components)}
	case discordgo.ActionsRow:
		return store.Component{Children: convertChildren(v.Components)}
	case *discordgo.Container:
		return store.Component{Children: convertChildren(v.Components)}
	case discordgo.Container:
		return store.Component{Children: convertChildren(v.Components)}
	case *discordgo.Section:
		return store.Component{Children: convertChildren(v.Components)}
	case discordgo.Section:
		return store.Component{Children: convertChildren(v.Components)}
	case *discordgo.TextDisplay:
		return store.Component{Content: v.Content}
	case discordgo.TextDisplay:
		return store.Component{Content: v.Content}
	case *discordgo.Button:
		return store.Component{Label: v.Label}
	case discordgo.Button:
		return store.Component{Label: v.Label}
	case *discordgo.SelectMenu:
		return store.Component{Placeholder: v.Placeholder}
	case discordgo.SelectMenu:
		return store.Component{Placeholder: v.Placeholder}
	case *discordgo.TextInput:
		return store.Component{Label: v.Label, Value: v.Value, Placeholder: v.Placeholder}
	case discordgo.TextInput:
		return store.Component{Label: v.Label, Value: v.Value, Placeholder: v.Placeholder}
	default:
		return store.Component{}
	}
}

// convertChildren maps a component list.
func convertChildren(components []discordgo.MessageComponent) []store.Component {
	out := make([]store.Component, 0, len(components))
	for _, c := range components {
		out = append(out, convertComponent(c))
	}
	return out
}
