// Package store - content.go assembles the combined message content from the
// four possible sources: plain text, embeds, interactive components, and
// attachments. RSS-style feed messages often arrive with an empty text body
// and all content inside embeds, so every source contributes.
package store

import (
	"fmt"
	"strings"
)

// BuildContent combines the content sources of an inbound message into one
// human-readable block. Sources appear in fixed order (text, embeds,
// components, attachments), separated by blank lines, each omitted when
// empty. Returns "" when the message carries no content at all.
func BuildContent(in *Inbound) string {
	var parts []string

	if strings.TrimSpace(in.Text) != "" {
		parts = append(parts, in.Text)
	}
	if ec := embedContent(in.Embeds); ec != "" {
		parts = append(parts, ec)
	}
	if cc := componentContent(in.Components); cc != "" {
		parts = append(parts, "Components: "+cc)
	}
	if ac := attachmentContent(in.Attachments); ac != "" {
		parts = append(parts, ac)
	}

	return strings.Join(parts, "\n\n")
}

// embedContent renders embeds as readable text: title, description, fields,
// source URL, footer. The footer is skipped when it just repeats the URL.
func embedContent(embeds []Embed) string {
	var parts []string

	for _, e := range embeds {
		if e.Title != "" {
			parts = append(parts, "**"+e.Title+"**")
		}
		if e.Description != "" {
			parts = append(parts, e.Description)
		}
		for _, f := range e.Fields {
			if f.Name != "" && f.Value != "" {
				parts = append(parts, fmt.Sprintf("**%s**: %s", f.Name, f.Value))
			}
		}
		if e.URL != "" {
			parts = append(parts, "Source: "+e.URL)
		}
		if e.Footer != "" && (e.URL == "" || e.Footer != e.URL) {
			parts = append(parts, "_"+e.Footer+"_")
		}
	}

	return strings.Join(parts, "\n")
}

// componentContent flattens interactive components into text fragments.
func componentContent(components []Component) string {
	var parts []string
	for i := range components {
		parts = append(parts, componentFragments(&components[i])...)
	}
	return strings.Join(parts, "\n\n")
}

// componentFragments walks one component depth-first: own content first,
// then children, then the remaining leaf attributes.
func componentFragments(c *Component) []string {
	var parts []string

	if c.Content != "" {
		parts = append(parts, c.Content)
	}
	for i := range c.Children {
		parts = append(parts, componentFragments(&c.Children[i])...)
	}
	if c.Label != "" {
		parts = append(parts, "["+c.Label+"]")
	}
	if c.Value != "" {
		parts = append(parts, c.Value)
	}
	if c.Placeholder != "" {
		parts = append(parts, "("+c.Placeholder+")")
	}

	return parts
}

// attachmentContent renders attachment metadata (filename and URL).
func attachmentContent(attachments []Attachment) string {
	var parts []string
	for _, a := range attachments {
		if a.Filename != "" {
			parts = append(parts, "Attachment: "+a.Filename)
		}
		if a.URL != "" {
			parts = append(parts, "["+a.URL+"]")
		}
	}
	return strings.Join(parts, "\n")
}
