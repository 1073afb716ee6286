// Package dispatch fans the daily summary out to the configured subscriber
// destinations. Content is generated once per run and delivered to every
// destination independently: one destination failing to resolve or send
// never blocks the others.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/nkoski/briefbot/pkg/briefbot/summary"
)

// Target is a resolved delivery destination.
type Target struct {
	// ID is the destination identifier.
	ID string

	// TextCapable reports whether the destination accepts plain text
	// messages. Voice and category channels resolve but cannot receive a
	// summary.
	TextCapable bool
}

// Sender resolves destination identifiers and delivers text to them. The
// Discord layer implements it; tests substitute fakes.
type Sender interface {
	// Resolve looks up a destination by ID.
	Resolve(ctx context.Context, id string) (*Target, error)

	// Send delivers text content to the destination.
	Send(ctx context.Context, id, content string) error
}

// ContentSource produces the summary content for a run. The string is always
// deliverable; the error reports a generation fault that was already
// recovered from (the content is then the fallback summary).
type ContentSource interface {
	Generate(ctx context.Context) (string, error)
}

// Dispatcher runs the generate-once, deliver-many daily protocol.
type Dispatcher struct {
	source       ContentSource
	sender       Sender
	destinations []string
	logger       *slog.Logger
}

// New creates a Dispatcher for the given subscriber destinations.
func New(source ContentSource, sender Sender, destinations []string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		source:       source,
		sender:       sender,
		destinations: destinations,
		logger:       logger.With("component", "dispatch"),
	}
}

// RunDaily generates the summary once and delivers it to every destination,
// returning the per-destination outcome. With no destinations configured the
// run is skipped entirely and an empty map is returned.
func (d *Dispatcher) RunDaily(ctx context.Context) map[string]bool {
	results := make(map[string]bool)

	if len(d.destinations) == 0 {
		d.logger.Info("no subscriber destinations configured, skipping summary delivery")
		return results
	}

	content, genErr := d.source.Generate(ctx)
	if genErr != nil {
		d.logger.Warn("summary generation degraded to fallback", "error", genErr)
	}

	for _, dest := range d.destinations {
		results[dest] = d.deliverOne(ctx, dest, content)
	}

	return results
}

// deliverOne sends content to a single destination. Resolution failures,
// non-text destinations, and send faults all report false without affecting
// other deliveries.
func (d *Dispatcher) deliverOne(ctx context.Context, dest, content string) bool {
	// Delivered content must never exceed the platform message limit.
	content = summary.Truncate(content)

	target, err := d.sender.Resolve(ctx, dest)
	if err != nil {
		d.logger.Error("failed to resolve destination", "destination", dest, "error", err)
		return false
	}
	if !target.TextCapable {
		d.logger.Warn("destination is not a text channel", "destination", dest)
		return false
	}

	if err := d.sender.Send(ctx, dest, content); err != nil {
		d.logger.Error("failed to send summary", "destination", dest, "error", err)
		return false
	}
	return true
}
