// Package summary turns the trailing 24-hour message window into a single
// deliverable summary string. Generation strategies are tried in order:
// LLM summary (with a bounded retry when the result is over-length), then a
// deterministic per-author count fallback. Every path routes through
// Truncate, so the returned string always fits the platform message limit.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nkoski/briefbot/pkg/briefbot/schedule"
	"github.com/nkoski/briefbot/pkg/briefbot/store"
)

// maxAttempts is how many times the LLM is asked before giving up on getting
// an in-limit response. The prompt already demands brevity, so attempts are
// identical; an over-length result on the last attempt is truncated instead.
const maxAttempts = 2

const (
	summaryHeader = "**Daily Channel Summary**\n*Summary period: Last 24 hours*\n"

	emptyWindowNotice = "No messages to summarize from the last 24 hours."

	fallbackNotice = "*This is a placeholder summary. LLM summarization is not currently available.*"

	systemPrompt = "You are a helpful assistant that summarizes Discord channel conversations."
)

// promptTemplate wraps the formatted transcript. It states the length
// ceiling twice because models follow instructions placed near the end more
// reliably.
const promptTemplate = `Act as a professional news editor. The following are news articles and updates shared in a Discord news channel over the last 24 hours. Create a concise news summary in the style of a professional news briefing.

IMPORTANT: Your response MUST be %d characters or less to fit within Discord's message limits. Be concise and prioritize the most important information.

News Articles and Updates:
%s

Please provide a short news summary (2-4 paragraphs) in a professional journalistic style. Focus on the most newsworthy items, key developments, and important information. Write in a neutral, objective tone suitable for a news publication. Include the most significant stories first. Identify the links to the source articles and add those to the message.

REMEMBER: Your entire response must be <=%d characters. If the content is too long, focus only on the top 2-3 most important stories.`

// Generator produces daily summaries from the message store.
type Generator struct {
	store    *store.Store
	llm      TextGenerator // nil when text generation is unavailable
	spec     schedule.Spec
	timezone *time.Location
	logger   *slog.Logger
}

// NewGenerator creates a Generator. llm may be nil, in which case every run
// uses the count-based fallback. Timestamps in the prompt are rendered in
// the schedule's timezone.
func NewGenerator(st *store.Store, llm TextGenerator, spec schedule.Spec, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		store:    st,
		llm:      llm,
		spec:     spec,
		timezone: spec.Location,
		logger:   logger.With("component", "summary"),
	}
}

// Generate produces the daily summary for the trailing 24-hour window. The
// returned string is always deliverable (never exceeds MaxMessageLength).
// The error reports a text-generation fault when one occurred; the string is
// still valid in that case (the fallback summary), so scheduled runs just
// log the error while the manual trigger can surface it.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	window := g.store.Last24h()
	if len(window) == 0 {
		return emptyWindowNotice, nil
	}

	var genErr error
	if g.llm != nil {
		text, err := g.tryLLM(ctx, window)
		if err == nil {
			return text, nil
		}
		genErr = err
		g.logger.Warn("LLM summary failed, using fallback", "error", err)
	}

	return g.fallback(window), genErr
}

// tryLLM formats the window and asks the model for a summary, retrying once
// when the result is over-length. A call fault is returned immediately
// without a second attempt; only an over-length success is retried. If every
// attempt comes back too long, the shortest result is truncated.
func (g *Generator) tryLLM(ctx context.Context, window []store.Message) (string, error) {
	prompt := g.buildPrompt(window)

	var best string
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := g.llm.Complete(ctx, systemPrompt, prompt)
		if err != nil {
			return "", fmt.Errorf("summary: generation attempt %d: %w", attempt, err)
		}

		candidate := summaryHeader + "\n" + text
		if len(candidate) <= MaxMessageLength {
			return candidate, nil
		}

		g.logger.Warn("LLM summary over length limit",
			"attempt", attempt,
			"length", len(candidate),
			"limit", MaxMessageLength,
		)
		if best == "" || len(candidate) < len(best) {
			best = candidate
		}
	}

	return Truncate(best), nil
}

// buildPrompt renders the window as a chronological transcript, one line per
// message, wrapped in the instruction template.
func (g *Generator) buildPrompt(window []store.Message) string {
	lines := make([]string, 0, len(window))
	for _, m := range window {
		ts := m.Timestamp.In(g.timezone).Format("15:04")
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", ts, m.AuthorName, m.Content))
	}
	transcript := strings.Join(lines, "\n")
	return fmt.Sprintf(promptTemplate, MaxMessageLength, transcript, MaxMessageLength)
}

// fallback builds the deterministic per-author activity summary used when
// text generation is unavailable or faulted.
func (g *Generator) fallback(window []store.Message) string {
	since := time.Now().Add(-24 * time.Hour)
	counts := g.store.CountByAuthor(&since)

	lines := []string{
		summaryHeader,
		"**Message activity by user:**",
	}
	for _, ac := range counts {
		lines = append(lines, fmt.Sprintf("• %s: %d messages", ac.Name, ac.Count))
	}
	lines = append(lines, "", fallbackNotice)

	return Truncate(strings.Join(lines, "\n"))
}

// NextRun returns the next scheduled summary instant, so callers can report
// "when does the next run fire" without reparsing configuration.
func (g *Generator) NextRun(now time.Time) time.Time {
	return g.spec.Next(now)
}
