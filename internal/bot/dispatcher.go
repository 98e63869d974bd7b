// Package bot routes inbound chat events: arXiv links become paper
// notifications, app mentions become LLM replies.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bakkerme/arxiv-bot/internal/arxiv"
	"github.com/bakkerme/arxiv-bot/internal/core"
	"github.com/bakkerme/arxiv-bot/internal/dedupe"
	"github.com/bakkerme/arxiv-bot/internal/llm"
	"github.com/bakkerme/arxiv-bot/internal/notify"
	"github.com/bakkerme/arxiv-bot/internal/policy"
)

const (
	defaultCallTimeout = 30 * time.Second

	greetingText = "Hi! Drop an arxiv.org link in the channel and I'll post the paper's summary and PDF."
	apologyText  = "Sorry, I couldn't come up with a reply just now. Please try again."

	llmSystemPrompt = "You are a helpful research assistant in a team chat. Answer concisely."
)

var mentionMarker = regexp.MustCompile(`<@[A-Z0-9]+>`)

type Config struct {
	// CallTimeout bounds every outbound call (fetch, download, post, LLM).
	CallTimeout time.Duration
	Model       string
	Temperature float64
}

type Dispatcher struct {
	cfg      Config
	filter   *policy.Filter
	history  *dedupe.History
	fetcher  arxiv.Fetcher
	notifier notify.Notifier
	llm      llm.Client // nil when no API key is configured
}

func NewDispatcher(cfg Config, filter *policy.Filter, history *dedupe.History, fetcher arxiv.Fetcher, notifier notify.Notifier, llmClient llm.Client) *Dispatcher {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultCallTimeout
	}
	return &Dispatcher{
		cfg:      cfg,
		filter:   filter,
		history:  history,
		fetcher:  fetcher,
		notifier: notifier,
		llm:      llmClient,
	}
}

// HandleMessage runs one message event to a terminal state. Failures are
// reported into the originating channel and never propagate; handling of
// other events is unaffected.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg Message) Outcome {
	ctx = core.WithEventID(ctx, msg.EventID)
	ctx = core.WithChannel(ctx, msg.Channel)
	logger := core.LoggerFromContext(ctx).With("event_id", msg.EventID, "channel", msg.Channel)

	tracer := otel.Tracer("arxiv-bot/bot")
	ctx, span := tracer.Start(ctx, "bot.handle_message")
	span.SetAttributes(
		attribute.String("event.id", msg.EventID),
		attribute.String("chat.channel", msg.Channel),
	)
	defer span.End()

	outcome := d.handleMessage(ctx, logger, msg)
	span.SetAttributes(attribute.String("bot.outcome", string(outcome)))
	return outcome
}

func (d *Dispatcher) handleMessage(ctx context.Context, logger *slog.Logger, msg Message) Outcome {
	// Bot-authored events are dropped before extraction so the bot never
	// reacts to its own posts.
	if msg.BotID != "" {
		return OutcomeIgnored
	}
	if !d.filter.Allow(msg.Text) {
		return OutcomeIgnored
	}

	id, ok := arxiv.ExtractID(msg.Text)
	if !ok {
		// The common case; not a failure, not worth logging.
		return OutcomeIgnored
	}

	// Record is the atomic claim: of any number of concurrent events carrying
	// the same id, exactly one proceeds. Failed attempts release the claim
	// below so a later retry can notify.
	if !d.history.Record(id) {
		logger.Info("already notified, suppressing", "arxiv_id", id)
		return OutcomeSuppressed
	}

	paper, err := d.fetchPaper(ctx, id)
	if err != nil {
		d.history.Forget(id)
		logger.Warn("fetch failed", "arxiv_id", id, "error", err)
		d.postText(ctx, msg.Channel, fetchErrorText(id, err))
		return OutcomeFailed
	}

	pdfPath, err := d.downloadPDF(ctx, paper)
	if err != nil {
		d.history.Forget(id)
		logger.Warn("download failed", "arxiv_id", id, "error", err)
		d.postText(ctx, msg.Channel, fetchErrorText(id, err))
		return OutcomeFailed
	}

	if err := d.notifyPaper(ctx, msg.Channel, paper, pdfPath); err != nil {
		d.history.Forget(id)
		logger.Warn("notify failed", "arxiv_id", id, "error", err)
		d.postText(ctx, msg.Channel, fmt.Sprintf("Couldn't post the summary for `%s`: the chat platform rejected it.", id))
		return OutcomeFailed
	}

	logger.Info("paper notified", "arxiv_id", id, "title", paper.Title)
	return OutcomeNotified
}

// HandleMention answers an app mention. Mentions never touch the seen-set.
func (d *Dispatcher) HandleMention(ctx context.Context, mention Mention) Outcome {
	ctx = core.WithEventID(ctx, mention.EventID)
	ctx = core.WithChannel(ctx, mention.Channel)
	logger := core.LoggerFromContext(ctx).With("event_id", mention.EventID, "channel", mention.Channel)

	tracer := otel.Tracer("arxiv-bot/bot")
	ctx, span := tracer.Start(ctx, "bot.handle_mention")
	span.SetAttributes(
		attribute.String("event.id", mention.EventID),
		attribute.String("chat.channel", mention.Channel),
	)
	defer span.End()

	prompt := strings.TrimSpace(mentionMarker.ReplaceAllString(mention.Text, ""))
	if prompt == "" {
		d.postText(ctx, mention.Channel, greetingText)
		return OutcomeNotified
	}

	if d.llm == nil {
		logger.Warn("mention received but no LLM is configured")
		d.postText(ctx, mention.Channel, apologyText)
		return OutcomeFailed
	}

	callCtx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
	defer cancel()
	response, err := d.llm.ChatCompletion(callCtx, llm.ChatRequest{
		Model:       d.cfg.Model,
		Temperature: d.cfg.Temperature,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: llmSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
	})
	if err != nil || strings.TrimSpace(response.Content) == "" {
		logger.Warn("llm call failed", "error", err)
		d.postText(ctx, mention.Channel, apologyText)
		return OutcomeFailed
	}

	d.postText(ctx, mention.Channel, response.Content)
	return OutcomeNotified
}

func (d *Dispatcher) fetchPaper(ctx context.Context, id string) (arxiv.Paper, error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
	defer cancel()
	return d.fetcher.Fetch(ctx, id)
}

func (d *Dispatcher) downloadPDF(ctx context.Context, paper arxiv.Paper) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
	defer cancel()
	return d.fetcher.Download(ctx, paper)
}

func (d *Dispatcher) notifyPaper(ctx context.Context, channel string, paper arxiv.Paper, pdfPath string) error {
	postCtx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
	defer cancel()
	if err := d.notifier.PostPaper(postCtx, channel, paper); err != nil {
		return err
	}
	uploadCtx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
	defer cancel()
	return d.notifier.UploadFile(uploadCtx, channel, pdfPath, paper.ID+".pdf")
}

// postText is best-effort: a failing diagnostic has nowhere else to go.
func (d *Dispatcher) postText(ctx context.Context, channel, text string) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.CallTimeout)
	defer cancel()
	if err := d.notifier.PostText(ctx, channel, text); err != nil {
		core.LoggerFromContext(ctx).Warn("failed to post message", "channel", channel, "error", err)
	}
}

func fetchErrorText(id string, err error) string {
	switch {
	case arxiv.IsNotFound(err):
		return fmt.Sprintf("Couldn't find an arXiv paper for `%s`. Is the link right?", id)
	case arxiv.IsNetwork(err):
		return fmt.Sprintf("Couldn't reach arXiv for `%s` just now. Please try again in a bit.", id)
	default:
		return fmt.Sprintf("arXiv returned an unexpected response for `%s`. Please try again later.", id)
	}
}
