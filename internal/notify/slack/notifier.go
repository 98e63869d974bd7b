package slack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	slackgo "github.com/slack-go/slack"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bakkerme/arxiv-bot/internal/arxiv"
	"github.com/bakkerme/arxiv-bot/internal/notify"
)

const summaryHeader = "Arxiv Preprint Information"

// Notifier posts summaries and uploads PDFs through the Slack Web API.
type Notifier struct {
	api *slackgo.Client
}

func NewNotifier(botToken string, opts ...slackgo.Option) *Notifier {
	return &Notifier{api: slackgo.New(botToken, opts...)}
}

func (n *Notifier) PostPaper(ctx context.Context, channel string, paper arxiv.Paper) error {
	ctx, span := span(ctx, "notify.post_paper", channel)
	defer span.End()

	blocks := []slackgo.Block{
		slackgo.NewHeaderBlock(slackgo.NewTextBlockObject(slackgo.PlainTextType, summaryHeader, false, false)),
		slackgo.NewSectionBlock(slackgo.NewTextBlockObject(slackgo.MarkdownType, formatPaper(paper), false, false), nil, nil),
	}
	_, _, err := n.api.PostMessageContext(ctx, channel, slackgo.MsgOptionBlocks(blocks...))
	return finish(span, "post message", err)
}

func (n *Notifier) UploadFile(ctx context.Context, channel, path, title string) error {
	ctx, span := span(ctx, "notify.upload_file", channel)
	defer span.End()

	info, err := os.Stat(path)
	if err != nil {
		return finish(span, "upload file", err)
	}
	_, err = n.api.UploadFileV2Context(ctx, slackgo.UploadFileV2Parameters{
		Channel:  channel,
		File:     path,
		FileSize: int(info.Size()),
		Filename: filepath.Base(path),
		Title:    title,
	})
	return finish(span, "upload file", err)
}

func (n *Notifier) PostText(ctx context.Context, channel, text string) error {
	ctx, span := span(ctx, "notify.post_text", channel)
	defer span.End()

	_, _, err := n.api.PostMessageContext(ctx, channel, slackgo.MsgOptionText(text, false))
	return finish(span, "post message", err)
}

// formatPaper renders the mrkdwn body of a paper summary.
func formatPaper(paper arxiv.Paper) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":page_with_curl: *%s*\n\n", paper.Title)
	if len(paper.Authors) > 0 {
		fmt.Fprintf(&b, ":pencil2: _%s_\n\n", strings.Join(paper.Authors, ", "))
	}
	fmt.Fprintf(&b, ":paperclip: %s", paper.Summary)
	return b.String()
}

func span(ctx context.Context, name, channel string) (context.Context, trace.Span) {
	tracer := otel.Tracer("arxiv-bot/notify/slack")
	ctx, s := tracer.Start(ctx, name)
	s.SetAttributes(attribute.String("chat.channel", channel))
	return ctx, s
}

func finish(s trace.Span, op string, err error) error {
	if err != nil {
		s.RecordError(err)
		s.SetStatus(codes.Error, err.Error())
		return &notify.Error{Op: op, Err: err}
	}
	s.SetStatus(codes.Ok, "")
	return nil
}
