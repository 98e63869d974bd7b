// Package notify defines the outbound chat surface. Implementations post
// text, paper summaries and file uploads to a channel; at-most-once behavior
// per paper is the dispatcher's responsibility, not the notifier's.
package notify

import (
	"context"
	"fmt"

	"github.com/bakkerme/arxiv-bot/internal/arxiv"
)

type Notifier interface {
	// PostPaper posts the formatted metadata summary to channel.
	PostPaper(ctx context.Context, channel string, paper arxiv.Paper) error
	// UploadFile attaches the file at path to channel under the given title.
	UploadFile(ctx context.Context, channel, path, title string) error
	// PostText posts a plain text message (greetings, diagnostics, replies).
	PostText(ctx context.Context, channel, text string) error
}

// Error wraps a chat-platform rejection of a post or upload.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("notify: %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
