package mock

import (
	"context"
	"sync"

	"github.com/bakkerme/arxiv-bot/internal/arxiv"
)

type PaperPost struct {
	Channel string
	Paper   arxiv.Paper
}

type Upload struct {
	Channel string
	Path    string
	Title   string
}

type TextPost struct {
	Channel string
	Text    string
}

// Notifier records every outbound call. It is safe for concurrent use so
// dispatcher race tests can assert on call counts.
type Notifier struct {
	mu      sync.Mutex
	Papers  []PaperPost
	Uploads []Upload
	Texts   []TextPost

	PaperErr  error
	UploadErr error
	TextErr   error
}

func (n *Notifier) PostPaper(ctx context.Context, channel string, paper arxiv.Paper) error {
	_ = ctx
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.PaperErr != nil {
		return n.PaperErr
	}
	n.Papers = append(n.Papers, PaperPost{Channel: channel, Paper: paper})
	return nil
}

func (n *Notifier) UploadFile(ctx context.Context, channel, path, title string) error {
	_ = ctx
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.UploadErr != nil {
		return n.UploadErr
	}
	n.Uploads = append(n.Uploads, Upload{Channel: channel, Path: path, Title: title})
	return nil
}

func (n *Notifier) PostText(ctx context.Context, channel, text string) error {
	_ = ctx
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.TextErr != nil {
		return n.TextErr
	}
	n.Texts = append(n.Texts, TextPost{Channel: channel, Text: text})
	return nil
}

func (n *Notifier) PaperCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Papers)
}

func (n *Notifier) UploadCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Uploads)
}

func (n *Notifier) TextCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Texts)
}
