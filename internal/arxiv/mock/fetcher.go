package mock

import (
	"context"

	"github.com/bakkerme/arxiv-bot/internal/arxiv"
)

// Fetcher is a scripted stand-in for the arXiv client.
type Fetcher struct {
	Papers        map[string]arxiv.Paper
	FetchErr      error
	DownloadErr   error
	DownloadPath  string
	FetchCalls    []string
	DownloadCalls []string

	// BeforeFetch, when set, runs at the start of every Fetch call. Tests use
	// it to hold concurrent events inside the fetching stage.
	BeforeFetch func(id string)
}

func (f *Fetcher) Fetch(ctx context.Context, id string) (arxiv.Paper, error) {
	_ = ctx
	if f.BeforeFetch != nil {
		f.BeforeFetch(id)
	}
	f.FetchCalls = append(f.FetchCalls, id)
	if f.FetchErr != nil {
		return arxiv.Paper{}, f.FetchErr
	}
	paper, ok := f.Papers[id]
	if !ok {
		return arxiv.Paper{}, arxiv.ErrNotFound
	}
	return paper, nil
}

func (f *Fetcher) Download(ctx context.Context, paper arxiv.Paper) (string, error) {
	_ = ctx
	f.DownloadCalls = append(f.DownloadCalls, paper.ID)
	if f.DownloadErr != nil {
		return "", f.DownloadErr
	}
	if f.DownloadPath != "" {
		return f.DownloadPath, nil
	}
	return "/tmp/arxiv-" + paper.ID + ".pdf", nil
}
