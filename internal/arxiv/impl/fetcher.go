package impl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/bakkerme/arxiv-bot/internal/arxiv"
	"github.com/bakkerme/arxiv-bot/internal/config"
	"github.com/bakkerme/arxiv-bot/internal/retry"
)

// Fetcher talks to the arXiv Atom API and downloads PDFs. The API responds
// with an Atom feed, so the metadata path reuses the feed parser.
type Fetcher struct {
	apiBaseURL  string
	pdfBaseURL  string
	downloadDir string
	userAgent   string
	client      *http.Client
	parser      *gofeed.Parser
}

func NewFetcher(cfg config.ArXivEnvConfig) *Fetcher {
	client := &http.Client{Timeout: cfg.HTTPTimeout}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = cfg.UserAgent
	return &Fetcher{
		apiBaseURL:  strings.TrimRight(cfg.APIBaseURL, "/"),
		pdfBaseURL:  strings.TrimRight(cfg.PDFBaseURL, "/"),
		downloadDir: cfg.DownloadDir,
		userAgent:   cfg.UserAgent,
		client:      client,
		parser:      parser,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, id string) (arxiv.Paper, error) {
	tracer := otel.Tracer("arxiv-bot/arxiv")
	ctx, span := tracer.Start(ctx, "arxiv.fetch")
	span.SetAttributes(attribute.String("arxiv.id", id))
	defer span.End()

	queryURL := fmt.Sprintf("%s?id_list=%s&max_results=1", f.apiBaseURL, url.QueryEscape(id))

	var feed *gofeed.Feed
	err := retry.Do(ctx, retry.Config{
		Attempts:  3,
		BaseDelay: 200 * time.Millisecond,
		Permanent: arxiv.IsNotFound,
	}, func() error {
		parsed, err := f.parser.ParseURLWithContext(queryURL, ctx)
		if err != nil {
			return classify("fetch", err)
		}
		feed = parsed
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return arxiv.Paper{}, err
	}

	paper, err := f.paperFromFeed(id, feed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return arxiv.Paper{}, err
	}
	span.SetStatus(codes.Ok, "")
	return paper, nil
}

func (f *Fetcher) paperFromFeed(id string, feed *gofeed.Feed) (arxiv.Paper, error) {
	if feed == nil || len(feed.Items) == 0 {
		return arxiv.Paper{}, arxiv.ErrNotFound
	}
	entry := feed.Items[0]
	// The API answers malformed ids with HTTP 200 and a single entry titled
	// "Error"; unknown-but-well-formed ids come back with no real id link.
	if strings.EqualFold(strings.TrimSpace(entry.Title), "error") ||
		!strings.Contains(entry.Link, "/abs/") {
		return arxiv.Paper{}, arxiv.ErrNotFound
	}

	paper := arxiv.Paper{
		ID:      id,
		Title:   collapseWhitespace(entry.Title),
		Summary: collapseWhitespace(entry.Description),
		PDFURL:  fmt.Sprintf("%s/%s", f.pdfBaseURL, id),
	}
	for _, author := range entry.Authors {
		if author == nil {
			continue
		}
		if name := strings.TrimSpace(author.Name); name != "" {
			paper.Authors = append(paper.Authors, name)
		}
	}
	return paper, nil
}

func (f *Fetcher) Download(ctx context.Context, paper arxiv.Paper) (string, error) {
	tracer := otel.Tracer("arxiv-bot/arxiv")
	ctx, span := tracer.Start(ctx, "arxiv.download")
	span.SetAttributes(
		attribute.String("arxiv.id", paper.ID),
		attribute.String("arxiv.pdf_url", paper.PDFURL),
	)
	defer span.End()

	path, err := f.download(ctx, paper)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetStatus(codes.Ok, "")
	return path, nil
}

func (f *Fetcher) download(ctx context.Context, paper arxiv.Paper) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, paper.PDFURL, nil)
	if err != nil {
		return "", &arxiv.UpstreamError{Op: "download", Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", classify("download", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", arxiv.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", &arxiv.UpstreamError{Op: "download", Status: resp.StatusCode}
	}

	file, err := os.CreateTemp(f.downloadDir, "arxiv-"+sanitizeID(paper.ID)+"-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create download file: %w", err)
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", classify("download", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("close download file: %w", err)
	}
	return file.Name(), nil
}

// classify maps transport failures onto the fetch error taxonomy.
func classify(op string, err error) error {
	if arxiv.IsNotFound(err) || arxiv.IsNetwork(err) || arxiv.IsUpstream(err) {
		return err
	}
	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusNotFound {
			return arxiv.ErrNotFound
		}
		return &arxiv.UpstreamError{Op: op, Status: httpErr.StatusCode, Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &arxiv.NetworkError{Op: op, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &arxiv.NetworkError{Op: op, Err: err}
	}
	return &arxiv.UpstreamError{Op: op, Err: err}
}

func sanitizeID(id string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(id)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
