// Package arxiv defines the paper model, the fetcher contract and the
// identifier extraction used to spot arXiv links in chat messages.
package arxiv

import "context"

// Paper holds the metadata needed to build one notification. It has no
// identity beyond its arXiv identifier and is never persisted.
type Paper struct {
	ID      string
	Title   string
	Authors []string
	Summary string
	PDFURL  string
}

// Fetcher resolves an identifier to paper metadata and downloads the PDF.
type Fetcher interface {
	// Fetch queries the arXiv metadata API for id. Unknown identifiers yield
	// ErrNotFound; transport and server failures yield *NetworkError and
	// *UpstreamError respectively.
	Fetch(ctx context.Context, id string) (Paper, error)
	// Download retrieves the paper's PDF to a uniquely named local file and
	// returns its path. The file is transient; the sweeper or the OS cleans
	// it up eventually.
	Download(ctx context.Context, paper Paper) (string, error)
}
