package impl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bakkerme/arxiv-bot/internal/arxiv"
	"github.com/bakkerme/arxiv-bot/internal/config"
)

const atomFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query: search_query=&amp;id_list=2101.00001</title>
  <entry>
    <id>http://arxiv.org/abs/2101.00001v1</id>
    <link href="http://arxiv.org/abs/2101.00001v1" rel="alternate" type="text/html"/>
    <title>An Example
  Paper Title</title>
    <summary>  We study something
  interesting.
</summary>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <published>2021-01-01T00:00:00Z</published>
  </entry>
</feed>`

const atomErrorFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id_format</id>
    <link href="http://arxiv.org/api/errors#incorrect_id_format" rel="alternate" type="text/html"/>
    <title>Error</title>
    <summary>incorrect id format for bogus</summary>
  </entry>
</feed>`

func testFetcher(apiURL, pdfURL, dir string) *Fetcher {
	return NewFetcher(config.ArXivEnvConfig{
		APIBaseURL:  apiURL,
		PDFBaseURL:  pdfURL,
		HTTPTimeout: 2 * time.Second,
		UserAgent:   "arxiv-bot/test",
		DownloadDir: dir,
	})
}

func TestFetchParsesAtomResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id_list"); got != "2101.00001" {
			t.Errorf("id_list = %q, want %q", got, "2101.00001")
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(atomFixture))
	}))
	defer server.Close()

	fetcher := testFetcher(server.URL, "https://arxiv.org/pdf", t.TempDir())
	paper, err := fetcher.Fetch(context.Background(), "2101.00001")
	if err != nil {
		t.Fatalf("Fetch returned %v", err)
	}
	if paper.Title != "An Example Paper Title" {
		t.Errorf("Title = %q", paper.Title)
	}
	if paper.Summary != "We study something interesting." {
		t.Errorf("Summary = %q", paper.Summary)
	}
	if len(paper.Authors) != 2 || paper.Authors[0] != "Ada Lovelace" || paper.Authors[1] != "Alan Turing" {
		t.Errorf("Authors = %v", paper.Authors)
	}
	if paper.PDFURL != "https://arxiv.org/pdf/2101.00001" {
		t.Errorf("PDFURL = %q", paper.PDFURL)
	}
}

func TestFetchUnknownIDIsNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(atomErrorFixture))
	}))
	defer server.Close()

	fetcher := testFetcher(server.URL, "https://arxiv.org/pdf", t.TempDir())
	_, err := fetcher.Fetch(context.Background(), "bogus")
	if !arxiv.IsNotFound(err) {
		t.Fatalf("Fetch returned %v, want ErrNotFound", err)
	}
}

func TestFetchServerErrorIsUpstream(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := testFetcher(server.URL, "https://arxiv.org/pdf", t.TempDir())
	_, err := fetcher.Fetch(context.Background(), "2101.00001")
	if !arxiv.IsUpstream(err) {
		t.Fatalf("Fetch returned %v, want UpstreamError", err)
	}
}

func TestFetchConnectionFailureIsNetwork(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	fetcher := testFetcher(server.URL, "https://arxiv.org/pdf", t.TempDir())
	_, err := fetcher.Fetch(context.Background(), "2101.00001")
	if !arxiv.IsNetwork(err) {
		t.Fatalf("Fetch returned %v, want NetworkError", err)
	}
}

func TestDownloadWritesUniqueFile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer server.Close()

	dir := t.TempDir()
	fetcher := testFetcher("https://export.arxiv.org/api/query", server.URL, dir)
	paper := arxiv.Paper{ID: "2101.00001", PDFURL: server.URL + "/2101.00001"}

	first, err := fetcher.Download(context.Background(), paper)
	if err != nil {
		t.Fatalf("Download returned %v", err)
	}
	second, err := fetcher.Download(context.Background(), paper)
	if err != nil {
		t.Fatalf("Download returned %v", err)
	}
	if first == second {
		t.Fatalf("downloads should land in uniquely named files, both were %q", first)
	}
	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("downloaded content = %q", data)
	}
}

func TestDownloadMissingPDFIsNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := testFetcher("https://export.arxiv.org/api/query", server.URL, t.TempDir())
	_, err := fetcher.Download(context.Background(), arxiv.Paper{ID: "x", PDFURL: server.URL + "/x"})
	if !arxiv.IsNotFound(err) {
		t.Fatalf("Download returned %v, want ErrNotFound", err)
	}
}
