// Package attachments resolves display names for attachment URLs by reading
// the linked page's title.
package attachments

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

type Resolver struct {
	httpClient *http.Client
	log        *zap.Logger
	maxRetries int
}

func NewResolver(timeoutMS, maxRetries int, log *zap.Logger) *Resolver {
	return &Resolver{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		log:        log,
		maxRetries: maxRetries,
	}
}

// ResolveName fetches the URL and suggests a name from the HTML <title>,
// falling back to og:title. The result is a suggestion only; callers keep
// whatever name the user typed if resolution fails.
func (r *Resolver) ResolveName(ctx context.Context, url string) (string, error) {
	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("Accept", "text/html")

		resp, err := r.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 250 * time.Millisecond)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
			time.Sleep(time.Duration(attempt+1) * 250 * time.Millisecond)
			continue
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		break
	}

	if doc == nil {
		return "", lastErr
	}

	name := TitleFromDocument(doc)
	if name == "" {
		return "", fmt.Errorf("no title found at %s", url)
	}
	return name, nil
}

// TitleFromDocument extracts a display name from a parsed page.
func TitleFromDocument(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		return strings.TrimSpace(og)
	}
	return ""
}
